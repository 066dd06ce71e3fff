package dto

type OptimizeResponse struct {
	Success bool   `json:"success"`
	Created int    `json:"created"`
	Message string `json:"message"`
}
