package dto

type RiderResponse struct {
	RiderID int64  `json:"rider_id"`
	UserID  int64  `json:"user_id"`
	HubID   *int64 `json:"hub_id,omitempty"`
	Online  bool   `json:"online"`
}

type ListRidersResponse struct {
	Riders []RiderResponse `json:"riders"`
}
