package domain

import "math"

// Geographic point (latitude, longitude).
type Point struct {
	Lat float64
	Lon float64
}

// DistanceMetric computes a scalar distance between two points. Clustering
// takes the metric as a parameter so geodesic or road-network distance can
// be substituted without touching the clustering logic.
type DistanceMetric func(a, b Point) float64

// PlanarDistance returns the Euclidean distance between two points, computed
// directly on latitude/longitude values with no geodesic correction.
// Acceptable at city scale; biased over long distances and near the poles or
// the date line.
func PlanarDistance(a, b Point) float64 {
	dLat := a.Lat - b.Lat
	dLon := a.Lon - b.Lon
	return math.Sqrt(dLat*dLat + dLon*dLon)
}
