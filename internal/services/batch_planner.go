package services

import (
	"shipment-route-service/internal/domain"
)

// DefaultBatchSize is the maximum number of shipments one rider receives in
// a single optimize pass.
const DefaultBatchSize = 8

// Batch pairs one rider with a bounded group of shipments.
type Batch struct {
	Rider     *domain.Rider
	Shipments []*domain.Shipment
}

// PlanBatches partitions the backlog into fixed-size slices and pairs slice
// i with rider i, stopping as soon as either the backlog or the rider list
// is exhausted. Backlog order is taken as given, never re-sorted.
//
// Each rider is consumed at most once per call; shipments left over when
// riders run out stay untouched for the next pass or for manual planning.
func PlanBatches(shipments []*domain.Shipment, riders []*domain.Rider, batchSize int) []Batch {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	batches := make([]Batch, 0, len(riders))
	for i, rider := range riders {
		start := i * batchSize
		if start >= len(shipments) {
			break
		}

		end := start + batchSize
		if end > len(shipments) {
			end = len(shipments)
		}

		batches = append(batches, Batch{Rider: rider, Shipments: shipments[start:end]})
	}

	return batches
}
