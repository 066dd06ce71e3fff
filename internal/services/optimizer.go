package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"shipment-route-service/internal/domain"
	"shipment-route-service/internal/ports"
)

// OptimizeResult is the outcome of one optimize pass. An empty candidate
// pool is a successful zero-count result, not an error.
type OptimizeResult struct {
	Created int
	Message string
}

// plannedRoute pairs a fully planned route with the batch whose shipments
// it assigns, ready for the write phase.
type plannedRoute struct {
	route *domain.Route
	batch Batch
}

// AutoOptimize runs one full assignment pass: cluster unassigned shipments
// to their nearest active hub, batch each hub's backlog across that hub's
// available riders, and persist one active route per batch.
//
// The pass is split into a planning phase and a write phase. Planning reads
// the candidate pools and calls the directions provider; all route and
// assignment writes then run inside a single transaction, so any write
// failure rolls back every route of the pass and no external round trip
// happens while the transaction is open. There is no cross-invocation lock:
// two passes racing each other can observe the same rider or shipment as
// available, which is accepted and left to the storage engine's isolation.
func AutoOptimize(
	ctx context.Context,
	store ports.Store,
	estimator ports.DistanceEstimator,
	cfg OptimizerConfig,
) (OptimizeResult, error) {
	passID := uuid.NewString()

	plans, result, err := planPass(ctx, store, estimator, cfg)
	if err != nil {
		return OptimizeResult{}, fmt.Errorf("auto optimize: pass %s: %w", passID, err)
	}

	if len(plans) > 0 {
		err = store.InTx(ctx, func(tx ports.Store) error {
			for _, p := range plans {
				if err := persistPlannedRoute(ctx, tx, p.route, p.batch); err != nil {
					return fmt.Errorf("hub %d: %w", p.route.HubID, err)
				}
			}
			return nil
		})
		if err != nil {
			return OptimizeResult{}, fmt.Errorf("auto optimize: pass %s: %w", passID, err)
		}
	}

	log.Printf("optimize pass=%s created=%d msg=%q", passID, result.Created, result.Message)
	return result, nil
}

// planPass reads the candidate pools, clusters and batches them, and plans
// one route per batch. An empty pool short-circuits with a zero result.
func planPass(
	ctx context.Context,
	store ports.Store,
	estimator ports.DistanceEstimator,
	cfg OptimizerConfig,
) ([]plannedRoute, OptimizeResult, error) {
	hubs, err := store.ListActiveHubs(ctx)
	if err != nil {
		return nil, OptimizeResult{}, fmt.Errorf("list active hubs: %w", err)
	}
	if len(hubs) == 0 {
		return nil, OptimizeResult{Created: 0, Message: "no active hubs"}, nil
	}

	candidates, err := store.ListShipmentsWithStops(ctx, nil, OptimizePoolStatuses)
	if err != nil {
		return nil, OptimizeResult{}, fmt.Errorf("list shipment pool: %w", err)
	}
	pool := FilterUnassigned(candidates)
	if len(pool) == 0 {
		return nil, OptimizeResult{Created: 0, Message: "no unassigned shipments to optimize"}, nil
	}

	riders, err := store.ListAvailableRiders(ctx, nil)
	if err != nil {
		return nil, OptimizeResult{}, fmt.Errorf("list available riders: %w", err)
	}
	if len(riders) == 0 {
		return nil, OptimizeResult{Created: 0, Message: "no available riders"}, nil
	}

	clusters, err := ClusterByHub(pool, hubs, domain.PlanarDistance)
	if err != nil {
		return nil, OptimizeResult{}, fmt.Errorf("cluster shipments: %w", err)
	}

	// Route numbering restarts at 1 on every pass. Observed platform
	// behavior; kept as-is even though names are not unique across passes.
	var plans []plannedRoute
	created := 0
	for _, hub := range hubs {
		backlog := clusters[hub.HubID]
		if len(backlog) == 0 {
			continue
		}

		hubRiders := ridersForHub(riders, hub.HubID)
		for _, batch := range PlanBatches(backlog, hubRiders, cfg.BatchSize) {
			created++
			route, err := PlanRoute(ctx, estimator, cfg, PlanRouteRequest{
				Hub:    hub,
				Batch:  batch,
				Name:   fmt.Sprintf("%s - Automated Route #%d", hub.Name, created),
				Status: domain.RouteActive,
			})
			if err != nil {
				return nil, OptimizeResult{}, fmt.Errorf("hub %d: %w", hub.HubID, err)
			}
			plans = append(plans, plannedRoute{route: route, batch: batch})
		}
	}

	result := OptimizeResult{
		Created: created,
		Message: fmt.Sprintf("created %d automated routes", created),
	}
	return plans, result, nil
}
