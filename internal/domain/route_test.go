package domain

import "testing"

func TestStopRefBlocks(t *testing.T) {
	rider := int64(7)
	otherRider := int64(9)

	cases := []struct {
		name          string
		ref           StopRef
		shipmentRider *int64
		want          bool
	}{
		{
			name: "draft route always blocks",
			ref:  StopRef{RouteStatus: RouteDraft, StopStatus: StopPending},
			want: true,
		},
		{
			name:          "active route with matching rider blocks",
			ref:           StopRef{RouteStatus: RouteActive, RouteRiderID: &rider, StopStatus: StopPending},
			shipmentRider: &rider,
			want:          true,
		},
		{
			name:          "active route with different rider does not block",
			ref:           StopRef{RouteStatus: RouteActive, RouteRiderID: &otherRider, StopStatus: StopPending},
			shipmentRider: &rider,
			want:          false,
		},
		{
			name: "active route without rider does not block",
			ref:  StopRef{RouteStatus: RouteActive, StopStatus: StopPending},
			want: false,
		},
		{
			name:          "completed stop never blocks even on draft route",
			ref:           StopRef{RouteStatus: RouteDraft, StopStatus: StopCompleted},
			shipmentRider: &rider,
			want:          false,
		},
		{
			name:          "completed route never blocks",
			ref:           StopRef{RouteStatus: RouteCompleted, RouteRiderID: &rider, StopStatus: StopPending},
			shipmentRider: &rider,
			want:          false,
		},
		{
			name:          "deleted route never blocks",
			ref:           StopRef{RouteStatus: RouteDeleted, RouteRiderID: &rider, StopStatus: StopPending},
			shipmentRider: &rider,
			want:          false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.ref.Blocks(tc.shipmentRider); got != tc.want {
				t.Fatalf("Blocks() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPlanarDistance(t *testing.T) {
	a := Point{Lat: 0, Lon: 0}
	b := Point{Lat: 3, Lon: 4}

	if got := PlanarDistance(a, b); got != 5 {
		t.Fatalf("PlanarDistance = %v, want 5", got)
	}
	if got := PlanarDistance(b, b); got != 0 {
		t.Fatalf("PlanarDistance of identical points = %v, want 0", got)
	}
}
