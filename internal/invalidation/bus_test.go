package invalidation

import "testing"

func TestPublishReachesSubscribedResourcesOnly(t *testing.T) {
	bus := NewBus()
	var inventoryIDs, alertIDs, movementIDs []string

	bus.Subscribe(ResourceInventory, func(id string) { inventoryIDs = append(inventoryIDs, id) })
	bus.Subscribe(ResourceAlerts, func(id string) { alertIDs = append(alertIDs, id) })
	bus.Subscribe(ResourceMovements, func(id string) { movementIDs = append(movementIDs, id) })

	bus.Publish("prod-1", ResourceInventory, ResourceAlerts)

	if len(inventoryIDs) != 1 || inventoryIDs[0] != "prod-1" {
		t.Fatalf("unexpected inventory notifications %v", inventoryIDs)
	}
	if len(alertIDs) != 1 {
		t.Fatalf("unexpected alert notifications %v", alertIDs)
	}
	if len(movementIDs) != 0 {
		t.Fatalf("movements should not have been notified, got %v", movementIDs)
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	bus := NewBus()
	calls := 0
	cancel := bus.Subscribe(ResourceInventory, func(string) { calls++ })

	bus.Publish("p", ResourceInventory)
	cancel()
	bus.Publish("p", ResourceInventory)

	if calls != 1 {
		t.Fatalf("expected one delivery, got %d", calls)
	}
}

func TestPublishWithNoSubscribersIsNoop(t *testing.T) {
	bus := NewBus()
	bus.Publish("p", MovementDependents...)
}
