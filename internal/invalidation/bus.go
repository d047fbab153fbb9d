// Package invalidation is the explicit cross-store staleness channel.
// Mutations that affect other entity kinds publish the product id they
// touched, keyed by the dependent resource, so those stores refresh
// deterministically instead of waiting for the next screen mount.
package invalidation

import "sync"

// Resource names a dependent store kind.
type Resource string

const (
	ResourceInventory Resource = "inventory"
	ResourceAlerts    Resource = "alerts"
	ResourceMovements Resource = "movements"
)

// MovementDependents lists the resources staled by a new movement on a
// product: its stock projection, its alerts, and any movement list.
var MovementDependents = []Resource{ResourceInventory, ResourceAlerts, ResourceMovements}

type subscriber struct {
	id int
	fn func(productID string)
}

// Bus is an in-process publish/subscribe registry. Handlers run
// synchronously on the publishing goroutine, in subscription order.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Resource][]subscriber
}

func NewBus() *Bus {
	return &Bus{subs: map[Resource][]subscriber{}}
}

// Subscribe registers a handler for one resource and returns its cancel
// function.
func (b *Bus) Subscribe(resource Resource, fn func(productID string)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs[resource] = append(b.subs[resource], subscriber{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		kept := b.subs[resource][:0]
		for _, sub := range b.subs[resource] {
			if sub.id != id {
				kept = append(kept, sub)
			}
		}
		b.subs[resource] = kept
	}
}

// Publish notifies every handler registered for the given resources.
func (b *Bus) Publish(productID string, resources ...Resource) {
	b.mu.Lock()
	var handlers []func(string)
	for _, resource := range resources {
		for _, sub := range b.subs[resource] {
			handlers = append(handlers, sub.fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(productID)
	}
}
