package checkout

import (
	"context"
	"fmt"
)

const (
	orderCounterName  = "orders"
	orderNumberPrefix = "IG-"
	firstOrderNumber  = 1001
)

// Allocator issues human-facing order numbers IG-1001, IG-1002, ...
type Allocator struct {
	store CounterStore
}

func NewAllocator(store CounterStore) *Allocator {
	return &Allocator{store: store}
}

func (a *Allocator) Next(ctx context.Context) (string, error) {
	n, err := a.store.Increment(ctx, orderCounterName, firstOrderNumber)
	if err != nil {
		return "", fmt.Errorf("allocate order number: %w", err)
	}
	return fmt.Sprintf("%s%d", orderNumberPrefix, n), nil
}
