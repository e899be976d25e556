package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Container holds the live cart state behind a mutex and writes every
// mutation through the storage port. Last writer wins.
type Container struct {
	mu      sync.Mutex
	storage Storage
	state   State
}

// NewContainer builds a container and reloads the persisted snapshot verbatim.
func NewContainer(ctx context.Context, storage Storage) (*Container, error) {
	if storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	state, err := storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Container{storage: storage, state: state}, nil
}

// AddItem merges on identity: an existing line gains the incoming quantity
// and keeps its own price and display fields. New identities append in order.
func (c *Container) AddItem(ctx context.Context, item Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := item.identity()
	merged := false
	for i := range c.state.Items {
		if c.state.Items[i].identity() == key {
			c.state.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		c.state.Items = append(c.state.Items, item)
	}
	return c.persist(ctx)
}

// RemoveItem drops the line with the given identity. Absent lines are a no-op.
func (c *Container) RemoveItem(ctx context.Context, productID uuid.UUID, skuCode string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := Item{ProductID: productID, SKUCode: skuCode}.identity()
	for i := range c.state.Items {
		if c.state.Items[i].identity() == key {
			c.state.Items = append(c.state.Items[:i], c.state.Items[i+1:]...)
			return c.persist(ctx)
		}
	}
	return nil
}

// UpdateQuantity replaces the line's quantity as given. Missing identities
// are silently ignored. Quantity bounds are the caller's concern.
func (c *Container) UpdateQuantity(ctx context.Context, productID uuid.UUID, skuCode string, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := Item{ProductID: productID, SKUCode: skuCode}.identity()
	for i := range c.state.Items {
		if c.state.Items[i].identity() == key {
			c.state.Items[i].Quantity = qty
			return c.persist(ctx)
		}
	}
	return nil
}

// Clear empties the cart.
func (c *Container) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = State{}
	return c.persist(ctx)
}

// Items returns a copy of the current lines in insertion order.
func (c *Container) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Item, len(c.state.Items))
	copy(out, c.state.Items)
	return out
}

// TotalItems sums line quantities.
func (c *Container) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, item := range c.state.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums unit price times quantity across lines.
func (c *Container) TotalPrice() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, item := range c.state.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Reset drops in-memory state without touching storage. Test hook.
func (c *Container) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{}
}

func (c *Container) persist(ctx context.Context) error {
	return c.storage.Save(ctx, c.state)
}
