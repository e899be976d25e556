package cart

import "context"

// StorageNamespace is the fixed key the cart snapshot persists under.
const StorageNamespace = "rfq-cart-storage"

// Storage is the persistence port the container reads and writes through.
// Load returns an empty state when nothing has been saved yet.
type Storage interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}
