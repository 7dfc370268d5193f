package repository

import (
	"context"
	"errors"

	"github.com/SeeratPeroz/Omran-Kebab/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderNotInCart        = errors.New("order is no longer in cart status")
	ErrDuplicateOrderNumber  = errors.New("order number already taken")
	ErrDuplicateChosenOption = errors.New("option already chosen for this line")
	ErrCatalogRowReferenced  = errors.New("catalog row is referenced by order history")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// CatalogRepository is the read model over the catalog tables. Lookups are
// non-blocking and side-effect free.
type CatalogRepository interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	// GetProductConfig returns the product with its attached option groups in
	// attachment order, then group order, then group name. Inactive groups and
	// inactive options are excluded; overrides are returned raw so callers
	// resolve the effective rule per request.
	GetProductConfig(ctx context.Context, productID int64) (*domain.ProductConfig, error)
}

// OrderRepository owns the order aggregate rows. AddLine and PlaceOrder are
// the two operations with transactional guarantees: AddLine inserts the line
// and its chosen options atomically, PlaceOrder performs the guarded
// cart-to-placed read-modify-write.
type OrderRepository interface {
	CreateOrder(ctx context.Context) (*domain.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetOrderByNumber(ctx context.Context, number string) (*domain.Order, error)
	// AddLine persists the line and its chosen options in one transaction.
	// Fails with ErrOrderNotFound or ErrOrderNotInCart without persisting
	// anything. On success the line and option ids are filled in.
	AddLine(ctx context.Context, orderID uuid.UUID, line *domain.OrderLine) error
	// RemoveProductLines deletes every line of the product from the order and
	// reports how many lines went away. There is no per-line removal.
	RemoveProductLines(ctx context.Context, orderID uuid.UUID, productID int64) (int64, error)
	UpdateCustomerInfo(ctx context.Context, orderID uuid.UUID, info domain.CustomerInfo) error
	SetPaymentSession(ctx context.Context, orderID uuid.UUID, sessionID string) error
	// PlaceOrder assigns the order number and flips the status in a single
	// guarded update. Returns false when the order exists but is not in cart
	// status anymore, so replayed placements become no-ops.
	PlaceOrder(ctx context.Context, orderID uuid.UUID, p domain.Placement) (bool, error)
	// TransitionStatus moves the order from one status to another only if it
	// is still in the expected current status.
	TransitionStatus(ctx context.Context, orderID uuid.UUID, from, to domain.OrderStatus) (bool, error)
}
