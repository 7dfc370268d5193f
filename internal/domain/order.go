package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusCart       OrderStatus = "CART"
	OrderStatusPlaced     OrderStatus = "PLACED"
	OrderStatusPreparing  OrderStatus = "PREPARING"
	OrderStatusDelivering OrderStatus = "DELIVERING"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// transitions lists the legal next states. Cancellation is reachable from
// CART and PLACED only; later fulfillment states are controlled operationally.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusCart:       {OrderStatusPlaced, OrderStatusCancelled},
	OrderStatusPlaced:     {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:  {OrderStatusDelivering},
	OrderStatusDelivering: {OrderStatusCompleted},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodOnline PaymentMethod = "ONLINE"
)

// ChosenOption is a snapshot of one selected option on an order line. The
// price delta is copied at selection time and never recomputed from the
// catalog. Names are resolved from the catalog when the line is loaded.
type ChosenOption struct {
	ID                    int64           `json:"id"`
	OptionID              int64           `json:"option_id"`
	OptionName            string          `json:"option_name"`
	GroupName             string          `json:"group_name"`
	PriceDeltaAtSelection decimal.Decimal `json:"price_delta_at_selection"`
}

// OrderLine is one configured product within an order. PriceAtSelection is the
// product price frozen at line creation; later catalog edits never touch it.
type OrderLine struct {
	ID               int64           `json:"id"`
	OrderID          uuid.UUID       `json:"order_id"`
	ProductID        int64           `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Quantity         int             `json:"quantity"`
	PriceAtSelection decimal.Decimal `json:"price_at_selection"`
	ChosenOptions    []ChosenOption  `json:"chosen_options"`
}

// OptionsTotal sums the snapshotted deltas for one unit.
func (l OrderLine) OptionsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, c := range l.ChosenOptions {
		total = total.Add(c.PriceDeltaAtSelection)
	}
	return total
}

// UnitTotal is base price plus options for one unit.
func (l OrderLine) UnitTotal() decimal.Decimal {
	return l.PriceAtSelection.Add(l.OptionsTotal())
}

func (l OrderLine) LineTotal() decimal.Decimal {
	return l.UnitTotal().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// UnitTotalMinorUnits renders the unit total in minor currency units (cents)
// for the payment collaborator.
func (l OrderLine) UnitTotalMinorUnits() int64 {
	return l.UnitTotal().Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// DisplayName renders the product name with the chosen options spelled out,
// e.g. "Döner-Kebab (Soße deiner Wahl: Knoblauch | Extras: Käse)".
func (l OrderLine) DisplayName() string {
	if len(l.ChosenOptions) == 0 {
		return l.ProductName
	}
	parts := make([]string, 0, len(l.ChosenOptions))
	for _, c := range l.ChosenOptions {
		parts = append(parts, fmt.Sprintf("%s: %s", c.GroupName, c.OptionName))
	}
	return fmt.Sprintf("%s (%s)", l.ProductName, strings.Join(parts, " | "))
}

// CheckoutLine is what the payment collaborator needs to build its own
// checkout session for one order line.
type CheckoutLine struct {
	Name            string `json:"name"`
	UnitAmountMinor int64  `json:"unit_amount"`
	Currency        string `json:"currency"`
	Quantity        int    `json:"quantity"`
}

// CustomerInfo carries the contact and delivery fields collected at checkout.
// First name is optional, everything else is required for delivery.
type CustomerInfo struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
}

func (c CustomerInfo) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// MissingFields returns the names of required fields that are empty.
func (c CustomerInfo) MissingFields() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"last_name", c.LastName},
		{"phone", c.Phone},
		{"street", c.Street},
		{"postal_code", c.PostalCode},
		{"city", c.City},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Placement carries everything a cart-to-placed transition writes in one
// guarded update.
type Placement struct {
	Number     string
	PlacedAt   time.Time
	Method     PaymentMethod
	Paid       bool
	PaymentRef string
	Info       *CustomerInfo
}

// Order is the root aggregate. It exclusively owns its lines; catalog rows are
// referenced, never owned.
type Order struct {
	ID               uuid.UUID     `json:"id"`
	Status           OrderStatus   `json:"status"`
	FullName         string        `json:"full_name"`
	Phone            string        `json:"phone"`
	Email            string        `json:"email"`
	AddressLine      string        `json:"address_line"`
	City             string        `json:"city"`
	PostalCode       string        `json:"postal_code"`
	Notes            string        `json:"notes"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
	IsPaid           bool          `json:"is_paid"`
	PaymentSessionID string        `json:"payment_session_id"`
	PaymentRef       string        `json:"payment_ref"`
	OrderNumber      string        `json:"order_number"`
	CreatedAt        time.Time     `json:"created_at"`
	PlacedAt         *time.Time    `json:"placed_at"`
	Lines            []OrderLine   `json:"lines"`
}

// Total derives the order total from the stored line snapshots. Totals are
// never persisted.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

const orderNumberPrefix = "OK"

// NewOrderNumber builds a human-readable order number like OK-20260113-7F3A2B.
// The random suffix makes collisions negligible; the orders table still
// enforces uniqueness.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", orderNumberPrefix, now.Format("20060102"), suffix)
}
