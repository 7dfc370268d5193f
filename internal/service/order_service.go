package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/SeeratPeroz/Omran-Kebab/internal/domain"
	"github.com/SeeratPeroz/Omran-Kebab/internal/repository"
	"github.com/google/uuid"
)

const currency = "EUR"

// placementRetries bounds how often a colliding order number is regenerated.
const placementRetries = 3

type OrderService struct {
	orders  repository.OrderRepository
	catalog ProductConfigProvider
}

func NewOrderService(orders repository.OrderRepository, catalog ProductConfigProvider) *OrderService {
	return &OrderService{
		orders:  orders,
		catalog: catalog,
	}
}

func (s *OrderService) CreateOrder(ctx context.Context) (*domain.Order, error) {
	return s.orders.CreateOrder(ctx)
}

func (s *OrderService) Order(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

func (s *OrderService) OrderByNumber(ctx context.Context, number string) (*domain.Order, error) {
	return s.orders.GetOrderByNumber(ctx, number)
}

// AddLine validates the submitted selection against every option group
// attached to the product, snapshots the product price and option deltas, and
// persists the line with its chosen options in one transaction. Any group
// failure aborts the whole request with no persisted state.
func (s *OrderService) AddLine(ctx context.Context, orderID uuid.UUID, productID int64, quantity int, selection domain.Selection) (*domain.OrderLine, error) {
	if quantity < 1 {
		quantity = 1
	}

	cfg, err := s.catalog.ProductConfig(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !cfg.Product.IsAvailable {
		return nil, ErrProductUnavailable
	}

	line := &domain.OrderLine{
		ProductID:        cfg.Product.ID,
		ProductName:      cfg.Product.Name,
		Quantity:         quantity,
		PriceAtSelection: cfg.Product.Price,
	}

	// Validate group by group, in attachment order. Chosen options are only
	// accumulated; nothing touches storage until every group has passed.
	for _, ag := range cfg.Groups {
		chosen, err := validateGroup(ag, selection[ag.Group.ID])
		if err != nil {
			return nil, err
		}
		line.ChosenOptions = append(line.ChosenOptions, chosen...)
	}

	if err := s.orders.AddLine(ctx, orderID, line); err != nil {
		return nil, err
	}
	return line, nil
}

// validateGroup applies the effective rule of one attachment to the submitted
// option ids and returns the accepted options with their deltas snapshotted.
func validateGroup(ag domain.AttachedGroup, submitted []int64) ([]domain.ChosenOption, error) {
	rule := ag.Rule()
	min := rule.EffectiveMin()

	ids := make([]int64, 0, len(submitted))
	for _, id := range submitted {
		if id != 0 {
			ids = append(ids, id)
		}
	}

	if len(ids) < min {
		return nil, &SelectionError{
			GroupID:   ag.Group.ID,
			GroupName: ag.Group.Name,
			Reason:    SelectionTooFew,
			Min:       min,
			Max:       rule.Max,
		}
	}
	if rule.Max > 0 && len(ids) > rule.Max {
		return nil, &SelectionError{
			GroupID:   ag.Group.ID,
			GroupName: ag.Group.Name,
			Reason:    SelectionTooMany,
			Min:       min,
			Max:       rule.Max,
		}
	}

	// Resolve against the active options of this exact group. A count
	// mismatch covers unknown ids, ids of another group, inactive options
	// and duplicates.
	byID := make(map[int64]domain.Option, len(ag.Options))
	for _, o := range ag.Options {
		byID[o.ID] = o
	}
	resolved := make(map[int64]domain.Option, len(ids))
	for _, id := range ids {
		if o, ok := byID[id]; ok {
			resolved[id] = o
		}
	}
	if len(resolved) != len(ids) {
		return nil, &SelectionError{
			GroupID:   ag.Group.ID,
			GroupName: ag.Group.Name,
			Reason:    SelectionInvalid,
			Min:       min,
			Max:       rule.Max,
		}
	}

	chosen := make([]domain.ChosenOption, 0, len(ids))
	for _, id := range ids {
		o := resolved[id]
		chosen = append(chosen, domain.ChosenOption{
			OptionID:              o.ID,
			OptionName:            o.Name,
			GroupName:             ag.Group.Name,
			PriceDeltaAtSelection: o.PriceDelta,
		})
	}
	return chosen, nil
}

// RemoveProduct removes every line of the product from the order, regardless
// of how the lines are configured.
func (s *OrderService) RemoveProduct(ctx context.Context, orderID uuid.UUID, productID int64) error {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != domain.OrderStatusCart {
		return repository.ErrOrderNotInCart
	}
	_, err = s.orders.RemoveProductLines(ctx, orderID, productID)
	return err
}

func (s *OrderService) SetCustomerInfo(ctx context.Context, orderID uuid.UUID, info domain.CustomerInfo) error {
	if missing := info.MissingFields(); len(missing) > 0 {
		return &CustomerInfoError{Missing: missing}
	}
	return s.orders.UpdateCustomerInfo(ctx, orderID, info)
}

func (s *OrderService) SetPaymentSession(ctx context.Context, orderID uuid.UUID, sessionID string) error {
	return s.orders.SetPaymentSession(ctx, orderID, sessionID)
}

// PlaceCashOrder transitions the cart to PLACED for payment on delivery and
// returns the assigned order number.
func (s *OrderService) PlaceCashOrder(ctx context.Context, orderID uuid.UUID, info domain.CustomerInfo) (string, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	if len(order.Lines) == 0 {
		return "", ErrEmptyOrder
	}
	if missing := info.MissingFields(); len(missing) > 0 {
		return "", &CustomerInfoError{Missing: missing}
	}

	placement := domain.Placement{
		PlacedAt: time.Now(),
		Method:   domain.PaymentMethodCash,
		Paid:     false,
		Info:     &info,
	}
	placed, number, err := s.place(ctx, orderID, placement)
	if err != nil {
		return "", err
	}
	if !placed {
		return "", repository.ErrOrderNotInCart
	}
	return number, nil
}

// MarkOrderPaid is the payment collaborator entry point: flip the order to
// paid and placed. Safe to call more than once for the same order; replayed
// confirmations and unknown orders are logged and discarded.
func (s *OrderService) MarkOrderPaid(ctx context.Context, orderID uuid.UUID, paymentRef string) error {
	order, err := s.orders.GetOrder(ctx, orderID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		log.Printf("payment confirmation for unknown order %s, discarding", orderID)
		return nil
	}
	if err != nil {
		return err
	}
	if order.Status != domain.OrderStatusCart {
		log.Printf("payment confirmation replay for order %s (status %s), discarding", orderID, order.Status)
		return nil
	}
	if len(order.Lines) == 0 {
		return ErrEmptyOrder
	}

	placement := domain.Placement{
		PlacedAt:   time.Now(),
		Method:     domain.PaymentMethodOnline,
		Paid:       true,
		PaymentRef: paymentRef,
	}
	placed, _, err := s.place(ctx, orderID, placement)
	if err != nil {
		return err
	}
	if !placed {
		// Lost the race against a concurrent placement trigger; the order
		// number was assigned exactly once either way.
		log.Printf("order %s was placed concurrently, skipping", orderID)
	}
	return nil
}

// place runs the guarded placement, regenerating the order number on the
// off chance of a uniqueness collision.
func (s *OrderService) place(ctx context.Context, orderID uuid.UUID, p domain.Placement) (bool, string, error) {
	for attempt := 0; attempt < placementRetries; attempt++ {
		p.Number = domain.NewOrderNumber(p.PlacedAt)
		placed, err := s.orders.PlaceOrder(ctx, orderID, p)
		if errors.Is(err, repository.ErrDuplicateOrderNumber) {
			continue
		}
		if err != nil {
			return false, "", err
		}
		return placed, p.Number, nil
	}
	return false, "", fmt.Errorf("could not assign a unique order number after %d attempts", placementRetries)
}

// AdvanceStatus drives the operational fulfillment steps and cancellation.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID uuid.UUID, next domain.OrderStatus) error {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.Status.CanTransitionTo(next) {
		return ErrIllegalTransition
	}
	moved, err := s.orders.TransitionStatus(ctx, orderID, order.Status, next)
	if err != nil {
		return err
	}
	if !moved {
		return ErrIllegalTransition
	}
	return nil
}

func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) error {
	return s.AdvanceStatus(ctx, orderID, domain.OrderStatusCancelled)
}

// CheckoutLines builds the (display name, unit price in minor units, quantity)
// list the payment collaborator needs to construct its checkout session.
func (s *OrderService) CheckoutLines(ctx context.Context, orderID uuid.UUID) ([]domain.CheckoutLine, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(order.Lines) == 0 {
		return nil, ErrEmptyOrder
	}

	lines := make([]domain.CheckoutLine, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, domain.CheckoutLine{
			Name:            l.DisplayName(),
			UnitAmountMinor: l.UnitTotalMinorUnits(),
			Currency:        currency,
			Quantity:        l.Quantity,
		})
	}
	return lines, nil
}
