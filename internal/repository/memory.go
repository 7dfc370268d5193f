package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SeeratPeroz/Omran-Kebab/internal/domain"
	"github.com/google/uuid"
)

// MemoryStore implements CatalogRepository and OrderRepository with in-memory
// storage. It backs unit tests and local development without Postgres; the
// contract (ordering, filtering, guarded placement) matches the SQL
// implementation.
type MemoryStore struct {
	mu          sync.RWMutex
	products    map[int64]domain.Product
	groups      map[int64]domain.OptionGroup
	options     map[int64]domain.Option
	attachments []domain.ProductOptionGroup
	orders      map[uuid.UUID]*domain.Order
	numbers     map[string]uuid.UUID
	nextLineID  int64
	nextOptID   int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int64]domain.Product),
		groups:   make(map[int64]domain.OptionGroup),
		options:  make(map[int64]domain.Option),
		orders:   make(map[uuid.UUID]*domain.Order),
		numbers:  make(map[string]uuid.UUID),
	}
}

// ----- catalog seeding -----

func (s *MemoryStore) PutProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *MemoryStore) PutGroup(g domain.OptionGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[g.ID] = g
}

func (s *MemoryStore) PutOption(o domain.Option) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options[o.ID] = o
}

func (s *MemoryStore) Attach(a domain.ProductOptionGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.attachments {
		if existing.ProductID == a.ProductID && existing.GroupID == a.GroupID {
			s.attachments[i] = a
			return
		}
	}
	s.attachments = append(s.attachments, a)
}

// ----- catalog read model -----

func (s *MemoryStore) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (s *MemoryStore) GetProductConfig(ctx context.Context, productID int64) (*domain.ProductConfig, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var groups []domain.AttachedGroup
	for _, a := range s.attachments {
		if a.ProductID != productID {
			continue
		}
		g, ok := s.groups[a.GroupID]
		if !ok || !g.IsActive {
			continue
		}
		ag := domain.AttachedGroup{Group: g, Attachment: a}
		for _, o := range s.options {
			if o.GroupID == g.ID && o.IsActive {
				ag.Options = append(ag.Options, o)
			}
		}
		sort.Slice(ag.Options, func(i, j int) bool {
			if ag.Options[i].SortOrder != ag.Options[j].SortOrder {
				return ag.Options[i].SortOrder < ag.Options[j].SortOrder
			}
			return ag.Options[i].Name < ag.Options[j].Name
		})
		groups = append(groups, ag)
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Attachment.SortOrder != groups[j].Attachment.SortOrder {
			return groups[i].Attachment.SortOrder < groups[j].Attachment.SortOrder
		}
		if groups[i].Group.SortOrder != groups[j].Group.SortOrder {
			return groups[i].Group.SortOrder < groups[j].Group.SortOrder
		}
		return groups[i].Group.Name < groups[j].Group.Name
	})

	return &domain.ProductConfig{Product: *product, Groups: groups}, nil
}

// ----- order aggregate -----

func (s *MemoryStore) CreateOrder(context.Context) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order := &domain.Order{
		ID:        uuid.New(),
		Status:    domain.OrderStatusCart,
		CreatedAt: time.Now(),
	}
	s.orders[order.ID] = order
	return copyOrder(order), nil
}

func (s *MemoryStore) GetOrder(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return copyOrder(order), nil
}

func (s *MemoryStore) GetOrderByNumber(_ context.Context, number string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.numbers[number]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return copyOrder(s.orders[id]), nil
}

func (s *MemoryStore) AddLine(_ context.Context, orderID uuid.UUID, line *domain.OrderLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	if order.Status != domain.OrderStatusCart {
		return ErrOrderNotInCart
	}
	seen := make(map[int64]bool, len(line.ChosenOptions))
	for _, c := range line.ChosenOptions {
		if seen[c.OptionID] {
			return ErrDuplicateChosenOption
		}
		seen[c.OptionID] = true
	}

	s.nextLineID++
	line.ID = s.nextLineID
	line.OrderID = orderID
	for i := range line.ChosenOptions {
		s.nextOptID++
		line.ChosenOptions[i].ID = s.nextOptID
	}
	order.Lines = append(order.Lines, *copyLine(line))
	return nil
}

func (s *MemoryStore) RemoveProductLines(_ context.Context, orderID uuid.UUID, productID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return 0, ErrOrderNotFound
	}
	var kept []domain.OrderLine
	var removed int64
	for _, l := range order.Lines {
		if l.ProductID == productID {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	order.Lines = kept
	return removed, nil
}

func (s *MemoryStore) UpdateCustomerInfo(_ context.Context, orderID uuid.UUID, info domain.CustomerInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	applyInfo(order, info)
	return nil
}

func (s *MemoryStore) SetPaymentSession(_ context.Context, orderID uuid.UUID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	order.PaymentMethod = domain.PaymentMethodOnline
	order.PaymentSessionID = sessionID
	return nil
}

func (s *MemoryStore) PlaceOrder(_ context.Context, orderID uuid.UUID, p domain.Placement) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return false, ErrOrderNotFound
	}
	if order.Status != domain.OrderStatusCart || order.OrderNumber != "" {
		return false, nil
	}
	if _, taken := s.numbers[p.Number]; taken {
		return false, ErrDuplicateOrderNumber
	}

	order.Status = domain.OrderStatusPlaced
	order.OrderNumber = p.Number
	placedAt := p.PlacedAt
	order.PlacedAt = &placedAt
	order.PaymentMethod = p.Method
	order.IsPaid = p.Paid
	order.PaymentRef = p.PaymentRef
	if p.Info != nil {
		applyInfo(order, *p.Info)
	}
	s.numbers[p.Number] = orderID
	return true, nil
}

func (s *MemoryStore) TransitionStatus(_ context.Context, orderID uuid.UUID, from, to domain.OrderStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return false, ErrOrderNotFound
	}
	if order.Status != from {
		return false, nil
	}
	order.Status = to
	return true, nil
}

func applyInfo(order *domain.Order, info domain.CustomerInfo) {
	order.FullName = info.FullName()
	order.Phone = info.Phone
	order.AddressLine = info.Street
	order.PostalCode = info.PostalCode
	order.City = info.City
}

func copyOrder(o *domain.Order) *domain.Order {
	dup := *o
	if o.PlacedAt != nil {
		t := *o.PlacedAt
		dup.PlacedAt = &t
	}
	dup.Lines = make([]domain.OrderLine, len(o.Lines))
	for i := range o.Lines {
		dup.Lines[i] = *copyLine(&o.Lines[i])
	}
	return &dup
}

func copyLine(l *domain.OrderLine) *domain.OrderLine {
	dup := *l
	dup.ChosenOptions = append([]domain.ChosenOption(nil), l.ChosenOptions...)
	return &dup
}
