package http

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/SeeratPeroz/Omran-Kebab/internal/domain"
)

// Quantity tolerates sloppy client input: numbers, numeric strings, absent or
// garbage values. Anything unusable or below 1 normalizes to 1.
type Quantity int

func (q *Quantity) UnmarshalJSON(data []byte) error {
	*q = 1

	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n > 1 {
			*q = Quantity(n)
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 1 {
			*q = Quantity(n)
		}
	}
	return nil
}

// OptionIDs accepts a single identifier (single-choice groups) or a list
// (multi-choice groups), as numbers or numeric strings.
type OptionIDs []int64

func (o *OptionIDs) UnmarshalJSON(data []byte) error {
	var single int64
	if err := json.Unmarshal(data, &single); err == nil {
		*o = OptionIDs{single}
		return nil
	}

	var many []int64
	if err := json.Unmarshal(data, &many); err == nil {
		*o = OptionIDs(many)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		id, err := strconv.ParseInt(strings.TrimSpace(str), 10, 64)
		if err != nil {
			return err
		}
		*o = OptionIDs{id}
		return nil
	}

	var strs []string
	if err := json.Unmarshal(data, &strs); err != nil {
		return err
	}
	ids := make([]int64, 0, len(strs))
	for _, s := range strs {
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	*o = OptionIDs(ids)
	return nil
}

type AddLineRequestDTO struct {
	ProductID  int64                `json:"product_id"`
	Quantity   Quantity             `json:"quantity"`
	Selections map[string]OptionIDs `json:"selections"`
}

// Selection converts the string-keyed JSON map into the domain shape.
func (r AddLineRequestDTO) Selection() (domain.Selection, error) {
	sel := make(domain.Selection, len(r.Selections))
	for key, ids := range r.Selections {
		groupID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, err
		}
		sel[groupID] = ids
	}
	return sel, nil
}

type CustomerInfoRequestDTO struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
}

func (r CustomerInfoRequestDTO) Info() domain.CustomerInfo {
	return domain.CustomerInfo{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Phone:      r.Phone,
		Street:     r.Street,
		PostalCode: r.PostalCode,
		City:       r.City,
	}
}

type PaymentConfirmationDTO struct {
	OrderID    string `json:"order_id"`
	PaymentRef string `json:"payment_ref"`
	Status     string `json:"status"`
}

type ChosenOptionDTO struct {
	OptionID   int64  `json:"option_id"`
	OptionName string `json:"option_name"`
	GroupName  string `json:"group_name"`
	PriceDelta string `json:"price_delta_at_selection"`
}

type OrderLineDTO struct {
	ID               int64             `json:"id"`
	ProductID        int64             `json:"product_id"`
	ProductName      string            `json:"product_name"`
	Quantity         int               `json:"quantity"`
	PriceAtSelection string            `json:"price_at_selection"`
	UnitTotal        string            `json:"unit_total"`
	LineTotal        string            `json:"line_total"`
	ChosenOptions    []ChosenOptionDTO `json:"chosen_options"`
}

type OrderResponseDTO struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	FullName      string         `json:"full_name,omitempty"`
	Phone         string         `json:"phone,omitempty"`
	AddressLine   string         `json:"address_line,omitempty"`
	PostalCode    string         `json:"postal_code,omitempty"`
	City          string         `json:"city,omitempty"`
	PaymentMethod string         `json:"payment_method,omitempty"`
	IsPaid        bool           `json:"is_paid"`
	OrderNumber   string         `json:"order_number,omitempty"`
	PlacedAt      string         `json:"placed_at,omitempty"`
	Lines         []OrderLineDTO `json:"lines"`
	Total         string         `json:"total"`
}

func toOrderDTO(order *domain.Order) OrderResponseDTO {
	dto := OrderResponseDTO{
		ID:            order.ID.String(),
		Status:        string(order.Status),
		FullName:      order.FullName,
		Phone:         order.Phone,
		AddressLine:   order.AddressLine,
		PostalCode:    order.PostalCode,
		City:          order.City,
		PaymentMethod: string(order.PaymentMethod),
		IsPaid:        order.IsPaid,
		OrderNumber:   order.OrderNumber,
		Lines:         make([]OrderLineDTO, 0, len(order.Lines)),
		Total:         order.Total().StringFixed(2),
	}
	if order.PlacedAt != nil {
		dto.PlacedAt = order.PlacedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	for _, l := range order.Lines {
		dto.Lines = append(dto.Lines, toLineDTO(l))
	}
	return dto
}

func toLineDTO(l domain.OrderLine) OrderLineDTO {
	dto := OrderLineDTO{
		ID:               l.ID,
		ProductID:        l.ProductID,
		ProductName:      l.ProductName,
		Quantity:         l.Quantity,
		PriceAtSelection: l.PriceAtSelection.StringFixed(2),
		UnitTotal:        l.UnitTotal().StringFixed(2),
		LineTotal:        l.LineTotal().StringFixed(2),
		ChosenOptions:    make([]ChosenOptionDTO, 0, len(l.ChosenOptions)),
	}
	for _, c := range l.ChosenOptions {
		dto.ChosenOptions = append(dto.ChosenOptions, ChosenOptionDTO{
			OptionID:   c.OptionID,
			OptionName: c.OptionName,
			GroupName:  c.GroupName,
			PriceDelta: c.PriceDeltaAtSelection.StringFixed(2),
		})
	}
	return dto
}

type OptionDTO struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PriceDelta string `json:"price_delta"`
}

type AttachedGroupDTO struct {
	GroupID   int64       `json:"group_id"`
	Name      string      `json:"name"`
	Required  bool        `json:"is_required"`
	MinSelect int         `json:"min_select"`
	MaxSelect int         `json:"max_select"`
	Options   []OptionDTO `json:"options"`
}

type ProductConfigDTO struct {
	ProductID   int64              `json:"product_id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Price       string             `json:"price"`
	IsAvailable bool               `json:"is_available"`
	Groups      []AttachedGroupDTO `json:"groups"`
}

func toProductConfigDTO(cfg *domain.ProductConfig) ProductConfigDTO {
	dto := ProductConfigDTO{
		ProductID:   cfg.Product.ID,
		Name:        cfg.Product.Name,
		Description: cfg.Product.Description,
		Price:       cfg.Product.Price.StringFixed(2),
		IsAvailable: cfg.Product.IsAvailable,
		Groups:      make([]AttachedGroupDTO, 0, len(cfg.Groups)),
	}
	for _, ag := range cfg.Groups {
		rule := ag.Rule()
		g := AttachedGroupDTO{
			GroupID:   ag.Group.ID,
			Name:      ag.Group.Name,
			Required:  rule.Required,
			MinSelect: rule.EffectiveMin(),
			MaxSelect: rule.Max,
			Options:   make([]OptionDTO, 0, len(ag.Options)),
		}
		for _, o := range ag.Options {
			g.Options = append(g.Options, OptionDTO{
				ID:         o.ID,
				Name:       o.Name,
				PriceDelta: o.PriceDelta.StringFixed(2),
			})
		}
		dto.Groups = append(dto.Groups, g)
	}
	return dto
}

type CheckoutLineDTO struct {
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
	Quantity   int    `json:"quantity"`
}
