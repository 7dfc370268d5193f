package domain

import "github.com/shopspring/decimal"

type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	SortOrder int    `json:"sort_order"`
	IsActive  bool   `json:"is_active"`
}

type Product struct {
	ID          int64           `json:"id"`
	CategoryID  int64           `json:"category_id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"is_available"`
}

// OptionGroup holds the selection rule defaults. MaxSelect 1 means
// single-choice, >1 multi-choice, 0 no upper bound.
type OptionGroup struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Required  bool   `json:"is_required"`
	MinSelect int    `json:"min_select"`
	MaxSelect int    `json:"max_select"`
	SortOrder int    `json:"sort_order"`
	IsActive  bool   `json:"is_active"`
}

type Option struct {
	ID         int64           `json:"id"`
	GroupID    int64           `json:"group_id"`
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"price_delta"`
	SortOrder  int             `json:"sort_order"`
	IsActive   bool            `json:"is_active"`
}

// ProductOptionGroup attaches an option group to a product. Overrides that are
// Inherit fall back to the group defaults on every resolution.
type ProductOptionGroup struct {
	ProductID int64          `json:"product_id"`
	GroupID   int64          `json:"group_id"`
	Required  Override[bool] `json:"is_required"`
	MinSelect Override[int]  `json:"min_select"`
	MaxSelect Override[int]  `json:"max_select"`
	SortOrder int            `json:"sort_order"`
}

// SelectionRule is the resolved (required, min, max) triple governing one
// product+group pairing.
type SelectionRule struct {
	Required bool `json:"is_required"`
	Min      int  `json:"min_select"`
	Max      int  `json:"max_select"`
}

// EffectiveMin applies the required-group floor: a group marked required
// demands at least one selection even when configured with min 0.
func (r SelectionRule) EffectiveMin() int {
	if r.Required && r.Min == 0 {
		return 1
	}
	return r.Min
}

// EffectiveRule resolves the attachment overrides against the group defaults.
// Pure and side-effect free; callers resolve on every validation rather than
// caching the result.
func (a ProductOptionGroup) EffectiveRule(g OptionGroup) SelectionRule {
	return SelectionRule{
		Required: a.Required.Or(g.Required),
		Min:      a.MinSelect.Or(g.MinSelect),
		Max:      a.MaxSelect.Or(g.MaxSelect),
	}
}

// AttachedGroup is one row of the product configuration read model: the group,
// its active options in display order, and the raw attachment.
type AttachedGroup struct {
	Group      OptionGroup        `json:"group"`
	Attachment ProductOptionGroup `json:"attachment"`
	Options    []Option           `json:"options"`
}

// Rule resolves the effective selection rule for this attachment.
func (ag AttachedGroup) Rule() SelectionRule {
	return ag.Attachment.EffectiveRule(ag.Group)
}

// ProductConfig is the full configuration surface for one product: the product
// itself plus its attached groups ordered by attachment sort order, then group
// sort order, then group name.
type ProductConfig struct {
	Product Product         `json:"product"`
	Groups  []AttachedGroup `json:"groups"`
}

// Selection is a client-submitted choice set: option ids keyed by group id.
type Selection map[int64][]int64
