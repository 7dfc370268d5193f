package service

import (
	"context"
	"testing"

	"github.com/SeeratPeroz/Omran-Kebab/internal/domain"
	"github.com/SeeratPeroz/Omran-Kebab/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// directCatalog serves product configurations straight from the store,
// bypassing the redis cache.
type directCatalog struct {
	store *repository.MemoryStore
}

func (d directCatalog) ProductConfig(ctx context.Context, productID int64) (*domain.ProductConfig, error) {
	return d.store.GetProductConfig(ctx, productID)
}

const (
	productDoener      = int64(1)
	productPommes      = int64(2)
	productSoldOut     = int64(3)
	productMisRequired = int64(4)

	groupSauce    = int64(1)
	groupExtras   = int64(2)
	groupPortion  = int64(3)
	groupInactive = int64(4)
	groupSide     = int64(5)

	optKnoblauch = int64(11)
	optKraeuter  = int64(12)
	optScharf    = int64(13)
	optRetired   = int64(14)
	optKaese     = int64(21)
	optFleisch   = int64(22)
	optKlein     = int64(31)
	optMittel    = int64(32)
	optGross     = int64(33)
	optSalat     = int64(51)
)

func seedCatalog(store *repository.MemoryStore) {
	store.PutProduct(domain.Product{ID: productDoener, Name: "Döner-Kebab", Price: dec("6.50"), IsAvailable: true})
	store.PutProduct(domain.Product{ID: productPommes, Name: "Pommes frites", Price: dec("3.50"), IsAvailable: true})
	store.PutProduct(domain.Product{ID: productSoldOut, Name: "Lahmacun", Price: dec("5.00"), IsAvailable: false})
	store.PutProduct(domain.Product{ID: productMisRequired, Name: "Dürüm", Price: dec("7.00"), IsAvailable: true})

	store.PutGroup(domain.OptionGroup{ID: groupSauce, Name: "Soße deiner Wahl", Required: true, MinSelect: 1, MaxSelect: 1, IsActive: true})
	store.PutGroup(domain.OptionGroup{ID: groupExtras, Name: "Extras", Required: false, MinSelect: 0, MaxSelect: 3, SortOrder: 1, IsActive: true})
	store.PutGroup(domain.OptionGroup{ID: groupPortion, Name: "Portion deiner Wahl", Required: true, MinSelect: 1, MaxSelect: 1, IsActive: true})
	store.PutGroup(domain.OptionGroup{ID: groupInactive, Name: "Alte Gruppe", Required: true, MinSelect: 1, MaxSelect: 1, IsActive: false})
	// Required but configured with min 0.
	store.PutGroup(domain.OptionGroup{ID: groupSide, Name: "Beilage", Required: true, MinSelect: 0, MaxSelect: 1, IsActive: true})

	store.PutOption(domain.Option{ID: optKnoblauch, GroupID: groupSauce, Name: "Knoblauch", PriceDelta: dec("0.00"), IsActive: true})
	store.PutOption(domain.Option{ID: optKraeuter, GroupID: groupSauce, Name: "Kräuter", PriceDelta: dec("0.00"), SortOrder: 1, IsActive: true})
	store.PutOption(domain.Option{ID: optScharf, GroupID: groupSauce, Name: "Scharf", PriceDelta: dec("0.00"), SortOrder: 2, IsActive: true})
	store.PutOption(domain.Option{ID: optRetired, GroupID: groupSauce, Name: "Cocktail", PriceDelta: dec("0.00"), SortOrder: 3, IsActive: false})
	store.PutOption(domain.Option{ID: optKaese, GroupID: groupExtras, Name: "Käse", PriceDelta: dec("1.00"), IsActive: true})
	store.PutOption(domain.Option{ID: optFleisch, GroupID: groupExtras, Name: "Extra Fleisch", PriceDelta: dec("2.50"), SortOrder: 1, IsActive: true})
	store.PutOption(domain.Option{ID: optKlein, GroupID: groupPortion, Name: "Klein", PriceDelta: dec("0.00"), IsActive: true})
	store.PutOption(domain.Option{ID: optMittel, GroupID: groupPortion, Name: "Mittel", PriceDelta: dec("1.00"), SortOrder: 1, IsActive: true})
	store.PutOption(domain.Option{ID: optGross, GroupID: groupPortion, Name: "Groß", PriceDelta: dec("2.00"), SortOrder: 2, IsActive: true})
	store.PutOption(domain.Option{ID: optSalat, GroupID: groupSide, Name: "Salat", PriceDelta: dec("0.50"), IsActive: true})

	store.Attach(domain.ProductOptionGroup{ProductID: productDoener, GroupID: groupSauce})
	store.Attach(domain.ProductOptionGroup{ProductID: productDoener, GroupID: groupExtras, SortOrder: 1})
	store.Attach(domain.ProductOptionGroup{ProductID: productDoener, GroupID: groupInactive, SortOrder: 2})
	store.Attach(domain.ProductOptionGroup{ProductID: productPommes, GroupID: groupPortion})
	store.Attach(domain.ProductOptionGroup{ProductID: productMisRequired, GroupID: groupSide})
}

func newTestService(t *testing.T) (*OrderService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	seedCatalog(store)
	return NewOrderService(store, directCatalog{store}), store
}

func newCart(t *testing.T, sut *OrderService) uuid.UUID {
	t.Helper()
	order, err := sut.CreateOrder(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusCart, order.Status)
	return order.ID
}

func validInfo() domain.CustomerInfo {
	return domain.CustomerInfo{
		FirstName:  "Seerat",
		LastName:   "Peroz",
		Phone:      "0151234567",
		Street:     "Hauptstraße 1",
		PostalCode: "12345",
		City:       "Berlin",
	}
}

// ----- add line / selection validation -----

func TestAddLine_DoenerWithSauce(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	line, err := sut.AddLine(context.Background(), cartID, productDoener, 2, domain.Selection{
		groupSauce: {optKnoblauch},
	})
	require.NoError(t, err)

	assert.True(t, line.UnitTotal().Equal(dec("6.50")), "unit total %s", line.UnitTotal())
	assert.True(t, line.LineTotal().Equal(dec("13.00")), "line total %s", line.LineTotal())
	require.Len(t, line.ChosenOptions, 1)
	assert.Equal(t, "Knoblauch", line.ChosenOptions[0].OptionName)
	assert.Equal(t, "Soße deiner Wahl", line.ChosenOptions[0].GroupName)

	order, err := sut.Order(context.Background(), cartID)
	require.NoError(t, err)
	require.Len(t, order.Lines, 1)
	assert.True(t, order.Total().Equal(dec("13.00")))
}

func TestAddLine_PommesGross(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	line, err := sut.AddLine(context.Background(), cartID, productPommes, 1, domain.Selection{
		groupPortion: {optGross},
	})
	require.NoError(t, err)
	assert.True(t, line.UnitTotal().Equal(dec("5.50")), "unit total %s", line.UnitTotal())
}

func TestAddLine_ZeroSauces_TooFew(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	_, err := sut.AddLine(context.Background(), cartID, productDoener, 1, domain.Selection{})

	var selErr *SelectionError
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, SelectionTooFew, selErr.Reason)
	assert.Equal(t, groupSauce, selErr.GroupID)
	assert.Equal(t, "Soße deiner Wahl", selErr.GroupName)

	// Nothing persisted.
	order, err := sut.Order(context.Background(), cartID)
	require.NoError(t, err)
	assert.Empty(t, order.Lines)
}

func TestAddLine_TwoSauces_TooMany(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	_, err := sut.AddLine(context.Background(), cartID, productDoener, 1, domain.Selection{
		groupSauce: {optKnoblauch, optScharf},
	})

	var selErr *SelectionError
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, SelectionTooMany, selErr.Reason)
	assert.Equal(t, 1, selErr.Max)
}

func TestAddLine_OptionFromAnotherGroup_Invalid(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	// optGross belongs to the portion group, not the sauce group.
	_, err := sut.AddLine(context.Background(), cartID, productDoener, 1, domain.Selection{
		groupSauce: {optGross},
	})

	var selErr *SelectionError
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, SelectionInvalid, selErr.Reason)
	assert.Equal(t, groupSauce, selErr.GroupID)
}

func TestAddLine_InactiveOption_Invalid(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	_, err := sut.AddLine(context.Background(), cartID, productDoener, 1, domain.Selection{
		groupSauce: {optRetired},
	})

	var selErr *SelectionError
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, SelectionInvalid, selErr.Reason)
}

func TestAddLine_UnknownOption_Invalid(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	_, err := sut.AddLine(context.Background(), cartID, productDoener, 1, domain.Selection{
		groupSauce: {99999},
	})

	var selErr *SelectionError
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, SelectionInvalid, selErr.Reason)
}

func TestAddLine_DuplicateOptionIDs_Invalid(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	_, err := sut.AddLine(context.Background(), cartID, productDoener, 1, domain.Selection{
		groupSauce:  {optKnoblauch},
		groupExtras: {optKaese, optKaese},
	})

	var selErr *SelectionError
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, SelectionInvalid, selErr.Reason)
	assert.Equal(t, groupExtras, selErr.GroupID)
}

// A required group with min 0 must still demand exactly one selection.
func TestAddLine_RequiredGroupWithMinZero_DemandsOne(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	_, err := sut.AddLine(context.Background(), cartID, productMisRequired, 1, domain.Selection{})

	var selErr *SelectionError
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, SelectionTooFew, selErr.Reason)
	assert.Equal(t, 1, selErr.Min)

	_, err = sut.AddLine(context.Background(), cartID, productMisRequired, 1, domain.Selection{
		groupSide: {optSalat},
	})
	require.NoError(t, err)
}

func TestAddLine_InactiveGroupIsSkipped(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	// groupInactive is attached to the Döner but flagged inactive; it must
	// not demand a selection.
	_, err := sut.AddLine(context.Background(), cartID, productDoener, 1, domain.Selection{
		groupSauce: {optKnoblauch},
	})
	require.NoError(t, err)
}

func TestAddLine_OptionalGroupMayBeEmpty(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	line, err := sut.AddLine(context.Background(), cartID, productDoener, 1, domain.Selection{
		groupSauce:  {optScharf},
		groupExtras: {},
	})
	require.NoError(t, err)
	assert.Len(t, line.ChosenOptions, 1)
}

func TestAddLine_MultiChoiceWithDeltas(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	line, err := sut.AddLine(context.Background(), cartID, productDoener, 1, domain.Selection{
		groupSauce:  {optKraeuter},
		groupExtras: {optKaese, optFleisch},
	})
	require.NoError(t, err)
	assert.True(t, line.UnitTotal().Equal(dec("10.00")), "unit total %s", line.UnitTotal())
}

func TestAddLine_QuantityNormalizesToOne(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	line, err := sut.AddLine(context.Background(), cartID, productDoener, 0, domain.Selection{
		groupSauce: {optKnoblauch},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)

	line, err = sut.AddLine(context.Background(), cartID, productDoener, -5, domain.Selection{
		groupSauce: {optKnoblauch},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)
}

func TestAddLine_ProductNotFound(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	_, err := sut.AddLine(context.Background(), cartID, 99999, 1, nil)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestAddLine_ProductUnavailable(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	_, err := sut.AddLine(context.Background(), cartID, productSoldOut, 1, nil)
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestAddLine_OrderNotFound(t *testing.T) {
	sut, _ := newTestService(t)

	_, err := sut.AddLine(context.Background(), uuid.New(), productDoener, 1, domain.Selection{
		groupSauce: {optKnoblauch},
	})
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestAddLine_RejectedAfterPlacement(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	_, err := sut.AddLine(context.Background(), cartID, productDoener, 1, domain.Selection{
		groupSauce: {optKnoblauch},
	})
	require.NoError(t, err)
	_, err = sut.PlaceCashOrder(context.Background(), cartID, validInfo())
	require.NoError(t, err)

	_, err = sut.AddLine(context.Background(), cartID, productDoener, 1, domain.Selection{
		groupSauce: {optKnoblauch},
	})
	assert.ErrorIs(t, err, repository.ErrOrderNotInCart)
}

// ----- price snapshots -----

func TestSnapshots_SurviveCatalogEdits(t *testing.T) {
	sut, store := newTestService(t)
	cartID := newCart(t, sut)

	_, err := sut.AddLine(context.Background(), cartID, productPommes, 1, domain.Selection{
		groupPortion: {optGross},
	})
	require.NoError(t, err)

	// Reprice and deactivate the catalog rows afterwards.
	store.PutProduct(domain.Product{ID: productPommes, Name: "Pommes frites", Price: dec("9.99"), IsAvailable: true})
	store.PutOption(domain.Option{ID: optGross, GroupID: groupPortion, Name: "Groß", PriceDelta: dec("5.00"), SortOrder: 2, IsActive: false})

	order, err := sut.Order(context.Background(), cartID)
	require.NoError(t, err)
	require.Len(t, order.Lines, 1)
	assert.True(t, order.Lines[0].UnitTotal().Equal(dec("5.50")), "snapshot changed: %s", order.Lines[0].UnitTotal())
	assert.True(t, order.Total().Equal(dec("5.50")))
}

// ----- removal -----

// Removing a product removes every line of it, even when the lines carry
// different option configurations.
func TestRemoveProduct_RemovesAllLinesOfProduct(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	_, err := sut.AddLine(context.Background(), cartID, productDoener, 1, domain.Selection{groupSauce: {optKnoblauch}})
	require.NoError(t, err)
	_, err = sut.AddLine(context.Background(), cartID, productDoener, 1, domain.Selection{groupSauce: {optScharf}})
	require.NoError(t, err)
	_, err = sut.AddLine(context.Background(), cartID, productPommes, 1, domain.Selection{groupPortion: {optKlein}})
	require.NoError(t, err)

	require.NoError(t, sut.RemoveProduct(context.Background(), cartID, productDoener))

	order, err := sut.Order(context.Background(), cartID)
	require.NoError(t, err)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, productPommes, order.Lines[0].ProductID)
}

func TestRemoveProduct_AfterPlacementRejected(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	_, err := sut.AddLine(context.Background(), cartID, productDoener, 1, domain.Selection{groupSauce: {optKnoblauch}})
	require.NoError(t, err)
	_, err = sut.PlaceCashOrder(context.Background(), cartID, validInfo())
	require.NoError(t, err)

	err = sut.RemoveProduct(context.Background(), cartID, productDoener)
	assert.ErrorIs(t, err, repository.ErrOrderNotInCart)
}

// ----- placement -----

func TestPlaceCashOrder_Success(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	_, err := sut.AddLine(context.Background(), cartID, productDoener, 2, domain.Selection{groupSauce: {optKnoblauch}})
	require.NoError(t, err)

	number, err := sut.PlaceCashOrder(context.Background(), cartID, validInfo())
	require.NoError(t, err)
	assert.Regexp(t, `^OK-\d{8}-[0-9A-F]{6}$`, number)

	order, err := sut.OrderByNumber(context.Background(), number)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPlaced, order.Status)
	assert.Equal(t, domain.PaymentMethodCash, order.PaymentMethod)
	assert.False(t, order.IsPaid)
	assert.Equal(t, "Seerat Peroz", order.FullName)
	require.NotNil(t, order.PlacedAt)
}

func TestPlaceCashOrder_EmptyCart(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	_, err := sut.PlaceCashOrder(context.Background(), cartID, validInfo())
	assert.ErrorIs(t, err, ErrEmptyOrder)

	order, getErr := sut.Order(context.Background(), cartID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.OrderStatusCart, order.Status)
}

func TestPlaceCashOrder_MissingFields(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	_, err := sut.AddLine(context.Background(), cartID, productDoener, 1, domain.Selection{groupSauce: {optKnoblauch}})
	require.NoError(t, err)

	info := validInfo()
	info.Phone = ""
	info.City = ""
	_, err = sut.PlaceCashOrder(context.Background(), cartID, info)

	var infoErr *CustomerInfoError
	require.ErrorAs(t, err, &infoErr)
	assert.Equal(t, []string{"phone", "city"}, infoErr.Missing)

	order, getErr := sut.Order(context.Background(), cartID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.OrderStatusCart, order.Status)
	assert.Empty(t, order.OrderNumber)
}

func TestMarkOrderPaid_PlacesOrder(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	_, err := sut.AddLine(context.Background(), cartID, productDoener, 1, domain.Selection{groupSauce: {optKnoblauch}})
	require.NoError(t, err)

	require.NoError(t, sut.MarkOrderPaid(context.Background(), cartID, "pi_123"))

	order, err := sut.Order(context.Background(), cartID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPlaced, order.Status)
	assert.True(t, order.IsPaid)
	assert.Equal(t, domain.PaymentMethodOnline, order.PaymentMethod)
	assert.Equal(t, "pi_123", order.PaymentRef)
	assert.NotEmpty(t, order.OrderNumber)
	require.NotNil(t, order.PlacedAt)
}

// Replayed payment confirmations must not assign a second order number or a
// second placement timestamp.
func TestMarkOrderPaid_Idempotent(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	_, err := sut.AddLine(context.Background(), cartID, productDoener, 1, domain.Selection{groupSauce: {optKnoblauch}})
	require.NoError(t, err)

	require.NoError(t, sut.MarkOrderPaid(context.Background(), cartID, "pi_123"))
	first, err := sut.Order(context.Background(), cartID)
	require.NoError(t, err)

	require.NoError(t, sut.MarkOrderPaid(context.Background(), cartID, "pi_123"))
	second, err := sut.Order(context.Background(), cartID)
	require.NoError(t, err)

	assert.Equal(t, first.OrderNumber, second.OrderNumber)
	assert.Equal(t, first.PlacedAt, second.PlacedAt)
}

func TestMarkOrderPaid_UnknownOrderDiscarded(t *testing.T) {
	sut, _ := newTestService(t)

	// At-least-once delivery: confirmations for unknown orders are logged
	// and swallowed.
	assert.NoError(t, sut.MarkOrderPaid(context.Background(), uuid.New(), "pi_999"))
}

// ----- fulfillment & cancellation -----

func TestAdvanceStatus_FullFlow(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	_, err := sut.AddLine(context.Background(), cartID, productDoener, 1, domain.Selection{groupSauce: {optKnoblauch}})
	require.NoError(t, err)
	_, err = sut.PlaceCashOrder(context.Background(), cartID, validInfo())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sut.AdvanceStatus(ctx, cartID, domain.OrderStatusPreparing))
	require.NoError(t, sut.AdvanceStatus(ctx, cartID, domain.OrderStatusDelivering))
	require.NoError(t, sut.AdvanceStatus(ctx, cartID, domain.OrderStatusCompleted))

	order, err := sut.Order(ctx, cartID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, order.Status)
}

func TestAdvanceStatus_IllegalJump(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	err := sut.AdvanceStatus(context.Background(), cartID, domain.OrderStatusDelivering)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestCancelOrder_FromCartAndPlaced(t *testing.T) {
	sut, _ := newTestService(t)
	ctx := context.Background()

	cartID := newCart(t, sut)
	require.NoError(t, sut.CancelOrder(ctx, cartID))

	placedID := newCart(t, sut)
	_, err := sut.AddLine(ctx, placedID, productDoener, 1, domain.Selection{groupSauce: {optKnoblauch}})
	require.NoError(t, err)
	_, err = sut.PlaceCashOrder(ctx, placedID, validInfo())
	require.NoError(t, err)
	require.NoError(t, sut.CancelOrder(ctx, placedID))
}

func TestCancelOrder_NotFromFulfillment(t *testing.T) {
	sut, _ := newTestService(t)
	ctx := context.Background()

	cartID := newCart(t, sut)
	_, err := sut.AddLine(ctx, cartID, productDoener, 1, domain.Selection{groupSauce: {optKnoblauch}})
	require.NoError(t, err)
	_, err = sut.PlaceCashOrder(ctx, cartID, validInfo())
	require.NoError(t, err)
	require.NoError(t, sut.AdvanceStatus(ctx, cartID, domain.OrderStatusPreparing))

	err = sut.CancelOrder(ctx, cartID)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

// ----- checkout lines & customer info -----

func TestCheckoutLines_ForPaymentCollaborator(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)
	ctx := context.Background()

	_, err := sut.AddLine(ctx, cartID, productDoener, 2, domain.Selection{
		groupSauce:  {optKnoblauch},
		groupExtras: {optKaese},
	})
	require.NoError(t, err)
	_, err = sut.AddLine(ctx, cartID, productPommes, 1, domain.Selection{groupPortion: {optGross}})
	require.NoError(t, err)

	lines, err := sut.CheckoutLines(ctx, cartID)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "Döner-Kebab (Soße deiner Wahl: Knoblauch | Extras: Käse)", lines[0].Name)
	assert.Equal(t, int64(750), lines[0].UnitAmountMinor)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "EUR", lines[0].Currency)

	assert.Equal(t, "Pommes frites (Portion deiner Wahl: Groß)", lines[1].Name)
	assert.Equal(t, int64(550), lines[1].UnitAmountMinor)
}

func TestCheckoutLines_EmptyOrder(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	_, err := sut.CheckoutLines(context.Background(), cartID)
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestSetCustomerInfo_Validates(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	err := sut.SetCustomerInfo(context.Background(), cartID, domain.CustomerInfo{LastName: "Peroz"})
	var infoErr *CustomerInfoError
	require.ErrorAs(t, err, &infoErr)

	require.NoError(t, sut.SetCustomerInfo(context.Background(), cartID, validInfo()))
	order, err := sut.Order(context.Background(), cartID)
	require.NoError(t, err)
	assert.Equal(t, "Seerat Peroz", order.FullName)
	assert.Equal(t, "Berlin", order.City)
}

func TestSetPaymentSession_RecordsSession(t *testing.T) {
	sut, _ := newTestService(t)
	cartID := newCart(t, sut)

	require.NoError(t, sut.SetPaymentSession(context.Background(), cartID, "cs_test_123"))

	order, err := sut.Order(context.Background(), cartID)
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", order.PaymentSessionID)
	assert.Equal(t, domain.PaymentMethodOnline, order.PaymentMethod)
}
