package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SeeratPeroz/Omran-Kebab/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/lib/pq"
	_ "github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "ordering_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// ----- catalog read model -----

func (r *Repository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT id, category_id, name, slug, description, price, is_available
	          FROM products WHERE id = $1`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.CategoryID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.Price,
		&p.IsAvailable,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	return &p, nil
}

func (r *Repository) GetProductConfig(ctx context.Context, productID int64) (*domain.ProductConfig, error) {
	product, err := r.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	groups, err := r.attachedGroups(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &domain.ProductConfig{Product: *product, Groups: groups}, nil
}

func (r *Repository) attachedGroups(ctx context.Context, productID int64) ([]domain.AttachedGroup, error) {
	query := `
		SELECT g.id, g.name, g.slug, g.is_required, g.min_select, g.max_select, g.sort_order, g.is_active,
		       pog.is_required, pog.min_select, pog.max_select, pog.sort_order
		FROM product_option_groups pog
		JOIN option_groups g ON g.id = pog.group_id
		WHERE pog.product_id = $1 AND g.is_active = TRUE
		ORDER BY pog.sort_order, g.sort_order, g.name`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("query attached groups: %w", err)
	}
	defer rows.Close()

	var groups []domain.AttachedGroup
	for rows.Next() {
		var g domain.OptionGroup
		var ovRequired sql.NullBool
		var ovMin, ovMax sql.NullInt64
		var attachOrder int
		if err := rows.Scan(
			&g.ID,
			&g.Name,
			&g.Slug,
			&g.Required,
			&g.MinSelect,
			&g.MaxSelect,
			&g.SortOrder,
			&g.IsActive,
			&ovRequired,
			&ovMin,
			&ovMax,
			&attachOrder,
		); err != nil {
			return nil, fmt.Errorf("scan attached group row: %w", err)
		}

		attachment := domain.ProductOptionGroup{
			ProductID: productID,
			GroupID:   g.ID,
			SortOrder: attachOrder,
		}
		if ovRequired.Valid {
			attachment.Required = domain.Set(ovRequired.Bool)
		}
		if ovMin.Valid {
			attachment.MinSelect = domain.Set(int(ovMin.Int64))
		}
		if ovMax.Valid {
			attachment.MaxSelect = domain.Set(int(ovMax.Int64))
		}

		groups = append(groups, domain.AttachedGroup{Group: g, Attachment: attachment})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if len(groups) == 0 {
		return groups, nil
	}

	options, err := r.activeOptionsForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		groups[i].Options = options[groups[i].Group.ID]
	}
	return groups, nil
}

func (r *Repository) activeOptionsForProduct(ctx context.Context, productID int64) (map[int64][]domain.Option, error) {
	query := `
		SELECT o.id, o.group_id, o.name, o.price_delta, o.sort_order, o.is_active
		FROM options o
		JOIN product_option_groups pog ON pog.group_id = o.group_id
		WHERE pog.product_id = $1 AND o.is_active = TRUE
		ORDER BY o.sort_order, o.name`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	options := make(map[int64][]domain.Option)
	for rows.Next() {
		var o domain.Option
		if err := rows.Scan(&o.ID, &o.GroupID, &o.Name, &o.PriceDelta, &o.SortOrder, &o.IsActive); err != nil {
			return nil, fmt.Errorf("scan option row: %w", err)
		}
		options[o.GroupID] = append(options[o.GroupID], o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return options, nil
}

// ----- order aggregate -----

func (r *Repository) CreateOrder(ctx context.Context) (*domain.Order, error) {
	order := &domain.Order{
		ID:     uuid.New(),
		Status: domain.OrderStatusCart,
	}

	query := `INSERT INTO orders (id, status, created_at) VALUES ($1, $2, NOW())
	          RETURNING created_at`
	if err := r.db.QueryRowContext(ctx, query, order.ID, order.Status).Scan(&order.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return order, nil
}

func (r *Repository) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT id, status, full_name, phone, email, address_line, city, postal_code, notes,
	                 payment_method, is_paid, payment_session_id, payment_ref, order_number,
	                 created_at, placed_at
	          FROM orders WHERE id = $1`
	return r.scanOrder(ctx, r.db.QueryRowContext(ctx, query, id))
}

func (r *Repository) GetOrderByNumber(ctx context.Context, number string) (*domain.Order, error) {
	query := `SELECT id, status, full_name, phone, email, address_line, city, postal_code, notes,
	                 payment_method, is_paid, payment_session_id, payment_ref, order_number,
	                 created_at, placed_at
	          FROM orders WHERE order_number = $1`
	return r.scanOrder(ctx, r.db.QueryRowContext(ctx, query, number))
}

func (r *Repository) scanOrder(ctx context.Context, row *sql.Row) (*domain.Order, error) {
	var order domain.Order
	var method sql.NullString
	var number sql.NullString
	var placedAt sql.NullTime
	err := row.Scan(
		&order.ID,
		&order.Status,
		&order.FullName,
		&order.Phone,
		&order.Email,
		&order.AddressLine,
		&order.City,
		&order.PostalCode,
		&order.Notes,
		&method,
		&order.IsPaid,
		&order.PaymentSessionID,
		&order.PaymentRef,
		&number,
		&order.CreatedAt,
		&placedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}
	if method.Valid {
		order.PaymentMethod = domain.PaymentMethod(method.String)
	}
	if number.Valid {
		order.OrderNumber = number.String
	}
	if placedAt.Valid {
		t := placedAt.Time
		order.PlacedAt = &t
	}

	lines, err := r.orderLines(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines
	return &order, nil
}

func (r *Repository) orderLines(ctx context.Context, orderID uuid.UUID) ([]domain.OrderLine, error) {
	query := `
		SELECT l.id, l.order_id, l.product_id, p.name, l.quantity, l.price_at_selection
		FROM order_lines l
		JOIN products p ON p.id = l.product_id
		WHERE l.order_id = $1
		ORDER BY l.id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	index := make(map[int64]int)
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity, &l.PriceAtSelection); err != nil {
			return nil, fmt.Errorf("scan order line row: %w", err)
		}
		index[l.ID] = len(lines)
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if len(lines) == 0 {
		return lines, nil
	}

	optQuery := `
		SELECT co.id, co.order_line_id, co.option_id, o.name, g.name, co.price_delta_at_selection
		FROM order_line_options co
		JOIN order_lines l ON l.id = co.order_line_id
		JOIN options o ON o.id = co.option_id
		JOIN option_groups g ON g.id = o.group_id
		WHERE l.order_id = $1
		ORDER BY co.id`

	optRows, err := r.db.QueryContext(ctx, optQuery, orderID)
	if err != nil {
		return nil, fmt.Errorf("query chosen options: %w", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var c domain.ChosenOption
		var lineID int64
		if err := optRows.Scan(&c.ID, &lineID, &c.OptionID, &c.OptionName, &c.GroupName, &c.PriceDeltaAtSelection); err != nil {
			return nil, fmt.Errorf("scan chosen option row: %w", err)
		}
		if i, ok := index[lineID]; ok {
			lines[i].ChosenOptions = append(lines[i].ChosenOptions, c)
		}
	}
	if err := optRows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return lines, nil
}

// AddLine inserts the line and its chosen options inside one transaction. The
// order row is locked first so the cart-status check and the inserts are one
// atomic unit; a failure on any option leaves nothing behind.
func (r *Repository) AddLine(ctx context.Context, orderID uuid.UUID, line *domain.OrderLine) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin add-line transaction: %w", err)
	}
	defer tx.Rollback()

	var status domain.OrderStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("lock order row: %w", err)
	}
	if status != domain.OrderStatusCart {
		return ErrOrderNotInCart
	}

	lineQuery := `INSERT INTO order_lines (order_id, product_id, quantity, price_at_selection)
	              VALUES ($1, $2, $3, $4) RETURNING id`
	if err := tx.QueryRowContext(ctx, lineQuery, orderID, line.ProductID, line.Quantity, line.PriceAtSelection).Scan(&line.ID); err != nil {
		return fmt.Errorf("insert order line: %w", mapIntegrityError(err))
	}
	line.OrderID = orderID

	optQuery := `INSERT INTO order_line_options (order_line_id, option_id, price_delta_at_selection)
	             VALUES ($1, $2, $3) RETURNING id`
	for i := range line.ChosenOptions {
		c := &line.ChosenOptions[i]
		if err := tx.QueryRowContext(ctx, optQuery, line.ID, c.OptionID, c.PriceDeltaAtSelection).Scan(&c.ID); err != nil {
			return fmt.Errorf("insert chosen option: %w", mapIntegrityError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit add-line transaction: %w", err)
	}
	return nil
}

func (r *Repository) RemoveProductLines(ctx context.Context, orderID uuid.UUID, productID int64) (int64, error) {
	query := `DELETE FROM order_lines WHERE order_id = $1 AND product_id = $2`
	res, err := r.db.ExecContext(ctx, query, orderID, productID)
	if err != nil {
		return 0, fmt.Errorf("delete product lines: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return removed, nil
}

func (r *Repository) UpdateCustomerInfo(ctx context.Context, orderID uuid.UUID, info domain.CustomerInfo) error {
	query := `UPDATE orders SET full_name = $2, phone = $3, address_line = $4, postal_code = $5, city = $6
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, orderID, info.FullName(), info.Phone, info.Street, info.PostalCode, info.City)
	if err != nil {
		return fmt.Errorf("update customer info: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) SetPaymentSession(ctx context.Context, orderID uuid.UUID, sessionID string) error {
	query := `UPDATE orders SET payment_method = $2, payment_session_id = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, orderID, domain.PaymentMethodOnline, sessionID)
	if err != nil {
		return fmt.Errorf("set payment session: %w", err)
	}
	return requireRow(res)
}

// PlaceOrder is the guarded read-modify-write: the status check, the number
// assignment and the placement stamp happen in a single statement so two
// near-simultaneous placement triggers cannot both succeed.
func (r *Repository) PlaceOrder(ctx context.Context, orderID uuid.UUID, p domain.Placement) (bool, error) {
	var res sql.Result
	var err error
	if p.Info != nil {
		query := `UPDATE orders
		          SET status = $2, order_number = $3, placed_at = $4, payment_method = $5,
		              is_paid = $6, payment_ref = $7,
		              full_name = $8, phone = $9, address_line = $10, postal_code = $11, city = $12
		          WHERE id = $1 AND status = $13 AND order_number IS NULL`
		res, err = r.db.ExecContext(ctx, query, orderID,
			domain.OrderStatusPlaced, p.Number, p.PlacedAt, p.Method, p.Paid, p.PaymentRef,
			p.Info.FullName(), p.Info.Phone, p.Info.Street, p.Info.PostalCode, p.Info.City,
			domain.OrderStatusCart)
	} else {
		query := `UPDATE orders
		          SET status = $2, order_number = $3, placed_at = $4, payment_method = $5,
		              is_paid = $6, payment_ref = $7
		          WHERE id = $1 AND status = $8 AND order_number IS NULL`
		res, err = r.db.ExecContext(ctx, query, orderID,
			domain.OrderStatusPlaced, p.Number, p.PlacedAt, p.Method, p.Paid, p.PaymentRef,
			domain.OrderStatusCart)
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return false, ErrDuplicateOrderNumber
		}
		return false, fmt.Errorf("place order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return true, nil
	}

	// Nothing updated: either the order does not exist or it was placed
	// already. Callers need to tell those apart.
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check order existence: %w", err)
	}
	if !exists {
		return false, ErrOrderNotFound
	}
	return false, nil
}

func (r *Repository) TransitionStatus(ctx context.Context, orderID uuid.UUID, from, to domain.OrderStatus) (bool, error) {
	query := `UPDATE orders SET status = $3 WHERE id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, query, orderID, from, to)
	if err != nil {
		return false, fmt.Errorf("transition order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return true, nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check order existence: %w", err)
	}
	if !exists {
		return false, ErrOrderNotFound
	}
	return false, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func mapIntegrityError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return ErrDuplicateChosenOption
		case pqForeignKeyViolation:
			return ErrCatalogRowReferenced
		}
	}
	return err
}
