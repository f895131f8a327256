package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const selectSQL = `
	SELECT id, customer_name, amount, items, status, vendor_id, supplier_id, created_at, updated_at
	FROM orders`

func (r *postgresRepo) Create(ctx context.Context, o *Order) error {
	var createdAt, updatedAt time.Time
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO orders (id, customer_name, amount, items, status, vendor_id, supplier_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		o.ID, o.CustomerName, o.Amount, o.Items, o.Status, o.VendorID, o.SupplierID).
		Scan(&createdAt, &updatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	o.CreatedAt, o.UpdatedAt = &createdAt, &updatedAt
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, owner identity.Owner, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		selectSQL+` WHERE id=$1 AND `+owner.Column()+`=$2`, id, owner.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

func (r *postgresRepo) ListByOwner(ctx context.Context, owner identity.Owner, status string) ([]Order, error) {
	query := selectSQL + ` WHERE ` + owner.Column() + `=$1`
	args := []interface{}{owner.ID}
	if status != "" {
		query += ` AND status=$2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC NULLS LAST`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, owner identity.Owner, id uuid.UUID, status Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status=$1, updated_at=$2 WHERE id=$3 AND `+owner.Column()+`=$4`,
		status, time.Now(), id, owner.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanOrder(row rowScanner) (*Order, error) {
	o := &Order{}
	var vendorID, supplierID uuid.NullUUID
	var items sql.NullInt64
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&o.ID, &o.CustomerName, &o.Amount, &items, &o.Status,
		&vendorID, &supplierID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	o.Items = int(items.Int64)
	if vendorID.Valid {
		o.VendorID = &vendorID.UUID
	}
	if supplierID.Valid {
		o.SupplierID = &supplierID.UUID
	}
	if createdAt.Valid {
		o.CreatedAt = &createdAt.Time
	}
	if updatedAt.Valid {
		o.UpdatedAt = &updatedAt.Time
	}
	return o, nil
}
