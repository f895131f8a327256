package payment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const selectSQL = `
SELECT id, amount, method, status, payment_type, customer_name, recipient_name,
       category, reference, payment_date, created_at, vendor_id, supplier_id
FROM payments`

func (r *postgresRepo) Create(ctx context.Context, p *Payment) error {
	var createdAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
INSERT INTO payments (id, amount, method, status, payment_type, customer_name, recipient_name,
                      category, reference, payment_date, vendor_id, supplier_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,COALESCE($10, NOW()),$11,$12)
RETURNING payment_date, created_at`,
		p.ID, p.Amount, p.Method, p.Status, p.Direction, nilIfEmpty(p.CustomerName),
		nilIfEmpty(p.RecipientName), nilIfEmpty(p.Category), nilIfEmpty(p.Reference),
		p.PaymentDate, p.VendorID, p.SupplierID,
	).Scan(&p.PaymentDate, &createdAt)
	if err != nil {
		return err
	}
	if createdAt.Valid {
		p.CreatedAt = &createdAt.Time
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, owner identity.Owner, id uuid.UUID) (*Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx,
		selectSQL+` WHERE id=$1 AND `+owner.Column()+`=$2`, id, owner.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *postgresRepo) ListByOwner(ctx context.Context, owner identity.Owner, direction Direction) ([]Payment, error) {
	query := selectSQL + ` WHERE ` + owner.Column() + `=$1`
	args := []interface{}{owner.ID}
	if direction != "" {
		query += ` AND payment_type=$2`
		args = append(args, direction)
	}
	query += ` ORDER BY payment_date DESC NULLS LAST`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	payments := []Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, owner identity.Owner, id uuid.UUID, status Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status=$1 WHERE id=$2 AND `+owner.Column()+`=$3`, status, id, owner.ID)
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

func scanPayment(row rowScanner) (*Payment, error) {
	p := &Payment{}
	var method, status, direction, customer, recipient, category, reference sql.NullString
	var paymentDate, createdAt sql.NullTime
	var vendorID, supplierID uuid.NullUUID
	if err := row.Scan(&p.ID, &p.Amount, &method, &status, &direction, &customer, &recipient,
		&category, &reference, &paymentDate, &createdAt, &vendorID, &supplierID); err != nil {
		return nil, err
	}
	p.Method = Method(method.String)
	p.Status = Status(status.String)
	p.Direction = Direction(direction.String)
	p.CustomerName = customer.String
	p.RecipientName = recipient.String
	p.Category = category.String
	p.Reference = reference.String
	if paymentDate.Valid {
		p.PaymentDate = &paymentDate.Time
	}
	if createdAt.Valid {
		p.CreatedAt = &createdAt.Time
	}
	if vendorID.Valid {
		p.VendorID = &vendorID.UUID
	}
	if supplierID.Valid {
		p.SupplierID = &supplierID.UUID
	}
	return p, nil
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
