package customer

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, c *Customer) error {
	var createdAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
INSERT INTO customers (id, supplier_id, name, email, phone, contact, location, status, total_orders, total_spent)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING created_at`,
		c.ID, c.SupplierID, c.Name, nilIfEmpty(c.Email), nilIfEmpty(c.Phone), nilIfEmpty(c.Contact),
		nilIfEmpty(c.Location), c.Status, c.TotalOrders, c.TotalSpent,
	).Scan(&createdAt)
	if err != nil {
		return err
	}
	if createdAt.Valid {
		c.CreatedAt = &createdAt.Time
	}
	return nil
}

func (r *postgresRepo) ListBySupplier(ctx context.Context, supplierID uuid.UUID, status string) ([]Customer, error) {
	query := `
SELECT id, supplier_id, name, email, phone, contact, location, status, total_orders, total_spent, created_at
FROM customers WHERE supplier_id=$1`
	args := []interface{}{supplierID}
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
	customers := []Customer{}
	for rows.Next() {
		var c Customer
		var email, phone, contact, location, st sql.NullString
		var totalOrders sql.NullInt64
		var createdAt sql.NullTime
		if err := rows.Scan(&c.ID, &c.SupplierID, &c.Name, &email, &phone, &contact, &location,
			&st, &totalOrders, &c.TotalSpent, &createdAt); err != nil {
			return nil, err
		}
		c.Email, c.Phone, c.Contact, c.Location = email.String, phone.String, contact.String, location.String
		c.Status = Status(st.String)
		c.TotalOrders = int(totalOrders.Int64)
		if createdAt.Valid {
			c.CreatedAt = &createdAt.Time
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
