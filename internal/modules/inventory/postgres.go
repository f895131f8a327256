package inventory

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
)

type productPostgres struct{ db *sql.DB }

func NewProductPostgresRepository(db *sql.DB) ProductRepository { return &productPostgres{db: db} }

const productColumns = `id,name,description,category,price,stock,status,vendor_id,supplier_id,created_at,updated_at`

func (r *productPostgres) Create(ctx context.Context, p *Product) error {
	var createdAt, updatedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
INSERT INTO products (id,name,description,category,price,stock,status,vendor_id,supplier_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING created_at, updated_at`,
		p.ID, p.Name, nilIfEmpty(p.Description), nilIfEmpty(p.Category), p.Price,
		p.Stock, p.Status, p.VendorID, p.SupplierID).Scan(&createdAt, &updatedAt)
	if err != nil {
		return err
	}
	if createdAt.Valid {
		p.CreatedAt = &createdAt.Time
	}
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.Time
	}
	return nil
}

func (r *productPostgres) GetByID(ctx context.Context, owner identity.Owner, id uuid.UUID) (*Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id=$1 AND `+owner.Column()+`=$2`, id, owner.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *productPostgres) ListByOwner(ctx context.Context, owner identity.Owner, category string) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE ` + owner.Column() + `=$1`
	args := []interface{}{owner.ID}
	if category != "" {
		query += ` AND category=$2`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC NULLS LAST`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *productPostgres) UpdateStock(ctx context.Context, owner identity.Owner, id uuid.UUID, stock int, status StockStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET stock=$1, status=$2, updated_at=NOW() WHERE id=$3 AND `+owner.Column()+`=$4`,
		stock, status, id, owner.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productPostgres) Delete(ctx context.Context, owner identity.Owner, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM products WHERE id=$1 AND `+owner.Column()+`=$2`, id, owner.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanProduct(row rowScanner) (*Product, error) {
	p := &Product{}
	var description, category, status sql.NullString
	var vendorID, supplierID uuid.NullUUID
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&p.ID, &p.Name, &description, &category, &p.Price, &p.Stock,
		&status, &vendorID, &supplierID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.Description = description.String
	p.Category = category.String
	p.Status = StockStatus(status.String)
	if vendorID.Valid {
		p.VendorID = &vendorID.UUID
	}
	if supplierID.Valid {
		p.SupplierID = &supplierID.UUID
	}
	if createdAt.Valid {
		p.CreatedAt = &createdAt.Time
	}
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.Time
	}
	return p, nil
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
