package account

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL account repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

// table picks vendors or suppliers. Only the two known roles reach SQL.
func table(role identity.Role) string {
	if role == identity.RoleSupplier {
		return "suppliers"
	}
	return "vendors"
}

func (r *postgresRepository) Create(ctx context.Context, a *Account) error {
	query := `
		INSERT INTO ` + table(a.Role) + ` (id, user_id, name, email, business_name, city, phone, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		a.ID, a.UserID, a.Name, a.Email,
		nilIfEmpty(a.BusinessName), nilIfEmpty(a.City), nilIfEmpty(a.Phone), nilIfEmpty(a.Address),
	).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *postgresRepository) GetByID(ctx context.Context, owner identity.Owner) (*Account, error) {
	return r.getOne(ctx, owner.Role, "id", owner.ID)
}

func (r *postgresRepository) GetByUserID(ctx context.Context, role identity.Role, userID uuid.UUID) (*Account, error) {
	return r.getOne(ctx, role, "user_id", userID)
}

func (r *postgresRepository) getOne(ctx context.Context, role identity.Role, column string, id uuid.UUID) (*Account, error) {
	a := &Account{Role: role}
	var businessName, city, phone, address sql.NullString
	query := `
		SELECT id, user_id, name, email, business_name, city, phone, address, created_at, updated_at
		FROM ` + table(role) + `
		WHERE ` + column + ` = $1
	`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.UserID,
		&a.Name,
		&a.Email,
		&businessName,
		&city,
		&phone,
		&address,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.BusinessName = businessName.String
	a.City = city.String
	a.Phone = phone.String
	a.Address = address.String
	return a, nil
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
