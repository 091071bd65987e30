package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/parkospace/internal/database"
	"github.com/iliyamo/parkospace/internal/model"
)

// ownerRow mirrors the 'owners' table.
type ownerRow struct {
	Phone    string          `db:"phone"`
	Name     sql.NullString  `db:"name"`
	Email    sql.NullString  `db:"email"`
	JoinedAt sql.NullFloat64 `db:"joined_at"`
}

// OwnerRepo reads and upserts rows of the owners table.
type OwnerRepo struct {
	db      *sqlx.DB
	qGet    string
	qUpsert string
}

// NewOwnerRepo prepares the owner queries for the backend's dialect.
func NewOwnerRepo(b *database.Backend) *OwnerRepo {
	return &OwnerRepo{
		db:      b.DB,
		qGet:    b.DB.Rebind(`SELECT phone, name, email, joined_at FROM owners WHERE phone = ?`),
		qUpsert: b.DB.Rebind(b.Dialect.UpsertOwner()),
	}
}

// Get fetches an owner by phone. It returns ErrOwnerNotFound when absent.
func (r *OwnerRepo) Get(ctx context.Context, phone string) (*model.Owner, error) {
	var row ownerRow
	if err := r.db.GetContext(ctx, &row, r.qGet, strings.TrimSpace(phone)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("OwnerRepo.Get: %w", err)
	}
	o := &model.Owner{Phone: row.Phone, Name: row.Name.String, Email: row.Email.String}
	if row.JoinedAt.Valid {
		o.JoinedAt = fromUnixSeconds(row.JoinedAt.Float64)
	}
	return o, nil
}

// Save inserts the owner or, when the phone is already registered,
// overwrites name and email. joined_at keeps the first insert's value.
func (r *OwnerRepo) Save(ctx context.Context, o *model.Owner) error {
	o.Phone = strings.TrimSpace(o.Phone)
	if o.Phone == "" {
		return fmt.Errorf("OwnerRepo.Save: phone is required")
	}
	if o.JoinedAt.IsZero() {
		o.JoinedAt = time.Now().UTC()
	}
	email := sql.NullString{String: o.Email, Valid: o.Email != ""}
	if _, err := r.db.ExecContext(ctx, r.qUpsert, o.Phone, o.Name, email, unixSeconds(o.JoinedAt)); err != nil {
		return fmt.Errorf("OwnerRepo.Save: %w", err)
	}
	return nil
}
