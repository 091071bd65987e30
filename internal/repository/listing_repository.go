package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/parkospace/internal/database"
	"github.com/iliyamo/parkospace/internal/model"
)

// listingRow mirrors the 'listings' table. Every column except the key is
// nullable on databases created by older releases.
type listingRow struct {
	ID           string          `db:"id"`
	Title        sql.NullString  `db:"title"`
	Description  sql.NullString  `db:"description"`
	AreaLandmark sql.NullString  `db:"area_landmark"`
	PriceHourly  sql.NullFloat64 `db:"price_hourly"`
	PriceDaily   sql.NullFloat64 `db:"price_daily"`
	PriceMonthly sql.NullFloat64 `db:"price_monthly"`
	Lat          sql.NullFloat64 `db:"lat"`
	Lng          sql.NullFloat64 `db:"lng"`
	Length       sql.NullFloat64 `db:"length"`
	Breadth      sql.NullFloat64 `db:"breadth"`
	Amenities    sql.NullString  `db:"amenities"`
	GmapLink     sql.NullString  `db:"gmap_link"`
	Image        sql.NullString  `db:"image"`
	OwnerPhone   sql.NullString  `db:"owner_phone"`
	IsSold       soldFlag        `db:"is_sold"`
	CreatedAt    sql.NullFloat64 `db:"created_at"`
	AddressText  sql.NullString  `db:"address_text"`
}

func (r listingRow) toModel() model.Listing {
	l := model.Listing{
		ID:           r.ID,
		Title:        r.Title.String,
		Description:  r.Description.String,
		AreaLandmark: r.AreaLandmark.String,
		PriceHourly:  r.PriceHourly.Float64,
		PriceDaily:   r.PriceDaily.Float64,
		PriceMonthly: r.PriceMonthly.Float64,
		Length:       r.Length.Float64,
		Breadth:      r.Breadth.Float64,
		Amenities:    decodeAmenities(r.ID, r.Amenities.String),
		GmapLink:     r.GmapLink.String,
		Image:        r.Image.String,
		OwnerPhone:   r.OwnerPhone.String,
		IsSold:       bool(r.IsSold),
		AddressText:  r.AddressText.String,
	}
	if r.Lat.Valid {
		lat := r.Lat.Float64
		l.Lat = &lat
	}
	if r.Lng.Valid {
		lng := r.Lng.Float64
		l.Lng = &lng
	}
	if r.CreatedAt.Valid {
		l.CreatedAt = fromUnixSeconds(r.CreatedAt.Float64)
	}
	return l
}

func decodeAmenities(id, raw string) []string {
	out := []string{}
	if strings.TrimSpace(raw) == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		log.Printf("repository: listing %s has malformed amenities: %v", id, err)
		return []string{}
	}
	return out
}

func nullable(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func encodeAmenities(a []string) (string, error) {
	if a == nil {
		a = []string{}
	}
	b, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ListingRepo reads and writes listings in the backend's dialect. The SQL
// that differs between dialects is rendered once at construction.
type ListingRepo struct {
	db      *sqlx.DB
	dialect database.Dialect

	qSelect string
	qInsert string
	qDelete string
}

// NewListingRepo constructs a ListingRepo for the given backend.
func NewListingRepo(b *database.Backend) *ListingRepo {
	desc := b.Dialect.Quote("desc")
	return &ListingRepo{
		db:      b.DB,
		dialect: b.Dialect,
		qSelect: fmt.Sprintf(`SELECT id, title, %s AS description, area_landmark,
			price_hourly, price_daily, price_monthly, lat, lng, length, breadth,
			amenities, gmap_link, image, owner_phone, is_sold, created_at, address_text
			FROM listings`, desc),
		qInsert: b.DB.Rebind(fmt.Sprintf(`INSERT INTO listings (id, title, %s, area_landmark,
			price_hourly, price_daily, price_monthly, lat, lng, length, breadth,
			amenities, gmap_link, image, owner_phone, is_sold, created_at, address_text)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, desc)),
		qDelete: b.DB.Rebind(`DELETE FROM listings WHERE id = ? AND owner_phone = ?`),
	}
}

// List returns every listing, or only the owner's when ownerPhone is set.
// Owner results include sold and unlocated listings.
func (r *ListingRepo) List(ctx context.Context, ownerPhone string) ([]model.Listing, error) {
	q := r.qSelect
	var args []any
	if ownerPhone != "" {
		q += " WHERE owner_phone = ?"
		args = append(args, ownerPhone)
	}
	var rows []listingRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("ListingRepo.List: %w", err)
	}
	out := make([]model.Listing, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

// Create validates and inserts a listing. A zero CreatedAt is set to now.
func (r *ListingRepo) Create(ctx context.Context, l *model.Listing) error {
	if err := l.Validate(); err != nil {
		return err
	}
	amenities, err := encodeAmenities(l.Amenities)
	if err != nil {
		return fmt.Errorf("ListingRepo.Create: %w", err)
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	_, err = r.db.ExecContext(ctx, r.qInsert,
		l.ID, l.Title, l.Description, l.AreaLandmark,
		l.PriceHourly, l.PriceDaily, l.PriceMonthly, nullable(l.Lat), nullable(l.Lng), l.Length, l.Breadth,
		amenities, l.GmapLink, l.Image, l.OwnerPhone, r.dialect.Bool(l.IsSold),
		unixSeconds(l.CreatedAt), l.AddressText)
	if err != nil {
		return fmt.Errorf("ListingRepo.Create: %w", err)
	}
	return nil
}

// Update applies u to the listing id if it belongs to ownerPhone. The
// location columns are touched only when u carries a new pin. It reports
// whether a row was changed; false means not found or not owned.
func (r *ListingRepo) Update(ctx context.Context, id, ownerPhone string, u model.ListingUpdate) (bool, error) {
	if err := u.Validate(); err != nil {
		return false, err
	}
	sets := []string{
		"title = ?", r.dialect.Quote("desc") + " = ?", "area_landmark = ?",
		"length = ?", "breadth = ?",
		"price_hourly = ?", "price_daily = ?", "price_monthly = ?",
		"gmap_link = ?", "is_sold = ?",
	}
	args := []any{
		u.Title, u.Description, u.AreaLandmark,
		u.Length, u.Breadth,
		u.PriceHourly, u.PriceDaily, u.PriceMonthly,
		u.GmapLink, r.dialect.Bool(u.IsSold),
	}
	if u.MovesLocation() {
		sets = append(sets, "lat = ?", "lng = ?", "address_text = ?")
		args = append(args, *u.Lat, *u.Lng, u.AddressText)
	}
	args = append(args, id, ownerPhone)

	q := "UPDATE listings SET " + strings.Join(sets, ", ") + " WHERE id = ? AND owner_phone = ?"
	res, err := r.db.ExecContext(ctx, r.db.Rebind(q), args...)
	if err != nil {
		return false, fmt.Errorf("ListingRepo.Update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ListingRepo.Update: %w", err)
	}
	return n > 0, nil
}

// Delete removes the listing id if it belongs to ownerPhone and reports
// whether a row was removed.
func (r *ListingRepo) Delete(ctx context.Context, id, ownerPhone string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.qDelete, id, ownerPhone)
	if err != nil {
		return false, fmt.Errorf("ListingRepo.Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ListingRepo.Delete: %w", err)
	}
	return n > 0, nil
}
