package database

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestBackend(t *testing.T, path string) *Backend {
	t.Helper()
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	return &Backend{DB: db, Dialect: sqliteDialect{}}
}

func columnsOf(t *testing.T, b *Backend, table string) map[string]bool {
	t.Helper()
	rows, err := b.DB.Query("SELECT name FROM pragma_table_info('" + table + "')")
	if err != nil {
		t.Fatalf("table info: %v", err)
	}
	defer rows.Close()
	cols := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		cols[name] = true
	}
	return cols
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		b := openTestBackend(t, path)
		if err := EnsureSchema(ctx, b); err != nil {
			t.Fatalf("run %d: EnsureSchema: %v", i, err)
		}
		b.Close()
	}

	b := openTestBackend(t, path)
	defer b.Close()
	cols := columnsOf(t, b, "listings")
	for _, want := range []string{"id", "desc", "lat", "lng", "is_sold", "address_text", "area_landmark"} {
		if !cols[want] {
			t.Errorf("listings missing column %s", want)
		}
	}
	if !columnsOf(t, b, "owners")["email"] {
		t.Error("owners missing email")
	}
}

func TestEnsureSchemaMigratesLegacyTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	ctx := context.Background()
	b := openTestBackend(t, path)
	defer b.Close()

	legacy := []string{
		`CREATE TABLE owners (phone TEXT PRIMARY KEY, name TEXT, joined_at REAL)`,
		`CREATE TABLE listings (id TEXT PRIMARY KEY, title TEXT, "desc" TEXT,
			price_hourly REAL, price_daily REAL, price_monthly REAL, lat REAL, lng REAL,
			length REAL, breadth REAL, amenities TEXT, gmap_link TEXT, image TEXT,
			owner_phone TEXT, is_sold INTEGER, created_at REAL)`,
		`INSERT INTO owners (phone, name, joined_at) VALUES ('999', 'Old', 1)`,
	}
	for _, q := range legacy {
		if _, err := b.DB.Exec(q); err != nil {
			t.Fatalf("legacy setup: %v", err)
		}
	}

	if err := EnsureSchema(ctx, b); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if !columnsOf(t, b, "owners")["email"] {
		t.Error("owners.email not added")
	}
	lc := columnsOf(t, b, "listings")
	if !lc["address_text"] || !lc["area_landmark"] {
		t.Errorf("listings columns not added: %v", lc)
	}

	var name string
	if err := b.DB.Get(&name, "SELECT name FROM owners WHERE phone = '999'"); err != nil || name != "Old" {
		t.Fatalf("existing row lost: %q %v", name, err)
	}
}
