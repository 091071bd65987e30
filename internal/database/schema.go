package database

import (
	"context"
	"fmt"
	"strings"
)

type column struct {
	name    string
	kind    ColumnKind
	primary bool
}

var ownerColumns = []column{
	{name: "phone", kind: KeyColumn, primary: true},
	{name: "name", kind: TextColumn},
	{name: "email", kind: TextColumn},
	{name: "joined_at", kind: RealColumn},
}

var listingColumns = []column{
	{name: "id", kind: KeyColumn, primary: true},
	{name: "title", kind: TextColumn},
	{name: "desc", kind: TextColumn},
	{name: "price_hourly", kind: RealColumn},
	{name: "price_daily", kind: RealColumn},
	{name: "price_monthly", kind: RealColumn},
	{name: "lat", kind: RealColumn},
	{name: "lng", kind: RealColumn},
	{name: "length", kind: RealColumn},
	{name: "breadth", kind: RealColumn},
	{name: "amenities", kind: TextColumn},
	{name: "gmap_link", kind: TextColumn},
	{name: "image", kind: TextColumn},
	{name: "owner_phone", kind: KeyColumn},
	{name: "is_sold", kind: BoolColumn},
	{name: "created_at", kind: RealColumn},
	{name: "address_text", kind: TextColumn},
	{name: "area_landmark", kind: TextColumn},
}

// Columns added after the first release. Older databases get them on start.
var migrations = []struct {
	table, column string
	kind          ColumnKind
}{
	{"owners", "email", TextColumn},
	{"listings", "address_text", TextColumn},
	{"listings", "area_landmark", TextColumn},
}

// EnsureSchema creates the owners and listings tables when missing and
// applies the additive column migrations. It is safe to run on every start;
// a migration that fails because the column already exists is skipped.
func EnsureSchema(ctx context.Context, b *Backend) error {
	d := b.Dialect
	if _, err := b.DB.ExecContext(ctx, createTableSQL(d, "owners", ownerColumns, "")); err != nil {
		return fmt.Errorf("creating owners table: %w", err)
	}
	fk := "FOREIGN KEY (owner_phone) REFERENCES owners(phone)"
	if _, err := b.DB.ExecContext(ctx, createTableSQL(d, "listings", listingColumns, fk)); err != nil {
		return fmt.Errorf("creating listings table: %w", err)
	}
	for _, m := range migrations {
		// column already present
		_, _ = b.DB.ExecContext(ctx, d.AddColumn(m.table, m.column, m.kind))
	}
	return nil
}

func createTableSQL(d Dialect, table string, cols []column, constraint string) string {
	defs := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		def := d.Quote(c.name) + " " + d.ColumnType(c.kind)
		if c.primary {
			def += " PRIMARY KEY"
		}
		defs = append(defs, def)
	}
	if constraint != "" {
		defs = append(defs, constraint)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", table, strings.Join(defs, ",\n\t"))
}
