package database

import "fmt"

// ColumnKind is the logical type of a column; each dialect maps it to a
// concrete SQL type.
type ColumnKind int

const (
	KeyColumn  ColumnKind = iota // identifiers and anything referenced by a key
	TextColumn                   // free text
	RealColumn                   // floating point numbers and unix timestamps
	BoolColumn                   // flags
)

// Dialect captures the SQL differences between the supported backends:
// quoting of reserved words, boolean encoding, column types, additive
// migrations and the owner upsert statement. Statements use `?`
// placeholders; sqlx rebinds them for the driver.
type Dialect interface {
	Name() string
	Networked() bool
	Quote(ident string) string
	Bool(v bool) any
	ColumnType(k ColumnKind) string
	AddColumn(table, column string, k ColumnKind) string
	UpsertOwner() string
}

const (
	SQLite   = "sqlite"
	Postgres = "postgres"
	MySQL    = "mysql"
)

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, error) {
	switch name {
	case SQLite:
		return sqliteDialect{}, nil
	case Postgres:
		return postgresDialect{}, nil
	case MySQL:
		return mysqlDialect{}, nil
	}
	return nil, fmt.Errorf("unknown dialect %q", name)
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string              { return SQLite }
func (sqliteDialect) Networked() bool           { return false }
func (sqliteDialect) Quote(ident string) string { return `"` + ident + `"` }

// SQLite has no boolean storage class; flags are kept as 0/1 integers.
func (sqliteDialect) Bool(v bool) any {
	if v {
		return 1
	}
	return 0
}

func (sqliteDialect) ColumnType(k ColumnKind) string {
	switch k {
	case RealColumn:
		return "REAL"
	case BoolColumn:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

// SQLite lacks ADD COLUMN IF NOT EXISTS; re-running fails with "duplicate
// column name" and the caller ignores it.
func (d sqliteDialect) AddColumn(table, column string, k ColumnKind) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, d.Quote(column), d.ColumnType(k))
}

func (sqliteDialect) UpsertOwner() string {
	return `INSERT INTO owners (phone, name, email, joined_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(phone) DO UPDATE SET name = excluded.name, email = excluded.email`
}

type postgresDialect struct{}

func (postgresDialect) Name() string              { return Postgres }
func (postgresDialect) Networked() bool           { return true }
func (postgresDialect) Quote(ident string) string { return `"` + ident + `"` }
func (postgresDialect) Bool(v bool) any           { return v }

func (postgresDialect) ColumnType(k ColumnKind) string {
	switch k {
	case RealColumn:
		return "DOUBLE PRECISION"
	case BoolColumn:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

func (d postgresDialect) AddColumn(table, column string, k ColumnKind) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s", table, d.Quote(column), d.ColumnType(k))
}

func (postgresDialect) UpsertOwner() string {
	return `INSERT INTO owners (phone, name, email, joined_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (phone) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email`
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string              { return MySQL }
func (mysqlDialect) Networked() bool           { return true }
func (mysqlDialect) Quote(ident string) string { return "`" + ident + "`" }
func (mysqlDialect) Bool(v bool) any           { return v }

// MySQL cannot index or reference TEXT columns, so keys are bounded VARCHARs.
func (mysqlDialect) ColumnType(k ColumnKind) string {
	switch k {
	case KeyColumn:
		return "VARCHAR(64)"
	case RealColumn:
		return "DOUBLE"
	case BoolColumn:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

func (d mysqlDialect) AddColumn(table, column string, k ColumnKind) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, d.Quote(column), d.ColumnType(k))
}

func (mysqlDialect) UpsertOwner() string {
	return `INSERT INTO owners (phone, name, email, joined_at) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE name = VALUES(name), email = VALUES(email)`
}
