package database

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConnectFallsBackToSQLite(t *testing.T) {
	cases := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"unknown scheme", "mongodb://localhost:27017/parkospace"},
		{"unreachable postgres", "postgres://user:pw@127.0.0.1:1/parkospace"},
		{"unreachable mysql", "mysql://user:pw@127.0.0.1:1/parkospace"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "parkospace.db")
			b, err := Connect(context.Background(), Options{
				DatabaseURL:  tc.url,
				SQLitePath:   path,
				ProbeTimeout: 500 * time.Millisecond,
			})
			if err != nil {
				t.Fatalf("Connect: %v", err)
			}
			defer b.Close()
			if b.Dialect.Name() != SQLite {
				t.Fatalf("dialect = %q, want sqlite", b.Dialect.Name())
			}
			if b.Dialect.Networked() {
				t.Fatal("sqlite dialect reports networked")
			}
		})
	}
}

func TestNetworkedTarget(t *testing.T) {
	d, driver, dsn, err := networkedTarget("postgresql://u:p@db.example.com:5432/park")
	if err != nil {
		t.Fatalf("postgres: %v", err)
	}
	if d.Name() != Postgres || driver != "postgres" {
		t.Fatalf("got %s/%s", d.Name(), driver)
	}
	if !strings.Contains(dsn, "sslmode=require") {
		t.Fatalf("dsn %q lacks sslmode=require", dsn)
	}

	_, _, dsn, err = networkedTarget("postgres://u:p@localhost/park?sslmode=disable")
	if err != nil {
		t.Fatalf("postgres: %v", err)
	}
	if !strings.Contains(dsn, "sslmode=disable") || strings.Contains(dsn, "sslmode=require") {
		t.Fatalf("explicit sslmode not kept: %q", dsn)
	}

	d, driver, dsn, err = networkedTarget("mysql://root:secret@db:3307/park")
	if err != nil {
		t.Fatalf("mysql: %v", err)
	}
	if d.Name() != MySQL || driver != "mysql" {
		t.Fatalf("got %s/%s", d.Name(), driver)
	}
	if !strings.HasPrefix(dsn, "root:secret@tcp(db:3307)/park?") {
		t.Fatalf("mysql dsn = %q", dsn)
	}

	if _, _, _, err := networkedTarget("redis://localhost:6379"); err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
}

func TestMySQLDSNDefaults(t *testing.T) {
	u, _ := url.Parse("mysql://app@db/park")
	dsn, err := mysqlDSN(u)
	if err != nil {
		t.Fatalf("mysqlDSN: %v", err)
	}
	if !strings.HasPrefix(dsn, "app@tcp(db:3306)/park?") {
		t.Fatalf("dsn = %q", dsn)
	}
	if !strings.Contains(dsn, "charset=utf8mb4") {
		t.Fatalf("dsn = %q lacks charset", dsn)
	}
	if !strings.Contains(dsn, "clientFoundRows=true") {
		t.Fatalf("dsn = %q lacks clientFoundRows", dsn)
	}

	u, _ = url.Parse("mysql://app@db:3306/")
	if _, err := mysqlDSN(u); err == nil {
		t.Fatal("expected error for missing database name")
	}
}
