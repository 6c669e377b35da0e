package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nevindra/locality"
)

// testStore connects to LOCALITY_TEST_PG_DSN, skipping when unset.
func testStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("LOCALITY_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("LOCALITY_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	t.Cleanup(pool.Close)

	s := New(pool, WithTable("locality_settings_test_"+locality.NewID()[:8]))
	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { pool.Exec(context.Background(), "DROP TABLE IF EXISTS "+s.ident()) })
	return s
}

func TestIdentQuoting(t *testing.T) {
	s := New(nil, WithTable(`we"ird`))
	if got, want := s.ident(), `"we""ird"`; got != want {
		t.Errorf("ident() = %s, want %s", got, want)
	}
	if New(nil).table != DefaultTable {
		t.Error("expected default table name")
	}
}

func TestLoadSeedsAndRoundTrips(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != locality.DefaultSettings() {
		t.Errorf("expected defaults, got %+v", got)
	}

	want := got
	want.AddLocation = false
	want.TempUnit = locality.Fahrenheit
	if err := s.Save(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, err = s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("round trip: got %+v, want %+v", got, want)
	}
}
