package pg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	pnet "taxintake/internal/platform/net"
	"taxintake/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

func TestOpenBadURL(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "::not a url"}, nil, nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestOpenAppliesConfig(t *testing.T) {
	var seen *pgxpool.Config
	testkit.Swap(t, &newPool, func(_ context.Context, c *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = c
		return nil, errors.New("boom")
	})

	mutated := false
	_, err := Open(context.Background(), Config{URL: "postgres://u:p@localhost:5432/db", MaxConns: 7}, nil,
		func(*pgxpool.Config) { mutated = true })
	if err == nil || err.Error() != "boom" {
		t.Fatalf("want seam error, got %v", err)
	}
	if seen == nil || seen.MaxConns != 7 {
		t.Fatalf("max conns not applied: %+v", seen)
	}
	if !mutated {
		t.Fatal("mutator not called")
	}
}

func TestCloseNil(t *testing.T) {
	var p *PG
	p.Close()
	(&PG{}).Close()
}

func TestCompact(t *testing.T) {
	got := compact("SELECT  1\n\tFROM   t\r\n WHERE x = $1 ")
	if got != "SELECT 1 FROM t WHERE x = $1" {
		t.Fatalf("compact = %q", got)
	}
}

func TestTracerLevels(t *testing.T) {
	var buf bytes.Buffer
	root := zerolog.New(&buf).Level(zerolog.ErrorLevel)
	tr := Tracer(root)

	ctx := pnet.WithRequestID(context.Background(), "req-1")
	tr.OnQuery(ctx, QueryEvent{SQL: "SELECT 1", ElapsedUS: 1500})
	tr.OnQuery(ctx, QueryEvent{SQL: "SELECT 2", Slow: true})
	tr.OnQuery(ctx, QueryEvent{SQL: "SELECT 3", Err: errors.New("bad")})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("want 3 lines even with an error root level, got %d: %s", len(lines), buf.String())
	}
	want := []string{"debug", "warn", "error"}
	for i, ln := range lines {
		var m map[string]any
		if err := json.Unmarshal([]byte(ln), &m); err != nil {
			t.Fatal(err)
		}
		if m["level"] != want[i] {
			t.Fatalf("line %d level %v want %s", i, m["level"], want[i])
		}
		if m["request_id"] != "req-1" || m["component"] != "pg" {
			t.Fatalf("line %d missing fields: %v", i, m)
		}
	}
}
