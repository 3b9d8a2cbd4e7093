package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64 // Simulates DB sequence value
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.currentValue++
	return &mockRow{val: m.currentValue}
}

func TestNextCode(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("LOT")
	period := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	num, err := svc.NextCode(ctx, cfg, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "LOT-2026-00001" {
		t.Errorf("expected LOT-2026-00001, got %s", num)
	}

	num, err = svc.NextCode(ctx, cfg, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "LOT-2026-00002" {
		t.Errorf("expected LOT-2026-00002, got %s", num)
	}
}

func TestNextCode_NoYear(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	cfg := Config{Prefix: "FRM", IncludeYear: false, PadWidth: 4}

	num, err := svc.NextCode(context.Background(), cfg, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "FRM-0001" {
		t.Errorf("expected FRM-0001, got %s", num)
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"LOT-2026-00042", 42},
		{"FRM-0007", 7},
		{"garbage", -1},
	}

	for _, tc := range cases {
		if got := ParseNumber(tc.in); got != tc.want {
			t.Errorf("ParseNumber(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
