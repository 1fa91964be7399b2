package numerator

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

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

// mockQuerier simulates the sys_sequences UPSERT behavior in memory.
type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64
	calls        int
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	// SetNextNumber overwrites the value, the other queries increment it.
	if strings.Contains(sql, "SET current_val = $2") {
		if val, ok := args[1].(int64); ok {
			m.currentValue = val
		}
		return &mockRow{val: m.currentValue}
	}

	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}

	m.currentValue += increment
	return &mockRow{val: m.currentValue}
}

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("FAC")

	num, err := svc.GetNextNumber(ctx, cfg, nil, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "FAC-2026-00001" {
		t.Errorf("expected FAC-2026-00001, got %s", num)
	}

	num, err = svc.GetNextNumber(ctx, cfg, nil, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "FAC-2026-00002" {
		t.Errorf("expected FAC-2026-00002, got %s", num)
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("RDV")

	opts := &Options{
		Strategy:  StrategyCached,
		RangeSize: 10,
	}

	// First call reserves the range 1..10: DB value jumps to 10,
	// the service hands out 1.
	num, err := svc.GetNextNumber(ctx, cfg, opts, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "RDV-2026-00001" {
		t.Errorf("expected RDV-2026-00001, got %s", num)
	}
	if q.currentValue != 10 {
		t.Errorf("expected DB value to be 10, got %d", q.currentValue)
	}

	// Second call is served from memory, no DB round trip.
	callsBefore := q.calls
	num, err = svc.GetNextNumber(ctx, cfg, opts, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "RDV-2026-00002" {
		t.Errorf("expected RDV-2026-00002, got %s", num)
	}
	if q.calls != callsBefore {
		t.Errorf("expected no extra DB calls, got %d", q.calls-callsBefore)
	}

	// Exhaust the range; the next call reserves 11..20.
	for i := 0; i < 8; i++ {
		_, _ = svc.GetNextNumber(ctx, cfg, opts, time.Now())
	}

	num, err = svc.GetNextNumber(ctx, cfg, opts, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "RDV-2026-00011" {
		t.Errorf("expected RDV-2026-00011, got %s", num)
	}
	if q.currentValue != 20 {
		t.Errorf("expected DB value to be 20, got %d", q.currentValue)
	}
}

func TestSetNextNumber_InvalidatesCache(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("FAC")
	opts := &Options{Strategy: StrategyCached, RangeSize: 10}
	now := time.Now()

	// Fill the cache (range 1..10).
	_, _ = svc.GetNextNumber(ctx, cfg, opts, now)

	if err := svc.SetNextNumber(ctx, cfg, now, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Cached range was dropped, so the next call reserves 101..110.
	num, err := svc.GetNextNumber(ctx, cfg, opts, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "FAC-2026-00101" {
		t.Errorf("expected FAC-2026-00101, got %s", num)
	}
}

func TestFormatNumber(t *testing.T) {
	svc := New(&mockQuerier{})
	period := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cfg  Config
		num  int64
		want string
	}{
		{"with year", Config{Prefix: "FAC", IncludeYear: true, PadWidth: 5}, 42, "FAC-2026-00042"},
		{"without year", Config{Prefix: "PAT", PadWidth: 4}, 7, "PAT-0007"},
		{"default pad", Config{Prefix: "FAC", IncludeYear: true}, 1, "FAC-2026-00001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.formatNumber(tt.cfg, period, tt.num)
			if got != tt.want {
				t.Errorf("formatNumber() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	if got := ParseNumber("FAC-2026-00042"); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := ParseNumber("PAT-0007"); got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
	if got := ParseNumber("garbage"); got != -1 {
		t.Errorf("expected -1, got %d", got)
	}
}
