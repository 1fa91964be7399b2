package catalog_repo

import (
	"testing"

	"clinova/internal/domain/filter"
)

func testRepo() *BaseCatalogRepo[any] {
	return NewBaseCatalogRepo[any](nil, "test_table", []string{"id", "col1"}, func() any { return nil })
}

func TestApplyAdvancedFilters_Operators(t *testing.T) {
	repo := testRepo()

	tests := []struct {
		name     string
		item     filter.Item
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "Greater",
			item:     filter.Item{Field: "col1", Operator: filter.Greater, Value: 10},
			wantSQL:  "SELECT id, col1 FROM test_table WHERE col1 > $1",
			wantArgs: []any{10},
		},
		{
			name:     "Less",
			item:     filter.Item{Field: "col1", Operator: filter.Less, Value: 5},
			wantSQL:  "SELECT id, col1 FROM test_table WHERE col1 < $1",
			wantArgs: []any{5},
		},
		{
			name:     "Contains",
			item:     filter.Item{Field: "col1", Operator: filter.Contains, Value: "abc"},
			wantSQL:  "SELECT id, col1 FROM test_table WHERE col1 ILIKE $1",
			wantArgs: []any{"%abc%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseQ := repo.baseSelect()
			q, err := repo.applyAdvancedFilters(baseQ, []filter.Item{tt.item})
			if err != nil {
				t.Fatalf("applyAdvancedFilters failed: %v", err)
			}

			sql, args, err := q.ToSql()
			if err != nil {
				t.Fatalf("ToSql failed: %v", err)
			}

			if sql != tt.wantSQL {
				t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", tt.wantSQL, sql)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("Args count mismatch\nwant: %d\ngot:  %d", len(tt.wantArgs), len(args))
			}
			if args[0] != tt.wantArgs[0] {
				t.Errorf("Args mismatch\nwant: %v\ngot:  %v", tt.wantArgs[0], args[0])
			}
		})
	}
}

func TestApplyAdvancedFilters_RejectsUnknownColumn(t *testing.T) {
	repo := testRepo()

	_, err := repo.applyAdvancedFilters(repo.baseSelect(), []filter.Item{
		{Field: "password_hash", Operator: filter.Equal, Value: "x"},
	})
	if err == nil {
		t.Fatal("expected error for column outside the whitelist")
	}
}

func TestParseOrderBy(t *testing.T) {
	repo := testRepo()

	tests := []struct {
		name    string
		orderBy string
		want    string
		wantErr bool
	}{
		{name: "Default", orderBy: "", want: "name ASC"},
		{name: "Ascending", orderBy: "col1", want: "col1 ASC"},
		{name: "Descending", orderBy: "-created_at", want: "created_at DESC"},
		{name: "ExplicitPlus", orderBy: "+code", want: "code ASC"},
		{name: "UnknownField", orderBy: "sneaky; DROP TABLE", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.parseOrderBy(tt.orderBy)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for orderBy %q", tt.orderBy)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseOrderBy failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("orderBy mismatch\nwant: %s\ngot:  %s", tt.want, got)
			}
		})
	}
}
