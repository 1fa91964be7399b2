// Package filter describes advanced list filtering (arbitrary field selections).
package filter

// ComparisonType defines the comparison kinds.
type ComparisonType string

const (
	Equal          ComparisonType = "eq"
	NotEqual       ComparisonType = "neq"
	Less           ComparisonType = "lt"
	Greater        ComparisonType = "gt"
	LessOrEqual    ComparisonType = "lte"
	GreaterOrEqual ComparisonType = "gte"
	InList         ComparisonType = "in"
	NotInList      ComparisonType = "nin"
	Contains       ComparisonType = "contains"  // ILIKE %val%
	NotContains    ComparisonType = "ncontains" // NOT ILIKE %val%

	IsNull    ComparisonType = "null"
	IsNotNull ComparisonType = "not_null"
)

// Item represents a single selection row.
type Item struct {
	Field    string         `json:"field"`    // Field name (snake_case)
	Operator ComparisonType `json:"operator"` // Comparison kind
	Value    any            `json:"value"`    // Value (string, number, array of IDs)
}
