// Package filter holds the pre-filter expression applied before vector
// ranking: a conjunction of tag clauses, each an OR over allowed values.
package filter

// Clause restricts one tag field to a set of values (OR semantics).
type Clause struct {
	field  string
	values []string
}

// NewClause creates a tag clause. An empty value set yields a clause that is
// skipped by the query builder.
func NewClause(field string, values []string) Clause {
	return Clause{field: field, values: values}
}

// Field returns the index field name.
func (c Clause) Field() string { return c.field }

// Values returns the allowed values.
func (c Clause) Values() []string { return c.values }

// IsEmpty reports whether the clause has no values.
func (c Clause) IsEmpty() bool { return len(c.values) == 0 }

// Expression is an AND over clauses. The zero value matches everything.
type Expression struct {
	clauses []Clause
}

// NewExpression creates an expression from clauses, dropping empty ones.
func NewExpression(clauses ...Clause) Expression {
	kept := make([]Clause, 0, len(clauses))
	for _, c := range clauses {
		if !c.IsEmpty() {
			kept = append(kept, c)
		}
	}
	return Expression{clauses: kept}
}

// And returns a new expression with additional clauses appended.
func (e Expression) And(clauses ...Clause) Expression {
	merged := make([]Clause, 0, len(e.clauses)+len(clauses))
	merged = append(merged, e.clauses...)
	for _, c := range clauses {
		if !c.IsEmpty() {
			merged = append(merged, c)
		}
	}
	return Expression{clauses: merged}
}

// Clauses returns the conjunction members.
func (e Expression) Clauses() []Clause { return e.clauses }

// IsEmpty reports whether the expression restricts nothing.
func (e Expression) IsEmpty() bool { return len(e.clauses) == 0 }
