package store

import (
	"context"
	"fmt"
	"strings"
)

// Predicate is a filter over archived runs.
//
// This is a sealed interface: only Equals and And implement it, so the
// compiler below can switch over it exhaustively.
type Predicate interface {
	predicateNode()
}

// Equals matches runs whose column equals Value.
type Equals struct {
	Field string
	Value string
}

func (Equals) predicateNode() {}

// And matches runs satisfying every predicate. An empty And matches all.
type And []Predicate

func (And) predicateNode() {}

// Queryable run columns.
const (
	FieldSeed          = "seed"
	FieldCompositionID = "composition_id"
	FieldRequestHash   = "request_hash"
	FieldEngineVersion = "engine_version"
)

var queryFields = map[string]bool{
	FieldSeed:          true,
	FieldCompositionID: true,
	FieldRequestHash:   true,
	FieldEngineVersion: true,
}

// Where builds a conjunction of Equals predicates from non-empty values.
// Returns nil when every value is empty.
func Where(fields map[string]string) Predicate {
	var and And
	for _, f := range []string{FieldSeed, FieldCompositionID, FieldRequestHash, FieldEngineVersion} {
		if v := fields[f]; v != "" {
			and = append(and, Equals{Field: f, Value: v})
		}
	}
	if len(and) == 0 {
		return nil
	}
	return and
}

// compileQuery renders a parameterized SELECT over runs. Values are always
// bound as parameters and every query ends in the insertion-order key.
func compileQuery(p Predicate) (string, []any, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + runColumns + ` FROM runs`)

	var params []any
	if p != nil {
		where, ps, err := compilePredicate(p)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		b.WriteString(" WHERE " + where)
		params = ps
	}
	b.WriteString(" ORDER BY seq ASC, id COLLATE BINARY ASC")
	return b.String(), params, nil
}

func compilePredicate(p Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case Equals:
		if !queryFields[pred.Field] {
			return "", nil, fmt.Errorf("unknown field %q", pred.Field)
		}
		return pred.Field + " = ?", []any{pred.Value}, nil
	case And:
		if len(pred) == 0 {
			return "1 = 1", nil, nil
		}
		parts := make([]string, 0, len(pred))
		var params []any
		for _, sub := range pred {
			sql, ps, err := compilePredicate(sub)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, sql)
			params = append(params, ps...)
		}
		return "(" + strings.Join(parts, " AND ") + ")", params, nil
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// QueryRuns returns the runs matching p in insertion order. A nil predicate
// matches every run. Returns an empty slice (not nil) when nothing matches.
func (s *Store) QueryRuns(ctx context.Context, p Predicate) ([]Run, error) {
	query, params, err := compileQuery(p)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
