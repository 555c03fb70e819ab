package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PageRequest selects one page of a filtered, sorted listing.
type PageRequest struct {
	Search     string
	SortField  string
	Descending bool
	PageIndex  int // 1-based
	PageSize   int
}

// Validate rejects page coordinates that cannot address a slice of the result set.
func (r PageRequest) Validate() error {
	switch {
	case r.PageIndex < 1:
		return fmt.Errorf("%w: page index must be at least 1", ErrInvalidPage)
	case r.PageSize < 1:
		return fmt.Errorf("%w: page size must be at least 1", ErrInvalidPage)
	}
	return nil
}

func (r PageRequest) offset() int {
	return (r.PageIndex - 1) * r.PageSize
}

// pastEnd reports whether the page starts at or beyond total rows. It never
// multiplies, so huge page indexes cannot wrap the offset.
func (r PageRequest) pastEnd(total int) bool {
	if total <= 0 {
		return true
	}
	return r.PageIndex-1 > (total-1)/r.PageSize
}

// Page is one slice of a listing plus the size of the whole filtered set.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	PageIndex  int `json:"page"`
	PageSize   int `json:"pageSize"`
}

type sortColumn struct {
	expr     string
	nullable bool
}

// sortTable resolves a caller supplied sort keyword to an ORDER BY clause.
type sortTable struct {
	columns  map[string]sortColumn
	fallback sortColumn
	tiebreak string
}

func (t sortTable) orderBy(field string, descending bool) string {
	col, ok := t.columns[strings.ToLower(field)]
	if !ok {
		col = t.fallback
	}

	clause := col.expr + " ASC"
	if descending {
		clause = col.expr + " DESC"
	}
	// A missing timestamp ranks below every real one in both directions.
	if col.nullable {
		if descending {
			clause += " NULLS LAST"
		} else {
			clause += " NULLS FIRST"
		}
	}

	return "ORDER BY " + clause + ", " + t.tiebreak + " ASC"
}

// args accumulates bind values and hands out their $N placeholders.
type args struct {
	values []any
}

func (a *args) bind(v any) string {
	a.values = append(a.values, v)
	return fmt.Sprintf("$%d", len(a.values))
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// listing describes how one entity kind is filtered, sorted and projected.
type listing[T any] struct {
	name      string
	selectSQL string
	countSQL  string
	sorts     sortTable
	where     func(a *args) []string
	scan      func(rowScanner) (T, error)
	// decorate fills in related data for the fetched items within the same snapshot.
	decorate func(ctx context.Context, q queryer, items []T) error
}

// queryPage counts the filtered set, then fetches and projects the requested
// slice of it. Both run in one read snapshot so totalCount matches the items.
func queryPage[T any](ctx context.Context, s *Store, l listing[T], req PageRequest) (Page[T], error) {
	if err := req.Validate(); err != nil {
		return Page[T]{}, err
	}

	var page Page[T]
	err := s.withSnapshot(ctx, func(tx *sql.Tx) error {
		var err error
		page, err = fetchPage(ctx, s, tx, l, req)
		if err != nil {
			return err
		}
		if l.decorate != nil {
			return l.decorate(ctx, tx, page.Items)
		}
		return nil
	})
	if err != nil {
		return Page[T]{}, err
	}
	return page, nil
}

func fetchPage[T any](ctx context.Context, s *Store, q queryer, l listing[T], req PageRequest) (Page[T], error) {
	var (
		bound   args
		clauses []string
	)
	if l.where != nil {
		clauses = l.where(&bound)
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	page := Page[T]{
		Items:     []T{},
		PageIndex: req.PageIndex,
		PageSize:  req.PageSize,
	}

	if err := q.QueryRowContext(ctx, s.rebind(l.countSQL+where), bound.values...).Scan(&page.TotalCount); err != nil {
		return Page[T]{}, fmt.Errorf("count %s: %w", l.name, err)
	}
	if req.pastEnd(page.TotalCount) {
		return page, nil
	}

	query := l.selectSQL + where + " " + l.sorts.orderBy(req.SortField, req.Descending)
	query += " LIMIT " + bound.bind(req.PageSize) + " OFFSET " + bound.bind(req.offset())

	rows, err := q.QueryContext(ctx, s.rebind(query), bound.values...)
	if err != nil {
		return Page[T]{}, fmt.Errorf("select %s: %w", l.name, err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := l.scan(rows)
		if err != nil {
			return Page[T]{}, err
		}
		page.Items = append(page.Items, item)
	}
	if err := rows.Err(); err != nil {
		return Page[T]{}, fmt.Errorf("iterate %s: %w", l.name, err)
	}

	return page, nil
}

// searchClause returns the predicate for a trimmed, non-blank search term
// matched against any of the given columns.
func (s *Store) searchClause(a *args, term string, columns ...string) []string {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	pattern := containsPattern(term)
	preds := make([]string, 0, len(columns))
	for _, col := range columns {
		preds = append(preds, s.dialect.like(col, a.bind(pattern)))
	}
	if len(preds) == 1 {
		return preds
	}
	return []string{"(" + strings.Join(preds, " OR ") + ")"}
}

// NameRef is a lightweight (id, name) pair used to populate selection inputs.
type NameRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (s *Store) nameRefs(ctx context.Context, what, query string) ([]NameRef, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query))
	if err != nil {
		return nil, fmt.Errorf("select %s names: %w", what, err)
	}
	defer rows.Close()

	refs := []NameRef{}
	for rows.Next() {
		var ref NameRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("scan %s name: %w", what, err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s names: %w", what, err)
	}
	return refs, nil
}
