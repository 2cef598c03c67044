package bunstore

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// Lister is the read surface of a go-repository-bun repository. Any
// repository.Repository[T] satisfies it, and so does Table.
type Lister[T any] interface {
	List(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, int, error)
	Count(ctx context.Context, criteria ...repository.SelectCriteria) (int, error)
}

var (
	_ Lister[any] = (repository.Repository[any])(nil)
	_ Lister[any] = (*Table[any])(nil)
)

// Table lists rows of T straight from a bun database, for callers that have
// no repository for the model.
type Table[T any] struct {
	db bun.IDB
}

// NewTable returns a Lister over the table bun maps T to.
func NewTable[T any](db bun.IDB) *Table[T] {
	return &Table[T]{db: db}
}

// List returns the rows matching criteria and the total count ignoring any
// limit and offset the criteria set.
func (t *Table[T]) List(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, int, error) {
	records := []T{}
	q := t.db.NewSelect().Model(&records)
	for _, c := range criteria {
		q = c(q)
	}

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Count returns the number of rows matching criteria.
func (t *Table[T]) Count(ctx context.Context, criteria ...repository.SelectCriteria) (int, error) {
	q := t.db.NewSelect().Model((*T)(nil))
	for _, c := range criteria {
		q = c(q)
	}
	return q.Count(ctx)
}
