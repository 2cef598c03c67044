// Package bunstore adapts SQL tables, through bun and go-repository-bun, to
// the pager.
//
// Store is a cursor-addressed pager.Store using keyset continuation: each
// batch is ordered by a unique key column and the token carries the last key
// seen. FetchOffsetPage is the stateless limit/offset path for callers that
// want a single page without caching.
package bunstore

import (
	"cmp"
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-repository-pager/internal/cursor"
	"github.com/goliatone/go-repository-pager/pager"
	"github.com/goliatone/go-repository-pager/pagination"
)

// Filter is a list of select criteria applied to every query. Criteria must
// not set their own order, limit or offset.
type Filter []repository.SelectCriteria

type position[K cmp.Ordered] struct {
	Key K `msgpack:"k"`
}

// Store pages through a Lister in ascending order of a unique key column.
// K is the Go type of that column.
type Store[T any, K cmp.Ordered] struct {
	lister Lister[T]
	column string
	key    func(T) K
}

var _ pager.Store[any, Filter] = (*Store[any, int64])(nil)

// New returns a Store ordering by column, whose value for a record is given
// by key. column may be qualified with the model alias ("u.id").
func New[T any, K cmp.Ordered](lister Lister[T], column string, key func(T) K) (*Store[T, K], error) {
	if lister == nil {
		return nil, pagination.InvalidArgument("lister", "lister is required")
	}
	if column == "" {
		return nil, pagination.InvalidArgument("column", "key column is required")
	}
	if key == nil {
		return nil, pagination.InvalidArgument("key", "key function is required")
	}
	return &Store[T, K]{lister: lister, column: column, key: key}, nil
}

// Count returns the number of records matching filter.
func (s *Store[T, K]) Count(ctx context.Context, filter Filter) (int, error) {
	return s.lister.Count(ctx, filter...)
}

// FetchBatch returns up to maxItems records with a key greater than the one
// in token. When no record follows, the token is returned unchanged so the
// next call resumes from the same key.
func (s *Store[T, K]) FetchBatch(ctx context.Context, filter Filter, maxItems int, token string) (pager.Batch[T], error) {
	if maxItems < 1 {
		return pager.Batch[T]{}, pagination.InvalidArgument("maxItems", "max items must be at least 1")
	}

	criteria := make([]repository.SelectCriteria, 0, len(filter)+2)
	criteria = append(criteria, filter...)

	if token != "" {
		var pos position[K]
		if err := cursor.Decode(token, &pos); err != nil {
			return pager.Batch[T]{}, err
		}
		criteria = append(criteria, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("? > ?", bun.Ident(s.column), pos.Key)
		})
	}

	criteria = append(criteria, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("? ASC", bun.Ident(s.column)).Limit(maxItems)
	})

	records, _, err := s.lister.List(ctx, criteria...)
	if err != nil {
		return pager.Batch[T]{}, err
	}

	next := token
	if len(records) > 0 {
		next, err = cursor.Encode(position[K]{Key: s.key(records[len(records)-1])})
		if err != nil {
			return pager.Batch[T]{}, err
		}
	}
	return pager.Batch[T]{Items: records, Next: next}, nil
}
