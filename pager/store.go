package pager

import (
	"context"

	"github.com/goliatone/go-repository-pager/pagination"
)

// Batch is one bounded result returned by a Store.
//
// Next is the continuation token to pass to the following FetchBatch call.
// Stores return a token that resumes after the last item even when the
// stream is exhausted, so a later call picks up items appended since.
type Batch[T any] struct {
	Items []T
	Next  string
}

// Store is a cursor-addressed collection the reader pulls from. F is the
// store's own filter type and is passed through untouched.
//
// FetchBatch returns at most maxItems items starting after token. An empty
// token means the start of the collection. A batch may be shorter than
// maxItems even when more items exist.
type Store[T any, F any] interface {
	Count(ctx context.Context, filter F) (int, error)
	FetchBatch(ctx context.Context, filter F, maxItems int, token string) (Batch[T], error)
}

// StoreFuncs adapts a pair of functions to the Store interface.
type StoreFuncs[T any, F any] struct {
	CountFunc      func(ctx context.Context, filter F) (int, error)
	FetchBatchFunc func(ctx context.Context, filter F, maxItems int, token string) (Batch[T], error)
}

var _ Store[any, any] = StoreFuncs[any, any]{}

func (s StoreFuncs[T, F]) Count(ctx context.Context, filter F) (int, error) {
	if s.CountFunc == nil {
		return 0, pagination.InvalidArgument("CountFunc", "count function is required")
	}
	return s.CountFunc(ctx, filter)
}

func (s StoreFuncs[T, F]) FetchBatch(ctx context.Context, filter F, maxItems int, token string) (Batch[T], error) {
	if s.FetchBatchFunc == nil {
		return Batch[T]{}, pagination.InvalidArgument("FetchBatchFunc", "fetch batch function is required")
	}
	return s.FetchBatchFunc(ctx, filter, maxItems, token)
}
