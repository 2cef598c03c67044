package bunstore

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-repository-pager/pager"
	"github.com/goliatone/go-repository-pager/pagination"
)

// OpList names the List call in StoreError metadata.
const OpList = "list"

// FetchOffsetPage loads one page with limit and offset. Nothing is cached
// between calls; the descriptor uses the total the lister reports. criteria
// should fix an order for pages to be stable.
func FetchOffsetPage[T any](ctx context.Context, lister Lister[T], pageNumber, pageSize int, criteria ...repository.SelectCriteria) (pagination.Page[T], error) {
	if _, err := pagination.NewDescriptor(0, pageNumber, pageSize); err != nil {
		return pagination.Page[T]{}, err
	}
	if lister == nil {
		return pagination.Page[T]{}, pagination.InvalidArgument("lister", "lister is required")
	}

	paged := make([]repository.SelectCriteria, 0, len(criteria)+1)
	paged = append(paged, criteria...)
	paged = append(paged, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Limit(pageSize).Offset((pageNumber - 1) * pageSize)
	})

	records, total, err := lister.List(ctx, paged...)
	if err != nil {
		return pagination.Page[T]{}, pager.StoreError(OpList, err)
	}

	desc, err := pagination.NewDescriptor(total, pageNumber, pageSize)
	if err != nil {
		return pagination.Page[T]{}, pager.StoreError(OpList, err)
	}
	if records == nil {
		records = []T{}
	}
	return pagination.NewPage(&desc, records)
}
