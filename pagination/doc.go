// Package pagination computes page metadata and holds page values.
//
// # Overview
//
// Two types live here:
//
//   - Descriptor: page count and neighbour page numbers derived from a total
//     item count, a requested page number and a page size
//   - Page[T]: the items of one page plus its Descriptor
//
// Both are immutable once built and carry no I/O.
//
// # Page Math
//
//	PageCount = max(1, ceil(TotalCount / PageSize))
//
// An empty result set is page 1 of 1 regardless of the requested page. For a
// non-empty set the requested page number is kept even when it is past the last
// page; such a page simply has no items.
//
// PreviousPageNumber is set only when PageNumber > 1 and NextPageNumber only
// when PageNumber < PageCount.
//
// # Mapping
//
// Go methods cannot introduce type parameters, so converting a page's element
// type is a package function:
//
//	users, _ := pagination.FromSuperset(all, 2, 10)
//	names := pagination.MapPage(users, func(u User) string { return u.Name })
//
// # Errors
//
// Malformed arguments (page number or size below 1, missing descriptor or
// items) fail with an InvalidArgument error. Use IsInvalidArgument to detect
// it; the error is a go-errors value so callers can also read its category,
// text code and metadata.
package pagination
