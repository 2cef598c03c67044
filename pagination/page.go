package pagination

// Page is one bounded, ordered slice of a result set together with the
// metadata describing where it sits in that set.
type Page[T any] struct {
	Descriptor
	Items []T `json:"items"`
}

// NewPage builds a page from a descriptor and the items already cut for it.
// The items are copied so the page owns its sequence.
func NewPage[T any](desc *Descriptor, items []T) (Page[T], error) {
	if desc == nil {
		return Page[T]{}, InvalidArgument("descriptor", "descriptor is required")
	}
	if items == nil {
		return Page[T]{}, InvalidArgument("items", "items are required")
	}

	owned := make([]T, len(items))
	copy(owned, items)

	return Page[T]{Descriptor: desc.clone(), Items: owned}, nil
}

// FromSuperset counts superset, computes the descriptor and cuts the requested
// page out of it. Used by stateless readers that can materialize the whole set.
func FromSuperset[T any](superset []T, pageNumber, pageSize int) (Page[T], error) {
	if superset == nil {
		return Page[T]{}, InvalidArgument("superset", "superset is required")
	}

	desc, err := NewDescriptor(len(superset), pageNumber, pageSize)
	if err != nil {
		return Page[T]{}, err
	}

	lo, hi := Bounds(len(superset), pageNumber, pageSize)
	return NewPage(&desc, superset[lo:hi])
}

// Bounds returns the zero-based [lo, hi) item range of pageNumber, clamped to
// a sequence of length n.
func Bounds(n, pageNumber, pageSize int) (int, int) {
	lo := (pageNumber - 1) * pageSize
	hi := pageNumber * pageSize
	if lo > n {
		lo = n
	}
	if hi > n {
		hi = n
	}
	if lo < 0 {
		lo = 0
	}
	return lo, hi
}

// Len returns the number of items on the page.
func (p Page[T]) Len() int {
	return len(p.Items)
}

// Map applies convert to every item and keeps the descriptor.
func (p Page[T]) Map(convert func(T) T) Page[T] {
	return MapPage(p, convert)
}

// MapPage converts a Page[T] into a Page[U]. The result has the same
// descriptor values, the same length and the same order, backed by a new
// slice.
func MapPage[T, U any](p Page[T], convert func(T) U) Page[U] {
	items := make([]U, len(p.Items))
	for i, item := range p.Items {
		items[i] = convert(item)
	}
	return Page[U]{Descriptor: p.Descriptor.clone(), Items: items}
}
