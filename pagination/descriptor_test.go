package pagination

import (
	"testing"

	"github.com/goliatone/go-repository-pager/pkg/testsupport"
)

type descriptorScenario struct {
	Name       string `json:"name"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	Size       int    `json:"size"`
	PageNumber int    `json:"pageNumber"`
	PageCount  int    `json:"pageCount"`
	Previous   *int   `json:"previous"`
	Next       *int   `json:"next"`
}

func equalOptional(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func showOptional(v *int) any {
	if v == nil {
		return "<nil>"
	}
	return *v
}

func TestNewDescriptor_Scenarios(t *testing.T) {
	for _, sc := range testsupport.Scenarios[descriptorScenario](t, "descriptor_scenarios.json") {
		t.Run(sc.Name, func(t *testing.T) {
			d, err := NewDescriptor(sc.Total, sc.Page, sc.Size)
			if err != nil {
				t.Fatalf("NewDescriptor() unexpected error: %v", err)
			}

			if d.PageNumber != sc.PageNumber {
				t.Errorf("PageNumber = %d, want %d", d.PageNumber, sc.PageNumber)
			}
			if d.PageCount != sc.PageCount {
				t.Errorf("PageCount = %d, want %d", d.PageCount, sc.PageCount)
			}
			if d.FirstPageNumber != 1 {
				t.Errorf("FirstPageNumber = %d, want 1", d.FirstPageNumber)
			}
			if d.LastPageNumber != d.PageCount {
				t.Errorf("LastPageNumber = %d, want %d", d.LastPageNumber, d.PageCount)
			}
			if !equalOptional(d.PreviousPageNumber, sc.Previous) {
				t.Errorf("PreviousPageNumber = %v, want %v", showOptional(d.PreviousPageNumber), showOptional(sc.Previous))
			}
			if !equalOptional(d.NextPageNumber, sc.Next) {
				t.Errorf("NextPageNumber = %v, want %v", showOptional(d.NextPageNumber), showOptional(sc.Next))
			}
		})
	}
}

func TestNewDescriptor_InvalidArguments(t *testing.T) {
	tests := []struct {
		name  string
		total int
		page  int
		size  int
	}{
		{name: "page zero", total: 3, page: 0, size: 1},
		{name: "negative page", total: 3, page: -2, size: 1},
		{name: "size zero", total: 3, page: 1, size: 0},
		{name: "negative total", total: -1, page: 1, size: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDescriptor(tt.total, tt.page, tt.size)
			if err == nil {
				t.Fatal("expected error but got nil")
			}
			if !IsInvalidArgument(err) {
				t.Errorf("expected InvalidArgument but got: %v", err)
			}
		})
	}
}

func TestNewDescriptor_PageCountProperty(t *testing.T) {
	for total := 0; total <= 60; total++ {
		for size := 1; size <= 12; size++ {
			d, err := NewDescriptor(total, 1, size)
			if err != nil {
				t.Fatalf("NewDescriptor(%d, 1, %d) unexpected error: %v", total, size, err)
			}

			want := (total + size - 1) / size
			if want < 1 {
				want = 1
			}
			if d.PageCount != want {
				t.Fatalf("NewDescriptor(%d, 1, %d).PageCount = %d, want %d", total, size, d.PageCount, want)
			}
		}
	}
}

func TestNewDescriptor_NeighbourProperty(t *testing.T) {
	const total, size = 95, 10

	for page := 1; page <= 10; page++ {
		d, err := NewDescriptor(total, page, size)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		switch {
		case page == 1:
			if d.HasPrevious() {
				t.Errorf("page %d: expected no previous page", page)
			}
		case page == d.PageCount:
			if d.HasNext() {
				t.Errorf("page %d: expected no next page", page)
			}
		}

		if d.HasPrevious() && d.HasNext() {
			if *d.PreviousPageNumber+1 != d.PageNumber || d.PageNumber != *d.NextPageNumber-1 {
				t.Errorf("page %d: neighbours %d/%d are not adjacent", page, *d.PreviousPageNumber, *d.NextPageNumber)
			}
		}
	}
}

func TestDescriptor_OffsetAndLimit(t *testing.T) {
	d, err := NewDescriptor(25, 3, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.Offset() != 20 {
		t.Errorf("Offset() = %d, want 20", d.Offset())
	}
	if d.Limit() != 30 {
		t.Errorf("Limit() = %d, want 30", d.Limit())
	}
}

func TestNewDescriptor_Deterministic(t *testing.T) {
	a, _ := NewDescriptor(42, 3, 5)
	b, _ := NewDescriptor(42, 3, 5)

	if a.PageCount != b.PageCount || a.PageNumber != b.PageNumber ||
		!equalOptional(a.PreviousPageNumber, b.PreviousPageNumber) ||
		!equalOptional(a.NextPageNumber, b.NextPageNumber) {
		t.Errorf("expected identical descriptors, got %+v and %+v", a, b)
	}

	// neighbour pointers are owned by each descriptor
	*a.NextPageNumber = 99
	if *b.NextPageNumber == 99 {
		t.Error("descriptors must not share neighbour storage")
	}
}
