package page

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/kailas-cloud/xfind/internal/domain"
)

func mustPage(t *testing.T, items []int, total, perPage, current int, opts ...Option) *Page[int] {
	t.Helper()
	p, err := New(items, total, perPage, current, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestPage_Navigation(t *testing.T) {
	tests := []struct {
		name                         string
		total, perPage, current      int
		wantLast, wantNext, wantPrev int
		wantMore                     bool
	}{
		{"last of three", 57, 20, 3, 3, 3, 2, true},
		{"first of three", 57, 20, 1, 3, 2, 1, true},
		{"middle", 57, 20, 2, 3, 3, 1, true},
		{"single page", 10, 20, 1, 1, 1, 1, false},
		{"empty", 0, 20, 1, 0, 1, 1, false},
		{"exact fit", 40, 20, 2, 2, 2, 1, true},
		{"past the end", 57, 20, 9, 3, 3, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustPage(t, nil, tt.total, tt.perPage, tt.current)
			if got := p.LastPage(); got != tt.wantLast {
				t.Errorf("LastPage() = %d, want %d", got, tt.wantLast)
			}
			if got := p.NextPage(); got != tt.wantNext {
				t.Errorf("NextPage() = %d, want %d", got, tt.wantNext)
			}
			if got := p.PrevPage(); got != tt.wantPrev {
				t.Errorf("PrevPage() = %d, want %d", got, tt.wantPrev)
			}
			if got := p.HasMorePages(); got != tt.wantMore {
				t.Errorf("HasMorePages() = %v, want %v", got, tt.wantMore)
			}
		})
	}
}

func TestPage_InvalidPerPage(t *testing.T) {
	for _, n := range []int{0, -5} {
		_, err := New([]int{1}, 1, n, 1)
		if !errors.Is(err, domain.ErrConfiguration) {
			t.Errorf("New(perPage=%d) err = %v, want ErrConfiguration", n, err)
		}
	}
}

func TestPage_InvalidCurrentPage(t *testing.T) {
	p := mustPage(t, nil, 100, 10, -3)
	if p.CurrentPage() != 1 {
		t.Errorf("CurrentPage() = %d, want 1", p.CurrentPage())
	}
	if !p.OnFirstPage() {
		t.Error("OnFirstPage() = false")
	}
}

func TestPage_Items(t *testing.T) {
	p := mustPage(t, []int{21, 22, 23}, 23, 10, 3)
	first, ok := p.FirstItem()
	if !ok || first != 21 {
		t.Errorf("FirstItem() = %d, %v", first, ok)
	}
	last, ok := p.LastItem()
	if !ok || last != 23 {
		t.Errorf("LastItem() = %d, %v", last, ok)
	}

	empty := mustPage(t, nil, 0, 10, 1)
	if _, ok := empty.FirstItem(); ok {
		t.Error("FirstItem() on empty page reported a value")
	}
	if !empty.IsEmpty() || empty.HasPages() {
		t.Errorf("IsEmpty() = %v, HasPages() = %v", empty.IsEmpty(), empty.HasPages())
	}
}

func TestPage_HasMoreOverride(t *testing.T) {
	p := mustPage(t, nil, 57, 20, 1, WithHasMore(false))
	if p.HasMorePages() {
		t.Error("override ignored")
	}
	if p.NextPage() != 1 {
		t.Errorf("NextPage() = %d, want 1", p.NextPage())
	}
}

func TestOffset(t *testing.T) {
	tests := []struct{ perPage, page, want int }{
		{20, 1, 0},
		{20, 3, 40},
		{20, 0, 0},
		{20, -1, 0},
		{0, 3, 0},
	}
	for _, tt := range tests {
		if got := Offset(tt.perPage, tt.page); got != tt.want {
			t.Errorf("Offset(%d, %d) = %d, want %d", tt.perPage, tt.page, got, tt.want)
		}
	}
}

func TestPage_MarshalJSON(t *testing.T) {
	p := mustPage(t, []int{1, 2}, 2, 20, 1,
		WithField("facets", []string{"lang"}),
		WithField("total", 999),
	)
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"total", "per_page", "current_page", "last_page", "next_page", "prev_page", "data", "facets"} {
		if _, ok := got[k]; !ok {
			t.Errorf("missing key %q in %v", k, got)
		}
	}
	if got["total"] != float64(2) {
		t.Errorf("total = %v, custom fields must not override", got["total"])
	}
}
