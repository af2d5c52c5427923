package internal

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pages(ps ...int) []PageEntry {
	out := make([]PageEntry, 0, len(ps))
	for _, p := range ps {
		if p == 0 {
			out = append(out, PageEntry{Ellipsis: true})
		} else {
			out = append(out, PageEntry{Page: p})
		}
	}
	return out
}

func TestPageRange(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		siblings int
		want     []PageEntry
	}{
		{
			name:    "empty when no pages",
			current: 1, total: 0, siblings: 1,
			want: []PageEntry{},
		},
		{
			name:    "single page",
			current: 1, total: 1, siblings: 1,
			want: pages(1),
		},
		{
			name:    "small range fits without markers",
			current: 3, total: 7, siblings: 1,
			want: pages(1, 2, 3, 4, 5, 6, 7),
		},
		{
			name:    "boundary fits exactly",
			current: 4, total: 7, siblings: 1,
			want: pages(1, 2, 3, 4, 5, 6, 7),
		},
		{
			name:    "right marker only near start",
			current: 2, total: 20, siblings: 1,
			want: pages(1, 2, 3, 4, 5, 0, 20),
		},
		{
			name:    "left marker only near end",
			current: 19, total: 20, siblings: 1,
			want: pages(1, 0, 16, 17, 18, 19, 20),
		},
		{
			name:    "both markers in the middle",
			current: 20, total: 37, siblings: 1,
			want: pages(1, 0, 19, 20, 21, 0, 37),
		},
		{
			name:    "wider siblings",
			current: 10, total: 37, siblings: 2,
			want: pages(1, 0, 8, 9, 10, 11, 12, 0, 37),
		},
		{
			name:    "zero siblings",
			current: 10, total: 37, siblings: 0,
			want: pages(1, 0, 10, 0, 37),
		},
		{
			name:    "current below range is clamped",
			current: -5, total: 20, siblings: 1,
			want: pages(1, 2, 3, 4, 5, 0, 20),
		},
		{
			name:    "current above range is clamped",
			current: 99, total: 20, siblings: 1,
			want: pages(1, 0, 16, 17, 18, 19, 20),
		},
		{
			name:    "negative siblings treated as zero",
			current: 10, total: 37, siblings: -3,
			want: pages(1, 0, 10, 0, 37),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PageRange(tt.current, tt.total, tt.siblings)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Structural properties that must hold for every input: the range starts
// at page 1, ends at the last page, contains the (clamped) current page,
// and never shows two markers in a row.
func TestPageRangeProperties(t *testing.T) {
	for total := 1; total <= 120; total++ {
		for current := 1; current <= total; current++ {
			for siblings := 0; siblings <= 3; siblings++ {
				got := PageRange(current, total, siblings)
				label := fmt.Sprintf("current=%d total=%d siblings=%d", current, total, siblings)

				require.NotEmpty(t, got, label)
				assert.Equal(t, PageEntry{Page: 1}, got[0], label)
				assert.Equal(t, PageEntry{Page: total}, got[len(got)-1], label)

				foundCurrent := false
				for i, e := range got {
					if e.Ellipsis {
						require.Greater(t, i, 0, label)
						require.Less(t, i, len(got)-1, label)
						assert.False(t, got[i-1].Ellipsis, label)
						continue
					}
					if e.Page == current {
						foundCurrent = true
					}
					// concrete pages are strictly increasing
					if i > 0 && !got[i-1].Ellipsis {
						assert.Equal(t, got[i-1].Page+1, e.Page, label)
					}
				}
				assert.True(t, foundCurrent, label)
			}
		}
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		totalCount int
		pageSize   int
		want       int
	}{
		{0, 10, 0},
		{-3, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{100, 25, 4},
		{101, 25, 5},
		{7, 0, 1},  // pageSize falls back to the default
		{7, -1, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d", tt.totalCount, tt.pageSize), func(t *testing.T) {
			assert.Equal(t, tt.want, PageCount(tt.totalCount, tt.pageSize))
		})
	}
}
