package poll

import (
	"time"

	"github.com/knufflepuffle/lfg-bot/internal/services/schedule"
)

// SelectPageSize is the most options a single select menu can carry.
const SelectPageSize = 25

type Page struct {
	Start int
	End   int
}

// Paginate splits n options into consecutive pages of at most size entries.
func Paginate(n, size int) []Page {
	if n <= 0 || size <= 0 {
		return nil
	}

	pages := make([]Page, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		pages = append(pages, Page{Start: start, End: end})
	}
	return pages
}

// MergePageSelection combines a selection made on one page with the user's current
// choices on every other page, giving the full row to register.
func MergePageSelection(current, page, selected []time.Time) []time.Time {
	onPage := make(map[string]bool, len(page))
	for _, d := range page {
		onPage[schedule.DateKey(d)] = true
	}

	merged := make([]time.Time, 0, len(current)+len(selected))
	for _, d := range current {
		if !onPage[schedule.DateKey(d)] {
			merged = append(merged, d)
		}
	}
	return append(merged, selected...)
}
