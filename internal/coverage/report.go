package coverage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// Report accumulates which variant indices were actually realized per enum
// across all sampling passes. It is bookkeeping for humans; the Tracker
// alone decides when sampling stops.
type Report struct {
	entries map[string]*ReportEntry
	order   []string // enum names in first-seen order
}

// ReportEntry is per-enum coverage: realized variant indices and the
// indices that were cut as recursive re-entries.
type ReportEntry struct {
	Name     string
	Variants int // total variant count
	Seen     *roaring.Bitmap
	Cut      *roaring.Bitmap
}

// NewReport returns an empty Report.
func NewReport() *Report {
	return &Report{entries: make(map[string]*ReportEntry)}
}

func (r *Report) entry(name string, variants int) *ReportEntry {
	e, ok := r.entries[name]
	if !ok {
		e = &ReportEntry{
			Name:     name,
			Variants: variants,
			Seen:     roaring.New(),
			Cut:      roaring.New(),
		}
		r.entries[name] = e
		r.order = append(r.order, name)
	}
	return e
}

// Record notes that variant index of enum name was realized in a sample.
func (r *Report) Record(name string, variants, index int) {
	r.entry(name, variants).Seen.Add(uint32(index))
}

// RecordCut notes that variant index of enum name was skipped as a
// recursive re-entry instead of being descended into.
func (r *Report) RecordCut(name string, variants, index int) {
	r.entry(name, variants).Cut.Add(uint32(index))
}

// Entries returns per-enum coverage in first-seen order.
func (r *Report) Entries() []*ReportEntry {
	out := make([]*ReportEntry, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name])
	}
	return out
}

// Complete reports whether every variant of every enum was either realized
// or cut as recursive.
func (r *Report) Complete() bool {
	for _, e := range r.entries {
		if e.covered() < e.Variants {
			return false
		}
	}
	return true
}

func (e *ReportEntry) covered() int {
	u := roaring.Or(e.Seen, e.Cut)
	return int(u.GetCardinality())
}

// Missing returns the sorted variant indices never realized nor cut.
func (e *ReportEntry) Missing() []int {
	u := roaring.Or(e.Seen, e.Cut)
	var out []int
	for i := 0; i < e.Variants; i++ {
		if !u.Contains(uint32(i)) {
			out = append(out, i)
		}
	}
	return out
}

// Summary renders a fixed-width coverage table.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-24s %8s %8s %10s\n", "ENUM", "VARIANTS", "SEEN", "COVERAGE")
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	for _, name := range names {
		e := r.entries[name]
		pct := 100.0
		if e.Variants > 0 {
			pct = 100 * float64(e.covered()) / float64(e.Variants)
		}
		fmt.Fprintf(&b, "%-24s %8d %8d %9.0f%%", e.Name, e.Variants, e.Seen.GetCardinality(), pct)
		if !e.Cut.IsEmpty() {
			fmt.Fprintf(&b, "  (recursive: %v)", bitmapInts(e.Cut))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func bitmapInts(bm *roaring.Bitmap) []int {
	out := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}
