// Package knowledge derives the bounded context string sent to the language
// model on every query.
//
// Build is deterministic: identical inputs produce byte-identical output, so
// the knowledge base can be rebuilt idempotently and compared in tests. The
// only mutable step is the archive reload that feeds it; once built, the
// string is shared read-only across all concurrent requests.
package knowledge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shagarchive/shagqa/internal/archive"
)

// Defaults for the context budget.
const (
	DefaultExcerptBudget = 2000 // max characters quoted per rule document
	DefaultTopContests   = 10
	DefaultTopCouples    = 15
)

// Config bounds the knowledge-base size.
type Config struct {
	ExcerptBudget int // per-document excerpt cap; DefaultExcerptBudget when 0
	TopContests   int
	TopCouples    int
}

func (c Config) withDefaults() Config {
	if c.ExcerptBudget <= 0 {
		c.ExcerptBudget = DefaultExcerptBudget
	}
	if c.TopContests <= 0 {
		c.TopContests = DefaultTopContests
	}
	if c.TopCouples <= 0 {
		c.TopCouples = DefaultTopCouples
	}
	return c
}

// entry is one row of a frequency table.
type entry struct {
	name  string
	count int
}

// Build assembles the knowledge base from the loaded archive. Document
// excerpts follow catalog order, never map iteration order.
func Build(records []archive.ContestRecord, docs []archive.Document, cfg Config) string {
	cfg = cfg.withDefaults()

	var b strings.Builder
	b.WriteString("COMPETITIVE SHAGGERS ASSOCIATION (CSA) ARCHIVE DATABASE\n")
	b.WriteString("=======================================================\n\n")

	b.WriteString("CONTEST DATA OVERVIEW:\n")
	fmt.Fprintf(&b, "- Total Records: %d contest entries\n", len(records))
	fmt.Fprintf(&b, "- Time Period: %s\n", yearRange(records))
	fmt.Fprintf(&b, "- Organizations: %s\n", formatInline(countByFirstSeen(records, func(r archive.ContestRecord) string { return r.Organization })))
	fmt.Fprintf(&b, "- Divisions: %s\n\n", formatInline(countByFirstSeen(records, func(r archive.ContestRecord) string { return r.Division })))

	fmt.Fprintf(&b, "TOP %d MOST FREQUENT CONTESTS:\n", cfg.TopContests)
	writeTable(&b, topN(records, cfg.TopContests, func(r archive.ContestRecord) string { return r.Contest }))

	fmt.Fprintf(&b, "\nTOP %d MOST SUCCESSFUL COUPLES (by total contest entries):\n", cfg.TopCouples)
	writeTable(&b, topN(records, cfg.TopCouples, func(r archive.ContestRecord) string { return r.CoupleName }))

	b.WriteString(`
DIVISION HIERARCHY (typical progression):
Junior -> Novice -> Amateur -> Pro
Non-Pro and Overall are special categories

MAJOR ORGANIZATIONS:
- CSA: Competitive Shaggers Association (regional competitions)
- NSDC: National Shag Dance Championship (national championship)
`)

	if hasText(docs) {
		b.WriteString("\nRULES AND REGULATIONS CONTENT:\n")
		b.WriteString(strings.Repeat("=", 50) + "\n\n")

		for _, doc := range docs {
			if doc.Text == "" {
				continue
			}
			b.WriteString(strings.ToUpper(doc.Title) + ":\n")
			b.WriteString(excerpt(doc.Text, cfg.ExcerptBudget) + "\n\n")
		}
	}

	return b.String()
}

// yearRange reports "min-max" over parsed years, ignoring missing (zero)
// values. Returns "unknown" when no record carries a year.
func yearRange(records []archive.ContestRecord) string {
	minYear, maxYear := 0, 0
	for _, r := range records {
		if r.Year == 0 {
			continue
		}
		if minYear == 0 || r.Year < minYear {
			minYear = r.Year
		}
		if r.Year > maxYear {
			maxYear = r.Year
		}
	}
	if minYear == 0 {
		return "unknown"
	}
	return fmt.Sprintf("%d-%d", minYear, maxYear)
}

// countByFirstSeen builds a frequency table ordered by count descending,
// ties broken by first-encountered insertion order. Empty keys are skipped.
func countByFirstSeen(records []archive.ContestRecord, key func(archive.ContestRecord) string) []entry {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	var order []string

	for _, r := range records {
		k := key(r)
		if k == "" {
			continue
		}
		if _, ok := counts[k]; !ok {
			firstSeen[k] = len(order)
			order = append(order, k)
		}
		counts[k]++
	}

	entries := make([]entry, 0, len(order))
	for _, k := range order {
		entries = append(entries, entry{name: k, count: counts[k]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return firstSeen[entries[i].name] < firstSeen[entries[j].name]
	})
	return entries
}

// topN builds a frequency table ordered by count descending, ties broken
// lexicographically by name so output stays stable across runs.
func topN(records []archive.ContestRecord, n int, key func(archive.ContestRecord) string) []entry {
	counts := make(map[string]int)
	for _, r := range records {
		if k := key(r); k != "" {
			counts[k]++
		}
	}

	entries := make([]entry, 0, len(counts))
	for k, c := range counts {
		entries = append(entries, entry{name: k, count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func formatInline(entries []entry) string {
	if len(entries) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s: %d", e.name, e.count))
	}
	return strings.Join(parts, ", ")
}

func writeTable(b *strings.Builder, entries []entry) {
	if len(entries) == 0 {
		b.WriteString("(no data)\n")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(b, "%-40s %d\n", e.name, e.count)
	}
}

// excerpt caps text at budget characters to bound total context size.
func excerpt(text string, budget int) string {
	if len(text) <= budget {
		return text
	}
	return text[:budget]
}

func hasText(docs []archive.Document) bool {
	for _, d := range docs {
		if d.Text != "" {
			return true
		}
	}
	return false
}
