package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shagarchive/shagqa/internal/archive"
)

func record(contest, org string, year int, division, couple string) archive.ContestRecord {
	return archive.ContestRecord{
		Contest:      contest,
		Organization: org,
		Year:         year,
		Division:     division,
		CoupleName:   couple,
	}
}

func TestBuild_YearRangeAndCount(t *testing.T) {
	records := []archive.ContestRecord{
		record("Spring Safari", "CSA", 1990, "Pro", "A & B"),
		record("Spring Safari", "CSA", 1990, "Pro", "A & B"),
		record("Fall Cyclone", "NSDC", 2025, "Amateur", "C & D"),
	}

	kb := Build(records, nil, Config{})

	assert.Contains(t, kb, "Total Records: 3 contest entries")
	assert.Contains(t, kb, "Time Period: 1990-2025")
}

func TestBuild_Idempotent(t *testing.T) {
	records := []archive.ContestRecord{
		record("Spring Safari", "CSA", 1990, "Pro", "A & B"),
		record("Fall Cyclone", "NSDC", 2001, "Amateur", "C & D"),
		record("Summer Swing", "CSA", 2010, "Novice", "E & F"),
	}
	docs := []archive.Document{{Key: "csa_rules", Title: "CSA Rules", Text: "Rule one. Rule two."}}

	first := Build(records, docs, Config{})
	second := Build(records, docs, Config{})

	require.Equal(t, first, second, "Build must be byte-identical across calls")
}

func TestBuild_TopContestTieBreakLexicographic(t *testing.T) {
	// Beach Bash and Autumn Jam both occur once; Autumn Jam sorts first.
	records := []archive.ContestRecord{
		record("Beach Bash", "CSA", 1995, "Pro", "A & B"),
		record("Autumn Jam", "CSA", 1996, "Pro", "A & B"),
		record("Spring Safari", "CSA", 1997, "Pro", "A & B"),
		record("Spring Safari", "CSA", 1998, "Pro", "A & B"),
	}

	kb := Build(records, nil, Config{})

	spring := strings.Index(kb, "Spring Safari")
	autumn := strings.Index(kb, "Autumn Jam")
	beach := strings.Index(kb, "Beach Bash")
	require.True(t, spring >= 0 && autumn >= 0 && beach >= 0)
	assert.Less(t, spring, autumn, "highest count first")
	assert.Less(t, autumn, beach, "ties ordered lexicographically")
}

func TestBuild_OrganizationTieBreakFirstSeen(t *testing.T) {
	records := []archive.ContestRecord{
		record("C1", "NSDC", 1990, "Pro", "A & B"),
		record("C2", "CSA", 1991, "Pro", "A & B"),
	}

	kb := Build(records, nil, Config{})

	// Equal counts keep first-encountered order: NSDC before CSA.
	assert.Contains(t, kb, "Organizations: NSDC: 1, CSA: 1")
}

func TestBuild_ExcerptBudget(t *testing.T) {
	long := strings.Repeat("x", 5000)
	docs := []archive.Document{
		{Key: "csa_bylaws", Title: "CSA Bylaws", Text: long},
		{Key: "nsdc_songs", Title: "NSDC Songs", Text: ""}, // extraction failed; omitted
	}
	records := []archive.ContestRecord{record("C", "CSA", 1990, "Pro", "A & B")}

	kb := Build(records, docs, Config{ExcerptBudget: 2000})

	assert.Contains(t, kb, "CSA BYLAWS:")
	assert.NotContains(t, kb, "NSDC SONGS:")
	assert.Contains(t, kb, strings.Repeat("x", 2000))
	assert.NotContains(t, kb, strings.Repeat("x", 2001))
}

func TestBuild_MissingYearsIgnored(t *testing.T) {
	records := []archive.ContestRecord{
		record("C1", "CSA", 0, "Pro", "A & B"),
		record("C2", "CSA", 1999, "Pro", "A & B"),
	}

	kb := Build(records, nil, Config{})
	assert.Contains(t, kb, "Time Period: 1999-1999")
}
