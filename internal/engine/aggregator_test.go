package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salaryboard/internal/models"
)

func exampleStore(t *testing.T) *ColumnStore {
	t.Helper()
	store, rep := Normalize([]RawRecord{
		{WorkYear: 2022, CompanySize: "L", ExperienceLevel: "SE", JobTitle: "Data Scientist", SalaryUSD: 150000},
		{WorkYear: 2022, CompanySize: "L", ExperienceLevel: "SE", JobTitle: "Data Scientist", SalaryUSD: 130000},
		{WorkYear: 2022, CompanySize: "L", ExperienceLevel: "SE", JobTitle: "ML Engineer", SalaryUSD: 170000},
	}, nil)
	require.Zero(t, rep.Rejected)
	return store
}

func TestQuery(t *testing.T) {
	store := exampleStore(t)

	got := Query(store, models.Selection{Year: 2022, CompanySize: "Large", ExperienceLevel: "Senior-level"})

	want := models.Series{
		{JobTitle: "ML Engineer", MeanSalary: 170000, Count: 1},
		{JobTitle: "Data Scientist", MeanSalary: 140000, Count: 2},
	}
	assert.Equal(t, want, got)
}

func TestQueryNoMatchingRecords(t *testing.T) {
	store := exampleStore(t)

	tests := []struct {
		name string
		sel  models.Selection
	}{
		{"year not in data", models.Selection{Year: 2021, CompanySize: "Large", ExperienceLevel: "Senior-level"}},
		{"other size", models.Selection{Year: 2022, CompanySize: "Small", ExperienceLevel: "Senior-level"}},
		{"other level", models.Selection{Year: 2022, CompanySize: "Large", ExperienceLevel: "Entry-level"}},
		{"raw code is not a label", models.Selection{Year: 2022, CompanySize: "L", ExperienceLevel: "Senior-level"}},
		{"unknown level", models.Selection{Year: 2022, CompanySize: "Large", ExperienceLevel: "Wizard"}},
		{"case matters", models.Selection{Year: 2022, CompanySize: "large"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Query(store, tt.sel)
			require.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestQueryYearOutsideInt32(t *testing.T) {
	store := exampleStore(t)

	// 2^32 + 2022 would wrap onto 2022 if truncated
	sel, err := ParseSelection("4294969318", "Large", "Senior-level")
	require.NoError(t, err)

	got := Query(store, sel)
	require.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, Query(store, models.Selection{Year: -1<<32 + 2022, CompanySize: "Large"}))
}

func TestQueryEmptyStore(t *testing.T) {
	got := Query(nil, models.Selection{Year: 2022, CompanySize: "Large"})
	require.NotNil(t, got)
	assert.Empty(t, got)

	empty, _ := Normalize(nil, nil)
	assert.Empty(t, Query(empty, models.Selection{Year: 2022, CompanySize: "Large"}))
}

func TestQueryWithoutExperienceDimension(t *testing.T) {
	store, _ := Normalize([]RawRecord{
		{WorkYear: 2020, CompanySize: "S", ExperienceLevel: "EN", JobTitle: "Data Analyst", SalaryUSD: 30000},
		{WorkYear: 2020, CompanySize: "S", ExperienceLevel: "SE", JobTitle: "Data Analyst", SalaryUSD: 90000},
		{WorkYear: 2020, CompanySize: "M", ExperienceLevel: "SE", JobTitle: "Data Analyst", SalaryUSD: 500000},
	}, nil)

	got := Query(store, models.Selection{Year: 2020, CompanySize: "Small"})
	require.Len(t, got, 1)
	assert.Equal(t, 60000.0, got[0].MeanSalary)
	assert.Equal(t, 2, got[0].Count)
}

func TestQueryTieBreaksByTitle(t *testing.T) {
	store, _ := Normalize([]RawRecord{
		{WorkYear: 2023, CompanySize: "M", ExperienceLevel: "MI", JobTitle: "Zeta Analyst", SalaryUSD: 100000},
		{WorkYear: 2023, CompanySize: "M", ExperienceLevel: "MI", JobTitle: "Alpha Analyst", SalaryUSD: 100000},
		{WorkYear: 2023, CompanySize: "M", ExperienceLevel: "MI", JobTitle: "Mid Analyst", SalaryUSD: 100000},
	}, nil)

	got := Query(store, models.Selection{Year: 2023, CompanySize: "Middle", ExperienceLevel: "Mid-level"})
	require.Len(t, got, 3)
	assert.Equal(t, "Alpha Analyst", got[0].JobTitle)
	assert.Equal(t, "Mid Analyst", got[1].JobTitle)
	assert.Equal(t, "Zeta Analyst", got[2].JobTitle)
}

// bigRaw builds enough rows to push Query onto several workers.
func bigRaw(n int) []RawRecord {
	sizes := []string{"S", "M", "L"}
	levels := []string{"EN", "MI", "SE", "EX"}
	raw := make([]RawRecord, n)
	for i := range raw {
		raw[i] = RawRecord{
			WorkYear:        2020 + i%4,
			CompanySize:     sizes[i%3],
			ExperienceLevel: levels[i%4],
			JobTitle:        fmt.Sprintf("Title %02d", i%37),
			SalaryUSD:       float64(20000 + (i*7919)%230000),
		}
	}
	return raw
}

func TestQueryProperties(t *testing.T) {
	raw := bigRaw(4 * minRowsPerWorker)
	store, _ := Normalize(raw, nil)

	for _, year := range SupportedYears {
		for _, size := range CompanySizes {
			for _, level := range append([]string{""}, ExperienceLevels...) {
				sel := models.Selection{Year: year, CompanySize: size, ExperienceLevel: level}
				got := Query(store, sel)

				// Brute-force reference over the raw rows
				sums := map[string]float64{}
				counts := map[string]int{}
				for i := 0; i < store.Len(); i++ {
					r := store.Row(i)
					if r.WorkYear != year || r.CompanySize != size {
						continue
					}
					if level != "" && r.ExperienceLevel != level {
						continue
					}
					sums[r.JobTitle] += r.SalaryUSD
					counts[r.JobTitle]++
				}

				require.Len(t, got, len(counts), "selection %+v", sel)
				for i, p := range got {
					if i > 0 {
						assert.GreaterOrEqual(t, got[i-1].MeanSalary, p.MeanSalary)
					}
					assert.Equal(t, counts[p.JobTitle], p.Count)
					assert.InDelta(t, sums[p.JobTitle]/float64(counts[p.JobTitle]), p.MeanSalary, 1e-6)
				}

				// No hidden state between calls
				assert.Equal(t, got, Query(store, sel))
			}
		}
	}
}

func TestTop(t *testing.T) {
	s := models.Series{{JobTitle: "a"}, {JobTitle: "b"}, {JobTitle: "c"}}
	assert.Len(t, Top(s, 2), 2)
	assert.Len(t, Top(s, 0), 3)
	assert.Len(t, Top(s, 10), 3)
}

func TestParseSelection(t *testing.T) {
	sel, err := ParseSelection(" 2022", "Large ", "")
	require.NoError(t, err)
	assert.Equal(t, models.Selection{Year: 2022, CompanySize: "Large"}, sel)

	_, err = ParseSelection("latest", "Large", "")
	assert.ErrorIs(t, err, ErrBadSelection)
}

func TestOptions(t *testing.T) {
	opts := Options(exampleStore(t))
	assert.Equal(t, []int{2020, 2021, 2022, 2023}, opts.Years)
	assert.Equal(t, []string{"Small", "Middle", "Large"}, opts.CompanySizes)
	assert.Equal(t, []string{"Entry-level", "Mid-level", "Senior-level", "Executive-level"}, opts.ExperienceLevels)
	assert.Equal(t, []int{2022}, opts.DataYears)
}
