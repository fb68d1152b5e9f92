package engine

import (
	"math"
	"runtime"
	"sort"
	"sync"

	"salaryboard/internal/models"
)

// minRowsPerWorker keeps small stores on a single goroutine; spawning workers
// for a few thousand rows costs more than the scan.
const minRowsPerWorker = 50000

type titleStats struct {
	Sum   float64
	Count int
}

// Query filters the store by every dimension in sel, groups the surviving rows
// by job title and returns the mean salary per title, highest first. Equal
// means are ordered by job title ascending.
//
// An empty ExperienceLevel means the dimension is not filtered. Values outside
// the advertised domains match nothing, so the series is empty rather than an
// error. The result is always non-nil.
func Query(cs *ColumnStore, sel models.Selection) models.Series {
	out := models.Series{}
	if cs.Len() == 0 {
		return out
	}

	// 1. Resolve the selection to column values
	sizeID, ok := labelID(CompanySizes, sel.CompanySize)
	if !ok {
		return out
	}
	levelID, filterLevel := uint8(0), sel.ExperienceLevel != ""
	if filterLevel {
		if levelID, ok = labelID(ExperienceLevels, sel.ExperienceLevel); !ok {
			return out
		}
	}
	// Years are stored as int32; a wider value must not wrap onto a real one
	if sel.Year < math.MinInt32 || sel.Year > math.MaxInt32 {
		return out
	}
	year := int32(sel.Year)

	// 2. Scan in chunks, one partial per worker
	n := cs.Len()
	numWorkers := runtime.NumCPU()
	if byRows := n / minRowsPerWorker; byRows < numWorkers {
		numWorkers = byRows
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	chunkSize := n / numWorkers
	numTitles := len(cs.titleDict)

	partials := make([][]titleStats, numWorkers)
	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if i == numWorkers-1 {
			end = n
		}

		wg.Add(1)
		go func(w, s, e int) {
			defer wg.Done()

			p := make([]titleStats, numTitles)

			years := cs.years
			sizes := cs.sizeIDs
			levels := cs.levelIDs
			titles := cs.titleIDs
			sals := cs.salaries

			for j := s; j < e; j++ {
				if years[j] != year || sizes[j] != sizeID {
					continue
				}
				if filterLevel && levels[j] != levelID {
					continue
				}
				st := &p[titles[j]]
				st.Sum += sals[j]
				st.Count++
			}
			partials[w] = p
		}(i, start, end)
	}
	wg.Wait()

	// 3. Merge in chunk order so float sums are reproducible
	merged := make([]titleStats, numTitles)
	for _, p := range partials {
		for t := range p {
			if p[t].Count > 0 {
				merged[t].Sum += p[t].Sum
				merged[t].Count += p[t].Count
			}
		}
	}

	// 4. Mean per title
	for t, st := range merged {
		if st.Count == 0 {
			continue
		}
		out = append(out, models.SeriesPoint{
			JobTitle:   cs.titleDict[t],
			MeanSalary: st.Sum / float64(st.Count),
			Count:      st.Count,
		})
	}

	// 5. Rank
	sort.Slice(out, func(i, j int) bool {
		if out[i].MeanSalary != out[j].MeanSalary {
			return out[i].MeanSalary > out[j].MeanSalary
		}
		return out[i].JobTitle < out[j].JobTitle
	})

	return out
}

// Top returns the first n points of s, or all of them when n <= 0.
func Top(s models.Series, n int) models.Series {
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[:n]
}

func labelID(labels []string, v string) (uint8, bool) {
	for i, l := range labels {
		if l == v {
			return uint8(i), true
		}
	}
	return 0, false
}
