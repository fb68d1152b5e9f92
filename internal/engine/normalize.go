package engine

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Label domains, in the order the dashboards list them.
var (
	CompanySizes     = []string{"Small", "Middle", "Large"}
	ExperienceLevels = []string{"Entry-level", "Mid-level", "Senior-level", "Executive-level"}
)

var (
	sizeCodes = map[string]uint8{
		"S": 0,
		"M": 1,
		"L": 2,
	}
	levelCodes = map[string]uint8{
		"EN": 0,
		"MI": 1,
		"SE": 2,
		"EX": 3,
	}
)

// RawRecord is a CSV row before its categorical codes are mapped to labels.
type RawRecord struct {
	// Line is the 1-based line in the source file (the header is line 1);
	// zero when the record did not come from a file.
	Line            int
	WorkYear        int
	CompanySize     string
	ExperienceLevel string
	JobTitle        string
	SalaryUSD       float64
}

// Rejection describes a row dropped because a value was outside its domain.
type Rejection struct {
	Index  int    `json:"index"`          // position in the raw slice
	Line   int    `json:"line,omitempty"` // source file line, when known
	Column string `json:"column"`
	Code   string `json:"code"`
}

// Report summarizes a normalization pass.
type Report struct {
	Loaded     int         `json:"loaded"`
	Rejected   int         `json:"rejected"`
	Rejections []Rejection `json:"rejections,omitempty"`
}

// Normalize maps company_size and experience_level codes to their labels and
// builds the immutable store. Rows carrying an unknown code are quarantined:
// they are logged, counted in the report, and left out of the store.
func Normalize(raw []RawRecord, logger *zap.Logger) (*ColumnStore, Report) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cs := &ColumnStore{
		years:    make([]int32, 0, len(raw)),
		salaries: make([]float64, 0, len(raw)),
		sizeIDs:  make([]uint8, 0, len(raw)),
		levelIDs: make([]uint8, 0, len(raw)),
		titleIDs: make([]int32, 0, len(raw)),
	}

	var rep Report
	titles := make(map[string]int32)
	seenYears := make(map[int]struct{})

	for i, r := range raw {
		if r.WorkYear < math.MinInt32 || r.WorkYear > math.MaxInt32 {
			rep.reject(logger, i, r.Line, "work_year", strconv.Itoa(r.WorkYear))
			continue
		}
		sizeCode := strings.TrimSpace(r.CompanySize)
		levelCode := strings.TrimSpace(r.ExperienceLevel)

		sid, ok := sizeCodes[sizeCode]
		if !ok {
			rep.reject(logger, i, r.Line, "company_size", sizeCode)
			continue
		}
		lid, ok := levelCodes[levelCode]
		if !ok {
			rep.reject(logger, i, r.Line, "experience_level", levelCode)
			continue
		}

		tid, ok := titles[r.JobTitle]
		if !ok {
			tid = int32(len(cs.titleDict))
			cs.titleDict = append(cs.titleDict, r.JobTitle)
			titles[r.JobTitle] = tid
		}

		cs.years = append(cs.years, int32(r.WorkYear))
		cs.salaries = append(cs.salaries, r.SalaryUSD)
		cs.sizeIDs = append(cs.sizeIDs, sid)
		cs.levelIDs = append(cs.levelIDs, lid)
		cs.titleIDs = append(cs.titleIDs, tid)
		seenYears[r.WorkYear] = struct{}{}
	}

	for y := range seenYears {
		cs.dataYears = append(cs.dataYears, y)
	}
	sort.Ints(cs.dataYears)

	rep.Loaded = cs.Len()
	if rep.Rejected > 0 {
		logger.Warn("rows rejected during normalization",
			zap.Int("rejected", rep.Rejected),
			zap.Int("loaded", rep.Loaded),
		)
	}
	return cs, rep
}

func (r *Report) reject(logger *zap.Logger, index, line int, column, code string) {
	r.Rejected++
	r.Rejections = append(r.Rejections, Rejection{Index: index, Line: line, Column: column, Code: code})
	logger.Warn("unknown categorical code",
		zap.Int("index", index),
		zap.Int("line", line),
		zap.String("column", column),
		zap.String("code", code),
	)
}
