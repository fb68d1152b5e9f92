package engine

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrMalformedRow  = errors.New("malformed row")
)

// Required header names in the salaries file.
const (
	colWorkYear        = "work_year"
	colCompanySize     = "company_size"
	colExperienceLevel = "experience_level"
	colJobTitle        = "job_title"
	colSalaryUSD       = "salary_in_usd"
)

var requiredColumns = []string{colWorkYear, colCompanySize, colExperienceLevel, colJobTitle, colSalaryUSD}

// LoadCSV reads and normalizes the dataset at path.
// Any structural problem with the file is returned as an error; callers are
// expected to abort startup rather than serve partial data.
func LoadCSV(path string, logger *zap.Logger) (*ColumnStore, Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Report{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return Load(f, logger)
}

// Load reads CSV rows from r and normalizes them.
func Load(r io.Reader, logger *zap.Logger) (*ColumnStore, Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()

	raw, err := ReadRaw(r)
	if err != nil {
		return nil, Report{}, err
	}

	store, rep := Normalize(raw, logger)

	logger.Info("dataset loaded",
		zap.Int("rows", rep.Loaded),
		zap.Int("rejected", rep.Rejected),
		zap.Int("titles", store.Titles()),
		zap.Duration("took", time.Since(start)),
	)
	return store, rep, nil
}

// ReadRaw parses the CSV without mapping codes. Columns are located by header
// name so their order does not matter and extra columns are ignored.
func ReadRaw(r io.Reader) ([]RawRecord, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	// 1. Header
	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	iYear, iSize, iLevel, iTitle, iSalary := idx[colWorkYear], idx[colCompanySize], idx[colExperienceLevel], idx[colJobTitle], idx[colSalaryUSD]

	// 2. Rows
	var out []RawRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv.ParseError already names the line
			return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
		}
		line, _ := reader.FieldPos(0)

		// work_year is stored as int32; anything wider is not a year
		year, err := strconv.ParseInt(strings.TrimSpace(row[iYear]), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: work_year %q", ErrMalformedRow, line, row[iYear])
		}
		salary, err := strconv.ParseFloat(strings.TrimSpace(row[iSalary]), 64)
		if err != nil || salary < 0 || math.IsNaN(salary) || math.IsInf(salary, 0) {
			return nil, fmt.Errorf("%w: line %d: salary_in_usd %q", ErrMalformedRow, line, row[iSalary])
		}

		out = append(out, RawRecord{
			Line:            line,
			WorkYear:        int(year),
			CompanySize:     row[iSize],
			ExperienceLevel: row[iLevel],
			JobTitle:        strings.TrimSpace(row[iTitle]),
			SalaryUSD:       salary,
		})
	}
	return out, nil
}
