package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"salaryboard/internal/models"
)

var ErrBadSelection = errors.New("bad selection")

// SupportedYears are the years offered in the year dropdown.
var SupportedYears = []int{2020, 2021, 2022, 2023}

// Options returns the enumerated option lists the dashboards advertise.
// DataYears reports which years the loaded store actually contains.
func Options(cs *ColumnStore) models.Options {
	return models.Options{
		Years:            append([]int(nil), SupportedYears...),
		CompanySizes:     append([]string(nil), CompanySizes...),
		ExperienceLevels: append([]string(nil), ExperienceLevels...),
		DataYears:        cs.Years(),
	}
}

// ParseSelection builds a Selection from raw control values. Only a
// non-numeric year is rejected; labels are passed through untouched so that an
// unknown one simply matches nothing.
func ParseSelection(year, size, level string) (models.Selection, error) {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return models.Selection{}, fmt.Errorf("%w: year %q", ErrBadSelection, year)
	}
	return models.Selection{
		Year:            y,
		CompanySize:     strings.TrimSpace(size),
		ExperienceLevel: strings.TrimSpace(level),
	}, nil
}
