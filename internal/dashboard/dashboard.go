// Package dashboard turns a selection into a render-ready chart for one of the
// salary dashboards. Every call is a pure function of the store and the
// selection; nothing is cached between renders.
package dashboard

import (
	"errors"
	"strconv"
	"strings"

	"salaryboard/internal/engine"
	"salaryboard/internal/models"
)

var ErrUnknownDashboard = errors.New("unknown dashboard")

// Dimension names exposed to the UI layer.
const (
	DimYear            = "year"
	DimCompanySize     = "company_size"
	DimExperienceLevel = "experience_level"
)

const (
	XAxisTitle  = "Job Title"
	YAxisTitle  = "Salary (USD)"
	NoDataLabel = "No data for the selected filters"
)

// Variant describes one dashboard: which controls it shows and how its chart
// is titled. Title placeholders are {year}, {size} and {level}.
type Variant struct {
	Name          string
	Title         string
	WithLevel     bool
	Limit         int
	TitleTemplate string
}

func (v Variant) Dimensions() []string {
	dims := []string{DimYear, DimCompanySize}
	if v.WithLevel {
		dims = append(dims, DimExperienceLevel)
	}
	return dims
}

// Defaults mirrors the initial dropdown values.
func (v Variant) Defaults() models.Selection {
	sel := models.Selection{Year: engine.SupportedYears[0], CompanySize: engine.CompanySizes[0]}
	if v.WithLevel {
		sel.ExperienceLevel = engine.ExperienceLevels[0]
	}
	return sel
}

// Scope drops selection values for dimensions the variant does not expose.
func (v Variant) Scope(sel models.Selection) models.Selection {
	if !v.WithLevel {
		sel.ExperienceLevel = ""
	}
	return sel
}

func (v Variant) Info() models.DashboardInfo {
	return models.DashboardInfo{
		Name:       v.Name,
		Title:      v.Title,
		Dimensions: v.Dimensions(),
		Defaults:   v.Defaults(),
		Limit:      v.Limit,
	}
}

func (v Variant) chartTitle(sel models.Selection) string {
	r := strings.NewReplacer(
		"{year}", strconv.Itoa(sel.Year),
		"{size}", sel.CompanySize,
		"{level}", sel.ExperienceLevel,
	)
	return r.Replace(v.TitleTemplate)
}

// Builtin returns the three salary dashboards in the order they were built.
func Builtin() []Variant {
	return []Variant{
		{
			Name:          "by-size",
			Title:         "Data Scientist Salary",
			TitleTemplate: "Average Data Scientist Salaries at {size} Companies in {year} sorting by job titles",
		},
		{
			Name:          "by-experience",
			Title:         "Data Scientist Salary by Experience",
			WithLevel:     true,
			TitleTemplate: "Average {level} Data Scientist Salaries at {size} Companies in {year}",
		},
		{
			Name:          "by-experience-top",
			Title:         "Top Paying Data Jobs",
			WithLevel:     true,
			Limit:         10,
			TitleTemplate: "Top {level} Data Salaries at {size} Companies in {year}",
		},
	}
}

// Render runs the query for sel and shapes the result for a bar chart.
// An empty result is a valid payload flagged Empty with a message.
func Render(store *engine.ColumnStore, v Variant, sel models.Selection) models.ChartPayload {
	sel = v.Scope(sel)
	series := engine.Top(engine.Query(store, sel), v.Limit)

	p := models.ChartPayload{
		Dashboard: v.Name,
		Title:     v.chartTitle(sel),
		XAxis:     XAxisTitle,
		YAxis:     YAxisTitle,
		Selection: sel,
		Points:    make([]models.ChartPoint, 0, len(series)),
	}
	for _, s := range series {
		p.Points = append(p.Points, models.ChartPoint{Label: s.JobTitle, Value: s.MeanSalary, Count: s.Count})
	}
	if len(p.Points) == 0 {
		p.Empty = true
		p.Message = NoDataLabel
	}
	return p
}
