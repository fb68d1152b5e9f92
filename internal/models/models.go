package models

// Selection is the current value of every dashboard control.
// ExperienceLevel is empty for dashboards that do not filter on experience.
type Selection struct {
	Year            int    `json:"year"`
	CompanySize     string `json:"company_size"`
	ExperienceLevel string `json:"experience_level,omitempty"`
}

// SeriesPoint is one ranked job title with its mean salary.
type SeriesPoint struct {
	JobTitle   string  `json:"job_title"`
	MeanSalary float64 `json:"mean_salary_usd"`
	Count      int     `json:"count"`
}

type Series []SeriesPoint

type Options struct {
	Years            []int    `json:"years"`
	CompanySizes     []string `json:"company_sizes"`
	ExperienceLevels []string `json:"experience_levels"`
	DataYears        []int    `json:"data_years,omitempty"`
}

type DashboardInfo struct {
	Name       string    `json:"name"`
	Title      string    `json:"title"`
	Dimensions []string  `json:"dimensions"`
	Defaults   Selection `json:"defaults"`
	Limit      int       `json:"limit,omitempty"`
}

// ChartPoint is a bar on the category axis.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// ChartPayload is everything the renderer needs to draw one dashboard.
type ChartPayload struct {
	Dashboard string       `json:"dashboard"`
	Title     string       `json:"title"`
	XAxis     string       `json:"x_axis"`
	YAxis     string       `json:"y_axis"`
	Selection Selection    `json:"selection"`
	Points    []ChartPoint `json:"points"`
	Empty     bool         `json:"empty"`
	Message   string       `json:"message,omitempty"`
}

type SeriesPage struct {
	Data   Series `json:"data"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

type SummarizeRequest struct {
	Text      string `json:"text"`
	MaxLength int    `json:"max_length"`
	Beams     int    `json:"beams"`
}

type SummarizeResponse struct {
	Summary string `json:"summary"`
	Status  string `json:"status"`
}
