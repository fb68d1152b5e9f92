package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"salaryboard/internal/engine"
	"salaryboard/internal/models"
)

var (
	queryData   string
	queryYear   int
	querySize   string
	queryLevel  string
	queryLimit  int
	queryFormat string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Print the ranked mean salaries for one selection",
	Example: `  salaryboard query --year 2022 --size Large --level Senior-level
  salaryboard query --year 2023 --size Middle --format arrow > series.arrow`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryData, "data", "", "dataset path (defaults to data.path from config)")
	queryCmd.Flags().IntVar(&queryYear, "year", engine.SupportedYears[0], "work year")
	queryCmd.Flags().StringVar(&querySize, "size", engine.CompanySizes[0], "company size: Small, Middle or Large")
	queryCmd.Flags().StringVar(&queryLevel, "level", "", "experience level (empty = all levels)")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "show only the top N titles")
	queryCmd.Flags().StringVar(&queryFormat, "format", "table", "output format: table, json or arrow")
}

func runQuery(cmd *cobra.Command, args []string) error {
	path := queryData
	if path == "" {
		path = cfg.Data.Path
	}

	store, _, err := engine.LoadCSV(path, logger.Named("engine"))
	if err != nil {
		return err
	}

	sel, err := engine.ParseSelection(strconv.Itoa(queryYear), querySize, queryLevel)
	if err != nil {
		return err
	}
	series := engine.Top(engine.Query(store, sel), queryLimit)

	out := cmd.OutOrStdout()
	switch queryFormat {
	case "table":
		return writeTable(out, sel, series)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(series)
	case "arrow":
		return engine.WriteArrow(out, series)
	default:
		return fmt.Errorf("unknown format %q", queryFormat)
	}
}

func writeTable(w io.Writer, sel models.Selection, series models.Series) error {
	if len(series) == 0 {
		_, err := fmt.Fprintf(w, "no data for %d / %s / %s\n", sel.Year, sel.CompanySize, levelLabel(sel))
		return err
	}

	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tJob Title\tMean Salary (USD)\tRows\t")
	for i, s := range series {
		p.Fprintf(tw, "%d\t%s\t%.0f\t%d\t\n", i+1, s.JobTitle, s.MeanSalary, s.Count)
	}
	return tw.Flush()
}

func levelLabel(sel models.Selection) string {
	if sel.ExperienceLevel == "" {
		return "all levels"
	}
	return sel.ExperienceLevel
}
