package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/vrogeon/repartkey/core/repartition"
	"github.com/vrogeon/repartkey/core/stats"
)

// Supported output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Options controls ExportRun.
type Options struct {
	Formats    []string          `json:"formats"`
	Statistics StatisticsOptions `json:"statistics"`
	Monthly    MonthlyOptions    `json:"monthly"`
}

// DefaultOptions writes the CSV reports with their default columns.
func DefaultOptions() Options {
	return Options{
		Formats:    []string{FormatCSV},
		Statistics: DefaultStatisticsOptions(),
		Monthly:    DefaultMonthlyOptions(),
	}
}

// ValidFormat reports whether f is a supported format.
func ValidFormat(f string) bool {
	switch f {
	case FormatCSV, FormatXLSX, FormatPDF, FormatJSON:
		return true
	}
	return false
}

// ExportRun writes the reports of the run into dir and returns the paths
// of the written files. For every producer the CSV format produces
// <id>.csv, <id>_statistics.csv and <id>_monthly_report.csv.
func ExportRun(dir string, run *repartition.Run, opts Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export folder: %w", err)
	}
	var files []string
	write := func(name string, fn func(io.Writer) error) error {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		files = append(files, path)
		return nil
	}

	months := make(map[string][]stats.MonthRow, len(run.Producers))
	needMonths := slices.Contains(opts.Formats, FormatCSV) || slices.Contains(opts.Formats, FormatPDF)
	if needMonths && len(run.Slots) > 0 {
		for pi, p := range run.Producers {
			rows, err := stats.MonthlyRollup(run, pi)
			if err != nil {
				return files, fmt.Errorf("monthly report %s: %w", p.ID, err)
			}
			months[p.ID] = rows
		}
	}

	for _, format := range opts.Formats {
		var err error
		switch format {
		case FormatCSV:
			for pi, p := range run.Producers {
				if err = write(p.ID+".csv", func(w io.Writer) error {
					return WriteKeys(w, run, pi)
				}); err != nil {
					break
				}
				if err = write(p.ID+"_statistics.csv", func(w io.Writer) error {
					return WriteStatistics(w, run, pi, opts.Statistics)
				}); err != nil {
					break
				}
				if err = write(p.ID+"_monthly_report.csv", func(w io.Writer) error {
					return writeMonthRows(w, run, pi, months[p.ID], opts.Monthly)
				}); err != nil {
					break
				}
			}
		case FormatXLSX:
			err = write("keys.xlsx", func(w io.Writer) error { return WriteKeysXLSX(w, run) })
		case FormatPDF:
			err = write("summary.pdf", func(w io.Writer) error {
				return WriteSummaryPDF(w, stats.Summarize(run), months)
			})
		case FormatJSON:
			err = write("summary.json", func(w io.Writer) error {
				return WriteSummaryJSON(w, stats.Summarize(run))
			})
		default:
			err = fmt.Errorf("unknown export format %s", format)
		}
		if err != nil {
			return files, err
		}
	}
	return files, nil
}
