package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/katalvlaran/percolath/experiment"
)

// CSVHeader is the column order written by WriteCSV.
var CSVHeader = []string{
	"strategy", "snapshot", "intensity", "mean", "stddev",
	"initial", "normalized", "trials", "failed", "observed",
}

// WriteCSV writes t with a header row, one line per Row.
func WriteCSV(w io.Writer, t *experiment.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("store: writing header: %w", err)
	}
	strategy := string(t.Strategy)
	for _, r := range t.Rows {
		rec := []string{
			strategy,
			r.Snapshot,
			formatFloat(r.Intensity),
			formatFloat(r.Mean),
			formatFloat(r.StdDev),
			formatFloat(r.Initial),
			formatFloat(r.Normalized),
			strconv.Itoa(r.Trials),
			strconv.Itoa(r.Failed),
			strconv.Itoa(r.Observed),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("store: writing row: %w", err)
		}
	}
	cw.Flush()

	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
