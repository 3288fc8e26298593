package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/nkhare/armada/internal/report"
)

// WriteReportCSV writes a version drift report as CSV, one row per
// host, suitable for spreadsheets and downstream tooling.
func WriteReportCSV(w io.Writer, rep *report.Report) error {
	cw := csv.NewWriter(w)

	header := []string{"host", "realm", "region", "cluster", "current_version", "target_version", "drifted", "ready"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range rep.Rows {
		record := []string{
			row.Host,
			row.Realm,
			row.Region,
			row.Cluster,
			row.CurrentVersion,
			row.TargetVersion,
			strconv.FormatBool(row.Drifted),
			strconv.FormatBool(row.Ready),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", row.Host, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
