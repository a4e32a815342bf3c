package csv

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/securego/revmark"
)

// WriteReport write a report in csv format to the output writer
func WriteReport(w io.Writer, data *revmark.ReportInfo) error {
	out := csv.NewWriter(w)
	defer out.Flush()
	for _, m := range data.Markers {
		err := out.Write([]string{
			m.File,
			strconv.Itoa(m.Line),
			strconv.Itoa(m.EndLine),
			m.RuleName,
			m.Message,
			m.Severity.String(),
			strconv.Itoa(int(m.Priority)),
			m.PriorityFlag.String(),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
