package golint

import (
	"fmt"
	"io"

	"github.com/securego/revmark"
)

// WriteReport write a report in golint format to the output writer
func WriteReport(w io.Writer, data *revmark.ReportInfo) error {
	// Output Sample:
	// /src/Foo.java:11:14: Avoid unused local variables such as 'x'. (Rule:UnusedLocalVariable, Severity:WARNING, Priority:3)

	for _, m := range data.Markers {
		col := m.Column
		if col == 0 {
			col = 1
		}
		_, err := fmt.Fprintf(w, "%s:%d:%d: %s (Rule:%s, Severity:%s, Priority:%d)\n",
			m.File,
			m.Line,
			col,
			m.Message,
			m.RuleName,
			m.Severity.String(),
			int(m.Priority),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
