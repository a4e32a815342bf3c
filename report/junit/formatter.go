package junit

import (
	"fmt"

	"github.com/securego/revmark"
	"github.com/securego/revmark/marker"
)

func generatePlaintext(m *marker.Record) string {
	return fmt.Sprintf("Results:\n[%s] - %s (Severity: %s, Priority: %d)\n",
		m.FileLocation(), m.Message, m.Severity, int(m.Priority))
}

// GenerateReport Convert a revmark report to a JUnit Report. Markers are
// grouped in one test suite per rule.
func GenerateReport(data *revmark.ReportInfo) Report {
	var xmlReport Report
	testsuites := map[string]int{}

	for _, m := range data.Markers {
		index, ok := testsuites[m.RuleName]
		if !ok {
			xmlReport.Testsuites = append(xmlReport.Testsuites, NewTestsuite(m.RuleName))
			index = len(xmlReport.Testsuites) - 1
			testsuites[m.RuleName] = index
		}
		xmlReport.Testsuites[index].AddFailure(&Testcase{
			Name:      m.FileLocation(),
			Classname: m.File,
			Failure: &Failure{
				Message: "Found 1 violation. See stacktrace for details.",
				Type:    m.Severity.String(),
				Text:    generatePlaintext(m),
			},
		})
	}

	return xmlReport
}
