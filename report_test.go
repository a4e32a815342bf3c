package revmark_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/securego/revmark"
	"github.com/securego/revmark/marker"
	"github.com/securego/revmark/violation"
)

var _ = Describe("ReportInfo", func() {
	It("should create a report with markers, metrics, and errors", func() {
		markers := []*marker.Record{
			{RuleName: "R1", Message: "first"},
			{RuleName: "R2", Message: "second"},
		}
		metrics := &revmark.Metrics{NumFiles: 10, NumLines: 1000, NumReviewed: 5, NumFound: 2}
		errors := map[string][]revmark.Error{
			"A.java": {{Line: 0, Column: 0, Err: "test error"}},
		}

		report := revmark.NewReportInfo(markers, metrics, errors)
		Expect(report.Markers).Should(HaveLen(2))
		Expect(report.Stats).Should(Equal(metrics))
		Expect(report.Errors).Should(HaveLen(1))
		Expect(report.Reviewed).Should(BeNil())
		Expect(report.Version).Should(BeEmpty())
	})

	It("should carry the reviewed violations and the version", func() {
		reviewed := []*violation.Violation{violation.New("A.java", "R1", violation.Low, 1, 1, "")}
		report := revmark.NewReportInfo(nil, &revmark.Metrics{}, nil).
			WithReviewed(reviewed).
			WithVersion("v1.2.3")
		Expect(report.Reviewed).Should(Equal(reviewed))
		Expect(report.Version).Should(Equal("v1.2.3"))
	})
})
