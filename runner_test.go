package revmark_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/securego/revmark"
	"github.com/securego/revmark/marker"
	"github.com/securego/revmark/testutils"
	"github.com/securego/revmark/violation"
)

var _ = Describe("Runner", func() {
	var (
		engine  *testutils.MockEngine
		sources testutils.Sources
		acc     *revmark.MemoryAccumulator
		runner  *revmark.Runner
	)

	BeforeEach(func() {
		engine = testutils.NewMockEngine()
		sources = testutils.Sources{}
		acc = revmark.NewMemoryAccumulator()
		logger, _ := testutils.NewLogger()
		p, err := revmark.NewPipeline(revmark.NewConfig(), logger)
		Expect(err).ShouldNot(HaveOccurred())
		runner = &revmark.Runner{
			Engine:      engine,
			Pipeline:    p,
			Accumulator: acc,
			Open:        sources.Open,
			Concurrency: 4,
		}
	})

	It("should process every file and merge the metrics", func() {
		for i := 0; i < 20; i++ {
			file := fmt.Sprintf("src/F%02d.java", i)
			sources[file] = "@REVIEWED:R1:\nint a;\nint b;\n"
			engine.Add(file, "R1", violation.Medium, 2).Add(file, "R1", violation.Medium, 3)
		}
		Expect(acc.Files()).Should(BeEmpty())

		report, err := runner.Run(context.Background(), keys(sources))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(report.Errors).Should(BeEmpty())
		Expect(report.Markers).Should(HaveLen(20))
		Expect(report.Reviewed).Should(HaveLen(20))
		Expect(*report.Stats).Should(Equal(revmark.Metrics{NumFiles: 20, NumLines: 60, NumReviewed: 20, NumFound: 20}))
		Expect(acc.Files()).Should(HaveLen(20))
		Expect(report.Markers[0].File).Should(Equal("src/F00.java"))
	})

	It("should skip files the engine failed on", func() {
		sources["A.java"] = "int a;\n"
		sources["B.java"] = "int b;\n"
		engine.Add("A.java", "R1", violation.Medium, 1)
		engine.Fail("B.java", errors.New("parse error"))
		Expect(acc.Replace("B.java", []*marker.Record{{RuleName: "old"}})).Should(Succeed())

		report, err := runner.Run(context.Background(), []string{"A.java", "B.java"})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(report.Markers).Should(HaveLen(1))
		Expect(report.Errors).Should(HaveKey("B.java"))
		Expect(report.Errors["B.java"][0].Err).Should(ContainSubstring("engine failure"))

		previous, ok := acc.Get("B.java")
		Expect(ok).Should(BeTrue())
		Expect(previous[0].RuleName).Should(Equal("old"))
	})

	It("should skip files that cannot be read", func() {
		engine.Add("Missing.java", "R1", violation.Medium, 1)
		report, err := runner.Run(context.Background(), []string{"Missing.java"})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(report.Markers).Should(BeEmpty())
		Expect(report.Errors["Missing.java"][0].Err).Should(ContainSubstring("io failure"))
		_, ok := acc.Get("Missing.java")
		Expect(ok).Should(BeFalse())
	})

	It("should complete the markers before committing them", func() {
		sources["A.java"] = "int a;\n"
		engine.Add("A.java", "R1", violation.Medium, 1)
		committed := snapshotAccumulator{}
		runner.Accumulator = committed
		runner.BeforeCommit = func(_ context.Context, res *revmark.FileResult) error {
			for _, m := range res.Markers {
				m.Autofix = "fix " + m.RuleName
			}
			return nil
		}

		_, err := runner.Run(context.Background(), []string{"A.java"})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(committed["A.java"]).Should(Equal([]string{"fix R1"}))
	})

	It("should commit the markers when completing them fails", func() {
		sources["A.java"] = "int a;\n"
		engine.Add("A.java", "R1", violation.Medium, 1)
		runner.BeforeCommit = func(context.Context, *revmark.FileResult) error {
			return errors.New("quota exceeded")
		}

		report, err := runner.Run(context.Background(), []string{"A.java"})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(report.Errors).Should(BeEmpty())
		stored, ok := acc.Get("A.java")
		Expect(ok).Should(BeTrue())
		Expect(stored).Should(HaveLen(1))
	})

	It("should stop starting files once cancelled", func() {
		runner.Concurrency = 1
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		files := []string{"A.java", "B.java", "C.java"}
		for _, f := range files {
			sources[f] = "int a;\n"
			engine.Add(f, "R1", violation.Medium, 1)
		}
		engine.Hook = func(file string) {
			if file == "A.java" {
				cancel()
			}
		}

		report, err := runner.Run(ctx, files)
		Expect(err).Should(MatchError(context.Canceled))
		Expect(engine.AnalyzedFiles()).Should(Equal([]string{"A.java"}))
		Expect(acc.Files()).Should(Equal([]string{"A.java"}))
		Expect(report.Stats.NumFiles).Should(Equal(1))
	})
})

func keys(s testutils.Sources) []string {
	files := make([]string, 0, len(s))
	for f := range s {
		files = append(files, f)
	}
	return files
}

// snapshotAccumulator records the autofix text of each marker at commit time
type snapshotAccumulator map[string][]string

func (a snapshotAccumulator) Replace(file string, records []*marker.Record) error {
	fixes := make([]string, 0, len(records))
	for _, r := range records {
		fixes = append(fixes, r.Autofix)
	}
	a[file] = fixes
	return nil
}
