package revmark_test

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/securego/revmark"
	"github.com/securego/revmark/marker"
	"github.com/securego/revmark/testutils"
	"github.com/securego/revmark/violation"
)

var _ = Describe("Pipeline", func() {
	var conf revmark.Config

	newPipeline := func() *revmark.Pipeline {
		l, _ := testutils.NewLogger()
		p, err := revmark.NewPipeline(conf, l)
		Expect(err).ShouldNot(HaveOccurred())
		return p
	}

	BeforeEach(func() {
		conf = revmark.NewConfig()
	})

	It("should suppress reviewed violations", func() {
		conf.SetGlobal(revmark.MaxViolations, "0")
		vs := []*violation.Violation{
			violation.New("A.java", "Rule1", violation.Medium, 3, 3, "rule 1"),
			violation.New("A.java", "Rule2", violation.Medium, 3, 3, "rule 2"),
		}
		res, err := newPipeline().Process("A.java", strings.NewReader("/* c */\n@REVIEWED:Rule1:\nint x;\n"), vs)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(res.Markers).Should(HaveLen(1))
		Expect(res.Markers[0].RuleName).Should(Equal("Rule2"))
		Expect(res.Reviewed).Should(Equal(vs[:1]))
		Expect(res.Stats).Should(Equal(revmark.Metrics{NumFiles: 1, NumLines: 3, NumReviewed: 1, NumFound: 1}))
	})

	It("should only suppress the exact line", func() {
		vs := []*violation.Violation{
			violation.New("A.java", "Rule1", violation.Medium, 2, 3, "starts on the target"),
			violation.New("A.java", "Rule1", violation.Medium, 4, 4, "below the target"),
		}
		res, err := newPipeline().Process("A.java", strings.NewReader("@REVIEWED:Rule1:\nint x;\n"), vs)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(res.Markers).Should(HaveLen(1))
		Expect(res.Markers[0].Line).Should(Equal(4))
	})

	It("should keep the first violations in engine order when the budget runs out", func() {
		conf.SetGlobal(revmark.MaxViolations, "1")
		vs := []*violation.Violation{
			violation.New("A.java", "ShortVariable", violation.MediumLow, 7, 7, "first"),
			violation.New("A.java", "ShortVariable", violation.MediumLow, 2, 2, "second"),
		}
		res, err := newPipeline().Process("A.java", strings.NewReader("int a;\n"), vs)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(res.Markers).Should(HaveLen(1))
		Expect(res.Markers[0].Message).Should(Equal("first"))
		Expect(res.Stats.NumCapped).Should(Equal(1))
	})

	It("should not charge reviewed violations to the budget", func() {
		conf.Set("ShortVariable", map[string]interface{}{revmark.MaxViolationsKey: 1})
		vs := []*violation.Violation{
			violation.New("A.java", "ShortVariable", violation.MediumLow, 2, 2, "reviewed"),
			violation.New("A.java", "ShortVariable", violation.MediumLow, 3, 3, "kept"),
		}
		res, err := newPipeline().Process("A.java", strings.NewReader("@REVIEWED:ShortVariable:\nint a;\nint b;\n"), vs)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(res.Markers).Should(HaveLen(1))
		Expect(res.Markers[0].Message).Should(Equal("kept"))
	})

	It("should classify and tag the markers", func() {
		conf.SetGlobal(revmark.ViolationsAsErrors, "true")
		vs := []*violation.Violation{
			violation.New("A.java", "R1", violation.High, 1, 2, "p1"),
			violation.New("A.java", "R5", violation.Low, 1, 1, "p5"),
			violation.New("A.java", "R7", violation.Priority(7), 1, 1, "p7"),
		}
		res, err := newPipeline().Process("A.java", strings.NewReader("x\n"), vs)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(res.Markers).Should(HaveLen(3))

		Expect(res.Markers[0].Type).Should(Equal(marker.Type1))
		Expect(res.Markers[0].Attributes()).Should(Equal(map[string]interface{}{
			marker.AttrMessage:      "p1",
			marker.AttrLineNumber:   1,
			marker.AttrEndLine:      2,
			marker.AttrRuleName:     "R1",
			marker.AttrPriority:     1,
			marker.AttrSeverity:     marker.Error,
			marker.AttrPriorityFlag: marker.HighFlag,
		}))
		Expect(res.Markers[1].Type).Should(Equal(marker.Type5))
		Expect(res.Markers[1].Severity).Should(Equal(marker.Info))
		Expect(res.Markers[1].Attributes()).ShouldNot(HaveKey(marker.AttrPriorityFlag))
		Expect(res.Markers[2].Type).Should(Equal(marker.TypeGeneric))
		Expect(res.Markers[2].Severity).Should(Equal(marker.Warning))
	})

	It("should drop violations excluded for the path", func() {
		conf.Set(revmark.ExcludeRulesKey, []revmark.PathExcludeRule{{Path: `^gen/`, Rules: []string{"*"}}})
		vs := []*violation.Violation{violation.New("gen/A.java", "R1", violation.Medium, 1, 1, "")}
		res, err := newPipeline().Process("gen/A.java", strings.NewReader("x\n"), vs)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(res.Markers).Should(BeEmpty())
		Expect(res.Stats.NumExcluded).Should(Equal(1))
	})

	It("should reuse precomputed suppressions", func() {
		sups, err := revmark.ScanSuppressions(strings.NewReader("@REVIEWED:R1:\nx;\n"), "")
		Expect(err).ShouldNot(HaveOccurred())
		vs := []*violation.Violation{violation.New("A.java", "R1", violation.Medium, 2, 2, "")}
		res := newPipeline().ProcessWithSuppressions("A.java", sups, vs)
		Expect(res.Markers).Should(BeEmpty())
		Expect(res.Reviewed).Should(HaveLen(1))
	})

	It("should fail with an IO failure on unreadable text", func() {
		vs := []*violation.Violation{violation.New("A.java", "R1", violation.Medium, 1, 1, "")}
		res, err := newPipeline().Process("A.java", failingReader{}, vs)
		Expect(res).Should(BeNil())
		Expect(errors.Is(err, revmark.ErrIO)).Should(BeTrue())
	})

	It("should fail with an IO failure on text that does not decode", func() {
		vs := []*violation.Violation{violation.New("A.java", "R1", violation.Medium, 1, 1, "")}
		_, err := newPipeline().Process("A.java", strings.NewReader("int \xff\xfe x;\n"), vs)
		Expect(errors.Is(err, revmark.ErrIO)).Should(BeTrue())
		var fileErr *revmark.FileError
		Expect(errors.As(err, &fileErr)).Should(BeTrue())
		Expect(fileErr.File).Should(Equal("A.java"))
	})

	It("should replace the accumulated markers of a file on commit", func() {
		acc := revmark.NewMemoryAccumulator()
		p := newPipeline()
		first := p.ProcessWithSuppressions("A.java", revmark.Suppressions{},
			[]*violation.Violation{violation.New("A.java", "R1", violation.Medium, 1, 1, "")})
		Expect(p.Commit(acc, first)).Should(Succeed())
		second := p.ProcessWithSuppressions("A.java", revmark.Suppressions{}, nil)
		Expect(p.Commit(acc, second)).Should(Succeed())

		records, ok := acc.Get("A.java")
		Expect(ok).Should(BeTrue())
		Expect(records).Should(BeEmpty())
	})

	It("should log dropped violations in debug mode", func() {
		conf.SetGlobal(revmark.Debug, "enabled")
		l, buf := testutils.NewLogger()
		p, err := revmark.NewPipeline(conf, l)
		Expect(err).ShouldNot(HaveOccurred())
		vs := []*violation.Violation{violation.New("A.java", "R1", violation.Medium, 2, 2, "")}
		_, err = p.Process("A.java", strings.NewReader("@REVIEWED:R1:\nx;\n"), vs)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(buf.String()).Should(ContainSubstring("Ignoring violation of rule R1 at line 2 because of a review"))
	})

	It("should reject an invalid configuration", func() {
		conf.SetGlobal(revmark.MaxViolations, "many")
		_, err := revmark.NewPipeline(conf, nil)
		Expect(err).Should(HaveOccurred())
	})
})
