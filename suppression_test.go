package revmark_test

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/securego/revmark"
	"github.com/securego/revmark/testutils"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func scan(text string) revmark.Suppressions {
	sups, err := revmark.ScanSuppressions(strings.NewReader(text), "")
	Expect(err).ShouldNot(HaveOccurred())
	return sups
}

var _ = Describe("ScanSuppressions", func() {
	It("should return no suppression for text without annotations", func() {
		sups := scan("public class Foo {\n  int x;\n}\n")
		Expect(sups.Len()).Should(BeZero())
	})

	It("should resolve an annotation to the next code line", func() {
		sups := scan("class A {\n  // @REVIEWED:Foo: ok\n  @REVIEWED:Rule1: by me\n  int x;\n}\n")
		Expect(sups.List()).Should(Equal([]revmark.Suppression{{RuleName: "Rule1", Line: 4}}))
		Expect(sups.Contains("Rule1", 4)).Should(BeTrue())
		Expect(sups.Contains("Rule1", 3)).Should(BeFalse())
		Expect(sups.Contains("Foo", 4)).Should(BeFalse())
	})

	It("should resolve stacked annotations to the same line", func() {
		sups := scan("@REVIEWED:R1:\n@REVIEWED:R2:\nint x;\n")
		Expect(sups.List()).Should(ConsistOf(
			revmark.Suppression{RuleName: "R1", Line: 3},
			revmark.Suppression{RuleName: "R2", Line: 3},
		))
	})

	It("should skip blank lines and line comments before the target", func() {
		sups := scan("@REVIEWED:R1:\n\n   \n// why\nint x;\n")
		Expect(sups.List()).Should(Equal([]revmark.Suppression{{RuleName: "R1", Line: 5}}))
	})

	It("should drop annotations with no code line after them", func() {
		sups := scan("int x;\n@REVIEWED:R1:\n\n// trailing\n")
		Expect(sups.Len()).Should(BeZero())
	})

	It("should ignore annotations inside block comments", func() {
		sups := scan("/*\n@REVIEWED:R1:\n * @REVIEWED:R2:\n*/\nint x;\n")
		Expect(sups.Len()).Should(BeZero())
	})

	It("should not enter a block comment closed on the same line", func() {
		sups := scan("/* c */\n@REVIEWED:Rule1:\nint x;\n")
		Expect(sups.List()).Should(Equal([]revmark.Suppression{{RuleName: "Rule1", Line: 3}}))
	})

	It("should not use a comment opening line as target", func() {
		sups := scan("@REVIEWED:R1:\n/* a comment */\nint x;\n")
		Expect(sups.List()).Should(Equal([]revmark.Suppression{{RuleName: "R1", Line: 3}}))
	})

	It("should not use the closing line of a block comment as target", func() {
		sups := scan("@REVIEWED:R1:\n/*\n text\n */ int y;\nint x;\n")
		Expect(sups.List()).Should(Equal([]revmark.Suppression{{RuleName: "R1", Line: 5}}))
	})

	It("should treat a prefix without closing colon as plain text", func() {
		sups := scan("@REVIEWED:R1:\n@REVIEWED:Broken\nint x;\n")
		Expect(sups.List()).Should(Equal([]revmark.Suppression{{RuleName: "R1", Line: 2}}))
	})

	It("should accept an empty rule name", func() {
		sups := scan("@REVIEWED::\nint x;\n")
		Expect(sups.Contains("", 2)).Should(BeTrue())
	})

	It("should trim surrounding whitespace before matching", func() {
		sups := scan("\t  @REVIEWED:R1:  \n\t\tint x;  \n")
		Expect(sups.Contains("R1", 2)).Should(BeTrue())
	})

	It("should handle Windows line endings", func() {
		sups := scan("@REVIEWED:R1:\r\nint x;\r\n")
		Expect(sups.Contains("R1", 2)).Should(BeTrue())
	})

	It("should handle old Mac line endings", func() {
		sups := scan("class A {\r@REVIEWED:R1:\rint x;\r}\r")
		Expect(sups.List()).Should(Equal([]revmark.Suppression{{RuleName: "R1", Line: 3}}))
	})

	It("should handle mixed line endings", func() {
		sups := scan("a();\r\n@REVIEWED:R1:\rb();\n\r@REVIEWED:R2:\nc();")
		Expect(sups.List()).Should(Equal([]revmark.Suppression{
			{RuleName: "R1", Line: 3},
			{RuleName: "R2", Line: 6},
		}))
	})

	It("should read lines of any length", func() {
		text := "var s = \"" + strings.Repeat("x", 2<<20) + "\";\n@REVIEWED:R1:\nint x;\n"
		sups, err := revmark.ScanSuppressions(strings.NewReader(text), "")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(sups.List()).Should(Equal([]revmark.Suppression{{RuleName: "R1", Line: 3}}))
	})

	It("should honour a custom prefix", func() {
		text := "// @PMD:REVIEWED:R1: by me\n// @REVIEWED:R2:\nint x;\n"
		sups, err := revmark.ScanSuppressions(strings.NewReader(text), "// @PMD:REVIEWED:")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(sups.List()).Should(Equal([]revmark.Suppression{{RuleName: "R1", Line: 3}}))
	})

	It("should return the same set when scanning twice", func() {
		text := "@REVIEWED:R1:\n@REVIEWED:R2:\nint x;\n/*\n@REVIEWED:R3:\n*/\n@REVIEWED:R4:\ny();\n"
		Expect(scan(text)).Should(Equal(scan(text)))
	})

	It("should fail when the text cannot be read", func() {
		_, err := revmark.ScanSuppressions(failingReader{}, "")
		Expect(err).Should(MatchError(ContainSubstring("disk on fire")))
	})

	Context("with sample sources", func() {
		for _, sample := range testutils.SampleSources {
			sample := sample
			It("should find the suppressions of "+sample.Name, func() {
				sups := scan(sample.Code)
				expected := 0
				for rule, lines := range sample.Suppressions {
					for _, line := range lines {
						Expect(sups.Contains(rule, line)).Should(BeTrue(), "%s at %d", rule, line)
						expected++
					}
				}
				Expect(sups.Len()).Should(Equal(expected))
			})
		}
	})
})
