package revmark_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/securego/revmark"
	"github.com/securego/revmark/violation"
)

var _ = Describe("PathExclusionFilter", func() {
	Describe("NewPathExclusionFilter", func() {
		It("should accept no rules", func() {
			filter, err := revmark.NewPathExclusionFilter(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(filter.ShouldExclude("src/A.java", "R1")).To(BeFalse())
			Expect(filter.String()).To(Equal("PathExclusionFilter{empty}"))
		})

		It("should reject an empty path", func() {
			_, err := revmark.NewPathExclusionFilter([]revmark.PathExcludeRule{{Path: "", Rules: []string{"R1"}}})
			Expect(err).To(MatchError(ContainSubstring("path cannot be empty")))
		})

		It("should reject an invalid regex", func() {
			_, err := revmark.NewPathExclusionFilter([]revmark.PathExcludeRule{{Path: "[oops(", Rules: []string{"R1"}}})
			Expect(err).To(MatchError(ContainSubstring("invalid path regex")))
		})
	})

	Describe("ShouldExclude", func() {
		var filter *revmark.PathExclusionFilter

		BeforeEach(func() {
			var err error
			filter, err = revmark.NewPathExclusionFilter([]revmark.PathExcludeRule{
				{Path: `^src/test/`, Rules: []string{"JUnitTestsShouldIncludeAssert", " SystemPrintln "}},
				{Path: `/generated/`, Rules: []string{"*"}},
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should exclude listed rules on matching paths", func() {
			Expect(filter.ShouldExclude("src/test/FooTest.java", "SystemPrintln")).To(BeTrue())
			Expect(filter.ShouldExclude("src/test/FooTest.java", "JUnitTestsShouldIncludeAssert")).To(BeTrue())
		})

		It("should keep other rules on matching paths", func() {
			Expect(filter.ShouldExclude("src/test/FooTest.java", "ShortVariable")).To(BeFalse())
		})

		It("should keep listed rules on other paths", func() {
			Expect(filter.ShouldExclude("src/main/Foo.java", "SystemPrintln")).To(BeFalse())
		})

		It("should exclude every rule with a wildcard", func() {
			Expect(filter.ShouldExclude("build/generated/Parser.java", "AnyRule")).To(BeTrue())
		})

		It("should normalize Windows separators", func() {
			Expect(filter.ShouldExclude(`src\test\FooTest.java`, "SystemPrintln")).To(BeTrue())
		})

		It("should not exclude anything when nil", func() {
			var empty *revmark.PathExclusionFilter
			Expect(empty.ShouldExclude("src/test/FooTest.java", "SystemPrintln")).To(BeFalse())
		})

		It("should describe itself", func() {
			Expect(filter.String()).To(Equal(
				"PathExclusionFilter{^src/test/:[JUnitTestsShouldIncludeAssert,SystemPrintln]; /generated/:*}"))
		})
	})

	Describe("FilterViolations", func() {
		It("should drop excluded violations and keep the order of the rest", func() {
			filter, err := revmark.NewPathExclusionFilter([]revmark.PathExcludeRule{{Path: `^gen/`, Rules: []string{"R1"}}})
			Expect(err).NotTo(HaveOccurred())
			vs := []*violation.Violation{
				violation.New("src/B.java", "R1", violation.Medium, 9, 9, ""),
				violation.New("gen/A.java", "R1", violation.Medium, 1, 1, ""),
				violation.New("gen/A.java", "R2", violation.Medium, 2, 2, ""),
				violation.New("src/A.java", "R1", violation.Medium, 3, 3, ""),
			}
			kept, excluded := filter.FilterViolations(vs)
			Expect(excluded).To(Equal(1))
			Expect(kept).To(Equal([]*violation.Violation{vs[0], vs[2], vs[3]}))
		})
	})

	Describe("ParseCLIExcludeRules", func() {
		It("should parse several parts", func() {
			rules, err := revmark.ParseCLIExcludeRules(" gen/.*:* ; src/test/.*: R1 , R2 ;")
			Expect(err).NotTo(HaveOccurred())
			Expect(rules).To(Equal([]revmark.PathExcludeRule{
				{Path: "gen/.*", Rules: []string{"*"}},
				{Path: "src/test/.*", Rules: []string{"R1", "R2"}},
			}))
		})

		It("should split on the last colon", func() {
			rules, err := revmark.ParseCLIExcludeRules(`C:\\src\\.*:R1`)
			Expect(err).NotTo(HaveOccurred())
			Expect(rules[0].Path).To(Equal(`C:\\src\\.*`))
		})

		It("should return nothing for empty input", func() {
			rules, err := revmark.ParseCLIExcludeRules("")
			Expect(err).NotTo(HaveOccurred())
			Expect(rules).To(BeEmpty())
		})

		DescribeTable("should reject malformed input",
			func(input, message string) {
				_, err := revmark.ParseCLIExcludeRules(input)
				Expect(err).To(MatchError(ContainSubstring(message)))
			},
			Entry("missing colon", "gen/.*", "missing ':' separator"),
			Entry("empty path", ":R1", "path pattern cannot be empty"),
			Entry("empty rules", "gen/.*: , ", "no valid rules specified"),
		)
	})

	Describe("MergeExcludeRules", func() {
		It("should put command line rules first", func() {
			cli := []revmark.PathExcludeRule{{Path: "a", Rules: []string{"R1"}}}
			conf := []revmark.PathExcludeRule{{Path: "b", Rules: []string{"R2"}}}
			Expect(revmark.MergeExcludeRules(conf, cli)).To(Equal(append(cli, conf...)))
			Expect(revmark.MergeExcludeRules(conf, nil)).To(Equal(conf))
		})
	})
})
