package sarif

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/securego/revmark"
	"github.com/securego/revmark/marker"
	"github.com/securego/revmark/violation"
)

// GenerateReport Convert a revmark report to a Sarif Report. Reviewed
// violations are kept as results carrying an in-source suppression.
func GenerateReport(rootPaths []string, data *revmark.ReportInfo) (*Report, error) {
	type rule struct {
		index int
		rule  *ReportingDescriptor
	}

	rules := make([]*ReportingDescriptor, 0)
	rulesIndices := make(map[string]rule)
	ruleFor := func(name string, p violation.Priority, info string) rule {
		r, ok := rulesIndices[name]
		if !ok {
			r = rule{index: len(rules), rule: parseSarifRule(name, p, info)}
			rulesIndices[name] = r
			rules = append(rules, r.rule)
		}
		return r
	}

	results := []*Result{}
	for _, m := range data.Markers {
		r := ruleFor(m.RuleName, m.Priority, "")
		result := NewResult(r.rule.ID, r.index, getSarifLevel(m.Severity), m.Message, nil, m.Autofix).
			WithLocations(NewLocation(relativeURI(m.File, rootPaths), m.Line, m.EndLine, m.Column))
		results = append(results, result)
	}

	for _, v := range data.Reviewed {
		r := ruleFor(v.RuleName, v.Priority, v.ExternalInfoURL)
		suppression := NewSuppression(InSource, fmt.Sprintf("rule %s reviewed in source", v.RuleName))
		result := NewResult(r.rule.ID, r.index, Note, v.Description, []*Suppression{suppression}, "").
			WithLocations(NewLocation(relativeURI(v.File, rootPaths), v.BeginLine, v.EndLine, v.BeginColumn))
		results = append(results, result)
	}

	// rule indices must follow the sorted order
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	indices := make(map[string]int, len(rules))
	for i, r := range rules {
		indices[r.ID] = i
	}
	for _, result := range results {
		result.RuleIndex = indices[result.RuleID]
	}

	tool := NewTool(buildSarifDriver(rules, data.Version))
	run := NewRun(tool).WithResults(results...)

	return NewReport(Version, Schema).
		WithRuns(run), nil
}

// parseSarifRule return SARIF rule field struct
func parseSarifRule(name string, p violation.Priority, helpURI string) *ReportingDescriptor {
	return &ReportingDescriptor{
		ID:               name,
		GUID:             uuid3(name),
		Name:             name,
		HelpURI:          helpURI,
		ShortDescription: NewMultiformatMessageString(name),
		Properties: &PropertyBag{
			"tags":     []string{marker.TypeFor(p)},
			"priority": int(p),
		},
	}
}

func parseSemanticVersion(version string) string {
	if len(version) == 0 {
		return "devel"
	}
	return strings.TrimPrefix(version, "v")
}

func buildSarifDriver(rules []*ReportingDescriptor, version string) *ToolComponent {
	return NewToolComponent("revmark", version, "https://github.com/securego/revmark/").
		WithSemanticVersion(parseSemanticVersion(version)).
		WithRules(rules...)
}

func uuid3(value string) string {
	return uuid.NewMD5(uuid.Nil, []byte(value)).String()
}

// relativeURI strips the first matching root path from file
func relativeURI(file string, rootPaths []string) string {
	uri := filepath.ToSlash(file)
	for _, rootPath := range rootPaths {
		root := strings.TrimSuffix(filepath.ToSlash(rootPath), "/") + "/"
		if strings.HasPrefix(uri, root) {
			return strings.TrimPrefix(uri, root)
		}
	}
	return uri
}

func getSarifLevel(s marker.Severity) Level {
	switch s {
	case marker.Error:
		return Error
	case marker.Warning:
		return Warning
	default:
		return Note
	}
}
