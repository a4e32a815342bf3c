// (c) Copyright revmark's authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package revmark

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/securego/revmark/violation"
)

// PathExcludeRule defines rules to exclude for specific file paths
type PathExcludeRule struct {
	Path  string   `json:"path" yaml:"path"`   // Regex pattern for matching file paths
	Rules []string `json:"rules" yaml:"rules"` // Rule names to exclude. Use "*" to exclude all rules
}

type compiledPathRule struct {
	pathRegex  *regexp.Regexp
	ruleSet    map[string]bool
	excludeAll bool
	original   PathExcludeRule
}

// PathExclusionFilter drops the violations of some rules for the files whose
// path matches a pattern. A nil filter excludes nothing.
type PathExclusionFilter struct {
	rules []compiledPathRule
}

// NewPathExclusionFilter compiles the exclusion rules. Returns an error if
// any path regex is invalid.
func NewPathExclusionFilter(rules []PathExcludeRule) (*PathExclusionFilter, error) {
	compiled := make([]compiledPathRule, 0, len(rules))
	for i, rule := range rules {
		if rule.Path == "" {
			return nil, fmt.Errorf("%s[%d]: path cannot be empty", ExcludeRulesKey, i)
		}
		regex, err := regexp.Compile(rule.Path)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: invalid path regex %q: %w", ExcludeRulesKey, i, rule.Path, err)
		}
		c := compiledPathRule{pathRegex: regex, ruleSet: map[string]bool{}, original: rule}
		for _, name := range rule.Rules {
			switch name = strings.TrimSpace(name); name {
			case "":
			case "*":
				c.excludeAll = true
			default:
				c.ruleSet[name] = true
			}
		}
		compiled = append(compiled, c)
	}
	return &PathExclusionFilter{rules: compiled}, nil
}

// ShouldExclude returns true if violations of rule in filePath are excluded
func (f *PathExclusionFilter) ShouldExclude(filePath, rule string) bool {
	if f == nil {
		return false
	}
	normalizedPath := strings.ReplaceAll(filePath, "\\", "/")
	for _, r := range f.rules {
		if (r.excludeAll || r.ruleSet[rule]) && RegexMatch(r.pathRegex, normalizedPath) {
			return true
		}
	}
	return false
}

// FilterViolations applies path-based exclusions to a slice of violations.
// Returns the kept violations and the count of excluded ones.
func (f *PathExclusionFilter) FilterViolations(violations []*violation.Violation) ([]*violation.Violation, int) {
	if f == nil || len(f.rules) == 0 || len(violations) == 0 {
		return violations, 0
	}
	kept := make([]*violation.Violation, 0, len(violations))
	for _, v := range violations {
		if !f.ShouldExclude(v.File, v.RuleName) {
			kept = append(kept, v)
		}
	}
	return kept, len(violations) - len(kept)
}

// ParseCLIExcludeRules parses the command line form of exclusions:
// "path:rule1,rule2;path2:rule3", e.g. "generated/.*:*;test/.*:UnusedImports".
// The last ':' of each part separates the pattern from the rules.
func ParseCLIExcludeRules(input string) ([]PathExcludeRule, error) {
	var rules []PathExcludeRule
	for i, part := range strings.Split(input, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.LastIndex(part, ":")
		if idx == -1 {
			return nil, fmt.Errorf("exclude-rules part %d: missing ':' separator in %q", i+1, part)
		}
		pattern := strings.TrimSpace(part[:idx])
		if pattern == "" {
			return nil, fmt.Errorf("exclude-rules part %d: path pattern cannot be empty", i+1)
		}
		var names []string
		for _, name := range strings.Split(part[idx+1:], ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("exclude-rules part %d: no valid rules specified", i+1)
		}
		rules = append(rules, PathExcludeRule{Path: pattern, Rules: names})
	}
	return rules, nil
}

// MergeExcludeRules puts the command line rules ahead of the configured ones
func MergeExcludeRules(configRules, cliRules []PathExcludeRule) []PathExcludeRule {
	merged := make([]PathExcludeRule, 0, len(cliRules)+len(configRules))
	merged = append(merged, cliRules...)
	return append(merged, configRules...)
}

// String returns a human-readable representation of the filter
func (f *PathExclusionFilter) String() string {
	if f == nil || len(f.rules) == 0 {
		return "PathExclusionFilter{empty}"
	}
	parts := make([]string, 0, len(f.rules))
	for _, r := range f.rules {
		if r.excludeAll {
			parts = append(parts, r.original.Path+":*")
			continue
		}
		names := make([]string, 0, len(r.ruleSet))
		for name := range r.ruleSet {
			names = append(names, name)
		}
		sort.Strings(names)
		parts = append(parts, fmt.Sprintf("%s:[%s]", r.original.Path, strings.Join(names, ",")))
	}
	return fmt.Sprintf("PathExclusionFilter{%s}", strings.Join(parts, "; "))
}
