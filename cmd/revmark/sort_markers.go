package main

import (
	"sort"

	"github.com/securego/revmark/marker"
)

type sortBySeverity []*marker.Record

func (s sortBySeverity) Len() int { return len(s) }

func (s sortBySeverity) Less(i, j int) bool {
	if s[i].Severity == s[j].Severity {
		if s[i].RuleName == s[j].RuleName {
			if s[i].File == s[j].File {
				return s[i].Line < s[j].Line
			}
			return s[i].File < s[j].File
		}
		return s[i].RuleName < s[j].RuleName
	}
	return s[i].Severity > s[j].Severity
}

func (s sortBySeverity) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// sortMarkers sorts the markers by severity in descending order, then by
// rule, file and line
func sortMarkers(markers []*marker.Record) {
	sort.Stable(sortBySeverity(markers))
}
