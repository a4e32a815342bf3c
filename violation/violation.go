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

// Package violation holds the rule violations reported by an analysis engine.
package violation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Priority of the rule that was violated, 1 being the most important
type Priority int

const (
	// High priority
	High Priority = iota + 1
	// MediumHigh priority
	MediumHigh
	// Medium priority
	Medium
	// MediumLow priority
	MediumLow
	// Low priority
	Low
)

// String converts a Priority into a string
func (p Priority) String() string {
	switch p {
	case High:
		return "HIGH"
	case MediumHigh:
		return "MEDIUM_HIGH"
	case Medium:
		return "MEDIUM"
	case MediumLow:
		return "MEDIUM_LOW"
	case Low:
		return "LOW"
	}
	return "UNDEFINED"
}

// Valid reports whether the priority is in the 1..5 range
func (p Priority) Valid() bool {
	return p >= High && p <= Low
}

// MarshalJSON keeps the numeric priority on the wire
func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(p))
}

// ParsePriority accepts either the numeric form ("3") or the name ("medium")
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return Priority(n), nil
	}
	switch strings.ToUpper(strings.ReplaceAll(s, "-", "_")) {
	case "HIGH":
		return High, nil
	case "MEDIUM_HIGH":
		return MediumHigh, nil
	case "MEDIUM":
		return Medium, nil
	case "MEDIUM_LOW":
		return MediumLow, nil
	case "LOW":
		return Low, nil
	}
	return 0, fmt.Errorf("invalid priority %q", s)
}

// Violation is one rule failure reported by the analysis engine. It is never
// modified once created.
type Violation struct {
	File            string   `json:"file"`
	RuleName        string   `json:"rule"`
	RuleSet         string   `json:"ruleset,omitempty"`
	Priority        Priority `json:"priority"`
	BeginLine       int      `json:"beginline"`
	EndLine         int      `json:"endline"`
	BeginColumn     int      `json:"begincolumn,omitempty"`
	Description     string   `json:"description"`
	ExternalInfoURL string   `json:"externalInfoUrl,omitempty"`
}

// New creates a violation. A zero end line collapses to the begin line.
func New(file, rule string, priority Priority, beginLine, endLine int, desc string) *Violation {
	if endLine < beginLine {
		endLine = beginLine
	}
	return &Violation{
		File:        file,
		RuleName:    rule,
		Priority:    priority,
		BeginLine:   beginLine,
		EndLine:     endLine,
		Description: desc,
	}
}

// FileLocation point out the file path and line number in file
func (v Violation) FileLocation() string {
	return fmt.Sprintf("%s:%d", v.File, v.BeginLine)
}
