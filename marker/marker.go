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

// Package marker defines the classified records handed over to whatever
// displays or stores markers for a file.
package marker

import (
	"encoding/json"
	"fmt"

	"github.com/securego/revmark/violation"
)

// Severity is the display bucket of a marker. The values follow the usual IDE
// marker numbering (info < warning < error).
type Severity int

const (
	// Info severity
	Info Severity = iota
	// Warning severity
	Warning
	// Error severity
	Error
)

// String converts a Severity into a string
func (s Severity) String() string {
	switch s {
	case Error:
		return "ERROR"
	case Warning:
		return "WARNING"
	case Info:
		return "INFO"
	}
	return "UNDEFINED"
}

// MarshalJSON is used convert a Severity object into a JSON representation
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// MarshalYAML renders the severity by name
func (s Severity) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// Flag is the optional task priority attached to a marker
type Flag int

const (
	// NoFlag means the attribute is absent
	NoFlag Flag = iota
	// HighFlag marks the violation as high priority
	HighFlag
)

// String converts a Flag into a string
func (f Flag) String() string {
	if f == HighFlag {
		return "HIGH"
	}
	return ""
}

// MarshalJSON is used convert a Flag object into a JSON representation
func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// MarshalYAML renders the flag by name
func (f Flag) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}

// Attribute keys of a marker record.
const (
	AttrMessage      = "message"
	AttrLineNumber   = "lineNumber"
	AttrEndLine      = "line2"
	AttrRuleName     = "rulename"
	AttrPriority     = "pmdPriority"
	AttrSeverity     = "severity"
	AttrPriorityFlag = "priority"
)

// Category tags, one per rule priority plus the generic fallback.
const (
	TypeGeneric = "revmark.marker"
	Type1       = "revmark.marker1"
	Type2       = "revmark.marker2"
	Type3       = "revmark.marker3"
	Type4       = "revmark.marker4"
	Type5       = "revmark.marker5"
)

// TypeFor returns the category tag used to bucket a violation of the given priority
func TypeFor(p violation.Priority) string {
	switch p {
	case violation.High:
		return Type1
	case violation.MediumHigh:
		return Type2
	case violation.Medium:
		return Type3
	case violation.MediumLow:
		return Type4
	case violation.Low:
		return Type5
	default:
		return TypeGeneric
	}
}

// Classification is the severity and priority flag computed for a violation
type Classification struct {
	Severity Severity
	Flag     Flag
}

// Record is one accepted and classified violation
type Record struct {
	Type         string             `json:"type"`
	File         string             `json:"file"`
	Message      string             `json:"message"`
	Line         int                `json:"line"`
	EndLine      int                `json:"end_line"`
	Column       int                `json:"column,omitempty" yaml:"column,omitempty"`
	RuleName     string             `json:"rule"`
	Priority     violation.Priority `json:"priority"`
	Severity     Severity           `json:"severity"`
	PriorityFlag Flag               `json:"priority_flag,omitempty"`
	Autofix      string             `json:"autofix,omitempty" yaml:"autofix,omitempty"`
}

// New builds the record for an accepted violation
func New(v *violation.Violation, c Classification) *Record {
	return &Record{
		Type:         TypeFor(v.Priority),
		File:         v.File,
		Message:      v.Description,
		Line:         v.BeginLine,
		EndLine:      v.EndLine,
		Column:       v.BeginColumn,
		RuleName:     v.RuleName,
		Priority:     v.Priority,
		Severity:     c.Severity,
		PriorityFlag: c.Flag,
	}
}

// Attributes returns the named attribute set of the marker. The priority flag
// is only present when one was assigned.
func (r *Record) Attributes() map[string]interface{} {
	attrs := map[string]interface{}{
		AttrMessage:    r.Message,
		AttrLineNumber: r.Line,
		AttrEndLine:    r.EndLine,
		AttrRuleName:   r.RuleName,
		AttrPriority:   int(r.Priority),
		AttrSeverity:   r.Severity,
	}
	if r.PriorityFlag != NoFlag {
		attrs[AttrPriorityFlag] = r.PriorityFlag
	}
	return attrs
}

// FileLocation point out the file path and line number in file
func (r *Record) FileLocation() string {
	return fmt.Sprintf("%s:%d", r.File, r.Line)
}
