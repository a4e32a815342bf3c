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
	"github.com/securego/revmark/marker"
	"github.com/securego/revmark/violation"
)

// Classifier maps a rule priority to the severity and priority flag of a
// marker. It holds no state beyond the project setting and is safe for
// concurrent use.
type Classifier struct {
	// ViolationsAsErrors reports the two highest priorities as errors
	ViolationsAsErrors bool
}

// Classify returns the marker classification for a violation priority.
// Priorities outside 1..5 are handled like priority 4.
func (c Classifier) Classify(p violation.Priority) marker.Classification {
	var cl marker.Classification
	switch p {
	case violation.High:
		cl.Flag = marker.HighFlag
		cl.Severity = c.highSeverity()
	case violation.MediumHigh:
		cl.Severity = c.highSeverity()
		if !c.ViolationsAsErrors {
			cl.Flag = marker.HighFlag
		}
	case violation.Low:
		cl.Severity = marker.Info
	case violation.Medium:
		cl.Flag = marker.HighFlag
		fallthrough
	default:
		cl.Severity = marker.Warning
	}
	return cl
}

func (c Classifier) highSeverity() marker.Severity {
	if c.ViolationsAsErrors {
		return marker.Error
	}
	return marker.Warning
}
