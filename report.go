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

// ReportInfo this is report information
type ReportInfo struct {
	Errors   map[string][]Error     `json:"Errors" yaml:"errors"`
	Markers  []*marker.Record       `json:"Markers" yaml:"markers"`
	Reviewed []*violation.Violation `json:"Reviewed,omitempty" yaml:"reviewed,omitempty"`
	Stats    *Metrics               `json:"Stats" yaml:"stats"`
	Version  string                 `json:"Version,omitempty" yaml:"version,omitempty"`
}

// NewReportInfo instantiate a ReportInfo
func NewReportInfo(markers []*marker.Record, metrics *Metrics, errors map[string][]Error) *ReportInfo {
	return &ReportInfo{
		Errors:  errors,
		Markers: markers,
		Stats:   metrics,
	}
}

// WithReviewed attaches the violations dropped because of a review
func (r *ReportInfo) WithReviewed(reviewed []*violation.Violation) *ReportInfo {
	r.Reviewed = reviewed
	return r
}

// WithVersion defines the version of revmark used to generate the report
func (r *ReportInfo) WithVersion(version string) *ReportInfo {
	r.Version = version
	return r
}
