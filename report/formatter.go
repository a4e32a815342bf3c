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

package report

import (
	"io"

	"github.com/securego/revmark"
	"github.com/securego/revmark/report/csv"
	"github.com/securego/revmark/report/golint"
	"github.com/securego/revmark/report/json"
	"github.com/securego/revmark/report/junit"
	"github.com/securego/revmark/report/sarif"
	"github.com/securego/revmark/report/text"
	"github.com/securego/revmark/report/yaml"
)

// Formats lists the accepted report formats
var Formats = []string{"json", "yaml", "csv", "junit-xml", "text", "golint", "sarif"}

// CreateReport generates a report based for the supplied markers and metrics given
// the specified format. The formats currently accepted are: json, yaml, csv, junit-xml, golint, sarif and text.
// Only json and sarif carry the reviewed violations.
func CreateReport(w io.Writer, format string, enableColor bool, rootPaths []string, data *revmark.ReportInfo) error {
	var err error
	if format != "json" && format != "sarif" {
		data = withoutReviewed(data)
	}
	switch format {
	case "json":
		err = json.WriteReport(w, data)
	case "yaml":
		err = yaml.WriteReport(w, data)
	case "csv":
		err = csv.WriteReport(w, data)
	case "junit-xml":
		err = junit.WriteReport(w, data)
	case "text":
		err = text.WriteReport(w, data, enableColor)
	case "golint":
		err = golint.WriteReport(w, data)
	case "sarif":
		err = sarif.WriteReport(w, data, rootPaths)
	default:
		err = text.WriteReport(w, data, enableColor)
	}
	return err
}

func withoutReviewed(data *revmark.ReportInfo) *revmark.ReportInfo {
	copied := *data
	copied.Reviewed = nil
	return &copied
}
