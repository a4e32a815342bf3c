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

// Package goanalysis runs the review and capping pipeline over the
// diagnostics of a standard golang.org/x/tools/go/analysis.Analyzer.
package goanalysis

import (
	"bytes"
	"fmt"
	"go/token"
	"io"
	"log"
	"os"

	"golang.org/x/tools/go/analysis"

	"github.com/securego/revmark"
	"github.com/securego/revmark/marker"
	"github.com/securego/revmark/violation"
)

// ReviewPrefix is the annotation prefix used for Go sources unless the
// configuration sets one.
const ReviewPrefix = "// @REVIEWED:"

// scanCache is shared by every wrapped analyzer, so each source file is
// scanned for annotations once.
var scanCache = revmark.NewScanCache(1 << 10)

// Wrap returns an analyzer reporting the diagnostics of a that survive the
// review annotations and the per-rule caps of conf. The category of a
// diagnostic names its rule, falling back to the analyzer name. Every
// diagnostic of a has the given priority.
func Wrap(a *analysis.Analyzer, priority violation.Priority, conf revmark.Config) (*analysis.Analyzer, error) {
	conf = withGoDefaults(conf)
	logger := log.New(io.Discard, "", 0)
	pipeline, err := revmark.NewPipeline(conf, logger)
	if err != nil {
		return nil, err
	}
	pipeline.UseScanCache(scanCache)
	w := &wrapper{inner: a, priority: priority, pipeline: pipeline}
	return &analysis.Analyzer{
		Name:       a.Name,
		Doc:        a.Doc,
		URL:        a.URL,
		Flags:      a.Flags,
		Run:        w.run,
		Requires:   a.Requires,
		ResultType: a.ResultType,
		FactTypes:  a.FactTypes,
	}, nil
}

// withGoDefaults copies conf, setting the Go review prefix when none is given
func withGoDefaults(conf revmark.Config) revmark.Config {
	copied := revmark.NewConfig()
	for k, v := range conf {
		if k != revmark.Globals {
			copied[k] = v
		}
	}
	if globals, ok := conf[revmark.Globals].(map[revmark.GlobalOption]string); ok {
		for k, v := range globals {
			copied.SetGlobal(k, v)
		}
	}
	if _, err := copied.GetGlobal(revmark.ReviewPrefix); err != nil {
		copied.SetGlobal(revmark.ReviewPrefix, ReviewPrefix)
	}
	return copied
}

type wrapper struct {
	inner    *analysis.Analyzer
	priority violation.Priority
	pipeline *revmark.Pipeline
}

// diagKey locates a diagnostic once it went through the pipeline
type diagKey struct {
	rule string
	line int
	col  int
	msg  string
}

func (w *wrapper) run(pass *analysis.Pass) (interface{}, error) {
	var diagnostics []analysis.Diagnostic
	inner := *pass
	inner.Analyzer = w.inner
	inner.Report = func(d analysis.Diagnostic) {
		diagnostics = append(diagnostics, d)
	}
	result, err := w.inner.Run(&inner)
	if err != nil {
		return nil, err
	}

	// group the violations per file, keeping the reporting order
	var files []string
	perFile := map[string][]*violation.Violation{}
	origin := map[diagKey][]analysis.Diagnostic{}
	for _, d := range diagnostics {
		position := pass.Fset.Position(d.Pos)
		if !position.IsValid() {
			pass.Report(d)
			continue
		}
		rule := d.Category
		if rule == "" {
			rule = w.inner.Name
		}
		end := position.Line
		if d.End.IsValid() {
			end = pass.Fset.Position(d.End).Line
		}
		v := violation.New(position.Filename, rule, w.priority, position.Line, end, d.Message)
		v.BeginColumn = position.Column
		v.ExternalInfoURL = w.inner.URL
		if _, ok := perFile[v.File]; !ok {
			files = append(files, v.File)
		}
		perFile[v.File] = append(perFile[v.File], v)
		key := diagKey{rule: rule, line: position.Line, col: position.Column, msg: d.Message}
		origin[key] = append(origin[key], d)
	}

	for _, file := range files {
		src, err := os.ReadFile(file) // #nosec
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		res, err := w.pipeline.Process(file, bytes.NewReader(src), perFile[file])
		if err != nil {
			return nil, err
		}
		for _, m := range res.Markers {
			key := diagKey{rule: m.RuleName, line: m.Line, col: m.Column, msg: m.Message}
			queue := origin[key]
			d := analysis.Diagnostic{Pos: parsePosition(pass.Fset, m)}
			if len(queue) > 0 {
				d, origin[key] = queue[0], queue[1:]
			}
			d.Category = m.RuleName
			d.Message = fmt.Sprintf("%s: %s (Severity: %s)", m.RuleName, m.Message, m.Severity)
			pass.Report(d)
		}
	}
	return result, nil
}

// parsePosition converts a marker location to a token.Pos
func parsePosition(fset *token.FileSet, m *marker.Record) token.Pos {
	var file *token.File
	fset.Iterate(func(f *token.File) bool {
		if f.Name() == m.File {
			file = f
			return false
		}
		return true
	})

	if file == nil || m.Line < 1 || m.Line > file.LineCount() {
		return token.NoPos
	}

	lineStart := file.LineStart(m.Line)
	if m.Column < 1 {
		return lineStart
	}
	pos := lineStart + token.Pos(m.Column-1)
	if int(pos) > file.Base()+file.Size() {
		return lineStart
	}
	return pos
}
