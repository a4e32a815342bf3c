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

// Package revmark turns the violations reported by a static analysis engine
// into markers: reviewed violations are dropped, each rule is capped per file
// and what remains is classified by severity.
package revmark

import (
	"bytes"
	"io"
	"log"
	"os"

	"github.com/securego/revmark/marker"
	"github.com/securego/revmark/violation"
)

// Metrics used when reporting information about a run.
type Metrics struct {
	NumFiles    int `json:"files"`
	NumLines    int `json:"lines"`
	NumReviewed int `json:"reviewed"`
	NumExcluded int `json:"excluded"`
	NumCapped   int `json:"capped"`
	NumFound    int `json:"found"`
}

func (m *Metrics) merge(o Metrics) {
	m.NumFiles += o.NumFiles
	m.NumLines += o.NumLines
	m.NumReviewed += o.NumReviewed
	m.NumExcluded += o.NumExcluded
	m.NumCapped += o.NumCapped
	m.NumFound += o.NumFound
}

// FileResult is the outcome of one file pass
type FileResult struct {
	File     string
	Markers  []*marker.Record
	Reviewed []*violation.Violation
	Stats    Metrics
}

// Pipeline processes the violations of one file at a time. It keeps no state
// between passes and can be shared by concurrent workers.
type Pipeline struct {
	classifier Classifier
	limits     Limits
	prefix     string
	charset    string
	exclusions *PathExclusionFilter
	cache      *ScanCache
	debug      bool
	logger     *log.Logger
}

// NewPipeline builds a pipeline from the configuration
func NewPipeline(conf Config, logger *log.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "[revmark] ", log.LstdFlags)
	}
	limits, err := conf.Limits()
	if err != nil {
		return nil, err
	}
	rules, err := conf.ExcludeRules()
	if err != nil {
		return nil, err
	}
	exclusions, err := NewPathExclusionFilter(rules)
	if err != nil {
		return nil, err
	}
	debug, _ := conf.IsGlobalEnabled(Debug)
	return &Pipeline{
		classifier: conf.Classifier(),
		limits:     limits,
		prefix:     conf.ReviewPrefix(),
		charset:    conf.Charset(),
		exclusions: exclusions,
		debug:      debug,
		logger:     logger,
	}, nil
}

// UseScanCache makes the pipeline reuse the suppressions of unchanged texts
func (p *Pipeline) UseScanCache(cache *ScanCache) {
	p.cache = cache
}

// Scan decodes the file text and collects its review annotations. It returns
// the suppressions and the number of lines read.
func (p *Pipeline) Scan(file string, src io.Reader) (Suppressions, int, error) {
	text, err := DecodeSource(src, p.charset)
	if err != nil {
		return nil, 0, ioFailure(file, err)
	}
	if p.cache != nil {
		if res, ok := p.cache.get(text, p.prefix); ok {
			return res.sups, res.lines, nil
		}
	}
	sups, lines, err := scanSuppressions(bytes.NewReader(text), p.prefix)
	if err != nil {
		return nil, 0, ioFailure(file, err)
	}
	if p.cache != nil {
		p.cache.add(text, p.prefix, scanResult{sups: sups, lines: lines})
	}
	return sups, lines, nil
}

// Process scans the file text and turns the violations into markers. No
// markers are returned when the text cannot be read.
func (p *Pipeline) Process(file string, src io.Reader, violations []*violation.Violation) (*FileResult, error) {
	sups, lines, err := p.Scan(file, src)
	if err != nil {
		return nil, err
	}
	res := p.ProcessWithSuppressions(file, sups, violations)
	res.Stats.NumLines = lines
	return res, nil
}

// ProcessWithSuppressions turns the violations into markers using suppressions
// that were already collected for the file. Violations are handled in the
// order the engine reported them, which decides which ones fit in the budget.
func (p *Pipeline) ProcessWithSuppressions(file string, sups Suppressions, violations []*violation.Violation) *FileResult {
	res := &FileResult{File: file, Stats: Metrics{NumFiles: 1}}
	violations, res.Stats.NumExcluded = p.exclusions.FilterViolations(violations)

	budget := NewBudget()
	for _, v := range violations {
		if sups.Contains(v.RuleName, v.BeginLine) {
			p.debugf("Ignoring violation of rule %s at line %d because of a review", v.RuleName, v.BeginLine)
			res.Reviewed = append(res.Reviewed, v)
			continue
		}
		if !budget.TryAccept(v.RuleName, p.limits.MaxFor(v.RuleName)) {
			p.debugf("Ignoring violation of rule %s at line %d because maximum violations has been reached for file %s",
				v.RuleName, v.BeginLine, file)
			res.Stats.NumCapped++
			continue
		}
		res.Markers = append(res.Markers, marker.New(v, p.classifier.Classify(v.Priority)))
		p.debugf("Adding a violation for rule %s at line %d", v.RuleName, v.BeginLine)
	}

	res.Stats.NumReviewed = len(res.Reviewed)
	res.Stats.NumFound = len(res.Markers)
	return res
}

// Commit hands the markers of a file to the accumulator, replacing whatever
// it held for that file.
func (p *Pipeline) Commit(acc Accumulator, res *FileResult) error {
	p.debugf("Adding %d markers to accumulator for file %s", len(res.Markers), res.File)
	return acc.Replace(res.File, res.Markers)
}

func (p *Pipeline) debugf(format string, args ...interface{}) {
	if p.debug {
		p.logger.Printf(format, args...)
	}
}
