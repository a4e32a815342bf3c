// Package pmd serves the violations of a PMD JSON report to the batch runner.
package pmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/securego/revmark/violation"
)

type pmdJSON struct {
	FormatVersion int    `json:"formatVersion"`
	PMDVersion    string `json:"pmdVersion"`
	Files         []struct {
		Filename   string `json:"filename"`
		Violations []struct {
			BeginLine       int    `json:"beginline"`
			BeginColumn     int    `json:"begincolumn"`
			EndLine         int    `json:"endline"`
			Description     string `json:"description"`
			Rule            string `json:"rule"`
			RuleSet         string `json:"ruleset"`
			Priority        int    `json:"priority"`
			ExternalInfoURL string `json:"externalInfoUrl"`
		} `json:"violations"`
	} `json:"files"`
	ProcessingErrors []struct {
		Filename string `json:"filename"`
		Message  string `json:"message"`
	} `json:"processingErrors"`
}

// ErrUnknownFile is returned for a file the report says nothing about
var ErrUnknownFile = errors.New("file not in report")

// Report holds the violations of a PMD run, per file. It is read-only once
// loaded and safe for concurrent use.
type Report struct {
	Version    string
	files      []string
	violations map[string][]*violation.Violation
	failures   map[string]error
}

// Parse reads a PMD JSON report
func Parse(r io.Reader) (*Report, error) {
	var doc pmdJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding pmd report: %w", err)
	}

	rep := &Report{
		Version:    doc.PMDVersion,
		violations: map[string][]*violation.Violation{},
		failures:   map[string]error{},
	}
	for _, f := range doc.Files {
		file := normalize(f.Filename)
		rep.add(file)
		for _, pv := range f.Violations {
			// priorities outside 1..5 are kept, the classifier routes them
			v := violation.New(file, pv.Rule, violation.Priority(pv.Priority), pv.BeginLine, pv.EndLine, strings.TrimSpace(pv.Description))
			v.RuleSet = pv.RuleSet
			v.BeginColumn = pv.BeginColumn
			v.ExternalInfoURL = pv.ExternalInfoURL
			rep.violations[file] = append(rep.violations[file], v)
		}
	}
	for _, pe := range doc.ProcessingErrors {
		file := normalize(pe.Filename)
		rep.add(file)
		rep.failures[file] = errors.New(pe.Message)
	}
	sort.Strings(rep.files)
	return rep, nil
}

// Load reads the PMD JSON report at path
func Load(path string) (*Report, error) {
	f, err := os.Open(path) // #nosec
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func (r *Report) add(file string) {
	if _, ok := r.violations[file]; ok {
		return
	}
	if _, ok := r.failures[file]; ok {
		return
	}
	r.files = append(r.files, file)
	r.violations[file] = nil
}

// Files lists the analysed files, including the ones PMD failed on
func (r *Report) Files() []string {
	return append([]string(nil), r.files...)
}

// Analyze returns the violations PMD reported for file, in report order. A
// file PMD could not process returns its processing error.
func (r *Report) Analyze(ctx context.Context, file string) ([]*violation.Violation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file = normalize(file)
	if err, ok := r.failures[file]; ok {
		return nil, err
	}
	vs, ok := r.violations[file]
	if !ok {
		return nil, fmt.Errorf("%s: %w", file, ErrUnknownFile)
	}
	return vs, nil
}

func normalize(file string) string {
	return filepath.Clean(file)
}
