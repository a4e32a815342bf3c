package testutils

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/securego/revmark/violation"
)

// MockEngine serves canned violations per file and records what was asked
type MockEngine struct {
	mu         sync.Mutex
	Violations map[string][]*violation.Violation
	Failures   map[string]error
	Analyzed   []string
	// Hook runs before each analysis when set
	Hook func(file string)
}

// NewMockEngine creates an engine with no violations
func NewMockEngine() *MockEngine {
	return &MockEngine{
		Violations: make(map[string][]*violation.Violation),
		Failures:   make(map[string]error),
	}
}

// Add registers a violation of rule at line for file
func (e *MockEngine) Add(file, rule string, priority violation.Priority, line int) *MockEngine {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := violation.New(file, rule, priority, line, line, fmt.Sprintf("%s violated", rule))
	e.Violations[file] = append(e.Violations[file], v)
	return e
}

// Fail makes the analysis of file return err
func (e *MockEngine) Fail(file string, err error) *MockEngine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Failures[file] = err
	return e
}

// Analyze implements revmark.Engine
func (e *MockEngine) Analyze(ctx context.Context, file string) ([]*violation.Violation, error) {
	if e.Hook != nil {
		e.Hook(file)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Analyzed = append(e.Analyzed, file)
	if err := e.Failures[file]; err != nil {
		return nil, err
	}
	return e.Violations[file], nil
}

// AnalyzedFiles returns a copy of the files analyzed so far
func (e *MockEngine) AnalyzedFiles() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.Analyzed...)
}

// Sources is an in-memory set of file texts
type Sources map[string]string

// Open implements revmark.SourceOpener
func (s Sources) Open(file string) (io.ReadCloser, error) {
	text, ok := s[file]
	if !ok {
		return nil, fmt.Errorf("open %s: no such file", file)
	}
	return io.NopCloser(strings.NewReader(text)), nil
}
