// Package autofix asks a generative AI service how to fix the violations
// behind markers.
package autofix

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/securego/revmark/marker"
)

const (
	// AIPrompt is filled with the rule name and the violation message
	AIPrompt = `Provide a brief explanation and a solution to fix this static analysis violation
  of the rule %q in Java: %q.
  Answer in markdown format and keep the response limited to 200 words.`

	timeout = 30 * time.Second
)

// GenAIClient defines the interface for the GenAI client
type GenAIClient interface {
	GenerateSolution(ctx context.Context, prompt string) (string, error)
	Close() error
}

type fixKey struct {
	rule    string
	message string
}

// Fixer fills the Autofix field of markers with the answers of an AI
// provider. Markers sharing a rule and a message share one answer. A Fixer is
// safe for concurrent use.
type Fixer struct {
	client GenAIClient
	mu     sync.Mutex
	cache  map[fixKey]string
}

// NewFixer connects to the given AI provider
func NewFixer(ctx context.Context, aiAPIProvider, aiAPIKey, endpoint string) (*Fixer, error) {
	var client GenAIClient
	var err error

	switch aiAPIProvider {
	case GeminiProvider:
		client, err = NewGeminiClient(ctx, aiAPIKey, endpoint)
	default:
		return nil, fmt.Errorf("ai provider %q not supported", aiAPIProvider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing AI client: %w", err)
	}
	return newFixer(client), nil
}

func newFixer(client GenAIClient) *Fixer {
	return &Fixer{client: client, cache: make(map[fixKey]string)}
}

// Fix asks for the solutions of markers that have none yet
func (f *Fixer) Fix(ctx context.Context, markers []*marker.Record) error {
	for _, m := range markers {
		key := fixKey{rule: m.RuleName, message: m.Message}
		if val, ok := f.cached(key); ok {
			m.Autofix = val
			continue
		}

		resp, err := f.ask(ctx, fmt.Sprintf(AIPrompt, m.RuleName, m.Message))
		if err != nil {
			return err
		}

		m.Autofix = resp
		f.mu.Lock()
		f.cache[key] = resp
		f.mu.Unlock()
	}
	return nil
}

func (f *Fixer) cached(key fixKey) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.cache[key]
	return val, ok
}

func (f *Fixer) ask(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := f.client.GenerateSolution(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating autofix: %w", err)
	}
	if resp == "" {
		return "", errors.New("no autofix returned by gemini")
	}
	return resp, nil
}

// Close releases the AI client
func (f *Fixer) Close() error {
	return f.client.Close()
}

// GenerateSolution fills the Autofix field of the markers using the given AI
// provider.
func GenerateSolution(ctx context.Context, aiAPIProvider, aiAPIKey, endpoint string, markers []*marker.Record) error {
	fixer, err := NewFixer(ctx, aiAPIProvider, aiAPIKey, endpoint)
	if err != nil {
		return err
	}
	defer fixer.Close()

	return fixer.Fix(ctx, markers)
}
