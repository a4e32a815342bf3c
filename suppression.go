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
	"bufio"
	"io"
	"sort"
	"strings"
)

// DefaultReviewPrefix starts a review annotation, e.g.
//
//	@REVIEWED:AvoidInstantiatingObjectsInLoops: by jdoe on 01/05/05
//
// once the line is trimmed. The text up to the next ':' names the rule.
// Sources that can only carry line comments configure "// @REVIEWED:".
const DefaultReviewPrefix = "@REVIEWED:"

const (
	blockCommentStart = "/*"
	blockCommentEnd   = "*/"
	lineComment       = "//"
)

// Suppression exempts the violations of a rule reported at a given line
type Suppression struct {
	RuleName string `json:"rule"`
	Line     int    `json:"line"`
}

// Suppressions is the set of suppressions found in a file
type Suppressions map[Suppression]struct{}

// Contains reports whether violations of rule at line are suppressed
func (s Suppressions) Contains(rule string, line int) bool {
	_, ok := s[Suppression{RuleName: rule, Line: line}]
	return ok
}

// Len returns the number of suppressions
func (s Suppressions) Len() int {
	return len(s)
}

// List returns the suppressions ordered by line then rule name
func (s Suppressions) List() []Suppression {
	list := make([]Suppression, 0, len(s))
	for sup := range s {
		list = append(list, sup)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Line == list[j].Line {
			return list[i].RuleName < list[j].RuleName
		}
		return list[i].Line < list[j].Line
	})
	return list
}

// scanState is the carry-over between two lines of a suppression scan
type scanState struct {
	inBlockComment bool
	pending        []string
	awaitingTarget bool
}

// step consumes one trimmed line and returns the next state along with the
// suppressions resolved on that line.
func (s scanState) step(line string, lineNo int, prefix string) (scanState, []Suppression) {
	switch {
	case strings.HasPrefix(line, blockCommentStart):
		s.inBlockComment = !strings.Contains(line, blockCommentEnd)
		return s, nil
	case s.inBlockComment:
		if strings.Contains(line, blockCommentEnd) {
			s.inBlockComment = false
		}
		return s, nil
	}

	if rule, ok := parseAnnotation(line, prefix); ok {
		s.pending = append(s.pending, rule)
		s.awaitingTarget = true
		return s, nil
	}

	if !s.awaitingTarget || line == "" || strings.HasPrefix(line, lineComment) {
		return s, nil
	}

	resolved := make([]Suppression, 0, len(s.pending))
	for i := len(s.pending) - 1; i >= 0; i-- {
		resolved = append(resolved, Suppression{RuleName: s.pending[i], Line: lineNo})
	}
	s.pending = s.pending[:0]
	s.awaitingTarget = false
	return s, resolved
}

// parseAnnotation extracts the rule name of a review annotation. A prefix
// with no terminating ':' is not an annotation.
func parseAnnotation(line, prefix string) (string, bool) {
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	tail := line[len(prefix):]
	end := strings.IndexByte(tail, ':')
	if end < 0 {
		return "", false
	}
	return tail[:end], true
}

// ScanSuppressions reads the text of a file and returns the review
// annotations it carries, each resolved to the line of code that follows it.
// Annotations inside /* */ blocks are ignored, as are annotations with no
// code line after them. An empty prefix selects DefaultReviewPrefix.
func ScanSuppressions(r io.Reader, prefix string) (Suppressions, error) {
	sups, _, err := scanSuppressions(r, prefix)
	return sups, err
}

// scanSuppressions also reports the number of lines read
func scanSuppressions(r io.Reader, prefix string) (Suppressions, int, error) {
	if prefix == "" {
		prefix = DefaultReviewPrefix
	}

	lines := newLineReader(r)
	sups := make(Suppressions)
	var state scanState
	lineNo := 0
	for {
		line, err := lines.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, lineNo, err
		}
		lineNo++
		var resolved []Suppression
		state, resolved = state.step(strings.TrimSpace(line), lineNo, prefix)
		for _, sup := range resolved {
			sups[sup] = struct{}{}
		}
	}
	return sups, lineNo, nil
}

// lineReader splits a text on "\n", "\r" and "\r\n" with no limit on the
// length of a line.
type lineReader struct {
	r    *bufio.Reader
	line []byte
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

// next returns the following line without its terminator, or io.EOF once the
// text is exhausted. A final line with no terminator is still returned.
func (l *lineReader) next() (string, error) {
	l.line = l.line[:0]
	for {
		b, err := l.r.ReadByte()
		if err != nil {
			if err == io.EOF && len(l.line) > 0 {
				return string(l.line), nil
			}
			return "", err
		}
		switch b {
		case '\n':
			return string(l.line), nil
		case '\r':
			if peek, err := l.r.Peek(1); err == nil && peek[0] == '\n' {
				_, _ = l.r.ReadByte()
			}
			return string(l.line), nil
		}
		l.line = append(l.line, b)
	}
}
