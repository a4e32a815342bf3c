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
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrIO is returned when the text of a file cannot be read or decoded
	ErrIO = errors.New("io failure")
	// ErrEngine is returned when the analysis engine failed on a file
	ErrEngine = errors.New("engine failure")
)

// FileError reports a failure to process a single file. It unwraps to the
// kind (ErrIO or ErrEngine) and to the underlying cause.
type FileError struct {
	File string
	Kind error
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.File, e.Kind, e.Err)
}

// Unwrap returns both the kind and the cause
func (e *FileError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func ioFailure(file string, err error) error {
	return &FileError{File: file, Kind: ErrIO, Err: err}
}

func engineFailure(file string, err error) error {
	return &FileError{File: file, Kind: ErrEngine, Err: err}
}

// Error is used when a file could not be processed
type Error struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Err    string `json:"error"`
}

// NewError creates Error object
func NewError(line, column int, err string) *Error {
	return &Error{
		Line:   line,
		Column: column,
		Err:    err,
	}
}

// sortErrors sorts the file errors by line
func sortErrors(allErrors map[string][]Error) {
	for _, errs := range allErrors {
		sort.Slice(errs, func(i, j int) bool {
			if errs[i].Line == errs[j].Line {
				return errs[i].Column <= errs[j].Column
			}
			return errs[i].Line < errs[j].Line
		})
	}
}
