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
	"sort"
	"sync"

	"github.com/securego/revmark/marker"
)

// Accumulator receives the markers of every processed file. Replace must
// swap the whole set of a file at once; it is called concurrently for
// different files.
type Accumulator interface {
	Replace(file string, records []*marker.Record) error
}

// MemoryAccumulator keeps the markers of each file in memory
type MemoryAccumulator struct {
	mu    sync.RWMutex
	files map[string][]*marker.Record
}

// NewMemoryAccumulator creates an empty accumulator
func NewMemoryAccumulator() *MemoryAccumulator {
	return &MemoryAccumulator{files: make(map[string][]*marker.Record)}
}

// Replace stores the markers of file, dropping the previous ones
func (a *MemoryAccumulator) Replace(file string, records []*marker.Record) error {
	stored := make([]*marker.Record, len(records))
	copy(stored, records)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.files[file] = stored
	return nil
}

// Get returns the markers stored for file
func (a *MemoryAccumulator) Get(file string) ([]*marker.Record, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	records, ok := a.files[file]
	return records, ok
}

// Files returns the sorted names of the files holding an entry
func (a *MemoryAccumulator) Files() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	files := make([]string, 0, len(a.files))
	for file := range a.files {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}

// Markers returns every stored marker, grouped by file
func (a *MemoryAccumulator) Markers() []*marker.Record {
	var all []*marker.Record
	for _, file := range a.Files() {
		records, _ := a.Get(file)
		all = append(all, records...)
	}
	return all
}
