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

import "math"

// DefaultMaxViolations caps the violations of a rule in one file when neither
// the rule nor the configuration says otherwise.
const DefaultMaxViolations = 1000

// Limits holds the maximum number of violations per rule and per file
type Limits struct {
	// Default applies to rules missing from PerRule. Zero or less is unbounded.
	Default int
	PerRule map[string]int
}

// DefaultLimits returns limits with only the default cap set
func DefaultLimits() Limits {
	return Limits{Default: DefaultMaxViolations}
}

// MaxFor returns the maximum number of violations accepted for rule
func (l Limits) MaxFor(rule string) int {
	if limit, ok := l.PerRule[rule]; ok {
		return bounded(limit)
	}
	return bounded(l.Default)
}

// bounded turns a configured cap into a TryAccept limit: zero or less lifts
// the cap.
func bounded(limit int) int {
	if limit <= 0 {
		return math.MaxInt
	}
	return limit
}

// Budget counts the accepted violations of each rule during one file pass.
// It must not be shared between passes.
type Budget struct {
	accepted map[string]int
}

// NewBudget returns an empty budget
func NewBudget() *Budget {
	return &Budget{accepted: make(map[string]int)}
}

// TryAccept accepts one more violation of rule if fewer than limit were
// accepted so far. A rejected violation leaves the counter untouched. The
// limit is taken as is; configured caps go through Limits.MaxFor first.
func (b *Budget) TryAccept(rule string, limit int) bool {
	if b.accepted[rule] >= limit {
		return false
	}
	b.accepted[rule]++
	return true
}

// Accepted returns how many violations of rule were accepted
func (b *Budget) Accepted(rule string) int {
	return b.accepted[rule]
}
