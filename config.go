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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// Globals are applicable to all rules and used for general
	// configuration settings.
	Globals = "global"
	// ExcludeRulesKey holds the path based rule exclusions
	ExcludeRulesKey = "exclude-rules"
	// MaxViolationsKey is the per-rule setting overriding the global cap.
	// Zero or a negative value lifts the cap for the rule, it never means
	// "accept none"; exclude the rule to drop all of its violations.
	MaxViolationsKey = "max-violations"
)

// GlobalOption defines the name of the global options
type GlobalOption string

const (
	// ViolationsAsErrors reports priority 1 and 2 violations as errors
	ViolationsAsErrors GlobalOption = "violations-as-errors"
	// MaxViolations is the default cap of violations per rule and per file.
	// Zero or a negative value means unbounded.
	MaxViolations GlobalOption = "max-violations"
	// ReviewPrefix overrides the review annotation prefix
	ReviewPrefix GlobalOption = "review-prefix"
	// Charset is the IANA name of the source files encoding
	Charset GlobalOption = "charset"
	// Concurrency is the number of files processed at once
	Concurrency GlobalOption = "concurrency"
	// Debug logs every violation the pipeline drops or keeps
	Debug GlobalOption = "debug"
)

// Config is used to provide configuration and customization to the pipeline
// and to each rule.
type Config map[string]interface{}

// NewConfig initializes a new configuration instance. The configuration data then
// needs to be loaded via c.ReadFrom(strings.NewReader("config data"))
// or from a *os.File.
func NewConfig() Config {
	cfg := make(Config)
	cfg[Globals] = make(map[GlobalOption]string)
	return cfg
}

// LoadConfig reads a configuration file. Files ending in .yaml or .yml are
// parsed as YAML, anything else as JSON.
func LoadConfig(path string) (Config, error) {
	cfg := NewConfig()
	file, err := os.Open(path) // #nosec
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		_, err = cfg.ReadYAMLFrom(file)
	default:
		_, err = cfg.ReadFrom(file)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) keyToGlobalOptions(key string) GlobalOption {
	return GlobalOption(key)
}

func (c Config) convertGlobals() {
	if globals, ok := c[Globals]; ok {
		if settings, ok := globals.(map[string]interface{}); ok {
			validGlobals := map[GlobalOption]string{}
			for k, v := range settings {
				validGlobals[c.keyToGlobalOptions(k)] = fmt.Sprintf("%v", v)
			}
			c[Globals] = validGlobals
		}
	}
}

// ReadFrom implements the io.ReaderFrom interface. This
// should be used with io.Reader to load configuration from
// file or from string etc.
func (c Config) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return int64(len(data)), err
	}
	if err = json.Unmarshal(data, &c); err != nil {
		return int64(len(data)), err
	}
	c.convertGlobals()
	return int64(len(data)), nil
}

// ReadYAMLFrom loads a YAML configuration document
func (c Config) ReadYAMLFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return int64(len(data)), err
	}
	var raw map[string]interface{}
	if err = yaml.Unmarshal(data, &raw); err != nil {
		return int64(len(data)), err
	}
	if raw == nil {
		return int64(len(data)), fmt.Errorf("empty configuration")
	}
	for k, v := range raw {
		c[k] = v
	}
	c.convertGlobals()
	return int64(len(data)), nil
}

// WriteTo implements the io.WriteTo interface. This should
// be used to save or print out the configuration information.
func (c Config) WriteTo(w io.Writer) (int64, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return int64(len(data)), err
	}
	return io.Copy(w, bytes.NewReader(data))
}

// Get returns the configuration section for the supplied key
func (c Config) Get(section string) (interface{}, error) {
	settings, found := c[section]
	if !found {
		return nil, fmt.Errorf("Section %s not in configuration", section)
	}
	return settings, nil
}

// Set section in the configuration
func (c Config) Set(section string, value interface{}) {
	c[section] = value
}

// GetGlobal returns value associated with global configuration option
func (c Config) GetGlobal(option GlobalOption) (string, error) {
	if globals, ok := c[Globals]; ok {
		if settings, ok := globals.(map[GlobalOption]string); ok {
			if value, ok := settings[option]; ok {
				return value, nil
			}
			return "", fmt.Errorf("global setting for %s not found", option)
		}
	}
	return "", fmt.Errorf("no global config options found")
}

// SetGlobal associates a value with a global configuration option
func (c Config) SetGlobal(option GlobalOption, value string) {
	if globals, ok := c[Globals]; ok {
		if settings, ok := globals.(map[GlobalOption]string); ok {
			settings[option] = value
		}
	}
}

// IsGlobalEnabled checks if a global option is enabled
func (c Config) IsGlobalEnabled(option GlobalOption) (bool, error) {
	value, err := c.GetGlobal(option)
	if err != nil {
		return false, err
	}
	return (value == "true" || value == "enabled"), nil
}

// globalInt returns an integer global option or def when unset
func (c Config) globalInt(option GlobalOption, def int) (int, error) {
	value, err := c.GetGlobal(option)
	if err != nil {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def, fmt.Errorf("global option %s: %w", option, err)
	}
	return n, nil
}

// Classifier returns the classifier matching the project settings
func (c Config) Classifier() Classifier {
	enabled, _ := c.IsGlobalEnabled(ViolationsAsErrors)
	return Classifier{ViolationsAsErrors: enabled}
}

// Limits collects the default and per-rule violation caps. A rule section
// carries its own cap under the "max-violations" key.
func (c Config) Limits() (Limits, error) {
	def, err := c.globalInt(MaxViolations, DefaultMaxViolations)
	if err != nil {
		return Limits{}, err
	}
	limits := Limits{Default: def, PerRule: map[string]int{}}
	for section, settings := range c {
		if section == Globals || section == ExcludeRulesKey {
			continue
		}
		value, ok := ruleSetting(settings, MaxViolationsKey)
		if !ok {
			continue
		}
		n, err := toInt(value)
		if err != nil {
			return Limits{}, fmt.Errorf("rule %s: %s: %w", section, MaxViolationsKey, err)
		}
		limits.PerRule[section] = n
	}
	return limits, nil
}

// ReviewPrefix returns the review annotation prefix in use
func (c Config) ReviewPrefix() string {
	if prefix, err := c.GetGlobal(ReviewPrefix); err == nil && prefix != "" {
		return prefix
	}
	return DefaultReviewPrefix
}

// Charset returns the configured source charset
func (c Config) Charset() string {
	if charset, err := c.GetGlobal(Charset); err == nil && charset != "" {
		return charset
	}
	return DefaultCharset
}

// Concurrency returns the number of files to process at once, zero meaning
// one per CPU
func (c Config) Concurrency() (int, error) {
	return c.globalInt(Concurrency, 0)
}

// ExcludeRules returns the path based rule exclusions of the configuration
func (c Config) ExcludeRules() ([]PathExcludeRule, error) {
	section, ok := c[ExcludeRulesKey]
	if !ok {
		return nil, nil
	}
	// the section arrives as generic JSON or YAML values; round trip it
	// through JSON to get the typed form
	data, err := json.Marshal(section)
	if err != nil {
		return nil, err
	}
	var rules []PathExcludeRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("%s: %w", ExcludeRulesKey, err)
	}
	return rules, nil
}

func ruleSetting(settings interface{}, key string) (interface{}, bool) {
	switch s := settings.(type) {
	case map[string]interface{}:
		v, ok := s[key]
		return v, ok
	case map[string]int:
		v, ok := s[key]
		return v, ok
	case map[string]string:
		v, ok := s[key]
		return v, ok
	}
	return nil, false
}

func toInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	}
	return 0, fmt.Errorf("unexpected value %v", value)
}
