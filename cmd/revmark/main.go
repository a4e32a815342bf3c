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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"

	"github.com/securego/revmark"
	"github.com/securego/revmark/autofix"
	"github.com/securego/revmark/cmd/vflag"
	"github.com/securego/revmark/engine/pmd"
	"github.com/securego/revmark/report"
	"github.com/securego/revmark/store/postgres"
)

const (
	usageText = `
revmark - review aware violation markers

revmark reads the violations of a PMD run, drops the ones a reviewer
annotated in the source, caps each rule per file and reports the rest
as classified markers.

VERSION: %s
GIT TAG: %s
BUILD DATE: %s

USAGE:

	# Report the markers of every file analysed by PMD
	$ pmd check -d src -R rulesets/java/quickstart.xml -f json -r pmd.json
	$ revmark -pmd pmd.json

	# Only some files, saved in SARIF format
	$ revmark -pmd pmd.json -fmt sarif -out results.sarif src/main/java/Foo.java

	# Annotations written as line comments
	$ revmark -pmd pmd.json -prefix "// @REVIEWED:"

	# Keep the markers in PostgreSQL
	$ revmark -pmd pmd.json -db "postgres://localhost/revmark?sslmode=disable"

`
	// -max value keeping the configured maximum
	unsetMax = 0
)

var (
	// PMD JSON report
	flagPMDReport = flag.String("pmd", "", "Path to the PMD report in JSON format")

	// config file
	flagConfig = flag.String("conf", "", "Path to optional config file (JSON, or YAML when ending in .yaml/.yml)")

	// format output
	flagFormat = vflag.NewValidateFlag("text", report.Formats...)

	// output file
	flagOutput = flag.String("out", "", "Set output file for results")

	// log to file or stderr
	flagLogfile = flag.String("log", "", "Log messages to file rather than stderr")

	// quiet
	flagQuiet = flag.Bool("quiet", false, "Only show output when markers are found")

	// debug
	flagDebug = flag.Bool("debug", false, "Log every violation that is dropped or kept")

	// sort the markers by severity
	flagSortMarkers = flag.Bool("sort", true, "Sort markers by severity")

	// report the two highest priorities as errors
	flagViolationsAsErrors = flag.Bool("errors", false, "Report priority 1 and 2 violations as errors")

	// cap per rule and per file
	flagMaxViolations = flag.Int("max", unsetMax, "Maximum violations of a rule per file, negative for no limit (default from config or 1000)")

	// annotation prefix
	flagReviewPrefix = flag.String("prefix", "", "Review annotation prefix (default \""+revmark.DefaultReviewPrefix+"\")")

	// source charset
	flagCharset = flag.String("charset", "", "IANA charset of the source files (default \""+revmark.DefaultCharset+"\")")

	// path based exclusions
	flagExcludeRules = flag.String("exclude-rules", "", "Path based rule exclusions, e.g. \"generated/.*:*;test/.*:SystemPrintln\"")

	// worker pool size
	flagConcurrency = flag.Int("concurrency", 0, "Number of files processed at once (default one per CPU)")

	// marker store
	flagDatabase = flag.String("db", "", "PostgreSQL connection string of the marker store")

	// output colors
	flagNoColor = flag.Bool("no-color", false, "Disable color in the text report")

	// AI autofix
	flagAiAPIProvider = flag.String("ai-api-provider", "", "AI API provider to generate auto fixes to markers. Valid options are: "+autofix.GeminiProvider)
	flagAiAPIKey      = flag.String("ai-api-key", "", "Key to access the AI API")
	flagAiEndpoint    = flag.String("ai-endpoint", "", "Endpoint AI API. This is optional, the default API endpoint will be used when not provided.")

	// skipped files
	flagSkip = newFileList()

	// print version and quit
	flagVersion = flag.Bool("version", false, "Print version and quit with exit code 0")

	logger *log.Logger
)

func init() {
	flag.Var(flagSkip, "skip", "Glob of files to skip, matched against the path and the base name (repeatable)")
	flag.Var(flagFormat, "fmt", "Set output format. Valid options are: json, yaml, csv, junit-xml, text, golint or sarif")
}

// #nosec
func usage() {
	usageText := fmt.Sprintf(usageText, Version, GitTag, BuildDate)
	fmt.Fprintln(os.Stderr, usageText)
	fmt.Fprint(os.Stderr, "OPTIONS:\n\n")
	flag.PrintDefaults()
	fmt.Fprint(os.Stderr, "\n")
}

func loadConfig(configFile string) (revmark.Config, error) {
	config := revmark.NewConfig()
	if configFile != "" {
		var err error
		config, err = revmark.LoadConfig(configFile)
		if err != nil {
			return nil, err
		}
	}
	return config, applyFlags(config)
}

// applyFlags lets the command line override the config file
func applyFlags(config revmark.Config) error {
	if *flagViolationsAsErrors {
		config.SetGlobal(revmark.ViolationsAsErrors, "true")
	}
	if *flagDebug {
		config.SetGlobal(revmark.Debug, "true")
	}
	if *flagMaxViolations != unsetMax {
		config.SetGlobal(revmark.MaxViolations, strconv.Itoa(*flagMaxViolations))
	}
	if *flagReviewPrefix != "" {
		config.SetGlobal(revmark.ReviewPrefix, *flagReviewPrefix)
	}
	if *flagCharset != "" {
		config.SetGlobal(revmark.Charset, *flagCharset)
	}
	if *flagConcurrency > 0 {
		config.SetGlobal(revmark.Concurrency, strconv.Itoa(*flagConcurrency))
	}
	if *flagExcludeRules != "" {
		cliRules, err := revmark.ParseCLIExcludeRules(*flagExcludeRules)
		if err != nil {
			return fmt.Errorf("invalid -exclude-rules: %w", err)
		}
		configRules, err := config.ExcludeRules()
		if err != nil {
			return err
		}
		config.Set(revmark.ExcludeRulesKey, revmark.MergeExcludeRules(configRules, cliRules))
	}
	return nil
}

func openAccumulator(ctx context.Context, dsn string) (revmark.Accumulator, func() error, error) {
	if dsn == "" {
		return revmark.NewMemoryAccumulator(), func() error { return nil }, nil
	}
	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}
	return store, store.Close, nil
}

func saveReport(filename, format string, enableColor bool, rootPaths []string, reportInfo *revmark.ReportInfo) error {
	if filename != "" {
		outfile, err := os.Create(filename) // #nosec
		if err != nil {
			return err
		}
		defer outfile.Close()
		return report.CreateReport(outfile, format, enableColor, rootPaths, reportInfo)
	}
	return report.CreateReport(os.Stdout, format, enableColor, rootPaths, reportInfo)
}

func main() {
	// Makes sure some version information is set
	prepareVersionInfo()

	// Setup usage description
	flag.Usage = usage

	// Parse command line arguments
	flag.Parse()

	if *flagVersion {
		fmt.Printf("Version: %s\nGit tag: %s\nBuild date: %s\n", Version, GitTag, BuildDate)
		os.Exit(0)
	}

	// Ensure a report was specified
	if *flagPMDReport == "" {
		fmt.Fprintf(os.Stderr, "\nError: -pmd REPORT expected\n") // #nosec
		flag.Usage()
		os.Exit(1)
	}

	// Setup logging
	logWriter := io.Writer(os.Stderr)
	var logFile *os.File
	if *flagLogfile != "" {
		var e error
		logFile, e = os.Create(*flagLogfile) // #nosec
		if e != nil {
			flag.Usage()
			log.Fatal(e)
		}
		logWriter = logFile
	}

	if *flagQuiet {
		logger = log.New(io.Discard, "", 0)
	} else {
		logger = log.New(logWriter, "[revmark] ", log.LstdFlags)
	}

	initProfiling(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx)
	stop()
	finishProfiling()

	// Finalize logging
	if logFile != nil {
		logFile.Close() // #nosec
	}
	os.Exit(code)
}

// run returns the exit code of the command
func run(ctx context.Context) int {
	config, err := loadConfig(*flagConfig)
	if err != nil {
		logger.Print(err)
		return 1
	}

	pipeline, err := revmark.NewPipeline(config, logger)
	if err != nil {
		logger.Print(err)
		return 1
	}
	concurrency, err := config.Concurrency()
	if err != nil {
		logger.Print(err)
		return 1
	}

	pmdReport, err := pmd.Load(*flagPMDReport)
	if err != nil {
		logger.Print(err)
		return 1
	}
	files := flag.Args()
	if len(files) == 0 {
		files = pmdReport.Files()
	}
	files = flagSkip.filter(files)
	logger.Printf("Processing %d files of PMD %s report %s", len(files), pmdReport.Version, *flagPMDReport)

	acc, closeAcc, err := openAccumulator(ctx, *flagDatabase)
	if err != nil {
		logger.Print(err)
		return 1
	}
	defer closeAcc() // #nosec

	runner := &revmark.Runner{
		Engine:      pmdReport,
		Pipeline:    pipeline,
		Accumulator: acc,
		Concurrency: concurrency,
	}
	if *flagAiAPIProvider != "" {
		fixer, err := autofix.NewFixer(ctx, *flagAiAPIProvider, *flagAiAPIKey, *flagAiEndpoint)
		if err != nil {
			logger.Print(err)
		} else {
			defer fixer.Close() // #nosec
			runner.BeforeCommit = func(ctx context.Context, res *revmark.FileResult) error {
				return fixer.Fix(ctx, res.Markers)
			}
		}
	}
	reportInfo, err := runner.Run(ctx, files)
	if err != nil {
		logger.Printf("Run interrupted: %v", err)
	}
	reportInfo.WithVersion(Version)

	markersFound := len(reportInfo.Markers) > 0
	// Exit quietly if nothing was found
	if !markersFound && *flagQuiet {
		return 0
	}

	// Sort the markers by severity
	if *flagSortMarkers {
		sortMarkers(reportInfo.Markers)
	}

	rootPaths := []string{}
	if wd, err := os.Getwd(); err == nil {
		rootPaths = append(rootPaths, wd)
	}

	// Create output report
	if err := saveReport(*flagOutput, flagFormat.String(), !*flagNoColor, rootPaths, reportInfo); err != nil {
		logger.Print(err)
		return 1
	}

	// Do we have a marker? If so exit 1
	if markersFound {
		return 1
	}
	return 0
}
