package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/spdxmatch/corpus"
	"github.com/viant/spdxmatch/expression"
	"github.com/viant/spdxmatch/matcher"
	"github.com/viant/spdxmatch/scanner"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	exitMatch   = 0
	exitNoMatch = 1
	exitError   = 2
)

const usage = `usage: spdxmatch [flags] <command> [arguments]

commands:
  match <id> <file>             compare the whole file with license id
  ids <file>                    list licenses the whole file matches
  within <file>                 list licenses contained in the file
  scan <path>                   report licenses in a file or directory
  equal [-map a=b,...] <a> <b>  compare two license expressions

flags:
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

type app struct {
	fs      afs.Service
	stdout  io.Writer
	logger  *zap.Logger
	service *matcher.Service
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("spdxmatch", flag.ContinueOnError)
	flags.SetOutput(stderr)
	corpusURL := flags.String("corpus", os.Getenv("SPDXMATCH_CORPUS"), "license corpus manifest URL")
	configURL := flags.String("config", "", "matcher config YAML URL")
	verbose := flags.Bool("v", false, "debug logging")
	flags.Usage = func() {
		fmt.Fprint(stderr, usage)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return exitError
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return exitError
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(stderr, "failed to create logger: %v\n", err)
		return exitError
	}
	defer func() { _ = logger.Sync() }()

	a := &app{fs: afs.New(), stdout: stdout, logger: logger}
	command, params := flags.Arg(0), flags.Args()[1:]
	var matched bool
	if command == "equal" {
		matched, err = a.equal(params)
	} else {
		if err = a.init(ctx, *corpusURL, *configURL); err == nil {
			matched, err = a.execute(ctx, command, params)
		}
	}
	if err != nil {
		fmt.Fprintf(stderr, "spdxmatch: %v\n", err)
		return exitError
	}
	if matched {
		return exitMatch
	}
	return exitNoMatch
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func (a *app) init(ctx context.Context, corpusURL, configURL string) error {
	if corpusURL == "" {
		return errors.New("corpus manifest is required, use -corpus or SPDXMATCH_CORPUS")
	}
	config := matcher.DefaultConfig()
	if configURL != "" {
		data, err := a.fs.DownloadWithURL(ctx, configURL)
		if err != nil {
			return fmt.Errorf("failed to load config %v: %w", configURL, err)
		}
		if err = yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("invalid config %v: %w", configURL, err)
		}
	}
	licenses, err := corpus.NewLoader(corpus.WithFS(a.fs), corpus.WithLoaderLogger(a.logger)).Load(ctx, corpusURL)
	if err != nil {
		return err
	}
	a.service = matcher.New(licenses, nil, matcher.WithConfig(config), matcher.WithLogger(a.logger))
	return nil
}

func (a *app) execute(ctx context.Context, command string, params []string) (bool, error) {
	switch command {
	case "match":
		if len(params) != 2 {
			return false, fmt.Errorf("match expects <id> <file>")
		}
		text, err := a.read(ctx, params[1])
		if err != nil {
			return false, err
		}
		result, err := a.service.IsTextStandardLicense(params[0], text)
		if err != nil {
			return false, err
		}
		return result.Matched(), a.print(result)
	case "ids", "within":
		if len(params) != 1 {
			return false, fmt.Errorf("%v expects <file>", command)
		}
		text, err := a.read(ctx, params[0])
		if err != nil {
			return false, err
		}
		find := a.service.MatchingStandardLicenseIDs
		if command == "within" {
			find = a.service.MatchingStandardLicenseIDsWithinText
		}
		ids, err := find(ctx, text)
		if err != nil {
			return false, err
		}
		for _, id := range ids {
			fmt.Fprintln(a.stdout, id)
		}
		return len(ids) > 0, nil
	case "scan":
		if len(params) != 1 {
			return false, fmt.Errorf("scan expects <path>")
		}
		return a.scan(ctx, params[0])
	}
	return false, fmt.Errorf("unknown command: %v", command)
}

func (a *app) scan(ctx context.Context, location string) (bool, error) {
	s := scanner.New(a.service, scanner.WithFS(a.fs), scanner.WithLogger(a.logger))
	object, err := a.fs.Object(ctx, location)
	if err != nil {
		return false, fmt.Errorf("failed to locate %v: %w", location, err)
	}
	var reports []*scanner.Report
	if object.IsDir() {
		if reports, err = s.ScanDir(ctx, location); err != nil {
			return false, err
		}
	} else {
		report, err := s.ScanURL(ctx, location)
		if err != nil {
			return false, err
		}
		reports = append(reports, report)
	}
	var found []*scanner.Report
	for _, report := range reports {
		if !report.Empty() {
			found = append(found, report)
		}
	}
	return len(found) > 0, a.print(found)
}

func (a *app) equal(params []string) (bool, error) {
	flags := flag.NewFlagSet("equal", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	mapping := flags.String("map", "", "comma separated LicenseRef translation, a=b")
	if err := flags.Parse(params); err != nil {
		return false, err
	}
	if flags.NArg() != 2 {
		return false, fmt.Errorf("equal expects <expression> <expression>")
	}
	translation, err := parseTranslation(*mapping)
	if err != nil {
		return false, err
	}
	left, err := expression.Parse(flags.Arg(0))
	if err != nil {
		return false, err
	}
	right, err := expression.Parse(flags.Arg(1))
	if err != nil {
		return false, err
	}
	equal, err := expression.Equal(left, right, translation)
	if err != nil {
		return false, err
	}
	fmt.Fprintln(a.stdout, equal)
	return equal, nil
}

func parseTranslation(mapping string) (expression.Translation, error) {
	result := expression.Translation{}
	if strings.TrimSpace(mapping) == "" {
		return result, nil
	}
	for _, pair := range strings.Split(mapping, ",") {
		from, to, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || from == "" || to == "" {
			return nil, fmt.Errorf("invalid translation %q, expected a=b", pair)
		}
		result[from] = to
	}
	return result, nil
}

func (a *app) read(ctx context.Context, location string) (string, error) {
	data, err := a.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return "", fmt.Errorf("failed to read %v: %w", location, err)
	}
	return string(data), nil
}

func (a *app) print(value interface{}) error {
	encoder := yaml.NewEncoder(a.stdout)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return err
	}
	return encoder.Close()
}
