// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/specialistvlad/buildchain/internal/app"
	"github.com/specialistvlad/buildchain/internal/dag"
	"github.com/specialistvlad/buildchain/internal/definition"
	"github.com/specialistvlad/buildchain/internal/model"
	"github.com/specialistvlad/buildchain/internal/orchestrator"
	"github.com/specialistvlad/buildchain/internal/trigger"
)

// Exit codes of the process.
const (
	ExitBuildFailed   = 1
	ExitUsage         = 2
	ExitConfiguration = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usage = `
buildchain - builds a project together with its dependency chain.

Usage:
  buildchain build [options] TRIGGER_URL
  buildchain build [options] --hosted
  buildchain list [options]
  buildchain schema

Arguments:
  TRIGGER_URL
    Pull request (https://github.com/OWNER/REPO/pull/N) or branch
    (https://github.com/OWNER/REPO/tree/BRANCH) URL that triggers the run.

Commands:
  build   Build the chain of the triggering project.
  list    Print every declared project by build precedence.
  schema  Print the JSON schema of definition files.
`

// listFlag collects repeated and comma separated values.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	if len(args) == 0 {
		fmt.Fprint(output, usage)
		return nil, true, nil
	}
	command := app.Command(args[0])
	switch command {
	case app.CommandBuild, app.CommandList, app.CommandSchema:
	case "help", "-h", "-help", "--help":
		fmt.Fprint(output, usage)
		return nil, true, nil
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("unknown command %q", args[0])}
	}

	flagSet := flag.NewFlagSet("buildchain "+string(command), flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, usage)
		fmt.Fprintf(output, "\nOptions of %s:\n", command)
		flagSet.PrintDefaults()
	}

	cfg := app.Config{Command: command}
	var definitions listFlag
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'trace', 'debug', 'info', 'warn', 'error'.")

	if command != app.CommandSchema {
		flagSet.Var(&definitions, "definition", "Definition file, directory or URL. Repeatable, comma separated.")
		flagSet.Var(&definitions, "d", "Definition file, directory or URL (shorthand).")
		flagSet.StringVar(&cfg.Token, "token", os.Getenv("GITHUB_TOKEN"), "Token for remote definitions and git. Defaults to $GITHUB_TOKEN.")
	}

	var flow, policy string
	switch command {
	case app.CommandBuild:
		flagSet.StringVar(&flow, "flow", string(model.FlowFull), "Flow mode. Options: 'single', 'upstream', 'downstream', 'full'.")
		flagSet.StringVar(&policy, "policy", string(orchestrator.PolicyLenient), "Failure policy. Options: 'lenient' or 'strict'.")
		flagSet.IntVar(&cfg.Workers, "workers", 4, "Number of projects built concurrently.")
		flagSet.StringVar(&cfg.WorkDir, "workdir", ".", "Directory holding one checkout per project.")
		flagSet.IntVar(&cfg.HashLength, "hash-length", 7, "Length of resolved commit hashes.")
		flagSet.BoolVar(&cfg.Hosted, "hosted", false, "Read the trigger from the GitHub Actions environment.")
		flagSet.StringVar(&cfg.BaseBranch, "base", "", "Base branch of a pull request trigger.")
		flagSet.StringVar(&cfg.NotifyURL, "notify-url", "", "socket.io server receiving progress events. Empty is disabled.")
		flagSet.StringVar(&cfg.NotifyNamespace, "notify-namespace", "/", "socket.io namespace of progress events.")
		flagSet.IntVar(&cfg.StatusPort, "status-port", 0, "Port for the HTTP status server. 0 is disabled.")
	case app.CommandList:
		flagSet.BoolVar(&cfg.SkipGroup, "skipGroup", false, "Print a flat list without precedence groups.")
		flagSet.StringVar(&cfg.ListFormat, "format", app.FormatText, "Output format. Options: 'text', 'json', 'yaml', 'hcl'.")
	}

	positional, err := parseInterspersed(flagSet, args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	switch {
	case command == app.CommandBuild && len(positional) == 1:
		cfg.TriggerURL = positional[0]
	case len(positional) > 0:
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(positional, " "))}
	}

	cfg.LogFormat = strings.ToLower(*logFormatFlag)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	cfg.LogLevel = strings.ToLower(*logLevelFlag)
	switch cfg.LogLevel {
	case "trace", "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-level: must be 'trace', 'debug', 'info', 'warn', or 'error'"}
	}

	cfg.Definitions = definitions
	cfg.Flow = model.Flow(flow)
	cfg.Policy = orchestrator.Policy(policy)
	cfg.ListFormat = strings.ToLower(cfg.ListFormat)

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "command", string(config.Command))
	return config, false, nil
}

// parseInterspersed parses flags that may follow positional arguments and
// returns the positionals in order.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

// Classify maps an error returned by the App to the process exit code.
func Classify(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	var (
		failed     *app.BuildFailedError
		client     *trigger.ClientError
		unresolved *dag.UnresolvedReferenceError
	)
	switch {
	case errors.As(err, &failed):
		return &ExitError{Code: ExitBuildFailed, Message: err.Error()}
	case errors.As(err, &client):
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	case errors.As(err, &unresolved),
		errors.Is(err, dag.ErrConfiguration),
		errors.Is(err, definition.ErrMalformed),
		errors.Is(err, definition.ErrNotFound),
		errors.Is(err, definition.ErrAmbiguous):
		return &ExitError{Code: ExitConfiguration, Message: err.Error()}
	}
	return &ExitError{Code: ExitBuildFailed, Message: err.Error()}
}
