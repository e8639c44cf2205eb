// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/buildchain/internal/model"
	"github.com/specialistvlad/buildchain/internal/orchestrator"
)

// Command selects what the App does.
type Command string

const (
	CommandBuild  Command = "build"
	CommandList   Command = "list"
	CommandSchema Command = "schema"
)

// List output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatHCL  = "hcl"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command Command
	// Definitions are files, directories or http(s) URLs of definition files.
	Definitions []string

	// TriggerURL is the pull request or branch URL of a local run.
	TriggerURL string
	// Hosted reads the trigger from the GitHub Actions environment instead.
	Hosted bool
	// BaseBranch overrides the base branch of a pull request trigger.
	BaseBranch string

	Flow       model.Flow
	Policy     orchestrator.Policy
	Workers    int
	WorkDir    string
	HashLength int
	Token      string

	NotifyURL       string
	NotifyNamespace string
	StatusPort      int

	SkipGroup  bool
	ListFormat string

	LogFormat string
	LogLevel  string
}

// NewConfig applies defaults and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Command == "" {
		cfg.Command = CommandBuild
	}
	if cfg.Flow == "" {
		cfg.Flow = model.FlowFull
	}
	if cfg.Policy == "" {
		cfg.Policy = orchestrator.PolicyLenient
	}
	if cfg.Workers == 0 {
		cfg.Workers = 4
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}
	if cfg.HashLength == 0 {
		cfg.HashLength = 7
	}
	if cfg.ListFormat == "" {
		cfg.ListFormat = FormatText
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	switch cfg.Command {
	case CommandSchema:
		return &cfg, nil
	case CommandBuild, CommandList:
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}

	if len(cfg.Definitions) == 0 {
		return nil, errors.New("at least one definition location is required")
	}

	if cfg.Command == CommandList {
		switch cfg.ListFormat {
		case FormatText, FormatJSON, FormatYAML, FormatHCL:
		default:
			return nil, fmt.Errorf("invalid format %q: must be text, json, yaml or hcl", cfg.ListFormat)
		}
		return &cfg, nil
	}

	if cfg.Hosted == (cfg.TriggerURL != "") {
		return nil, errors.New("exactly one of a trigger URL or --hosted is required")
	}
	if _, err := model.ParseFlow(string(cfg.Flow)); err != nil {
		return nil, err
	}
	if _, err := orchestrator.ParsePolicy(string(cfg.Policy)); err != nil {
		return nil, err
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.HashLength < 1 || cfg.HashLength > 40 {
		return nil, fmt.Errorf("hash-length must be between 1 and 40, got %d", cfg.HashLength)
	}
	if cfg.StatusPort < 0 || cfg.StatusPort > 65535 {
		return nil, fmt.Errorf("invalid status-port %d", cfg.StatusPort)
	}
	return &cfg, nil
}
