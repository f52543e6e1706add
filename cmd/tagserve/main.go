// Copyright 2025 The TagServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main runs the tagserve suggestion server, CLI [DBG] and terminal demo.

tagserve watches text inputs for a trigger character (like # or @) and offers
a short list of matching candidates for the token being typed. Picking one
splices it into the text in place of the token. Editors integrate through a
MessagePack IPC server; the CLI and TUI modes exist for testing.

# Usage

Start the server with default settings:

	tagserve

Use a candidate list and enable debug mode:

	tagserve -dict tags.txt -d

Run the line based CLI or the terminal demo:

	tagserve -c -char @ -min 1
	tagserve -tui -mode lock

# Configuration

Runtime configuration is managed through a TOML file, created with defaults
if missing:

	[trigger]
	char = "#"
	min_chars = 2

	[suggest]
	max_suggest = 5
	mode = "infinite"
	add_char = true
	show_char_in_list = true

	[panel]
	limit_to_parent = true
	row_height = 1.0
	cell_width = 1.0

	[dict]
	path = "tags.txt"
	watch = true

Flags override the file for the current run only, unless -save writes them
back to it.

# Candidate Lists

Lists are read from .txt (one per line), .toml (candidates array or
[[candidate]] tables with display and insert) or .mpk (msgpack array). With
no path the [dict] candidates array is used. In server mode the file is
watched and reloaded on change.

# IPC Protocol

See package server. Each editor field attaches once, then sends its text
changes and key presses; every response carries the panel view-model.

# Command Line Flags

	-version      Show current version
	-config       Path to a config file
	-dict         Candidate list file
	-d            Enable debug mode with detailed logging
	-logfmt       Log format: text, json or logfmt
	-c            Run the CLI instead of the server
	-tui          Run the terminal demo instead of the server
	-char         Trigger character
	-min          Minimum token length, trigger included
	-max          Maximum number of suggestions
	-mode         Navigation mode: lock or infinite
	-reset-config Rewrite the default config file and exit
	-export       Write the loaded candidates to a .mpk list and exit
	-save         Persist the override flags to the config file
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/bastiangx/tagserve/internal/cli"
	"github.com/bastiangx/tagserve/internal/logger"
	"github.com/bastiangx/tagserve/internal/tui"
	"github.com/bastiangx/tagserve/internal/utils"
	"github.com/bastiangx/tagserve/pkg/config"
	"github.com/bastiangx/tagserve/pkg/dictionary"
	"github.com/bastiangx/tagserve/pkg/server"
	"github.com/bastiangx/tagserve/pkg/suggest"
)

const (
	Version = "0.3.0-beta"
	gh      = "https://github.com/bastiangx/tagserve"
)

// sigHandler cancels the returned context on SIGINT/SIGTERM and exits.
func sigHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		cancel()
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
	return ctx, cancel
}

// main only manages the flow between the packages.
func main() {
	ctx, cancel := sigHandler()
	defer cancel()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to config file (default: [UserConfigDir]/tagserve/config.toml)")
	dictPath := flag.String("dict", "", "Candidate list file (.txt, .toml, .mpk)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	logFormat := flag.String("logfmt", "text", "Log format: text, json or logfmt")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	tuiMode := flag.Bool("tui", false, "Run the terminal demo")
	char := flag.String("char", "", "Trigger character")
	minChars := flag.Int("min", 0, "Minimum token length, trigger included")
	maxSuggest := flag.Int("max", 0, "Maximum number of suggestions")
	mode := flag.String("mode", "", "Navigation mode: lock or infinite")
	resetConfig := flag.Bool("reset-config", false, "Rewrite the default config file and exit")
	exportPath := flag.String("export", "", "Write the loaded candidates to a .mpk list and exit")
	saveFlags := flag.Bool("save", false, "Persist -char, -min, -max, -mode and -dict to the config file")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup("warn", *logFormat, *debugMode)

	if *resetConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Print("Config rebuilt", "path", config.GetActiveConfigPath(""))
		return
	}

	appConfig, loadedPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	overrides := setOverrides(char, minChars, maxSuggest, mode, dictPath)
	if *saveFlags {
		target, err := appConfig.UpdateActive(loadedPath, overrides)
		if err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}
		log.Info("Config saved", "path", target)
	} else {
		appConfig.Apply(overrides)
	}
	logger.Setup(appConfig.Log.Level, *logFormat, *debugMode)
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(loadedPath))

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}
	for k, v := range pathResolver.GetRuntimeInfo() {
		log.Debug("runtime", k, v)
	}

	resolvedDict := pathResolver.GetDictPath(appConfig.Dict.Path)
	catalog, err := loadCatalog(resolvedDict, appConfig.Dict.Candidates)
	if err != nil {
		log.Fatalf("Failed to load candidates: %v", err)
	}

	if *exportPath != "" {
		if err := exportCatalog(catalog, *exportPath); err != nil {
			log.Fatalf("Failed to export candidates: %v", err)
		}
		log.Print("Exported candidates", "count", catalog.Len(), "path", *exportPath)
		return
	}

	sessionConfig, err := appConfig.Session(catalog)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	switch {
	case *cliMode:
		log.SetReportTimestamp(false)
		inputHandler, err := cli.NewInputHandler(sessionConfig, os.Stdin, os.Stdout)
		if err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	case *tuiMode:
		// stderr logs would draw over the program
		log.SetLevel(log.ErrorLevel)
		if err := tui.Run(sessionConfig); err != nil {
			log.Fatalf("TUI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(sessionConfig, catalog)
	if resolvedDict != "" && appConfig.Dict.Watch {
		go func() {
			if err := dictionary.Watch(ctx, resolvedDict, srv.SetCatalog); err != nil {
				log.Errorf("Candidate list watcher stopped: %v", err)
			}
		}()
	}

	showStartupInfo(resolvedDict, catalog.Len())

	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setOverrides returns the flags that were set explicitly.
func setOverrides(char *string, minChars, maxSuggest *int, mode, dictPath *string) config.Overrides {
	var o config.Overrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "char":
			o.Char = char
		case "min":
			o.MinChars = minChars
		case "max":
			o.MaxSuggest = maxSuggest
		case "mode":
			o.Mode = mode
		case "dict":
			o.DictPath = dictPath
		}
	})
	return o
}

func loadCatalog(path string, inline []string) (*suggest.Catalog, error) {
	if path == "" {
		log.Debugf("No candidate list set, using %d inline candidates", len(inline))
		return suggest.NewWordCatalog(inline), nil
	}
	return dictionary.Load(path)
}

func exportCatalog(catalog *suggest.Catalog, path string) error {
	data, err := dictionary.EncodeMsgpack(catalog.Candidates())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func printVersion() {
	versionLogger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	versionLogger.SetStyles(styles)

	versionLogger.Print("")
	versionLogger.Print("[ TagServe ] In-text trigger suggestions")
	versionLogger.Print("", "version", Version)
	versionLogger.Print("")
	versionLogger.Print("use -h or --help to see available options")
	versionLogger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dictPath string, candidates int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	if dictPath == "" {
		dictPath = "inline [dict] candidates"
	}
	println("===========")
	println(" TagServe ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("candidates: %d from ( %s )", candidates, dictPath)
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
