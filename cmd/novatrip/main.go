// Package main provides the novatrip binary entry point. Novatrip plans
// multi-day travel itineraries with an LLM collaborator, revises them through
// natural-language instructions, and supports single-level undo.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	// Register LLM providers via init()
	_ "github.com/novatripai/novatrip/llm/providers"
)

const (
	Version = "0.1.0"
	appName = "novatrip"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath  string
		logLevel    string
		mockMode    bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "AI travel itinerary planner",
		Long: `Novatrip plans multi-day travel itineraries: give it a destination,
duration, budget, and trip type and it produces a day-by-day plan with
activities, timing, food, costs, and safety notes.

Plans can be revised with natural-language instructions ("add a museum
visit to day 2") and a revision can be undone. Without a model credential
the deterministic mock planner produces offline plans.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(logLevel)
			if metricsAddr != "" {
				go serveMetrics(metricsAddr)
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&mockMode, "mock", false, "Force the deterministic mock planner")
	cmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090) while the command runs")

	cmd.AddCommand(
		planCmd(&configPath, &mockMode),
		modifyCmd(&configPath, &mockMode),
		undoCmd(&configPath),
		showCmd(&configPath),
		listCmd(&configPath),
		deleteCmd(&configPath),
		exportCmd(&configPath),
		versionCmd(),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	}
}

// serveMetrics exposes the default Prometheus registry for the lifetime of
// the command.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Warn("metrics server stopped", "addr", addr, "error", err)
	}
}

func configureLogging(logLevel string) {
	level := slog.LevelWarn
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
