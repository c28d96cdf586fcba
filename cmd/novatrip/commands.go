package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/spf13/cobra"

	"github.com/novatripai/novatrip/config"
	"github.com/novatripai/novatrip/export"
	"github.com/novatripai/novatrip/itinerary"
	"github.com/novatripai/novatrip/llm"
	"github.com/novatripai/novatrip/planner"
	"github.com/novatripai/novatrip/storage"
)

// app bundles everything a command needs after wiring. Close releases the
// NATS connection.
type app struct {
	cfg     *config.Config
	service *planner.Service
	store   *storage.Store
	nc      *nats.Conn
}

func (a *app) Close() {
	if a.nc != nil {
		a.nc.Close()
	}
}

// buildApp loads config, connects to NATS, and assembles the planning
// service. With mock set (or no credential present) the collaborator is
// omitted and the deterministic mock planner serves every request.
func buildApp(ctx context.Context, configPath string, mock bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	nc, err := nats.Connect(cfg.NATS.URL,
		nats.Name("novatrip"),
		nats.Timeout(10*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", cfg.NATS.URL, err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	store, err := storage.NewStore(ctx, js)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	var completer llm.Completer
	if !mock {
		retry := llm.DefaultRetryConfig()
		retry.MaxAttempts = cfg.Model.MaxRetries
		completer = llm.NewClient(llm.EndpointConfig{
			Provider:  cfg.Model.Provider,
			URL:       cfg.Model.Endpoint,
			Model:     cfg.Model.Model,
			APIKeyEnv: cfg.Model.APIKeyEnv,
		},
			llm.WithTimeout(cfg.Model.Timeout),
			llm.WithRetryConfig(retry),
			llm.WithLogger(slog.Default()),
		)
	}

	pcfg := planner.Config{
		UtilizationFloor:     cfg.Planner.UtilizationFloor,
		RegenerationAttempts: cfg.Planner.RegenerationAttempts,
		Temperature:          cfg.Model.Temperature,
		MaxTokens:            cfg.Model.MaxTokens,
	}

	gen := planner.NewGenerator(completer, pcfg, planner.WithGeneratorLogger(slog.Default()))
	mod := planner.NewModifier(completer, pcfg, planner.WithModifierLogger(slog.Default()))
	svc := planner.NewService(store, gen, mod, slog.Default())

	return &app{cfg: cfg, service: svc, store: store, nc: nc}, nil
}

func listCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored trips",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), *configPath, true)
			if err != nil {
				return err
			}
			defer a.Close()

			trips, err := a.store.ListTrips(cmd.Context())
			if err != nil {
				return err
			}
			if len(trips) == 0 {
				fmt.Println("No trips stored.")
				return nil
			}
			for _, trip := range trips {
				fmt.Printf("%s  %s, %d days, %s (%s)\n",
					trip.ID, trip.Params.Destination, trip.Params.Days,
					trip.Params.Budget.String(), trip.Params.TripType)
			}
			return nil
		},
	}
}

func deleteCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trip-id>",
		Short: "Delete a trip, its itinerary, and any snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), *configPath, true)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.DeleteTrip(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted trip %s\n", args[0])
			return nil
		},
	}
}

func planCmd(configPath *string, mock *bool) *cobra.Command {
	var (
		destination string
		days        int
		budgetStr   string
		tripType    string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a new itinerary",
		Long: `Generate a day-by-day itinerary for a destination, duration, budget,
and trip type. The trip ID printed at the end addresses later modify,
undo, show, and export commands.`,
		Example: `  novatrip plan --destination "Paris" --days 3 --budget "30000 INR" --type cultural`,
		RunE: func(cmd *cobra.Command, args []string) error {
			budget, err := itinerary.ParseBudget(budgetStr)
			if err != nil {
				return err
			}
			params := itinerary.TripParameters{
				Destination: destination,
				Days:        days,
				Budget:      budget,
				TripType:    tripType,
			}

			a, err := buildApp(cmd.Context(), *configPath, *mock)
			if err != nil {
				return err
			}
			defer a.Close()

			trip, it, warnings, err := a.service.PlanTrip(cmd.Context(), params)
			if err != nil {
				return err
			}

			fmt.Println(export.Text(it, params))
			printWarnings(warnings)
			fmt.Printf("\nTrip ID: %s\n", trip.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&destination, "destination", "d", "", "Destination city or region (required)")
	cmd.Flags().IntVarP(&days, "days", "n", 3, "Trip duration in days")
	cmd.Flags().StringVarP(&budgetStr, "budget", "b", "", "Total budget, e.g. \"30000 INR\" (required)")
	cmd.Flags().StringVarP(&tripType, "type", "t", "cultural", "Trip type (adventure, cultural, relaxation)")
	_ = cmd.MarkFlagRequired("destination")
	_ = cmd.MarkFlagRequired("budget")

	return cmd
}

func modifyCmd(configPath *string, mock *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modify <trip-id> <instruction>",
		Short: "Revise an itinerary with a natural-language instruction",
		Example: `  novatrip modify 7f3a... "add a museum visit to day 2"
  novatrip modify 7f3a... "remove the boat tour from day 1"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tripID := args[0]
			instruction := strings.Join(args[1:], " ")

			a, err := buildApp(cmd.Context(), *configPath, *mock)
			if err != nil {
				return err
			}
			defer a.Close()

			it, warnings, err := a.service.Modify(cmd.Context(), tripID, instruction)
			if err != nil {
				return err
			}

			trip, _, err := a.service.Get(cmd.Context(), tripID)
			if err != nil {
				return err
			}
			fmt.Println(export.Text(it, trip.Params))
			printWarnings(warnings)
			return nil
		},
	}
	return cmd
}

func undoCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <trip-id>",
		Short: "Revert the most recent modification",
		Long: `Revert the most recent accepted modification. One level of history is
kept: a second undo without an intervening modification fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), *configPath, true)
			if err != nil {
				return err
			}
			defer a.Close()

			it, err := a.service.Undo(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			trip, _, err := a.service.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println("Restored previous itinerary.")
			fmt.Println(export.Text(it, trip.Params))
			return nil
		},
	}
}

func showCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <trip-id>",
		Short: "Display a stored itinerary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), *configPath, true)
			if err != nil {
				return err
			}
			defer a.Close()

			trip, it, err := a.service.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if it == nil {
				return fmt.Errorf("trip %s has no itinerary", args[0])
			}
			fmt.Println(export.Text(*it, trip.Params))
			return nil
		},
	}
}

func exportCmd(configPath *string) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:     "export <trip-id>",
		Short:   "Export an itinerary as PDF or plain text",
		Example: `  novatrip export 7f3a... --format pdf --output paris.pdf`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), *configPath, true)
			if err != nil {
				return err
			}
			defer a.Close()

			trip, it, err := a.service.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if it == nil {
				return fmt.Errorf("trip %s has no itinerary", args[0])
			}

			if output == "" {
				ext := "txt"
				if format == "pdf" {
					ext = "pdf"
				}
				output = fmt.Sprintf("itinerary-%s.%s", trip.ID, ext)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer f.Close()

			switch format {
			case "pdf":
				if err := export.PDF(f, *it, trip.Params); err != nil {
					return err
				}
			case "text", "txt":
				if _, err := f.WriteString(export.Text(*it, trip.Params)); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
			default:
				return fmt.Errorf("unknown format %q (want pdf or text)", format)
			}

			fmt.Printf("Exported %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "Export format (pdf, text)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default itinerary-<id>.<ext>)")

	return cmd
}

func printWarnings(warnings []itinerary.Warning) {
	for _, w := range warnings {
		if w.Day > 0 {
			fmt.Fprintf(os.Stderr, "warning: day %d: %s (%s)\n", w.Day, w.Message, w.Code)
		} else {
			fmt.Fprintf(os.Stderr, "warning: %s (%s)\n", w.Message, w.Code)
		}
	}
}
