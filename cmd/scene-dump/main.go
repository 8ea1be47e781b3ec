package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mr1hm/go-hazard-map/internal/api"
	"github.com/mr1hm/go-hazard-map/internal/config"
	"github.com/mr1hm/go-hazard-map/internal/ingestion"
	"github.com/mr1hm/go-hazard-map/internal/logging"
	"github.com/mr1hm/go-hazard-map/internal/models"
	"github.com/mr1hm/go-hazard-map/internal/observability"
	"github.com/mr1hm/go-hazard-map/internal/scene"
)

type Options struct {
	Snapshot     string   `long:"snapshot" description:"Compose from a saved snapshot file instead of fetching"`
	SaveSnapshot string   `long:"save-snapshot" description:"Write the snapshot used for the scene to this file"`
	Sensors      []string `long:"sensors" description:"Enabled sensor categories (seismic, river, met). All if omitted, none if empty"`
	Layers       []string `long:"layers" description:"Enabled hazard layers (faults, watersheds). All if omitted, none if empty"`
	Format       string   `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" choice:"geojson" default:"json"`
	Output       string   `short:"o" long:"out" description:"Output file path. Writes to stdout if empty"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logging.SetupWriter(os.Stderr, cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := io.Writer(os.Stdout)
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			logging.Fatalf("Error creating output file: %v", err)
		}
		defer f.Close()
		out = f
	}

	if err := run(ctx, opts, cfg, out); err != nil {
		logging.Fatalf("scene-dump failed: %v", err)
	}
}

func run(ctx context.Context, opts Options, cfg *config.Config, out io.Writer) error {
	vis, err := visibility(opts)
	if err != nil {
		return err
	}

	snapshot, err := loadSnapshot(ctx, opts, cfg)
	if err != nil {
		return err
	}

	if opts.SaveSnapshot != "" {
		if err := saveSnapshot(opts.SaveSnapshot, snapshot); err != nil {
			return err
		}
		slog.Info("snapshot saved", "path", opts.SaveSnapshot)
	}

	s := scene.NewComposer(cfg.Map).Compose(snapshot, vis)
	slog.Info("scene composed", "layers", len(s.Layers), "available", snapshot.AvailableCategories())

	var data []byte
	switch opts.Format {
	case "yaml":
		data, err = yaml.Marshal(s)
	case "geojson":
		data, err = json.MarshalIndent(api.ToGeoJSON(s), "", "  ")
	default:
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("error encoding scene: %w", err)
	}

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("error writing scene: %w", err)
	}
	if opts.Format != "yaml" {
		_, err = io.WriteString(out, "\n")
	}
	return err
}

// visibility treats an omitted flag as "all of the group".
func visibility(opts Options) (models.LayerVisibility, error) {
	sensors := models.GroupCategories(models.GroupSensors)
	if opts.Sensors != nil {
		parsed, err := models.ParseGroup(models.GroupSensors, opts.Sensors)
		if err != nil {
			return models.LayerVisibility{}, fmt.Errorf("invalid --sensors: %w", err)
		}
		sensors = parsed
	}

	layers := models.GroupCategories(models.GroupLayers)
	if opts.Layers != nil {
		parsed, err := models.ParseGroup(models.GroupLayers, opts.Layers)
		if err != nil {
			return models.LayerVisibility{}, fmt.Errorf("invalid --layers: %w", err)
		}
		layers = parsed
	}

	return models.NewVisibility(sensors, layers), nil
}

func loadSnapshot(ctx context.Context, opts Options, cfg *config.Config) (*models.DataSnapshot, error) {
	if opts.Snapshot != "" {
		f, err := os.Open(opts.Snapshot)
		if err != nil {
			return nil, fmt.Errorf("error opening snapshot: %w", err)
		}
		defer f.Close()
		return models.DecodeSnapshot(f)
	}

	fetcher := ingestion.NewHTTPFetcher(cfg.Source.FetchTimeout, cfg.Source.RetryMax)
	aggregator := ingestion.NewAggregator(cfg, fetcher, observability.NewMetrics())
	return aggregator.Aggregate(ctx), nil
}

func saveSnapshot(path string, snapshot *models.DataSnapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing snapshot: %w", err)
	}
	return nil
}
