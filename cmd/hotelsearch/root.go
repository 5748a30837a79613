package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hotel_attractions/internal/adapters/observability"
	"hotel_attractions/internal/app"
	"hotel_attractions/internal/shared"
	"hotel_attractions/internal/storage/memory"
)

type outputs struct {
	hotels       string
	attractions  string
	descriptions string
	interactive  bool
}

func newRootCmd(cfg shared.Config) *cobra.Command {
	var out outputs
	cmd := &cobra.Command{
		Use:   "hotelsearch --hotels <file> [--html <dir>] [--radius <miles>]",
		Short: "hotelsearch loads a hotel catalog, enriches it with nearby attractions and descriptions, and answers lookups.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg, out, cmd.InOrStdin(), cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	f := cmd.Flags()
	f.StringVar(&cfg.HotelsFile, "hotels", cfg.HotelsFile, "hotels JSON file")
	f.StringVar(&cfg.HTMLDir, "html", cfg.HTMLDir, "directory holding h{id}.html pages")
	f.Float64Var(&cfg.RadiusMiles, "radius", cfg.RadiusMiles, "attraction search radius in miles")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent attraction requests")
	f.StringVar(&out.hotels, "output", "", "write all hotels to this file")
	f.StringVar(&out.attractions, "attractions-output", "", "write all attractions to this file")
	f.StringVar(&out.descriptions, "descriptions-output", "", "write all descriptions to this file")
	f.BoolVar(&out.interactive, "interactive", false, "read find/findAttraction/findDescriptions commands from stdin")
	return cmd
}

func run(ctx context.Context, cfg shared.Config, out outputs, stdin io.Reader, stdout io.Writer) error {
	hotels, err := app.LoadHotelsFile(cfg.HotelsFile)
	if err != nil {
		return fmt.Errorf("load hotels: %w", err)
	}
	store := memory.New()
	n := app.AddHotels(store, hotels)
	observability.StoreHotels.Set(float64(store.Len()))
	log.Info().Int("read", len(hotels)).Int("stored", n).Str("file", cfg.HotelsFile).Msg("hotels loaded")

	cache, closeCache := app.CacheFromConfig(ctx, cfg)
	defer closeCache()

	svc := app.NewEnrichmentService(store, app.PlacesFromConfig(cfg), cache, cfg.CacheTTL, cfg.Workers)
	if err := svc.Enrich(ctx, cfg.RadiusMiles, cfg.HTMLDir); err != nil {
		return err
	}

	q := app.NewLookupService(store)
	for _, o := range []struct {
		path  string
		print func(io.Writer) error
	}{
		{out.hotels, q.PrintHotels},
		{out.attractions, q.PrintAttractions},
		{out.descriptions, q.PrintDescriptions},
	} {
		if o.path == "" {
			continue
		}
		if err := writeFile(o.path, o.print); err != nil {
			return err
		}
		log.Info().Str("file", o.path).Msg("output written")
	}

	if out.interactive {
		return repl(ctx, q, stdin, stdout)
	}
	return nil
}

func writeFile(path string, print func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := print(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
