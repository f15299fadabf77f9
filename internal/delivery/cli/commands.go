package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/LavaJover/shvark-price-etl/internal/app/background"
	"github.com/LavaJover/shvark-price-etl/internal/delivery/export"
	"github.com/LavaJover/shvark-price-etl/internal/domain"
	"github.com/LavaJover/shvark-price-etl/internal/usecase"
)

const (
	flagLimit  = "limit"
	flagWindow = "window"
	flagFormat = "format"
	flagOutput = "output"
)

type Handler struct {
	pipeline usecase.PipelineUsecase
	reports  usecase.ReportUsecase
	interval time.Duration
	currency string
	clock    background.Clock
	out      io.Writer
	colors   palette
	log      *slog.Logger
}

type Options struct {
	Interval time.Duration
	// Currency labels converted prices in console output.
	Currency string
	// Clock drives the schedule command; nil means wall-clock time.
	Clock  background.Clock
	Out    io.Writer
	Color  bool
	Logger *slog.Logger
}

func NewHandler(pipeline usecase.PipelineUsecase, reports usecase.ReportUsecase, opts Options) *Handler {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Handler{
		pipeline: pipeline,
		reports:  reports,
		interval: opts.Interval,
		currency: opts.Currency,
		clock:    opts.Clock,
		out:      opts.Out,
		colors:   palette{enabled: opts.Color},
		log:      opts.Logger,
	}
}

func (h *Handler) App() *cli.App {
	return &cli.App{
		Name:      "price-etl",
		Usage:     "fetch, store and report BTC spot prices",
		Writer:    h.out,
		ErrWriter: h.out,
		Commands: []*cli.Command{
			{
				Name:   "fetch",
				Usage:  "run one fetch-transform-store cycle",
				Action: h.fetch,
			},
			{
				Name:   "schedule",
				Usage:  "run the cycle on a fixed interval until interrupted",
				Action: h.schedule,
			},
			{
				Name:  "history",
				Usage: "show the most recent records",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    flagLimit,
						Aliases: []string{"n"},
						Value:   usecase.DefaultHistoryLimit,
						Usage:   "number of records to show",
					},
				},
				Action: h.history,
			},
			{
				Name:  "stats",
				Usage: "show price statistics in USD",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagWindow,
						Value: string(domain.StatsWindowAllTime),
						Usage: "aggregation window: all or 24h",
					},
				},
				Action: h.stats,
			},
			{
				Name:  "export",
				Usage: "write every record to a CSV or JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagFormat,
						Value: export.FormatCSV,
						Usage: "output format: csv or json",
					},
					&cli.StringFlag{
						Name:    flagOutput,
						Aliases: []string{"o"},
						Usage:   "output path (default prices.<format>)",
					},
				},
				Action: h.export,
			},
		},
	}
}

func (h *Handler) fetch(c *cli.Context) error {
	h.log.Info("running command", "command", "fetch")

	report := h.pipeline.RunCycle(c.Context)
	if !report.Succeeded() {
		fmt.Fprintln(h.out, h.colors.paint(colorRed, fmt.Sprintf("Cycle failed at the %s stage: %v", report.Stage, report.Err)))
		return fmt.Errorf("cycle failed: %w", report.Err)
	}

	if report.Rate.Fallback {
		fmt.Fprintln(h.out, h.colors.paint(colorYellow, fmt.Sprintf("Exchange rate unavailable, used fallback %.4f", report.Rate.Value)))
	}
	fmt.Fprintln(h.out, h.colors.paint(colorGreen, h.formatRecord(report.Record)))
	return nil
}

func (h *Handler) schedule(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := background.NewScheduler(h.interval, func(ctx context.Context) {
		h.pipeline.RunCycle(ctx)
	}, h.clock, h.log)

	fmt.Fprintln(h.out, h.colors.paint(colorBlue, fmt.Sprintf("Running every %s. Press Ctrl+C to stop.", h.interval)))
	return scheduler.Start(ctx)
}

func (h *Handler) history(c *cli.Context) error {
	limit := c.Int(flagLimit)
	h.log.Info("running command", "command", "history", "limit", limit)

	records, err := h.reports.History(c.Context, limit)
	if err != nil {
		return err
	}

	fmt.Fprintln(h.out, h.colors.paint(colorBlue, fmt.Sprintf("--- Last %d price records ---", limit)))
	if len(records) == 0 {
		fmt.Fprintln(h.out, h.colors.paint(colorYellow, "No records found."))
		return nil
	}
	for i := len(records) - 1; i >= 0; i-- {
		fmt.Fprintln(h.out, h.formatRecord(records[i]))
	}
	return nil
}

func (h *Handler) stats(c *cli.Context) error {
	window, err := domain.ParseStatsWindow(c.String(flagWindow))
	if err != nil {
		return fmt.Errorf("%w: %q", err, c.String(flagWindow))
	}
	h.log.Info("running command", "command", "stats", "window", string(window))

	stats, err := h.reports.Stats(c.Context, window)
	if errors.Is(err, domain.ErrStatsUnavailable) {
		fmt.Fprintln(h.out, h.colors.paint(colorYellow, "Not enough records to compute statistics."))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(h.out, h.colors.paint(colorBlue, fmt.Sprintf("--- Price statistics (USD, window %s) ---", window)))
	fmt.Fprintf(h.out, "Records: %d\n", stats.Count)
	fmt.Fprintf(h.out, "Period: %s to %s\n", stats.From.Format(domain.TimestampLayout), stats.To.Format(domain.TimestampLayout))
	fmt.Fprintf(h.out, "Mean: %s\n", h.colors.paint(colorGreen, fmt.Sprintf("$%.2f", stats.Mean)))
	fmt.Fprintf(h.out, "Min: %s\n", h.colors.paint(colorYellow, fmt.Sprintf("$%.2f", stats.Min)))
	fmt.Fprintf(h.out, "Max: %s\n", h.colors.paint(colorRed, fmt.Sprintf("$%.2f", stats.Max)))

	variation := fmt.Sprintf("%+.2f%%", stats.VariationPct)
	if stats.VariationPct < 0 {
		variation = h.colors.paint(colorRed, variation)
	} else {
		variation = h.colors.paint(colorGreen, variation)
	}
	fmt.Fprintf(h.out, "Variation: %s\n", variation)
	return nil
}

func (h *Handler) export(c *cli.Context) error {
	format := c.String(flagFormat)
	if format != export.FormatCSV && format != export.FormatJSON {
		return fmt.Errorf("unsupported export format %q", format)
	}
	path := c.String(flagOutput)
	if path == "" {
		path = export.DefaultFilename(format)
	}
	h.log.Info("running command", "command", "export", "format", format, "output", path)

	records, err := h.reports.ExportRecords(c.Context)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		h.log.Warn("no records to export")
		fmt.Fprintln(h.out, h.colors.paint(colorYellow, "No records to export."))
		return nil
	}

	if err := writeExport(path, format, records); err != nil {
		h.log.Error("export failed", "output", path, "error", err)
		return err
	}

	h.log.Info("records exported", "output", path, "count", len(records))
	fmt.Fprintln(h.out, h.colors.paint(colorGreen, fmt.Sprintf("Exported %d records to %s", len(records), path)))
	return nil
}

func writeExport(path, format string, records []*domain.PriceRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.Write(f, format, records); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func (h *Handler) formatRecord(r *domain.PriceRecord) string {
	return fmt.Sprintf("[%s] USD: $%.2f | %s: %.2f", r.FormattedTimestamp(), r.PriceUSD, h.currency, r.PriceReal)
}
