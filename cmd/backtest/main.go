package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/quantfold/hindsight/internal/config"
	"github.com/quantfold/hindsight/internal/logger"
	"github.com/quantfold/hindsight/internal/provider"
	"github.com/quantfold/hindsight/internal/report"
	"github.com/quantfold/hindsight/internal/runner"
	"github.com/quantfold/hindsight/internal/series"
	"github.com/quantfold/hindsight/internal/strategy"
	"github.com/quantfold/hindsight/internal/viz"
)

var (
	dataFile   = flag.String("data", "", "Path to CSV file with historical data")
	symbol     = flag.String("symbol", "", "Trading symbol (downloads from Yahoo when no -data is given)")
	capital    = flag.Float64("capital", 0, "Starting capital")
	commission = flag.Float64("commission", -1, "Commission rate (e.g., 0.001 for 0.1%)")
	startDate  = flag.String("start", "", "Backtest start date (YYYY-MM-DD)")
	endDate    = flag.String("end", "", "Backtest end date (YYYY-MM-DD)")
	lookback   = flag.Int("lookback", 0, "Max bars of history passed to the strategy (0 = all)")

	strategyName = flag.String("strategy", "momentum", "Strategy to run: momentum or ema-cross")

	haltOnOrderError = flag.Bool("halt-on-order-error", false, "Abort the run on the first rejected order")
	showTrades       = flag.Bool("trades", false, "Print every executed trade")
	useTUI           = flag.Bool("tui", false, "Show an interactive progress display")

	generateSample = flag.Bool("generate-sample", false, "Run against generated sample data")
	sampleBars     = flag.Int("sample-bars", 1000, "Number of bars to generate for sample data")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(cfg)

	logger.SetDefault(logger.New(&logger.Config{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
	}))
	applog := logger.Default().Component("backtest")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printBanner()

	src, err := dataSource(cfg)
	if err != nil {
		return err
	}

	bars, err := src.Bars(ctx, cfg.Symbol)
	if err != nil {
		return fmt.Errorf("failed to load data: %w", err)
	}

	s, err := series.New(bars)
	if err != nil {
		return fmt.Errorf("invalid data: %w", err)
	}
	applog.Info("data loaded",
		"symbol", cfg.Symbol,
		"bars", s.Len(),
		"first", mustBarTime(s, 0).Format("2006-01-02"),
		"last", mustBarTime(s, s.LastIndex()).Format("2006-01-02"))

	strat, err := buildStrategy(s)
	if err != nil {
		return err
	}

	r := runner.New(s, strat)
	params := runner.Params{
		StartTime:        cfg.StartDate,
		EndTime:          cfg.EndDate,
		StartingCapital:  cfg.StartingCapital,
		Commission:       cfg.Commission,
		LookbackWindow:   cfg.LookbackWindow,
		HaltOnOrderError: cfg.HaltOnOrderError,
		ShowTrades:       *showTrades,
	}

	startRun := time.Now()
	rep, err := runWithProgress(ctx, r, params)
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}
	applog.Info("backtest finished", "elapsed", time.Since(startRun).Round(time.Millisecond).String())

	fmt.Println(viz.RenderReport(rep))
	if params.ShowTrades {
		fmt.Println(viz.RenderTrades(rep.Trades))
	}

	return nil
}

// applyFlags overrides env configuration with explicitly set flags.
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			cfg.DataFile = *dataFile
		case "symbol":
			cfg.Symbol = *symbol
		case "capital":
			cfg.StartingCapital = decimal.NewFromFloat(*capital)
		case "commission":
			cfg.Commission = decimal.NewFromFloat(*commission)
		case "start":
			if t, err := time.Parse("2006-01-02", *startDate); err == nil {
				cfg.StartDate = t
			}
		case "end":
			if t, err := time.Parse("2006-01-02", *endDate); err == nil {
				cfg.EndDate = t
			}
		case "lookback":
			cfg.LookbackWindow = *lookback
		case "halt-on-order-error":
			cfg.HaltOnOrderError = *haltOnOrderError
		}
	})
}

func dataSource(cfg *config.Config) (provider.Provider, error) {
	switch {
	case *generateSample:
		return provider.NewSampleProvider(time.Now().AddDate(0, -2, 0).Truncate(time.Hour), time.Hour, *sampleBars, 50000), nil
	case cfg.DataFile != "":
		return provider.NewCSVLoader(cfg.DataFile), nil
	case cfg.Symbol != "":
		start := cfg.StartDate
		if start.IsZero() {
			start = time.Now().AddDate(-1, 0, 0)
		}
		end := cfg.EndDate
		if end.IsZero() {
			end = time.Now()
		}
		return provider.NewYahooProvider(start, end), nil
	default:
		return nil, fmt.Errorf("either -data, -symbol, or -generate-sample is required")
	}
}

func buildStrategy(s *series.BarSeries) (runner.Strategy, error) {
	cfg := strategy.DefaultConfig()
	switch *strategyName {
	case "momentum":
		return strategy.NewMomentum(s, cfg), nil
	case "ema-cross":
		return strategy.NewEMACross(s, cfg), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want momentum or ema-cross)", *strategyName)
	}
}

// runWithProgress runs the backtest, optionally behind the interactive
// progress display.
func runWithProgress(ctx context.Context, r *runner.Runner, params runner.Params) (*report.Report, error) {
	if !*useTUI {
		return r.Run(ctx, params)
	}

	prog := tea.NewProgram(viz.NewProgressModel())
	r.SetOnProgress(func(done, total int) {
		prog.Send(viz.ProgressMsg{Done: done, Total: total})
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		rep    *report.Report
		runErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		rep, runErr = r.Run(runCtx, params)
		prog.Send(viz.DoneMsg{})
	}()

	// The display owns the terminal until the run ends or the user
	// aborts.
	if _, teaErr := prog.Run(); teaErr != nil {
		cancel()
		<-done
		return nil, teaErr
	}
	cancel()
	<-done
	return rep, runErr
}

func mustBarTime(s *series.BarSeries, i int) time.Time {
	bar, _ := s.BarAt(i)
	return bar.Timestamp
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════╗
║                                                       ║
║        HINDSIGHT BACKTESTING ENGINE                   ║
║        Bar-by-Bar Strategy Simulator                  ║
║                                                       ║
╚═══════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}
