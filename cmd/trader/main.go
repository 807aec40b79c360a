// Binary trader runs the polling trading loop against the brokerage API.
// Without --live or --paper it performs a dry run: a single cycle is evaluated
// and the would-be action is reported, but no order leaves the process.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/AlijaY69/Team2-AlgoTrader/internal/broker"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/config"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/execution"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/filter"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/metrics"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/planner"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/risk"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/session"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/strategy"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/trader"
	"github.com/AlijaY69/Team2-AlgoTrader/internal/util"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML configuration")
	live := flag.Bool("live", false, "submit real orders to the brokerage")
	paperMode := flag.Bool("paper", false, "trade against the in-memory paper brokerage")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		boot := util.NewLogger("info")
		boot.Fatal().Err(err).Msg("load config")
	}
	log := util.NewLogger(cfg.App.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	// credentials come from the environment, not the checked-in config file
	_ = godotenv.Load()
	if v := os.Getenv("BROKER_USER_ID"); v != "" {
		cfg.Broker.UserID = v
	}
	if v := os.Getenv("BROKER_PASSWORD"); v != "" {
		cfg.Broker.Password = v
	}

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var venue broker.Broker
	if *paperMode {
		venue = broker.NewPaper(cfg.Broker.PaperCash, log)
		log.Info().Float64("cash", cfg.Broker.PaperCash).Msg("paper brokerage active")
	} else {
		venue = broker.NewClient(broker.Options{
			BaseURL:    cfg.Broker.BaseURL,
			UserID:     cfg.Broker.UserID,
			Password:   cfg.Broker.Password,
			Timeout:    time.Duration(cfg.Broker.TimeoutSecs) * time.Second,
			RetryCount: cfg.Broker.RetryCount,
		}, log)
	}

	strat, err := strategy.Build(cfg.Strategy.Mode, cfg.Trading.Symbol, strategy.Params{
		Short:         cfg.Strategy.Params.Short,
		Long:          cfg.Strategy.Params.Long,
		Interval:      cfg.Strategy.Params.Interval,
		FastInterval:  cfg.Strategy.Params.FastInterval,
		SlowInterval:  cfg.Strategy.Params.SlowInterval,
		Points:        cfg.Strategy.Params.Points,
		GateWindow:    cfg.Strategy.Params.GateWindow,
		GateThreshold: cfg.Strategy.Params.GateThreshold,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build strategy")
	}

	plan := planner.New(
		log,
		filter.VolatilityBand{Multiplier: cfg.Filters.BandMultiplier},
		filter.BookPressure{Levels: cfg.Filters.BookLevels, Threshold: cfg.Filters.PressureThreshold},
		risk.Sizer{
			CashPct:          cfg.Risk.CashPct,
			MaxTradeCap:      cfg.Risk.MaxTradeCap,
			MinQty:           cfg.Risk.MinQty,
			HighVolThreshold: cfg.Risk.HighVolThreshold,
			DerateFactor:     cfg.Risk.DerateFactor,
		},
		risk.Limits{MaxNotionalPerTrade: cfg.Risk.MaxNotionalPerTrade},
		planner.Tunables{
			Cooldown:           cfg.Cooldown(),
			LoosenVolThreshold: cfg.Planner.LoosenVolThreshold,
			PriceDeltaPct:      cfg.Planner.PriceDeltaPct,
			HeldLossFactor:     cfg.Planner.HeldLossFactor,
			MarketVolThreshold: cfg.Planner.MarketVolThreshold,
			LimitOffsetPct:     cfg.Planner.LimitOffsetPct,
		},
	)

	var recorder session.TradeRecorder
	if cfg.Record.TradesPath != "" && (*live || *paperMode) {
		rec, err := session.NewJSONLRecorder(cfg.Record.TradesPath)
		if err != nil {
			log.Fatal().Err(err).Msg("open trade record")
		}
		defer rec.Close()
		recorder = rec
	}

	if *live {
		_ = metrics.Serve(cfg.App.MetricsAddr)
		log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")
	}

	dryRun := !*live && !*paperMode
	ctrl := trader.New(trader.Options{
		Log:          log,
		Broker:       venue,
		Strategy:     strat,
		Planner:      plan,
		Tracker:      execution.NewTracker(log, cfg.StaleLifetime(), cfg.Pending.ReplaceWithMarket),
		Stats:        session.NewStats(time.Now()),
		Recorder:     recorder,
		Symbol:       cfg.Trading.Symbol,
		RefInterval:  cfg.Strategy.Params.Interval,
		BandWindow:   cfg.Filters.BandWindow,
		PollInterval: cfg.PollInterval(),
		DryRun:       dryRun,
	})

	log.Info().
		Str("symbol", cfg.Trading.Symbol).
		Str("strategy", strat.Name()).
		Bool("dry_run", dryRun).
		Msg("trader starting")

	// without a mode flag, evaluate one cycle and report the would-be action
	if dryRun {
		report := ctrl.Step(ctx, time.Now())
		switch {
		case report.Skipped != "":
			log.Info().Str("reason", report.Skipped).Msg("cycle skipped")
		case report.Outcome.Order != nil:
			order := report.Outcome.Order
			log.Info().
				Str("signal", report.Verdict.Signal.String()).
				Str("side", string(order.Side)).
				Str("type", string(order.Type)).
				Int("qty", order.Qty).
				Float64("limit", order.LimitPrice).
				Msg("would submit order")
		default:
			log.Info().
				Str("signal", report.Verdict.Signal.String()).
				Str("reason", report.Outcome.Reason).
				Msg("no order this cycle")
		}
		return
	}

	if err := ctrl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("trading loop failed")
	}
}
