package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/spf13/pflag"

	"fitlog/internal/amqp"
	"fitlog/internal/backend"
	"fitlog/internal/chat"
	"fitlog/internal/chat/telegram"
	"fitlog/internal/cli"
	"fitlog/internal/config"
	"fitlog/internal/core"
	"fitlog/internal/log"
	"fitlog/internal/services"
)

type options struct {
	dryRun  bool
	date    string
	envFile string
	message string
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if err := cli.LoadEnvFile(opts.envFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: load env file: %v\n", err)
		os.Exit(1)
	}

	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext()
	defer stop()

	if err := run(ctx, cfg, opts, logger); err != nil {
		logger.Error("Daily run failed", log.FieldError, err)
		stop()
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("fitlog", pflag.ContinueOnError)
	fs.BoolVar(&opts.dryRun, "dry-run", false, "print the report instead of sending it (overrides DRY_RUN)")
	fs.StringVar(&opts.date, "date", "", "run as if today were this date, YYYY-MM-DD (default: now)")
	fs.StringVar(&opts.envFile, "env-file", "", "load environment from this file (default: .env if present)")
	fs.StringVar(&opts.message, "message", "", "use this text instead of the latest chat message")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `fitlog fills the tracking sheet from the latest chat message and
reports yesterday's values back to the chat.

Usage:
  fitlog [flags]

Flags:
%s`, fs.FlagUsages())
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	if opts.date != "" {
		if _, err := core.ParseDate(opts.date); err != nil {
			return opts, fmt.Errorf("--date: %w", err)
		}
	}
	// An explicit --dry-run wins over DRY_RUN from the environment or env file.
	if fs.Changed("dry-run") {
		os.Setenv("DRY_RUN", fmt.Sprint(opts.dryRun))
	}
	return opts, nil
}

func run(ctx context.Context, cfg *config.Config, opts options, logger *log.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	anchors, err := cfg.LoadAnchors()
	if err != nil {
		return err
	}

	now := time.Now()
	if opts.date != "" {
		d, _ := core.ParseDate(opts.date)
		now = time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	store, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}
	defer store.Close()

	var recOpts []services.ReconcilerOption
	if store.Journal != nil {
		recOpts = append(recOpts, services.WithJournal(store.Journal))
	}
	reconciler, err := services.NewReconciler(store.Store, cfg.DaysPerColumn, logger, recOpts...)
	if err != nil {
		return err
	}

	var tg *telegram.Client
	if cfg.TelegramToken != "" {
		tg, err = telegram.New(cfg.TelegramToken, cfg.TelegramWriteChatID, logger)
		if err != nil {
			return err
		}
	}

	var source chat.MessageSource
	switch {
	case opts.message != "":
		source = chat.StaticSource(opts.message)
	case tg != nil:
		source = tg
	default:
		return errors.New("TELEGRAM_TOKEN is required to read the latest message (or pass --message)")
	}

	sink, closeSink, err := buildSink(cfg, tg, logger)
	if err != nil {
		return err
	}
	defer closeSink()

	daily, err := services.NewDailyRun(services.RunConfig{Anchors: anchors, Location: loc},
		source, sink, reconciler, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting fitlog",
		log.FieldDryRun, cfg.DryRun,
		"backend", cfg.DataBackend,
		"timezone", loc.String())

	_, err = daily.Run(ctx, now)
	return err
}

// buildSink delivers to Telegram and, when configured, AMQP. A dry run
// replaces both with stdout.
func buildSink(cfg *config.Config, tg *telegram.Client, logger *log.Logger) (chat.MessageSink, func(), error) {
	if cfg.DryRun {
		return chat.NewDryRunSink(os.Stdout, logger), func() {}, nil
	}
	if tg == nil {
		return nil, nil, errors.New("TELEGRAM_TOKEN is required unless DRY_RUN is set")
	}

	sinks := chat.Fanout{tg}
	closeFn := func() {}
	if cfg.AMQPURL != "" {
		pub, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize AMQP client: %w", err)
		}
		logger.Info("Publishing report events",
			"exchange", cfg.AMQPExchange,
			"routing_key", cfg.AMQPRoutingKey)
		sinks = append(sinks, pub)
		closeFn = func() { pub.Close() }
	}
	return sinks, closeFn, nil
}
