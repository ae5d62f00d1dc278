// Command escrow-admin operates an escrow settlement ledger from the
// command line: seeding the platform configuration, walking contracts
// through their lifecycle, and inspecting the custody audit trail.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gignova/escrow/pkg/audit"
	"github.com/gignova/escrow/pkg/config"
	"github.com/gignova/escrow/pkg/core"
	"github.com/gignova/escrow/pkg/engine"
	"github.com/gignova/escrow/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "escrow-admin",
		Usage: "operate the escrow settlement ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to the YAML config file",
				Value: "escrow.yaml",
			},
			&cli.StringFlag{
				Name:  "env",
				Usage: "path to a .env file loaded before the config",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:  "as",
				Usage: "caller identity for the operation",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "create tables and seed the platform configuration",
				Action: initAction,
			},
			{
				Name:  "create",
				Usage: "fund a new job contract",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "job", Usage: "external job reference", Required: true},
					&cli.StringFlag{Name: "freelancer", Usage: "freelancer identity", Required: true},
					&cli.StringFlag{Name: "content-ref", Usage: "content reference for the deliverables"},
					&cli.IntFlag{Name: "amount", Usage: "amount in the smallest currency unit", Required: true},
				},
				Action: createAction,
			},
			{
				Name:      "complete",
				Usage:     "mark a job as completed",
				ArgsUsage: "<contract-id>",
				Action:    completeAction,
			},
			{
				Name:      "release",
				Usage:     "release payment for a completed job",
				ArgsUsage: "<contract-id>",
				Action:    releaseAction,
			},
			{
				Name:      "dispute",
				Usage:     "open a dispute on a contract",
				ArgsUsage: "<contract-id>",
				Action:    disputeAction,
			},
			{
				Name:      "resolve",
				Usage:     "resolve a dispute by splitting custodied funds",
				ArgsUsage: "<contract-id>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "client-share", Usage: "client share in basis points (0-10000)", Required: true},
				},
				Action: resolveAction,
			},
			{
				Name:  "set-fee",
				Usage: "set the platform fee rate",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "bps", Usage: "fee in basis points (0-1000)", Required: true},
				},
				Action: setFeeAction,
			},
			{
				Name:      "show",
				Usage:     "show a contract with its custody balance and transfers",
				ArgsUsage: "<contract-id>",
				Action:    showAction,
			},
			{
				Name:  "events",
				Usage: "print the committed event log",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "contract", Usage: "filter by contract id"},
					&cli.IntFlag{Name: "limit", Usage: "maximum events to print"},
				},
				Action: eventsAction,
			},
			{
				Name:   "audit",
				Usage:  "run the custody invariant sweep once",
				Action: auditAction,
			},
		},
	}
}

// setup loads the environment and config, opens the database, and builds
// the engine. Migrations run on every invocation; they are idempotent.
func setup(cmd *cli.Command) (*engine.Engine, core.Store, *config.Config, error) {
	// A missing .env is fine
	_ = godotenv.Load(cmd.String("env"))

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	initLogger(cfg.Log)

	db, err := gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}

	store := storage.NewGormStore(db)
	if err := store.Migrate(context.Background()); err != nil {
		return nil, nil, nil, fmt.Errorf("migrate: %w", err)
	}

	return engine.New(store), store, cfg, nil
}

func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func contractArg(cmd *cli.Command) (string, error) {
	id := cmd.Args().First()
	if id == "" {
		return "", fmt.Errorf("contract id argument is required")
	}
	return id, nil
}

func initAction(ctx context.Context, cmd *cli.Command) error {
	eng, _, cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	if cfg.Platform.Owner == "" {
		return fmt.Errorf("platform.owner must be set in the config file")
	}
	if err := eng.Init(ctx, cfg.Platform.Owner, cfg.Platform.Treasury, cfg.Platform.FeeBasisPoints); err != nil {
		return err
	}
	fmt.Println("escrow ledger initialized")
	return nil
}

func createAction(ctx context.Context, cmd *cli.Command) error {
	eng, _, _, err := setup(cmd)
	if err != nil {
		return err
	}
	id, err := eng.CreateJob(ctx,
		cmd.String("job"),
		cmd.String("freelancer"),
		cmd.String("content-ref"),
		cmd.Int("amount"),
		cmd.String("as"),
	)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func completeAction(ctx context.Context, cmd *cli.Command) error {
	eng, _, _, err := setup(cmd)
	if err != nil {
		return err
	}
	id, err := contractArg(cmd)
	if err != nil {
		return err
	}
	return eng.CompleteJob(ctx, id, cmd.String("as"))
}

func releaseAction(ctx context.Context, cmd *cli.Command) error {
	eng, _, _, err := setup(cmd)
	if err != nil {
		return err
	}
	id, err := contractArg(cmd)
	if err != nil {
		return err
	}
	return eng.ReleasePayment(ctx, id, cmd.String("as"))
}

func disputeAction(ctx context.Context, cmd *cli.Command) error {
	eng, _, _, err := setup(cmd)
	if err != nil {
		return err
	}
	id, err := contractArg(cmd)
	if err != nil {
		return err
	}
	return eng.CreateDispute(ctx, id, cmd.String("as"))
}

func resolveAction(ctx context.Context, cmd *cli.Command) error {
	eng, _, _, err := setup(cmd)
	if err != nil {
		return err
	}
	id, err := contractArg(cmd)
	if err != nil {
		return err
	}
	return eng.ResolveDispute(ctx, id, cmd.Int("client-share"), cmd.String("as"))
}

func setFeeAction(ctx context.Context, cmd *cli.Command) error {
	eng, _, _, err := setup(cmd)
	if err != nil {
		return err
	}
	return eng.SetPlatformFee(ctx, cmd.Int("bps"), cmd.String("as"))
}

func showAction(ctx context.Context, cmd *cli.Command) error {
	eng, _, _, err := setup(cmd)
	if err != nil {
		return err
	}
	id, err := contractArg(cmd)
	if err != nil {
		return err
	}

	contract, err := eng.GetContract(ctx, id)
	if err != nil {
		return err
	}
	balance, err := eng.CustodyBalance(ctx, id)
	if err != nil {
		return err
	}
	transfers, err := eng.Transfers(ctx, id)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(struct {
		Contract  *core.JobContract `json:"contract"`
		Custody   int64             `json:"custody"`
		Transfers []core.Transfer   `json:"transfers"`
	}{contract, balance, transfers}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func eventsAction(ctx context.Context, cmd *cli.Command) error {
	eng, _, _, err := setup(cmd)
	if err != nil {
		return err
	}
	records, err := eng.EventLog(ctx, cmd.String("contract"), int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	for _, rec := range records {
		fmt.Printf("%d\t%s\t%s\n", rec.Seq, rec.Type, rec.Payload)
	}
	return nil
}

func auditAction(ctx context.Context, cmd *cli.Command) error {
	_, store, _, err := setup(cmd)
	if err != nil {
		return err
	}
	findings, err := audit.New(store, slog.Default()).Check(ctx)
	if err != nil {
		return err
	}
	if len(findings) == 0 {
		fmt.Println("custody audit clean")
		return nil
	}
	for _, f := range findings {
		fmt.Println(f)
	}
	return fmt.Errorf("custody audit found %d violation(s)", len(findings))
}
