package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oqba26/monthlypay/internal/config"
	"github.com/oqba26/monthlypay/internal/metrics"
	"github.com/oqba26/monthlypay/internal/reconcile"
	"github.com/oqba26/monthlypay/internal/remote"
	"github.com/oqba26/monthlypay/internal/service"
	"github.com/oqba26/monthlypay/internal/settings"
	"github.com/oqba26/monthlypay/internal/shamsi"
	"github.com/oqba26/monthlypay/internal/storage/sqlite"
	"github.com/oqba26/monthlypay/internal/summary"
	"github.com/oqba26/monthlypay/pkg/logging"
)

const usage = `usage: monthlypay <command> [flags]

commands:
  serve       run the background sync loop (and metrics endpoint if configured)
  login       authenticate against the remote API and store the session
  register    create an account and store the session
  logout      clear the stored session
  add-person     add a person
  rename-person  rename a person
  remove-person  remove a person and their payments
  add-payment    record a payment for a person
  remove-payment remove a payment
  history        list a person's payments
  backup      write a backup of the local store to a file
  restore     replace the local store with a backup file
  dashboard   print the collection status for the current Shamsi month
`

// app bundles the shared wiring every subcommand needs.
type app struct {
	cfg      *config.Config
	store    *sqlite.SQLiteStore
	settings *settings.Repository
	engine   *reconcile.Engine
	commands *service.Commands
	backups  *service.BackupService
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	api      *remote.Client
}

func main() {
	logging.Setup()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	st := settings.NewRepository(store)
	engine := reconcile.NewEngine(store, slog.Default())
	api := remote.NewClient(cfg.APIBaseURL, st, slog.Default())

	a := &app{
		cfg:      cfg,
		store:    store,
		settings: st,
		engine:   engine,
		commands: service.NewCommands(api, st, slog.Default()),
		backups:  service.NewBackupService(engine, m, slog.Default()),
		metrics:  m,
		registry: registry,
		api:      api,
	}

	if err := a.run(os.Args[1], os.Args[2:]); err != nil {
		slog.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func (a *app) run(command string, args []string) error {
	ctx := context.Background()

	switch command {
	case "serve":
		return a.serve()
	case "login":
		username, password, err := credentialFlags("login", args)
		if err != nil {
			return err
		}
		return a.commands.Login(ctx, username, password)
	case "register":
		username, password, err := credentialFlags("register", args)
		if err != nil {
			return err
		}
		return a.commands.Register(ctx, username, password)
	case "logout":
		return a.commands.Logout(ctx)
	case "add-person":
		return a.addPerson(ctx, args)
	case "rename-person":
		return a.renamePerson(ctx, args)
	case "remove-person":
		return a.removeByID(ctx, "remove-person", args, a.commands.DeletePerson)
	case "add-payment":
		return a.addPayment(ctx, args)
	case "remove-payment":
		return a.removeByID(ctx, "remove-payment", args, a.commands.DeletePayment)
	case "history":
		return a.history(ctx, args)
	case "backup":
		return a.backup(ctx, args)
	case "restore":
		return a.restore(ctx, args)
	case "dashboard":
		return a.dashboard(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncer := service.NewSyncer(a.api, a.engine, a.settings, a.metrics, slog.Default(),
		service.SyncerConfig{Interval: a.cfg.RefreshInterval})
	if err := syncer.Start(ctx); err != nil {
		return err
	}

	if a.cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
		go func() {
			slog.Info("metrics endpoint listening", "addr", a.cfg.MetricsAddr)
			if err := http.ListenAndServe(a.cfg.MetricsAddr, mux); err != nil {
				slog.Error("metrics endpoint failed", "error", err)
			}
		}()
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return syncer.Stop(stopCtx)
}

func (a *app) addPerson(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-person", flag.ContinueOnError)
	name := fs.String("name", "", "person name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.commands.AddPerson(ctx, *name)
}

func (a *app) renamePerson(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rename-person", flag.ContinueOnError)
	id := fs.String("id", "", "person id")
	name := fs.String("name", "", "new name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("rename-person requires -id")
	}
	return a.commands.UpdatePerson(ctx, *id, *name)
}

func (a *app) removeByID(ctx context.Context, name string, args []string, remove func(context.Context, string) error) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	id := fs.String("id", "", "record id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("%s requires -id", name)
	}
	return remove(ctx, *id)
}

func (a *app) addPayment(ctx context.Context, args []string) error {
	curYear, curMonth := shamsi.CurrentPeriod()

	fs := flag.NewFlagSet("add-payment", flag.ContinueOnError)
	personID := fs.String("person", "", "person id")
	amount := fs.Float64("amount", 0, "payment amount (0 uses the saved default)")
	year := fs.Int("year", curYear, "Shamsi year")
	month := fs.Int("month", curMonth, "Shamsi month (1-12)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *personID == "" {
		return fmt.Errorf("add-payment requires -person")
	}

	amt := *amount
	if amt == 0 {
		var err error
		amt, err = a.settings.DefaultPaymentAmount(ctx)
		if err != nil {
			return err
		}
	}
	return a.commands.AddPayment(ctx, *personID, amt, *year, *month)
}

func (a *app) history(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	personID := fs.String("person", "", "person id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *personID == "" {
		return fmt.Errorf("history requires -person")
	}

	payments, err := a.store.ListPaymentsForPerson(ctx, *personID)
	if err != nil {
		return err
	}
	for _, rec := range payments {
		fmt.Printf("%s  %s %d  %.0f\n",
			shamsi.FormatTimestamp(rec.Timestamp), shamsi.MonthName(rec.ShamsiMonth), rec.ShamsiYear, rec.Amount)
	}
	return nil
}

func (a *app) backup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	out := fs.String("out", "monthlypay-backup.json", "output file")
	passphrase := fs.String("passphrase", "", "encrypt the backup with this passphrase")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := a.backups.Create(ctx, *passphrase)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, data, 0600); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	slog.Info("backup written", "file", *out, "bytes", len(data))
	return nil
}

func (a *app) restore(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	in := fs.String("in", "", "backup file to restore")
	passphrase := fs.String("passphrase", "", "passphrase for an encrypted backup")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("restore requires -in")
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}
	if err := a.backups.Restore(ctx, data, *passphrase); err != nil {
		return err
	}
	slog.Info("backup restored", "file", *in)
	return nil
}

func (a *app) dashboard(ctx context.Context) error {
	persons, err := a.store.ListPersons(ctx)
	if err != nil {
		return err
	}
	payments, err := a.store.ListPayments(ctx)
	if err != nil {
		return err
	}

	year, month := shamsi.CurrentPeriod()
	dash := summary.ForPeriod(persons, payments, year, month)

	fmt.Printf("%s %d: %d/%d paid, total %.0f\n",
		shamsi.MonthName(month), year, dash.PaidCount, dash.TotalPersons, dash.TotalCollected)
	for _, p := range dash.Persons {
		mark := " "
		if p.PaidThisMonth {
			mark = "x"
		}
		fmt.Printf("  [%s] %s\n", mark, p.Name)
	}
	return nil
}

func credentialFlags(name string, args []string) (username, password string, err error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	u := fs.String("username", "", "account username")
	p := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return "", "", err
	}
	if *u == "" || *p == "" {
		return "", "", fmt.Errorf("%s requires -username and -password", name)
	}
	return *u, *p, nil
}
