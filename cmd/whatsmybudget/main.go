package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joshuarreid/whatsMyBudget-sub000/internal/backup"
	"github.com/joshuarreid/whatsMyBudget-sub000/internal/cli"
	"github.com/joshuarreid/whatsMyBudget-sub000/internal/config"
	"github.com/joshuarreid/whatsMyBudget-sub000/internal/core"
	"github.com/joshuarreid/whatsMyBudget-sub000/internal/importer"
	applog "github.com/joshuarreid/whatsMyBudget-sub000/internal/log"
	"github.com/joshuarreid/whatsMyBudget-sub000/internal/repository"
	"github.com/joshuarreid/whatsMyBudget-sub000/internal/settings"
	"github.com/joshuarreid/whatsMyBudget-sub000/internal/statement"
)

const usage = `usage: whatsmybudget <command> [flags]

commands:
  summary        category, weekly or payment breakdown for an owner
  import         import an exported CSV, skipping duplicates
  add            add one transaction or projection
  set-period     set the active statement period
  end-statement  archive the active period and open the next one
  backup         upload a snapshot of all local state
  restore        download and apply a snapshot
  recent         list recently used import files
`

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := cli.LoadAndValidateConfig(logger)
	st := cli.InitSettings(logger, cfg.SettingsDBPath)
	defer st.Close()

	ctx := context.Background()
	tx, proj := cli.OpenRepositories(ctx, logger, cfg, st)

	app := &app{logger: logger, cfg: cfg, settings: st, tx: tx, proj: proj}

	var err error
	switch os.Args[1] {
	case "summary":
		err = app.summary(ctx, os.Args[2:])
	case "import":
		err = app.runImport(ctx, os.Args[2:])
	case "add":
		err = app.add(ctx, os.Args[2:])
	case "set-period":
		err = app.setPeriod(ctx, os.Args[2:])
	case "end-statement":
		err = app.endStatement(ctx, os.Args[2:])
	case "backup":
		err = app.backup(ctx)
	case "restore":
		err = app.restore(ctx, os.Args[2:])
	case "recent":
		err = app.recent(ctx, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("Command failed", applog.FieldError, err, applog.FieldOperation, os.Args[1])
		os.Exit(1)
	}
}

type app struct {
	logger   *applog.Logger
	cfg      *config.Config
	settings *settings.Store
	tx       *repository.TransactionRepository
	proj     *repository.ProjectedRepository
}

func (a *app) summary(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	kind := fs.String("type", "category", "summary type: category, weekly or payments")
	account := fs.String("account", "", "owner account the summary is for")
	category := fs.String("category", "", "optional category filter")
	criticality := fs.String("criticality", "", "optional criticality filter")
	payment := fs.String("payment", "", "optional payment method filter")
	start := fs.String("start", "", "statement start date (weekly only, ISO form)")
	end := fs.String("end", "", "statement end date (weekly only, ISO form)")
	fs.Parse(args)

	if *account == "" {
		return fmt.Errorf("summary requires -account")
	}
	filter := core.Filter{Category: *category, Criticality: *criticality, PaymentMethod: *payment}

	records, err := a.tx.ReadAll()
	if err != nil {
		return err
	}

	switch *kind {
	case "category":
		period, err := a.settings.ActiveStatementPeriod(ctx)
		if err != nil {
			return fmt.Errorf("category summary needs an active period (run set-period): %w", err)
		}
		projections, err := a.proj.ReadAll()
		if err != nil {
			return err
		}
		s := core.SummarizeCategories(records, projections, *account, period, filter)
		for _, row := range s.Rows {
			label := "actual"
			if row.Kind == core.KindProjected {
				label = "projected"
			}
			fmt.Printf("%-24s %-10s %s\n", row.Category, label, row.Total)
		}
		fmt.Printf("%-24s %-10s %s\n", "Total", "", s.GrandTotal)
	case "weekly":
		from, err := core.ParseDate(*start)
		if err != nil {
			return fmt.Errorf("weekly summary requires -start: %w", err)
		}
		to, err := core.ParseDate(*end)
		if err != nil {
			return fmt.Errorf("weekly summary requires -end: %w", err)
		}
		s, err := core.SummarizeWeekly(records, *account, from, to, filter)
		if err != nil {
			return err
		}
		for _, w := range s.Weeks {
			fmt.Printf("week %d  %s..%s  %s (%d)\n",
				w.Index, w.Start.Format(core.DateLayout), w.End.Format(core.DateLayout), w.Total, w.Count)
		}
		for _, r := range s.Excluded {
			a.logger.Warn("transaction outside statement range",
				"name", r.Name, "date", r.TransactionDate)
		}
	case "payments":
		s := core.SummarizePayments(records, filter)
		for _, card := range s.Cards {
			fmt.Printf("%-24s", card.Card)
			for _, o := range s.Owners {
				fmt.Printf("  %s %s", o, card.Totals[o])
			}
			fmt.Println()
		}
		fmt.Printf("%-24s", "Total")
		for _, o := range s.Owners {
			fmt.Printf("  %s %s", o, s.GrandTotals[o])
		}
		fmt.Println()
	default:
		return fmt.Errorf("unknown summary type %q", *kind)
	}
	return nil
}

func (a *app) runImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "CSV export file to import")
	fs.Parse(args)

	if *file == "" {
		return fmt.Errorf("import requires -file")
	}
	engine := importer.New(a.tx)
	report, err := engine.ImportFile(ctx, *file)
	if err != nil {
		return err
	}
	if err := a.settings.TouchRecentFile(ctx, settings.RecentKindImport, *file); err != nil {
		a.logger.Warn("Failed to record recent file", applog.FieldError, err)
	}

	fmt.Printf("detected %d, imported %d, duplicates %d, errors %d\n",
		report.Detected, report.Imported, report.Duplicates, report.Errors)
	for _, line := range report.DuplicateLines {
		fmt.Printf("duplicate: %s\n", line)
	}
	for _, line := range report.ErrorLines {
		fmt.Printf("error: %s\n", line)
	}
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "transaction name")
	amount := fs.String("amount", "", "amount, e.g. 28.36 or $28.36")
	category := fs.String("category", "", "category")
	criticality := fs.String("criticality", core.NonEssential, "Essential or NonEssential")
	date := fs.String("date", "", "transaction date")
	account := fs.String("account", "", "owner account, or Joint")
	status := fs.String("status", "", "status")
	payment := fs.String("payment", "", "payment method")
	projected := fs.Bool("projected", false, "add a projected transaction instead of a real one")
	period := fs.String("period", "", "statement period tag (required for -projected)")
	fs.Parse(args)

	amt, err := core.ParseAmount(*amount)
	if err != nil {
		return fmt.Errorf("amount %q: %w", *amount, err)
	}
	rec := core.Record{
		Kind:            core.KindTransaction,
		Name:            *name,
		Amount:          amt,
		Category:        *category,
		Criticality:     *criticality,
		TransactionDate: *date,
		Account:         *account,
		Status:          *status,
		CreatedTime:     time.Now().Format(core.CreatedTimeLayout),
		PaymentMethod:   *payment,
		StatementPeriod: *period,
	}
	if *projected {
		rec.Kind = core.KindProjected
		return a.proj.Add(rec)
	}
	return a.tx.Add(rec)
}

func (a *app) setPeriod(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("set-period", flag.ExitOnError)
	period := fs.String("period", "", "statement period, e.g. SEPTEMBER2025")
	fs.Parse(args)

	p, err := core.ParseStatementPeriod(*period)
	if err != nil {
		return fmt.Errorf("period %q: %w", *period, err)
	}
	return a.settings.SetActiveStatementPeriod(ctx, p)
}

func (a *app) endStatement(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("end-statement", flag.ExitOnError)
	next := fs.String("next", "", "period to open, e.g. OCTOBER2025")
	fs.Parse(args)

	p, err := core.ParseStatementPeriod(*next)
	if err != nil {
		return fmt.Errorf("next period %q: %w", *next, err)
	}
	mgr := statement.NewManager(a.tx, a.proj, a.settings)
	return mgr.EndStatement(ctx, p)
}

func (a *app) backup(ctx context.Context) error {
	store, err := a.objectStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := backup.NewService(store, a.tx, a.proj, a.settings)
	object, err := svc.Backup(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("uploaded %s\n", object)
	return nil
}

func (a *app) restore(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	object := fs.String("object", "", "snapshot object name (defaults to the latest)")
	fs.Parse(args)

	store, err := a.objectStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := backup.NewService(store, a.tx, a.proj, a.settings)
	return svc.Restore(ctx, *object)
}

func (a *app) recent(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("recent", flag.ExitOnError)
	kind := fs.String("kind", settings.RecentKindImport, "recent file kind")
	fs.Parse(args)

	files, err := a.settings.RecentFiles(ctx, *kind, a.cfg.RecentFilesLimit)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Println(f)
	}
	return nil
}

func (a *app) objectStore(ctx context.Context) (backup.ObjectStore, error) {
	if !a.cfg.BackupConfigured() {
		return nil, fmt.Errorf("backup requires WMB_GCS_BUCKET to be set")
	}
	return backup.NewGCSStore(ctx, a.cfg.GCSBucket, a.cfg.GoogleCredentialsFile)
}
