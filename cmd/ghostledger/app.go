package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ghostledger/internal/core"
	"ghostledger/internal/locale"
	"ghostledger/internal/report"
	"ghostledger/internal/store"
)

var (
	errUsage  = errors.New("usage")
	ErrLocked = errors.New("ledger is PIN protected: pass -pin or set LEDGER_PIN")
)

// app runs one CLI invocation against an open store.
type app struct {
	store         *store.FinanceStore
	reporter      *report.Reporter
	locale        locale.Locale
	policy        core.TimePolicy
	clock         core.Clock
	importTimeout time.Duration
	defaultPIN    string

	out    io.Writer
	errOut io.Writer
}

type command struct {
	usage   string
	summary string
	// open commands run even when the ledger is locked
	open bool
	run  func(a *app, ctx context.Context, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"summary":        {"", "current month totals, top categories and alerts", false, (*app).cmdSummary},
		"add-expense":    {"-amount 12,50 -desc text -category food [-date YYYY-MM-DD] [-note text]", "record an expense", false, (*app).cmdAddExpense},
		"add-income":     {"-amount 100 -desc text -category salary [-date YYYY-MM-DD] [-note text]", "record an income", false, (*app).cmdAddIncome},
		"delete-expense": {"<id>", "delete an expense", false, (*app).cmdDeleteExpense},
		"delete-income":  {"<id>", "delete an income", false, (*app).cmdDeleteIncome},
		"goals":          {"[-active]", "list goals with progress", false, (*app).cmdGoals},
		"goal-add":       {"-title text -target 1000 [-current 0] [-start date] [-end date] [-inactive]", "create a goal", false, (*app).cmdGoalAdd},
		"goal-update":    {"<id> [-title] [-target] [-current] [-start] [-end] [-active=bool]", "change a goal", false, (*app).cmdGoalUpdate},
		"goal-delete":    {"<id>", "delete a goal", false, (*app).cmdGoalDelete},
		"limits":         {"", "current month limits with spend", false, (*app).cmdLimits},
		"alerts":         {"", "limits exceeded this month", false, (*app).cmdAlerts},
		"limit-set":      {"-category food -amount 500 [-month 1-12] [-year YYYY] [-inactive]", "set a monthly category limit", false, (*app).cmdLimitSet},
		"limit-delete":   {"<id>", "delete a category limit", false, (*app).cmdLimitDelete},
		"by-category":    {"[-type all|income|expense]", "this month's totals for every category", false, (*app).cmdByCategory},
		"top":            {"[-n 3]", "top expense categories this month", false, (*app).cmdTop},
		"series":         {"[-year YYYY]", "monthly income and expenses for a year", false, (*app).cmdSeries},
		"statement":      {"[-window 7d|30d|custom] [-from date] [-to date] [-type all|income|expense] [-category tag]", "filtered transactions with totals", false, (*app).cmdStatement},
		"recent":         {"[-n 5]", "newest transactions", false, (*app).cmdRecent},
		"export":         {"[-o file|-]", "write a JSON backup", false, (*app).cmdExport},
		"export-csv":     {"[-o file|-] [statement filters]", "write the statement as CSV", false, (*app).cmdExportCSV},
		"import":         {"<file|->", "replace the ledger with a JSON backup", false, (*app).cmdImport},
		"pin-set":        {"<4 digits>", "set the PIN and enable the lock", false, (*app).cmdPinSet},
		"pin-disable":    {"", "disable the PIN lock", false, (*app).cmdPinDisable},
		"pin-verify":     {"<4 digits>", "check a PIN", true, (*app).cmdPinVerify},
		"categories":     {"", "list category tags and names", true, (*app).cmdCategories},
	}
}

func (a *app) usage() {
	fmt.Fprintln(a.errOut, "usage: ghostledger [-pin 1234] <command> [flags]")
	fmt.Fprintln(a.errOut)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := commands[name]
		fmt.Fprintf(a.errOut, "  %-15s %s\n", name, c.summary)
		if c.usage != "" {
			fmt.Fprintf(a.errOut, "  %-15s   %s\n", "", mutedStyle.Render(c.usage))
		}
	}
}

// run parses global flags, enforces the PIN lock and dispatches.
func (a *app) run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ghostledger", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	pin := fs.String("pin", a.defaultPIN, "PIN unlocking a protected ledger")
	fs.Usage = a.usage
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	rest := fs.Args()
	if len(rest) == 0 || rest[0] == "help" {
		a.usage()
		return errUsage
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		a.usage()
		return fmt.Errorf("unknown command %q", rest[0])
	}
	if !cmd.open && a.store.Locked() && !a.store.VerifyPIN(*pin) {
		return ErrLocked
	}
	return cmd.run(a, ctx, rest[1:])
}

func (a *app) now() time.Time { return a.clock.Now() }

func (a *app) today() core.Date { return a.policy.Today(a.now()) }

// newFlagSet builds a subcommand flag set whose usage prints the command
// synopsis.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	fs.Usage = func() {
		fmt.Fprintf(a.errOut, "usage: ghostledger %s %s\n", name, commands[name].usage)
		fs.PrintDefaults()
	}
	return fs
}

// splitID takes a leading positional id so flags may follow it.
func splitID(args []string) (string, []string) {
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		return args[0], args[1:]
	}
	return "", args
}

func requireID(fs *flag.FlagSet, args []string) (string, error) {
	id, rest := splitID(args)
	if err := fs.Parse(rest); err != nil {
		return "", errUsage
	}
	if id == "" {
		id = fs.Arg(0)
	}
	if id == "" {
		fs.Usage()
		return "", errUsage
	}
	return id, nil
}

// parseSavedAmount is parseMoney that also accepts zero, for amounts already
// saved towards a goal.
func parseSavedAmount(s string) (core.Money, error) {
	if d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ".")); err == nil && d.IsZero() {
		return core.Money{}, nil
	}
	return parseMoney(s)
}

func parseMoney(s string) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return core.Money{}, fmt.Errorf("amount %q: %w", s, err)
	}
	return core.Money{Cents: cents}, nil
}

// parseDateOr returns def for an empty string.
func parseDateOr(s string, def core.Date) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	return core.ParseDate(s)
}

func optionalString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// visited lists the flags explicitly set on the command line.
func visited(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}
