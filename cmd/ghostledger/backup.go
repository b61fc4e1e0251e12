package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"ghostledger/internal/backup"
	"ghostledger/internal/core"
)

// createOutput opens path for writing; "-" is stdout.
func (a *app) createOutput(path string) (io.Writer, func() error, error) {
	if path == "-" {
		return a.out, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}

func (a *app) cmdExport(_ context.Context, args []string) error {
	fs := a.newFlagSet("export")
	path := fs.String("o", "", "output file, - for stdout")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *path == "" {
		*path = backup.ExportFilename(a.locale.ExportPrefix, a.now())
	}

	w, closeFn, err := a.createOutput(*path)
	if err != nil {
		return err
	}
	if err := backup.ExportJSON(w, a.store.Snapshot(), a.now()); err != nil {
		closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return err
	}
	if *path != "-" {
		fmt.Fprintf(a.errOut, "Backup written to %s\n", *path)
	}
	return nil
}

func (a *app) cmdExportCSV(_ context.Context, args []string) error {
	fs := a.newFlagSet("export-csv")
	path := fs.String("o", "", "output file, - for stdout")
	ff := bindFilterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	f, err := ff.filter()
	if err != nil {
		return err
	}
	if *path == "" {
		*path = backup.CSVFilename(a.now(), a.policy)
	}

	entries, _ := a.reporter.Statement(f)
	w, closeFn, err := a.createOutput(*path)
	if err != nil {
		return err
	}
	if err := backup.ExportCSV(w, entries, a.locale); err != nil {
		closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return err
	}
	if *path != "-" {
		fmt.Fprintf(a.errOut, "%d transactions written to %s\n", len(entries), *path)
	}
	return nil
}

func (a *app) cmdImport(ctx context.Context, args []string) error {
	fs := a.newFlagSet("import")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}

	var r io.Reader = os.Stdin
	if path := fs.Arg(0); path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("%w: %w", backup.ErrFileRead, err)
		}
		defer f.Close()
		r = f
	}

	if err := a.store.Import(ctx, r, a.importTimeout); err != nil {
		return err
	}
	d := a.store.Snapshot()
	fmt.Fprintf(a.out, "Imported %d expenses, %d income, %d goals, %d limits\n",
		len(d.Expenses), len(d.Income), len(d.Goals), len(d.Limits))
	return nil
}

func (a *app) cmdPinSet(ctx context.Context, args []string) error {
	fs := a.newFlagSet("pin-set")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	pin := fs.Arg(0)
	enabled := true
	if err := a.store.UpdateSecurityConfig(ctx, core.SecurityPatch{PinEnabled: &enabled, PIN: &pin}); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "PIN lock enabled")
	return nil
}

func (a *app) cmdPinDisable(ctx context.Context, _ []string) error {
	disabled := false
	if err := a.store.UpdateSecurityConfig(ctx, core.SecurityPatch{PinEnabled: &disabled}); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "PIN lock disabled")
	return nil
}

var errWrongPIN = errors.New("wrong PIN")

func (a *app) cmdPinVerify(_ context.Context, args []string) error {
	fs := a.newFlagSet("pin-verify")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if !a.store.VerifyPIN(fs.Arg(0)) {
		return errWrongPIN
	}
	fmt.Fprintln(a.out, "PIN ok")
	return nil
}
