package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/docker/go-units"

	"github.com/meigma/trimarea"
	"github.com/meigma/trimarea/internal/sqlitedb"
)

type actionInput struct {
	img       *trimarea.Image
	extractor *trimarea.Extractor
	platform  trimarea.Platform
}

type action struct {
	name          string
	help          string
	needsPlatform bool
	run           func(ctx context.Context, a *app, in *actionInput) error
}

var actions = []action{
	{name: "dump-bootlogs", help: "dump boot logs (TA stores up to ten of these); needs a platform", needsPlatform: true, run: dumpBootlogs},
	{name: "dump-sqlitedb", help: "dump the internal SQLite database", run: dumpDatabase},
	{name: "show-buildid", help: "show the build number", run: showBuildID},
	{name: "show-serial", help: "show the serial number", run: showSerial},
	{name: "show-sqlitedb", help: "list the tables of the internal SQLite database", run: showDatabase},
}

// lookupAction accepts both dash and underscore spellings.
func lookupAction(name string) (action, bool) {
	name = strings.ReplaceAll(strings.ToLower(name), "_", "-")
	for _, act := range actions {
		if act.name == name {
			return act, true
		}
	}
	return action{}, false
}

func actionNames() []string {
	names := make([]string, len(actions))
	for i, act := range actions {
		names[i] = act.name
	}
	return names
}

func actionHelp() string {
	var b strings.Builder
	for _, act := range actions {
		fmt.Fprintf(&b, "  %-14s %s\n", act.name, act.help)
	}
	return b.String()
}

func dumpBootlogs(_ context.Context, a *app, in *actionInput) error {
	results, err := in.extractor.DumpBootlogs(in.platform)
	if err != nil {
		return err
	}
	for i, res := range results {
		a.log.Infof("Saved bootlog %d from 0x%X to %s", i+1, res.Field.Offset, res.Path)
		a.log.Debugf("%s: %s", res.Path, res.Digest)
	}
	if err := a.writeReport(results); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Saved %d boot logs to %s!\n", len(results), filepath.Join(a.opts.outputDir, trimarea.BootlogDir))
	return nil
}

func dumpDatabase(_ context.Context, a *app, in *actionInput) error {
	n, err := in.img.DatabaseExponent()
	if err != nil {
		return err
	}
	if size, err := trimarea.DatabaseSize(n); err == nil {
		a.log.Infof("SQLite DB size: 2^%d (%d B, %s)", n, size, units.HumanSize(float64(size)))
	}

	res, err := in.extractor.DumpDatabase()
	if err != nil {
		return err
	}
	a.log.Debugf("%s: %s", res.Path, res.Digest)
	if err := a.writeReport([]trimarea.Result{res}); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Saved results to %s!\n", res.Path)
	return nil
}

func showBuildID(_ context.Context, a *app, in *actionInput) error {
	id, err := in.img.BuildID()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Image version: %s\n", trimPadding(id))
	return nil
}

func showSerial(_ context.Context, a *app, in *actionInput) error {
	serial, err := in.img.Serial()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Serial no.: %s\n", trimPadding(serial))
	return nil
}

func showDatabase(ctx context.Context, a *app, in *actionInput) error {
	tmp, err := os.MkdirTemp("", "untamed-*")
	if err != nil {
		return fmt.Errorf("%w: %w", trimarea.ErrIO, err)
	}
	defer os.RemoveAll(tmp)

	// Always plain: SQLite cannot open a compressed file.
	res, err := trimarea.NewExtractor(in.img, tmp).DumpDatabase()
	if err != nil {
		return err
	}
	objects, err := sqlitedb.Inspect(ctx, res.Path)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tNAME\tROWS")
	for _, o := range objects {
		rows := "-"
		if o.Rows >= 0 {
			rows = fmt.Sprint(o.Rows)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", o.Type, o.Name, rows)
	}
	return w.Flush()
}

func (a *app) writeReport(results []trimarea.Result) error {
	if a.opts.report == "" {
		return nil
	}
	f, err := os.Create(a.opts.report)
	if err != nil {
		return fmt.Errorf("%w: create report: %w", trimarea.ErrIO, err)
	}
	if err := trimarea.WriteReport(f, results); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close report: %w", trimarea.ErrIO, err)
	}
	a.log.Infof("Wrote report to %s", a.opts.report)
	return nil
}

// trimPadding drops the NUL bytes text fields are padded with.
func trimPadding(s string) string {
	return strings.TrimRight(s, "\x00")
}
