// Command untamed inspects the data contained in a TA (Trim Area) image.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/meigma/trimarea"
)

// Set by the release build.
var version = "dev"

type globalOptions struct {
	configFile string
	outputDir  string
	overwrite  bool
	compress   string
	report     string
	logLevel   string
}

type app struct {
	opts   globalOptions
	log    *logrus.Logger
	stdout io.Writer
	stderr io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(stderr, "Error:", err.Error())
		return 1
	}
	return 0
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		log:    logrus.New(),
		stdout: stdout,
		stderr: stderr,
	}
	a.log.SetOutput(stderr)

	cmd := &cobra.Command{
		Use:   "untamed [flags] <ta-file> <action> [platform]",
		Short: "Inspect the data contained in a TA (Trim Area) image",
		Long: "untamed reads a 2 MiB TA (Trim Area) partition image and extracts its boot logs,\n" +
			"embedded SQLite database, build id and serial number.\n\n" +
			"Actions:\n" + actionHelp(),
		Args:    cobra.RangeArgs(2, 3),
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.before(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVar(&a.opts.configFile, "config", "", "Path of a TOML file with default flag values")
	flags.StringVarP(&a.opts.outputDir, "output-dir", "o", ".", "Directory dumps are written to")
	flags.BoolVar(&a.opts.overwrite, "overwrite", false, "Replace existing output files")
	flags.StringVar(&a.opts.compress, "compress", "none", "Compress dumped files: none or zstd")
	flags.StringVar(&a.opts.report, "report", "", "Write a JSON report of dumped files to this path")
	flags.StringVar(&a.opts.logLevel, "log-level", "info", "Log messages above specified level: debug, info, warn, error, fatal or panic")
	return cmd
}

func (a *app) before(cmd *cobra.Command) error {
	if a.opts.configFile != "" {
		cfg, err := loadConfig(a.opts.configFile)
		if err != nil {
			return err
		}
		if err := cfg.apply(cmd.Flags()); err != nil {
			return err
		}
	}

	level, err := logrus.ParseLevel(a.opts.logLevel)
	if err != nil {
		return err
	}
	a.log.SetLevel(level)
	return nil
}

func (a *app) run(ctx context.Context, args []string) error {
	path, name := args[0], args[1]

	act, ok := lookupAction(name)
	if !ok {
		fmt.Fprintf(a.stdout, "Unknown action %q. Valid actions are: %s\n", name, strings.Join(actionNames(), ", "))
		return nil
	}

	var platform trimarea.Platform
	if act.needsPlatform {
		if len(args) < 3 {
			return fmt.Errorf("%s requires a platform, one of: %s", act.name, platformList())
		}
		p, err := trimarea.ParsePlatform(args[2])
		if err != nil {
			return fmt.Errorf("%w (valid platforms: %s)", err, platformList())
		}
		platform = p
	} else if len(args) > 2 {
		a.log.Warnf("%s takes no platform, ignoring %q", act.name, args[2])
	}

	compression, ok := trimarea.ParseCompression(a.opts.compress)
	if !ok {
		return fmt.Errorf("invalid --compress value %q: must be none or zstd", a.opts.compress)
	}

	a.log.Infof("Opening file: %s", path)
	img, err := trimarea.Open(path)
	if errors.Is(err, trimarea.ErrMagicMismatch) {
		// Not a failure exit, but always reported regardless of --log-level.
		fmt.Fprintf(a.stderr, "TA header mismatch! %v\n", err)
		return nil
	}
	if err != nil {
		if errors.Is(err, trimarea.ErrSizeMismatch) {
			return fmt.Errorf("%w. Is your dump corrupted?", err)
		}
		return err
	}
	a.log.Infof("TA size: %d bytes", img.Size())

	x := trimarea.NewExtractor(img, a.opts.outputDir,
		trimarea.WithOverwrite(a.opts.overwrite),
		trimarea.WithCompression(compression),
	)
	return act.run(ctx, a, &actionInput{img: img, extractor: x, platform: platform})
}

func platformList() string {
	names := make([]string, 0, 11)
	for _, p := range trimarea.Platforms() {
		names = append(names, p.String())
	}
	return strings.Join(names, ", ")
}
