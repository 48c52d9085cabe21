package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/facefusion/ffinstall/internal/config"
	fferrors "github.com/facefusion/ffinstall/internal/errors"
	"github.com/facefusion/ffinstall/internal/installer"
	"github.com/facefusion/ffinstall/internal/installer/command"
	"github.com/facefusion/ffinstall/internal/libpath"
	"github.com/facefusion/ffinstall/internal/lock"
	"github.com/facefusion/ffinstall/internal/printer"
	"github.com/facefusion/ffinstall/internal/requirements"
	"github.com/facefusion/ffinstall/internal/variant"
)

// rootOptions holds the flags of the root command.
type rootOptions struct {
	variant        *variant.Flag
	forceReinstall bool
	skipConda      bool
	dryRun         bool
	output         string
	logLevel       string
	noColor        bool
	configFile     string
}

// run executes the CLI with args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return execute(ctx, config.DetectOS(), args, stdout, stderr)
}

func execute(ctx context.Context, hostOS config.OS, args []string, stdout, stderr io.Writer) int {
	cmd, opts := newRootCmd(hostOS, variant.BuildTable(hostOS))
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	format, _ := printer.ParseFormat(opts.output)
	formatter := fferrors.NewFormatter(stderr, opts.noColor || !isTerminal(stderr))
	if format == printer.FormatJSON {
		if jsonErr := formatter.PrintJSON(err); jsonErr == nil {
			return 1
		}
	}

	// Scripts match the bare precondition message on stdout.
	var preErr *fferrors.PreconditionError
	if errors.As(err, &preErr) {
		fmt.Fprintln(stdout, preErr.Base.Message)
	}
	formatter.Print(err)
	return 1
}

func newRootCmd(hostOS config.OS, table variant.Table) (*cobra.Command, *rootOptions) {
	opts := &rootOptions{variant: variant.NewFlag(table)}

	cmd := &cobra.Command{
		Use:   "ffinstall",
		Short: "Install FaceFusion dependencies with an accelerated onnxruntime",
		Long: `Install the packages listed in requirements.txt together with the
onnxruntime build matching your hardware.

Any onnxruntime line in requirements.txt is replaced by the selected variant.
For the cuda variant inside a conda environment, the environment's library
directories are persisted to its ` + libpath.Var(hostOS) + ` so the CUDA and
TensorRT libraries are found on every activation.

  conda activate facefusion
  ffinstall --onnxruntime cuda
  ffinstall --onnxruntime default --skip-conda --force-reinstall`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Flags parsed fine: later failures are not usage errors.
			cmd.SilenceUsage = true
			return runInstall(cmd, hostOS, opts)
		},
	}
	cmd.SetVersionTemplate(appName + " {{.Version}}\n")

	flags := cmd.Flags()
	flags.Var(opts.variant, "onnxruntime", "install the onnxruntime package ("+strings.Join(table.Names(), ", ")+")")
	flags.BoolVar(&opts.forceReinstall, "force-reinstall", false, "force reinstall of packages")
	flags.BoolVar(&opts.skipConda, "skip-conda", false, "skip the conda environment check")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the commands without running them")
	flags.StringVarP(&opts.output, "output", "o", "text", "output format for the dry-run plan and errors (text, json)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (default: "+config.DefaultConfigFile+" if present)")

	_ = cmd.MarkFlagRequired("onnxruntime")
	_ = cmd.RegisterFlagCompletionFunc("onnxruntime", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return table.Names(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(printer.FormatText), string(printer.FormatJSON)}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd, opts
}

func runInstall(cmd *cobra.Command, hostOS config.OS, opts *rootOptions) error {
	if opts.noColor {
		color.NoColor = true
	}

	prevLogger := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: parseLogLevel(opts.logLevel)})))
	defer slog.SetDefault(prevLogger)

	format, err := printer.ParseFormat(opts.output)
	if err != nil {
		return err
	}

	v, ok := opts.variant.Variant()
	if !ok {
		return fmt.Errorf("no onnxruntime variant selected")
	}

	env := config.DetectEnvironment()
	if !opts.skipConda && !env.Active {
		return fferrors.NewEnvNotActivatedError(config.EnvCondaPrefix)
	}

	cfg, err := config.LoadConfig(opts.configFile)
	if err != nil {
		file := opts.configFile
		if file == "" {
			file = config.DefaultConfigFile
		}
		return fferrors.NewConfigError(file, err)
	}

	reqs, err := requirements.Read(cfg.RequirementsFile)
	if err != nil {
		return fferrors.NewRequirementsError(cfg.RequirementsFile, err)
	}

	installOpts := installer.Options{
		Variant:        v,
		ForceReinstall: opts.forceReinstall,
		Requirements:   reqs,
		OS:             hostOS,
		Environment:    env,
	}
	if name := libpath.Var(hostOS); name != "" {
		installOpts.LibraryPath = os.Getenv(name)
	}

	executor := command.NewExecutor(cmd.OutOrStdout(), cmd.ErrOrStderr())
	inst := installer.NewInstaller(executor, cfg)

	if opts.dryRun {
		return printer.PrintPlan(cmd.OutOrStdout(), v, inst.Plan(installOpts), format)
	}

	lk, err := lock.New(cfg.LockFile)
	if err != nil {
		return err
	}
	if err := lk.Acquire(); err != nil {
		return err
	}
	defer func() {
		if err := lk.Release(); err != nil {
			slog.Warn("failed to release installer lock", "path", lk.Path(), "error", err)
		}
	}()

	slog.Info("installing", "variant", v.Name, "package", v.Requirement(), "requirements", len(reqs))
	return inst.Install(cmd.Context(), installOpts)
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
