// Package installer plans and runs the package manager and environment
// manager invocations that install a runtime variant.
package installer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/facefusion/ffinstall/internal/config"
	fferrors "github.com/facefusion/ffinstall/internal/errors"
	"github.com/facefusion/ffinstall/internal/installer/command"
	"github.com/facefusion/ffinstall/internal/libpath"
	"github.com/facefusion/ffinstall/internal/requirements"
	"github.com/facefusion/ffinstall/internal/variant"
)

// Step names.
const (
	StepUninstall = "uninstall"
	StepInstall   = "install"
	StepPatch     = "patch"
)

// ForceReinstallFlag is passed to the package manager when reinstalling is forced.
const ForceReinstallFlag = "--force-reinstall"

// Step is a single external program invocation.
type Step struct {
	Name string   `json:"step"`
	Path string   `json:"path"`
	Args []string `json:"args"`
}

// String returns the step as a command line.
func (s Step) String() string {
	return strings.Join(append([]string{s.Path}, s.Args...), " ")
}

// Runner resolves and runs external programs.
type Runner interface {
	LookPath(name string) string
	Run(ctx context.Context, path string, args ...string) error
}

var _ Runner = (*command.Executor)(nil)

// Options describes one installation.
type Options struct {
	Variant        variant.Variant
	ForceReinstall bool
	// Requirements are the requirement file lines, runtime pins included.
	Requirements []string
	OS           config.OS
	Environment  config.Environment
	// LibraryPath is the current value of the OS's library search variable.
	LibraryPath string
}

// Installer installs a runtime variant with the configured tools.
type Installer struct {
	runner             Runner
	packageManager     string
	environmentManager string
}

// NewInstaller creates an Installer using the executables named in cfg.
func NewInstaller(runner Runner, cfg *config.Config) *Installer {
	return &Installer{
		runner:             runner,
		packageManager:     cfg.PackageManager,
		environmentManager: cfg.EnvironmentManager,
	}
}

// UninstallArgs returns the package manager arguments that remove any installed runtime.
func UninstallArgs(v variant.Variant) []string {
	return []string{"uninstall", variant.GenericPackage, v.Package, "-y", "-q"}
}

// InstallArgs returns the package manager arguments that install reqs with v
// replacing every runtime requirement.
func InstallArgs(v variant.Variant, force bool, reqs []string) []string {
	args := []string{"install"}
	if force {
		args = append(args, ForceReinstallFlag)
	}
	args = append(args, requirements.Exclude(reqs, variant.GenericPackage)...)
	return append(args, v.Requirement())
}

// PatchArgs returns the environment manager arguments that persist dirs as
// the library search variable of o.
func PatchArgs(o config.OS, dirs []string) []string {
	return []string{"env", "config", "vars", "set", libpath.Var(o) + "=" + libpath.Join(o, dirs)}
}

// NeedsPatch reports whether opts requires the library search path to be patched.
func NeedsPatch(opts Options) bool {
	return opts.Variant.Name == variant.CUDA && opts.Environment.Active && libpath.Var(opts.OS) != ""
}

// InstallSteps returns the uninstall and install steps.
func (i *Installer) InstallSteps(opts Options) []Step {
	pm := i.runner.LookPath(i.packageManager)
	return []Step{
		{Name: StepUninstall, Path: pm, Args: UninstallArgs(opts.Variant)},
		{Name: StepInstall, Path: pm, Args: InstallArgs(opts.Variant, opts.ForceReinstall, opts.Requirements)},
	}
}

// PatchStep returns the library path step when opts needs one.
// Directories are checked for existence when PatchStep is called, so it
// must run after the install step has placed the wheel libraries.
func (i *Installer) PatchStep(opts Options) (Step, bool) {
	if !NeedsPatch(opts) {
		return Step{}, false
	}
	dirs := libpath.Compute(opts.OS, opts.Environment.Prefix, opts.LibraryPath)
	slog.Debug("computed library search path", "var", libpath.Var(opts.OS), "dirs", dirs)
	return Step{
		Name: StepPatch,
		Path: i.runner.LookPath(i.environmentManager),
		Args: PatchArgs(opts.OS, dirs),
	}, true
}

// Plan returns every step Install would run, computed from the current filesystem.
func (i *Installer) Plan(opts Options) []Step {
	steps := i.InstallSteps(opts)
	if step, ok := i.PatchStep(opts); ok {
		steps = append(steps, step)
	}
	return steps
}

// Install runs the uninstall, install and, when needed, patch steps in order.
//
// Non-zero exits of the external tools are logged and do not stop the run:
// the uninstall step routinely fails when nothing is installed, and package
// manager failures are left for the user to read in the streamed output.
// A tool that cannot be started at all aborts the run with an InstallError.
func (i *Installer) Install(ctx context.Context, opts Options) error {
	for _, step := range i.InstallSteps(opts) {
		if err := i.execute(ctx, step); err != nil {
			return err
		}
	}

	step, ok := i.PatchStep(opts)
	if !ok {
		return nil
	}
	return i.execute(ctx, step)
}

func (i *Installer) execute(ctx context.Context, step Step) error {
	slog.Info("running step", "step", step.Name, "command", step.String())

	err := i.runner.Run(ctx, step.Path, step.Args...)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if code, ok := command.ExitCode(err); ok {
		slog.Warn("command exited with non-zero status", "step", step.Name, "code", code)
		return nil
	}
	return fferrors.NewLaunchError(step.Name, step.Path, err)
}
