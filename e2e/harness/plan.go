package harness

import (
	"fmt"
	"path/filepath"
)

const (
	entryScriptName   = "arelleGUI.pyw"
	builtExecutable   = "arelleGUI"
	resourcesRelative = "tests/integration_tests/ui_tests/resources"
	installDirName    = "Arelle"
)

// LaunchCommand is an executable plus at most one argument.
type LaunchCommand struct {
	Path string
	Arg  string
}

// Args returns the argument list for exec.
func (c LaunchCommand) Args() []string {
	if c.Arg == "" {
		return nil
	}
	return []string{c.Arg}
}

func (c LaunchCommand) String() string {
	if c.Arg == "" {
		return c.Path
	}
	return c.Path + " " + c.Arg
}

// Plan is the resolved launch strategy: a *SourceRun or a *BuiltRun.
type Plan interface {
	Command() LaunchCommand
	Resources() string
	plan()
}

// SourceRun launches the entry script of a source checkout through an
// interpreter. When UsesIsolatedEnvironment is set the interpreter is a
// virtualenv shim and the UI lives in a child process.
type SourceRun struct {
	InterpreterPath         string
	EntryScriptPath         string
	ResourceRoot            string
	UsesIsolatedEnvironment bool
}

func (*SourceRun) plan() {}

func (p *SourceRun) Command() LaunchCommand {
	return LaunchCommand{Path: p.InterpreterPath, Arg: p.EntryScriptPath}
}

func (p *SourceRun) Resources() string { return p.ResourceRoot }

// BuiltRun launches a packaged executable, which hosts the UI itself.
type BuiltRun struct {
	InstallRoot    string
	ExecutablePath string
	ResourceRoot   string
}

func (*BuiltRun) plan() {}

func (p *BuiltRun) Command() LaunchCommand {
	return LaunchCommand{Path: p.ExecutablePath}
}

func (p *BuiltRun) Resources() string { return p.ResourceRoot }

// ResolvePlan turns configuration into a plan. It touches nothing outside
// its argument.
func ResolvePlan(cfg Config) (Plan, error) {
	if cfg.UseBuild {
		return resolveBuiltRun(cfg)
	}
	return resolveSourceRun(cfg), nil
}

func resolveSourceRun(cfg Config) *SourceRun {
	sourceRoot := cfg.SourceRoot
	if sourceRoot == "" {
		sourceRoot = DefaultSourceRoot
	}

	inTree := cfg.AppPath == ""
	appPath := cfg.AppPath
	if inTree {
		appPath = sourceRoot
	}

	interpreter := cfg.PythonExe
	if interpreter == "" {
		interpreter = venvInterpreter(appPath, cfg.Platform)
	}
	entry := cfg.EntryScript
	if entry == "" {
		entry = filepath.Join(appPath, entryScriptName)
	}
	resources := cfg.ResourcesPath
	if resources == "" {
		resources = filepath.Join(sourceRoot, filepath.FromSlash(resourcesRelative))
	}

	return &SourceRun{
		InterpreterPath:         interpreter,
		EntryScriptPath:         entry,
		ResourceRoot:            resources,
		UsesIsolatedEnvironment: inTree,
	}
}

func resolveBuiltRun(cfg Config) (*BuiltRun, error) {
	if cfg.ResourcesPath == "" {
		return nil, &ConfigError{Key: EnvResourcesPath, Reason: "must be specified for build runs"}
	}
	root := cfg.AppPath
	if root == "" {
		root = filepath.Join(cfg.ProgramFiles, installDirName)
	}
	return &BuiltRun{
		InstallRoot:    root,
		ExecutablePath: filepath.Join(root, executableName(builtExecutable, cfg.Platform)),
		ResourceRoot:   cfg.ResourcesPath,
	}, nil
}

func venvInterpreter(appPath, platform string) string {
	if platform == "windows" {
		return filepath.Join(appPath, "venv", "Scripts", "python.exe")
	}
	return filepath.Join(appPath, "venv", "bin", "python")
}

func executableName(base, platform string) string {
	if platform == "windows" {
		return base + ".exe"
	}
	return base
}

// DescribePlan renders a plan for humans.
func DescribePlan(p Plan) string {
	switch p := p.(type) {
	case *SourceRun:
		return fmt.Sprintf("source run\n  command:   %s\n  resources: %s\n  isolated:  %t\n",
			p.Command(), p.ResourceRoot, p.UsesIsolatedEnvironment)
	case *BuiltRun:
		return fmt.Sprintf("build run\n  install:   %s\n  command:   %s\n  resources: %s\n",
			p.InstallRoot, p.Command(), p.ResourceRoot)
	default:
		panic(fmt.Sprintf("unknown plan %T", p))
	}
}
