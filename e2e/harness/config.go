package harness

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment keys read by LoadConfig.
const (
	EnvUseBuild      = "ARELLE_USE_BUILD"
	EnvAppPath       = "ARELLE_PATH"
	EnvResourcesPath = "ARELLE_RESOURCES_PATH"
	EnvPythonExe     = "ARELLE_PYTHON_EXE"
	EnvEntryScript   = "ARELLE_ENTRY_SCRIPT"
	EnvSourceRoot    = "ARELLE_SOURCE_ROOT"
	EnvProgramFiles  = "ProgramFiles"
	EnvDriver        = "UIPROBE_DRIVER"
	EnvWebDriverURL  = "UIPROBE_WEBDRIVER_URL"
	EnvLogLevel      = "UIPROBE_LOG_LEVEL"
	EnvLaunchPTY     = "UIPROBE_LAUNCH_PTY"
	EnvConfigFile    = "UIPROBE_CONFIG"
)

// DefaultSourceRoot is the checkout root assumed when ARELLE_SOURCE_ROOT is unset.
const DefaultSourceRoot = "."

// DefaultWebDriverURL is where a local WinAppDriver listens.
const DefaultWebDriverURL = "http://127.0.0.1:4723"

// Config is built once at startup and passed down by value. Nothing below
// LoadConfig reads the environment.
type Config struct {
	// UseBuild selects a packaged build instead of a source checkout.
	UseBuild bool `yaml:"use_build"`
	// AppPath overrides the checkout (source) or install directory (build).
	AppPath string `yaml:"app_path"`
	// ResourcesPath overrides the test resource root. Required for builds.
	ResourcesPath string `yaml:"resources_path"`
	PythonExe     string `yaml:"python_exe"`
	EntryScript   string `yaml:"entry_script"`
	SourceRoot    string `yaml:"source_root"`
	ProgramFiles  string `yaml:"program_files"`
	// Platform is a GOOS value; it picks executable and virtualenv layouts.
	Platform string `yaml:"platform"`

	Driver       string `yaml:"driver"`
	WebDriverURL string `yaml:"webdriver_url"`
	LogLevel     string `yaml:"log_level"`
	LaunchPTY    bool   `yaml:"launch_pty"`
}

// DefaultConfig returns the built-in defaults for the current platform.
func DefaultConfig() Config {
	return Config{
		SourceRoot:   DefaultSourceRoot,
		ProgramFiles: defaultProgramFiles(runtime.GOOS),
		Platform:     runtime.GOOS,
		WebDriverURL: DefaultWebDriverURL,
		LogLevel:     "debug",
	}
}

func defaultProgramFiles(goos string) string {
	if goos == "windows" {
		return `C:\Program Files`
	}
	return "/opt"
}

// LoadConfig layers defaults, an optional YAML file and the environment, in
// that order. path may be empty, in which case UIPROBE_CONFIG is consulted.
// getenv is usually os.Getenv; empty values count as unset.
func LoadConfig(getenv func(string) string, path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = getenv(EnvConfigFile)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, &ConfigError{Key: EnvConfigFile, Reason: err.Error()}
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, &ConfigError{Key: EnvConfigFile, Reason: fmt.Sprintf("parsing %s: %v", path, err)}
		}
	}

	if v := getenv(EnvUseBuild); v != "" {
		cfg.UseBuild = v == "true"
	}
	overrides := []struct {
		key string
		dst *string
	}{
		{EnvAppPath, &cfg.AppPath},
		{EnvResourcesPath, &cfg.ResourcesPath},
		{EnvPythonExe, &cfg.PythonExe},
		{EnvEntryScript, &cfg.EntryScript},
		{EnvSourceRoot, &cfg.SourceRoot},
		{EnvProgramFiles, &cfg.ProgramFiles},
		{EnvDriver, &cfg.Driver},
		{EnvWebDriverURL, &cfg.WebDriverURL},
		{EnvLogLevel, &cfg.LogLevel},
	}
	for _, s := range overrides {
		if v := getenv(s.key); v != "" {
			*s.dst = v
		}
	}
	if v := getenv(EnvLaunchPTY); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, &ConfigError{Key: EnvLaunchPTY, Reason: fmt.Sprintf("not a boolean: %q", v)}
		}
		cfg.LaunchPTY = b
	}

	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, &ConfigError{Key: EnvLogLevel, Reason: err.Error()}
	}
	return cfg, nil
}
