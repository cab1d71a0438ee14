package main

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/arelle/uiprobe/e2e/harness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractArgs(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		facts    string
		concepts string
		cols     string
		want     []string
		wantErr  bool
	}{
		{
			name:  "Fact list with default columns",
			in:    "doc.htm",
			facts: "facts.csv",
			want:  []string{"--file", "doc.htm", "--facts", "facts.csv", "--factListCols", DefaultFactListCols},
		},
		{
			name:  "Fact list with custom columns",
			in:    "doc.htm",
			facts: "facts.csv",
			cols:  "Label Value",
			want:  []string{"--file", "doc.htm", "--facts", "facts.csv", "--factListCols", "Label Value"},
		},
		{
			name:     "Concept list",
			in:       "doc.htm",
			concepts: "concepts.csv",
			want:     []string{"--file", "doc.htm", "--concepts", "concepts.csv"},
		},
		{
			name:    "Missing input",
			facts:   "facts.csv",
			wantErr: true,
		},
		{
			name:    "No mode",
			in:      "doc.htm",
			wantErr: true,
		},
		{
			name:     "Both modes",
			in:       "doc.htm",
			facts:    "facts.csv",
			concepts: "concepts.csv",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractArgs(tt.in, tt.facts, tt.concepts, tt.cols)
			if (err != nil) != tt.wantErr {
				t.Errorf("extractArgs() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRunToolPassesExitStatus(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	var out bytes.Buffer
	code, err := runTool("sh", []string{"-c", "echo extracted; exit 3"}, &out, &out)
	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Equal(t, "extracted\n", out.String())

	_, err = runTool(filepath.Join(t.TempDir(), "missing"), nil, &out, &out)
	assert.Error(t, err)
}

func TestPlanCommand(t *testing.T) {
	resources := t.TempDir()
	t.Setenv(harness.EnvUseBuild, "true")
	t.Setenv(harness.EnvResourcesPath, resources)
	t.Setenv(harness.EnvAppPath, "/opt/Arelle")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"plan"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "build run\n"))
	assert.Contains(t, out.String(), resources)
}

func TestLoadConfigDefaultsDriver(t *testing.T) {
	t.Setenv(harness.EnvDriver, "")
	cfg, err := loadConfig(planCmd)
	require.NoError(t, err)
	assert.Equal(t, "webdriver", cfg.Driver)
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "uiprobe version dev\n", out.String())
}
