package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probekit/probekit/internal/config"
)

// resetGlobals gives each test a clean global state and restores the
// prior one afterwards.
func resetGlobals(t *testing.T) {
	t.Helper()
	oldPath, oldLevel, oldSet := cfgPath, logLevel, logLevelSet
	oldCfg, oldErr, oldLogLevel := cfg, cfgErr, log.GetLevel()
	t.Cleanup(func() {
		cfgPath, logLevel, logLevelSet = oldPath, oldLevel, oldSet
		cfg, cfgErr = oldCfg, oldErr
		log.SetLevel(oldLogLevel)
	})
	cfgPath, logLevel, logLevelSet = "", "info", false
	cfg, cfgErr = config.Default(), nil
}

func TestExtractGlobalFlags(t *testing.T) {
	cases := []struct {
		name      string
		args      []string
		wantRest  []string
		wantFound bool
		wantPath  string
		wantLevel string
	}{
		{
			name:      "LevelBeforeCommandFlags",
			args:      []string{"--log-level", "debug", "--check", "disk"},
			wantRest:  []string{"--check", "disk"},
			wantFound: true,
			wantLevel: "debug",
		},
		{
			name:      "LevelAfterCommandFlags",
			args:      []string{"--report", "--log-level", "debug"},
			wantRest:  []string{"--report"},
			wantFound: true,
			wantLevel: "debug",
		},
		{
			name:      "EqualsForm",
			args:      []string{"--config=/tmp/p.yaml", "--log-level=warning"},
			wantRest:  nil,
			wantFound: true,
			wantPath:  "/tmp/p.yaml",
			wantLevel: "warning",
		},
		{
			name:      "SingleDash",
			args:      []string{"-config", "/tmp/p.yaml"},
			wantRest:  nil,
			wantFound: true,
			wantPath:  "/tmp/p.yaml",
		},
		{
			name:     "NoGlobals",
			args:     []string{"--check", "disk", "--output", "json"},
			wantRest: []string{"--check", "disk", "--output", "json"},
		},
		{
			name:     "PositionalsUntouched",
			args:     []string{"list", "-n", "50"},
			wantRest: []string{"list", "-n", "50"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resetGlobals(t)

			rest, found, err := extractGlobalFlags(tc.args)
			require.NoError(t, err)
			assert.Equal(t, tc.wantRest, rest)
			assert.Equal(t, tc.wantFound, found)
			if tc.wantPath != "" {
				assert.Equal(t, tc.wantPath, cfgPath)
			}
			if tc.wantLevel != "" {
				assert.Equal(t, tc.wantLevel, logLevel)
				assert.True(t, logLevelSet)
			}
		})
	}
}

func TestExtractGlobalFlagsMissingValue(t *testing.T) {
	resetGlobals(t)

	_, _, err := extractGlobalFlags([]string{"--check", "disk", "--log-level"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--log-level requires a value")
}

func TestGlobalLogLevelReachesDispatchedCommand(t *testing.T) {
	resetGlobals(t)

	rest, found, err := extractGlobalFlags([]string{"--log-level", "debug", "--check", "disk"})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"--check", "disk"}, rest)

	require.NoError(t, applyGlobals("check"))
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestGlobalConfigReachesDispatchedCommand(t *testing.T) {
	resetGlobals(t)

	path := filepath.Join(t.TempDir(), "probekit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warning\noutput: json\n"), 0644))

	rest, found, err := extractGlobalFlags([]string{"--config", path, "--report"})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"--report"}, rest)

	require.NoError(t, applyGlobals("check"))
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
}

func TestBrokenConfigToleratedOnlyForDoctor(t *testing.T) {
	resetGlobals(t)

	path := filepath.Join(t.TempDir(), "probekit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_levle: debug\n"), 0644))

	cfgPath = path
	require.Error(t, applyGlobals("check"))

	resetGlobals(t)
	cfgPath = path
	require.NoError(t, applyGlobals("doctor"))
	assert.Error(t, cfgErr)
}
