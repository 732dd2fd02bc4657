package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func readJSONLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var lines []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		lines = append(lines, line)
	}
	return lines
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{name: "default", cfg: DefaultConfig()},
		{name: "json to stderr", cfg: &Config{Level: "warn", Format: "json", Output: "stderr"}},
		{name: "sampled", cfg: &Config{Format: "json", Sampling: true}},
		{name: "file without path", cfg: &Config{Output: "file"}, wantErr: true},
		{name: "stdout+file without path", cfg: &Config{Output: "stdout+file"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
			assert.NotEmpty(t, tt.cfg.TimeFormat)
		})
	}
}

func TestNew_TeesExtraCores(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	logger, err := New(&Config{Level: "error", Format: "json", Output: "stderr"}, core)
	require.NoError(t, err)
	logger.Info("exported")

	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "exported", recorded.All()[0].Message)
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assetdesk.log")

	logger, err := New(&Config{
		Format:     "json",
		Output:     "file",
		FilePath:   path,
		MaxSizeMB:  1,
		MaxBackups: 2,
		Fields:     map[string]string{"service": "assetdesk", "env": "test"},
	})
	require.NoError(t, err)

	logger.Info("file linked", zap.String("team_id", "t1"))
	require.NoError(t, logger.Sync())

	lines := readJSONLines(t, path)
	require.Len(t, lines, 1)
	assert.Equal(t, "file linked", lines[0]["msg"])
	assert.Equal(t, "t1", lines[0]["team_id"])
	assert.Equal(t, "assetdesk", lines[0]["service"])
	assert.Equal(t, "test", lines[0]["env"])
}

func TestNew_SamplingDropsRepeats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sampled.log")
	logger, err := New(&Config{Format: "json", Output: "file", FilePath: path, Sampling: true})
	require.NoError(t, err)

	for i := 0; i < 250; i++ {
		logger.Warn("upload rejected")
	}
	require.NoError(t, logger.Sync())

	lines := readJSONLines(t, path)
	assert.Less(t, len(lines), 250)
	assert.GreaterOrEqual(t, len(lines), 100)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"DEBUG":   zapcore.DebugLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestCreateEncoder_FileOutputHasNoColor(t *testing.T) {
	for _, output := range []string{"file", "stdout+file"} {
		var buf bytes.Buffer
		enc := createEncoder(&Config{Format: "console", Output: output, TimeFormat: DefaultConfig().TimeFormat})
		zap.New(zapcore.NewCore(enc, zapcore.AddSync(&buf), zapcore.InfoLevel)).Info("plain")

		assert.NotContains(t, buf.String(), "\x1b[", output)
		assert.Contains(t, buf.String(), "info", output)
	}
}

func TestSync(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	assert.NoError(t, Sync(zap.New(core)))
}
