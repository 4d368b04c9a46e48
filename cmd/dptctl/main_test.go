package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-dpt/internal/bridges/knx"
	"github.com/nerrad567/gray-logic-dpt/internal/dpt"
	"github.com/nerrad567/gray-logic-dpt/internal/dpt/export"
	"github.com/nerrad567/gray-logic-dpt/internal/infrastructure/config"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Flag variables are package-level and survive between executions.
	outputFormat = formatText
	groupAddress = ""
	familyFilter = 0
	exportFormat = string(export.FormatYAML)
	exportPath = ""
	configPath = ""
	unmappedOnly = false

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

// ─── version ────────────────────────────────────────────────────────

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dptctl dev (commit: unknown, built: unknown)\n", out)
}

// ─── decode ─────────────────────────────────────────────────────────

func TestDecodeCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "temperature",
			args: []string{"decode", "9.001", "0c33"},
			want: []string{"9.001 temperature", "value: 21.5 °C", "bytes: 0c33"},
		},
		{
			name: "alias and split prefixed bytes",
			args: []string{"decode", "DPST-1-1", "0x01"},
			want: []string{"1.001 switch", "value: on"},
		},
		{
			name: "date time over several arguments",
			args: []string{"decode", "19.001", "0x7C", "06", "0F", "CE", "1E", "23", "01", "80"},
			want: []string{"19.001", "bytes: 7c060fce1e230180"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestDecodeCommand_JSON(t *testing.T) {
	out, err := execute(t, "decode", "9.001", "0c33", "--format", "json")
	require.NoError(t, err)

	var got export.ValueEntry
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "9.001", got.DPT)
	assert.Equal(t, "21.5 °C", got.Text)
	assert.Equal(t, 21.5, got.Payload)
	assert.Equal(t, "0c33", got.Raw)
}

func TestDecodeCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"unknown type", []string{"decode", "9.999", "0c33"}, dpt.ErrNotFound},
		{"wrong length", []string{"decode", "9.001", "0c"}, dpt.ErrIncompatibleBytes},
		{"bad hex", []string{"decode", "9.001", "zz"}, nil},
		{"missing payload", []string{"decode", "9.001"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	got, err := parseHex([]string{"0x0C", "33"})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0C, 0x33}, got)

	got, err = parseHex([]string{"0X7c06"})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x7C, 0x06}, got)

	_, err = parseHex([]string{"abc"})
	assert.Error(t, err)
}

// ─── parse ──────────────────────────────────────────────────────────

func TestParseCommand(t *testing.T) {
	out, err := execute(t, "parse", "9.001", "21.5")
	require.NoError(t, err)
	assert.Contains(t, out, "value: 21.5 °C")
	assert.Contains(t, out, "bytes: 0c33")
	assert.NotContains(t, out, "telegram:")
}

func TestParseCommand_Telegram(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"parse", "1.001", "on", "--ga", "0/0/1"}, "telegram: 00010081"},
		{[]string{"parse", "9.001", "21.5", "--ga", "1/2/3"}, "telegram: 0a0300800c33"},
		{[]string{"parse", "5.001", "0x20", "--ga", "2/0/1"}, "telegram: 1001008020"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestParseCommand_YAML(t *testing.T) {
	out, err := execute(t, "parse", "20.102", "comfort", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "dpt: \"20.102\"")
	assert.Contains(t, out, "text: Comfort")
}

func TestParseCommand_Errors(t *testing.T) {
	_, err := execute(t, "parse", "1.001", "maybe")
	assert.ErrorIs(t, err, dpt.ErrIncompatibleSyntax)

	_, err = execute(t, "parse", "1.001", "on", "--ga", "99/0/0")
	assert.Error(t, err)

	_, err = execute(t, "parse", "1.001", "on", "--format", "cbor")
	assert.Error(t, err)

	_, err = execute(t, "parse", "1.001", "on", "--format", "toml")
	assert.ErrorIs(t, err, export.ErrUnknownFormat)
}

// ─── list ───────────────────────────────────────────────────────────

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, dpt.Default().Len()+1)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, out, "dpst-9-1,dpt-9")
}

func TestListCommand_Family(t *testing.T) {
	out, err := execute(t, "list", "--family", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "20.102")
	assert.NotContains(t, out, "9.001")

	_, err = execute(t, "list", "--family", "99")
	assert.Error(t, err)
}

// ─── export ─────────────────────────────────────────────────────────

func TestExportCommand_JSON(t *testing.T) {
	out, err := execute(t, "export", "--format", "json")
	require.NoError(t, err)

	var doc export.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc.Types, dpt.Default().Len())
}

func TestExportCommand_ToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.cbor")

	out, err := execute(t, "export", "--format", "cbor", "--out", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	var want bytes.Buffer
	require.NoError(t, export.Encode(&want, export.Catalog(dpt.Default()), export.FormatCBOR))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want.Bytes(), got)
}

func TestExportCommand_UnknownFormat(t *testing.T) {
	_, err := execute(t, "export", "--format", "xml")
	assert.ErrorIs(t, err, export.ErrUnknownFormat)
}

// ─── monitor ────────────────────────────────────────────────────────

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunMonitor_InvalidConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := runMonitor(ctx, "/nonexistent/path/dptctl.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestRunMonitor_MissingDatapoints(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "dptctl.yaml", `
mqtt:
  broker:
    host: "127.0.0.1"
    port: 1883
monitor:
  datapoints: `+filepath.Join(dir, "missing.yaml")+`
logging:
  level: error
`)

	err := runMonitor(context.Background(), cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading datapoints")
}

func TestRunMonitor_UnknownDatapointType(t *testing.T) {
	dir := t.TempDir()
	dpPath := writeFile(t, dir, "datapoints.yaml", `
datapoints:
  - address: 1/2/3
    dpt: "9.999"
`)
	cfgPath := writeFile(t, dir, "dptctl.yaml", `
mqtt:
  broker:
    host: "127.0.0.1"
monitor:
  datapoints: `+dpPath+`
logging:
  level: error
`)

	err := runMonitor(context.Background(), cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "building decoder")
}

func TestGetConfigPath(t *testing.T) {
	configPath = ""
	t.Setenv("DPTCTL_CONFIG", "")
	assert.Equal(t, defaultConfigPath, getConfigPath())

	t.Setenv("DPTCTL_CONFIG", "/etc/dptctl.yaml")
	assert.Equal(t, "/etc/dptctl.yaml", getConfigPath())

	configPath = "local.yaml"
	defer func() { configPath = "" }()
	assert.Equal(t, "local.yaml", getConfigPath())
}

// ─── seen ───────────────────────────────────────────────────────────

func TestSeenCommand(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "bus.db")
	cfgPath := writeFile(t, dir, "dptctl.yaml", `
mqtt:
  broker:
    host: "127.0.0.1"
database:
  path: `+dbPath+`
monitor:
  datapoints: datapoints.yaml
`)

	db, err := openDatabase(context.Background(), config.DatabaseConfig{Path: dbPath, BusyTimeout: 5})
	require.NoError(t, err)
	rec := knx.NewRecorder(db.DB)
	require.NoError(t, rec.Start())

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mapped := knx.NewWriteTelegram(knx.MustParseGroupAddress("1/2/3"), []byte{0x0C, 0x33}, false)
	mapped.Source, mapped.Timestamp = "1.1.5", now
	unmapped := knx.NewWriteTelegram(knx.MustParseGroupAddress("7/0/9"), []byte{0x01}, true)
	unmapped.Source, unmapped.Timestamp = "1.1.6", now
	rec.RecordTelegram(mapped, true)
	rec.RecordTelegram(unmapped, false)
	rec.Stop()
	require.NoError(t, db.Close())

	out, err := execute(t, "seen", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "ADDRESS")
	assert.Contains(t, out, "1/2/3")
	assert.Contains(t, out, "0c33")
	assert.Contains(t, out, "2026-03-01 12:00:00")
	assert.Contains(t, out, "7/0/9")

	out, err = execute(t, "seen", "--config", cfgPath, "--unmapped")
	require.NoError(t, err)
	assert.NotContains(t, out, "1/2/3")
	assert.Contains(t, out, "7/0/9")
}

func TestSeenCommand_EmptyDatabase(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "dptctl.yaml", `
database:
  path: `+filepath.Join(dir, "bus.db")+`
monitor:
  datapoints: datapoints.yaml
`)

	out, err := execute(t, "seen", "-c", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "No group addresses recorded.\n", out)
}

func TestSeenCommand_NoDatabase(t *testing.T) {
	cfgPath := writeFile(t, t.TempDir(), "dptctl.yaml", `
monitor:
  datapoints: datapoints.yaml
`)

	_, err := execute(t, "seen", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.path")
}
