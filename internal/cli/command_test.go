package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"logkeeper/internal/config"
	log_records_managing "logkeeper/internal/features/log_records/managing"
	log_records_testing "logkeeper/internal/features/log_records/testing"

	"github.com/klauspost/compress/zstd"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ExpandPatterns_WithRecursiveGlob_ReturnsSortedDistinctFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.log"), "x")
	writeFile(t, filepath.Join(dir, "nested", "deeper", "a.log"), "x")
	writeFile(t, filepath.Join(dir, "nested", "skip.txt"), "x")

	files, err := ExpandPatterns([]string{
		filepath.Join(dir, "**", "*.log"),
		filepath.Join(dir, "b.log"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "b.log"),
		filepath.Join(dir, "nested", "deeper", "a.log"),
	}, files)
}

func Test_ExpandPatterns_WhenNothingMatches_ReturnsError(t *testing.T) {
	_, err := ExpandPatterns([]string{filepath.Join(t.TempDir(), "*.log")})

	assert.ErrorContains(t, err, "no files match")
}

func Test_RootCommand_WithPipeFiles_ImportsEveryFileAndPrintsSummaries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "2019", "day1.log"), strings.Join([]string{
		`2019-01-01 00:00:11.763|192.168.234.82|"GET / HTTP/1.1"|200|"curl/7.0"`,
		`2019-01-01 00:00:21.164|192.168.169.194|"GET / HTTP/1.1"|200|"curl/7.0"`,
	}, "\n"))
	writeFile(t, filepath.Join(dir, "2019", "day2.log"), compressZstd(t,
		`2019-01-02 00:00:01.000|192.168.1.1|"GET /a HTTP/1.1"|404|"curl/7.0"`,
	))

	store := log_records_testing.NewMemoryLogRecordStore()
	var usedOptions ImportOptions

	cmd := NewRootCommand(memoryImporterFactory(t, store, &usedOptions), ImportOptions{Format: "pipe"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{filepath.Join(dir, "**", "*.log"), "--timeout", "1m"})

	require.NoError(t, cmd.Execute())

	assert.Equal(t, time.Minute, usedOptions.Timeout)
	assert.Contains(t, out.String(), "day1.log")
	assert.Contains(t, out.String(), "2 imported")
	assert.Contains(t, out.String(), "day2.log")
	assert.Contains(t, out.String(), "1 imported")

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func Test_RootCommand_WithInvalidLinesAndJSONOutput_ReportsFailures(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.log")
	writeFile(t, path, strings.Join([]string{
		`2019-01-01 00:00:11.763|10.0.0.1|GET /|200|curl/7.0`,
		`not enough fields`,
	}, "\n"))

	store := log_records_testing.NewMemoryLogRecordStore()
	cmd := NewRootCommand(memoryImporterFactory(t, store, nil), ImportOptions{Format: "pipe"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{path, "-o", "json"})

	err := cmd.Execute()
	assert.ErrorIs(t, err, ErrImportHadFailures)

	var line struct {
		Path    string                             `json:"path"`
		Summary log_records_managing.ImportSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &line))

	assert.Equal(t, path, line.Path)
	assert.Equal(t, 1, line.Summary.Succeeded)
	assert.Equal(t, 1, line.Summary.Failed)
	assert.Equal(t, 2, line.Summary.Errors[0].Position)
}

func Test_RootCommand_WithJSONLinesFormatFlag_UsesThatFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.jsonl")
	writeFile(t, path, `{"occurredAt":"2024-01-01T00:00:00Z","request":"GET /","userAgent":"curl","ip":"10.0.0.1"}`)

	store := log_records_testing.NewMemoryLogRecordStore()
	cmd := NewRootCommand(memoryImporterFactory(t, store, nil), ImportOptions{Format: "pipe"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{path, "--format", "jsonl", "--atomic"})

	require.NoError(t, cmd.Execute())

	count, _ := store.Count(context.Background())
	assert.Equal(t, int64(1), count)
}

func Test_RootCommand_WithoutArguments_ReturnsUsageError(t *testing.T) {
	cmd := NewRootCommand(memoryImporterFactory(t, log_records_testing.NewMemoryLogRecordStore(), nil), ImportOptions{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	assert.Error(t, cmd.Execute())
}

func memoryImporterFactory(
	t *testing.T,
	store *log_records_testing.MemoryLogRecordStore,
	usedOptions *ImportOptions,
) ImporterFactory {
	return func(options ImportOptions) (ContentImporter, error) {
		if usedOptions != nil {
			*usedOptions = options
		}

		env := config.EnvVariables{
			ImportLineFormat:     options.Format,
			ImportMaxPayloadMB:   1,
			ImportIsAtomic:       options.IsAtomic,
			ImportTimeout:        options.Timeout,
			DateSlashOrder:       "DMY",
			DateIsZeroBasedMonth: true,
			DateEmptyPolicy:      config.DateEmptyPolicyNow,
		}

		service, err := log_records_managing.NewLogRecordServiceFromConfig(env, store)
		require.NoError(t, err)

		return service, nil
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func compressZstd(t *testing.T, content string) string {
	t.Helper()

	encoder, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer encoder.Close()

	return string(encoder.EncodeAll([]byte(content), nil))
}
