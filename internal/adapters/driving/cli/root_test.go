package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ghmine/internal/adapters/driven/progress"
	"github.com/custodia-labs/ghmine/internal/core/domain"
	"github.com/custodia-labs/ghmine/internal/core/ports/driving"
)

// fakeExtractor implements driving.Extractor for testing.
type fakeExtractor struct {
	req    driving.ExtractRequest
	called bool
	err    error
}

func (f *fakeExtractor) Extract(_ context.Context, req driving.ExtractRequest) (*driving.ExtractResult, error) {
	f.called = true
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &driving.ExtractResult{RunID: "run-1", Mode: req.Mode, Rows: req.FetchBound}, nil
}

// useFakeExtractor replaces the pipeline factory and records the run config.
func useFakeExtractor(t *testing.T, fx *fakeExtractor) *runConfig {
	t.Helper()
	var captured runConfig
	old := extractorFactory
	extractorFactory = func(run runConfig) (driving.Extractor, error) {
		captured = run
		return fx, nil
	}
	t.Cleanup(func() { extractorFactory = old })
	return &captured
}

// execute runs the root command with fresh flag state and an isolated config.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, fs := range []*pflag.FlagSet{rootCmd.Flags(), rootCmd.PersistentFlags()} {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}

	hasConfig := false
	for _, a := range args {
		if strings.HasPrefix(a, "--config") {
			hasConfig = true
		}
	}
	if !hasConfig {
		args = append(args, "--config", filepath.Join(t.TempDir(), "none.toml"))
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRootCmd_DefaultsToCommitMode(t *testing.T) {
	fx := &fakeExtractor{}
	run := useFakeExtractor(t, fx)

	out, err := execute(t, "o/r", "auth.txt", "out.csv", "--no-progress")

	require.NoError(t, err)
	assert.True(t, fx.called)
	assert.Equal(t, domain.ModeCommit, fx.req.Mode)
	assert.Equal(t, domain.DefaultFetchBound, fx.req.FetchBound)
	assert.Equal(t, "o/r", run.Repo)
	assert.Equal(t, "auth.txt", run.AuthFile)
	assert.Equal(t, "out.csv", run.Output)
	assert.Equal(t, domain.DefaultBaseBranch, run.Settings.BaseBranch)
	assert.Equal(t, progress.Nop{}, run.Progress)
	assert.Contains(t, out, "Wrote 5 rows (commit mode) to out.csv [run run-1]")
}

func TestRootCmd_Modes(t *testing.T) {
	tests := []struct {
		name string
		flag string
		want domain.OutputMode
	}{
		{name: "short pr", flag: "-p", want: domain.ModePR},
		{name: "long pr", flag: "--pr", want: domain.ModePR},
		{name: "short commit", flag: "-c", want: domain.ModeCommit},
		{name: "long commit", flag: "--commit", want: domain.ModeCommit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := &fakeExtractor{}
			run := useFakeExtractor(t, fx)

			_, err := execute(t, tt.flag, "o/r", "auth.txt", "out.csv")

			require.NoError(t, err)
			assert.Equal(t, tt.want, fx.req.Mode)
			assert.Equal(t, tt.want, run.Mode)
		})
	}
}

func TestRootCmd_ModesAreExclusive(t *testing.T) {
	fx := &fakeExtractor{}
	useFakeExtractor(t, fx)

	_, err := execute(t, "-p", "-c", "o/r", "auth.txt", "out.csv")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
	assert.False(t, fx.called)
}

func TestRootCmd_RequiresThreeArgs(t *testing.T) {
	fx := &fakeExtractor{}
	useFakeExtractor(t, fx)

	for _, args := range [][]string{{}, {"o/r"}, {"o/r", "auth.txt"}, {"o/r", "a", "b", "c"}} {
		_, err := execute(t, args...)
		assert.Error(t, err, "args %v", args)
	}
	assert.False(t, fx.called)
}

func TestRootCmd_SettingsLayering(t *testing.T) {
	cfg := writeFile(t, "config.toml", "fetch_bound = 12\nbase_branch = \"develop\"\nper_page = 50\n")

	t.Run("config file overrides defaults", func(t *testing.T) {
		fx := &fakeExtractor{}
		run := useFakeExtractor(t, fx)

		_, err := execute(t, "--config", cfg, "o/r", "auth.txt", "out.csv")

		require.NoError(t, err)
		assert.Equal(t, 12, fx.req.FetchBound)
		assert.Equal(t, "develop", run.Settings.BaseBranch)
		assert.Equal(t, 50, run.Settings.PerPage)
	})

	t.Run("flags override config file", func(t *testing.T) {
		fx := &fakeExtractor{}
		run := useFakeExtractor(t, fx)

		_, err := execute(t, "--config", cfg, "-n", "3", "--base", "", "o/r", "auth.txt", "out.csv")

		require.NoError(t, err)
		assert.Equal(t, 3, fx.req.FetchBound)
		assert.Equal(t, "", run.Settings.BaseBranch)
	})
}

func TestRootCmd_InvalidSettings(t *testing.T) {
	fx := &fakeExtractor{}
	useFakeExtractor(t, fx)

	_, err := execute(t, "--limit=-1", "o/r", "auth.txt", "out.csv")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, fx.called)
}

func TestRootCmd_CorruptConfig(t *testing.T) {
	fx := &fakeExtractor{}
	useFakeExtractor(t, fx)
	cfg := writeFile(t, "config.toml", "not = [valid")

	_, err := execute(t, "--config", cfg, "o/r", "auth.txt", "out.csv")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestRootCmd_UnusableConfigValue(t *testing.T) {
	fx := &fakeExtractor{}
	useFakeExtractor(t, fx)
	cfg := writeFile(t, "config.toml", "timeout_seconds = -5\n")

	_, err := execute(t, "--config", cfg, "o/r", "auth.txt", "out.csv")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "timeout_seconds")
	assert.False(t, fx.called)
}

func TestRootCmd_ExtractError(t *testing.T) {
	t.Run("wraps failures with the repository", func(t *testing.T) {
		fx := &fakeExtractor{err: domain.ErrMisalignedExtraction}
		useFakeExtractor(t, fx)

		_, err := execute(t, "o/r", "auth.txt", "out.csv")

		assert.ErrorIs(t, err, domain.ErrMisalignedExtraction)
		assert.Contains(t, err.Error(), "extract o/r")
	})

	t.Run("reports interrupts plainly", func(t *testing.T) {
		fx := &fakeExtractor{err: fmt.Errorf("wait: %w", context.Canceled)}
		useFakeExtractor(t, fx)

		_, err := execute(t, "o/r", "auth.txt", "out.csv")

		require.Error(t, err)
		assert.Equal(t, "interrupted", err.Error())
	})
}

func TestNewExtractor(t *testing.T) {
	t.Run("rejects a bad repository name", func(t *testing.T) {
		_, err := newExtractor(runConfig{Repo: "nope", Output: "out.csv", Settings: domain.DefaultSettings()})
		assert.Error(t, err)
	})

	t.Run("rejects an empty output path", func(t *testing.T) {
		_, err := newExtractor(runConfig{Repo: "o/r", Settings: domain.DefaultSettings()})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("builds a pipeline", func(t *testing.T) {
		ex, err := newExtractor(runConfig{
			Repo: "o/r", AuthFile: "auth.txt", Output: "out.csv",
			Mode: domain.ModePR, Settings: domain.DefaultSettings(),
		})
		require.NoError(t, err)
		assert.NotNil(t, ex)
	})
}

// TestRootCmd_EndToEnd runs a commit mode extraction against a fake API.
func TestRootCmd_EndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"number":1,"user":{"login":"alice"}},{"number":2,"user":{"login":"bob"}}]`)
	})
	mux.HandleFunc("/repos/o/r/pulls/1/commits", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"sha":"aaa","commit":{"message":"fix","author":{"name":"Ann"},"committer":{"name":"Cal"}}}]`)
	})
	mux.HandleFunc("/repos/o/r/pulls/2/commits", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("/repos/o/r/commits/aaa", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"sha":"aaa","files":[{"filename":"a.go","patch":"@@ x","status":"modified",`+
			`"additions":1,"deletions":1,"changes":2}]}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := writeFile(t, "config.toml", fmt.Sprintf("api_url = %q\nrequests_per_second = 0\nmax_retries = 0\n", srv.URL))
	authFile := writeFile(t, "auth.txt", "octocat\ntoken\n")
	output := filepath.Join(t.TempDir(), "out.csv")

	out, err := execute(t, "--config", cfg, "--no-progress", "-n", "2", "o/r", authFile, output)

	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 rows (commit mode)")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\r\n"), "\r\n")
	require.Len(t, lines, 3)

	assert.Equal(t, strings.Join(domain.ModeCommit.Columns(), "\a"), lines[0])
	assert.Equal(t, strings.Join([]string{
		"Ann", "Cal", "1", "aaa", `"fix"`, "['a.go']", "@@ x, ", "1", "1", `"modified, "`, "2",
	}, "\a"), lines[1])

	s := domain.Sentinel
	assert.Equal(t, strings.Join([]string{s, s, "2", s, s, s, s, s, s, s, s}, "\a"), lines[2])
}

func TestExecute_Version(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "ghmine version test-version-1.0.0")
}

func TestRootCmd_ErrorsAreReturned(t *testing.T) {
	fx := &fakeExtractor{err: errors.New("boom")}
	useFakeExtractor(t, fx)

	out, err := execute(t, "o/r", "auth.txt", "out.csv")

	require.Error(t, err)
	assert.NotContains(t, out, "Usage:", "usage is silenced on run errors")
}
