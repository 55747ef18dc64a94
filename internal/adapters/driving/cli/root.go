// Package cli implements the ghmine command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ghmine/internal/adapters/driven/auth"
	"github.com/custodia-labs/ghmine/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ghmine/internal/adapters/driven/csvsink"
	"github.com/custodia-labs/ghmine/internal/adapters/driven/progress"
	"github.com/custodia-labs/ghmine/internal/connectors/github"
	"github.com/custodia-labs/ghmine/internal/core/domain"
	"github.com/custodia-labs/ghmine/internal/core/ports/driven"
	"github.com/custodia-labs/ghmine/internal/core/ports/driving"
	"github.com/custodia-labs/ghmine/internal/core/services"
	"github.com/custodia-labs/ghmine/internal/logger"
)

var version = "dev"

// Flags.
var (
	prMode     bool
	commitMode bool
	fetchBound int
	baseBranch string
	noProgress bool
	configPath string
	verbose    bool
)

// runConfig is everything needed to build the extraction pipeline.
type runConfig struct {
	Repo     string
	AuthFile string
	Output   string
	Mode     domain.OutputMode
	Settings domain.Settings
	Progress driven.Progress
}

// extractorFactory builds the pipeline for a run. Tests replace it.
var extractorFactory = newExtractor

var rootCmd = &cobra.Command{
	Use:   "ghmine [flags] <repo_name> <auth_file> <output_file_name>",
	Short: "Extract GitHub pull requests, issues and commits into a delimited file",
	Long: `ghmine reads the first N pull requests of a GitHub repository (oldest
first), the last commit of each, and in pr mode the first N closed issues, and
writes them as aligned rows to a delimited text file.

  repo_name         repository as owner/repo
  auth_file         text file: username on line 1, access token on line 2
  output_file_name  destination file, replaced if it exists

Commit mode (default) writes one row per pull request describing its last
commit and changed files. PR mode writes pull request, issue and commit
details side by side. Missing values are written as " =||= ".

Rate limits are waited out automatically.`,
	Args:          cobra.ExactArgs(3),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	RunE: runExtract,
}

func init() {
	flags := rootCmd.Flags()
	flags.BoolVarP(&prMode, "pr", "p", false, "write pull request, issue and commit details")
	flags.BoolVarP(&commitMode, "commit", "c", false, "write last-commit and file details (default)")
	rootCmd.MarkFlagsMutuallyExclusive("pr", "commit")
	flags.IntVarP(&fetchBound, "limit", "n", domain.DefaultFetchBound, "number of rows to extract")
	flags.StringVar(&baseBranch, "base", domain.DefaultBaseBranch, "base branch of listed pull requests (empty for any)")
	flags.BoolVar(&noProgress, "no-progress", false, "disable progress bars")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.ghmine/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log API calls and remaining quota")
}

// Execute runs the root command. Interrupts cancel the run.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func runExtract(cmd *cobra.Command, args []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	mode := domain.ModeCommit
	if prMode {
		mode = domain.ModePR
	}

	run := runConfig{
		Repo:     args[0],
		AuthFile: args[1],
		Output:   args[2],
		Mode:     mode,
		Settings: settings,
		Progress: progress.ForFile(os.Stderr, !noProgress),
	}

	extractor, err := extractorFactory(run)
	if err != nil {
		return err
	}

	result, err := extractor.Extract(cmd.Context(), driving.ExtractRequest{
		Mode:       mode,
		FetchBound: settings.FetchBound,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errors.New("interrupted")
		}
		return fmt.Errorf("extract %s: %w", run.Repo, err)
	}

	cmd.Printf("Wrote %d rows (%s mode) to %s [run %s]\n", result.Rows, result.Mode, run.Output, result.RunID)
	return nil
}

// resolveSettings layers defaults, the config file and explicit flags.
func resolveSettings(cmd *cobra.Command) (domain.Settings, error) {
	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load config: %w", err)
	}

	settings, err := services.ApplyConfig(domain.DefaultSettings(), store)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("config %s: %w", store.Path(), err)
	}
	if cmd.Flags().Changed("limit") {
		settings.FetchBound = fetchBound
	}
	if cmd.Flags().Changed("base") {
		settings.BaseBranch = baseBranch
	}

	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}
	logger.Debug("Config: %s", store.Path())
	return settings, nil
}

// newExtractor wires the GitHub connector, the file sink and the services.
func newExtractor(run runConfig) (driving.Extractor, error) {
	cfg, err := github.NewConfig(run.Repo, run.Settings)
	if err != nil {
		return nil, err
	}
	// List responses omit the comment count pr mode writes.
	cfg.PullRequestDetails = run.Mode == domain.ModePR

	sink, err := csvsink.New(run.Output, run.Settings.Delimiter)
	if err != nil {
		return nil, err
	}

	connector := github.New(cfg, auth.NewFileTokenProvider(run.AuthFile))
	return services.NewExtractionService(connector, connector, sink, run.Progress), nil
}
