package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ghmine/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ghmine/internal/core/domain"
	"github.com/custodia-labs/ghmine/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change extraction settings",
	Long: `View and configure the settings stored in the config file.

Keys:
  fetch_bound          rows to extract (default 5)
  per_page             API page size, 1-100 (default 30)
  base_branch          base branch of listed pull requests (default master)
  pr_state             pull request state filter (default all)
  issue_state          issue state filter (default closed)
  requests_per_second  request throttle, 0 disables (default 1.2)
  delimiter            single character column delimiter (default BEL)
  timeout_seconds      HTTP request timeout (default 30)
  max_retries          retries of transient failures (default 3)
  api_url              REST endpoint for GitHub Enterprise`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting in the config file",
	Example: `  ghmine config set fetch_bound 20
  ghmine config set delimiter ";"
  ghmine config set -- requests_per_second -1`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := file.NewConfigStore(configPath)
		if err != nil {
			return err
		}
		cmd.Println(store.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	s, applyErr := services.ApplyConfig(domain.DefaultSettings(), store)

	cmd.Printf("Config file: %s\n\n", store.Path())
	cmd.Printf("  %-20s %d\n", services.KeyFetchBound, s.FetchBound)
	cmd.Printf("  %-20s %d\n", services.KeyPerPage, s.PerPage)
	cmd.Printf("  %-20s %q\n", services.KeyBaseBranch, s.BaseBranch)
	cmd.Printf("  %-20s %s\n", services.KeyPRState, s.PRState)
	cmd.Printf("  %-20s %s\n", services.KeyIssueState, s.IssueState)
	cmd.Printf("  %-20s %g\n", services.KeyRequestsPerSecond, s.RequestsPerSecond)
	cmd.Printf("  %-20s %q\n", services.KeyDelimiter, s.Delimiter)
	cmd.Printf("  %-20s %d\n", services.KeyTimeoutSeconds, int(s.Timeout.Seconds()))
	cmd.Printf("  %-20s %d\n", services.KeyMaxRetries, s.MaxRetries)
	if s.APIURL != "" {
		cmd.Printf("  %-20s %s\n", services.KeyAPIURL, s.APIURL)
	}

	if applyErr != nil {
		cmd.Printf("\nWarning: ignored invalid values: %v\n", applyErr)
	}
	if err := s.Validate(); err != nil {
		cmd.Printf("\nWarning: %v\n", err)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]
	value, err := parseConfigValue(key, raw)
	if err != nil {
		return err
	}

	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Reject values that would make every later run fail. Other keys are
	// not checked, so a broken file can be repaired one key at a time.
	trial, err := services.ApplyConfig(domain.DefaultSettings(), singleValueStore{key: key, value: value})
	if err != nil {
		return err
	}
	if err := trial.Validate(); err != nil {
		return err
	}

	if err := store.Set(key, value); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	cmd.Printf("%s set to %v\n", key, raw)
	return nil
}

// parseConfigValue converts raw to the type stored for key.
func parseConfigValue(key, raw string) (any, error) {
	switch key {
	case services.KeyFetchBound, services.KeyPerPage, services.KeyTimeoutSeconds, services.KeyMaxRetries:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		return n, nil
	case services.KeyRequestsPerSecond:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		return f, nil
	case services.KeyBaseBranch, services.KeyPRState, services.KeyIssueState, services.KeyDelimiter, services.KeyAPIURL:
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: unknown key %q", domain.ErrInvalidInput, key)
	}
}

// singleValueStore is a read-only ConfigStore holding one key.
type singleValueStore struct {
	key   string
	value any
}

func (s singleValueStore) Get(key string) (any, bool) {
	if key != s.key {
		return nil, false
	}
	return s.value, true
}

func (s singleValueStore) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

func (s singleValueStore) GetInt(key string) int {
	v, _ := s.Get(key)
	n, _ := v.(int64)
	return int(n)
}

func (s singleValueStore) GetFloat(key string) float64 {
	v, _ := s.Get(key)
	switch f := v.(type) {
	case float64:
		return f
	case int64:
		return float64(f)
	}
	return 0
}

func (s singleValueStore) Load() error  { return nil }
func (s singleValueStore) Path() string { return "" }
