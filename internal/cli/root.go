package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-proxy/internal/adapters/progress"
	"github.com/trebuchet-org/treb-proxy/internal/app"
	"github.com/trebuchet-org/treb-proxy/internal/config"
	"github.com/trebuchet-org/treb-proxy/internal/logging"
	"github.com/trebuchet-org/treb-proxy/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treb-proxy",
		Short: "Detect, deploy and upgrade UUPS proxies in Foundry projects",
		Long: `treb-proxy inspects the solc AST of a contract to find OpenZeppelin
upgradeable patterns, then composes and sends ERC1967Proxy deployments and
UUPS upgrades for eligible contracts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd.Name()) {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd.Flags())

			appInstance, err := app.InitApp(v, newProgressSink(v))
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.Bool("debug", false, "Enable debug output")
	flags.Bool("non-interactive", false, "Disable interactive prompts")
	flags.Bool("json", false, "Output in JSON format")
	flags.String("format", "table", "Output format (table, json, yaml)")
	flags.StringP("network", "n", "", "Network from foundry.toml [rpc_endpoints] or an RPC URL")
	flags.Uint64("chain-id", 0, "Expected chain ID (read from the node when unset)")
	flags.String("private-key", "", "Private key used to sign transactions (prefer TREB_PRIVATE_KEY)")
	flags.String("profile", "default", "Foundry profile")
	flags.Duration("timeout", 0, "Abort after this long (default 5m)")
	flags.Bool("dry-run", false, "Compose transactions without sending them")
	flags.Bool("no-build", false, "Skip forge build and use the existing build-info")
	flags.String("proxy-artifact", "", "Path to the compiled ERC1967Proxy artifact")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "proxy",
		Title: "Proxy Commands",
	})

	for _, cmd := range []*cobra.Command{
		NewAnalyzeCmd(),
		NewDeployCmd(),
		NewUpgradeCmd(),
		NewHistoryCmd(),
	} {
		cmd.GroupID = "proxy"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func skipsApp(name string) bool {
	switch name {
	case "version", "help", "completion", "__complete":
		return true
	}
	return false
}

// newProgressSink picks a spinner for terminals and the logger otherwise
func newProgressSink(v *viper.Viper) usecase.ProgressSink {
	if v.GetBool("json") || v.GetBool("non_interactive") || v.GetString("format") != "table" {
		return progress.NewLogSink(logging.NewLogger(&config.RuntimeConfig{Debug: v.GetBool("debug")}))
	}
	return progress.NewSpinnerProgressReporter()
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
