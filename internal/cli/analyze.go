package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-proxy/internal/cli/render"
	"github.com/trebuchet-org/treb-proxy/internal/domain"
	"github.com/trebuchet-org/treb-proxy/internal/usecase"
)

// NewAnalyzeCmd creates the analyze command
func NewAnalyzeCmd() *cobra.Command {
	var pick bool

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Detect the proxy pattern of a source file",
		Long: `Build the project, classify the upgradeable-proxy pattern of a source file
and list the proxy actions available for each of its contracts.

With --pick, choose a contract and an action and run it straight away.`,
		Example: `  # Show proxy options for a contract file
  treb-proxy analyze src/Token.sol

  # Machine readable output
  treb-proxy analyze src/Token.sol --json

  # Choose a contract and action interactively
  treb-proxy analyze src/Token.sol --pick --network sepolia`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			analysis, err := app.AnalyzeProxyFile.Run(ctx, usecase.AnalyzeProxyFileParams{File: args[0]})
			if err != nil {
				return err
			}

			if err := render.NewAnalysisRenderer(cmd.OutOrStdout(), app.Config.Format).Render(analysis); err != nil {
				return err
			}

			if !pick || analysis.Classification.Kind != domain.PatternUUPS {
				return nil
			}
			if app.Config.NonInteractive {
				return fmt.Errorf("--pick requires interactive mode")
			}

			name, err := app.ResolveContract.Run(ctx, analysis, "")
			if err != nil {
				return err
			}
			action, err := SelectAction(analysis.Options[name].Options, fmt.Sprintf("What do you want to do with %s?", name))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout())
			switch action.Title {
			case domain.ActionDeployWithProxy:
				return runDeploy(cmd, app, analysis, name, deployOptions{})
			case domain.ActionUpgradeWithProxy:
				return runUpgrade(cmd, app, analysis, name, upgradeOptions{})
			default:
				return fmt.Errorf("unknown action %q", action.Title)
			}
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "Pick a contract and action to run after the analysis")

	return cmd
}
