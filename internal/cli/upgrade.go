package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-proxy/internal/app"
	"github.com/trebuchet-org/treb-proxy/internal/cli/render"
	"github.com/trebuchet-org/treb-proxy/internal/domain"
	"github.com/trebuchet-org/treb-proxy/internal/usecase"
)

type upgradeOptions struct {
	proxy   string
	impl    string
	call    string
	andCall bool
}

// NewUpgradeCmd creates the upgrade command
func NewUpgradeCmd() *cobra.Command {
	var opts upgradeOptions

	cmd := &cobra.Command{
		Use:   "upgrade <file> [contract]",
		Short: "Point a UUPS proxy at a new implementation",
		Long: `Send upgradeTo(newImplementation) to a UUPS proxy.

OpenZeppelin 5 proxies only expose upgradeToAndCall; use --and-call for
those, or --call to run a call on the new implementation in the same
transaction.`,
		Example: `  # Upgrade a proxy to TokenV2
  treb-proxy upgrade src/TokenV2.sol --proxy 0x5FbDB2315678afecb367f032d93F642f64180aa3 --impl 0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512 --network anvil

  # OpenZeppelin 5 proxy
  treb-proxy upgrade src/TokenV2.sol --proxy 0x5FbDB2315678afecb367f032d93F642f64180aa3 --impl 0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512 --and-call`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			analysis, err := app.AnalyzeProxyFile.Run(cmd.Context(), usecase.AnalyzeProxyFileParams{File: args[0]})
			if err != nil {
				return err
			}

			contract := ""
			if len(args) > 1 {
				contract = args[1]
			}
			return runUpgrade(cmd, app, analysis, contract, opts)
		},
	}

	cmd.Flags().StringVar(&opts.proxy, "proxy", "", "Address of the proxy to upgrade")
	cmd.Flags().StringVar(&opts.impl, "impl", "", "Address of the new implementation")
	cmd.Flags().StringVar(&opts.call, "call", "", "Hex calldata to run on the new implementation (implies --and-call)")
	cmd.Flags().BoolVar(&opts.andCall, "and-call", false, "Use upgradeToAndCall")

	return cmd
}

func runUpgrade(cmd *cobra.Command, app *app.App, analysis *usecase.ProxyAnalysis, contract string, opts upgradeOptions) error {
	ctx := cmd.Context()

	name, err := resolveContract(cmd, app, analysis, contract)
	if err != nil {
		return err
	}

	descriptor, _ := analysis.Descriptor(name)
	if descriptor.Name == "" {
		descriptor = domain.ContractDescriptor{Name: name, File: analysis.File}
	}

	prompt := !app.Config.NonInteractive && analysis.Classification.Kind == domain.PatternUUPS
	if opts.impl == "" && prompt {
		if opts.impl, err = app.Prompter.PromptAddress(ctx, "New implementation address"); err != nil {
			return err
		}
	}
	if opts.proxy == "" && prompt {
		if opts.proxy, err = app.Prompter.PromptAddress(ctx, "Proxy address"); err != nil {
			return err
		}
	}
	descriptor.Address = opts.impl

	result, err := app.UpgradeProxy.Run(ctx, analysis.Classification, usecase.UpgradeProxyParams{
		ProxyAddress:   opts.proxy,
		NewImplAddress: opts.impl,
		Implementation: descriptor,
		AndCall:        opts.andCall,
		CallData:       opts.call,
	})
	if err != nil {
		return err
	}

	return render.NewProxyTxRenderer(cmd.OutOrStdout(), app.Config.Format, app.Config.Debug).RenderUpgrade(result)
}
