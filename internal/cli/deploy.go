package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-proxy/internal/app"
	"github.com/trebuchet-org/treb-proxy/internal/cli/render"
	"github.com/trebuchet-org/treb-proxy/internal/domain"
	"github.com/trebuchet-org/treb-proxy/internal/usecase"
)

type deployOptions struct {
	impl    string
	args    string
	argsSet bool
}

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var opts deployOptions

	cmd := &cobra.Command{
		Use:   "deploy <file> [contract]",
		Short: "Deploy an ERC1967Proxy in front of a UUPS implementation",
		Long: `Deploy an ERC1967Proxy pointing at an already deployed UUPS implementation.
The proxy constructor calls initialize with the given arguments.

Arguments are comma separated; brackets and double quotes group values,
so array and string arguments containing commas stay intact. When --args is
omitted you are prompted for each initializer input.`,
		Example: `  # Deploy a proxy for Token and initialize it with an owner
  treb-proxy deploy src/Token.sol Token --impl 0x5FbDB2315678afecb367f032d93F642f64180aa3 --args 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266 --network anvil

  # Initializer without arguments, compose only
  treb-proxy deploy src/Vault.sol --impl 0x5FbDB2315678afecb367f032d93F642f64180aa3 --args "" --dry-run`,
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
			opts.argsSet = cmd.Flags().Changed("args")
			return runDeploy(cmd, app, analysis, contract, opts)
		},
	}

	cmd.Flags().StringVar(&opts.impl, "impl", "", "Address of the deployed implementation")
	cmd.Flags().StringVar(&opts.args, "args", "", "Comma separated initializer arguments")

	return cmd
}

func runDeploy(cmd *cobra.Command, app *app.App, analysis *usecase.ProxyAnalysis, contract string, opts deployOptions) error {
	ctx := cmd.Context()

	name, err := resolveContract(cmd, app, analysis, contract)
	if err != nil {
		return err
	}

	descriptor, _ := analysis.Descriptor(name)
	if descriptor.Name == "" {
		descriptor = domain.ContractDescriptor{Name: name, File: analysis.File}
	}
	initializer := analysis.Initializer(name)

	impl := opts.impl
	if impl == "" && !app.Config.NonInteractive && analysis.Classification.Kind == domain.PatternUUPS {
		if impl, err = app.Prompter.PromptAddress(ctx, "Implementation address"); err != nil {
			return err
		}
	}
	descriptor.Address = impl

	initArgs, err := initializerArgs(cmd, app, analysis, name, opts)
	if err != nil {
		return err
	}

	result, err := app.DeployProxy.Run(ctx, analysis.Classification, usecase.DeployProxyParams{
		ImplAddress:    impl,
		InitArgs:       initArgs,
		InitializerABI: initializer,
		Implementation: descriptor,
	})
	if err != nil {
		return err
	}

	return render.NewProxyTxRenderer(cmd.OutOrStdout(), app.Config.Format, app.Config.Debug).RenderDeploy(result)
}

// initializerArgs takes --args when given, otherwise prompts for each
// initializer input
func initializerArgs(cmd *cobra.Command, app *app.App, analysis *usecase.ProxyAnalysis, name string, opts deployOptions) (domain.InitializerArgs, error) {
	if opts.argsSet {
		args, err := domain.ParseInitializerArgs(opts.args)
		if err != nil {
			return domain.NoArgs(), fmt.Errorf("invalid --args: %w", err)
		}
		return args, nil
	}

	inputs := analysis.Options[name].InitializeOptions.InitializeInputs
	if len(inputs) == 0 {
		return domain.NoArgs(), nil
	}

	values, err := app.Prompter.PromptInputs(cmd.Context(), inputs)
	if err != nil {
		return domain.NoArgs(), err
	}
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return domain.Args(args...), nil
}

// resolveContract only consults the selector for UUPS files. Other patterns
// are handed to the use cases untouched so they can skip or refuse.
func resolveContract(cmd *cobra.Command, app *app.App, analysis *usecase.ProxyAnalysis, contract string) (string, error) {
	if analysis.Classification.Kind != domain.PatternUUPS {
		return contract, nil
	}
	return app.ResolveContract.Run(cmd.Context(), analysis, contract)
}
