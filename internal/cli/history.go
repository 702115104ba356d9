package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-proxy/internal/cli/render"
	"github.com/trebuchet-org/treb-proxy/internal/domain"
	"github.com/trebuchet-org/treb-proxy/internal/usecase"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	var (
		contract string
		kind     string
		chainID  uint64
	)

	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"ls"},
		Short:   "List recorded proxy deployments and upgrades",
		Long: `List the proxy transactions sent by deploy and upgrade, newest first.
Dry runs are not recorded. With --network only that chain is listed.`,
		Example: `  # Everything on every chain
  treb-proxy history

  # Upgrades of Token on sepolia
  treb-proxy history --contract Token --kind upgrade --network sepolia`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			recordKind, err := parseRecordKind(kind)
			if err != nil {
				return err
			}

			records, err := app.ListProxyRecords.Run(cmd.Context(), usecase.ListProxyRecordsParams{
				Contract: contract,
				Kind:     recordKind,
				ChainID:  chainID,
			})
			if err != nil {
				return err
			}

			return render.NewHistoryRenderer(cmd.OutOrStdout(), app.Config.Format).Render(records)
		},
	}

	cmd.Flags().StringVar(&contract, "contract", "", "Filter by implementation contract name")
	cmd.Flags().StringVar(&kind, "kind", "", "Filter by kind (deploy, upgrade)")
	cmd.Flags().Uint64Var(&chainID, "chain", 0, "Filter by chain ID")

	return cmd
}

func parseRecordKind(kind string) (domain.ProxyRecordKind, error) {
	switch strings.ToLower(kind) {
	case "":
		return "", nil
	case "deploy":
		return domain.ProxyRecordDeploy, nil
	case "upgrade":
		return domain.ProxyRecordUpgrade, nil
	default:
		return "", fmt.Errorf("invalid kind: %s (valid: deploy, upgrade)", kind)
	}
}
