package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/treb-proxy/internal/domain"
	"github.com/trebuchet-org/treb-proxy/internal/usecase"
)

// ProxyTxRenderer renders the outcome of a proxy deploy or upgrade
type ProxyTxRenderer struct {
	out     io.Writer
	format  string
	verbose bool
}

// NewProxyTxRenderer creates a new proxy transaction renderer. Verbose
// output includes the full calldata.
func NewProxyTxRenderer(out io.Writer, format string, verbose bool) *ProxyTxRenderer {
	return &ProxyTxRenderer{out: out, format: format, verbose: verbose}
}

// RenderDeploy prints a proxy deployment result
func (r *ProxyTxRenderer) RenderDeploy(result *usecase.DeployProxyResult) error {
	if done, err := WriteStructured(r.out, r.format, result); done {
		return err
	}
	if result.Skipped {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s does not use a UUPS proxy, nothing to deploy", result.Descriptor.File)))
		return nil
	}

	r.header(result.Receipt, "deployment")
	r.field("Contract", nameStyle.Sprint(result.Descriptor.Name))
	r.field("Implementation", addressStyle.Sprint(result.TxData.FunArgs[0]))
	r.field("Initializer", shortHex(result.InitData))
	if result.Receipt.ContractAddress != "" {
		r.field("Proxy", addressStyle.Sprint(result.Receipt.ContractAddress))
	}
	r.receipt(result.Receipt)
	r.calldata(result.TxData)
	return nil
}

// RenderUpgrade prints a proxy upgrade result
func (r *ProxyTxRenderer) RenderUpgrade(result *usecase.UpgradeProxyResult) error {
	if done, err := WriteStructured(r.out, r.format, result); done {
		return err
	}
	if result.Skipped {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s does not use a UUPS proxy, nothing to upgrade", result.Descriptor.File)))
		return nil
	}

	r.header(result.Receipt, "upgrade")
	r.field("Call", result.TxData.FunAbi.Name)
	r.field("Proxy", addressStyle.Sprint(result.Receipt.To))
	r.field("Implementation", addressStyle.Sprint(result.TxData.FunArgs[0]))
	r.receipt(result.Receipt)
	r.calldata(result.TxData)
	return nil
}

func (r *ProxyTxRenderer) header(receipt *domain.DispatchReceipt, what string) {
	if receipt.DryRun {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Dry run: %s %s composed but not sent", domain.ProxyContractName, what)))
	} else {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s %s sent", domain.ProxyContractName, what)))
	}
	fmt.Fprintln(r.out)
}

func (r *ProxyTxRenderer) receipt(receipt *domain.DispatchReceipt) {
	if receipt.From != "" {
		r.field("From", addressStyle.Sprint(receipt.From))
	}
	if receipt.DryRun {
		return
	}
	r.field("Chain", fmt.Sprintf("%d", receipt.ChainID))
	r.field("Nonce", fmt.Sprintf("%d", receipt.Nonce))
	r.field("Tx hash", receipt.TxHash)
}

func (r *ProxyTxRenderer) calldata(tx *domain.ProxyTxData) {
	if !r.verbose && !tx.IsDeployment() {
		r.field("Data", "0x"+shortHex(tx.DataHex))
		return
	}
	if !r.verbose {
		r.field("Data", fmt.Sprintf("%d bytes", len(tx.DataHex)/2))
		return
	}
	r.field("Data", "0x"+tx.DataHex)
}

func (r *ProxyTxRenderer) field(label, value string) {
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-15s", label+":"), value)
}
