package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	deployer "github.com/cordialsys/resource-deployer"
	"github.com/cordialsys/resource-deployer/chain/aptos"
	"github.com/cordialsys/resource-deployer/cmd/setup"
	"github.com/cordialsys/resource-deployer/config"
	"github.com/cordialsys/resource-deployer/factory/signer"
	"github.com/cordialsys/resource-deployer/publish"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type DeployOutput struct {
	Module          string               `json:"module"`
	Deployer        aptos.AccountAddress `json:"deployer"`
	ResourceAddress aptos.AccountAddress `json:"resource_address"`
	Seed            string               `json:"seed"`
	SequenceNumber  uint64               `json:"sequence_number"`
	MaxFee          uint64               `json:"max_fee,omitempty"`
	Hash            deployer.TxHash      `json:"hash"`
	Version         uint64               `json:"version,omitempty"`
	GasUsed         uint64               `json:"gas_used,omitempty"`
	VmStatus        string               `json:"vm_status,omitempty"`
	// only set on a dry run
	SignedTx string `json:"signed_tx,omitempty"`
}

func CmdDeploy() *cobra.Command {
	var dryRun bool
	var interactive bool

	cmd := &cobra.Command{
		Use:          "deploy <module> <seed>",
		Short:        "Compile a Move module for a resource account derived from the signer and seed, then publish it",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_, err := setup.Configure(cmd)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := setup.UnwrapConfig(ctx)
			module := args[0]
			seed := deployer.Seed(args[1])

			creds, keySigner, err := loadSigner(cfg, interactive, cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			signers := signer.NewCollection()
			signers.AddMainSigner(keySigner, creds.Address.Address())

			client, err := aptos.NewClient(ctx, cfg.ClientConfig(creds.NodeURL))
			if err != nil {
				return err
			}
			pipeline, err := setup.NewPipeline(cfg)
			if err != nil {
				return err
			}

			prepared, err := pipeline.Prepare(ctx, module, creds.Address.Address(), seed)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"module":    module,
				"deployer":  prepared.Owner.String(),
				"punkninja": prepared.Derived.String(),
				"seed":      seed.String(),
			}).Info("publishing")

			driver := publish.NewDriver(client, signers, creds.Address, publish.Options{
				ExpirationSeconds: cfg.ExpirationSeconds,
				DryRun:            dryRun,
			})
			result, err := driver.Publish(ctx, prepared.Payload)
			output := NewDeployOutput(prepared, result, dryRun)
			return printOutput(cmd.OutOrStdout(), cmd.ErrOrStderr(), output, err)
		},
	}
	setup.AddArgs(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Sign and print the transaction without submitting it")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Enter the public key and signature on the terminal instead of using "+config.EnvPrivateKey)
	return cmd
}

func NewDeployOutput(prepared *publish.Prepared, result *publish.Result, dryRun bool) DeployOutput {
	output := DeployOutput{
		Module:          prepared.Module,
		Deployer:        prepared.Owner,
		ResourceAddress: prepared.Derived,
		Seed:            prepared.Seed.String(),
	}
	if result == nil {
		return output
	}
	output.SequenceNumber = result.SequenceNumber
	output.MaxFee = result.MaxFee
	output.Hash = result.Hash
	if result.Tx != nil {
		output.Version = result.Tx.Version
		output.GasUsed = result.Tx.GasUsed
		output.VmStatus = result.Tx.VmStatus
	}
	if dryRun {
		output.SignedTx = hex.EncodeToString(result.SignedTx)
	}
	return output
}

// printOutput writes the output to out. After a failure it goes to errOut, and only once
// there is a transaction hash to look up.
func printOutput(out io.Writer, errOut io.Writer, output DeployOutput, err error) error {
	if err != nil {
		if output.Hash != "" {
			// the transaction may have been submitted
			fmt.Fprintln(errOut, setup.AsJson(output))
		}
		return err
	}
	fmt.Fprintln(out, setup.AsJson(output))
	return nil
}

func loadSigner(cfg *config.Config, interactive bool, in io.Reader, out io.Writer) (*config.Credentials, *signer.Signer, error) {
	if interactive {
		creds, err := cfg.LoadRemoteCredentials()
		if err != nil {
			return nil, nil, err
		}
		return creds, signer.NewInteractive(in, out), nil
	}
	creds, err := cfg.LoadCredentials()
	if err != nil {
		return nil, nil, err
	}
	keySigner, err := signer.New(creds.PrivateKey)
	if err != nil {
		return nil, nil, fmt.Errorf("could not import private key: %v", err)
	}
	publicKey, err := keySigner.PublicKey()
	if err != nil {
		return nil, nil, err
	}
	addressBuilder, _ := aptos.NewAddressBuilder()
	if err := checkKeyAddress(addressBuilder, publicKey, creds.Address); err != nil {
		return nil, nil, err
	}
	logrus.WithField("address", creds.Address.String()).Info("sending from")
	return creds, keySigner, nil
}

// checkKeyAddress warns when the key's original address is not the signer address.
// Rotated keys keep their original address, so this is not an error.
func checkKeyAddress(builder deployer.AddressBuilder, publicKey []byte, address aptos.AccountAddress) error {
	keyAddress, err := builder.GetAddressFromPublicKey(publicKey)
	if err != nil {
		return err
	}
	if keyAddress != address.Address() {
		logrus.WithFields(logrus.Fields{
			"address":     address.String(),
			"key_address": keyAddress,
		}).Warn("private key does not match the signer address")
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := CmdDeploy().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
