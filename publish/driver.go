package publish

import (
	"context"
	"fmt"
	"time"

	deployer "github.com/cordialsys/resource-deployer"
	"github.com/cordialsys/resource-deployer/chain/aptos"
	"github.com/cordialsys/resource-deployer/chain/aptos/tx_input"
	"github.com/sirupsen/logrus"
)

const DefaultExpirationSeconds = 10

// Ledger is the node access the driver needs. Implemented by *aptos.Client.
type Ledger interface {
	FetchPublishInput(ctx context.Context, sender aptos.AccountAddress) (*tx_input.TxInput, error)
	SubmitTx(ctx context.Context, tx deployer.Tx) (deployer.TxHash, error)
	WaitForTx(ctx context.Context, hash deployer.TxHash) (*aptos.TxResult, error)
	// Gives back a sequence number from FetchPublishInput that was never submitted
	ReleaseSequence(sender aptos.AccountAddress, sequence uint64)
}

var _ Ledger = &aptos.Client{}

// Signer signs a sighash on behalf of an account. Implemented by *signer.Collection.
type Signer interface {
	Sign(address deployer.Address, payload []byte) (*deployer.SignatureResponse, error)
}

type Options struct {
	ExpirationSeconds uint64
	// Sign and print the transaction without submitting it
	DryRun bool
	// Overrides the clock, for tests
	Now func() time.Time
}

// Driver signs, submits and confirms a prepared publish from a configured account
type Driver struct {
	Ledger  Ledger
	Signer  Signer
	Builder aptos.TxBuilder
	Sender  aptos.AccountAddress
	Options Options
}

// Result of a publish
type Result struct {
	SequenceNumber uint64
	// Most the transaction can spend on gas, in octas
	MaxFee uint64
	Hash   deployer.TxHash
	// Signed transaction, BCS encoded
	SignedTx []byte
	// Nil on a dry run
	Tx *aptos.TxResult
}

func NewDriver(ledger Ledger, signer Signer, sender aptos.AccountAddress, options Options) *Driver {
	builder, _ := aptos.NewTxBuilder()
	if options.ExpirationSeconds == 0 {
		options.ExpirationSeconds = DefaultExpirationSeconds
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	return &Driver{
		Ledger:  ledger,
		Signer:  signer,
		Builder: builder,
		Sender:  sender,
		Options: options,
	}
}

// Sign builds and signs the publish transaction without submitting it.
// The caller owns the sequence number of the returned transaction.
func (d *Driver) Sign(ctx context.Context, payload *aptos.PublishPayload) (*aptos.Tx, error) {
	input, err := d.Ledger.FetchPublishInput(ctx, d.Sender)
	if err != nil {
		return nil, err
	}
	tx, err := d.sign(payload, input)
	if err != nil {
		d.Ledger.ReleaseSequence(d.Sender, input.SequenceNumber)
		return nil, err
	}
	return tx, nil
}

func (d *Driver) sign(payload *aptos.PublishPayload, input *tx_input.TxInput) (*aptos.Tx, error) {
	expiration := uint64(d.Options.Now().Unix()) + d.Options.ExpirationSeconds
	tx, err := d.Builder.NewPublish(d.Sender, payload, input, expiration)
	if err != nil {
		return nil, fmt.Errorf("could not build transaction: %w", err)
	}
	sighashes, err := tx.Sighashes()
	if err != nil {
		return nil, fmt.Errorf("could not get sighashes: %w", err)
	}
	signatures := []*deployer.SignatureResponse{}
	for _, sighash := range sighashes {
		signature, err := d.Signer.Sign(d.Sender.Address(), sighash)
		if err != nil {
			return nil, fmt.Errorf("could not sign: %w", err)
		}
		signatures = append(signatures, signature)
	}
	if err := tx.SetSignatures(signatures...); err != nil {
		return nil, fmt.Errorf("could not add signature: %w", err)
	}
	return tx, nil
}

func (d *Driver) Publish(ctx context.Context, payload *aptos.PublishPayload) (*Result, error) {
	tx, err := d.Sign(ctx, payload)
	if err != nil {
		return nil, err
	}
	signed, err := tx.Serialize()
	if err != nil {
		d.Ledger.ReleaseSequence(d.Sender, tx.SequenceNumber())
		return nil, fmt.Errorf("could not serialize transaction: %w", err)
	}
	result := &Result{
		SequenceNumber: tx.SequenceNumber(),
		MaxFee:         tx.Input.GetFeeLimit(),
		Hash:           tx.Hash(),
		SignedTx:       signed,
	}
	log := logrus.WithFields(logrus.Fields{
		"sender":   d.Sender.String(),
		"sequence": result.SequenceNumber,
		"max_fee":  result.MaxFee,
		"hash":     result.Hash,
	})
	if d.Options.DryRun {
		d.Ledger.ReleaseSequence(d.Sender, tx.SequenceNumber())
		log.Info("dry run, not submitting")
		return result, nil
	}

	hash, err := d.Ledger.SubmitTx(ctx, tx)
	if err != nil {
		return result, err
	}
	result.Hash = hash
	log.Info("waiting for confirmation")

	committed, err := d.Ledger.WaitForTx(ctx, hash)
	result.Tx = committed
	if err != nil {
		return result, err
	}
	return result, nil
}
