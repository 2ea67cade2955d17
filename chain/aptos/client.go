package aptos

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/coming-chat/go-aptos/aptosclient"
	"github.com/coming-chat/go-aptos/aptostypes"
	deployer "github.com/cordialsys/resource-deployer"
	"github.com/cordialsys/resource-deployer/chain/aptos/tx_input"
	"github.com/cordialsys/resource-deployer/client/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultGasLimit            = 200_000
	DefaultGasPrice            = 100
	DefaultPollInterval        = 1 * time.Second
	DefaultConfirmationTimeout = 30 * time.Second
	DefaultHttpTimeout         = 30 * time.Second
)

type ClientConfig struct {
	URL                 string
	GasLimit            uint64
	GasPrice            uint64
	GasPriceMultiplier  string
	PollInterval        time.Duration
	ConfirmationTimeout time.Duration
	HttpTimeout         time.Duration
}

func (cfg ClientConfig) withDefaults() ClientConfig {
	if cfg.GasLimit == 0 {
		cfg.GasLimit = DefaultGasLimit
	}
	if cfg.GasPrice == 0 {
		cfg.GasPrice = DefaultGasPrice
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.ConfirmationTimeout <= 0 {
		cfg.ConfirmationTimeout = DefaultConfirmationTimeout
	}
	if cfg.HttpTimeout <= 0 {
		cfg.HttpTimeout = DefaultHttpTimeout
	}
	return cfg
}

// Client for an Aptos full node
type Client struct {
	Config      ClientConfig
	AptosClient *aptosclient.RestClient
	Sequences   *SequenceTracker
}

// TxResult is the committed outcome of a transaction
type TxResult struct {
	Hash     deployer.TxHash
	Version  uint64
	Status   deployer.TxStatus
	VmStatus string
	GasUsed  uint64
}

// NewClient returns a new Aptos Client
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.InvalidConfigf("node url is required")
	}
	cfg = cfg.withDefaults()
	httpClient := &http.Client{
		Timeout: cfg.HttpTimeout,
	}
	client, err := aptosclient.DialWithClient(ctx, cfg.URL, httpClient)
	if err != nil {
		return nil, errors.Errorf(errors.ChainIdFetchFailed, "could not reach node %s: %w", cfg.URL, err)
	}
	return NewClientFrom(cfg, client), nil
}

// Enable constructing multiple clients without dialing aptos endpoint
// multiple times
func NewClientFrom(cfg ClientConfig, client *aptosclient.RestClient) *Client {
	return &Client{
		Config:      cfg.withDefaults(),
		AptosClient: client,
		Sequences:   NewSequenceTracker(),
	}
}

// FetchPublishInput gathers the chain id, the sender's next sequence number and the gas terms
func (client *Client) FetchPublishInput(ctx context.Context, sender AccountAddress) (*tx_input.TxInput, error) {
	ledger, err := client.AptosClient.LedgerInfo()
	if err != nil {
		return nil, errors.Errorf(errors.ChainIdFetchFailed, "could not fetch ledger info: %w", err)
	}
	if ledger.ChainId <= 0 || ledger.ChainId > 255 {
		return nil, errors.Errorf(errors.ChainIdFetchFailed, "node reported invalid chain id %d", ledger.ChainId)
	}
	acc, err := client.AptosClient.GetAccount(sender.String())
	if err != nil {
		return nil, errors.Errorf(errors.AccountFetchFailed, "could not fetch account %s: %w", sender, err)
	}

	input := &tx_input.TxInput{
		SequenceNumber: client.Sequences.Next(sender, acc.SequenceNumber),
		GasLimit:       client.Config.GasLimit,
		GasPrice:       client.Config.GasPrice,
		Timestamp:      ledger.LedgerTimestamp,
		ChainId:        uint8(ledger.ChainId),
	}
	if err := input.ApplyGasPriceMultiplier(client.Config.GasPriceMultiplier); err != nil {
		return nil, errors.InvalidConfigf("%v", err)
	}
	logrus.WithFields(logrus.Fields{
		"sender":           sender.String(),
		"chain_id":         input.ChainId,
		"onchain_sequence": acc.SequenceNumber,
		"sequence":         input.SequenceNumber,
		"gas_limit":        input.GasLimit,
		"gas_price":        input.GasPrice,
	}).Debug("publish input")
	return input, nil
}

// SubmitTx submits a signed transaction and returns its hash
func (client *Client) SubmitTx(ctx context.Context, tx deployer.Tx) (deployer.TxHash, error) {
	txBz, err := tx.Serialize()
	if err != nil {
		return "", fmt.Errorf("could not serialize tx: %v", err)
	}
	aptosTx, isAptosTx := tx.(*Tx)
	submitted, err := client.AptosClient.SubmitSignedBCSTransaction(txBz)
	if err != nil {
		if isAptosTx {
			client.Sequences.Release(aptosTx.Sender(), aptosTx.SequenceNumber())
		}
		return "", errors.Errorf(errors.SubmissionRejected, "node rejected transaction: %w", err)
	}
	hash := tx.Hash()
	if hash == "" && submitted != nil {
		hash = deployer.TxHash(submitted.Hash)
	}
	if isAptosTx {
		client.Sequences.Used(aptosTx.Sender(), aptosTx.SequenceNumber())
	}
	logrus.WithField("hash", hash).Info("submitted transaction")
	return hash, nil
}

// ReleaseSequence gives back a sequence number from FetchPublishInput whose transaction was
// never submitted.
func (client *Client) ReleaseSequence(sender AccountAddress, sequence uint64) {
	client.Sequences.Release(sender, sequence)
}

// FetchTx looks up a transaction once. A transaction not yet known to the node, or still in the
// mempool, is reported as pending.
func (client *Client) FetchTx(ctx context.Context, hash deployer.TxHash) (*TxResult, error) {
	tx, err := client.AptosClient.GetTransactionByHash(string(hash))
	if err != nil {
		if aptosErr, ok := err.(*aptostypes.RestError); ok {
			if aptosErr.Code == http.StatusNotFound {
				return &TxResult{Hash: hash, Status: deployer.TxStatusPending}, nil
			}
		}
		return nil, err
	}
	result := &TxResult{
		Hash:     hash,
		Version:  tx.Version,
		VmStatus: tx.VmStatus,
		GasUsed:  tx.GasUsed,
	}
	switch {
	// pending transactions have no version
	case tx.Version == 0:
		result.Status = deployer.TxStatusPending
	case tx.Success:
		result.Status = deployer.TxStatusSuccess
	default:
		result.Status = deployer.TxStatusFailure
	}
	return result, nil
}

// WaitForTx polls until the transaction is committed, the confirmation timeout lapses, or ctx is done.
func (client *Client) WaitForTx(ctx context.Context, hash deployer.TxHash) (*TxResult, error) {
	ctx, cancel := context.WithTimeout(ctx, client.Config.ConfirmationTimeout)
	defer cancel()
	ticker := time.NewTicker(client.Config.PollInterval)
	defer ticker.Stop()

	log := logrus.WithField("hash", hash)
	var lastErr error
	for {
		result, err := client.FetchTx(ctx, hash)
		lastErr = err
		if err != nil {
			// may be transient, the node can be briefly unavailable
			log.WithError(err).Debug("could not fetch transaction")
		} else if result.Status == deployer.TxStatusSuccess {
			log.WithField("version", result.Version).Info("transaction committed")
			return result, nil
		} else if result.Status == deployer.TxStatusFailure {
			vmStatus := result.VmStatus
			if vmStatus == "" {
				vmStatus = "transaction failed"
			}
			return result, errors.Errorf(errors.TransactionFailed, "%s", vmStatus)
		}

		select {
		case <-ctx.Done():
			if lastErr != nil {
				return nil, errors.Errorf(errors.ConfirmationTimeout, "transaction %s not confirmed after %s, it may still be committed: last error: %w", hash, client.Config.ConfirmationTimeout, lastErr)
			}
			return nil, errors.Errorf(errors.ConfirmationTimeout, "transaction %s not confirmed after %s, it may still be committed", hash, client.Config.ConfirmationTimeout)
		case <-ticker.C:
		}
	}
}
