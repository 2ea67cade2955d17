package aptos

import (
	"errors"

	transactionbuilder "github.com/coming-chat/go-aptos/transaction_builder"
	"github.com/cordialsys/resource-deployer/chain/aptos/tx_input"
)

// TxBuilder wraps publish payloads into raw transactions
type TxBuilder struct{}

// NewTxBuilder creates a new Aptos TxBuilder
func NewTxBuilder() (TxBuilder, error) {
	return TxBuilder{}, nil
}

// NewPublish creates the transaction that creates the resource account and publishes the package under it.
// expiration is an absolute unix timestamp in seconds.
func (txBuilder TxBuilder) NewPublish(from AccountAddress, payload *PublishPayload, input *tx_input.TxInput, expiration uint64) (*Tx, error) {
	if payload == nil {
		return nil, errors.New("payload is required")
	}
	if input == nil {
		return nil, errors.New("tx input is required")
	}
	if input.ChainId == 0 {
		return nil, errors.New("chain id is required")
	}
	entryFunction, err := payload.EntryFunction()
	if err != nil {
		return nil, err
	}
	return &Tx{
		rawTx: transactionbuilder.RawTransaction{
			Sender:                  transactionbuilder.AccountAddress(from),
			SequenceNumber:          input.SequenceNumber,
			Payload:                 entryFunction,
			MaxGasAmount:            input.GasLimit,
			GasUnitPrice:            input.GasPrice,
			ExpirationTimestampSecs: expiration,
			ChainId:                 input.ChainId,
		},
		Input: input,
	}, nil
}
