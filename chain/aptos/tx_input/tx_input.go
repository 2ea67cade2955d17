package tx_input

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TxInput is the network state needed to build a publish transaction
type TxInput struct {
	SequenceNumber uint64 `json:"sequence_number"`
	GasLimit       uint64 `json:"gas_limit,omitempty"`
	GasPrice       uint64 `json:"gas_price,omitempty"`
	// Ledger timestamp in microseconds
	Timestamp uint64 `json:"timestamp,omitempty"`
	ChainId   uint8  `json:"chain_id,omitempty"`
}

// GetFeeLimit is the most the transaction can spend on gas, in octas
func (input *TxInput) GetFeeLimit() uint64 {
	return input.GasLimit * input.GasPrice
}

// ApplyGasPriceMultiplier scales the gas unit price, e.g. "1.5" pays 50% more per unit
func (input *TxInput) ApplyGasPriceMultiplier(multiplier string) error {
	if multiplier == "" {
		return nil
	}
	m, err := decimal.NewFromString(multiplier)
	if err != nil {
		return fmt.Errorf("invalid gas price multiplier %q: %v", multiplier, err)
	}
	if !m.IsPositive() {
		return fmt.Errorf("gas price multiplier must be positive, got %s", multiplier)
	}
	input.GasPrice = m.Mul(decimal.NewFromInt(int64(input.GasPrice))).BigInt().Uint64()
	return nil
}
