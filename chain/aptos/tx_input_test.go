package aptos

import (
	"github.com/cordialsys/resource-deployer/chain/aptos/tx_input"
)

func (s *AptosTestSuite) TestTxInputGasPriceMultiplier() {
	require := s.Require()

	input := &tx_input.TxInput{GasLimit: 200_000, GasPrice: 100}
	require.EqualValues(20_000_000, input.GetFeeLimit())

	require.NoError(input.ApplyGasPriceMultiplier(""))
	require.EqualValues(100, input.GasPrice)

	require.NoError(input.ApplyGasPriceMultiplier("1.5"))
	require.EqualValues(150, input.GasPrice)

	require.Error(input.ApplyGasPriceMultiplier("abc"))
	require.Error(input.ApplyGasPriceMultiplier("-1"))
	require.EqualValues(150, input.GasPrice)
}
