package testutil

import (
	deployer "github.com/cordialsys/resource-deployer"
)

// MockTx only supports Hash and Serialize, for SubmitTx()
type MockTx struct {
	TxHash             deployer.TxHash
	SerializedSignedTx []byte
	SerializeErr       error
}

var _ deployer.Tx = &MockTx{}

func (tx *MockTx) Hash() deployer.TxHash {
	return tx.TxHash
}
func (tx *MockTx) Sighashes() ([]deployer.TxDataToSign, error) {
	panic("not supported")
}
func (tx *MockTx) SetSignatures(...*deployer.SignatureResponse) error {
	panic("not supported")
}
func (tx *MockTx) Serialize() ([]byte, error) {
	return tx.SerializedSignedTx, tx.SerializeErr
}
