package aptos

import (
	"encoding/hex"
	"errors"

	transactionbuilder "github.com/coming-chat/go-aptos/transaction_builder"
	"github.com/coming-chat/lcs"
	deployer "github.com/cordialsys/resource-deployer"
	"github.com/cordialsys/resource-deployer/chain/aptos/tx_input"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/sha3"
)

type Tx struct {
	Input        *tx_input.TxInput
	rawTx        transactionbuilder.RawTransaction
	txSignatures []*deployer.SignatureResponse
}

var _ deployer.Tx = &Tx{}

// Hash returns the tx hash, 0x-prefixed as the node reports it
func (tx Tx) Hash() deployer.TxHash {
	// Prefix with the type
	TRANSACTION_SALT := []byte("APTOS::Transaction")
	prefix := sha3.Sum256(TRANSACTION_SALT)
	// Must prefix with 0 (the UserTransaction variant)
	hash_base := append(prefix[:], 0)
	// Hash over serialized signed transaction
	serialized, err := tx.Serialize()
	if err != nil {
		logrus.WithError(err).Error("failed to serialize tx for hash")
		return deployer.TxHash("")
	}
	hash_base = append(hash_base, serialized...)
	hash := sha3.Sum256(hash_base)
	return deployer.TxHash("0x" + hex.EncodeToString(hash[:]))
}

// Sighashes returns the tx payload to sign, aka sighash
func (tx Tx) Sighashes() ([]deployer.TxDataToSign, error) {
	msg, err := tx.rawTx.GetSigningMessage()
	if err != nil {
		return nil, err
	}
	return []deployer.TxDataToSign{deployer.TxDataToSign(msg)}, nil
}

// SetSignatures sets the sender signature. The tx is immutable once signed.
func (tx *Tx) SetSignatures(signatures ...*deployer.SignatureResponse) error {
	if len(tx.txSignatures) > 0 {
		return errors.New("transaction is already signed")
	}
	if len(signatures) != 1 {
		return errors.New("expecting exactly 1 signature")
	}
	sig := signatures[0]
	if sig.Address == "" {
		return errors.New("address for signature is required")
	}
	if len(sig.PublicKey) == 0 {
		return errors.New("public key for signature is required")
	}
	tx.txSignatures = signatures[:]
	return nil
}

func (tx *Tx) GetSignatures() []deployer.TxSignature {
	sigs := []deployer.TxSignature{}
	for _, sig := range tx.txSignatures {
		sigs = append(sigs, sig.Signature)
	}
	return sigs
}

func (tx Tx) Serialize() ([]byte, error) {
	if len(tx.txSignatures) == 0 {
		return []byte{}, errors.New("unable to serialize without first calling SetSignatures(...)")
	}

	publickey, err := transactionbuilder.NewEd25519PublicKey(tx.txSignatures[0].PublicKey)
	if err != nil {
		return []byte{}, err
	}
	signature, err := transactionbuilder.NewEd25519Signature(tx.txSignatures[0].Signature)
	if err != nil {
		return []byte{}, err
	}
	authSender := transactionbuilder.TransactionAuthenticatorEd25519{
		PublicKey: *publickey,
		Signature: *signature,
	}
	signedTxn := transactionbuilder.SignedTransaction{
		Transaction:   &tx.rawTx,
		Authenticator: authSender,
	}
	return lcs.Marshal(&signedTxn)
}

func (tx Tx) Sender() AccountAddress {
	return AccountAddress(tx.rawTx.Sender)
}

func (tx Tx) SequenceNumber() uint64 {
	return tx.rawTx.SequenceNumber
}

func (tx Tx) ExpirationTimestampSecs() uint64 {
	return tx.rawTx.ExpirationTimestampSecs
}
