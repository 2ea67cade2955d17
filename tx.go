package deployer

import "encoding/base64"

// TxHash is a tx hash or id
type TxHash string

// TxDataToSign is the payload that Signer needs to sign, when "signing a tx". It's sometimes called a sighash.
type TxDataToSign []byte

func (data TxDataToSign) String() string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// TxSignature is a tx signature
type TxSignature []byte

// PublicKey is a raw public key
type PublicKey []byte

// SignatureResponse is a signature produced by a signer, along with the key that made it
type SignatureResponse struct {
	Address   Address
	PublicKey PublicKey
	Signature TxSignature
}

// Tx is a transaction
type Tx interface {
	Hash() TxHash
	Sighashes() ([]TxDataToSign, error)
	SetSignatures(...*SignatureResponse) error
	Serialize() ([]byte, error)
}

// TxStatus is the status of a tx on chain
type TxStatus uint8

const (
	TxStatusPending TxStatus = iota
	TxStatusSuccess
	TxStatusFailure
)

func (s TxStatus) String() string {
	switch s {
	case TxStatusSuccess:
		return "success"
	case TxStatusFailure:
		return "failure"
	default:
		return "pending"
	}
}
