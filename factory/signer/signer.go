package signer

import (
	"bufio"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/edwards25519"
	"github.com/btcsuite/btcutil/base58"
	"github.com/sirupsen/logrus"
)

// Ed25519 signer for Aptos transactions. Keys are held in memory.
type Signer struct {
	privateKey  []byte
	scalar      bool
	interactive bool
	in          io.Reader
	out         io.Writer
}

// PrivateKey is a private key or reference to private key
type PrivateKey []byte

// PublicKey is a public key
type PublicKey []byte

const EnvEd25519ScalarSigning = "DEPLOYER_SIGN_WITH_SCALAR"

// AIP-80 private key prefix, as printed by newer aptos CLI versions
const aptosPrivateKeyPrefix = "ed25519-priv-"

func scalarSigningEnabled() bool {
	val := os.Getenv(EnvEd25519ScalarSigning)
	return val == "1" || val == "true"
}

func fromString(secret string) ([]byte, error) {
	secret = strings.TrimSpace(secret)
	secret = strings.TrimPrefix(secret, aptosPrivateKeyPrefix)
	if secret == "" {
		return nil, errors.New("private key is empty")
	}
	// Try hex first
	bz, err := hex.DecodeString(strings.TrimPrefix(secret, "0x"))
	if err != nil {
		// try base58
		base58bz := base58.Decode(secret)
		if len(base58bz) == 0 {
			return nil, errors.New("expected private key to be a hex or base58 string")
		}
		return base58bz, nil
	}
	return bz, nil
}

func New(secret string) (*Signer, error) {
	secretBz, err := fromString(secret)
	if err != nil {
		return nil, err
	}

	if scalarSigningEnabled() {
		if len(secretBz) != 32 {
			return nil, fmt.Errorf("scalar must be 32 bytes, got %d bytes", len(secretBz))
		}
		if _, err := edwards25519.NewScalar().SetCanonicalBytes(secretBz); err != nil {
			return nil, fmt.Errorf("invalid scalar: %v", err)
		}
		return &Signer{privateKey: secretBz, scalar: true}, nil
	}
	if len(secretBz) == ed25519.SeedSize {
		key := ed25519.NewKeyFromSeed(secretBz)
		return &Signer{privateKey: key}, nil
	}
	if len(secretBz) == ed25519.PrivateKeySize {
		return &Signer{privateKey: secretBz}, nil
	}
	return nil, errors.New("expected ed25519 key to be 64 or 32 bytes")
}

// NewInteractive asks for the public key and each signature on the terminal, for keys held elsewhere.
func NewInteractive(in io.Reader, out io.Writer) *Signer {
	return &Signer{interactive: true, in: in, out: out}
}

func (s *Signer) prompt(msg string) ([]byte, error) {
	fmt.Fprint(s.out, msg)
	reader := bufio.NewReader(s.in)
	text, _ := reader.ReadString('\n')
	fmt.Fprintln(s.out)
	bz, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(text), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid input: %v", err)
	}
	return bz, nil
}

func (s *Signer) Sign(data []byte) ([]byte, error) {
	if s.interactive {
		fmt.Fprintln(s.out, "Payload: ", hex.EncodeToString(data))
		return s.prompt("Enter signature in hex: ")
	}
	if s.scalar {
		logrus.Debug("using raw scalar signing for ed25519 key")
		return SignWithScalar(s.privateKey, data)
	}
	return ed25519.Sign(ed25519.PrivateKey(s.privateKey), data), nil
}

func (s *Signer) PublicKey() (PublicKey, error) {
	if s.interactive {
		return s.prompt("Enter the public key of the signer in hex: ")
	}
	if s.scalar {
		sc, err := edwards25519.NewScalar().SetCanonicalBytes(s.privateKey)
		if err != nil {
			return nil, err
		}
		return (&edwards25519.Point{}).ScalarBaseMult(sc).Bytes(), nil
	}
	privateKey := ed25519.PrivateKey(s.privateKey)
	publicKey := privateKey.Public().(ed25519.PublicKey)
	return PublicKey(publicKey), nil
}

func (s *Signer) MustPublicKey() PublicKey {
	pub, err := s.PublicKey()
	if err != nil {
		panic(err)
	}
	return pub
}
