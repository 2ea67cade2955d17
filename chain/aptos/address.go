package aptos

import (
	"encoding/hex"
	"fmt"
	"strings"

	deployer "github.com/cordialsys/resource-deployer"
	"github.com/cordialsys/resource-deployer/client/errors"
	"golang.org/x/crypto/sha3"
)

const AddressLength = 32

// Scheme bytes appended before hashing, see aptos-core types/src/transaction/authenticator.rs
const (
	schemeEd25519                      byte = 0x00
	schemeDeriveResourceAccountAddress byte = 0xFF
)

// AccountAddress is a raw 32 byte Aptos account address
type AccountAddress [AddressLength]byte

// DecodeAddress parses a hex address. With a 0x prefix, short forms are left-padded (0x1 => 0x00..01).
// Without the prefix the full 64 hex characters are required.
func DecodeAddress(address string) (AccountAddress, error) {
	var addr AccountAddress
	s := strings.TrimSpace(address)
	hasPrefix := strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
	if hasPrefix {
		s = s[2:]
	}
	if s == "" {
		return addr, errors.InvalidAddressf("empty address %q", address)
	}
	if !hasPrefix && len(s) != AddressLength*2 {
		return addr, errors.InvalidAddressf("invalid aptos address %q: must be %d hex characters (got %d)", address, AddressLength*2, len(s))
	}
	if len(s) > AddressLength*2 {
		return addr, errors.InvalidAddressf("invalid aptos address %q: must be at most %d bytes", address, AddressLength)
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	bz, err := hex.DecodeString(s)
	if err != nil {
		return addr, errors.InvalidAddressf("invalid aptos address %q: %v", address, err)
	}
	copy(addr[AddressLength-len(bz):], bz)
	return addr, nil
}

func MustDecodeAddress(address string) AccountAddress {
	addr, err := DecodeAddress(address)
	if err != nil {
		panic(err)
	}
	return addr
}

// DeriveResourceAddress computes the address of the resource account created by `owner` with `seed`,
// matching 0x1::account::create_resource_address: sha3_256(owner | seed | 0xFF).
func DeriveResourceAddress(owner AccountAddress, seed []byte) AccountAddress {
	hasher := sha3.New256()
	hasher.Write(owner[:])
	hasher.Write(seed)
	hasher.Write([]byte{schemeDeriveResourceAccountAddress})
	var derived AccountAddress
	copy(derived[:], hasher.Sum(nil))
	return derived
}

// AddressFromPublicKey returns the original authentication key (and so address) of an ed25519 account
func AddressFromPublicKey(publicKey []byte) (AccountAddress, error) {
	if len(publicKey) == 33 && publicKey[32] == 0 {
		// tolerate the scheme byte being included
		publicKey = publicKey[:32]
	}
	if len(publicKey) == 33 {
		return AccountAddress{}, fmt.Errorf("invalid format for ed25519 public key")
	}
	if len(publicKey) != 32 {
		return AccountAddress{}, fmt.Errorf("invalid length for ed25519 public key")
	}
	authKey := sha3.Sum256(append(append([]byte{}, publicKey...), schemeEd25519))
	return AccountAddress(authKey), nil
}

func (addr AccountAddress) String() string {
	return "0x" + hex.EncodeToString(addr[:])
}

func (addr AccountAddress) Bytes() []byte {
	return addr[:]
}

func (addr AccountAddress) Address() deployer.Address {
	return deployer.Address(addr.String())
}

func (addr AccountAddress) MarshalText() ([]byte, error) {
	return []byte(addr.String()), nil
}

func (addr *AccountAddress) UnmarshalText(data []byte) error {
	decoded, err := DecodeAddress(string(data))
	if err != nil {
		return err
	}
	*addr = decoded
	return nil
}

// AddressBuilder derives ed25519 account addresses
type AddressBuilder struct{}

var _ deployer.AddressBuilder = AddressBuilder{}

func NewAddressBuilder() (AddressBuilder, error) {
	return AddressBuilder{}, nil
}

func (ab AddressBuilder) GetAddressFromPublicKey(publicKeyBytes []byte) (deployer.Address, error) {
	addr, err := AddressFromPublicKey(publicKeyBytes)
	if err != nil {
		return deployer.Address(""), err
	}
	return addr.Address(), nil
}
