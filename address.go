package deployer

// Address is an on-chain account address in its textual form, e.g. 0x1 or 0xa589..ab85
type Address string

// Seed is the caller-chosen byte string a resource account is derived from
type Seed []byte

func (s Seed) String() string {
	return string(s)
}

// AddressBuilder derives an account address from a public key
type AddressBuilder interface {
	GetAddressFromPublicKey(publicKeyBytes []byte) (Address, error)
}
