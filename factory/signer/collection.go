package signer

import (
	"fmt"

	deployer "github.com/cordialsys/resource-deployer"
)

type collectionItem struct {
	signer     *Signer
	address    deployer.Address
	mainSigner bool
}

// A wrapper around signer that pairs each key with the account it signs for.
// Rotated Aptos accounts sign with a key whose auth-key address differs from the account address,
// so the address cannot be recovered from the key alone.
type Collection struct {
	items []*collectionItem
}

func NewCollection() *Collection {
	return &Collection{}
}

// AddMainSigner registers the signer of address. It also signs for an empty address.
func (s *Collection) AddMainSigner(signer *Signer, address deployer.Address) {
	s.items = append(s.items, &collectionItem{
		signer:     signer,
		address:    address,
		mainSigner: true,
	})
}

func (s *Collection) GetSigner(address deployer.Address) (*Signer, bool) {
	for _, item := range s.items {
		if item.address == address || (item.mainSigner && address == "") {
			return item.signer, true
		}
	}
	return nil, false
}

// Sign signs payload with the key registered for address and returns it with the public key
func (s *Collection) Sign(address deployer.Address, payload []byte) (*deployer.SignatureResponse, error) {
	signer, ok := s.GetSigner(address)
	if !ok {
		return nil, fmt.Errorf("signer not found for address '%s'", address)
	}
	publicKey, err := signer.PublicKey()
	if err != nil {
		return nil, err
	}
	signature, err := signer.Sign(payload)
	if err != nil {
		return nil, err
	}
	return &deployer.SignatureResponse{
		Address:   address,
		PublicKey: deployer.PublicKey(publicKey),
		Signature: signature,
	}, nil
}
