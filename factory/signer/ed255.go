package signer

import (
	"crypto/rand"
	"crypto/sha512"
	"fmt"

	"filippo.io/edwards25519"
)

// Normally a ed25519 private key is in a 64 byte {seed, public-key} format.
// During signing, the seed is hashed to derive the actual scalar.  This is not
// very compatible with MPC algorithms, so we provide this alternative signing implementation.
// This will perform the signing using the "naked" scalar -- what would be part of the hashed "seed".
func SignWithScalar(sBz []byte, message []byte) ([]byte, error) {
	if len(sBz) != 32 {
		return nil, fmt.Errorf("expected the scalar to be 32 bytes but got %d bytes", len(sBz))
	}
	s, err := edwards25519.NewScalar().SetCanonicalBytes(sBz)
	if err != nil {
		return nil, err
	}

	rBz := make([]byte, 64)
	if _, err = rand.Read(rBz); err != nil {
		return nil, err
	}
	r, err := edwards25519.NewScalar().SetUniformBytes(rBz)
	if err != nil {
		return nil, err
	}
	A := (&edwards25519.Point{}).ScalarBaseMult(s)
	R := (&edwards25519.Point{}).ScalarBaseMult(r)

	hasher := sha512.New()
	// k = SHA-512(R || A || M)
	hasher.Write(R.Bytes())
	hasher.Write(A.Bytes())
	hasher.Write(message)
	k, err := edwards25519.NewScalar().SetUniformBytes(hasher.Sum([]byte{}))
	if err != nil {
		return nil, err
	}
	// k * s + r
	S := edwards25519.NewScalar().MultiplyAdd(k, s, r)

	return append(R.Bytes(), S.Bytes()...), nil
}
