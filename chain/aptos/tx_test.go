package aptos

import (
	"encoding/hex"

	deployer "github.com/cordialsys/resource-deployer"
	"github.com/cordialsys/resource-deployer/chain/aptos/tx_input"
)

func testPublishPayload() *PublishPayload {
	return &PublishPayload{
		Seed:     []byte("vault-v1"),
		Metadata: []byte{1, 2, 3},
		Modules:  [][]byte{{0xa1, 0x1c, 0xeb, 0x0b}, {0xff}},
	}
}

func testSignature() *deployer.SignatureResponse {
	pubkey := []byte{1, 2, 3, 4, 5, 6, 7, 8, 1, 2, 3, 4, 5, 6, 7, 8, 1, 2, 3, 4, 5, 6, 7, 8, 1, 2, 3, 4, 5, 6, 7, 8}
	sig := []byte{}
	for i := 0; i < 64; i++ {
		sig = append(sig, byte(i))
	}
	return &deployer.SignatureResponse{
		Address:   testSender.Address(),
		PublicKey: pubkey,
		Signature: sig,
	}
}

func testTxInput() *tx_input.TxInput {
	return &tx_input.TxInput{
		SequenceNumber: 3,
		GasLimit:       200_000,
		GasPrice:       100,
		Timestamp:      12345,
		ChainId:        2,
	}
}

func (s *AptosTestSuite) TestNewPublish() {
	require := s.Require()
	builder, _ := NewTxBuilder()

	tx, err := builder.NewPublish(testSender, testPublishPayload(), testTxInput(), 12355)
	require.NoError(err)
	require.Equal(testSender, tx.Sender())
	require.EqualValues(3, tx.SequenceNumber())
	require.EqualValues(12355, tx.ExpirationTimestampSecs())

	sighashes, err := tx.Sighashes()
	require.NoError(err)
	require.Len(sighashes, 1)
	require.Equal(
		"b5e97db07fa0bd0e5598aa3643a9bc6f6693bddc1a9fec9e674a461eaa00b193a589a80d61ec380c24a5fdda109c3848c082584e6cb725e5ab19b18354b2ab850300000000000000020000000000000000000000000000000000000000000000000000000000000001107265736f757263655f6163636f756e742b6372656174655f7265736f757263655f6163636f756e745f616e645f7075626c6973685f7061636b616765000309087661756c742d76310403010203080204a11ceb0b01ff400d0300000000006400000000000000433000000000000002",
		hex.EncodeToString(sighashes[0]),
	)

	// unsigned
	_, err = tx.Serialize()
	require.Error(err)
	require.Equal(deployer.TxHash(""), tx.Hash())

	err = tx.SetSignatures(testSignature())
	require.NoError(err)

	ser, err := tx.Serialize()
	require.NoError(err)
	require.Equal(
		"a589a80d61ec380c24a5fdda109c3848c082584e6cb725e5ab19b18354b2ab850300000000000000020000000000000000000000000000000000000000000000000000000000000001107265736f757263655f6163636f756e742b6372656174655f7265736f757263655f6163636f756e745f616e645f7075626c6973685f7061636b616765000309087661756c742d76310403010203080204a11ceb0b01ff400d03000000000064000000000000004330000000000000020020010203040506070801020304050607080102030405060708010203040506070840000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f202122232425262728292a2b2c2d2e2f303132333435363738393a3b3c3d3e3f",
		hex.EncodeToString(ser),
	)
	require.Equal(deployer.TxHash("0xa5e68922ea8a0080a72904a2fe7e4c2fdc6c279d3053832d4719ead79c0e6019"), tx.Hash())

	// signed once only
	err = tx.SetSignatures(testSignature())
	require.ErrorContains(err, "already signed")
}

func (s *AptosTestSuite) TestNewPublishErr() {
	require := s.Require()
	builder, _ := NewTxBuilder()

	_, err := builder.NewPublish(testSender, nil, testTxInput(), 1)
	require.ErrorContains(err, "payload is required")

	_, err = builder.NewPublish(testSender, testPublishPayload(), nil, 1)
	require.ErrorContains(err, "tx input is required")

	input := testTxInput()
	input.ChainId = 0
	_, err = builder.NewPublish(testSender, testPublishPayload(), input, 1)
	require.ErrorContains(err, "chain id is required")
}

func (s *AptosTestSuite) TestSetSignaturesErr() {
	require := s.Require()
	builder, _ := NewTxBuilder()
	tx, err := builder.NewPublish(testSender, testPublishPayload(), testTxInput(), 1)
	require.NoError(err)

	require.ErrorContains(tx.SetSignatures(), "exactly 1 signature")

	sig := testSignature()
	sig.Address = ""
	require.ErrorContains(tx.SetSignatures(sig), "address for signature is required")

	sig = testSignature()
	sig.PublicKey = nil
	require.ErrorContains(tx.SetSignatures(sig), "public key for signature is required")
	require.Empty(tx.GetSignatures())
}
