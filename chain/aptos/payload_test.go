package aptos

import (
	"bytes"
	"encoding/hex"
	"encoding/json"

	"github.com/coming-chat/lcs"
	"github.com/cordialsys/resource-deployer/client/errors"
)

func (s *AptosTestSuite) TestNewPublishPayload() {
	require := s.Require()

	payload, err := NewPublishPayload([]byte("vault-v1"), []byte{1, 2, 3}, [][]byte{{0xa1, 0x1c, 0xeb, 0x0b}, {0xff}}, 0)
	require.NoError(err)
	require.Equal(120, payload.Size())

	payload, err = NewPublishPayload([]byte("vault-v1"), []byte{1, 2, 3}, nil, 0)
	require.NoError(err)
	require.Equal(113, payload.Size())
	require.NotNil(payload.Modules)

	payload, err = NewPublishPayload(nil, []byte{1}, nil, 0)
	require.NoError(err)
	require.Equal([]byte{}, payload.Seed)
}

func (s *AptosTestSuite) TestNewPublishPayloadErr() {
	require := s.Require()

	_, err := NewPublishPayload([]byte("vault-v1"), nil, [][]byte{{1}}, 0)
	require.True(errors.Is(err, errors.MetadataExtractionFailed))

	_, err = NewPublishPayload([]byte("vault-v1"), []byte{1, 2, 3}, [][]byte{{0xa1, 0x1c, 0xeb, 0x0b}, {0xff}}, 119)
	require.True(errors.Is(err, errors.PayloadTooLarge))
	require.ErrorContains(err, "120 bytes")

	// exactly at the limit is fine
	_, err = NewPublishPayload([]byte("vault-v1"), []byte{1, 2, 3}, [][]byte{{0xa1, 0x1c, 0xeb, 0x0b}, {0xff}}, 120)
	require.NoError(err)

	big := bytes.Repeat([]byte{0xaa}, DefaultMaxPayloadSize)
	_, err = NewPublishPayload([]byte("vault-v1"), []byte{1}, [][]byte{big}, 0)
	require.True(errors.Is(err, errors.PayloadTooLarge))
}

func (s *AptosTestSuite) TestPayloadArgumentOrder() {
	require := s.Require()

	vectors := []struct {
		name    string
		modules [][]byte
		code    string
	}{
		{"none", [][]byte{}, "0100"},
		{"one", [][]byte{{0xa1, 0x1c, 0xeb, 0x0b}}, "0601" + "04a11ceb0b"},
		{"many", [][]byte{{0x0a}, {0x0b, 0x0b}, {0x0c, 0x0c, 0x0c}}, "0a03" + "010a" + "020b0b" + "030c0c0c"},
	}
	for _, v := range vectors {
		payload, err := NewPublishPayload([]byte("seed"), []byte{9, 9}, v.modules, 0)
		require.NoError(err, v.name)
		args, err := payload.Arguments()
		require.NoError(err, v.name)
		require.Len(args, 3, v.name)

		require.Equal("0473656564", hex.EncodeToString(args[0]), v.name)
		require.Equal("020909", hex.EncodeToString(args[1]), v.name)

		// each entry function argument carries its own length prefix in the transaction
		var code [][]byte
		require.NoError(lcs.Unmarshal(args[2], &code), v.name)
		require.Len(code, len(v.modules), v.name)
		for i := range code {
			require.Equal(v.modules[i], code[i], v.name)
		}
		withPrefix, err := lcs.Marshal(args[2])
		require.NoError(err)
		require.Equal(v.code, hex.EncodeToString(withPrefix), v.name)
	}
}

func (s *AptosTestSuite) TestPayloadEntryFunction() {
	require := s.Require()
	payload := testPublishPayload()

	ef, err := payload.EntryFunction()
	require.NoError(err)
	require.EqualValues(CreateAndPublishFunction, ef.FunctionName)
	require.EqualValues("resource_account", ef.ModuleName.Name)
	require.Equal(MustDecodeAddress("0x1").Bytes(), ef.ModuleName.Address[:])
	require.Empty(ef.TyArgs)
	require.Len(ef.Args, 3)
}

func (s *AptosTestSuite) TestPayloadJSON() {
	require := s.Require()

	bz, err := json.Marshal(testPublishPayload().JSON())
	require.NoError(err)
	require.JSONEq(`{
		"type": "entry_function_payload",
		"function": "0x1::resource_account::create_resource_account_and_publish_package",
		"type_arguments": [],
		"arguments": ["0x7661756c742d7631", "0x010203", ["0xa11ceb0b", "0xff"]]
	}`, string(bz))

	payload, err := NewPublishPayload([]byte("vault-v1"), []byte{1, 2, 3}, nil, 0)
	require.NoError(err)
	bz, err = json.Marshal(payload.JSON())
	require.NoError(err)
	require.Contains(string(bz), `"arguments":["0x7661756c742d7631","0x010203",[]]`)
	require.Contains(string(bz), `"type_arguments":[]`)
}

func (s *AptosTestSuite) TestPayloadEncodingsAgree() {
	require := s.Require()

	payloads := []*PublishPayload{
		testPublishPayload(),
		{Seed: []byte{}, Metadata: []byte{1}, Modules: [][]byte{}},
		{Seed: []byte("1001"), Metadata: bytes.Repeat([]byte{7}, 300), Modules: [][]byte{bytes.Repeat([]byte{1}, 200), {}, {2}}},
	}
	for _, payload := range payloads {
		ef, err := payload.EntryFunction()
		require.NoError(err)
		fromBCS, err := DecodeEntryFunctionArguments(ef)
		require.NoError(err)

		bz, err := json.Marshal(payload.JSON())
		require.NoError(err)
		fromJSON, err := DecodeJSONArguments(bz)
		require.NoError(err)

		require.Equal(payload, fromBCS)
		require.Equal(fromBCS, fromJSON)
	}
}

func (s *AptosTestSuite) TestPayloadSizeMatchesEncoding() {
	require := s.Require()
	builder, _ := NewTxBuilder()

	modules := [][]byte{}
	for i := 0; i < 40; i++ {
		modules = append(modules, bytes.Repeat([]byte{byte(i)}, 100+i*7))
	}
	payload, err := NewPublishPayload(bytes.Repeat([]byte("s"), 130), bytes.Repeat([]byte{3}, 2000), modules, 0)
	require.NoError(err)

	tx, err := builder.NewPublish(testSender, payload, testTxInput(), 1)
	require.NoError(err)
	sighashes, err := tx.Sighashes()
	require.NoError(err)

	// signing prefix, then sender, sequence number, payload, gas, price, expiry, chain id
	fixed := 32 + 32 + 8 + 8 + 8 + 8 + 1
	require.Equal(len(sighashes[0])-fixed, payload.Size())
}

func (s *AptosTestSuite) TestDecodeJSONArgumentsErr() {
	require := s.Require()

	_, err := DecodeJSONArguments([]byte(`{`))
	require.Error(err)

	_, err = DecodeJSONArguments([]byte(`{"function":"0x1::coin::transfer","type_arguments":[],"arguments":[]}`))
	require.ErrorContains(err, "unexpected entry function")

	_, err = DecodeJSONArguments([]byte(`{"function":"0x1::resource_account::create_resource_account_and_publish_package","type_arguments":[],"arguments":["0x"]}`))
	require.ErrorContains(err, "expected 3 arguments")

	_, err = DecodeJSONArguments([]byte(`{"function":"0x1::resource_account::create_resource_account_and_publish_package","type_arguments":[],"arguments":["0x","0x01",null]}`))
	require.ErrorContains(err, "must be a vector")
}
