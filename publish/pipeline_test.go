package publish

import (
	"encoding/json"

	deployer "github.com/cordialsys/resource-deployer"
	"github.com/cordialsys/resource-deployer/chain/aptos"
	"github.com/cordialsys/resource-deployer/client/errors"
	"github.com/cordialsys/resource-deployer/movepkg"
	"github.com/stretchr/testify/mock"
)

func (s *PublishTestSuite) TestDerive() {
	require := s.Require()
	owner, derived, err := Derive(testOwner, deployer.Seed("vault-v1"))
	require.NoError(err)
	require.Equal(string(testOwner), owner.String())
	require.Equal(testDerived, derived.String())

	_, _, err = Derive("0x1234zz", deployer.Seed("vault-v1"))
	require.True(errors.Is(err, errors.InvalidAddress))
}

func (s *PublishTestSuite) TestPrepare() {
	require := s.Require()
	builder := &MockedBuilder{}
	compiled := &movepkg.CompiledPackage{Name: "nft", Metadata: []byte{1, 2, 3}, Modules: [][]byte{{0xa1}, {0xb2}}}
	builder.On("Build", mock.Anything, "nft", aptos.MustDecodeAddress(string(testOwner)), aptos.MustDecodeAddress(testDerived)).
		Return(compiled, nil).Once()

	prepared, err := NewPipeline(builder, 0).Prepare(s.Ctx, "nft", testOwner, deployer.Seed("vault-v1"))
	require.NoError(err)
	builder.AssertExpectations(s.T())

	require.Equal("nft", prepared.Module)
	require.Equal(testDerived, prepared.Derived.String())
	require.Equal([]byte("vault-v1"), prepared.Payload.Seed)
	require.Equal(compiled.Metadata, prepared.Payload.Metadata)
	require.Equal(compiled.Modules, prepared.Payload.Modules)
}

func (s *PublishTestSuite) TestPrepareNoModules() {
	require := s.Require()
	builder := &MockedBuilder{}
	builder.On("Build", mock.Anything, "empty", mock.Anything, mock.Anything).
		Return(&movepkg.CompiledPackage{Name: "empty", Metadata: []byte{1}}, nil)

	prepared, err := NewPipeline(builder, 0).Prepare(s.Ctx, "empty", testOwner, deployer.Seed("vault-v1"))
	require.NoError(err)

	bz, err := json.Marshal(prepared.Payload.JSON())
	require.NoError(err)
	var doc map[string]interface{}
	require.NoError(json.Unmarshal(bz, &doc))
	arguments := doc["arguments"].([]interface{})
	require.Len(arguments, 3)
	require.Equal([]interface{}{}, arguments[2])

	args, err := prepared.Payload.Arguments()
	require.NoError(err)
	require.Len(args, 3)
	require.Equal([]byte{0}, args[2])
}

func (s *PublishTestSuite) TestPrepareInvalidWalletNeverBuilds() {
	require := s.Require()
	for _, wallet := range []deployer.Address{"", "0x", "f08819a2", "0xf08819a2ca002c1da8c6242040607617093f519eb2525201efaba47b0841f68200", "wallet"} {
		builder := &MockedBuilder{}
		_, err := NewPipeline(builder, 0).Prepare(s.Ctx, "nft", wallet, deployer.Seed("vault-v1"))
		require.True(errors.Is(err, errors.InvalidAddress), string(wallet))
		require.Equal(errors.CategoryInput, errors.InvalidAddress.Category())
		builder.AssertNotCalled(s.T(), "Build", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	}
}

func (s *PublishTestSuite) TestPrepareBuildErrors() {
	require := s.Require()
	vectors := []struct {
		err    error
		status errors.Status
	}{
		{errors.ModuleNotFoundf("module %q not found", "nope"), errors.ModuleNotFound},
		{errors.BuildFailedf("error[E03002]: unbound module"), errors.BuildFailed},
		{errors.MetadataExtractionFailedf("no metadata"), errors.MetadataExtractionFailed},
	}
	for _, v := range vectors {
		builder := &MockedBuilder{}
		builder.On("Build", mock.Anything, "nope", mock.Anything, mock.Anything).Return(nil, v.err)
		prepared, err := NewPipeline(builder, 0).Prepare(s.Ctx, "nope", testOwner, deployer.Seed("vault-v1"))
		require.Nil(prepared)
		status, ok := errors.StatusOf(err)
		require.True(ok)
		require.Equal(v.status, status)
		require.NotEqual(errors.CategoryNetwork, status.Category())
	}
}

func (s *PublishTestSuite) TestPrepareTooLarge() {
	require := s.Require()
	builder := &MockedBuilder{}
	builder.On("Build", mock.Anything, "nft", mock.Anything, mock.Anything).
		Return(&movepkg.CompiledPackage{Name: "nft", Metadata: []byte{1}, Modules: [][]byte{make([]byte, 1000)}}, nil)

	_, err := NewPipeline(builder, 500).Prepare(s.Ctx, "nft", testOwner, deployer.Seed("vault-v1"))
	require.True(errors.Is(err, errors.PayloadTooLarge))
}
