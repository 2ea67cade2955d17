package movepkg

import (
	"os"
	"path/filepath"

	"github.com/cordialsys/resource-deployer/client/errors"
)

func (s *MovePkgTestSuite) TestResolve() {
	require := s.Require()
	dir := writePackage(s.T(), s.Root, "nft", testManifest)

	pkg, err := NewResolver(s.Root).Resolve("nft")
	require.NoError(err)
	require.Equal(dir, pkg.Dir)
	require.Equal("nft", pkg.Module)
	require.Equal("nft", pkg.Manifest.Package.Name)
	require.Equal("compatible", pkg.Manifest.Package.UpgradePolicy)
	require.True(pkg.Manifest.DeclaresAddress("punkninja"))
	require.True(pkg.Manifest.DeclaresAddress("deployer"))
	require.False(pkg.Manifest.DeclaresAddress("other"))
}

func (s *MovePkgTestSuite) TestResolveNotFound() {
	require := s.Require()
	writePackage(s.T(), s.Root, "no-manifest", "")
	require.NoError(os.WriteFile(filepath.Join(s.Root, "file"), []byte{}, 0644))
	writePackage(s.T(), filepath.Dir(s.Root), "outside", testManifest)

	resolver := NewResolver(s.Root)
	for _, module := range []string{"", "missing", "no-manifest", "file", "..", ".", "../outside", "nft/../../outside", `..\outside`} {
		_, err := resolver.Resolve(module)
		require.Error(err, module)
		require.True(errors.Is(err, errors.ModuleNotFound), "%s: %v", module, err)
	}
}

func (s *MovePkgTestSuite) TestResolveBadManifest() {
	require := s.Require()
	writePackage(s.T(), s.Root, "broken", "[package\nname = ")
	writePackage(s.T(), s.Root, "unnamed", "[addresses]\npunkninja = \"_\"\n")

	resolver := NewResolver(s.Root)
	_, err := resolver.Resolve("broken")
	require.True(errors.Is(err, errors.BuildFailed), err.Error())

	_, err = resolver.Resolve("unnamed")
	require.True(errors.Is(err, errors.BuildFailed), err.Error())
	require.ErrorContains(err, "name is required")
}

func (s *MovePkgTestSuite) TestDefaultRoot() {
	require := s.Require()
	require.Equal("../tokens-move", NewResolver("").Root)
}
