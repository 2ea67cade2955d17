package movepkg

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cordialsys/resource-deployer/client/errors"
)

// fakeAptos writes a script standing in for the aptos CLI. It records its arguments and
// copies fixture into the requested output dir.
func (s *MovePkgTestSuite) fakeAptos(fixture string, exitCode int, stderr string) (binary string, argsFile string) {
	if runtime.GOOS == "windows" {
		s.T().Skip("requires a posix shell")
	}
	dir := s.T().TempDir()
	argsFile = filepath.Join(dir, "args")
	script := fmt.Sprintf(`#!/bin/sh
echo "$@" > %q
if [ %d -ne 0 ]; then
  echo %q >&2
  exit %d
fi
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "--output-dir" ]; then out="$2"; fi
  shift
done
mkdir -p "$out/build"
cp -R %q/. "$out/build/"
`, argsFile, exitCode, stderr, exitCode, fixture)
	binary = filepath.Join(dir, "aptos")
	s.Require().NoError(os.WriteFile(binary, []byte(script), 0755))
	return binary, argsFile
}

func (s *MovePkgTestSuite) TestAptosCLIArgs() {
	require := s.Require()
	named := NewNamedAddresses()
	named.Set("punkninja", testDerived)
	named.Set("deployer", testOwner)

	cli := NewAptosCLI("", "--bytecode-version", "6")
	require.Equal("aptos", cli.Binary)
	require.Equal([]string{
		"move", "compile",
		"--package-dir", "../tokens-move/nft",
		"--output-dir", "/tmp/out",
		"--save-metadata",
		"--skip-fetch-latest-git-deps",
		"--named-addresses", named.String(),
		"--bytecode-version", "6",
	}, cli.Args("../tokens-move/nft", "/tmp/out", named))
}

func (s *MovePkgTestSuite) TestAptosCLIBuild() {
	require := s.Require()
	fixture := s.T().TempDir()
	metadata := testMetadata("collection", "nft", "minting")
	writeBuildOutput(s.T(), fixture, metadata, map[string][]byte{
		"minting":    {0xa1, 0x1c, 0xeb, 0x0b, 3},
		"nft":        {0xa1, 0x1c, 0xeb, 0x0b, 2},
		"collection": {0xa1, 0x1c, 0xeb, 0x0b, 1},
		// not part of the package
		"stray": {0xff},
	})
	binary, argsFile := s.fakeAptos(fixture, 0, "")
	writePackage(s.T(), s.Root, "nft", testManifest)

	p, err := NewParameterizer(NewResolver(s.Root), &AptosCLI{Binary: binary, TempDir: s.T().TempDir()}, "", "")
	require.NoError(err)
	compiled, err := p.Build(s.Ctx, "nft", testOwner, testDerived)
	require.NoError(err)

	require.Equal("nft", compiled.Name)
	require.Equal([][]byte{
		{0xa1, 0x1c, 0xeb, 0x0b, 1},
		{0xa1, 0x1c, 0xeb, 0x0b, 2},
		{0xa1, 0x1c, 0xeb, 0x0b, 3},
	}, compiled.Modules)
	expected, _ := metadata.Serialize()
	require.Equal(expected, compiled.Metadata)
	require.Equal([]string{"collection", "nft", "minting"}, compiled.PackageMetadata.ModuleNames())

	args, err := os.ReadFile(argsFile)
	require.NoError(err)
	require.Contains(string(args), "--named-addresses deployer="+testOwner.String()+",punkninja="+testDerived.String())
	require.Contains(string(args), "--package-dir "+filepath.Join(s.Root, "nft"))
	require.Contains(string(args), "--save-metadata")
}

func (s *MovePkgTestSuite) TestAptosCLIBuildRemovesOutput() {
	require := s.Require()
	fixture := s.T().TempDir()
	writeBuildOutput(s.T(), fixture, testMetadata("nft"), map[string][]byte{"nft": {1}})
	binary, _ := s.fakeAptos(fixture, 0, "")
	writePackage(s.T(), s.Root, "nft", testManifest)

	tmp := s.T().TempDir()
	cli := &AptosCLI{Binary: binary, TempDir: tmp}
	pkg, err := NewResolver(s.Root).Resolve("nft")
	require.NoError(err)
	for i := 0; i < 3; i++ {
		_, err = cli.Build(s.Ctx, pkg, NewNamedAddresses())
		require.NoError(err)
	}
	entries, err := os.ReadDir(tmp)
	require.NoError(err)
	require.Empty(entries)
}

func (s *MovePkgTestSuite) TestAptosCLIBuildFailed() {
	require := s.Require()
	binary, _ := s.fakeAptos(s.T().TempDir(), 1, "error[E03002]: unbound module '0x1::missing'")
	writePackage(s.T(), s.Root, "nft", testManifest)

	p, _ := NewParameterizer(NewResolver(s.Root), &AptosCLI{Binary: binary}, "", "")
	_, err := p.Build(s.Ctx, "nft", testOwner, testDerived)
	require.True(errors.Is(err, errors.BuildFailed), err.Error())
	require.ErrorContains(err, "error[E03002]: unbound module '0x1::missing'")

	p.Builder = &AptosCLI{Binary: filepath.Join(s.T().TempDir(), "no-such-aptos")}
	_, err = p.Build(s.Ctx, "nft", testOwner, testDerived)
	require.True(errors.Is(err, errors.BuildFailed), err.Error())
	require.ErrorContains(err, "could not run")
}

func (s *MovePkgTestSuite) TestReadBuildOutput() {
	require := s.Require()

	// module listed in metadata without bytecode
	dir := writeBuildOutput(s.T(), s.T().TempDir(), testMetadata("collection", "nft"), map[string][]byte{"nft": {1}})
	_, err := ReadBuildOutput(dir)
	require.True(errors.Is(err, errors.MetadataExtractionFailed))
	require.ErrorContains(err, "collection")

	// no metadata at all
	_, err = ReadBuildOutput(s.T().TempDir())
	require.True(errors.Is(err, errors.MetadataExtractionFailed))

	// garbage metadata
	dir = s.T().TempDir()
	require.NoError(os.WriteFile(filepath.Join(dir, MetadataFile), []byte(strings.Repeat("\xff", 7)), 0644))
	_, err = ReadBuildOutput(dir)
	require.True(errors.Is(err, errors.MetadataExtractionFailed))

	// a package with no modules is still a package
	dir = writeBuildOutput(s.T(), s.T().TempDir(), testMetadata(), nil)
	compiled, err := ReadBuildOutput(dir)
	require.NoError(err)
	require.Empty(compiled.Modules)
	require.NotNil(compiled.Modules)
}
