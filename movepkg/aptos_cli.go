package movepkg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cordialsys/resource-deployer/chain/aptos"
	"github.com/cordialsys/resource-deployer/client/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultAptosBinary  = "aptos"
	MetadataFile        = "package-metadata.bcs"
	BytecodeModulesDir  = "bytecode_modules"
	BytecodeModuleExt   = ".mv"
	buildOutputDirName  = "build"
	tempOutputDirPrefix = "move-build-"
)

// AptosCLI builds packages with `aptos move compile`
type AptosCLI struct {
	Binary string
	// Extra arguments appended to the compile command, e.g. --bytecode-version
	ExtraArgs []string
	// Where per-build output dirs are created, the system temp dir if empty
	TempDir string
}

var _ Builder = &AptosCLI{}

func NewAptosCLI(binary string, extraArgs ...string) *AptosCLI {
	if binary == "" {
		binary = DefaultAptosBinary
	}
	return &AptosCLI{
		Binary:    binary,
		ExtraArgs: extraArgs,
	}
}

func (cli *AptosCLI) Args(pkgDir string, outputDir string, named *NamedAddresses) []string {
	args := []string{
		"move", "compile",
		"--package-dir", pkgDir,
		"--output-dir", outputDir,
		"--save-metadata",
		"--skip-fetch-latest-git-deps",
	}
	if named.Len() > 0 {
		args = append(args, "--named-addresses", named.String())
	}
	return append(args, cli.ExtraArgs...)
}

func (cli *AptosCLI) Build(ctx context.Context, pkg *Package, named *NamedAddresses) (*CompiledPackage, error) {
	outputDir, err := os.MkdirTemp(cli.TempDir, tempOutputDirPrefix)
	if err != nil {
		return nil, fmt.Errorf("could not create build dir: %v", err)
	}
	defer os.RemoveAll(outputDir)

	args := cli.Args(pkg.Dir, outputDir, named)
	log := logrus.WithFields(logrus.Fields{
		"binary": cli.Binary,
		"args":   strings.Join(args, " "),
	})
	log.Debug("compiling")

	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, cli.Binary, args...)
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return nil, errors.BuildFailedf("%s", strings.TrimSpace(output.String()))
		}
		return nil, errors.BuildFailedf("could not run %s: %v", cli.Binary, err)
	}

	return ReadBuildOutput(filepath.Join(outputDir, buildOutputDirName, pkg.Manifest.Package.Name))
}

// ReadBuildOutput loads the metadata and bytecode of a compiled package from its build dir
func ReadBuildOutput(packageBuildDir string) (*CompiledPackage, error) {
	metadataBz, err := os.ReadFile(filepath.Join(packageBuildDir, MetadataFile))
	if err != nil {
		return nil, errors.MetadataExtractionFailedf("could not read %s: %v", MetadataFile, err)
	}
	metadata, err := aptos.DecodePackageMetadata(metadataBz)
	if err != nil {
		return nil, err
	}

	modules := [][]byte{}
	for _, name := range metadata.ModuleNames() {
		bytecode, err := os.ReadFile(filepath.Join(packageBuildDir, BytecodeModulesDir, name+BytecodeModuleExt))
		if err != nil {
			return nil, errors.MetadataExtractionFailedf("no bytecode for module %s: %v", name, err)
		}
		if len(bytecode) == 0 {
			return nil, errors.MetadataExtractionFailedf("empty bytecode for module %s", name)
		}
		modules = append(modules, bytecode)
	}

	return &CompiledPackage{
		Name:            metadata.Name,
		Modules:         modules,
		Metadata:        metadataBz,
		PackageMetadata: metadata,
	}, nil
}
