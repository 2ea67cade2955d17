package aptos

import (
	"fmt"

	"github.com/coming-chat/lcs"
	"github.com/cordialsys/resource-deployer/client/errors"
)

// UpgradePolicy mirrors 0x1::code::UpgradePolicy
type UpgradePolicy struct {
	Policy uint8
}

const (
	UpgradePolicyArbitrary  uint8 = 0
	UpgradePolicyCompatible uint8 = 1
	UpgradePolicyImmutable  uint8 = 2
)

func (p UpgradePolicy) String() string {
	switch p.Policy {
	case UpgradePolicyArbitrary:
		return "arbitrary"
	case UpgradePolicyCompatible:
		return "compatible"
	case UpgradePolicyImmutable:
		return "immutable"
	}
	return fmt.Sprintf("unknown(%d)", p.Policy)
}

// Any mirrors 0x1::copyable_any::Any
type Any struct {
	TypeName string
	Data     []byte
}

type ModuleMetadata struct {
	Name      string
	Source    []byte
	SourceMap []byte
	Extension *Any `lcs:"optional"`
}

type PackageDep struct {
	Account     AccountAddress
	PackageName string
}

// PackageMetadata mirrors 0x1::code::PackageMetadata. Field order is the BCS layout.
type PackageMetadata struct {
	Name          string
	UpgradePolicy UpgradePolicy
	UpgradeNumber uint64
	SourceDigest  string
	// gzipped Move.toml
	Manifest  []byte
	Modules   []ModuleMetadata
	Deps      []PackageDep
	Extension *Any `lcs:"optional"`
}

// DecodePackageMetadata parses BCS serialized package metadata
func DecodePackageMetadata(data []byte) (*PackageMetadata, error) {
	if len(data) == 0 {
		return nil, errors.MetadataExtractionFailedf("package metadata is empty")
	}
	metadata := &PackageMetadata{}
	if err := lcs.Unmarshal(data, metadata); err != nil {
		return nil, errors.MetadataExtractionFailedf("could not decode package metadata: %v", err)
	}
	if metadata.Name == "" {
		return nil, errors.MetadataExtractionFailedf("package metadata has no name")
	}
	return metadata, nil
}

func (m *PackageMetadata) Serialize() ([]byte, error) {
	return lcs.Marshal(m)
}

// ModuleNames lists the modules in the order the compiler emitted them
func (m *PackageMetadata) ModuleNames() []string {
	names := make([]string, len(m.Modules))
	for i, module := range m.Modules {
		names[i] = module.Name
	}
	return names
}
