package movepkg

import (
	"context"

	"github.com/cordialsys/resource-deployer/chain/aptos"
	"github.com/cordialsys/resource-deployer/client/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultSelfAddressName  = "punkninja"
	DefaultOwnerAddressName = "deployer"
)

// CompiledPackage is a built Move package, ready to be published
type CompiledPackage struct {
	Name string
	// Bytecode, in the order the metadata lists the modules
	Modules [][]byte
	// BCS encoded 0x1::code::PackageMetadata
	Metadata        []byte
	PackageMetadata *aptos.PackageMetadata
}

// Builder compiles a package directory with the given named addresses bound
type Builder interface {
	Build(ctx context.Context, pkg *Package, named *NamedAddresses) (*CompiledPackage, error)
}

// Parameterizer compiles a module with its own address bound to the derived resource account,
// and the owner's address bound for admin checks.
type Parameterizer struct {
	Resolver  *Resolver
	Builder   Builder
	SelfName  string
	OwnerName string
}

func NewParameterizer(resolver *Resolver, builder Builder, selfName, ownerName string) (*Parameterizer, error) {
	if selfName == "" {
		selfName = DefaultSelfAddressName
	}
	if ownerName == "" {
		ownerName = DefaultOwnerAddressName
	}
	if selfName == ownerName {
		return nil, errors.InvalidConfigf("self and owner named addresses must differ, both are %q", selfName)
	}
	return &Parameterizer{
		Resolver:  resolver,
		Builder:   builder,
		SelfName:  selfName,
		OwnerName: ownerName,
	}, nil
}

// NamedAddresses returns the exact bindings a build of any module uses
func (p *Parameterizer) NamedAddresses(owner aptos.AccountAddress, derived aptos.AccountAddress) *NamedAddresses {
	named := NewNamedAddresses()
	named.Set(p.SelfName, derived)
	named.Set(p.OwnerName, owner)
	return named
}

func (p *Parameterizer) Build(ctx context.Context, module string, owner aptos.AccountAddress, derived aptos.AccountAddress) (*CompiledPackage, error) {
	pkg, err := p.Resolver.Resolve(module)
	if err != nil {
		return nil, err
	}
	named := p.NamedAddresses(owner, derived)
	log := logrus.WithFields(logrus.Fields{
		"module":          module,
		"package":         pkg.Manifest.Package.Name,
		"named_addresses": named.String(),
	})
	for _, name := range named.Names() {
		if !pkg.Manifest.DeclaresAddress(name) {
			log.WithField("name", name).Warn("named address is not declared in manifest")
		}
	}

	log.Debug("building package")
	compiled, err := p.Builder.Build(ctx, pkg, named)
	if err != nil {
		return nil, err
	}
	if compiled == nil || len(compiled.Metadata) == 0 {
		return nil, errors.MetadataExtractionFailedf("package %s produced no metadata", pkg.Manifest.Package.Name)
	}
	log.WithField("modules", len(compiled.Modules)).Info("built package")
	return compiled, nil
}
