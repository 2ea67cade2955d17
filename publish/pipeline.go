package publish

import (
	"context"

	deployer "github.com/cordialsys/resource-deployer"
	"github.com/cordialsys/resource-deployer/chain/aptos"
	"github.com/cordialsys/resource-deployer/movepkg"
	"github.com/sirupsen/logrus"
)

// PackageBuilder compiles a module with the resource account and owner addresses bound
type PackageBuilder interface {
	Build(ctx context.Context, module string, owner aptos.AccountAddress, derived aptos.AccountAddress) (*movepkg.CompiledPackage, error)
}

var _ PackageBuilder = &movepkg.Parameterizer{}

// Pipeline turns (module, owner, seed) into a publish payload. Both the CLI and the HTTP gateway use it.
type Pipeline struct {
	Builder        PackageBuilder
	MaxPayloadSize int
}

func NewPipeline(builder PackageBuilder, maxPayloadSize int) *Pipeline {
	return &Pipeline{
		Builder:        builder,
		MaxPayloadSize: maxPayloadSize,
	}
}

// Prepared is everything known about a publish before it is signed
type Prepared struct {
	Module  string
	Owner   aptos.AccountAddress
	Seed    deployer.Seed
	Derived aptos.AccountAddress
	Package *movepkg.CompiledPackage
	Payload *aptos.PublishPayload
}

// Derive validates the owner and returns the resource account address for seed.
func Derive(owner deployer.Address, seed deployer.Seed) (aptos.AccountAddress, aptos.AccountAddress, error) {
	ownerAddr, err := aptos.DecodeAddress(string(owner))
	if err != nil {
		return aptos.AccountAddress{}, aptos.AccountAddress{}, err
	}
	return ownerAddr, aptos.DeriveResourceAddress(ownerAddr, seed), nil
}

func (p *Pipeline) Prepare(ctx context.Context, module string, owner deployer.Address, seed deployer.Seed) (*Prepared, error) {
	ownerAddr, derived, err := Derive(owner, seed)
	if err != nil {
		return nil, err
	}
	log := logrus.WithFields(logrus.Fields{
		"module":  module,
		"owner":   ownerAddr.String(),
		"seed":    seed.String(),
		"derived": derived.String(),
	})
	log.Debug("preparing publish")

	compiled, err := p.Builder.Build(ctx, module, ownerAddr, derived)
	if err != nil {
		return nil, err
	}
	payload, err := aptos.NewPublishPayload(seed, compiled.Metadata, compiled.Modules, p.MaxPayloadSize)
	if err != nil {
		return nil, err
	}
	log.WithField("size", payload.Size()).Info("prepared publish payload")

	return &Prepared{
		Module:  module,
		Owner:   ownerAddr,
		Seed:    seed,
		Derived: derived,
		Package: compiled,
		Payload: payload,
	}, nil
}
