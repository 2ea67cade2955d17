package movepkg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cordialsys/resource-deployer/client/errors"
	"github.com/pelletier/go-toml/v2"
)

const ManifestFile = "Move.toml"

type ManifestPackage struct {
	Name          string `toml:"name"`
	Version       string `toml:"version"`
	UpgradePolicy string `toml:"upgrade_policy"`
}

// Manifest is the subset of Move.toml the deployer needs
type Manifest struct {
	Package ManifestPackage `toml:"package"`
	// Named addresses declared by the package. Placeholders are "_".
	Addresses map[string]string `toml:"addresses"`
}

// DeclaresAddress reports whether name is listed under [addresses]
func (m *Manifest) DeclaresAddress(name string) bool {
	_, ok := m.Addresses[name]
	return ok
}

func ParseManifest(data []byte) (*Manifest, error) {
	manifest := &Manifest{}
	if err := toml.Unmarshal(data, manifest); err != nil {
		return nil, errors.BuildFailedf("invalid %s: %v", ManifestFile, err)
	}
	if manifest.Package.Name == "" {
		return nil, errors.BuildFailedf("invalid %s: [package] name is required", ManifestFile)
	}
	return manifest, nil
}

// ReadManifest loads <dir>/Move.toml
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ModuleNotFoundf("no %s in %s", ManifestFile, dir)
		}
		return nil, fmt.Errorf("could not read %s: %w", ManifestFile, err)
	}
	return ParseManifest(data)
}
