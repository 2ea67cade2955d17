package movepkg

import (
	"strings"

	"github.com/cordialsys/resource-deployer/chain/aptos"
	"github.com/tidwall/btree"
)

// NamedAddresses binds Move placeholder names to concrete addresses.
// Keys stay sorted so the compiler argument is identical for identical bindings.
type NamedAddresses struct {
	m *btree.Map[string, aptos.AccountAddress]
}

func NewNamedAddresses() *NamedAddresses {
	return &NamedAddresses{
		m: btree.NewMap[string, aptos.AccountAddress](0),
	}
}

func (n *NamedAddresses) Set(name string, address aptos.AccountAddress) {
	n.m.Set(name, address)
}

func (n *NamedAddresses) Get(name string) (aptos.AccountAddress, bool) {
	return n.m.Get(name)
}

func (n *NamedAddresses) Len() int {
	return n.m.Len()
}

// Names returns the bound names in sorted order.
func (n *NamedAddresses) Names() []string {
	names := make([]string, 0, n.m.Len())
	n.m.Scan(func(name string, _ aptos.AccountAddress) bool {
		names = append(names, name)
		return true
	})
	return names
}

// String renders the bindings as the aptos CLI expects them, e.g. "deployer=0x..,punkninja=0x..".
func (n *NamedAddresses) String() string {
	parts := make([]string, 0, n.m.Len())
	n.m.Scan(func(name string, address aptos.AccountAddress) bool {
		parts = append(parts, name+"="+address.String())
		return true
	})
	return strings.Join(parts, ",")
}
