package hex

import (
	"encoding/hex"
	"encoding/json"
	"strings"
)

var EncodeToString = hex.EncodeToString

// Hex is a byte string rendered the way the Aptos REST API renders vector<u8>: 0x-prefixed lower-case hex.
type Hex []byte

func (h Hex) String() string {
	return "0x" + hex.EncodeToString(h)
}

func (h Hex) Bytes() []byte {
	return []byte(h)
}

func (h Hex) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// DecodeString decodes hex with or without a 0x prefix
func DecodeString(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return hex.DecodeString(s)
}

func decodeHex(bz []byte) (Hex, error) {
	// drop quotes
	s := strings.Trim(string(bz), "\"")
	s = strings.Trim(s, "'")
	decoded, err := DecodeString(s)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}

func (h *Hex) UnmarshalJSON(data []byte) error {
	bz, err := decodeHex(data)
	if err != nil {
		return err
	}
	*h = bz
	return nil
}

func (h *Hex) UnmarshalText(data []byte) error {
	bz, err := decodeHex(data)
	if err != nil {
		return err
	}
	*h = bz
	return nil
}

func (h Hex) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}
