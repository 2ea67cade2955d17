package config

import (
	"fmt"
	"strings"
)

// Secret is a reference to a secret, e.g. "env:DEPLOYER_PRIVATE_KEY" or "file:~/.aptos/key"
type Secret string

type SecretType string

var Env SecretType = "env"
var Vault SecretType = "vault"
var Raw SecretType = "raw"
var File SecretType = "file"
var GoogleSecretManager SecretType = "gsm"

func (s Secret) Load() (string, error) {
	return GetSecret(string(s))
}

// Type of the reference, or "" if it has no known prefix
func (s Secret) Type() SecretType {
	if !HasTypePrefix(string(s)) {
		return ""
	}
	return SecretType(strings.Split(string(s), ":")[0])
}

func NewRawSecret(secret string) Secret {
	return Secret(fmt.Sprintf("raw:%s", secret))
}

func NewEnvSecret(env string) Secret {
	return Secret(fmt.Sprintf("env:%s", env))
}

func HasTypePrefix(secretRef string) bool {
	switch SecretType(strings.Split(secretRef, ":")[0]) {
	case Env, Vault, Raw, File, GoogleSecretManager:
		return true
	}
	return false
}
