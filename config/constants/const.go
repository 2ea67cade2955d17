package constants

import (
	"os"
	"path/filepath"
)

const DefaultHomeEnv string = "DEPLOYER_HOME"
const ConfigEnv string = "DEPLOYER_CONFIG"

var DefaultHome string

func init() {
	if home := os.Getenv(DefaultHomeEnv); home != "" {
		DefaultHome = home
		return
	} else {
		// ~/.deployer default
		userHomeDir, err := os.UserHomeDir()
		if err != nil {
			DefaultHome = "/data"
		} else {
			DefaultHome = filepath.Join(userHomeDir, ".deployer")
		}
	}
}
