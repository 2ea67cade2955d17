package config

import (
	"net/url"
	"time"

	"github.com/cordialsys/resource-deployer/chain/aptos"
	"github.com/cordialsys/resource-deployer/client/errors"
	"github.com/cordialsys/resource-deployer/movepkg"
)

const Section = "deployer"

const (
	EnvPrivateKey = "DEPLOYER_PRIVATE_KEY"
	EnvAddress    = "DEPLOYER_ADDRESS"
	EnvNodeURL    = "APTOS_NODE_URL"
)

const (
	DefaultListen          = "0.0.0.0:8889"
	DefaultWebDir          = "./web"
	DefaultShutdownTimeout = 5 * time.Second
)

// Config of the deploy CLI and the deploy-web service, section "deployer" of config.yaml.
// Every field is optional.
type Config struct {
	// Secret references for the signer and node
	PrivateKey Secret `yaml:"private_key,omitempty"`
	Address    Secret `yaml:"address,omitempty"`
	NodeURL    Secret `yaml:"node_url,omitempty"`

	// Directory holding one Move package per module
	ModulesRoot string   `yaml:"modules_root,omitempty"`
	AptosBinary string   `yaml:"aptos_binary,omitempty"`
	CompileArgs []string `yaml:"compile_args,omitempty"`
	// Named address bound to the resource account
	SelfAddressName string `yaml:"self_address_name,omitempty"`
	// Named address bound to the signer
	OwnerAddressName string `yaml:"owner_address_name,omitempty"`
	MaxPayloadSize   int    `yaml:"max_payload_size,omitempty"`

	GasLimit           uint64        `yaml:"gas_limit,omitempty"`
	GasPrice           uint64        `yaml:"gas_price,omitempty"`
	GasPriceMultiplier string        `yaml:"gas_price_multiplier,omitempty"`
	ExpirationSeconds  uint64        `yaml:"expiration_seconds,omitempty"`
	PollInterval       time.Duration `yaml:"poll_interval,omitempty"`
	ConfirmTimeout     time.Duration `yaml:"confirm_timeout,omitempty"`
	HttpTimeout        time.Duration `yaml:"http_timeout,omitempty"`

	Listen          string        `yaml:"listen,omitempty"`
	WebDir          string        `yaml:"web_dir,omitempty"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout,omitempty"`
	CorsOrigins     []string      `yaml:"cors_origins,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		PrivateKey:        NewEnvSecret(EnvPrivateKey),
		Address:           NewEnvSecret(EnvAddress),
		NodeURL:           NewEnvSecret(EnvNodeURL),
		ModulesRoot:       movepkg.DefaultRoot,
		AptosBinary:       movepkg.DefaultAptosBinary,
		SelfAddressName:   movepkg.DefaultSelfAddressName,
		OwnerAddressName:  movepkg.DefaultOwnerAddressName,
		MaxPayloadSize:    aptos.DefaultMaxPayloadSize,
		GasLimit:          aptos.DefaultGasLimit,
		GasPrice:          aptos.DefaultGasPrice,
		ExpirationSeconds: 10,
		PollInterval:      aptos.DefaultPollInterval,
		ConfirmTimeout:    aptos.DefaultConfirmationTimeout,
		HttpTimeout:       aptos.DefaultHttpTimeout,
		Listen:            DefaultListen,
		WebDir:            DefaultWebDir,
		ShutdownTimeout:   DefaultShutdownTimeout,
		CorsOrigins:       []string{"*"},
	}
}

// Load reads the "deployer" section of config.yaml over the defaults. A missing file is fine.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := RequireConfig(Section, cfg, DefaultConfig()); err != nil {
		return nil, errors.InvalidConfigf("%v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings both front-ends need. Credentials are checked by LoadCredentials.
func (cfg *Config) Validate() error {
	if cfg.SelfAddressName == "" || cfg.OwnerAddressName == "" {
		return errors.InvalidConfigf("self_address_name and owner_address_name are required")
	}
	if cfg.SelfAddressName == cfg.OwnerAddressName {
		return errors.InvalidConfigf("self_address_name and owner_address_name must differ, both are %q", cfg.SelfAddressName)
	}
	if cfg.MaxPayloadSize < 0 {
		return errors.InvalidConfigf("max_payload_size must not be negative")
	}
	return nil
}

func (cfg *Config) ClientConfig(nodeURL string) aptos.ClientConfig {
	return aptos.ClientConfig{
		URL:                 nodeURL,
		GasLimit:            cfg.GasLimit,
		GasPrice:            cfg.GasPrice,
		GasPriceMultiplier:  cfg.GasPriceMultiplier,
		PollInterval:        cfg.PollInterval,
		ConfirmationTimeout: cfg.ConfirmTimeout,
		HttpTimeout:         cfg.HttpTimeout,
	}
}

// Credentials are the resolved signer and node settings of the CLI
type Credentials struct {
	PrivateKey string
	Address    aptos.AccountAddress
	NodeURL    string
}

// LoadCredentials resolves the secret references. All three are required and are checked
// before anything touches the network.
func (cfg *Config) LoadCredentials() (*Credentials, error) {
	return cfg.loadCredentials(true)
}

// LoadRemoteCredentials is LoadCredentials for a signer that holds the key elsewhere.
// The private key is left empty.
func (cfg *Config) LoadRemoteCredentials() (*Credentials, error) {
	return cfg.loadCredentials(false)
}

func (cfg *Config) loadCredentials(requireKey bool) (*Credentials, error) {
	var privateKey string
	if requireKey {
		var err error
		privateKey, err = cfg.PrivateKey.Load()
		if err != nil {
			return nil, errors.InvalidConfigf("could not load private key: %v", err)
		}
		if privateKey == "" {
			return nil, errors.InvalidConfigf("private key is not set (%s)", EnvPrivateKey)
		}
	}
	addressStr, err := cfg.Address.Load()
	if err != nil {
		return nil, errors.InvalidConfigf("could not load address: %v", err)
	}
	if addressStr == "" {
		return nil, errors.InvalidConfigf("signer address is not set (%s)", EnvAddress)
	}
	address, err := aptos.DecodeAddress(addressStr)
	if err != nil {
		return nil, errors.InvalidConfigf("invalid signer address: %v", err)
	}
	nodeURL, err := cfg.NodeURL.Load()
	if err != nil {
		return nil, errors.InvalidConfigf("could not load node url: %v", err)
	}
	if nodeURL == "" {
		return nil, errors.InvalidConfigf("node url is not set (%s)", EnvNodeURL)
	}
	parsed, err := url.Parse(nodeURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, errors.InvalidConfigf("invalid node url %q", nodeURL)
	}
	return &Credentials{
		PrivateKey: privateKey,
		Address:    address,
		NodeURL:    nodeURL,
	}, nil
}
