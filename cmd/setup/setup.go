package setup

import (
	"context"
	"encoding/json"
	"os"

	"github.com/cordialsys/resource-deployer/config"
	"github.com/cordialsys/resource-deployer/config/constants"
	"github.com/cordialsys/resource-deployer/movepkg"
	"github.com/cordialsys/resource-deployer/publish"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type ContextKey string

const ContextConfig ContextKey = "config"

type Args struct {
	ConfigPath     string
	VerbosityCount int
}

func AddArgs(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "Path to a config.yaml (defaults to $"+constants.ConfigEnv+", ./, ../ or $"+constants.DefaultHomeEnv+")")
	cmd.PersistentFlags().CountP("verbose", "v", "Set verbosity level (-v info, -vv debug, -vvv trace)")
}

func ArgsFromCmd(cmd *cobra.Command) (*Args, error) {
	flags := cmd.Flags()
	if flags.Lookup("config") == nil {
		// persistent flags are only merged into Flags() once the command line is parsed
		flags = cmd.PersistentFlags()
	}
	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	verbosity, err := flags.GetCount("verbose")
	if err != nil {
		return nil, err
	}
	return &Args{
		ConfigPath:     configPath,
		VerbosityCount: verbosity,
	}, nil
}

// Configure sets up logging and loads the config, which is attached to the command's context.
func Configure(cmd *cobra.Command) (*config.Config, error) {
	args, err := ArgsFromCmd(cmd)
	if err != nil {
		return nil, err
	}
	config.ConfigureLogger(config.LevelFromVerbosity(args.VerbosityCount))
	if args.ConfigPath != "" {
		// the config file can only be located through the env
		_ = os.Setenv(constants.ConfigEnv, args.ConfigPath)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(WrapConfig(ctx, cfg))
	return cfg, nil
}

func WrapConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ContextConfig, cfg)
}

func UnwrapConfig(ctx context.Context) *config.Config {
	return ctx.Value(ContextConfig).(*config.Config)
}

// NewPipeline wires the module resolver, the aptos compiler and the named address bindings.
func NewPipeline(cfg *config.Config) (*publish.Pipeline, error) {
	resolver := movepkg.NewResolver(cfg.ModulesRoot)
	compiler := movepkg.NewAptosCLI(cfg.AptosBinary, cfg.CompileArgs...)
	parameterizer, err := movepkg.NewParameterizer(resolver, compiler, cfg.SelfAddressName, cfg.OwnerAddressName)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"root":     resolver.Root,
		"compiler": compiler.Binary,
		"self":     parameterizer.SelfName,
		"owner":    parameterizer.OwnerName,
	}).Debug("package pipeline")
	return publish.NewPipeline(parameterizer, cfg.MaxPayloadSize), nil
}

func AsJson(data any) string {
	bz, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(bz)
}
