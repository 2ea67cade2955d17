package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cordialsys/resource-deployer/cmd/setup"
	"github.com/cordialsys/resource-deployer/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func CmdDeployWeb() *cobra.Command {
	var listen string
	var webDir string

	cmd := &cobra.Command{
		Use:          "deploy-web",
		Short:        "Serve publish payloads for browser wallets to sign",
		Args:         cobra.ExactArgs(0),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_, err := setup.Configure(cmd)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := setup.UnwrapConfig(cmd.Context())
			if listen == "" {
				listen = cfg.Listen
			}
			if webDir == "" {
				webDir = cfg.WebDir
			}
			pipeline, err := setup.NewPipeline(cfg)
			if err != nil {
				return err
			}
			gin.SetMode(gin.ReleaseMode)
			srv := server.New(pipeline, server.Options{
				WebDir:          webDir,
				CorsOrigins:     cfg.CorsOrigins,
				ShutdownTimeout: cfg.ShutdownTimeout,
			})
			return srv.Serve(cmd.Context(), listen)
		},
	}
	setup.AddArgs(cmd)
	cmd.Flags().StringVar(&listen, "listen", "", "Address to listen on (default from config, 0.0.0.0:8889)")
	cmd.Flags().StringVar(&webDir, "web-dir", "", "Directory of static files (default from config, ./web)")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := CmdDeployWeb().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
