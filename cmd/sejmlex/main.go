// Command sejmlex serves the Polish legal act registry (api.sejm.gov.pl/eli)
// as an MCP tool catalog over stdio or HTTP.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sejmlex/internal/app"
	"sejmlex/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		transport  string
	)

	root := &cobra.Command{
		Use:           "sejmlex",
		Short:         "MCP gateway to the Polish ELI legal act registry",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if transport != "" {
				cfg.Server.Transport = transport
			}

			gateway, err := app.New(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := gateway.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return gateway.Shutdown()
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "path to config.yaml")
	root.Flags().StringVar(&transport, "transport", "", "override transport: stdio or http")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load("")
			if err != nil {
				fmt.Println("sejmlex (unknown version)")
				return
			}
			fmt.Printf("%s %s\n", cfg.Server.Name, cfg.Server.Version)
		},
	})

	return root
}
