package main

import (
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/bindexpr/config"
	"github.com/dhamidi/bindexpr/lsp"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Find(".")
			if err != nil {
				return err
			}
			if cfg.LSP.LogFile != "" {
				commonlog.Configure(cfg.LSP.Verbosity, &cfg.LSP.LogFile)
			}
			server := lsp.NewLSPServer(version, cfg)
			return server.RunStdio()
		},
	}
}
