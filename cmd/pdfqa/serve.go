package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-qa/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP (POST /upload)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			if cfg.Log.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			p, err := buildPipeline(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			h := server.NewHandler(p, cfg.Server.MaxUploadBytes, log)
			return server.Serve(cmd.Context(), cfg.Server.Addr, h)
		},
	}
	addPipelineFlags(cmd)
	cmd.Flags().String("addr", ":7866", "listen address")
	return cmd
}
