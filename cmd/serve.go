package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nikogura/campaign-planner/pkg/config"
	"github.com/nikogura/campaign-planner/pkg/server"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var listenAddr string

//nolint:gochecknoglobals // Cobra boilerplate
var allowOrigins []string

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the campaign planner over HTTP",
	Long: `Serve the campaign planner over HTTP.

Endpoints:
  POST /api/v1/campaigns        run the pipeline for a JSON brief (?format=json|yaml|markdown)
  GET  /api/v1/briefs/sample    an example brief
  GET  /healthz                 liveness

Example:
  campaign-planner serve --addr :8080
  curl -X POST localhost:8080/api/v1/campaigns -d @brief.json`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().StringSliceVar(&allowOrigins, "allow-origin", nil, "CORS origins allowed to call the API")
	serveCmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for simulated metrics (0 draws a random seed)")
}

func runServe(cmd *cobra.Command, args []string) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		return err
	}

	orch, err := newOrchestrator(ctx, cfg, seed)
	if err != nil {
		return err
	}

	addr := listenAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	srv := server.New(orch, server.Options{
		AllowOrigins: allowOrigins,
		Logger:       getLogger(),
	})

	fmt.Printf("Serving campaign planner on %s (%s)\n", addr, cfg.Provider)

	err = srv.ListenAndServe(ctx, addr)
	return err
}
