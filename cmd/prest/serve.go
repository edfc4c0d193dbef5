package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/prestsoftware/prest/internal/config"
	"github.com/prestsoftware/prest/internal/obslog"
	"github.com/prestsoftware/prest/preorder"
	"github.com/prestsoftware/prest/rpc"
	"github.com/prestsoftware/prest/subject"
)

func serveCmd() *cobra.Command {
	var listenWS string
	var precomputedPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the RPC server: one action per stdin/stdout frame, plus an optional WebSocket listener",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if listenWS != "" {
				cfg.RPC.ListenWS = listenWS
			}
			if precomputedPath != "" {
				cfg.PrecomputedPreorders = precomputedPath
			}

			log := obslog.New(os.Stderr, parseLevel(cfg.RPC.LogLevel))

			var loader *preorder.FileLoader
			if cfg.PrecomputedPreorders != "" {
				loader = preorder.NewFileLoader(cfg.PrecomputedPreorders)
			}
			env := &rpc.Env{Precomputed: preorder.NewPrecomputed(loader), Log: log}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 2)

			go func() {
				s := rpc.NewStreamServer(os.Stdin, os.Stdout, env)
				errCh <- s.Serve()
			}()

			var httpSrv *http.Server
			if cfg.RPC.ListenWS != "" {
				mux := http.NewServeMux()
				ws := rpc.NewWSServer(env, prometheus.DefaultRegisterer)
				mux.Handle("/", ws.Handler())
				mux.Handle("/metrics", promhttp.Handler())
				httpSrv = &http.Server{Addr: cfg.RPC.ListenWS, Handler: mux}
				log.Log(subject.LogInfo, "websocket listener starting on "+cfg.RPC.ListenWS)
				go func() {
					if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						errCh <- err
					}
				}()
			}

			select {
			case <-ctx.Done():
				log.Log(subject.LogInfo, "shutting down")
				if httpSrv != nil {
					return httpSrv.Close()
				}
				return nil
			case err := <-errCh:
				return err
			}
		},
	}

	cmd.Flags().StringVar(&listenWS, "listen-ws", "", "address to serve the WebSocket transport on (overrides config)")
	cmd.Flags().StringVar(&precomputedPath, "precomputed-preorders", "", "path to the size-7 precomputed preorders file (overrides config)")
	return cmd
}
