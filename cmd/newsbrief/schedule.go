package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"newsbrief/internal/scheduler"
	"newsbrief/internal/server"
	"newsbrief/internal/telemetry"
)

func scheduleCMD() *cobra.Command {
	var cfgPath string
	var runNow bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the brief scheduler until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			logger := log.New(os.Stdout, "[NEWSBRIEF] ", log.LstdFlags)

			cfg, err := loadConfig(cfgPath, logger)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			metrics := telemetry.New(reg)
			a := buildApp(cfg, metrics, logger)
			sched := scheduler.New(a, cfg.Schedule, cfg.AutoSave,
				log.New(os.Stdout, "[SCHED] ", log.LstdFlags))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var srvDone chan struct{}
			if cfg.Server.Listen != "" {
				srv := server.New(sched, reg, log.New(os.Stdout, "[HTTP] ", log.LstdFlags))
				srvDone = make(chan struct{})
				go func() {
					defer close(srvDone)
					if err := srv.Run(ctx, cfg.Server.Listen); err != nil {
						logger.Printf("warn: ops server exited: %v", err)
					}
				}()
			}

			logger.Printf("press Ctrl+C to stop the scheduler")
			err = sched.Run(ctx, runNow)
			if srvDone != nil {
				// Wait for the ops server to finish its graceful shutdown.
				<-srvDone
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config.json)")
	cmd.Flags().BoolVar(&runNow, "run-now", false, "run one cycle immediately before scheduling")
	return cmd
}
