package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"newsbrief/config"
	"newsbrief/internal/app"
	"newsbrief/internal/brief"
	"newsbrief/internal/deliver"
	"newsbrief/internal/perplexity"
	"newsbrief/internal/telemetry"
)

func main() {
	root := &cobra.Command{
		Use:          "newsbrief",
		Short:        "Fetch, summarize, and deliver a periodic news brief",
		SilenceUsage: true,
	}
	root.AddCommand(runCMD(), scheduleCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the effective config and checks the credentials
// every command needs.
func loadConfig(path string, logger *log.Logger) (*config.Config, error) {
	cfg, err := config.Load(path, logger)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildApp wires the search client, builder, and delivery sinks from
// cfg. metrics may be nil for runs without an ops surface. A sender
// that cannot be built downgrades email to disabled instead of
// aborting the run.
func buildApp(cfg *config.Config, metrics *telemetry.Metrics, logger *log.Logger) *app.App {
	client := perplexity.New(cfg.API.Key, cfg.API.BaseURL, cfg.Model, cfg.MaxTokens)
	builder := brief.NewBuilder(client, client, metrics,
		log.New(os.Stdout, "[BRIEF] ", log.LstdFlags), cfg.QuerySuffix, cfg.SummaryPrompt)

	var email *deliver.EmailSender
	if cfg.Email.Enabled {
		sender, err := deliver.NewEmailSender(deliver.EmailConfig{
			From:     cfg.Email.SenderEmail,
			Password: cfg.Email.SenderPassword,
			To:       cfg.Email.RecipientEmail,
			Host:     cfg.Email.SMTPServer,
			Port:     cfg.Email.SMTPPort,
		}, cfg.DateFormat)
		if err != nil {
			logger.Printf("warn: email delivery disabled: %v", err)
		} else {
			email = sender
		}
	}
	return app.New(cfg, builder, email, metrics, log.New(os.Stdout, "[APP] ", log.LstdFlags))
}
