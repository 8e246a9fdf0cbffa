package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"newsbrief/config"
	"newsbrief/internal/brief"
	"newsbrief/internal/deliver"
	"newsbrief/internal/telemetry"
)

// App ties the brief builder to its delivery sinks so the one-shot run
// and the scheduler share a single cycle implementation.
type App struct {
	cfg     *config.Config
	builder *brief.Builder
	email   *deliver.EmailSender
	metrics *telemetry.Metrics
	logger  *log.Logger
}

// New wires an App. email may be nil when the email sink is disabled;
// metrics may be nil.
func New(cfg *config.Config, builder *brief.Builder, email *deliver.EmailSender, metrics *telemetry.Metrics, logger *log.Logger) *App {
	if logger == nil {
		logger = log.New(log.Writer(), "[APP] ", log.LstdFlags)
	}
	return &App{
		cfg:     cfg,
		builder: builder,
		email:   email,
		metrics: metrics,
		logger:  logger,
	}
}

// RunCycle executes one full brief cycle and returns the result. The
// per-topic article count is articles_per_topic, capped by max_results
// when that is set lower.
func (a *App) RunCycle(ctx context.Context) (brief.Brief, error) {
	runID := uuid.NewString()
	start := time.Now()
	a.logger.Printf("run %s: building brief for %d topic(s)", runID, len(a.cfg.Topics))

	perTopic := a.cfg.ArticlesPerTopic
	if a.cfg.MaxResults > 0 && perTopic > a.cfg.MaxResults {
		perTopic = a.cfg.MaxResults
	}

	b, err := a.builder.Build(ctx, a.cfg.Topics, perTopic, a.cfg.DaysBack)
	elapsed := time.Since(start)
	if err != nil {
		a.metrics.CycleFinished("error", elapsed)
		return brief.Brief{}, fmt.Errorf("run %s: %w", runID, err)
	}

	a.metrics.CycleFinished("ok", elapsed)
	a.logger.Printf("run %s: %d article(s) across %d topic(s) in %s",
		runID, b.TotalArticles(), len(b.Sections), elapsed.Round(time.Millisecond))
	return b, nil
}

// Deliver pushes a finished brief to the configured sinks. save controls
// the file sink; the email sink runs whenever a sender is wired. Sink
// failures are logged and counted, never returned; one sink failing does
// not stop the other.
func (a *App) Deliver(b brief.Brief, save bool) {
	if save {
		path, err := deliver.WriteFile(b, a.cfg.OutputDirectory, a.cfg.DateFormat)
		a.metrics.Delivery("file", err)
		if err != nil {
			a.logger.Printf("warn: %v", err)
		} else {
			a.logger.Printf("brief saved to %s", path)
		}
	}
	if a.email != nil {
		err := a.email.Send(b)
		a.metrics.Delivery("email", err)
		if err != nil {
			a.logger.Printf("warn: %v", err)
		} else {
			a.logger.Printf("brief emailed to %s", a.cfg.Email.RecipientEmail)
		}
	}
}
