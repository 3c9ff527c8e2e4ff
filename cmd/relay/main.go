package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/ignite/consent-relay/internal/config"
	"github.com/ignite/consent-relay/internal/cookiebot"
	"github.com/ignite/consent-relay/internal/newrelic"
	"github.com/ignite/consent-relay/internal/pkg/logger"
	"github.com/ignite/consent-relay/internal/relay"
)

func main() {
	runID := uuid.NewString()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", "run_id", runID, "error", err)
		fmt.Fprintln(os.Stderr, fatalLine(err))
		os.Exit(1)
	}

	// One HTTP client for both calls; its timeout bounds each attempt,
	// retries are layered on top by the relay.
	httpClient := &http.Client{Timeout: cfg.Timeout()}

	fetcher := cookiebot.NewClient(cookiebot.Config{
		BaseURL:       cfg.CookiebotBaseURL,
		APIKey:        cfg.CookiebotAPIKey,
		DomainGroupID: cfg.CookiebotDomainGroupID,
		Domain:        cfg.CookiebotDomain,
	}, httpClient)

	sender := newrelic.NewClient(newrelic.Config{
		BaseURL:   cfg.NewRelicBaseURL,
		AccountID: cfg.NewRelicAccountID,
		IngestKey: cfg.NewRelicIngestKey,
	}, httpClient)

	logger.Info("starting consent relay run",
		"run_id", runID,
		"environment", cfg.Environment,
		"domain", cfg.CookiebotDomain,
		"domain_group_id", cfg.CookiebotDomainGroupID)

	summary, err := relay.New(cfg, fetcher, sender, nil).Run(context.Background())
	if err != nil {
		logger.Error("relay run failed", "run_id", runID, "error", err)
		fmt.Fprintln(os.Stderr, fatalLine(err))
		os.Exit(1)
	}

	logger.Info("relay run complete",
		"run_id", runID,
		"mode", summary.Range.Mode,
		"startdate", summary.Range.Start,
		"enddate", summary.Range.End,
		"rows", summary.Rows,
		"events", summary.Events,
		"sent", summary.Sent)
}

// fatalLine renders err for the raw error stream. Fetch errors embed the
// stats URL whose path segment is the API key, so the line goes through the
// same credential redaction the structured logger applies.
func fatalLine(err error) string {
	return "FATAL: " + logger.RedactValue("error", err.Error())
}
