// Package relay wires the consent-statistics pipeline for one run:
// resolve the date window, fetch from Cookiebot, extract and map rows,
// send the batch to New Relic.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ignite/consent-relay/internal/config"
	"github.com/ignite/consent-relay/internal/cookiebot"
	"github.com/ignite/consent-relay/internal/daterange"
	"github.com/ignite/consent-relay/internal/pkg/httpretry"
	"github.com/ignite/consent-relay/internal/pkg/logger"
)

// Retry policy per call site. The fetch turns around quickly; the ingestion
// endpoint gets a longer base delay to ride out brief throttling. Both use
// the same linear schedule.
const (
	fetchAttempts  = 3
	fetchBaseDelay = 1 * time.Second
	sendAttempts   = 3
	sendBaseDelay  = 2 * time.Second
)

// StatsFetcher retrieves the raw consent-statistics payload for a window.
type StatsFetcher interface {
	FetchStats(ctx context.Context, startDate, endDate string) (any, error)
}

// EventSender delivers one serialized event batch.
type EventSender interface {
	SendEvents(ctx context.Context, payload []byte) error
}

// Summary reports what one run did.
type Summary struct {
	Range  daterange.Range
	Rows   int
	Events int
	Sent   bool
}

// Relay executes the fetch → extract → map → send pipeline.
type Relay struct {
	cfg     *config.Config
	fetcher StatsFetcher
	sender  EventSender
	now     func() time.Time

	fetchAttempts int
	fetchDelay    time.Duration
	sendAttempts  int
	sendDelay     time.Duration
}

// New creates a Relay. The clock is injectable for tests; nil uses wall time.
func New(cfg *config.Config, fetcher StatsFetcher, sender EventSender, now func() time.Time) *Relay {
	if now == nil {
		now = time.Now
	}
	return &Relay{
		cfg:           cfg,
		fetcher:       fetcher,
		sender:        sender,
		now:           now,
		fetchAttempts: fetchAttempts,
		fetchDelay:    fetchBaseDelay,
		sendAttempts:  sendAttempts,
		sendDelay:     sendBaseDelay,
	}
}

// Run executes one relay pass. An empty extraction is a clean no-op: the
// run succeeds without touching the ingestion endpoint.
func (r *Relay) Run(ctx context.Context) (Summary, error) {
	window, err := daterange.Resolve(r.now(), r.cfg.StartDate, r.cfg.EndDate, r.cfg.LookbackDays)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Range: window}

	logger.Info("fetching consent statistics",
		"domain", r.cfg.CookiebotDomain,
		"startdate", window.Start, "enddate", window.End, "mode", window.Mode)

	var payload any
	err = httpretry.Do(ctx, r.fetchAttempts, r.fetchDelay, func(ctx context.Context) error {
		var fetchErr error
		payload, fetchErr = r.fetcher.FetchStats(ctx, window.Start, window.End)
		return fetchErr
	})
	if err != nil {
		return summary, fmt.Errorf("failed to fetch consent statistics: %w", err)
	}

	rows := cookiebot.ExtractRows(payload)
	summary.Rows = len(rows)
	if len(rows) == 0 {
		logger.Info("no consent rows in window, nothing to send",
			"startdate", window.Start, "enddate", window.End)
		return summary, nil
	}

	meta := RunMeta{
		Environment:   r.cfg.Environment,
		Domain:        r.cfg.CookiebotDomain,
		DomainGroupID: r.cfg.CookiebotDomainGroupID,
	}
	pulledAt := r.now()
	events := make([]ConsentEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, MapRow(row, meta, pulledAt))
	}
	summary.Events = len(events)

	body, err := json.Marshal(events)
	if err != nil {
		return summary, fmt.Errorf("failed to serialize events: %w", err)
	}

	err = httpretry.Do(ctx, r.sendAttempts, r.sendDelay, func(ctx context.Context) error {
		return r.sender.SendEvents(ctx, body)
	})
	if err != nil {
		return summary, fmt.Errorf("failed to send events: %w", err)
	}

	summary.Sent = true
	logger.Info("sent consent events", "count", len(events), "bytes", len(body))
	return summary, nil
}
