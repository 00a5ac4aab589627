// Package worker mirrors persisted entry changes to a remote endpoint.
// The worker consumes entry events from the broker and replays each one
// against the mirror; the local ledger is always the source of truth and
// never waits for the mirror.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"worktracker/internal/amqp"
	"worktracker/internal/ledger"
)

// SyncWorker replays entry events against the mirror endpoint.
type SyncWorker struct {
	events *amqp.Client
	repo   *ledger.Repository
	target string
	client *http.Client
}

func NewSyncWorker(events *amqp.Client, repo *ledger.Repository, targetURL string) *SyncWorker {
	return &SyncWorker{
		events: events,
		repo:   repo,
		target: targetURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Run consumes events until the context is cancelled.
func (w *SyncWorker) Run(ctx context.Context) error {
	return w.events.ConsumeEntryEvents(ctx, func(event *amqp.EntryEvent) error {
		return w.Handle(ctx, event)
	})
}

// Handle mirrors a single event. Returning an error requeues it.
func (w *SyncWorker) Handle(ctx context.Context, event *amqp.EntryEvent) error {
	url := fmt.Sprintf("%s/entries/%d", w.target, event.ID)

	switch event.Op {
	case amqp.OpUpsert:
		entry, ok := w.repo.Entry(event.ID)
		if !ok {
			// Deleted between publish and consume; the delete event
			// that follows will clean the mirror up.
			slog.InfoContext(ctx, "Entry gone before mirroring, skipping", "id", event.ID)
			return nil
		}
		body, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("encode entry %d: %w", event.ID, err)
		}
		return w.send(ctx, http.MethodPut, url, bytes.NewReader(body))
	case amqp.OpDelete:
		return w.send(ctx, http.MethodDelete, url, nil)
	default:
		slog.WarnContext(ctx, "Dropping event with unknown op", "op", event.Op)
		return nil
	}
}

func (w *SyncWorker) send(ctx context.Context, method, url string, body *bytes.Reader) error {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, url, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url, nil)
	}
	if err != nil {
		return fmt.Errorf("build mirror request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("mirror request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mirror returned %s for %s %s", resp.Status, method, url)
	}

	slog.InfoContext(ctx, "Entry mirrored", "method", method, "url", url)
	return nil
}
