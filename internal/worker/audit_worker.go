// Package worker consumes mutation events from the broker and records
// them in the audit trail, keeping the write path of the API free of
// audit latency.
package worker

import (
	"context"
	"fmt"

	"fintrack/internal/events"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// AuditRecorder appends mutation records to durable storage.
type AuditRecorder interface {
	AppendAudit(ctx context.Context, e storage.AuditEntry) error
}

// EventSource delivers mutation events until the context is cancelled.
type EventSource interface {
	ConsumeMutations(ctx context.Context, prefetch int, handler func(*events.MutationEvent) error) error
}

type AuditWorker struct {
	source   EventSource
	recorder AuditRecorder
	prefetch int
	logger   *log.Logger
}

func NewAuditWorker(source EventSource, recorder AuditRecorder, prefetch int, logger *log.Logger) *AuditWorker {
	return &AuditWorker{
		source:   source,
		recorder: recorder,
		prefetch: prefetch,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// Run blocks consuming events until ctx is cancelled. A failed append is
// returned to the source so the delivery is redelivered.
func (w *AuditWorker) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "audit worker starting", "prefetch", w.prefetch)
	return w.source.ConsumeMutations(ctx, w.prefetch, func(event *events.MutationEvent) error {
		return w.record(ctx, event)
	})
}

func (w *AuditWorker) record(ctx context.Context, event *events.MutationEvent) error {
	entry := storage.AuditEntry{
		Entity:     event.Entity,
		Op:         event.Op,
		EntityID:   event.EntityID,
		OccurredAt: event.OccurredAt,
	}
	if err := w.recorder.AppendAudit(ctx, entry); err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	w.logger.InfoContext(ctx, "recorded mutation",
		log.FieldEntity, event.Entity,
		log.FieldOperation, event.Op,
		log.FieldEntityID, event.EntityID)
	return nil
}
