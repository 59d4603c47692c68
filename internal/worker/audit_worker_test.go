package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/events"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

type fakeSource struct {
	queued []*events.MutationEvent
}

func (s *fakeSource) ConsumeMutations(_ context.Context, _ int, handler func(*events.MutationEvent) error) error {
	for _, e := range s.queued {
		if err := handler(e); err != nil {
			return err
		}
	}
	return nil
}

type fakeRecorder struct {
	entries []storage.AuditEntry
	fail    bool
}

func (r *fakeRecorder) AppendAudit(_ context.Context, e storage.AuditEntry) error {
	if r.fail {
		return errors.New("disk full")
	}
	r.entries = append(r.entries, e)
	return nil
}

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func TestAuditWorkerRecordsEvents(t *testing.T) {
	occurred := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	source := &fakeSource{queued: []*events.MutationEvent{
		{Entity: events.EntityTransaction, Op: events.OpCreate, EntityID: "tx-1", OccurredAt: occurred},
		{Entity: events.EntityLoan, Op: events.OpDelete, EntityID: "loan-1", OccurredAt: occurred},
	}}
	recorder := &fakeRecorder{}

	w := NewAuditWorker(source, recorder, 10, testLogger())
	require.NoError(t, w.Run(context.Background()))

	require.Len(t, recorder.entries, 2)
	assert.Equal(t, "transaction", recorder.entries[0].Entity)
	assert.Equal(t, "create", recorder.entries[0].Op)
	assert.Equal(t, "tx-1", recorder.entries[0].EntityID)
	assert.Equal(t, occurred, recorder.entries[0].OccurredAt)
	assert.Equal(t, "loan-1", recorder.entries[1].EntityID)
}

func TestAuditWorkerSurfacesAppendFailure(t *testing.T) {
	source := &fakeSource{queued: []*events.MutationEvent{
		{Entity: events.EntityBudget, Op: events.OpUpdate, EntityID: "b-1", OccurredAt: time.Now()},
	}}
	recorder := &fakeRecorder{fail: true}

	w := NewAuditWorker(source, recorder, 1, testLogger())
	err := w.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record audit entry")
}
