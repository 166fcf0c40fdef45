package gateway

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"cumplia.mx/compliance-gateway/pkg/logger"
	"cumplia.mx/compliance-gateway/pkg/metrics"
)

// UsageStore is the persistence surface the recorder writes to. Both
// operations are merge-semantics writes keyed by tenant id.
type UsageStore interface {
	AppendConversationLog(ctx context.Context, tenantID, userMessage, botResponse string, ts time.Time) error
	IncrementUsage(ctx context.Context, tenantID string, ts time.Time) error
}

const (
	maxLoggedUserMessage = 500
	maxLoggedBotResponse = 1000

	recordTimeout = 10 * time.Second
)

// Recorder persists conversation logs and per-tenant usage counters as
// best-effort side effects. Failures never reach the primary request path;
// they are logged and counted, nothing more.
type Recorder struct {
	store  UsageStore
	logger *logger.Logger
	wg     sync.WaitGroup
}

func NewRecorder(store UsageStore, log *logger.Logger) *Recorder {
	return &Recorder{store: store, logger: log}
}

// Record dispatches the two write operations on independent goroutines and
// returns immediately. The operations are unordered and independent: one
// failing does not stop the other. The request context is deliberately not
// used — a caller disconnect after a successful model call must not abort
// metering.
func (r *Recorder) Record(tenantID, userMessage, botResponse string) {
	now := time.Now().UTC()

	r.wg.Add(2)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		err := r.store.AppendConversationLog(ctx, tenantID,
			truncate(userMessage, maxLoggedUserMessage),
			truncate(botResponse, maxLoggedBotResponse),
			now)
		if err != nil {
			metrics.RecorderFailuresTotal.WithLabelValues("conversation_log").Inc()
			r.logger.Warn("conversation log write failed",
				zap.String("tenant_id", tenantID), zap.Error(err))
		}
	}()
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := r.store.IncrementUsage(ctx, tenantID, now); err != nil {
			metrics.RecorderFailuresTotal.WithLabelValues("usage_counter").Inc()
			r.logger.Warn("usage counter update failed",
				zap.String("tenant_id", tenantID), zap.Error(err))
		}
	}()
}

// Wait blocks until all dispatched writes have finished. Used to drain
// in-flight writes on shutdown and to synchronize tests.
func (r *Recorder) Wait() {
	r.wg.Wait()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
