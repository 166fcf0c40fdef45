package gateway

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cumplia.mx/compliance-gateway/pkg/logger"
)

// stubStore is an in-memory UsageStore with optional fault injection.
type stubStore struct {
	mu           sync.Mutex
	logs         []stubLog
	counters     map[string]int
	logErr       error
	incrementErr error
}

type stubLog struct {
	tenantID    string
	userMessage string
	botResponse string
}

func newStubStore() *stubStore {
	return &stubStore{counters: make(map[string]int)}
}

func (s *stubStore) AppendConversationLog(ctx context.Context, tenantID, userMessage, botResponse string, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.logErr != nil {
		return s.logErr
	}
	s.logs = append(s.logs, stubLog{tenantID, userMessage, botResponse})
	return nil
}

func (s *stubStore) IncrementUsage(ctx context.Context, tenantID string, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.incrementErr != nil {
		return s.incrementErr
	}
	s.counters[tenantID]++
	return nil
}

func (s *stubStore) logCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs)
}

func (s *stubStore) counter(tenantID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[tenantID]
}

func TestRecorderWritesBothOperations(t *testing.T) {
	st := newStubStore()
	rec := NewRecorder(st, logger.NewNop())

	rec.Record("tenant-1", "pregunta", "respuesta")
	rec.Wait()

	require.Equal(t, 1, st.logCount())
	assert.Equal(t, 1, st.counter("tenant-1"))
	assert.Equal(t, "pregunta", st.logs[0].userMessage)
	assert.Equal(t, "respuesta", st.logs[0].botResponse)
}

func TestRecorderTruncatesLoggedFields(t *testing.T) {
	st := newStubStore()
	rec := NewRecorder(st, logger.NewNop())

	longUser := strings.Repeat("á", 800)
	longBot := strings.Repeat("é", 1500)
	rec.Record("tenant-1", longUser, longBot)
	rec.Wait()

	require.Equal(t, 1, st.logCount())
	assert.Len(t, []rune(st.logs[0].userMessage), 500)
	assert.Len(t, []rune(st.logs[0].botResponse), 1000)
}

func TestRecorderFailuresAreIndependent(t *testing.T) {
	st := newStubStore()
	st.logErr = errors.New("store outage")
	rec := NewRecorder(st, logger.NewNop())

	rec.Record("tenant-1", "hola", "adiós")
	rec.Wait()

	// The log write failed but the counter still advanced.
	assert.Equal(t, 0, st.logCount())
	assert.Equal(t, 1, st.counter("tenant-1"))
}
