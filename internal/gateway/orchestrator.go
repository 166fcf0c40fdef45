// Package gateway mediates between authenticated clients and the external
// generative backend: validation, bounded history reconstruction, domain
// context injection, upstream invocation, error classification and
// best-effort usage recording.
package gateway

import (
	"context"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"cumplia.mx/compliance-gateway/pkg/logger"
	"cumplia.mx/compliance-gateway/pkg/metrics"
)

// maxMessageChars bounds the inbound message length.
const maxMessageChars = 2000

// ModelInvoker is the outbound call contract to the external model. Exactly
// one attempt per request; retries could double-bill the provider.
type ModelInvoker interface {
	Invoke(ctx context.Context, history []Turn, message string) (string, error)
}

// Orchestrator composes the per-request pipeline and owns all
// request-scoped derived data.
type Orchestrator struct {
	invoker  ModelInvoker
	recorder *Recorder
	logger   *logger.Logger
}

func NewOrchestrator(invoker ModelInvoker, recorder *Recorder, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		invoker:  invoker,
		recorder: recorder,
		logger:   log,
	}
}

// Handle runs one chat exchange: validate, normalize history, enrich the
// message, invoke the model, and on success dispatch the recorder without
// blocking the response. Validation failures are raised before any external
// call; upstream failures are classified and returned as the terminal error.
func (o *Orchestrator) Handle(ctx context.Context, principal Principal, req ChatRequest) (*ChatResponse, error) {
	if principal.ID == "" {
		return nil, newError(KindUnauthenticated, "Se requiere autenticación.", nil)
	}

	if req.Message == "" {
		return nil, newError(KindInvalidArgument, "El mensaje no puede estar vacío.", nil)
	}
	if utf8.RuneCountInString(req.Message) > maxMessageChars {
		return nil, newError(KindInvalidArgument, "El mensaje excede el límite de 2000 caracteres.", nil)
	}

	history := NormalizeHistory(req.History)
	enriched := EnrichMessage(req.Message)

	text, err := o.invoker.Invoke(ctx, history, enriched)
	if err != nil {
		classified := Classify(err)
		metrics.ChatErrorsTotal.WithLabelValues(string(classified.Kind)).Inc()
		o.logger.Error("model invocation failed",
			zap.String("tenant_id", principal.ID),
			zap.String("kind", string(classified.Kind)),
			zap.Error(err))
		return nil, classified
	}

	resp := &ChatResponse{
		Success:   true,
		Response:  text,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	// Recorder runs after the response is computed and off the response
	// path. A slow or failing write never delays or degrades the reply.
	o.recorder.Record(principal.ID, req.Message, text)
	metrics.ChatMessagesTotal.WithLabelValues(principal.ID).Inc()

	return resp, nil
}

// Drain waits for in-flight recorder writes. Called on shutdown.
func (o *Orchestrator) Drain() {
	o.recorder.Wait()
}
