package gateway

import "strings"

// Upstream failures arrive as free text, so classification is a substring
// scan over lowercased error content. Safety markers are checked before
// quota markers: a message could coincidentally contain both, and a content
// rejection requires a different corrective action from the caller.
var (
	safetyMarkers = []string{
		"safety",
		"blocked",
		"content policy",
		"harm_category",
		"prohibited_content",
	}

	quotaMarkers = []string{
		"quota",
		"resource_exhausted",
		"rate limit",
		"ratelimit",
		"too many requests",
		"429",
	}
)

// Classify maps any adapter failure to a stable *Error. Total: every input
// yields one of ContentRejected, ResourceExhausted or Internal. Raw upstream
// detail is kept only as the wrapped cause, never in the client message.
func Classify(err error) *Error {
	text := strings.ToLower(err.Error())

	for _, m := range safetyMarkers {
		if strings.Contains(text, m) {
			return newError(KindContentRejected,
				"Tu mensaje no pudo ser procesado por políticas de contenido. Intenta reformularlo.", err)
		}
	}

	for _, m := range quotaMarkers {
		if strings.Contains(text, m) {
			return newError(KindResourceExhausted,
				"El servicio está recibiendo demasiadas solicitudes. Intenta de nuevo en unos minutos.", err)
		}
	}

	return newError(KindInternal,
		"Ocurrió un error al generar la respuesta. Intenta de nuevo más tarde.", err)
}
