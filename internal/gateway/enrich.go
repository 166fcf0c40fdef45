package gateway

import "strings"

// thresholdKeywords trigger reference enrichment. Matched case-insensitively
// as substring containment against the lowercased message, so accent-less
// variants are listed alongside the accented spellings.
var thresholdKeywords = []string{
	"umbral",
	"monto",
	"límite",
	"limite",
	"aviso",
	"identificación",
	"identificacion",
	"efectivo",
	"inmueble",
	"vehículo",
	"vehiculo",
	"tarjeta",
	"metales",
	"joyas",
	"piedras preciosas",
	"obra de arte",
	"obras de arte",
	"activo virtual",
	"activos virtuales",
	"mutuo",
	"préstamo",
	"prestamo",
	"donativo",
	"arrendamiento",
	"traslado",
	"uma",
}

// referenceBlock is the fixed regulatory threshold table appended after a
// separating marker. Versioned; update the version line when figures change.
const referenceBlock = `

--- REFERENCIA NORMATIVA (LFPIORPI, Art. 17) ---
Umbrales de identificación y de aviso por actividad vulnerable, en UMA:
- Inmuebles: Cualquier monto (identificación); aviso a partir de 8,025 UMA
- Vehículos nuevos o usados: identificación 3,210 UMA; aviso 6,420 UMA
- Metales, piedras preciosas y joyas: identificación 805 UMA; aviso 1,605 UMA
- Obras de arte: identificación 2,410 UMA; aviso 4,815 UMA
- Tarjetas de servicios o de crédito: identificación 805 UMA; aviso 1,285 UMA
- Tarjetas prepagadas: identificación y aviso 645 UMA
- Activos virtuales: identificación 645 UMA; aviso 210 UMA
- Mutuo, préstamo o crédito: Cualquier monto (identificación); aviso 1,605 UMA
- Donativos: identificación 1,605 UMA; aviso 3,210 UMA
- Arrendamiento de inmuebles: identificación 1,605 UMA; aviso 3,210 UMA
- Traslado o custodia de dinero o valores: identificación 3,210 UMA; aviso 6,420 UMA
Versión de la tabla: 2024-01. Cita estas cifras cuando la pregunta lo amerite.`

// EnrichMessage appends the regulatory reference block when the message
// mentions any threshold-related keyword; otherwise the message is returned
// unchanged. Deterministic and computed once per request.
func EnrichMessage(message string) string {
	lowered := strings.ToLower(message)
	for _, kw := range thresholdKeywords {
		if strings.Contains(lowered, kw) {
			return message + referenceBlock
		}
	}
	return message
}
