package numbering

import (
	"context"
	"fmt"
	"time"
)

type Kind string

const (
	KindAdmission     Kind = "admission"
	KindInvoice       Kind = "invoice"
	KindPurchaseOrder Kind = "purchase_order"
	KindReceipt       Kind = "receipt"
	KindPetTag        Kind = "pet_tag"
)

// Generator entrega el siguiente correlativo para un tipo de documento.
// Cada implementación garantiza que dos llamadas concurrentes no reciben el mismo valor.
type Generator interface {
	Next(ctx context.Context, kind Kind, at time.Time) (string, error)
}

func prefix(kind Kind) string {
	switch kind {
	case KindAdmission:
		return "ADM"
	case KindInvoice:
		return "INV"
	case KindPurchaseOrder:
		return "PO"
	case KindReceipt:
		return "RCPT"
	case KindPetTag:
		return "TAG"
	default:
		return "DOC"
	}
}

// Yearly indica si el correlativo se reinicia cada año.
func Yearly(kind Kind) bool {
	return kind != KindPetTag
}

// Format arma el número visible: ADM-2026-000042 o TAG-000042.
func Format(kind Kind, year int, seq int64) string {
	if !Yearly(kind) {
		return fmt.Sprintf("%s-%06d", prefix(kind), seq)
	}
	return fmt.Sprintf("%s-%04d-%06d", prefix(kind), year, seq)
}

// SequenceYear devuelve el año de la secuencia (0 para correlativos globales).
func SequenceYear(kind Kind, at time.Time) int {
	if !Yearly(kind) {
		return 0
	}
	return at.UTC().Year()
}
