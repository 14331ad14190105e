package numbering

import (
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	if got := Format(KindAdmission, SequenceYear(KindAdmission, at), 42); got != "ADM-2026-000042" {
		t.Fatalf("unexpected admission number %q", got)
	}
	if got := Format(KindPetTag, SequenceYear(KindPetTag, at), 7); got != "TAG-000007" {
		t.Fatalf("unexpected tag %q", got)
	}
	if got := Format(KindPurchaseOrder, 2025, 1); got != "PO-2025-000001" {
		t.Fatalf("unexpected po number %q", got)
	}
}
