package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"vet-hospital/internal/ports/receipts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r := NewRenderer("Vet Hospital")
	out, err := r.Render(context.Background(), receipts.Document{
		Number:    "RCPT-2026-000001",
		IssuedAt:  time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
		DonorName: "José Pérez",
		Amount:    1500,
		Method:    "upi",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRender_RequiresNumber(t *testing.T) {
	_, err := NewRenderer("x").Render(context.Background(), receipts.Document{})
	assert.Error(t, err)
}
