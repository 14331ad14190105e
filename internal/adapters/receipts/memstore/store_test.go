package memstore

import (
	"context"
	"testing"

	"vet-hospital/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref, err := s.Put(ctx, "receipts/2026/RCPT-2026-000001.pdf", "application/pdf", []byte("%PDF-1.3"))
	require.NoError(t, err)
	assert.Equal(t, "mem://receipts/2026/RCPT-2026-000001.pdf", ref)

	got, err := s.Get(ctx, "receipts/2026/RCPT-2026-000001.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3"), got)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
