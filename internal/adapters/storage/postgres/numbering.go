package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vet-hospital/internal/ports/numbering"
)

// NumberGenerator usa un upsert atómico sobre number_sequences.
type NumberGenerator struct {
	db *sql.DB
}

var _ numbering.Generator = (*NumberGenerator)(nil)

func NewNumberGenerator(db *sql.DB) *NumberGenerator {
	return &NumberGenerator{db: db}
}

func (g *NumberGenerator) Next(ctx context.Context, kind numbering.Kind, at time.Time) (string, error) {
	year := numbering.SequenceYear(kind, at)

	var seq int64
	err := conn(ctx, g.db).QueryRowContext(ctx, `
		INSERT INTO number_sequences (kind, year, value) VALUES ($1, $2, 1)
		ON CONFLICT (kind, year) DO UPDATE SET value = number_sequences.value + 1
		RETURNING value
	`, string(kind), year).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("next %s number: %w", kind, err)
	}
	return numbering.Format(kind, year, seq), nil
}
