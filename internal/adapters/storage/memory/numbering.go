package memory

import (
	"context"
	"fmt"
	"time"

	"vet-hospital/internal/ports/numbering"
)

type numberGenerator struct {
	s *Store
}

// NewNumberGenerator guarda los contadores en el Store, así un rollback también los revierte.
func NewNumberGenerator(s *Store) numbering.Generator {
	return &numberGenerator{s: s}
}

func (g *numberGenerator) Next(ctx context.Context, kind numbering.Kind, at time.Time) (string, error) {
	defer g.s.write(ctx)()

	year := numbering.SequenceYear(kind, at)
	key := fmt.Sprintf("%s/%d", kind, year)
	g.s.t.sequences[key]++
	return numbering.Format(kind, year, g.s.t.sequences[key]), nil
}
