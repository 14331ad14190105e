// Package money redondea montos a centavos. Los montos viajan como float64 en JSON
// y se guardan como NUMERIC(12,2) en Postgres.
package money

import "math"

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Line calcula el total de una línea (cantidad × precio) ya redondeado.
func Line(quantity float64, unitPrice float64) float64 {
	return Round2(quantity * unitPrice)
}

// Cents pasa a centavos enteros para comparar montos sin error de coma flotante.
func Cents(v float64) int64 {
	return int64(math.Round(v * 100))
}
