package receipts

import (
	"context"
	"time"
)

// Document son los datos que aparecen impresos en un recibo de donación.
type Document struct {
	Number    string
	IssuedAt  time.Time
	DonorName string
	Amount    float64
	Method    string
	Purpose   string
	Notes     string
}

// Renderer genera el PDF de un recibo.
type Renderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
}

// ContentTypePDF es el content type con que se guardan los recibos.
const ContentTypePDF = "application/pdf"
