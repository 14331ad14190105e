package receipts

import "context"

// Store guarda el PDF de un recibo y devuelve una referencia (s3://... o mem://...).
type Store interface {
	Put(ctx context.Context, key string, contentType string, body []byte) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
}
