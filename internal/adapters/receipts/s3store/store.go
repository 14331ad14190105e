// Package s3store guarda los PDF de recibos en un bucket S3.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"vet-hospital/internal/platform/apperr"
	"vet-hospital/internal/ports/receipts"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var ErrNotConfigured = errors.New("s3 receipt store not configured")

// API es el subconjunto de *s3.Client que se usa; permite fakes en tests.
type API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type Store struct {
	client API
	bucket string
}

var _ receipts.Store = (*Store)(nil)

func New(cfg aws.Config, bucket string) *Store {
	return &Store{client: s3.NewFromConfig(cfg), bucket: strings.TrimSpace(bucket)}
}

func NewWithClient(client API, bucket string) *Store {
	return &Store{client: client, bucket: strings.TrimSpace(bucket)}
}

func (s *Store) Enabled() bool { return s != nil && s.client != nil && s.bucket != "" }

func (s *Store) Put(ctx context.Context, key string, contentType string, body []byte) (string, error) {
	if !s.Enabled() {
		return "", ErrNotConfigured
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put receipt %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if !s.Enabled() {
		return nil, ErrNotConfigured
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("get receipt %s: %w", key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}
