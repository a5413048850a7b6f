package pdf

import (
	"context"
	"io"
)

type Provider interface {
	GenerateDigest(ctx context.Context, data DigestData) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateDigest(ctx context.Context, data DigestData) (io.Reader, error) {
	return nil, nil
}
