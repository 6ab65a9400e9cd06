package extract

import (
	"context"

	"github.com/stretchr/testify/mock"

	"embedpack/internal/embeddings"
)

// MockExtractor is a mock implementation of Extractor using testify/mock.
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context) ([]embeddings.Entry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]embeddings.Entry), args.Error(1)
}
