package pubsub

import (
	"context"
	"testing"

	"github.com/fabrikline/wholesale-backend/pkg/config"
	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
)

func TestNewClientMissingProjectID(t *testing.T) {
	t.Parallel()

	_, err := NewClient(context.Background(), config.GCPConfig{}, config.PubSubConfig{}, nil)
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
