package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/phrazzld/parcel-api/internal/domain"
)

// ContextKey is the type of request-scoped context keys set by the API.
type ContextKey string

const (
	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// PrincipalKey is the key for the verified *domain.Principal
	PrincipalKey ContextKey = "principal"

	// TraceIDLength is the number of random bytes in a trace ID
	TraceIDLength = 16 // 32 hex characters
)

// SetTraceID adds a fresh trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context, or "" when absent.
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// WithPrincipal stores the verified principal on the context.
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// GetPrincipal returns the principal set by the authentication middleware.
func GetPrincipal(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(*domain.Principal)
	return p, ok && p != nil
}

var randRead = rand.Read

// generateTraceID returns 32 hex characters. A failing random source falls
// back to a v4 UUID without dashes.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if n, err := randRead(b); err != nil || n != TraceIDLength {
		id := uuid.New()
		return hex.EncodeToString(id[:])
	}
	return hex.EncodeToString(b)
}
