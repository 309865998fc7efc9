package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

// Header is the HTTP header a trace id travels in.
const Header = "X-Trace-ID"

type contextKey struct{}

// GenerateTraceID returns a fresh 32-hex-character trace id.
func GenerateTraceID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// WithContext attaches a trace id to ctx.
func WithContext(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, contextKey{}, traceID)
}

// FromContext returns the trace id carried by ctx, or "".
func FromContext(ctx context.Context) string {
	if traceID, ok := ctx.Value(contextKey{}).(string); ok {
		return traceID
	}
	return ""
}
