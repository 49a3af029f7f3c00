package auth

import "context"

// CallerContext holds information about the authenticated caller
type CallerContext struct {
	// Subject identifies the caller: the token subject for bearer auth,
	// "api-key" for shared-key auth
	Subject string
	// AuthType is "api_key" or "bearer"
	AuthType string
}

type contextKey string

const callerContextKey contextKey = "callerContext"

// WithCallerContext adds caller information to the context
func WithCallerContext(ctx context.Context, caller *CallerContext) context.Context {
	return context.WithValue(ctx, callerContextKey, caller)
}

// FromContext extracts caller information from the context
func FromContext(ctx context.Context) (*CallerContext, bool) {
	caller, ok := ctx.Value(callerContextKey).(*CallerContext)
	return caller, ok
}
