package utils

import (
	"context"
)

type contextKey string

const ContextIdentityKey contextKey = "identity"

func GetIdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(ContextIdentityKey).(Identity)
	return identity, ok
}
