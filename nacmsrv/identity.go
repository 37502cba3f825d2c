package nacmsrv

import (
	"context"
	"fmt"
	"sync/atomic"
)

// Identity is the authenticated caller information a gRPC interceptor
// attaches to a request context, the NACM analogue of common_utils'
// AuthInfo/RequestContext pair: a username plus the external group
// memberships enable-external-groups folds into the effective group
// set, instead of telemetry's role list and request-id bookkeeping.
type Identity struct {
	// ID is a per-request identifier, generated the same way
	// RequestContext.ID is (a monotonic counter, not a UUID), useful
	// for correlating a deny in logs with the request that caused it.
	ID string
	// User is the NACM username -- the request's authenticated
	// identity, matched against Group.Users and Policy.RecoveryUser.
	User string
	// ExternalGroups are group names supplied by the transport layer
	// (e.g. from a TLS client certificate's organization field)
	// rather than NACM's own Groups/Users mapping; only consulted when
	// Policy.EnableExternalGroups is set.
	ExternalGroups []string
}

type identityKey struct{}

var requestCounter uint64

// WithIdentity attaches identity to ctx, generating an ID if one
// isn't already set.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	if identity.ID == "" {
		identity.ID = fmt.Sprintf("nacm-%d", atomic.AddUint64(&requestCounter, 1))
	}
	return context.WithValue(ctx, identityKey{}, &identity)
}

// IdentityFromContext returns the Identity WithIdentity attached to
// ctx, or the zero Identity if none was attached -- a zero Identity is
// an anonymous caller with an empty user name, for which the nacm
// evaluators skip every rule-list and apply only the defaults.
func IdentityFromContext(ctx context.Context) Identity {
	v, ok := ctx.Value(identityKey{}).(*Identity)
	if !ok || v == nil {
		return Identity{}
	}
	return *v
}

// CheckRPCContext is CheckRPC with the caller identity read from ctx,
// the shape a unary gRPC interceptor calls directly.
func (s *Server) CheckRPCContext(ctx context.Context, module, operation string) error {
	id := IdentityFromContext(ctx)
	return s.CheckRPC(id.User, id.ExternalGroups, module, operation)
}
