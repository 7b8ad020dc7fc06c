// Package identity carries the authenticated user through a request.
//
// The auth middleware verifies the bearer token, builds an Identity from its
// claims and stores it in the request context. Handlers read it back to
// stamp created_by and to scope listings to the caller.
//
//	id, err := identity.FromClaims(claims)
//	ctx = identity.Set(ctx, id.WithRemoteIP(clientIP))
//
//	id, ok := identity.Get(r.Context())
package identity
