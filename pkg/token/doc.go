// Package token issues and verifies the bearer tokens returned by
// POST /authn/login.
//
// Tokens are HS256 JWTs signed with the key from CPM_SIGNING_KEY. The
// subject claim holds the user id and a username claim is carried for
// display.
//
//	issuer, _ := token.NewIssuer(key, "cpm", time.Hour)
//	signed, expiresAt, _ := issuer.Issue(user.ID, user.Username)
//	claims, err := issuer.Verify(signed)
package token
