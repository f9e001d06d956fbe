// Package auth verifies the admin password and issues signed session tokens.
//
// Passwords are stored as bcrypt hashes inside the content document and are
// only ever compared through bcrypt; there is no plaintext fallback.
//
// Tokens are HS256 JWTs carrying an admin claim, a random token id and an
// expiry. Tokens are not tracked server-side: logout is the client dropping
// its token, and a leaked token stays valid until it expires.
package auth
