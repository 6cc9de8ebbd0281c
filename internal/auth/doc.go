// Package auth manages the Clerk session tokens that authenticate Higgsfield
// API calls.
//
// Tokens are short-lived JWTs. A Manager built from the long-lived __client
// cookie refreshes transparently through the Clerk frontend API whenever the
// cached token is within ten seconds of its embedded expiry; a Manager built
// from a static token serves it as-is and cannot refresh. Helpers extract the
// __session cookie from cookie-extractor JSON exports.
package auth
