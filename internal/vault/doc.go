// Package vault retrieves browser cookies from the Cookie Vault, a Supabase
// table written by the cookie-extractor browser extension. Entries are
// end-to-end encrypted with AES-256-GCM under a key derived from the vault
// passphrase, so the server never sees cookie values.
package vault
