// Package session persists client-side state in the local SQLite database:
// the auth session (token + user, always written and cleared together), UI
// preferences, and a short-lived cache.
//
// Nothing here caches in memory: each read goes to the database, so a write
// is visible to the next read immediately.
package session
