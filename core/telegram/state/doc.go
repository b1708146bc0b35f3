// Package state persists per-user conversation state for Telegram bots.
// It is intentionally domain-agnostic so it can be reused across bots:
// the state tags themselves are defined by the application.
package state
