// Package domain contains the core learning entities (attempts, review
// schedules, practice sessions) and the derived analytics value types.
// It is independent of any storage or delivery mechanism.
package domain
