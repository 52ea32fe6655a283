// Package store defines the narrow persistence contracts the progress core
// depends on. Implementations live under internal/platform; the core and the
// services never see SQL, Redis or in-memory maps directly.
package store
