// Package service contains the application use cases. It binds the pure
// scheduling and analytics packages under internal/domain to the persistence
// interfaces defined in internal/store.
//
// Key components:
//
//   - AttemptService appends answers to the attempt log.
//   - ReviewService runs the SM-2 scheduler and persists review schedules.
//   - SessionService drives the practice session lifecycle.
//   - ProgressService and StreakService compute read-only analytics.
//
// Writes to the same (user, question) pair are serialized through a
// PairLocker. Write failures propagate to the caller; analytics reads degrade
// to zero values and log a warning instead.
//
// Services depend only on store interfaces, never on a concrete adapter.
package service
