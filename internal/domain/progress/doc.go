// Package progress turns raw attempt records into learner statistics.
//
// Every aggregate goes through LatestAttempts first: a question counts once,
// with the outcome of its most recent attempt. Time spent is the exception and
// sums over every attempt, so it reflects total effort rather than mastery.
//
// All functions are pure and safe for concurrent use.
package progress
