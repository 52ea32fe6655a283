// Package srs implements the SM-2 spaced repetition scheduler.
//
// The scheduler is a pure function of the previous schedule, the recall
// quality (0-5) and the review time. It never mutates its input and performs
// no I/O; persisting the returned schedule is the caller's job.
package srs
