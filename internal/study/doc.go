// Package study implements the ephemeral in-session card queues for the
// non-SRS study policies: quick review and mastery. Queues are pure
// in-memory structures driven by an injected random source; they never touch
// persisted scheduling state and are single-consumer by design.
package study
