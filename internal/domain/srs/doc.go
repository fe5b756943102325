// Package srs implements the SM-2 spaced repetition scheduling algorithm.
// The transition function is pure: no I/O, no shared state, safe to call
// concurrently for different progress records.
package srs
