// Package store defines the persistence interfaces the scheduling core
// depends on, together with the shared error taxonomy and transaction helper.
// Implementations live under internal/platform.
package store
