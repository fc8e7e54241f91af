// Package services contains the application service layer.
//
// ClaimsService owns the session lifecycle of the claims dataset: it
// loads the CSV once, builds an immutable snapshot with every aggregate
// view precomputed, and serves reads to any number of presentation
// consumers. Reload swaps the snapshot atomically.
package services
