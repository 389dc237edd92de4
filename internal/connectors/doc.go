// Package connectors holds implementations of driven.CommitSource, one per
// hosting API. Each connector owns its transport, rate tracking and the
// mapping of API failures onto domain errors.
package connectors
