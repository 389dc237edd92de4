// Package normalisers provides implementations of the ChangeSetParser
// interface. Each normaliser turns raw API payloads into the tabular form
// the stores persist.
package normalisers
