// Package kernel contains the shared value objects of the dispatch domain:
// identifiers, courier emails, geographic coordinates, and the validated
// shipping destination supplied at checkout. All types are immutable and must
// be created through their constructor functions; zero values fail validation.
package kernel
