// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the dispatch system. It
// implements workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - ZoneResolver: maps a shipping destination to a delivery zone and distance estimate
//   - CourierDirectory: filters registered couriers down to those eligible for a zone
//   - Dispatcher: decides between direct, competitive and manual assignment
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design principles.
package services
