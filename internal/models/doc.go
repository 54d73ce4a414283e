// Package models defines the core domain models for the rotating savings
// group backend.
//
// # Ownership
//
// A Group exclusively owns its Members: no Member exists outside a Group.
// A Member exclusively owns the Obligations it owes to other members.
// Counterparties are referenced by user ID, never by pointer, to avoid
// circular references.
//
// # Mutation discipline
//
// Engine operations never mutate a caller's snapshot in place. They work on
// a deep copy (see Group.Clone) and return the new snapshot only when the
// whole operation succeeded, so a failed operation leaves no partial state
// behind.
package models
