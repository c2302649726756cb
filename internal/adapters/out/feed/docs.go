// Package feed maps relay aggregates to the wire documents of the change feed
// and back. Field names follow the document store layout:
//
//	packages/{id}
//	packages/{id}/transit_records/{moverId}
//	packages/{id}/transit_records/{moverId}/movements/{auto}
//
// Decoding never panics on partial input: a missing or malformed field is
// reported as a *DecodeError naming the field.
package feed
