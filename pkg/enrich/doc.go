// Package enrich fetches full detail records for a list of identifiers with
// a bounded number of requests in flight.
//
// Identifiers are split into consecutive chunks of Config.Concurrency. All
// fetches of a chunk run in parallel and every one of them settles before
// the next chunk starts, so peak in-flight requests never exceed the
// configured concurrency.
//
// Example usage:
//
//	e := enrich.New(dexClient, enrich.DefaultConfig())
//	outcomes := e.Enrich(ctx, names)
//	entities := enrich.Entities(outcomes)
//	report := enrich.Summarize(outcomes)
//
// The enricher:
//   - Never aborts a batch because of one failed identifier
//   - Records failures as omitted outcomes instead of returning an error
//   - Emits outcomes in chunk-then-completion order, not input order
//   - Issues no requests for an empty identifier list
package enrich
