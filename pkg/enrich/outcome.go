package enrich

import "github.com/Sternrassler/dex-explorer/pkg/client"

// Report summarises a batch.
type Report struct {
	Requested int
	Fetched   int
	Omitted   int

	// Reasons maps each omitted identifier to its failure.
	Reasons map[string]error
}

// Entities returns the records of all successful outcomes, in outcome order.
func Entities(outcomes []Outcome) []*client.Pokemon {
	entities := make([]*client.Pokemon, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.Omitted() {
			entities = append(entities, o.Pokemon)
		}
	}
	return entities
}

// Summarize counts fetched and omitted outcomes.
func Summarize(outcomes []Outcome) Report {
	r := Report{Requested: len(outcomes)}
	for _, o := range outcomes {
		if o.Omitted() {
			if r.Reasons == nil {
				r.Reasons = make(map[string]error)
			}
			r.Omitted++
			r.Reasons[o.Name] = o.Err
			continue
		}
		r.Fetched++
	}
	return r
}
