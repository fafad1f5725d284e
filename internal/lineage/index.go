package lineage

import "clingov/internal/domain"

// DefaultMaxDepth bounds traversal when the caller does not set one.
const DefaultMaxDepth = 10

// Index answers upstream/downstream reachability queries over a batch
// of finalized lineage events. It is built once per query session from
// the available record set and is read-only afterwards, so concurrent
// queries against one built index are safe. To index new events,
// rebuild.
type Index struct {
	events   []domain.LineageEvent
	byInput  map[string][]int // location -> indexes of events that consumed it
	byOutput map[string][]int // location -> indexes of events that produced it
}

// NewIndex builds the location indices from a batch of events.
func NewIndex(events []domain.LineageEvent) *Index {
	idx := &Index{
		events:   events,
		byInput:  make(map[string][]int),
		byOutput: make(map[string][]int),
	}
	for i, ev := range events {
		for _, asset := range ev.InputAssets {
			idx.byInput[asset.Location] = append(idx.byInput[asset.Location], i)
		}
		for _, asset := range ev.OutputAssets {
			idx.byOutput[asset.Location] = append(idx.byOutput[asset.Location], i)
		}
	}
	return idx
}

// Upstream answers "where did this data come from": every event that
// produced the seed location or, transitively, produced an input of
// such an event, up to maxDepth hops from the seed. Depth 0 returns
// only the events that directly produced the seed.
func (idx *Index) Upstream(location string, maxDepth int) []domain.LineageEvent {
	return idx.traverse(location, maxDepth, idx.byOutput, inputLocations)
}

// Downstream answers "what depends on this data": every event that
// consumed the seed location or, transitively, consumed an output of
// such an event, up to maxDepth hops from the seed.
func (idx *Index) Downstream(location string, maxDepth int) []domain.LineageEvent {
	return idx.traverse(location, maxDepth, idx.byInput, outputLocations)
}

// traverse is a breadth-first walk over locations. A location is marked
// visited before its events are expanded, so the traversal is
// idempotent: a location reachable via several paths is expanded once,
// which also guarantees termination on cyclic lineage graphs. Results
// are in discovery order; callers needing chronological order sort by
// event timestamp.
func (idx *Index) traverse(seed string, maxDepth int, edges map[string][]int, next func(*domain.LineageEvent) []string) []domain.LineageEvent {
	type frontier struct {
		location string
		depth    int
	}

	var result []domain.LineageEvent
	visited := make(map[string]bool)
	queue := []frontier{{location: seed, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if visited[cur.location] || cur.depth > maxDepth {
			continue
		}
		visited[cur.location] = true

		for _, i := range edges[cur.location] {
			result = append(result, idx.events[i])
			for _, loc := range next(&idx.events[i]) {
				if !visited[loc] {
					queue = append(queue, frontier{location: loc, depth: cur.depth + 1})
				}
			}
		}
	}

	return result
}

func inputLocations(ev *domain.LineageEvent) []string {
	locs := make([]string, len(ev.InputAssets))
	for i, a := range ev.InputAssets {
		locs[i] = a.Location
	}
	return locs
}

func outputLocations(ev *domain.LineageEvent) []string {
	locs := make([]string, len(ev.OutputAssets))
	for i, a := range ev.OutputAssets {
		locs[i] = a.Location
	}
	return locs
}
