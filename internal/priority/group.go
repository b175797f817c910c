package priority

import (
	"sort"

	"github.com/sells-group/ev-priority/internal/model"
)

// groupKey identifies a borough, optionally within a label.
type groupKey struct {
	borough string
	label   model.Label
}

// group accumulates sums for one groupKey.
type group struct {
	key      groupKey
	count    int
	scoreSum float64
	latSum   float64
	latN     int
	lonSum   float64
	lonN     int
}

func (g *group) add(r model.Record) {
	g.count++
	g.scoreSum += r.PriorityScore
	if r.Latitude != nil {
		g.latSum += *r.Latitude
		g.latN++
	}
	if r.Longitude != nil {
		g.lonSum += *r.Longitude
		g.lonN++
	}
}

func (g *group) meanScore() float64 {
	return g.scoreSum / float64(g.count)
}

// meanOf returns nil when no value contributed to sum.
func meanOf(sum float64, n int) *float64 {
	if n == 0 {
		return nil
	}
	return model.Float(sum / float64(n))
}

// groupRecords partitions records by key and returns the groups ordered by
// borough, then label rank.
func groupRecords(records []model.Record, key func(model.Record) groupKey) []*group {
	idx := make(map[groupKey]*group)
	for _, r := range records {
		k := key(r)
		g, ok := idx[k]
		if !ok {
			g = &group{key: k}
			idx[k] = g
		}
		g.add(r)
	}

	groups := make([]*group, 0, len(idx))
	for _, g := range idx {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].key.borough != groups[j].key.borough {
			return groups[i].key.borough < groups[j].key.borough
		}
		return groups[i].key.label.Rank() < groups[j].key.label.Rank()
	})
	return groups
}

func byBorough(r model.Record) groupKey {
	return groupKey{borough: r.Borough}
}

func byBoroughAndLabel(r model.Record) groupKey {
	return groupKey{borough: r.Borough, label: Classify(r.PriorityScore)}
}
