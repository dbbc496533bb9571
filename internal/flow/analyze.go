// Package flow derives the structural facts of a process model: recycle
// loops, mixing and splitting points, and where the process starts and ends.
package flow

import (
	"sort"

	"github.com/MalithGihan/pfdgen-service/pkg/types"
)

// Pair is an unordered pair of equipment ids, stored with A <= B.
type Pair struct {
	A, B string
}

func NewPair(x, y string) Pair {
	if y < x {
		x, y = y, x
	}
	return Pair{A: x, B: y}
}

type Analysis struct {
	Recycles        []Pair
	MixingPoints    []string
	SplittingPoints []string
	StartEquips     []string
	EndEquips       []string
	Incoming        map[string]int
	Outgoing        map[string]int

	recycleSet map[Pair]struct{}
}

// Analyze never mutates m. Id lists follow first appearance in the stream list.
func Analyze(m types.ProcessModel) Analysis {
	a := Analysis{
		Incoming:   map[string]int{},
		Outgoing:   map[string]int{},
		recycleSet: map[Pair]struct{}{},
	}

	links := map[[2]string]int{}
	var toOrder, fromOrder []string
	for _, s := range m.Streams {
		links[[2]string{s.From, s.To}]++
		if a.Incoming[s.To] == 0 {
			toOrder = append(toOrder, s.To)
		}
		a.Incoming[s.To]++
		if a.Outgoing[s.From] == 0 {
			fromOrder = append(fromOrder, s.From)
		}
		a.Outgoing[s.From]++
	}

	for link, n := range links {
		from, to := link[0], link[1]
		if from == to {
			// one stream cannot be its own return path
			if n < 2 {
				continue
			}
		} else if links[[2]string{to, from}] == 0 {
			continue
		}
		a.recycleSet[NewPair(from, to)] = struct{}{}
	}
	for p := range a.recycleSet {
		a.Recycles = append(a.Recycles, p)
	}
	sort.Slice(a.Recycles, func(i, j int) bool {
		if a.Recycles[i].A != a.Recycles[j].A {
			return a.Recycles[i].A < a.Recycles[j].A
		}
		return a.Recycles[i].B < a.Recycles[j].B
	})

	for _, id := range toOrder {
		if a.Incoming[id] > 1 {
			a.MixingPoints = append(a.MixingPoints, id)
		}
		if a.Outgoing[id] == 0 {
			a.EndEquips = append(a.EndEquips, id)
		}
	}
	for _, id := range fromOrder {
		if a.Outgoing[id] > 1 {
			a.SplittingPoints = append(a.SplittingPoints, id)
		}
		if a.Incoming[id] == 0 {
			a.StartEquips = append(a.StartEquips, id)
		}
	}
	if len(a.StartEquips) == 0 && len(m.Equipment) > 0 {
		a.StartEquips = []string{m.Equipment[0].ID}
	}
	return a
}

// IsRecycle reports whether a stream between from and to belongs to a recycle loop.
func (a Analysis) IsRecycle(from, to string) bool {
	_, ok := a.recycleSet[NewPair(from, to)]
	return ok
}

func (a Analysis) IsMixing(id string) bool { return a.Incoming[id] > 1 }

func (a Analysis) IsSplitting(id string) bool { return a.Outgoing[id] > 1 }
