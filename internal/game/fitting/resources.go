package fitting

import (
	"fmt"
	"math"
	"sort"

	"github.com/markwingerd/dft-old/internal/game/catalog"
)

// ledger tracks CPU and PG usage as the ordered chain of fitted items.
//
// Totals and ceilings are re-derived from the chain on every read. Values are
// combined in ascending order, so each result depends only on the multiset of
// fitted items and an add followed by a matching remove restores it exactly.
type ledger struct {
	baseCPU float64
	basePG  float64
	chain   []*Item
}

func (l *ledger) add(it *Item) {
	l.chain = append(l.chain, it)
}

func (l *ledger) remove(it *Item) {
	for i, c := range l.chain {
		if c == it {
			l.chain = append(l.chain[:i:i], l.chain[i+1:]...)
			return
		}
	}
}

// collect returns the sorted values of prop declared by chained items.
func (l *ledger) collect(prop string) []float64 {
	var out []float64
	for _, it := range l.chain {
		if v, ok := it.Get(prop); ok {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

func (l *ledger) currentCPU() float64 {
	return sum(0, l.collect(catalog.PropCPU))
}

func (l *ledger) currentPG() float64 {
	return sum(0, l.collect(catalog.PropPG))
}

// maxCPU compounds every cpu_bonus onto the base: max *= (1 + bonus).
func (l *ledger) maxCPU() float64 {
	out := l.baseCPU
	for _, b := range l.collect(catalog.PropCPUBonus) {
		out *= 1 + b
	}
	return out
}

// maxPG adds every pg_bonus onto the base.
func (l *ledger) maxPG() float64 {
	return sum(l.basePG, l.collect(catalog.PropPGBonus))
}

func sum(start float64, values []float64) float64 {
	out := start
	for _, v := range values {
		out += v
	}
	return out
}

// Overage describes how far a resource exceeds its ceiling.
type Overage struct {
	// Percent is the excess as a percentage of the ceiling, rounded to one decimal.
	Percent float64
}

func (o Overage) String() string {
	return fmt.Sprintf("%.1f%% over", o.Percent)
}

// overBy reports the overage of current against max, or false when
// current <= max. A non-positive ceiling with positive usage is infinitely over.
func overBy(current, max float64) (Overage, bool) {
	if current <= max {
		return Overage{}, false
	}
	if max <= 0 {
		return Overage{Percent: math.Inf(1)}, true
	}
	p := (current - max) / max * 100
	return Overage{Percent: math.Round(p*10) / 10}, true
}
