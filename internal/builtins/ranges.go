// Copyright 2024 The dmntk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package builtins

import "github.com/dmntk-go/dmntk/internal/value"

// interval is the generic shape every range relation (spec.md §4.4
// "Range") operates on: both a Range value and a bare scalar (a
// degenerate, closed single-point range) reduce to this shape, matching
// the DMN spec's "A and B, where each of A, B is either a point or a
// range" definition.
type interval struct {
	lo, hi           value.Value
	loClosed, hiClosed bool
}

func toInterval(v value.Value) (interval, bool) {
	if r, ok := v.(value.Range); ok {
		return interval{lo: r.Start, hi: r.End, loClosed: r.StartClose, hiClosed: r.EndClose}, true
	}
	switch v.(type) {
	case value.Null:
		return interval{}, false
	default:
		return interval{lo: v, hi: v, loClosed: true, hiClosed: true}, true
	}
}

func init() {
	register("before", []string{"point1", "point2"}, biBefore)
	register("after", []string{"point1", "point2"}, biAfter)
	register("meets", []string{"range1", "range2"}, biMeets)
	register("met by", []string{"range1", "range2"}, biMetBy)
	register("overlaps", []string{"range1", "range2"}, biOverlaps)
	register("overlaps before", []string{"range1", "range2"}, biOverlapsBefore)
	register("overlaps after", []string{"range1", "range2"}, biOverlapsAfter)
	register("finishes", []string{"range1", "range2"}, biFinishes)
	register("finished by", []string{"range1", "range2"}, biFinishedBy)
	register("includes", []string{"range1", "range2"}, biIncludes)
	register("during", []string{"range1", "range2"}, biDuring)
	register("starts", []string{"range1", "range2"}, biStarts)
	register("started by", []string{"range1", "range2"}, biStartedBy)
	register("coincides", []string{"range1", "range2"}, biCoincides)
}

func cmp(a, b value.Value) (int, bool) { return value.Compare(a, b) }

func rangePair(args []value.Value) (interval, interval, bool) {
	a, ok1 := toInterval(arg(args, 0))
	b, ok2 := toInterval(arg(args, 1))
	return a, b, ok1 && ok2
}

// before reports a entirely precedes b (spec.md §4.4): a.hi < b.lo, or
// touching at an open boundary.
func before(a, b interval) (bool, bool) {
	c, ok := cmp(a.hi, b.lo)
	if !ok {
		return false, false
	}
	if c < 0 {
		return true, true
	}
	if c == 0 {
		return !(a.hiClosed && b.loClosed), true
	}
	return false, true
}

func biBefore(args []value.Value) value.Value {
	a, b, ok := rangePair(args)
	if !ok {
		return value.NullTrace("before: operands not comparable")
	}
	r, ok := before(a, b)
	if !ok {
		return value.NullTrace("before: operands not comparable")
	}
	return value.Bool(r)
}

func biAfter(args []value.Value) value.Value {
	a, b, ok := rangePair(args)
	if !ok {
		return value.NullTrace("after: operands not comparable")
	}
	r, ok := before(b, a)
	if !ok {
		return value.NullTrace("after: operands not comparable")
	}
	return value.Bool(r)
}

func meets(a, b interval) (bool, bool) {
	c, ok := cmp(a.hi, b.lo)
	if !ok {
		return false, false
	}
	return c == 0 && a.hiClosed && b.loClosed, true
}

func biMeets(args []value.Value) value.Value {
	a, b, ok := rangePair(args)
	if !ok {
		return value.NullTrace("meets: operands not comparable")
	}
	r, ok := meets(a, b)
	if !ok {
		return value.NullTrace("meets: operands not comparable")
	}
	return value.Bool(r)
}

func biMetBy(args []value.Value) value.Value {
	a, b, ok := rangePair(args)
	if !ok {
		return value.NullTrace("met by: operands not comparable")
	}
	r, ok := meets(b, a)
	if !ok {
		return value.NullTrace("met by: operands not comparable")
	}
	return value.Bool(r)
}

// overlaps reports the intervals share at least one point and neither
// merely touches at a shared open/closed boundary (spec.md §4.4).
func overlaps(a, b interval) (bool, bool) {
	abBefore, ok1 := before(a, b)
	baBefore, ok2 := before(b, a)
	if !ok1 || !ok2 {
		return false, false
	}
	return !abBefore && !baBefore, true
}

func biOverlaps(args []value.Value) value.Value {
	a, b, ok := rangePair(args)
	if !ok {
		return value.NullTrace("overlaps: operands not comparable")
	}
	r, ok := overlaps(a, b)
	if !ok {
		return value.NullTrace("overlaps: operands not comparable")
	}
	return value.Bool(r)
}

// overlapsBefore: a starts before b, they overlap, and a's high
// endpoint falls at or before b's high endpoint (a's tail is absorbed
// into b, rather than extending past it).
func overlapsBefore(a, b interval) (bool, bool) {
	ov, ok := overlaps(a, b)
	if !ok || !ov {
		return false, ok
	}
	loCmp, ok1 := cmp(a.lo, b.lo)
	hiCmp, ok2 := cmp(a.hi, b.hi)
	if !ok1 || !ok2 {
		return false, false
	}
	return loCmp < 0 && hiCmp <= 0, true
}

func biOverlapsBefore(args []value.Value) value.Value {
	a, b, ok := rangePair(args)
	if !ok {
		return value.NullTrace("overlaps before: operands not comparable")
	}
	r, ok := overlapsBefore(a, b)
	if !ok {
		return value.NullTrace("overlaps before: operands not comparable")
	}
	return value.Bool(r)
}

func biOverlapsAfter(args []value.Value) value.Value {
	a, b, ok := rangePair(args)
	if !ok {
		return value.NullTrace("overlaps after: operands not comparable")
	}
	r, ok := overlapsBefore(b, a)
	if !ok {
		return value.NullTrace("overlaps after: operands not comparable")
	}
	return value.Bool(r)
}

func finishes(a, b interval) (bool, bool) {
	hiCmp, ok1 := cmp(a.hi, b.hi)
	loCmp, ok2 := cmp(a.lo, b.lo)
	if !ok1 || !ok2 {
		return false, false
	}
	return hiCmp == 0 && a.hiClosed == b.hiClosed && loCmp >= 0, true
}

func biFinishes(args []value.Value) value.Value {
	a, b, ok := rangePair(args)
	if !ok {
		return value.NullTrace("finishes: operands not comparable")
	}
	r, ok := finishes(a, b)
	if !ok {
		return value.NullTrace("finishes: operands not comparable")
	}
	return value.Bool(r)
}

func biFinishedBy(args []value.Value) value.Value {
	a, b, ok := rangePair(args)
	if !ok {
		return value.NullTrace("finished by: operands not comparable")
	}
	r, ok := finishes(b, a)
	if !ok {
		return value.NullTrace("finished by: operands not comparable")
	}
	return value.Bool(r)
}

func includes(a, b interval) (bool, bool) {
	loCmp, ok1 := cmp(a.lo, b.lo)
	hiCmp, ok2 := cmp(a.hi, b.hi)
	if !ok1 || !ok2 {
		return false, false
	}
	loOK := loCmp < 0 || (loCmp == 0 && (a.loClosed || !b.loClosed))
	hiOK := hiCmp > 0 || (hiCmp == 0 && (a.hiClosed || !b.hiClosed))
	return loOK && hiOK, true
}

func biIncludes(args []value.Value) value.Value {
	a, b, ok := rangePair(args)
	if !ok {
		return value.NullTrace("includes: operands not comparable")
	}
	r, ok := includes(a, b)
	if !ok {
		return value.NullTrace("includes: operands not comparable")
	}
	return value.Bool(r)
}

func biDuring(args []value.Value) value.Value {
	a, b, ok := rangePair(args)
	if !ok {
		return value.NullTrace("during: operands not comparable")
	}
	r, ok := includes(b, a)
	if !ok {
		return value.NullTrace("during: operands not comparable")
	}
	return value.Bool(r)
}

func starts(a, b interval) (bool, bool) {
	loCmp, ok1 := cmp(a.lo, b.lo)
	hiCmp, ok2 := cmp(a.hi, b.hi)
	if !ok1 || !ok2 {
		return false, false
	}
	return loCmp == 0 && a.loClosed == b.loClosed && (hiCmp < 0 || (hiCmp == 0 && (!a.hiClosed || b.hiClosed))), true
}

func biStarts(args []value.Value) value.Value {
	a, b, ok := rangePair(args)
	if !ok {
		return value.NullTrace("starts: operands not comparable")
	}
	r, ok := starts(a, b)
	if !ok {
		return value.NullTrace("starts: operands not comparable")
	}
	return value.Bool(r)
}

func biStartedBy(args []value.Value) value.Value {
	a, b, ok := rangePair(args)
	if !ok {
		return value.NullTrace("started by: operands not comparable")
	}
	r, ok := starts(b, a)
	if !ok {
		return value.NullTrace("started by: operands not comparable")
	}
	return value.Bool(r)
}

func biCoincides(args []value.Value) value.Value {
	a, b, ok := rangePair(args)
	if !ok {
		return value.NullTrace("coincides: operands not comparable")
	}
	loCmp, ok1 := cmp(a.lo, b.lo)
	hiCmp, ok2 := cmp(a.hi, b.hi)
	if !ok1 || !ok2 {
		return value.NullTrace("coincides: operands not comparable")
	}
	return value.Bool(loCmp == 0 && hiCmp == 0 && a.loClosed == b.loClosed && a.hiClosed == b.hiClosed)
}
