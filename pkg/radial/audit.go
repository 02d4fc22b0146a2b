package radial

import (
	"math"
	"slices"
)

// DefaultTolerance is the overlap slack, in user units, below which two
// adjacent nodes are considered colliding. Two circles may brush within
// this tolerance without being reported.
const DefaultTolerance = 0.5

// Violation is one adjacent pair on a ring that sits closer along the arc
// than their sizes allow.
type Violation struct {
	Ring     int     `json:"ring" bson:"ring"`
	A        string  `json:"a" bson:"a"`
	B        string  `json:"b" bson:"b"`
	Actual   float64 `json:"actual" bson:"actual"`     // arc distance, user units
	Required float64 `json:"required" bson:"required"` // sizeA + sizeB − tolerance
}

// Gap returns how far into each other the pair reaches (negative slack).
func (v Violation) Gap() float64 { return v.Actual - v.Required }

// Audit verifies the no-overlap invariant of a computed layout, per ring:
// nodes are sorted by angle and every adjacent pair — including the
// wrap-around pair closing the circle — is checked by arc distance
// (angle difference × ring radius) against the sum of the two node sizes
// minus tolerance.
//
// Audit is read-only; it never mutates the result. It is the correctness
// oracle for Case A layouts and the concrete evidence when Case B
// compression has occurred. A tolerance ≤ 0 uses [DefaultTolerance].
func Audit(res *Result, tolerance float64) []Violation {
	if res == nil {
		return nil
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	byRing := make(map[int][]Placement)
	for _, p := range res.Placements {
		byRing[p.Ring] = append(byRing[p.Ring], p)
	}

	var out []Violation
	for ringIndex, nodes := range byRing {
		if len(nodes) < 2 {
			continue
		}
		radius := res.ringRadius(ringIndex)
		if radius <= 0 {
			continue // all nodes coincide at the center; nothing adjacent
		}
		slices.SortFunc(nodes, func(a, b Placement) int {
			switch {
			case a.Angle < b.Angle:
				return -1
			case a.Angle > b.Angle:
				return 1
			default:
				return 0
			}
		})
		for i := range nodes {
			a := nodes[i]
			b := nodes[(i+1)%len(nodes)]
			diff := b.Angle - a.Angle
			if i == len(nodes)-1 {
				diff = nodes[0].Angle + FullCircle - a.Angle
			}
			actual := math.Abs(diff) * radius
			required := a.Size + b.Size - tolerance
			if actual < required {
				out = append(out, Violation{
					Ring:     ringIndex,
					A:        a.ID,
					B:        b.ID,
					Actual:   actual,
					Required: required,
				})
			}
		}
	}

	slices.SortFunc(out, func(a, b Violation) int {
		if a.Ring != b.Ring {
			return a.Ring - b.Ring
		}
		switch {
		case a.A < b.A:
			return -1
		case a.A > b.A:
			return 1
		default:
			return 0
		}
	})
	return out
}
