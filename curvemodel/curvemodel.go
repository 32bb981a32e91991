// Package curvemodel provides positional lookup of circular and
// transition curve elements, and vertical curve grade evaluation, per
// spec §3/§4.3.
package curvemodel

import (
	"sort"

	"github.com/cwbudde/algo-trackplan/model"
)

const stage = "curvemodel"

// Model is a validated, position-sorted table of curve elements and
// vertical curves, safe for concurrent read-only use across pipeline
// invocations (§5).
type Model struct {
	elements        []model.CurveElement
	verticalCurves  []model.VerticalCurve
}

// New validates elements and verticalCurves per §3 and builds a
// position-sorted lookup Model.
func New(elements []model.CurveElement, verticalCurves []model.VerticalCurve) (*Model, error) {
	if err := model.ValidateCurveElements(elements); err != nil {
		return nil, model.WithStage(err, stage)
	}
	for _, vc := range verticalCurves {
		if err := vc.Validate(); err != nil {
			return nil, model.WithStage(err, stage)
		}
	}

	sorted := append([]model.CurveElement(nil), elements...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartPos < sorted[j].StartPos })

	sortedVC := append([]model.VerticalCurve(nil), verticalCurves...)
	sort.Slice(sortedVC, func(i, j int) bool { return sortedVC[i].StartPos < sortedVC[j].StartPos })

	return &Model{elements: sorted, verticalCurves: sortedVC}, nil
}

// ElementAt returns the curve element covering pos, if any.
func (m *Model) ElementAt(pos float64) (model.CurveElement, bool) {
	for _, e := range m.elements {
		if pos >= e.StartPos && pos < e.EndPos {
			return e, true
		}
		if e.StartPos > pos {
			break
		}
	}
	return model.CurveElement{}, false
}

// VerticalCurveAt returns the vertical curve covering pos, if any.
func (m *Model) VerticalCurveAt(pos float64) (model.VerticalCurve, bool) {
	for _, vc := range m.verticalCurves {
		if pos >= vc.StartPos && pos < vc.EndPos {
			return vc, true
		}
		if vc.StartPos > pos {
			break
		}
	}
	return model.VerticalCurve{}, false
}

// LocalRadius returns the effective radius at pos: the element's own
// radius for a circular segment, or the transition-evolved radius
// R/p (p the fractional position along the transition, clamped away
// from 0) for a transition segment. ok is false outside any element.
func (m *Model) LocalRadius(pos float64) (radius float64, ok bool) {
	e, found := m.ElementAt(pos)
	if !found {
		return 0, false
	}
	if e.Transition == nil {
		return e.Radius, true
	}
	p := fractionAlong(e, pos)
	if p <= 1e-6 {
		p = 1e-6
	}
	return e.Radius / p, true
}

// fractionAlong returns the fractional position p in [0,1] of pos
// along element e's transition length, measured from the end of e
// nearest the start of the transition (transitions are modelled as
// running from StartPos over Transition.Length).
func fractionAlong(e model.CurveElement, pos float64) float64 {
	if e.Transition == nil || e.Transition.Length <= 0 {
		return 1
	}
	p := (pos - e.StartPos) / e.Transition.Length
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p
}

// TransitionWeight returns the curvature-evolution weight in [0,1] at
// fractional position p along a transition of the given type: linear
// in p for a clothoid, the smoothstep p²(3-2p) for a cubic, and p
// itself again for a linear transition (the weight applied directly
// to the circular-section versine, per §4.3).
func TransitionWeight(kind model.TransitionType, p float64) float64 {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	switch kind {
	case model.TransitionCubic:
		return p * p * (3 - 2*p)
	default: // clothoid and linear both use a linear weight here;
		// clothoid's nonlinearity already lives in LocalRadius's R/p.
		return p
	}
}

// CantAt returns the linear-ramp cant value at pos for the element
// covering it: the element's own Cant for a circular segment, or the
// ramp between Transition.StartCant and Transition.EndCant weighted
// by TransitionWeight for a transition segment. ok is false outside
// any element.
func (m *Model) CantAt(pos float64) (cant float64, ok bool) {
	e, found := m.ElementAt(pos)
	if !found {
		return 0, false
	}
	if e.Transition == nil {
		return e.Cant, true
	}
	p := fractionAlong(e, pos)
	w := TransitionWeight(e.Transition.Type, p)
	return e.Transition.StartCant + w*(e.Transition.EndCant-e.Transition.StartCant), true
}

// GradeAt returns the grade (‰) at pos under the vertical curve
// covering it, linearly interpolated between GradeBefore and
// GradeAfter across [StartPos, EndPos] around GradeChangePoint. ok is
// false outside any vertical curve.
func (m *Model) GradeAt(pos float64) (grade float64, ok bool) {
	vc, found := m.VerticalCurveAt(pos)
	if !found {
		return 0, false
	}
	span := vc.EndPos - vc.StartPos
	if span <= 0 {
		return vc.GradeBefore, true
	}
	frac := (pos - vc.StartPos) / span
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return vc.GradeBefore + frac*(vc.GradeAfter-vc.GradeBefore), true
}
