package model

import "fmt"

// Kind identifies a class of failure or warning in the pipeline, per
// the error taxonomy of the spec (kinds, not type names).
type Kind int

const (
	KindUnknown Kind = iota
	KindEmptyInput
	KindNonUniformSampling
	KindInvalidBand
	KindOverlappingCurves
	KindInvalidProfile
	KindDivergentConstraints
	KindNumericalInstability
)

func (k Kind) String() string {
	switch k {
	case KindEmptyInput:
		return "EmptyInput"
	case KindNonUniformSampling:
		return "NonUniformSampling"
	case KindInvalidBand:
		return "InvalidBand"
	case KindOverlappingCurves:
		return "OverlappingCurves"
	case KindInvalidProfile:
		return "InvalidProfile"
	case KindDivergentConstraints:
		return "DivergentConstraints"
	case KindNumericalInstability:
		return "NumericalInstability"
	default:
		return "Unknown"
	}
}

// Error is the tagged result value every core function returns on
// hard failure. Stage names the component that produced it so the
// orchestration engine can annotate propagated errors without losing
// the original cause.
type Error struct {
	Kind  Kind
	Stage string
	Err   error
}

func (e *Error) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a sentinel *Error of the same Kind, so
// errors.Is(err, ErrEmptyInput) matches any *Error of that kind
// regardless of Stage or the wrapped cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel errors, one per Kind, for errors.Is comparisons. They carry
// no Stage or wrapped cause and are never returned directly — use
// NewError/WithStage to construct an actual failure.
var (
	ErrUnknown              = &Error{Kind: KindUnknown}
	ErrEmptyInput           = &Error{Kind: KindEmptyInput}
	ErrNonUniformSampling   = &Error{Kind: KindNonUniformSampling}
	ErrInvalidBand          = &Error{Kind: KindInvalidBand}
	ErrOverlappingCurves    = &Error{Kind: KindOverlappingCurves}
	ErrInvalidProfile       = &Error{Kind: KindInvalidProfile}
	ErrDivergentConstraints = &Error{Kind: KindDivergentConstraints}
	ErrNumericalInstability = &Error{Kind: KindNumericalInstability}
)

// NewError constructs an Error for kind in the named stage.
func NewError(kind Kind, stage string, format string, args ...any) *Error {
	return &Error{Kind: kind, Stage: stage, Err: fmt.Errorf(format, args...)}
}

// WithStage returns a copy of err annotated with stage if it is a
// *Error without one already, or wraps a foreign error as KindUnknown.
func WithStage(err error, stage string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		if e.Stage == "" {
			return &Error{Kind: e.Kind, Stage: stage, Err: e.Err}
		}
		return e
	}
	return &Error{Kind: KindUnknown, Stage: stage, Err: err}
}

// Warning is a soft failure accumulated into a Result rather than
// raised: non-divergence notices, poor quality scores, capacity hits.
type Warning struct {
	Kind    Kind
	Stage   string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s[%s]: %s", w.Stage, w.Kind, w.Message)
}
