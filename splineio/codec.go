// Package splineio persists a [spline.Spline] to the binary record layout
// described in spec §6: a value-type tag and extrapolation parameters
// followed by knot records in ascending time order. Encoding uses
// CBOR (github.com/fxamacker/cbor/v2) in a deterministic core encoding
// mode, the same library and determinism posture the retrieval pack's
// own binary-record code (urtypes) uses for similarly-shaped structured
// records.
package splineio

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/tsanim/splinecore/spline"
)

// ValueTypeTag identifies which concrete value type a persisted spline
// holds, so a decoder can pick the matching [spline.ValueOps] before
// calling [Decode]. Byte values follow the declaration order below and,
// like the frozen enum tables in spec §6, must never be reassigned once
// shipped.
type ValueTypeTag uint8

const (
	ValueTypeFloat64 ValueTypeTag = iota
	ValueTypeFloat32
	ValueTypeVec3
	ValueTypeQuat
	ValueTypeBool
	ValueTypeInt64
	ValueTypeString
	ValueTypeToken
)

var encMode cbor.EncMode
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("splineio: building CBOR encode mode: %v", err))
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("splineio: building CBOR decode mode: %v", err))
	}
}

// knotRecord is the on-wire shape of a single knot (spec §6's persistence
// layout table), parameterized by the spline's value type.
type knotRecord[T any] struct {
	Time           float64 `cbor:"1,keyasint"`
	KnotType       uint8   `cbor:"2,keyasint"`
	IsDual         bool    `cbor:"3,keyasint"`
	SymmetryBroken bool    `cbor:"4,keyasint"`
	ValueLeft      T       `cbor:"5,keyasint"`
	ValueRight     T       `cbor:"6,keyasint"`
	SlopeLeft      T       `cbor:"7,keyasint"`
	SlopeRight     T       `cbor:"8,keyasint"`
	LengthLeft     float64 `cbor:"9,keyasint"`
	LengthRight    float64 `cbor:"10,keyasint"`
}

// record is the whole-spline on-wire record: value-type tag, both
// extrapolation modes, optional inner-loop parameters, then knots in
// ascending time order.
type record[T any] struct {
	ValueTypeTag uint8             `cbor:"1,keyasint"`
	LeftMode     uint8             `cbor:"2,keyasint"`
	RightMode    uint8             `cbor:"3,keyasint"`
	HasLoop      bool              `cbor:"4,keyasint"`
	Loop         spline.LoopParams `cbor:"5,keyasint"`
	Knots        []knotRecord[T]   `cbor:"6,keyasint"`
}

// Encode serializes s to its binary record layout, tagged with the given
// value-type tag for a future Decode call to select matching ValueOps.
func Encode[T any](s *spline.Spline[T], tag ValueTypeTag) ([]byte, error) {
	left, right := s.Extrapolation()
	rec := record[T]{
		ValueTypeTag: uint8(tag),
		LeftMode:     uint8(left),
		RightMode:    uint8(right),
	}
	if loop, ok := s.InnerLoop(); ok {
		rec.HasLoop = true
		rec.Loop = loop
	}
	for _, k := range s.Knots() {
		rec.Knots = append(rec.Knots, knotRecord[T]{
			Time:           k.Time(),
			KnotType:       uint8(k.Type()),
			IsDual:         k.IsDual(),
			SymmetryBroken: k.SymmetryBroken(),
			ValueLeft:      k.LeftValue(),
			ValueRight:     k.RightValue(),
			SlopeLeft:      k.LeftTangentSlope(),
			SlopeRight:     k.RightTangentSlope(),
			LengthLeft:     k.LeftTangentLength(),
			LengthRight:    k.RightTangentLength(),
		})
	}
	return encMode.Marshal(rec)
}

// Decode reconstructs a spline from data, using ops for its value type and
// logger for any coding errors surfaced while replaying tangent/length
// setters (a corrupt record should log, not panic — spec §7's "no panics
// on data"). It returns the decoded value-type tag alongside the spline so
// callers can sanity-check it against the ops they supplied.
func Decode[T any](data []byte, ops spline.ValueOps[T], logger spline.Logger) (*spline.Spline[T], ValueTypeTag, error) {
	if logger == nil {
		logger = spline.NoopLogger
	}
	var rec record[T]
	if err := decMode.Unmarshal(data, &rec); err != nil {
		return nil, 0, fmt.Errorf("splineio: decoding record: %w", err)
	}

	s := spline.New(ops, logger)
	s.SetExtrapolation(spline.ExtrapMode(rec.LeftMode), spline.ExtrapMode(rec.RightMode), nil, nil)
	if rec.HasLoop {
		s.SetInnerLoop(rec.Loop)
	}

	for _, kr := range rec.Knots {
		var k *spline.Knot[T]
		if kr.IsDual {
			k = spline.NewDualKnot(ops, kr.Time, kr.ValueLeft, kr.ValueRight, spline.KnotType(kr.KnotType))
		} else {
			k = spline.NewKnot(ops, kr.Time, kr.ValueRight, spline.KnotType(kr.KnotType))
		}
		k.SetSymmetryBroken(kr.SymmetryBroken)
		k.SetLeftTangentSlope(kr.SlopeLeft, logger)
		k.SetRightTangentSlope(kr.SlopeRight, logger)
		k.SetLeftTangentLength(kr.LengthLeft, logger)
		k.SetRightTangentLength(kr.LengthRight, logger)
		s.InsertKnot(k)
	}

	return s, ValueTypeTag(rec.ValueTypeTag), nil
}
