package parts

import (
	"fmt"
	"strings"

	"github.com/taigrr/datejust/pkg/material"
)

// Detail selects the fidelity of the built watch.
type Detail int

const (
	// DetailHigh is the full reference geometry.
	DetailHigh Detail = iota
	// DetailStandard trades curve resolution and small details for speed.
	DetailStandard
)

func (d Detail) String() string {
	switch d {
	case DetailHigh:
		return "high"
	case DetailStandard:
		return "standard"
	default:
		return fmt.Sprintf("Detail(%d)", int(d))
	}
}

// ParseDetail parses "high" or "standard".
func ParseDetail(s string) (Detail, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "masterpiece":
		return DetailHigh, nil
	case "standard", "low":
		return DetailStandard, nil
	}
	return 0, invalid("detail %q", s)
}

// Options gathers every builder parameter for one watch.
type Options struct {
	Detail   Detail
	Case     CaseParams
	Dial     DialParams
	Hands    HandsParams
	Bracelet BraceletParams
	Crystal  CrystalParams
}

// DefaultOptions returns the reference parameters for a detail level.
func DefaultOptions(d Detail) Options {
	o := Options{
		Detail:   d,
		Case:     DefaultCaseParams(),
		Dial:     DefaultDialParams(),
		Hands:    DefaultHandsParams(),
		Bracelet: DefaultBraceletParams(),
		Crystal:  DefaultCrystalParams(),
	}
	if d == DetailStandard {
		o.Case.CurveSegments = 32
		o.Case.Crown.Ridges = 0
		o.Case.Crown.Role = material.Gold
		o.Case.Bezel.RingSegments = 32
		o.Dial.Segments = 64
		o.Dial.Numerals.Simplified = true
		o.Hands.RedSecond = true
		o.Bracelet.Rows = 8
		o.Crystal.CurveSegments = 32
	}
	return o
}
