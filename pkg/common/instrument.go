package common

import "fmt"

type InstrumentType string

const (
	InstrumentForward       InstrumentType = "forward"
	InstrumentSwap          InstrumentType = "swap"
	InstrumentCall          InstrumentType = "call"
	InstrumentPut           InstrumentType = "put"
	InstrumentKnockoutCall  InstrumentType = "knockoutCall"
	InstrumentKnockoutPut   InstrumentType = "knockoutPut"
	InstrumentKnockinCall   InstrumentType = "knockinCall"
	InstrumentKnockinPut    InstrumentType = "knockinPut"
	InstrumentOneTouch      InstrumentType = "oneTouch"
	InstrumentNoTouch       InstrumentType = "noTouch"
	InstrumentDoubleTouch   InstrumentType = "doubleTouch"
	InstrumentDoubleNoTouch InstrumentType = "doubleNoTouch"
	InstrumentRangeBinary   InstrumentType = "rangeBinary"
	InstrumentOutsideBinary InstrumentType = "outsideBinary"
)

var instrumentTypes = []InstrumentType{
	InstrumentForward,
	InstrumentSwap,
	InstrumentCall,
	InstrumentPut,
	InstrumentKnockoutCall,
	InstrumentKnockoutPut,
	InstrumentKnockinCall,
	InstrumentKnockinPut,
	InstrumentOneTouch,
	InstrumentNoTouch,
	InstrumentDoubleTouch,
	InstrumentDoubleNoTouch,
	InstrumentRangeBinary,
	InstrumentOutsideBinary,
}

func ParseInstrumentType(s string) (InstrumentType, error) {
	for _, t := range instrumentTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownInstrument, s)
}

func (t InstrumentType) IsLinear() bool {
	return t == InstrumentForward || t == InstrumentSwap
}

func (t InstrumentType) IsVanilla() bool {
	return t == InstrumentCall || t == InstrumentPut
}

func (t InstrumentType) IsBarrier() bool {
	switch t {
	case InstrumentKnockoutCall, InstrumentKnockoutPut, InstrumentKnockinCall, InstrumentKnockinPut:
		return true
	default:
		return false
	}
}

func (t InstrumentType) IsKnockIn() bool {
	return t == InstrumentKnockinCall || t == InstrumentKnockinPut
}

func (t InstrumentType) IsDigital() bool {
	switch t {
	case InstrumentOneTouch, InstrumentNoTouch, InstrumentDoubleTouch, InstrumentDoubleNoTouch,
		InstrumentRangeBinary, InstrumentOutsideBinary:
		return true
	default:
		return false
	}
}

// IsCallLike reports whether the payoff is written on the upside of the strike.
func (t InstrumentType) IsCallLike() bool {
	return t == InstrumentCall || t == InstrumentKnockoutCall || t == InstrumentKnockinCall
}

// RequiresStrike is false only for touch types, which are defined by their barriers.
func (t InstrumentType) RequiresStrike() bool {
	switch t {
	case InstrumentOneTouch, InstrumentNoTouch, InstrumentDoubleTouch, InstrumentDoubleNoTouch:
		return false
	default:
		return true
	}
}

func (t InstrumentType) RequiresBarrier() bool {
	return t.IsBarrier() || t.IsDigital()
}

func (t InstrumentType) RequiresSecondBarrier() bool {
	return t == InstrumentDoubleTouch || t == InstrumentDoubleNoTouch
}
