package fixed

import (
	"fmt"

	"github.com/govalues/decimal"
)

// Point wraps a decimal used to present rates and premiums at quote precision.
type Point struct {
	v decimal.Decimal
}

func FromFloat64(value float64) (Point, error) {
	d, err := decimal.NewFromFloat64(value)
	if err != nil {
		return Point{}, fmt.Errorf("fixed: %v: %w", value, err)
	}
	return Point{d}, nil
}

func (p Point) String() string { return p.v.String() }

func (p Point) Float64() float64 {
	f, _ := p.v.Float64()
	return f
}

func (p Point) Rescale(scale int) Point { return Point{p.v.Rescale(scale)} }

// Round rounds value half-to-even to digits after the decimal point. Values
// that cannot be represented (NaN, infinities, overflow) are returned as is.
func Round(value float64, digits int) float64 {
	p, err := FromFloat64(value)
	if err != nil {
		return value
	}
	return p.Rescale(digits).Float64()
}
