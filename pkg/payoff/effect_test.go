package payoff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peter-kozarec/hedgefx/pkg/common"
)

func TestPayoff_ApplyLeg(t *testing.T) {
	const ref = 1.10

	tests := []struct {
		name   string
		leg    common.Leg
		spot   float64
		hedged float64
		want   float64
	}{
		{
			name: "long call in the money",
			leg:  common.Leg{Type: common.InstrumentCall, Strike: common.Absolute(1.12), Quantity: 50},
			spot: 1.20, hedged: 1.20, want: 1.16,
		},
		{
			name: "short call in the money",
			leg:  common.Leg{Type: common.InstrumentCall, Strike: common.Absolute(1.12), Quantity: -50},
			spot: 1.20, hedged: 1.20, want: 1.24,
		},
		{
			name: "call out of the money keeps running rate",
			leg:  common.Leg{Type: common.InstrumentCall, Strike: common.Absolute(1.12), Quantity: 100},
			spot: 1.05, hedged: 1.07, want: 1.07,
		},
		{
			name: "call at the strike keeps running rate",
			leg:  common.Leg{Type: common.InstrumentCall, Strike: common.Absolute(1.12), Quantity: 100},
			spot: 1.12, hedged: 1.12, want: 1.12,
		},
		{
			name: "long put in the money",
			leg:  common.Leg{Type: common.InstrumentPut, Strike: common.Absolute(1.05), Quantity: 100},
			spot: 1.00, hedged: 1.00, want: 0.95,
		},
		{
			name: "percent strike resolves at scenario spot",
			leg:  common.Leg{Type: common.InstrumentPut, Strike: common.PercentOfSpot(110), Quantity: 100},
			spot: 1.00, hedged: 1.00, want: 0.90,
		},
		{
			name: "swap pins the strike",
			leg:  common.Leg{Type: common.InstrumentSwap, Strike: common.Absolute(1.09), Quantity: -25},
			spot: 0.90, hedged: 0.95, want: 1.09,
		},
		{
			name: "knockout call alive below barrier",
			leg:  common.Leg{Type: common.InstrumentKnockoutCall, Strike: common.Absolute(1.10), Barrier: ptr(common.Absolute(1.20)), Quantity: 100},
			spot: 1.15, hedged: 1.15, want: 1.10,
		},
		{
			name: "knockout call dead at barrier",
			leg:  common.Leg{Type: common.InstrumentKnockoutCall, Strike: common.Absolute(1.10), Barrier: ptr(common.Absolute(1.20)), Quantity: 100},
			spot: 1.20, hedged: 1.20, want: 1.20,
		},
		{
			name: "knockin put active below down barrier",
			leg:  common.Leg{Type: common.InstrumentKnockinPut, Strike: common.Absolute(1.05), Barrier: ptr(common.Absolute(1.00)), Quantity: 100},
			spot: 0.98, hedged: 0.98, want: 0.91,
		},
		{
			name: "knockin put inactive above down barrier",
			leg:  common.Leg{Type: common.InstrumentKnockinPut, Strike: common.Absolute(1.05), Barrier: ptr(common.Absolute(1.00)), Quantity: 100},
			spot: 1.02, hedged: 1.02, want: 1.02,
		},
		{
			name: "corridor knockout alive inside both barriers",
			leg: common.Leg{Type: common.InstrumentKnockoutPut, Strike: common.Absolute(1.08),
				Barrier: ptr(common.Absolute(0.95)), SecondBarrier: ptr(common.Absolute(1.25)), Quantity: 100},
			spot: 1.00, hedged: 1.00, want: 0.92,
		},
		{
			name: "percent up barrier below reference keeps its side",
			leg:  common.Leg{Type: common.InstrumentKnockoutPut, Strike: common.Absolute(1.10), Barrier: ptr(common.PercentOfSpot(105)), Quantity: 100},
			spot: 1.034, hedged: 1.034, want: 0.968,
		},
		{
			name: "percent down barrier far above reference stays alive",
			leg:  common.Leg{Type: common.InstrumentKnockoutCall, Strike: common.Absolute(1.10), Barrier: ptr(common.PercentOfSpot(95)), Quantity: 100},
			spot: 1.40, hedged: 1.40, want: 1.10,
		},
		{
			name: "percent knock-in never knocks in",
			leg:  common.Leg{Type: common.InstrumentKnockinCall, Strike: common.Absolute(1.0), Barrier: ptr(common.PercentOfSpot(95)), Quantity: 100},
			spot: 0.80, hedged: 0.80, want: 0.80,
		},
		{
			name: "percent one touch far below reference not hit",
			leg:  common.Leg{Type: common.InstrumentOneTouch, Barrier: ptr(common.PercentOfSpot(105)), Quantity: 100},
			spot: 0.77, hedged: 0.77, want: 0.77,
		},
		{
			name: "percent no touch far above reference holds",
			leg:  common.Leg{Type: common.InstrumentNoTouch, Barrier: ptr(common.PercentOfSpot(95)), Quantity: 100},
			spot: 1.40, hedged: 1.40, want: 1.40 * 0.95,
		},
		{
			name: "long one touch hit",
			leg:  common.Leg{Type: common.InstrumentOneTouch, Barrier: ptr(common.Absolute(1.20)), Quantity: 100},
			spot: 1.25, hedged: 1.25, want: 1.25 * 0.95,
		},
		{
			name: "short one touch hit",
			leg:  common.Leg{Type: common.InstrumentOneTouch, Barrier: ptr(common.Absolute(1.20)), Quantity: -100},
			spot: 1.25, hedged: 1.25, want: 1.25 * 1.05,
		},
		{
			name: "one touch not hit",
			leg:  common.Leg{Type: common.InstrumentOneTouch, Barrier: ptr(common.Absolute(1.20)), Quantity: 100},
			spot: 1.15, hedged: 1.15, want: 1.15,
		},
		{
			name: "no touch with custom rebate",
			leg:  common.Leg{Type: common.InstrumentNoTouch, Barrier: ptr(common.Absolute(1.00)), Rebate: ptr(10.0), Quantity: 50},
			spot: 1.10, hedged: 1.10, want: 1.10 * 0.95,
		},
		{
			name: "double no touch outside",
			leg: common.Leg{Type: common.InstrumentDoubleNoTouch,
				Barrier: ptr(common.Absolute(1.00)), SecondBarrier: ptr(common.Absolute(1.20)), Quantity: 100},
			spot: 1.22, hedged: 1.22, want: 1.22,
		},
		{
			name: "range binary inside",
			leg: common.Leg{Type: common.InstrumentRangeBinary, Strike: common.Absolute(1.05),
				Barrier: ptr(common.Absolute(1.15)), Quantity: 100},
			spot: 1.10, hedged: 1.10, want: 1.10 * 0.95,
		},
		{
			name: "outside binary inside the range",
			leg: common.Leg{Type: common.InstrumentOutsideBinary, Strike: common.Absolute(1.05),
				Barrier: ptr(common.Absolute(1.15)), Quantity: 100},
			spot: 1.10, hedged: 1.10, want: 1.10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lv, err := tt.leg.Resolve(tt.spot)
			require.NoError(t, err)

			got := applyLeg(tt.leg, lv, tt.spot, barrierUp(tt.leg, ref), tt.hedged)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestPayoff_Breached(t *testing.T) {
	assert.True(t, breached(1.20, 1.20, true))
	assert.True(t, breached(1.20, 1.30, true))
	assert.False(t, breached(1.20, 1.19, true))
	assert.True(t, breached(1.00, 1.00, false))
	assert.True(t, breached(1.00, 0.90, false))
	assert.False(t, breached(1.00, 1.01, false))
}

func TestPayoff_BarrierUp(t *testing.T) {
	const ref = 1.10

	tests := []struct {
		name    string
		barrier *common.Level
		want    bool
	}{
		{"no barrier", nil, false},
		{"absolute above", ptr(common.Absolute(1.20)), true},
		{"absolute at reference", ptr(common.Absolute(1.10)), true},
		{"absolute below", ptr(common.Absolute(1.00)), false},
		{"untyped absolute", ptr(common.Level{Value: 1.15}), true},
		{"percent above", ptr(common.PercentOfSpot(105)), true},
		{"percent at spot", ptr(common.PercentOfSpot(100)), true},
		{"percent below", ptr(common.PercentOfSpot(95)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leg := common.Leg{Type: common.InstrumentOneTouch, Barrier: tt.barrier, Quantity: 100}
			assert.Equal(t, tt.want, barrierUp(leg, ref))
		})
	}
}
