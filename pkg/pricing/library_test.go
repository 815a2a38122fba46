package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/peter-kozarec/hedgefx/pkg/common"
)

func ptr[T any](v T) *T { return &v }

func testMarket() common.MarketModel {
	return common.MarketModel{
		Spot:           1.10,
		DomesticRate:   0.04,
		ForeignRate:    0.02,
		Volatility:     0.09,
		TimeToMaturity: 1,
	}
}

func TestPricing_LibraryPriceLeg(t *testing.T) {
	lib := NewLibrary(zap.NewNop(), WithPaths(2_000), WithWorkers(2))
	market := testMarket()

	tests := []struct {
		name       string
		leg        common.Leg
		wantMethod Method
		wantErr    error
	}{
		{
			name:       "forward carries no premium",
			leg:        common.Leg{Type: common.InstrumentForward, Strike: common.Absolute(1.08), Quantity: 100},
			wantMethod: MethodNone,
		},
		{
			name:       "call priced in closed form",
			leg:        common.Leg{Type: common.InstrumentCall, Strike: common.PercentOfSpot(102), Quantity: 50},
			wantMethod: MethodClosedForm,
		},
		{
			name:       "single barrier priced in closed form",
			leg:        common.Leg{Type: common.InstrumentKnockoutPut, Strike: common.Absolute(1.08), Barrier: ptr(common.Absolute(1.02)), Quantity: -50},
			wantMethod: MethodClosedForm,
		},
		{
			name: "double barrier simulated",
			leg: common.Leg{Type: common.InstrumentKnockoutCall, Strike: common.Absolute(1.10),
				Barrier: ptr(common.Absolute(1.02)), SecondBarrier: ptr(common.Absolute(1.20)), Quantity: 100},
			wantMethod: MethodMonteCarlo,
		},
		{
			name:       "digital simulated",
			leg:        common.Leg{Type: common.InstrumentOneTouch, Barrier: ptr(common.PercentOfSpot(105)), Quantity: 100},
			wantMethod: MethodMonteCarlo,
		},
		{
			name:    "zero quantity rejected",
			leg:     common.Leg{Type: common.InstrumentCall, Strike: common.Absolute(1.1)},
			wantErr: ErrInvalidParameter,
		},
		{
			name:    "missing barrier rejected",
			leg:     common.Leg{Type: common.InstrumentKnockinCall, Strike: common.Absolute(1.1), Quantity: 10},
			wantErr: ErrInvalidParameter,
		},
		{
			name:    "unknown instrument",
			leg:     common.Leg{Type: "accumulator", Strike: common.Absolute(1.1), Quantity: 10},
			wantErr: ErrUnsupportedInstrument,
		},
		{
			name:    "negative strike",
			leg:     common.Leg{Type: common.InstrumentPut, Strike: common.Absolute(-1), Quantity: 10},
			wantErr: ErrInvalidParameter,
		},
		{
			name:    "negative time to payoff",
			leg:     common.Leg{Type: common.InstrumentPut, Strike: common.Absolute(1.1), Quantity: 10, TimeToPayoff: ptr(-0.25)},
			wantErr: ErrInvalidParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := lib.Quote(tt.leg, market)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMethod, q.Method)
			assert.GreaterOrEqual(t, q.Premium, 0.0)
		})
	}
}

func TestPricing_LibraryForwardFixedRate(t *testing.T) {
	lib := NewLibrary(zap.NewNop())

	q, err := lib.Quote(common.Leg{Type: common.InstrumentSwap, Strike: common.Absolute(1.1), Quantity: 100,
		TimeToPayoff: ptr(0.5)}, testMarket())
	require.NoError(t, err)
	assert.Zero(t, q.Premium)
	assert.InDelta(t, ForwardRate(1.10, 0.04, 0.02, 0.5), q.FixedRate, 1e-15)
}

func TestPricing_LibraryLegOverrides(t *testing.T) {
	lib := NewLibrary(zap.NewNop())
	market := testMarket()

	leg := common.Leg{Type: common.InstrumentCall, Strike: common.Absolute(1.12), Quantity: 100,
		Volatility: 0.15, TimeToPayoff: ptr(0.25)}

	got, err := lib.PriceLeg(leg, market)
	require.NoError(t, err)

	want, err := VanillaClosedForm(common.InstrumentCall, 1.10, 1.12, 0.04, 0.02, 0.25, 0.15)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPricing_LibraryInvalidMarket(t *testing.T) {
	lib := NewLibrary(zap.NewNop())
	market := testMarket()
	market.Spot = 0

	_, err := lib.PriceLeg(common.Leg{Type: common.InstrumentCall, Strike: common.Absolute(1.1), Quantity: 1}, market)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.ErrorIs(t, err, common.ErrInvalidMarket)
}

func TestPricing_LibraryMonteCarloOption(t *testing.T) {
	closed := NewLibrary(zap.NewNop())
	simulated := NewLibrary(zap.NewNop(), WithMonteCarlo(), WithPaths(50_000), WithWorkers(4), WithSeed(9))

	leg := common.Leg{Type: common.InstrumentPut, Strike: common.Absolute(1.09), Quantity: 100}

	exact, err := closed.Quote(leg, testMarket())
	require.NoError(t, err)
	est, err := simulated.Quote(leg, testMarket())
	require.NoError(t, err)

	assert.Equal(t, MethodMonteCarlo, est.Method)
	assert.InDelta(t, exact.Premium, est.Premium, 4*est.StdErr)
}

func TestPricing_LibraryPriceStrategy(t *testing.T) {
	lib := NewLibrary(zap.NewNop())
	market := testMarket()

	strategy := common.Strategy{
		{Type: common.InstrumentCall, Strike: common.Absolute(1.12), Quantity: 100},
		{Type: common.InstrumentPut, Strike: common.Absolute(1.06), Quantity: -100},
		{Type: common.InstrumentPut, Strike: common.Absolute(1.00), Quantity: 0},
	}

	premiums, err := lib.PriceStrategy(strategy, market)
	require.NoError(t, err)
	require.Len(t, premiums, 3)
	assert.Greater(t, premiums[0], 0.0)
	assert.Greater(t, premiums[1], 0.0)
	assert.Zero(t, premiums[2])

	assert.InDelta(t, premiums[0]-premiums[1], NetPremium(strategy, premiums), 1e-15)

	strategy = append(strategy, common.Leg{Type: common.InstrumentRangeBinary, Strike: common.Absolute(1.2),
		Barrier: ptr(common.Absolute(1.1)), Quantity: 10})
	_, err = lib.PriceStrategy(strategy, market)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), "leg 3 (rangeBinary)")
}

func TestPricing_LibraryQuoteStrategy(t *testing.T) {
	lib := NewLibrary(zap.NewNop(), WithPaths(500))
	market := testMarket()

	strategy := common.Strategy{
		{Type: common.InstrumentSwap, Strike: common.Absolute(1.09), Quantity: 50},
		{Type: common.InstrumentCall, Strike: common.Absolute(1.12), Quantity: 100},
		{Type: common.InstrumentOneTouch, Barrier: ptr(common.Absolute(1.2)), Quantity: -20},
		{Type: common.InstrumentCall, Strike: common.Absolute(1.12), Quantity: 0},
	}

	quotes, err := lib.QuoteStrategy(strategy, market)
	require.NoError(t, err)
	require.Len(t, quotes, 4)

	assert.Equal(t, MethodNone, quotes[0].Method)
	assert.InDelta(t, ForwardRate(1.10, 0.04, 0.02, 1), quotes[0].FixedRate, 1e-15)
	assert.Equal(t, MethodClosedForm, quotes[1].Method)
	assert.Equal(t, MethodMonteCarlo, quotes[2].Method)
	assert.Greater(t, quotes[2].StdErr, 0.0)
	assert.Equal(t, Quote{Method: MethodNone}, quotes[3])

	premiums, err := lib.PriceStrategy(strategy, market)
	require.NoError(t, err)
	for i := range quotes {
		assert.Equal(t, quotes[i].Premium, premiums[i])
	}
}

func TestPricing_LibraryEstimateLeg(t *testing.T) {
	lib := NewLibrary(zap.NewNop())
	market := testMarket()

	tests := []struct {
		name string
		leg  common.Leg
	}{
		{name: "forward", leg: common.Leg{Type: common.InstrumentForward, Strike: common.Absolute(1.1), Quantity: 100}},
		{name: "call", leg: common.Leg{Type: common.InstrumentCall, Strike: common.Absolute(1.1), Quantity: 100}},
		{name: "knock-in put", leg: common.Leg{Type: common.InstrumentKnockinPut, Strike: common.Absolute(1.1),
			Barrier: ptr(common.Absolute(1.0)), Quantity: 100}},
		{name: "double knock-out", leg: common.Leg{Type: common.InstrumentKnockoutPut, Strike: common.Absolute(1.1),
			Barrier: ptr(common.Absolute(1.0)), SecondBarrier: ptr(common.Absolute(1.2)), Quantity: 100}},
		{name: "double no touch", leg: common.Leg{Type: common.InstrumentDoubleNoTouch,
			Barrier: ptr(common.Absolute(1.0)), SecondBarrier: ptr(common.Absolute(1.2)), Quantity: 100}},
		{name: "outside binary", leg: common.Leg{Type: common.InstrumentOutsideBinary, Strike: common.Absolute(1.05),
			Barrier: ptr(common.Absolute(1.15)), Quantity: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := lib.EstimateLeg(tt.leg, market)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, p, 0.0)
		})
	}
}
