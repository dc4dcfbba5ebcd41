package tradeplan

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nd(s string) decimal.NullDecimal { return decimal.NullDecimal{Decimal: d(s), Valid: true} }

func fp(v float64) *float64 { return &v }

func assertDec(t *testing.T, want string, got decimal.NullDecimal) {
	t.Helper()
	require.True(t, got.Valid, "expected %s, got null", want)
	assert.True(t, d(want).Equal(got.Decimal), "expected %s, got %s", want, got.Decimal)
}

func TestPercentOffset(t *testing.T) {
	plan := NewPercentOffset().Plan(Inputs{Entry: d("10.00")})

	assertDec(t, "10.00", plan.Entry)
	assertDec(t, "9.70", plan.Stop)
	assertDec(t, "10.50", plan.Target1)
	assertDec(t, "11.00", plan.Target2)
	require.NotNil(t, plan.RiskReward)
	assert.Equal(t, 1.67, *plan.RiskReward)
	assertDec(t, "10.00", plan.Zone.Low)
	assertDec(t, "10.00", plan.Zone.High)
}

func TestRecentHigh_FillsTargetsFromHigh(t *testing.T) {
	p := NewRecentHigh()
	in := Inputs{Entry: d("10.00"), High: fp(12.00)}
	require.True(t, p.NeedsHigh(in))

	plan := p.Plan(in)
	assertDec(t, "12.00", plan.Target1)
	assertDec(t, "12.60", plan.Target2)
	assertDec(t, "9.70", plan.Stop)
	require.NotNil(t, plan.RiskReward)
	assert.Equal(t, 6.67, *plan.RiskReward)
}

func TestRecentHigh_ExplicitLevelsWin(t *testing.T) {
	p := NewRecentHigh()
	in := Inputs{
		Entry:   d("5.00"),
		Stop:    nd("4.50"),
		Target1: nd("6.00"),
		Target2: nd("7.00"),
		High:    fp(100),
	}
	assert.False(t, p.NeedsHigh(in))

	plan := p.Plan(in)
	assertDec(t, "4.50", plan.Stop)
	assertDec(t, "6.00", plan.Target1)
	assertDec(t, "7.00", plan.Target2)
	require.NotNil(t, plan.RiskReward)
	assert.Equal(t, 2.0, *plan.RiskReward)
}

func TestRecentHigh_PartialOverride(t *testing.T) {
	plan := NewRecentHigh().Plan(Inputs{Entry: d("10"), Target1: nd("11"), High: fp(12.344)})
	assertDec(t, "11", plan.Target1)
	assertDec(t, "12.96", plan.Target2)
}

func TestRecentHigh_NoHigh(t *testing.T) {
	plan := NewRecentHigh().Plan(Inputs{Entry: d("10")})
	assertDec(t, "9.70", plan.Stop)
	assert.False(t, plan.Target1.Valid)
	assert.False(t, plan.Target2.Valid)
	assert.Nil(t, plan.RiskReward)
}

func TestZone(t *testing.T) {
	z := Zone(d("10.00"), fp(9.5))
	assertDec(t, "9.50", z.Low)
	assertDec(t, "10.00", z.High)

	z = Zone(d("10.00"), fp(10.4))
	assertDec(t, "10.00", z.Low)
	assertDec(t, "10.40", z.High)

	z = Zone(d("10.00"), nil)
	assertDec(t, "10.00", z.Low)
	assertDec(t, "10.00", z.High)
}

func TestRiskReward_StopAboveEntry(t *testing.T) {
	assert.Nil(t, RiskReward(d("10"), nd("11"), nd("12")))
	assert.Nil(t, RiskReward(d("10"), decimal.NullDecimal{}, nd("12")))
}

func TestByName(t *testing.T) {
	p, err := ByName("percent-offset")
	require.NoError(t, err)
	assert.Equal(t, "percent-offset", p.Name())

	p, err = ByName("recent-high")
	require.NoError(t, err)
	assert.Equal(t, "recent-high", p.Name())

	_, err = ByName("nope")
	assert.Error(t, err)
}
