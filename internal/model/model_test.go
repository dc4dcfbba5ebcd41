package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvictionRank(t *testing.T) {
	assert.Equal(t, 2, ConvictionHigh.Rank())
	assert.Equal(t, 1, ConvictionMedium.Rank())
	assert.Equal(t, 0, ConvictionLow.Rank())
	assert.Equal(t, 0, Conviction("").Rank())
}

func TestNewPremarketStats(t *testing.T) {
	bars := []Bar{
		{Close: 10, Volume: 4000},
		{Close: 11, Volume: 6000},
		{Close: 12, Volume: 2000},
	}

	st := NewPremarketStats(bars, nil)
	require.NotNil(t, st.VWAP)
	require.NotNil(t, st.Price)
	assert.InDelta(t, (40000.0+66000+24000)/12000, *st.VWAP, 1e-9)
	assert.Equal(t, 12.0, *st.Price)
	assert.Equal(t, 12000.0, st.Volume)
	assert.True(t, st.Alive)

	trade := 12.5
	st = NewPremarketStats(bars, &trade)
	assert.Equal(t, 12.5, *st.Price)
}

func TestNewPremarketStats_Empty(t *testing.T) {
	st := NewPremarketStats(nil, nil)
	assert.Nil(t, st.Price)
	assert.Nil(t, st.VWAP)
	assert.Zero(t, st.Volume)
	assert.False(t, st.Alive)
}

func TestNewPremarketStats_AliveThreshold(t *testing.T) {
	st := NewPremarketStats([]Bar{{Close: 1, Volume: AliveVolume}}, nil)
	assert.False(t, st.Alive)
	st = NewPremarketStats([]Bar{{Close: 1, Volume: AliveVolume + 1}}, nil)
	assert.True(t, st.Alive)
}
