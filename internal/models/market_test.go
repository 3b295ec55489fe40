package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteIsZero(t *testing.T) {
	var nilQuote *Quote
	assert.True(t, nilQuote.IsZero())
	assert.True(t, (&Quote{Symbol: "AAPL"}).IsZero())
	assert.False(t, (&Quote{Symbol: "AAPL", CurrentPrice: 150}).IsZero())
}

func TestQuoteGapPercent(t *testing.T) {
	q := &Quote{CurrentPrice: 10.5, PreviousClose: 10.0}
	assert.InDelta(t, 5.0, q.GapPercent(), 0.001)

	down := &Quote{CurrentPrice: 9.0, PreviousClose: 10.0}
	assert.InDelta(t, -10.0, down.GapPercent(), 0.001)

	noClose := &Quote{CurrentPrice: 10.0}
	assert.Equal(t, 0.0, noClose.GapPercent())
}

func TestCandlesAverageVolume(t *testing.T) {
	c := &Candles{Volume: []int64{100, 200, 300, 400}}

	assert.Equal(t, 350.0, c.AverageVolume(2), "averages the trailing window")
	assert.Equal(t, 250.0, c.AverageVolume(4))
	assert.Equal(t, 250.0, c.AverageVolume(10), "window larger than series uses all bars")
	assert.Equal(t, 0.0, c.AverageVolume(0))

	var empty *Candles
	assert.Equal(t, 0.0, empty.AverageVolume(10))
}

func TestProfileIsZero(t *testing.T) {
	var nilProfile *CompanyProfile
	assert.True(t, nilProfile.IsZero())
	assert.True(t, (&CompanyProfile{Symbol: "AAPL"}).IsZero())
	assert.False(t, (&CompanyProfile{Name: "Apple Inc"}).IsZero())
	assert.False(t, (&CompanyProfile{SharesOutstanding: 1000}).IsZero())
}
