package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func zone(name, start, end string) ShippingZone {
	return ShippingZone{Name: name, ZipCodeStart: start, ZipCodeEnd: end, ShippingCost: decimal.NewFromInt(1)}
}

func TestCleanZipCode(t *testing.T) {
	cases := map[string]string{
		"01310-100":   "01310100",
		" 01.310 100": "01310100",
		"abc":         "",
		"":            "",
		"٣١٠":         "",
	}
	for in, want := range cases {
		assert.Equal(t, want, CleanZipCode(in), in)
	}
}

func TestMatchZoneFirstMatchWins(t *testing.T) {
	zones := []ShippingZone{
		zone("capital", "01000-000", "01999-999"),
		zone("estado", "01000000", "19999999"),
	}

	got := MatchZone(zones, "01310100")
	if assert.NotNil(t, got) {
		assert.Equal(t, "capital", got.Name)
	}

	got = MatchZone(zones, "15000000")
	if assert.NotNil(t, got) {
		assert.Equal(t, "estado", got.Name)
	}
}

func TestMatchZoneBoundsAreInclusive(t *testing.T) {
	zones := []ShippingZone{zone("z", "01000000", "05999999")}

	assert.NotNil(t, MatchZone(zones, "01000000"))
	assert.NotNil(t, MatchZone(zones, "05999999"))
	assert.Nil(t, MatchZone(zones, "06000000"))
}

func TestMatchZoneNoZones(t *testing.T) {
	assert.Nil(t, MatchZone(nil, "01310100"))
}

func TestMatchZoneComparesLexicographically(t *testing.T) {
	zones := []ShippingZone{zone("short", "1", "2")}

	// "15" sorts between "1" and "2" even though 15 > 2 numerically.
	assert.NotNil(t, MatchZone(zones, "15"))
	assert.Nil(t, MatchZone(zones, "3"))
}

func TestThresholdApplies(t *testing.T) {
	var missing *ShippingConfig
	assert.False(t, missing.ThresholdApplies(decimal.NewFromInt(1000)))

	cfg := &ShippingConfig{FreeShippingThreshold: decimal.NewNullDecimal(decimal.RequireFromString("200.00"))}
	assert.True(t, cfg.ThresholdApplies(decimal.RequireFromString("200.00")))
	assert.True(t, cfg.ThresholdApplies(decimal.RequireFromString("250.00")))
	assert.False(t, cfg.ThresholdApplies(decimal.RequireFromString("199.99")))

	zero := &ShippingConfig{FreeShippingThreshold: decimal.NewNullDecimal(decimal.Zero)}
	assert.False(t, zero.ThresholdApplies(decimal.NewFromInt(10)))
}

func TestQuoteConstructors(t *testing.T) {
	days := 2
	q := ZoneQuote(ShippingZone{ShippingCost: decimal.Zero, EstimatedDays: &days})
	assert.True(t, q.IsFree)
	assert.Equal(t, 2, q.EstimatedDays)

	q = ZoneQuote(ShippingZone{ShippingCost: decimal.NewFromInt(5)})
	assert.False(t, q.IsFree)
	assert.Equal(t, DefaultEstimatedDays, q.EstimatedDays)

	q = DefaultQuote(nil)
	assert.True(t, q.IsFree)
	assert.True(t, q.Cost.IsZero())
}
