package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeeSchedule_ExcessWeight(t *testing.T) {
	schedule := DefaultFeeSchedule()

	testCases := []struct {
		name        string
		weightGrams int64
		expected    int64
	}{
		{"under allowance", Grams(18.5), 0},
		{"exactly at allowance", Grams(20.0), 0},
		{"eight kilos over", Grams(28.0), 8000},
		{"fractional excess", Grams(20.25), 250},
		{"zero weight", 0, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, schedule.ExcessWeight(tc.weightGrams))
		})
	}
}

func TestFeeSchedule_ExtraCharge(t *testing.T) {
	schedule := DefaultFeeSchedule()

	testCases := []struct {
		name          string
		weightGrams   int64
		expectedCents int64
	}{
		{"no excess no charge", Grams(18.5), 0},
		{"eight kilos over", Grams(28.0), 4000},
		{"quarter kilo over", Grams(20.25), 125},
		{"just over allowance", Grams(20.01), 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedCents, schedule.ExtraCharge(tc.weightGrams))
		})
	}
}

func TestFeeSchedule_ExtraCharge_RoundsHalfUpToCent(t *testing.T) {
	// 0.25 kg excess at 5.55 per kg is 1.3875 currency units, which is
	// not representable in cents; the charge rounds to 1.39.
	schedule := FeeSchedule{
		FreeAllowanceGrams:   20_000,
		MaxItemGrams:         32_000,
		PricePerExtraKgCents: 555,
	}
	assert.Equal(t, int64(139), schedule.ExtraCharge(Grams(20.25)))
}

func TestFeeSchedule_CheckItemWeight(t *testing.T) {
	schedule := DefaultFeeSchedule()

	assert.True(t, schedule.CheckItemWeight(Grams(32.0)))
	assert.True(t, schedule.CheckItemWeight(0))
	assert.False(t, schedule.CheckItemWeight(Grams(32.01)))
	assert.False(t, schedule.CheckItemWeight(-1))
}

func TestGramsKgRoundTrip(t *testing.T) {
	assert.Equal(t, int64(28_000), Grams(28.0))
	assert.Equal(t, int64(18_500), Grams(18.5))
	assert.Equal(t, 28.0, Kg(28_000))
}
