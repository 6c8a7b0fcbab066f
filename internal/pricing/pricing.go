// Package pricing computes baggage surcharges. All amounts are integer
// cents and all weights integer grams, so charge arithmetic never goes
// through binary floating point.
package pricing

import "math"

// FeeSchedule is the injected baggage fee configuration. It is read-only
// at booking time; there are no fallback constants anywhere else.
type FeeSchedule struct {
	FreeAllowanceGrams   int64
	MaxItemGrams         int64
	PricePerExtraKgCents int64
}

// DefaultFeeSchedule returns the standard schedule: 20 kg free allowance,
// 32 kg per-item maximum, 5 currency units per extra kilogram.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		FreeAllowanceGrams:   20_000,
		MaxItemGrams:         32_000,
		PricePerExtraKgCents: 500,
	}
}

// ExcessWeight returns the billable portion of an item's weight in grams,
// zero when the item is within the free allowance.
func (s FeeSchedule) ExcessWeight(weightGrams int64) int64 {
	if weightGrams <= s.FreeAllowanceGrams {
		return 0
	}
	return weightGrams - s.FreeAllowanceGrams
}

// ExtraCharge returns the surcharge in cents for an item of the given
// weight. The per-kilogram rate is applied to the exact excess and
// rounded half up at cent precision.
func (s FeeSchedule) ExtraCharge(weightGrams int64) int64 {
	excess := s.ExcessWeight(weightGrams)
	return (excess*s.PricePerExtraKgCents + 500) / 1000
}

// CheckItemWeight rejects a single item heavier than the per-item
// maximum. Must be called before any charge computation.
func (s FeeSchedule) CheckItemWeight(weightGrams int64) bool {
	return weightGrams >= 0 && weightGrams <= s.MaxItemGrams
}

// Grams converts a kilogram value from the API boundary into grams.
func Grams(kg float64) int64 {
	return int64(math.Round(kg * 1000))
}

// Kg converts grams back into kilograms for presentation.
func Kg(grams int64) float64 {
	return float64(grams) / 1000
}
