package commission

// FlatRateFee charges a fixed fraction of the fill notional, the usual
// crypto-exchange taker schedule.
type FlatRateFee struct {
	rate float64
}

// NewFlatRateFee creates a flat-rate fee schedule. Negative rates are
// treated as zero.
func NewFlatRateFee(rate float64) Fee {
	if rate < 0 {
		rate = 0
	}

	return &FlatRateFee{rate: rate}
}

// Calculate returns price × volume × rate.
func (f *FlatRateFee) Calculate(price, volume float64) float64 {
	return price * volume * f.rate
}

// Name implements Fee.
func (f *FlatRateFee) Name() string {
	return string(BrokerFlatRate)
}
