package commission

// ZeroFee implements Fee with no commission at all, reproducing frictionless
// fills.
type ZeroFee struct{}

// NewZeroFee creates a zero-commission fee schedule.
func NewZeroFee() Fee {
	return &ZeroFee{}
}

// Calculate returns 0 for any fill.
func (f *ZeroFee) Calculate(price, volume float64) float64 {
	return 0.0
}

// Name implements Fee.
func (f *ZeroFee) Name() string {
	return string(BrokerZero)
}
