// Package commission prices the broker fee charged on a fill.
package commission

// Fee calculates the commission charged for filling the given volume at the
// given price. Implementations are stateless.
type Fee interface {
	// Calculate returns the fee in capital units for a fill of volume
	// units at price.
	Calculate(price, volume float64) float64
	// Name identifies the fee schedule in reports and logs.
	Name() string
}

// Broker selects a fee schedule by name, e.g. from configuration.
type Broker string

const (
	BrokerZero     Broker = "zero"
	BrokerFlatRate Broker = "flat_rate"
)

// AllBrokers lists the selectable fee schedules for schema generation.
var AllBrokers = []any{
	BrokerZero,
	BrokerFlatRate,
}

// GetFeeHandler returns the fee schedule for the broker. Unknown brokers
// fall back to zero commission.
func GetFeeHandler(broker Broker, rate float64) Fee {
	switch broker {
	case BrokerFlatRate:
		return NewFlatRateFee(rate)
	case BrokerZero:
		return NewZeroFee()
	default:
		return NewZeroFee()
	}
}
