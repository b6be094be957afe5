package enums

import "fmt"

// TransitionKind names the explicit actions that move an order between
// statuses. The short forms mirror the operational vocabulary:
// dtw = delivered to warehouse, ofs = out of stock, rts = ready to ship,
// cs = completed shipment.
type TransitionKind string

const (
	TransitionDelivered   TransitionKind = "dtw"
	TransitionOutOfStock  TransitionKind = "ofs"
	TransitionReadyToShip TransitionKind = "rts"
	TransitionReturn      TransitionKind = "return-to-dtw"
	TransitionCompleted   TransitionKind = "cs"
)

var validTransitionKinds = []TransitionKind{
	TransitionDelivered,
	TransitionOutOfStock,
	TransitionReadyToShip,
	TransitionReturn,
	TransitionCompleted,
}

// String implements fmt.Stringer.
func (k TransitionKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known TransitionKind.
func (k TransitionKind) IsValid() bool {
	for _, candidate := range validTransitionKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseTransitionKind converts raw input into a TransitionKind.
func ParseTransitionKind(value string) (TransitionKind, error) {
	for _, candidate := range validTransitionKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transition kind %q", value)
}
