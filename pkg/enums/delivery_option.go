package enums

import (
	"fmt"
	"strings"
)

// DeliveryOption is the coarse delivery zone picked on "buy now".
type DeliveryOption string

const (
	DeliveryOptionDhaka   DeliveryOption = "dhaka"
	DeliveryOptionOutside DeliveryOption = "outside"
)

var validDeliveryOptions = []DeliveryOption{
	DeliveryOptionDhaka,
	DeliveryOptionOutside,
}

func (d DeliveryOption) String() string {
	return string(d)
}

func (d DeliveryOption) IsValid() bool {
	for _, candidate := range validDeliveryOptions {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryOption accepts the option case-insensitively.
func ParseDeliveryOption(value string) (DeliveryOption, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validDeliveryOptions {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery option %q", value)
}
