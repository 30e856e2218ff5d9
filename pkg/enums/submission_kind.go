package enums

import "fmt"

// SubmissionKind distinguishes checkout of the whole cart from "buy now".
type SubmissionKind string

const (
	SubmissionKindCart   SubmissionKind = "cart"
	SubmissionKindDirect SubmissionKind = "direct"
)

var validSubmissionKinds = []SubmissionKind{
	SubmissionKindCart,
	SubmissionKindDirect,
}

func (k SubmissionKind) String() string {
	return string(k)
}

func (k SubmissionKind) IsValid() bool {
	for _, candidate := range validSubmissionKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

func ParseSubmissionKind(value string) (SubmissionKind, error) {
	for _, candidate := range validSubmissionKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid submission kind %q", value)
}
