package enums

import "fmt"

// CodeType identifies the external product code scheme.
type CodeType string

const (
	CodeTypeASIN CodeType = "asin"
	CodeTypeUPC  CodeType = "upc"
)

var validCodeTypes = []CodeType{CodeTypeASIN, CodeTypeUPC}

// String implements fmt.Stringer.
func (c CodeType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CodeType.
func (c CodeType) IsValid() bool {
	for _, candidate := range validCodeTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCodeType converts raw input into a CodeType.
func ParseCodeType(value string) (CodeType, error) {
	for _, candidate := range validCodeTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid code type %q", value)
}
