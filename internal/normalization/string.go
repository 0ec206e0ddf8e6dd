package normalization

import "strings"

// ParseInputString trims surrounding whitespace.
func ParseInputString(input string) string {
	return strings.TrimSpace(input)
}

// ParseInputStringPtr trims *input, returning nil for nil.
func ParseInputStringPtr(input *string) *string {
	if input == nil {
		return nil
	}
	normalized := strings.TrimSpace(*input)
	return &normalized
}

// Email trims and lower-cases an address.
func Email(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
