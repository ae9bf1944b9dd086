// Package numeric implements the constrained numeric and boolean parsers
// the merge engine reconciles attribute values with (§4.5): integer SDK
// levels, hex GL ES versions, and required booleans.
//
// The trim-then-validate shape follows the teacher's lexical parsers
// (internal/parser/lexical.ParseInteger, ParseBoolean), adapted from
// arbitrary-precision *big.Int/bool XSD lexical values to the narrower,
// explicitly-bounded integer and hex forms this spec calls for.
package numeric

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultMinSdkVersion is used when the primary declares no uses-sdk
// element, or declares one without an explicit minSdkVersion (§4.2.A).
const DefaultMinSdkVersion = 1

// DefaultGLESVersion is used when the primary declares no uses-feature
// with a glEsVersion attribute (§4.2.A).
const DefaultGLESVersion uint32 = 0x00010000

// MinGLESVersion is the lowest glEsVersion value that is not flagged as
// "smaller than 1.0" (§4.5).
const MinGLESVersion uint32 = 0x00010000

// ParseSDKInteger parses a minSdkVersion value: decimal digits only,
// rejecting hex, non-digits, and values exceeding the 32-bit signed range.
func ParseSDKInteger(lexical string) (int32, error) {
	trimmed := strings.TrimSpace(lexical)
	if trimmed == "" {
		return 0, errIntegerSyntax(lexical)
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return 0, errIntegerSyntax(lexical)
		}
	}
	value, err := strconv.ParseInt(trimmed, 10, 32)
	if err != nil {
		return 0, errIntegerSyntax(lexical)
	}
	return int32(value), nil
}

// IntegerSyntaxError is returned by ParseSDKInteger on malformed input.
type IntegerSyntaxError struct {
	Lexical string
}

func (e *IntegerSyntaxError) Error() string {
	return "must be an integer number"
}

func errIntegerSyntax(lexical string) error {
	return &IntegerSyntaxError{Lexical: lexical}
}

// GLESSyntaxError is returned by ParseGLESVersion on malformed input.
type GLESSyntaxError struct {
	Lexical string
}

func (e *GLESSyntaxError) Error() string {
	return "must be an integer in the form 0x00020001"
}

// ParseGLESVersion parses a glEsVersion value: "0x" followed by 1-8 hex
// digits, interpreted as an unsigned 32-bit integer.
func ParseGLESVersion(lexical string) (uint32, error) {
	trimmed := strings.TrimSpace(lexical)
	if !strings.HasPrefix(trimmed, "0x") && !strings.HasPrefix(trimmed, "0X") {
		return 0, &GLESSyntaxError{Lexical: lexical}
	}
	digits := trimmed[2:]
	if len(digits) == 0 || len(digits) > 8 {
		return 0, &GLESSyntaxError{Lexical: lexical}
	}
	value, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, &GLESSyntaxError{Lexical: lexical}
	}
	return uint32(value), nil
}

// FormatGLESVersion renders a glEsVersion value in its canonical 0x-prefixed,
// zero-padded 8-digit form.
func FormatGLESVersion(v uint32) string {
	return "0x" + fmt.Sprintf("%08x", v)
}

// ParseRequired parses a uses-library/@required value: the literal strings
// "true" or "false". Any other string (including empty, which callers use
// to represent an absent attribute) is treated as "true" but reported to
// the caller as invalid so a Warning can be emitted (§4.5).
func ParseRequired(lexical string) (value bool, valid bool) {
	switch lexical {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return true, false
	}
}
