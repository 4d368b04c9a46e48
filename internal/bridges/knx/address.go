package knx

import (
	"fmt"
	"strconv"
	"strings"
)

// GroupAddress is a KNX group address in 3-level notation (main/middle/sub).
//
// On the wire it is 16 bits: 5 bits main, 3 bits middle, 8 bits sub.
// GroupAddress is comparable and can be used as a map key.
type GroupAddress struct {
	Main   uint8
	Middle uint8
	Sub    uint8
}

const (
	maxMain     = 31
	maxMiddle   = 7
	maxSub      = 255
	maxTwoLevel = 2047 // 11-bit sub group of main/sub notation

	gaMainMask   = 0x1F // 5 bits
	gaMiddleMask = 0x07 // 3 bits
	gaSubMask    = 0xFF // 8 bits

	// topicSeparator replaces '/' in MQTT topic segments.
	topicSeparator = "-"
)

// ParseGroupAddress parses "main/middle/sub" or the 2-level "main/sub"
// form. '-' is accepted in place of '/' so topic segments parse back.
//
// Valid ranges: main 0-31, middle 0-7, sub 0-255 (0-2047 in 2-level form).
//
// Parameters:
//   - s: Group address in 3-level or 2-level notation
//
// Returns:
//   - GroupAddress: The parsed address
//   - error: ErrInvalidGroupAddress wrapping the offending component
//
// Example:
//
//	ga, err := knx.ParseGroupAddress("1/2/3")
func ParseGroupAddress(s string) (GroupAddress, error) {
	parts := strings.Split(strings.ReplaceAll(strings.TrimSpace(s), topicSeparator, "/"), "/")

	switch len(parts) {
	case 3:
		main, err := parseLevel(parts[0], maxMain, "main")
		if err != nil {
			return GroupAddress{}, err
		}
		middle, err := parseLevel(parts[1], maxMiddle, "middle")
		if err != nil {
			return GroupAddress{}, err
		}
		sub, err := parseLevel(parts[2], maxSub, "sub")
		if err != nil {
			return GroupAddress{}, err
		}
		return GroupAddress{Main: uint8(main), Middle: uint8(middle), Sub: uint8(sub)}, nil //nolint:gosec // bounded by parseLevel
	case 2:
		main, err := parseLevel(parts[0], maxMain, "main")
		if err != nil {
			return GroupAddress{}, err
		}
		sub, err := parseLevel(parts[1], maxTwoLevel, "sub")
		if err != nil {
			return GroupAddress{}, err
		}
		return GroupAddressFromUint16(uint16(main)<<11 | uint16(sub)), nil //nolint:gosec // bounded by parseLevel
	default:
		return GroupAddress{}, fmt.Errorf("%w: expected main/middle/sub or main/sub, got %q", ErrInvalidGroupAddress, s)
	}
}

func parseLevel(s string, limit uint64, name string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil || v > limit {
		return 0, fmt.Errorf("%w: %s group must be 0-%d, got %q", ErrInvalidGroupAddress, name, limit, s)
	}
	return v, nil
}

// MustParseGroupAddress is ParseGroupAddress for constants; it panics on error.
func MustParseGroupAddress(s string) GroupAddress {
	ga, err := ParseGroupAddress(s)
	if err != nil {
		panic(err)
	}
	return ga
}

// String returns the 3-level form, e.g. "1/2/3".
func (ga GroupAddress) String() string {
	return fmt.Sprintf("%d/%d/%d", ga.Main, ga.Middle, ga.Sub)
}

// TopicSegment returns the address as a single MQTT topic level, e.g. "1-2-3".
func (ga GroupAddress) TopicSegment() string {
	return fmt.Sprintf("%d%s%d%s%d", ga.Main, topicSeparator, ga.Middle, topicSeparator, ga.Sub)
}

// ToUint16 returns the 16-bit wire form.
func (ga GroupAddress) ToUint16() uint16 {
	return uint16(ga.Main)<<11 | uint16(ga.Middle)<<8 | uint16(ga.Sub)
}

// GroupAddressFromUint16 decodes the 16-bit wire form.
func GroupAddressFromUint16(value uint16) GroupAddress {
	return GroupAddress{
		Main:   uint8((value >> 11) & gaMainMask),  //nolint:gosec // masked to 5 bits (0-31)
		Middle: uint8((value >> 8) & gaMiddleMask), //nolint:gosec // masked to 3 bits (0-7)
		Sub:    uint8(value & gaSubMask),           //nolint:gosec // masked to 8 bits (0-255)
	}
}

// IsValid reports whether all levels are in range. Addresses built from
// struct literals may exceed the 5/3 bit main and middle fields.
func (ga GroupAddress) IsValid() bool {
	return ga.Main <= maxMain && ga.Middle <= maxMiddle
}

// Less orders addresses by their wire value.
func (ga GroupAddress) Less(other GroupAddress) bool {
	return ga.ToUint16() < other.ToUint16()
}

// formatIndividualAddress renders a device address as area.line.device.
func formatIndividualAddress(ia uint16) string {
	area := (ia >> 12) & 0x0F
	line := (ia >> 8) & 0x0F
	device := ia & 0xFF
	return fmt.Sprintf("%d.%d.%d", area, line, device)
}
