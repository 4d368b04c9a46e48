package knx

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Group value services carried in the top two bits of the APCI octet.
const (
	// APCIRead requests the current value of a group address.
	APCIRead byte = 0x00

	// APCIResponse answers a read.
	APCIResponse byte = 0x40

	// APCIWrite sets a new value.
	APCIWrite byte = 0x80
)

const (
	// packetHeaderSize is src(2) + dst(2) + TPCI(1) + APCI(1).
	packetHeaderSize = 6

	apciServiceMask = 0xC0
	apciDataMask    = 0x3F

	// tpciAPCIHighMask selects the two APCI bits stored in the TPCI octet.
	// They are zero for all group value services.
	tpciAPCIHighMask = 0x03

	// compactBits is the largest datapoint width carried inside the APCI octet.
	compactBits = 6
)

// Telegram is one group value service seen on the bus.
type Telegram struct {
	// Source is the sender's individual address, e.g. "1.1.5".
	Source string

	// Destination is the group address the telegram targets.
	Destination GroupAddress

	// APCI is APCIRead, APCIResponse or APCIWrite.
	APCI byte

	// Data is the datapoint payload. For compact telegrams it is a single
	// octet holding the low six bits of the APCI octet.
	Data []byte

	// Compact reports that Data travelled inside the APCI octet, as it
	// does for datapoint types of six bits or fewer.
	Compact bool

	Timestamp time.Time
}

// ParseTelegram parses a knxd group packet:
//
//	src(2) dst(2) TPCI(1) APCI|data(1) [data...]
func ParseTelegram(data []byte) (Telegram, error) {
	if len(data) < packetHeaderSize {
		return Telegram{}, fmt.Errorf("%w: too short (%d bytes, need at least %d)", ErrInvalidTelegram, len(data), packetHeaderSize)
	}
	if data[4]&tpciAPCIHighMask != 0 {
		return Telegram{}, fmt.Errorf("%w: not a group value service (TPCI %#04x)", ErrInvalidTelegram, data[4])
	}

	t := Telegram{
		Source:      formatIndividualAddress(binary.BigEndian.Uint16(data[0:2])),
		Destination: GroupAddressFromUint16(binary.BigEndian.Uint16(data[2:4])),
		APCI:        data[5] & apciServiceMask,
		Timestamp:   time.Now(),
	}
	if t.APCI != APCIRead && t.APCI != APCIWrite && t.APCI != APCIResponse {
		return Telegram{}, fmt.Errorf("%w: unsupported APCI %#04x", ErrInvalidTelegram, data[5])
	}

	switch {
	case len(data) > packetHeaderSize:
		t.Data = make([]byte, len(data)-packetHeaderSize)
		copy(t.Data, data[packetHeaderSize:])
	case t.APCI != APCIRead:
		t.Data = []byte{data[5] & apciDataMask}
		t.Compact = true
	}

	return t, nil
}

// Encode returns the knxd send form of the telegram:
//
//	dst(2) TPCI(1) APCI|data(1) [data...]
//
// Compact telegrams fold their single data octet into the APCI octet.
func (t Telegram) Encode() []byte {
	if t.Compact || len(t.Data) == 0 {
		buf := make([]byte, 4) //nolint:mnd // dst + TPCI + APCI
		binary.BigEndian.PutUint16(buf[0:2], t.Destination.ToUint16())
		buf[3] = t.APCI
		if len(t.Data) > 0 {
			buf[3] |= t.Data[0] & apciDataMask
		}
		return buf
	}

	buf := make([]byte, 4+len(t.Data)) //nolint:mnd // dst + TPCI + APCI
	binary.BigEndian.PutUint16(buf[0:2], t.Destination.ToUint16())
	buf[3] = t.APCI
	copy(buf[4:], t.Data)
	return buf
}

// IsWrite reports whether t is a GroupValue_Write.
func (t Telegram) IsWrite() bool {
	return t.APCI == APCIWrite
}

// IsRead reports whether t is a GroupValue_Read.
func (t Telegram) IsRead() bool {
	return t.APCI == APCIRead
}

// IsResponse reports whether t is a GroupValue_Response.
func (t Telegram) IsResponse() bool {
	return t.APCI == APCIResponse
}

// Service returns "read", "write" or "response".
func (t Telegram) Service() string {
	switch t.APCI {
	case APCIRead:
		return "read"
	case APCIResponse:
		return "response"
	case APCIWrite:
		return "write"
	default:
		return "unknown"
	}
}

func (t Telegram) String() string {
	return fmt.Sprintf("Telegram{GA:%s, %s, Data:%X}", t.Destination, t.Service(), t.Data)
}

// NewWriteTelegram builds a GroupValue_Write. compact selects the short
// form for datapoint types of six bits or fewer.
func NewWriteTelegram(dest GroupAddress, data []byte, compact bool) Telegram {
	return Telegram{
		Destination: dest,
		APCI:        APCIWrite,
		Data:        data,
		Compact:     compact,
		Timestamp:   time.Now(),
	}
}

// NewReadTelegram builds a GroupValue_Read.
func NewReadTelegram(dest GroupAddress) Telegram {
	return Telegram{
		Destination: dest,
		APCI:        APCIRead,
		Timestamp:   time.Now(),
	}
}
