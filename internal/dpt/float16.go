package dpt

import (
	"fmt"
	"math"
)

// KNX 2-octet float constants.
const (
	// float16Min is the smallest encodable value (-2048 × 2^15 × 0.01).
	float16Min = -671088.64

	// float16Max is the largest encodable value (2047 × 2^15 × 0.01).
	float16Max = 670760.96

	// float16MantissaMin and float16MantissaMax bound the 12-bit mantissa.
	float16MantissaMin = -2048
	float16MantissaMax = 2047

	// float16MantissaMask keeps the 11 mantissa bits below the sign.
	float16MantissaMask = 0x07FF

	// float16MaxExponent is the largest 4-bit exponent.
	float16MaxExponent = 15

	// float16Snap is the distance within which a scaled value is treated as
	// the integer it approximates.
	float16Snap = 1e-6
)

// float16Range bounds every value the 2-octet float can carry.
var float16Range = NewRange(float16Min, float16Max)

// DecodeFloat16 decodes the KNX 2-octet float format:
//
//	Octet 0: S EEEE MMM
//	Octet 1: MMMM MMMM
//
// value = (1 << E) × M × 0.01, where M is the 12-bit two's complement
// mantissa formed by S and the eleven M bits.
//
// Parameters:
//   - data: KNX data (exactly 2 bytes)
//
// Returns:
//   - float64: Decoded value; 0x7FFF decodes to the maximum
//   - error: ErrIncompatibleBytes if data is not 2 bytes
func DecodeFloat16(data []byte) (float64, error) {
	if len(data) != 2 {
		return 0, fmt.Errorf("%w: 2-octet float requires 2 bytes, got %d", ErrIncompatibleBytes, len(data))
	}

	exponent := (data[0] >> 3) & 0x0F
	mantissa := int(data[0]&0x07)<<8 | int(data[1])
	if data[0]&0x80 != 0 {
		mantissa -= 1 << 11 // sign bit carries weight -2048
	}

	// M × 2^E is exact; a single division keeps the result correctly
	// rounded, so the limits compare equal to float16Min and float16Max.
	return float64(mantissa<<exponent) / 100, nil
}

// EncodeFloat16 encodes value into the KNX 2-octet float format.
//
// The mantissa is normalised greedily: value × 100 is halved, incrementing
// the exponent, until it fits [-2048, 2047], then rounded to the nearest
// integer. The encoding is lossy; values produced by DecodeFloat16 survive
// a round trip unchanged.
//
// Parameters:
//   - value: Float value to encode
//
// Returns:
//   - []byte: Two bytes in KNX format
//   - error: ErrOutOfRange if value is NaN or outside [-671088.64, 670760.96]
func EncodeFloat16(value float64) ([]byte, error) {
	if math.IsNaN(value) {
		return nil, fmt.Errorf("%w: NaN is not encodable", ErrOutOfRange)
	}
	if err := float16Range.Check(value); err != nil {
		return nil, err
	}

	calc := value * 100
	if r := math.Round(calc); math.Abs(calc-r) < float16Snap {
		calc = r
	}

	exponent := 0
	if calc < 0 {
		for calc < float16MantissaMin {
			calc /= 2
			exponent++
		}
	} else {
		for calc > float16MantissaMax {
			calc /= 2
			exponent++
		}
	}
	if exponent > float16MaxExponent {
		return nil, fmt.Errorf("%w: exponent overflow for %v", ErrOutOfRange, value)
	}

	rounded := int(math.Round(calc))
	mantissa := rounded & float16MantissaMask

	// Sign follows the rounded mantissa so that tiny negatives become +0.
	var high byte
	if rounded < 0 {
		high = 0x80
	}
	high |= byte(exponent) << 3
	high |= byte(mantissa>>8) & 0x07

	return []byte{high, byte(mantissa)}, nil
}
