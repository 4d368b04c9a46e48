package dpt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	datePattern  = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
)

type clock struct {
	hour, minute, second int
}

func parseClock(m []string) (clock, error) {
	var c clock
	var err error
	if c.hour, err = strconv.Atoi(m[1]); err != nil {
		return c, err
	}
	if c.minute, err = strconv.Atoi(m[2]); err != nil {
		return c, err
	}
	if m[3] != "" {
		if c.second, err = strconv.Atoi(m[3]); err != nil {
			return c, err
		}
	}
	return c, nil
}

// fits reports whether every field fits the packed octet it is stored in.
// Finer limits are checked by the codecs.
func (c clock) fits() bool {
	return c.hour <= lowFiveBits && c.minute <= lowSixBits && c.second <= lowSixBits
}

func parseDate(m []string) (Date, error) {
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return Date{}, err
	}
	month, err := strconv.Atoi(m[2])
	if err != nil {
		return Date{}, err
	}
	day, err := strconv.Atoi(m[3])
	if err != nil {
		return Date{}, err
	}
	return Date{Year: year, Month: time.Month(month), Day: day}, nil
}

// dayFromTokens finds a day name (full or three-letter) among tokens.
func dayFromTokens(tokens []string) (DayOfWeek, bool) {
	for d := Monday; d <= Sunday; d++ {
		name := d.String()
		if HasToken(tokens, name, name[:3]) {
			return d, true
		}
	}
	return NoDay, false
}

// TimeOfDayType is DPT 10.001.
type TimeOfDayType struct {
	identity
}

// NewTimeOfDayType returns a time of day type.
func NewTimeOfDayType(id, description string) *TimeOfDayType {
	return &TimeOfDayType{identity: identity{id: id, description: description}}
}

// Bits returns the payload width.
func (t *TimeOfDayType) Bits() int { return timeOfDaySize * bitsPerOctet }

// New returns the value for tod.
func (t *TimeOfDayType) New(tod TimeOfDay) (TimeOfDayValue, error) {
	if err := tod.validate(); err != nil {
		return TimeOfDayValue{}, fmt.Errorf("%s: %w", t.id, err)
	}
	return TimeOfDayValue{typ: t, tod: tod}, nil
}

// CompatibleBytes accepts 3 octets with clear reserved bits.
func (t *TimeOfDayType) CompatibleBytes(data []byte) bool {
	return timeOfDayShape(data)
}

// DecodeBytes unpacks the time of day.
func (t *TimeOfDayType) DecodeBytes(data []byte) (Value, error) {
	tod, err := DecodeTimeOfDay(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.id, err)
	}
	return TimeOfDayValue{typ: t, tod: tod}, nil
}

// CompatibleTokens accepts a token of the form HH:MM[:SS].
func (t *TimeOfDayType) CompatibleTokens(tokens []string) bool {
	_, ok := FindPattern(tokens, clockPattern, parseClock)
	return ok
}

// DecodeTokens parses "HH:MM[:SS]" with an optional day name.
func (t *TimeOfDayType) DecodeTokens(tokens []string) (Value, error) {
	c, ok := FindPattern(tokens, clockPattern, parseClock)
	if !ok {
		return nil, fmt.Errorf("%w: %s expects HH:MM[:SS]", ErrIncompatibleSyntax, t.id)
	}
	if !c.fits() {
		return nil, fmt.Errorf("%w: %s: %02d:%02d:%02d", ErrOutOfRange, t.id, c.hour, c.minute, c.second)
	}
	day, _ := dayFromTokens(tokens)
	return valueOf(t.New(TimeOfDay{
		Day:    day,
		Hour:   uint8(c.hour),
		Minute: uint8(c.minute),
		Second: uint8(c.second),
	}))
}

// TimeOfDayValue is a value of a TimeOfDayType.
type TimeOfDayValue struct {
	typ *TimeOfDayType
	tod TimeOfDay
}

func (v TimeOfDayValue) Type() Type   { return v.typ }
func (v TimeOfDayValue) Payload() any { return v.tod }
func (v TimeOfDayValue) Text() string { return v.tod.String() }

// TimeOfDay returns the decoded fields.
func (v TimeOfDayValue) TimeOfDay() TimeOfDay { return v.tod }

// Day returns the day of week; false when the payload carries no day.
func (v TimeOfDayValue) Day() (time.Weekday, bool) { return v.tod.Day.Weekday() }

func (v TimeOfDayValue) Bytes() []byte {
	data, _ := EncodeTimeOfDay(v.tod)
	return data
}

// DateType is DPT 11.001.
type DateType struct {
	identity
}

// NewDateType returns a date type.
func NewDateType(id, description string) *DateType {
	return &DateType{identity: identity{id: id, description: description}}
}

// Bits returns the payload width.
func (t *DateType) Bits() int { return dateSize * bitsPerOctet }

// New returns the value for d.
func (t *DateType) New(d Date) (DateValue, error) {
	if err := d.validate(); err != nil {
		return DateValue{}, fmt.Errorf("%s: %w", t.id, err)
	}
	return DateValue{typ: t, d: d}, nil
}

// CompatibleBytes accepts 3 octets with clear reserved bits.
func (t *DateType) CompatibleBytes(data []byte) bool {
	return dateShape(data)
}

// DecodeBytes unpacks the date.
func (t *DateType) DecodeBytes(data []byte) (Value, error) {
	d, err := DecodeDate(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.id, err)
	}
	return DateValue{typ: t, d: d}, nil
}

// CompatibleTokens accepts a token of the form YYYY-MM-DD.
func (t *DateType) CompatibleTokens(tokens []string) bool {
	_, ok := FindPattern(tokens, datePattern, parseDate)
	return ok
}

// DecodeTokens parses "YYYY-MM-DD".
func (t *DateType) DecodeTokens(tokens []string) (Value, error) {
	d, ok := FindPattern(tokens, datePattern, parseDate)
	if !ok {
		return nil, fmt.Errorf("%w: %s expects YYYY-MM-DD", ErrIncompatibleSyntax, t.id)
	}
	return valueOf(t.New(d))
}

// DateValue is a value of a DateType.
type DateValue struct {
	typ *DateType
	d   Date
}

func (v DateValue) Type() Type   { return v.typ }
func (v DateValue) Payload() any { return v.d }
func (v DateValue) Text() string { return v.d.String() }

// Date returns the decoded fields.
func (v DateValue) Date() Date { return v.d }

func (v DateValue) Bytes() []byte {
	data, _ := EncodeDate(v.d)
	return data
}

// DateTimeType is DPT 19.001.
type DateTimeType struct {
	identity
}

// NewDateTimeType returns a date time type.
func NewDateTimeType(id, description string) *DateTimeType {
	return &DateTimeType{identity: identity{id: id, description: description}}
}

// Bits returns the payload width.
func (t *DateTimeType) Bits() int { return dateTimeSize * bitsPerOctet }

// Flags returns the status bits of the flag word in octets 6-7.
func (t *DateTimeType) Flags() []FlagDef {
	return append([]FlagDef(nil), dateTimeFlagDefs...)
}

// New returns the value for d.
func (t *DateTimeType) New(d DateTime) (DateTimeValue, error) {
	if err := d.validate(); err != nil {
		return DateTimeValue{}, fmt.Errorf("%s: %w", t.id, err)
	}
	return DateTimeValue{typ: t, d: d}, nil
}

// FromTime returns the value for tm with all validity flags clear.
func (t *DateTimeType) FromTime(tm time.Time, summerTime bool) (DateTimeValue, error) {
	return t.New(DateTime{
		Year:      tm.Year(),
		Month:     tm.Month(),
		Day:       tm.Day(),
		DayOfWeek: DayOfWeekFromWeekday(tm.Weekday()),
		Hour:      uint8(tm.Hour()),
		Minute:    uint8(tm.Minute()),
		Second:    uint8(tm.Second()),
		Flags:     DateTimeFlags{SummerTime: summerTime},
	})
}

// CompatibleBytes accepts 8 octets with clear reserved bits.
func (t *DateTimeType) CompatibleBytes(data []byte) bool {
	return dateTimeShape(data)
}

// DecodeBytes unpacks the date time.
func (t *DateTimeType) DecodeBytes(data []byte) (Value, error) {
	d, err := DecodeDateTime(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.id, err)
	}
	return DateTimeValue{typ: t, d: d}, nil
}

func dateTimeFlagNames() []string {
	names := make([]string, len(dateTimeFlagDefs))
	for i, def := range dateTimeFlagDefs {
		names[i] = def.Name
	}
	return names
}

// CompatibleTokens accepts a date, a clock time or a flag name.
func (t *DateTimeType) CompatibleTokens(tokens []string) bool {
	if _, ok := FindPattern(tokens, datePattern, parseDate); ok {
		return true
	}
	if _, ok := FindPattern(tokens, clockPattern, parseClock); ok {
		return true
	}
	return HasToken(tokens, dateTimeFlagNames()...)
}

// DecodeTokens parses "YYYY-MM-DD HH:MM[:SS]" followed by optional flag
// names and a day name. The date may be omitted with no-date and the time
// with no-time. Without a day name the day of week is derived from the date.
func (t *DateTimeType) DecodeTokens(tokens []string) (Value, error) {
	set := make([]bool, len(dateTimeFlagDefs))
	for i, def := range dateTimeFlagDefs {
		set[i] = HasToken(tokens, def.Name)
	}
	d := DateTime{Flags: dateTimeFlagsFromBools(set)}

	date, hasDate := FindPattern(tokens, datePattern, parseDate)
	switch {
	case hasDate:
		d.Year, d.Month, d.Day = date.Year, date.Month, date.Day
	case d.Flags.NoDate:
		d.Year = dateTimeBase
	default:
		return nil, fmt.Errorf("%w: %s expects YYYY-MM-DD or no-date", ErrIncompatibleSyntax, t.id)
	}

	c, hasClock := FindPattern(tokens, clockPattern, parseClock)
	switch {
	case hasClock:
		if !c.fits() {
			return nil, fmt.Errorf("%w: %s: %02d:%02d:%02d", ErrOutOfRange, t.id, c.hour, c.minute, c.second)
		}
		d.Hour, d.Minute, d.Second = uint8(c.hour), uint8(c.minute), uint8(c.second)
	case !d.Flags.NoTime:
		return nil, fmt.Errorf("%w: %s expects HH:MM[:SS] or no-time", ErrIncompatibleSyntax, t.id)
	}

	if day, ok := dayFromTokens(tokens); ok {
		d.DayOfWeek = day
	} else if hasDate && d.Month >= time.January && d.Month <= time.December {
		d.DayOfWeek = DayOfWeekFromWeekday(time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday())
	}
	return valueOf(t.New(d))
}

// DateTimeValue is a value of a DateTimeType.
type DateTimeValue struct {
	typ *DateTimeType
	d   DateTime
}

func (v DateTimeValue) Type() Type   { return v.typ }
func (v DateTimeValue) Payload() any { return v.d }

// DateTime returns the decoded fields.
func (v DateTimeValue) DateTime() DateTime { return v.d }

func (v DateTimeValue) Bytes() []byte {
	data, _ := EncodeDateTime(v.d)
	return data
}

// Text renders the date and time followed by the names of set flags.
func (v DateTimeValue) Text() string {
	s := v.d.String()
	for i, set := range v.d.Flags.bools() {
		if set {
			s += " " + dateTimeFlagDefs[i].Name
		}
	}
	return strings.TrimSpace(s)
}
