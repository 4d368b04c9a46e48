package dpt

import (
	"fmt"
	"time"
)

// DayOfWeek is the KNX 3-bit day-of-week field. Zero is the wire value for
// "no day" and is preserved as NoDay.
type DayOfWeek uint8

// Day-of-week wire values.
const (
	NoDay DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// String returns the English day name, or "" for NoDay.
func (d DayOfWeek) String() string {
	if int(d) < len(dayNames) {
		return dayNames[d]
	}
	return fmt.Sprintf("DayOfWeek(%d)", uint8(d))
}

// Weekday converts to time.Weekday. The boolean is false for NoDay.
func (d DayOfWeek) Weekday() (time.Weekday, bool) {
	switch {
	case d == NoDay || d > Sunday:
		return 0, false
	case d == Sunday:
		return time.Sunday, true
	default:
		return time.Weekday(d), true
	}
}

// DayOfWeekFromWeekday is the inverse of DayOfWeek.Weekday.
func DayOfWeekFromWeekday(w time.Weekday) DayOfWeek {
	if w == time.Sunday {
		return Sunday
	}
	return DayOfWeek(w)
}

// Packed field limits.
const (
	maxHour         = 23
	maxHourOfDay    = 24 // 19.001 allows 24:00:00
	maxMinute       = 59
	maxSecond       = 59
	maxDayOfMonth   = 31
	minDateYear     = 1990
	maxDateYear     = 2089
	dateCentury     = 90 // 11.001 years below this are 20xx
	dateTimeBase    = 1900
	maxDateTimeYear = 1900 + 255
	dayShift        = 5
	lowFiveBits     = 0x1F
	lowSixBits      = 0x3F
	lowFourBits     = 0x0F
	maxYearOctet    = 99 // 11.001 carries the year modulo 100
	timeOfDaySize   = 3
	dateSize        = 3
	dateTimeSize    = 8
	dateTimeFlagsN  = 16
)

// TimeOfDay is the DPT 10.001 payload.
//
//	Octet 0: DDD HHHHH   day-of-week (0 = no day), hour
//	Octet 1: 00 MMMMMM   minute
//	Octet 2: 00 SSSSSS   second
type TimeOfDay struct {
	Day    DayOfWeek
	Hour   uint8
	Minute uint8
	Second uint8
}

func (t TimeOfDay) validate() error {
	switch {
	case t.Day > Sunday:
		return fmt.Errorf("%w: day of week %d", ErrOutOfRange, t.Day)
	case t.Hour > maxHour:
		return fmt.Errorf("%w: hour %d", ErrOutOfRange, t.Hour)
	case t.Minute > maxMinute:
		return fmt.Errorf("%w: minute %d", ErrOutOfRange, t.Minute)
	case t.Second > maxSecond:
		return fmt.Errorf("%w: second %d", ErrOutOfRange, t.Second)
	}
	return nil
}

// String renders "HH:MM:SS" preceded by the day name when present.
func (t TimeOfDay) String() string {
	clock := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Day == NoDay {
		return clock
	}
	return t.Day.String() + " " + clock
}

// timeOfDayShape reports whether the reserved bits of a 10.001 payload are clear.
func timeOfDayShape(data []byte) bool {
	return len(data) == timeOfDaySize && data[1]&^lowSixBits == 0 && data[2]&^lowSixBits == 0
}

// EncodeTimeOfDay packs t into 3 octets. Reserved bits are zero.
func EncodeTimeOfDay(t TimeOfDay) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	return []byte{
		byte(t.Day)<<dayShift | t.Hour,
		t.Minute,
		t.Second,
	}, nil
}

// DecodeTimeOfDay unpacks a 3-octet time of day.
func DecodeTimeOfDay(data []byte) (TimeOfDay, error) {
	if !timeOfDayShape(data) {
		return TimeOfDay{}, fmt.Errorf("%w: time of day requires 3 bytes with clear reserved bits, got % X", ErrIncompatibleBytes, data)
	}
	t := TimeOfDay{
		Day:    DayOfWeek(data[0] >> dayShift),
		Hour:   data[0] & lowFiveBits,
		Minute: data[1] & lowSixBits,
		Second: data[2] & lowSixBits,
	}
	if err := t.validate(); err != nil {
		return TimeOfDay{}, err
	}
	return t, nil
}

// Date is the DPT 11.001 payload.
//
//	Octet 0: 000 DDDDD   day of month
//	Octet 1: 0000 MMMM   month
//	Octet 2: 0 YYYYYYY   year, 0-89 → 2000-2089, 90-99 → 1990-1999
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (d Date) validate() error {
	switch {
	case d.Year < minDateYear || d.Year > maxDateYear:
		return fmt.Errorf("%w: year %d not in [%d, %d]", ErrOutOfRange, d.Year, minDateYear, maxDateYear)
	case d.Month < time.January || d.Month > time.December:
		return fmt.Errorf("%w: month %d", ErrOutOfRange, d.Month)
	case d.Day < 1 || d.Day > maxDayOfMonth:
		return fmt.Errorf("%w: day %d", ErrOutOfRange, d.Day)
	}
	return nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// dateShape also rejects year octets 100-127. They fit the 7-bit field
// but EncodeDate could not reproduce them.
func dateShape(data []byte) bool {
	return len(data) == dateSize && data[0]&^lowFiveBits == 0 && data[1]&^lowFourBits == 0 && data[2] <= maxYearOctet
}

// EncodeDate packs d into 3 octets.
func EncodeDate(d Date) ([]byte, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	return []byte{byte(d.Day), byte(d.Month), byte(d.Year % 100)}, nil
}

// DecodeDate unpacks a 3-octet date.
func DecodeDate(data []byte) (Date, error) {
	if !dateShape(data) {
		return Date{}, fmt.Errorf("%w: date requires 3 bytes with clear reserved bits and a year below 100, got % X", ErrIncompatibleBytes, data)
	}
	year := int(data[2])
	if year < dateCentury {
		year += 2000
	} else {
		year += dateTimeBase
	}
	d := Date{Year: year, Month: time.Month(data[1]), Day: int(data[0])}
	if err := d.validate(); err != nil {
		return Date{}, err
	}
	return d, nil
}

// DateTimeFlags are the status bits of a DPT 19.001 payload.
type DateTimeFlags struct {
	Fault        bool // F: clock fault
	WorkingDay   bool // WD
	NoWorkingDay bool // NWD: WD field not valid
	NoYear       bool // NY
	NoDate       bool // ND: year, month and day not valid
	NoDayOfWeek  bool // NDoW
	NoTime       bool // NT: hour, minute and second not valid
	SummerTime   bool // SUTI
	ClockQuality bool // CLQ: clock with external sync signal
	SyncReliable bool // SRC: reliable synchronisation source
}

// dateTimeFlagDefs places the flag bits of octets 6-7 in the flag word.
var dateTimeFlagDefs = []FlagDef{
	{Bit: 15, Name: "fault", Description: "Clock fault"},
	{Bit: 14, Name: "working-day", Description: "Working day"},
	{Bit: 13, Name: "no-working-day", Description: "Working day field not valid"},
	{Bit: 12, Name: "no-year", Description: "Year not valid"},
	{Bit: 11, Name: "no-date", Description: "Date not valid"},
	{Bit: 10, Name: "no-day-of-week", Description: "Day of week not valid"},
	{Bit: 9, Name: "no-time", Description: "Time not valid"},
	{Bit: 8, Name: "summer-time", Description: "Summer time"},
	{Bit: 7, Name: "clock-quality", Description: "Clock with external synchronisation"},
	{Bit: 6, Name: "sync-reliable", Description: "Reliable synchronisation source"},
}

// bools returns the flags in dateTimeFlagDefs order.
func (f DateTimeFlags) bools() []bool {
	return []bool{f.Fault, f.WorkingDay, f.NoWorkingDay, f.NoYear, f.NoDate,
		f.NoDayOfWeek, f.NoTime, f.SummerTime, f.ClockQuality, f.SyncReliable}
}

func dateTimeFlagsFromBools(b []bool) DateTimeFlags {
	return DateTimeFlags{
		Fault: b[0], WorkingDay: b[1], NoWorkingDay: b[2], NoYear: b[3], NoDate: b[4],
		NoDayOfWeek: b[5], NoTime: b[6], SummerTime: b[7], ClockQuality: b[8], SyncReliable: b[9],
	}
}

// DateTime is the DPT 19.001 payload.
//
//	Octet 0: YYYYYYYY     year - 1900
//	Octet 1: 0000 MMMM    month
//	Octet 2: 000 DDDDD    day of month
//	Octet 3: DDD HHHHH    day of week, hour
//	Octet 4: 00 MMMMMM    minute
//	Octet 5: 00 SSSSSS    second
//	Octet 6: F WD NWD NY ND NDoW NT SUTI
//	Octet 7: CLQ SRC 000000
type DateTime struct {
	Year      int
	Month     time.Month
	Day       int
	DayOfWeek DayOfWeek
	Hour      uint8
	Minute    uint8
	Second    uint8
	Flags     DateTimeFlags
}

func (d DateTime) validate() error {
	switch {
	case d.Year < dateTimeBase || d.Year > maxDateTimeYear:
		return fmt.Errorf("%w: year %d not in [%d, %d]", ErrOutOfRange, d.Year, dateTimeBase, maxDateTimeYear)
	case d.Month > time.December || (d.Month < time.January && !d.Flags.NoDate):
		return fmt.Errorf("%w: month %d", ErrOutOfRange, d.Month)
	case d.Day > maxDayOfMonth || (d.Day < 1 && !d.Flags.NoDate):
		return fmt.Errorf("%w: day %d", ErrOutOfRange, d.Day)
	case d.DayOfWeek > Sunday:
		return fmt.Errorf("%w: day of week %d", ErrOutOfRange, d.DayOfWeek)
	case d.Hour > maxHourOfDay:
		return fmt.Errorf("%w: hour %d", ErrOutOfRange, d.Hour)
	case d.Minute > maxMinute:
		return fmt.Errorf("%w: minute %d", ErrOutOfRange, d.Minute)
	case d.Second > maxSecond:
		return fmt.Errorf("%w: second %d", ErrOutOfRange, d.Second)
	case d.Hour == maxHourOfDay && (d.Minute != 0 || d.Second != 0):
		return fmt.Errorf("%w: 24:%02d:%02d", ErrOutOfRange, d.Minute, d.Second)
	}
	return nil
}

// Time converts d to a time.Time in loc. The boolean is false when the
// payload marks its date or time as invalid.
func (d DateTime) Time(loc *time.Location) (time.Time, bool) {
	if d.Flags.NoDate || d.Flags.NoTime {
		return time.Time{}, false
	}
	return time.Date(d.Year, d.Month, d.Day, int(d.Hour), int(d.Minute), int(d.Second), 0, loc), true
}

// String renders "YYYY-MM-DD HH:MM:SS", omitting parts marked invalid.
func (d DateTime) String() string {
	var s string
	if !d.Flags.NoDate {
		s = fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
	}
	if !d.Flags.NoTime {
		if s != "" {
			s += " "
		}
		s += fmt.Sprintf("%02d:%02d:%02d", d.Hour, d.Minute, d.Second)
	}
	if d.DayOfWeek != NoDay && !d.Flags.NoDayOfWeek {
		s += " " + d.DayOfWeek.String()
	}
	return s
}

func dateTimeShape(data []byte) bool {
	return len(data) == dateTimeSize &&
		data[1]&^lowFourBits == 0 &&
		data[2]&^lowFiveBits == 0 &&
		data[4]&^lowSixBits == 0 &&
		data[5]&^lowSixBits == 0 &&
		data[7]&lowSixBits == 0
}

// EncodeDateTime packs d into 8 octets.
func EncodeDateTime(d DateTime) ([]byte, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}

	bits := make([]bool, dateTimeFlagsN)
	for i, set := range d.Flags.bools() {
		bits[dateTimeFlagDefs[i].Bit] = set
	}
	flags, err := EncodeFlags(2, bits)
	if err != nil {
		return nil, err
	}

	return []byte{
		byte(d.Year - dateTimeBase),
		byte(d.Month),
		byte(d.Day),
		byte(d.DayOfWeek)<<dayShift | d.Hour,
		d.Minute,
		d.Second,
		flags[0],
		flags[1],
	}, nil
}

// DecodeDateTime unpacks an 8-octet date time.
func DecodeDateTime(data []byte) (DateTime, error) {
	if !dateTimeShape(data) {
		return DateTime{}, fmt.Errorf("%w: date time requires 8 bytes with clear reserved bits, got % X", ErrIncompatibleBytes, data)
	}

	flagWord := data[6:8]
	set := make([]bool, len(dateTimeFlagDefs))
	for i, def := range dateTimeFlagDefs {
		set[i], _ = IsBitSet(flagWord, def.Bit)
	}

	d := DateTime{
		Year:      dateTimeBase + int(data[0]),
		Month:     time.Month(data[1]),
		Day:       int(data[2]),
		DayOfWeek: DayOfWeek(data[3] >> dayShift),
		Hour:      data[3] & lowFiveBits,
		Minute:    data[4],
		Second:    data[5],
		Flags:     dateTimeFlagsFromBools(set),
	}
	if err := d.validate(); err != nil {
		return DateTime{}, err
	}
	return d, nil
}
