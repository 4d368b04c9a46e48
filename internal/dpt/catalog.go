package dpt

import (
	"fmt"
	"strconv"
	"strings"
)

// fullScale is the largest 2-octet float, used for the bounds of DPT 9.xxx
// types documented as ±670760. -670760 itself rounds to -670760.96 and could
// not be constructed.
const fullScale = float16Max

// 1-bit types (DPT 1.xxx).
var (
	DPTSwitch            = NewBooleanType("1.001", "switch", "off", "on")
	DPTBool              = NewBooleanType("1.002", "boolean", "false", "true")
	DPTEnable            = NewBooleanType("1.003", "enable", "disable", "enable")
	DPTRamp              = NewBooleanType("1.004", "ramp", "no-ramp", "ramp")
	DPTAlarm             = NewBooleanType("1.005", "alarm", "no-alarm", "alarm")
	DPTBinaryValue       = NewBooleanType("1.006", "binary value", "low", "high")
	DPTStep              = NewBooleanType("1.007", "step", "decrease", "increase")
	DPTUpDown            = NewBooleanType("1.008", "up/down", "up", "down")
	DPTOpenClose         = NewBooleanType("1.009", "open/close", "open", "close")
	DPTStart             = NewBooleanType("1.010", "start/stop", "stop", "start")
	DPTState             = NewBooleanType("1.011", "state", "inactive", "active")
	DPTInvert            = NewBooleanType("1.012", "invert", "not-inverted", "inverted")
	DPTDimSendStyle      = NewBooleanType("1.013", "dim send style", "start-stop", "cyclic")
	DPTInputSource       = NewBooleanType("1.014", "input source", "fixed", "calculated")
	DPTReset             = NewBooleanType("1.015", "reset", "no-action", "reset")
	DPTAck               = NewBooleanType("1.016", "acknowledge", "no-action", "acknowledge")
	// Both states of 1.017 read "trigger"; Text does not identify the payload.
	DPTTrigger           = NewBooleanType("1.017", "trigger", "trigger", "trigger")
	DPTOccupancy         = NewBooleanType("1.018", "occupancy", "not-occupied", "occupied")
	DPTWindowDoor        = NewBooleanType("1.019", "window/door", "closed", "open")
	DPTLogicalFunction   = NewBooleanType("1.021", "logical function", "or", "and")
	DPTSceneAB           = NewBooleanType("1.022", "scene A/B", "scene-a", "scene-b")
	DPTShutterBlindsMode = NewBooleanType("1.023", "shutter/blinds mode", "up-down", "up-down-step-stop")
	DPTDayNight          = NewBooleanType("1.024", "day/night", "day", "night")
)

// 2-bit types (DPT 2.xxx).
var (
	DPTSwitchControl      = NewControlType("2.001", "switch control", DPTSwitch)
	DPTBoolControl        = NewControlType("2.002", "boolean control", DPTBool)
	DPTEnableControl      = NewControlType("2.003", "enable control", DPTEnable)
	DPTRampControl        = NewControlType("2.004", "ramp control", DPTRamp)
	DPTAlarmControl       = NewControlType("2.005", "alarm control", DPTAlarm)
	DPTBinaryValueControl = NewControlType("2.006", "binary value control", DPTBinaryValue)
	DPTStepControl        = NewControlType("2.007", "step control", DPTStep)
	DPTDirection1Control  = NewControlType("2.008", "direction 1 control", DPTUpDown)
	DPTDirection2Control  = NewControlType("2.009", "direction 2 control", DPTOpenClose)
	DPTStartControl       = NewControlType("2.010", "start control", DPTStart)
	DPTStateControl       = NewControlType("2.011", "state control", DPTState)
	DPTInvertControl      = NewControlType("2.012", "invert control", DPTInvert)
)

// 4-bit types (DPT 3.xxx).
var (
	DPTDimmingControl = NewStepType("3.007", "dimming control", "decrease", "increase")
	DPTBlindControl   = NewStepType("3.008", "blind control", "up", "down")
)

// 1-octet integers (DPT 5.xxx, 6.xxx).
var (
	DPTPercentage    = NewIntegerType("5.001", "percentage (0..100%)", 1, false, WithUnit("%"), WithScale(100.0/255))
	DPTAngle         = NewIntegerType("5.003", "angle", 1, false, WithUnit("°"), WithScale(360.0/255))
	DPTPercentU8     = NewIntegerType("5.004", "percentage (0..255%)", 1, false, WithUnit("%"))
	DPTDecimalFactor = NewIntegerType("5.005", "ratio", 1, false)
	DPTTariff        = NewIntegerType("5.006", "tariff information", 1, false, WithRawRange(0, 254))
	DPTCounterU8     = NewIntegerType("5.010", "counter pulses (0..255)", 1, false, WithUnit("pulses"))
	DPTPercentV8     = NewIntegerType("6.001", "percentage (-128..127%)", 1, true, WithUnit("%"))
	DPTCounterV8     = NewIntegerType("6.010", "counter pulses (-128..127)", 1, true, WithUnit("pulses"))
)

// 2-octet integers (DPT 7.xxx, 8.xxx).
var (
	DPTCounterU16         = NewIntegerType("7.001", "pulses", 2, false, WithUnit("pulses"))
	DPTTimePeriodMsec     = NewIntegerType("7.002", "time (ms)", 2, false, WithUnit("ms"))
	DPTTimePeriodSec      = NewIntegerType("7.005", "time (s)", 2, false, WithUnit("s"))
	DPTTimePeriodHrs      = NewIntegerType("7.007", "time (h)", 2, false, WithUnit("h"))
	DPTCurrentMilliAmpere = NewIntegerType("7.012", "current", 2, false, WithUnit("mA"))
	DPTColourTemperature  = NewIntegerType("7.600", "absolute colour temperature", 2, false, WithUnit("K"))
	DPTCounterV16         = NewIntegerType("8.001", "pulses difference", 2, true, WithUnit("pulses"))
	DPTDeltaTimeMsec      = NewIntegerType("8.002", "time lag (ms)", 2, true, WithUnit("ms"))
	DPTPercentV16         = NewIntegerType("8.010", "percentage difference", 2, true, WithUnit("%"), WithScale(0.01))
	DPTRotationAngle      = NewIntegerType("8.011", "rotation angle", 2, true, WithUnit("°"))
)

// 2-octet floats (DPT 9.xxx).
var (
	DPTTemperature           = NewFloat16Type("9.001", "temperature", "°C", -273, fullScale)
	DPTTemperatureDifference = NewFloat16Type("9.002", "temperature difference", "K", -fullScale, fullScale)
	DPTKelvinPerHour         = NewFloat16Type("9.003", "kelvin/hour", "K/h", -fullScale, fullScale)
	DPTLux                   = NewFloat16Type("9.004", "lux", "lx", 0, fullScale)
	DPTSpeed                 = NewFloat16Type("9.005", "speed", "m/s", 0, fullScale)
	DPTPressure              = NewFloat16Type("9.006", "pressure", "Pa", 0, fullScale)
	DPTHumidity              = NewFloat16Type("9.007", "humidity", "%", 0, fullScale)
	DPTAirQuality            = NewFloat16Type("9.008", "air quality", "ppm", 0, fullScale)
	DPTAirFlow               = NewFloat16Type("9.009", "air flow", "m³/h", -fullScale, fullScale)
	DPTTimeSec               = NewFloat16Type("9.010", "time (s)", "s", -fullScale, fullScale)
	DPTTimeMsec              = NewFloat16Type("9.011", "time (ms)", "ms", -fullScale, fullScale)
	DPTVoltage               = NewFloat16Type("9.020", "voltage", "mV", -fullScale, fullScale)
	DPTCurrent               = NewFloat16Type("9.021", "current", "mA", -fullScale, fullScale)
	DPTPowerDensity          = NewFloat16Type("9.022", "power density", "W/m²", -fullScale, fullScale)
	DPTKelvinPerPercent      = NewFloat16Type("9.023", "kelvin/percent", "K/%", -fullScale, fullScale)
	DPTPower                 = NewFloat16Type("9.024", "power", "kW", -fullScale, fullScale)
	DPTVolumeFlow            = NewFloat16Type("9.025", "volume flow", "l/h", -fullScale, fullScale)
	DPTRainAmount            = NewFloat16Type("9.026", "rain amount", "l/m²", float16Min, fullScale)
	DPTTemperatureF          = NewFloat16Type("9.027", "temperature (°F)", "°F", -459.6, fullScale)
	DPTWindSpeedKmh          = NewFloat16Type("9.028", "wind speed", "km/h", 0, fullScale)
)

// Packed time and date (DPT 10.001, 11.001, 19.001).
var (
	DPTTimeOfDay = NewTimeOfDayType("10.001", "time of day")
	DPTDate      = NewDateType("11.001", "date")
	DPTDateTime  = NewDateTimeType("19.001", "date time")
)

// 4-octet integers (DPT 12.xxx, 13.xxx).
var (
	DPTCounterU32      = NewIntegerType("12.001", "counter pulses (unsigned)", 4, false, WithUnit("pulses"))
	DPTCounterV32      = NewIntegerType("13.001", "counter pulses (signed)", 4, true, WithUnit("pulses"))
	DPTActiveEnergy    = NewIntegerType("13.010", "active energy", 4, true, WithUnit("Wh"))
	DPTActiveEnergyKWh = NewIntegerType("13.013", "active energy (kWh)", 4, true, WithUnit("kWh"))
)

// 4-octet floats (DPT 14.xxx).
var (
	DPTElectricCurrent   = NewFloat32Type("14.019", "electric current", "A")
	DPTElectricPotential = NewFloat32Type("14.027", "electric potential", "V")
	DPTPowerW            = NewFloat32Type("14.056", "power", "W")
	DPTCommonTemperature = NewFloat32Type("14.068", "common temperature", "°C")
)

// Strings (DPT 16.xxx).
var (
	DPTString       = NewASCIIType("16.000", "character string (ASCII)")
	DPTStringLatin1 = NewLatin1Type("16.001", "character string (ISO 8859-1)")
)

// Scenes (DPT 17.001, 18.001).
var (
	DPTSceneNumber  = NewSceneNumberType("17.001", "scene number")
	DPTSceneControl = NewSceneControlType("18.001", "scene control")
)

// Enumerations (DPT 20.xxx). Entries are registered from enumCatalog.
var (
	DPTSCLOMode        = NewEnumType("20.001", "system clock mode")
	DPTBuildingMode    = NewEnumType("20.002", "building mode")
	DPTOccupancyMode   = NewEnumType("20.003", "occupancy mode")
	DPTHVACMode        = NewEnumType("20.102", "HVAC mode")
	DPTHVACControlMode = NewEnumType("20.105", "HVAC control mode")
)

// 8-bit status words (DPT 21.xxx).
var (
	DPTStatusGen = NewFlagsType("21.001", "general status", 1,
		FlagDef{Bit: 0, Name: "out-of-service", Description: "Out of service"},
		FlagDef{Bit: 1, Name: "fault", Description: "Fault"},
		FlagDef{Bit: 2, Name: "overridden", Description: "Overridden"},
		FlagDef{Bit: 3, Name: "in-alarm", Description: "In alarm"},
		FlagDef{Bit: 4, Name: "alarm-unacknowledged", Description: "Alarm not acknowledged"},
	)
	DPTDeviceControl = NewFlagsType("21.002", "device control", 1,
		FlagDef{Bit: 0, Name: "user-stopped", Description: "User application stopped"},
		FlagDef{Bit: 1, Name: "own-address", Description: "Own individual address"},
		FlagDef{Bit: 2, Name: "verify-mode", Description: "Verify mode on"},
	)
	DPTForceSign = NewFlagsType("21.100", "forcing signal", 1,
		FlagDef{Bit: 0, Name: "force-request", Description: "Forced room heating request"},
		FlagDef{Bit: 1, Name: "protection", Description: "Frost or overheat protection"},
		FlagDef{Bit: 2, Name: "oversupply", Description: "Oversupply"},
		FlagDef{Bit: 3, Name: "overrun", Description: "Overrun of the pump"},
		FlagDef{Bit: 4, Name: "dhw-normal", Description: "Domestic hot water normal"},
		FlagDef{Bit: 5, Name: "dhw-legionella", Description: "Domestic hot water legionella protection"},
		FlagDef{Bit: 6, Name: "room-heating-comfort", Description: "Room heating comfort"},
		FlagDef{Bit: 7, Name: "room-heating-max", Description: "Room heating maximum"},
	)
	DPTForceSignCool = NewFlagsType("21.101", "forcing signal cool", 1,
		FlagDef{Bit: 0, Name: "force-request", Description: "Forced cooling request"},
	)
	DPTStatusRHC = NewFlagsType("21.102", "room heating controller status", 1,
		FlagDef{Bit: 0, Name: "fault", Description: "Fault"},
		FlagDef{Bit: 1, Name: "eco", Description: "Economy mode"},
		FlagDef{Bit: 2, Name: "flow-limit", Description: "Flow temperature limit"},
		FlagDef{Bit: 3, Name: "return-limit", Description: "Return temperature limit"},
		FlagDef{Bit: 4, Name: "morning-boost", Description: "Morning boost"},
		FlagDef{Bit: 5, Name: "start-optimisation", Description: "Start optimisation active"},
		FlagDef{Bit: 6, Name: "stop-optimisation", Description: "Stop optimisation active"},
		FlagDef{Bit: 7, Name: "summer-mode", Description: "Summer mode"},
	)
	DPTLightActuatorErrorInfo = NewFlagsType("21.601", "light actuator error info", 1,
		FlagDef{Bit: 0, Name: "load-detection-error", Description: "Load detection error"},
		FlagDef{Bit: 1, Name: "undervoltage", Description: "Undervoltage"},
		FlagDef{Bit: 2, Name: "overcurrent", Description: "Overcurrent"},
		FlagDef{Bit: 3, Name: "underload", Description: "Underload"},
		FlagDef{Bit: 4, Name: "defective-load", Description: "Defective load"},
		FlagDef{Bit: 5, Name: "lamp-failure", Description: "Lamp failure"},
		FlagDef{Bit: 6, Name: "overload", Description: "Overload"},
		FlagDef{Bit: 7, Name: "overheat", Description: "Overheat"},
	)
)

// 16-bit status words (DPT 22.xxx).
var (
	DPTStatusRHCC = NewFlagsType("22.101", "room heating/cooling controller status", 2,
		FlagDef{Bit: 0, Name: "fault", Description: "Fault"},
		FlagDef{Bit: 1, Name: "eco-heating", Description: "Heating economy mode"},
		FlagDef{Bit: 2, Name: "flow-limit", Description: "Flow temperature limit"},
		FlagDef{Bit: 3, Name: "return-limit", Description: "Return temperature limit"},
		FlagDef{Bit: 4, Name: "morning-boost", Description: "Heating morning boost"},
		FlagDef{Bit: 5, Name: "start-optimisation", Description: "Start optimisation active"},
		FlagDef{Bit: 6, Name: "stop-optimisation", Description: "Stop optimisation active"},
		FlagDef{Bit: 7, Name: "heating-disabled", Description: "Heating disabled"},
		FlagDef{Bit: 8, Name: "cooling-mode", Description: "Cooling mode (heating when clear)"},
		FlagDef{Bit: 9, Name: "eco-cooling", Description: "Cooling economy mode"},
		FlagDef{Bit: 10, Name: "pre-cool", Description: "Pre-cooling"},
		FlagDef{Bit: 11, Name: "cooling-disabled", Description: "Cooling disabled"},
		FlagDef{Bit: 12, Name: "dew-point", Description: "Dew point alarm"},
		FlagDef{Bit: 13, Name: "frost-alarm", Description: "Frost alarm"},
		FlagDef{Bit: 14, Name: "overheat-alarm", Description: "Overheat alarm"},
	)
	DPTMedia = NewFlagsType("22.1000", "media", 2,
		FlagDef{Bit: 1, Name: "tp1", Description: "Twisted pair"},
		FlagDef{Bit: 2, Name: "pl110", Description: "Powerline 110"},
		FlagDef{Bit: 4, Name: "rf", Description: "Radio frequency"},
		FlagDef{Bit: 5, Name: "ip", Description: "KNX IP"},
	)
	DPTChannelActivation16 = NewFlagsType("22.1010", "channel activation (16 channels)", 2, channelFlags(16)...)
)

// Colours (DPT 232.xxx).
var DPTColourRGB = NewColourType("232.600", "RGB colour")

func channelFlags(n int) []FlagDef {
	defs := make([]FlagDef, n)
	for i := range defs {
		defs[i] = FlagDef{
			Bit:         i,
			Name:        fmt.Sprintf("channel-%d", i+1),
			Description: fmt.Sprintf("Channel %d active", i+1),
		}
	}
	return defs
}

// catalog lists the built-in types in registration order. The first type of
// each main number is the general subtype and also answers to "dpt-N".
var catalog = []Type{
	DPTSwitch, DPTBool, DPTEnable, DPTRamp, DPTAlarm, DPTBinaryValue, DPTStep,
	DPTUpDown, DPTOpenClose, DPTStart, DPTState, DPTInvert, DPTDimSendStyle,
	DPTInputSource, DPTReset, DPTAck, DPTTrigger, DPTOccupancy, DPTWindowDoor,
	DPTLogicalFunction, DPTSceneAB, DPTShutterBlindsMode, DPTDayNight,

	DPTSwitchControl, DPTBoolControl, DPTEnableControl, DPTRampControl,
	DPTAlarmControl, DPTBinaryValueControl, DPTStepControl, DPTDirection1Control,
	DPTDirection2Control, DPTStartControl, DPTStateControl, DPTInvertControl,

	DPTDimmingControl, DPTBlindControl,

	DPTPercentage, DPTAngle, DPTPercentU8, DPTDecimalFactor, DPTTariff, DPTCounterU8,
	DPTPercentV8, DPTCounterV8,

	DPTCounterU16, DPTTimePeriodMsec, DPTTimePeriodSec, DPTTimePeriodHrs,
	DPTCurrentMilliAmpere, DPTColourTemperature,
	DPTCounterV16, DPTDeltaTimeMsec, DPTPercentV16, DPTRotationAngle,

	DPTTemperature, DPTTemperatureDifference, DPTKelvinPerHour, DPTLux, DPTSpeed,
	DPTPressure, DPTHumidity, DPTAirQuality, DPTAirFlow, DPTTimeSec, DPTTimeMsec,
	DPTVoltage, DPTCurrent, DPTPowerDensity, DPTKelvinPerPercent, DPTPower,
	DPTVolumeFlow, DPTRainAmount, DPTTemperatureF, DPTWindSpeedKmh,

	DPTTimeOfDay, DPTDate,

	DPTCounterU32, DPTCounterV32, DPTActiveEnergy, DPTActiveEnergyKWh,

	DPTElectricCurrent, DPTElectricPotential, DPTPowerW, DPTCommonTemperature,

	DPTString, DPTStringLatin1,

	DPTSceneNumber, DPTSceneControl,

	DPTDateTime,

	DPTSCLOMode, DPTBuildingMode, DPTOccupancyMode, DPTHVACMode, DPTHVACControlMode,

	DPTStatusGen, DPTDeviceControl, DPTForceSign, DPTForceSignCool, DPTStatusRHC,
	DPTLightActuatorErrorInfo,

	DPTStatusRHCC, DPTMedia, DPTChannelActivation16,

	DPTColourRGB,
}

// enumCatalog lists the built-in enumeration constants.
var enumCatalog = concat(
	enumRows("20.001", []enumRow[SCLOMode]{
		{SCLOAutonomous, "autonomous", "Autonomous"},
		{SCLOSlave, "slave", "Slave"},
		{SCLOMaster, "master", "Master"},
	}),
	enumRows("20.002", []enumRow[BuildingMode]{
		{BuildingInUse, "in-use", "Building in use"},
		{BuildingNotUsed, "not-used", "Building not used"},
		{BuildingProtection, "protection", "Building protection"},
	}),
	enumRows("20.003", []enumRow[OccupancyMode]{
		{OccupancyOccupied, "occupied", "Occupied"},
		{OccupancyStandby, "standby", "Standby"},
		{OccupancyNotOccupied, "not-occupied", "Not occupied"},
	}),
	enumRows("20.102", []enumRow[HVACMode]{
		{HVACAuto, "auto", "Auto"},
		{HVACComfort, "comfort", "Comfort"},
		{HVACStandby, "standby", "Standby"},
		{HVACEconomy, "economy", "Economy"},
		{HVACBuildingProtection, "protection", "Building protection"},
	}),
	enumRows("20.105", []enumRow[HVACControlMode]{
		{HVACControlAuto, "auto", "Auto"},
		{HVACControlHeat, "heat", "Heat"},
		{HVACControlMorningWarmup, "morning-warmup", "Morning warmup"},
		{HVACControlCool, "cool", "Cool"},
		{HVACControlNightPurge, "night-purge", "Night purge"},
		{HVACControlPrecool, "precool", "Precool"},
		{HVACControlOff, "off", "Off"},
		{HVACControlTest, "test", "Test"},
		{HVACControlEmergencyHeat, "emergency-heat", "Emergency heat"},
		{HVACControlFanOnly, "fan-only", "Fan only"},
		{HVACControlFreeCool, "free-cool", "Free cool"},
		{HVACControlIce, "ice", "Ice"},
		{HVACControlMaxHeating, "max-heating", "Maximum heating"},
		{HVACControlEconomicHeatCool, "economic-heat-cool", "Economic heat/cool"},
		{HVACControlDehumidification, "dehumidification", "Dehumidification"},
		{HVACControlCalibration, "calibration", "Calibration"},
		{HVACControlEmergencyCool, "emergency-cool", "Emergency cool"},
		{HVACControlEmergencySteam, "emergency-steam", "Emergency steam"},
		{HVACControlNoDem, "no-demand", "No demand"},
	}),
)

func concat[T any](parts ...[]T) []T {
	var out []T
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// defaultRegistry is built during package initialisation.
var defaultRegistry = mustBuildDefault()

// Default returns the sealed registry holding the built-in catalog.
func Default() *Registry {
	return defaultRegistry
}

func mustBuildDefault() *Registry {
	r := NewRegistry()
	seen := make(map[int]bool)
	for _, t := range catalog {
		major, minor, ok := SplitID(t.ID())
		if !ok {
			panic(fmt.Sprintf("dpt: malformed catalog id %q", t.ID()))
		}
		aliases := []string{fmt.Sprintf("dpst-%d-%d", major, minor)}
		if !seen[major] {
			seen[major] = true
			aliases = append(aliases, fmt.Sprintf("dpt-%d", major))
		}
		if err := r.Register(t, aliases...); err != nil {
			panic(err)
		}
	}
	for _, e := range enumCatalog {
		if _, err := r.RegisterEnum(e.typeID, e.constant, e.ordinal, e.name, e.description); err != nil {
			panic(err)
		}
	}
	r.Seal()
	return r
}

// SplitID splits a canonical id "M.NNN" into its main and sub numbers.
func SplitID(id string) (major, minor int, ok bool) {
	m, s, found := strings.Cut(id, ".")
	if !found {
		return 0, 0, false
	}
	var err error
	if major, err = strconv.Atoi(m); err != nil {
		return 0, 0, false
	}
	if minor, err = strconv.Atoi(s); err != nil {
		return 0, 0, false
	}
	return major, minor, true
}
