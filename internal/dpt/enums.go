package dpt

import "fmt"

// SCLOMode is DPT 20.001, the system clock mode.
type SCLOMode uint8

const (
	SCLOAutonomous SCLOMode = iota
	SCLOSlave
	SCLOMaster
)

func (m SCLOMode) String() string { return enumName(m) }

// BuildingMode is DPT 20.002.
type BuildingMode uint8

const (
	BuildingInUse BuildingMode = iota
	BuildingNotUsed
	BuildingProtection
)

func (m BuildingMode) String() string { return enumName(m) }

// OccupancyMode is DPT 20.003.
type OccupancyMode uint8

const (
	OccupancyOccupied OccupancyMode = iota
	OccupancyStandby
	OccupancyNotOccupied
)

func (m OccupancyMode) String() string { return enumName(m) }

// HVACMode is DPT 20.102, the room operating mode of a heating or cooling
// controller.
type HVACMode uint8

const (
	HVACAuto HVACMode = iota
	HVACComfort
	HVACStandby
	HVACEconomy
	HVACBuildingProtection
)

func (m HVACMode) String() string { return enumName(m) }

// HVACControlMode is DPT 20.105.
type HVACControlMode uint8

const (
	HVACControlAuto HVACControlMode = iota
	HVACControlHeat
	HVACControlMorningWarmup
	HVACControlCool
	HVACControlNightPurge
	HVACControlPrecool
	HVACControlOff
	HVACControlTest
	HVACControlEmergencyHeat
	HVACControlFanOnly
	HVACControlFreeCool
	HVACControlIce
	HVACControlMaxHeating
	HVACControlEconomicHeatCool
	HVACControlDehumidification
	HVACControlCalibration
	HVACControlEmergencyCool
	HVACControlEmergencySteam
	HVACControlNoDem HVACControlMode = 20
)

func (m HVACControlMode) String() string { return enumName(m) }

// enumName returns the token name registered for an enumeration constant.
func enumName[T ~uint8](c T) string {
	if e, err := Default().LookupEnum(c); err == nil {
		return e.Name
	}
	return fmt.Sprintf("%T(%d)", c, uint8(c))
}

// enumEntry is one registered enumeration constant.
type enumEntry struct {
	typeID      string
	constant    any
	ordinal     uint8
	name        string
	description string
}

type enumRow[T ~uint8] struct {
	c           T
	name        string
	description string
}

func enumRows[T ~uint8](typeID string, rows []enumRow[T]) []enumEntry {
	out := make([]enumEntry, len(rows))
	for i, r := range rows {
		out[i] = enumEntry{
			typeID:      typeID,
			constant:    r.c,
			ordinal:     uint8(r.c),
			name:        r.name,
			description: r.description,
		}
	}
	return out
}
