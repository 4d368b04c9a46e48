package knx

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Datapoints is the group address mapping file:
//
//	datapoints:
//	  - address: 1/2/3
//	    dpt: DPST-9-1
//	    name: hall temperature
//	    bounds: {min: 5, max: 35}
type Datapoints struct {
	Datapoints []DatapointConfig `yaml:"datapoints"`
}

// DatapointConfig maps one group address to a datapoint type.
type DatapointConfig struct {
	// Address is the group address, e.g. "1/2/3".
	Address string `yaml:"address"`

	// DPT is any registered id or alias ("9.001", "DPST-9-1", "dpt-9").
	DPT string `yaml:"dpt"`

	// Name labels the datapoint in state messages and readings.
	Name string `yaml:"name"`

	// Bounds is an optional plausibility range in display units. Values
	// outside it are logged and flagged but still published.
	Bounds *BoundsConfig `yaml:"bounds,omitempty"`
}

// BoundsConfig is an inclusive numeric range.
type BoundsConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// LoadDatapoints reads and validates a datapoint mapping file.
// Type ids are resolved later by NewDecoder against a registry.
func LoadDatapoints(path string) (*Datapoints, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("reading datapoints file: %w", err)
	}
	return ParseDatapoints(data)
}

// ParseDatapoints parses and validates mapping YAML.
func ParseDatapoints(data []byte) (*Datapoints, error) {
	var dps Datapoints
	if err := yaml.Unmarshal(data, &dps); err != nil {
		return nil, fmt.Errorf("parsing datapoints file: %w", err)
	}
	if err := dps.Validate(); err != nil {
		return nil, err
	}
	return &dps, nil
}

// Validate checks every entry and reports all problems at once.
func (d *Datapoints) Validate() error {
	var errs []string
	seen := make(map[GroupAddress]int)

	for i, dp := range d.Datapoints {
		if dp.Address == "" {
			errs = append(errs, fmt.Sprintf("datapoints[%d].address is required", i))
		} else if ga, err := ParseGroupAddress(dp.Address); err != nil {
			errs = append(errs, fmt.Sprintf("datapoints[%d].address %q is invalid: %v", i, dp.Address, err))
		} else if first, dup := seen[ga]; dup {
			errs = append(errs, fmt.Sprintf("datapoints[%d].address %s duplicates datapoints[%d]", i, ga, first))
		} else {
			seen[ga] = i
		}

		if strings.TrimSpace(dp.DPT) == "" {
			errs = append(errs, fmt.Sprintf("datapoints[%d].dpt is required", i))
		}

		if dp.Bounds != nil && dp.Bounds.Min > dp.Bounds.Max {
			errs = append(errs, fmt.Sprintf("datapoints[%d].bounds min %g exceeds max %g", i, dp.Bounds.Min, dp.Bounds.Max))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDatapoints, strings.Join(errs, "; "))
	}
	return nil
}
