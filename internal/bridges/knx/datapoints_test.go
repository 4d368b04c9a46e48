package knx

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDatapointsYAML = `
datapoints:
  - address: 1/2/3
    dpt: DPST-9-1
    name: hall temperature
    bounds: {min: 5, max: 35}
  - address: 0/0/1
    dpt: "1.001"
    name: hall light
  - address: 2-0-1
    dpt: dpt-5
  - address: 0/0/2
    dpt: "3.007"
    name: hall dimmer
  - address: 4/0/1
    dpt: "20.102"
    name: hall hvac mode
`

func TestParseDatapoints(t *testing.T) {
	dps, err := ParseDatapoints([]byte(testDatapointsYAML))
	require.NoError(t, err)
	require.Len(t, dps.Datapoints, 5)

	first := dps.Datapoints[0]
	assert.Equal(t, "1/2/3", first.Address)
	assert.Equal(t, "DPST-9-1", first.DPT)
	assert.Equal(t, "hall temperature", first.Name)
	require.NotNil(t, first.Bounds)
	assert.Equal(t, BoundsConfig{Min: 5, Max: 35}, *first.Bounds)

	assert.Nil(t, dps.Datapoints[1].Bounds)
	assert.Empty(t, dps.Datapoints[2].Name)
}

func TestParseDatapoints_InvalidYAML(t *testing.T) {
	_, err := ParseDatapoints([]byte("datapoints: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing datapoints file")
}

func TestDatapointsValidate(t *testing.T) {
	tests := []struct {
		name    string
		entries []DatapointConfig
		wantErr string
	}{
		{
			name:    "empty mapping is valid",
			entries: nil,
		},
		{
			name:    "missing address",
			entries: []DatapointConfig{{DPT: "1.001"}},
			wantErr: "datapoints[0].address is required",
		},
		{
			name:    "invalid address",
			entries: []DatapointConfig{{Address: "40/0/0", DPT: "1.001"}},
			wantErr: `datapoints[0].address "40/0/0" is invalid`,
		},
		{
			name: "duplicate address in another form",
			entries: []DatapointConfig{
				{Address: "1/2/3", DPT: "1.001"},
				{Address: "1-2-3", DPT: "9.001"},
			},
			wantErr: "datapoints[1].address 1/2/3 duplicates datapoints[0]",
		},
		{
			name:    "missing dpt",
			entries: []DatapointConfig{{Address: "1/2/3", DPT: "  "}},
			wantErr: "datapoints[0].dpt is required",
		},
		{
			name: "inverted bounds",
			entries: []DatapointConfig{
				{Address: "1/2/3", DPT: "9.001", Bounds: &BoundsConfig{Min: 10, Max: 5}},
			},
			wantErr: "datapoints[0].bounds min 10 exceeds max 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Datapoints{Datapoints: tt.entries}).Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidDatapoints)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatapointsValidate_ReportsAllProblems(t *testing.T) {
	dps := &Datapoints{Datapoints: []DatapointConfig{
		{Address: "", DPT: ""},
		{Address: "bad", DPT: "9.001"},
	}}

	err := dps.Validate()
	require.Error(t, err)
	assert.Equal(t, 3, strings.Count(err.Error(), "datapoints["), "error: %v", err)
}

func TestLoadDatapoints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datapoints.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDatapointsYAML), 0o600))

	dps, err := LoadDatapoints(path)
	require.NoError(t, err)
	assert.Len(t, dps.Datapoints, 5)
}

func TestLoadDatapoints_MissingFile(t *testing.T) {
	_, err := LoadDatapoints(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
