package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommon_ParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{input: "1.08", want: Absolute(1.08)},
		{input: " 95% ", want: PercentOfSpot(95)},
		{input: "102.5 %", want: PercentOfSpot(102.5)},
		{input: "", wantErr: true},
		{input: "%", wantErr: true},
		{input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := ParseLevel(got.String())
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestCommon_LevelResolve(t *testing.T) {
	v, err := Absolute(1.08).Resolve(1.10)
	require.NoError(t, err)
	assert.Equal(t, 1.08, v)

	v, err = PercentOfSpot(95).Resolve(1.20)
	require.NoError(t, err)
	assert.InDelta(t, 1.14, v, 1e-15)

	v, err = Level{Value: 1.2}.Resolve(1.0)
	require.NoError(t, err)
	assert.Equal(t, 1.2, v)

	_, err = Absolute(0).Resolve(1.10)
	assert.ErrorIs(t, err, ErrInvalidLevel)

	_, err = PercentOfSpot(-5).Resolve(1.10)
	assert.ErrorIs(t, err, ErrInvalidLevel)

	_, err = Level{Value: 1, Kind: "pips"}.Resolve(1.10)
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestCommon_LevelJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Level
	}{
		{"number", `1.08`, Absolute(1.08)},
		{"string", `"1.08"`, Absolute(1.08)},
		{"percent string", `"97%"`, PercentOfSpot(97)},
		{"object", `{"value": 97, "kind": "percent"}`, PercentOfSpot(97)},
		{"object without kind", `{"value": 1.1}`, Absolute(1.1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Level
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	var l Level
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &l))
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &l))

	data, err := json.Marshal(PercentOfSpot(97))
	require.NoError(t, err)
	assert.JSONEq(t, `"97%"`, string(data))
}
