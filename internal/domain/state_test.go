package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flatStateJSON = `{
	"day": 3,
	"time": "morning",
	"weather": "sunny",
	"money": 50,
	"stamina": 4.5,
	"max_stamina": 5,
	"plots": [
		{"crop": null, "growth_progress": 0},
		{"crop": "wheat", "growth_progress": 0.5}
	],
	"available_crops": [
		{"name": "wheat", "cost": 10, "growth_time": 10, "value": 20, "stamina_cost": 0.5}
	]
}`

const nestedStateJSON = `{
	"time_system": {"day": 3},
	"time": "morning",
	"weather_system": {"current_weather": "sunny"},
	"player": {"money": 50, "stamina": 4.5, "max_stamina": 5},
	"farm": {"plots": [
		{"crop": null, "growth_progress": 0},
		{"crop": {"name": "wheat", "color": "yellow"}, "growth_progress": 0.5}
	]},
	"crop_system": {"unlocked_crops": [
		{"name": "wheat", "cost": 10, "growth_time": 10, "value": 20, "stamina_cost": 0.5}
	]}
}`

func TestClientGameState_UnmarshalFlat(t *testing.T) {
	var s ClientGameState
	require.NoError(t, json.Unmarshal([]byte(flatStateJSON), &s))

	assert.Equal(t, 3, s.Day)
	assert.Equal(t, GameTime("morning"), s.Time)
	assert.Equal(t, "sunny", s.Weather)
	assert.Equal(t, Player{Money: 50, Stamina: 4.5, MaxStamina: 5}, s.Player)
	require.Len(t, s.Plots, 2)
	assert.True(t, s.Plots[0].IsEmpty())
	require.NotNil(t, s.Plots[1].Crop)
	assert.Equal(t, "wheat", s.Plots[1].Crop.Name)
	require.Len(t, s.Crops, 1)
	assert.Equal(t, 10.0, s.Crops[0].Cost)
}

func TestClientGameState_UnmarshalNested(t *testing.T) {
	var s ClientGameState
	require.NoError(t, json.Unmarshal([]byte(nestedStateJSON), &s))

	assert.Equal(t, 3, s.Day)
	assert.Equal(t, "sunny", s.Weather)
	assert.Equal(t, 50.0, s.Player.Money)
	require.Len(t, s.Plots, 2)
	assert.Equal(t, "yellow", s.Plots[1].Crop.Color)
	require.Len(t, s.Crops, 1)
	assert.Equal(t, "wheat", s.Crops[0].Name)
}

func TestClientGameState_ShapesAreAliases(t *testing.T) {
	var flat, nested ClientGameState
	require.NoError(t, json.Unmarshal([]byte(flatStateJSON), &flat))
	require.NoError(t, json.Unmarshal([]byte(nestedStateJSON), &nested))

	// Colour only exists in the nested plot crop
	nested.Plots[1].Crop.Color = ""
	assert.Equal(t, flat, nested)
}

func TestClientGameState_NestedWins(t *testing.T) {
	doc := `{"weather": "rainy", "weather_system": {"current_weather": "windy"}, "day": 1, "time_system": {"day": 9}}`
	var s ClientGameState
	require.NoError(t, json.Unmarshal([]byte(doc), &s))
	assert.Equal(t, "windy", s.Weather)
	assert.Equal(t, 9, s.Day)
}

func TestClientGameState_UnlockedCropNamesOnly(t *testing.T) {
	doc := `{"crop_system": {"unlocked_crops": ["wheat", "corn"]}}`
	var s ClientGameState
	require.NoError(t, json.Unmarshal([]byte(doc), &s))
	assert.Equal(t, []string{"wheat", "corn"}, s.CropNames())
}

func TestClientGameState_MarshalRoundTrip(t *testing.T) {
	var s ClientGameState
	require.NoError(t, json.Unmarshal([]byte(nestedStateJSON), &s))

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"current_weather":"sunny"`)
	assert.NotContains(t, string(data), `"available_crops"`)

	var again ClientGameState
	require.NoError(t, json.Unmarshal(data, &again))
	assert.Equal(t, s, again)
}

func TestGameTime_AcceptsNumber(t *testing.T) {
	var s ClientGameState
	require.NoError(t, json.Unmarshal([]byte(`{"time": 14}`), &s))
	assert.Equal(t, GameTime("14"), s.Time)

	require.NoError(t, json.Unmarshal([]byte(`{"time": null}`), &s))
	assert.Equal(t, GameTime(""), s.Time)

	err := json.Unmarshal([]byte(`{"time": true}`), &s)
	assert.Error(t, err)
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		progress float64
		want     int
	}{
		{0, 0},
		{-0.2, 0},
		{0.29, 29},
		{0.5, 50},
		{0.997, 99},
		{0.9999, 99},
		{0.99999999999, 99},
		{1, 100},
		{1.7, 100},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.progress), func(t *testing.T) {
			assert.Equal(t, tt.want, ProgressPercent(tt.progress))
		})
	}
}

func TestPlot_EmptyIgnoresProgress(t *testing.T) {
	p := Plot{GrowthProgress: 0.8}
	assert.True(t, p.IsEmpty())
	assert.Equal(t, 0, p.ProgressPercent())
}

func TestClone_IsDeep(t *testing.T) {
	var s ClientGameState
	require.NoError(t, json.Unmarshal([]byte(flatStateJSON), &s))

	c := s.Clone()
	c.Plots[1].Crop.Name = "corn"
	c.Crops[0].Cost = 99
	c.Player.Money = 0

	assert.Equal(t, "wheat", s.Plots[1].Crop.Name)
	assert.Equal(t, 10.0, s.Crops[0].Cost)
	assert.Equal(t, 50.0, s.Player.Money)

	var nilState *ClientGameState
	assert.Nil(t, nilState.Clone())
}

func TestFindCropFold(t *testing.T) {
	s := &ClientGameState{Crops: []CropDefinition{{Name: "wheat"}, {Name: "Lazy Ghost"}}}

	c, ok := s.FindCropFold("  WHEAT ")
	require.True(t, ok)
	assert.Equal(t, "wheat", c.Name)

	c, ok = s.FindCropFold("lazy ghost")
	require.True(t, ok)
	assert.Equal(t, "Lazy Ghost", c.Name)

	_, ok = s.FindCropFold("corn")
	assert.False(t, ok)
}

func TestRejectionError(t *testing.T) {
	err := fmt.Errorf("plant: %w", &RejectionError{Action: ActionPlant, Message: "Not enough money"})

	assert.True(t, errors.Is(err, ErrRejected))
	assert.False(t, errors.Is(err, ErrTransport))
	assert.Equal(t, "Not enough money", UserMessage(err))
	assert.Equal(t, "", UserMessage(nil))
}

func TestPlantParams(t *testing.T) {
	p := PlantParams{PlotIndex: 0, CropName: "Wheat"}
	assert.Equal(t, ActionParams{"plot_index": 0, "crop_name": "Wheat"}, p.Params())
	assert.True(t, ActionFish.IsKnown())
	assert.False(t, ActionKind("dance").IsKnown())
}
