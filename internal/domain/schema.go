package domain

import "encoding/json"

// The server has been observed sending two shapes for the same state: a flat
// one (day, weather, money, plots, available_crops) and a nested one
// (time_system.day, weather_system.current_weather, player.*, farm.plots,
// crop_system.unlocked_crops). Both decode into ClientGameState; when a
// document carries both, the nested value wins.

type wireTimeSystem struct {
	Day int `json:"day"`
}

type wireWeatherSystem struct {
	CurrentWeather string `json:"current_weather"`
}

type wireFarm struct {
	Plots []Plot `json:"plots"`
}

type wireCropSystem struct {
	UnlockedCrops  []CropDefinition `json:"unlocked_crops"`
	AvailableCrops []CropDefinition `json:"available_crops,omitempty"`
}

type wireState struct {
	// flat shape
	Day            *int             `json:"day,omitempty"`
	Weather        string           `json:"weather,omitempty"`
	Money          *float64         `json:"money,omitempty"`
	Stamina        *float64         `json:"stamina,omitempty"`
	MaxStamina     *float64         `json:"max_stamina,omitempty"`
	Plots          []Plot           `json:"plots,omitempty"`
	AvailableCrops []CropDefinition `json:"available_crops,omitempty"`

	// shared
	Time GameTime `json:"time,omitempty"`

	// nested shape
	TimeSystem    *wireTimeSystem    `json:"time_system,omitempty"`
	WeatherSystem *wireWeatherSystem `json:"weather_system,omitempty"`
	Player        *Player            `json:"player,omitempty"`
	Farm          *wireFarm          `json:"farm,omitempty"`
	CropSystem    *wireCropSystem    `json:"crop_system,omitempty"`
}

// UnmarshalJSON decodes either server shape into the canonical model
func (s *ClientGameState) UnmarshalJSON(data []byte) error {
	var w wireState
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	out := ClientGameState{
		Time:    w.Time,
		Weather: w.Weather,
		Plots:   w.Plots,
		Crops:   w.AvailableCrops,
	}
	if w.Day != nil {
		out.Day = *w.Day
	}
	if w.Money != nil {
		out.Player.Money = *w.Money
	}
	if w.Stamina != nil {
		out.Player.Stamina = *w.Stamina
	}
	if w.MaxStamina != nil {
		out.Player.MaxStamina = *w.MaxStamina
	}

	if w.TimeSystem != nil {
		out.Day = w.TimeSystem.Day
	}
	if w.WeatherSystem != nil && w.WeatherSystem.CurrentWeather != "" {
		out.Weather = w.WeatherSystem.CurrentWeather
	}
	if w.Player != nil {
		out.Player = *w.Player
	}
	if w.Farm != nil {
		out.Plots = w.Farm.Plots
	}
	if w.CropSystem != nil {
		switch {
		case w.CropSystem.UnlockedCrops != nil:
			out.Crops = w.CropSystem.UnlockedCrops
		case w.CropSystem.AvailableCrops != nil:
			out.Crops = w.CropSystem.AvailableCrops
		}
	}

	*s = out
	return nil
}

// MarshalJSON always emits the nested shape
func (s ClientGameState) MarshalJSON() ([]byte, error) {
	plots := s.Plots
	if plots == nil {
		plots = []Plot{}
	}
	crops := s.Crops
	if crops == nil {
		crops = []CropDefinition{}
	}
	player := s.Player
	return json.Marshal(wireState{
		Time:          s.Time,
		TimeSystem:    &wireTimeSystem{Day: s.Day},
		WeatherSystem: &wireWeatherSystem{CurrentWeather: s.Weather},
		Player:        &player,
		Farm:          &wireFarm{Plots: plots},
		CropSystem:    &wireCropSystem{UnlockedCrops: crops},
	})
}
