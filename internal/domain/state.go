package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// progressEpsilon absorbs float representation error before flooring
// (0.29*100 evaluates to 28.999999999999996).
const progressEpsilon = 1e-9

// ClientGameState is the client's mirror of the authoritative server state.
// It is replaced wholesale on every accepted fetch and never edited in place.
// Wire decoding lives in schema.go.
type ClientGameState struct {
	Day     int
	Time    GameTime
	Weather string
	Player  Player
	Plots   []Plot
	Crops   []CropDefinition
}

// Player holds the player's resources
type Player struct {
	Money      float64 `json:"money"`
	Stamina    float64 `json:"stamina"`
	MaxStamina float64 `json:"max_stamina"`
}

// Plot is a single farmable cell. GrowthProgress only means something when Crop is set.
type Plot struct {
	Crop           *CropInstance `json:"crop"`
	GrowthProgress float64       `json:"growth_progress"`
}

// CropInstance is the crop currently growing in a plot
type CropInstance struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// CropDefinition describes a plantable crop. Name is the unique key.
type CropDefinition struct {
	Name        string  `json:"name"`
	Cost        float64 `json:"cost"`
	Value       float64 `json:"value"`
	GrowthTime  float64 `json:"growth_time"`
	StaminaCost float64 `json:"stamina_cost,omitempty"`
	Color       string  `json:"color,omitempty"`
}

// GameTime is the server's time-of-day value, sent either as a string
// ("morning") or as an integer tick.
type GameTime string

// UnmarshalJSON accepts a JSON string, number or null
func (t *GameTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = GameTime(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("time must be a string or number: %w", err)
	}
	*t = GameTime(n.String())
	return nil
}

// UnmarshalJSON accepts either a bare crop name or a crop object
func (c *CropInstance) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*c = CropInstance{Name: name}
		return nil
	}
	type plain CropInstance
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = CropInstance(p)
	return nil
}

// UnmarshalJSON accepts either a bare crop name or a full definition
func (c *CropDefinition) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*c = CropDefinition{Name: name}
		return nil
	}
	type plain CropDefinition
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = CropDefinition(p)
	return nil
}

// IsEmpty reports whether no crop is planted
func (p Plot) IsEmpty() bool {
	return p.Crop == nil || p.Crop.Name == ""
}

// ProgressPercent returns growth as a whole percentage, rounded down and
// capped at 100. Only complete growth reports 100. Empty plots report 0.
func (p Plot) ProgressPercent() int {
	if p.IsEmpty() {
		return 0
	}
	return ProgressPercent(p.GrowthProgress)
}

// ProgressPercent converts a [0,1] growth fraction into a floored percentage
func ProgressPercent(progress float64) int {
	if math.IsNaN(progress) || progress <= 0 {
		return 0
	}
	pct := int(math.Floor(progress*100 + progressEpsilon))
	switch {
	case pct > 100:
		return 100
	case progress < 1 && pct >= 100:
		return 99
	}
	return pct
}

// FindCrop looks a crop up by exact name
func (s *ClientGameState) FindCrop(name string) (CropDefinition, bool) {
	if s == nil {
		return CropDefinition{}, false
	}
	for _, c := range s.Crops {
		if c.Name == name {
			return c, true
		}
	}
	return CropDefinition{}, false
}

// FindCropFold looks a crop up ignoring case and surrounding whitespace
func (s *ClientGameState) FindCropFold(name string) (CropDefinition, bool) {
	if s == nil {
		return CropDefinition{}, false
	}
	name = strings.TrimSpace(name)
	if c, ok := s.FindCrop(name); ok {
		return c, true
	}
	for _, c := range s.Crops {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return CropDefinition{}, false
}

// CropNames returns catalog names in catalog order
func (s *ClientGameState) CropNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Crops))
	for _, c := range s.Crops {
		names = append(names, c.Name)
	}
	return names
}

// Clone returns a deep copy so callers cannot mutate the cached snapshot
func (s *ClientGameState) Clone() *ClientGameState {
	if s == nil {
		return nil
	}
	out := *s
	if s.Plots != nil {
		out.Plots = make([]Plot, len(s.Plots))
		for i, p := range s.Plots {
			if p.Crop != nil {
				crop := *p.Crop
				p.Crop = &crop
			}
			out.Plots[i] = p
		}
	}
	if s.Crops != nil {
		out.Crops = make([]CropDefinition, len(s.Crops))
		copy(out.Crops, s.Crops)
	}
	return &out
}

// FormatAmount renders a number without trailing zeros (50, 4.5)
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
