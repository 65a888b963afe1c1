package domain

// ActionKind names a mutation request sent to the server
type ActionKind string

// Recognized action kinds. Unknown kinds are still sent; the server rejects them.
const (
	ActionPlant   ActionKind = "plant"
	ActionHarvest ActionKind = "harvest"
	ActionNextDay ActionKind = "next_day"
	ActionSleep   ActionKind = "sleep"
	ActionFish    ActionKind = "fish"
	ActionSave    ActionKind = "save"
)

// KnownActions lists the action kinds the client offers
var KnownActions = []ActionKind{
	ActionPlant,
	ActionHarvest,
	ActionNextDay,
	ActionSleep,
	ActionFish,
	ActionSave,
}

// IsKnown reports whether k is one of KnownActions
func (k ActionKind) IsKnown() bool {
	for _, known := range KnownActions {
		if k == known {
			return true
		}
	}
	return false
}

// ActionParams are the free-form parameters of an action envelope
type ActionParams map[string]interface{}

// ActionRequest is the generic action envelope
type ActionRequest struct {
	Action ActionKind   `json:"action"`
	Params ActionParams `json:"params"`
}

// ActionResponse is the server's reply to an action envelope.
// A non-empty Error means the action was rejected and nothing changed server-side.
type ActionResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Rejected reports whether the server refused the action
func (r ActionResponse) Rejected() bool {
	return r.Error != ""
}

// PlantParams are the parameters of a plant action
type PlantParams struct {
	PlotIndex int    `json:"plot_index" validate:"min=0"`
	CropName  string `json:"crop_name" validate:"required"`
}

// Params converts p into envelope parameters
func (p PlantParams) Params() ActionParams {
	return ActionParams{
		"plot_index": p.PlotIndex,
		"crop_name":  p.CropName,
	}
}
