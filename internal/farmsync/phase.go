package farmsync

// Phase is the state of the two-step plant intent
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePlotChosen
	PhaseCropChosen
	PhaseSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhasePlotChosen:
		return "plot_chosen"
	case PhaseCropChosen:
		return "crop_chosen"
	case PhaseSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

// Selection is the pending half-built plant intent. Nil means "none".
type Selection struct {
	Plot *int
	Crop *string
}

// HasPlot reports whether a plot is chosen
func (s Selection) HasPlot() bool { return s.Plot != nil }

// HasCrop reports whether a crop is chosen
func (s Selection) HasCrop() bool { return s.Crop != nil }

// Empty reports whether neither half is chosen
func (s Selection) Empty() bool { return s.Plot == nil && s.Crop == nil }

// PlotIndex returns the chosen plot or -1
func (s Selection) PlotIndex() int {
	if s.Plot == nil {
		return -1
	}
	return *s.Plot
}

// CropName returns the chosen crop or ""
func (s Selection) CropName() string {
	if s.Crop == nil {
		return ""
	}
	return *s.Crop
}

func (s Selection) phase() Phase {
	switch {
	case s.Plot != nil && s.Crop == nil:
		return PhasePlotChosen
	case s.Crop != nil && s.Plot == nil:
		return PhaseCropChosen
	default:
		return PhaseIdle
	}
}

func (s Selection) clone() Selection {
	var out Selection
	if s.Plot != nil {
		p := *s.Plot
		out.Plot = &p
	}
	if s.Crop != nil {
		c := *s.Crop
		out.Crop = &c
	}
	return out
}
