package farmsync

import "time"

// DefaultRefreshInterval is the passive refresh period
const DefaultRefreshInterval = 5 * time.Second

// User-facing messages
const (
	MsgFetchFailed      = "Error updating game state"
	MsgPlantInFlight    = "Still planting, please wait..."
	MsgInvalidPlot      = "Invalid plot number!"
	MsgUnknownCrop      = "Unknown crop: %s"
	MsgUnknownCropHint  = "Unknown crop: %s (did you mean %s?)"
	MsgEmptyCropName    = "Please choose a crop!"
	MsgPlotSelected     = "Plot %d selected, now choose a crop."
	MsgCropSelected     = "%s selected, now choose a plot."
	MsgSelectionCleared = "Selection cleared."
)

// actionFailureMessages mirrors the one-line failure text per action
var actionFailureMessages = map[string]string{
	"plant":    "Failed to plant crop!",
	"harvest":  "Failed to harvest crops!",
	"sleep":    "Failed to sleep!",
	"save":     "Failed to save game!",
	"next_day": "Failed to advance the day!",
	"fish":     "Failed to go fishing!",
}

// Log messages
const (
	logMsgFetchFailed     = "State fetch failed"
	logMsgFetchCancelled  = "State fetch cancelled"
	logMsgFetchApplied    = "State snapshot applied"
	logMsgStaleDiscarded  = "Discarded stale state response"
	logMsgActionFailed    = "Action request failed"
	logMsgActionRejected  = "Action rejected by server"
	logMsgActionSucceeded = "Action accepted"
	logMsgPlantSubmitted  = "Submitting plant intent"
	logMsgRefresherStart  = "Passive refresh started"
	logMsgRefresherStop   = "Passive refresh stopped"
)
