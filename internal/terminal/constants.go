package terminal

// Command names
const (
	CmdPlant   = "plant"
	CmdPlot    = "plot"
	CmdCrop    = "crop"
	CmdClear   = "clear"
	CmdHarvest = "harvest"
	CmdSleep   = "sleep"
	CmdNext    = "next"
	CmdFish    = "fish"
	CmdSave    = "save"
	CmdRefresh = "refresh"
	CmdHelp    = "help"
	CmdQuit    = "quit"
)

// User-facing messages
const (
	MsgInvalidNumber     = "Please enter a valid number!"
	MsgUnknownCommand    = "Unknown command: %s. Type 'help' for a list of commands."
	MsgUnknownCommandFix = "Unknown command: %s (did you mean %s?)"
	MsgUsage             = "Usage: %s"
	MsgGoodbye           = "Thanks for playing! Goodbye!"
	MsgHelpHeader        = "Commands:"
)

const (
	prompt      = "> "
	clearScreen = "\033[H\033[2J"
)

// Log messages
const (
	logMsgCommand       = "Terminal command"
	logMsgCommandFailed = "Terminal command failed"
	logMsgInputClosed   = "Input closed"
)
