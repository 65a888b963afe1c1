package terminal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/osse101/TerminalFarm_Go/internal/domain"
	"github.com/osse101/TerminalFarm_Go/internal/farmsync"
	"github.com/osse101/TerminalFarm_Go/internal/notify"
)

// ErrQuit is returned by the quit command to end the UI loop
var ErrQuit = errors.New("quit")

// CommandHandler handles one parsed command line
type CommandHandler func(ctx context.Context, ui *UI, args []string) error

// Command describes a terminal command
type Command struct {
	Name        string
	Aliases     []string
	Usage       string
	Description string
	MinArgs     int
	Handler     CommandHandler
}

// CommandRegistry holds the registered commands
type CommandRegistry struct {
	Commands map[string]*Command
	aliases  map[string]string
}

// NewCommandRegistry creates a new registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		Commands: make(map[string]*Command),
		aliases:  make(map[string]string),
	}
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(cmd *Command) {
	r.Commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd.Name
	}
}

// Lookup resolves a command by name or alias
func (r *CommandRegistry) Lookup(name string) (*Command, bool) {
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	cmd, ok := r.Commands[name]
	return cmd, ok
}

// Names returns the command names in alphabetical order
func (r *CommandRegistry) Names() []string {
	names := make([]string, 0, len(r.Commands))
	for name := range r.Commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse splits an input line into a lower-cased command name and its arguments
func Parse(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

// Handle parses and runs one input line. Unknown commands and missing
// arguments are reported through the notifier and return nil.
func (r *CommandRegistry) Handle(ctx context.Context, ui *UI, line string) error {
	name, args := Parse(line)
	if name == "" {
		return nil
	}

	cmd, ok := r.Lookup(name)
	if !ok {
		if hint, found := farmsync.Suggest(name, r.Names()); found {
			ui.notifier.Notify(notify.LevelWarn, fmt.Sprintf(MsgUnknownCommandFix, name, hint))
		} else {
			ui.notifier.Notify(notify.LevelWarn, fmt.Sprintf(MsgUnknownCommand, name))
		}
		return nil
	}
	if len(args) < cmd.MinArgs {
		ui.notifier.Notify(notify.LevelWarn, fmt.Sprintf(MsgUsage, cmd.Usage))
		return nil
	}
	return cmd.Handler(ctx, ui, args)
}

// DefaultRegistry returns the registry with every game command registered
func DefaultRegistry() *CommandRegistry {
	r := NewCommandRegistry()

	r.Register(&Command{
		Name:        CmdPlant,
		Aliases:     []string{"p"},
		Usage:       "plant <plot> <crop>",
		Description: "Plant a crop in a plot",
		MinArgs:     2,
		Handler:     handlePlant,
	})
	r.Register(&Command{
		Name:        CmdPlot,
		Usage:       "plot <n>",
		Description: "Choose a plot to plant in",
		MinArgs:     1,
		Handler:     handlePlot,
	})
	r.Register(&Command{
		Name:        CmdCrop,
		Usage:       "crop <name>",
		Description: "Choose a crop to plant",
		MinArgs:     1,
		Handler:     handleCrop,
	})
	r.Register(&Command{
		Name:        CmdClear,
		Usage:       "clear",
		Description: "Drop the current plot/crop selection",
		Handler: func(ctx context.Context, ui *UI, args []string) error {
			ui.game.ClearSelection()
			return nil
		},
	})
	r.Register(actionCommand(CmdHarvest, []string{"h"}, "Harvest every ready crop", domain.ActionHarvest))
	r.Register(actionCommand(CmdSleep, nil, "Sleep to restore stamina", domain.ActionSleep))
	r.Register(actionCommand(CmdNext, []string{"n"}, "Advance to the next day", domain.ActionNextDay))
	r.Register(actionCommand(CmdFish, []string{"f"}, "Go fishing", domain.ActionFish))
	r.Register(actionCommand(CmdSave, nil, "Save the game", domain.ActionSave))
	r.Register(&Command{
		Name:        CmdRefresh,
		Aliases:     []string{"r"},
		Usage:       "refresh",
		Description: "Fetch the latest game state",
		Handler: func(ctx context.Context, ui *UI, args []string) error {
			_, err := ui.game.FetchState(ctx)
			return err
		},
	})
	r.Register(&Command{
		Name:        CmdHelp,
		Aliases:     []string{"?"},
		Usage:       "help",
		Description: "Show this list",
		Handler: func(ctx context.Context, ui *UI, args []string) error {
			ui.notifier.Notify(notify.LevelInfo, ui.registry.HelpText())
			return nil
		},
	})
	r.Register(&Command{
		Name:        CmdQuit,
		Aliases:     []string{"q", "exit"},
		Usage:       "quit",
		Description: "Save and leave",
		Handler:     handleQuit,
	})

	return r
}

// HelpText lists every command with its usage
func (r *CommandRegistry) HelpText() string {
	var sb strings.Builder
	sb.WriteString(MsgHelpHeader)
	for _, name := range r.Names() {
		cmd := r.Commands[name]
		fmt.Fprintf(&sb, "\n  %-22s %s", cmd.Usage, cmd.Description)
	}
	return sb.String()
}

func actionCommand(name string, aliases []string, desc string, kind domain.ActionKind) *Command {
	return &Command{
		Name:        name,
		Aliases:     aliases,
		Usage:       name,
		Description: desc,
		Handler: func(ctx context.Context, ui *UI, args []string) error {
			return ui.game.PerformAction(ctx, kind, nil)
		},
	}
}

// handlePlant replaces any half-built selection with the given plot and crop
func handlePlant(ctx context.Context, ui *UI, args []string) error {
	index, ok := ui.plotArg(args[0])
	if !ok {
		return nil
	}
	if !ui.game.Selection().Empty() {
		ui.game.ClearSelection()
	}
	if err := ui.game.SelectCrop(ctx, strings.Join(args[1:], " ")); err != nil {
		return err
	}
	if err := ui.game.SelectPlot(ctx, index); err != nil {
		// A bad plot must not leave the crop half pending for a later plot command
		if errors.Is(err, domain.ErrInvalidSelection) {
			ui.game.ClearSelection()
		}
		return err
	}
	return nil
}

func handlePlot(ctx context.Context, ui *UI, args []string) error {
	index, ok := ui.plotArg(args[0])
	if !ok {
		return nil
	}
	return ui.game.SelectPlot(ctx, index)
}

func handleCrop(ctx context.Context, ui *UI, args []string) error {
	return ui.game.SelectCrop(ctx, strings.Join(args, " "))
}

func handleQuit(ctx context.Context, ui *UI, args []string) error {
	// Quitting saves first; a failed save is reported but does not block leaving.
	_ = ui.game.PerformAction(ctx, domain.ActionSave, nil)
	return ErrQuit
}

// plotArg converts a 1-based plot number to a 0-based index
func (ui *UI) plotArg(arg string) (int, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		ui.notifier.Notify(notify.LevelWarn, MsgInvalidNumber)
		return 0, false
	}
	return n - 1, true
}
