// Package terminal is the interactive front end: it reads commands, drives
// the synchronizer and redraws the view.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/osse101/TerminalFarm_Go/internal/domain"
	"github.com/osse101/TerminalFarm_Go/internal/farmsync"
	"github.com/osse101/TerminalFarm_Go/internal/logger"
	"github.com/osse101/TerminalFarm_Go/internal/notify"
	"github.com/osse101/TerminalFarm_Go/internal/render"
)

// Game is the part of the synchronizer the terminal drives
type Game interface {
	FetchState(ctx context.Context) (*domain.ClientGameState, error)
	PerformAction(ctx context.Context, kind domain.ActionKind, params domain.ActionParams) error
	SelectPlot(ctx context.Context, index int) error
	SelectCrop(ctx context.Context, name string) error
	ClearSelection()
	State() *domain.ClientGameState
	Selection() farmsync.Selection
}

// UI runs the read-command-redraw loop
type UI struct {
	game     Game
	messages *notify.MessageLog
	notifier notify.Notifier
	registry *CommandRegistry
	in       io.Reader
	out      io.Writer
	clear    bool
	redraw   chan struct{}
}

// UIOption customises a UI
type UIOption func(*UI)

// WithRegistry replaces the default command set
func WithRegistry(r *CommandRegistry) UIOption {
	return func(ui *UI) { ui.registry = r }
}

// WithClearScreen clears the terminal before each redraw
func WithClearScreen(enabled bool) UIOption {
	return func(ui *UI) { ui.clear = enabled }
}

// NewUI creates a UI reading commands from in and drawing to out.
// Messages published to the log are shown once, on the next redraw.
func NewUI(game Game, messages *notify.MessageLog, in io.Reader, out io.Writer, opts ...UIOption) *UI {
	ui := &UI{
		game:     game,
		messages: messages,
		notifier: messages,
		registry: DefaultRegistry(),
		in:       in,
		out:      out,
		redraw:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(ui)
	}
	return ui
}

// Redraw asks the loop to draw again. It never blocks and can be used as a
// synchronizer update hook.
func (ui *UI) Redraw() {
	select {
	case ui.redraw <- struct{}{}:
	default:
	}
}

// OnUpdate adapts Redraw to farmsync.UpdateFunc
func (ui *UI) OnUpdate(*domain.ClientGameState) {
	ui.Redraw()
}

// Run draws the view and handles input lines until quit, end of input or
// ctx cancellation. Command failures are reported in the view and never end
// the loop.
func (ui *UI) Run(ctx context.Context) error {
	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log := logger.FromContext(ctx)
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(ui.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	// Messages published outside a command, such as a failed refresh, redraw the view
	published := ui.messages.Subscribe()

	ui.draw()
	for {
		select {
		case <-parent.Done():
			return parent.Err()

		case _, ok := <-published:
			if !ok {
				published = nil
				continue
			}
			ui.Redraw()

		case <-ui.redraw:
			ui.draw()

		case line, ok := <-lines:
			if !ok {
				log.Info(logMsgInputClosed)
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}

			cmdCtx, _ := logger.EnsureRequestID(ctx)
			log.Debug(logMsgCommand, "line", line)
			err := ui.registry.Handle(cmdCtx, ui, line)
			if errors.Is(err, ErrQuit) {
				ui.draw()
				fmt.Fprintln(ui.out, MsgGoodbye)
				return nil
			}
			if err != nil {
				log.Debug(logMsgCommandFailed, "line", line, "error", err)
			}
			ui.draw()
		}
	}
}

func (ui *UI) draw() {
	if ui.clear {
		fmt.Fprint(ui.out, clearScreen)
	}
	fmt.Fprint(ui.out, render.View(ui.game.State(), ui.game.Selection(), ui.messages.Drain()))
	fmt.Fprint(ui.out, prompt)
}
