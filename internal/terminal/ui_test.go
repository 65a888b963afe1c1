package terminal

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TerminalFarm_Go/internal/domain"
	"github.com/osse101/TerminalFarm_Go/internal/farmsync"
	"github.com/osse101/TerminalFarm_Go/internal/notify"
	"github.com/osse101/TerminalFarm_Go/mocks"
)

func testState() *domain.ClientGameState {
	return &domain.ClientGameState{
		Day:     1,
		Time:    "morning",
		Weather: "sunny",
		Player:  domain.Player{Money: 50, Stamina: 5, MaxStamina: 5},
		Plots:   []domain.Plot{{}, {}},
		Crops:   []domain.CropDefinition{{Name: "Wheat", Cost: 10, Value: 20, GrowthTime: 10}},
	}
}

// newTestUI wires a real synchronizer over a mock client with a loaded snapshot
func newTestUI(t *testing.T, input string) (*UI, *mocks.MockStateClient, *notify.MessageLog, *bytes.Buffer) {
	t.Helper()
	client := new(mocks.MockStateClient)
	client.On("GetState", mock.Anything).Return(testState(), nil)

	log := notify.NewMessageLog(20, 0)
	game := farmsync.New(client, farmsync.WithNotifier(log))
	_, err := game.FetchState(context.Background())
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return NewUI(game, log, strings.NewReader(input), out), client, log, out
}

func TestParse(t *testing.T) {
	name, args := Parse("  PLANT 1 lazy  ghost ")
	assert.Equal(t, "plant", name)
	assert.Equal(t, []string{"1", "lazy", "ghost"}, args)

	name, args = Parse("   ")
	assert.Equal(t, "", name)
	assert.Nil(t, args)
}

func TestRegistry_LookupAliases(t *testing.T) {
	r := DefaultRegistry()

	cmd, ok := r.Lookup("q")
	require.True(t, ok)
	assert.Equal(t, CmdQuit, cmd.Name)

	cmd, ok = r.Lookup("next")
	require.True(t, ok)
	assert.Equal(t, CmdNext, cmd.Name)

	_, ok = r.Lookup("dance")
	assert.False(t, ok)
}

func TestRegistry_HelpTextListsEveryCommand(t *testing.T) {
	r := DefaultRegistry()
	help := r.HelpText()

	for _, name := range r.Names() {
		assert.Contains(t, help, r.Commands[name].Usage)
	}
}

func TestHandle_PlantCommand(t *testing.T) {
	ui, client, _, _ := newTestUI(t, "")
	client.On("PerformAction", mock.Anything, domain.ActionPlant,
		domain.ActionParams{"plot_index": 1, "crop_name": "Wheat"}).
		Return(&domain.ActionResponse{Message: "Planted Wheat in plot 2"}, nil).Once()

	err := ui.registry.Handle(context.Background(), ui, "plant 2 wheat")

	require.NoError(t, err)
	client.AssertExpectations(t)
	assert.True(t, ui.game.Selection().Empty())
}

func TestHandle_PlantReplacesHalfSelection(t *testing.T) {
	ui, client, _, _ := newTestUI(t, "")
	client.On("PerformAction", mock.Anything, domain.ActionPlant,
		domain.ActionParams{"plot_index": 0, "crop_name": "Wheat"}).
		Return(&domain.ActionResponse{}, nil).Once()

	require.NoError(t, ui.registry.Handle(context.Background(), ui, "plot 2"))
	require.NoError(t, ui.registry.Handle(context.Background(), ui, "plant 1 Wheat"))

	client.AssertExpectations(t)
	client.AssertNumberOfCalls(t, "PerformAction", 1)
}

func TestHandle_PlantBadPlotLeavesNothingPending(t *testing.T) {
	ui, client, _, _ := newTestUI(t, "")

	err := ui.registry.Handle(context.Background(), ui, "plant 99 wheat")

	require.ErrorIs(t, err, domain.ErrInvalidSelection)
	assert.True(t, ui.game.Selection().Empty())

	require.NoError(t, ui.registry.Handle(context.Background(), ui, "plot 1"))
	client.AssertNotCalled(t, "PerformAction", mock.Anything, mock.Anything, mock.Anything)
	assert.False(t, ui.game.Selection().HasCrop())
}

func TestHandle_TwoStepSelection(t *testing.T) {
	ui, client, _, _ := newTestUI(t, "")
	client.On("PerformAction", mock.Anything, domain.ActionPlant,
		domain.ActionParams{"plot_index": 0, "crop_name": "Wheat"}).
		Return(&domain.ActionResponse{}, nil).Once()

	require.NoError(t, ui.registry.Handle(context.Background(), ui, "crop wheat"))
	client.AssertNotCalled(t, "PerformAction", mock.Anything, mock.Anything, mock.Anything)

	require.NoError(t, ui.registry.Handle(context.Background(), ui, "plot 1"))
	client.AssertExpectations(t)
}

func TestHandle_ActionCommands(t *testing.T) {
	tests := []struct {
		line string
		kind domain.ActionKind
	}{
		{"harvest", domain.ActionHarvest},
		{"h", domain.ActionHarvest},
		{"sleep", domain.ActionSleep},
		{"next", domain.ActionNextDay},
		{"fish", domain.ActionFish},
		{"save", domain.ActionSave},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			ui, client, _, _ := newTestUI(t, "")
			client.On("PerformAction", mock.Anything, tt.kind, domain.ActionParams(nil)).
				Return(&domain.ActionResponse{}, nil).Once()

			require.NoError(t, ui.registry.Handle(context.Background(), ui, tt.line))
			client.AssertExpectations(t)
		})
	}
}

func TestHandle_BadInput(t *testing.T) {
	ui, client, log, _ := newTestUI(t, "")

	require.NoError(t, ui.registry.Handle(context.Background(), ui, "plot two"))
	require.NoError(t, ui.registry.Handle(context.Background(), ui, "plant 1"))
	require.NoError(t, ui.registry.Handle(context.Background(), ui, "harvset"))
	require.NoError(t, ui.registry.Handle(context.Background(), ui, "xyzzy"))

	assert.Equal(t, []string{
		MsgInvalidNumber,
		"Usage: plant <plot> <crop>",
		"Unknown command: harvset (did you mean harvest?)",
		"Unknown command: xyzzy. Type 'help' for a list of commands.",
	}, notify.Texts(log.Drain()))
	client.AssertNotCalled(t, "PerformAction", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandle_RejectedPlantShowsServerMessage(t *testing.T) {
	ui, client, log, _ := newTestUI(t, "")
	client.On("PerformAction", mock.Anything, domain.ActionPlant, mock.Anything).
		Return(&domain.ActionResponse{Error: "Not enough money"},
			&domain.RejectionError{Action: domain.ActionPlant, Message: "Not enough money"}).Once()

	err := ui.registry.Handle(context.Background(), ui, "plant 1 wheat")

	assert.ErrorIs(t, err, domain.ErrRejected)
	assert.Contains(t, notify.Texts(log.Drain()), "Not enough money")
}

func TestRun_QuitSavesAndSaysGoodbye(t *testing.T) {
	ui, client, _, out := newTestUI(t, "quit\nharvest\n")
	client.On("PerformAction", mock.Anything, domain.ActionSave, domain.ActionParams(nil)).
		Return(&domain.ActionResponse{Message: "Game saved successfully!"}, nil).Once()

	err := ui.Run(context.Background())

	require.NoError(t, err)
	client.AssertExpectations(t)
	client.AssertNotCalled(t, "PerformAction", mock.Anything, domain.ActionHarvest, mock.Anything)
	assert.Contains(t, out.String(), "Game saved successfully!")
	assert.True(t, strings.HasSuffix(out.String(), MsgGoodbye+"\n"))
}

func TestRun_EndOfInput(t *testing.T) {
	ui, _, _, out := newTestUI(t, "help\n")

	require.NoError(t, ui.Run(context.Background()))

	assert.Contains(t, out.String(), "=== Your Farm ===")
	assert.Contains(t, out.String(), MsgHelpHeader)
}

func TestRun_MessagesShownOnce(t *testing.T) {
	ui, _, _, out := newTestUI(t, "dance\n\n")

	require.NoError(t, ui.Run(context.Background()))

	assert.Equal(t, 1, strings.Count(out.String(), "Unknown command: dance"))
}

func TestRun_StopsOnCancel(t *testing.T) {
	client := new(mocks.MockStateClient)
	log := notify.NewMessageLog(10, 0)
	ui := NewUI(farmsync.New(client, farmsync.WithNotifier(log)), log, blockingReader{}, &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ui.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_BackgroundMessageRedraws(t *testing.T) {
	client := new(mocks.MockStateClient)
	log := notify.NewMessageLog(10, 0)
	out := &lockedBuffer{}
	ui := NewUI(farmsync.New(client, farmsync.WithNotifier(log)), log, blockingReader{}, out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = ui.Run(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Waiting for game state")
	}, time.Second, 5*time.Millisecond)

	log.Notify(notify.LevelError, "Error updating game state")

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Error updating game state")
	}, time.Second, 5*time.Millisecond)
}

func TestRedraw_NeverBlocks(t *testing.T) {
	ui, _, _, _ := newTestUI(t, "")
	assert.NotPanics(t, func() {
		for i := 0; i < 5; i++ {
			ui.OnUpdate(nil)
		}
	})
	assert.Len(t, ui.redraw, 1)
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
