package farmclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TerminalFarm_Go/internal/domain"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*APIClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAPIClient(srv.URL, WithAPIKey("test-key"), WithRetries(0, time.Millisecond)), srv
}

func TestGetState(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, PathState, r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get(HeaderAPIKey))
		assert.NotEmpty(t, r.Header.Get(HeaderRequestID))

		w.Header().Set(HeaderContentType, ContentTypeJSON)
		_, _ = w.Write([]byte(`{"day": 2, "weather": "rainy", "money": 50, "plots": [{"crop": null, "growth_progress": 0}], "available_crops": [{"name": "Wheat", "cost": 10}]}`))
	})

	state, err := client.GetState(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, state.Day)
	assert.Equal(t, "rainy", state.Weather)
	assert.Equal(t, 50.0, state.Player.Money)
	require.Len(t, state.Plots, 1)
	assert.True(t, state.Plots[0].IsEmpty())
	assert.Equal(t, []string{"Wheat"}, state.CropNames())
}

func TestGetState_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantMsg string
	}{
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"day": `))
			},
			wantMsg: "failed to decode state",
		},
		{
			name: "server error without body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantMsg: "502",
		},
		{
			name: "error body on failure status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"error": "save file locked"}`))
			},
			wantMsg: "save file locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestServer(t, tt.handler)

			state, err := client.GetState(context.Background())

			require.Error(t, err)
			assert.Nil(t, state)
			assert.True(t, IsTransport(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestGetState_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewAPIClient(url)
	_, err := client.GetState(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransport))
}

func TestPerformAction_SendsEnvelope(t *testing.T) {
	var got domain.ActionRequest
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PathAction, r.URL.Path)
		assert.Equal(t, ContentTypeJSON, r.Header.Get(HeaderContentType))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{}`))
	})

	resp, err := client.PerformAction(context.Background(), domain.ActionPlant,
		domain.PlantParams{PlotIndex: 0, CropName: "Wheat"}.Params())

	require.NoError(t, err)
	assert.False(t, resp.Rejected())
	assert.Equal(t, domain.ActionPlant, got.Action)
	assert.Equal(t, "Wheat", got.Params["crop_name"])
	assert.Equal(t, float64(0), got.Params["plot_index"])
}

func TestPerformAction_NilParamsSendsEmptyObject(t *testing.T) {
	var raw map[string]json.RawMessage
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"message": "You had a good night's sleep!"}`))
	})

	resp, err := client.PerformAction(context.Background(), domain.ActionSleep, nil)

	require.NoError(t, err)
	assert.Equal(t, "You had a good night's sleep!", resp.Message)
	assert.JSONEq(t, `{}`, string(raw["params"]))
}

func TestPerformAction_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"error field on 200", http.StatusOK, `{"error": "Not enough money"}`},
		{"error field on 400", http.StatusBadRequest, `{"error": "Not enough money"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			resp, err := client.PerformAction(context.Background(), domain.ActionPlant, nil)

			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrRejected))
			assert.False(t, IsTransport(err))
			assert.Equal(t, "Not enough money", domain.UserMessage(err))
			require.NotNil(t, resp)
			assert.True(t, resp.Rejected())
		})
	}
}

func TestPerformAction_TransportFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"500 without error body", http.StatusInternalServerError, `oops`},
		{"2xx with html body", http.StatusOK, `<html></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			resp, err := client.PerformAction(context.Background(), domain.ActionHarvest, nil)

			require.Error(t, err)
			assert.Nil(t, resp)
			assert.True(t, IsTransport(err))
			assert.False(t, errors.Is(err, domain.ErrRejected))
		})
	}
}

func TestRetries(t *testing.T) {
	t.Run("retries 5xx then succeeds", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{"day": 4}`))
		}))
		defer srv.Close()

		client := NewAPIClient(srv.URL, WithRetries(3, time.Millisecond))
		state, err := client.GetState(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 4, state.Day)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("no retries by default", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		client := NewAPIClient(srv.URL)
		_, err := client.GetState(context.Background())

		require.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("actions are sent once even with retries enabled", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := NewAPIClient(srv.URL, WithRetries(2, time.Millisecond))
		resp, err := client.PerformAction(context.Background(), domain.ActionNextDay, nil)

		require.Error(t, err)
		assert.Nil(t, resp)
		assert.True(t, IsTransport(err))
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("stops retrying when context is cancelled", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := NewAPIClient(srv.URL, WithRetries(5, time.Hour))
		_, err := client.GetState(ctx)

		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.True(t, IsTransport(err))
	})
}

func TestTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	client := NewAPIClient(srv.URL, WithTimeout(20*time.Millisecond))
	_, err := client.GetState(context.Background())

	require.Error(t, err)
	assert.True(t, IsTransport(err))
}
