package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"negotiation_seller_agent/internal/biz/common"
	"negotiation_seller_agent/internal/conf"
)

func servicesFor(t *testing.T, srv *httptest.Server) *conf.Services {
	t.Helper()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	return &conf.Services{
		EnvironmentOrchestrator: &conf.Orchestrator{
			Endpoint: conf.Endpoint{Host: u.Hostname(), Port: port},
		},
	}
}

func outbound() *common.OutboundMessage {
	return &common.OutboundMessage{
		Text:      "How about if I sell you 2 egg for 2.25 USD.",
		Speaker:   "Agent007",
		Role:      common.RoleSeller,
		Addressee: "Jeff",
		TimeStamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Bid: &common.Bid{
			Type:     common.BidSellOffer,
			Quantity: map[string]int{"egg": 2},
			Price:    &common.Price{Unit: "USD", Value: 2.25},
		},
		RoundID: json.RawMessage("3"),
	}
}

func TestClient_Send(t *testing.T) {
	tests := []struct {
		name  string
		reply func(w http.ResponseWriter)
	}{
		{
			name: "json acknowledgment",
			reply: func(w http.ResponseWriter) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"status":"Acknowledged"}`))
			},
		},
		{
			name:  "empty acknowledgment",
			reply: func(w http.ResponseWriter) { w.WriteHeader(http.StatusOK) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				mu       sync.Mutex
				received map[string]interface{}
			)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/relayMessage", r.URL.Path)
				mu.Lock()
				_ = json.NewDecoder(r.Body).Decode(&received)
				mu.Unlock()
				tt.reply(w)
			}))
			defer srv.Close()

			client, cleanup, err := NewClient(servicesFor(t, srv), nil)
			require.NoError(t, err)
			defer cleanup()

			require.NoError(t, client.Send(context.Background(), outbound()))

			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, "Jeff", received["addressee"])
			assert.Equal(t, "seller", received["role"])
			assert.Equal(t, float64(3), received["roundId"])
			assert.Contains(t, received, "timeStamp")
			bid, ok := received["bid"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, "SellOffer", bid["type"])
		})
	}
}

func TestClient_SendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, cleanup, err := NewClient(servicesFor(t, srv), nil)
	require.NoError(t, err)
	defer cleanup()

	err = client.Send(context.Background(), outbound())
	assert.ErrorIs(t, err, common.ErrRelayFailed)
}

func TestNewClient_RequiresEndpoint(t *testing.T) {
	_, _, err := NewClient(&conf.Services{}, nil)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
}
