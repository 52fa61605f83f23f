package relay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/transport/http"
	"go.uber.org/zap"

	"negotiation_seller_agent/internal/biz/common"
	"negotiation_seller_agent/internal/conf"
)

const (
	defaultRelayPath = "/relayMessage"
	defaultTimeout   = 10 * time.Second
)

// Client posts the agent's messages to the environment orchestrator
type Client struct {
	conn      *http.Client
	relayPath string
	logger    *zap.Logger
}

// NewClient dials the environment orchestrator named in the service map
func NewClient(c *conf.Services, logger *zap.Logger) (*Client, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil || c.EnvironmentOrchestrator == nil || c.EnvironmentOrchestrator.Host == "" {
		return nil, nil, common.NewNegotiationError(common.ErrorCodeInvalidConfiguration,
			"Environment orchestrator is not configured", "services.environment_orchestrator")
	}

	orchestrator := c.EnvironmentOrchestrator
	timeout := orchestrator.Timeout.Duration
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	conn, err := http.NewClient(context.Background(),
		http.WithEndpoint(orchestrator.Address()),
		http.WithTimeout(timeout),
		http.WithResponseDecoder(decodeReply),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create orchestrator client: %w", err)
	}

	relayPath := orchestrator.RelayPath
	if relayPath == "" {
		relayPath = defaultRelayPath
	}

	client := &Client{
		conn:      conn,
		relayPath: relayPath,
		logger:    logger.Named("relay_client"),
	}
	cleanup := func() {
		if err := conn.Close(); err != nil {
			client.logger.Warn("Failed to close orchestrator client", zap.Error(err))
		}
	}
	return client, cleanup, nil
}

// Send posts one message to the orchestrator's relay endpoint
func (c *Client) Send(ctx context.Context, msg *common.OutboundMessage) error {
	var reply map[string]interface{}
	if err := c.conn.Invoke(ctx, "POST", c.relayPath, msg, &reply); err != nil {
		return common.WrapError(err, common.ErrorCodeRelayFailed, "Failed to relay message")
	}
	c.logger.Debug("Relayed message",
		zap.String("addressee", msg.Addressee),
		zap.Any("reply", reply),
	)
	return nil
}

// decodeReply tolerates an empty acknowledgment body
func decodeReply(_ context.Context, res *nethttp.Response, v interface{}) error {
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return http.CodecForResponse(res).Unmarshal(data, v)
}
