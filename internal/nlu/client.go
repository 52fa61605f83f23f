package nlu

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/transport/http"
	"go.uber.org/zap"

	"negotiation_seller_agent/internal/biz/common"
	"negotiation_seller_agent/internal/conf"
)

const (
	defaultClassifyPath  = "/classifyMessage"
	defaultInterpretPath = "/interpretMessage"
	defaultTimeout       = 10 * time.Second
)

// Client calls the external classification and interpretation service
type Client struct {
	conn          *http.Client
	classifyPath  string
	interpretPath string
	logger        *zap.Logger
}

// NewClient dials the NLU service named in the service map
func NewClient(c *conf.Services, logger *zap.Logger) (*Client, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil || c.NLU == nil || c.NLU.Host == "" {
		return nil, nil, common.NewNegotiationError(common.ErrorCodeInvalidConfiguration,
			"NLU service is not configured", "services.nlu")
	}

	timeout := c.NLU.Timeout.Duration
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	conn, err := http.NewClient(context.Background(),
		http.WithEndpoint(c.NLU.Address()),
		http.WithTimeout(timeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create NLU client: %w", err)
	}

	client := &Client{
		conn:          conn,
		classifyPath:  pathOr(c.NLU.ClassifyPath, defaultClassifyPath),
		interpretPath: pathOr(c.NLU.InterpretPath, defaultInterpretPath),
		logger:        logger.Named("nlu_client"),
	}
	cleanup := func() {
		if err := conn.Close(); err != nil {
			client.logger.Warn("Failed to close NLU client", zap.Error(err))
		}
	}
	return client, cleanup, nil
}

// Classify obtains intents and entities for a message
func (c *Client) Classify(ctx context.Context, msg *common.InboundMessage) (*common.Classification, error) {
	var reply common.Classification
	if err := c.conn.Invoke(ctx, "POST", c.classifyPath, msg, &reply); err != nil {
		c.logger.Error("Classification request failed", zap.String("speaker", msg.Speaker), zap.Error(err))
		return nil, err
	}

	// Carry the message metadata through when the service omits it
	if reply.Text == "" {
		reply.Text = msg.Text
	}
	if reply.Speaker == "" {
		reply.Speaker = msg.Speaker
	}
	if reply.Addressee == "" {
		reply.Addressee = msg.Addressee
	}
	if reply.Role == "" {
		reply.Role = msg.Role
	}

	c.logger.Debug("Classified message",
		zap.String("speaker", reply.Speaker),
		zap.Int("intents", len(reply.Intents)),
		zap.Int("entities", len(reply.Entities)),
	)
	return &reply, nil
}

// Interpret turns a classification into a structured negotiation act
func (c *Client) Interpret(ctx context.Context, classification *common.Classification) (*common.Interpretation, error) {
	var reply common.Interpretation
	if err := c.conn.Invoke(ctx, "POST", c.interpretPath, classification, &reply); err != nil {
		c.logger.Error("Interpretation request failed", zap.String("speaker", classification.Speaker), zap.Error(err))
		return nil, err
	}
	if reply.Metadata.EnvironmentUUID == "" {
		reply.Metadata.EnvironmentUUID = classification.EnvironmentUUID
	}
	return &reply, nil
}

func pathOr(path, fallback string) string {
	if path == "" {
		return fallback
	}
	return path
}
