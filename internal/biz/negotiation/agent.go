package negotiation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"negotiation_seller_agent/internal/biz/common"
)

// Agent runs the classify, interpret, decide, emit cycle for inbound messages
type Agent struct {
	nc         *NegotiationContext
	dispatcher *Dispatcher
	nlu        Interpreter
	relay      Relay
	phraser    Phraser
	metrics    *common.NegotiationMetrics
	logger     *zap.Logger
}

// NewAgent creates a negotiating agent
func NewAgent(nc *NegotiationContext, dispatcher *Dispatcher, nlu Interpreter, relay Relay, phraser Phraser, metrics *common.NegotiationMetrics, logger *zap.Logger) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = common.NewNegotiationMetrics()
	}
	return &Agent{
		nc:         nc,
		dispatcher: dispatcher,
		nlu:        nlu,
		relay:      relay,
		phraser:    phraser,
		metrics:    metrics,
		logger:     logger.Named("agent"),
	}
}

// Context returns the agent's negotiation context
func (a *Agent) Context() *NegotiationContext {
	return a.nc
}

// Metrics returns the agent's counters
func (a *Agent) Metrics() *common.NegotiationMetrics {
	return a.metrics
}

// Classify asks the NLU service to classify a message
func (a *Agent) Classify(ctx context.Context, msg *common.InboundMessage) (*common.Classification, error) {
	classification, err := a.nlu.Classify(ctx, msg)
	if err != nil {
		return nil, common.WrapError(err, common.ErrorCodeNLUFailed, "Message classification failed")
	}
	classification.EnvironmentUUID = msg.EnvironmentUUID
	return classification, nil
}

// Interpret classifies a message and turns the classification into a negotiation act
func (a *Agent) Interpret(ctx context.Context, msg *common.InboundMessage) (*common.Interpretation, error) {
	classification, err := a.Classify(ctx, msg)
	if err != nil {
		return nil, err
	}
	interpretation, err := a.nlu.Interpret(ctx, classification)
	if err != nil {
		return nil, common.WrapError(err, common.ErrorCodeNLUFailed, "Message interpretation failed")
	}
	return interpretation, nil
}

// ProcessMessage decides how to answer a message. Any failure along the way
// is logged and yields no answer.
func (a *Agent) ProcessMessage(ctx context.Context, msg *common.InboundMessage) *common.OutboundMessage {
	start := time.Now()
	a.metrics.IncrementMessagesReceived()
	defer func() {
		a.metrics.UpdateProcessingLatency(time.Since(start))
	}()

	interpretation, err := a.Interpret(ctx, msg)
	if err != nil {
		a.metrics.IncrementProcessingErrors()
		a.logger.Error("Failed to interpret message",
			zap.String("speaker", msg.Speaker),
			zap.Error(err),
		)
		return nil
	}

	a.logger.Debug("Interpreted message",
		zap.String("type", string(interpretation.Type)),
		zap.String("speaker", interpretation.Metadata.Speaker),
		zap.String("addressee", interpretation.Metadata.Addressee),
	)

	out, err := a.dispatcher.Dispatch(interpretation)
	if err != nil {
		a.metrics.IncrementProcessingErrors()
		a.logger.Error("Encountered error while dispatching message",
			zap.String("type", string(interpretation.Type)),
			zap.String("speaker", interpretation.Metadata.Speaker),
			zap.Error(err),
		)
		return nil
	}
	if out == nil {
		a.metrics.IncrementMessagesIgnored()
		return nil
	}
	if out.Bid != nil {
		a.metrics.RecordBid(out.Bid.Type)
	}
	return out
}

// HandleMessage processes a message and relays the answer, if any
func (a *Agent) HandleMessage(ctx context.Context, msg *common.InboundMessage) {
	out := a.ProcessMessage(ctx, msg)
	if out == nil {
		return
	}
	a.Send(ctx, out)
}

// HandleRejection answers the orchestrator refusing one of the agent's
// messages. Only a refused acceptance for lack of buyer budget gets a
// courtesy explanation, so the buyer does not read silence as rudeness.
func (a *Agent) HandleRejection(ctx context.Context, rejection *common.Rejection) {
	if rejection.Rationale != common.RationaleInsufficientBudget ||
		rejection.Bid == nil || rejection.Bid.Type != common.BidAccept {
		a.logger.Debug("Rejection needs no reply", zap.String("rationale", rejection.Rationale))
		return
	}

	a.Send(ctx, &common.OutboundMessage{
		Text:            a.phraser.Canned(common.ReplyInsufficientBudget, rejection.Addressee),
		Speaker:         rejection.Speaker,
		Role:            rejection.Role,
		Addressee:       rejection.Addressee,
		EnvironmentUUID: rejection.EnvironmentUUID,
		TimeStamp:       a.nc.Now(),
	})
}

// Send stamps the round id onto a message and relays it. Relay errors are
// logged, not returned.
func (a *Agent) Send(ctx context.Context, out *common.OutboundMessage) {
	out.RoundID = a.nc.Session.RoundID()

	if err := a.relay.Send(ctx, out); err != nil {
		a.metrics.IncrementRelayErrors()
		a.logger.Error("Failed to relay message",
			zap.String("addressee", out.Addressee),
			zap.Error(err),
		)
		return
	}
	a.metrics.IncrementMessagesSent()
	a.logger.Info("Sent message",
		zap.String("addressee", out.Addressee),
		zap.String("text", out.Text),
	)
}
