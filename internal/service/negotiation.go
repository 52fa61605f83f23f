package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"strconv"
	"sync"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/uuid"

	"negotiation_seller_agent/internal/biz/common"
	"negotiation_seller_agent/internal/biz/negotiation"
	"negotiation_seller_agent/internal/conf"
)

// UtilityAck answers setUtility
type UtilityAck struct {
	RoundID json.RawMessage     `json:"roundId,omitempty"`
	Status  string              `json:"status"`
	Utility *common.UtilityInfo `json:"utility"`
}

// RoundAck answers startRound and endRound
type RoundAck struct {
	RoundID json.RawMessage           `json:"roundId,omitempty"`
	Status  string                    `json:"status"`
	Session negotiation.SessionStatus `json:"session"`
}

// MessageAck answers receiveMessage
type MessageAck struct {
	RoundID        json.RawMessage        `json:"roundId,omitempty"`
	Status         string                 `json:"status"`
	Interpretation *common.InboundMessage `json:"interpretation,omitempty"`
}

// RejectionAck answers receiveRejection
type RejectionAck struct {
	RoundID json.RawMessage   `json:"roundId,omitempty"`
	Status  string            `json:"status"`
	Message *common.Rejection `json:"message,omitempty"`
}

// ExtractedBid is an interpretation stamped with the current round id
type ExtractedBid struct {
	*common.Interpretation
	RoundID json.RawMessage `json:"roundId,omitempty"`
}

// AgentState reports the agent's session and counters
type AgentState struct {
	Name    string                             `json:"name"`
	Session negotiation.SessionStatus          `json:"session"`
	Metrics common.NegotiationMetricsSnapshot  `json:"metrics"`
	Threads map[string][]common.Interpretation `json:"threads"`
}

type startRoundRequest struct {
	RoundID       json.RawMessage `json:"roundId"`
	RoundDuration float64         `json:"roundDuration"`
}

type errorReply struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// NegotiationService is the HTTP face of the seller agent
type NegotiationService struct {
	agent   *negotiation.Agent
	nc      *negotiation.NegotiationContext
	conf    *conf.Agent
	schemas *bodySchemas

	// inflight tracks message handling that outlives its request
	inflight sync.WaitGroup

	log *log.Helper
}

// NewNegotiationService creates a new negotiation service
func NewNegotiationService(agent *negotiation.Agent, c *conf.Agent, logger log.Logger) (*NegotiationService, error) {
	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &conf.Agent{}
	}
	return &NegotiationService{
		agent:   agent,
		nc:      agent.Context(),
		conf:    c,
		schemas: schemas,
		log:     log.NewHelper(log.With(logger, "module", "service/negotiation")),
	}, nil
}

// SetUtility installs the utility table for the upcoming round
func (s *NegotiationService) SetUtility(ctx http.Context) error {
	body, err := readBody(ctx.Request())
	if err != nil {
		return err
	}
	if body == nil {
		s.log.WithContext(ctx).Warn("setUtility called without a body")
		return ctx.JSON(nethttp.StatusOK, UtilityAck{Status: common.StatusNoMessageBody})
	}
	if err := validateBody(s.schemas.setUtility, body); err != nil {
		s.log.WithContext(ctx).Warnf("Invalid utility: %v", err)
		return ctx.JSON(nethttp.StatusOK, UtilityAck{Status: common.StatusInvalidMessageBody})
	}

	var info common.UtilityInfo
	if err := json.Unmarshal(body, &info); err != nil {
		s.log.WithContext(ctx).Warnf("Failed to decode utility: %v", err)
		return ctx.JSON(nethttp.StatusOK, UtilityAck{Status: common.StatusInvalidMessageBody})
	}

	s.nc.SetUtility(&info)
	s.log.WithContext(ctx).Infof("Utility set for %d goods as %s", len(info.Utility), s.nc.Name())
	return ctx.JSON(nethttp.StatusOK, UtilityAck{
		RoundID: s.nc.Session.RoundID(),
		Status:  common.StatusAcknowledged,
		Utility: &info,
	})
}

// StartRound opens a negotiation round
func (s *NegotiationService) StartRound(ctx http.Context) error {
	body, err := readBody(ctx.Request())
	if err != nil {
		return err
	}

	var req startRoundRequest
	if body != nil {
		if err := validateBody(s.schemas.startRound, body); err != nil {
			s.log.WithContext(ctx).Warnf("Invalid round parameters: %v", err)
			return ctx.JSON(nethttp.StatusOK, RoundAck{Status: common.StatusInvalidMessageBody, Session: s.nc.Session.Status()})
		}
		if err := json.Unmarshal(body, &req); err != nil {
			return ctx.JSON(nethttp.StatusOK, RoundAck{Status: common.StatusInvalidMessageBody, Session: s.nc.Session.Status()})
		}
	}

	s.nc.StartRound(req.RoundID, req.RoundDuration)
	status := s.nc.Session.Status()
	s.log.WithContext(ctx).Infof("Round %s started for %.0f seconds", string(status.RoundID), status.RoundDuration)
	return ctx.JSON(nethttp.StatusOK, RoundAck{RoundID: status.RoundID, Status: common.StatusAcknowledged, Session: status})
}

// EndRound closes the current round
func (s *NegotiationService) EndRound(ctx http.Context) error {
	s.nc.EndRound()
	status := s.nc.Session.Status()
	s.log.WithContext(ctx).Infof("Round %s ended", string(status.RoundID))
	return ctx.JSON(nethttp.StatusOK, RoundAck{RoundID: status.RoundID, Status: common.StatusAcknowledged, Session: status})
}

// ReceiveMessage acknowledges an inbound message at once and handles it in
// the background; any answer goes out through the relay.
func (s *NegotiationService) ReceiveMessage(ctx http.Context) error {
	body, err := readBody(ctx.Request())
	if err != nil {
		return err
	}
	roundID := s.nc.Session.RoundID()

	if body == nil {
		s.log.WithContext(ctx).Warn("receiveMessage called without a body")
		return ctx.JSON(nethttp.StatusOK, MessageAck{RoundID: roundID, Status: common.StatusNoMessageBody})
	}
	if !s.nc.Session.CheckActive() {
		s.log.WithContext(ctx).Debug("Message arrived outside an active round")
		return ctx.JSON(nethttp.StatusOK, MessageAck{RoundID: roundID, Status: common.StatusRoundNotActive})
	}

	msg, err := s.decodeMessage(body)
	if err != nil {
		s.log.WithContext(ctx).Warnf("Invalid message: %v", err)
		return ctx.JSON(nethttp.StatusOK, MessageAck{RoundID: roundID, Status: common.StatusInvalidMessageBody})
	}

	s.log.WithContext(ctx).Debugf("Received message from %s: %s", msg.Speaker, msg.Text)
	s.background(func(bg context.Context) {
		s.agent.HandleMessage(bg, msg)
	})
	return ctx.JSON(nethttp.StatusOK, MessageAck{RoundID: roundID, Status: common.StatusAcknowledged, Interpretation: msg})
}

// ReceiveRejection takes notice that the orchestrator refused one of the
// agent's messages
func (s *NegotiationService) ReceiveRejection(ctx http.Context) error {
	body, err := readBody(ctx.Request())
	if err != nil {
		return err
	}
	roundID := s.nc.Session.RoundID()

	if body == nil {
		return ctx.JSON(nethttp.StatusOK, RejectionAck{RoundID: roundID, Status: common.StatusNoMessageBody})
	}
	if !s.nc.Session.CheckActive() {
		return ctx.JSON(nethttp.StatusOK, RejectionAck{RoundID: roundID, Status: common.StatusRoundNotActive})
	}
	if err := validateBody(s.schemas.receiveRejection, body); err != nil {
		s.log.WithContext(ctx).Warnf("Invalid rejection: %v", err)
		return ctx.JSON(nethttp.StatusOK, RejectionAck{RoundID: roundID, Status: common.StatusInvalidMessageBody})
	}

	var rejection common.Rejection
	if err := json.Unmarshal(body, &rejection); err != nil {
		return ctx.JSON(nethttp.StatusOK, RejectionAck{RoundID: roundID, Status: common.StatusInvalidMessageBody})
	}

	s.log.WithContext(ctx).Infof("Message rejected: %s", rejection.Rationale)
	s.background(func(bg context.Context) {
		s.agent.HandleRejection(bg, &rejection)
	})
	return ctx.JSON(nethttp.StatusOK, RejectionAck{RoundID: roundID, Status: common.StatusAcknowledged, Message: &rejection})
}

// ClassifyText runs a query string text through the NLU classifier
func (s *NegotiationService) ClassifyText(ctx http.Context) error {
	text := ctx.Query().Get("text")
	msg := &common.InboundMessage{
		Text:            text,
		Speaker:         s.defaultSpeaker(),
		Addressee:       s.nc.Name(),
		Role:            s.defaultRole(),
		EnvironmentUUID: uuid.NewString(),
	}
	return s.classify(ctx, msg)
}

// ClassifyMessage runs a posted message through the NLU classifier
func (s *NegotiationService) ClassifyMessage(ctx http.Context) error {
	body, err := readBody(ctx.Request())
	if err != nil {
		return err
	}
	if body == nil {
		return ctx.JSON(nethttp.StatusBadRequest, errorReply{Error: common.StatusNoMessageBody})
	}
	msg, err := s.decodeMessage(body)
	if err != nil {
		return ctx.JSON(nethttp.StatusBadRequest, errorReply{Error: err.Error()})
	}
	if msg.EnvironmentUUID == "" {
		msg.EnvironmentUUID = uuid.NewString()
	}
	return s.classify(ctx, msg)
}

func (s *NegotiationService) classify(ctx http.Context, msg *common.InboundMessage) error {
	classification, err := s.agent.Classify(ctx, msg)
	if err != nil {
		s.log.WithContext(ctx).Errorf("Classification failed: %v", err)
		return ctx.JSON(nethttp.StatusBadGateway, errorReply{Error: err.Error(), Code: common.GetErrorCode(err)})
	}
	classification.RoundID = s.nc.Session.RoundID()
	return ctx.JSON(nethttp.StatusOK, classification)
}

// ExtractBid shows how a posted message would be interpreted
func (s *NegotiationService) ExtractBid(ctx http.Context) error {
	body, err := readBody(ctx.Request())
	if err != nil {
		return err
	}
	if body == nil {
		return ctx.JSON(nethttp.StatusBadRequest, errorReply{Error: common.StatusNoMessageBody})
	}
	msg, err := s.decodeMessage(body)
	if err != nil {
		return ctx.JSON(nethttp.StatusBadRequest, errorReply{Error: err.Error()})
	}

	interpretation, err := s.agent.Interpret(ctx, msg)
	if err != nil {
		s.log.WithContext(ctx).Errorf("Bid extraction failed: %v", err)
		return ctx.JSON(nethttp.StatusBadGateway, errorReply{Error: err.Error(), Code: common.GetErrorCode(err)})
	}
	return ctx.JSON(nethttp.StatusOK, ExtractedBid{Interpretation: interpretation, RoundID: s.nc.Session.RoundID()})
}

// ReportUtility returns the installed utility table
func (s *NegotiationService) ReportUtility(ctx http.Context) error {
	info := s.nc.Session.Utility()
	if info == nil {
		// Answered with 200 like any other report; callers look for the error field
		return ctx.JSON(nethttp.StatusOK, errorReply{
			Error: "utilityInfo not initialized.",
			Code:  common.ErrorCodeUtilityNotSet,
		})
	}
	report := *info
	report.RoundID = s.nc.Session.RoundID()
	return ctx.JSON(nethttp.StatusOK, report)
}

// ReportState returns the session, the open threads and the counters
func (s *NegotiationService) ReportState(ctx http.Context) error {
	return ctx.JSON(nethttp.StatusOK, AgentState{
		Name:    s.nc.Name(),
		Session: s.nc.Session.Status(),
		Metrics: s.agent.Metrics().GetSnapshot(),
		Threads: s.nc.History.Snapshot(),
	})
}

// Drain waits for background message handling to finish or ctx to end
func (s *NegotiationService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info("All in-flight messages handled")
		return nil
	case <-ctx.Done():
		s.log.Warn("Gave up waiting for in-flight messages")
		return ctx.Err()
	}
}

func (s *NegotiationService) background(fn func(context.Context)) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		fn(context.Background())
	}()
}

// decodeMessage validates a message body and fills in defaults for the
// fields the orchestrator may leave out
func (s *NegotiationService) decodeMessage(body []byte) (*common.InboundMessage, error) {
	if err := validateBody(s.schemas.receiveMessage, body); err != nil {
		return nil, err
	}
	var msg common.InboundMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, err
	}
	if msg.Speaker == "" {
		msg.Speaker = s.defaultSpeaker()
	}
	if msg.Role == "" {
		msg.Role = s.defaultRole()
	}
	if len(msg.RoundID) == 0 {
		msg.RoundID = json.RawMessage(strconv.FormatInt(s.conf.DefaultRoundID, 10))
	}
	return &msg, nil
}

func (s *NegotiationService) defaultSpeaker() string {
	if s.conf.DefaultSpeaker != "" {
		return s.conf.DefaultSpeaker
	}
	return common.DefaultSpeaker
}

func (s *NegotiationService) defaultRole() common.Role {
	if s.conf.DefaultRole != "" {
		return common.Role(s.conf.DefaultRole)
	}
	return common.RoleBuyer
}

// readBody returns the request body, or nil when there is none
func readBody(r *nethttp.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}
	return body, nil
}
