package negotiation

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"negotiation_seller_agent/internal/biz/common"
)

// State of the round lifecycle
type State string

const (
	StateInactive State = "inactive"
	StateActive   State = "active"
)

// SessionStatus is a point-in-time copy of the session
type SessionStatus struct {
	State         State           `json:"state"`
	RoundID       json.RawMessage `json:"roundId,omitempty"`
	RoundDuration float64         `json:"roundDuration"`
	StartTime     time.Time       `json:"startTime,omitempty"`
	StopTime      time.Time       `json:"stopTime,omitempty"`
	EndTime       time.Time       `json:"endTime,omitempty"`
	TimeRemaining float64         `json:"timeRemaining"`
}

// Session is the round state machine: inactive, then active until the round
// ends or its stop time passes, then inactive again. Expiry is checked
// lazily on access; no timer fires.
type Session struct {
	mu sync.RWMutex

	state         State
	roundID       json.RawMessage
	roundDuration float64
	startTime     time.Time
	stopTime      time.Time
	endTime       time.Time

	utility *common.UtilityInfo

	now    func() time.Time
	logger *zap.Logger
}

// NewSession creates an inactive session. now defaults to time.Now.
func NewSession(defaultRoundDuration float64, now func() time.Time, logger *zap.Logger) *Session {
	if defaultRoundDuration <= 0 {
		defaultRoundDuration = common.DefaultRoundDuration
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		state:         StateInactive,
		roundDuration: defaultRoundDuration,
		now:           now,
		logger:        logger.Named("session"),
	}
}

// SetUtility installs the round's utility table and round id
func (s *Session) SetUtility(info *common.UtilityInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.utility = info
	if info == nil {
		return
	}
	if len(info.RoundID) > 0 {
		s.roundID = info.RoundID
	}
	s.logger.Info("Utility set",
		zap.ByteString("round_id", s.roundID),
		zap.Int("goods", len(info.Utility)),
		zap.String("currency_unit", info.CurrencyUnit),
	)
}

// Utility returns the round's utility table, nil before assignment
func (s *Session) Utility() *common.UtilityInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.utility
}

// StartRound activates the session. A zero duration or empty round id keeps
// the previous value.
func (s *Session) StartRound(roundID json.RawMessage, roundDuration float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if roundDuration > 0 {
		s.roundDuration = roundDuration
	}
	if len(roundID) > 0 {
		s.roundID = roundID
	}
	s.state = StateActive
	s.startTime = s.now()
	s.stopTime = s.startTime.Add(time.Duration(s.roundDuration * float64(time.Second)))
	s.endTime = time.Time{}

	s.logger.Info("Round started",
		zap.ByteString("round_id", s.roundID),
		zap.Float64("round_duration", s.roundDuration),
		zap.Time("stop_time", s.stopTime),
	)
}

// EndRound deactivates the session
func (s *Session) EndRound() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateInactive
	s.endTime = s.now()
	s.logger.Info("Round ended", zap.ByteString("round_id", s.roundID))
}

// TimeRemaining is the number of seconds until the stop time; it may be
// negative. It is zero when no round was ever started.
func (s *Session) TimeRemaining() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeRemainingLocked()
}

func (s *Session) timeRemainingLocked() float64 {
	if s.stopTime.IsZero() {
		return 0
	}
	return s.stopTime.Sub(s.now()).Seconds()
}

// CheckActive forces the session inactive once the stop time has passed and
// reports whether it is still active.
func (s *Session) CheckActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateActive && s.timeRemainingLocked() <= 0 {
		s.state = StateInactive
		s.endTime = s.stopTime
		s.logger.Info("Round expired", zap.ByteString("round_id", s.roundID))
	}
	return s.state == StateActive
}

// RoundID returns the current round id
func (s *Session) RoundID() json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roundID
}

// RoundDuration returns the current round duration in seconds
func (s *Session) RoundDuration() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roundDuration
}

// Status returns a copy of the session state
func (s *Session) Status() SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return SessionStatus{
		State:         s.state,
		RoundID:       s.roundID,
		RoundDuration: s.roundDuration,
		StartTime:     s.startTime,
		StopTime:      s.stopTime,
		EndTime:       s.endTime,
		TimeRemaining: s.timeRemainingLocked(),
	}
}
