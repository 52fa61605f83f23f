package conf

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bootstrap is the root of the configuration tree
type Bootstrap struct {
	Server   *Server   `json:"server"`
	Agent    *Agent    `json:"agent"`
	Services *Services `json:"services"`
	Log      *Log      `json:"log"`
}

// Server holds listener configuration
type Server struct {
	Http *HTTP `json:"http"`
}

// HTTP configures the HTTP listener
type HTTP struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

// Agent configures the negotiating agent
type Agent struct {
	Name                 string  `json:"name"`
	Polite               *bool   `json:"polite"`
	DefaultSpeaker       string  `json:"default_speaker"`
	DefaultRole          string  `json:"default_role"`
	DefaultRoundDuration float64 `json:"default_round_duration"`
	DefaultRoundID       int64   `json:"default_round_id"`
	RandomSeed           int64   `json:"random_seed"`
	PhrasesFile          string  `json:"phrases_file"`
}

// IsPolite reports whether the agent only answers offers addressed to it
func (a *Agent) IsPolite() bool {
	if a == nil || a.Polite == nil {
		return true
	}
	return *a.Polite
}

// Services maps service types onto endpoints
type Services struct {
	EnvironmentOrchestrator *Orchestrator `json:"environment_orchestrator"`
	NLU                     *NLU          `json:"nlu"`
}

// Endpoint locates one remote service
type Endpoint struct {
	Protocol string   `json:"protocol"`
	Host     string   `json:"host"`
	Port     int      `json:"port"`
	Timeout  Duration `json:"timeout"`
}

// Address renders the endpoint as scheme://host[:port]
func (e *Endpoint) Address() string {
	protocol := e.Protocol
	if protocol == "" {
		protocol = "http"
	}
	if e.Port != 0 {
		return fmt.Sprintf("%s://%s:%d", protocol, e.Host, e.Port)
	}
	return fmt.Sprintf("%s://%s", protocol, e.Host)
}

// Orchestrator is the environment orchestrator endpoint
type Orchestrator struct {
	Endpoint
	RelayPath string `json:"relay_path"`
}

// NLU is the message classification service endpoint
type NLU struct {
	Endpoint
	ClassifyPath  string `json:"classify_path"`
	InterpretPath string `json:"interpret_path"`
}

// Log configures logging
type Log struct {
	// Level follows the agent's priority scale: 1 high, 2 moderate, 3 low
	Level int `json:"level"`
}

// Duration decodes from a Go duration string such as "5s"
type Duration struct {
	time.Duration
}

// UnmarshalJSON accepts a duration string or a number of nanoseconds
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		d.Duration = parsed
	case nil:
		d.Duration = 0
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	return nil
}

// MarshalJSON renders the duration as a string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}
