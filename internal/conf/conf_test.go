package conf

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/env"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        time.Duration
		expectError bool
	}{
		{name: "string", input: `"1.5s"`, want: 1500 * time.Millisecond},
		{name: "nanoseconds", input: `2000000000`, want: 2 * time.Second},
		{name: "null", input: `null`, want: 0},
		{name: "bad string", input: `"soon"`, expectError: true},
		{name: "object", input: `{}`, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestEndpoint_Address(t *testing.T) {
	assert.Equal(t, "http://localhost:14002", (&Endpoint{Host: "localhost", Port: 14002}).Address())
	assert.Equal(t, "https://nlu.example.com", (&Endpoint{Protocol: "https", Host: "nlu.example.com"}).Address())
}

func TestAgent_IsPolite(t *testing.T) {
	var nilAgent *Agent
	assert.True(t, nilAgent.IsPolite())
	assert.True(t, (&Agent{}).IsPolite())

	rude := false
	assert.False(t, (&Agent{Polite: &rude}).IsPolite())
}

func TestBootstrap_LoadsShippedConfig(t *testing.T) {
	t.Setenv("PORT", "15000")
	t.Setenv("NLU_HOST", "nlu.internal")

	c := config.New(config.WithSource(
		file.NewSource("../../configs/config.yaml"),
		env.NewSource(),
	))
	defer c.Close()
	require.NoError(t, c.Load())

	var bc Bootstrap
	require.NoError(t, c.Scan(&bc))

	require.NotNil(t, bc.Server)
	assert.Equal(t, "0.0.0.0:15000", bc.Server.Http.Addr)
	assert.Equal(t, 10*time.Second, bc.Server.Http.Timeout.Duration)

	require.NotNil(t, bc.Agent)
	assert.Equal(t, "Agent007", bc.Agent.Name)
	assert.True(t, bc.Agent.IsPolite())
	assert.Equal(t, 600.0, bc.Agent.DefaultRoundDuration)

	require.NotNil(t, bc.Services)
	assert.Equal(t, "http://nlu.internal:14002", bc.Services.NLU.Address())
	assert.Equal(t, "/interpretMessage", bc.Services.NLU.InterpretPath)
	assert.Equal(t, "http://localhost:14010", bc.Services.EnvironmentOrchestrator.Address())
	assert.Equal(t, "/relayMessage", bc.Services.EnvironmentOrchestrator.RelayPath)

	require.NotNil(t, bc.Log)
	assert.Equal(t, 2, bc.Log.Level)
}
