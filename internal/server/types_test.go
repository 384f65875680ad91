package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventResponse_NeverOmitsZeroProgressOrEmptyMessage(t *testing.T) {
	data, err := json.Marshal(EventResponse{Progress: 0, Message: "", Status: "pending"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"progress":0`)
	assert.Contains(t, string(data), `"message":""`)
}

func TestSSETimeoutEvent_OnlyCarriesStatus(t *testing.T) {
	data, err := json.Marshal(sseTimeoutEvent{Status: "timeout"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"timeout"}`, string(data))
}
