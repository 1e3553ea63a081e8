package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/voltray/internal/controller"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandToggle    CommandType = "TOGGLE"
	CommandClose     CommandType = "CLOSE"
	CommandGetStatus CommandType = "GET_STATUS"
	CommandReload    CommandType = "RELOAD"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request is one line sent by a client. Every command is payload-free today.
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// ToggleData is returned by TOGGLE.
type ToggleData struct {
	Result string `json:"result"` // "opened" or "closed"
}

// CloseData is returned by CLOSE.
type CloseData struct {
	Closed bool `json:"closed"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	controller.Status
	UptimeSeconds int64 `json:"uptime_seconds"`
	DaemonPID     int   `json:"daemon_pid"`
}

// NewOKResponse creates a successful response carrying data, if any.
func NewOKResponse(data any) (*Response, error) {
	resp := &Response{Status: StatusOK}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		resp.Data = raw
	}
	return resp, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}
