package mcp

import (
	"context"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleToggleMixer(_ context.Context, _ *mcpsdk.CallToolRequest, _ ToggleMixerInput) (*mcpsdk.CallToolResult, ToggleMixerOutput, error) {
	result, err := s.daemon.Toggle()
	if err != nil {
		return nil, ToggleMixerOutput{}, fmt.Errorf("toggle failed: %w", err)
	}
	return nil, ToggleMixerOutput{Result: result}, nil
}

func (s *Server) handleCloseMixer(_ context.Context, _ *mcpsdk.CallToolRequest, _ CloseMixerInput) (*mcpsdk.CallToolResult, CloseMixerOutput, error) {
	closed, err := s.daemon.Close()
	if err != nil {
		return nil, CloseMixerOutput{}, fmt.Errorf("close failed: %w", err)
	}

	text := "No mixer was open"
	if closed {
		text = "Mixer closed"
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: text},
		},
	}, CloseMixerOutput{Closed: closed}, nil
}

func (s *Server) handleMixerStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ MixerStatusInput) (*mcpsdk.CallToolResult, MixerStatusOutput, error) {
	st, err := s.daemon.GetStatus()
	if err != nil {
		return nil, MixerStatusOutput{}, fmt.Errorf("status failed: %w", err)
	}

	out := MixerStatusOutput{
		State:         st.State,
		SessionID:     st.SessionID,
		PID:           st.PID,
		Display:       st.Display,
		AnchorX:       st.AnchorX,
		AnchorY:       st.AnchorY,
		Placed:        st.Placed,
		UptimeSeconds: st.UptimeSeconds,
		LastError:     st.LastError,
	}
	if !st.StartedAt.IsZero() {
		out.OpenSeconds = int64(time.Since(st.StartedAt).Seconds())
	}
	return nil, out, nil
}
