package mcp

// ToggleMixerInput is the input for the toggle_mixer tool.
type ToggleMixerInput struct{}

// ToggleMixerOutput is the output for the toggle_mixer tool.
type ToggleMixerOutput struct {
	Result string `json:"result" jsonschema:"opened or closed"`
}

// CloseMixerInput is the input for the close_mixer tool.
type CloseMixerInput struct{}

// CloseMixerOutput is the output for the close_mixer tool.
type CloseMixerOutput struct {
	Closed bool `json:"closed" jsonschema:"true when an open mixer was dismissed"`
}

// MixerStatusInput is the input for the mixer_status tool.
type MixerStatusInput struct{}

// MixerStatusOutput is the output for the mixer_status tool.
type MixerStatusOutput struct {
	State         string `json:"state"`
	SessionID     string `json:"session_id,omitempty"`
	PID           int    `json:"pid,omitempty"`
	Display       string `json:"display,omitempty"`
	AnchorX       int    `json:"anchor_x,omitempty"`
	AnchorY       int    `json:"anchor_y,omitempty"`
	Placed        bool   `json:"placed"`
	OpenSeconds   int64  `json:"open_seconds,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	LastError     string `json:"last_error,omitempty"`
}
