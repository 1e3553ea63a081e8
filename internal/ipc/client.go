package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/voltray/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for an explicit socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest writes one JSON line and reads one JSON line back. The whole
// exchange shares a single deadline.
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", req.Command, err)
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read %s reply: %w", req.Command, err)
	}
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends cmd and decodes the reply data into out, when out is non-nil.
func (c *Client) call(cmd CommandType, out any) error {
	resp, err := c.sendRequest(&Request{Command: cmd})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s reply: %w", cmd, err)
	}
	return nil
}

// Toggle opens or closes the mixer and returns "opened" or "closed".
func (c *Client) Toggle() (string, error) {
	var data ToggleData
	err := c.call(CommandToggle, &data)
	return data.Result, err
}

// Close dismisses the mixer if one is open.
func (c *Client) Close() (bool, error) {
	var data CloseData
	err := c.call(CommandClose, &data)
	return data.Closed, err
}

// Reload asks the daemon to re-read its config file.
func (c *Client) Reload() error {
	return c.call(CommandReload, nil)
}

// GetStatus returns the daemon and mixer status.
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Ping checks that the daemon answers.
func (c *Client) Ping() error {
	return c.call(CommandGetStatus, nil)
}
