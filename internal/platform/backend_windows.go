//go:build windows

package platform

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

const monitorInfoPrimary = 0x1

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
	procSetProcessDPIAware  = user32.NewProc("SetProcessDPIAware")
)

// Enumeration callbacks are created once; windows.NewCallback slots are finite.
var (
	enumMu     sync.Mutex
	enumPID    uint32
	enumFound  windows.HWND
	enumWindow = windows.NewCallback(func(hwnd windows.HWND, _ uintptr) uintptr {
		var pid uint32
		if _, err := windows.GetWindowThreadProcessId(hwnd, &pid); err != nil {
			return 1
		}
		if pid == enumPID && windows.IsWindowVisible(hwnd) {
			enumFound = hwnd
			return 0
		}
		return 1
	})

	monitorMu      sync.Mutex
	monitorHandles []win.HMONITOR
	enumMonitor    = windows.NewCallback(func(hMonitor, _, _, _ uintptr) uintptr {
		monitorHandles = append(monitorHandles, win.HMONITOR(hMonitor))
		return 1
	})
)

// WindowsBackend talks to user32 directly. All coordinates are physical pixels.
type WindowsBackend struct{}

var _ Backend = (*WindowsBackend)(nil)

// NewBackend marks the process DPI aware and returns the Win32 backend.
func NewBackend() (Backend, error) {
	if err := procSetProcessDPIAware.Find(); err == nil {
		procSetProcessDPIAware.Call()
	}
	return &WindowsBackend{}, nil
}

// Displays enumerates monitors with their work areas.
func (b *WindowsBackend) Displays() ([]Display, error) {
	monitorMu.Lock()
	defer monitorMu.Unlock()

	monitorHandles = monitorHandles[:0]
	r1, _, callErr := procEnumDisplayMonitors.Call(0, 0, enumMonitor, 0)
	if r1 == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors: %w", callErr)
	}

	displays := make([]Display, 0, len(monitorHandles))
	for i, h := range monitorHandles {
		var mi win.MONITORINFO
		mi.CbSize = uint32(unsafe.Sizeof(mi))
		if !win.GetMonitorInfo(h, &mi) {
			continue
		}
		displays = append(displays, Display{
			ID:      i,
			Name:    fmt.Sprintf("DISPLAY%d", i+1),
			Primary: mi.DwFlags&monitorInfoPrimary != 0,
			Bounds:  rectFromWin(mi.RcMonitor),
			Usable:  rectFromWin(mi.RcWork),
		})
	}
	if len(displays) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}
	return displays, nil
}

// CursorPos returns the physical pointer position.
func (b *WindowsBackend) CursorPos() (Point, error) {
	var pt win.POINT
	if !win.GetCursorPos(&pt) {
		return Point{}, fmt.Errorf("GetCursorPos failed: %v", windows.GetLastError())
	}
	return Point{X: int(pt.X), Y: int(pt.Y)}, nil
}

// FindWindowByPID walks top-level windows once and returns the first visible
// window owned by pid.
func (b *WindowsBackend) FindWindowByPID(pid int) (WindowID, bool, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumPID = uint32(pid)
	enumFound = 0
	// EnumWindows reports an error when the callback stops early; only the
	// result matters here.
	err := windows.EnumWindows(enumWindow, nil)
	if enumFound != 0 {
		return WindowID(enumFound), true, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("EnumWindows: %w", err)
	}
	return 0, false, nil
}

// WindowRect returns the window's outer rectangle.
func (b *WindowsBackend) WindowRect(windowID WindowID) (Rect, error) {
	var r win.RECT
	if !win.GetWindowRect(win.HWND(windowID), &r) {
		return Rect{}, fmt.Errorf("GetWindowRect failed: %v", windows.GetLastError())
	}
	return rectFromWin(r), nil
}

// MoveWindow applies a single SetWindowPos that keeps size, z-order and activation.
func (b *WindowsBackend) MoveWindow(windowID WindowID, topLeft Point) error {
	const flags = win.SWP_NOSIZE | win.SWP_NOZORDER | win.SWP_NOACTIVATE
	if !win.SetWindowPos(win.HWND(windowID), 0, int32(topLeft.X), int32(topLeft.Y), 0, 0, flags) {
		return fmt.Errorf("SetWindowPos failed: %v", windows.GetLastError())
	}
	return nil
}

// Close is a no-op; the backend holds no handles.
func (b *WindowsBackend) Close() error {
	return nil
}

func rectFromWin(r win.RECT) Rect {
	return Rect{
		X:      int(r.Left),
		Y:      int(r.Top),
		Width:  int(r.Right - r.Left),
		Height: int(r.Bottom - r.Top),
	}
}
