//go:build windows

package tray

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"github.com/1broseidon/voltray/internal/notify"
)

const (
	wmApp      = 0x8000
	wmTrayIcon = wmApp + 10 // Shell_NotifyIcon callback
	wmTrayDo   = wmApp + 1  // drain queued operations
	wmTrayQuit = wmApp + 2

	ninSelect    = win.WM_USER + 0
	ninKeySelect = win.WM_USER + 1

	trayIconID = 1
	className  = "VoltrayTrayWindow"
)

var (
	user32             = windows.NewLazySystemDLL("user32.dll")
	procAppendMenuW    = user32.NewProc("AppendMenuW")
	procTrackPopupMenu = user32.NewProc("TrackPopupMenu")

	errNotRunning = errors.New("tray: icon is not running")
)

// Tray owns the hidden window and the notification-area icon. All window
// calls happen on the goroutine running Run; other goroutines queue work.
type Tray struct {
	opts Options
	cmds *commands

	mu      sync.Mutex
	hwnd    win.HWND
	nid     win.NOTIFYICONDATA
	ops     chan func()
	running bool

	taskbarCreated uint32
}

var _ notify.Notifier = (*Tray)(nil)

// New validates opts. The icon appears once Run is called.
func New(opts Options) (*Tray, error) {
	cmds, err := newCommands(opts)
	if err != nil {
		return nil, err
	}
	if opts.Tip == "" {
		opts.Tip = defaultTip
	}
	return &Tray{
		opts: opts,
		cmds: cmds,
		ops:  make(chan func(), 32),
	}, nil
}

// Run adds the icon and pumps window messages until ctx is cancelled.
func (t *Tray) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := t.createWindow(); err != nil {
		return err
	}
	t.addIcon()

	if t.opts.StartupBalloon {
		t.showBalloon(startupTitle, startupMessage, notify.LevelInfo)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			win.PostMessage(t.window(), wmTrayQuit, 0, 0)
		case <-done:
		}
	}()

	var msg win.MSG
	for win.GetMessage(&msg, 0, 0, 0) > 0 {
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
	}

	t.mu.Lock()
	t.running = false
	t.hwnd = 0
	t.mu.Unlock()
	return nil
}

// Notify shows a balloon from the tray icon. Safe from any goroutine.
func (t *Tray) Notify(title, message string, level notify.Level) error {
	return t.invoke(func() {
		t.showBalloon(title, message, level)
	})
}

func (t *Tray) window() win.HWND {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hwnd
}

func (t *Tray) invoke(fn func()) error {
	t.mu.Lock()
	hwnd, running := t.hwnd, t.running
	t.mu.Unlock()
	if !running {
		return errNotRunning
	}

	select {
	case t.ops <- fn:
	default:
		return fmt.Errorf("tray: operation queue full")
	}
	win.PostMessage(hwnd, wmTrayDo, 0, 0)
	return nil
}

func (t *Tray) createWindow() error {
	hInst := win.GetModuleHandle(nil)
	name, err := syscall.UTF16PtrFromString(className)
	if err != nil {
		return err
	}

	wc := win.WNDCLASSEX{
		CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
		LpfnWndProc:   windows.NewCallback(t.wndProc),
		HInstance:     hInst,
		LpszClassName: name,
	}
	// A second Run in the same process finds the class already registered.
	win.RegisterClassEx(&wc)

	hwnd := win.CreateWindowEx(0, name, name, 0, 0, 0, 0, 0, 0, 0, hInst, nil)
	if hwnd == 0 {
		return fmt.Errorf("tray: CreateWindowEx failed: %v", windows.GetLastError())
	}

	t.taskbarCreated = win.RegisterWindowMessage(syscall.StringToUTF16Ptr("TaskbarCreated"))

	t.mu.Lock()
	t.hwnd = hwnd
	t.running = true
	t.mu.Unlock()
	return nil
}

func (t *Tray) addIcon() {
	t.nid = win.NOTIFYICONDATA{}
	t.nid.CbSize = uint32(unsafe.Sizeof(t.nid))
	t.nid.HWnd = t.hwnd
	t.nid.UID = trayIconID
	t.nid.UFlags = win.NIF_ICON | win.NIF_MESSAGE | win.NIF_TIP
	t.nid.UCallbackMessage = wmTrayIcon
	t.nid.HIcon = win.LoadIcon(0, win.MAKEINTRESOURCE(win.IDI_APPLICATION))
	tip, _ := syscall.UTF16FromString(truncate(t.opts.Tip, len(t.nid.SzTip)))
	copy(t.nid.SzTip[:], tip)

	t.registerIcon()
}

func (t *Tray) registerIcon() {
	if !win.Shell_NotifyIcon(win.NIM_ADD, &t.nid) {
		t.cmds.logger.Warn("Shell_NotifyIcon add failed", "error", windows.GetLastError())
	}
	t.nid.UVersion = win.NOTIFYICON_VERSION_4
	win.Shell_NotifyIcon(win.NIM_SETVERSION, &t.nid)
}

func (t *Tray) removeIcon() {
	win.Shell_NotifyIcon(win.NIM_DELETE, &t.nid)
}

func (t *Tray) showBalloon(title, message string, level notify.Level) {
	infoTitle, _ := syscall.UTF16FromString(truncate(title, notifyTitleSize))
	infoText, _ := syscall.UTF16FromString(truncate(message, notifyBodySize))

	t.nid.UFlags = win.NIF_INFO
	t.nid.DwInfoFlags = balloonIcon(level)
	clear(t.nid.SzInfoTitle[:])
	clear(t.nid.SzInfo[:])
	copy(t.nid.SzInfoTitle[:], infoTitle)
	copy(t.nid.SzInfo[:], infoText)
	if !win.Shell_NotifyIcon(win.NIM_MODIFY, &t.nid) {
		t.cmds.logger.Debug("balloon not shown", "title", title)
	}

	t.nid.UFlags = win.NIF_ICON | win.NIF_MESSAGE | win.NIF_TIP
}

func (t *Tray) wndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	// Explorer restarted; the icon has to be added again.
	if t.taskbarCreated != 0 && msg == t.taskbarCreated {
		t.registerIcon()
		return 0
	}

	switch msg {
	case wmTrayIcon:
		switch uint32(lParam) & 0xFFFF {
		case ninSelect, ninKeySelect, win.WM_LBUTTONUP:
			t.cmds.run(cmdOpenMixer)
		case win.WM_RBUTTONUP, win.WM_CONTEXTMENU:
			t.showMenu(hwnd)
		}
		return 0

	case wmTrayDo:
		t.drainOps()
		return 0

	case wmTrayQuit:
		t.removeIcon()
		win.DestroyWindow(hwnd)
		return 0

	case win.WM_DESTROY:
		win.PostQuitMessage(0)
		return 0
	}
	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}

func (t *Tray) drainOps() {
	for {
		select {
		case fn := <-t.ops:
			func() {
				defer func() {
					if r := recover(); r != nil {
						t.cmds.logger.Error("tray operation panicked", "panic", r)
					}
				}()
				fn()
			}()
		default:
			return
		}
	}
}

func (t *Tray) showMenu(hwnd win.HWND) {
	menu := win.CreatePopupMenu()
	if menu == 0 {
		return
	}
	defer win.DestroyMenu(menu)

	for _, item := range menuItems {
		if item.id == 0 {
			procAppendMenuW.Call(uintptr(menu), uintptr(win.MF_SEPARATOR), 0, 0)
			continue
		}
		label, _ := syscall.UTF16PtrFromString(item.label)
		procAppendMenuW.Call(uintptr(menu), uintptr(win.MF_STRING), item.id, uintptr(unsafe.Pointer(label)))
	}

	var pt win.POINT
	win.GetCursorPos(&pt)
	// The menu only dismisses on an outside click when the owner is foreground.
	win.SetForegroundWindow(hwnd)
	id, _, _ := procTrackPopupMenu.Call(
		uintptr(menu),
		uintptr(win.TPM_RETURNCMD|win.TPM_RIGHTBUTTON),
		uintptr(pt.X),
		uintptr(pt.Y),
		0,
		uintptr(hwnd),
		0,
	)
	win.PostMessage(hwnd, win.WM_NULL, 0, 0)

	t.cmds.run(id)
}

func shellOpen(uri string) error {
	verb, err := windows.UTF16PtrFromString("open")
	if err != nil {
		return err
	}
	file, err := windows.UTF16PtrFromString(uri)
	if err != nil {
		return err
	}
	return windows.ShellExecute(0, verb, file, nil, nil, windows.SW_SHOWNORMAL)
}
