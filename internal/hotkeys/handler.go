package hotkeys

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/voltray/internal/controller"
	"github.com/1broseidon/voltray/internal/platform"
)

// Toggler is the controller operation bound to the hotkey.
type Toggler interface {
	Toggle(ctx context.Context) (controller.Result, error)
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages the global toggle shortcut.
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	toggler Toggler
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler. The backend must be the X11 backend.
func NewHandler(backend platform.Backend, toggler Toggler) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, fmt.Errorf("global hotkeys need an X11 backend: %w", platform.ErrUnsupported)
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:      xu,
		root:    accessor.RootWindow(),
		toggler: toggler,
	}, nil
}

// Register binds keySequence (e.g. "Mod4-v") to Toggle.
//
// Key callbacks run on the X event loop; the toggle is handed to a goroutine
// so a slow spawn never stalls event processing.
func (h *Handler) Register(keySequence string) error {
	keySequence = strings.TrimSpace(keySequence)
	if keySequence == "" {
		return fmt.Errorf("hotkey is empty")
	}
	return h.RegisterFunc(keySequence, func() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			res, err := h.toggler.Toggle(ctx)
			if err != nil {
				slog.Warn("hotkey toggle failed", "key", keySequence, "err", err)
				return
			}
			slog.Info("hotkey toggle", "key", keySequence, "result", res.String())
		}()
	})
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	caps := uint16(xproto.ModMaskLock)
	xevent.IgnoreMods = ignoreMasks(caps, modMaskForKeysym(xu, "Num_Lock"), modMaskForKeysym(xu, "Scroll_Lock"))
}

// ignoreMasks returns every combination of the lock modifiers, including the
// empty mask, so the hotkey fires regardless of CapsLock/NumLock/ScrollLock.
func ignoreMasks(caps, numLock, scrollLock uint16) []uint16 {
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	unique := map[uint16]struct{}{0: {}}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}
	sort.Slice(ignore, func(i, j int) bool { return ignore[i] < ignore[j] })
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
