//go:build windows

package process

import (
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
)

func findByName(name string) ([]int, error) {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("CreateToolhelp32Snapshot: %w", err)
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	if err := windows.Process32First(snapshot, &entry); err != nil {
		return nil, fmt.Errorf("Process32First: %w", err)
	}

	var pids []int
	for {
		if matchesName(windows.UTF16ToString(entry.ExeFile[:]), name) {
			pids = append(pids, int(entry.ProcessID))
		}
		if err := windows.Process32Next(snapshot, &entry); err != nil {
			break
		}
	}
	return pids, nil
}

// DefaultMixerPath returns SndVol.exe from the native system directory. A
// 32-bit build on 64-bit Windows goes through Sysnative to dodge redirection.
func DefaultMixerPath() string {
	windir := os.Getenv("WINDIR")
	if windir == "" {
		if dir, err := windows.GetWindowsDirectory(); err == nil {
			windir = dir
		} else {
			windir = `C:\Windows`
		}
	}

	sysDir := "System32"
	var wow64 bool
	if err := windows.IsWow64Process(windows.CurrentProcess(), &wow64); err == nil && wow64 {
		sysDir = "Sysnative"
	}
	return filepath.Join(windir, sysDir, "SndVol.exe")
}

// DefaultMixerArgs passes the packed anchor to SndVol's -t switch.
func DefaultMixerArgs() []string {
	return []string{"-t", HintToken}
}
