//go:build !windows

package process

import "syscall"

// hiddenProcAttr detaches the child into its own process group so terminal
// signals aimed at the host do not reach it.
func hiddenProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}
