//go:build !windows

package toolchain

import "syscall"

func sysProcAttr() *syscall.SysProcAttr {
	return nil
}
