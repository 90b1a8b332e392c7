//go:build linux && !amd64

package sandbox

// No extra arch-specific syscalls to deny outside amd64 (IOPL/IOPERM/
// MODIFY_LDT are x86-only in the first place).
var deniedSyscallsArch = []uint32{}
