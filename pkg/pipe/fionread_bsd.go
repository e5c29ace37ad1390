//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package pipe

// _IOR('f', 127, int); x/sys does not export FIONREAD for these targets.
const fionread = 0x4004667f
