//go:build linux

package miner

import "golang.org/x/sys/unix"

// setAffinity pins the calling OS thread to cpu
func setAffinity(cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	// pid 0 is the calling thread
	return unix.SchedSetaffinity(0, &set)
}
