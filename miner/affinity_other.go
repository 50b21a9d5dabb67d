//go:build !linux

package miner

import "errors"

func setAffinity(cpu int) error {
	return errors.New("thread affinity is not supported on this platform")
}
