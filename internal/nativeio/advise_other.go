//go:build unix && !linux

package nativeio

func adviseSequential(int) {}
