package main

import (
	"os"
	"runtime"
)

// The one object a bare slaved exposes: basic information about the server
// process, mirroring what clients of the predecessor tool used to probe first.
type processObject struct{}

func (p *processObject) Pid() int {
	return os.Getpid()
}

func (p *processObject) Hostname() (string, error) {
	return os.Hostname()
}

func (p *processObject) Getwd() (string, error) {
	return os.Getwd()
}

func (p *processObject) Getenv(key string) string {
	return os.Getenv(key)
}

func (p *processObject) GOOS() string {
	return runtime.GOOS
}

func (p *processObject) NumGoroutine() int {
	return runtime.NumGoroutine()
}
