/*
Slaved runs a slave server on a plain TCP port: any connected client may call
methods and access fields of the objects registered in this process. It is
flag-compatible with its predecessor tool, including the ignored trailing
positional argument some callers still pass.

	$ slaved --host 0.0.0.0 --port 8001

The protocol options are deliberately permissive (public attribute access,
raw values, no authentication) to stay compatible; do not point slaved at a
network you don't trust.
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/dermesser/slaverpc/log"
	"github.com/dermesser/slaverpc/server"
	"github.com/dermesser/slaverpc/slave"
)

type config struct {
	host string
	port uint
}

func parseArgs(args []string) (config, error) {
	var cfg config

	fs := flag.NewFlagSet("slaved", flag.ContinueOnError)
	fs.StringVar(&cfg.host, "host", "0.0.0.0", "Host to bind to")
	fs.UintVar(&cfg.port, "port", 8001, "Port to bind to")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	// One positional argument is accepted and ignored; the predecessor tool
	// took an interpreter path there.
	if fs.NArg() > 1 {
		return cfg, errors.New("too many positional arguments")
	}

	return cfg, nil
}

func banner(cfg config) string {
	return fmt.Sprintf("Starting slaverpc slave server on %s:%d", cfg.host, cfg.port)
}

func main() {
	cfg, err := parseArgs(os.Args[1:])

	if err != nil {
		os.Exit(2)
	}

	fmt.Println(banner(cfg))

	log.SetupLogger(false, "")

	srv, err := server.NewServer(cfg.host, cfg.port, uint(runtime.NumCPU()), server.DefaultOptions(), nil)

	if err != nil {
		fmt.Fprintln(os.Stderr, "slaved:", err)
		os.Exit(1)
	}

	registry := slave.NewRegistry()

	if err := registry.Register("Process", &processObject{}); err != nil {
		fmt.Fprintln(os.Stderr, "slaved:", err)
		os.Exit(1)
	}

	if err := slave.Register(srv, registry); err != nil {
		fmt.Fprintln(os.Stderr, "slaved:", err)
		os.Exit(1)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	go func() {
		<-interrupt
		srv.Stop()
	}()

	if err := srv.Start(); err != nil {
		fmt.Fprintln(os.Stderr, "slaved:", err)
		os.Exit(1)
	}

	fmt.Println("\nServer stopped")
}
