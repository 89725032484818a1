package main

import (
	"strings"
	"testing"
)

func TestDefaultArgs(t *testing.T) {
	cfg, err := parseArgs([]string{})

	if err != nil {
		t.Fatal(err)
	}
	if cfg.host != "0.0.0.0" || cfg.port != 8001 {
		t.Error("wrong defaults:", cfg.host, cfg.port)
	}
}

func TestExplicitHostPort(t *testing.T) {
	cfg, err := parseArgs([]string{"--host", "127.0.0.1", "--port", "9000"})

	if err != nil {
		t.Fatal(err)
	}
	if cfg.host != "127.0.0.1" || cfg.port != 9000 {
		t.Error("flags were not respected:", cfg.host, cfg.port)
	}
}

// The trailing positional argument is a compatibility slot and must not
// change anything.
func TestIgnoredPositional(t *testing.T) {
	without, err := parseArgs([]string{"--port", "9000"})

	if err != nil {
		t.Fatal(err)
	}

	with, err := parseArgs([]string{"--port", "9000", "/usr/bin/python3"})

	if err != nil {
		t.Fatal(err)
	}

	if with != without {
		t.Error("positional argument altered the configuration:", with, without)
	}
}

func TestTooManyPositionals(t *testing.T) {
	if _, err := parseArgs([]string{"a", "b"}); err == nil {
		t.Error("two positional arguments should be rejected")
	}
}

func TestNegativePortRejected(t *testing.T) {
	if _, err := parseArgs([]string{"--port", "-1"}); err == nil {
		t.Error("negative port should be rejected")
	}
}

func TestBanner(t *testing.T) {
	b := banner(config{host: "127.0.0.1", port: 9000})

	if !strings.Contains(b, "127.0.0.1") || !strings.Contains(b, "9000") {
		t.Error("banner does not contain host and port:", b)
	}
}
