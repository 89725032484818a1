package log

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"
)

const (
	// Log absolutely nothing
	LOGLEVEL_NONE int = iota
	// Log situations that are not expected to happen and are difficult to handle
	// (e.g. by closing the connection without further consideration)
	LOGLEVEL_ERRORS
	// Log non-critical situations that might happen, but shouldn't
	// (e.g. a request for an unknown object)
	LOGLEVEL_WARNINGS
	// Log situations that are expected, but important for the operation
	LOGLEVEL_INFO
	// Log everything
	LOGLEVEL_DEBUG
)

const logger_flags = log.LstdFlags | log.Lmicroseconds

var logger *log.Logger
var loglevel int

func init() {
	logger = log.New(os.Stderr, "slaverpc ", logger_flags)
	rand.Seed(time.Now().UnixNano())
}

var loglevel_strings []string = []string{"[NON]", "[ERR]", "[WRN]", "[INF]", "[DBG]"}

func loglevel_to_string(loglevel int) string {
	return loglevel_strings[loglevel]
}

// Set the global RPC log level
func SetLoglevel(ll int) {
	loglevel = ll
}

/*
Configure the process-wide logger in one call, as done by server daemons on startup.
quiet limits output to errors, otherwise informational logging is on. If logfile is
not empty, log lines go to that file instead of stderr.
*/
func SetupLogger(quiet bool, logfile string) error {
	if quiet {
		loglevel = LOGLEVEL_ERRORS
	} else {
		loglevel = LOGLEVEL_INFO
	}

	if logfile != "" {
		f, err := os.OpenFile(logfile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)

		if err != nil {
			return err
		}

		logger = log.New(f, logger.Prefix(), logger_flags)
	}
	return nil
}

// Performance-enhancer: Prevent unnecessary log calls
func IsLoggingEnabled(ll int) bool {
	return loglevel >= ll
}

func SRPC_log(ll int, what ...interface{}) {
	if ll <= loglevel {
		logger.Printf("%s: %s", loglevel_to_string(ll), fmt.Sprintln(what...))
	}
}

func mapToChar(i int) byte {
	i = i % (10 + 26 + 26)
	if i < 10 {
		return byte('0' + i)
	} else if i < 10+26 {
		return byte('A' + i - 10)
	} else if i < 10+26+26 {
		return byte('a' + i - 10 - 26)
	}
	return byte('_')
}

// Returns a short random alphanumeric string.
// This is used to assign special tokens to RPCs in order to track them across log lines.
func GetLogToken() string {
	str := make([]byte, 6)
	for i := range str {
		str[i] = mapToChar(rand.Int())
	}
	return string(str)
}
