package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

// flags mirrors cmd/fbserver's command line surface: the config and data
// ports, the required database file, the *IDN? string and the persistence
// scheduler's poll:holdoff:backoff timing.
type flags struct {
	port     int
	dataPort int
	dbPath   string
	ident    string
	timing   timingFlag
	help     bool
}

// timingFlag parses "-t poll:holdoff:backoff" (each a Go duration string,
// e.g. "5s:1s:30s") into a persistence.Timing.
type timingFlag struct {
	poll, holdoff, backoff time.Duration
}

func (t *timingFlag) String() string {
	return fmt.Sprintf("%s:%s:%s", t.poll, t.holdoff, t.backoff)
}

func (t *timingFlag) Set(s string) error {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return fmt.Errorf("timing must be poll:holdoff:backoff, got %q", s)
	}
	durations := make([]time.Duration, 3)
	for i, p := range parts {
		d, err := time.ParseDuration(p)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", p, err)
		}
		durations[i] = d
	}
	t.poll, t.holdoff, t.backoff = durations[0], durations[1], durations[2]
	return nil
}

func parseFlags(args []string) (*flags, error) {
	fs := flag.NewFlagSet("fbserver", flag.ContinueOnError)
	f := &flags{
		timing: timingFlag{poll: 2 * time.Second, holdoff: 500 * time.Millisecond, backoff: 10 * time.Second},
	}

	fs.IntVar(&f.port, "p", 8888, "config/command port to listen on")
	fs.IntVar(&f.dataPort, "d", 8889, "data-capture streaming port (connections are accepted and closed; no data is streamed)")
	fs.StringVar(&f.dbPath, "c", "", "path to the database text file (required)")
	fs.StringVar(&f.ident, "f", "FIELDHUB 1.0", "string returned by *IDN?")
	fs.Var(&f.timing, "t", "persistence scheduler timing as poll:holdoff:backoff")
	fs.BoolVar(&f.help, "h", false, "print usage and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: fbserver -c <database> [options]\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if f.help {
		fs.Usage()
		return f, flag.ErrHelp
	}
	if f.dbPath == "" {
		return nil, fmt.Errorf("-c <database> is required")
	}
	return f, nil
}
