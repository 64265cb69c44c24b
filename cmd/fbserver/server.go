package main

import (
	"bufio"
	"io"
	"net"

	"github.com/fieldhub/fbserver/internal/change"
	"github.com/fieldhub/fbserver/internal/dispatch"
	"github.com/fieldhub/fbserver/internal/tablewriter"
	"github.com/fieldhub/fbserver/pkg/log"
	"github.com/google/uuid"
)

// connLines adapts a buffered connection reader to tablewriter.LineSource,
// the one place this module touches the socket/line-buffering machinery
// spec.md §1 otherwise treats as an external collaborator. It exists here,
// at the outermost wiring layer, only because some real transport has to
// supply it for the binary to run at all.
type connLines struct {
	r *bufio.Reader
}

func (c *connLines) ReadLine() (string, bool, error) {
	line, err := c.r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return trimEOL(line), false, nil
		}
		return "", true, nil
	}
	return trimEOL(line), false, nil
}

func trimEOL(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// serveConfigPort accepts connections on ln until it is closed, dispatching
// each to handleConn in its own goroutine.
func serveConfigPort(ln net.Listener, d *dispatch.Dispatcher) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go handleConn(conn, d)
	}
}

func handleConn(conn net.Conn, d *dispatch.Dispatcher) {
	id := uuid.NewString()
	cl := log.Conn(id)
	cl.Infof("connection from %s", conn.RemoteAddr())
	defer conn.Close()

	lines := &connLines{r: bufio.NewReader(conn)}
	w := bufio.NewWriter(conn)
	var tracker change.Tracker

	for {
		line, eof, _ := lines.ReadLine()
		if eof {
			cl.Infof("connection closed")
			return
		}
		if line == "" {
			continue
		}

		result := d.Dispatch(&tracker, line)
		if err := writeResult(w, lines, result); err != nil {
			cl.Warnf("write failed: %s", err)
			return
		}
	}
}

func writeResult(w *bufio.Writer, lines tablewriter.LineSource, r dispatch.Result) error {
	switch r.Kind {
	case dispatch.KindOne:
		if r.Err != nil {
			return writeLine(w, "ERR "+r.Err.Error())
		}
		if r.Value != "" {
			return writeLine(w, "OK ="+r.Value)
		}
		return writeLine(w, "OK")

	case dispatch.KindMany:
		for _, item := range r.Items {
			if err := writeLine(w, "!"+item); err != nil {
				return err
			}
		}
		return writeLine(w, ".")

	case dispatch.KindError:
		return writeLine(w, "ERR "+r.Err.Error())

	case dispatch.KindTable:
		ingestErr := tablewriter.Ingest(lines, r.Table, r.Header, r.Discard)
		err := r.Err
		if err == nil {
			err = ingestErr
		}
		if err != nil {
			return writeLine(w, "ERR "+err.Error())
		}
		return writeLine(w, "OK")

	default:
		return writeLine(w, "ERR internal: unknown response kind")
	}
}

func writeLine(w *bufio.Writer, s string) error {
	if _, err := w.WriteString(s + "\n"); err != nil {
		return err
	}
	return w.Flush()
}
