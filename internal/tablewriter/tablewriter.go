// Package tablewriter implements the multi-line bulk table ingest of
// spec.md §4.10: after a "name<" command line, payload lines follow (ASCII
// decimal words or base64-encoded bytes) until a blank line or EOF.
package tablewriter

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/fieldhub/fbserver/internal/fielderr"
)

// Target is the sink a class's PutTable hands back: it receives decoded
// 32-bit words in payload order. Ingest places no limit on how many words
// it writes; any bound is up to the Target.
type Target interface {
	Write(words []uint32) error
	Close(success bool, wordCount int) error
}

// dummyTarget discards everything. Used whenever table open fails (bad
// header or the class refused), so the connection still drains the
// payload and stays synchronized (spec.md §8 property 8).
type dummyTarget struct{}

func (dummyTarget) Write([]uint32) error                { return nil }
func (dummyTarget) Close(bool, int) error                { return nil }

var Dummy Target = dummyTarget{}

// Header is the parsed form of the text following "name<".
type Header struct {
	Append bool
	Base64 bool
}

// ParseHeader parses the optional "<" (append) and "B" (base64) flags.
// Anything else is a ParseError.
func ParseHeader(tail string) (Header, error) {
	var h Header
	if strings.HasPrefix(tail, "<") {
		h.Append = true
		tail = tail[1:]
	}
	if strings.HasPrefix(tail, "B") {
		h.Base64 = true
		tail = tail[1:]
	}
	if tail != "" {
		return Header{}, fielderr.Parsef("malformed table header %q", tail)
	}
	return h, nil
}

// LineSource abstracts the connection's buffered line reader — a
// suspension point the core treats as an external collaborator per
// spec.md §1/§5.
type LineSource interface {
	// ReadLine returns the next payload line. eof is true if the
	// connection ended before a blank-line terminator was seen.
	ReadLine() (line string, eof bool, err error)
}

// Ingest drains lines from r until a blank line or EOF, decoding each
// according to h.Base64, writing decoded words to target, and finally
// closing target. Decode errors are remembered but never stop the drain —
// the connection must stay synchronized on the next command line. If
// discard is true, lines are consumed without any attempt at decoding
// (the dummy-sink fallback path).
func Ingest(r LineSource, target Target, h Header, discard bool) error {
	var firstErr error
	wordCount := 0
	var carry []byte

	for {
		line, eof, err := r.ReadLine()
		if err != nil {
			return err
		}
		if eof {
			if firstErr == nil {
				firstErr = fielderr.New(fielderr.Io, "unexpected end of connection reading table payload")
			}
			break
		}
		if line == "" {
			break
		}
		if discard {
			continue
		}

		var words []uint32
		var derr error
		if h.Base64 {
			words, derr = decodeBase64Line(line, &carry)
		} else {
			words, derr = decodeASCIILine(line)
		}
		if derr != nil {
			if firstErr == nil {
				firstErr = derr
			}
			continue
		}
		wordCount += len(words)
		if len(words) > 0 {
			if werr := target.Write(words); werr != nil && firstErr == nil {
				firstErr = werr
			}
		}
	}

	if !discard && len(carry) != 0 && firstErr == nil {
		firstErr = fielderr.Parsef("Invalid data length")
	}

	closeErr := target.Close(firstErr == nil, wordCount)
	if firstErr != nil {
		return firstErr
	}
	return closeErr
}

func decodeASCIILine(line string) ([]uint32, error) {
	fields := strings.Fields(line)
	words := make([]uint32, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fielderr.Parsef("invalid table value %q", f)
		}
		words = append(words, uint32(v))
	}
	return words, nil
}

// decodeBase64Line decodes line as standard base64 and folds any leftover
// bytes from a previous line (carry) into this one so words split across
// line boundaries still assemble correctly.
func decodeBase64Line(line string, carry *[]byte) ([]uint32, error) {
	raw, err := base64.StdEncoding.DecodeString(line)
	if err != nil {
		return nil, fielderr.Parsef("invalid base64 table payload")
	}
	buf := append(*carry, raw...)
	n := len(buf) / 4
	words := make([]uint32, n)
	for i := 0; i < n; i++ {
		b := buf[i*4 : i*4+4]
		words[i] = uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	}
	*carry = append([]byte{}, buf[n*4:]...)
	return words, nil
}
