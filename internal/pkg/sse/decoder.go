package sse

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

const maxEventSize = 1 << 20

// Decoder splits an event stream into fragments in arrival order. It buffers
// only the bytes of the event currently being assembled.
type Decoder struct {
	scanner *bufio.Scanner
	pending []string
	done    bool
	skipped int
}

func NewDecoder(r io.Reader) *Decoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxEventSize)
	sc.Split(splitEvents)
	return &Decoder{scanner: sc}
}

// splitEvents режет поток по пустой строке между событиями.
func splitEvents(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.Index(data, []byte(EventDelimiter)); i >= 0 {
		return i + len(EventDelimiter), data[:i], nil
	}
	if atEOF {
		// хвост без разделителя: отдаем как есть, Next решит что с ним делать
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Next returns the next fragment's content. It returns ErrDone after the
// sentinel, ErrTruncated if the stream ends without it, or the underlying
// read error. Malformed payloads are skipped and counted.
func (d *Decoder) Next() (string, error) {
	for {
		if d.done {
			return "", ErrDone
		}
		if len(d.pending) > 0 {
			payload := d.pending[0]
			d.pending = d.pending[1:]
			if payload == DoneSentinel {
				d.done = true
				continue
			}
			var f Fragment
			if err := json.Unmarshal([]byte(payload), &f); err != nil {
				d.skipped++
				continue
			}
			if f.Content == "" {
				continue
			}
			return f.Content, nil
		}

		if !d.scanner.Scan() {
			if err := d.scanner.Err(); err != nil {
				return "", err
			}
			return "", ErrTruncated
		}
		d.pending = dataLines(d.scanner.Text())
	}
}

// Skipped reports how many malformed payloads were dropped so far.
func (d *Decoder) Skipped() int { return d.skipped }

func dataLines(event string) []string {
	var out []string
	for _, line := range strings.Split(event, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if payload, ok := strings.CutPrefix(line, DataPrefix); ok {
			out = append(out, payload)
		}
	}
	return out
}
