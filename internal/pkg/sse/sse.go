// Package sse implements the text/event-stream framing used by the oracle
// endpoint: one JSON object per event, "data: " prefixed, events separated by
// a blank line, and a literal [DONE] sentinel at the end.
package sse

import (
	"errors"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DataPrefix     = "data: "
	EventDelimiter = "\n\n"
	DoneSentinel   = "[DONE]"
	ContentType    = "text/event-stream"
)

var (
	// ErrDone is returned by Decoder.Next once the sentinel has been read.
	ErrDone = errors.New("sse: done")
	// ErrTruncated means the byte stream ended before the sentinel.
	ErrTruncated = errors.New("sse: stream ended without done sentinel")
)

// Fragment is the payload of one streamed event.
type Fragment struct {
	Content string `json:"content"`
}
