package sse

import (
	"io"
)

// Encoder writes fragments in the oracle wire format.
type Encoder struct {
	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// WriteFragment writes `data: {"content":...}\n\n`.
func (e *Encoder) WriteFragment(content string) error {
	payload, err := json.Marshal(Fragment{Content: content})
	if err != nil {
		return err
	}
	buf := make([]byte, 0, len(DataPrefix)+len(payload)+len(EventDelimiter))
	buf = append(buf, DataPrefix...)
	buf = append(buf, payload...)
	buf = append(buf, EventDelimiter...)
	_, err = e.w.Write(buf)
	return err
}

// WriteDone writes the terminating sentinel event.
func (e *Encoder) WriteDone() error {
	_, err := io.WriteString(e.w, DataPrefix+DoneSentinel+EventDelimiter)
	return err
}
