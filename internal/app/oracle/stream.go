package oracle

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"portfolio_oracle/internal/domain/entity"
	"portfolio_oracle/internal/pkg/sse"
)

// Consume decodes an event stream into slot. Fragments are applied in
// arrival order as a running string. Whatever arrived before a failure stays
// in the transcript and the message is marked stalled.
func Consume(r io.Reader, slot *Slot) (entity.MessageState, error) {
	dec := sse.NewDecoder(r)
	var running strings.Builder
	for {
		frag, err := dec.Next()
		switch {
		case err == nil:
			running.WriteString(frag)
			slot.Set(running.String())
		case errors.Is(err, sse.ErrDone):
			slot.Finish(entity.MessageComplete)
			return entity.MessageComplete, nil
		case errors.Is(err, sse.ErrTruncated):
			slot.Finish(entity.MessageStalled)
			return entity.MessageStalled, entity.ErrStreamTruncated
		default:
			slot.Finish(entity.MessageStalled)
			return entity.MessageStalled, fmt.Errorf("%w: %v", entity.ErrStreamTransport, err)
		}
	}
}
