package aiclient

import (
	"context"
	"time"

	"portfolio_oracle/internal/app/port"
)

// DefaultScript is streamed when no AI backend is configured.
const DefaultScript = `✨ The mists part, traveler, and your ledger glows in the dark. ` +
	`I see coins gathered in the shadow of one great tower; the stars warn that a single pillar bears the weight of your fortune. ` +
	`Scatter a few seeds into new soil before the next moon, and keep a stable lantern lit for stormy nights. ` +
	`🔮 The cosmos favors the patient, yet it rewards the prepared. Fortune smiles on you. 🌙`

// ScriptedGenerator streams a fixed text word by word. It implements port.TextGenerator.
type ScriptedGenerator struct {
	script string
	delay  time.Duration
}

// NewScriptedGenerator creates a generator; an empty script selects DefaultScript.
// delay is the pause between words (0 для тестов).
func NewScriptedGenerator(script string, delay time.Duration) *ScriptedGenerator {
	if script == "" {
		script = DefaultScript
	}
	return &ScriptedGenerator{script: script, delay: delay}
}

// Generate ignores the prompt and replays the script.
func (g *ScriptedGenerator) Generate(ctx context.Context, _ port.GenerateRequest) (port.FragmentStream, error) {
	return &scriptedStream{ctx: ctx, words: splitKeepingSpaces(g.script), delay: g.delay}, nil
}

// splitKeepingSpaces режет текст на слова, сохраняя пробел перед каждым словом,
// так что склейка фрагментов дает исходную строку.
func splitKeepingSpaces(s string) []string {
	var out []string
	start := 0
	for i := 1; i < len(s); i++ {
		if s[i] == ' ' && s[i-1] != ' ' {
			out = append(out, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

type scriptedStream struct {
	ctx     context.Context
	words   []string
	pos     int
	delay   time.Duration
	current string
	err     error
}

func (s *scriptedStream) Next() bool {
	if s.err != nil || s.pos >= len(s.words) {
		return false
	}
	if s.delay > 0 && s.pos > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-s.ctx.Done():
			timer.Stop()
			s.err = s.ctx.Err()
			return false
		case <-timer.C:
		}
	} else if err := s.ctx.Err(); err != nil {
		s.err = err
		return false
	}
	s.current = s.words[s.pos]
	s.pos++
	return true
}

func (s *scriptedStream) Fragment() string { return s.current }

func (s *scriptedStream) Err() error { return s.err }

func (s *scriptedStream) Close() error {
	s.pos = len(s.words)
	return nil
}

var _ port.TextGenerator = (*ScriptedGenerator)(nil)

