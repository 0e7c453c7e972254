package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"portfolio_oracle/internal/app/oracle"
	"portfolio_oracle/internal/domain/entity"
)

// renderer prints transcript changes incrementally: new messages get a
// header, growing messages only print their new suffix.
type renderer struct {
	mu      sync.Mutex
	out     io.Writer
	printed map[string]int
	closed  map[string]bool
}

func newRenderer(out io.Writer) *renderer {
	return &renderer{out: out, printed: make(map[string]int), closed: make(map[string]bool)}
}

// follow renders on every transcript change until the returned stop is called.
// stop flushes the final state and may be called more than once.
func (r *renderer) follow(t *oracle.Transcript) func() {
	ch, unsubscribe := t.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range ch {
			r.render(t.Snapshot())
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			<-done
			r.render(t.Snapshot())
		})
	}
}

func (r *renderer) render(messages []entity.ChatMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range messages {
		n, seen := r.printed[m.ID]
		if !seen {
			fmt.Fprintf(r.out, "\n%s ", speaker(m.Type))
		}
		// контент только растет; сброс транскрипта дает новые ID
		if len(m.Content) > n {
			io.WriteString(r.out, m.Content[n:])
			r.printed[m.ID] = len(m.Content)
		} else if !seen {
			r.printed[m.ID] = 0
		}
		if m.Final() && !r.closed[m.ID] {
			r.closed[m.ID] = true
			if m.State == entity.MessageStalled {
				io.WriteString(r.out, " …")
			}
			io.WriteString(r.out, "\n")
		}
	}
}

func speaker(t entity.MessageType) string {
	if t == entity.MessageUser {
		return "🧑 You:"
	}
	return "🔮 Oracle:"
}

func printPortfolio(out io.Writer, address string, chainID uint64, p entity.Portfolio) {
	s := p.Summary
	fmt.Fprintf(out, "Wallet %s on chain %d\n", address, chainID)
	fmt.Fprintf(out, "  Total value:   $%.2f\n", s.TotalValue)
	fmt.Fprintf(out, "  Tokens held:   %d\n", s.TokenCount)
	fmt.Fprintf(out, "  Risk level:    %s (concentration %.4f)\n", strings.ToUpper(string(s.RiskLevel)), s.Concentration)
	for i, t := range s.TopTokens {
		fmt.Fprintf(out, "  %d. %-8s %s  $%.2f  %.2f%%\n", i+1, t.Token.Symbol, t.BalanceFormatted, t.USDValue, t.Percentage)
	}
}
