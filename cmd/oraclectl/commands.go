package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"portfolio_oracle/internal/app/oracle"
	"portfolio_oracle/internal/domain/entity"
	"portfolio_oracle/internal/pkg/logger"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func (s *cliState) newPortfolioCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "Print the portfolio summary of one or more wallets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addrs, err := s.addresses()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			var failed int
			for _, addr := range addrs {
				p, err := s.api.FetchPortfolio(ctx, addr, s.flags.chainID)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", addr, err)
					continue
				}
				if s.flags.jsonOutput {
					out, _ := json.MarshalIndent(p, "", "  ")
					fmt.Fprintln(cmd.OutOrStdout(), string(out))
					continue
				}
				printPortfolio(cmd.OutOrStdout(), addr, s.flags.chainID, p)
			}
			if failed == len(addrs) {
				return errors.New("no portfolio could be fetched")
			}
			return nil
		},
	}
}

func (s *cliState) newFortuneCommand() *cobra.Command {
	var questions []string
	cmd := &cobra.Command{
		Use:   "fortune",
		Short: "Stream the oracle's reading, then ask follow-up questions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addrs, err := s.addresses()
			if err != nil {
				return err
			}
			if len(addrs) > 1 {
				logger.Warn("fortune reads one wallet, using the first", "address", addrs[0])
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			session := oracle.NewSession(s.api, logger.Named("session"), addrs[0], s.flags.chainID)
			p, err := session.LoadPortfolio(ctx)
			if err != nil {
				return fmt.Errorf("failed to load portfolio: %w", err)
			}
			if !s.flags.jsonOutput {
				printPortfolio(cmd.OutOrStdout(), addrs[0], s.flags.chainID, p)
			}

			r := newRenderer(cmd.OutOrStdout())
			stopRender := r.follow(session.Transcript())
			defer stopRender()

			if _, err := session.GenerateFortune(ctx); err != nil {
				return reportStall(err)
			}
			for _, q := range questions {
				if _, err := session.AskFollowUp(ctx, q); err != nil {
					return reportStall(err)
				}
			}
			stopRender()

			if s.flags.jsonOutput {
				out, _ := json.MarshalIndent(session.Transcript().Snapshot(), "", "  ")
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&questions, "ask", nil, "follow-up question (repeatable)")
	return cmd
}

// reportStall keeps partial output on screen and turns the stall into a short error.
func reportStall(err error) error {
	switch {
	case errors.Is(err, entity.ErrStreamTruncated):
		return errors.New("the oracle fell silent before finishing")
	case errors.Is(err, entity.ErrStreamTransport):
		return fmt.Errorf("connection to the oracle was lost: %w", err)
	default:
		return err
	}
}
