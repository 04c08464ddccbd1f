package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vijay-prabhu/gcgcards/internal/database"
	"github.com/vijay-prabhu/gcgcards/internal/filter"
	"github.com/vijay-prabhu/gcgcards/internal/lookup"
	"github.com/vijay-prabhu/gcgcards/internal/output"
	"github.com/vijay-prabhu/gcgcards/internal/scoring"
)

func (s *Server) registerHandlers() {
	s.handlers[ToolSearchCards] = s.handleSearchCards
	s.handlers[ToolScoreCard] = s.handleScoreCard
	s.handlers[ToolSetWeightedAdjustment] = s.handleSetWeightedAdjustment
	s.handlers[ToolCountEffects] = s.handleCountEffects
	if s.journal != nil {
		s.handlers[ToolListAdjustments] = s.handleListAdjustments
	}
}

// controller builds a controller that reports into p. Each tool call gets its
// own presenter so concurrent calls never share a display.
func (s *Server) controller(p lookup.Presenter) *lookup.Controller {
	var opts []lookup.Option
	if s.journal != nil {
		opts = append(opts, lookup.WithJournal(s.journal))
	}
	return lookup.New(s.backend, p, s.logger, opts...)
}

func decodeParams(params json.RawMessage, v interface{}) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

// statusError returns the status the presenter ended on as the tool error,
// so MCP clients see the same message a user of the page would.
func statusError(p *lookup.Capture, err error) error {
	if st, ok := p.Status(); ok && st.IsError() {
		return errors.New(st.Message)
	}
	return err
}

type cardsResult struct {
	Status string              `json:"status"`
	Count  int                 `json:"count"`
	Cards  []output.ScoredCard `json:"cards"`
}

func newCardsResult(p *lookup.Capture) cardsResult {
	cards, _ := p.Cards()
	result := cardsResult{
		Count: len(cards),
		Cards: output.NewScoredCards(cards),
	}
	if st, ok := p.Status(); ok {
		result.Status = st.Message
	}
	return result
}

func (s *Server) handleSearchCards(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var criteria filter.Criteria
	if err := decodeParams(params, &criteria); err != nil {
		return nil, err
	}

	p := lookup.NewCapture()
	if _, err := s.controller(p).Search(ctx, criteria); err != nil {
		return nil, statusError(p, err)
	}
	return newCardsResult(p), nil
}

type scoreCardParams struct {
	CardNo string `json:"cardNo"`
}

type scoreCardResult struct {
	output.ScoredCard
	Breakdown []string `json:"Breakdown,omitempty"`
}

func (s *Server) handleScoreCard(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p scoreCardParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if strings.TrimSpace(p.CardNo) == "" {
		return nil, fmt.Errorf("cardNo is required")
	}

	c, err := s.controller(lookup.NewCapture()).Find(ctx, p.CardNo)
	if err != nil {
		return nil, err
	}

	result := scoreCardResult{ScoredCard: output.NewScoredCard(c)}
	view := output.NewScoreView(c)
	for _, line := range view.Lines {
		result.Breakdown = append(result.Breakdown, line.Name+"："+line.Text)
	}
	return result, nil
}

type setAdjustmentParams struct {
	CardNo     string          `json:"cardNo"`
	Adjustment string          `json:"adjustment"`
	Criteria   filter.Criteria `json:"criteria"`
}

func (s *Server) handleSetWeightedAdjustment(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p setAdjustmentParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if strings.TrimSpace(p.CardNo) == "" {
		return nil, fmt.Errorf("cardNo is required")
	}

	capture := lookup.NewCapture()
	if err := s.controller(capture).SaveAdjustment(ctx, p.CardNo, p.Adjustment, p.Criteria); err != nil {
		return nil, statusError(capture, err)
	}

	result := newCardsResult(capture)
	// The refresh search replaces the save status; report both.
	if history := capture.History(); len(history) > 1 {
		result.Status = history[len(history)-2].Message + " " + result.Status
	}
	return result, nil
}

type countEffectsParams struct {
	Text string `json:"text"`
}

type countEffectsResult struct {
	Count int      `json:"count"`
	Lines []string `json:"lines"`
}

func (s *Server) handleCountEffects(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p countEffectsParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	lines := output.EffectLines(p.Text)
	if lines == nil {
		lines = []string{}
	}
	return countEffectsResult{
		Count: scoring.CountEffects(p.Text),
		Lines: lines,
	}, nil
}

type listAdjustmentsParams struct {
	CardNo  string `json:"cardNo"`
	Outcome string `json:"outcome"`
	Limit   int    `json:"limit"`
}

func (s *Server) handleListAdjustments(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p listAdjustmentsParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	opts := database.ListOptions{Limit: 20}
	if p.Limit > 0 {
		opts.Limit = p.Limit
	}
	if cardNo := strings.TrimSpace(p.CardNo); cardNo != "" {
		opts.CardNo = &cardNo
	}
	if p.Outcome != "" {
		outcome := database.Outcome(p.Outcome)
		opts.Outcome = &outcome
	}

	entries, err := s.journal.ListAdjustments(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if entries == nil {
		entries = []database.Adjustment{}
	}
	return entries, nil
}

// Resource handlers

func (s *Server) handleReadResource(ctx context.Context, uri string) (string, error) {
	switch {
	case uri == ResourceRubric:
		return rubricText(), nil
	case uri == ResourceJournal && s.journal != nil:
		return s.journalText(ctx)
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

func rubricText() string {
	var b strings.Builder
	b.WriteString("Scoring Rubric (UNIT cards, cost 1-8)\n")
	b.WriteString("=====================================\n\n")
	b.WriteString("Cost | AP+HP standard | Level standard\n")
	for _, cost := range scoring.Costs() {
		std := scoring.Standards[cost]
		fmt.Fprintf(&b, "%4d | %14d | %14d\n", cost, std.APHP, std.Level)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s: (AP + HP) - standard, when both are numeric\n", scoring.ItemStats)
	fmt.Fprintf(&b, "%s: standard - level, when level is numeric\n", scoring.ItemLevel)
	fmt.Fprintf(&b, "%s: %s when Resonance is empty or \"-\"\n", scoring.ItemLink, output.SignedScore(scoring.NoLinkPenalty))
	fmt.Fprintf(&b, "%s: +1 per distinct effect\n", scoring.ItemEffects)
	fmt.Fprintf(&b, "%s: %s when Resonance contains 特徵\n", scoring.ItemTrait, output.SignedScore(scoring.TraitBonus))
	fmt.Fprintf(&b, "%s: the card's weighted adjustment, added last\n", scoring.ItemAdjustment)
	return b.String()
}

func (s *Server) journalText(ctx context.Context) (string, error) {
	stats, err := s.journal.GetJournalStats(ctx)
	if err != nil {
		return "", err
	}

	entries, err := s.journal.ListAdjustments(ctx, database.ListOptions{Limit: 10})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Adjustment Journal
==================
Total attempts: %d
  - Saved:    %d
  - Rejected: %d
  - Failed:   %d
Cards adjusted: %d
`, stats.Total, stats.Saved, stats.Rejected, stats.Failed, stats.Cards)

	if len(entries) == 0 {
		b.WriteString("\nNo adjustments recorded yet.\n")
		return b.String(), nil
	}

	b.WriteString("\nLatest:\n")
	for _, e := range entries {
		value := e.Value
		if value == "" {
			value = "(cleared)"
		}
		fmt.Fprintf(&b, "- %s | %s | %s | %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"), e.CardNo, value, e.Outcome)
	}
	return b.String(), nil
}
