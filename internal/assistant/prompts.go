package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/nexushq/nexus-core/pkg/schema"
)

// Service builds the workspace's prompts and runs them through a Generator.
type Service struct {
	gen Generator
}

func NewService(gen Generator) *Service {
	return &Service{gen: gen}
}

// SummarizeChannel produces a short recap of a channel's recent discussion.
func (s *Service) SummarizeChannel(ctx context.Context, ch schema.Channel) (string, error) {
	if len(ch.Messages) == 0 {
		return "There are no messages to summarize.", nil
	}
	var transcript strings.Builder
	for _, m := range ch.Messages {
		fmt.Fprintf(&transcript, "%s: %s\n", m.SenderID, m.Content)
	}
	prompt := fmt.Sprintf(
		"Summarize the recent discussion in channel #%s. Here are the messages:\n\n%s\nFocus on action items and decisions.",
		ch.Name, transcript.String(),
	)
	return s.gen.Generate(ctx, prompt)
}

// DraftEmail writes a short outreach email body for a contact.
func (s *Service) DraftEmail(ctx context.Context, c schema.Contact, objective string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a short professional email to %s at %s.\n"+
			"Client context:\n- Funnel stage: %s\n- Notes: %s\n- Potential value: $%s\n\n"+
			"Email objective: %s\n\n"+
			"The tone should be cordial and persuasive. Return only the email body.",
		c.Name, c.Company, c.Stage, c.Notes, humanize.CommafWithDigits(c.Value, 2), objective,
	)
	return s.gen.Generate(ctx, prompt)
}

// AnalyzeDealHealth assesses one open deal and suggests a next step.
func (s *Service) AnalyzeDealHealth(ctx context.Context, c schema.Contact) (string, error) {
	prompt := fmt.Sprintf(
		"Analyze the health of this sales opportunity and suggest the next step.\n"+
			"Client: %s\nValue: %s\nStage: %s\nNotes: %s\nLast activity: %s\n\n"+
			"Answer in one short paragraph with a tactical suggestion.",
		c.Company, humanize.CommafWithDigits(c.Value, 2), c.Stage, c.Notes,
		c.LastActivity.Format("2006-01-02"),
	)
	return s.gen.Generate(ctx, prompt)
}

// BusinessInsight produces a short morning briefing over the whole pipeline.
func (s *Service) BusinessInsight(ctx context.Context, contacts []schema.Contact) (string, error) {
	var open, won float64
	for _, c := range contacts {
		switch c.Stage {
		case schema.StageWon:
			won += c.Value
		case schema.StageLost:
		default:
			open += c.Value
		}
	}
	prompt := fmt.Sprintf(
		"Act as an experienced sales director. Analyze my current CRM data:\n"+
			"- Open pipeline total: $%s\n- Closed (won) total: $%s\n- Deal count: %d\n\n"+
			"Give a short morning briefing (three sentences max) with a motivational strategy or an alert about where to focus today.",
		humanize.CommafWithDigits(open, 2), humanize.CommafWithDigits(won, 2), len(contacts),
	)
	return s.gen.Generate(ctx, prompt)
}

// SummarizeLead builds an executive profile for a lead.
func (s *Service) SummarizeLead(ctx context.Context, c schema.Contact) (string, error) {
	prompt := fmt.Sprintf(
		"Create a condensed executive profile for this lead:\n"+
			"Name: %s\nCompany: %s\nHistory: %s\nStage: %s\n\n"+
			"Format:\n1. Profile (who they are)\n2. Need (what they need, inferred from the notes)\n3. Close probability (low/medium/high with justification)",
		c.Name, c.Company, c.Notes, c.Stage,
	)
	return s.gen.Generate(ctx, prompt)
}

// BotAudit runs the configured bot persona over current workspace data and
// returns its report.
func (s *Service) BotAudit(ctx context.Context, cfg schema.BotConfig, contacts []schema.Contact, channels []schema.Channel) (string, error) {
	var pipeline float64
	for _, c := range contacts {
		pipeline += c.Value
	}
	prompt := fmt.Sprintf(
		"You are a corporate bot configured as follows:\n"+
			"Name: %s\nRole: %s\nPersonality: %s\nFocus areas: %s\n\n"+
			"Analyze the following operational data and produce a report strictly in your configured personality:\n"+
			"CRM data: %d contacts. Total pipeline value: %s.\n"+
			"Chat data: %d active channels.\n\n"+
			"The report must contain constructive criticism, praise and suggested goals.",
		cfg.Name, cfg.Role, cfg.Personality, strings.Join(cfg.FocusAreas, ", "),
		len(contacts), humanize.CommafWithDigits(pipeline, 2), len(channels),
	)
	return s.gen.Generate(ctx, prompt)
}
