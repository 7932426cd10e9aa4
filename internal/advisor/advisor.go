// Package advisor is the LLM market analyst behind headline scoring, market
// summaries and the chat panel.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pulse-node/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const temperature = 0.4

const personaPrompt = `You are an advanced AI Financial Expert and Proprietary Trader named 'MarketMind'.
Your capabilities include deep technical analysis, quantitative modeling, and behavioral finance analysis.

Core directives:
1. Analyze with precision. Do not just summarize market data or news; look for second and third-order effects.
2. Think in probabilities. Valid setups have a clear entry, invalidation (stop loss) and target.
3. Comment on potential algorithmic price action such as liquidity sweeps, stop runs and inefficiencies.
4. Identify market sentiment (Fear/Greed) and potential bull or bear traps.
5. Always provide a Sentiment Score (-10 to +10) and a Conviction Level (Low, Medium, High).

Tone: professional, concise and objective. Use financial terminology correctly and be decisive based on the data provided.`

const headlinePrompt = `Analyze the following news headline for a trader:
Headline: %q
Context: %s

Output valid JSON only with the following keys:
- "impact_score": number between -10 and +10
- "reasoning": concise explanation of the score, max 2 sentences
- "affected_assets": list of strings, e.g. ["BTC", "ETH"]
- "chain_reaction": list of strings describing 2nd order effects
- "trade_suggestion": short actionable advice`

const summaryPrompt = `As 'MarketMind', analyze these recent headlines and provide a market summary:
Headlines: %s

Output valid JSON only:
- "sentiment": "Bullish" | "Bearish" | "Neutral" | "Volatile"
- "signal": "Buy Dip" | "Sell Rallies" | "Hold" | "Wait"
- "takeaways": list of 3 short, punchy bullet points summarizing the key market drivers`

// FailedAnalysis is returned whenever a headline cannot be scored.
func FailedAnalysis() domain.HeadlineAnalysis {
	return domain.HeadlineAnalysis{
		ImpactScore:     0,
		Reasoning:       "AI Analysis Failed",
		AffectedAssets:  []string{},
		ChainReaction:   []string{},
		TradeSuggestion: "Monitor manually.",
	}
}

func NeutralSummary() domain.MarketSummary {
	return domain.MarketSummary{Sentiment: "Neutral", Signal: "Wait", Takeaways: []string{}}
}

func FailedSummary() domain.MarketSummary {
	return domain.MarketSummary{Sentiment: "Unknown", Signal: "Caution", Takeaways: []string{"Insufficient data for summary."}}
}

type Service struct {
	tracer     trace.Tracer
	llm        LLMClient
	store      ConversationStore
	model      string
	maxHistory int
	now        func() time.Time
}

func NewService(tracer trace.Tracer, llm LLMClient, store ConversationStore, model string, maxHistory int) *Service {
	if maxHistory <= 0 {
		maxHistory = 20
	}
	if store == nil {
		store = NewMemoryConversationStore(maxHistory)
	}
	return &Service{
		tracer:     tracer,
		llm:        llm,
		store:      store,
		model:      model,
		maxHistory: maxHistory,
		now:        time.Now,
	}
}

// AnalyzeHeadline scores one headline. Any failure yields FailedAnalysis.
func (s *Service) AnalyzeHeadline(ctx context.Context, headline, marketContext string) domain.HeadlineAnalysis {
	ctx, span := s.tracer.Start(ctx, "advisor.analyze-headline")
	defer span.End()

	text, err := s.complete(ctx, []Message{{Role: "user", Content: fmt.Sprintf(headlinePrompt, headline, marketContext)}})
	if err != nil {
		log.WithError(err).Warn("headline analysis failed")
		span.SetStatus(codes.Error, err.Error())
		return FailedAnalysis()
	}

	var out domain.HeadlineAnalysis
	if err := decodeJSON(text, &out); err != nil {
		log.WithError(err).Warn("headline analysis returned invalid JSON")
		span.SetStatus(codes.Error, "invalid json")
		return FailedAnalysis()
	}
	if out.AffectedAssets == nil {
		out.AffectedAssets = []string{}
	}
	if out.ChainReaction == nil {
		out.ChainReaction = []string{}
	}
	span.SetAttributes(attribute.Float64("advisor.impact_score", out.ImpactScore))
	return out
}

// Summarize condenses headlines into one market read.
func (s *Service) Summarize(ctx context.Context, headlines []string) domain.MarketSummary {
	ctx, span := s.tracer.Start(ctx, "advisor.summarize")
	defer span.End()
	span.SetAttributes(attribute.Int("advisor.headlines", len(headlines)))

	if len(headlines) == 0 {
		return NeutralSummary()
	}

	encoded, _ := json.Marshal(headlines)
	text, err := s.complete(ctx, []Message{{Role: "user", Content: fmt.Sprintf(summaryPrompt, encoded)}})
	if err != nil {
		log.WithError(err).Warn("market summary failed")
		span.SetStatus(codes.Error, err.Error())
		return FailedSummary()
	}

	var out domain.MarketSummary
	if err := decodeJSON(text, &out); err != nil || out.Sentiment == "" {
		log.WithError(err).Warn("market summary returned invalid JSON")
		return FailedSummary()
	}
	if out.Takeaways == nil {
		out.Takeaways = []string{}
	}
	return out
}

// Chat answers message within the conversation, with marketContext appended to
// the persona. Failures come back as a "System Error: ..." reply.
func (s *Service) Chat(ctx context.Context, conversationID, message, marketContext string) string {
	ctx, span := s.tracer.Start(ctx, "advisor.chat")
	defer span.End()

	if conversationID == "" {
		conversationID = "default"
	}
	span.SetAttributes(attribute.String("advisor.conversation", conversationID))

	history, err := s.store.Recent(ctx, conversationID, s.maxHistory)
	if err != nil {
		log.WithError(err).Warn("loading conversation history failed")
		history = nil
	}

	msgs := make([]Message, 0, len(history)+1)
	for _, h := range history {
		msgs = append(msgs, Message{Role: h.Role, Content: h.Content})
	}
	msgs = append(msgs, Message{Role: "user", Content: message})

	system := personaPrompt
	if strings.TrimSpace(marketContext) != "" {
		system += "\n\nLive market context:\n" + marketContext
	}

	reply, err := s.completeWith(ctx, system, msgs)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "System Error: " + err.Error()
	}

	now := s.now()
	if err := s.store.Append(ctx, conversationID,
		domain.ConversationMessage{Role: "user", Content: message, CreatedAt: now},
		domain.ConversationMessage{Role: "assistant", Content: reply, CreatedAt: now},
	); err != nil {
		log.WithError(err).Warn("saving conversation history failed")
	}
	return reply
}

func (s *Service) History(ctx context.Context, conversationID string) ([]domain.ConversationMessage, error) {
	return s.store.Recent(ctx, conversationID, s.maxHistory)
}

func (s *Service) Reset(ctx context.Context, conversationID string) error {
	return s.store.Clear(ctx, conversationID)
}

func (s *Service) complete(ctx context.Context, msgs []Message) (string, error) {
	return s.completeWith(ctx, personaPrompt, msgs)
}

func (s *Service) completeWith(ctx context.Context, system string, msgs []Message) (string, error) {
	if s.llm == nil {
		return "", ErrNotConfigured
	}
	return s.llm.Complete(ctx, CompletionRequest{
		Model:       s.model,
		System:      system,
		Messages:    msgs,
		Temperature: temperature,
	})
}

// Models often wrap JSON in a markdown fence.
func decodeJSON(text string, v any) error {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return json.Unmarshal([]byte(strings.TrimSpace(text)), v)
}
