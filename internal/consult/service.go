package consult

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/ergolab/consulta/internal/ai"
	"github.com/ergolab/consulta/internal/configcache"
	"github.com/ergolab/consulta/internal/events"
	"github.com/ergolab/consulta/internal/models"
	"github.com/ergolab/consulta/internal/store"
)

const fallbackSystemPrompt = "Você é um assistente especializado em protocolos ergogênicos."

// Service orchestrates a consultation exchange: it assembles the prompt from
// the user profile, knowledge-base rows and conversation history, calls the
// generative API and persists both turns.
type Service struct {
	repo      *store.Repo
	cache     *configcache.Cache
	provider  ai.Provider
	publisher *events.Publisher // nil when no broker is configured
}

func NewService(repo *store.Repo, cache *configcache.Cache, provider ai.Provider, publisher *events.Publisher) *Service {
	return &Service{repo: repo, cache: cache, provider: provider, publisher: publisher}
}

func (s *Service) aiRequest(ctx context.Context, prompt string, defaultTemperature float64) ai.Request {
	temperature := defaultTemperature
	if v, err := strconv.ParseFloat(s.cache.Get(ctx, "ai_temperature", ""), 64); err == nil {
		temperature = v
	}
	return ai.Request{
		Model:             s.cache.Get(ctx, "ai_model", "gemini-2.5-flash"),
		SystemInstruction: s.cache.Get(ctx, "ai_system_prompt", fallbackSystemPrompt),
		Temperature:       temperature,
		Prompt:            prompt,
	}
}

// Respond handles a chat message: the user turn is stored first, then the
// reply is generated against the profile and recent history and stored as an
// ai turn.
func (s *Service) Respond(ctx context.Context, sessionID, message string) (*models.Conversation, error) {
	user, err := s.repo.GetUser(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	userMsg := &models.Conversation{SessionID: sessionID, Message: message, Sender: "user"}
	if err := s.repo.AddMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	history, err := s.repo.GetConversations(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.provider.GenerateContent(ctx, s.aiRequest(ctx, chatPrompt(user, history, message), 0.7))
	if err != nil {
		return nil, err
	}

	aiMsg := &models.Conversation{
		SessionID:  sessionID,
		Message:    result.Text,
		Sender:     "ai",
		TokensUsed: result.TokensUsed,
	}
	if err := s.repo.AddMessage(ctx, aiMsg); err != nil {
		return nil, err
	}

	s.trackUsage(ctx, sessionID, "chat", result.TokensUsed)
	return aiMsg, nil
}

// InitialAnalysis generates the profile analysis that opens a conversation.
// On upstream failure the configured welcome message is used instead, so a
// new visitor never sees a hard error.
func (s *Service) InitialAnalysis(ctx context.Context, sessionID string) (*models.Conversation, error) {
	user, err := s.repo.GetUser(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var text string
	var tokens int
	result, err := s.provider.GenerateContent(ctx, s.aiRequest(ctx, analysisPrompt(user), 0.8))
	if err != nil {
		log.Printf("consult: analysis generation failed session=%s err=%v", sessionID, err)
		text = s.cache.Get(ctx, "welcome_message", "Bem-vindo! Como posso ajudá-lo?")
	} else {
		text = result.Text
		tokens = result.TokensUsed
	}

	aiMsg := &models.Conversation{
		SessionID:  sessionID,
		Message:    text,
		Sender:     "ai",
		TokensUsed: tokens,
	}
	if err := s.repo.AddMessage(ctx, aiMsg); err != nil {
		return nil, err
	}

	if tokens > 0 {
		s.trackUsage(ctx, sessionID, "analysis", tokens)
	}
	return aiMsg, nil
}

// Consult is Respond with the knowledge base folded into the prompt:
// profile-targeted protocols come straight from the store (never cached, admin
// edits must be visible immediately), product and guideline lists come from
// the knowledge snapshot.
func (s *Service) Consult(ctx context.Context, sessionID, message string) (*models.Conversation, error) {
	user, err := s.repo.GetUser(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	userMsg := &models.Conversation{SessionID: sessionID, Message: message, Sender: "user"}
	if err := s.repo.AddMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	experience := user.Experience
	protocols, err := s.cache.ProtocolsByProfile(ctx, user.Goal, targetGender(user.Gender), &experience)
	if err != nil {
		return nil, err
	}
	knowledge := knowledgeBlock(protocols, s.cache.ActiveProducts(ctx), s.cache.ActiveKnowledge(ctx))

	history, err := s.repo.GetConversations(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.provider.GenerateContent(ctx, s.aiRequest(ctx, consultationPrompt(user, history, message, knowledge), 0.7))
	if err != nil {
		return nil, err
	}

	aiMsg := &models.Conversation{
		SessionID:  sessionID,
		Message:    result.Text,
		Sender:     "ai",
		TokensUsed: result.TokensUsed,
	}
	if err := s.repo.AddMessage(ctx, aiMsg); err != nil {
		return nil, err
	}

	s.trackUsage(ctx, sessionID, "consultation", result.TokensUsed)
	return aiMsg, nil
}

// Transcript renders the conversation as plain text for download.
func (s *Service) Transcript(ctx context.Context, sessionID string) (string, error) {
	if _, err := s.repo.GetUser(ctx, sessionID); err != nil {
		return "", err
	}
	history, err := s.repo.GetConversations(ctx, sessionID)
	if err != nil {
		return "", err
	}

	appName := s.cache.Get(ctx, "app_name", "ERGOLAB")
	var b strings.Builder
	fmt.Fprintf(&b, "%s - Consulta %s\n\n", appName, sessionID)
	for _, h := range history {
		label := "VOCÊ"
		if h.Sender == "ai" {
			label = "CONSULTOR"
		}
		fmt.Fprintf(&b, "[%s] %s\n%s\n\n", h.Timestamp.Format("2006-01-02 15:04"), label, h.Message)
	}
	return b.String(), nil
}

// intake uses pt-br gender values, protocol targeting uses male/female/both
func targetGender(gender string) string {
	switch gender {
	case "masculino":
		return "male"
	case "feminino":
		return "female"
	}
	return gender
}

func (s *Service) trackUsage(ctx context.Context, sessionID, endpoint string, tokens int) {
	costPer1k, err := strconv.ParseFloat(s.cache.Get(ctx, "api_cost_per_1k_tokens", "0.002"), 64)
	if err != nil {
		costPer1k = 0.002
	}
	cost := strconv.FormatFloat(float64(tokens)/1000*costPer1k, 'f', 6, 64)

	if s.publisher != nil {
		ev := events.UsageEvent{SessionID: sessionID, Endpoint: endpoint, TokensUsed: tokens, Cost: cost}
		if err := s.publisher.PublishUsage(ctx, ev); err != nil {
			log.Printf("consult: usage publish failed session=%s endpoint=%s err=%v", sessionID, endpoint, err)
		}
		return
	}

	usage := &models.APIUsage{SessionID: sessionID, Endpoint: endpoint, TokensUsed: tokens, Cost: cost}
	if err := s.repo.TrackAPIUsage(ctx, usage); err != nil {
		log.Printf("consult: usage tracking failed session=%s endpoint=%s err=%v", sessionID, endpoint, err)
	}
}
