package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/nokhba/academy-backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrAssistantUnavailable is returned when the model endpoint fails; the
// handler maps it to the product-language fallback message.
var ErrAssistantUnavailable = errors.New("assistant endpoint unavailable")

// assistantInstruction steers the model toward short Arabic study help.
const assistantInstruction = "أنت مساعد دراسي ذكي في منصة تعليمية للمرحلة الثانوية. " +
	"أجب باللغة العربية بإيجاز ووضوح، وساعد الطالب على فهم الدروس وحل الأسئلة دون إعطاء إجابات الاختبارات مباشرة."

// AssistantGreeting opens every fresh conversation.
const AssistantGreeting = "أهلاً بك! أنا مساعدك الدراسي الذكي. كيف يمكنني مساعدتك اليوم؟ 📚"

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
	At   int64  `json:"at"`
}

// Wire types for the generateContent endpoint.
type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// ChatService proxies student questions to the model API and keeps a short
// rolling history per student in Redis.
type ChatService struct {
	client *resty.Client
	cfg    *config.Config
	rdb    *redis.Client
	log    zerolog.Logger
}

// NewChatService creates a new ChatService.
func NewChatService(cfg *config.Config, rdb *redis.Client, log zerolog.Logger) *ChatService {
	client := resty.New().
		SetBaseURL(cfg.GeminiURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &ChatService{
		client: client,
		cfg:    cfg,
		rdb:    rdb,
		log:    log.With().Str("component", "chat_service").Logger(),
	}
}

// History returns the student's conversation for display, oldest first. A
// fresh conversation opens with the assistant greeting; the greeting is
// synthetic and never sent to the model.
func (s *ChatService) History(ctx context.Context, studentID int) ([]ChatMessage, error) {
	stored, err := s.storedHistory(ctx, studentID)
	if err != nil {
		return nil, err
	}

	messages := make([]ChatMessage, 0, len(stored)+1)
	messages = append(messages, ChatMessage{Role: "model", Text: AssistantGreeting})
	return append(messages, stored...), nil
}

// storedHistory loads only the persisted turns, oldest first.
func (s *ChatService) storedHistory(ctx context.Context, studentID int) ([]ChatMessage, error) {
	raw, err := s.rdb.LRange(ctx, config.CacheKey.ChatHistoryKey(studentID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	messages := make([]ChatMessage, 0, len(raw))
	for _, item := range raw {
		var m ChatMessage
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			continue
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// buildContents assembles the outbound conversation from the persisted turns
// plus the new question. Persisted turns always begin with a user message, so
// the request satisfies the API's user-turn-first requirement.
func buildContents(history []ChatMessage, text string) []geminiContent {
	contents := make([]geminiContent, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, geminiContent{
			Role:  m.Role,
			Parts: []geminiPart{{Text: m.Text}},
		})
	}
	return append(contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: text}},
	})
}

// Send forwards the student's question with the rolling history as context
// and appends both turns to the history.
func (s *ChatService) Send(ctx context.Context, studentID int, text string) (*ChatMessage, error) {
	history, err := s.storedHistory(ctx, studentID)
	if err != nil {
		return nil, err
	}

	contents := buildContents(history, text)

	req := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: assistantInstruction}}},
		Contents:          contents,
	}

	var out geminiResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("key", s.cfg.GeminiAPIKey).
		SetBody(req).
		SetResult(&out).
		Post(fmt.Sprintf("/models/%s:generateContent", s.cfg.GeminiModel))
	if err != nil {
		s.log.Error().Err(err).Msg("Model request failed")
		return nil, ErrAssistantUnavailable
	}
	if resp.IsError() {
		s.log.Error().Int("status", resp.StatusCode()).Str("body", resp.String()).Msg("Model returned error")
		return nil, ErrAssistantUnavailable
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		s.log.Error().Msg("Model returned no candidates")
		return nil, ErrAssistantUnavailable
	}

	now := time.Now()
	userMsg := ChatMessage{Role: "user", Text: text, At: now.Unix()}
	modelMsg := ChatMessage{Role: "model", Text: out.Candidates[0].Content.Parts[0].Text, At: now.Unix()}

	if err := s.appendHistory(ctx, studentID, userMsg, modelMsg); err != nil {
		s.log.Warn().Err(err).Int("student_id", studentID).Msg("Failed to persist chat turns")
	}

	return &modelMsg, nil
}

// Clear drops the student's conversation history.
func (s *ChatService) Clear(ctx context.Context, studentID int) error {
	return s.rdb.Del(ctx, config.CacheKey.ChatHistoryKey(studentID)).Err()
}

// appendHistory pushes turns onto the rolling list and trims it to the
// configured window so the model context stays bounded.
func (s *ChatService) appendHistory(ctx context.Context, studentID int, msgs ...ChatMessage) error {
	key := config.CacheKey.ChatHistoryKey(studentID)

	pipe := s.rdb.Pipeline()
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			return err
		}
		pipe.RPush(ctx, key, data)
	}
	pipe.LTrim(ctx, key, int64(-s.cfg.ChatHistoryLimit), -1)
	_, err := pipe.Exec(ctx)
	return err
}
