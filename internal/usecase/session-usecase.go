package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mohameodo/nova-v5/config"
	"github.com/mohameodo/nova-v5/internal/model"
	"github.com/mohameodo/nova-v5/internal/provider"
	"github.com/mohameodo/nova-v5/pkg/tokens"
)

type TurnState int

const (
	TurnStateIdle TurnState = iota
	TurnStateAwaitingResponse
)

// TurnObserver receives turn events as they happen, for streaming
// transports. All methods are called from the sending goroutine.
type TurnObserver interface {
	OnUserMessage(msg model.Message)
	OnPlaceholder(msg model.Message)
	OnPlaceholderRemoved()
	OnMessage(msg model.Message)
}

// TurnResult is what one completed turn added to the transcript.
// Placeholders are excluded.
type TurnResult struct {
	ChatID    uuid.UUID
	Messages  []model.Message
	VoiceCall bool
}

const personaPrompt = "You are Nova, a thoughtful AI assistant. " +
	"Keep answers clear and helpful, and use markdown when it aids readability."

type SessionUsecaseDeps struct {
	Dispatch  *DispatchUsecase
	Chat      *ChatUsecase
	User      *UserUsecase
	Providers *provider.Registry
}

type SessionUsecase struct {
	SessionUsecaseDeps
	cfg         config.Chat
	countTokens func(messages []model.Message, modelID string) (int, error)

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewSessionUsecase(deps SessionUsecaseDeps, cfg config.Chat) *SessionUsecase {
	return &SessionUsecase{
		SessionUsecaseDeps: deps,
		cfg:                cfg,
		countTokens:        tokens.Count,
		sessions:           make(map[uuid.UUID]*Session),
	}
}

// Session returns the user's active session, creating an empty one on
// a fresh default model if none exists yet.
func (s *SessionUsecase) Session(userID uuid.UUID) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		session = &Session{
			uc:      s,
			userID:  userID,
			modelID: s.cfg.DefaultModel,
		}
		s.sessions[userID] = session
	}
	return session
}

// Session is one user's live conversation. A transcript mutates only
// through its turn methods; the generation counter invalidates results
// that arrive after a Reset or LoadChat replaced the transcript.
type Session struct {
	uc     *SessionUsecase
	userID uuid.UUID

	mu              sync.Mutex
	chatID          uuid.UUID
	modelID         string
	messages        []model.Message
	state           TurnState
	gen             uint64
	ambientLocation string
}

// Send runs one turn: dispatches the input, falls through to the model
// provider for plain chat, and persists the transcript best-effort.
// A second Send while one is awaiting a response fails with
// ErrTurnInProgress.
func (s *Session) Send(ctx context.Context, content string, observer TurnObserver) (TurnResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return TurnResult{}, model.NewInputError("Please enter a message")
	}

	s.mu.Lock()
	if s.state == TurnStateAwaitingResponse {
		s.mu.Unlock()
		return TurnResult{}, model.ErrTurnInProgress
	}
	s.state = TurnStateAwaitingResponse
	turnGen := s.gen
	modelID := s.modelID
	ambientLocation := s.ambientLocation
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.gen == turnGen {
			s.state = TurnStateIdle
		}
		s.mu.Unlock()
	}()

	view := &turnView{session: s, gen: turnGen, observer: observer}
	result, err := s.uc.Dispatch.Dispatch(ctx, TurnInput{
		UserID:          s.userID,
		Content:         content,
		ModelID:         modelID,
		AmbientLocation: ambientLocation,
	}, view)
	if err != nil {
		return TurnResult{}, err
	}

	if result.VoiceCall {
		return TurnResult{ChatID: s.currentChatID(), VoiceCall: true}, nil
	}
	if !result.Handled {
		if err = s.chatTurn(ctx, content, modelID, view); err != nil {
			return TurnResult{}, err
		}
	}

	chatID := s.persist(ctx, turnGen, modelID)
	return TurnResult{ChatID: chatID, Messages: view.turnMessages}, nil
}

// Retry resubmits a previous user message. New messages append to the
// transcript; nothing after the retried message is discarded.
func (s *Session) Retry(ctx context.Context, messageIndex int, observer TurnObserver) (TurnResult, error) {
	s.mu.Lock()
	if messageIndex < 0 || messageIndex >= len(s.messages) {
		s.mu.Unlock()
		return TurnResult{}, model.NewInputError("There is no message to retry")
	}
	msg := s.messages[messageIndex]
	s.mu.Unlock()

	if msg.Role != model.MessageRoleUser {
		return TurnResult{}, model.NewInputError("Only your own messages can be retried")
	}
	return s.Send(ctx, msg.Content, observer)
}

// Reset clears the session to a fresh unsaved chat. A turn in flight
// keeps running, but its results are discarded when they land.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.chatID = uuid.Nil
	s.gen++
	s.state = TurnStateIdle
}

// LoadChat replaces the session transcript with a persisted chat.
func (s *Session) LoadChat(ctx context.Context, chatID uuid.UUID) (model.Chat, error) {
	chat, err := s.uc.Chat.GetUserChat(ctx, s.userID, chatID)
	if err != nil {
		return model.Chat{}, err
	}

	messages := make([]model.Message, 0, len(chat.Messages))
	for _, msg := range chat.Messages {
		if msg.Role == model.MessageRoleAssistant {
			msg.Content = stripAssistantPrefix(msg.Content)
		}
		messages = append(messages, msg)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = messages
	s.chatID = chat.ChatID
	s.modelID = chat.Model
	s.gen++
	s.state = TurnStateIdle
	return chat, nil
}

// SetModel switches the session model after registry and role checks.
func (s *Session) SetModel(ctx context.Context, modelID string) error {
	if _, err := s.uc.Providers.Resolve(modelID); err != nil {
		return err
	}
	user, err := s.uc.User.GetUserInfo(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("failed to get user info: %w", err)
	}
	if err = s.uc.Chat.CheckModelAccess(user, modelID); err != nil {
		return err
	}
	s.mu.Lock()
	s.modelID = modelID
	s.mu.Unlock()
	return nil
}

func (s *Session) SetAmbientLocation(location string) {
	s.mu.Lock()
	s.ambientLocation = strings.TrimSpace(location)
	s.mu.Unlock()
}

func (s *Session) Model() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modelID
}

func (s *Session) State() TurnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages returns a snapshot of the transcript.
func (s *Session) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]model.Message, len(s.messages))
	copy(snapshot, s.messages)
	return snapshot
}

func (s *Session) currentChatID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatID
}

func (s *Session) chatTurn(ctx context.Context, content, modelID string, view *turnView) error {
	modelCfg, err := s.uc.Providers.Resolve(modelID)
	if err != nil {
		return err
	}
	prov, err := s.uc.Providers.ProviderFor(modelCfg.Kind)
	if err != nil {
		return err
	}

	view.AppendUser(model.Message{Role: model.MessageRoleUser, Content: content})
	history := s.buildHistory(ctx, modelCfg)

	callCtx, cancel := context.WithTimeout(ctx, s.uc.cfg.ProviderTimeout)
	defer cancel()
	response, err := prov.SendMessage(callCtx, history, modelCfg.ID)
	if err != nil {
		return err
	}

	view.AppendAssistant(model.Message{
		Role:    model.MessageRoleAssistant,
		Content: stripAssistantPrefix(response),
	})
	return nil
}

// buildHistory assembles the provider history: system prompt first,
// then the transcript without placeholders, trimmed oldest-first until
// it fits the token limit. The system prompt and the latest message
// always survive trimming.
func (s *Session) buildHistory(ctx context.Context, modelCfg model.ModelConfig) []model.Message {
	system := model.Message{Role: model.MessageRoleSystem, Content: s.systemPrompt(ctx)}

	s.mu.Lock()
	history := make([]model.Message, 0, len(s.messages)+1)
	history = append(history, system)
	for _, msg := range s.messages {
		if msg.IsProcessing {
			continue
		}
		history = append(history, msg)
	}
	s.mu.Unlock()

	limit := s.uc.cfg.HistoryTokenLimit
	if modelCfg.MaxTokens > 0 && modelCfg.MaxTokens < limit {
		limit = modelCfg.MaxTokens
	}
	for len(history) > 2 {
		count, err := s.uc.countTokens(history, modelCfg.ID)
		if err != nil || count <= limit {
			break
		}
		history = append(history[:1], history[2:]...)
	}
	return history
}

func (s *Session) systemPrompt(ctx context.Context) string {
	prompt := personaPrompt
	user, err := s.uc.User.GetUserInfo(ctx, s.userID)
	if err != nil {
		return prompt
	}
	if user.DisplayName != "" {
		prompt += fmt.Sprintf("\nYou are talking to %s.", user.DisplayName)
	}
	if user.Bio != "" {
		prompt += fmt.Sprintf("\nAbout them: %s", user.Bio)
	}
	return prompt
}

// persist saves the transcript without placeholders. Failures are
// logged and never fail the turn that produced the messages.
func (s *Session) persist(ctx context.Context, turnGen uint64, modelID string) uuid.UUID {
	s.mu.Lock()
	if s.gen != turnGen {
		s.mu.Unlock()
		return uuid.Nil
	}
	chat := model.Chat{ChatID: s.chatID, UserID: s.userID, Model: modelID}
	for _, msg := range s.messages {
		if !msg.IsProcessing {
			chat.Messages = append(chat.Messages, msg)
		}
	}
	s.mu.Unlock()

	saved, err := s.uc.Chat.SaveChat(ctx, chat)
	if err != nil {
		slog.Error("failed to persist chat", "user_id", s.userID, "error", err)
		return chat.ChatID
	}
	s.mu.Lock()
	if s.gen == turnGen {
		s.chatID = saved.ChatID
	}
	s.mu.Unlock()
	return saved.ChatID
}

func (s *Session) appendMessage(gen uint64, msg model.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	// A mismatched generation means the transcript was replaced while
	// this turn was waiting; drop the late result.
	if s.gen != gen {
		return false
	}
	s.messages = append(s.messages, msg)
	return true
}

func (s *Session) swapPlaceholder(gen uint64, msg model.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.messages = append(removeProcessing(s.messages), msg)
	return true
}

func (s *Session) removePlaceholders(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.messages = removeProcessing(s.messages)
	return true
}

func removeProcessing(messages []model.Message) []model.Message {
	kept := messages[:0]
	for _, msg := range messages {
		if !msg.IsProcessing {
			kept = append(kept, msg)
		}
	}
	return kept
}

// turnView applies a turn's message mutations to its session and
// forwards them to the observer. Placeholders never enter turnMessages.
type turnView struct {
	session      *Session
	gen          uint64
	observer     TurnObserver
	turnMessages []model.Message
}

func (v *turnView) AppendUser(msg model.Message) {
	if !v.session.appendMessage(v.gen, msg) {
		return
	}
	v.turnMessages = append(v.turnMessages, msg)
	if v.observer != nil {
		v.observer.OnUserMessage(msg)
	}
}

func (v *turnView) ShowPlaceholder(msg model.Message) {
	msg.IsProcessing = true
	if !v.session.appendMessage(v.gen, msg) {
		return
	}
	if v.observer != nil {
		v.observer.OnPlaceholder(msg)
	}
}

func (v *turnView) ResolvePlaceholder(msg model.Message) {
	if !v.session.swapPlaceholder(v.gen, msg) {
		return
	}
	v.turnMessages = append(v.turnMessages, msg)
	if v.observer != nil {
		v.observer.OnMessage(msg)
	}
}

func (v *turnView) FailPlaceholder() {
	if !v.session.removePlaceholders(v.gen) {
		return
	}
	if v.observer != nil {
		v.observer.OnPlaceholderRemoved()
	}
}

func (v *turnView) AppendAssistant(msg model.Message) {
	if !v.session.appendMessage(v.gen, msg) {
		return
	}
	v.turnMessages = append(v.turnMessages, msg)
	if v.observer != nil {
		v.observer.OnMessage(msg)
	}
}
