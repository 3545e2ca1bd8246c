package key_value

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mohameodo/nova-v5/internal/model"
)

var (
	ErrUserChatsIDsDoNotExist = errors.New("user chat ids do not exist")
)

type messageInternal struct {
	Role    model.MessageRole `json:"role"`
	Content string            `json:"content"`

	IsImage        bool `json:"is_image,omitempty"`
	IsThinking     bool `json:"is_thinking,omitempty"`
	IsDeepThought  bool `json:"is_deep_thought,omitempty"`
	IsMovieResults bool `json:"is_movie_results,omitempty"`
	IsWeather      bool `json:"is_weather,omitempty"`
	IsNews         bool `json:"is_news,omitempty"`

	Movies        []model.Movie        `json:"movies,omitempty"`
	WeatherData   *model.WeatherData   `json:"weather_data,omitempty"`
	Articles      []model.NewsArticle  `json:"articles,omitempty"`
	SearchResults []model.SearchResult `json:"search_results,omitempty"`
}

type chatInternal struct {
	ChatID      string            `json:"chat_id"`
	UserID      string            `json:"user_id"`
	Messages    []messageInternal `json:"messages"`
	Model       string            `json:"model"`
	LastMessage string            `json:"last_message"`
	CreatedAt   time.Time         `json:"created_at"`
}

type userChatsIDs struct {
	Chats []string `json:"chats"`
}

type ChatStorage struct {
	rdb *redis.Client
}

func NewChatStorage(rdb *redis.Client) *ChatStorage {
	return &ChatStorage{
		rdb: rdb,
	}
}

// SaveChat persists the full transcript. A chat without an id gets one
// assigned and is added to the owner's chat index; an existing chat is
// overwritten whole (last write wins).
func (c *ChatStorage) SaveChat(ctx context.Context, chat model.Chat) (model.Chat, error) {
	created := chat.ChatID == uuid.Nil
	if created {
		chat.ChatID = uuid.New()
		chat.CreatedAt = time.Now()
	}
	if len(chat.Messages) > 0 {
		chat.LastMessage = chat.Messages[len(chat.Messages)-1].Content
	}

	if err := c.setChatInt(ctx, chat.ChatID, toChatInternal(chat)); err != nil {
		return model.Chat{}, fmt.Errorf("failed to set chat internal %s: %w", chat.ChatID.String(), err)
	}

	if created {
		chatsIDs, err := c.getUserChatsIDs(ctx, chat.UserID)
		if err != nil {
			if !errors.Is(err, ErrUserChatsIDsDoNotExist) {
				return model.Chat{}, fmt.Errorf("failed to get user chats ids: %w", err)
			}
			chatsIDs = userChatsIDs{Chats: make([]string, 0)}
		}
		chatsIDs.Chats = append(chatsIDs.Chats, chat.ChatID.String())
		if err = c.setUserChatsIDs(ctx, chat.UserID, chatsIDs); err != nil {
			return model.Chat{}, fmt.Errorf("failed to set user chats ids: %w", err)
		}
	}
	return chat, nil
}

func (c *ChatStorage) GetChat(ctx context.Context, chatID uuid.UUID) (model.Chat, error) {
	chatInt, err := c.getChatInt(ctx, chatID)
	if err != nil {
		return model.Chat{}, err
	}
	return fromChatInternal(chatID, chatInt)
}

func (c *ChatStorage) ListUserChats(ctx context.Context, userID uuid.UUID) ([]model.ChatPreview, error) {
	chatsIDs, err := c.getUserChatsIDs(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserChatsIDsDoNotExist) {
			return []model.ChatPreview{}, nil
		}
		return nil, fmt.Errorf("failed to get user chats ids: %w", err)
	}
	previews := make([]model.ChatPreview, 0, len(chatsIDs.Chats))
	for _, chatIDStr := range chatsIDs.Chats {
		chatID, err := uuid.Parse(chatIDStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse chatID %s: %w", chatIDStr, err)
		}
		chatInt, err := c.getChatInt(ctx, chatID)
		if err != nil {
			if errors.Is(err, model.ErrChatDoesNotExist) {
				continue
			}
			return nil, err
		}
		previews = append(
			previews, model.ChatPreview{
				ChatID:      chatID,
				Model:       chatInt.Model,
				LastMessage: chatInt.LastMessage,
				CreatedAt:   chatInt.CreatedAt,
			},
		)
	}
	return previews, nil
}

func (c *ChatStorage) DeleteChat(ctx context.Context, userID, chatID uuid.UUID) error {
	if err := c.rdb.Del(ctx, getChatIDKey(chatID)).Err(); err != nil {
		return fmt.Errorf("failed to delete chat %s: %w", chatID, err)
	}
	chatsIDs, err := c.getUserChatsIDs(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserChatsIDsDoNotExist) {
			return nil
		}
		return fmt.Errorf("failed to get user chats ids: %w", err)
	}
	kept := make([]string, 0, len(chatsIDs.Chats))
	for _, id := range chatsIDs.Chats {
		if id != chatID.String() {
			kept = append(kept, id)
		}
	}
	chatsIDs.Chats = kept
	if err = c.setUserChatsIDs(ctx, userID, chatsIDs); err != nil {
		return fmt.Errorf("failed to set user chats ids: %w", err)
	}
	return nil
}

func (c *ChatStorage) getChatInt(ctx context.Context, chatID uuid.UUID) (chatInternal, error) {
	chatIntRaw, err := c.rdb.Get(ctx, getChatIDKey(chatID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return chatInternal{}, model.ErrChatDoesNotExist
		}
		return chatInternal{}, fmt.Errorf("failed to get chat %s: %w", chatID, err)
	}
	var chatInt chatInternal
	if err = json.Unmarshal([]byte(chatIntRaw), &chatInt); err != nil {
		return chatInternal{}, fmt.Errorf("failed to unmarshal chat %s: %w", chatID, err)
	}
	return chatInt, nil
}

func (c *ChatStorage) setChatInt(ctx context.Context, chatID uuid.UUID, chatInt chatInternal) error {
	chatIntJSON, err := json.Marshal(chatInt)
	if err != nil {
		return fmt.Errorf("failed to marshal internal chat: %w", err)
	}
	if err = c.rdb.Set(ctx, getChatIDKey(chatID), chatIntJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save chat %s: %w", chatID, err)
	}
	return nil
}

func (c *ChatStorage) getUserChatsIDs(ctx context.Context, userID uuid.UUID) (userChatsIDs, error) {
	raw, err := c.rdb.Get(ctx, getUserChatsKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return userChatsIDs{}, ErrUserChatsIDsDoNotExist
		}
		return userChatsIDs{}, fmt.Errorf("failed to get userChatsIDs %s: %w", userID, err)
	}
	var chatsIDs userChatsIDs
	if err = json.Unmarshal([]byte(raw), &chatsIDs); err != nil {
		return userChatsIDs{}, fmt.Errorf("failed to unmarshal userChatsIDs %s: %w", userID, err)
	}
	return chatsIDs, nil
}

func (c *ChatStorage) setUserChatsIDs(ctx context.Context, userID uuid.UUID, chatsIDs userChatsIDs) error {
	chatsIDsJSON, err := json.Marshal(chatsIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal user chats ids: %w", err)
	}
	if err = c.rdb.Set(ctx, getUserChatsKey(userID), chatsIDsJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save user chats ids %s: %w", userID, err)
	}
	return nil
}

func toChatInternal(chat model.Chat) chatInternal {
	messages := make([]messageInternal, 0, len(chat.Messages))
	for _, msg := range chat.Messages {
		messages = append(
			messages, messageInternal{
				Role:           msg.Role,
				Content:        msg.Content,
				IsImage:        msg.IsImage,
				IsThinking:     msg.IsThinking,
				IsDeepThought:  msg.IsDeepThought,
				IsMovieResults: msg.IsMovieResults,
				IsWeather:      msg.IsWeather,
				IsNews:         msg.IsNews,
				Movies:         msg.Movies,
				WeatherData:    msg.WeatherData,
				Articles:       msg.Articles,
				SearchResults:  msg.SearchResults,
			},
		)
	}
	return chatInternal{
		ChatID:      chat.ChatID.String(),
		UserID:      chat.UserID.String(),
		Messages:    messages,
		Model:       chat.Model,
		LastMessage: chat.LastMessage,
		CreatedAt:   chat.CreatedAt,
	}
}

func fromChatInternal(chatID uuid.UUID, chatInt chatInternal) (model.Chat, error) {
	userID, err := uuid.Parse(chatInt.UserID)
	if err != nil {
		return model.Chat{}, fmt.Errorf("failed to parse chat %s owner: %w", chatID, err)
	}
	messages := make([]model.Message, 0, len(chatInt.Messages))
	for _, msg := range chatInt.Messages {
		messages = append(
			messages, model.Message{
				Role:           msg.Role,
				Content:        msg.Content,
				IsImage:        msg.IsImage,
				IsThinking:     msg.IsThinking,
				IsDeepThought:  msg.IsDeepThought,
				IsMovieResults: msg.IsMovieResults,
				IsWeather:      msg.IsWeather,
				IsNews:         msg.IsNews,
				Movies:         msg.Movies,
				WeatherData:    msg.WeatherData,
				Articles:       msg.Articles,
				SearchResults:  msg.SearchResults,
			},
		)
	}
	return model.Chat{
		ChatID:      chatID,
		UserID:      userID,
		Messages:    messages,
		Model:       chatInt.Model,
		LastMessage: chatInt.LastMessage,
		CreatedAt:   chatInt.CreatedAt,
	}, nil
}

func getChatIDKey(chatID uuid.UUID) string {
	return fmt.Sprintf("chat_%v", chatID.String())
}

func getUserChatsKey(userID uuid.UUID) string {
	return fmt.Sprintf("user_chats_%v", userID.String())
}
