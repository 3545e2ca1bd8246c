package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/redis/go-redis/v9"
	"github.com/sourcegraph/conc"

	"github.com/mohameodo/nova-v5/config"
	"github.com/mohameodo/nova-v5/internal/handler"
	"github.com/mohameodo/nova-v5/internal/imagegen"
	"github.com/mohameodo/nova-v5/internal/model"
	"github.com/mohameodo/nova-v5/internal/movie"
	"github.com/mohameodo/nova-v5/internal/news"
	"github.com/mohameodo/nova-v5/internal/provider"
	"github.com/mohameodo/nova-v5/internal/router"
	in_memory "github.com/mohameodo/nova-v5/internal/storage/in-memory"
	key_value "github.com/mohameodo/nova-v5/internal/storage/key-value"
	"github.com/mohameodo/nova-v5/internal/usecase"
	"github.com/mohameodo/nova-v5/internal/weather"
	"github.com/mohameodo/nova-v5/internal/websearch"
	"github.com/mohameodo/nova-v5/pkg/logger"
)

type storages struct {
	user  usecase.UserStorage
	chat  usecase.ChatStorage
	quota usecase.QuotaStorage
	blob  handler.BlobStorage
	ping  handler.Pinger
}

type redisPinger struct {
	rdb *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

// buildStorages picks redis when an endpoint is configured, otherwise
// the in-memory stores. The in-memory mode loses everything on
// restart and exists for local development.
func buildStorages(cfg *config.Config) storages {
	if cfg.Redis.Endpoint == "" {
		slog.Warn("no redis endpoint configured, using in-memory storage")
		return storages{
			user:  in_memory.NewUserStorage(),
			chat:  in_memory.NewChatStorage(),
			quota: in_memory.NewQuotaStorage(),
			blob:  in_memory.NewBlobStorage(),
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Endpoint,
	})
	return storages{
		user:  key_value.NewUserStorage(rdb),
		chat:  key_value.NewChatStorage(rdb),
		quota: key_value.NewQuotaStorage(rdb),
		blob:  key_value.NewBlobStorage(rdb),
		ping:  redisPinger{rdb: rdb},
	}
}

func buildProviders(cfg *config.Config, httpClient *http.Client) (map[model.ProviderKind]provider.Provider, *provider.OfflineProvider) {
	ollamaProvider := provider.NewOllamaProvider(cfg.Ollama.BaseURL, httpClient)
	offlineProvider := provider.NewOfflineProvider(
		ollamaProvider, cfg.Offline.Model, cfg.Offline.ModelURL, cfg.Offline.CacheDir, httpClient,
	)
	return map[model.ProviderKind]provider.Provider{
		model.ProviderKindOpenAI: provider.NewOpenAIProvider(
			cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.Chat.ModelTemperature,
		),
		model.ProviderKindNova: provider.NewOpenAIProvider(
			cfg.DeepSeek.APIKey, cfg.DeepSeek.BaseURL, cfg.Chat.ModelTemperature,
		),
		model.ProviderKindOllama:  ollamaProvider,
		model.ProviderKindOffline: offlineProvider,
	}, offlineProvider
}

func buildModelConfigs(entries []config.ModelEntry) []model.ModelConfig {
	configs := make([]model.ModelConfig, 0, len(entries))
	for _, entry := range entries {
		configs = append(configs, model.ModelConfig{
			Name:      entry.Name,
			ID:        entry.ID,
			Kind:      model.ProviderKind(entry.Kind),
			MaxTokens: entry.MaxTokens,
		})
	}
	return configs
}

func Run(cfg *config.Config) error {
	logger.Setup(cfg.Log.Level, cfg.Log.Format)
	hlog.SetLogger(logger.NewHertzSlogAdapter(slog.Default()))

	httpClient := &http.Client{Timeout: cfg.Chat.ProviderTimeout}
	store := buildStorages(cfg)

	providers, offlineProvider := buildProviders(cfg, httpClient)
	registry := provider.NewRegistry(buildModelConfigs(cfg.Chat.Models), providers)

	userUsecase := usecase.NewUserUsecase(
		usecase.UserUsecaseDeps{
			UserStorage: store.user,
		},
		cfg.Users,
	)
	chatUsecase := usecase.NewChatUsecase(
		usecase.ChatUsecaseDeps{
			ChatStorage: store.chat,
			User:        userUsecase,
		},
		cfg.Chat,
	)
	quotaUsecase := usecase.NewQuotaUsecase(
		usecase.QuotaUsecaseDeps{
			QuotaStorage: store.quota,
		},
		cfg.Quota,
	)

	weatherClient := weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.APIKey, httpClient)
	dispatchUsecase := usecase.NewDispatchUsecase(
		usecase.DispatchUsecaseDeps{
			Search:    websearch.NewClient(cfg.Search.BaseURL, httpClient),
			Movies:    movie.NewClient(cfg.TMDB.BaseURL, cfg.TMDB.ImageBaseURL, cfg.TMDB.APIKey, httpClient),
			Weather:   weatherClient,
			News:      news.NewClient(cfg.News.BaseURL, cfg.News.APIKey, httpClient),
			Images:    imagegen.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL),
			Quota:     quotaUsecase,
			Providers: registry,
		},
		cfg.Chat,
	)
	sessionUsecase := usecase.NewSessionUsecase(
		usecase.SessionUsecaseDeps{
			Dispatch:  dispatchUsecase,
			Chat:      chatUsecase,
			User:      userUsecase,
			Providers: registry,
		},
		cfg.Chat,
	)

	authHandler, err := handler.NewAuthHandler(userUsecase, cfg.Server.JWTSecret)
	if err != nil {
		return fmt.Errorf("failed to create auth handler: %w", err)
	}

	h := server.Default(
		server.WithHostPorts(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)),
		server.WithReadTimeout(cfg.Server.ReadTimeout),
		server.WithWriteTimeout(cfg.Server.WriteTimeout),
		server.WithExitWaitTime(5*time.Second),
	)
	router.Setup(
		h,
		authHandler,
		handler.NewSessionHandler(sessionUsecase, weatherClient),
		handler.NewChatsHandler(chatUsecase),
		handler.NewModelHandler(registry, chatUsecase, userUsecase),
		handler.NewBlobHandler(store.blob, cfg.Server.PublicURL),
		handler.NewHealthHandler(store.ping),
	)

	wg := conc.NewWaitGroup()
	if cfg.Offline.ModelURL != "" {
		wg.Go(func() {
			if err := offlineProvider.Warmup(context.Background()); err != nil {
				slog.Warn("offline model warmup failed", "error", err)
			}
		})
	}
	wg.Go(h.Spin)
	wg.Wait()
	return nil
}
