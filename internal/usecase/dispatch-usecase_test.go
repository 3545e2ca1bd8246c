package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohameodo/nova-v5/config"
	"github.com/mohameodo/nova-v5/internal/model"
	"github.com/mohameodo/nova-v5/internal/provider"
	in_memory "github.com/mohameodo/nova-v5/internal/storage/in-memory"
)

type fakeSearchClient struct {
	results   []model.SearchResult
	err       error
	calls     int
	lastQuery string
	lastType  model.SearchType
}

func (f *fakeSearchClient) Search(ctx context.Context, query string, searchType model.SearchType) ([]model.SearchResult, error) {
	f.calls++
	f.lastQuery = query
	f.lastType = searchType
	return f.results, f.err
}

type fakeMovieClient struct {
	movies      []model.Movie
	details     *model.MovieDetails
	searchErr   error
	detailsErr  error
	searchCalls int
	lastQuery   string
	lastMovieID int
}

func (f *fakeMovieClient) Search(ctx context.Context, query string) ([]model.Movie, error) {
	f.searchCalls++
	f.lastQuery = query
	return f.movies, f.searchErr
}

func (f *fakeMovieClient) Details(ctx context.Context, movieID int) (*model.MovieDetails, error) {
	f.lastMovieID = movieID
	return f.details, f.detailsErr
}

type fakeWeatherClient struct {
	data         *model.WeatherData
	err          error
	calls        int
	lastLocation string
}

func (f *fakeWeatherClient) Forecast(ctx context.Context, location string) (*model.WeatherData, error) {
	f.calls++
	f.lastLocation = location
	return f.data, f.err
}

type fakeNewsClient struct {
	articles    []model.NewsArticle
	err         error
	lastQuery   string
	lastCountry string
}

func (f *fakeNewsClient) Headlines(ctx context.Context, query, country string) ([]model.NewsArticle, error) {
	f.lastQuery = query
	f.lastCountry = country
	return f.articles, f.err
}

type fakeImageClient struct {
	url        string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeImageClient) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	return f.url, f.err
}

type fakeProvider struct {
	response    string
	err         error
	calls       int
	gotMessages []model.Message
	gotModelID  string
	block       chan struct{}
}

func (f *fakeProvider) SendMessage(ctx context.Context, messages []model.Message, modelID string) (string, error) {
	f.calls++
	f.gotMessages = messages
	f.gotModelID = modelID
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.response, f.err
}

// recordingView captures turn mutations without a session behind it.
type recordingView struct {
	users        []model.Message
	placeholders []model.Message
	removed      int
	messages     []model.Message
}

func (v *recordingView) AppendUser(msg model.Message)    { v.users = append(v.users, msg) }
func (v *recordingView) ShowPlaceholder(msg model.Message) {
	v.placeholders = append(v.placeholders, msg)
}
func (v *recordingView) ResolvePlaceholder(msg model.Message) {
	v.removed++
	v.messages = append(v.messages, msg)
}
func (v *recordingView) FailPlaceholder() { v.removed++ }
func (v *recordingView) AppendAssistant(msg model.Message) {
	v.messages = append(v.messages, msg)
}

type dispatchEnv struct {
	dispatch *DispatchUsecase
	search   *fakeSearchClient
	movies   *fakeMovieClient
	weather  *fakeWeatherClient
	news     *fakeNewsClient
	images   *fakeImageClient
	provider *fakeProvider
	quota    *QuotaUsecase
	userID   uuid.UUID
}

func testChatConfig() config.Chat {
	return config.Chat{
		Models: []config.ModelEntry{
			{Name: "Nova Core", ID: "gpt-4o-mini", Kind: "openai", MaxTokens: 16000},
		},
		AccessModelsPerRoles: []config.RoleModels{
			{Role: "default", Models: []string{"gpt-4o-mini"}},
		},
		DefaultModel:      "gpt-4o-mini",
		ModelTemperature:  0.7,
		ProviderTimeout:   time.Second,
		DeepThinkDelay:    time.Millisecond,
		HistoryTokenLimit: 3500,
	}
}

func newDispatchEnv(t *testing.T) *dispatchEnv {
	t.Helper()
	env := &dispatchEnv{
		search:   &fakeSearchClient{results: []model.SearchResult{{Title: "Result", Link: "https://example.com", Type: model.SearchTypeText}}},
		movies:   &fakeMovieClient{},
		weather:  &fakeWeatherClient{},
		news:     &fakeNewsClient{},
		images:   &fakeImageClient{url: "data:image/png;base64,aGVsbG8="},
		provider: &fakeProvider{response: "a considered answer"},
		userID:   uuid.New(),
	}
	env.quota = NewQuotaUsecase(
		QuotaUsecaseDeps{QuotaStorage: in_memory.NewQuotaStorage()},
		config.Quota{DailyImageLimit: 10, DailySearchLimit: 10},
	)
	cfg := testChatConfig()
	registry := provider.NewRegistry(
		[]model.ModelConfig{{Name: "Nova Core", ID: "gpt-4o-mini", Kind: model.ProviderKindOpenAI, MaxTokens: 16000}},
		map[model.ProviderKind]provider.Provider{model.ProviderKindOpenAI: env.provider},
	)
	env.dispatch = NewDispatchUsecase(
		DispatchUsecaseDeps{
			Search:    env.search,
			Movies:    env.movies,
			Weather:   env.weather,
			News:      env.news,
			Images:    env.images,
			Quota:     env.quota,
			Providers: registry,
		},
		cfg,
	)
	return env
}

func (e *dispatchEnv) turn(content string) TurnInput {
	return TurnInput{UserID: e.userID, Content: content, ModelID: "gpt-4o-mini"}
}

func (e *dispatchEnv) drainQuota(t *testing.T, kind model.QuotaKind) {
	t.Helper()
	for i := 0; i < 10; i++ {
		decision, err := e.quota.Consume(context.Background(), e.userID, kind)
		require.NoError(t, err)
		require.True(t, decision.Allowed)
	}
}

func TestClassifyInput(t *testing.T) {
	tests := []struct {
		content string
		want    Intent
	}{
		{"/call", IntentVoiceCall},
		{"/search golang", IntentSearch},
		{"/SEARCH golang", IntentSearch},
		{"/vlop sci-fi", IntentMovieSearch},
		{"MovieDetails:42", IntentMovieDetails},
		{"/deepthink why", IntentDeepThink},
		{"/weather Tokyo", IntentWeather},
		{"what is the weather in Tokyo?", IntentWeather},
		{"/news", IntentNews},
		{"any news about go?", IntentNews},
		{"/image a red fox", IntentImage},
		{"hello there", IntentChat},
		// Keyword interception beats plain chat even mid-sentence.
		{"I wonder how the weather changes climate", IntentWeather},
	}
	for _, tc := range tests {
		t.Run(tc.content, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyInput(tc.content))
		})
	}
}

func TestDispatchSearch(t *testing.T) {
	env := newDispatchEnv(t)
	view := &recordingView{}

	result, err := env.dispatch.Dispatch(context.Background(), env.turn("/search golang tips"), view)
	require.NoError(t, err)
	assert.True(t, result.Handled)

	require.Len(t, view.users, 1)
	assert.Equal(t, "/search golang tips", view.users[0].Content)
	require.Len(t, view.placeholders, 1)
	assert.True(t, view.placeholders[0].IsProcessing)
	assert.Contains(t, view.placeholders[0].Content, `Searching for "golang tips"`)

	require.Len(t, view.messages, 1)
	final := view.messages[0]
	assert.Contains(t, final.Content, "9 searches remaining today")
	assert.Len(t, final.SearchResults, 1)
	assert.Equal(t, "golang tips", env.search.lastQuery)
	assert.Equal(t, model.SearchTypeAll, env.search.lastType)
}

func TestDispatchSearchTypedQuery(t *testing.T) {
	env := newDispatchEnv(t)

	_, err := env.dispatch.Dispatch(context.Background(), env.turn("/search image red pandas"), &recordingView{})
	require.NoError(t, err)
	assert.Equal(t, "red pandas", env.search.lastQuery)
	assert.Equal(t, model.SearchTypeImage, env.search.lastType)

	_, err = env.dispatch.Dispatch(context.Background(), env.turn("/search video lofi beats"), &recordingView{})
	require.NoError(t, err)
	assert.Equal(t, "lofi beats", env.search.lastQuery)
	assert.Equal(t, model.SearchTypeVideo, env.search.lastType)
}

func TestDispatchSearchEmptyQuery(t *testing.T) {
	env := newDispatchEnv(t)
	view := &recordingView{}

	_, err := env.dispatch.Dispatch(context.Background(), env.turn("/search"), view)
	require.Error(t, err)
	assert.True(t, model.IsInputError(err))
	assert.Contains(t, err.Error(), "/search [type] query")
	assert.Empty(t, view.users)
	assert.Zero(t, env.search.calls)
}

func TestDispatchSearchQuotaDenied(t *testing.T) {
	env := newDispatchEnv(t)
	env.drainQuota(t, model.QuotaKindSearch)
	view := &recordingView{}

	_, err := env.dispatch.Dispatch(context.Background(), env.turn("/search golang"), view)
	require.Error(t, err)
	assert.True(t, model.IsQuotaExceeded(err))
	assert.Contains(t, err.Error(), "limit of 10 searches per day")
	// Placeholder shown, then retired on denial; the upstream search
	// never runs.
	assert.Len(t, view.placeholders, 1)
	assert.Equal(t, 1, view.removed)
	assert.Zero(t, env.search.calls)
}

func TestDispatchSearchClientError(t *testing.T) {
	env := newDispatchEnv(t)
	env.search.err = model.NewInputError(`No results found for "xyzzy". Try different keywords.`)
	view := &recordingView{}

	_, err := env.dispatch.Dispatch(context.Background(), env.turn("/search xyzzy"), view)
	require.Error(t, err)
	assert.Equal(t, 1, view.removed)
	assert.Empty(t, view.messages)
}

func TestDispatchMovieSearch(t *testing.T) {
	env := newDispatchEnv(t)
	env.movies.movies = []model.Movie{{ID: 1, Title: "Arrival", VoteAverage: 7.9}}
	view := &recordingView{}

	_, err := env.dispatch.Dispatch(context.Background(), env.turn("/vlop cerebral sci-fi"), view)
	require.NoError(t, err)
	assert.Equal(t, "cerebral sci-fi", env.movies.lastQuery)
	require.Len(t, view.messages, 1)
	assert.True(t, view.messages[0].IsMovieResults)
	assert.Len(t, view.messages[0].Movies, 1)
}

func TestDispatchMovieSearchEmptyQuery(t *testing.T) {
	env := newDispatchEnv(t)

	_, err := env.dispatch.Dispatch(context.Background(), env.turn("/vlop"), &recordingView{})
	require.Error(t, err)
	assert.True(t, model.IsInputError(err))
	assert.Contains(t, err.Error(), "what kind of movies")
	assert.Zero(t, env.movies.searchCalls)
}

func TestDispatchMovieSearchNoResults(t *testing.T) {
	env := newDispatchEnv(t)
	view := &recordingView{}

	_, err := env.dispatch.Dispatch(context.Background(), env.turn("/vlop nothing matches this"), view)
	require.Error(t, err)
	assert.True(t, model.IsProviderError(err))
	assert.Contains(t, err.Error(), "No movies found matching your criteria")
	assert.Equal(t, 1, view.removed)
}

func TestDispatchMovieDetails(t *testing.T) {
	env := newDispatchEnv(t)
	env.movies.details = &model.MovieDetails{
		ID:          27205,
		Title:       "Inception",
		Overview:    "A thief who steals corporate secrets.",
		ReleaseDate: "2010-07-16",
		VoteAverage: 8.4,
		Runtime:     148,
		Genres:      []string{"Action", "Science Fiction"},
		Cast: []model.MovieCredit{
			{Name: "Leonardo DiCaprio"}, {Name: "Joseph Gordon-Levitt"}, {Name: "Elliot Page"},
			{Name: "Tom Hardy"}, {Name: "Ken Watanabe"}, {Name: "Cillian Murphy"},
		},
		Crew: []model.MovieCredit{
			{Name: "Emma Thomas", Job: "Producer"},
			{Name: "Christopher Nolan", Job: "Director"},
		},
	}
	view := &recordingView{}

	_, err := env.dispatch.Dispatch(context.Background(), env.turn("MovieDetails:27205"), view)
	require.NoError(t, err)
	assert.Equal(t, 27205, env.movies.lastMovieID)

	require.Len(t, view.users, 1)
	assert.Equal(t, "Tell me about Inception", view.users[0].Content)
	// Details render directly, no placeholder.
	assert.Empty(t, view.placeholders)

	require.Len(t, view.messages, 1)
	content := view.messages[0].Content
	assert.Contains(t, content, "# Inception (2010)")
	assert.Contains(t, content, "**Rating:** ⭐ 8.4/10")
	assert.Contains(t, content, "**Runtime:** 148 minutes")
	assert.Contains(t, content, "**Director:** Christopher Nolan")
	// Cast caps at five names.
	assert.Contains(t, content, "Ken Watanabe")
	assert.NotContains(t, content, "Cillian Murphy")
}

func TestDispatchDeepThink(t *testing.T) {
	env := newDispatchEnv(t)
	env.provider.response = "Nova: layered reasoning"
	view := &recordingView{}

	_, err := env.dispatch.Dispatch(context.Background(), env.turn("/deepthink why is the sky blue"), view)
	require.NoError(t, err)

	require.Len(t, view.users, 1)
	assert.Equal(t, "why is the sky blue", view.users[0].Content)
	require.Len(t, view.placeholders, 1)
	assert.True(t, view.placeholders[0].IsThinking)

	require.Len(t, env.provider.gotMessages, 2)
	assert.Equal(t, model.MessageRoleSystem, env.provider.gotMessages[0].Role)
	assert.Contains(t, env.provider.gotMessages[0].Content, "well-analyzed response")

	require.Len(t, view.messages, 1)
	final := view.messages[0]
	assert.True(t, final.IsDeepThought)
	assert.Contains(t, final.Content, "### Analysis Complete")
	assert.Contains(t, final.Content, "layered reasoning")
	assert.NotContains(t, final.Content, "Nova:")
}

func TestDispatchDeepThinkEmptyQuestion(t *testing.T) {
	env := newDispatchEnv(t)

	_, err := env.dispatch.Dispatch(context.Background(), env.turn("/deepthink"), &recordingView{})
	require.Error(t, err)
	assert.True(t, model.IsInputError(err))
	assert.Zero(t, env.provider.calls)
}

func TestDispatchWeatherCommand(t *testing.T) {
	env := newDispatchEnv(t)
	env.weather.data = &model.WeatherData{
		Location: model.WeatherLocation{Name: "Tokyo"},
		Current: model.WeatherCurrent{
			TempC: 21, TempF: 69.8, FeelsLikeC: 20, Humidity: 60, WindKPH: 12,
			Condition: model.WeatherCondition{Text: "Partly cloudy"},
		},
	}
	view := &recordingView{}

	_, err := env.dispatch.Dispatch(context.Background(), env.turn("/weather Tokyo"), view)
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", env.weather.lastLocation)

	require.Len(t, view.messages, 1)
	final := view.messages[0]
	assert.True(t, final.IsWeather)
	require.NotNil(t, final.WeatherData)
	assert.Contains(t, final.Content, "weather report for Tokyo")
	assert.Contains(t, final.Content, "21°C (70°F)")
	assert.Contains(t, final.Content, "partly cloudy conditions")
}

func TestDispatchWeatherAmbientFallback(t *testing.T) {
	env := newDispatchEnv(t)
	env.weather.data = &model.WeatherData{Location: model.WeatherLocation{Name: "Berlin"}}
	turn := env.turn("/weather")
	turn.AmbientLocation = "Berlin"

	_, err := env.dispatch.Dispatch(context.Background(), turn, &recordingView{})
	require.NoError(t, err)
	assert.Equal(t, "Berlin", env.weather.lastLocation)
}

func TestDispatchWeatherNoLocation(t *testing.T) {
	env := newDispatchEnv(t)

	_, err := env.dispatch.Dispatch(context.Background(), env.turn("/weather"), &recordingView{})
	require.Error(t, err)
	assert.True(t, model.IsInputError(err))
	assert.Contains(t, err.Error(), "allow location access or specify a location")
	assert.Zero(t, env.weather.calls)
}

func TestExtractWeatherLocation(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"/weather Tokyo", "Tokyo"},
		{"/weather", ""},
		{"what is the weather in Tokyo?", "Tokyo"},
		{"What's the weather like in New York", "New York"},
		{"how is the weather for Paris today", "Paris"},
		// "in" inside a word must survive the filler scrub.
		{"weather Singapore", "Singapore"},
		{"tell me the weather", ""},
	}
	for _, tc := range tests {
		t.Run(tc.content, func(t *testing.T) {
			assert.Equal(t, tc.want, extractWeatherLocation(tc.content))
		})
	}
}

func TestDispatchNews(t *testing.T) {
	env := newDispatchEnv(t)
	env.news.articles = []model.NewsArticle{{Title: "Go 1.26 released"}}
	view := &recordingView{}

	_, err := env.dispatch.Dispatch(context.Background(), env.turn("/news golang"), view)
	require.NoError(t, err)
	assert.Equal(t, "golang", env.news.lastQuery)
	assert.Equal(t, "us", env.news.lastCountry)

	require.Len(t, view.messages, 1)
	final := view.messages[0]
	assert.True(t, final.IsNews)
	assert.Len(t, final.Articles, 1)
	assert.Contains(t, final.Content, `news about "golang"`)
}

func TestDispatchNewsLatestHeadlines(t *testing.T) {
	env := newDispatchEnv(t)
	env.news.articles = []model.NewsArticle{{Title: "Headline"}}
	view := &recordingView{}

	_, err := env.dispatch.Dispatch(context.Background(), env.turn("/news"), view)
	require.NoError(t, err)
	assert.Equal(t, "", env.news.lastQuery)
	assert.Contains(t, view.messages[0].Content, "latest headlines")
}

func TestDispatchImage(t *testing.T) {
	env := newDispatchEnv(t)
	view := &recordingView{}

	_, err := env.dispatch.Dispatch(context.Background(), env.turn("/image a red fox in the snow"), view)
	require.NoError(t, err)
	assert.Equal(t, "a red fox in the snow", env.images.lastPrompt)

	require.Len(t, view.placeholders, 1)
	assert.Contains(t, view.placeholders[0].Content, "9 image generations remaining today")

	require.Len(t, view.messages, 1)
	final := view.messages[0]
	assert.True(t, final.IsImage)
	assert.Contains(t, final.Content, "![Generated Image](data:image/png;base64,")
}

func TestDispatchImageQuotaDenied(t *testing.T) {
	env := newDispatchEnv(t)
	env.drainQuota(t, model.QuotaKindImage)
	view := &recordingView{}

	_, err := env.dispatch.Dispatch(context.Background(), env.turn("/image one more"), view)
	require.Error(t, err)
	assert.True(t, model.IsQuotaExceeded(err))
	assert.Contains(t, err.Error(), "limit of 10 image generations per day")
	// Denied before any placeholder or API call; the user message stays.
	assert.Len(t, view.users, 1)
	assert.Empty(t, view.placeholders)
	assert.Zero(t, env.images.calls)
}

func TestDispatchImageEmptyPrompt(t *testing.T) {
	env := newDispatchEnv(t)

	_, err := env.dispatch.Dispatch(context.Background(), env.turn("/image"), &recordingView{})
	require.Error(t, err)
	assert.True(t, model.IsInputError(err))
	assert.Zero(t, env.images.calls)
}

func TestDispatchVoiceCall(t *testing.T) {
	env := newDispatchEnv(t)
	view := &recordingView{}

	result, err := env.dispatch.Dispatch(context.Background(), env.turn("/call"), view)
	require.NoError(t, err)
	assert.True(t, result.Handled)
	assert.True(t, result.VoiceCall)
	assert.Empty(t, view.users)
	assert.Empty(t, view.messages)
}

func TestDispatchPlainChatNotHandled(t *testing.T) {
	env := newDispatchEnv(t)
	view := &recordingView{}

	result, err := env.dispatch.Dispatch(context.Background(), env.turn("tell me a story"), view)
	require.NoError(t, err)
	assert.False(t, result.Handled)
	assert.Empty(t, view.users)
}

func TestStripAssistantPrefix(t *testing.T) {
	assert.Equal(t, "hello", stripAssistantPrefix("Nova: hello"))
	assert.Equal(t, "hello", stripAssistantPrefix("  Nova:   hello"))
	assert.Equal(t, "Nova is my name", stripAssistantPrefix("Nova is my name"))
	assert.Equal(t, "plain", stripAssistantPrefix("plain"))
}

func TestFormatMovieDetailsUnknowns(t *testing.T) {
	content := formatMovieDetails(&model.MovieDetails{Title: "Obscure", Overview: "Lost film."})
	assert.Contains(t, content, "# Obscure (unknown)")
	assert.Contains(t, content, "**Director:** Unknown")
	assert.NotContains(t, content, "**Runtime:**")
}

func TestDispatchSearchRemainingCountsDown(t *testing.T) {
	env := newDispatchEnv(t)
	for i := 0; i < 3; i++ {
		view := &recordingView{}
		_, err := env.dispatch.Dispatch(context.Background(), env.turn(fmt.Sprintf("/search query %d", i)), view)
		require.NoError(t, err)
		want := fmt.Sprintf("%d searches remaining today", 9-i)
		require.Len(t, view.messages, 1)
		assert.True(t, strings.Contains(view.messages[0].Content, want), "turn %d: %q", i, view.messages[0].Content)
	}
}

func TestDispatchQuotaStorageError(t *testing.T) {
	env := newDispatchEnv(t)
	env.dispatch.Quota = NewQuotaUsecase(
		QuotaUsecaseDeps{QuotaStorage: failingQuotaStorage{}},
		config.Quota{DailyImageLimit: 10, DailySearchLimit: 10},
	)
	view := &recordingView{}

	_, err := env.dispatch.Dispatch(context.Background(), env.turn("/search golang"), view)
	require.Error(t, err)
	assert.False(t, model.IsQuotaExceeded(err))
	assert.Equal(t, 1, view.removed)
	assert.Zero(t, env.search.calls)
}

type failingQuotaStorage struct{}

func (failingQuotaStorage) CheckAndConsume(ctx context.Context, userID uuid.UUID, kind model.QuotaKind, limit int) (model.QuotaDecision, error) {
	return model.QuotaDecision{}, errors.New("storage offline")
}
