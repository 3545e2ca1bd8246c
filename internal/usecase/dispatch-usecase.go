package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mohameodo/nova-v5/config"
	"github.com/mohameodo/nova-v5/internal/model"
	"github.com/mohameodo/nova-v5/internal/provider"
)

// Intent is the command class of one user input.
type Intent int

const (
	IntentChat Intent = iota
	IntentVoiceCall
	IntentSearch
	IntentMovieSearch
	IntentMovieDetails
	IntentDeepThink
	IntentWeather
	IntentNews
	IntentImage
)

// ClassifyInput maps raw input to an Intent. Slash commands win over
// keyword matches, and keyword matches fire anywhere in the text, so
// "any news about the weather" routes to weather, not plain chat.
func ClassifyInput(content string) Intent {
	lower := strings.ToLower(strings.TrimSpace(content))
	switch {
	case lower == "/call":
		return IntentVoiceCall
	case strings.HasPrefix(lower, "/search"):
		return IntentSearch
	case strings.HasPrefix(lower, "/vlop"):
		return IntentMovieSearch
	case strings.HasPrefix(strings.TrimSpace(content), "MovieDetails:"):
		return IntentMovieDetails
	case strings.HasPrefix(lower, "/deepthink"):
		return IntentDeepThink
	case strings.HasPrefix(lower, "/weather") || strings.Contains(lower, "weather"):
		return IntentWeather
	case strings.HasPrefix(lower, "/news") || strings.Contains(lower, "news"):
		return IntentNews
	case strings.HasPrefix(lower, "/image"):
		return IntentImage
	default:
		return IntentChat
	}
}

// TurnView receives the visible message mutations of a turn as they
// happen, so callers can show placeholders before the turn completes.
// At most one placeholder is live at a time; ResolvePlaceholder and
// FailPlaceholder both retire it.
type TurnView interface {
	AppendUser(msg model.Message)
	ShowPlaceholder(msg model.Message)
	ResolvePlaceholder(msg model.Message)
	FailPlaceholder()
	AppendAssistant(msg model.Message)
}

type TurnInput struct {
	UserID          uuid.UUID
	Content         string
	ModelID         string
	AmbientLocation string
}

type DispatchResult struct {
	// Handled is false for plain chat, which the session routes to the
	// model provider instead.
	Handled   bool
	VoiceCall bool
}

type SearchClient interface {
	Search(ctx context.Context, query string, searchType model.SearchType) ([]model.SearchResult, error)
}

type MovieClient interface {
	Search(ctx context.Context, query string) ([]model.Movie, error)
	Details(ctx context.Context, movieID int) (*model.MovieDetails, error)
}

type WeatherClient interface {
	Forecast(ctx context.Context, location string) (*model.WeatherData, error)
}

type NewsClient interface {
	Headlines(ctx context.Context, query, country string) ([]model.NewsArticle, error)
}

type ImageClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type DispatchUsecaseDeps struct {
	Search    SearchClient
	Movies    MovieClient
	Weather   WeatherClient
	News      NewsClient
	Images    ImageClient
	Quota     *QuotaUsecase
	Providers *provider.Registry
}

type DispatchUsecase struct {
	DispatchUsecaseDeps
	cfg config.Chat
}

func NewDispatchUsecase(deps DispatchUsecaseDeps, cfg config.Chat) *DispatchUsecase {
	return &DispatchUsecase{
		DispatchUsecaseDeps: deps,
		cfg:                 cfg,
	}
}

// Dispatch runs the command branch for one input. Plain chat returns
// Handled=false without touching the view. Failed branches retire
// their placeholder before returning the error; the appended user
// message stays.
func (d *DispatchUsecase) Dispatch(ctx context.Context, turn TurnInput, view TurnView) (DispatchResult, error) {
	switch ClassifyInput(turn.Content) {
	case IntentVoiceCall:
		return DispatchResult{Handled: true, VoiceCall: true}, nil
	case IntentSearch:
		return DispatchResult{Handled: true}, d.handleSearch(ctx, turn, view)
	case IntentMovieSearch:
		return DispatchResult{Handled: true}, d.handleMovieSearch(ctx, turn, view)
	case IntentMovieDetails:
		return DispatchResult{Handled: true}, d.handleMovieDetails(ctx, turn, view)
	case IntentDeepThink:
		return DispatchResult{Handled: true}, d.handleDeepThink(ctx, turn, view)
	case IntentWeather:
		return DispatchResult{Handled: true}, d.handleWeather(ctx, turn, view)
	case IntentNews:
		return DispatchResult{Handled: true}, d.handleNews(ctx, turn, view)
	case IntentImage:
		return DispatchResult{Handled: true}, d.handleImage(ctx, turn, view)
	default:
		return DispatchResult{}, nil
	}
}

func (d *DispatchUsecase) handleSearch(ctx context.Context, turn TurnInput, view TurnView) error {
	rest := strings.TrimSpace(turn.Content[len("/search"):])
	searchType := model.SearchTypeAll
	query := rest
	switch {
	case strings.HasPrefix(rest, "image "):
		searchType = model.SearchTypeImage
		query = strings.TrimSpace(rest[len("image "):])
	case strings.HasPrefix(rest, "video "):
		searchType = model.SearchTypeVideo
		query = strings.TrimSpace(rest[len("video "):])
	}
	if query == "" {
		return model.NewInputError(searchUsageText.Default)
	}

	view.AppendUser(model.Message{Role: model.MessageRoleUser, Content: turn.Content})
	view.ShowPlaceholder(model.Message{
		Role:         model.MessageRoleAssistant,
		Content:      searchingText.DefaultFormat(query),
		IsProcessing: true,
	})

	decision, err := d.Quota.Consume(ctx, turn.UserID, model.QuotaKindSearch)
	if err != nil {
		view.FailPlaceholder()
		return err
	}
	if !decision.Allowed {
		view.FailPlaceholder()
		return &model.QuotaExceededError{
			Kind: model.QuotaKindSearch,
			Msg:  searchLimitText.DefaultFormat(d.Quota.Limit(model.QuotaKindSearch)),
		}
	}

	results, err := d.Search.Search(ctx, query, searchType)
	if err != nil {
		view.FailPlaceholder()
		return err
	}
	view.ResolvePlaceholder(model.Message{
		Role:          model.MessageRoleAssistant,
		Content:       searchResultsText.DefaultFormat(len(results), string(searchType), query, decision.Remaining),
		SearchResults: results,
	})
	return nil
}

func (d *DispatchUsecase) handleMovieSearch(ctx context.Context, turn TurnInput, view TurnView) error {
	query := strings.TrimSpace(turn.Content[len("/vlop"):])
	if query == "" {
		return model.NewInputError(movieUsageText.Default)
	}

	view.AppendUser(model.Message{Role: model.MessageRoleUser, Content: turn.Content})
	view.ShowPlaceholder(model.Message{
		Role:         model.MessageRoleAssistant,
		Content:      movieSearchingText.DefaultFormat(query),
		IsProcessing: true,
	})

	movies, err := d.Movies.Search(ctx, query)
	if err != nil {
		view.FailPlaceholder()
		return err
	}
	if len(movies) == 0 {
		view.FailPlaceholder()
		return model.NewProviderError(movieNoneText.Default, nil)
	}
	view.ResolvePlaceholder(model.Message{
		Role:           model.MessageRoleAssistant,
		Content:        movieResultsText.DefaultFormat(query),
		IsMovieResults: true,
		Movies:         movies,
	})
	return nil
}

func (d *DispatchUsecase) handleMovieDetails(ctx context.Context, turn TurnInput, view TurnView) error {
	idRaw := strings.TrimPrefix(strings.TrimSpace(turn.Content), "MovieDetails:")
	movieID, err := strconv.Atoi(strings.TrimSpace(idRaw))
	if err != nil {
		return model.NewInputError("Please select a movie from the results")
	}

	details, err := d.Movies.Details(ctx, movieID)
	if err != nil {
		return err
	}
	view.AppendUser(model.Message{
		Role:    model.MessageRoleUser,
		Content: movieAboutText.DefaultFormat(details.Title),
	})
	view.AppendAssistant(model.Message{
		Role:    model.MessageRoleAssistant,
		Content: formatMovieDetails(details),
	})
	return nil
}

func (d *DispatchUsecase) handleDeepThink(ctx context.Context, turn TurnInput, view TurnView) error {
	question := strings.TrimSpace(turn.Content[len("/deepthink"):])
	if question == "" {
		return model.NewInputError(deepThinkUsageText.Default)
	}

	modelCfg, err := d.Providers.Resolve(turn.ModelID)
	if err != nil {
		return err
	}
	prov, err := d.Providers.ProviderFor(modelCfg.Kind)
	if err != nil {
		return err
	}

	view.AppendUser(model.Message{Role: model.MessageRoleUser, Content: question})
	view.ShowPlaceholder(model.Message{
		Role:         model.MessageRoleAssistant,
		Content:      analyzingText.DefaultFormat(question),
		IsProcessing: true,
		IsThinking:   true,
	})

	select {
	case <-time.After(d.cfg.DeepThinkDelay):
	case <-ctx.Done():
		view.FailPlaceholder()
		return ctx.Err()
	}

	response, err := prov.SendMessage(ctx, []model.Message{
		{Role: model.MessageRoleSystem, Content: deepThinkPromptText.Default},
		{Role: model.MessageRoleUser, Content: question},
	}, modelCfg.ID)
	if err != nil {
		view.FailPlaceholder()
		return err
	}
	view.ResolvePlaceholder(model.Message{
		Role:          model.MessageRoleAssistant,
		Content:       analysisResultText.DefaultFormat(stripAssistantPrefix(response)),
		IsDeepThought: true,
	})
	return nil
}

func (d *DispatchUsecase) handleWeather(ctx context.Context, turn TurnInput, view TurnView) error {
	location := extractWeatherLocation(turn.Content)
	if location == "" {
		location = turn.AmbientLocation
	}
	if location == "" {
		return model.NewInputError(weatherNoLocationText.Default)
	}

	view.AppendUser(model.Message{Role: model.MessageRoleUser, Content: turn.Content})
	view.ShowPlaceholder(model.Message{
		Role:         model.MessageRoleAssistant,
		Content:      weatherLoadingText.DefaultFormat(location),
		IsProcessing: true,
	})

	data, err := d.Weather.Forecast(ctx, location)
	if err != nil {
		view.FailPlaceholder()
		return err
	}
	view.ResolvePlaceholder(model.Message{
		Role: model.MessageRoleAssistant,
		Content: weatherReportText.DefaultFormat(
			data.Location.Name,
			data.Current.TempC,
			data.Current.TempF,
			strings.ToLower(data.Current.Condition.Text),
			data.Current.FeelsLikeC,
			data.Current.Humidity,
			data.Current.WindKPH,
		),
		IsWeather:   true,
		WeatherData: data,
	})
	return nil
}

func (d *DispatchUsecase) handleNews(ctx context.Context, turn TurnInput, view TurnView) error {
	query := extractNewsQuery(turn.Content)

	view.AppendUser(model.Message{Role: model.MessageRoleUser, Content: turn.Content})
	loading := newsLoadingLatestText.Default
	if query != "" {
		loading = newsLoadingTopicText.DefaultFormat(query)
	}
	view.ShowPlaceholder(model.Message{
		Role:         model.MessageRoleAssistant,
		Content:      loading,
		IsProcessing: true,
	})

	articles, err := d.News.Headlines(ctx, query, "us")
	if err != nil {
		view.FailPlaceholder()
		return err
	}
	if len(articles) == 0 {
		view.FailPlaceholder()
		return model.NewProviderError(newsNoneText.Default, nil)
	}
	header := newsLatestText.Default
	if query != "" {
		header = newsTopicText.DefaultFormat(query)
	}
	view.ResolvePlaceholder(model.Message{
		Role:     model.MessageRoleAssistant,
		Content:  header,
		IsNews:   true,
		Articles: articles,
	})
	return nil
}

func (d *DispatchUsecase) handleImage(ctx context.Context, turn TurnInput, view TurnView) error {
	prompt := strings.TrimSpace(turn.Content[len("/image"):])
	if prompt == "" {
		return model.NewInputError(imageUsageText.Default)
	}

	view.AppendUser(model.Message{Role: model.MessageRoleUser, Content: turn.Content})

	decision, err := d.Quota.Consume(ctx, turn.UserID, model.QuotaKindImage)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return &model.QuotaExceededError{
			Kind: model.QuotaKindImage,
			Msg:  imageLimitText.DefaultFormat(d.Quota.Limit(model.QuotaKindImage)),
		}
	}

	view.ShowPlaceholder(model.Message{
		Role:         model.MessageRoleAssistant,
		Content:      imageCreatingText.DefaultFormat(prompt, decision.Remaining),
		IsProcessing: true,
	})

	imageURL, err := d.Images.Generate(ctx, prompt)
	if err != nil {
		view.FailPlaceholder()
		return err
	}
	view.ResolvePlaceholder(model.Message{
		Role:    model.MessageRoleAssistant,
		Content: imageResultText.DefaultFormat(imageURL),
		IsImage: true,
	})
	return nil
}

var (
	assistantPrefixPattern = regexp.MustCompile(`^Nova:\s*`)
	weatherPhrasePattern   = regexp.MustCompile(`(?i)what'?s? (is )?the weather|how'?s? (is )?the weather|tell me the weather|weather`)
	weatherFillerPattern   = regexp.MustCompile(`(?i)\b(in|for|like|today|right now|now)\b`)
	newsPhrasePattern      = regexp.MustCompile(`(?i)show me (the )?news|get (the )?news|latest news|news`)
	newsFillerPattern      = regexp.MustCompile(`(?i)\b(about|on|today)\b`)
)

// stripAssistantPrefix drops a leading self-referential "Nova:" the
// model sometimes emits before its answer.
func stripAssistantPrefix(s string) string {
	return strings.TrimSpace(assistantPrefixPattern.ReplaceAllString(strings.TrimSpace(s), ""))
}

// extractWeatherLocation pulls a location out of either the /weather
// argument or a natural phrasing like "what's the weather in Tokyo".
// Filler words are scrubbed on word boundaries only, so "Singapore"
// keeps its "in". Empty means the caller should fall back to the
// ambient location.
func extractWeatherLocation(content string) string {
	if strings.HasPrefix(strings.ToLower(content), "/weather") {
		return strings.TrimSpace(content[len("/weather"):])
	}
	scrubbed := weatherPhrasePattern.ReplaceAllString(content, " ")
	scrubbed = weatherFillerPattern.ReplaceAllString(scrubbed, " ")
	return strings.Trim(strings.Join(strings.Fields(scrubbed), " "), " ?!.,")
}

func extractNewsQuery(content string) string {
	if strings.HasPrefix(strings.ToLower(content), "/news") {
		return strings.TrimSpace(content[len("/news"):])
	}
	scrubbed := newsPhrasePattern.ReplaceAllString(content, " ")
	scrubbed = newsFillerPattern.ReplaceAllString(scrubbed, " ")
	return strings.Trim(strings.Join(strings.Fields(scrubbed), " "), " ?!.,")
}

func formatMovieDetails(details *model.MovieDetails) string {
	year := "unknown"
	if len(details.ReleaseDate) >= 4 {
		year = details.ReleaseDate[:4]
	}
	director := "Unknown"
	for _, credit := range details.Crew {
		if credit.Job == "Director" {
			director = credit.Name
			break
		}
	}
	cast := make([]string, 0, 5)
	for _, credit := range details.Cast {
		if len(cast) == 5 {
			break
		}
		cast = append(cast, credit.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%s)\n\n%s\n\n", details.Title, year, details.Overview)
	fmt.Fprintf(&b, "**Rating:** ⭐ %.1f/10\n", details.VoteAverage)
	if details.Runtime > 0 {
		fmt.Fprintf(&b, "**Runtime:** %d minutes\n", details.Runtime)
	}
	if len(details.Genres) > 0 {
		fmt.Fprintf(&b, "**Genres:** %s\n", strings.Join(details.Genres, ", "))
	}
	if len(cast) > 0 {
		fmt.Fprintf(&b, "\n**Cast:** %s\n", strings.Join(cast, ", "))
	}
	fmt.Fprintf(&b, "\n**Director:** %s", director)
	return b.String()
}
