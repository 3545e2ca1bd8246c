package model

type MessageRole string

const (
	MessageRoleSystem    = MessageRole("system")
	MessageRoleUser      = MessageRole("user")
	MessageRoleAssistant = MessageRole("assistant")
)

// Message is one entry of a chat transcript. At most one structured
// payload is populated, and only when its flag is set. IsProcessing
// marks a transient placeholder that is never persisted.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`

	IsImage        bool `json:"is_image,omitempty"`
	IsProcessing   bool `json:"is_processing,omitempty"`
	IsThinking     bool `json:"is_thinking,omitempty"`
	IsDeepThought  bool `json:"is_deep_thought,omitempty"`
	IsMovieResults bool `json:"is_movie_results,omitempty"`
	IsWeather      bool `json:"is_weather,omitempty"`
	IsNews         bool `json:"is_news,omitempty"`

	Movies        []Movie        `json:"movies,omitempty"`
	WeatherData   *WeatherData   `json:"weather_data,omitempty"`
	Articles      []NewsArticle  `json:"articles,omitempty"`
	SearchResults []SearchResult `json:"search_results,omitempty"`
}
