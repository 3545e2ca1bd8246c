package model

type SearchType string

const (
	SearchTypeAll   = SearchType("all")
	SearchTypeText  = SearchType("text")
	SearchTypeImage = SearchType("image")
	SearchTypeVideo = SearchType("video")
)

type SearchResult struct {
	Title   string     `json:"title"`
	Link    string     `json:"link"`
	Snippet string     `json:"snippet"`
	Image   string     `json:"image,omitempty"`
	Type    SearchType `json:"type"`
}

type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	GenreIDs    []int   `json:"genre_ids"`
}

type MovieCredit struct {
	Name string `json:"name"`
	Job  string `json:"job,omitempty"`
}

type MovieDetails struct {
	ID           int           `json:"id"`
	Title        string        `json:"title"`
	Overview     string        `json:"overview"`
	ReleaseDate  string        `json:"release_date"`
	VoteAverage  float64       `json:"vote_average"`
	Runtime      int           `json:"runtime"`
	Genres       []string      `json:"genres"`
	Cast         []MovieCredit `json:"cast"`
	Crew         []MovieCredit `json:"crew"`
	PosterPath   string        `json:"poster_path"`
	BackdropPath string        `json:"backdrop_path"`
}

type WeatherCondition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

type WeatherLocation struct {
	Name      string `json:"name"`
	Region    string `json:"region"`
	Country   string `json:"country"`
	Localtime string `json:"localtime"`
}

type WeatherCurrent struct {
	TempC       float64          `json:"temp_c"`
	TempF       float64          `json:"temp_f"`
	Condition   WeatherCondition `json:"condition"`
	WindKPH     float64          `json:"wind_kph"`
	Humidity    int              `json:"humidity"`
	FeelsLikeC  float64          `json:"feelslike_c"`
	UV          float64          `json:"uv"`
}

type WeatherDay struct {
	MaxTempC  float64          `json:"maxtemp_c"`
	MinTempC  float64          `json:"mintemp_c"`
	Condition WeatherCondition `json:"condition"`
}

type WeatherForecastDay struct {
	Date string     `json:"date"`
	Day  WeatherDay `json:"day"`
}

type WeatherForecast struct {
	ForecastDay []WeatherForecastDay `json:"forecastday"`
}

// WeatherData is the current conditions plus a three day forecast, in
// the upstream weather API's shape.
type WeatherData struct {
	Location WeatherLocation `json:"location"`
	Current  WeatherCurrent  `json:"current"`
	Forecast WeatherForecast `json:"forecast"`
}

type NewsSource struct {
	Name string `json:"name"`
}

type NewsArticle struct {
	Source      NewsSource `json:"source"`
	Author      string     `json:"author,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	URLToImage  string     `json:"urlToImage,omitempty"`
	PublishedAt string     `json:"publishedAt"`
	Content     string     `json:"content,omitempty"`
}
