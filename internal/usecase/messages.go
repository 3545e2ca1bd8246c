package usecase

import (
	"github.com/mohameodo/nova-v5/pkg/local"
)

var (
	searchUsageText = local.NewSet(
		"Please use: /search [type] query\nTypes: image, video, or leave blank for general search",
	)
	searchingText     = local.NewSet("🔍 Searching for \"%s\"...")
	searchResultsText = local.NewSet("🔍 Found %d %s results for \"%s\"\n*%d searches remaining today*")
	searchLimitText   = local.NewSet("You have reached the limit of %d searches per day. Please try again tomorrow.")

	movieUsageText     = local.NewSet("Please specify what kind of movies you are looking for")
	movieSearchingText = local.NewSet("🎬 Searching for movies matching \"%s\"...")
	movieResultsText   = local.NewSet("🎬 Found movies matching \"%s\":")
	movieNoneText      = local.NewSet("No movies found matching your criteria")
	movieAboutText     = local.NewSet("Tell me about %s")

	deepThinkUsageText  = local.NewSet("Please provide a question to analyze")
	analyzingText       = local.NewSet("🤔 Analyzing: \"%s\"")
	analysisResultText  = local.NewSet("### Analysis Complete\n\n%s\n\n---\n*Analysis performed using advanced processing*")
	deepThinkPromptText = local.NewSet("Provide a detailed, well-analyzed response with clear sections and thoughtful insights.")

	weatherLoadingText    = local.NewSet("Getting weather for %s...")
	weatherNoLocationText = local.NewSet("Please allow location access or specify a location")
	weatherReportText     = local.NewSet(
		"Here's your weather report for %s:\n" +
			"The current temperature is %.0f°C (%.0f°F) with %s conditions.\n" +
			"It feels like %.0f°C with %d%% humidity and wind speeds of %.0f km/h.",
	)

	newsLoadingTopicText  = local.NewSet("📰 Fetching the latest news about \"%s\"...")
	newsLoadingLatestText = local.NewSet("📰 Fetching the latest headlines...")
	newsTopicText         = local.NewSet("📰 Here's the latest news about \"%s\":")
	newsLatestText        = local.NewSet("📰 Here are the latest headlines:")
	newsNoneText          = local.NewSet("No news articles found right now. Please try again later.")

	imageUsageText    = local.NewSet("Please describe the image you want to create")
	imageCreatingText = local.NewSet("✨ Creating your artwork: \"%s\"\n\n*You have %d image generations remaining today*")
	imageResultText   = local.NewSet("✨ Here's your masterpiece:\n\n![Generated Image](%s)")
	imageLimitText    = local.NewSet("You have reached the limit of %d image generations per day. Please try again tomorrow.")
)
