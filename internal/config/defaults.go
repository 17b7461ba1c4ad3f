package config

const (
	defaultConfigPath             = "~/.config/openingline/config.toml"
	projectConfigName             = "openingline.toml"
	defaultDataDir                = "."
	defaultMoviesFile             = "movies.json"
	defaultEntriesFile            = "entries.json"
	defaultTMDBBaseURL            = "https://api.themoviedb.org/3"
	defaultTMDBWebURL             = "https://www.themoviedb.org"
	defaultTMDBOriginalLanguage   = "en"
	defaultTMDBMinVoteCount       = 500
	defaultTMDBSortBy             = "popularity.desc"
	defaultOpenSubtitlesBaseURL   = "https://api.opensubtitles.com/api/v1"
	defaultOpenSubtitlesUserAgent = "Opening Line v1.0"
	defaultChoiceCount            = 15
	defaultSkipLabel              = "(Skip movie)"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Environment variables consulted for the API secrets.
const (
	EnvTMDBAPIKey             = "TMDB_API_KEY"
	EnvOpenSubtitlesAPIKey    = "OPEN_SUBTITLES_API_KEY"
	envOpenSubtitlesAPIKeyAlt = "OPENSUBTITLES_API_KEY"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:     defaultDataDir,
			MoviesFile:  defaultMoviesFile,
			EntriesFile: defaultEntriesFile,
		},
		TMDB: TMDB{
			BaseURL:          defaultTMDBBaseURL,
			WebURL:           defaultTMDBWebURL,
			OriginalLanguage: defaultTMDBOriginalLanguage,
			MinVoteCount:     defaultTMDBMinVoteCount,
			SortBy:           defaultTMDBSortBy,
		},
		OpenSubtitles: OpenSubtitles{
			BaseURL:             defaultOpenSubtitlesBaseURL,
			UserAgent:           defaultOpenSubtitlesUserAgent,
			Languages:           []string{"en"},
			TrustedSourcesOnly:  true,
			ExcludeForeignParts: true,
		},
		Curation: Curation{
			ChoiceCount:        defaultChoiceCount,
			SkipLabel:          defaultSkipLabel,
			DropAdvertisements: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
