package opensubtitles

// SearchRequest describes subtitle discovery filters for one movie.
type SearchRequest struct {
	TMDBID              int64
	Languages           []string
	TrustedSourcesOnly  bool
	ExcludeForeignParts bool
}

// File is a downloadable file attached to a subtitle.
type File struct {
	ID   int64
	Name string
}

// Subtitle represents a subtitle candidate returned by OpenSubtitles.
type Subtitle struct {
	ID               string
	Language         string
	Release          string
	FeatureTitle     string
	FeatureYear      int
	Downloads        int
	FromTrusted      bool
	ForeignPartsOnly bool
	Files            []File
}

// PrimaryFileID returns the first attached file id, or 0 when none exist.
func (s Subtitle) PrimaryFileID() int64 {
	if len(s.Files) == 0 {
		return 0
	}
	return s.Files[0].ID
}

// SearchResponse bundles the subtitles returned by a query.
type SearchResponse struct {
	Subtitles []Subtitle
	Total     int
}

// DownloadResult captures the downloaded subtitle payload.
type DownloadResult struct {
	Data        []byte
	FileName    string
	DownloadURL string
	Remaining   int
}

type searchResponse struct {
	Data []struct {
		ID         string           `json:"id"`
		Attributes searchAttributes `json:"attributes"`
	} `json:"data"`
	TotalCount int `json:"total_count"`
}

type searchAttributes struct {
	Language         string         `json:"language"`
	Release          string         `json:"release"`
	DownloadCount    int            `json:"download_count"`
	FromTrusted      bool           `json:"from_trusted"`
	ForeignPartsOnly bool           `json:"foreign_parts_only"`
	FeatureDetails   featureDetails `json:"feature_details"`
	Files            []searchFile   `json:"files"`
}

type featureDetails struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
}

type searchFile struct {
	FileID   int64  `json:"file_id"`
	FileName string `json:"file_name"`
}

type downloadRequest struct {
	FileID int64  `json:"file_id"`
	Format string `json:"sub_format,omitempty"`
}

type downloadResponse struct {
	Link      string `json:"link"`
	FileName  string `json:"file_name"`
	Remaining int    `json:"remaining"`
}
