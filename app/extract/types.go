package extract

// CreatorMeta carries the raw creator identity fields pulled out of a
// provider payload. A nil *CreatorMeta means "nothing to extract";
// malformed payloads are not an error.
type CreatorMeta struct {
	ProviderCreatorID string
	Name              string
	ImageURL          string
	Handle            string
}

// Article is the result of running readability over fetched HTML.
// A page that is not readable still carries whatever page metadata
// could be recovered (thumbnail, author image, site name).
type Article struct {
	IsArticle bool

	Title              string
	Content            string // cleaned reader-view HTML, empty when not an article
	Author             string // byline, when recoverable from the markup
	WordCount          int
	ReadingTimeMinutes int

	ThumbnailURL   string
	AuthorImageURL string
	SiteName       string
}
