package blog

// Post is a single stored article: its slug, parsed front matter, raw body,
// and the backend revision token current as of the read.
type Post struct {
	Slug        string
	FrontMatter FrontMatter
	Body        string

	// Revision is the opaque revision token reported by the backend for the
	// stored document. Pass it back to Put for optimistic overwrite.
	Revision string
}

// PostSummary is the listing view of a post. Degraded entries come from
// documents whose front matter failed to parse: the slug is known, the title
// falls back to the slug, and the remaining fields are zero.
type PostSummary struct {
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Date     string   `json:"date,omitempty"`
	Summary  string   `json:"summary,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Draft    bool     `json:"draft"`
	Degraded bool     `json:"degraded,omitempty"`
}

// Summary returns the listing view of the post.
func (p *Post) Summary() PostSummary {
	title := p.FrontMatter.Title
	if title == "" {
		title = p.Slug
	}
	return PostSummary{
		Slug:    p.Slug,
		Title:   title,
		Date:    p.FrontMatter.Date,
		Summary: p.FrontMatter.Summary,
		Tags:    p.FrontMatter.Tags,
		Draft:   p.FrontMatter.Draft,
	}
}

// DegradedSummary builds the placeholder entry used when a stored document
// cannot be parsed. The post still appears in listings with its slug as title.
func DegradedSummary(slug string) PostSummary {
	return PostSummary{Slug: slug, Title: slug, Degraded: true}
}
