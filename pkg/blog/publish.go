package blog

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// PublishInput carries the editor-entered fields for one publish call. Tags
// is the raw comma-separated string, exactly as typed.
type PublishInput struct {
	Title        string
	Date         string
	Summary      string
	Tags         string
	Draft        bool
	SlugOverride string
	Content      string
}

// PublishResult reports where the published post will be served and the
// revision token the backend assigned to the write.
type PublishResult struct {
	Slug     string
	URL      string
	Revision string
}

// Publisher turns editor input into a stored post: it validates the fields,
// derives the slug, decides create versus update by probing the repository,
// and performs exactly one mutation per successful call. Validation failures
// never reach the backend.
type Publisher struct {
	repo Repository

	// URLPrefix is the public path prefix for posts, "/blog" by default.
	URLPrefix string
}

// NewPublisher constructs a publisher over repo.
func NewPublisher(repo Repository) *Publisher {
	return &Publisher{repo: repo, URLPrefix: "/blog"}
}

func (p *Publisher) Publish(ctx context.Context, in PublishInput) (*PublishResult, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, NewValidationError("title", "required")
	}

	date := strings.TrimSpace(in.Date)
	if date == "" {
		return nil, NewValidationError("date", "required")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, NewValidationError("date", fmt.Sprintf("not an ISO date: %q", date))
	}

	base := strings.TrimSpace(in.SlugOverride)
	if base == "" {
		base = title
	}
	slug, err := DeriveSlug(base)
	if err != nil {
		return nil, err
	}

	// Existence check decides create vs update and supplies the revision
	// token for an optimistic overwrite. Missing is the create path; any
	// other failure propagates.
	expectedRev := ""
	existing, err := p.repo.Get(ctx, slug)
	switch {
	case err == nil:
		expectedRev = existing.Revision
	case IsNotFound(err):
		// create
	default:
		return nil, err
	}

	fm := &FrontMatter{
		Title:   title,
		Date:    date,
		Summary: strings.TrimSpace(in.Summary),
		Tags:    SplitTags(in.Tags),
		Draft:   in.Draft,
	}

	rev, err := p.repo.Put(ctx, slug, fm, in.Content, expectedRev)
	if err != nil {
		return nil, err
	}

	return &PublishResult{
		Slug:     slug,
		URL:      p.URLPrefix + "/" + slug,
		Revision: rev,
	}, nil
}
