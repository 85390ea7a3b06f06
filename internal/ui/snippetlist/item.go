package snippetlist

import (
	"fmt"
	"strings"

	"github.com/snipted/snipterm/internal/api"
	"github.com/snipted/snipterm/internal/render"
)

// Item wraps an API snippet for the bubbles list.
type Item struct {
	*api.Snippet
}

func (i Item) Title() string {
	title := i.Snippet.Title
	if i.Snippet.Language != "" {
		title += "  [" + i.Snippet.Language + "]"
	}
	return title
}

func (i Item) Description() string {
	parts := make([]string, 0, 4)

	heart := "♡"
	if i.Snippet.IsLiked {
		heart = "♥"
	}
	parts = append(parts, fmt.Sprintf("%s %d", heart, i.Snippet.LikesCount))
	if name := i.Snippet.AuthorName(); name != "" {
		parts = append(parts, "by "+name)
	}
	if ago := render.TimeAgo(i.Snippet.CreatedAt.Time); ago != "" {
		parts = append(parts, ago)
	}
	if tags := i.Snippet.TagNames(); len(tags) > 0 {
		parts = append(parts, "#"+strings.Join(tags, " #"))
	}

	desc := strings.Join(parts, " | ")
	if preview := render.Preview(i.Snippet.Code, 60); preview != "" {
		desc += "  " + preview
	}
	return desc
}

func (i Item) FilterValue() string {
	return i.Snippet.Title + " " + i.Snippet.AuthorName() + " " + strings.Join(i.Snippet.TagNames(), " ")
}
