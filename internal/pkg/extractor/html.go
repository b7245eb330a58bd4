package extractor

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// HTMLExtractor strips markup from rendered post content. It is used by
// the wp sync path and is intentionally not part of the upload registry.
type HTMLExtractor struct{}

func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

var (
	trailingWS = regexp.MustCompile(`[ \t]+\n`)
	blankRuns  = regexp.MustCompile(`\n{2,}`)
)

func (e *HTMLExtractor) Extract(ctx context.Context, data []byte, source string) (*Result, error) {
	tokenizer := html.NewTokenizer(strings.NewReader(string(data)))

	var sb strings.Builder
	skipDepth := 0
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			// The tokenizer never fails on malformed markup; ErrorToken is EOF.
			break
		}

		switch tt {
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isNonContentTag(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isNonContentTag(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				sb.Write(tokenizer.Text())
			}
		}
	}

	return &Result{
		Text:     CollapseWhitespace(sb.String()),
		Metadata: Metadata{Source: source},
	}, nil
}

func isNonContentTag(name string) bool {
	switch name {
	case "script", "style", "noscript":
		return true
	}
	return false
}

// CollapseWhitespace normalizes line endings, strips trailing whitespace
// from each line and folds runs of blank lines into a single break.
func CollapseWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = trailingWS.ReplaceAllString(text, "\n")
	text = blankRuns.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}
