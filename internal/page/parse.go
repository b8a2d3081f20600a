package page

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/rohmanhakim/hreflang-audit/internal/metadata"
	"github.com/rohmanhakim/hreflang-audit/pkg/failure"
)

/*
Responsibilities
- Parse HTML leniently into a DOM tree
- Surface the audit-relevant head elements:
    - document title
    - declared language (html lang attribute)
    - robots meta directives
    - canonical link count
    - hreflang alternate declarations

The parser is forgiving: malformed markup is parsed as far as the
tokenizer allows, and missing elements fall back to sentinel values
rather than errors. Element and attribute matching is case-insensitive.
*/

type Parser struct {
	metadataSink metadata.MetadataSink
}

func NewParser(
	metadataSink metadata.MetadataSink,
) Parser {
	return Parser{
		metadataSink: metadataSink,
	}
}

func (p *Parser) Parse(
	sourceUrl url.URL,
	htmlByte []byte,
) (ParsedPage, failure.ClassifiedError) {
	result, err := parse(sourceUrl, htmlByte)
	if err != nil {
		var parseError *ParseError
		errors.As(err, &parseError)
		p.metadataSink.RecordError(
			time.Now(),
			"page",
			"Parser.Parse",
			mapParseErrorToMetadataCause(parseError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, sourceUrl.String()),
			},
		)
		return ParsedPage{}, parseError
	}
	return result, nil
}

func parse(sourceUrl url.URL, htmlByte []byte) (ParsedPage, error) {
	if len(bytes.TrimSpace(htmlByte)) == 0 {
		return ParsedPage{}, &ParseError{
			Message:   "document body is empty",
			Retryable: false,
			Cause:     ErrCauseEmptyBody,
		}
	}

	doc, err := html.Parse(bytes.NewReader(htmlByte))
	if err != nil {
		return ParsedPage{}, &ParseError{
			Message:   fmt.Sprintf("failed to parse HTML: %v", err),
			Retryable: false,
			Cause:     ErrCauseNotHTML,
		}
	}

	gqDoc := goquery.NewDocumentFromNode(doc)

	parsed := ParsedPage{
		Title: NoTitle,
		Lang:  NoLanguage,
	}

	if title := strings.TrimSpace(gqDoc.Find("title").First().Text()); title != "" {
		parsed.Title = title
	}

	if lang := strings.TrimSpace(langAttr(gqDoc)); lang != "" {
		parsed.Lang = lang
	}

	gqDoc.Find("meta").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if name, _ := sel.Attr("name"); strings.EqualFold(name, "robots") {
			parsed.RobotsContent, _ = sel.Attr("content")
			return false
		}
		return true
	})

	gqDoc.Find("link").Each(func(_ int, sel *goquery.Selection) {
		rel, _ := sel.Attr("rel")
		switch {
		case strings.EqualFold(rel, "canonical"):
			parsed.CanonicalCount++

		case strings.EqualFold(rel, "alternate"):
			hreflang, hasHreflang := sel.Attr("hreflang")
			if !hasHreflang {
				return
			}
			href, _ := sel.Attr("href")
			parsed.Alternates = append(parsed.Alternates, AlternateLink{
				HreflangCode: strings.ToLower(strings.TrimSpace(hreflang)),
				TargetURL:    resolveHref(sourceUrl, strings.TrimSpace(href)),
			})
		}
	})

	return parsed, nil
}

// langAttr reads the lang attribute from the root html element.
func langAttr(gqDoc *goquery.Document) string {
	lang, _ := gqDoc.Find("html").First().Attr("lang")
	return lang
}

// resolveHref makes href absolute against the page URL. A href that
// cannot be parsed is returned as-is; the validator flags it downstream.
func resolveHref(sourceUrl url.URL, href string) string {
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return sourceUrl.ResolveReference(ref).String()
}
