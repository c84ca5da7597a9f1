package news

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"MarketAtlas/internal/domain/models"
	xutil "MarketAtlas/pkg/util"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/atom"
	"github.com/mmcdole/gofeed/rss"
)

// Normalize parses an RSS 2.0 or Atom 1.0 document into articles tagged with src.
// Documents of any other shape yield an empty list. Feed order is preserved and
// items without a link are kept; filtering is left to the caller.
func Normalize(body []byte, src models.NewsSource) ([]models.NormalizedArticle, error) {
	switch gofeed.DetectFeedType(bytes.NewReader(body)) {
	case gofeed.FeedTypeRSS:
		feed, err := (&rss.Parser{}).Parse(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("parse rss: %w", err)
		}
		out := make([]models.NormalizedArticle, 0, len(feed.Items))
		for _, item := range feed.Items {
			out = append(out, fromRSS(item, src))
		}
		return out, nil
	case gofeed.FeedTypeAtom:
		feed, err := (&atom.Parser{}).Parse(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("parse atom: %w", err)
		}
		extras := atomExtras(body)
		out := make([]models.NormalizedArticle, 0, len(feed.Entries))
		for i, entry := range feed.Entries {
			var extra *atomEntryExtras
			if len(extras) == len(feed.Entries) {
				extra = &extras[i]
			}
			out = append(out, fromAtom(entry, extra, src))
		}
		return out, nil
	default:
		return []models.NormalizedArticle{}, nil
	}
}

func article(src models.NewsSource) models.NormalizedArticle {
	return models.NormalizedArticle{
		Source: src.ID,
		Label:  src.Label,
		Weight: src.Weight,
		Focus:  src.Focus,
	}
}

func fromRSS(item *rss.Item, src models.NewsSource) models.NormalizedArticle {
	a := article(src)
	a.Title = strings.TrimSpace(item.Title)
	a.Link = strings.TrimSpace(item.Link)
	if a.Link == "" && len(item.Links) > 0 {
		a.Link = strings.TrimSpace(item.Links[0])
	}
	var dcCreator, dcDate string
	if dc := item.DublinCoreExt; dc != nil {
		dcCreator = firstNonEmpty(dc.Creator...)
		dcDate = firstNonEmpty(dc.Date...)
	}
	a.Author = firstNonEmpty(dcCreator, item.Author)
	a.Summary = firstNonEmpty(item.Description, item.Content)
	a.PublishedAt = firstTime(item.PubDateParsed, item.PubDate, dcDate)
	a.Raw = item
	return a
}

func fromAtom(entry *atom.Entry, extra *atomEntryExtras, src models.NewsSource) models.NormalizedArticle {
	a := article(src)
	a.Title = strings.TrimSpace(entry.Title)
	a.Link = atomLink(entry.Links, extra)
	for _, p := range entry.Authors {
		if p != nil && strings.TrimSpace(p.Name) != "" {
			a.Author = strings.TrimSpace(p.Name)
			break
		}
	}
	content := ""
	if entry.Content != nil {
		content = entry.Content.Value
	}
	a.Summary = firstNonEmpty(entry.Summary, content)
	a.PublishedAt = firstTime(entry.UpdatedParsed, entry.Updated)
	if a.PublishedAt == nil {
		a.PublishedAt = firstTime(entry.PublishedParsed, entry.Published)
	}
	if a.PublishedAt == nil && extra != nil {
		a.PublishedAt = firstTime(nil, extra.Created)
	}
	a.Raw = entry
	return a
}

// atomLink prefers an alternate link, then any link carrying an href, then the
// text of the first link element.
func atomLink(links []*atom.Link, extra *atomEntryExtras) string {
	var first string
	for _, l := range links {
		if l == nil {
			continue
		}
		href := strings.TrimSpace(l.Href)
		if href == "" {
			continue
		}
		if l.Rel == "alternate" {
			return href
		}
		if first == "" {
			first = href
		}
	}
	if first == "" && extra != nil && len(extra.Links) > 0 {
		first = strings.TrimSpace(extra.Links[0].Text)
	}
	return first
}

// atomEntryExtras holds entry fields the atom parser skips: the Atom 0.3
// created date and link URLs written as element text.
type atomEntryExtras struct {
	Created string `xml:"created"`
	Links   []struct {
		Href string `xml:"href,attr"`
		Text string `xml:",chardata"`
	} `xml:"link"`
}

// atomExtras reads the skipped fields of every entry in document order.
// It returns nil when the document does not decode.
func atomExtras(body []byte) []atomEntryExtras {
	var doc struct {
		Entries []atomEntryExtras `xml:"entry"`
	}
	d := xml.NewDecoder(bytes.NewReader(body))
	d.Strict = false
	d.AutoClose = xml.HTMLAutoClose
	d.Entity = xml.HTMLEntity
	d.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }
	if err := d.Decode(&doc); err != nil {
		return nil
	}
	return doc.Entries
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// firstTime returns parsed when set, else the first raw value that parses. Result is UTC.
func firstTime(parsed *time.Time, raws ...string) *time.Time {
	if parsed != nil && !parsed.IsZero() {
		t := parsed.UTC()
		return &t
	}
	for _, raw := range raws {
		if t, ok := xutil.ParseTime(raw); ok {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
