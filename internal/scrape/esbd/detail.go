package esbd

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"esbd-engine/internal/domain"
	"esbd-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Detail is what a solicitation page adds on top of its listing row.
type Detail struct {
	Description *string
	AgencyName  *string
	Attachments []domain.Attachment // nil when none were found
}

// ExtractDetail parses one solicitation detail page.
func ExtractDetail(page string, site Site) (Detail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return Detail{}, fmt.Errorf("esbd parse detail html: %w", err)
	}
	root := doc.Selection
	return Detail{
		Description: extractDescription(util.Lines(root)),
		AgencyName:  extractAgency(util.RawText(root, "\n")),
		Attachments: extractAttachments(doc, site.DetailBase),
	}, nil
}

// extractDescription collects the lines between the description label and
// the next known section heading. Short results are page chrome, not content.
func extractDescription(lines []string) *string {
	var desc []string
	in := false
	for _, ln := range lines {
		if ln == descriptionLabel {
			in = true
			continue
		}
		if !in {
			continue
		}
		if descriptionStops[ln] {
			break
		}
		desc = append(desc, ln)
	}
	if len(desc) == 0 {
		return nil
	}
	out := util.CleanText(strings.Join(desc, "\n"))
	if utf8.RuneCountInString(out) < minDescriptionLen {
		return nil
	}
	return &out
}

func extractAgency(text string) *string {
	for _, re := range agencyRules {
		if m := re.FindStringSubmatch(text); m != nil {
			return util.OptText(m[1])
		}
	}
	return nil
}

func extractAttachments(doc *goquery.Document, base string) []domain.Attachment {
	anchors := attachmentSection(doc)
	if anchors == nil || anchors.Length() == 0 {
		anchors = doc.Find("a[href]").FilterFunction(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			return util.LooksLikeDocument(href)
		})
	}

	var out []domain.Attachment
	anchors.Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		out = append(out, domain.Attachment{
			Name: util.OptText(util.JoinText(a, " ")),
			URL:  util.ResolveURL(base, href),
		})
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

// attachmentSection finds the links that follow an "Attachments" heading:
// the heading's next sibling element, or its parent when it has none.
func attachmentSection(doc *goquery.Document) *goquery.Selection {
	var found *goquery.Selection
	util.WalkText(doc.Selection, func(n *html.Node) {
		if found != nil || n.Parent == nil || !attachmentsHeading.MatchString(n.Data) {
			return
		}
		heading := doc.FindNodes(n.Parent)
		container := heading.Next()
		if container.Length() == 0 {
			container = heading.Parent()
		}
		if container.Length() == 0 {
			return
		}
		if anchors := container.Find("a[href]"); anchors.Length() > 0 {
			found = anchors
		}
	})
	return found
}
