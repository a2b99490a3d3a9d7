package esbd

import (
	"fmt"
	"strings"

	"esbd-engine/internal/domain"
	"esbd-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

const resultRowClass = ".esbd-result-row"

// ExtractListings parses one listing page. Each detail link is read in the
// context of its result row (or its parent when the row class is absent);
// links whose row has no Solicitation ID are skipped. Output is deduped by
// solicitation ID, first occurrence wins.
func ExtractListings(page string, site Site) ([]domain.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("esbd parse listing html: %w", err)
	}

	var items []domain.RawListing
	sel := fmt.Sprintf(`a[href^=%q]`, site.DetailPrefix)
	doc.Find(sel).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		title := util.CleanText(util.JoinText(a, " "))
		if href == "" || title == "" {
			return
		}

		container := a.ParentsFiltered(resultRowClass).First()
		if container.Length() == 0 {
			container = a.Parent()
		}
		if container.Length() == 0 {
			return
		}
		block := util.CleanText(util.JoinText(container, "\n"))

		it := domain.RawListing{
			Title:     title,
			DetailURL: util.ResolveURL(site.DetailBase, href),
		}
		if !applyRules(listingRules, block, &it) {
			return
		}
		items = append(items, it)
	})

	return DedupeListings(items), nil
}

// DedupeListings keeps the first listing per solicitation ID.
func DedupeListings(items []domain.RawListing) []domain.RawListing {
	return util.DedupeBy(items, func(l domain.RawListing) string { return l.SolicitationID })
}
