package esbd

import (
	"regexp"
	"strings"

	"esbd-engine/internal/domain"
	"esbd-engine/internal/scrape/util"
)

// fieldRule pulls one labeled value out of a listing row's flattened text.
// A required rule that misses disqualifies the whole row; an optional one
// just leaves its field nil.
type fieldRule struct {
	name     string
	re       *regexp.Regexp
	required bool
	apply    func(*domain.RawListing, string)
}

func (r fieldRule) match(block string) (string, bool) {
	m := r.re.FindStringSubmatch(block)
	if m == nil {
		return "", false
	}
	return m[1], true
}

var listingRules = []fieldRule{
	{
		name:     "solicitation_id",
		re:       regexp.MustCompile(`Solicitation ID:\s*([A-Za-z0-9\-_]+)`),
		required: true,
		apply:    func(l *domain.RawListing, v string) { l.SolicitationID = v },
	},
	{
		name:  "posted_date",
		re:    regexp.MustCompile(`Posting Date:\s*([0-9]{1,2}/[0-9]{1,2}/[0-9]{4})`),
		apply: func(l *domain.RawListing, v string) { l.PostedDate = util.ParseDate(v) },
	},
	{
		name:  "due_date",
		re:    regexp.MustCompile(`Due Date:\s*([0-9]{1,2}/[0-9]{1,2}/[0-9]{4})`),
		apply: func(l *domain.RawListing, v string) { l.DueDate = util.ParseDate(v) },
	},
	{
		name: "due_time",
		re:   regexp.MustCompile(`(?i)Due Time:\s*([0-9]{1,2}:[0-9]{2}\s*[AP]M)`),
		apply: func(l *domain.RawListing, v string) {
			l.DueTime = util.OptText(strings.ToUpper(v))
		},
	},
	{
		name:  "agency_code",
		re:    regexp.MustCompile(`Agency/Texas SmartBuy Member Number:\s*([A-Za-z0-9]+)`),
		apply: func(l *domain.RawListing, v string) { l.AgencyCode = util.OptText(v) },
	},
	{
		name:  "status",
		re:    regexp.MustCompile(`Status:\s*([A-Za-z ]+)`),
		apply: func(l *domain.RawListing, v string) { l.Status = util.OptText(cutAtLabel(v)) },
	},
}

// rowLabels are the label words a free-text capture can run into once the
// row is flattened to a single line.
var rowLabels = []string{"Solicitation ID", "Posting Date", "Due Date", "Due Time", "Agency", "Status"}

func cutAtLabel(v string) string {
	for _, lab := range rowLabels {
		if i := strings.Index(v, lab); i >= 0 {
			v = v[:i]
		}
	}
	return v
}

// applyRules fills l from block. It reports false when a required label is
// missing, in which case l must be discarded.
func applyRules(rules []fieldRule, block string, l *domain.RawListing) bool {
	for _, r := range rules {
		v, ok := r.match(block)
		if !ok {
			if r.required {
				return false
			}
			continue
		}
		r.apply(l, v)
	}
	return true
}

var agencyLabels = []string{
	"Agency/Texas SmartBuy Member Name:",
	"Agency Name:",
	"Agency:",
	"Issuing Agency:",
	"Issuing Organization:",
}

var agencyRules = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(agencyLabels))
	for _, lab := range agencyLabels {
		out = append(out, regexp.MustCompile(regexp.QuoteMeta(lab)+`\s*(.+)`))
	}
	return out
}()

var descriptionStops = map[string]bool{
	"Attachments":         true,
	"Contact Information": true,
	"Questions":           true,
	"Vendor Information":  true,
}

const (
	descriptionLabel  = "Solicitation Description:"
	minDescriptionLen = 20
)

var attachmentsHeading = regexp.MustCompile(`(?i)\bAttachments\b`)
