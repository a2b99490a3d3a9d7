package esbd

// Site describes where ESBD pages live.
type Site struct {
	ListURL      string // listing index, paged with ?page=N
	DetailBase   string // origin that detail and attachment paths hang off
	DetailPrefix string // path prefix of solicitation detail links
}

var DefaultSite = Site{
	ListURL:      "https://www.txsmartbuy.com/esbd",
	DetailBase:   "https://www.txsmartbuy.gov",
	DetailPrefix: "/esbd/",
}

const DefaultUserAgent = "Mozilla/5.0 (compatible; BidPulsarBot/1.0)"
