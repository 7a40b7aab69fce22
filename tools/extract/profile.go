package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Profile is the public face of a social-media account.
type Profile struct {
	Platform string
	URL      string
	Title    string
	Name     string
	Bio      string
}

var (
	profileNameSelectors = []string{"[data-testid='ocf-headline']", ".profile h1", "h1", ".username", "[data-testid='UserProfileHeader_Items']"}
	profileBioSelectors  = []string{".bio", "[data-testid='UserProfileHeader_Items']", ".profile p", ".description"}
)

// ProfileFromHTML extracts name and bio from a rendered profile page.
// The selector lists cover common platforms plus generic fallbacks; only
// publicly rendered fields can ever be found.
func ProfileFromHTML(platform, pageURL, html string) (Profile, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		Platform: platform,
		URL:      pageURL,
		Title:    strings.TrimSpace(doc.Find("title").First().Text()),
		Name:     firstText(doc, profileNameSelectors),
		Bio:      firstText(doc, profileBioSelectors),
	}, nil
}
