package rendering

import (
	"fmt"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SectionSequence returns the data-section markers of an HTML document in order.
func SectionSequence(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	var out []string
	doc.Find("[data-section]").Each(func(_ int, s *goquery.Selection) {
		if kind, ok := s.Attr("data-section"); ok {
			out = append(out, kind)
		}
	})
	return out, nil
}

// VerifyParity checks that the screen and print documents render the same
// sections in the same order.
func VerifyParity(screenHTML, printHTML string) error {
	screen, err := SectionSequence(screenHTML)
	if err != nil {
		return &RenderError{Message: "failed to read screen sections", Cause: err}
	}
	printed, err := SectionSequence(printHTML)
	if err != nil {
		return &RenderError{Message: "failed to read print sections", Cause: err}
	}
	if !slices.Equal(screen, printed) {
		return &ParityError{Screen: screen, Print: printed}
	}
	return nil
}
