// Package pdfdoi extracts citable identifiers from PDF files so local
// papers can be cited without hand-typing a DOI.
package pdfdoi

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DOIs are usually printed on the first page, in headers, footers, or
// citation lines.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// arXiv stamps the margin of the first page with e.g. "arXiv:1407.3561v1".
var arxivPattern = regexp.MustCompile(`arXiv:(\d{4}\.\d{4,5})(v\d+)?`)

// maxScanPages bounds how deep into a PDF identifiers are searched for.
const maxScanPages = 3

// ExtractCitekey scans the leading pages of a PDF for a citable identifier
// and returns it as a citekey, preferring a DOI over an arXiv identifier.
// It returns "" when no identifier is found; that is not an error.
func ExtractCitekey(filePath string) (string, error) {
	text, err := leadingText(filePath)
	if err != nil {
		return "", err
	}
	if doi := FindDOI(text); doi != "" {
		return "doi:" + doi, nil
	}
	if arxivID := FindArxivID(text); arxivID != "" {
		return "arxiv:" + arxivID, nil
	}
	return "", nil
}

// leadingText returns the plain text of the first pages of a PDF.
func leadingText(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pages := maxScanPages
	if r.NumPage() < pages {
		pages = r.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

// FindDOI returns the first plausible DOI in text, or "".
func FindDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		// PDFs run punctuation right up against the DOI.
		match = strings.TrimRight(match, ".,;:)")
		if isPlausibleDOI(match) {
			return strings.ToLower(match)
		}
	}
	return ""
}

// FindArxivID returns the first arXiv identifier in text without its
// version suffix, or "".
func FindArxivID(text string) string {
	match := arxivPattern.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return match[1]
}

func isPlausibleDOI(doi string) bool {
	if len(doi) < 10 {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	return slashIdx != -1 && slashIdx < len(doi)-1
}
