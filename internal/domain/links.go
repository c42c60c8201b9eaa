package domain

import (
	"html"
	"net/url"
	"strconv"
	"strings"
)

// WorkItemURL returns the web page of a work item, e.g.
// https://dev.azure.com/contoso/Fabrikam%20Fiber/_workitems/edit/42.
func WorkItemURL(domain, project string, id int) string {
	return webURL(domain, project, "_workitems", "edit", strconv.Itoa(id))
}

// QueryURL returns the web page of a saved query.
func QueryURL(domain, project, id string) string {
	return webURL(domain, project, "_queries", "query", id)
}

var (
	markdownTitleEscaper = strings.NewReplacer(`\`, `\\`, "[", `\[`, "]", `\]`)
	markdownURLEscaper   = strings.NewReplacer("(", "%28", ")", "%29", " ", "%20")
)

// MarkdownLink formats a Markdown link. Brackets in the title and parentheses
// in the link are escaped so neither ends the link early.
func MarkdownLink(title, link string) string {
	return "[" + markdownTitleEscaper.Replace(title) + "](" + markdownURLEscaper.Replace(link) + ")"
}

// HTMLLink formats an anchor element. The title is HTML-escaped.
func HTMLLink(title, link string) string {
	return `<a href="` + html.EscapeString(link) + `">` + html.EscapeString(title) + "</a>"
}

// webURL joins the organisation domain (which may carry a path such as
// "dev.azure.com/contoso") with the non-empty segments and percent-encodes
// the result.
func webURL(domain string, segments ...string) string {
	domain = strings.Trim(domain, "/")
	host, orgPath, _ := strings.Cut(domain, "/")

	parts := make([]string, 0, len(segments)+1)
	if orgPath != "" {
		parts = append(parts, orgPath)
	}
	for _, seg := range segments {
		if seg != "" {
			parts = append(parts, seg)
		}
	}

	u := url.URL{
		Scheme: "https",
		Host:   host,
		Path:   "/" + strings.Join(parts, "/"),
	}
	return u.String()
}
