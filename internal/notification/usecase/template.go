package usecase

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shandysiswandi/formgate/internal/pkg/escape"
)

const jstOffset = 9 * 60 * 60

var jst = time.FixedZone("JST", jstOffset)

type mailBody struct {
	Text string
	HTML string
}

// paragraph holds one block of the mail body. Literal text is trusted,
// values are escaped for the HTML part.
type paragraph struct {
	text   string
	values []string
	link   string
}

func render(greeting string, paragraphs []paragraph, footer string) mailBody {
	var text, html strings.Builder

	text.WriteString(greeting + "\n\n")
	html.WriteString("<p>" + escape.HTML(greeting) + "</p>\n")

	for _, p := range paragraphs {
		args := make([]any, len(p.values))
		htmlArgs := make([]any, len(p.values))
		for i, v := range p.values {
			args[i] = v
			htmlArgs[i] = "<strong>" + escape.HTML(v) + "</strong>"
		}

		fmt.Fprintf(&text, p.text+"\n", args...)
		if p.link != "" {
			text.WriteString(p.link + "\n")
		}
		text.WriteString("\n")

		html.WriteString("<p>")
		fmt.Fprintf(&html, p.text, htmlArgs...)
		if p.link != "" {
			link := escape.HTML(p.link)
			fmt.Fprintf(&html, `<br><a href="%s">%s</a>`, link, link)
		}
		html.WriteString("</p>\n")
	}

	text.WriteString(footer + "\n")
	html.WriteString("<p>" + escape.HTML(footer) + "</p>\n")

	return mailBody{Text: text.String(), HTML: html.String()}
}

func verifyURL(base, email string) string {
	if base == "" {
		return ""
	}
	q := url.Values{"email": {email}}
	return strings.TrimRight(base, "/") + "/password/remind/verify?" + q.Encode()
}

func formatExpiry(t time.Time) string {
	return t.In(jst).Format("2006/01/02 15:04")
}
