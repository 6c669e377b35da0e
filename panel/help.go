package panel

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// helpMarkdown is shown above the widgets.
const helpMarkdown = `Before each message is sent to the model, Locality appends a line such as

` + "`[Current time: 03:45 PM | Current date: October 19, 2026 | Timezone: UTC]`" + `

The line is **only** added to what the model receives; your chat history is unchanged.

- *Location* is detected from your public IP address.
- *Weather* needs *Location* and comes from [Open-Meteo](https://open-meteo.com/).
- Changes are saved immediately.
`

var helpHTML = sync.OnceValue(func() template.HTML {
	return renderMarkdown(helpMarkdown)
})

// renderMarkdown converts Markdown to HTML. Raw HTML in the source is
// dropped by goldmark's default (safe) renderer.
func renderMarkdown(src string) template.HTML {
	md := goldmark.New(goldmark.WithExtensions(extension.Linkify))
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}
