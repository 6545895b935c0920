package renderer

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const htmlHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 60em; margin: 2em auto; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.2em 0.6em; }
</style>
</head>
<body>
`

// HTML converts a markdown document into a standalone printable html page.
func HTML(title, markdown string) (string, error) {
	var body bytes.Buffer
	converter := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := converter.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("could not convert markdown to html: %w", err)
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, htmlHead, html.EscapeString(title))
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}
