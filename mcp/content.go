package mcp

import "strings"

// joinTextContent concatenates every text block in contents, per spec
// §4.6 step 5(d): "decodes the response into a string (joining text
// content parts)". Non-text blocks are skipped so the agent still gets a
// usable result from a tool that also returns e.g. an image.
// Grounded on agent-go/mcp/content.go's per-variant content conversion,
// simplified here to the single string result the spec's synchronous
// callback contract calls for.
func joinTextContent(contents []Content) string {
	var b strings.Builder
	for _, c := range contents {
		if c.Type != "text" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(c.Text)
	}
	return b.String()
}
