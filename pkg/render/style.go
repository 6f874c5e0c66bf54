package render

import (
	"bytes"
	"encoding/xml"
)

// Options configures the native renderers.
type Options struct {
	// Labels draws artist names next to their nodes. Meta and anchor nodes
	// are always labelled.
	Labels bool `json:"labels,omitempty"`

	// AllEdges ignores culling and draws every edge.
	AllEdges bool `json:"all_edges,omitempty"`
}

// communityColors is a qualitative palette; communities beyond its length
// wrap around.
var communityColors = []string{
	"#4E79A7", "#F28E2B", "#E15759", "#76B7B2",
	"#59A14F", "#EDC948", "#B07AA1", "#FF9DA7",
	"#9C755F", "#BAB0AC",
}

const (
	colorInvalid = "#9E9E9E"
	colorEdge    = "#6B6B6B"
	colorHull    = "#D8D8D8"
	colorText    = "#222222"
	fontFamily   = "Helvetica, Arial, sans-serif"
)

// CommunityColor returns the fill colour of a community. Negative
// communities (no valid weight vector) are grey.
func CommunityColor(c int) string {
	if c < 0 {
		return colorInvalid
	}
	return communityColors[c%len(communityColors)]
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
