// Package markdown loads essay documents from disk: YAML front matter
// extraction, corpus discovery, and goldmark-based body analysis (link and
// excerpt extraction). Rendering is deliberately absent; the published site is
// produced by an external generator.
package markdown
