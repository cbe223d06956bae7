package docs

import (
	"slices"

	"git.home.luguber.info/inful/rde/internal/config"
)

// NavEntry is one item in the top navigation bar.
type NavEntry struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Main  bool   `json:"main,omitempty"`
}

// Navigation returns the static navigation list for a project kind.
// Framework projects get a cheat sheet entry right after the main docs entry.
func Navigation(kind config.ProjectKind) []NavEntry {
	navs := []NavEntry{
		{Title: "Docs", Main: true},
		{Title: "FAQ", URL: "/faq.html"},
		{Title: "Changelog", URL: "/changelog.html"},
	}
	if kind == config.KindFramework {
		navs = slices.Insert(navs, 1, NavEntry{Title: "Cheat Sheet", URL: "/rde/cheat.sheet.html"})
	}
	return navs
}
