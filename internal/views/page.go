// Package views renders the dashboard pages as templ components.
package views

import (
	"fmt"
	"net/url"

	"github.com/a-h/templ"

	"github.com/hoopsreport/dashboard/internal/models"
)

// Tab identifiers
const (
	TabGames   = "games"
	TabScraper = "scraper"
	TabCompare = "compare"
)

// Tab is one entry of the tab bar
type Tab struct {
	ID       string
	Label    string
	Disabled bool
}

// Tabs in display order
var Tabs = []Tab{
	{ID: TabGames, Label: "Today's Games"},
	{ID: TabScraper, Label: "Custom Game Scraper", Disabled: true},
	{ID: TabCompare, Label: "Team Comparison", Disabled: true},
}

// Notice levels
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Notice is a banner shown above the tab content
type Notice struct {
	Level   string
	Message string
}

// PageData is everything the dashboard page needs
type PageData struct {
	ActiveTab string
	Date      string // report date shown on the games tab
	IsToday   bool
	Notices   []Notice
	Summary   *models.Table
	RawData   *models.Table
	LoadedAt  string
}

const pageTitle = "Kenpom Data Viewer"

func tabURL(id string) templ.SafeURL {
	return templ.URL("/?tab=" + url.QueryEscape(id))
}

func gamesTitle(data PageData) string {
	if !data.IsToday && data.Date != "" {
		return "Games for " + data.Date
	}
	return "Today's Games"
}

func heightStyle(px int) map[string]string {
	return map[string]string{"height": fmt.Sprintf("%dpx", px)}
}

// cellAlign falls back to left for cells past the last column.
func cellAlign(t *models.Table, i int) string {
	if i < len(t.Columns) {
		return t.Columns[i].Align
	}
	return "left"
}
