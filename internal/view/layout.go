package view

import "strings"

// Element ids of the page layout.
const (
	IDSidebar      = "mySidebar"
	IDSidebarArrow = "toggleArrow"
	IDMain         = "main"

	IDCompetitionLabel = "selectedItem"
	IDCompetitionList  = "dropdown"

	IDMatchLabel = "selectedItemMatches"
	IDMatchList  = "matchDropdown"

	IDGraph = "match-graph-container"

	IDTabOverview = "tab-overview"
	IDTabTeam1    = "tab-team1"
	IDTabTeam2    = "tab-team2"

	IDPanelOverview = "overview"
	IDPanelTeam1    = "team1"
	IDPanelTeam2    = "team2"

	IDSquadTeam1 = "team1-squad"
	IDSquadTeam2 = "team2-squad"
)

const (
	ClassActive     = "active"
	ClassOpen       = "open"
	ClassTabButton  = "tab-button"
	ClassTabContent = "tab-content"
)

// OverviewTarget maps an overview stat field to its element id.
func OverviewTarget(field string) string {
	return "ov-" + strings.ReplaceAll(field, "_", "-")
}

// LayoutIDs lists every element of the page, overview targets included.
func LayoutIDs(overviewFields []string) []string {
	ids := []string{
		IDSidebar, IDSidebarArrow, IDMain,
		IDCompetitionLabel, IDCompetitionList,
		IDMatchLabel, IDMatchList,
		IDGraph,
		IDTabOverview, IDTabTeam1, IDTabTeam2,
		IDPanelOverview, IDPanelTeam1, IDPanelTeam2,
		IDSquadTeam1, IDSquadTeam2,
	}
	for _, field := range overviewFields {
		ids = append(ids, OverviewTarget(field))
	}
	return ids
}

// NewPageDocument builds the initial page: overview tab active, lists
// collapsed, sidebar closed. Layout classes live in the document too, so a
// snapshot fully describes every element's class list.
func NewPageDocument(overviewFields []string) *Document {
	d := NewDocument(LayoutIDs(overviewFields)...)

	_ = d.SetText(IDCompetitionLabel, "Select a Competition")
	_ = d.SetHidden(IDCompetitionList, true)
	_ = d.SetText(IDMatchLabel, "Select a Match")
	_ = d.SetHidden(IDMatchList, true)
	_ = d.SetHTML(IDGraph, PlaceholderHTML("Please select a match to view its graph."))

	_ = d.SetText(IDTabOverview, "Overview")
	_ = d.SetText(IDTabTeam1, "Team 1")
	_ = d.SetText(IDTabTeam2, "Team 2")
	for _, id := range []string{IDTabOverview, IDTabTeam1, IDTabTeam2} {
		_ = d.AddClass(id, ClassTabButton)
	}
	for _, id := range []string{IDPanelOverview, IDPanelTeam1, IDPanelTeam2} {
		_ = d.AddClass(id, ClassTabContent)
	}
	_ = d.AddClass(IDTabOverview, ClassActive)
	_ = d.AddClass(IDPanelOverview, ClassActive)

	_ = d.SetStyle(IDSidebar, "width", "0")
	_ = d.SetStyle(IDMain, "marginLeft", "0")
	return d
}
