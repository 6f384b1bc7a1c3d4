package usecase

import (
	"github.com/riskibarqy/matchlens/internal/view"
)

const sidebarOpenWidth = "250px"

// Sidebar slides the navigation panel in and out.
type Sidebar struct {
	doc *view.Document
}

func NewSidebar(doc *view.Document) *Sidebar {
	return &Sidebar{doc: doc}
}

// Toggle opens a closed sidebar and closes an open one, returning whether it is now open.
func (s *Sidebar) Toggle() (bool, error) {
	el, err := s.doc.Element(view.IDSidebar)
	if err != nil {
		return false, err
	}

	open := el.Styles["width"] != sidebarOpenWidth
	width := "0"
	if open {
		width = sidebarOpenWidth
	}

	if err := s.doc.SetStyle(view.IDSidebar, "width", width); err != nil {
		return false, err
	}
	if err := s.doc.SetStyle(view.IDMain, "marginLeft", width); err != nil {
		return false, err
	}
	if open {
		return true, s.doc.AddClass(view.IDSidebarArrow, view.ClassOpen)
	}
	return false, s.doc.RemoveClass(view.IDSidebarArrow, view.ClassOpen)
}
