package models

// Panel is one of the two comparison panels
type Panel int

const (
	Left Panel = iota
	Right
)

// Panels lists every panel in render order
var Panels = [...]Panel{Left, Right}

func (p Panel) String() string {
	switch p {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// PanelSet names the panels a state change requires to be redrawn
type PanelSet uint8

const (
	NoPanels PanelSet = 0
	Both     PanelSet = 1<<Left | 1<<Right
)

// Only returns the set holding just p
func Only(p Panel) PanelSet {
	return 1 << p
}

func (s PanelSet) Has(p Panel) bool {
	return s&Only(p) != 0
}

// Panels returns the members of s in render order
func (s PanelSet) Panels() []Panel {
	var out []Panel
	for _, p := range Panels {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}
