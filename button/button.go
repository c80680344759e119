// Package button builds the ordered inline-button grids returned alongside
// denial messages. Buttons carry either an external URL or a callback payload,
// and belong to one of three groups: header rows render above the main grid,
// footer rows below it.
package button

// Kind discriminates the button target.
type Kind int

const (
	// KindURL opens an external link.
	KindURL Kind = iota
	// KindCallback sends the payload back to the bot.
	KindCallback
)

// Button is a single inline button.
type Button struct {
	Label  string
	Kind   Kind
	Target string
}

// Group places a button in the rendered grid.
type Group int

const (
	GroupMain Group = iota
	GroupHeader
	GroupFooter
)

// Set accumulates buttons in insertion order per group.
type Set struct {
	main   []Button
	header []Button
	footer []Button
}

func NewSet() *Set {
	return &Set{}
}

func (s *Set) URL(label, url string, group ...Group) *Set {
	return s.add(Button{Label: label, Kind: KindURL, Target: url}, group...)
}

func (s *Set) Callback(label, data string, group ...Group) *Set {
	return s.add(Button{Label: label, Kind: KindCallback, Target: data}, group...)
}

func (s *Set) add(b Button, group ...Group) *Set {
	g := GroupMain
	if len(group) > 0 {
		g = group[0]
	}
	switch g {
	case GroupHeader:
		s.header = append(s.header, b)
	case GroupFooter:
		s.footer = append(s.footer, b)
	default:
		s.main = append(s.main, b)
	}
	return s
}

// Empty reports whether no button has been added.
func (s *Set) Empty() bool {
	return s == nil || len(s.main)+len(s.header)+len(s.footer) == 0
}

// Menu lays the set out as rows: one header row, the main buttons chunked
// into rows of cols, then one footer row.
func (s *Set) Menu(cols int) [][]Button {
	if s.Empty() {
		return nil
	}
	if cols < 1 {
		cols = 1
	}

	var menu [][]Button
	if len(s.header) > 0 {
		menu = append(menu, s.header)
	}
	for i := 0; i < len(s.main); i += cols {
		end := i + cols
		if end > len(s.main) {
			end = len(s.main)
		}
		menu = append(menu, s.main[i:end])
	}
	if len(s.footer) > 0 {
		menu = append(menu, s.footer)
	}
	return menu
}
