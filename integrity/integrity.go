// Package integrity flags structural problems in a subject's recorded
// choices that would make every other analysis meaningless: the same menu
// observed twice, or a choice/default alternative that isn't even in its
// own menu.
package integrity

import (
	"github.com/prestsoftware/prest/alt"
	"github.com/prestsoftware/prest/altset"
	"github.com/prestsoftware/prest/subject"
)

// IssueKind distinguishes the two problems Check reports.
type IssueKind int

const (
	// RepeatedMenu means the same menu was observed more than once.
	RepeatedMenu IssueKind = iota
	// ChoiceNotInMenu means an alternative marked chosen, or set as the
	// default, does not belong to its own row's menu.
	ChoiceNotInMenu
)

// Issue is one integrity problem found in a subject's choice rows.
type Issue struct {
	Kind IssueKind
	Menu altset.AltSet
	// Alt is set only for ChoiceNotInMenu.
	Alt alt.Alt
}

// Check finds every integrity issue in s's choice rows: menus observed more
// than once, and choices or defaults naming an alternative outside their
// own menu.
func Check(s subject.Subject) []Issue {
	var issues []Issue

	menuCounts := make(map[string]int)
	menuValue := make(map[string]altset.AltSet)
	for _, row := range s.Choices {
		key := row.Menu.String(nil)
		menuCounts[key]++
		menuValue[key] = row.Menu
	}
	for key, count := range menuCounts {
		if count > 1 {
			issues = append(issues, Issue{Kind: RepeatedMenu, Menu: menuValue[key]})
		}
	}

	for _, row := range s.Choices {
		it := row.Choice.Iter()
		for x, ok := it(); ok; x, ok = it() {
			if !row.Menu.Contains(x) {
				issues = append(issues, Issue{Kind: ChoiceNotInMenu, Menu: row.Menu, Alt: x})
			}
		}
		if row.Default != nil && !row.Menu.Contains(*row.Default) {
			issues = append(issues, Issue{Kind: ChoiceNotInMenu, Menu: row.Menu, Alt: *row.Default})
		}
	}

	return issues
}
