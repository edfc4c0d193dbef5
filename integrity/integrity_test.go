package integrity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prestsoftware/prest/alt"
	"github.com/prestsoftware/prest/altset"
	"github.com/prestsoftware/prest/integrity"
	"github.com/prestsoftware/prest/subject"
)

func TestCheckFindsNoIssuesOnAWellFormedSubject(t *testing.T) {
	t.Parallel()

	s := subject.Subject{
		Name:         "alice",
		Alternatives: []string{"a", "b", "c"},
		Choices: []subject.ChoiceRow{
			{Menu: altset.FromAlts(alt.Alt(0), alt.Alt(1)), Choice: altset.FromAlts(alt.Alt(0))},
			{Menu: altset.FromAlts(alt.Alt(1), alt.Alt(2)), Choice: altset.FromAlts(alt.Alt(2))},
		},
	}
	require.Empty(t, integrity.Check(s))
}

func TestCheckFlagsRepeatedMenu(t *testing.T) {
	t.Parallel()

	menu := altset.FromAlts(alt.Alt(0), alt.Alt(1))
	s := subject.Subject{
		Name: "alice",
		Choices: []subject.ChoiceRow{
			{Menu: menu, Choice: altset.FromAlts(alt.Alt(0))},
			{Menu: menu, Choice: altset.FromAlts(alt.Alt(1))},
		},
	}
	issues := integrity.Check(s)
	require.Len(t, issues, 1)
	require.Equal(t, integrity.RepeatedMenu, issues[0].Kind)
	require.True(t, issues[0].Menu.Equal(menu))
}

func TestCheckFlagsChoiceAndDefaultOutsideMenu(t *testing.T) {
	t.Parallel()

	outsider := alt.Alt(2)
	s := subject.Subject{
		Name: "alice",
		Choices: []subject.ChoiceRow{
			{
				Menu:    altset.FromAlts(alt.Alt(0), alt.Alt(1)),
				Choice:  altset.FromAlts(outsider),
				Default: &outsider,
			},
		},
	}
	issues := integrity.Check(s)
	require.Len(t, issues, 2)
	for _, issue := range issues {
		require.Equal(t, integrity.ChoiceNotInMenu, issue.Kind)
		require.Equal(t, outsider, issue.Alt)
	}
}
