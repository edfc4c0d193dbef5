package csvio_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prestsoftware/prest/csvio"
)

func TestReaderGroupsContiguousRowsIntoOneSubjectAndInternsAlternatives(t *testing.T) {
	t.Parallel()

	data := "subject,menu,choice,default\n" +
		"alice,\"a,b\",a,\n" +
		"alice,\"b,c\",b,\n" +
		"bob,\"a,c\",c,a\n"

	subjects, err := csvio.ReadAll(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, subjects, 2)

	require.Equal(t, "alice", subjects[0].Name)
	require.Len(t, subjects[0].Choices, 2)
	// the shared alternative table grows left to right as new names appear
	require.Equal(t, []string{"a", "b", "c"}, subjects[0].Alternatives)

	require.Equal(t, "bob", subjects[1].Name)
	require.Len(t, subjects[1].Choices, 1)
	require.NotNil(t, subjects[1].Choices[0].Default)
	require.Equal(t, 0, subjects[1].Choices[0].Default.Index()) // "a" interned first
}

func TestReaderRejectsDiscontiguousSubjectReopening(t *testing.T) {
	t.Parallel()

	data := "subject,menu,choice\n" +
		"alice,\"a,b\",a\n" +
		"bob,\"a,b\",b\n" +
		"alice,\"a,b\",a\n"

	_, err := csvio.ReadAll(strings.NewReader(data))
	require.ErrorIs(t, err, csvio.ErrSubjectReopened)
}

func TestReaderRejectsMissingRequiredColumns(t *testing.T) {
	t.Parallel()

	_, err := csvio.NewReader(strings.NewReader("menu,choice\na,a\n"))
	require.ErrorIs(t, err, csvio.ErrNoNameColumn)
}

func TestWriteSubjectsRoundTripsThroughReadAll(t *testing.T) {
	t.Parallel()

	data := "subject,menu,choice,default\n" +
		"alice,\"a,b\",a,\n" +
		"alice,\"b,c\",c,b\n"

	subjects, err := csvio.ReadAll(strings.NewReader(data))
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, csvio.WriteSubjects(&buf, subjects))

	roundTripped, err := csvio.ReadAll(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Equal(t, subjects, roundTripped)
}
