// Package subject defines the observed-choice data model: a ChoiceRow
// records one menu and what was chosen from it, and a Subject groups every
// ChoiceRow observed for one decision-maker over a fixed alternative set.
package subject

import (
	"io"

	"github.com/prestsoftware/prest/alt"
	"github.com/prestsoftware/prest/altset"
	"github.com/prestsoftware/prest/codec"
)

// ChoiceRow is one observation: from Menu, the subject chose Choice
// (possibly empty, meaning a deferral), with an optional Default
// alternative relevant to models like StatusQuoUndominatedChoice.
type ChoiceRow struct {
	Menu    altset.AltSet
	Default *alt.Alt
	Choice  altset.AltSet
}

// Encode writes cr to w.
func (cr ChoiceRow) Encode(w io.Writer) error {
	if err := codec.WriteUint32Slice(w, altsToUint32(cr.Menu.Alts())); err != nil {
		return err
	}
	if err := codec.WriteOption(w, cr.Default, func(w io.Writer, a alt.Alt) error {
		return codec.WriteUint32(w, uint32(a))
	}); err != nil {
		return err
	}
	return codec.WriteUint32Slice(w, altsToUint32(cr.Choice.Alts()))
}

// DecodeChoiceRow reads a value written by ChoiceRow.Encode.
func DecodeChoiceRow(r io.Reader) (ChoiceRow, error) {
	menu, err := readAltSet(r)
	if err != nil {
		return ChoiceRow{}, err
	}
	def, err := codec.ReadOption(r, func(r io.Reader) (alt.Alt, error) {
		v, err := codec.ReadUint32(r)
		return alt.Alt(v), err
	})
	if err != nil {
		return ChoiceRow{}, err
	}
	choice, err := readAltSet(r)
	if err != nil {
		return ChoiceRow{}, err
	}
	return ChoiceRow{Menu: menu, Default: def, Choice: choice}, nil
}

func altsToUint32(alts []alt.Alt) []uint32 {
	out := make([]uint32, len(alts))
	for i, a := range alts {
		out[i] = uint32(a)
	}
	return out
}

func readAltSet(r io.Reader) (altset.AltSet, error) {
	xs, err := codec.ReadUint32Slice(r)
	if err != nil {
		return altset.AltSet{}, err
	}
	alts := make([]alt.Alt, len(xs))
	for i, x := range xs {
		alts[i] = alt.Alt(x)
	}
	return altset.FromAlts(alts...), nil
}

// Subject is every recorded choice for one decision-maker.
type Subject struct {
	Name         string
	Alternatives []string
	Choices      []ChoiceRow
}

// AltCount returns the number of distinct alternatives s ranges over.
func (s Subject) AltCount() uint32 {
	return uint32(len(s.Alternatives))
}

// DropDeferrals returns a copy of s with every choice row whose Choice is
// empty removed, if drop is true; otherwise it returns s unchanged.
func (s Subject) DropDeferrals(drop bool) Subject {
	if !drop {
		return s
	}
	out := Subject{Name: s.Name, Alternatives: s.Alternatives}
	for _, cr := range s.Choices {
		if cr.Choice.IsNonEmpty() {
			out.Choices = append(out.Choices, cr)
		}
	}
	return out
}

// Encode writes s to w.
func (s Subject) Encode(w io.Writer) error {
	if err := codec.WriteString(w, s.Name); err != nil {
		return err
	}
	if err := codec.WriteStringSlice(w, s.Alternatives); err != nil {
		return err
	}
	if err := codec.WriteUint64(w, uint64(len(s.Choices))); err != nil {
		return err
	}
	for _, cr := range s.Choices {
		if err := cr.Encode(w); err != nil {
			return err
		}
	}
	return nil
}

// DecodeSubject reads a value written by Subject.Encode.
func DecodeSubject(r io.Reader) (Subject, error) {
	name, err := codec.ReadString(r)
	if err != nil {
		return Subject{}, err
	}
	alts, err := codec.ReadStringSlice(r)
	if err != nil {
		return Subject{}, err
	}
	n, err := codec.ReadUint64(r)
	if err != nil {
		return Subject{}, err
	}
	choices := make([]ChoiceRow, n)
	for i := range choices {
		cr, err := DecodeChoiceRow(r)
		if err != nil {
			return Subject{}, err
		}
		choices[i] = cr
	}
	return Subject{Name: name, Alternatives: alts, Choices: choices}, nil
}

// LogLevel classifies a Logger message's severity.
type LogLevel int

// Severity levels, least to most severe.
const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarning
	LogError
)

// Logger receives progress and diagnostic messages emitted by the
// estimation and consistency engines. The structured implementation lives
// in internal/obslog, since logging is an external collaborator, not part
// of the estimation semantics; NoopLogger below discards everything.
type Logger interface {
	Log(level LogLevel, message string)
	Progress(position int)
}

// Debug logs message at LogDebug on l.
func Debug(l Logger, message string) { l.Log(LogDebug, message) }

// Info logs message at LogInfo on l.
func Info(l Logger, message string) { l.Log(LogInfo, message) }

// Warn logs message at LogWarning on l.
func Warn(l Logger, message string) { l.Log(LogWarning, message) }

// Error logs message at LogError on l.
func Error(l Logger, message string) { l.Log(LogError, message) }

// NoopLogger discards every message; it is the default when no Logger is
// supplied.
type NoopLogger struct{}

// Log implements Logger.
func (NoopLogger) Log(LogLevel, string) {}

// Progress implements Logger.
func (NoopLogger) Progress(int) {}
