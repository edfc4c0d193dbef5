// Package csvio reads and writes subject.Subject values as CSV, grouping
// contiguous rows that share the same subject column into one Subject.
// Alternative names are interned into a shared, growing name table exactly
// as encountered, in column order, the first time each one appears.
package csvio

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/prestsoftware/prest/alt"
	"github.com/prestsoftware/prest/altset"
	"github.com/prestsoftware/prest/subject"
)

// Fixed header column names. Unknown columns are ignored.
const (
	ColumnSubject = "subject"
	ColumnMenu    = "menu"
	ColumnChoice  = "choice"
	ColumnDefault = "default"
)

var (
	// ErrNoNameColumn is returned when the header lacks a "subject" column.
	ErrNoNameColumn = errors.New("csvio: header has no subject column")
	// ErrNoMenuColumn is returned when the header lacks a "menu" column.
	ErrNoMenuColumn = errors.New("csvio: header has no menu column")
	// ErrNoChoiceColumn is returned when the header lacks a "choice" column.
	ErrNoChoiceColumn = errors.New("csvio: header has no choice column")
	// ErrRowTooShort is returned when a data row has fewer fields than a
	// required column's index.
	ErrRowTooShort = errors.New("csvio: row has fewer fields than required")
	// ErrSubjectReopened is returned when a subject name reappears after a
	// different subject has already closed it off, breaking contiguity.
	ErrSubjectReopened = errors.New("csvio: subject reappeared after being closed by another subject")
)

// Reader streams subject.Subject values out of a CSV source, one per call
// to Next, grouping consecutive rows that share a subject-column value.
type Reader struct {
	csv       *csv.Reader
	ixName    int
	ixMenu    int
	ixChoice  int
	ixDefault int // -1 if the column is absent

	closedSubjects map[string]bool
	alternatives   []string
	altIndex       map[string]alt.Alt
	current        *subject.Subject
}

// NewReader parses r's header row and prepares a Reader. The header must
// contain "subject", "menu" and "choice" columns; "default" is optional.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, err
	}

	ixName, ixMenu, ixChoice, ixDefault := -1, -1, -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case ColumnSubject:
			ixName = i
		case ColumnMenu:
			ixMenu = i
		case ColumnChoice:
			ixChoice = i
		case ColumnDefault:
			ixDefault = i
		}
	}
	if ixName < 0 {
		return nil, ErrNoNameColumn
	}
	if ixMenu < 0 {
		return nil, ErrNoMenuColumn
	}
	if ixChoice < 0 {
		return nil, ErrNoChoiceColumn
	}

	return &Reader{
		csv:            cr,
		ixName:         ixName,
		ixMenu:         ixMenu,
		ixChoice:       ixChoice,
		ixDefault:      ixDefault,
		closedSubjects: make(map[string]bool),
		altIndex:       make(map[string]alt.Alt),
	}, nil
}

func (rd *Reader) intern(name string) alt.Alt {
	name = strings.TrimSpace(name)
	if a, ok := rd.altIndex[name]; ok {
		return a
	}
	a := alt.Alt(len(rd.alternatives))
	rd.alternatives = append(rd.alternatives, name)
	rd.altIndex[name] = a
	return a
}

func (rd *Reader) parseAltSet(cell string) altset.AltSet {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return altset.Empty()
	}
	parts := strings.Split(cell, ",")
	alts := make([]alt.Alt, len(parts))
	for i, p := range parts {
		alts[i] = rd.intern(p)
	}
	return altset.FromAlts(alts...)
}

func (rd *Reader) snapshot(s subject.Subject) subject.Subject {
	s.Alternatives = append([]string{}, rd.alternatives...)
	return s
}

// Next returns the next completed subject. It returns io.EOF, with a zero
// Subject, once every row (including the final pending subject) has been
// returned.
func (rd *Reader) Next() (subject.Subject, error) {
	for {
		record, err := rd.csv.Read()
		if err == io.EOF {
			if rd.current == nil {
				return subject.Subject{}, io.EOF
			}
			s := rd.snapshot(*rd.current)
			rd.current = nil
			return s, nil
		}
		if err != nil {
			return subject.Subject{}, err
		}

		maxIx := rd.ixName
		for _, ix := range []int{rd.ixMenu, rd.ixChoice} {
			if ix > maxIx {
				maxIx = ix
			}
		}
		if maxIx >= len(record) {
			return subject.Subject{}, ErrRowTooShort
		}

		name := strings.TrimSpace(record[rd.ixName])
		row := subject.ChoiceRow{
			Menu:   rd.parseAltSet(record[rd.ixMenu]),
			Choice: rd.parseAltSet(record[rd.ixChoice]),
		}
		if rd.ixDefault >= 0 && rd.ixDefault < len(record) {
			if cell := strings.TrimSpace(record[rd.ixDefault]); cell != "" {
				a := rd.intern(cell)
				row.Default = &a
			}
		}

		switch {
		case rd.current == nil:
			rd.current = &subject.Subject{Name: name, Choices: []subject.ChoiceRow{row}}

		case rd.current.Name == name:
			rd.current.Choices = append(rd.current.Choices, row)

		default:
			if rd.closedSubjects[name] {
				return subject.Subject{}, ErrSubjectReopened
			}
			rd.closedSubjects[rd.current.Name] = true
			finished := rd.snapshot(*rd.current)
			rd.current = &subject.Subject{Name: name, Choices: []subject.ChoiceRow{row}}
			return finished, nil
		}
	}
}

// ReadAll drains rd's source fully and returns every subject in file order.
func ReadAll(r io.Reader) ([]subject.Subject, error) {
	rd, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	var out []subject.Subject
	for {
		s, err := rd.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
}

func cellOf(alts []string, s altset.AltSet) string {
	var parts []string
	for _, a := range s.Alts() {
		parts = append(parts, alts[a.Index()])
	}
	return strings.Join(parts, ",")
}

// WriteSubjects writes subjects to w as CSV with a "subject,menu,choice,
// default" header, one row per ChoiceRow.
func WriteSubjects(w io.Writer, subjects []subject.Subject) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColumnSubject, ColumnMenu, ColumnChoice, ColumnDefault}); err != nil {
		return err
	}
	for _, s := range subjects {
		for _, row := range s.Choices {
			def := ""
			if row.Default != nil {
				def = s.Alternatives[row.Default.Index()]
			}
			record := []string{
				s.Name,
				cellOf(s.Alternatives, row.Menu),
				cellOf(s.Alternatives, row.Choice),
				def,
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
