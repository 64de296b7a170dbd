// Package dxf reads the block references of an ASCII DXF drawing: every
// INSERT in model space together with its attribute texts.
package dxf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrBinaryDXF = errors.New("binary DXF is not supported")
	ErrMalformed = errors.New("malformed DXF")
)

const binarySentinel = "AutoCAD Binary DXF"

// Attrib is one ATTRIB entity attached to an INSERT.
type Attrib struct {
	Tag   string
	Text  string
	Layer string
}

// Insert is a block reference.
type Insert struct {
	Handle  string
	Layer   string
	Block   string
	Attribs []Attrib
}

type Drawing struct {
	Version string
	Inserts []Insert
}

type pair struct {
	code  int
	value string
	line  int
}

type scanner struct {
	s    *bufio.Scanner
	line int
	peek *pair
}

func (sc *scanner) next() (pair, error) {
	if sc.peek != nil {
		p := *sc.peek
		sc.peek = nil
		return p, nil
	}

	if !sc.s.Scan() {
		if err := sc.s.Err(); err != nil {
			return pair{}, err
		}
		return pair{}, io.EOF
	}
	sc.line++
	codeLine := strings.TrimSpace(sc.s.Text())

	if !sc.s.Scan() {
		if err := sc.s.Err(); err != nil {
			return pair{}, err
		}
		return pair{}, fmt.Errorf("%w: group code %q at line %d has no value", ErrMalformed, codeLine, sc.line)
	}
	sc.line++

	code, err := strconv.Atoi(codeLine)
	if err != nil {
		return pair{}, fmt.Errorf("%w: invalid group code %q at line %d", ErrMalformed, codeLine, sc.line-1)
	}

	return pair{code: code, value: strings.TrimRight(sc.s.Text(), "\r"), line: sc.line - 1}, nil
}

func (sc *scanner) unread(p pair) {
	sc.peek = &p
}

// Read parses r as an ASCII DXF file.
func Read(r io.Reader) (*Drawing, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(binarySentinel))
	if bytes.Equal(head, []byte(binarySentinel)) {
		return nil, ErrBinaryDXF
	}

	s := bufio.NewScanner(br)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	sc := &scanner{s: s}

	d := &Drawing{}
	for {
		p, err := sc.next()
		if err == io.EOF {
			return d, nil
		}
		if err != nil {
			return nil, err
		}

		if p.code != 0 || p.value != "SECTION" {
			continue
		}

		name, err := sc.next()
		if err != nil {
			return nil, fmt.Errorf("%w: section without name", ErrMalformed)
		}

		switch {
		case name.code == 2 && name.value == "HEADER":
			if err := readHeader(sc, d); err != nil {
				return nil, err
			}
		case name.code == 2 && name.value == "ENTITIES":
			if err := readEntities(sc, d); err != nil {
				return nil, err
			}
		}
	}
}

func readHeader(sc *scanner, d *Drawing) error {
	for {
		p, err := sc.next()
		if err != nil {
			return fmt.Errorf("%w: unterminated HEADER section: %v", ErrMalformed, err)
		}
		if p.code == 0 && p.value == "ENDSEC" {
			return nil
		}
		if p.code == 9 && p.value == "$ACADVER" {
			v, err := sc.next()
			if err != nil {
				return fmt.Errorf("%w: $ACADVER without value", ErrMalformed)
			}
			d.Version = v.value
		}
	}
}

// entity collects the group codes of one entity up to the next code 0.
type entity struct {
	kind   string
	fields map[int]string
}

func readEntity(sc *scanner, kind string) (entity, error) {
	e := entity{kind: kind, fields: make(map[int]string)}
	for {
		p, err := sc.next()
		if err != nil {
			return e, fmt.Errorf("%w: unterminated %s entity: %v", ErrMalformed, kind, err)
		}
		if p.code == 0 {
			sc.unread(p)
			return e, nil
		}
		if _, seen := e.fields[p.code]; !seen {
			e.fields[p.code] = p.value
		}
	}
}

func readEntities(sc *scanner, d *Drawing) error {
	var current *Insert
	var currentPaper bool

	flush := func() {
		if current != nil && !currentPaper {
			d.Inserts = append(d.Inserts, *current)
		}
		current = nil
	}

	for {
		p, err := sc.next()
		if err != nil {
			return fmt.Errorf("%w: unterminated ENTITIES section: %v", ErrMalformed, err)
		}
		if p.code != 0 {
			continue
		}

		switch p.value {
		case "ENDSEC":
			flush()
			return nil

		case "INSERT":
			flush()
			e, err := readEntity(sc, p.value)
			if err != nil {
				return err
			}
			current = &Insert{
				Handle: e.fields[5],
				Layer:  e.fields[8],
				Block:  e.fields[2],
			}
			currentPaper = strings.TrimSpace(e.fields[67]) == "1"

		case "ATTRIB":
			e, err := readEntity(sc, p.value)
			if err != nil {
				return err
			}
			if current != nil {
				current.Attribs = append(current.Attribs, Attrib{
					Tag:   e.fields[2],
					Text:  e.fields[1],
					Layer: e.fields[8],
				})
			}

		case "SEQEND":
			flush()

		default:
			flush()
		}
	}
}
