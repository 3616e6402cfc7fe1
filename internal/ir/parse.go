package ir

import (
	"fmt"
	"strings"
)

// ParseShape parses a canonical type name such as
// "set<tuple<string,uint64_t>>" into a Shape.
//
// Whitespace between tokens is ignored. "Offset" is accepted as an alias
// for tuple<UUID,uint64_t>; the result prints in its expanded form.
func ParseShape(text string) (Shape, error) {
	p := &shapeParser{src: text}
	s, err := p.parse()
	if err != nil {
		return Shape{}, fmt.Errorf("parse shape %q: %w", text, err)
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return Shape{}, fmt.Errorf("parse shape %q: unexpected %q at %d", text, p.src[p.pos:], p.pos)
	}
	return s, nil
}

// MustParseShape is like ParseShape but panics on error.
// Use only for compile-time constant type names.
func MustParseShape(text string) Shape {
	s, err := ParseShape(text)
	if err != nil {
		panic(err)
	}
	return s
}

var scalarNames = map[string]Shape{
	"int8_t":   Int8,
	"int16_t":  Int16,
	"int32_t":  Int32,
	"int64_t":  Int64,
	"uint8_t":  Uint8,
	"uint16_t": Uint16,
	"uint32_t": Uint32,
	"uint64_t": Uint64,
}

type shapeParser struct {
	src string
	pos int
}

func (p *shapeParser) skipSpace() {
	for p.pos < len(p.src) && strings.IndexByte(" \t\r\n", p.src[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *shapeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *shapeParser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return fmt.Errorf("expected %q, got end of input", c)
	}
	if p.src[p.pos] != c {
		return fmt.Errorf("expected %q at %d, got %q", c, p.pos, p.src[p.pos])
	}
	p.pos++
	return nil
}

func (p *shapeParser) peek(c byte) bool {
	p.skipSpace()
	return p.pos < len(p.src) && p.src[p.pos] == c
}

func (p *shapeParser) parse() (Shape, error) {
	at := p.pos
	name := p.ident()
	if name == "" {
		if p.pos >= len(p.src) {
			return Shape{}, fmt.Errorf("expected type name, got end of input")
		}
		return Shape{}, fmt.Errorf("expected type name at %d", at)
	}
	if s, ok := scalarNames[name]; ok {
		return s, nil
	}
	switch name {
	case "string":
		return StringShape, nil
	case "UUID":
		return UUIDShape, nil
	case "bytes":
		return BytesShape, nil
	case "Offset":
		return OffsetShape, nil
	case "tuple":
		args, err := p.args(-1)
		if err != nil {
			return Shape{}, err
		}
		return TupleOf(args...), nil
	case "set":
		args, err := p.args(1)
		if err != nil {
			return Shape{}, err
		}
		return SetOf(args[0]), nil
	case "sequence":
		args, err := p.args(1)
		if err != nil {
			return Shape{}, err
		}
		return SequenceOf(args[0]), nil
	case "mapping":
		args, err := p.args(2)
		if err != nil {
			return Shape{}, err
		}
		return MappingOf(args[0], args[1]), nil
	default:
		return Shape{}, fmt.Errorf("unknown type name %q", name)
	}
}

// args parses "<a,b,...>". want < 0 accepts any arity, including zero.
func (p *shapeParser) args(want int) ([]Shape, error) {
	if err := p.expect('<'); err != nil {
		return nil, err
	}
	var out []Shape
	if !p.peek('>') {
		for {
			s, err := p.parse()
			if err != nil {
				return nil, err
			}
			out = append(out, s)
			if !p.peek(',') {
				break
			}
			p.pos++
		}
	}
	if err := p.expect('>'); err != nil {
		return nil, err
	}
	if want >= 0 && len(out) != want {
		return nil, fmt.Errorf("expected %d type argument(s), got %d", want, len(out))
	}
	return out, nil
}
