package fstruct

import (
	"fmt"
	"strconv"
)

// Declaration is one parsed field declaration:
//
//	[enum {a=1, b=2}] type name [count];
//
// Type is either a primitive keyword or the name of a registered structure.
type Declaration struct {
	Type  string
	Name  string
	Count int
	Enum  []EnumValue
	Pos   int // byte offset of the declaration in the schema text
}

type tokKind uint8

const (
	tokEOF tokKind = iota
	tokIdent
	tokInt
	tokSemi
	tokLBrack
	tokRBrack
	tokLBrace
	tokRBrace
	tokComma
	tokEquals
	tokMinus
)

var punct = map[byte]tokKind{
	';': tokSemi,
	'[': tokLBrack,
	']': tokRBrack,
	'{': tokLBrace,
	'}': tokRBrace,
	',': tokComma,
	'=': tokEquals,
	'-': tokMinus,
}

type token struct {
	kind tokKind
	text string
	pos  int
}

type lexer struct {
	src  string
	pos  int
	peek *token
}

func isSpace(c byte) bool  { return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func (l *lexer) next() (token, error) {
	if l.peek != nil {
		t := *l.peek
		l.peek = nil
		return t, nil
	}
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}
	start := l.pos
	c := l.src[l.pos]
	switch {
	case isLetter(c):
		for l.pos < len(l.src) && (isLetter(l.src[l.pos]) || isDigit(l.src[l.pos])) {
			l.pos++
		}
		return token{kind: tokIdent, text: l.src[start:l.pos], pos: start}, nil
	case isDigit(c):
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
		return token{kind: tokInt, text: l.src[start:l.pos], pos: start}, nil
	}
	if k, ok := punct[c]; ok {
		l.pos++
		return token{kind: k, text: string(c), pos: start}, nil
	}
	return token{}, malformed(start, fmt.Sprintf("unexpected character %q", c))
}

func (l *lexer) unread(t token) { l.peek = &t }

func (l *lexer) expect(k tokKind, what string) (token, error) {
	t, err := l.next()
	if err != nil {
		return t, err
	}
	if t.kind != k {
		return t, malformed(t.pos, fmt.Sprintf("expected %s, found %s", what, describe(t)))
	}
	return t, nil
}

func describe(t token) string {
	if t.kind == tokEOF {
		return "end of schema"
	}
	return strconv.Quote(t.text)
}

func malformed(pos int, detail string) *SchemaError {
	return &SchemaError{Pos: pos, Detail: detail, Err: ErrMalformedSchema}
}

// ParseSchema splits schema text into field declarations. Empty declarations
// are skipped and the final declaration may omit its ';'. Any other deviation
// from the grammar is an error wrapping ErrMalformedSchema.
func ParseSchema(schema string) ([]Declaration, error) {
	l := &lexer{src: schema}
	var decls []Declaration
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		switch t.kind {
		case tokEOF:
			return decls, nil
		case tokSemi:
			continue
		}
		l.unread(t)
		d, err := parseDeclaration(l)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
}

func parseDeclaration(l *lexer) (Declaration, error) {
	t, err := l.expect(tokIdent, "type name")
	if err != nil {
		return Declaration{}, err
	}
	d := Declaration{Pos: t.pos, Count: 1}
	if t.text == "enum" {
		if d.Enum, err = parseEnum(l); err != nil {
			return d, err
		}
		if t, err = l.expect(tokIdent, "type name"); err != nil {
			return d, err
		}
	}
	d.Type = t.text

	name, err := l.expect(tokIdent, "field name")
	if err != nil {
		return d, err
	}
	d.Name = name.text

	t, err = l.next()
	if err != nil {
		return d, err
	}
	if t.kind == tokLBrack {
		n, err := l.expect(tokInt, "array length")
		if err != nil {
			return d, err
		}
		count, err := strconv.Atoi(n.text)
		if err != nil || count <= 0 {
			return d, malformed(n.pos, fmt.Sprintf("invalid array length %s", n.text))
		}
		d.Count = count
		if _, err := l.expect(tokRBrack, "']'"); err != nil {
			return d, err
		}
		if t, err = l.next(); err != nil {
			return d, err
		}
	}
	switch t.kind {
	case tokSemi, tokEOF:
		return d, nil
	}
	return d, malformed(t.pos, fmt.Sprintf("expected ';' after field %s, found %s", d.Name, describe(t)))
}

func parseEnum(l *lexer) ([]EnumValue, error) {
	if _, err := l.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}
	values := []EnumValue{}
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		if t.kind == tokRBrace {
			return values, nil
		}
		if t.kind != tokIdent {
			return nil, malformed(t.pos, fmt.Sprintf("expected enum value name, found %s", describe(t)))
		}
		if _, err := l.expect(tokEquals, "'='"); err != nil {
			return nil, err
		}
		neg := false
		n, err := l.next()
		if err != nil {
			return nil, err
		}
		if n.kind == tokMinus {
			neg = true
			if n, err = l.next(); err != nil {
				return nil, err
			}
		}
		if n.kind != tokInt {
			return nil, malformed(n.pos, fmt.Sprintf("expected enum value, found %s", describe(n)))
		}
		v, err := strconv.ParseInt(n.text, 10, 64)
		if err != nil {
			return nil, malformed(n.pos, fmt.Sprintf("enum value %s out of range", n.text))
		}
		if neg {
			v = -v
		}
		values = append(values, EnumValue{Name: t.text, Value: v})

		sep, err := l.next()
		if err != nil {
			return nil, err
		}
		switch sep.kind {
		case tokComma:
		case tokRBrace:
			return values, nil
		default:
			return nil, malformed(sep.pos, fmt.Sprintf("expected ',' or '}', found %s", describe(sep)))
		}
	}
}
