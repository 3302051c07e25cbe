package atom

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ParseRecord converts one line of text into its record List.
//
// The line is trimmed first. It must start with '(' and the outermost list
// must close exactly at the end of the line, optionally followed by
// whitespace and a ';' comment. Inside the record:
//   - "..." is one String token, spaces included; \" and \\ are escapes
//   - ( opens a child List, ) closes the innermost one
//   - any other run of non-space, non-paren characters is a Number when
//     IsNumeric holds and a Symbol otherwise
//
// All token text is NFC normalized.
//
// Errors are *ParseError values of kind NotARecord, UnbalancedParens or
// UnterminatedString. Callers reading whole files skip such lines.
func ParseRecord(line string) (List, error) {
	text := strings.TrimSpace(line)
	if text == "" {
		return nil, &ParseError{Kind: NotARecord, Offset: -1, Msg: "blank line"}
	}
	if text[0] != '(' {
		return nil, &ParseError{Kind: NotARecord, Offset: 0, Msg: "record must start with '('"}
	}

	p := &parser{src: text}
	rec, err := p.parseList()
	if err != nil {
		return nil, err
	}

	rest := strings.TrimSpace(p.src[p.pos:])
	if rest != "" && rest[0] != ';' {
		return nil, &ParseError{
			Kind:   UnbalancedParens,
			Offset: p.pos,
			Msg:    "unexpected input after record closes",
		}
	}

	return rec, nil
}

// parser is a single left-to-right scan over one record line.
// Nesting depth is the recursion depth of parseList.
type parser struct {
	src string
	pos int
}

// parseList expects src[pos] == '(' and consumes through the matching ')'.
func (p *parser) parseList() (List, error) {
	open := p.pos
	p.pos++ // consume '('

	children := List{}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, &ParseError{
				Kind:   UnbalancedParens,
				Offset: open,
				Msg:    "list opened here is never closed",
			}
		}

		switch c := p.src[p.pos]; c {
		case ')':
			p.pos++
			return children, nil
		case '(':
			child, err := p.parseList()
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		case '"':
			s, err := p.parseString()
			if err != nil {
				return nil, err
			}
			children = append(children, s)
		default:
			children = append(children, p.parseBare())
		}
	}
}

// parseString expects src[pos] == '"' and consumes through the closing quote.
func (p *parser) parseString() (String, error) {
	open := p.pos
	p.pos++ // consume opening quote

	var sb strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '\\' && p.pos+1 < len(p.src) && (p.src[p.pos+1] == '"' || p.src[p.pos+1] == '\\'):
			sb.WriteByte(p.src[p.pos+1])
			p.pos += 2
		case c == '"':
			p.pos++
			return String(norm.NFC.String(sb.String())), nil
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}

	return "", &ParseError{
		Kind:   UnterminatedString,
		Offset: open,
		Msg:    "quoted string opened here is never closed",
	}
}

// parseBare consumes a run of characters up to whitespace, a paren or a quote.
func (p *parser) parseBare() Atom {
	start := p.pos
	for p.pos < len(p.src) && !isDelimiter(p.src[p.pos]) {
		p.pos++
	}

	text := norm.NFC.String(p.src[start:p.pos])
	if IsNumeric(text) {
		return Number(text)
	}
	return Symbol(text)
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f'
}

func isDelimiter(c byte) bool {
	return isSpace(c) || c == '(' || c == ')' || c == '"'
}
