package r2rml

import (
	"fmt"
	"strings"
)

// turtleLexer tokenizes the small Turtle subset R2RML documents actually
// use: @prefix directives, <IRI> refs, "string" literals (optionally with
// ^^<IRI> datatype or @lang), prefix:local names, _:blank labels, and the
// structural tokens . ; , [ ].
type turtleLexer struct {
	src     string
	pos     int
	pending *ttoken
}

type ttokKind int

const (
	ttokIRI ttokKind = iota
	ttokPName
	ttokBlank
	ttokString
	ttokDot
	ttokSemi
	ttokComma
	ttokOpen
	ttokClose
	ttokPrefixKw
	ttokEOF
)

type ttoken struct {
	kind     ttokKind
	value    string
	datatype string // for ttokString with ^^<...>
}

func (l *turtleLexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '#' {
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
			continue
		}
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			l.pos++
			continue
		}
		break
	}
}

// peek returns the next token without consuming it.
func (l *turtleLexer) peek() (ttoken, error) {
	if l.pending != nil {
		return *l.pending, nil
	}
	tok, err := l.next()
	if err != nil {
		return ttoken{}, err
	}
	l.pending = &tok
	return tok, nil
}

func (l *turtleLexer) next() (ttoken, error) {
	if l.pending != nil {
		tok := *l.pending
		l.pending = nil
		return tok, nil
	}
	l.skipSpaceAndComments()
	if l.pos >= len(l.src) {
		return ttoken{kind: ttokEOF}, nil
	}
	c := l.src[l.pos]
	switch {
	case c == '.':
		l.pos++
		return ttoken{kind: ttokDot}, nil
	case c == ';':
		l.pos++
		return ttoken{kind: ttokSemi}, nil
	case c == ',':
		l.pos++
		return ttoken{kind: ttokComma}, nil
	case c == '[':
		l.pos++
		return ttoken{kind: ttokOpen}, nil
	case c == ']':
		l.pos++
		return ttoken{kind: ttokClose}, nil
	case c == '<':
		end := strings.IndexByte(l.src[l.pos+1:], '>')
		if end < 0 {
			return ttoken{}, fmt.Errorf("unterminated IRI ref at offset %d", l.pos)
		}
		v := l.src[l.pos+1 : l.pos+1+end]
		l.pos += end + 2
		return ttoken{kind: ttokIRI, value: v}, nil
	case c == '"':
		return l.lexString()
	case c == '@':
		// @prefix or a language tag (language tags only follow strings,
		// handled inside lexString)
		if strings.HasPrefix(l.src[l.pos:], "@prefix") {
			l.pos += len("@prefix")
			return ttoken{kind: ttokPrefixKw}, nil
		}
		return ttoken{}, fmt.Errorf("unexpected '@' at offset %d", l.pos)
	case c == '_' && l.pos+1 < len(l.src) && l.src[l.pos+1] == ':':
		start := l.pos + 2
		end := start
		for end < len(l.src) && isNameChar(l.src[end]) {
			end++
		}
		v := l.src[start:end]
		l.pos = end
		return ttoken{kind: ttokBlank, value: v}, nil
	default:
		// PNAME_NS:PNAME_LOCAL or bare "a" for rdf:type
		start := l.pos
		end := start
		for end < len(l.src) && isNameChar(l.src[end]) {
			end++
		}
		v := l.src[start:end]
		l.pos = end
		if v == "" {
			return ttoken{}, fmt.Errorf("unexpected character %q at offset %d", c, l.pos)
		}
		if v == "a" {
			return ttoken{kind: ttokIRI, value: rdfType}, nil
		}
		return ttoken{kind: ttokPName, value: v}, nil
	}
}

func isNameChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '-', c == ':', c == '.':
		return true
	}
	return false
}

func (l *turtleLexer) lexString() (ttoken, error) {
	l.pos++ // consume opening quote
	var sb strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\\' && l.pos+1 < len(l.src) {
			sb.WriteByte(l.src[l.pos+1])
			l.pos += 2
			continue
		}
		if c == '"' {
			l.pos++
			break
		}
		sb.WriteByte(c)
		l.pos++
	}
	tok := ttoken{kind: ttokString, value: sb.String()}
	// optional ^^<datatype> or @lang suffix
	if l.pos+1 < len(l.src) && l.src[l.pos] == '^' && l.src[l.pos+1] == '^' {
		l.pos += 2
		dt, err := l.next()
		if err != nil {
			return ttoken{}, err
		}
		tok.datatype = dt.value
	} else if l.pos < len(l.src) && l.src[l.pos] == '@' {
		l.pos++
		for l.pos < len(l.src) && isNameChar(l.src[l.pos]) {
			l.pos++
		}
	}
	return tok, nil
}

// parseTurtle parses a full Turtle document into a tripleStore, expanding
// prefixed names via any @prefix directives encountered.
func parseTurtle(src string) (*tripleStore, error) {
	l := &turtleLexer{src: src}
	prefixes := map[string]string{}
	store := newTripleStore()
	blankCounter := 0
	freshBlank := func() node {
		blankCounter++
		return blankNode(fmt.Sprintf("_b%d", blankCounter))
	}

	expand := func(tok ttoken) (node, error) {
		switch tok.kind {
		case ttokIRI:
			return iriNode(tok.value), nil
		case ttokBlank:
			return blankNode(tok.value), nil
		case ttokString:
			return literalNode(tok.value), nil
		case ttokPName:
			parts := strings.SplitN(tok.value, ":", 2)
			if len(parts) != 2 {
				return node{}, fmt.Errorf("malformed prefixed name %q", tok.value)
			}
			ns, ok := prefixes[parts[0]]
			if !ok {
				return node{}, fmt.Errorf("unknown prefix %q", parts[0])
			}
			return iriNode(ns + parts[1]), nil
		default:
			return node{}, fmt.Errorf("expected a term, got token kind %d", tok.kind)
		}
	}

	// parseObject returns the object node for a position, recursing into
	// anonymous blank-node property lists (`[ ... ]`).
	var parsePredicateObjectList func(subject node) error
	var parseObject func() (node, error)

	parseObject = func() (node, error) {
		tok, err := l.next()
		if err != nil {
			return node{}, err
		}
		if tok.kind == ttokOpen {
			anon := freshBlank()
			if err := parsePredicateObjectList(anon); err != nil {
				return node{}, err
			}
			closeTok, err := l.next()
			if err != nil {
				return node{}, err
			}
			if closeTok.kind != ttokClose {
				return node{}, fmt.Errorf("expected ']' to close blank node property list")
			}
			return anon, nil
		}
		return expand(tok)
	}

	parsePredicateObjectList = func(subject node) error {
		for {
			peeked, err := l.peek()
			if err != nil {
				return err
			}
			if peeked.kind == ttokClose || peeked.kind == ttokDot || peeked.kind == ttokEOF {
				// caller consumes the terminator; this path only hit on
				// an empty property list `[]`
				return nil
			}
			predTok, err := l.next()
			if err != nil {
				return err
			}
			predNode, err := expand(predTok)
			if err != nil {
				return err
			}
			for {
				obj, err := parseObject()
				if err != nil {
					return err
				}
				store.add(subject, predNode.iri, obj)

				sep, err := l.next()
				if err != nil {
					return err
				}
				if sep.kind == ttokComma {
					continue
				}
				if sep.kind == ttokSemi {
					break
				}
				if sep.kind == ttokClose {
					// leave ']' for the caller that opened the list
					l.pending = &sep
					return nil
				}
				if sep.kind == ttokDot || sep.kind == ttokEOF {
					return nil
				}
				return fmt.Errorf("unexpected token after object, kind %d", sep.kind)
			}
		}
	}

	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == ttokEOF {
			break
		}
		if tok.kind == ttokPrefixKw {
			nsTok, err := l.next()
			if err != nil {
				return nil, err
			}
			iriTok, err := l.next()
			if err != nil {
				return nil, err
			}
			dotTok, err := l.next()
			if err != nil {
				return nil, err
			}
			if dotTok.kind != ttokDot {
				return nil, fmt.Errorf("expected '.' after @prefix directive")
			}
			prefixes[strings.TrimSuffix(nsTok.value, ":")] = iriTok.value
			continue
		}

		subject, err := expand(tok)
		if tok.kind == ttokOpen {
			subject = freshBlank()
			if err := parsePredicateObjectList(subject); err != nil {
				return nil, err
			}
			closeTok, err := l.next()
			if err != nil {
				return nil, err
			}
			if closeTok.kind != ttokClose {
				return nil, fmt.Errorf("expected ']' to close top-level blank node")
			}
		} else if err != nil {
			return nil, err
		}

		if err := parsePredicateObjectList(subject); err != nil {
			return nil, err
		}
	}

	return store, nil
}
