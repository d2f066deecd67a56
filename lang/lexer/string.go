package lexer

import (
	"strings"

	"github.com/kavi-lang/kavi/lang/token"
)

// scanPlainString scans a single-quoted string literal. Ruby gives
// single-quoted strings exactly two escapes, \' and \\; everything else,
// including #{...}, is literal text.
func (l *Lexer) scanPlainString(val *Value) token.Kind {
	start := l.off
	l.advance() // consume opening '

	var b strings.Builder
	for {
		switch l.cur {
		case -1:
			l.error(start, "unterminated string literal")
			val.Str = b.String()
			val.Raw = string(l.src[start:l.off])
			return token.STRING_PLAIN
		case '\'':
			l.advance()
			val.Str = b.String()
			val.Raw = string(l.src[start:l.off])
			return token.STRING_PLAIN
		case '\\':
			l.advance()
			switch l.cur {
			case '\'', '\\':
				b.WriteRune(l.cur)
				l.advance()
			default:
				b.WriteByte('\\')
			}
		default:
			b.WriteRune(l.cur)
			l.advance()
		}
	}
}

// scanInterpString scans the opening segment of a double-quoted string,
// i.e. everything from the opening '"' up to either the closing '"' (in
// which case the whole literal had no interpolation and is reported as a
// single STRING_PLAIN token) or the first "#{" (in which case it is
// reported as STRING_OPEN and the lexer switches to scanning the embedded
// expression, per spec.md section 4.2's three-state interpolated string
// design).
func (l *Lexer) scanInterpString(val *Value) token.Kind {
	start := l.off
	l.advance() // consume opening "
	return l.scanStringSegment(val, start, token.STRING_PLAIN, token.STRING_OPEN)
}

// continueInterpString resumes scanning a double-quoted string after an
// embedded "#{ expr }" has been fully tokenized; it is invoked by Scan when
// a '}' is seen that closes such an expression rather than a hash or block.
func (l *Lexer) continueInterpString(val *Value) token.Kind {
	start := l.off
	l.braceDepth--
	l.interpStack = l.interpStack[:len(l.interpStack)-1]
	l.advance() // consume the '}'
	return l.scanStringSegment(val, start, token.STRING_CLOSE, token.STRING_MID)
}

// scanStringSegment scans string content up to a closing '"' or an opening
// "#{", reporting closeKind in the former case and openKind (and pushing an
// interpolation frame) in the latter.
func (l *Lexer) scanStringSegment(val *Value, start int, closeKind, openKind token.Kind) token.Kind {
	var b strings.Builder
	for {
		switch l.cur {
		case -1:
			l.error(start, "unterminated string literal")
			val.Str = b.String()
			val.Raw = string(l.src[start:l.off])
			return closeKind
		case '"':
			l.advance()
			val.Str = b.String()
			val.Raw = string(l.src[start:l.off])
			return closeKind
		case '#':
			if l.peekByte() == '{' {
				l.advance() // consume '#'
				l.advance() // consume '{'
				l.interpStack = append(l.interpStack, l.braceDepth)
				l.braceDepth++
				val.Str = b.String()
				val.Raw = string(l.src[start:l.off])
				return openKind
			}
			b.WriteByte('#')
			l.advance()
		case '\\':
			l.advance()
			b.WriteString(decodeEscape(l))
		default:
			b.WriteRune(l.cur)
			l.advance()
		}
	}
}

// scanWords scans a %w(...) word-array literal (also accepting [...] and
// {...} delimiters). Elements are separated by runs of whitespace; there is
// no interpolation and no escapes inside one, matching Ruby's %w semantics.
func (l *Lexer) scanWords(val *Value) token.Kind {
	start := l.off
	l.advance() // consume '%'
	l.advance() // consume 'w'

	open := l.cur
	var closeRune rune
	switch open {
	case '(':
		closeRune = ')'
	case '[':
		closeRune = ']'
	case '{':
		closeRune = '}'
	default:
		closeRune = open
	}
	l.advance() // consume opening delimiter

	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	for {
		switch {
		case l.cur == -1:
			l.error(start, "unterminated %w literal")
			flush()
			val.Words = words
			val.Raw = string(l.src[start:l.off])
			return token.WORDS
		case l.cur == closeRune:
			l.advance()
			flush()
			val.Words = words
			val.Raw = string(l.src[start:l.off])
			return token.WORDS
		case l.cur == ' ' || l.cur == '\t' || l.cur == '\n':
			flush()
			l.advance()
		default:
			cur.WriteRune(l.cur)
			l.advance()
		}
	}
}

// decodeEscape decodes the escape sequence starting at the rune after the
// backslash (already current) and advances past it.
func decodeEscape(l *Lexer) string {
	defer l.advance()
	switch l.cur {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '0':
		return "\x00"
	case 's':
		return " "
	case '"', '\\', '#':
		return string(l.cur)
	case -1:
		return ""
	default:
		return string(l.cur)
	}
}
