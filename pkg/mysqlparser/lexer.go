package mysqlparser

import (
	"strings"
	"unicode"

	"github.com/nsxbet/ddl-analyzer/pkg/types"
)

// TokenKind is the kind of a DDL token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	// TokenWord is a bare identifier or keyword.
	TokenWord
	// TokenQuotedIdent is a backtick quoted identifier.
	TokenQuotedIdent
	// TokenString is a single quoted string.
	TokenString
	// TokenQuotedString is a double quoted string.
	TokenQuotedString
	TokenNumber
	TokenSymbol
)

func (k TokenKind) String() string {
	switch k {
	case TokenWord:
		return "word"
	case TokenQuotedIdent:
		return "quoted identifier"
	case TokenString, TokenQuotedString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenSymbol:
		return "symbol"
	default:
		return "end of statement"
	}
}

// Token is a lexical token of a DDL statement.
type Token struct {
	Kind TokenKind
	// Text is the token as written, quotes included.
	Text string
	// Value is the identifier name for words and quoted identifiers, and
	// Text for everything else.
	Value    string
	Position types.Position
}

// IsKeyword reports whether the token is the bare word kw, in any case.
func (t Token) IsKeyword(kw string) bool {
	return t.Kind == TokenWord && strings.EqualFold(t.Text, kw)
}

// IsSymbol reports whether the token is the symbol s.
func (t Token) IsSymbol(s string) bool {
	return t.Kind == TokenSymbol && t.Text == s
}

// IsIdentifier reports whether the token can name a table, column or key.
func (t Token) IsIdentifier() bool {
	return t.Kind == TokenWord || t.Kind == TokenQuotedIdent
}

func (t Token) describe() string {
	if t.Kind == TokenEOF {
		return t.Kind.String()
	}
	return "\"" + t.Text + "\""
}

type ddlLexer struct {
	src    []rune
	offset int
	pos    types.Position
	tokens []Token
}

// Tokenize splits one statement into tokens. Positions start at origin, the
// document position of the first character of text. Comments and whitespace
// are dropped.
func Tokenize(text string, origin types.Position) ([]Token, error) {
	l := &ddlLexer{src: []rune(text), pos: origin}
	if l.pos.Line == 0 {
		l.pos = types.Position{Line: 1, Column: 1}
	}
	for {
		l.skipSpace()
		if l.offset >= len(l.src) {
			l.tokens = append(l.tokens, Token{Kind: TokenEOF, Position: l.pos})
			return l.tokens, nil
		}
		skipped, err := l.skipComment()
		if err != nil {
			return nil, err
		}
		if skipped {
			continue
		}
		if err := l.next(); err != nil {
			return nil, err
		}
	}
}

func (l *ddlLexer) peek(ahead int) rune {
	if l.offset+ahead >= len(l.src) {
		return 0
	}
	return l.src[l.offset+ahead]
}

func (l *ddlLexer) advance() rune {
	r := l.src[l.offset]
	l.offset++
	if r == '\n' {
		l.pos.Line++
		l.pos.Column = 1
	} else {
		l.pos.Column++
	}
	return r
}

func (l *ddlLexer) skipSpace() {
	for l.offset < len(l.src) && unicode.IsSpace(l.peek(0)) {
		l.advance()
	}
}

func (l *ddlLexer) skipLine() {
	for l.offset < len(l.src) && l.peek(0) != '\n' {
		l.advance()
	}
}

func (l *ddlLexer) skipComment() (bool, error) {
	switch {
	case l.peek(0) == '#':
		l.skipLine()
		return true, nil
	case l.peek(0) == '-' && l.peek(1) == '-' && (l.peek(2) == 0 || unicode.IsSpace(l.peek(2))):
		l.skipLine()
		return true, nil
	case l.peek(0) == '/' && l.peek(1) == '*':
		start := l.pos
		l.advance()
		l.advance()
		for l.offset < len(l.src) {
			if l.peek(0) == '*' && l.peek(1) == '/' {
				l.advance()
				l.advance()
				return true, nil
			}
			l.advance()
		}
		return false, newSyntaxError(start, "unterminated comment", "")
	}
	return false, nil
}

func (l *ddlLexer) emit(kind TokenKind, start types.Position, from int, value string) {
	text := string(l.src[from:l.offset])
	if kind != TokenWord && kind != TokenQuotedIdent {
		value = text
	}
	l.tokens = append(l.tokens, Token{Kind: kind, Text: text, Value: value, Position: start})
}

func (l *ddlLexer) next() error {
	start, from := l.pos, l.offset
	r := l.peek(0)
	switch {
	case r == '\'' || r == '"':
		if err := l.scanQuoted(r, true); err != nil {
			return err
		}
		kind := TokenString
		if r == '"' {
			kind = TokenQuotedString
		}
		l.emit(kind, start, from, "")
	case r == '`':
		if err := l.scanQuoted(r, false); err != nil {
			return err
		}
		name := string(l.src[from+1 : l.offset-1])
		l.emit(TokenQuotedIdent, start, from, strings.ReplaceAll(name, "``", "`"))
	case isDigit(r) || (r == '.' && isDigit(l.peek(1))):
		if l.scanNumber() {
			l.emit(TokenNumber, start, from, "")
			return nil
		}
		l.scanWord()
		l.emit(TokenWord, start, from, string(l.src[from:l.offset]))
	case isWordStart(r):
		l.scanWord()
		l.emit(TokenWord, start, from, string(l.src[from:l.offset]))
	default:
		l.advance()
		l.emit(TokenSymbol, start, from, "")
	}
	return nil
}

// scanQuoted consumes a quoted token. A doubled quote stands for itself;
// backslash escapes the next character in strings.
func (l *ddlLexer) scanQuoted(quote rune, escapes bool) error {
	start := l.pos
	l.advance()
	for l.offset < len(l.src) {
		r := l.advance()
		switch {
		case escapes && r == '\\' && l.offset < len(l.src):
			l.advance()
		case r == quote && l.peek(0) == quote:
			l.advance()
		case r == quote:
			return nil
		}
	}
	if quote == '`' {
		return newSyntaxError(start, "unterminated quoted identifier", "")
	}
	return newSyntaxError(start, "unterminated string", "")
}

// scanNumber consumes digits with an optional fraction and exponent. It
// returns false when the digits turn out to start a word, such as 2fa_code.
func (l *ddlLexer) scanNumber() bool {
	for isDigit(l.peek(0)) {
		l.advance()
	}
	fraction := false
	if l.peek(0) == '.' && !isWordStart(l.peek(1)) {
		fraction = true
		l.advance()
		for isDigit(l.peek(0)) {
			l.advance()
		}
	}
	if (l.peek(0) == 'e' || l.peek(0) == 'E') &&
		(isDigit(l.peek(1)) || ((l.peek(1) == '-' || l.peek(1) == '+') && isDigit(l.peek(2)))) {
		l.advance()
		l.advance()
		for isDigit(l.peek(0)) {
			l.advance()
		}
		return true
	}
	return fraction || !isWordPart(l.peek(0))
}

func (l *ddlLexer) scanWord() {
	for isWordPart(l.peek(0)) {
		l.advance()
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isWordStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isWordPart(r rune) bool {
	return isWordStart(r) || isDigit(r)
}
