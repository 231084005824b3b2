package lang

// TokenKind discriminates lexical token categories.
type TokenKind uint8

const (
	TokenLeftParen TokenKind = iota
	TokenRightParen
	TokenAtom // number or symbol, classified by the parser
	TokenString
)

// String implements fmt.Stringer.
func (k TokenKind) String() string {
	switch k {
	case TokenLeftParen:
		return "("
	case TokenRightParen:
		return ")"
	case TokenAtom:
		return "atom"
	case TokenString:
		return "string"
	default:
		return "invalid"
	}
}

// Token is one lexical unit with its position in the source.
type Token struct {
	Kind TokenKind
	Text string // atom text or string contents, without quotes
	Line int    // 1-based
	Col  int    // 1-based
}

// tokenizer scans source text byte-wise; multi-byte runes only ever occur
// inside atoms and string contents, never as structural characters.
type tokenizer struct {
	source string
	pos    int
	line   int
	col    int
}

// Tokenize splits source into tokens, stripping comments (";" to end of
// line). The only failure mode is an unterminated string literal.
func Tokenize(source string) ([]Token, error) {
	t := &tokenizer{source: source, line: 1, col: 1}

	var tokens []Token

	for t.pos < len(t.source) {
		c := t.source[t.pos]

		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			t.advance()
		case c == ';':
			t.skipComment()
		case c == '(':
			tokens = append(tokens, Token{Kind: TokenLeftParen, Text: "(", Line: t.line, Col: t.col})
			t.advance()
		case c == ')':
			tokens = append(tokens, Token{Kind: TokenRightParen, Text: ")", Line: t.line, Col: t.col})
			t.advance()
		case c == '"':
			tok, err := t.scanString()
			if err != nil {
				return nil, err
			}

			tokens = append(tokens, tok)
		default:
			tokens = append(tokens, t.scanAtom())
		}
	}

	return tokens, nil
}

// advance consumes one byte, tracking line and column.
func (t *tokenizer) advance() {
	if t.source[t.pos] == '\n' {
		t.line++
		t.col = 1
	} else {
		t.col++
	}

	t.pos++
}

// skipComment consumes from ";" through the end of the line.
func (t *tokenizer) skipComment() {
	for t.pos < len(t.source) && t.source[t.pos] != '\n' {
		t.advance()
	}
}

// scanString consumes a double-quoted literal. The language has no escape
// sequences, so the contents are the raw bytes between the quotes.
func (t *tokenizer) scanString() (Token, error) {
	line, col := t.line, t.col
	t.advance() // opening quote

	start := t.pos
	for t.pos < len(t.source) {
		if t.source[t.pos] == '"' {
			text := t.source[start:t.pos]
			t.advance() // closing quote

			return Token{Kind: TokenString, Text: text, Line: line, Col: col}, nil
		}

		t.advance()
	}

	return Token{}, NewParseError("unterminated string literal", t.source, line, col)
}

// scanAtom consumes up to the next delimiter.
func (t *tokenizer) scanAtom() Token {
	line, col := t.line, t.col
	start := t.pos

	for t.pos < len(t.source) && !isDelimiter(t.source[t.pos]) {
		t.advance()
	}

	return Token{Kind: TokenAtom, Text: t.source[start:t.pos], Line: line, Col: col}
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '(', ')', '"', ';':
		return true
	default:
		return false
	}
}
