package lang

import "strconv"

// ParseExpression parses source holding exactly one expression. Trailing
// tokens after the expression are a parse error; this is the contract the
// REPL relies on for one-form-per-line input.
func ParseExpression(source string) (Expression, error) {
	p, err := newParser(source)
	if err != nil {
		return NoneExpression(), err
	}

	exp, err := p.parseExpr()
	if err != nil {
		return NoneExpression(), err
	}

	if tok, ok := p.peek(); ok {
		return NoneExpression(), NewParseError(
			"unexpected input after expression", source, tok.Line, tok.Col,
		)
	}

	return exp, nil
}

// Program is a sequence of top-level expressions, evaluated in order.
type Program []Expression

// Clone returns a deep copy of the program.
func (p Program) Clone() Program {
	out := make(Program, len(p))
	for i := range p {
		out[i] = p[i].Clone()
	}

	return out
}

// ParseProgram parses source holding one or more expressions in sequence.
func ParseProgram(source string) (Program, error) {
	p, err := newParser(source)
	if err != nil {
		return nil, err
	}

	var program Program

	for {
		if _, ok := p.peek(); !ok {
			break
		}

		exp, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		program = append(program, exp)
	}

	if len(program) == 0 {
		return nil, NewParseError("empty program", source, 1, 1)
	}

	return program, nil
}

type parser struct {
	source string
	tokens []Token
	pos    int
}

func newParser(source string) (*parser, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}

	return &parser{source: source, tokens: tokens}, nil
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}

	return p.tokens[p.pos], true
}

func (p *parser) next() (Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}

	return tok, ok
}

// last returns the position to report when input ends unexpectedly.
func (p *parser) last() (line, col int) {
	if len(p.tokens) == 0 {
		return 1, 1
	}

	tok := p.tokens[len(p.tokens)-1]

	return tok.Line, tok.Col
}

func (p *parser) parseExpr() (Expression, error) {
	tok, ok := p.next()
	if !ok {
		line, col := p.last()

		return NoneExpression(), NewParseError("unexpected end of input", p.source, line, col)
	}

	switch tok.Kind {
	case TokenString:
		return NewString(tok.Text), nil
	case TokenAtom:
		atom, err := p.classifyAtom(tok)
		if err != nil {
			return NoneExpression(), err
		}

		return NewExpression(atom), nil
	case TokenLeftParen:
		return p.parseForm(tok)
	case TokenRightParen:
		return NoneExpression(), NewParseError("unexpected )", p.source, tok.Line, tok.Col)
	default:
		return NoneExpression(), NewParseError("invalid token", p.source, tok.Line, tok.Col)
	}
}

// parseForm parses "( head child* )" where open is the consumed opening
// parenthesis. The head must be an atom; the original language has no
// expression-headed forms.
func (p *parser) parseForm(open Token) (Expression, error) {
	head, ok := p.next()
	if !ok {
		return NoneExpression(), NewParseError(
			"unbalanced parentheses", p.source, open.Line, open.Col,
		)
	}

	switch head.Kind {
	case TokenRightParen:
		return NoneExpression(), NewParseError("empty expression", p.source, open.Line, open.Col)
	case TokenLeftParen:
		return NoneExpression(), NewParseError(
			"expected a symbol or number to head the expression", p.source, head.Line, head.Col,
		)
	case TokenString:
		return NoneExpression(), NewParseError(
			"a string cannot head an expression", p.source, head.Line, head.Col,
		)
	}

	atom, err := p.classifyAtom(head)
	if err != nil {
		return NoneExpression(), err
	}

	exp := NewExpression(atom)

	for {
		tok, ok := p.peek()
		if !ok {
			return NoneExpression(), NewParseError(
				"unbalanced parentheses", p.source, open.Line, open.Col,
			)
		}

		if tok.Kind == TokenRightParen {
			p.pos++

			return exp, nil
		}

		child, err := p.parseExpr()
		if err != nil {
			return NoneExpression(), err
		}

		exp.tail = append(exp.tail, child)
	}
}

// classifyAtom decides whether an atom token is a number literal or a
// symbol. Anything that starts like a number must parse as one.
func (p *parser) classifyAtom(tok Token) (Atom, error) {
	if v, err := strconv.ParseFloat(tok.Text, 64); err == nil {
		return NumberAtom(v), nil
	}

	if looksNumeric(tok.Text) {
		return Atom{}, NewParseError(
			"invalid number literal "+strconv.Quote(tok.Text), p.source, tok.Line, tok.Col,
		)
	}

	return SymbolAtom(tok.Text), nil
}

// looksNumeric reports whether text begins the way a number literal must:
// a digit, or a sign or point immediately followed by a digit.
func looksNumeric(text string) bool {
	if text == "" {
		return false
	}

	if text[0] >= '0' && text[0] <= '9' {
		return true
	}

	if len(text) > 1 && (text[0] == '+' || text[0] == '-' || text[0] == '.') {
		return text[1] >= '0' && text[1] <= '9'
	}

	return false
}
