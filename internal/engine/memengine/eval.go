package memengine

import (
	"fmt"
	"strings"

	"github.com/example/kdiff/internal/core/tristate"
	"github.com/example/kdiff/internal/ports/secondary"
)

// Eval evaluates a logical expression such as "y && ARCH" against the
// current configuration. Malformed input yields an error matching
// secondary.ErrSyntax.
func (e *Engine) Eval(expr string) (tristate.Value, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return tristate.No, err
	}

	p := &parser{eng: e, tokens: tokens}
	v, err := p.parseOr()
	if err != nil {
		return tristate.No, err
	}
	if p.pos != len(p.tokens) {
		return tristate.No, fmt.Errorf("trailing input %q: %w", p.tokens[p.pos], secondary.ErrSyntax)
	}
	return v, nil
}

func tokenize(expr string) ([]string, error) {
	var tokens []string
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(' || c == ')':
			tokens = append(tokens, string(c))
			i++
		case c == '&' || c == '|':
			if i+1 >= len(expr) || expr[i+1] != c {
				return nil, fmt.Errorf("stray %q in expression: %w", string(c), secondary.ErrSyntax)
			}
			tokens = append(tokens, expr[i:i+2])
			i += 2
		case c == '!':
			if i+1 < len(expr) && expr[i+1] == '=' {
				tokens = append(tokens, "!=")
				i += 2
			} else {
				tokens = append(tokens, "!")
				i++
			}
		case c == '=':
			tokens = append(tokens, "=")
			i++
		case isIdentChar(c):
			j := i
			for j < len(expr) && isIdentChar(expr[j]) {
				j++
			}
			tokens = append(tokens, expr[i:j])
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q: %w", string(c), secondary.ErrSyntax)
		}
	}
	return tokens, nil
}

func isIdentChar(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

type parser struct {
	eng    *Engine
	tokens []string
	pos    int
}

func (p *parser) peek() (string, bool) {
	if p.pos >= len(p.tokens) {
		return "", false
	}
	return p.tokens[p.pos], true
}

func (p *parser) parseOr() (tristate.Value, error) {
	v, err := p.parseAnd()
	if err != nil {
		return tristate.No, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok != "||" {
			return v, nil
		}
		p.pos++
		rhs, err := p.parseAnd()
		if err != nil {
			return tristate.No, err
		}
		v = tristate.Max(v, rhs)
	}
}

func (p *parser) parseAnd() (tristate.Value, error) {
	v, err := p.parseNot()
	if err != nil {
		return tristate.No, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok != "&&" {
			return v, nil
		}
		p.pos++
		rhs, err := p.parseNot()
		if err != nil {
			return tristate.No, err
		}
		v = tristate.Min(v, rhs)
	}
}

func (p *parser) parseNot() (tristate.Value, error) {
	if tok, ok := p.peek(); ok && tok == "!" {
		p.pos++
		v, err := p.parseNot()
		if err != nil {
			return tristate.No, err
		}
		return tristate.Yes - v, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (tristate.Value, error) {
	tok, ok := p.peek()
	if !ok {
		return tristate.No, fmt.Errorf("unexpected end of expression: %w", secondary.ErrSyntax)
	}

	if tok == "(" {
		p.pos++
		v, err := p.parseOr()
		if err != nil {
			return tristate.No, err
		}
		closing, ok := p.peek()
		if !ok || closing != ")" {
			return tristate.No, fmt.Errorf("missing closing parenthesis: %w", secondary.ErrSyntax)
		}
		p.pos++
		return v, nil
	}

	lhs, err := p.parseTerm()
	if err != nil {
		return tristate.No, err
	}

	if op, ok := p.peek(); ok && (op == "=" || op == "!=") {
		p.pos++
		rhs, err := p.parseTerm()
		if err != nil {
			return tristate.No, err
		}
		if (lhs == rhs) == (op == "=") {
			return tristate.Yes, nil
		}
		return tristate.No, nil
	}
	return lhs, nil
}

func (p *parser) parseTerm() (tristate.Value, error) {
	tok, ok := p.peek()
	if !ok {
		return tristate.No, fmt.Errorf("unexpected end of expression: %w", secondary.ErrSyntax)
	}
	if !isIdent(tok) {
		return tristate.No, fmt.Errorf("unexpected token %q: %w", tok, secondary.ErrSyntax)
	}
	p.pos++

	if v, err := tristate.Parse(tok); err == nil {
		return v, nil
	}
	if sym, ok := p.eng.symIndex[tok]; ok {
		return sym.val, nil
	}
	// Unreferenced symbols evaluate to n.
	return tristate.No, nil
}

func isIdent(tok string) bool {
	return tok != "" && !strings.ContainsAny(tok, "&|!()= ")
}
