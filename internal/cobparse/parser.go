package cobparse

import (
	"fmt"
	"strings"

	"github.com/cobol85/cobolasg/internal/coblex"
	"github.com/cobol85/cobolasg/internal/cobpos"
)

// Parser is a cursor over a coblex.Scanner plus the bookkeeping a
// recursive-descent front end needs: every parse* method expects s
// positioned on the first token it consumes and leaves it positioned on the
// first token of whatever follows, with intervening whitespace and comments
// already skipped.
type Parser struct {
	s *coblex.Scanner
	file cobpos.FileRef
}

// Parse runs the front end over already-preprocessed, normalized COBOL
// source and returns a SourceFile context owning one ProgramUnitCtx per
// PROGRAM-ID: a single source file may contain several compilation units.
func Parse(file cobpos.FileRef, source string) (*Context, error) {
	p := &Parser{s: coblex.New(file, source), file: file}
	root := &Context{Kind: SourceFile}

	p.s.NextToken()
	leading := p.collectComments()

	for {
		p.skipTrivia()
		if p.s.TokenType() == coblex.EOFToken {
			break
		}
		if !p.atReserved("identification") {
			return nil, p.errf("expected IDENTIFICATION DIVISION")
		}
		unit, err := p.parseProgramUnit(root, leading)
		if err != nil {
			return nil, err
		}
		leading = nil
		_ = unit

		// An optional `END PROGRAM name.` terminates one unit in a
		// multi-program source file; anything else is either EOF or the
		// next unit's IDENTIFICATION DIVISION.
		p.skipTrivia()
		if p.atReserved("end") {
			p.advance() // END
			p.skipTrivia()
			p.advance() // PROGRAM (or whatever follows; best-effort)
			p.skipTrivia()
			if p.s.TokenType() != coblex.PeriodToken {
				p.advance() // program name
				p.skipTrivia()
			}
			if p.s.TokenType() == coblex.PeriodToken {
				p.advance()
			}
		}
	}

	return root, nil
}

// --- low-level helpers -----------------------------------------------------

func (p *Parser) pos() cobpos.Pos { return p.s.Start() }

func (p *Parser) errf(format string, args...any) error {
	return Error{Pos: p.pos(), Message: fmt.Sprintf(format, args...)}
}

// advance consumes the current token (whatever it is) and positions on the
// next significant (non-whitespace, non-comment) token.
func (p *Parser) advance() {
	p.s.NextToken()
	p.skipTrivia()
}

func (p *Parser) skipTrivia() {
	for {
		switch p.s.TokenType() {
		case coblex.WhitespaceToken, coblex.SinglelineCommentToken:
			p.s.NextToken()
		default:
			return
		}
	}
}

// collectComments gathers a leading run of SinglelineCommentToken text
// (each entry with its trailing newline trimmed), used only once at the
// very top of a source file to seed IdentificationDivision.Docstring.
func (p *Parser) collectComments() []string {
	var out []string
	for {
		switch p.s.TokenType() {
		case coblex.WhitespaceToken:
			p.s.NextToken()
		case coblex.SinglelineCommentToken:
			out = append(out, strings.TrimRight(p.s.Token(), "\r\n"))
			p.s.NextToken()
		default:
			return out
		}
	}
}

func (p *Parser) atReserved(word string) bool {
	return p.s.TokenType() == coblex.ReservedWordToken && p.s.ReservedWord() == word
}

func (p *Parser) atAnyReserved(words...string) bool {
	if p.s.TokenType() != coblex.ReservedWordToken {
		return false
	}
	for _, w := range words {
		if p.s.ReservedWord() == w {
			return true
		}
	}
	return false
}

func (p *Parser) atEOF() bool { return p.s.TokenType() == coblex.EOFToken }

func (p *Parser) atPeriod() bool { return p.s.TokenType() == coblex.PeriodToken }

// expectReserved consumes word if present (case-insensitively, already
// true by construction since ReservedWord is lower-cased) and errors
// otherwise.
func (p *Parser) expectReserved(word string) error {
	if !p.atReserved(word) {
		return p.errf("expected %s", word)
	}
	p.advance()
	return nil
}

// expectPeriod consumes the statement/entry terminator.
func (p *Parser) expectPeriod() error {
	if !p.atPeriod() {
		return p.errf("expected '.'")
	}
	p.advance()
	return nil
}

// skipToPeriod discards tokens up to and including the next period,
// recovery used for clauses/statements this front end does not model in
// detail.
func (p *Parser) skipToPeriod() {
	for !p.atPeriod() && !p.atEOF() {
		p.advance()
	}
	if p.atPeriod() {
		p.advance()
	}
}

// identText returns the raw text of the current identifier/reserved-word
// token (COBOL words are used as both clause keywords and identifiers
// depending on context, e.g. "STATUS" is a reserved word but can also be a
// data name).
func (p *Parser) identText() string {
	return p.s.Token()
}

func (p *Parser) atWord() bool {
	switch p.s.TokenType() {
	case coblex.UnquotedIdentifierToken, coblex.ReservedWordToken, coblex.LevelNumberToken:
		return true
	}
	return false
}

func (p *Parser) atLiteral() bool {
	return p.s.TokenType() == coblex.AlphanumericLiteralToken || p.s.TokenType() == coblex.NumericLiteralToken
}

// literalText strips the surrounding quotes from the current alphanumeric
// literal token, unescaping doubled quotes.
func (p *Parser) literalText() string {
	tok := p.s.Token()
	if len(tok) < 2 {
		return tok
	}
	quote := tok[0]
	inner := tok[1 : len(tok)-1]
	return strings.ReplaceAll(inner, string(quote)+string(quote), string(quote))
}
