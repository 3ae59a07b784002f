package cobparse

import "github.com/cobol85/cobolasg/internal/coblex"

// parseProgramUnit parses IDENTIFICATION DIVISION followed by the optional
// ENVIRONMENT/DATA/PROCEDURE divisions — the four divisions a program unit
// may own. leading is the run of comment lines gathered before the first
// IDENTIFICATION DIVISION in the file (the docblock-metadata feature).
func (p *Parser) parseProgramUnit(root *Context, leading []string) (*Context, error) {
	unit := newCtx(ProgramUnitCtx, p.pos(), root)

	idDiv, err := p.parseIdentificationDivision(unit, leading)
	if err != nil {
		return nil, err
	}
	_ = idDiv

	for p.atAnyReserved("environment", "data", "procedure") {
		switch {
		case p.atReserved("environment"):
			if _, err := p.parseEnvironmentDivision(unit); err != nil {
				return nil, err
			}
		case p.atReserved("data"):
			if _, err := p.parseDataDivision(unit); err != nil {
				return nil, err
			}
		case p.atReserved("procedure"):
			if _, err := p.parseProcedureDivision(unit); err != nil {
				return nil, err
			}
		}
	}

	return unit, nil
}

// parseIdentificationDivision parses `IDENTIFICATION DIVISION.
// PROGRAM-ID. name [IS... PROGRAM].` and skips any other
// identification-division paragraphs (AUTHOR, DATE-WRITTEN,...)
// mechanically up to the next DIVISION keyword.
func (p *Parser) parseIdentificationDivision(unit *Context, leading []string) (*Context, error) {
	div := newCtx(IdentificationDivisionCtx, p.pos(), unit)
	if len(leading) > 0 {
		div.Lists = map[string][]string{"docstring": leading}
	}

	if err := p.expectReserved("identification"); err != nil {
		return nil, err
	}
	if err := p.expectReserved("division"); err != nil {
		return nil, err
	}
	if err := p.expectPeriod(); err != nil {
		return nil, err
	}

	if err := p.expectReserved("program-id"); err != nil {
		return nil, err
	}
	if err := p.expectPeriod(); err != nil {
		return nil, err
	}
	if !p.atWord() {
		return nil, p.errf("expected program name after PROGRAM-ID")
	}
	div.Name = p.identText()
	p.advance()

	// Optional "IS... PROGRAM" / "IS COMMON PROGRAM" trailing phrase.
	for !p.atPeriod() && !p.atEOF() {
		p.advance()
	}
	if err := p.expectPeriod(); err != nil {
		return nil, err
	}

	// Skip any further identification-division paragraphs mechanically.
	for !p.atAnyReserved("environment", "data", "procedure") && !p.atEOF() {
		if p.s.TokenType() == coblex.UnterminatedLiteralErrorToken {
			return nil, p.errf("unterminated literal")
		}
		p.skipToPeriod()
	}

	return div, nil
}
