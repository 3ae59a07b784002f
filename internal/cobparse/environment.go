package cobparse

// parseEnvironmentDivision parses ENVIRONMENT DIVISION, with an optional
// CONFIGURATION SECTION (skipped mechanically, places
// clause-specific detail out of scope) and an optional INPUT-OUTPUT
// SECTION / FILE-CONTROL paragraph holding one SelectEntryCtx per SELECT
//.
func (p *Parser) parseEnvironmentDivision(unit *Context) (*Context, error) {
	div := newCtx(EnvironmentDivisionCtx, p.pos(), unit)

	if err := p.expectReserved("environment"); err != nil {
		return nil, err
	}
	if err := p.expectReserved("division"); err != nil {
		return nil, err
	}
	if err := p.expectPeriod(); err != nil {
		return nil, err
	}

	for !p.atReserved("data") && !p.atReserved("procedure") && !p.atEOF() {
		switch {
		case p.atReserved("configuration"):
			if err := p.parseConfigurationSection(div); err != nil {
				return nil, err
			}
		case p.atReserved("input-output"):
			if err := p.parseInputOutputSection(div); err != nil {
				return nil, err
			}
		default:
			p.skipToPeriod()
		}
	}

	return div, nil
}

func (p *Parser) parseConfigurationSection(div *Context) error {
	newCtx(ConfigurationSectionCtx, p.pos(), div)
	p.advance() // CONFIGURATION
	if err := p.expectReserved("section"); err != nil {
		return err
	}
	if err := p.expectPeriod(); err != nil {
		return err
	}
	for !p.atReserved("input-output") && !p.atReserved("data") && !p.atReserved("procedure") && !p.atEOF() {
		p.skipToPeriod()
	}
	return nil
}

func (p *Parser) parseInputOutputSection(div *Context) error {
	sec := newCtx(InputOutputSectionCtx, p.pos(), div)
	p.advance() // INPUT-OUTPUT
	if err := p.expectReserved("section"); err != nil {
		return err
	}
	if err := p.expectPeriod(); err != nil {
		return err
	}

	for !p.atReserved("data") && !p.atReserved("procedure") && !p.atEOF() {
		if p.atReserved("file-control") {
			if err := p.parseFileControlParagraph(sec); err != nil {
				return err
			}
			continue
		}
		p.skipToPeriod()
	}
	return nil
}

func (p *Parser) parseFileControlParagraph(sec *Context) error {
	fc := newCtx(FileControlParagraphCtx, p.pos(), sec)
	p.advance() // FILE-CONTROL
	if err := p.expectPeriod(); err != nil {
		return err
	}
	for p.atReserved("select") {
		if err := p.parseSelectEntry(fc); err != nil {
			return err
		}
	}
	return nil
}

// parseSelectEntry parses `SELECT [OPTIONAL] name ASSIGN TO target
// [ORGANIZATION IS org] [ACCESS MODE IS mode] [RECORD KEY IS key]
// [FILE STATUS IS status].` recording each recognized sub-clause in Attrs,
// the uniform shape calls for.
func (p *Parser) parseSelectEntry(fc *Context) error {
	sel := newCtx(SelectEntryCtx, p.pos(), fc)
	p.advance() // SELECT
	if p.atReserved("optional") {
		sel.setAttr("optional", "true")
		p.advance()
	}
	if !p.atWord() {
		return p.errf("expected file name after SELECT")
	}
	sel.Name = p.identText()
	p.advance()

	for !p.atPeriod() && !p.atEOF() {
		switch {
		case p.atReserved("assign"):
			p.advance()
			p.consumeOptional("to")
			if !p.atWord() && !p.atLiteral() {
				return p.errf("expected ASSIGN target")
			}
			sel.setAttr("assign", p.tokenValue())
			p.advance()
		case p.atReserved("organization"):
			p.advance()
			p.consumeOptional("is")
			sel.setAttr("organization", p.identText())
			p.advance()
		case p.atReserved("access"):
			p.advance()
			p.consumeOptional("mode")
			p.consumeOptional("is")
			sel.setAttr("access", p.identText())
			p.advance()
		case p.atReserved("record"):
			p.advance()
			p.consumeOptional("key")
			p.consumeOptional("is")
			sel.setAttr("key", p.identText())
			p.advance()
		case p.atReserved("status"), p.atReserved("file"):
			// FILE STATUS IS ident [ident]
			p.advance()
			p.consumeOptional("status")
			p.consumeOptional("is")
			sel.setAttr("status", p.identText())
			p.advance()
		default:
			p.advance()
		}
	}
	return p.expectPeriod()
}

// consumeOptional advances past word if it is the current reserved word.
func (p *Parser) consumeOptional(word string) {
	if p.atReserved(word) {
		p.advance()
	}
}

func (p *Parser) tokenValue() string {
	if p.atLiteral() {
		return p.literalText()
	}
	return p.identText()
}
