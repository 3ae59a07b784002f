package cobparse

import (
	"strconv"
	"strings"

	"github.com/cobol85/cobolasg/internal/coblex"
)

// parseDataDivision parses DATA DIVISION's FILE/WORKING-STORAGE/LINKAGE
// sections. Data description entries are emitted as a FLAT sibling list
// under their owning section.
func (p *Parser) parseDataDivision(unit *Context) (*Context, error) {
	div := newCtx(DataDivisionCtx, p.pos(), unit)

	if err := p.expectReserved("data"); err != nil {
		return nil, err
	}
	if err := p.expectReserved("division"); err != nil {
		return nil, err
	}
	if err := p.expectPeriod(); err != nil {
		return nil, err
	}

	for !p.atReserved("procedure") && !p.atEOF() {
		switch {
		case p.atReserved("file"):
			if err := p.parseFileSection(div); err != nil {
				return nil, err
			}
		case p.atReserved("working-storage"):
			if err := p.parseStorageSection(div, WorkingStorageSectionCtx, "working-storage"); err != nil {
				return nil, err
			}
		case p.atReserved("linkage"):
			if err := p.parseStorageSection(div, LinkageSectionCtx, "linkage"); err != nil {
				return nil, err
			}
		default:
			p.skipToPeriod()
		}
	}

	return div, nil
}

func (p *Parser) parseFileSection(div *Context) error {
	sec := newCtx(FileSectionCtx, p.pos(), div)
	p.advance() // FILE
	if err := p.expectReserved("section"); err != nil {
		return err
	}
	if err := p.expectPeriod(); err != nil {
		return err
	}
	for p.atReserved("fd") || p.atReserved("sd") {
		if err := p.parseFileDescriptor(sec); err != nil {
			return err
		}
	}
	return nil
}

// parseFileDescriptor parses `FD name [clauses...]. [01 record-description
// entries...]`, the FD/SD clause set pass 5 cross-links to its
// SELECT entry by file name.
func (p *Parser) parseFileDescriptor(sec *Context) error {
	fd := newCtx(FileDescriptorCtx, p.pos(), sec)
	fd.setAttr("kind", p.identText()) // "FD" or "SD"
	p.advance()
	if !p.atWord() {
		return p.errf("expected file name after FD/SD")
	}
	fd.Name = p.identText()
	p.advance()

	for !p.atPeriod() && !p.atEOF() {
		switch {
		case p.atReserved("record"):
			p.advance()
			p.consumeOptional("contains")
			if p.atWord() {
				fd.setAttr("record", p.identText())
				p.advance()
			}
		case p.atReserved("label"):
			p.advance()
			p.consumeOptional("records")
			p.consumeOptional("are")
			p.consumeOptional("omitted")
			p.consumeOptional("standard")
		default:
			p.advance()
		}
	}
	if err := p.expectPeriod(); err != nil {
		return err
	}

	for p.atWord() && p.isLevelStart() {
		if err := p.parseDataDescription(fd); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseStorageSection(div *Context, kind Kind, word string) error {
	sec := newCtx(kind, p.pos(), div)
	p.advance() // WORKING-STORAGE / LINKAGE
	if err := p.expectReserved("section"); err != nil {
		return err
	}
	if err := p.expectPeriod(); err != nil {
		return err
	}
	for p.isLevelStart() {
		if err := p.parseDataDescription(sec); err != nil {
			return err
		}
	}
	return nil
}

// isLevelStart reports whether the current token looks like a data
// description entry's leading level number.
func (p *Parser) isLevelStart() bool {
	if !p.atWord() {
		return false
	}
	_, err := strconv.Atoi(p.identText())
	return err == nil
}

// parseDataDescription parses one level-numbered entry:
// `LEVEL name [REDEFINES x] [PIC pic] [USAGE u] [OCCURS n [TO m] TIMES
// [DEPENDING ON dep]] [VALUE v | VALUES v THRU w...].`
// Level 66 is RENAMES and level 88 is a condition-name with VALUE(S); both
// share this same entry point per "level number... (plus
// 66/77/88 specials)".
func (p *Parser) parseDataDescription(owner *Context) error {
	entry := newCtx(DataDescriptionCtx, p.pos(), owner)
	level, err := strconv.Atoi(p.identText())
	if err != nil {
		return p.errf("expected level number")
	}
	entry.Level = level
	p.advance()

	if !p.atWord() {
		return p.errf("expected data name after level number")
	}
	entry.Name = p.identText()
	p.advance()

	for !p.atPeriod() && !p.atEOF() {
		switch {
		case p.atReserved("redefines"):
			p.advance()
			if p.atWord() {
				entry.setAttr("redefines", p.identText())
				p.advance()
			}
		case p.atReserved("renames"):
			p.advance()
			if p.atWord() {
				entry.setAttr("renames", p.identText())
				p.advance()
			}
			if p.atReserved("thru") || p.atReserved("through") {
				p.advance()
				if p.atWord() {
					entry.setAttr("renames_thru", p.identText())
					p.advance()
				}
			}
		case p.atReserved("pic"), p.atReserved("picture"):
			p.advance()
			p.consumeOptional("is")
			entry.setAttr("pic", p.scanPictureString())
		case p.atReserved("usage"):
			p.advance()
			p.consumeOptional("is")
			entry.setAttr("usage", p.identText())
			p.advance()
		case p.atReserved("comp"), p.atReserved("comp-3"):
			entry.setAttr("usage", p.identText())
			p.advance()
		case p.atReserved("occurs"):
			if err := p.parseOccurs(entry); err != nil {
				return err
			}
		case p.atReserved("value"), p.atReserved("values"):
			if err := p.parseValueClause(entry); err != nil {
				return err
			}
		default:
			p.advance()
		}
	}
	return p.expectPeriod()
}

func (p *Parser) parseOccurs(entry *Context) error {
	p.advance() // OCCURS
	if !p.atWord() {
		return p.errf("expected bound after OCCURS")
	}
	entry.setAttr("occurs_min", p.identText())
	p.advance()
	if p.atReserved("to") {
		p.advance()
		if p.atWord() {
			entry.setAttr("occurs_max", p.identText())
			p.advance()
		}
	}
	p.consumeOptional("times")
	if p.atReserved("depending") {
		p.advance()
		p.consumeOptional("on")
		if p.atWord() {
			entry.setAttr("occurs_depending_on", p.identText())
			p.advance()
		}
	}
	return nil
}

// picClauseStop lists the clause keywords that can legally follow a PICTURE
// string in this grammar subset; scanPictureString stops as soon as it sees
// one of these (or a period), rather than trying to validate picture syntax.
var picClauseStop = map[string]bool{
	"redefines": true, "renames": true, "occurs": true, "value": true,
	"values": true, "usage": true, "comp": true, "comp-3": true,
}

// scanPictureString consumes a PICTURE character string, which the lexer
// tokenizes as a run of identifier/number/paren tokens (e.g. "9(5)V99"
// becomes LevelNumber "9", LeftParen, LevelNumber "5", RightParen,
// Identifier "V", LevelNumber "99") rather than one token, since '(' and ')'
// are punctuation to the scanner. It concatenates them verbatim; a PICTURE
// clause never contains embedded whitespace.
func (p *Parser) scanPictureString() string {
	var sb strings.Builder
	for {
		switch p.s.TokenType() {
		case coblex.UnquotedIdentifierToken, coblex.LevelNumberToken, coblex.NumericLiteralToken,
			coblex.LeftParenToken, coblex.RightParenToken:
			sb.WriteString(p.s.Token())
			p.advance()
			continue
		case coblex.ReservedWordToken:
			if picClauseStop[p.s.ReservedWord()] {
				return sb.String()
			}
			sb.WriteString(p.s.Token())
			p.advance()
			continue
		}
		return sb.String()
	}
}

// parseValueClause parses `VALUE literal.` or `VALUES literal [THRU
// literal] [literal [THRU literal]]*`, recording every literal (ranges
// joined as "lo THRU hi") under the "values" list key — pass 2
// reads this to build a level-88 condition-name's value table.
func (p *Parser) parseValueClause(entry *Context) error {
	p.advance() // VALUE / VALUES
	p.consumeOptional("is")
	p.consumeOptional("are")
	for {
		if !p.atLiteral() && !p.atWord() {
			return p.errf("expected literal in VALUE clause")
		}
		lo := p.tokenValue()
		p.advance()
		if p.atReserved("thru") || p.atReserved("through") {
			p.advance()
			hi := p.tokenValue()
			p.advance()
			entry.appendList("values", lo+" THRU "+hi)
		} else {
			entry.appendList("values", lo)
		}
		if p.atPeriod() || p.atEOF() {
			return nil
		}
	}
}
