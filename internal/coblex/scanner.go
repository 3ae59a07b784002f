// Package coblex is the lexer stage between the normalizer
// (internal/srcformat) and the directive preprocessor / parser. It is a
// cursor-based scanner: no separate token stream, just a position in a
// string plus a handful of classification methods. Reserved-word recognition,
// literal quoting (both ' and ", doubled-quote escape) and identifier rules
// are all decided here so that every later stage can stay dumb about
// column-level detail.
package coblex

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/smasher164/xid"

	"github.com/cobol85/cobolasg/internal/cobpos"
)

// Scanner is a cursor in a pre-normalized logical source string.
type Scanner struct {
	input string
	file cobpos.FileRef

	startIndex int
	curIndex int
	tokenType TokenType

	startLine, stopLine int
	indexAtStartLine int
	indexAtStopLine int

	reservedWord string
}

// New creates a Scanner over already-normalized source text (the output of
// srcformat.Normalize).
func New(file cobpos.FileRef, input string) *Scanner {
	return &Scanner{input: input, file: file}
}

func (s *Scanner) TokenType() TokenType { return s.tokenType }
func (s *Scanner) Token() string { return s.input[s.startIndex:s.curIndex] }
func (s *Scanner) TokenLower() string { return strings.ToLower(s.Token()) }
func (s *Scanner) ReservedWord() string { return s.reservedWord }

// Clone returns a copy of the scanner for backtracking/lookahead parsing.
func (s Scanner) Clone() *Scanner {
	result := new(Scanner)
	*result = s
	return result
}

func (s *Scanner) Start() cobpos.Pos {
	return cobpos.Pos{File: s.file, Line: s.startLine + 1, Col: s.startIndex - s.indexAtStartLine + 1}
}

func (s *Scanner) Stop() cobpos.Pos {
	return cobpos.Pos{File: s.file, Line: s.stopLine + 1, Col: s.curIndex - s.indexAtStopLine + 1}
}

func (s *Scanner) SkipWhitespace() {
	for s.tokenType == WhitespaceToken {
		s.NextToken()
	}
}

func (s *Scanner) NextNonWhitespaceToken() TokenType {
	s.NextToken()
	s.SkipWhitespace()
	return s.tokenType
}

// NextToken scans the next token and advances the cursor past it.
func (s *Scanner) NextToken() TokenType {
	s.startIndex = s.curIndex
	s.reservedWord = ""
	s.startLine = s.stopLine
	s.indexAtStartLine = s.indexAtStopLine

	r, w := utf8.DecodeRuneInString(s.input[s.curIndex:])

	switch {
	case r == utf8.RuneError && w == 0:
		s.tokenType = EOFToken
		return s.tokenType
	case r == utf8.RuneError && w == -1:
		s.tokenType = NonUTF8ErrorToken
		return s.tokenType
	case r == '(':
		s.curIndex += w
		s.tokenType = LeftParenToken
		return s.tokenType
	case r == ')':
		s.curIndex += w
		s.tokenType = RightParenToken
		return s.tokenType
	case r == ',':
		s.curIndex += w
		s.tokenType = CommaToken
		return s.tokenType
	case r == ':':
		s.curIndex += w
		s.tokenType = ColonToken
		return s.tokenType
	case r == '=':
		r2, w2 := utf8.DecodeRuneInString(s.input[s.curIndex+w:])
		if r2 == '=' {
			s.curIndex += w + w2
			s.tokenType = PseudoTextDelimToken
			return s.tokenType
		}
		s.curIndex += w
		s.tokenType = EqualToken
		return s.tokenType
	case r == '.':
		// A period is a terminator unless immediately followed by a digit
		// and preceded by a digit (a decimal point inside a numeric
		// literal is handled inside scanNumberOrLevel, never reaching here).
		s.curIndex += w
		s.tokenType = PeriodToken
		return s.tokenType
	case r == '\'' || r == '"':
		quote := r
		s.curIndex += w
		s.tokenType = s.scanLiteral(quote)
		return s.tokenType
	case r >= '0' && r <= '9':
		s.tokenType = s.scanNumberOrLevel()
		return s.tokenType
	case unicode.IsSpace(r):
		s.tokenType = s.scanWhitespace()
		return s.tokenType
	case r == '*':
		// free-form inline comment: '*>'... end of line
		r2, w2 := utf8.DecodeRuneInString(s.input[s.curIndex+w:])
		if r2 == '>' {
			s.curIndex += w + w2
			s.tokenType = s.scanSinglelineComment()
			return s.tokenType
		}
		s.curIndex += w
		s.tokenType = UnexpectedCharacterToken
		return s.tokenType
	case isWordStart(r):
		s.curIndex += w
		s.scanWord()
		rw := s.TokenLower()
		if ReservedWords[rw] {
			s.reservedWord = rw
			s.tokenType = ReservedWordToken
		} else {
			s.tokenType = UnquotedIdentifierToken
		}
		return s.tokenType
	}

	s.curIndex += w
	s.tokenType = UnexpectedCharacterToken
	return s.tokenType
}

// isWordStart decides whether r can begin a COBOL word. COBOL-85 words are
// ASCII letters/digits/hyphens, but source shops in mixed code pages
// occasionally carry extended identifier characters; xid.Start widens
// acceptance for those shops, while the hyphen rule stays COBOL-specific.
func isWordStart(r rune) bool {
	return unicode.IsLetter(r) || xid.Start(r)
}

func isWordContinue(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || xid.Continue(r)
}

func (s *Scanner) scanWord() {
	for {
		r, w := utf8.DecodeRuneInString(s.input[s.curIndex:])
		if w == 0 || !isWordContinue(r) {
			return
		}
		s.curIndex += w
	}
}

// scanNumberOrLevel scans a run of digits. The parser (not the lexer)
// decides whether a given token is actually a level number; we expose
// LevelNumberToken for every bare 1-2 digit run without a decimal part,
// whatever follows it (so the "9" and "5" of "9(5)" are LevelNumberTokens
// too), which simplifies the data-division grammar considerably.
func (s *Scanner) scanNumberOrLevel() TokenType {
	for {
		r, w := utf8.DecodeRuneInString(s.input[s.curIndex:])
		if w == 0 || !(r >= '0' && r <= '9') {
			break
		}
		s.curIndex += w
	}
	// decimal point followed by a digit continues the numeric literal
	if r, w := utf8.DecodeRuneInString(s.input[s.curIndex:]); r == '.' {
		if r2, w2 := utf8.DecodeRuneInString(s.input[s.curIndex+w:]); r2 >= '0' && r2 <= '9' {
			s.curIndex += w + w2
			for {
				r, w := utf8.DecodeRuneInString(s.input[s.curIndex:])
				if w == 0 || !(r >= '0' && r <= '9') {
					break
				}
				s.curIndex += w
			}
			return NumericLiteralToken
		}
	}
	digits := s.curIndex - s.startIndex
	if digits <= 2 {
		return LevelNumberToken
	}
	return NumericLiteralToken
}

// scanLiteral assumes the opening quote has already been consumed and
// scans up to (and past) the closing quote, treating a doubled quote of the
// same kind as an escaped literal quote rather than a terminator — COBOL
// accepts both '' and "" as the escape for their respective delimiters.
func (s *Scanner) scanLiteral(quote rune) TokenType {
	for {
		r, w := utf8.DecodeRuneInString(s.input[s.curIndex:])
		if w == 0 {
			return UnterminatedLiteralErrorToken
		}
		if r == '\n' {
			return UnterminatedLiteralErrorToken
		}
		if r == quote {
			r2, w2 := utf8.DecodeRuneInString(s.input[s.curIndex+w:])
			if r2 == quote {
				s.curIndex += w + w2
				continue
			}
			s.curIndex += w
			return AlphanumericLiteralToken
		}
		s.curIndex += w
	}
}

func (s *Scanner) scanSinglelineComment() TokenType {
	for {
		r, w := utf8.DecodeRuneInString(s.input[s.curIndex:])
		if w == 0 || r == '\n' {
			return SinglelineCommentToken
		}
		s.curIndex += w
	}
}

func (s *Scanner) scanWhitespace() TokenType {
	for {
		r, w := utf8.DecodeRuneInString(s.input[s.curIndex:])
		if w == 0 || !unicode.IsSpace(r) {
			return WhitespaceToken
		}
		if r == '\n' {
			s.stopLine++
			s.indexAtStopLine = s.curIndex + w
		}
		s.curIndex += w
	}
}
