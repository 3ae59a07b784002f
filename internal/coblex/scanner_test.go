package coblex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func allTokens(s *Scanner) []TokenType {
	var out []TokenType
	for {
		tt := s.NextToken()
		out = append(out, tt)
		if tt == EOFToken {
			return out
		}
	}
}

func TestScanner_ReservedWordsAndIdentifiers(t *testing.T) {
	s := New("t.cbl", "PROGRAM-ID. CUSTOMER-NAME.")
	assert.Equal(t, ReservedWordToken, s.NextToken())
	assert.Equal(t, "program-id", s.ReservedWord())
	assert.Equal(t, PeriodToken, s.NextToken())
	assert.Equal(t, ".", s.Token())
	assert.Equal(t, WhitespaceToken, s.NextToken())
	assert.Equal(t, UnquotedIdentifierToken, s.NextToken())
	assert.Equal(t, "CUSTOMER-NAME", s.Token())
	assert.Equal(t, PeriodToken, s.NextToken())
	assert.Equal(t, EOFToken, s.NextToken())
}

func TestScanner_LevelNumberVsNumericLiteral(t *testing.T) {
	s := New("t.cbl", "05 PIC 9(5).")
	assert.Equal(t, LevelNumberToken, s.NextToken())
	assert.Equal(t, "05", s.Token())
}

func TestScanner_AlphanumericLiteralDoubledQuoteEscape(t *testing.T) {
	s := New("t.cbl", `'IT''S'`)
	assert.Equal(t, AlphanumericLiteralToken, s.NextToken())
	assert.Equal(t, `'IT''S'`, s.Token())
}

func TestScanner_DoubleQuoteLiteral(t *testing.T) {
	s := New("t.cbl", `"HI"`)
	assert.Equal(t, AlphanumericLiteralToken, s.NextToken())
}

func TestScanner_UnterminatedLiteral(t *testing.T) {
	s := New("t.cbl", "'ABC")
	assert.Equal(t, UnterminatedLiteralErrorToken, s.NextToken())
}

func TestScanner_FreeFormComment(t *testing.T) {
	s := New("t.cbl", "*> this is a comment\nDISPLAY 1.")
	assert.Equal(t, SinglelineCommentToken, s.NextToken())
	assert.Equal(t, WhitespaceToken, s.NextToken())
	assert.Equal(t, ReservedWordToken, s.NextToken())
}
