package srcformat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_FixedStripsSequenceAndIdentification(t *testing.T) {
	// columns: 1-6 seq, 7 indicator, 8-72 area, 73-80 ident
	line := "012345 IDENTIFICATION DIVISION." + strings.Repeat(" ", 41) + "ZZZZZZZZ"
	result := Normalize("PROG.cbl", line, FIXED, Options{})
	assert.Equal(t, "IDENTIFICATION DIVISION."+strings.Repeat(" ", 41), result.Text)
}

func TestNormalize_FixedCommentLineVanishes(t *testing.T) {
	source := "000100 PROGRAM-ID. X.\n      * COMMENT\n000200 DISPLAY 1.\n"
	result := Normalize("t.cbl", source, FIXED, Options{})
	assert.Equal(t, "PROGRAM-ID. X.\n\nDISPLAY 1.", result.Text)
	assert.True(t, result.Lines[1].Blank)
}

func TestNormalize_FixedSlashCommentVanishes(t *testing.T) {
	source := "000100/ PAGE BREAK COMMENT\n"
	result := Normalize("t.cbl", source, FIXED, Options{})
	assert.Equal(t, "", result.Text)
}

func TestNormalize_DebugLineGatedByMode(t *testing.T) {
	source := "000100D DISPLAY 'DBG'.\n"
	off := Normalize("t.cbl", source, FIXED, Options{WithDebuggingMode: false})
	assert.Equal(t, "", off.Text)

	on := Normalize("t.cbl", source, FIXED, Options{WithDebuggingMode: true})
	assert.Equal(t, " DISPLAY 'DBG'.", on.Text)
}

func TestNormalize_ContinuationJoinsToPreviousLine(t *testing.T) {
	// the continuation line resumes the open literal with a leading quote,
	// which is discarded, then the remaining text is joined verbatim.
	source := "000100 MOVE 'ABC\n000200-    'DEF' TO X.\n"
	result := Normalize("t.cbl", source, FIXED, Options{})
	assert.Equal(t, "MOVE 'ABCDEF' TO X.", result.Text)
}

func TestNormalize_VariableNoRightMargin(t *testing.T) {
	source := "000100 DISPLAY 'THIS LINE CONTINUES WELL PAST COLUMN SEVENTY TWO BECAUSE VARIABLE FORMAT HAS NO RIGHT MARGIN'.\n"
	result := Normalize("t.cbl", source, VARIABLE, Options{})
	assert.Contains(t, result.Text, "NO RIGHT MARGIN")
}

func TestNormalize_Tandem(t *testing.T) {
	source := " DISPLAY 1.\n*COMMENT\n"
	result := Normalize("t.cbl", source, TANDEM, Options{})
	assert.Equal(t, "DISPLAY 1.\n", result.Text)
}
