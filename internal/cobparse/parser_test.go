package cobparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_HelloProgram(t *testing.T) {
	src := "IDENTIFICATION DIVISION. PROGRAM-ID. HELLO. PROCEDURE DIVISION. DISPLAY \"HI\"."
	root, err := Parse("HELLO.cbl", src)
	require.NoError(t, err)
	require.Len(t, root.Children, 1)

	unit := root.Children[0]
	require.Equal(t, ProgramUnitCtx, unit.Kind)

	var idDiv, procDiv *Context
	for _, d := range unit.Children {
		switch d.Kind {
		case IdentificationDivisionCtx:
			idDiv = d
		case ProcedureDivisionCtx:
			procDiv = d
		}
	}
	require.NotNil(t, idDiv)
	assert.Equal(t, "HELLO", idDiv.Name)

	require.NotNil(t, procDiv)
	require.NotEmpty(t, procDiv.Children)
	section := procDiv.Children[0]
	require.NotEmpty(t, section.Children)
	para := section.Children[0]
	require.Len(t, para.Children, 1)

	stmt := para.Children[0]
	assert.Equal(t, StatementCtx, stmt.Kind)
	assert.Equal(t, "display", stmt.Name)
	require.Len(t, stmt.Operands, 1)
	assert.True(t, stmt.Operands[0].Literal)
	assert.Equal(t, `"HI"`, stmt.Operands[0].Name)
}

func TestParse_MoveWithQualifiedOperands(t *testing.T) {
	src := `IDENTIFICATION DIVISION. PROGRAM-ID. X.
PROCEDURE DIVISION.
MOVE AMOUNT OF CUSTOMER TO AMOUNT OF ORDER.`
	root, err := Parse("X.cbl", src)
	require.NoError(t, err)

	procDiv := findKind(t, root.Children[0], ProcedureDivisionCtx)
	para := findKind(t, procDiv, ParagraphCtx)
	require.Len(t, para.Children, 1)
	stmt := para.Children[0]
	assert.Equal(t, "move", stmt.Name)
	require.Len(t, stmt.Operands, 2)
	assert.Equal(t, "AMOUNT", stmt.Operands[0].Name)
	assert.Equal(t, []string{"CUSTOMER"}, stmt.Operands[0].Qualifiers)
	assert.Equal(t, "AMOUNT", stmt.Operands[1].Name)
	assert.Equal(t, []string{"ORDER"}, stmt.Operands[1].Qualifiers)
}

func TestParse_DataDivisionLevels(t *testing.T) {
	src := `IDENTIFICATION DIVISION. PROGRAM-ID. X.
DATA DIVISION.
WORKING-STORAGE SECTION.
01 CUSTOMER-REC.
    05 AMOUNT PIC 9(5).
PROCEDURE DIVISION.
STOP RUN.`
	root, err := Parse("X.cbl", src)
	require.NoError(t, err)
	dataDiv := findKind(t, root.Children[0], DataDivisionCtx)
	wss := findKind(t, dataDiv, WorkingStorageSectionCtx)
	require.Len(t, wss.Children, 2)
	assert.Equal(t, 1, wss.Children[0].Level)
	assert.Equal(t, "CUSTOMER-REC", wss.Children[0].Name)
	assert.Equal(t, 5, wss.Children[1].Level)
	assert.Equal(t, "AMOUNT", wss.Children[1].Name)
	assert.Equal(t, "9(5)", wss.Children[1].Attrs["pic"])
}

// findKind does a depth-first search for the first descendant of the given
// Kind, failing the test if none is found.
func findKind(t *testing.T, root *Context, kind Kind) *Context {
	t.Helper()
	var found *Context
	var walk func(*Context)
	walk = func(c *Context) {
		if found != nil {
			return
		}
		if c.Kind == kind {
			found = c
			return
		}
		for _, ch := range c.Children {
			walk(ch)
		}
	}
	walk(root)
	require.NotNil(t, found, "no %s found", kind)
	return found
}
