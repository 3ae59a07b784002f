package asg

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobol85/cobolasg/internal/cobparse"
	"github.com/cobol85/cobolasg/internal/copybook"
)

func buildSource(t *testing.T, src string) *Program {
	t.Helper()
	root, err := cobparse.Parse("T.cbl", src)
	require.NoError(t, err)
	program, err := Build(root, nil)
	require.NoError(t, err)
	return program
}

func TestBuild_HelloProgram(t *testing.T) {
	src := `IDENTIFICATION DIVISION. PROGRAM-ID. HELLO.
PROCEDURE DIVISION.
DISPLAY "HI".`
	program := buildSource(t, src)
	require.Len(t, program.Units(), 1)

	cu := program.Units()[0]
	assert.Equal(t, KindCompilationUnit, cu.Kind())
	assert.Equal(t, "HELLO", cu.Name)
	assert.Empty(t, program.Diagnostics)
}

func TestBuild_NodeIdentityAndParentLinks(t *testing.T) {
	src := `IDENTIFICATION DIVISION. PROGRAM-ID. HELLO.
PROCEDURE DIVISION.
DISPLAY "HI".`
	program := buildSource(t, src)

	seenIDs := make(map[int]bool)
	var walk func(n *Node)
	walk = func(n *Node) {
		assert.False(t, seenIDs[n.ID()], "duplicate node id %d", n.ID())
		seenIDs[n.ID()] = true
		for _, c := range n.Children {
			assert.Same(t, n, c.Parent(), "child %s parent mismatch", c.Kind())
			walk(c)
		}
	}
	walk(program.Root)
	assert.NotEmpty(t, seenIDs)
}

func TestBuild_DataDivisionLevelHierarchy(t *testing.T) {
	src := `IDENTIFICATION DIVISION. PROGRAM-ID. X.
DATA DIVISION.
WORKING-STORAGE SECTION.
01 CUSTOMER-REC.
    05 AMOUNT PIC 9(5).
    05 NAME PIC X(20).
    88 AMOUNT-VALID VALUE 1.
01 SCRATCH PIC X.
PROCEDURE DIVISION.
STOP RUN.`
	program := buildSource(t, src)
	cu := program.Units()[0]

	pu := cu.Children[0]
	var dataDiv *Node
	for _, d := range pu.Children {
		if d.Kind() == KindDataDivision {
			dataDiv = d
		}
	}
	require.NotNil(t, dataDiv)

	var wss *Node
	for _, s := range dataDiv.Children {
		if s.Kind() == KindWorkingStorageSection {
			wss = s
		}
	}
	require.NotNil(t, wss)
	require.Len(t, wss.Children, 2)

	customerRec := wss.Children[0]
	assert.Equal(t, "CUSTOMER-REC", customerRec.Name)
	require.Len(t, customerRec.Children, 2)
	assert.Equal(t, "AMOUNT", customerRec.Children[0].Name)
	assert.Equal(t, KindDataItem, customerRec.Children[0].Kind())
	assert.Equal(t, "NAME", customerRec.Children[1].Name)
	require.Len(t, customerRec.Children[1].Children, 1)
	assert.Equal(t, "AMOUNT-VALID", customerRec.Children[1].Children[0].Name)
	assert.Equal(t, KindConditionName, customerRec.Children[1].Children[0].Kind())
	// level 88 attaches to NAME (top of stack when it is read), not to
	// CUSTOMER-REC or to AMOUNT.
	assert.Empty(t, customerRec.Children[0].Children)

	scratch := wss.Children[1]
	assert.Equal(t, "SCRATCH", scratch.Name)
}

func TestBuild_DuplicateDataNameDiagnostic(t *testing.T) {
	src := `IDENTIFICATION DIVISION. PROGRAM-ID. X.
DATA DIVISION.
WORKING-STORAGE SECTION.
01 REC.
    05 FIELD-A PIC X.
    05 FIELD-A PIC X.
PROCEDURE DIVISION.
STOP RUN.`
	program := buildSource(t, src)
	require.Len(t, program.Diagnostics, 1)
	var dupErr DuplicateDefinitionError
	require.ErrorAs(t, program.Diagnostics[0], &dupErr)
	assert.Equal(t, "FIELD-A", dupErr.Name)
}

func TestBuild_UnresolvedReferenceRecorded(t *testing.T) {
	src := `IDENTIFICATION DIVISION. PROGRAM-ID. X.
PROCEDURE DIVISION.
MOVE NO-SUCH-FIELD TO ALSO-MISSING.`
	program := buildSource(t, src)
	require.Len(t, program.Diagnostics, 2)
	for _, d := range program.Diagnostics {
		var unresolved UnresolvedReferenceError
		require.ErrorAs(t, d, &unresolved)
	}
}

func TestBuild_QualifiedResolution(t *testing.T) {
	src := `IDENTIFICATION DIVISION. PROGRAM-ID. X.
DATA DIVISION.
WORKING-STORAGE SECTION.
01 CUSTOMER.
    05 AMOUNT PIC 9(5).
01 ORDER-REC.
    05 AMOUNT PIC 9(5).
PROCEDURE DIVISION.
MOVE AMOUNT OF CUSTOMER TO AMOUNT OF ORDER-REC.`
	program := buildSource(t, src)
	assert.Empty(t, program.Diagnostics)

	cu := program.Units()[0]
	procDiv := firstChild(cu, KindProgramUnit, KindProcedureDivision)
	require.NotNil(t, procDiv)

	var stmt *Node
	var find func(*Node)
	find = func(n *Node) {
		if stmt != nil {
			return
		}
		if n.Kind() == KindStatement && n.Name == "move" {
			stmt = n
			return
		}
		for _, c := range n.Children {
			find(c)
		}
	}
	find(procDiv)
	require.NotNil(t, stmt)
	require.Len(t, stmt.Children, 2)
	assert.Equal(t, KindDataReference, stmt.Children[0].Kind())
	assert.Equal(t, KindDataReference, stmt.Children[1].Kind())
	assert.NotEqual(t, stmt.Children[0].Target, stmt.Children[1].Target)
}

// fixedLine pads s with a blank sequence-area and indicator column (cols
// 1-7) so it survives FIXED-format column normalization with its content
// intact starting at column 8.
func fixedLine(s string) string { return "       " + s }

func TestBuildFile_Pipeline(t *testing.T) {
	fsys := fstest.MapFS{
		"main.cbl": &fstest.MapFile{Data: []byte(
			fixedLine("IDENTIFICATION DIVISION. PROGRAM-ID. MAIN.") + "\n" +
				fixedLine("PROCEDURE DIVISION.") + "\n" +
				fixedLine(`DISPLAY "HI".`) + "\n")},
	}
	program, pre, err := BuildFile(fsys, "main.cbl", copybook.DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, pre.Text, "DISPLAY")
	require.Len(t, program.Units(), 1)
	assert.Equal(t, "MAIN", program.Units()[0].Name)
}

func TestBuildTree_WalksDirectory(t *testing.T) {
	fsys := fstest.MapFS{
		"src/a.cbl": &fstest.MapFile{Data: []byte(
			fixedLine("IDENTIFICATION DIVISION. PROGRAM-ID. A.") + "\n" +
				fixedLine("PROCEDURE DIVISION.") + "\n" +
				fixedLine("STOP RUN.") + "\n")},
		"src/b.cbl": &fstest.MapFile{Data: []byte(
			fixedLine("IDENTIFICATION DIVISION. PROGRAM-ID. B.") + "\n" +
				fixedLine("PROCEDURE DIVISION.") + "\n" +
				fixedLine("STOP RUN.") + "\n")},
		"src/readme.txt": &fstest.MapFile{Data: []byte("not cobol")},
	}
	cfg := copybook.DefaultConfig()
	cfg.Extensions = []string{".cbl"}
	results, err := BuildTree(fsys, cfg)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		require.NoError(t, r.Err)
	}
}
