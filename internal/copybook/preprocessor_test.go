package copybook

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobol85/cobolasg/internal/cobpos"
	"github.com/cobol85/cobolasg/internal/srcformat"
)

func fixed(line string) string {
	// pads a bare statement out to start at column 8, FIXED-format style.
	return "       " + line + "\n"
}

func newTestPreprocessor(files map[string]string, cfg Config) *Preprocessor {
	mapFS := fstest.MapFS{}
	for name, content := range files {
		mapFS[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return New(mapFS, cfg)
}

func TestPreprocess_CopyWithReplacing(t *testing.T) {
	cfg := DefaultConfig()
	p := newTestPreprocessor(map[string]string{
		"PART.cpy": fixed("01 :TAG:-REC.") + fixed("    05 :TAG:-NAME PIC X(20)."),
	}, cfg)

	src := fixed("COPY PART REPLACING ==:TAG:== BY CUST.")
	res, err := p.Preprocess(cobpos.FileRef("MAIN.cbl"), src)
	require.NoError(t, err)
	assert.Contains(t, res.Text, "CUST-REC")
	assert.Contains(t, res.Text, "CUST-NAME PIC X(20)")
	assert.NotContains(t, res.Text, ":TAG:")
}

func TestPreprocess_RecursiveCopyFails(t *testing.T) {
	cfg := DefaultConfig()
	p := newTestPreprocessor(map[string]string{
		"A.cpy": fixed("COPY B."),
		"B.cpy": fixed("COPY A."),
	}, cfg)

	src := fixed("COPY A.")
	_, err := p.Preprocess(cobpos.FileRef("MAIN.cbl"), src)
	require.Error(t, err)
	var recErr RecursiveCopybookError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, "A", recErr.Name)
}

func TestPreprocess_CopybookNotFound(t *testing.T) {
	cfg := DefaultConfig()
	p := newTestPreprocessor(map[string]string{}, cfg)

	src := fixed("COPY MISSING.")
	_, err := p.Preprocess(cobpos.FileRef("MAIN.cbl"), src)
	require.Error(t, err)
	var nfErr CopybookNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "MISSING", nfErr.Name)
}

func TestPreprocess_ReplaceBlockScopesUntilOff(t *testing.T) {
	cfg := DefaultConfig()
	p := newTestPreprocessor(map[string]string{}, cfg)

	src := fixed("REPLACE FOO BY BAR.") +
		fixed("DISPLAY FOO.") +
		fixed("REPLACE OFF.") +
		fixed("DISPLAY FOO.")

	res, err := p.Preprocess(cobpos.FileRef("MAIN.cbl"), src)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(res.Text), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "BAR")
	assert.Contains(t, lines[1], "FOO")
	assert.NotContains(t, lines[1], "BAR")
}

func TestPreprocess_ExecSqlCapturesRawTextAndSplicesPlaceholder(t *testing.T) {
	cfg := DefaultConfig()
	p := newTestPreprocessor(map[string]string{}, cfg)

	src := fixed("EXEC SQL SELECT 1 FROM DUAL END-EXEC.")
	res, err := p.Preprocess(cobpos.FileRef("MAIN.cbl"), src)
	require.NoError(t, err)
	require.Len(t, res.ExecBlocks, 1)
	assert.Equal(t, "SQL", res.ExecBlocks[0].Dialect)
	assert.Equal(t, "SELECT 1 FROM DUAL", res.ExecBlocks[0].RawText)
	assert.Contains(t, res.Text, "CALL ")
	assert.NotContains(t, res.Text, "SELECT")
}

func TestPreprocess_MaxDepthExceeded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 2
	p := newTestPreprocessor(map[string]string{
		"A.cpy": fixed("COPY B."),
		"B.cpy": fixed("COPY C."),
		"C.cpy": fixed("DISPLAY 'DEEP'."),
	}, cfg)

	src := fixed("COPY A.")
	_, err := p.Preprocess(cobpos.FileRef("MAIN.cbl"), src)
	require.Error(t, err)
	var depthErr MaxDepthExceededError
	require.ErrorAs(t, err, &depthErr)
}

func TestPreprocess_CommentLineVanishes(t *testing.T) {
	cfg := DefaultConfig()
	p := newTestPreprocessor(map[string]string{}, cfg)

	src := "      * A COMMENT LINE\n" + fixed("DISPLAY 'HI'.")
	res, err := p.Preprocess(cobpos.FileRef("MAIN.cbl"), src)
	require.NoError(t, err)
	assert.NotContains(t, res.Text, "COMMENT")
	assert.Contains(t, res.Text, "DISPLAY 'HI'")
}

func TestPreprocess_VariableFormatSource(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Format = srcformat.VARIABLE
	p := newTestPreprocessor(map[string]string{}, cfg)

	src := "       DISPLAY 'OK'.\n"
	res, err := p.Preprocess(cobpos.FileRef("MAIN.cbl"), src)
	require.NoError(t, err)
	assert.Contains(t, res.Text, "DISPLAY 'OK'")
}
