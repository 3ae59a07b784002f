package copybook

import (
	"strings"

	"github.com/cobol85/cobolasg/internal/cobpos"
	"github.com/cobol85/cobolasg/internal/coblex"
)

// chunk is one significant token plus the whitespace/comment text that
// preceded it, so the preprocessor can reconstruct untouched source
// byte-for-byte while still reasoning about REPLACING/REPLACE matches at
// the token level.
type chunk struct {
	ws string
	t tok
	pos cobpos.Pos
}

// scanChunks tokenizes text (already normalized by srcformat) into chunks,
// folding consecutive whitespace/comment tokens into the ws field of the
// next significant token. A final sentinel chunk with an empty tok text
// carries any trailing whitespace/comment after the last real token.
func scanChunks(file cobpos.FileRef, text string) []chunk {
	s := coblex.New(file, text)
	var out []chunk
	var ws strings.Builder

	for {
		tt := s.NextToken()
		switch tt {
		case coblex.EOFToken:
			out = append(out, chunk{ws: ws.String(), t: tok{}, pos: s.Start()})
			return out
		case coblex.WhitespaceToken, coblex.SinglelineCommentToken:
			ws.WriteString(s.Token())
		default:
			out = append(out, chunk{
				ws: ws.String(),
				t: tok{text: s.Token(), literal: tt == coblex.AlphanumericLiteralToken},
				pos: s.Start(),
			})
			ws.Reset()
		}
	}
}

// render reconstructs source text from chunks verbatim.
func render(chunks []chunk) string {
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString(c.ws)
		b.WriteString(c.t.text)
	}
	return b.String()
}

func isReserved(c chunk, word string) bool {
	return !c.t.literal && strings.EqualFold(c.t.text, word)
}

func isPeriod(c chunk) bool {
	return c.t.text == "."
}

// matchChunks is phrase.matchAt adapted to a chunk slice, since the main
// directive loop never materializes a bare []tok for the whole source (it
// would lose the whitespace needed to reconstruct untouched text).
func (p phrase) matchChunks(chunks []chunk, i int) int {
	if len(p.pattern) == 0 || i+len(p.pattern) > len(chunks) {
		return 0
	}
	for j, want := range p.pattern {
		got := chunks[i+j].t
		if want.literal != got.literal || got.compareKey() != want.compareKey() {
			return 0
		}
	}
	return len(p.pattern)
}

// matchAt returns the first phrase in rs matching at chunks[i], the number
// of chunks it consumes, and its replacement tokens. Phrases are tried in
// declared order, same as replaceSet.apply.
func (rs *replaceSet) matchAt(chunks []chunk, i int) (int, []tok) {
	for _, ph := range rs.phrases {
		if n := ph.matchChunks(chunks, i); n > 0 {
			return n, ph.replacement
		}
	}
	return 0, nil
}

// joinTokens reconstructs text for a token run that has no original
// whitespace to fall back on (a REPLACING replacement, or a copybook
// spliced in with phrases applied). It separates tokens with a single
// space except around the punctuation that COBOL conventionally sets
// tight: no space is introduced before "(", ")", ".", ",", "-" or ":", nor
// immediately after "(", "-" or ":".
func joinTokens(ts []tok) string {
	var b strings.Builder
	for i, t := range ts {
		if i > 0 && needsSpaceBefore(t, ts[i-1]) {
			b.WriteByte(' ')
		}
		b.WriteString(t.text)
	}
	return b.String()
}

func needsSpaceBefore(cur, prev tok) bool {
	switch cur.text {
	case "(", ")", ".", ",", "-", ":":
		return false
	}
	switch prev.text {
	case "(", "-", ":":
		return false
	}
	return true
}
