package copybook

import (
	"strings"

	"github.com/cobol85/cobolasg/internal/cobpos"
	"github.com/cobol85/cobolasg/internal/coblex"
)

// tok is one significant token of source text, surviving whitespace/comment
// stripping, carrying just enough of coblex's classification to decide the
// comparison rule: literals compare case-sensitive, everything else (words,
// punctuation) compares case-insensitive.
type tok struct {
	text string
	literal bool
}

func (t tok) compareKey() string {
	if t.literal {
		return t.text
	}
	return strings.ToLower(t.text)
}

// phrase is one `pattern BY replacement` pair. A pattern is one of three
// shapes: a pseudo-text token sequence (`== tokens ==`), a single COBOL
// word, or a single literal — all represented uniformly as a tok sequence
// of length >= 1 here, since word/literal patterns are simply length-1
// pseudo-text.
type phrase struct {
	pattern []tok
	replacement []tok
}

// replaceSet is a block-scoped collection of phrases, applied in the order
// declared; the first phrase that matches at a given position wins, and
// matching never overlaps (consume-and-advance).
type replaceSet struct {
	phrases []phrase
}

// tokenize splits already-normalized COBOL text into a flat list of
// significant toks, dropping whitespace and comments (pattern matching is
// defined over tokens, not raw characters).
func tokenize(file cobpos.FileRef, text string) []tok {
	s := coblex.New(file, text)
	var out []tok
	for {
		tt := s.NextToken()
		switch tt {
		case coblex.EOFToken:
			return out
		case coblex.WhitespaceToken, coblex.SinglelineCommentToken:
			continue
		default:
			out = append(out, tok{text: s.Token(), literal: tt == coblex.AlphanumericLiteralToken})
		}
	}
}

// apply runs every phrase in rs against toks in declaration order,
// replacing the first matching span at each position and then resuming
// scanning immediately after the replacement (consume-and-advance, no
// overlap). A pattern longer than one token may cross a "." only because
// it is pseudo-text and the "." is itself part of the declared pattern;
// single-token patterns never do, trivially.
func (rs *replaceSet) apply(toks []tok) []tok {
	if len(rs.phrases) == 0 {
		return toks
	}
	var out []tok
	i := 0
	for i < len(toks) {
		matched := false
		for _, ph := range rs.phrases {
			if n := ph.matchAt(toks, i); n > 0 {
				out = append(out, ph.replacement...)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, toks[i])
			i++
		}
	}
	return out
}

// matchAt reports the number of tokens consumed by a match starting at
// position i, or 0 if there is no match.
func (p phrase) matchAt(toks []tok, i int) int {
	if len(p.pattern) == 0 || i+len(p.pattern) > len(toks) {
		return 0
	}
	for j, want := range p.pattern {
		got := toks[i+j]
		if want.literal != got.literal {
			return 0
		}
		if got.compareKey() != want.compareKey() {
			return 0
		}
	}
	return len(p.pattern)
}
