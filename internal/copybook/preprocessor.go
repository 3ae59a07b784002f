// Package copybook implements the directive preprocessor: it
// resolves COPY/REPLACE/EXEC directives on already column-normalized COBOL
// source, recursively expanding copybooks against a configured search path,
// and hands the parser a single, fully expanded logical stream.
package copybook

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/cobol85/cobolasg/internal/cobpos"
	"github.com/cobol85/cobolasg/internal/srcformat"
)

// ExecBlock is the raw-text payload captured from one EXEC... END-EXEC
// directive. The preprocessor splices a placeholder
// CALL statement into the output in its place so a COBOL grammar that knows
// nothing about embedded SQL/CICS still parses something well-formed there;
// the ASG builder reattaches RawText to the resulting node by matching
// Placeholder.
type ExecBlock struct {
	Pos cobpos.Pos
	Dialect string // "SQL", "CICS",... whatever follows EXEC, upper-cased
	Placeholder string // the identifier spliced into the CALL placeholder
	RawText string
}

// Result is the preprocessor's output: the fully expanded text, retrievable
// as an intermediate artifact, plus the EXEC blocks spliced out of it.
type Result struct {
	Text string
	ExecBlocks []ExecBlock

	// MaxDepthReached is the deepest COPY nesting level this invocation
	// actually expanded through, for a caller (internal/diagsink) wanting
	// to track how close a build came to cfg.MaxDepth over time.
	MaxDepthReached int
}

// Preprocessor resolves directives over one compilation unit's source tree.
// A Preprocessor is scoped to a single top-level Preprocess call: its cache
// and expansion stack must not outlive that call.
type Preprocessor struct {
	fsys fs.FS
	cfg Config
	cache *cache

	stack []string
	execBlocks []ExecBlock
	maxDepth int
}

// New builds a Preprocessor rooted at fsys (copybook search dirs in cfg are
// resolved relative to fsys's root).
func New(fsys fs.FS, cfg Config) *Preprocessor {
	return &Preprocessor{
		fsys: fsys,
		cfg: cfg,
		cache: newCache(cfg.SearchDirs, cfg.Extensions),
	}
}

// PreprocessFile reads name from the Preprocessor's filesystem and
// preprocesses it as the main compilation-unit source.
func (p *Preprocessor) PreprocessFile(name string) (Result, error) {
	data, err := fs.ReadFile(p.fsys, name)
	if err != nil {
		return Result{}, err
	}
	return p.Preprocess(cobpos.FileRef(name), string(data))
}

// Preprocess normalizes and expands source, which is understood to be the
// main compilation-unit file (not itself a copybook).
func (p *Preprocessor) Preprocess(file cobpos.FileRef, source string) (Result, error) {
	p.execBlocks = nil
	p.stack = nil
	p.maxDepth = 0
	p.cache = newCache(p.cfg.SearchDirs, p.cfg.Extensions)
	text, err := p.expand(file, source, p.formatFor(string(file)))
	if err != nil {
		return Result{}, err
	}
	return Result{Text: text, ExecBlocks: p.execBlocks, MaxDepthReached: p.maxDepth}, nil
}

func (p *Preprocessor) formatFor(name string) srcformat.Format {
	if f, ok := p.cfg.FormatOverride[strings.ToUpper(stemOf(name))]; ok {
		return f
	}
	return p.cfg.Format
}

func (p *Preprocessor) expand(file cobpos.FileRef, source string, format srcformat.Format) (string, error) {
	norm := srcformat.Normalize(file, source, format, srcformat.Options{WithDebuggingMode: p.cfg.WithDebuggingMode})
	return p.expandChunks(scanChunks(file, norm.Text))
}

// expandChunks walks the chunk stream once, recognizing COPY/REPLACE/EXEC
// wherever the reserved word appears in the stream, and running whatever
// REPLACE block is currently active over everything else.
func (p *Preprocessor) expandChunks(chunks []chunk) (string, error) {
	var out strings.Builder
	var active *replaceSet
	i := 0
	for i < len(chunks) {
		c := chunks[i]
		switch {
		case isReserved(c, "copy"):
			text, next, err := p.handleCopy(chunks, i)
			if err != nil {
				return "", err
			}
			out.WriteString(c.ws)
			out.WriteString(text)
			i = next

		case isReserved(c, "replace"):
			next, err := p.handleReplace(chunks, i, &active)
			if err != nil {
				return "", err
			}
			i = next

		case isReserved(c, "exec"):
			text, next, err := p.handleExec(chunks, i)
			if err != nil {
				return "", err
			}
			out.WriteString(c.ws)
			out.WriteString(text)
			i = next

		default:
			if active != nil {
				if n, repl := active.matchAt(chunks, i); n > 0 {
					out.WriteString(c.ws)
					out.WriteString(joinTokens(repl))
					i += n
					continue
				}
			}
			out.WriteString(c.ws)
			out.WriteString(c.t.text)
			i++
		}
	}
	return out.String(), nil
}

// handleCopy parses `COPY name [OF/IN library] [REPLACING phrase+].`
// starting at chunks[i] (the COPY token) and returns the spliced-in,
// REPLACING-applied copybook text plus the index just past the terminating
// period.
func (p *Preprocessor) handleCopy(chunks []chunk, i int) (string, int, error) {
	j := i + 1
	if j >= len(chunks) || chunks[j].t.text == "" {
		return "", 0, SyntaxError{Pos: posAt(chunks, i), Message: "COPY with no copybook name"}
	}
	nameTok := chunks[j]
	j++

	library := ""
	if j < len(chunks) && (isReserved(chunks[j], "of") || isReserved(chunks[j], "in")) {
		j++
		if j >= len(chunks) || chunks[j].t.text == "" {
			return "", 0, SyntaxError{Pos: posAt(chunks, i), Message: "OF/IN with no library name"}
		}
		library = chunks[j].t.text
		j++
	}

	var phrases []phrase
	if j < len(chunks) && isReserved(chunks[j], "replacing") {
		j++
		var err error
		phrases, j, err = parsePhrases(chunks, j)
		if err != nil {
			return "", 0, err
		}
	}

	if j >= len(chunks) || !isPeriod(chunks[j]) {
		return "", 0, SyntaxError{Pos: posAt(chunks, i), Message: "COPY statement not terminated by '.'"}
	}
	j++

	expanded, err := p.resolveAndExpand(nameTok.t.text, library, nameTok.pos)
	if err != nil {
		return "", 0, err
	}

	if len(phrases) > 0 {
		rs := &replaceSet{phrases: phrases}
		toks := tokenize(nameTok.pos.File, expanded)
		expanded = joinTokens(rs.apply(toks))
	}

	return expanded, j, nil
}

// handleReplace parses `REPLACE phrase+.` or `REPLACE OFF.` starting at
// chunks[i] (the REPLACE token), updating *active and returning the index
// just past the terminating period. The directive itself never appears in
// the output.
func (p *Preprocessor) handleReplace(chunks []chunk, i int, active **replaceSet) (int, error) {
	j := i + 1
	if j < len(chunks) && isReserved(chunks[j], "off") {
		j++
		if j >= len(chunks) || !isPeriod(chunks[j]) {
			return 0, SyntaxError{Pos: posAt(chunks, i), Message: "REPLACE OFF not terminated by '.'"}
		}
		*active = nil
		return j + 1, nil
	}

	phrases, j, err := parsePhrases(chunks, j)
	if err != nil {
		return 0, err
	}
	if j >= len(chunks) || !isPeriod(chunks[j]) {
		return 0, SyntaxError{Pos: posAt(chunks, i), Message: "REPLACE statement not terminated by '.'"}
	}
	*active = &replaceSet{phrases: phrases}
	return j + 1, nil
}

// handleExec parses `EXEC dialect... END-EXEC [.]` starting at chunks[i]
// (the EXEC token), records the raw embedded text and splices a
// placeholder CALL statement in its place so the parser sees a normal
// COBOL statement there.
func (p *Preprocessor) handleExec(chunks []chunk, i int) (string, int, error) {
	j := i + 1
	dialect := ""
	if j < len(chunks) && chunks[j].t.text != "" {
		dialect = strings.ToUpper(chunks[j].t.text)
		j++
	}

	k := j
	for k < len(chunks) && !isReserved(chunks[k], "end-exec") {
		k++
	}
	if k >= len(chunks) {
		return "", 0, SyntaxError{Pos: posAt(chunks, i), Message: "EXEC block missing END-EXEC"}
	}
	raw := strings.TrimSpace(render(chunks[j:k]))

	m := k + 1
	if m < len(chunks) && isPeriod(chunks[m]) {
		m++
	}

	placeholder := fmt.Sprintf("EXEC-%s-%d", safeIdent(dialect), len(p.execBlocks)+1)
	p.execBlocks = append(p.execBlocks, ExecBlock{
		Pos: chunks[i].pos,
		Dialect: dialect,
		Placeholder: placeholder,
		RawText: raw,
	})

	return fmt.Sprintf("CALL %q.", placeholder), m, nil
}

func safeIdent(s string) string {
	if s == "" {
		return "EMBEDDED"
	}
	return s
}

// resolveAndExpand finds the copybook file for name (optionally qualified
// by library), recursively preprocesses it, and caches the result for the
// remainder of this invocation.
func (p *Preprocessor) resolveAndExpand(name, library string, pos cobpos.Pos) (string, error) {
	cacheName := name
	if library != "" {
		cacheName = name + "@" + library
	}
	upper := strings.ToUpper(cacheName)

	for _, onStack := range p.stack {
		if onStack == upper {
			return "", RecursiveCopybookError{Pos: pos, Name: name, Chain: append([]string{}, p.stack...)}
		}
	}
	if len(p.stack) >= p.cfg.MaxDepth {
		return "", MaxDepthExceededError{Pos: pos, Name: name, MaxDepth: p.cfg.MaxDepth}
	}
	if expansion, ok := p.cache.get(cacheName); ok {
		return expansion, nil
	}

	matchPath, searched, err := p.resolveCopybookPath(name, library)
	if err != nil {
		return "", CopybookNotFoundError{Pos: pos, Name: name, Library: library, Searched: searched}
	}
	data, err := fs.ReadFile(p.fsys, matchPath)
	if err != nil {
		return "", CopybookNotFoundError{Pos: pos, Name: name, Library: library, Searched: searched}
	}

	p.stack = append(p.stack, upper)
	if len(p.stack) > p.maxDepth {
		p.maxDepth = len(p.stack)
	}
	expansion, err := p.expand(cobpos.FileRef(matchPath), string(data), p.formatFor(matchPath))
	p.stack = p.stack[:len(p.stack)-1]
	if err != nil {
		return "", err
	}

	p.cache.put(cacheName, expansion)
	return expansion, nil
}

// resolveCopybookPath applies lookup rule: first directory in
// SearchDirs, first extension in Extensions, whose case-insensitive stem
// equals name, wins.
func (p *Preprocessor) resolveCopybookPath(name, library string) (string, []string, error) {
	var searched []string
	for _, dir := range p.cfg.SearchDirs {
		base := dir
		if library != "" {
			base = path.Join(dir, library)
		}
		entries, err := fs.ReadDir(p.fsys, base)
		if err != nil {
			searched = append(searched, base)
			continue
		}
		for _, ext := range p.cfg.Extensions {
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				if !strings.EqualFold(stemOf(e.Name()), name) {
					continue
				}
				if !strings.EqualFold(extOf(e.Name()), ext) {
					continue
				}
				return path.Join(base, e.Name()), searched, nil
			}
		}
		searched = append(searched, base)
	}
	return "", searched, fmt.Errorf("copybook %s not found", name)
}

func stemOf(name string) string {
	base := path.Base(name)
	if i := strings.LastIndex(base, "."); i >= 0 {
		return base[:i]
	}
	return base
}

func extOf(name string) string {
	base := path.Base(name)
	if i := strings.LastIndex(base, "."); i >= 0 {
		return base[i:]
	}
	return ""
}

func posAt(chunks []chunk, i int) cobpos.Pos {
	if i >= 0 && i < len(chunks) {
		return chunks[i].pos
	}
	if len(chunks) > 0 {
		return chunks[len(chunks)-1].pos
	}
	return cobpos.Pos{}
}

// parsePhrases parses one or more `pattern BY replacement` phrases starting
// at index i, stopping (without consuming) at a terminating '.' or an OFF
// keyword — both REPLACE and COPY...REPLACING share this grammar.
func parsePhrases(chunks []chunk, i int) ([]phrase, int, error) {
	var phrases []phrase
	for i < len(chunks) && !isPeriod(chunks[i]) && !isReserved(chunks[i], "off") {
		pattern, next, err := parsePatternOrReplacement(chunks, i)
		if err != nil {
			return nil, 0, err
		}
		i = next
		if i >= len(chunks) || !isReserved(chunks[i], "by") {
			return nil, 0, SyntaxError{Pos: posAt(chunks, i), Message: "expected BY in REPLACING phrase"}
		}
		i++
		replacement, next2, err := parsePatternOrReplacement(chunks, i)
		if err != nil {
			return nil, 0, err
		}
		i = next2
		phrases = append(phrases, phrase{pattern: pattern, replacement: replacement})
	}
	return phrases, i, nil
}

// parsePatternOrReplacement parses one of three pattern shapes: pseudo-text
// (`== tokens ==`), a single word, or a single literal, returning the index
// just past what it consumed.
func parsePatternOrReplacement(chunks []chunk, i int) ([]tok, int, error) {
	if i >= len(chunks) || chunks[i].t.text == "" {
		return nil, 0, SyntaxError{Pos: posAt(chunks, i), Message: "unexpected end of input in REPLACING phrase"}
	}
	if chunks[i].t.text == "==" {
		j := i + 1
		var toks []tok
		for j < len(chunks) && chunks[j].t.text != "==" {
			toks = append(toks, chunks[j].t)
			j++
		}
		if j >= len(chunks) {
			return nil, 0, SyntaxError{Pos: chunks[i].pos, Message: "unterminated pseudo-text in REPLACING phrase"}
		}
		return toks, j + 1, nil
	}
	return []tok{chunks[i].t}, i + 1, nil
}
