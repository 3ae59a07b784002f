package coblex

// TokenType enumerates the lexical categories the scanner produces: an
// agnostic scanner that knows about whitespace/comments/literals/
// identifiers/reserved words and leaves everything clause-specific to the
// consumer.
type TokenType int

const (
	WhitespaceToken TokenType = iota + 1

	LeftParenToken
	RightParenToken
	PeriodToken // COBOL statement/entry terminator, not a decimal point
	CommaToken
	ColonToken // ':', brackets a copybook pseudo-identifier such as :TAG:
	EqualToken
	PseudoTextDelimToken // '==', delimits a REPLACING pseudo-text pattern

	AlphanumericLiteralToken // 'quoted' or "quoted", doubled-quote escape
	NumericLiteralToken

	SinglelineCommentToken // *> free-form inline comment

	ReservedWordToken // lower-cased reserved word recorded on the token
	LevelNumberToken // 01-49, 66, 77, 88
	UnquotedIdentifierToken
	PictureStringToken // the literal character-string operand of PIC

	UnterminatedLiteralErrorToken
	UnexpectedCharacterToken
	NonUTF8ErrorToken

	EOFToken
)

func (tt TokenType) String() string {
	if s, ok := tokenToDescription[tt]; ok {
		return s
	}
	return "UNKNOWN"
}

var tokenToDescription = map[TokenType]string{
	WhitespaceToken: "whitespace",
	LeftParenToken: "(",
	RightParenToken: ")",
	PeriodToken: ".",
	CommaToken: ",",
	ColonToken: ":",
	EqualToken: "=",
	PseudoTextDelimToken: "==",
	AlphanumericLiteralToken: "alphanumeric literal",
	NumericLiteralToken: "numeric literal",
	SinglelineCommentToken: "comment",
	ReservedWordToken: "reserved word",
	LevelNumberToken: "level number",
	UnquotedIdentifierToken: "identifier",
	PictureStringToken: "picture string",
	UnterminatedLiteralErrorToken: "unterminated literal",
	UnexpectedCharacterToken: "unexpected character",
	NonUTF8ErrorToken: "invalid utf-8",
	EOFToken: "end of file",
}

func init() {
	for tt := TokenType(1); tt != EOFToken; tt++ {
		if _, ok := tokenToDescription[tt]; !ok {
			panic("you have not updated tokenToDescription")
		}
	}
}

// ReservedWords is the (deliberately partial) set of COBOL-85 words the
// lexer recognizes as statement/clause keywords rather than identifiers.
// Clause-specific vocabulary not listed here still scans as
// UnquotedIdentifierToken; the parser decides what it means in context,
// keeping the scanner/parser division of labor clean.
var ReservedWords = map[string]bool{
	"identification": true, "division": true, "program-id": true,
	"environment": true, "configuration": true, "section": true,
	"input-output": true, "file-control": true, "select": true,
	"assign": true, "organization": true, "access": true, "record": true,
	"key": true, "status": true, "to": true, "is": true, "of": true, "in": true,
	"data": true, "working-storage": true, "linkage": true, "file": true,
	"fd": true, "sd": true, "pic": true, "picture": true, "redefines": true,
	"occurs": true, "depending": true, "on": true, "value": true,
	"values": true, "through": true, "thru": true, "procedure": true,
	"using": true, "display": true, "move": true, "perform": true,
	"if": true, "else": true, "end-if": true, "stop": true, "run": true,
	"exec": true, "end-exec": true, "sql": true, "cics": true,
	"copy": true, "replacing": true, "by": true, "replace": true,
	"off": true, "comp": true, "comp-3": true, "usage": true,
	"condition-name": true, "global": true, "renames": true,
	"call": true, "goback": true, "return": true, "set": true,
	"optional": true, "mode": true, "times": true, "contains": true,
	"are": true, "label": true, "records": true, "omitted": true, "standard": true,
}
