package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][,:;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
		participle.UseLookahead(2),
	)
)

// Document is the root AST node of a book file.
type Document struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Title  StringLiteral  `parser:"'book' @String"`
	Blocks []*Block       `parser:"'{' @@* '}'"`
}

// Block is a top-level statement inside the book.
type Block struct {
	Meta      *MetaSection `parser:"  @@"`
	Paragraph *Paragraph   `parser:"| @@"`
}

// Kind returns the human-readable block type.
func (b *Block) Kind() string {
	switch {
	case b == nil:
		return "unknown"
	case b.Meta != nil:
		return "meta"
	case b.Paragraph != nil:
		return b.Paragraph.Kind
	default:
		return "unknown"
	}
}

// MetaSection captures metadata assignments.
type MetaSection struct {
	Entries []*Assignment `parser:"'meta' '{' ( @@ ';'? )* '}'"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Key   string `parser:"@Ident"`
	Value *Value `parser:"':' @@"`
}

// Value represents meta values.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Array  *ArrayValue    `parser:"| @@"`
	Ident  *string        `parser:"| @Ident"`
}

// ArrayValue captures `[ ... ]` lists.
type ArrayValue struct {
	Values []*Value `parser:"'[' ( @@ ','? )* ']'"`
}

// Paragraph kinds.
const (
	KindPara    = "para"
	KindHeading = "heading"
	KindQuote   = "quote"
	KindItem    = "item"
)

// Paragraph is one `para|heading|quote|item [options] { inline... }` block.
type Paragraph struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Kind    string         `parser:"@( 'para' | 'heading' | 'quote' | 'item' )"`
	Options []*ParaOption  `parser:"@@*"`
	Body    []*Inline      `parser:"'{' @@* '}'"`
}

// ParaOption is a paragraph header flag.
type ParaOption struct {
	Align string `parser:"  @( 'left' | 'center' | 'right' )"`
	Layer bool   `parser:"| @'layer'"`
	Tab   *int   `parser:"| 'tab' @Number"`
}

// Inline is a run of text, a styled span or a widget.
type Inline struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Text  *StringLiteral `parser:"  @String"`
	Span  *Span          `parser:"| @@"`
	Image *Image         `parser:"| @@"`
	Emoji *Emoji         `parser:"| @@"`
}

// Span applies one or more styles to its body, eg: `b i { "bold italic" }`.
type Span struct {
	Styles []string  `parser:"@( 'b' | 'i' | 'u' | 's' | 'mono' | 'sub' | 'sup' )+"`
	Body   []*Inline `parser:"'{' @@* '}'"`
}

// Image is an inline picture with optional intrinsic size.
type Image struct {
	URL StringLiteral `parser:"'image' @String"`
	W   float64       `parser:"( @Number"`
	H   float64       `parser:"  @Number )?"`
}

// Emoji is an inline emoji widget referenced by id.
type Emoji struct {
	ID StringLiteral `parser:"'emoji' @String"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses DSL content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses DSL content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

// ParseFile parses DSL content, using filename for error positions.
func ParseFile(filename string, r io.Reader) (*Document, error) {
	return documentParser.Parse(filename, r)
}

// Grammar returns the book grammar in EBNF form.
func Grammar() string {
	return documentParser.String()
}
