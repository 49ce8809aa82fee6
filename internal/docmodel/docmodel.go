// Package docmodel is the format-agnostic document tree shared by the readers
// and the renderer.
//
// Both the notebook reader and the API page builder produce a *Document; the
// renderer folds a Document into markup text and never sees reader-specific
// types. Documents are built fresh for one input file and are not mutated
// after being handed to the renderer.
package docmodel

// Kind identifies what a Document was produced from. It drives the
// renderer's synthesized description and preamble.
type Kind string

const (
	KindNotebook Kind = "notebook"
	KindModule   Kind = "module"
	KindIndex    Kind = "index"
)

// Document is the intermediate model.
type Document struct {
	Kind  Kind
	Title string
	// Description is written to frontmatter as-is when non-empty; otherwise
	// the renderer synthesizes one from Kind and Title.
	Description string
	// Fields are extra frontmatter entries emitted after title and description.
	Fields map[string]any
	// SourceLink is an external "open the original" link (Colab for notebooks).
	SourceLink string
	Body       []Block
}

// Append adds blocks to the body in order.
func (d *Document) Append(blocks ...Block) {
	d.Body = append(d.Body, blocks...)
}

// BlockKind discriminates the Block union.
type BlockKind string

const (
	BlockMarkdown BlockKind = "markdown"
	BlockCode     BlockKind = "code"
	BlockHeading  BlockKind = "heading"
	BlockCallout  BlockKind = "callout"
)

// Block is one of Markdown, Code, Heading or Callout.
type Block interface {
	Kind() BlockKind
	block()
}

// Markdown is literal markup text passed through unchanged.
type Markdown struct {
	Text string
}

// Code is a fenced code block. Output, when non-nil, is captured execution
// output rendered as an "Output" callout right after the fence.
type Code struct {
	Language string
	Source   string
	Output   *string
}

// Heading is an ATX heading of the given level (1-6).
type Heading struct {
	Level int
	Text  string
}

// CalloutType is the `type` attribute of a callout.
type CalloutType string

const (
	CalloutInfo CalloutType = "info"
	CalloutTip  CalloutType = "tip"
	CalloutWarn CalloutType = "warn"
)

// Callout is a highlighted block. Padded callouts surround Content with
// blank lines so it parses as block markup; unpadded ones indent a single
// inline line.
type Callout struct {
	Type    CalloutType
	Title   string
	Content string
	Padded  bool
}

func (Markdown) Kind() BlockKind { return BlockMarkdown }
func (Code) Kind() BlockKind     { return BlockCode }
func (Heading) Kind() BlockKind  { return BlockHeading }
func (Callout) Kind() BlockKind  { return BlockCallout }

func (Markdown) block() {}
func (Code) block()     {}
func (Heading) block()  {}
func (Callout) block()  {}

// OutputText is a helper for building Code.Output.
func OutputText(s string) *string {
	return &s
}
