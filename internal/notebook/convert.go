package notebook

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/mdxgen/internal/docmodel"
)

// UntitledTitle is used when no markdown cell carries a level-1 heading.
const UntitledTitle = "Untitled Notebook"

const (
	defaultLanguage     = "python"
	defaultImagesPrefix = "/images"
)

// Options controls notebook conversion.
type Options struct {
	// ShowOutputs appends captured outputs of code cells as an Output callout.
	ShowOutputs bool
	// Language tags code fences. Defaults to "python".
	Language string
	// ImagesPrefix roots relative image references. Defaults to "/images".
	ImagesPrefix string
	// SourceLink is copied to the document (rendered as an "Open in Colab" badge).
	SourceLink string
}

func (o Options) withDefaults() Options {
	if o.Language == "" {
		o.Language = defaultLanguage
	}
	if o.ImagesPrefix == "" {
		o.ImagesPrefix = defaultImagesPrefix
	}
	o.ImagesPrefix = strings.TrimRight(o.ImagesPrefix, "/")
	return o
}

// ToDocument converts a parsed notebook into the intermediate model.
func ToDocument(nb *Notebook, opts Options) *docmodel.Document {
	opts = opts.withDefaults()
	title := ExtractTitle(nb.Cells)
	doc := &docmodel.Document{
		Kind:       docmodel.KindNotebook,
		Title:      title,
		SourceLink: opts.SourceLink,
	}

	for i, cell := range nb.Cells {
		switch cell.Kind {
		case CellMarkdown:
			content := RewriteImages(cell.Source.String(), opts.ImagesPrefix)
			// The leading title cell is already promoted to frontmatter.
			if i == 0 && strings.HasPrefix(strings.TrimSpace(content), "# "+title) {
				continue
			}
			doc.Append(docmodel.Markdown{Text: content})
		case CellCode:
			source := cell.Source.String()
			if strings.TrimSpace(source) == "" {
				continue
			}
			block := docmodel.Code{
				Language: opts.Language,
				Source:   strings.TrimRight(source, "\n"),
			}
			if opts.ShowOutputs && len(cell.Outputs) > 0 {
				if out := ExtractOutput(cell.Outputs); out != "" {
					block.Output = docmodel.OutputText(out)
				}
			}
			doc.Append(block)
		}
	}
	return doc
}

// ExtractTitle returns the text of the first "# " line found in any markdown
// cell, scanning cells and lines in document order.
func ExtractTitle(cells []Cell) string {
	for _, cell := range cells {
		if cell.Kind != CellMarkdown {
			continue
		}
		for _, line := range cell.Source.Lines() {
			if strings.HasPrefix(line, "# ") {
				return strings.TrimSpace(line[2:])
			}
		}
	}
	return UntitledTitle
}

// ExtractOutput flattens outputs into one trimmed string. Contributions are
// concatenated with no separator.
func ExtractOutput(outputs []Output) string {
	var b strings.Builder
	for _, out := range outputs {
		switch out.Kind {
		case OutputStream:
			b.WriteString(out.Text)
		case OutputResult, OutputDisplay:
			if out.HasText {
				b.WriteString(out.Text)
			}
		case OutputError:
			b.WriteString("Error: " + out.ErrorName + "\n")
			b.WriteString(out.ErrorValue)
		}
	}
	return strings.TrimSpace(b.String())
}

var imageRef = regexp.MustCompile(`!\[(.*?)\]\(([^)]+)\)`)

// RewriteImages roots relative image references under prefix. Images that
// point at an http(s) address are left untouched.
func RewriteImages(content, prefix string) string {
	matches := imageRef.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		alt := content[m[2]:m[3]]
		target := content[m[4]:m[5]]
		if isNetworkAddress(target) {
			continue
		}
		b.WriteString(content[last:m[0]])
		b.WriteString("![" + alt + "](" + prefix + "/" + target + ")")
		last = m[1]
	}
	b.WriteString(content[last:])
	return b.String()
}

func isNetworkAddress(target string) bool {
	lower := strings.ToLower(target)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
