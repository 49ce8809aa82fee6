// Package render folds a docmodel.Document into MDX text: a YAML frontmatter
// block followed by the body blocks, each separated by a blank line.
//
// Rendering is deterministic. The same Document always yields the same bytes.
package render

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/mdxgen/internal/docmodel"
	"git.home.luguber.info/inful/mdxgen/internal/frontmatter"
)

const (
	fieldTitle       = "title"
	fieldDescription = "description"
)

// Notice lines written at the top of every converted notebook.
const (
	NoticeGenerated = "{/* This file was auto-generated from a Jupyter notebook. */}"
	NoticeEditable  = "{/* You can edit it, but changes may be overwritten if the notebook is regenerated. */}"
)

// ColabBadgeURL is the badge image shown in the "Open in Colab" callout.
const ColabBadgeURL = "https://colab.research.google.com/assets/colab-badge.svg"

// Options tune rendering.
type Options struct {
	// Fingerprint adds a content fingerprint field to the frontmatter.
	Fingerprint bool
}

// Render produces the MDX text for doc.
func Render(doc *docmodel.Document, opts Options) (string, error) {
	var body strings.Builder
	for _, b := range preamble(doc) {
		writeBlock(&body, b)
	}
	for _, b := range doc.Body {
		writeBlock(&body, b)
	}

	fields := make(map[string]any, len(doc.Fields)+2)
	for k, v := range doc.Fields {
		fields[k] = v
	}
	fields[fieldTitle] = doc.Title
	fields[fieldDescription] = Description(doc)

	if opts.Fingerprint {
		fp, err := frontmatter.Fingerprint(fields, body.String(), fieldTitle, fieldDescription)
		if err != nil {
			return "", fmt.Errorf("fingerprint %q: %w", doc.Title, err)
		}
		fields[frontmatter.FingerprintField] = fp
	}

	fm, err := frontmatter.SerializeYAML(fields, fieldTitle, fieldDescription)
	if err != nil {
		return "", fmt.Errorf("frontmatter %q: %w", doc.Title, err)
	}
	return string(frontmatter.Join(fm, []byte(body.String()))), nil
}

// Description returns the explicit description or the one synthesized from
// the document kind.
func Description(doc *docmodel.Document) string {
	if doc.Description != "" {
		return doc.Description
	}
	switch doc.Kind {
	case docmodel.KindNotebook:
		return "Tutorial notebook - " + doc.Title
	default:
		return "API reference for " + doc.Title
	}
}

// preamble returns the blocks emitted before the body for doc's kind.
func preamble(doc *docmodel.Document) []docmodel.Block {
	if doc.Kind != docmodel.KindNotebook {
		return nil
	}
	blocks := []docmodel.Block{docmodel.Markdown{Text: NoticeGenerated + "\n" + NoticeEditable}}
	if doc.SourceLink != "" {
		blocks = append(blocks, docmodel.Callout{
			Type:    docmodel.CalloutTip,
			Content: fmt.Sprintf("[![Open In Colab](%s)](%s)", ColabBadgeURL, doc.SourceLink),
		})
	}
	return blocks
}

func writeBlock(sb *strings.Builder, b docmodel.Block) {
	sb.WriteString("\n")
	sb.WriteString(Block(b))
	sb.WriteString("\n")
}

// Block renders a single block without surrounding blank lines.
func Block(b docmodel.Block) string {
	switch v := b.(type) {
	case docmodel.Markdown:
		return v.Text
	case docmodel.Heading:
		return strings.Repeat("#", v.Level) + " " + v.Text
	case docmodel.Code:
		out := fence(v.Language, v.Source)
		if v.Output != nil {
			out += "\n\n" + Block(docmodel.Callout{
				Type:    docmodel.CalloutInfo,
				Title:   "Output",
				Content: fence("", *v.Output),
				Padded:  true,
			})
		}
		return out
	case docmodel.Callout:
		return callout(v)
	default:
		return ""
	}
}

func fence(language, text string) string {
	return "```" + language + "\n" + text + "\n```"
}

func callout(c docmodel.Callout) string {
	var sb strings.Builder
	sb.WriteString(`<Callout type="`)
	sb.WriteString(string(c.Type))
	sb.WriteString(`"`)
	if c.Title != "" {
		sb.WriteString(` title="`)
		sb.WriteString(c.Title)
		sb.WriteString(`"`)
	}
	sb.WriteString(">")
	if c.Padded {
		sb.WriteString("\n\n" + c.Content + "\n\n")
	} else {
		sb.WriteString("\n  " + c.Content + "\n")
	}
	sb.WriteString("</Callout>")
	return sb.String()
}
