package render

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/mdxgen/internal/docmodel"
	"git.home.luguber.info/inful/mdxgen/internal/pysource"
)

// ModuleName converts a slash-separated path relative to the package root
// into a dotted module name: "sub/mod.py" becomes "sub.mod".
func ModuleName(relPath string) string {
	return strings.ReplaceAll(strings.TrimSuffix(relPath, ".py"), "/", ".")
}

// ModuleDocument builds the API reference page for one module. Private
// methods are dropped here; the description still carries them.
func ModuleDocument(name string, mod *pysource.ModuleDescription) *docmodel.Document {
	doc := &docmodel.Document{Kind: docmodel.KindModule, Title: name}
	doc.Append(docmodel.Heading{Level: 1, Text: name})

	if strings.TrimSpace(mod.Docstring) != "" {
		doc.Append(docmodel.Markdown{Text: FormatDocstring(mod.Docstring)})
	}

	if len(mod.Classes) > 0 {
		doc.Append(docmodel.Heading{Level: 2, Text: "Classes"})
		for _, class := range mod.Classes {
			doc.Append(
				docmodel.Heading{Level: 3, Text: "`" + class.Name + "`"},
				docmodel.Markdown{Text: FormatDocstring(class.Docstring)},
			)
			methods := class.PublicMethods()
			if len(methods) == 0 {
				continue
			}
			doc.Append(docmodel.Heading{Level: 4, Text: "Methods"})
			for _, m := range methods {
				doc.Append(
					docmodel.Heading{Level: 5, Text: "`" + m.Signature() + "`"},
					docmodel.Markdown{Text: FormatDocstring(m.Docstring)},
				)
			}
		}
	}

	if len(mod.Functions) > 0 {
		doc.Append(docmodel.Heading{Level: 2, Text: "Functions"})
		for _, fn := range mod.Functions {
			doc.Append(
				docmodel.Heading{Level: 3, Text: "`" + fn.Signature() + "`"},
				docmodel.Markdown{Text: FormatDocstring(fn.Docstring)},
			)
		}
	}
	return doc
}

// IndexDocument builds the landing page of a package. pages are output paths
// relative to the package output directory, slash-separated, in the order
// they were generated.
func IndexDocument(pkg string, pages []string, ext string) *docmodel.Document {
	title := cases.Title(language.Und).String(pkg)
	doc := &docmodel.Document{Kind: docmodel.KindIndex, Title: title, Description: "API reference for " + pkg}

	links := make([]string, 0, len(pages))
	for _, p := range pages {
		p = path.Clean(p)
		links = append(links, "- ["+strings.TrimSuffix(p, ext)+"](./"+p+")")
	}

	doc.Append(
		docmodel.Heading{Level: 1, Text: title + " API Reference"},
		docmodel.Markdown{Text: "This section contains the API reference for the `" + pkg + "` module."},
		docmodel.Heading{Level: 2, Text: "Modules"},
		docmodel.Markdown{Text: strings.Join(links, "\n")},
	)
	return doc
}
