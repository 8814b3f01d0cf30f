// =============================================================================
// CSV Table Dashboards - XML Writer Module
// =============================================================================
//
// This module exports rendered tables as an XML document.
//
// XML STRUCTURE:
//
//   <dashboard>                             <!-- Root element -->
//     <table name="Sales" rows="2">         <!-- One element per table -->
//       <row index="0" group="true">        <!-- 0-based display index -->
//         <cell key="region">East</cell>    <!-- Formatted display text -->
//         <cell key="m2r">15</cell>
//       </row>
//       <footer>
//         <cell key="region"/>
//         <cell key="m2r">22</cell>
//       </footer>
//     </table>
//     <table name="Empty" rows="0">
//       <noData/>                           <!-- Empty record set -->
//     </table>
//   </dashboard>
//
// Column keys go into attributes, so they need not be valid element names.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/ginjaninja78/csvtable/internal/engine"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// XMLVersion is the XML version for the declaration.
	// Default: "1.0"
	XMLVersion string

	// Encoding is the encoding for the XML declaration.
	// Default: "UTF-8"
	Encoding string

	// RootElement is the name of the document element.
	// Default: "dashboard"
	RootElement string

	// RootAttributes are additional attributes for the root element, written
	// in order.
	RootAttributes []xml.Attr
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		XMLVersion:            "1.0",
		Encoding:              "UTF-8",
		RootElement:           "dashboard",
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate creates an XML document from render results.
//
// PARAMETERS:
//   - results: The rendered tables, in output order.
//
// RETURNS:
//   - The XML document as a byte slice.
func Generate(results []*engine.Result) []byte {
	return GenerateWithOptions(results, DefaultGenerateOptions())
}

// GenerateWithOptions creates an XML document with custom options.
func GenerateWithOptions(results []*engine.Result, options GenerateOptions) []byte {
	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(fmt.Sprintf("<?xml version=\"%s\" encoding=\"%s\"?>\n",
			options.XMLVersion, options.Encoding))
	}

	root := XMLElement{
		XMLName:    xml.Name{Local: options.RootElement},
		Attributes: options.RootAttributes,
	}
	for _, res := range results {
		root.Children = append(root.Children, buildTableElement(res))
	}

	writeElement(&buffer, root, options.Indent, 0)

	return buffer.Bytes()
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// XMLElement represents a generic XML element.
type XMLElement struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Value      string
	Children   []XMLElement
}

// buildTableElement constructs a table element.
//
// STRUCTURE:
//   <table name="Sales" rows="2">
//     <row index="0" group="true">...</row>
//     <footer>...</footer>
//   </table>
func buildTableElement(res *engine.Result) XMLElement {
	element := XMLElement{
		XMLName: xml.Name{Local: "table"},
		Attributes: []xml.Attr{
			attr("name", res.Table),
			attr("rows", strconv.Itoa(len(res.Rows))),
		},
	}

	if res.Empty {
		element.Children = append(element.Children, XMLElement{XMLName: xml.Name{Local: "noData"}})
	}

	for _, row := range res.Rows {
		rowElement := XMLElement{
			XMLName: xml.Name{Local: "row"},
			Attributes: []xml.Attr{
				attr("index", strconv.Itoa(row.Index)),
				attr("group", strconv.FormatBool(row.IsGroup)),
			},
			Children: buildCells(row.Cells),
		}
		element.Children = append(element.Children, rowElement)
	}

	if res.Footer != nil {
		element.Children = append(element.Children, XMLElement{
			XMLName:  xml.Name{Local: "footer"},
			Children: buildCells(res.Footer.Cells),
		})
	}

	return element
}

func buildCells(cells []engine.Cell) []XMLElement {
	out := make([]XMLElement, len(cells))
	for i, c := range cells {
		out[i] = XMLElement{
			XMLName:    xml.Name{Local: "cell"},
			Attributes: []xml.Attr{attr("key", c.Key)},
			Value:      c.Text,
		}
	}
	return out
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element XMLElement, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}

	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)

	for _, a := range element.Attributes {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", a.Name.Local, escapeXML(a.Value)))
	}

	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if element.Value != "" {
		buffer.WriteString(escapeXML(element.Value))
	} else {
		buffer.WriteString("\n")

		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}

		for i := 0; i < level; i++ {
			buffer.WriteString(indent)
		}
	}

	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
}

// escapeXML escapes special characters for XML. Characters outside the XML
// 1.0 character range are replaced with U+FFFD.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		default:
			if !isXMLChar(r) {
				r = '\uFFFD'
			}
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}

// isXMLChar reports whether r is in the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
