package writer

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ginjaninja78/order-summarizer/internal/summary"
)

// =============================================================================
// XML GENERATION
// =============================================================================
//
// XML STRUCTURE:
//
//   <?xml version="1.0" encoding="UTF-8"?>
//   <orderSummary grandTotal="17">
//     <group name="K/L/D SKUs" total="7">
//       <item n="1">
//         <sku>K100</sku>
//         <quantity>7</quantity>
//       </item>
//     </group>
//     <group name="R SKUs" total="3">
//       <item n="1">
//         <sku>r200</sku>
//         <quantity>3</quantity>
//       </item>
//     </group>
//   </orderSummary>
//
// Item numbering restarts at 1 in each group. An empty group is written as a
// self-closing element so both groups are always present.
//
// =============================================================================

const xmlIndent = "  "

// xmlElement is a node of the output document.
type xmlElement struct {
	Name     string
	Attrs    []xml.Attr
	Value    string
	Children []xmlElement
}

func writeXML(w io.Writer, res *summary.Result) error {
	var buffer bytes.Buffer

	buffer.WriteString(xml.Header)
	writeElement(&buffer, buildDocument(res), 0)

	if _, err := w.Write(buffer.Bytes()); err != nil {
		return fmt.Errorf("failed to write XML summary: %w", err)
	}
	return nil
}

// buildDocument constructs the document tree for res.
func buildDocument(res *summary.Result) xmlElement {
	root := xmlElement{
		Name:  "orderSummary",
		Attrs: []xml.Attr{attr("grandTotal", res.GrandTotal.String())},
	}

	for _, group := range res.Groups() {
		groupElement := xmlElement{
			Name: "group",
			Attrs: []xml.Attr{
				attr("name", group.Name),
				attr("total", group.Total().String()),
			},
		}
		for i, item := range group.Items {
			groupElement.Children = append(groupElement.Children, xmlElement{
				Name:  "item",
				Attrs: []xml.Attr{attr("n", strconv.Itoa(i+1))},
				Children: []xmlElement{
					{Name: "sku", Value: item.SKU},
					{Name: "quantity", Value: item.Quantity.String()},
				},
			})
		}
		root.Children = append(root.Children, groupElement)
	}

	return root
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// writeElement writes an element and its children with indentation.
func writeElement(buffer *bytes.Buffer, element xmlElement, level int) {
	indent := strings.Repeat(xmlIndent, level)

	buffer.WriteString(indent)
	buffer.WriteString("<")
	buffer.WriteString(element.Name)
	for _, a := range element.Attrs {
		buffer.WriteString(" ")
		buffer.WriteString(a.Name.Local)
		buffer.WriteString(`="`)
		escape(buffer, a.Value)
		buffer.WriteString(`"`)
	}

	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return
	}
	buffer.WriteString(">")

	if len(element.Children) == 0 {
		escape(buffer, element.Value)
	} else {
		buffer.WriteString("\n")
		for _, child := range element.Children {
			writeElement(buffer, child, level+1)
		}
		buffer.WriteString(indent)
	}

	buffer.WriteString("</")
	buffer.WriteString(element.Name)
	buffer.WriteString(">\n")
}

// escape writes s with XML special characters escaped. Writes to a
// bytes.Buffer cannot fail.
func escape(buffer *bytes.Buffer, s string) {
	_ = xml.EscapeText(buffer, []byte(s))
}

// =============================================================================
// XSD GENERATION
// =============================================================================

// WriteXSD writes the XML schema of the documents produced by the xml format.
func WriteXSD(w io.Writer) error {
	if _, err := io.WriteString(w, summarySchema); err != nil {
		return fmt.Errorf("failed to write XSD: %w", err)
	}
	return nil
}

const summarySchema = `<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="orderSummary">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="group" minOccurs="2" maxOccurs="2">
          <xs:complexType>
            <xs:sequence>
              <xs:element name="item" minOccurs="0" maxOccurs="unbounded">
                <xs:complexType>
                  <xs:sequence>
                    <xs:element name="sku" type="xs:string"/>
                    <xs:element name="quantity" type="xs:decimal"/>
                  </xs:sequence>
                  <xs:attribute name="n" type="xs:positiveInteger" use="required"/>
                </xs:complexType>
              </xs:element>
            </xs:sequence>
            <xs:attribute name="name" type="xs:string" use="required"/>
            <xs:attribute name="total" type="xs:decimal" use="required"/>
          </xs:complexType>
        </xs:element>
      </xs:sequence>
      <xs:attribute name="grandTotal" type="xs:decimal" use="required"/>
    </xs:complexType>
  </xs:element>
</xs:schema>
`
