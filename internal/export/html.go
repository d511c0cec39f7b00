package export

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/moonandjupiter/consign-tracker/internal/core"
)

const pageStyle = `body{font-family:sans-serif;margin:2rem;color:#222}` +
	`table{border-collapse:collapse;width:100%}` +
	`th,td{border:1px solid #999;padding:4px 8px;text-align:left}` +
	`th{background:#333;color:#fff}td.num{text-align:right}` +
	`.summary{margin-top:1.5rem}`

// numeric marks the Headers positions rendered right-aligned.
var numeric = map[int]bool{3: true, 4: true, 5: true}

// Page renders the export as a standalone HTML document.
func Page(data Data) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		title := templ.EscapeString(data.Title)

		b.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"><title>")
		b.WriteString(title)
		b.WriteString("</title><style>" + pageStyle + "</style></head><body><h1>")
		b.WriteString(title)
		b.WriteString("</h1><p>Generated: ")
		b.WriteString(templ.EscapeString(data.GeneratedAt.Format("2006-01-02 15:04")))
		b.WriteString("</p>")

		b.WriteString("<table><thead><tr>")
		for _, h := range Headers {
			b.WriteString("<th>" + templ.EscapeString(h) + "</th>")
		}
		b.WriteString("</tr></thead><tbody>")
		for _, m := range data.Records {
			b.WriteString("<tr>")
			for i, c := range formatRow(m, data.acked(m)).cells() {
				if numeric[i] {
					b.WriteString("<td class=\"num\">")
				} else {
					b.WriteString("<td>")
				}
				b.WriteString(templ.EscapeString(c) + "</td>")
			}
			b.WriteString("</tr>")
		}
		b.WriteString("</tbody></table>")

		writeSummary(&b, core.Summarize(data.Records))
		b.WriteString("</body></html>")

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeSummary(b *strings.Builder, s core.Summary) {
	b.WriteString("<div class=\"summary\"><p><strong>")
	b.WriteString(templ.EscapeString(s.Headline))
	b.WriteString("</strong></p><ul>")
	for _, o := range s.Orders {
		qty := core.FormatQuantity(o.Quantity)
		line := "CO Number " + o.Label() + " : " + qty + " " + core.PieceUnit(o.Quantity) +
			", Total Amount " + core.FormatAmount(o.Amount) + " reported sold."
		b.WriteString("<li>" + templ.EscapeString(line) + "</li>")
	}
	b.WriteString("</ul></div>")
}
