package triangle

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/mesh-intelligence/itemlists/pkg/types"
)

// Export formats.
const (
	FormatMarkdown = "md"
	FormatCSV      = "csv"
	FormatHTML     = "html"
)

// cellWidth is the width of a Markdown column between the pipes.
const cellWidth = 9

const (
	markdownHeader    = "|         |         |    +    |   + +   |  + + +  | + + + + |"
	markdownSeparator = "|---------|---------|---------|---------|---------|---------|"
	csvHeader         = "num_minus,0_plus,1_plus,2_plus,3_plus,4_plus"
)

// Markdown renders list as a bold-italic title followed by a GFM table with
// one column per plus count and one row per minus count.
func Markdown(list types.ItemList) string {
	lines := []string{
		"***" + list.Title + "***\n",
		markdownHeader,
		markdownSeparator,
	}
	for minus, row := range Rows(list) {
		var b strings.Builder
		b.WriteString("|")
		b.WriteString(rowLabel(minus))
		names := make([]string, len(row))
		for i, item := range row {
			names[i] = escapeCell(item.Name)
		}
		b.WriteString(strings.Join(names, " | "))
		b.WriteString(" |")
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// escapeCell keeps a pipe in a name from splitting the table cell.
func escapeCell(name string) string {
	return strings.ReplaceAll(name, "|", `\|`)
}

// rowLabel centers one "-" per minus face in the label column.
func rowLabel(minus int) string {
	if minus == 0 {
		return strings.Repeat(" ", cellWidth) + "|"
	}
	pad := strings.Repeat(" ", (cellWidth-2*minus)/2)
	return pad + strings.Repeat(" -", minus) + pad + " |"
}

// CSV renders list with one line per row. Names are always quoted.
func CSV(list types.ItemList) string {
	lines := []string{csvHeader}
	for minus, row := range Rows(list) {
		fields := make([]string, 0, len(row)+1)
		fields = append(fields, strconv.Itoa(minus))
		for _, item := range row {
			fields = append(fields, `"`+strings.ReplaceAll(item.Name, `"`, `""`)+`"`)
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return strings.Join(lines, "\n")
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML renders the Markdown form of list to an HTML fragment.
func HTML(list types.ItemList) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(list)), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

// Render renders list in format.
func Render(list types.ItemList, format string) (string, error) {
	switch format {
	case FormatMarkdown:
		return Markdown(list), nil
	case FormatCSV:
		return CSV(list), nil
	case FormatHTML:
		return HTML(list)
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
}

// Slug lowercases title, strips accents, and joins the remaining letters
// and digits with single hyphens.
func Slug(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphen = false
			b.WriteRune(r)
			continue
		}
		hyphen = true
	}
	return b.String()
}

// Filename returns the export file name for list in format. Lists without
// a usable title are named "item-list".
func Filename(list types.ItemList, format string) string {
	slug := Slug(list.Title)
	if slug == "" {
		slug = "item-list"
	}
	return slug + "." + format
}
