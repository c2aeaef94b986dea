// Package printer renders journal entries for the terminal.
package printer

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/pbaille/journal/internal/domain"
)

// View selects how a list of entries is laid out.
type View string

const (
	ViewList     View = "list"
	ViewGrid     View = "grid"
	ViewCalendar View = "calendar"
)

// ParseView validates a view name. The empty string is ViewList.
func ParseView(s string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case "", ViewList:
		return ViewList, nil
	case ViewGrid, ViewCalendar:
		return v, nil
	default:
		return "", fmt.Errorf("unknown view %q (want list, grid or calendar)", s)
	}
}

const (
	shortIDLen    = 8
	promptWidth   = 60
	gridCellWidth = 38
	dateLayout    = "2006-01-02 15:04"
	dayLayout     = "Monday, January 2, 2006"
	pinMarker     = "★"
)

type palette struct {
	id       *color.Color
	date     *color.Color
	pin      *color.Color
	prompt   *color.Color
	response *color.Color
	tag      *color.Color
	heading  *color.Color
	faint    *color.Color
}

var (
	darkPalette = palette{
		id:       color.New(color.FgHiYellow, color.Faint),
		date:     color.New(color.FgHiBlack),
		pin:      color.New(color.FgHiYellow, color.Bold),
		prompt:   color.New(color.FgHiWhite),
		response: color.New(color.FgHiCyan, color.Italic),
		tag:      color.New(color.FgHiMagenta),
		heading:  color.New(color.FgHiWhite, color.Bold, color.Underline),
		faint:    color.New(color.Faint, color.Italic),
	}
	lightPalette = palette{
		id:       color.New(color.FgYellow),
		date:     color.New(color.FgBlack, color.Faint),
		pin:      color.New(color.FgRed, color.Bold),
		prompt:   color.New(color.FgBlack),
		response: color.New(color.FgBlue, color.Italic),
		tag:      color.New(color.FgMagenta),
		heading:  color.New(color.Bold, color.Underline),
		faint:    color.New(color.Faint, color.Italic),
	}
)

// Printer writes entries to Out.
type Printer struct {
	Out io.Writer
	// Location is used to display timestamps. Defaults to time.Local.
	Location *time.Location

	p palette
}

// New returns a printer using the palette for dark or light terminals.
func New(out io.Writer, dark bool) *Printer {
	pr := &Printer{Out: out, Location: time.Local, p: lightPalette}
	if dark {
		pr.p = darkPalette
	}
	return pr
}

// ShortID returns the id prefix shown in listings.
func ShortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// Entries prints entries in the given view.
func (pr *Printer) Entries(view View, entries []domain.Entry) {
	if len(entries) == 0 {
		_, _ = pr.p.faint.Fprintln(pr.Out, " no entries")
		return
	}
	switch view {
	case ViewGrid:
		pr.grid(entries)
	case ViewCalendar:
		pr.calendar(entries)
	default:
		pr.list(entries)
	}
}

func (pr *Printer) list(entries []domain.Entry) {
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, e := range entries {
		tbl.AddRow(
			pr.p.id.Sprint(ShortID(e.ID)),
			pr.p.date.Sprint(pr.date(e)),
			pr.pin(e),
			pr.p.prompt.Sprint(firstLine(e.Prompt, promptWidth)),
			pr.tags(e.Tags),
		)
	}
	_, _ = fmt.Fprintln(pr.Out, tbl)
}

// grid lays entries out two per row as cards.
func (pr *Printer) grid(entries []domain.Entry) {
	tbl := uitable.New()
	tbl.Separator = "    "
	for i := 0; i < len(entries); i += 2 {
		pair := entries[i:min(i+2, len(entries))]

		var head, body, resp, tags []any
		for _, e := range pair {
			head = append(head, fmt.Sprintf("%s %s %s", pr.p.id.Sprint(ShortID(e.ID)), pr.p.date.Sprint(pr.date(e)), pr.pin(e)))
			body = append(body, pr.p.prompt.Sprint(firstLine(e.Prompt, gridCellWidth)))
			resp = append(resp, pr.p.response.Sprint(firstLine(e.Response, gridCellWidth)))
			tags = append(tags, pr.tags(e.Tags))
		}
		tbl.AddRow(head...)
		tbl.AddRow(body...)
		tbl.AddRow(resp...)
		tbl.AddRow(tags...)
		tbl.AddRow()
	}
	_, _ = fmt.Fprint(pr.Out, tbl, "\n")
}

// calendar groups entries under the day they were written, newest day first.
func (pr *Printer) calendar(entries []domain.Entry) {
	var days []string
	byDay := map[string][]domain.Entry{}
	for _, e := range entries {
		day := e.CreatedAt.In(pr.Location).Format(time.DateOnly)
		if _, ok := byDay[day]; !ok {
			days = append(days, day)
		}
		byDay[day] = append(byDay[day], e)
	}
	// Pinned entries lead the list, so first-seen order is not day order.
	slices.Sort(days)
	slices.Reverse(days)

	for _, day := range days {
		group := byDay[day]
		_, _ = pr.p.heading.Fprintln(pr.Out, group[0].CreatedAt.In(pr.Location).Format(dayLayout))

		tbl := uitable.New()
		tbl.Separator = "  "
		for _, e := range group {
			tbl.AddRow(
				pr.p.id.Sprint(ShortID(e.ID)),
				pr.p.date.Sprint(e.CreatedAt.In(pr.Location).Format("15:04")),
				pr.pin(e),
				pr.p.prompt.Sprint(firstLine(e.Prompt, promptWidth)),
				pr.tags(e.Tags),
			)
		}
		_, _ = fmt.Fprintln(pr.Out, tbl)
		_, _ = fmt.Fprintln(pr.Out)
	}
}

// Entry prints one entry in full.
func (pr *Printer) Entry(e domain.Entry) {
	_, _ = fmt.Fprintf(pr.Out, "%s  %s %s\n", pr.p.id.Sprint(e.ID), pr.p.date.Sprint(pr.date(e)), pr.pin(e))
	_, _ = pr.p.prompt.Fprintln(pr.Out, e.Prompt)
	_, _ = fmt.Fprintln(pr.Out)
	_, _ = pr.p.response.Fprintln(pr.Out, e.Response)
	if len(e.Tags) > 0 {
		_, _ = fmt.Fprintln(pr.Out)
		_, _ = fmt.Fprintln(pr.Out, pr.tags(e.Tags))
	}
}

// Tags prints one tag per line.
func (pr *Printer) Tags(tags []string) {
	if len(tags) == 0 {
		_, _ = pr.p.faint.Fprintln(pr.Out, " no tags")
		return
	}
	for _, t := range tags {
		_, _ = pr.p.tag.Fprintln(pr.Out, "#"+t)
	}
}

// Notice prints a faint informational line.
func (pr *Printer) Notice(format string, a ...any) {
	_, _ = pr.p.faint.Fprintf(pr.Out, format+"\n", a...)
}

func (pr *Printer) date(e domain.Entry) string {
	return e.CreatedAt.In(pr.Location).Format(dateLayout)
}

func (pr *Printer) pin(e domain.Entry) string {
	if !e.IsPinned {
		return " "
	}
	return pr.p.pin.Sprint(pinMarker)
}

func (pr *Printer) tags(tags []string) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = pr.p.tag.Sprint("#" + t)
	}
	return strings.Join(parts, " ")
}

// firstLine returns the first line of s, cut to width runes.
func firstLine(s string, width int) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + " …"
	}
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s
}
