package printer

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/journal/internal/domain"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func newTestPrinter(dark bool) (*Printer, *bytes.Buffer) {
	var buf bytes.Buffer
	pr := New(&buf, dark)
	pr.Location = time.UTC
	return pr, &buf
}

func sample() []domain.Entry {
	return []domain.Entry{
		{
			ID:        "0d5c2a8e-1111-4c4c-9d9d-aaaaaaaaaaaa",
			Prompt:    "Leg day",
			Response:  "Strong work",
			CreatedAt: time.Date(2025, 1, 1, 7, 30, 0, 0, time.UTC),
			IsPinned:  true,
			Tags:      []string{"fitness"},
		},
		{
			ID:        "7f3e9b10-2222-4c4c-9d9d-bbbbbbbbbbbb",
			Prompt:    "Today I ran 5k\nand felt great",
			Response:  "Great job on your run!",
			CreatedAt: time.Date(2025, 1, 3, 18, 5, 0, 0, time.UTC),
			Tags:      []string{"fitness", "morning"},
		},
		{
			ID:        "a1b2c3d4-3333-4c4c-9d9d-cccccccccccc",
			Prompt:    "Long meeting",
			Response:  "Sounds tiring",
			CreatedAt: time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC),
			Tags:      []string{},
		},
	}
}

func TestParseView(t *testing.T) {
	tests := []struct {
		in      string
		want    View
		wantErr bool
	}{
		{"", ViewList, false},
		{"list", ViewList, false},
		{"GRID", ViewGrid, false},
		{" calendar ", ViewCalendar, false},
		{"kanban", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseView(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0d5c2a8e", ShortID("0d5c2a8e-1111-4c4c-9d9d-aaaaaaaaaaaa"))
	assert.Equal(t, "abc", ShortID("abc"))
}

func TestEntries_List(t *testing.T) {
	pr, buf := newTestPrinter(true)
	pr.Entries(ViewList, sample())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "0d5c2a8e")
	assert.Contains(t, lines[0], "2025-01-01 07:30")
	assert.Contains(t, lines[0], pinMarker)
	assert.Contains(t, lines[0], "Leg day")
	assert.Contains(t, lines[0], "#fitness")

	assert.Contains(t, lines[1], "Today I ran 5k …")
	assert.NotContains(t, lines[1], "felt great")
	assert.Contains(t, lines[1], "#fitness #morning")
	assert.NotContains(t, lines[1], pinMarker)
}

func TestEntries_Grid(t *testing.T) {
	pr, buf := newTestPrinter(false)
	pr.Entries(ViewGrid, sample())
	out := buf.String()

	lines := strings.Split(out, "\n")
	// First card row holds the first two entries side by side.
	assert.Contains(t, lines[0], "0d5c2a8e")
	assert.Contains(t, lines[0], "7f3e9b10")
	assert.NotContains(t, lines[0], "a1b2c3d4")
	assert.Contains(t, out, "Great job on your run!")
	assert.Contains(t, out, "a1b2c3d4")
}

func TestEntries_Calendar(t *testing.T) {
	pr, buf := newTestPrinter(true)
	pr.Entries(ViewCalendar, sample())
	out := buf.String()

	jan3 := strings.Index(out, "Friday, January 3, 2025")
	jan1 := strings.Index(out, "Wednesday, January 1, 2025")
	require.GreaterOrEqual(t, jan3, 0)
	require.GreaterOrEqual(t, jan1, 0)
	assert.Less(t, jan3, jan1, "newest day first")

	assert.Contains(t, out, "18:05")
	assert.Equal(t, 1, strings.Count(out, "January 3"), "entries of one day share a heading")
}

func TestEntries_Empty(t *testing.T) {
	for _, view := range []View{ViewList, ViewGrid, ViewCalendar} {
		pr, buf := newTestPrinter(true)
		pr.Entries(view, nil)
		assert.Equal(t, " no entries\n", buf.String())
	}
}

func TestEntry(t *testing.T) {
	pr, buf := newTestPrinter(true)
	pr.Entry(sample()[1])
	out := buf.String()

	assert.Contains(t, out, "7f3e9b10-2222-4c4c-9d9d-bbbbbbbbbbbb")
	assert.Contains(t, out, "Today I ran 5k\nand felt great\n")
	assert.Contains(t, out, "Great job on your run!\n")
	assert.Contains(t, out, "#fitness #morning")
}

func TestTags(t *testing.T) {
	pr, buf := newTestPrinter(false)
	pr.Tags([]string{"books", "fitness"})
	assert.Equal(t, "#books\n#fitness\n", buf.String())

	buf.Reset()
	pr.Tags(nil)
	assert.Equal(t, " no tags\n", buf.String())
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "short", firstLine("  short  ", 10))
	assert.Equal(t, "abcdefghi…", firstLine("abcdefghijklmnop", 10))
	assert.Equal(t, "one …", firstLine("one\ntwo", 10))
}
