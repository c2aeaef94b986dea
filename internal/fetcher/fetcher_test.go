package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "paragraphs",
			html: `<html><body><h1>Title</h1><p>First   line.</p><p>Second
			line.</p></body></html>`,
			want: "Title First line. Second line.",
		},
		{
			name: "skips chrome and scripts",
			html: `<html><head><style>p{}</style><script>var x;</script></head>
			<body><nav>Menu</nav><header>Top</header><main>Body text</main>
			<aside>Ad</aside><footer>Bottom</footer><noscript>JS</noscript></body></html>`,
			want: "Body text",
		},
		{
			name: "empty",
			html: `<html><body><script>only()</script></body></html>`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractText(tt.html))
		})
	}
}

func TestExtractText_Truncates(t *testing.T) {
	long := "<p>" + strings.Repeat("a", MaxTextSize+100) + "</p>"
	got := extractText(long)
	assert.Len(t, got, MaxTextSize+len("..."))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestExtractText_TruncatesOnRuneBoundary(t *testing.T) {
	// "a" shifts every two-byte "é" so that MaxTextSize falls mid-rune.
	long := "<p>a" + strings.Repeat("é", MaxTextSize) + "</p>"
	got := extractText(long)

	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "é..."))
	assert.LessOrEqual(t, len(got), MaxTextSize+len("..."))
	assert.Equal(t, MaxTextSize-1+len("..."), len(got))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "https://example.com/a", want: "https://example.com/a"},
		{in: "example.com/a", want: "https://example.com/a"},
		{in: "  http://example.com ", want: "http://example.com"},
		{in: "ftp://example.com", wantErr: true},
		{in: "https://", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com"))
	assert.True(t, IsURL(" www.example.com"))
	assert.False(t, IsURL("today I ran 5k"))
}

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "probe/2.0", r.UserAgent())
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))
	defer srv.Close()

	page, err := New(time.Second).Get(context.Background(), srv.URL, "probe/2.0")
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, page.StatusCode)
	assert.Equal(t, "text/plain", page.ContentType)
	assert.Equal(t, "short and stout", string(page.Body))
}

func TestClient_Text(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			assert.Equal(t, defaultUserAgent, r.UserAgent())
			_, _ = w.Write([]byte(`<html><body><p>Hello journal</p></body></html>`))
		case "/blank":
			_, _ = w.Write([]byte(`<html><body></body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(time.Second)

	text, err := c.Text(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, "Hello journal", text)

	_, err = c.Text(context.Background(), srv.URL+"/blank")
	require.ErrorIs(t, err, ErrNoText)

	_, err = c.Text(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
