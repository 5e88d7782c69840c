package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hotAtom = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
<title>hot</title>
<entry>
	<author><name>/u/gopher</name></author>
	<content type="html">&lt;!-- SC_OFF --&gt;&lt;div class=&quot;md&quot;&gt;&lt;p&gt;Hello &amp;amp; welcome&lt;/p&gt;&lt;/div&gt;&lt;!-- SC_ON --&gt; submitted by &lt;a href=&quot;https://www.reddit.com/user/gopher&quot;&gt;/u/gopher&lt;/a&gt; &lt;span&gt;&lt;a href=&quot;https://www.reddit.com/r/golang/comments/abc/hello/&quot;&gt;[link]&lt;/a&gt;&lt;/span&gt; &lt;span&gt;&lt;a href=&quot;https://www.reddit.com/r/golang/comments/abc/hello/&quot;&gt;[comments]&lt;/a&gt;&lt;/span&gt;</content>
	<id>t3_abc</id>
	<link href="https://www.reddit.com/r/golang/comments/abc/hello/"/>
	<title>Hello</title>
</entry>
<entry>
	<author><name>/u/gopher</name></author>
	<content type="html">submitted by &lt;a href=&quot;https://www.reddit.com/user/gopher&quot;&gt;/u/gopher&lt;/a&gt; &lt;span&gt;&lt;a href=&quot;https://i.redd.it/pic.png&quot;&gt;[link]&lt;/a&gt;&lt;/span&gt;</content>
	<id>t3_def</id>
	<link href="https://www.reddit.com/r/golang/comments/def/picture/"/>
	<title>Picture</title>
</entry>
</feed>`

func TestRSSSource_HotPage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/golang/hot/.rss", r.URL.Path)
		assert.Equal(t, "30", r.URL.Query().Get("limit"))
		assert.Equal(t, "redhook-test/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(hotAtom))
	}))
	defer ts.Close()

	src := NewRSSSource(ts.URL, "redhook-test/1.0", 5*time.Second)
	page, err := src.HotPage(context.Background(), "golang", "", 30)
	require.NoError(t, err)
	assert.Empty(t, page.After)
	require.Len(t, page.Items, 2)

	self := page.Items[0]
	assert.Equal(t, "abc", self.ID)
	assert.Equal(t, "Hello", self.Title)
	assert.Equal(t, "/r/golang/comments/abc/hello/", self.Permalink)
	assert.Equal(t, "https://www.reddit.com/r/golang/comments/abc/hello/", self.URL)
	assert.Equal(t, "Hello & welcome", self.SelfText)
	assert.False(t, self.Pinned)

	link := page.Items[1]
	assert.Equal(t, "def", link.ID)
	assert.Equal(t, "https://i.redd.it/pic.png", link.URL)
	assert.Empty(t, link.SelfText)
}

func TestRSSSource_HotPageSinglePage(t *testing.T) {
	src := NewRSSSource("http://127.0.0.1:1", "ua", time.Second)
	page, err := src.HotPage(context.Background(), "golang", "t3_abc", 30)
	require.NoError(t, err, "cursor requests never hit the network")
	assert.Empty(t, page.Items)
}

func TestRSSSource_HotPageErrors(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer ts.Close()
		_, err := NewRSSSource(ts.URL, "ua", time.Second).HotPage(context.Background(), "golang", "", 25)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status code: 429")
	})

	t.Run("not a feed", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html><body>nope</body></html>"))
		}))
		defer ts.Close()
		_, err := NewRSSSource(ts.URL, "ua", time.Second).HotPage(context.Background(), "golang", "", 25)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse feed")
	})
}
