package scrape

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemblerLinkTable(t *testing.T) {
	t.Parallel()

	rows := []DateWindowRow{
		{Start: date(2020, 1, 1), End: date(2020, 1, 1), Links: []string{"https://a.example/one"}},
		{Start: date(2020, 1, 2), End: date(2020, 1, 2), Links: []string{}},
	}

	assembler := NewAssembler(nil, nil)
	table := assembler.LinkTable(rows)

	assert.Equal(t, []string{"start_date", "end_date", "links"}, table.Columns)
	require.Len(t, table.Rows, 2)

	start, _ := table.Rows[0][0].Text()
	assert.Equal(t, "2020-01-01", start)
	links, isList := table.Rows[0][2].List()
	require.True(t, isList)
	assert.Equal(t, []string{"https://a.example/one"}, links)

	empty, isList := table.Rows[1][2].List()
	require.True(t, isList, "empty windows keep their empty-list rows")
	assert.Empty(t, empty)
}

func TestAssemblerArticleTableDropsIncomplete(t *testing.T) {
	t.Parallel()

	q := NewQuery("Apple", date(2020, 1, 1), date(2020, 1, 2))
	complete := NewArticle(NewDiscoveredItem(&q, "https://a.example/good", date(2020, 1, 1)))
	complete.state = StateEnriched
	complete.Fields = ArticleFields{
		Title:       "Good Story",
		Text:        "Body.",
		Authors:     []string{"A. Reporter", "B. Editor"},
		PublishDate: time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	complete.Summary = "Body."

	incomplete := NewArticle(NewDiscoveredItem(&q, "https://b.example/bad", date(2020, 1, 1)))
	incomplete.state = StateFetched

	assembler := NewAssembler(nil, nil)
	table := assembler.ArticleTable([]*Article{complete, incomplete})

	assert.Equal(t, []string{"url", "query", "title", "text", "authors", "publish_date", "summary"}, table.Columns)
	require.Len(t, table.Rows, 1, "items that never parsed contribute nothing")

	url, _ := table.Rows[0][0].Text()
	assert.Equal(t, "https://a.example/good", url)
	queryText, _ := table.Rows[0][1].Text()
	assert.Equal(t, "Apple", queryText)
	authors, isList := table.Rows[0][4].List()
	require.True(t, isList)
	assert.Equal(t, []string{"A. Reporter", "B. Editor"}, authors)
	published, _ := table.Rows[0][5].Text()
	assert.Equal(t, "2020-01-01", published)
}

func TestAssemblerArticleTableZeroPublishDate(t *testing.T) {
	t.Parallel()

	q := NewQuery("Apple", date(2020, 1, 1), date(2020, 1, 2))
	article := NewArticle(NewDiscoveredItem(&q, "https://a.example/story", date(2020, 1, 1)))
	article.state = StateParsed

	assembler := NewAssembler(nil, nil)
	table := assembler.ArticleTable([]*Article{article})

	require.Len(t, table.Rows, 1)
	published, _ := table.Rows[0][5].Text()
	assert.Empty(t, published, "unknown publish dates render as empty")
}

func TestAssemblerPersist(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	assembler := NewAssembler(store, nil)
	table := Table{Columns: []string{"url"}}

	assert.True(t, assembler.Persist(context.Background(), "links/apple.csv", table))
	assert.True(t, store.Exists(context.Background(), "links/apple.csv"))
}

func TestAssemblerPersistBestEffort(t *testing.T) {
	t.Parallel()

	table := Table{Columns: []string{"url"}}

	t.Run("nil store", func(t *testing.T) {
		t.Parallel()
		assembler := NewAssembler(nil, nil)
		assert.False(t, assembler.Persist(context.Background(), "key", table))
	})

	t.Run("empty key", func(t *testing.T) {
		t.Parallel()
		assembler := NewAssembler(newFakeStore(), nil)
		assert.False(t, assembler.Persist(context.Background(), "", table))
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		store.failPuts = true
		assembler := NewAssembler(store, nil)
		assert.False(t, assembler.Persist(context.Background(), "key", table))
	})
}
