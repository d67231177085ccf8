package postgres

import (
	"testing"

	repo "github.com/Leopold1975/emoji_best/internal/emojis/repository/emojirepo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSearchQuery(t *testing.T, req repo.SearchRequest) (string, []interface{}) {
	t.Helper()

	sb, err := searchSelect(req)
	require.NoError(t, err)

	query, args, err := sb.ToSql()
	require.NoError(t, err)

	return query, args
}

func TestSearchQueryAllTarget(t *testing.T) {
	query, args := buildSearchQuery(t, repo.SearchRequest{
		Keyword: "party  parrot",
		Target:  "all",
		Order:   "new",
		Offset:  40,
		Limit:   20,
	})

	assert.Contains(t, query, "e.name ILIKE $1")
	assert.Contains(t, query, "e.description ILIKE $2")
	assert.Contains(t, query, "t.name ILIKE $3")
	assert.Contains(t, query, "e.name ILIKE $4")
	assert.Contains(t, query, " AND ")
	assert.Contains(t, query, "ORDER BY e.created_at DESC, e.id DESC")
	assert.Contains(t, query, "LIMIT 20 OFFSET 40")
	assert.Equal(t, []interface{}{
		"%party%", "%party%", "%party%",
		"%parrot%", "%parrot%", "%parrot%",
	}, args)
}

func TestSearchQueryTagTarget(t *testing.T) {
	query, args := buildSearchQuery(t, repo.SearchRequest{
		Keyword: " parrot ",
		Target:  "tag",
		Order:   "popular",
		Limit:   10,
	})

	assert.Contains(t, query, "t.name = $1")
	assert.NotContains(t, query, "ILIKE")
	assert.Contains(t, query, "ORDER BY downloads DESC, e.created_at DESC, e.id DESC")
	assert.Equal(t, []interface{}{"parrot"}, args)
}

func TestSearchQueryEmptyKeyword(t *testing.T) {
	query, args := buildSearchQuery(t, repo.SearchRequest{Order: "new", Limit: 20})

	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)

	count, countArgs, err := buildCountQuery(repo.SearchRequest{Order: "new"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM emojis e", count)
	assert.Empty(t, countArgs)
}

func TestSearchQueryEscapesPatterns(t *testing.T) {
	_, args := buildSearchQuery(t, repo.SearchRequest{Keyword: `100%_\`, Order: "new", Limit: 1})

	require.NotEmpty(t, args)
	assert.Equal(t, `%100\%\_\\%`, args[0])
}

func TestSearchQueryUnknownOrder(t *testing.T) {
	_, err := searchSelect(repo.SearchRequest{Order: "random"})
	require.Error(t, err)
}

func TestCountQueryMatchesSearch(t *testing.T) {
	req := repo.SearchRequest{Keyword: "cat", Target: "all", Order: "new", Limit: 5}

	count, countArgs, err := buildCountQuery(req)
	require.NoError(t, err)

	_, args := buildSearchQuery(t, req)

	assert.Contains(t, count, "WHERE")
	assert.NotContains(t, count, "LIMIT")
	assert.Equal(t, args, countArgs)
}
