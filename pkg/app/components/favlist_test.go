package components

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/balrog57/chireaders/pkg/data"
)

func sampleItems() []FavoriteListItem {
	return []FavoriteListItem{
		{Favorite: data.Favorite{URL: "book1", Title: "Book One"}},
		{Favorite: data.Favorite{URL: "book2", Title: "Book Two"}},
		{Favorite: data.Favorite{URL: "book3", Title: "Book Three"}},
	}
}

func TestFavoriteListNavigation(t *testing.T) {
	l := NewFavoriteList()
	l.SetItems(sampleItems())

	assert.Equal(t, 0, l.SelectedIndex)

	l.Next()
	assert.Equal(t, 1, l.SelectedIndex)

	l.Next()
	l.Next()
	// wraps around
	assert.Equal(t, 0, l.SelectedIndex)

	l.Prev()
	assert.Equal(t, 2, l.SelectedIndex)
}

func TestFavoriteListSelected(t *testing.T) {
	l := NewFavoriteList()
	assert.Nil(t, l.Selected())

	l.SetItems(sampleItems())
	l.Next()
	sel := l.Selected()
	assert.NotNil(t, sel)
	assert.Equal(t, "book2", sel.Favorite.URL)
}

func TestFavoriteListSetItemsClampsSelection(t *testing.T) {
	l := NewFavoriteList()
	l.SetItems(sampleItems())
	l.SelectedIndex = 2

	l.SetItems(sampleItems()[:1])
	assert.Equal(t, 0, l.SelectedIndex)

	l.SetItems(nil)
	assert.Equal(t, 0, l.SelectedIndex)
	assert.Nil(t, l.Selected())
}

func TestFavoriteListEmptyNavigationIsSafe(t *testing.T) {
	l := NewFavoriteList()
	l.Next()
	l.Prev()
	assert.Equal(t, 0, l.SelectedIndex)
}

func TestHasNewChapter(t *testing.T) {
	item := FavoriteListItem{Favorite: data.Favorite{URL: "book1"}}
	assert.False(t, item.HasNewChapter())

	item.Favorite.LatestKnownChapterURL = "ch5"
	assert.True(t, item.HasNewChapter())

	item.Favorite.LastChapterRead = &data.LastChapterRead{URL: "ch4"}
	assert.True(t, item.HasNewChapter())

	item.Favorite.LastChapterRead.URL = "ch5"
	assert.False(t, item.HasNewChapter())
}

func TestFavoriteListViewEmpty(t *testing.T) {
	l := NewFavoriteList()
	assert.Contains(t, l.View(), "No favorites yet")
}
