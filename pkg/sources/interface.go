package sources

import (
	"context"

	"github.com/balrog57/chireaders/pkg/data"
)

// Source supplies the chapter list for a series. Implementations return
// chapters in ascending order, so the newest chapter is the last element.
type Source interface {
	GetChapterList(ctx context.Context, seriesURL string) ([]data.Chapter, error)
}
