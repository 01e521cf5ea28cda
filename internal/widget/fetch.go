package widget

import (
	"context"

	"github.com/MrSnakeDoc/webring/internal/logger"
)

// Source retrieves the remote index and category files of a data source.
// base always ends with a slash.
type Source interface {
	Index(ctx context.Context, base string) (RemoteIndex, error)
	Category(ctx context.Context, base, category string) (CategoryFile, error)
}

// Fetcher turns a Configuration into a RenderState.
type Fetcher struct {
	source Source
	logger logger.Logger
}

// NewFetcher creates a fetcher over source.
func NewFetcher(source Source, log logger.Logger) *Fetcher {
	return &Fetcher{
		source: source,
		logger: log,
	}
}

// FetchAll loads the index, resolves categories and loads each category file
// one after another. A failed category is stored empty and does not abort the
// others; the result is the error state only when the index fails, no
// category is valid, or every category came back empty.
func (f *Fetcher) FetchAll(ctx context.Context, cfg Configuration) RenderState {
	index, err := f.source.Index(ctx, cfg.DataSource)
	if err != nil {
		f.logger.Error("error fetching webring data",
			logger.String("data_source", cfg.DataSource),
			logger.Error(err))
		return ErrorState()
	}

	categories := MatchCategories(cfg.Categories, index.Categories, f.logger)
	f.logger.Info("valid categories to fetch",
		logger.Strings("categories", categories),
		logger.String("data_source", cfg.DataSource))

	if len(categories) == 0 {
		return ErrorState()
	}

	display := NewCategoryDisplayMap()
	for _, category := range categories {
		file, err := f.source.Category(ctx, cfg.DataSource, category)
		if err != nil {
			f.logger.Error("error fetching category",
				logger.String("category", category),
				logger.String("data_source", cfg.DataSource),
				logger.Error(err))
			display.Set(category, nil)
			continue
		}

		links := Sample(file.ToDisplayLinks(), cfg.MaxLinks)
		display.Set(category, links)
		f.logger.Info("fetched and shuffled links",
			logger.String("category", category),
			logger.Int("count", len(links)),
			logger.Int("max", cfg.MaxLinks),
			logger.String("data_source", cfg.DataSource))
	}

	if !display.HasAnyLinks() {
		f.logger.Warn("no category returned any links")
		return ErrorState()
	}
	return OkState(display)
}
