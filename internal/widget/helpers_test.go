package widget

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MrSnakeDoc/webring/internal/logger"
)

func observedLogger() (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.Wrap(zap.New(core)), logs
}

var errNetwork = errors.New("connection refused")

// fakeSource serves canned index and category files and records fetch order.
type fakeSource struct {
	index    RemoteIndex
	indexErr error
	files    map[string]CategoryFile
	fails    map[string]error
	fetched  []string
	bases    []string
}

func (f *fakeSource) Index(_ context.Context, base string) (RemoteIndex, error) {
	f.bases = append(f.bases, base)
	if f.indexErr != nil {
		return RemoteIndex{}, f.indexErr
	}
	return f.index, nil
}

func (f *fakeSource) Category(_ context.Context, base, category string) (CategoryFile, error) {
	f.bases = append(f.bases, base)
	f.fetched = append(f.fetched, category)
	if err, ok := f.fails[category]; ok {
		return CategoryFile{}, err
	}
	file, ok := f.files[category]
	if !ok {
		return CategoryFile{}, errors.New("404 not found")
	}
	return file, nil
}

func makeFile(n int, prefix string) CategoryFile {
	file := CategoryFile{}
	for i := 0; i < n; i++ {
		file.Links = append(file.Links, RemoteLink{
			Owner: prefix + string(rune('a'+i)),
			URL:   "https://" + prefix + string(rune('a'+i)) + ".example",
		})
	}
	return file
}
