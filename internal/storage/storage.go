package storage

import (
	"context"
	"errors"
	"fmt"

	"movies/internal/config"
	"movies/internal/movie"
)

var (
	ErrNotFound       = errors.New("movie not found")
	ErrUnknownBackend = errors.New("unknown store backend")
)

// Store коллекция фильмов. update и delete ищут по точному совпадению title
// и трогают только первый найденный документ в естественном порядке хранилища
type Store interface {
	FindAll(ctx context.Context) ([]movie.Movie, error)
	Insert(ctx context.Context, m movie.Movie) (movie.Movie, error)
	// UpdateByTitle возвращает документ после обновления или ErrNotFound
	UpdateByTitle(ctx context.Context, title string, patch movie.Patch) (movie.Movie, error)
	// DeleteByTitle возвращает количество удаленных документов (0 или 1)
	DeleteByTitle(ctx context.Context, title string) (int64, error)
	Close(ctx context.Context) error
}

// Open открывает хранилище из конфига и дожидается готовности
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store {
	case config.StoreMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.Database, cfg.Collection, cfg.ConnectTimeout)
	case config.StoreFile:
		return LoadCollection(cfg.DataDir, cfg.Collection)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Store)
	}
}
