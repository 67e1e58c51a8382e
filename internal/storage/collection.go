package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"

	"movies/internal/index"
	"movies/internal/movie"
)

const titleIndexOrder = 64

// Collection коллекция фильмов в одном json файле.
// документы хранятся массивом в порядке вставки, по title есть b+ tree индекс
type Collection struct {
	mu   sync.RWMutex
	Name string
	path string

	docs  []movie.Movie
	byID  map[string]int
	title *index.BTree[string]
}

// LoadCollection загружает коллекцию из dir/<name>.json
// если файла нет, возвращает пустую коллекцию
func LoadCollection(dir, name string) (*Collection, error) {
	c := &Collection{
		Name: name,
		path: filepath.Join(dir, name+".json"),
	}

	bytes, err := os.ReadFile(c.path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read collection %s: %w", name, err)
	default:
		if err := json.Unmarshal(bytes, &c.docs); err != nil {
			return nil, fmt.Errorf("unmarshal error: %w", err)
		}
	}

	c.rebuildIndexes()
	return c, nil
}

// rebuildIndexes пересоздает позиции по _id и индекс по title
func (c *Collection) rebuildIndexes() {
	c.byID = make(map[string]int, len(c.docs))
	c.title = index.NewBPlusTree[string](titleIndexOrder)
	for i, doc := range c.docs {
		c.byID[doc.ID] = i
		c.title.Insert(doc.Title, doc.ID)
	}
}

// save пишет документы во временный файл и переименовывает его,
// чтобы при ошибке на диске осталась прошлая версия
func (c *Collection) save(docs []movie.Movie) error {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("mkdir error: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write file error: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("rename error: %w", err)
	}

	return nil
}

func (c *Collection) FindAll(ctx context.Context) ([]movie.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.docs), nil
}

func (c *Collection) Insert(ctx context.Context, m movie.Movie) (movie.Movie, error) {
	if err := ctx.Err(); err != nil {
		return movie.Movie{}, err
	}
	if err := m.Validate(); err != nil {
		return movie.Movie{}, fmt.Errorf("validation failed: %w", err)
	}

	m = m.Normalize()
	m.ID = uuid.NewString()

	c.mu.Lock()
	defer c.mu.Unlock()

	next := append(slices.Clip(c.docs), m)
	if err := c.save(next); err != nil {
		return movie.Movie{}, err
	}

	c.docs = next
	c.byID[m.ID] = len(next) - 1
	c.title.Insert(m.Title, m.ID)

	return m, nil
}

func (c *Collection) UpdateByTitle(ctx context.Context, title string, patch movie.Patch) (movie.Movie, error) {
	if err := ctx.Err(); err != nil {
		return movie.Movie{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.title.First(title)
	if !ok {
		return movie.Movie{}, ErrNotFound
	}
	pos := c.byID[id]

	if patch.Empty() {
		return c.docs[pos], nil
	}

	next := slices.Clone(c.docs)
	next[pos] = patch.Apply(next[pos])
	if err := c.save(next); err != nil {
		return movie.Movie{}, err
	}

	c.docs = next
	return next[pos], nil
}

func (c *Collection) DeleteByTitle(ctx context.Context, title string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.title.First(title)
	if !ok {
		return 0, nil
	}
	pos := c.byID[id]

	next := slices.Delete(slices.Clone(c.docs), pos, pos+1)
	if err := c.save(next); err != nil {
		return 0, err
	}

	c.docs = next
	c.title.Remove(title, id)

	// позиции после удаленного сдвинулись
	delete(c.byID, id)
	for i := pos; i < len(next); i++ {
		c.byID[next[i].ID] = i
	}

	return 1, nil
}

// Close ничего не делает: каждая операция уже сохранена на диск
func (c *Collection) Close(context.Context) error {
	return nil
}
