package menu

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movies/internal/movie"
	"movies/internal/storage"
)

// recordingStore считает вызовы и может отвечать ошибкой
type recordingStore struct {
	calls int
	err   error
}

func (s *recordingStore) FindAll(context.Context) ([]movie.Movie, error) {
	s.calls++
	return nil, s.err
}

func (s *recordingStore) Insert(_ context.Context, m movie.Movie) (movie.Movie, error) {
	s.calls++
	return m, s.err
}

func (s *recordingStore) UpdateByTitle(context.Context, string, movie.Patch) (movie.Movie, error) {
	s.calls++
	return movie.Movie{}, s.err
}

func (s *recordingStore) DeleteByTitle(context.Context, string) (int64, error) {
	s.calls++
	return 0, s.err
}

func (s *recordingStore) Close(context.Context) error { return nil }

type harness struct {
	store storage.Store
	out   *bytes.Buffer
	logs  *bytes.Buffer
}

func newHarness(t *testing.T, store storage.Store) *harness {
	t.Helper()
	return &harness{store: store, out: &bytes.Buffer{}, logs: &bytes.Buffer{}}
}

func newFileHarness(t *testing.T) *harness {
	t.Helper()
	c, err := storage.LoadCollection(t.TempDir(), "movies")
	require.NoError(t, err)
	return newHarness(t, c)
}

// run прогоняет меню на заданных строках ввода
func (h *harness) run(t *testing.T, lines ...string) string {
	t.Helper()
	h.out.Reset()

	input := strings.NewReader(strings.Join(lines, "\n") + "\n")
	logger := log.NewWithOptions(h.logs, log.Options{Level: log.DebugLevel})
	m := New(h.store, input, h.out, logger, time.Second)

	require.NoError(t, m.Run(context.Background()))
	return h.out.String()
}

func addDune(t *testing.T, h *harness) {
	t.Helper()
	out := h.run(t,
		"2",
		"Dune",
		"Denis Villeneuve",
		"2021",
		"Sci-Fi, Adventure",
		"8.5",
		"Timothée Chalamet",
		"",
		"5",
	)
	require.Contains(t, out, "New movie added:")
}

func rowFor(t *testing.T, out, title string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, title+" ") {
			return line
		}
	}
	return ""
}

func TestMenuTextAndExit(t *testing.T) {
	h := newHarness(t, &recordingStore{})
	out := h.run(t, "5")

	assert.True(t, strings.HasPrefix(out, menuText+"\n"+promptChoice))
	assert.Contains(t, out, "||      1. View all movies        ||")
	assert.True(t, strings.HasSuffix(out, "Exiting the application.\n"))
}

func TestInvalidChoiceDoesNotTouchStore(t *testing.T) {
	store := &recordingStore{}
	h := newHarness(t, store)

	out := h.run(t, "9", " ", "5")

	assert.Equal(t, 2, strings.Count(out, invalidChoice))
	assert.Equal(t, 3, strings.Count(out, promptChoice), "menu is redrawn after each invalid choice")
	assert.Zero(t, store.calls)
}

func TestEndOfInputExits(t *testing.T) {
	h := newHarness(t, &recordingStore{})

	logger := log.NewWithOptions(h.logs, log.Options{})
	m := New(h.store, strings.NewReader(""), h.out, logger, time.Second)
	require.NoError(t, m.Run(context.Background()))

	assert.Contains(t, h.out.String(), "Exiting the application.")
}

func TestAddThenView(t *testing.T) {
	h := newFileHarness(t)
	addDune(t, h)

	out := h.run(t, "1", "", "5")

	assert.Contains(t, out, "All Movies:\n"+movie.Header()+"\n"+movie.Separator+"\n")
	row := rowFor(t, out, "Dune")
	require.NotEmpty(t, row)
	assert.Equal(t, movie.Row(movie.Movie{
		Title:       "Dune",
		Director:    "Denis Villeneuve",
		ReleaseYear: 2021,
		Genres:      []string{"Sci-Fi", "Adventure"},
	}), row)
	assert.Contains(t, out, pressEnter)
}

func TestAddEchoesFields(t *testing.T) {
	h := newFileHarness(t)
	out := h.run(t,
		"2", "Heat", "Michael Mann", "1995", "Crime,Thriller", "8.3, 9", "Al Pacino, Robert De Niro", "", "5",
	)

	assert.Contains(t, out, "New movie added:\n"+
		"Title: Heat\n"+
		"Director: Michael Mann\n"+
		"Release Year: 1995\n"+
		"Genres: Crime, Thriller\n"+
		"Ratings: 8.3, 9\n"+
		"Cast: Al Pacino, Robert De Niro\n")
}

func TestAddRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		year string
		rate string
		dir  string
	}{
		{"non numeric year", "soon", "8", "Someone"},
		{"non numeric rating", "2000", "8, great", "Someone"},
		{"missing director", "2000", "8", ""},
		{"missing year", "", "8", "Someone"},
		{"NaN rating", "2000", "NaN", "Someone"},
		{"infinite rating", "2000", "8, Inf", "Someone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newFileHarness(t)
			out := h.run(t, "2", "Broken", tt.dir, tt.year, "Drama", tt.rate, "", "", "5")

			assert.NotContains(t, out, "New movie added:")
			assert.Contains(t, h.logs.String(), "error adding a new movie")

			all, err := h.store.FindAll(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestAddAcceptsYearZero(t *testing.T) {
	h := newFileHarness(t)
	out := h.run(t, "2", "Unknown Era", "Someone", "0", "", "", "", "", "5")

	assert.Contains(t, out, "New movie added:\nTitle: Unknown Era\nDirector: Someone\nRelease Year: 0\n")

	all, err := h.store.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Zero(t, all[0].ReleaseYear)
}

func TestReadErrorsStopTheMenu(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"during add", "2\nDune\n", "read choice: boom"},
		{"during update", "3\nDune\nDrama\n", "read choice: boom"},
		{"during delete", "4\n", "read title: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &recordingStore{}
			h := newHarness(t, store)

			in := io.MultiReader(strings.NewReader(tt.input), iotest.ErrReader(errors.New("boom")))
			logger := log.NewWithOptions(h.logs, log.Options{})
			err := New(store, in, h.out, logger, time.Second).Run(context.Background())

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Zero(t, store.calls, "a failed read must not reach the store")
			assert.NotContains(t, h.out.String(), "Exiting the application.")
		})
	}
}

func TestUpdateOnlyGenres(t *testing.T) {
	h := newFileHarness(t)
	addDune(t, h)

	out := h.run(t, "3", "Dune", "Drama", "", "", "", "5")

	assert.Contains(t, out, "Movie updated successfully:\n"+
		"Genres: Drama\n"+
		"Ratings: 8.5\n"+
		"Cast: Timothée Chalamet\n")

	all, err := h.store.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, []string{"Drama"}, all[0].Genres)
	assert.Equal(t, []float64{8.5}, all[0].Ratings)
	assert.Equal(t, []string{"Timothée Chalamet"}, all[0].Cast)
}

func TestUpdateNotFound(t *testing.T) {
	h := newFileHarness(t)
	out := h.run(t, "3", "Nope", "Drama", "", "", "", "5")

	assert.Contains(t, out, "Movie not found.\n"+pressEnter)
	assert.NotContains(t, out, "Movie updated successfully:")
}

func TestUpdateInvalidRating(t *testing.T) {
	h := newFileHarness(t)
	addDune(t, h)

	out := h.run(t, "3", "Dune", "Drama", "ten", "", "", "5")

	assert.NotContains(t, out, "Movie updated successfully:")
	assert.Contains(t, h.logs.String(), "error updating the movie")

	all, err := h.store.FindAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Sci-Fi", "Adventure"}, all[0].Genres)
}

func TestDeleteNotFoundSkipsPause(t *testing.T) {
	h := newFileHarness(t)
	addDune(t, h)

	out := h.run(t, "4", "Alien", "5")

	assert.Contains(t, out, "No movies found with that title.\n"+menuText)
	assert.NotContains(t, out, pressEnter)

	all, err := h.store.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDeleteRemovesMovie(t *testing.T) {
	h := newFileHarness(t)
	addDune(t, h)

	out := h.run(t, "4", "Dune", "", "1", "", "5")

	assert.Contains(t, out, "Movie deleted successfully.\n"+pressEnter)
	assert.Empty(t, rowFor(t, out, "Dune"))
}

func TestDuneScenario(t *testing.T) {
	h := newFileHarness(t)
	addDune(t, h)

	out := h.run(t, "1", "", "5")
	assert.NotEmpty(t, rowFor(t, out, "Dune"))

	h.run(t, "3", "Dune", "Drama", "", "", "", "5")
	all, err := h.store.FindAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Drama"}, all[0].Genres)
	assert.Equal(t, []string{"Timothée Chalamet"}, all[0].Cast)

	h.run(t, "4", "Dune", "", "5")
	out = h.run(t, "1", "", "5")
	assert.Empty(t, rowFor(t, out, "Dune"))
}

func TestStoreErrorsAreLogged(t *testing.T) {
	store := &recordingStore{err: errors.New("connection refused")}
	h := newHarness(t, store)

	out := h.run(t,
		"1", "",
		"2", "Dune", "Denis Villeneuve", "2021", "", "", "", "",
		"3", "Dune", "Drama", "", "", "",
		"4", "Dune", "",
		"5",
	)

	logs := h.logs.String()
	assert.Contains(t, logs, "error viewing all movies")
	assert.Contains(t, logs, "error adding a new movie")
	assert.Contains(t, logs, "error updating the movie")
	assert.Contains(t, logs, "error deleting movie")
	assert.Contains(t, logs, "connection refused")

	assert.Equal(t, 4, store.calls)
	assert.Equal(t, 4, strings.Count(out, pressEnter))
	assert.NotContains(t, out, "All Movies:")
	assert.True(t, strings.HasSuffix(out, "Exiting the application.\n"))
}
