package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"movies/internal/movie"
	"movies/internal/storage"
)

// ViewAllMovies печатает таблицу всех фильмов в порядке хранилища
func (m *Menu) ViewAllMovies(ctx context.Context) {
	defer m.pause()

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	movies, err := m.store.FindAll(ctx)
	if err != nil {
		m.logger.Error("error viewing all movies", "err", err)
		return
	}

	fmt.Fprintln(m.out, "All Movies:")
	fmt.Fprintln(m.out, movie.Header())
	fmt.Fprintln(m.out, movie.Separator)
	for _, mv := range movies {
		fmt.Fprintln(m.out, movie.Row(mv))
		fmt.Fprintln(m.out, movie.Separator)
	}
}

// AddNewMovie спрашивает шесть полей и добавляет фильм.
// год и рейтинги должны быть числами, иначе ничего не сохраняется
func (m *Menu) AddNewMovie(ctx context.Context) {
	defer m.pause()

	answers, err := m.promptAll(
		"Title: ",
		"Director: ",
		"Release Year: ",
		"Genres (comma-separated): ",
		"Ratings (comma-separated): ",
		"Cast (comma-separated): ",
	)
	if err != nil {
		m.logger.Error("error reading input", "err", err)
		return
	}
	title, director, year, genres, ratings, cast := answers[0], answers[1], answers[2], answers[3], answers[4], answers[5]

	mv := movie.Movie{
		Title:    title,
		Director: director,
		Genres:   movie.ParseList(genres),
		Cast:     movie.ParseList(cast),
	}

	if mv.ReleaseYear, err = movie.ParseYear(year); err != nil {
		m.logger.Error("error adding a new movie", "err", err)
		return
	}
	if mv.Ratings, err = movie.ParseRatings(ratings); err != nil {
		m.logger.Error("error adding a new movie", "err", err)
		return
	}

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	added, err := m.store.Insert(ctx, mv)
	if err != nil {
		m.logger.Error("error adding a new movie", "title", title, "err", err)
		return
	}

	fmt.Fprintln(m.out, "New movie added:")
	fmt.Fprintf(m.out, "Title: %s\n", added.Title)
	fmt.Fprintf(m.out, "Director: %s\n", added.Director)
	fmt.Fprintf(m.out, "Release Year: %d\n", added.ReleaseYear)
	fmt.Fprintf(m.out, "Genres: %s\n", movie.JoinList(added.Genres))
	fmt.Fprintf(m.out, "Ratings: %s\n", movie.JoinRatings(added.Ratings))
	fmt.Fprintf(m.out, "Cast: %s\n", movie.JoinList(added.Cast))
}

// UpdateMovie заменяет genres, ratings и cast у первого фильма с таким title.
// пустой ответ оставляет поле как есть
func (m *Menu) UpdateMovie(ctx context.Context) {
	defer m.pause()

	answers, err := m.promptAll(
		"Enter the title of the movie to update: ",
		"Enter new genres (comma-separated if more than one, leave blank to keep current): ",
		"Enter new ratings (comma-separated if more than one, leave blank to keep current): ",
		"Enter new cast (comma-separated if more than one, leave blank to keep current): ",
	)
	if err != nil {
		m.logger.Error("error reading input", "err", err)
		return
	}
	title, genres, ratings, cast := answers[0], answers[1], answers[2], answers[3]

	var patch movie.Patch
	if strings.TrimSpace(genres) != "" {
		patch.Genres = movie.ParseList(genres)
	}
	if strings.TrimSpace(ratings) != "" {
		r, err := movie.ParseRatings(ratings)
		if err != nil {
			m.logger.Error("error updating the movie", "title", title, "err", err)
			return
		}
		patch.Ratings = r
	}
	if strings.TrimSpace(cast) != "" {
		patch.Cast = movie.ParseList(cast)
	}

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	updated, err := m.store.UpdateByTitle(ctx, title, patch)
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintln(m.out, "Movie not found.")
		return
	}
	if err != nil {
		m.logger.Error("error updating the movie", "title", title, "err", err)
		return
	}

	fmt.Fprintln(m.out, "Movie updated successfully:")
	fmt.Fprintf(m.out, "Genres: %s\n", movie.JoinList(updated.Genres))
	fmt.Fprintf(m.out, "Ratings: %s\n", movie.JoinRatings(updated.Ratings))
	fmt.Fprintf(m.out, "Cast: %s\n", movie.JoinList(updated.Cast))
}

// DeleteMovie удаляет первый фильм с точно таким title.
// если ничего не удалено, сразу возвращается в меню без паузы
func (m *Menu) DeleteMovie(ctx context.Context, title string) {
	ctx, cancel := m.opContext(ctx)
	defer cancel()

	n, err := m.store.DeleteByTitle(ctx, title)
	if err != nil {
		m.logger.Error("error deleting movie", "title", title, "err", err)
		m.pause()
		return
	}

	if n == 0 {
		fmt.Fprintln(m.out, "No movies found with that title.")
		return
	}

	fmt.Fprintln(m.out, "Movie deleted successfully.")
	m.pause()
}
