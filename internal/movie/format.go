package movie

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	titleWidth    = 30
	directorWidth = 20
	yearWidth     = 6

	titleMax     = 27
	titleKeep    = 24
	directorMax  = 17
	directorKeep = 14
)

// Separator строка между строками таблицы
var Separator = strings.Repeat("-", 80)

// Header заголовок таблицы для просмотра всех фильмов
func Header() string {
	return fmt.Sprintf("%-*s%-*s%-*s%s",
		titleWidth, "Title",
		directorWidth, "Director",
		yearWidth, "Year",
		"Genres")
}

// Row одна строка таблицы. длинные title и director обрезаются с "..."
// ширина считается в рунах, как и у fmt
func Row(m Movie) string {
	return fmt.Sprintf("%-*s%-*s%-*d%s",
		titleWidth, Truncate(m.Title, titleMax, titleKeep),
		directorWidth, Truncate(m.Director, directorMax, directorKeep),
		yearWidth, m.ReleaseYear,
		JoinList(m.Genres))
}

// Truncate если s длиннее limit рун, оставляет первые keep рун и добавляет "..."
func Truncate(s string, limit, keep int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:keep]) + "..."
}

func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

// JoinRatings печатает числа в кратчайшей форме: 8.5, 9, 7.25
func JoinRatings(ratings []float64) string {
	parts := make([]string, len(ratings))
	for i, r := range ratings {
		parts[i] = strconv.FormatFloat(r, 'f', -1, 64)
	}
	return strings.Join(parts, ", ")
}
