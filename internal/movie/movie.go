package movie

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrMissingField  = errors.New("required field is missing")
	ErrInvalidNumber = errors.New("invalid number")
)

type Movie struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Director    string    `json:"director"`
	ReleaseYear int       `json:"releaseYear"`
	Genres      []string  `json:"genres"`
	Ratings     []float64 `json:"ratings"`
	Cast        []string  `json:"cast"`
}

// Validate проверяет обязательные строковые поля title и director.
// releaseYear есть у любого Movie, 0 допустимый год; пустой ввод года
// отсекает ParseYear
func (m Movie) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("%w: title", ErrMissingField)
	}
	if strings.TrimSpace(m.Director) == "" {
		return fmt.Errorf("%w: director", ErrMissingField)
	}
	return nil
}

// Normalize заменяет nil списки на пустые, чтобы в хранилище были массивы
func (m Movie) Normalize() Movie {
	if m.Genres == nil {
		m.Genres = []string{}
	}
	if m.Ratings == nil {
		m.Ratings = []float64{}
	}
	if m.Cast == nil {
		m.Cast = []string{}
	}
	return m
}

// Patch частичное обновление. nil поле означает "оставить как есть",
// не-nil (даже пустой) список заменяет текущий целиком
type Patch struct {
	Genres  []string
	Ratings []float64
	Cast    []string
}

func (p Patch) Empty() bool {
	return p.Genres == nil && p.Ratings == nil && p.Cast == nil
}

// Fields возвращает заданные поля под именами полей документа
func (p Patch) Fields() map[string]any {
	fields := make(map[string]any, 3)
	if p.Genres != nil {
		fields["genres"] = p.Genres
	}
	if p.Ratings != nil {
		fields["ratings"] = p.Ratings
	}
	if p.Cast != nil {
		fields["cast"] = p.Cast
	}
	return fields
}

// Apply возвращает копию m с замененными полями
func (p Patch) Apply(m Movie) Movie {
	if p.Genres != nil {
		m.Genres = p.Genres
	}
	if p.Ratings != nil {
		m.Ratings = p.Ratings
	}
	if p.Cast != nil {
		m.Cast = p.Cast
	}
	return m
}

// ParseList режет строку по запятым и убирает пробелы
// пустые элементы выкидываются, результат никогда не nil
func ParseList(s string) []string {
	items := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// ParseRatings то же что ParseList, но каждый элемент число с плавающей точкой
func ParseRatings(s string) ([]float64, error) {
	parts := ParseList(s)
	ratings := make([]float64, 0, len(parts))
	for _, part := range parts {
		r, err := strconv.ParseFloat(part, 64)
		// ParseFloat принимает NaN и Inf, в хранилище им не место
		if err != nil || math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, fmt.Errorf("%w: rating %q", ErrInvalidNumber, part)
		}
		ratings = append(ratings, r)
	}
	return ratings, nil
}

// ParseYear парсит год в десятичной системе. пустая строка значит,
// что обязательное поле releaseYear не задано
func ParseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: releaseYear", ErrMissingField)
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: release year %q", ErrInvalidNumber, s)
	}
	return year, nil
}
