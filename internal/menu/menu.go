package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"movies/internal/storage"
)

const menuText = `
====================================
||                                ||
||      1. View all movies        ||
||      2. Add a new movie        ||
||      3. Update a movie         ||
||      4. Delete a movie         ||
||      5. Exit                   ||
||                                ||
====================================`

const (
	promptChoice  = "Select an action: "
	invalidChoice = "Invalid choice. Please select a valid option."
	pressEnter    = "\nPress Enter to return to the menu."
)

// Menu интерактивное меню поверх одной коллекции фильмов.
// все действия выполняются последовательно в вызывающей горутине
type Menu struct {
	store     storage.Store
	in        *bufio.Reader
	out       io.Writer
	logger    *log.Logger
	opTimeout time.Duration
}

func New(store storage.Store, in io.Reader, out io.Writer, logger *log.Logger, opTimeout time.Duration) *Menu {
	return &Menu{
		store:     store,
		in:        bufio.NewReader(in),
		out:       out,
		logger:    logger,
		opTimeout: opTimeout,
	}
}

// Run показывает меню и выполняет действия, пока не выбран выход
// или не закончился ввод. хранилище закрывает вызывающий
func (m *Menu) Run(ctx context.Context) error {
	for {
		fmt.Fprintln(m.out, menuText)

		choice, err := m.prompt(promptChoice)
		if errors.Is(err, io.EOF) {
			m.logger.Debug("input closed, exiting")
			m.exit()
			return nil
		}
		if err != nil {
			return fmt.Errorf("read choice: %w", err)
		}

		switch strings.TrimSpace(choice) {
		case "1":
			m.ViewAllMovies(ctx)
		case "2":
			m.AddNewMovie(ctx)
		case "3":
			m.UpdateMovie(ctx)
		case "4":
			answers, err := m.promptAll("Enter the title of the movie to delete: ")
			if err != nil {
				return fmt.Errorf("read title: %w", err)
			}
			m.DeleteMovie(ctx, answers[0])
		case "5":
			m.exit()
			return nil
		default:
			fmt.Fprintln(m.out, invalidChoice)
		}
	}
}

func (m *Menu) exit() {
	fmt.Fprintln(m.out, "Exiting the application.")
}

// prompt печатает приглашение и читает одну строку без перевода строки.
// последняя строка без \n тоже считается введенной
func (m *Menu) prompt(text string) (string, error) {
	fmt.Fprint(m.out, text)

	line, err := m.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptAll задает вопросы по очереди. конец ввода дает пустые ответы,
// любая другая ошибка чтения прерывает опрос
func (m *Menu) promptAll(texts ...string) ([]string, error) {
	answers := make([]string, len(texts))
	for i, text := range texts {
		answer, err := m.prompt(text)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		answers[i] = answer
	}
	return answers, nil
}

// pause ждет Enter перед возвратом в меню
func (m *Menu) pause() {
	fmt.Fprintln(m.out, pressEnter)
	_, _ = m.prompt("")
}

func (m *Menu) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.opTimeout)
}
