package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"filewipe_enterprise/internal/security"
	"filewipe_enterprise/internal/wipe"
)

// InteractiveMenu реализует интерактивное CLI меню
type InteractiveMenu struct {
	ctx    context.Context
	cancel context.CancelFunc
	in     *bufio.Reader
	out    io.Writer
}

// NewInteractiveMenu создает новое интерактивное меню
func NewInteractiveMenu(ctx context.Context, in io.Reader, out io.Writer) *InteractiveMenu {
	ctx, cancel := context.WithCancel(ctx)
	return &InteractiveMenu{
		ctx:    ctx,
		cancel: cancel,
		in:     bufio.NewReader(in),
		out:    out,
	}
}

func newInteractiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Интерактивное меню",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			menu := NewInteractiveMenu(cmd.Context(), os.Stdin, cmd.OutOrStdout())
			return menu.Run()
		},
	}
}

// Run запускает интерактивное меню
func (im *InteractiveMenu) Run() error {
	// Настройка обработки Ctrl+C
	im.setupSignalHandling()
	defer im.cancel()

	for {
		if err := im.ctx.Err(); err != nil {
			fmt.Fprintln(im.out, "\nПрограмма завершена пользователем")
			return nil
		}
		if err := im.showMainMenu(); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				fmt.Fprintln(im.out, "\nПрограмма завершена пользователем")
				return nil
			}
			fmt.Fprintf(im.out, "Ошибка: %v\n", err)
			im.pause()
		}
	}
}

// setupSignalHandling настраивает обработку сигналов
func (im *InteractiveMenu) setupSignalHandling() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
			fmt.Fprintln(im.out, "\n\nПолучен сигнал прерывания...")
			fmt.Fprintln(im.out, "Затирание остановится после текущего файла")
			im.cancel()
		case <-im.ctx.Done():
		}
	}()
}

// showMainMenu показывает главное меню
func (im *InteractiveMenu) showMainMenu() error {
	im.clearScreen()
	fmt.Fprintln(im.out, "==========================================")
	fmt.Fprintf(im.out, "    %s v%s\n", AppName, Version)
	fmt.Fprintln(im.out, "    Интерактивное меню")
	fmt.Fprintln(im.out, "==========================================")
	fmt.Fprintf(im.out, "    ОС: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintln(im.out)
	fmt.Fprintln(im.out, "1. Затереть файл или папку")
	fmt.Fprintln(im.out, "2. Показать файлы в папке")
	fmt.Fprintln(im.out, "3. Выход")
	fmt.Fprintln(im.out)

	choice, err := im.prompt("Выберите опцию (1-3): ")
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		return im.showWipeMenu()
	case "2":
		return im.showScan()
	case "3":
		im.cancel()
		return context.Canceled
	default:
		fmt.Fprintln(im.out, "Неверный выбор. Попробуйте снова.")
		im.pause()
		return nil
	}
}

// askPath спрашивает путь, пока он не пройдет проверку
func (im *InteractiveMenu) askPath() (string, error) {
	for {
		input, err := im.prompt("\nВведите путь к файлу или папке: ")
		if err != nil {
			return "", err
		}
		path := normalizePath(input)
		v := security.ValidatePath(path, cfg)
		if v.Valid {
			fmt.Fprintf(im.out, "Путь найден: %s\n", path)
			return path, nil
		}
		fmt.Fprintf(im.out, "Неверный путь: %s (%s). Попробуйте снова.\n", path, v.Reason)
	}
}

func (im *InteractiveMenu) askStrategy() (wipe.StrategyID, error) {
	fmt.Fprintln(im.out, "\nВыберите стратегию затирания:")
	for i, d := range wipe.Strategies() {
		fmt.Fprintf(im.out, "  %d. %s\n", i+1, d.DisplayName)
	}
	for {
		choice, err := im.prompt("Ваш выбор [1-3]: ")
		if err != nil {
			return "", err
		}
		id, err := wipe.ParseStrategyID(choice)
		if err == nil {
			return id, nil
		}
		fmt.Fprintln(im.out, "Неверный выбор. Попробуйте снова.")
	}
}

func (im *InteractiveMenu) askPasses(def int) (int, error) {
	for {
		input, err := im.prompt(fmt.Sprintf("Количество проходов (по умолчанию %d): ", def))
		if err != nil {
			return 0, err
		}
		if input == "" {
			return def, nil
		}
		n, err := strconv.Atoi(input)
		if err != nil || n < 1 {
			fmt.Fprintln(im.out, "Нужно целое число >= 1")
			continue
		}
		return n, nil
	}
}

func (im *InteractiveMenu) askYesNo(message string, def bool) (bool, error) {
	hint := " (y/N): "
	if def {
		hint = " (Y/n): "
	}
	input, err := im.prompt(message + hint)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(input) {
	case "":
		return def, nil
	case "y", "yes", "д":
		return true, nil
	default:
		return false, nil
	}
}

// showWipeMenu проводит пользователя через выбор пути, стратегии и параметров
func (im *InteractiveMenu) showWipeMenu() error {
	path, err := im.askPath()
	if err != nil {
		return err
	}

	id, err := im.askStrategy()
	if err != nil {
		return err
	}
	desc, _ := wipe.Describe(id)
	fmt.Fprintf(im.out, "Выбрано: %s\n", desc.DisplayName)

	passes := desc.FixedPassCount
	if passes == 0 {
		if passes, err = im.askPasses(cfg.Wipe.Passes); err != nil {
			return err
		}
	}

	del, err := im.askYesNo("Удалить файлы после затирания?", cfg.Wipe.DeleteAfterWipe)
	if err != nil {
		return err
	}
	hexdump, err := im.askYesNo("Показать hex-дамп до и после?", false)
	if err != nil {
		return err
	}

	wc := wipe.WipeConfiguration{
		StrategyID:      id,
		Passes:          passes,
		ChunkSize:       cfg.Wipe.ChunkSize,
		DeleteAfterWipe: del,
	}
	fmt.Fprintf(im.out, "\nМетод: %s, проходов: %d, блок: %d байт\n", desc.DisplayName, passes, wc.ChunkSize)

	_, err = executeWipe(im.ctx, path, wc, wipeOptions{hexdump: hexdump}, im.in, im.out)
	if err != nil && !errors.Is(err, errFailedRecords) {
		return err
	}
	im.pause()
	return nil
}

func (im *InteractiveMenu) showScan() error {
	path, err := im.askPath()
	if err != nil {
		return err
	}
	targets, err := wipe.NewScanner(logger).Scan(path)
	if err != nil {
		return err
	}
	fmt.Fprintln(im.out)
	printTargets(im.out, targets)
	im.pause()
	return nil
}

// Вспомогательные функции
func (im *InteractiveMenu) clearScreen() {
	fmt.Fprint(im.out, "\033[H\033[2J")
}

func (im *InteractiveMenu) prompt(message string) (string, error) {
	fmt.Fprint(im.out, message)
	input, err := im.in.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func (im *InteractiveMenu) pause() {
	fmt.Fprint(im.out, "\nНажмите Enter для продолжения...")
	im.in.ReadString('\n')
}

// checkInteractiveMode проверяет, нужно ли запускать интерактивное меню
func checkInteractiveMode() bool {
	// Если нет аргументов командной строки - запускаем интерактивное меню
	return len(os.Args) == 1
}

// initInteractiveMode инициализирует и запускает интерактивное меню
func initInteractiveMode() {
	if err := loadRuntime(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(EXIT_ERROR)
	}
	defer logger.Close()

	menu := NewInteractiveMenu(context.Background(), os.Stdin, os.Stdout)
	if err := menu.Run(); err != nil {
		fmt.Printf("Ошибка интерактивного меню: %v\n", err)
		logger.Close()
		os.Exit(EXIT_ERROR)
	}
}
