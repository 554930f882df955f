package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-candidate/internal/config"
	"github.com/stemsi/exstem-candidate/internal/logger"
	"github.com/stemsi/exstem-candidate/internal/model"
	"github.com/stemsi/exstem-candidate/internal/repository"
	"github.com/stemsi/exstem-candidate/internal/service"
	"github.com/stemsi/exstem-candidate/internal/session"
	"golang.org/x/term"
)

const helpText = `Commands:
  a <letter>  select an option          r   mark for review
  n           next question             p   previous question
  m           mark and next             g N go to question N
  c           toggle comprehension      s   submit answers
  h           help                      q   quit`

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	// stdout belongs to the exam screen.
	log := logger.SetupWriter(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	// ─── Access Token ──────────────────────────────────────────────────
	token := cfg.AccessToken
	if token == "" && term.IsTerminal(int(syscall.Stdin)) {
		fmt.Print("Enter access token: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			fmt.Println("Error reading access token")
			return
		}
		token = strings.TrimSpace(string(raw))
	}

	// ─── Wire Session ──────────────────────────────────────────────────
	api := repository.NewAPIClient(cfg, log).WithToken(token)
	store := session.NewStore(log)
	countdown := session.NewCountdown(store, cfg.TickInterval, log)
	nav := session.NewNavigator(store)
	examService := service.NewExamService(store, countdown, repository.NewQuestionRepository(api), log)
	submissionService := service.NewSubmissionService(store, repository.NewAnswerRepository(api), cfg.ResultURL, log)
	defer examService.Stop()

	ctx := context.Background()

	fmt.Println("=== ExStem Exam ===")
	fmt.Println("Loading questions...")
	state, err := examService.Start(ctx)
	if err != nil {
		if errors.Is(err, model.ErrEmptyQuestionSet) {
			fmt.Println("No questions found.")
		} else {
			fmt.Println("Error:", state.FetchError)
		}
		return
	}

	go watchExpiry(store)

	fmt.Println(helpText)
	render(os.Stdout, store.State())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "a":
			if len(fields) < 2 {
				fmt.Println("Usage: a <letter>")
				continue
			}
			selectLetter(store, fields[1])
		case "r":
			store.MarkForReview()
		case "n":
			nav.NextOrSubmit()
		case "p":
			nav.Previous()
		case "m":
			nav.MarkAndAdvance()
		case "g":
			if len(fields) < 2 {
				fmt.Println("Usage: g <number>")
				continue
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Println("Error: question number must be numeric")
				continue
			}
			nav.GoTo(n - 1)
		case "c":
			st := store.State()
			if !store.ShowComprehension(!st.ShowComprehension) {
				fmt.Println("This question has no comprehension paragraph.")
			}
		case "s":
			if done := submit(ctx, store, submissionService, scanner); done {
				return
			}
			continue
		case "h":
			fmt.Println(helpText)
			continue
		case "q":
			fmt.Println("Exam closed without submitting.")
			return
		default:
			fmt.Println("Unknown command, type h for help")
			continue
		}

		st := store.State()
		if st.ShowSubmitModal {
			// Next on the last question lands here.
			if done := submit(ctx, store, submissionService, scanner); done {
				return
			}
			continue
		}
		render(os.Stdout, st)
	}
}

func selectLetter(store *session.Store, letter string) {
	st := store.State()
	if st.Current == nil {
		return
	}
	for _, opt := range st.Current.Options {
		if strings.EqualFold(opt.Letter, letter) {
			store.SelectOption(opt.ID)
			return
		}
	}
	fmt.Printf("No option %q\n", letter)
}

// submit shows the confirmation and, once confirmed, sends the answers. It
// reports true when the exam is finished.
func submit(ctx context.Context, store *session.Store, svc *service.SubmissionService, scanner *bufio.Scanner) bool {
	store.OpenSubmitModal()
	renderConfirm(os.Stdout, store.State())

	fmt.Print("Submit now? [y/N]: ")
	if !scanner.Scan() || !strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
		store.CloseSubmitModal()
		render(os.Stdout, store.State())
		return false
	}

	fmt.Println("Submitting...")
	result, err := svc.Submit(ctx)
	if err != nil {
		msg := store.State().SubmitError
		if msg == "" {
			msg = err.Error()
		}
		fmt.Println("Error:", msg)
		store.CloseSubmitModal()
		return false
	}

	renderResult(os.Stdout, *result)
	return true
}

// watchExpiry prints a one-time notice when the countdown reaches zero.
func watchExpiry(store *session.Store) {
	events, cancel := store.Subscribe()
	defer cancel()
	for ev := range events {
		switch ev.Type {
		case model.EventExpired:
			fmt.Println("\nTime is up. Submit your answers with s.")
			return
		case model.EventClosed:
			return
		}
	}
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
