package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"studybot-client/internal/app"
	"studybot-client/internal/domain"
	"studybot-client/internal/render"
)

// NewChatCmd builds the interactive chat REPL.
func NewChatCmd(configPath, serverURL, token *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the tutor, take quizzes, upload study material",
		Long: `Interactive session with the Study Bot tutor.

Plain lines are sent as chat messages. Commands:
  /quiz [topic] [count]   generate and take a multiple-choice quiz
  /upload <file>          upload a study PDF for indexing
  /quit                   end the session`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), *configPath, *serverURL, *token)
		},
	}
	cmd.Flags().StringVar(&quizTopic, "topic", "", "default quiz topic")
	cmd.Flags().IntVar(&quizCount, "count", 0, "default quiz question count")
	return cmd
}

func runChat(ctx context.Context, configPath, serverURL, token string) error {
	session, client, cfg, err := buildSession(configPath, serverURL, token)
	if err != nil {
		return err
	}
	if quizTopic != "" {
		cfg.Quiz.Topic = quizTopic
	}
	if quizCount > 0 {
		cfg.Quiz.Count = quizCount
	}

	if err := client.Health(ctx); err != nil {
		log.Printf("remote service unreachable: %v", err)
	}
	if err := session.Hydrate(ctx); err != nil {
		log.Printf("could not fetch history: %v", err)
	}

	fmt.Println(render.TranscriptView(session.Transcript().Snapshot()))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return nil
		case strings.HasPrefix(line, "/quiz"):
			settings := parseQuizArgs(strings.TrimPrefix(line, "/quiz"), cfg.Quiz.Topic, cfg.Quiz.Count)
			if !session.RequestQuiz(ctx, settings) {
				fmt.Println(render.Notice("A request is already in flight."))
				continue
			}
			printLastExchange(session)
			runQuizLoop(scanner, session)
		case strings.HasPrefix(line, "/upload"):
			path := strings.TrimSpace(strings.TrimPrefix(line, "/upload"))
			if path == "" {
				fmt.Println(render.Notice("Usage: /upload <file>"))
				continue
			}
			uploadFile(ctx, session, path)
		default:
			if !session.SendMessage(ctx, line) {
				fmt.Println(render.Notice("A request is already in flight."))
				continue
			}
			printLastExchange(session)
		}
	}
}

// parseQuizArgs interprets "/quiz [topic words] [count]". A trailing integer
// is the question count; everything before it is the topic.
func parseQuizArgs(args, defaultTopic string, defaultCount int) domain.QuizSettings {
	settings := domain.QuizSettings{Topic: defaultTopic, Count: defaultCount}
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return settings
	}
	if n, err := strconv.Atoi(fields[len(fields)-1]); err == nil {
		settings.Count = n
		fields = fields[:len(fields)-1]
	}
	if len(fields) > 0 {
		settings.Topic = strings.Join(fields, " ")
	}
	return settings
}

// runQuizLoop walks the active quiz question by question. Answers are given
// by option number; "q" abandons the run without scoring.
func runQuizLoop(scanner *bufio.Scanner, session *app.Session) {
	for {
		q, index, total, ok := session.ActiveQuestion()
		if !ok {
			break
		}
		fmt.Println()
		fmt.Println(render.Question(q, index, total))
		fmt.Print("answer> ")
		if !scanner.Scan() {
			session.AbandonQuiz()
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "q" {
			session.AbandonQuiz()
			fmt.Println(render.Notice("Quiz abandoned."))
			return
		}
		choice, err := strconv.Atoi(input)
		if err != nil || choice < 1 || choice > len(q.Options) {
			fmt.Println(render.Notice(fmt.Sprintf("Enter a number between 1 and %d, or q to quit.", len(q.Options))))
			continue
		}
		result, err := session.SubmitQuizAnswer(q.Options[choice-1])
		if err != nil {
			fmt.Println(render.Notice(err.Error()))
			return
		}
		if result != nil {
			fmt.Println()
			fmt.Println(render.Result(result))
			session.DismissResult()
			return
		}
	}
}

func uploadFile(ctx context.Context, session *app.Session, path string) {
	file, err := os.Open(path)
	if err != nil {
		fmt.Println(render.Notice(fmt.Sprintf("Cannot open %s: %v", path, err)))
		return
	}
	defer file.Close()

	if err := session.UploadDocument(ctx, filepath.Base(path), file); err != nil {
		fmt.Println(render.Notice("Upload failed. Please try again."))
		log.Printf("upload failed: %v", err)
		return
	}
	fmt.Println(render.Notice("Document uploaded and indexed."))
}

func printLastExchange(session *app.Session) {
	snapshot := session.Transcript().Snapshot()
	if len(snapshot) == 0 {
		return
	}
	fmt.Println(render.Exchange(snapshot[len(snapshot)-1]))
}
