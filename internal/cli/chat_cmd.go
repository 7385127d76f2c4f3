// internal/cli/chat_cmd.go
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pump-advisor/internal/advisor/chat"
	"pump-advisor/internal/advisor/conversation"
	"pump-advisor/internal/advisor/session"
	"pump-advisor/internal/advisor/sizing"
	"pump-advisor/internal/common/logger"
	"pump-advisor/internal/models"
	gr "pump-advisor/internal/workers/ai-conversation/generate-reply"
)

// scriptedReplies answers without a model: it reads back whatever the
// reply context asks the assistant to say.
type scriptedReplies struct{}

func (scriptedReplies) Generate(_ context.Context, systemContext string, _ []models.Turn) (string, error) {
	const marker = "Next question: "
	if i := strings.Index(systemContext, marker); i >= 0 {
		line := systemContext[i+len(marker):]
		if j := strings.IndexByte(line, '\n'); j >= 0 {
			line = line[:j]
		}
		return line, nil
	}
	if i := strings.Index(systemContext, "Current stage:"); i >= 0 {
		rest := systemContext[i:]
		if j := strings.IndexByte(rest, '\n'); j >= 0 {
			return strings.TrimSpace(rest[j:]), nil
		}
	}
	return strings.TrimSpace(systemContext), nil
}

type replyLoggerAdapter struct {
	logger.Logger
}

func (a *replyLoggerAdapter) With(fields map[string]interface{}) gr.Logger {
	return &replyLoggerAdapter{a.Logger.With(fields)}
}

func newChatCmd(app *App) *cobra.Command {
	var (
		provider   string
		genaiURL   string
		genaiKey   string
		genaiModel string
		showState  bool
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Run an intake conversation in the terminal",
		Long: "Runs the intake dialogue against an in-memory session. Without --genai-url or " +
			"--genai-provider gemini the assistant reads back its scripted questions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := app.catalog()
			if err != nil {
				return err
			}

			cfg := gr.LoadConfig()
			cfg.GenAIBaseURL = genaiURL
			cfg.APIKey = genaiKey
			cfg.Model = genaiModel

			var replies chat.ReplyGenerator = scriptedReplies{}
			switch {
			case provider == gr.ProviderGemini:
				h, err := gr.NewGeminiHandler(cmd.Context(), cfg, &replyLoggerAdapter{app.logger()})
				if err != nil {
					return err
				}
				replies = h
			case genaiURL != "":
				replies = gr.NewHandler(cfg, &replyLoggerAdapter{app.logger()})
			}

			log := app.logger()
			svc := chat.NewService(chat.Deps{
				Store:   session.NewMemoryStore(24*time.Hour, nil),
				Machine: conversation.NewMachine(cat, sizing.Options{PeakSunHours: app.PeakSunHours}, log),
				Replies: replies,
				Log:     log,
			}, chat.Options{})

			return runChat(cmd.Context(), app, svc, showState)
		},
	}
	cmd.Flags().StringVar(&provider, "genai-provider", gr.ProviderHTTP, "http | gemini")
	cmd.Flags().StringVar(&genaiURL, "genai-url", "", "chat completions base URL")
	cmd.Flags().StringVar(&genaiKey, "genai-key", "", "chat completions API key")
	cmd.Flags().StringVar(&genaiModel, "genai-model", "", "model name")
	cmd.Flags().BoolVar(&showState, "state", false, "print the collected data after each turn")
	return cmd
}

func runChat(ctx context.Context, app *App, svc *chat.Service, showState bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	id := uuid.NewString()
	if _, _, err := svc.Open(ctx, id); err != nil {
		return err
	}

	fmt.Fprintln(app.Out, "Type your answers. An empty line or \"quit\" ends the chat.")
	fmt.Fprintln(app.Out, "assistant>", conversation.NextQuestion(models.StageGreeting))

	scanner := bufio.NewScanner(app.In)
	for {
		fmt.Fprint(app.Out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(app.Out)
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.EqualFold(text, "quit") {
			return nil
		}

		res, err := svc.HandleTurn(ctx, id, text)
		if err != nil {
			fmt.Fprintln(app.Out, "error:", err)
			continue
		}
		fmt.Fprintln(app.Out, "assistant>", res.Reply)
		if showState {
			raw, _ := json.Marshal(res.Data)
			fmt.Fprintf(app.Out, "  [%s] %s\n", res.Stage, raw)
		}
	}
}
