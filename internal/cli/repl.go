package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/toria/internal/presentation/tui"
	"github.com/aretw0/toria/pkg/domain"
)

// Chatter is the part of the Assistant the REPL drives.
type Chatter interface {
	Chat(ctx context.Context, userID, message string, mode domain.Mode, itineraryID *string) domain.ChatResponse
	History(ctx context.Context, userID string, mode domain.Mode) ([]domain.Message, error)
}

// ChatOptions configures an interactive session.
type ChatOptions struct {
	UserID      string
	Mode        domain.Mode
	ItineraryID string
	JSON        bool // one JSON response per line, no prompts
	Headless    bool // no prompts or decorations
	Renderer    func(string) (string, error)
}

const replHelp = `Commands:
  /mode <profile_dayplans|start_my_day|general>  switch mode
  /itinerary <id>                                 select a day plan ("-" clears it)
  /history                                        show this thread
  /exit                                           quit`

// RunChat reads messages from in, one per line, and writes replies to out
// until EOF, /exit or ctx is done.
func RunChat(ctx context.Context, assistant Chatter, in io.Reader, out io.Writer, opts ChatOptions) error {
	if opts.Mode == "" {
		opts.Mode = domain.ModeGeneral
	}
	render := opts.Renderer
	if render == nil || opts.JSON || opts.Headless {
		render = tui.PlainRenderer
	}
	interactive := !opts.JSON && !opts.Headless

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprintf(out, "[%s] > ", opts.Mode)
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			done, err := runCommand(ctx, assistant, out, &opts, line)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
			if done {
				return nil
			}
			continue
		}

		if opts.Mode == domain.ModeStartMyDay && opts.ItineraryID == "" {
			fmt.Fprintf(out, "error: %v (use /itinerary <id>)\n", domain.ErrItineraryRequired)
			continue
		}

		var id *string
		if opts.ItineraryID != "" {
			id = &opts.ItineraryID
		}
		resp := assistant.Chat(ctx, opts.UserID, line, opts.Mode, id)

		if opts.JSON {
			if err := json.NewEncoder(out).Encode(resp); err != nil {
				return err
			}
			continue
		}

		text, err := render(tui.FormatResponse(resp))
		if err != nil {
			text = tui.FormatResponse(resp)
		}
		fmt.Fprintln(out, strings.TrimRight(text, "\n"))
	}
}

func runCommand(ctx context.Context, assistant Chatter, out io.Writer, opts *ChatOptions, line string) (bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/exit", "/quit":
		return true, nil
	case "/help":
		fmt.Fprintln(out, replHelp)
	case "/mode":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: /mode <mode>")
		}
		opts.Mode = domain.ParseMode(fields[1])
		PrintSystemMessage(out, "Mode: %s", opts.Mode)
	case "/itinerary":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: /itinerary <id>")
		}
		opts.ItineraryID = fields[1]
		if opts.ItineraryID == "-" {
			opts.ItineraryID = ""
		}
		PrintSystemMessage(out, "Itinerary: %q", opts.ItineraryID)
	case "/history":
		msgs, err := assistant.History(ctx, opts.UserID, opts.Mode)
		if err != nil && err != domain.ErrSessionNotFound {
			return false, err
		}
		for _, m := range msgs {
			fmt.Fprintf(out, "%s: %s\n", m.Role, m.Content)
		}
	default:
		return false, fmt.Errorf("unknown command %s (try /help)", fields[0])
	}
	return false, nil
}
