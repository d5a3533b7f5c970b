// Command chat is a terminal client for the assistant backend. The history
// placement is chosen per deployment: server mode keeps conversations on the
// backend and streams replies, client mode keeps them in a local session file
// and resends history with each request.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/itsmezubair/assistant/internal/controller"
	"github.com/itsmezubair/assistant/internal/ingest"
	"github.com/itsmezubair/assistant/internal/store"
)

func main() {
	baseURL := flag.String("url", "http://localhost:5000", "assistant backend base URL")
	historyMode := flag.String("history", "server", "history placement: server or client")
	storePath := flag.String("store", "", "session file path for client history mode")
	flag.Parse()

	httpClient := &http.Client{Timeout: 5 * time.Minute}

	var (
		sessionStore store.Store
		asker        *ingest.Client
		mintIDs      bool
	)
	switch *historyMode {
	case "server":
		sessionStore = store.NewRemoteStore(*baseURL, httpClient)
		asker = &ingest.Client{BaseURL: *baseURL, HTTP: httpClient, Mode: ingest.ModeStream}
	case "client":
		path := *storePath
		if path == "" {
			path = store.DefaultLocalPath()
		}
		sessionStore = store.NewLocalStore(path)
		asker = &ingest.Client{BaseURL: *baseURL, HTTP: httpClient, Mode: ingest.ModeSingle, SendHistory: true}
		mintIDs = true
	default:
		log.Fatalf("invalid -history value: %q", *historyMode)
	}

	stdin := bufio.NewScanner(os.Stdin)
	ctrl := controller.New(controller.Config{
		Store:    sessionStore,
		Asker:    asker,
		Renderer: &consoleRenderer{},
		Confirm:  &consoleConfirmer{in: stdin},
		MintIDs:  mintIDs,
		OnStatus: func(connected bool) {
			if !connected {
				fmt.Println("[status] disconnected")
			}
		},
	})

	ctx := context.Background()
	printSessions(ctx, ctrl)
	fmt.Println("Type a message, or /sessions, /open <id>, /delete <id>, /new, /clear, /quit.")

	for {
		fmt.Print("> ")
		if !stdin.Scan() {
			return
		}

		line := strings.TrimSpace(stdin.Text())
		switch {
		case line == "":
			continue
		case line == "/quit":
			return
		case line == "/sessions":
			printSessions(ctx, ctrl)
		case strings.HasPrefix(line, "/open "):
			if err := ctrl.Open(ctx, strings.TrimSpace(strings.TrimPrefix(line, "/open "))); err != nil {
				fmt.Println("failed to open session:", err)
			}
		case strings.HasPrefix(line, "/delete "):
			if err := ctrl.Delete(ctx, strings.TrimSpace(strings.TrimPrefix(line, "/delete "))); err != nil {
				fmt.Println("failed to delete session:", err)
			}
		case line == "/new":
			if err := ctrl.NewChat(ctx); err != nil {
				fmt.Println("failed to start new chat:", err)
			}
		case line == "/clear":
			if err := ctrl.Clear(ctx); err != nil {
				fmt.Println("failed to clear chat:", err)
			}
		default:
			if err := ctrl.Send(ctx, line); err != nil {
				fmt.Println("send failed:", err)
			}
		}
	}
}

func printSessions(ctx context.Context, ctrl *controller.Controller) {
	summaries, err := ctrl.Sessions(ctx)
	if err != nil {
		fmt.Println("failed to list sessions:", err)
		return
	}
	if len(summaries) == 0 {
		fmt.Println("no sessions yet")
		return
	}
	for _, summary := range summaries {
		fmt.Printf("%s  %s  (%s)\n", summary.ID, summary.Title, summary.CreatedAt.Local().Format("02 Jan 15:04"))
	}
}

// consoleRenderer writes the transcript to stdout, appending streamed deltas
// to the current assistant line.
type consoleRenderer struct {
	streamed bool
}

func (r *consoleRenderer) UserTurn(text string) {
	fmt.Printf("you: %s\n", text)
	r.streamed = false
}

func (r *consoleRenderer) AssistantDelta(text string) {
	if !r.streamed {
		fmt.Print("assistant: ")
		r.streamed = true
	}
	fmt.Print(text)
}

func (r *consoleRenderer) AssistantDone(text string) {
	if r.streamed {
		fmt.Println()
		r.streamed = false
		return
	}
	fmt.Printf("assistant: %s\n", text)
}

func (r *consoleRenderer) ErrorTurn(text string) {
	if r.streamed {
		fmt.Println()
		r.streamed = false
	}
	fmt.Printf("assistant: %s\n", text)
}

// consoleConfirmer gates deletes behind a y/N prompt; anything but an
// explicit yes cancels.
type consoleConfirmer struct {
	in *bufio.Scanner
}

func (c *consoleConfirmer) Confirm(context.Context) bool {
	fmt.Print("delete this session? [y/N] ")
	if !c.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(c.in.Text()))
	return answer == "y" || answer == "yes"
}
