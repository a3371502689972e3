// Command demo is an interactive host application for the widget SDK: it
// connects to a hosted widget over WebSocket, registers a small set of todo
// actions the widget's AI can call, and mirrors the session on the terminal.
//
// Configuration comes from the environment (or a .env file):
//
//	WIDGET_UID       widget project UID (required)
//	WIDGET_ENDPOINT  widget gateway WebSocket URL (required)
//	WIDGET_SESSION   session ID to resume (optional)
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	widget "github.com/yourgpt/widget-sdk-go"
	"github.com/yourgpt/widget-sdk-go/action"
	"github.com/yourgpt/widget-sdk-go/client"
	"github.com/yourgpt/widget-sdk-go/event"
	"github.com/yourgpt/widget-sdk-go/runtime/ws"
)

var reader = bufio.NewReader(os.Stdin)

func main() {
	godotenv.Load()

	fmt.Println("╔════════════════════════════════════════╗")
	fmt.Println("║       widget-sdk-go - Host Demo        ║")
	fmt.Println("╚════════════════════════════════════════╝")
	fmt.Println()

	uid := os.Getenv("WIDGET_UID")
	endpoint := os.Getenv("WIDGET_ENDPOINT")
	if uid == "" || endpoint == "" {
		fmt.Println("  ✗ Set WIDGET_UID and WIDGET_ENDPOINT.")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ws.Register()

	events := event.NewChannel()
	go printEvents(events)

	todos := &todoList{}

	handle, err := client.Connect(ctx, widget.Config{
		WidgetUID: uid,
		Endpoint:  endpoint,
		SessionID: os.Getenv("WIDGET_SESSION"),
		Metadata:  map[string]string{"host": "demo-cli"},
	},
		client.WithEvents(events),
		client.WithConfirmTimeout(2*time.Minute),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
		return
	}
	defer handle.Close()

	registerTodoActions(handle, todos)

	fmt.Println("Connected. Registered actions:")
	names := handle.Actions().Names()
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Println()
	fmt.Println("Commands: open, close, show, hide, say <text>, state, tasks, quit")
	fmt.Println()

	repl(ctx, handle, todos)
}

// todoList is the demo's application state, mutated by widget AI actions.
type todoList struct {
	mu    sync.Mutex
	tasks []task
}

type task struct {
	Title string
	Done  bool
}

func (l *todoList) add(title string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tasks = append(l.tasks, task{Title: title})
}

func (l *todoList) complete(title string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.tasks {
		if strings.EqualFold(l.tasks[i].Title, title) {
			l.tasks[i].Done = true
			return true
		}
	}
	return false
}

func (l *todoList) list() []task {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

func (l *todoList) clear() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.tasks)
	l.tasks = nil
	return n
}

func registerTodoActions(handle *client.Client, todos *todoList) {
	handle.Actions().Add(
		action.Func("add_task", "Add a task to the visitor's todo list",
			func(ctx context.Context, args struct {
				Title string `json:"title"`
			}, h action.Helpers) (string, error) {
				todos.add(args.Title)
				if err := h.Respond(ctx, fmt.Sprintf("Added %q to your list.", args.Title)); err != nil {
					return "", err
				}
				return fmt.Sprintf("task %q added", args.Title), nil
			}),

		action.Func("complete_task", "Mark a task as done",
			func(ctx context.Context, args struct {
				Title string `json:"title"`
			}, h action.Helpers) (string, error) {
				if !todos.complete(args.Title) {
					return "", fmt.Errorf("no task titled %q", args.Title)
				}
				return fmt.Sprintf("task %q completed", args.Title), nil
			}),

		action.Func("list_tasks", "List the visitor's tasks",
			func(ctx context.Context, args struct{}, h action.Helpers) (string, error) {
				tasks := todos.list()
				if len(tasks) == 0 {
					return "the list is empty", nil
				}
				var b strings.Builder
				for _, t := range tasks {
					mark := " "
					if t.Done {
						mark = "x"
					}
					fmt.Fprintf(&b, "[%s] %s\n", mark, t.Title)
				}
				return b.String(), nil
			}),

		action.Func("clear_tasks", "Delete every task on the list",
			func(ctx context.Context, args struct{}, h action.Helpers) (string, error) {
				ok, err := h.Confirm(ctx, action.ConfirmOptions{
					Title:       "Clear all tasks?",
					Description: "This deletes every task on your list.",
					AcceptLabel: "Clear",
				})
				if err != nil {
					return "", err
				}
				if !ok {
					return "the visitor declined", nil
				}
				n := todos.clear()
				return fmt.Sprintf("cleared %d tasks", n), nil
			}),
	)
}

func repl(ctx context.Context, handle *client.Client, todos *todoList) {
	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nShutting down.")
			return
		default:
		}

		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)

		switch {
		case line == "quit" || line == "exit":
			return
		case line == "open":
			report(handle.Open(ctx))
		case line == "close":
			report(handle.ClosePanel(ctx))
		case line == "show":
			report(handle.Show(ctx))
		case line == "hide":
			report(handle.Hide(ctx))
		case line == "state":
			st := handle.State()
			fmt.Printf("open=%v visible=%v connected=%v loaded=%v messages=%d retries=%d\n",
				st.Open, st.Visible, st.Connected, st.Loaded, st.MessageCount, st.ConnectRetries)
		case line == "tasks":
			for _, t := range todos.list() {
				mark := " "
				if t.Done {
					mark = "x"
				}
				fmt.Printf("[%s] %s\n", mark, t.Title)
			}
		case strings.HasPrefix(line, "say "):
			report(handle.SendMessage(ctx, strings.TrimPrefix(line, "say ")))
		case line == "":
		default:
			fmt.Println("Commands: open, close, show, hide, say <text>, state, tasks, quit")
		}
	}
}

func report(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

func printEvents(events chan event.Event) {
	for ev := range events {
		switch ev.Type {
		case event.Initialized:
			fmt.Println("• widget ready")
		case event.StateChange:
			if ev.State != nil {
				fmt.Printf("• state: open=%v connected=%v messages=%d\n",
					ev.State.Open, ev.State.Connected, ev.State.MessageCount)
			}
		case event.MessageReceived:
			if ev.Message != nil {
				fmt.Printf("%s: %s\n", ev.Message.Role, ev.Message.Content)
			}
		case event.ActionInvoked:
			if ev.Invocation != nil {
				fmt.Printf("• action %s(%s)\n", ev.Invocation.Name, ev.Invocation.Arguments)
			}
		case event.ActionFailed:
			if ev.Result != nil {
				fmt.Printf("• action failed: %s\n", ev.Result.Content)
			}
		case event.ConfirmRequested:
			fmt.Println("• waiting for visitor confirmation…")
		case event.RuntimeError:
			fmt.Fprintf(os.Stderr, "• runtime error: %v\n", ev.Error)
		case event.Closed:
			fmt.Println("• session closed")
			return
		}
	}
}
