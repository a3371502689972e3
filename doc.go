// Package widget provides a Go client SDK for the hosted YourGPT
// conversational widget.
//
// The SDK wraps the externally hosted widget runtime: it performs one-time
// initialization, mirrors the widget's state as immutable snapshots, and lets
// host applications register named "AI actions" that the widget invokes when
// the remote AI decides a matching function call is warranted.
//
// # Core Pieces
//
//   - [github.com/yourgpt/widget-sdk-go/client]: the initialization shim and
//     widget handle. Connects the runtime, subscribes to state changes, and
//     dispatches action invocations.
//   - [github.com/yourgpt/widget-sdk-go/action]: the action registry with
//     schema-validated typed handlers and the confirm broker.
//   - [github.com/yourgpt/widget-sdk-go/bind]: the reactive binding layer that
//     exposes {handle, initialized, loading, error, state} to host UI scopes.
//   - [github.com/yourgpt/widget-sdk-go/event]: typed lifecycle events and the
//     shared state document.
//
// # Basic Usage
//
// Connect to a widget and watch its state:
//
//	c, err := client.Connect(ctx, widget.Config{
//	    WidgetUID: os.Getenv("WIDGET_UID"),
//	    Endpoint:  os.Getenv("WIDGET_ENDPOINT"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	unsubscribe := c.OnStateChange(func(st widget.State) {
//	    fmt.Printf("open=%v connected=%v messages=%d\n",
//	        st.Open, st.Connected, st.MessageCount)
//	})
//	defer unsubscribe()
//
// # AI Actions
//
// Register a typed action the widget's AI can invoke:
//
//	type AddTaskArgs struct {
//	    Title string `json:"title"`
//	}
//
//	c.Actions().Add(action.Func("add_task", "Add a task to the todo list",
//	    func(ctx context.Context, args AddTaskArgs, h action.Helpers) (string, error) {
//	        todo.Add(args.Title)
//	        return "added " + args.Title, h.Respond(ctx, "Task added!")
//	    }))
//
// Incoming invocation arguments are validated against the schema generated
// from the argument struct before the handler runs.
//
// # Reactive Bindings
//
// For UI scopes that mount and unmount, use the bind package:
//
//	b := bind.New(cfg)
//	b.Mount(ctx)
//	defer b.Unmount()
//
//	stop := b.Watch(func(s bind.Snapshot) {
//	    render(s)
//	})
//	defer stop()
package widget
