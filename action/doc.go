// Package action provides the AI action infrastructure for the widget SDK.
//
// An action is a named callback a host application registers; the widget's
// AI invokes it when a matching function call is warranted. This package
// includes:
//
//   - Registry and Handler types for action management
//   - Typed registration with automatic JSON schema generation and
//     argument validation
//   - Helpers passed to every handler (respond to the conversation,
//     ask the visitor for confirmation)
//   - ConfirmBroker routing visitor decisions to waiting handlers
//
// # Basic Usage
//
// Define action arguments as a struct, then register with Func:
//
//	type AddTaskArgs struct {
//	    Title string `json:"title"`
//	}
//
//	registry := action.NewRegistry().Add(
//	    action.Func("add_task", "Add a task to the todo list",
//	        func(ctx context.Context, args AddTaskArgs, h action.Helpers) (string, error) {
//	            todos.Add(args.Title)
//	            return "added", h.Respond(ctx, "Task added!")
//	        }),
//	)
//
// Incoming arguments are validated against the generated schema before the
// handler runs; invalid payloads are rejected without invoking the handler.
//
// # Confirmation
//
// Handlers that perform destructive work gate it on the visitor:
//
//	ok, err := h.Confirm(ctx, action.ConfirmOptions{
//	    Title:       "Clear all tasks?",
//	    Description: "This removes every task in the list.",
//	})
//	if err != nil || !ok {
//	    return "cancelled", nil
//	}
package action
