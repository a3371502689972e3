package client

import (
	widget "github.com/yourgpt/widget-sdk-go"
	"github.com/yourgpt/widget-sdk-go/action"
	"github.com/yourgpt/widget-sdk-go/event"
)

// readLoop consumes frames from the runtime until the handle closes or the
// runtime stream ends.
func (c *Client) readLoop() {
	defer c.wg.Done()

	frames := c.runtime.Frames()
	for {
		select {
		case <-c.ctx.Done():
			return
		case f, ok := <-frames:
			if !ok {
				c.mu.Lock()
				c.initialized = false
				c.mu.Unlock()
				event.Emit(c.events, event.Event{Type: event.Closed})
				return
			}
			c.dispatch(f)
		}
	}
}

// dispatch routes one widget frame. Malformed frames are reported, never
// fatal: the loop keeps serving the session.
func (c *Client) dispatch(f widget.Frame) {
	switch f.Type {
	case widget.FrameState:
		st, err := c.shared.SetDoc(f.Payload)
		if err != nil {
			c.reportError(err)
			return
		}
		c.publishState(st)

	case widget.FrameStateDelta:
		st, err := c.shared.ApplyDelta(f.Payload)
		if err != nil {
			c.reportError(err)
			return
		}
		c.publishState(st)

	case widget.FrameMessage:
		var m widget.Message
		if err := f.Decode(&m); err != nil {
			c.reportError(err)
			return
		}
		c.messages.Append(m)
		event.Emit(c.events, event.Event{Type: event.MessageReceived, Message: &m})

	case widget.FrameActionInvoke:
		var inv widget.Invocation
		if err := f.Decode(&inv); err != nil {
			c.reportError(err)
			return
		}
		c.wg.Add(1)
		go c.invoke(inv)

	case widget.FrameConfirmDecision:
		var d action.Decision
		if err := f.Decode(&d); err != nil {
			c.reportError(err)
			return
		}
		// A decision for an already-resolved request is harmless.
		if err := c.confirms.Decide(d); err == nil {
			event.Emit(c.events, event.Event{
				Type:      event.ConfirmResolved,
				ConfirmID: d.RequestID,
				Accepted:  d.Accepted,
			})
		}

	case widget.FrameError:
		var payload struct {
			Message string `json:"message"`
		}
		if err := f.Decode(&payload); err != nil {
			c.reportError(err)
			return
		}
		c.reportError(widget.NewError("runtime", payload.Message, nil))
	}
}

// publishState delivers the snapshot verbatim to every subscriber
// registered at dispatch time.
func (c *Client) publishState(st widget.State) {
	c.mu.RLock()
	fns := make([]func(widget.State), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		fn(st)
	}
	event.Emit(c.events, event.Event{Type: event.StateChange, State: &st})
}

// invoke executes one action invocation and returns its result to the
// widget. Handler failures become error results; they never escape the
// dispatch path.
func (c *Client) invoke(inv widget.Invocation) {
	defer c.wg.Done()

	event.Emit(c.events, event.Event{Type: event.ActionInvoked, Invocation: &inv})

	res, err := c.actions.Execute(c.ctx, inv, c.helpers())
	if err != nil {
		// Unknown action: report it back so the AI can recover.
		res = widget.Result{
			InvocationID: inv.ID,
			Content:      err.Error(),
			IsError:      true,
		}
	}

	f, err := widget.NewFrame(widget.FrameActionResult, res)
	if err != nil {
		c.reportError(err)
		return
	}
	if err := c.send(c.ctx, f); err != nil {
		c.reportError(err)
		return
	}

	if res.IsError {
		event.Emit(c.events, event.Event{Type: event.ActionFailed, Invocation: &inv, Result: &res})
	} else {
		event.Emit(c.events, event.Event{Type: event.ActionCompleted, Invocation: &inv, Result: &res})
	}
}
