// Package llmtest provides scripted llm.Client implementations for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/jonathan/resume-analyzer/internal/llm"
)

// Call records one request made against a Client.
type Call struct {
	System string
	Prompt string
	Tier   llm.ModelTier
	JSON   bool
}

// Func answers a single request.
type Func func(ctx context.Context, call Call) (string, error)

// Client is a function-backed llm.Client that records every call.
type Client struct {
	fn    Func
	calls atomic.Int64

	mu  sync.Mutex
	log []Call
}

var _ llm.Client = (*Client)(nil)

// New returns a Client that answers with fn.
func New(fn Func) *Client {
	return &Client{fn: fn}
}

// Static returns a Client that answers every request with response.
func Static(response string) *Client {
	return New(func(context.Context, Call) (string, error) {
		return response, nil
	})
}

// ErrUnavailable is returned by Failing clients.
var ErrUnavailable = errors.New("llmtest: service unavailable")

// Failing returns a Client whose every call fails.
func Failing() *Client {
	return New(func(context.Context, Call) (string, error) {
		return "", ErrUnavailable
	})
}

func (c *Client) GenerateContent(ctx context.Context, system, prompt string, tier llm.ModelTier) (string, error) {
	return c.do(ctx, Call{System: system, Prompt: prompt, Tier: tier})
}

func (c *Client) GenerateJSON(ctx context.Context, system, prompt string, tier llm.ModelTier) (string, error) {
	out, err := c.do(ctx, Call{System: system, Prompt: prompt, Tier: tier, JSON: true})
	if err != nil {
		return "", err
	}
	return llm.CleanJSONBlock(out), nil
}

func (c *Client) GetModel(tier llm.ModelTier) string {
	return "llmtest-" + string(tier)
}

func (c *Client) Close() error { return nil }

// Calls returns the number of requests served so far.
func (c *Client) Calls() int {
	return int(c.calls.Load())
}

// Requests returns a copy of every recorded call.
func (c *Client) Requests() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Call, len(c.log))
	copy(out, c.log)
	return out
}

func (c *Client) do(ctx context.Context, call Call) (string, error) {
	c.calls.Add(1)
	c.mu.Lock()
	c.log = append(c.log, call)
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return c.fn(ctx, call)
}
