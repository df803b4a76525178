package roast

import (
	"context"
	"fmt"

	"github.com/bz888/roastbattle/internal/logger"
)

// Transport performs the single outbound call of a submission and returns
// the generated text.
type Transport interface {
	Send(ctx context.Context, req Request) (string, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req Request) (string, error)

func (f TransportFunc) Send(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Generator is a hosted model that turns a prompt into text under its own
// fixed system instruction.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// FromGenerator calls g directly, without a backend in between.
func FromGenerator(g Generator) Transport {
	return TransportFunc(func(ctx context.Context, req Request) (string, error) {
		return g.Generate(ctx, req.Text)
	})
}

// Unconfigured is a Transport for a client whose credentials are missing.
// Every call fails with ConfigError.
func Unconfigured(reason error) Transport {
	return TransportFunc(func(context.Context, Request) (string, error) {
		return "", NewError(KindConfig, MsgConfig, reason)
	})
}

// Client turns free-text input into a Result using one Transport call.
type Client struct {
	transport Transport
	log       *logger.Logger
}

func NewClient(t Transport) *Client {
	return &Client{
		transport: t,
		log:       logger.NewLogger("roast client"),
	}
}

// Submit validates text, sends it and classifies the outcome. It never
// panics and never returns an error; every failure becomes a Failure result.
func (c *Client) Submit(ctx context.Context, text string) (res Result) {
	req, err := NewRequest(text)
	if err != nil {
		c.log.Warn("Rejected empty input")
		return Failure(KindValidation, MsgInputRequired)
	}
	if c.transport == nil {
		c.log.Error("No transport configured")
		return Failure(KindConfig, MsgConfig)
	}

	defer func() {
		if r := recover(); r != nil {
			c.log.Error("Transport panicked:", r)
			res = Failure(KindUnknown, fmt.Sprint(r))
		}
	}()

	c.log.Info("Submitting", len(req.Text), "chars")
	out, err := c.transport.Send(ctx, req)
	if err != nil {
		res = FailureFrom(err)
		c.log.Error("Submission failed:", res.Kind, err)
		return res
	}
	return Success(out)
}
