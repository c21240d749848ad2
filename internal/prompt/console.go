package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"github.com/lox/bikeshare/internal/metrics"
)

// ErrTooManyAttempts is returned when a prompt rejects every entry allowed
// by the retry policy.
var ErrTooManyAttempts = errors.New("too many invalid entries")

// Console reads answers line by line and writes prompts to out. Input is
// read by one background goroutine, started on the first prompt.
type Console struct {
	in          *bufio.Reader
	out         io.Writer
	maxAttempts int

	startOnce sync.Once
	lines     chan readResult
}

type readResult struct {
	line string
	err  error
}

func NewConsole(in io.Reader, out io.Writer, maxAttempts int) *Console {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Console{
		in:          bufio.NewReader(in),
		out:         out,
		maxAttempts: maxAttempts,
	}
}

func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// ReadLine writes the prompt and returns the next input line without its
// line ending. A final unterminated line is returned before io.EOF. It
// returns ctx.Err() as soon as ctx is cancelled, even mid-read.
func (c *Console) ReadLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(c.out, prompt)
	c.startOnce.Do(func() {
		c.lines = make(chan readResult)
		go c.readLoop()
	})

	select {
	case r := <-c.lines:
		return r.line, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Console) readLoop() {
	for {
		line, err := c.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			for {
				c.lines <- readResult{err: err}
			}
		}
		c.lines <- readResult{line: strings.TrimRight(line, "\r\n")}
	}
}

// Ask shows first, then retry after each rejected entry, until parse
// accepts an answer. Read errors and context cancellation stop immediately;
// running out of attempts returns ErrTooManyAttempts.
func Ask[T any](ctx context.Context, c *Console, name, first, retry string, parse func(string) (T, error)) (T, error) {
	var (
		result T
		fatal  error
	)
	question := first

	operation := func() error {
		if err := ctx.Err(); err != nil {
			fatal = err
			return backoff.Permanent(err)
		}
		line, err := c.ReadLine(ctx, question)
		if err != nil {
			fatal = err
			return backoff.Permanent(err)
		}
		v, err := parse(line)
		if err != nil {
			metrics.PromptRetries.WithLabelValues(name).Inc()
			question = retry
			return err
		}
		result = v
		return nil
	}

	bo := backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(c.maxAttempts-1))
	if err := backoff.Retry(operation, bo); err != nil {
		if fatal != nil {
			return result, fatal
		}
		return result, fmt.Errorf("%s: %w after %d attempts: %v", name, ErrTooManyAttempts, c.maxAttempts, err)
	}
	return result, nil
}

// Confirm asks a Y/N question. Only the confirmation is repeated on
// invalid input.
func (c *Console) Confirm(ctx context.Context, question string) (bool, error) {
	return Ask(ctx, c, "confirm", question, "Incorrect input. Enter Y or N: ", parseYesNo)
}

func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y":
		return true, nil
	case "n":
		return false, nil
	}
	return false, fmt.Errorf("expected Y or N, got %q", s)
}
