package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/lox/bikeshare/internal/models"
)

func newTestConsole(input string, attempts int) (*Console, *bytes.Buffer) {
	var out bytes.Buffer
	return NewConsole(strings.NewReader(input), &out, attempts), &out
}

func TestReadLine(t *testing.T) {
	c, out := newTestConsole("first\r\nsecond", 1)
	ctx := context.Background()

	got, err := c.ReadLine(ctx, "> ")
	if err != nil || got != "first" {
		t.Fatalf("ReadLine = %q, %v, want first", got, err)
	}
	got, err = c.ReadLine(ctx, "> ")
	if err != nil || got != "second" {
		t.Fatalf("ReadLine = %q, %v, want second", got, err)
	}
	if _, err := c.ReadLine(ctx, "> "); !errors.Is(err, io.EOF) {
		t.Errorf("ReadLine at end = %v, want io.EOF", err)
	}
	if out.String() != "> > > " {
		t.Errorf("prompts = %q", out.String())
	}
}

func TestAskRetriesUntilValid(t *testing.T) {
	c, out := newTestConsole("abc\n-1\n7\n", 5)

	parse := func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, err
		}
		if n < 0 {
			return 0, errors.New("negative")
		}
		return n, nil
	}

	got, err := Ask(context.Background(), c, "test", "number: ", "again: ", parse)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got != 7 {
		t.Errorf("Ask = %d, want 7", got)
	}
	if want := "number: again: again: "; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestAskExhaustsAttempts(t *testing.T) {
	c, _ := newTestConsole("x\ny\nz\nchicago\n", 3)

	_, err := Ask(context.Background(), c, "city", "city: ", "again: ", models.ParseCity)
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("Ask error = %v, want ErrTooManyAttempts", err)
	}
}

func TestAskStopsAtEOF(t *testing.T) {
	c, _ := newTestConsole("bogus\n", 5)

	_, err := Ask(context.Background(), c, "city", "city: ", "again: ", models.ParseCity)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("Ask error = %v, want io.EOF", err)
	}
}

func TestAskCancelled(t *testing.T) {
	c, _ := newTestConsole("chicago\n", 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Ask(ctx, c, "city", "city: ", "again: ", models.ParseCity)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Ask error = %v, want context.Canceled", err)
	}
}

func TestAskCancelledWhileReading(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	c := NewConsole(r, io.Discard, 5)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := Ask(ctx, c, "city", "city: ", "again: ", models.ParseCity)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Ask error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Ask still blocked on input after cancel")
	}
}

func TestReadLineKeepsLineAfterCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	c := NewConsole(r, io.Discard, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := c.ReadLine(ctx, "> "); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("ReadLine error = %v, want context.DeadlineExceeded", err)
	}

	go io.WriteString(w, "washington\n")
	got, err := c.ReadLine(context.Background(), "> ")
	if err != nil || got != "washington" {
		t.Fatalf("ReadLine = %q, %v, want washington", got, err)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "Y\n", true},
		{"no", "n\n", false},
		{"retry then yes", "maybe\ny\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestConsole(tt.input, 3)
			got, err := c.Confirm(context.Background(), "ok? ")
			if err != nil {
				t.Fatalf("Confirm: %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilters(t *testing.T) {
	input := strings.Join([]string{
		"boston",        // rejected city
		"new york city", // accepted
		"all",
		"funday", // rejected day
		"monday",
		"x", // rejected confirmation, only confirmation repeats
		"y",
	}, "\n") + "\n"
	c, out := newTestConsole(input, 5)

	sel, err := c.Filters(context.Background())
	if err != nil {
		t.Fatalf("Filters: %v", err)
	}
	want := models.Selection{City: models.NewYorkCity, Month: models.AllMonths, Day: models.Monday}
	if sel != want {
		t.Errorf("Filters = %+v, want %+v", sel, want)
	}
	if n := strings.Count(out.String(), "Enter City: "); n != 1 {
		t.Errorf("city asked %d times, want 1", n)
	}
	if !strings.Contains(out.String(), "Incorrect input. Enter Y or N: ") {
		t.Error("missing confirmation retry prompt")
	}
}

func TestFiltersRestartOnNo(t *testing.T) {
	input := "chicago\njanuary\nall\nn\nwashington\njune\nfriday\ny\n"
	c, out := newTestConsole(input, 5)

	sel, err := c.Filters(context.Background())
	if err != nil {
		t.Fatalf("Filters: %v", err)
	}
	want := models.Selection{City: models.Washington, Month: models.June, Day: models.Friday}
	if sel != want {
		t.Errorf("Filters = %+v, want %+v", sel, want)
	}
	if n := strings.Count(out.String(), "Enter City: "); n != 2 {
		t.Errorf("city asked %d times, want 2", n)
	}
}
