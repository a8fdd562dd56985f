package ratelimiter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetRate(t *testing.T) {
	if got := getRate(42); got != privateChatRate {
		t.Fatalf("expected private chat rate, got %v", got)
	}
	if got := getRate(-100123); got != groupChatRate {
		t.Fatalf("expected group chat rate, got %v", got)
	}
}

func TestGetDelay(t *testing.T) {
	if got := getDelay(42, time.Now().Add(-2*time.Second)); got != 0 {
		t.Fatalf("expected no delay after the rate window, got %v", got)
	}

	got := getDelay(-1, time.Now())
	if got <= 2*time.Second || got > groupChatRate {
		t.Fatalf("expected close to the group rate, got %v", got)
	}
}

func TestSendRunsInOrderAndSpacesSameChat(t *testing.T) {
	rl := New(discardLogger())
	defer rl.Stop()

	ctx := context.Background()
	var sentAt []time.Time

	for range 2 {
		err := rl.Send(ctx, 7, func(context.Context) error {
			sentAt = append(sentAt, time.Now())
			return nil
		})
		if err != nil {
			t.Fatalf("send: %v", err)
		}
	}

	if gap := sentAt[1].Sub(sentAt[0]); gap < privateChatRate-50*time.Millisecond {
		t.Fatalf("expected messages to be spaced, gap %v", gap)
	}
}

func TestSendReturnsSendError(t *testing.T) {
	rl := New(discardLogger())
	defer rl.Stop()

	want := errors.New("api down")
	err := rl.Send(context.Background(), 1, func(context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("expected send error, got %v", err)
	}
}

func TestSendAfterStop(t *testing.T) {
	rl := New(discardLogger())
	rl.Stop()

	time.Sleep(10 * time.Millisecond)

	err := rl.Send(context.Background(), 1, func(context.Context) error { return nil })
	if err == nil {
		t.Fatalf("expected an error after stop")
	}
}

func TestSendHonoursContext(t *testing.T) {
	rl := New(discardLogger())
	defer rl.Stop()

	_ = rl.Send(context.Background(), -5, func(context.Context) error { return nil })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := rl.Send(ctx, -5, func(context.Context) error { return nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
