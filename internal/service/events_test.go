package service

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/iliyamo/parkospace/internal/queue"
)

// silentBroker accepts connections and never answers the AMQP handshake.
func silentBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			t.Cleanup(func() { conn.Close() })
		}
	}()
	return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

func TestAMQPPublisherDialTimeout(t *testing.T) {
	p := NewAMQPPublisher(silentBroker(t))
	p.DialTimeout = 100 * time.Millisecond

	start := time.Now()
	err := p.Publish(context.Background(), queue.ListingEvent{Type: queue.ListingCreated, ListingID: "l1"})
	if err == nil {
		t.Fatal("expected error from unresponsive broker")
	}
	if d := time.Since(start); d > 2*time.Second {
		t.Fatalf("publish blocked %s", d)
	}
}

func TestAMQPPublisherHonoursContextDeadline(t *testing.T) {
	p := NewAMQPPublisher(silentBroker(t))
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := p.Publish(ctx, queue.ListingEvent{Type: queue.ListingDeleted, ListingID: "l1"}); err == nil {
		t.Fatal("expected error from unresponsive broker")
	}
	if d := time.Since(start); d > time.Second {
		t.Fatalf("publish ignored deadline, blocked %s", d)
	}
}

func TestNewAMQPPublisherDefaults(t *testing.T) {
	if p := NewAMQPPublisher("amqp://x"); p.DialTimeout != DefaultDialTimeout {
		t.Errorf("DialTimeout = %s", p.DialTimeout)
	}
}
