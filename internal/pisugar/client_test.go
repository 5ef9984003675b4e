package pisugar

import (
	"bufio"
	"net"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"
)

// lineRecorder collects the command lines a fake server received.
type lineRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *lineRecorder) add(line string) {
	r.mu.Lock()
	r.lines = append(r.lines, line)
	r.mu.Unlock()
}

func (r *lineRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// startFakeServer runs a one-command-per-connection TCP server that records
// received lines and answers with respond(line).
func startFakeServer(t *testing.T, respond func(line string) string) (addr string, received *lineRecorder) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	received = &lineRecorder{}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				line, err := bufio.NewReader(conn).ReadString('\n')
				if err != nil {
					return
				}
				line = strings.TrimSuffix(line, "\n")
				received.add(line)
				conn.Write([]byte(respond(line)))
			}(conn)
		}
	}()
	return ln.Addr().String(), received
}

func TestSetRTCAlarm(t *testing.T) {
	addr, received := startFakeServer(t, func(string) string { return "done\n" })
	c := New(addr, time.Second, time.Second)

	loc := time.FixedZone("IST", 5*3600+1800)
	wake := time.Date(2024, 6, 1, 7, 0, 0, 0, loc)
	resp, err := c.SetRTCAlarm(wake, 127)
	if err != nil {
		t.Fatalf("SetRTCAlarm: %v", err)
	}
	if resp != "done" {
		t.Errorf("response = %q, want %q", resp, "done")
	}
	lines := received.all()
	if len(lines) != 1 {
		t.Fatalf("received %d lines, want 1", len(lines))
	}
	want := "rtc_alarm_set 2024-06-01T07:00:00.000+05:30 127"
	if lines[0] != want {
		t.Errorf("sent %q, want %q", lines[0], want)
	}
}

func TestBattery(t *testing.T) {
	addr, _ := startFakeServer(t, func(line string) string {
		if line != "get battery" {
			return "unknown\n"
		}
		return "battery: 84.33\n"
	})
	c := New(addr, time.Second, time.Second)
	pct, err := c.Battery()
	if err != nil {
		t.Fatalf("Battery: %v", err)
	}
	if pct != 84 {
		t.Errorf("Battery = %d, want 84", pct)
	}
}

func TestBatteryBadResponse(t *testing.T) {
	addr, _ := startFakeServer(t, func(string) string { return "no idea\n" })
	c := New(addr, time.Second, time.Second)
	if _, err := c.Battery(); err == nil {
		t.Error("expected error for malformed battery response")
	}
}

func TestExchangeConnectionRefused(t *testing.T) {
	// Grab a free port and close it so the dial is refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	c := New(addr, 500*time.Millisecond, 500*time.Millisecond)
	if _, err := c.Exchange("get battery"); err == nil {
		t.Error("expected error for refused connection")
	}
}

func TestExchangeReadsUntilDeadline(t *testing.T) {
	// A server that answers but never closes: the read deadline ends the
	// exchange and the data received so far is still returned.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		bufio.NewReader(conn).ReadString('\n')
		conn.Write([]byte("single\n"))
		time.Sleep(2 * time.Second)
	}()

	c := New(ln.Addr().String(), time.Second, 300*time.Millisecond)
	resp, err := c.Exchange("get model")
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if resp != "single" {
		t.Errorf("response = %q, want %q", resp, "single")
	}
}

func TestFormatTimestamp(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	wake := time.Date(2024, 6, 1, 7, 0, 0, 0, loc)

	got := FormatTimestamp(wake)
	if got != "2024-06-01T07:00:00.000+05:30" {
		t.Errorf("FormatTimestamp = %q", got)
	}
	// Formatting is pure: the same instant always yields the same string.
	if again := FormatTimestamp(wake); again != got {
		t.Errorf("FormatTimestamp not idempotent: %q vs %q", got, again)
	}

	shape := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.000[+-]\d{2}:\d{2}$`)
	for _, tm := range []time.Time{
		time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		time.Date(2024, 12, 31, 23, 59, 59, 0, time.FixedZone("NPT", 5*3600+2700)),
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.FixedZone("HST", -10*3600)),
	} {
		if s := FormatTimestamp(tm); !shape.MatchString(s) {
			t.Errorf("FormatTimestamp(%v) = %q does not match wire shape", tm, s)
		}
	}
}
