// Package pisugar implements the line-oriented TCP client for the PiSugar
// power manager's local command socket.
//
// The protocol is a single newline-terminated ASCII command per connection;
// the response is whatever text the service writes back before closing or
// before a short read deadline elapses. Responses are opaque to callers
// except for the battery query, which has a known "battery: <percent>" shape.
package pisugar

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultAddr is the loopback endpoint the PiSugar server listens on.
	DefaultAddr = "127.0.0.1:8423"

	// DefaultDialTimeout bounds connection establishment.
	DefaultDialTimeout = 5 * time.Second

	// DefaultReadTimeout bounds how long we wait for the response text.
	DefaultReadTimeout = 2 * time.Second
)

// TimestampLayout is the wire format for RTC alarm timestamps: ISO-8601
// with a fixed millisecond field and a signed numeric zone offset, e.g.
// "2024-06-01T07:00:00.000+05:30".
const TimestampLayout = "2006-01-02T15:04:05.000-07:00"

// FormatTimestamp renders t in the alarm wire format.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Client issues commands to the PiSugar socket. Each exchange opens a
// short-lived connection; there is no persistent session.
type Client struct {
	addr        string
	dialTimeout time.Duration
	readTimeout time.Duration
}

// New creates a client for the given address. Zero timeouts fall back to
// the package defaults; an empty address falls back to DefaultAddr.
func New(addr string, dialTimeout, readTimeout time.Duration) *Client {
	if addr == "" {
		addr = DefaultAddr
	}
	if dialTimeout == 0 {
		dialTimeout = DefaultDialTimeout
	}
	if readTimeout == 0 {
		readTimeout = DefaultReadTimeout
	}
	return &Client{
		addr:        addr,
		dialTimeout: dialTimeout,
		readTimeout: readTimeout,
	}
}

// Exchange sends one command line and returns the raw response text with
// surrounding whitespace trimmed. The response is read until the peer
// closes the connection or the read deadline elapses; data received before
// a deadline expiry is still returned.
func (c *Client) Exchange(command string) (string, error) {
	conn, err := net.DialTimeout("tcp", c.addr, c.dialTimeout)
	if err != nil {
		return "", fmt.Errorf("error connecting to %s: %w", c.addr, err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(command + "\n")); err != nil {
		return "", fmt.Errorf("error sending %q: %w", command, err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
		return "", fmt.Errorf("error setting read deadline: %w", err)
	}
	var resp []byte
	buf := make([]byte, 512)
	for {
		n, err := conn.Read(buf)
		resp = append(resp, buf[:n]...)
		if err != nil {
			// EOF or deadline both end the response; whatever arrived
			// before that is the answer.
			break
		}
	}
	return strings.TrimSpace(string(resp)), nil
}

// SetRTCAlarm programs the RTC to wake the machine at t on the given alarm
// channel. The service's response text is returned verbatim for logging;
// it is never parsed.
func (c *Client) SetRTCAlarm(t time.Time, alarmID int) (string, error) {
	return c.Exchange(fmt.Sprintf("rtc_alarm_set %s %d", FormatTimestamp(t), alarmID))
}

// Battery queries the current battery charge and returns it as a truncated
// integer percentage.
func (c *Client) Battery() (int, error) {
	resp, err := c.Exchange("get battery")
	if err != nil {
		return 0, err
	}
	_, value, found := strings.Cut(resp, "battery:")
	if !found {
		return 0, fmt.Errorf("unexpected battery response %q", resp)
	}
	pct, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid battery value in %q: %w", resp, err)
	}
	return int(pct), nil
}
