package trackersim

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/okian/venkman/internal/protocol"
)

// Client speaks the tracker line protocol over one TCP connection.
type Client struct {
	conn    net.Conn
	reader  *bufio.Reader
	timeout time.Duration
	version string
}

// Dial connects to addr.
func Dial(ctx context.Context, addr, version string, timeout time.Duration) (*Client, error) {
	var d net.Dialer
	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	conn, err := d.DialContext(dctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	if version == "" {
		version = defaultVersion
	}
	return &Client{conn: conn, reader: bufio.NewReader(conn), timeout: timeout, version: version}, nil
}

// Close closes the connection.
func (c *Client) Close() error { return c.conn.Close() }

// Request sends a request of type t with fields and returns the parsed reply.
func (c *Client) Request(t protocol.Type, fields ...string) (*Reply, error) {
	m := &protocol.Message{Type: t, Version: c.version, Fields: fields}
	line, err := c.exchange(m.String())
	if err != nil {
		return nil, err
	}
	return ParseReply(line)
}

func (c *Client) exchange(line string) (string, error) {
	_ = c.conn.SetDeadline(time.Now().Add(c.timeout))
	if _, err := io.WriteString(c.conn, line+"\n"); err != nil {
		return "", fmt.Errorf("write: %w", err)
	}
	reply, err := c.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}
	return strings.TrimRight(reply, "\r\n"), nil
}

// Reply is a decoded response line.
type Reply struct {
	Type    protocol.Type
	Version string
	Status  string
	Fields  []string // fields after the status
	Line    string
}

// ParseReply decodes a response line.
func ParseReply(line string) (*Reply, error) {
	if len(line) < 3 || line[0] != '<' || line[len(line)-1] != '>' {
		return nil, fmt.Errorf("%w: malformed reply %q", ErrUnexpectedReply, protocol.Abbreviate(line))
	}
	parts := strings.Split(line[1:len(line)-1], ",")
	if len(parts) < 3 {
		return nil, fmt.Errorf("%w: reply %q has no status", ErrUnexpectedReply, protocol.Abbreviate(line))
	}
	return &Reply{
		Type:    protocol.Type(parts[0]),
		Version: parts[1],
		Status:  parts[2],
		Fields:  parts[3:],
		Line:    line,
	}, nil
}

// Expect fails unless r is a successful reply of type t.
func (r *Reply) Expect(t protocol.Type) error {
	if r.Type == protocol.StatusResponse && r.Status != StatusOK {
		return fmt.Errorf("%w: %s", ErrServerStatus, r.Line)
	}
	if r.Type != t {
		return fmt.Errorf("%w: expected %s but received %q", ErrUnexpectedReply, t, protocol.Abbreviate(r.Line))
	}
	if r.Status != StatusOK {
		return fmt.Errorf("%w: %s", ErrServerStatus, r.Line)
	}
	return nil
}

// checkHealth verifies the ops API answers.
func checkHealth(ctx context.Context, baseURL string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/healthz", http.NoBody)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	return nil
}
