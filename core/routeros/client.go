package routeros

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"strconv"
	"syscall"
	"time"

	"github.com/go-routeros/routeros/v3"
)

// Default API ports.
const (
	DefaultPort    = 8728
	DefaultTLSPort = 8729
)

// Row is one record of a RouterOS resource, e.g. a /ppp/active entry.
type Row map[string]string

// Session is an authenticated connection to a single router.
type Session interface {
	// FetchResource prints every row under path (e.g. "/ppp/secret").
	// A non-empty nameFilter restricts the result to rows with that name.
	FetchResource(ctx context.Context, path, nameFilter string) ([]Row, error)
	// Close releases the connection.
	Close() error
}

// Dialer opens sessions.
type Dialer interface {
	Dial(ctx context.Context, target Target) (Session, error)
}

// Target is everything needed to reach a router's API.
type Target struct {
	Name     string
	Address  string
	Port     int
	Username string
	Password string
	TLS      bool
	// InsecureSkipVerify accepts the self-signed certificates RouterOS ships with.
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// HostPort returns the API endpoint, applying the default port.
func (t Target) HostPort() string {
	port := t.Port
	if port == 0 {
		port = DefaultPort
		if t.TLS {
			port = DefaultTLSPort
		}
	}
	return net.JoinHostPort(t.Address, strconv.Itoa(port))
}

// APIDialer dials routers through the RouterOS API protocol.
type APIDialer struct{}

// NewDialer creates a RouterOS API dialer.
func NewDialer() *APIDialer {
	return &APIDialer{}
}

// Dial connects and logs in. Failures are reported as *ConnectionError.
func (d *APIDialer) Dial(ctx context.Context, target Target) (Session, error) {
	addr := target.HostPort()
	if err := ctx.Err(); err != nil {
		return nil, &ConnectionError{Router: target.Name, Address: addr, Err: err}
	}

	timeout := target.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var (
		client *routeros.Client
		err    error
	)
	if target.TLS {
		client, err = routeros.DialTLSTimeout(addr, target.Username, target.Password, &tls.Config{
			InsecureSkipVerify: target.InsecureSkipVerify,
		}, timeout)
	} else {
		client, err = routeros.DialTimeout(addr, target.Username, target.Password, timeout)
	}
	if err != nil {
		return nil, &ConnectionError{Router: target.Name, Address: addr, Err: err}
	}

	return &apiSession{client: client, router: target.Name, address: addr}, nil
}

type apiSession struct {
	client  *routeros.Client
	router  string
	address string
}

func (s *apiSession) FetchResource(ctx context.Context, path, nameFilter string) ([]Row, error) {
	if s.client == nil {
		return nil, &ResourceError{Path: path, Err: ErrNotConnected}
	}
	if err := ctx.Err(); err != nil {
		return nil, &ResourceError{Path: path, Err: err}
	}

	sentence := []string{path + "/print"}
	if nameFilter != "" {
		sentence = append(sentence, "?name="+nameFilter)
	}

	reply, err := s.client.Run(sentence...)
	if err != nil {
		return nil, classifyRunError(s.router, s.address, path, err)
	}

	rows := make([]Row, 0, len(reply.Re))
	for _, re := range reply.Re {
		row := make(Row, len(re.Map))
		for k, v := range re.Map {
			row[k] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *apiSession) Close() error {
	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
	return nil
}

// classifyRunError separates a broken connection from a command the router
// rejected. A !trap reply only fails the resource, while !fatal, EOF and
// socket errors mean the session is gone.
func classifyRunError(router, address, path string, err error) error {
	var devErr *routeros.DeviceError
	if errors.As(err, &devErr) {
		if devErr.Sentence != nil && devErr.Sentence.Word == "!fatal" {
			return &ConnectionError{Router: router, Address: address, Err: err}
		}
		return &ResourceError{Path: path, Err: err}
	}

	var netErr net.Error
	if errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.As(err, &netErr) {
		return &ConnectionError{Router: router, Address: address, Err: err}
	}
	return &ResourceError{Path: path, Err: err}
}
