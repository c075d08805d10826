// Package remote exposes the engine's classifier seat over TCP so an
// external function under test can serve classifications. The engine is
// the server: it listens, accepts exactly one client, hands it the
// dimensionality and domain in a handshake, and then sends one point per
// classification, blocking until the client answers with the class.
//
// Framing is line-oriented UTF-8 with a newline terminator. Vector
// components are space separated and formatted with 17 significant
// digits, so values survive a round trip through the wire exactly. Points
// travel in the normalized [0,1]^N coordinate system; un-normalizing into
// the real domain announced at handshake is the client's job.
package remote

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/sembas/internal/boundary"
	"github.com/banshee-data/sembas/internal/geom"
)

const handshakeBanner = "sembas"

// Config carries the optional knobs of a remote classifier.
type Config struct {
	// ReadTimeout bounds the wait for each client response. Zero means
	// wait forever. A timed-out read surfaces as ErrProtocol and poisons
	// the classifier.
	ReadTimeout time.Duration
}

// Classifier drives a remote function under test over an established TCP
// connection. It is not safe for concurrent use; the engine borrows it
// for one classification at a time. After a transport failure every call
// returns the same error.
type Classifier struct {
	conn   net.Conn
	rd     *bufio.Reader
	dims   int
	unit   geom.Domain
	cfg    Config
	broken error
}

// Listen binds addr, accepts a single client, and performs the handshake:
//
//	server -> client: "sembas <N>"
//	server -> client: "<lo[0]> ... <lo[N-1]>"
//	server -> client: "<hi[0]> ... <hi[N-1]>"
//	client -> server: "ok"
//
// futDomain is the function under test's real input region; it is
// announced to the client and must match dims. The listener closes once
// the client is connected.
func Listen(addr string, dims int, futDomain geom.Domain, cfg Config) (*Classifier, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("remote classifier listen %s: %w", addr, err)
	}
	return Serve(ln, dims, futDomain, cfg)
}

// Serve accepts one client on an existing listener and performs the
// handshake as Listen does. The listener is closed before Serve returns.
func Serve(ln net.Listener, dims int, futDomain geom.Domain, cfg Config) (*Classifier, error) {
	defer ln.Close()
	if dims < 1 {
		return nil, fmt.Errorf("remote classifier dims %d: %w", dims, boundary.ErrInvalidConfiguration)
	}
	if futDomain.Dims() != dims {
		return nil, fmt.Errorf("remote classifier dims %d vs domain dims %d: %w", dims, futDomain.Dims(), boundary.ErrInvalidConfiguration)
	}
	log.Printf("[RemoteClassifier] Listening on %s for the function under test", ln.Addr())

	conn, err := ln.Accept()
	if err != nil {
		return nil, fmt.Errorf("remote classifier accept: %w", err)
	}
	log.Printf("[RemoteClassifier] Connection established from %s", conn.RemoteAddr())

	c := &Classifier{
		conn: conn,
		rd:   bufio.NewReader(conn),
		dims: dims,
		unit: geom.UnitDomain(dims),
		cfg:  cfg,
	}
	if err := c.handshake(futDomain); err != nil {
		conn.Close()
		return nil, err
	}
	log.Printf("[RemoteClassifier] Handshake complete: %d dimensions", dims)
	return c, nil
}

func (c *Classifier) handshake(futDomain geom.Domain) error {
	if err := c.writeLine(fmt.Sprintf("%s %d", handshakeBanner, c.dims)); err != nil {
		return fmt.Errorf("handshake write: %v: %w", err, boundary.ErrRemoteDisconnected)
	}
	if err := c.writeLine(formatVector(futDomain.Low())); err != nil {
		return fmt.Errorf("handshake write: %v: %w", err, boundary.ErrRemoteDisconnected)
	}
	if err := c.writeLine(formatVector(futDomain.High())); err != nil {
		return fmt.Errorf("handshake write: %v: %w", err, boundary.ErrRemoteDisconnected)
	}

	reply, err := c.readLine()
	if err != nil {
		return fmt.Errorf("handshake read: %v: %w", err, boundary.ErrRemoteDisconnected)
	}
	if reply != "ok" {
		return fmt.Errorf("handshake reply %q: %w", reply, boundary.ErrProtocol)
	}
	return nil
}

// Classify sends p to the client and maps its answer:
// IN -> in-mode, OUT -> out-of-mode, OOB -> ErrOutOfBounds,
// ERR <msg> -> ErrProtocol. Points outside the normalized domain are
// refused locally without a wire exchange.
func (c *Classifier) Classify(p geom.Vector) (boundary.Sample, error) {
	if c.broken != nil {
		return boundary.Sample{}, c.broken
	}
	if len(p) != c.dims {
		return boundary.Sample{}, fmt.Errorf("remote classify dims %d vs %d: %w", len(p), c.dims, boundary.ErrInvalidConfiguration)
	}
	if !c.unit.Contains(p) {
		return boundary.Sample{}, fmt.Errorf("remote classify point outside [0,1]^%d: %w", c.dims, boundary.ErrOutOfBounds)
	}

	if err := c.writeLine(formatVector(p)); err != nil {
		return boundary.Sample{}, c.fail(fmt.Errorf("remote request: %v: %w", err, boundary.ErrRemoteDisconnected))
	}
	reply, err := c.readLine()
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return boundary.Sample{}, c.fail(fmt.Errorf("remote response timed out after %v: %w", c.cfg.ReadTimeout, boundary.ErrProtocol))
		}
		return boundary.Sample{}, c.fail(fmt.Errorf("remote response: %v: %w", err, boundary.ErrRemoteDisconnected))
	}

	switch {
	case reply == "IN":
		return boundary.NewSample(p, true), nil
	case reply == "OUT":
		return boundary.NewSample(p, false), nil
	case reply == "OOB":
		return boundary.Sample{}, fmt.Errorf("remote refused point: %w", boundary.ErrOutOfBounds)
	case strings.HasPrefix(reply, "ERR"):
		msg := strings.TrimSpace(strings.TrimPrefix(reply, "ERR"))
		return boundary.Sample{}, c.fail(fmt.Errorf("remote error %q: %w", msg, boundary.ErrProtocol))
	default:
		return boundary.Sample{}, c.fail(fmt.Errorf("remote answered %q: %w", reply, boundary.ErrProtocol))
	}
}

// fail poisons the classifier so every later call reports the same error.
func (c *Classifier) fail(err error) error {
	c.broken = err
	log.Printf("[RemoteClassifier] Unusable: %v", err)
	return err
}

// Close shuts the connection down.
func (c *Classifier) Close() error {
	return c.conn.Close()
}

func (c *Classifier) writeLine(line string) error {
	_, err := c.conn.Write([]byte(line + "\n"))
	return err
}

func (c *Classifier) readLine() (string, error) {
	if c.cfg.ReadTimeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout)); err != nil {
			return "", err
		}
	}
	line, err := c.rd.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func formatVector(v geom.Vector) string {
	fields := make([]string, len(v))
	for i, x := range v {
		fields[i] = strconv.FormatFloat(x, 'g', 17, 64)
	}
	return strings.Join(fields, " ")
}

var _ boundary.Classifier = (*Classifier)(nil)
