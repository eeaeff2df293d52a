package transport

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/ziutek/telnet"

	"github.com/filerops/filerctl/model"
)

// telnetConn holds the single logged-in telnet session for a filer's
// lifetime. It is not safe for concurrent use; NewTelnet wraps it in the
// serialized transport so callers only ever observe queuing as latency.
type telnetConn struct {
	addr        string
	user        string
	password    string
	prompt      string
	timeout     time.Duration
	idleTimeout time.Duration

	conn     *telnet.Conn
	lastUsed time.Time
}

// NewTelnet opens and authenticates the session. Login failure is fatal at
// construction; a session lost later (idle timeout, filer reboot) is
// reopened transparently on the next Execute.
func NewTelnet(cfg model.FilerConfig) (Transport, error) {
	c := &telnetConn{
		addr:        cfg.Addr(),
		user:        cfg.User,
		password:    cfg.Password,
		prompt:      cfg.Host + "> ",
		timeout:     cfg.Timeout,
		idleTimeout: cfg.IdleTimeout,
	}
	if err := c.open(); err != nil {
		return nil, &model.ConfigError{Field: "host", Reason: err.Error()}
	}
	return NewSerialized(c), nil
}

func (c *telnetConn) open() error {
	conn, err := telnet.DialTimeout("tcp", c.addr, c.timeout)
	if err != nil {
		return errors.Wrapf(err, "telnet %s", c.addr)
	}
	conn.SetUnixWriteMode(true)

	fail := func(step string, err error) error {
		_ = conn.Close()
		return errors.Wrapf(err, "telnet %s: %s", c.addr, step)
	}

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return fail("deadline", err)
	}
	if err := conn.SkipUntil("login: "); err != nil {
		return fail("wait for login prompt", err)
	}
	if _, err := conn.Write([]byte(c.user + "\n")); err != nil {
		return fail("send user", err)
	}
	if err := conn.SkipUntil("Password:"); err != nil {
		return fail("wait for password prompt", err)
	}
	if _, err := conn.Write([]byte(c.password + "\n")); err != nil {
		return fail("send password", err)
	}
	// a second login prompt here means the password was rejected
	if _, err := conn.ReadUntil(c.prompt, "login: "); err != nil {
		return fail("wait for shell prompt", err)
	}

	c.conn = conn
	c.lastUsed = time.Now()
	log.Debug().Str("host", c.addr).Msg("telnet session established")
	return nil
}

func (c *telnetConn) Execute(ctx context.Context, command string) (Result, error) {
	if c.conn == nil || time.Since(c.lastUsed) > c.idleTimeout {
		// the filer drops idle sessions; callers see only added latency
		c.reset()
		if err := c.open(); err != nil {
			return Result{}, &Error{Op: "reopen", Host: c.addr, Err: err}
		}
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		c.reset()
		return Result{}, &Error{Op: "deadline", Host: c.addr, Err: err}
	}

	start := time.Now()
	if _, err := c.conn.Write([]byte(command + "\n")); err != nil {
		c.reset()
		return Result{}, &Error{Op: "write", Host: c.addr, Err: err}
	}

	raw, err := c.conn.ReadUntil(c.prompt)
	if err != nil {
		c.reset()
		return Result{}, &Error{Op: "read", Host: c.addr, Err: err}
	}
	c.lastUsed = time.Now()

	out := strings.TrimSuffix(string(raw), c.prompt)
	// drop the echoed command line
	if i := strings.Index(out, "\n"); i >= 0 && strings.Contains(out[:i], command) {
		out = out[i+1:]
	}
	out = strings.ReplaceAll(out, "\r\n", "\n")

	return Result{Output: out, Elapsed: time.Since(start)}, nil
}

func (c *telnetConn) reset() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

func (c *telnetConn) Close() error {
	if c.conn == nil {
		return nil
	}
	_, _ = c.conn.Write([]byte("logout\n"))
	err := c.conn.Close()
	c.conn = nil
	return err
}
