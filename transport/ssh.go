package transport

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/ssh"

	"github.com/filerops/filerctl/model"
)

// sshTransport opens an independent authenticated connection per call, so
// concurrent callers never contend on a shared session.
type sshTransport struct {
	addr     string
	prefix   string
	timeout  time.Duration
	clientCf *ssh.ClientConfig
}

// NewSSH builds an ssh transport and verifies the filer is reachable and
// the credentials work. Resolution or auth failures are fatal here; per-call
// failures later are transient and do not poison future calls.
func NewSSH(cfg model.FilerConfig) (Transport, error) {
	auth, err := sshAuth(cfg)
	if err != nil {
		return nil, err
	}

	t := &sshTransport{
		addr:    cfg.Addr(),
		prefix:  cfg.Prefix,
		timeout: cfg.Timeout,
		clientCf: &ssh.ClientConfig{
			User:            cfg.User,
			Auth:            auth,
			HostKeyCallback: ssh.InsecureIgnoreHostKey(),
			Timeout:         cfg.Timeout,
		},
	}

	// probe once so a bad host or key surfaces at construction
	client, err := ssh.Dial("tcp", t.addr, t.clientCf)
	if err != nil {
		return nil, &model.ConfigError{Field: "host", Reason: errors.Wrapf(err, "ssh %s", t.addr).Error()}
	}
	_ = client.Close()

	return t, nil
}

func sshAuth(cfg model.FilerConfig) ([]ssh.AuthMethod, error) {
	var auth []ssh.AuthMethod
	if cfg.IdentityFile != "" {
		key, err := os.ReadFile(cfg.IdentityFile)
		if err != nil {
			return nil, &model.ConfigError{Field: "identity_file", Reason: err.Error()}
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, &model.ConfigError{Field: "identity_file", Reason: errors.Wrap(err, "parse private key").Error()}
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if cfg.Password != "" {
		auth = append(auth, ssh.Password(cfg.Password))
	}
	return auth, nil
}

func (t *sshTransport) Execute(ctx context.Context, command string) (Result, error) {
	if t.prefix != "" {
		command = t.prefix + " " + command
	}

	start := time.Now()
	client, err := ssh.Dial("tcp", t.addr, t.clientCf)
	if err != nil {
		return Result{}, &Error{Op: "dial", Host: t.addr, Err: err}
	}
	defer client.Close()

	sess, err := client.NewSession()
	if err != nil {
		return Result{}, &Error{Op: "session", Host: t.addr, Err: err}
	}
	defer sess.Close()

	type execResult struct {
		out []byte
		err error
	}
	done := make(chan execResult, 1)
	go func() {
		out, err := sess.CombinedOutput(command)
		done <- execResult{out, err}
	}()

	var out []byte
	select {
	case <-ctx.Done():
		// the remote command keeps running; we only abandon the session
		return Result{}, &Error{Op: "execute", Host: t.addr, Err: ctx.Err()}
	case r := <-done:
		out = r.out
		err = r.err
	}

	res := Result{Output: string(out), Elapsed: time.Since(start)}
	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			res.Status = exitErr.ExitStatus()
			log.Debug().Str("host", t.addr).Int("status", res.Status).Str("command", command).Msg("remote command failed")
			return res, nil
		}
		return res, &Error{Op: "execute", Host: t.addr, Err: err}
	}

	log.Debug().Str("host", t.addr).Dur("elapsed", res.Elapsed).Str("command", firstWords(command)).Msg("remote command ok")
	return res, nil
}

func (t *sshTransport) Close() error { return nil }

func firstWords(command string) string {
	f := strings.Fields(command)
	if len(f) > 2 {
		f = f[:2]
	}
	return strings.Join(f, " ")
}
