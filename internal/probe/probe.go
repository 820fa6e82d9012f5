// Package probe answers "is this host up" with a single bounded-time
// ICMP echo, delegated to the system ping binary. The address is
// re-validated here even though handlers validate first: nothing that
// has not passed the dotted-quad check may reach the subprocess argv.
package probe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"homedash/dashd/internal/validate"
)

const (
	ReasonTimeout = "timeout"
	ReasonError   = "error"

	// DefaultTimeout bounds the wall-clock cost of one probe.
	DefaultTimeout = 2 * time.Second
)

type Result struct {
	Online bool   `json:"online"`
	Reason string `json:"reason,omitempty"`
}

var ErrInvalidAddress = errors.New("invalid IP address")

type Prober struct {
	timeout time.Duration
}

func New(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Prober{timeout: timeout}
}

// Probe sends one echo request to ip. The subprocess is killed when the
// hard timeout expires or when ctx is cancelled (client disconnect), so
// no probe outlives its request. A timeout is an expected outcome and
// comes back as an offline result, not an error.
func (p *Prober) Probe(ctx context.Context, ip string) (Result, error) {
	addr, err := validate.IPv4(ip)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrInvalidAddress, ip)
	}

	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	// -W takes whole seconds; keep at least 1 so ping itself also
	// bounds the wait when the context margin rounds down.
	waitSec := int(p.timeout / time.Second)
	if waitSec < 1 {
		waitSec = 1
	}
	cmd := exec.CommandContext(cctx, "ping", "-c", "1", "-W", strconv.Itoa(waitSec), addr)
	err = cmd.Run()

	switch {
	case err == nil:
		return Result{Online: true}, nil
	case cctx.Err() == context.DeadlineExceeded:
		return Result{Online: false, Reason: ReasonTimeout}, nil
	case ctx.Err() != nil:
		// Client went away; report the cancellation to the caller.
		return Result{}, ctx.Err()
	default:
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			// ping ran and got no reply.
			return Result{Online: false}, nil
		}
		return Result{Online: false, Reason: ReasonError}, nil
	}
}
