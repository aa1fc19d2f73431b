package spawner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// stopGrace is how long a bot gets to exit after an interrupt before it is
// killed.
const stopGrace = time.Second

// Process is one running bot.
type Process struct {
	ID string

	cmd    *exec.Cmd
	cancel context.CancelFunc
	logger *log.Logger
	done   chan struct{}
	err    error
}

func startProcess(ctx context.Context, id string, spec Spec, env []string, logger *log.Logger) (*Process, error) {
	ctx, cancel := context.WithCancel(ctx)

	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = stopGrace

	p := &Process{
		ID:     id,
		cmd:    cmd,
		cancel: cancel,
		logger: logger.With("bot_id", id),
		done:   make(chan struct{}),
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("start %s: %w", spec.Command, err)
	}
	p.logger.Info("Bot started", "command", spec.Command, "args", spec.Args, "pid", cmd.Process.Pid)

	var wg sync.WaitGroup
	wg.Add(2)
	go p.relay(&wg, "stdout", stdout)
	go p.relay(&wg, "stderr", stderr)
	go p.monitor(ctx, &wg)

	return p, nil
}

// relay forwards a bot's output lines to the log. Bots log to stderr, so
// that stream is shown at info level.
func (p *Process) relay(wg *sync.WaitGroup, stream string, r io.Reader) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if stream == "stderr" {
			p.logger.Info(line)
		} else {
			p.logger.Debug(line, "stream", stream)
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
		p.logger.Debug("Output closed", "stream", stream, "error", err)
	}
}

func (p *Process) monitor(ctx context.Context, wg *sync.WaitGroup) {
	defer close(p.done)
	defer p.cancel()

	// Pipes must be drained before Wait closes them.
	wg.Wait()
	p.err = p.cmd.Wait()

	switch {
	case ctx.Err() != nil:
		p.logger.Info("Bot stopped")
	case p.err != nil:
		p.logger.Error("Bot exited with error", "error", p.err)
	default:
		p.logger.Info("Bot exited")
	}
}

// Stop interrupts the bot and waits for it to exit.
func (p *Process) Stop() {
	p.cancel()
	<-p.done
}

// Wait blocks until the bot exits and returns its exit error.
func (p *Process) Wait() error {
	<-p.done
	return p.err
}

// Alive reports whether the bot is still running.
func (p *Process) Alive() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}
