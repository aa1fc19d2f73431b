// Package spawner launches bot processes against a dealer and tears them
// down again.
package spawner

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/threecard/internal/randutil"
	"github.com/lox/threecard/sdk/config"
)

// Spec describes bots to launch
type Spec struct {
	Command string   // executable to run
	Args    []string // its arguments
	Count   int      // number of copies, at least one
	Env     map[string]string
}

// Spawner owns a set of bot processes.
type Spawner struct {
	serverURL string
	seed      int64
	logger    *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	procs []*Process
	seq   int
}

// New returns a spawner pointing bots at serverURL. A non-zero seed hands
// each bot its own derived THREECARD_SEED.
func New(serverURL string, seed int64, logger *log.Logger) *Spawner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Spawner{
		serverURL: serverURL,
		seed:      seed,
		logger:    logger.WithPrefix("spawner"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Spawn starts spec.Count copies of a bot. If any fails to start, every
// bot started so far is stopped.
func (s *Spawner) Spawn(spec Spec) error {
	count := max(spec.Count, 1)
	s.logger.Info("Spawning bots", "command", spec.Command, "args", spec.Args, "count", count)

	for range count {
		s.mu.Lock()
		s.seq++
		id := "bot-" + strconv.Itoa(s.seq)
		env := s.env(spec, s.seq)
		s.mu.Unlock()

		proc, err := startProcess(s.ctx, id, spec, env, s.logger)
		if err != nil {
			s.StopAll()
			return fmt.Errorf("spawn %s: %w", id, err)
		}

		s.mu.Lock()
		s.procs = append(s.procs, proc)
		s.mu.Unlock()
	}
	return nil
}

func (s *Spawner) env(spec Spec, seq int) []string {
	env := []string{
		config.EnvServer + "=" + s.serverURL,
		config.EnvBotID + "=" + strconv.Itoa(seq),
	}
	if s.seed != 0 {
		env = append(env, config.EnvSeed+"="+strconv.FormatInt(randutil.Derive(s.seed, seq), 10))
	}
	for k, v := range spec.Env {
		env = append(env, k+"="+v)
	}
	return env
}

// StopAll interrupts every bot and waits for them to exit.
func (s *Spawner) StopAll() {
	s.cancel()
	for _, p := range s.processes() {
		p.Stop()
	}
}

// Wait blocks until every bot exits and joins their exit errors.
func (s *Spawner) Wait() error {
	var errs []error
	for _, p := range s.processes() {
		if err := p.Wait(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.ID, err))
		}
	}
	return errors.Join(errs...)
}

// Active returns the number of bots still running.
func (s *Spawner) Active() int {
	n := 0
	for _, p := range s.processes() {
		if p.Alive() {
			n++
		}
	}
	return n
}

func (s *Spawner) processes() []*Process {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Process(nil), s.procs...)
}
