// Package session owns the mutator's process-wide singleton: the loaded
// config, ISA schema, PRNG state, log sink, and reusable output buffer
// (spec.md §3 "Runtime state", §9 "Singletons and global logs").
// Construction happens once, guarded by sync.Once, mirroring the
// source's function-local-static-plus-std::once_flag pattern.
package session

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robin3773/isa-mutator/internal/debuglog"
	"github.com/robin3773/isa-mutator/internal/feedback"
	"github.com/robin3773/isa-mutator/internal/isa"
	"github.com/robin3773/isa-mutator/internal/mutatorconfig"
	"github.com/robin3773/isa-mutator/internal/mutatorerr"
	"github.com/robin3773/isa-mutator/internal/prng"
)

// Session is the singleton constructed at init and borrowed by every
// fuzz call thereafter.
type Session struct {
	ID       string
	Config   *mutatorconfig.Config
	ISA      *isa.ISA
	PRNG     *prng.State
	Log      *debuglog.Log
	Feedback *feedback.Feedback

	// Out is the reusable output buffer; lifetime = session (spec.md §3).
	Out []byte
	// OutLen is the length of the last fuzz call's output.
	OutLen int
}

var (
	once    sync.Once
	current *Session
)

// Init constructs the singleton from environment variables (spec.md §6):
// MUTATOR_CONFIG (required), AFL_ISA_MAP (optional override path). Errors
// during init are fatal per spec.md §7 and abort the process; Init itself
// returns the error so cmd/ entry points can choose how to report it.
func Init() (*Session, error) {
	var initErr error
	once.Do(func() {
		current, initErr = build()
	})
	if initErr != nil {
		return nil, initErr
	}
	return current, nil
}

func build() (*Session, error) {
	configPath := os.Getenv("MUTATOR_CONFIG")
	if configPath == "" {
		return nil, mutatorerr.New(mutatorerr.EnvError, "MUTATOR_CONFIG", "required environment variable is not set")
	}

	cfg, err := mutatorconfig.Load(configPath)
	if err != nil {
		return nil, err
	}

	mapPath := os.Getenv("AFL_ISA_MAP")
	rootDir := "."
	if mapPath != "" {
		rootDir = filepath.Dir(mapPath)
	}
	schema, err := isa.Load(rootDir, cfg.ISAName, mapPath)
	if err != nil {
		return nil, err
	}
	cfg.EnableC = schema.EnableC

	log := debuglog.Open()
	if cfg.Verbose || log.TraceEnabled() {
		log.Info("loaded config: %s", cfg.Summary())
	}

	s := &Session{
		ID:       uuid.NewString(),
		Config:   cfg,
		ISA:      schema,
		PRNG:     prng.New(uint32(time.Now().UnixNano())),
		Log:      log,
		Feedback: feedback.Attach(),
	}
	log.Info("session %s started", s.ID)
	return s, nil
}

// Get returns the already-constructed singleton, or nil if Init has not
// run. Callers on the hot path (fuzz) are expected to call this after a
// successful Init.
func Get() *Session {
	return current
}

// Close flushes the debug log and releases the feedback shim. Safe to
// call even if Init never succeeded.
func Close() {
	if current == nil {
		return
	}
	current.Feedback.Detach()
	current.Log.Close()
}
