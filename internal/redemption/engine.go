package redemption

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/altour-italy/tessera/internal/catalog"
	"github.com/altour-italy/tessera/internal/celebration"
	"github.com/altour-italy/tessera/internal/passport"
	"github.com/altour-italy/tessera/internal/session"
	"github.com/altour-italy/tessera/internal/tier"
)

// Step identifies the position of a session in the redemption flow.
type Step int

const (
	StepInput Step = iota
	StepReveal
	StepColor
	StepSuccess
)

// String returns the wire name of the step.
func (s Step) String() string {
	switch s {
	case StepReveal:
		return "reveal"
	case StepColor:
		return "color"
	case StepSuccess:
		return "success"
	default:
		return "input"
	}
}

const (
	defaultLoginAttemptLimit  = 5
	defaultSubmitAttemptLimit = 10
)

var (
	passportCodePattern   = regexp.MustCompile(`^ALT[A-Z0-9]{1,10}$`)
	redemptionCodePattern = regexp.MustCompile(`^[A-Z0-9]{3,10}$`)
)

// Config gathers the engine's collaborators and limits.
type Config struct {
	Directory passport.Directory
	Catalog   catalog.Catalog
	Sessions  session.Store
	Notifier  celebration.Notifier
	Logger    *slog.Logger

	// Attempt ceilings; zero values select the defaults (5 login,
	// 10 submit).
	LoginAttemptLimit  int
	SubmitAttemptLimit int
}

type sessionState struct {
	passport        passport.Passport
	step            Step
	pendingCode     string
	pendingActivity string
	chosenColor     string
	submitAttempts  int
	inFlight        bool
	page            int
}

// Engine drives the passport redemption flow: login and session
// restore, code verification, duplicate detection, tier-gated color
// choice and the completion-list write. All mutating operations check a
// per-session in-flight flag before touching state.
type Engine struct {
	directory passport.Directory
	catalog   catalog.Catalog
	sessions  session.Store
	notifier  celebration.Notifier
	logger    *slog.Logger
	now       func() time.Time

	loginLimit  int
	submitLimit int

	mu            sync.Mutex
	states        map[string]*sessionState
	loginAttempts map[string]int
}

// NewEngine constructs a redemption engine.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Directory == nil {
		return nil, fmt.Errorf("passport directory is required")
	}
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("redemption catalog is required")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	loginLimit := cfg.LoginAttemptLimit
	if loginLimit <= 0 {
		loginLimit = defaultLoginAttemptLimit
	}
	submitLimit := cfg.SubmitAttemptLimit
	if submitLimit <= 0 {
		submitLimit = defaultSubmitAttemptLimit
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		directory:     cfg.Directory,
		catalog:       cfg.Catalog,
		sessions:      cfg.Sessions,
		notifier:      cfg.Notifier,
		logger:        logger,
		now:           time.Now,
		loginLimit:    loginLimit,
		submitLimit:   submitLimit,
		states:        make(map[string]*sessionState),
		loginAttempts: make(map[string]int),
	}, nil
}

// SetClock overrides the engine clock. Test hook.
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
}

// View is the passport state exposed to the presentation layer.
type View struct {
	Token       string
	Passport    passport.Passport
	Progress    tier.Progress
	Page        int
	Step        Step
	PendingCode string
	Activity    string
}

// Login resolves a passport code, opens a session and hydrates engine
// state. clientKey scopes the attempt counter (the presentation layer
// passes a stable per-client value, typically the remote IP).
func (e *Engine) Login(ctx context.Context, clientKey, rawCode string) (View, error) {
	e.mu.Lock()
	attempts := e.loginAttempts[clientKey]
	e.loginAttempts[clientKey] = attempts + 1
	e.mu.Unlock()

	if attempts >= e.loginLimit {
		return View{}, ErrRateLimited
	}

	code := strings.ToUpper(strings.TrimSpace(rawCode))
	if !passportCodePattern.MatchString(code) {
		return View{}, ErrMalformedPassportCode
	}

	p, err := e.directory.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, passport.ErrNotFound) {
			return View{}, ErrPassportNotFound
		}
		return View{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	token := uuid.NewString()
	if err := e.sessions.Save(ctx, token, code); err != nil {
		return View{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return e.hydrate(token, p), nil
}

// Restore rebuilds engine state from a previously issued session
// token. It never touches the login attempt counter and reports only
// ErrNoSession on failure so the presentation layer can fall back to
// the logged-out view silently.
func (e *Engine) Restore(ctx context.Context, token string) (View, error) {
	if token == "" {
		return View{}, ErrNoSession
	}

	code, err := e.sessions.Load(ctx, token)
	if err != nil {
		return View{}, ErrNoSession
	}

	p, err := e.directory.FindByCode(ctx, code)
	if err != nil {
		return View{}, ErrNoSession
	}

	// A successful directory lookup refreshes the session expiry.
	if err := e.sessions.Save(ctx, token, code); err != nil {
		e.logger.Warn("session refresh failed", "error", err)
	}

	return e.hydrate(token, p), nil
}

// Logout drops the session and all working state.
func (e *Engine) Logout(ctx context.Context, token string) error {
	e.mu.Lock()
	delete(e.states, token)
	e.mu.Unlock()
	return e.sessions.Clear(ctx, token)
}

// Snapshot returns the current view for a session, rehydrating from
// the session store when the engine holds no in-memory state.
func (e *Engine) Snapshot(ctx context.Context, token string) (View, error) {
	e.mu.Lock()
	state, ok := e.states[token]
	if ok {
		view := e.viewLocked(token, state)
		e.mu.Unlock()
		return view, nil
	}
	e.mu.Unlock()
	return e.Restore(ctx, token)
}

// RevealResult carries the activity resolved from a redemption code.
type RevealResult struct {
	ActivityTitle string
}

// SubmitCode normalizes and verifies a redemption code, checks for a
// duplicate claim and advances the session to the reveal step. The
// attempt counter increments on every call regardless of outcome.
func (e *Engine) SubmitCode(ctx context.Context, token, rawCode string) (RevealResult, error) {
	e.mu.Lock()
	state, ok := e.states[token]
	if !ok {
		e.mu.Unlock()
		return RevealResult{}, ErrNoSession
	}
	if state.inFlight {
		e.mu.Unlock()
		return RevealResult{}, ErrRedeemInFlight
	}

	state.submitAttempts++
	if state.submitAttempts > e.submitLimit {
		e.mu.Unlock()
		return RevealResult{}, ErrRateLimited
	}

	code := strings.ToUpper(strings.TrimSpace(rawCode))
	if !redemptionCodePattern.MatchString(code) {
		e.mu.Unlock()
		return RevealResult{}, ErrMalformedCode
	}

	if state.step != StepInput {
		e.mu.Unlock()
		return RevealResult{}, ErrInvalidState
	}

	state.inFlight = true
	e.mu.Unlock()

	entry, err := e.catalog.FindByCode(ctx, code)

	e.mu.Lock()
	defer e.mu.Unlock()
	state.inFlight = false

	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return RevealResult{}, ErrCodeNotFound
		}
		return RevealResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if state.passport.Has(entry.ActivityTitle) {
		return RevealResult{}, ErrAlreadyRedeemed
	}

	state.step = StepReveal
	state.pendingCode = code
	state.pendingActivity = entry.ActivityTitle

	return RevealResult{ActivityTitle: entry.ActivityTitle}, nil
}

// PaletteResult lists the colors selectable for the pending stamp.
type PaletteResult struct {
	ActivityTitle string
	Level         tier.Level
	Palette       []tier.Color
}

// ProceedToColorChoice advances from reveal to color choice. The
// palette is gated by the tier earned before this redemption, so a
// stamp can never unlock the color it is about to use.
func (e *Engine) ProceedToColorChoice(token string) (PaletteResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, ok := e.states[token]
	if !ok {
		return PaletteResult{}, ErrNoSession
	}
	if state.inFlight {
		return PaletteResult{}, ErrRedeemInFlight
	}
	if state.step != StepReveal {
		return PaletteResult{}, ErrInvalidState
	}

	state.step = StepColor
	level := tier.ForCount(len(state.passport.Completions))
	return PaletteResult{
		ActivityTitle: state.pendingActivity,
		Level:         level,
		Palette:       tier.Palette(level.Index),
	}, nil
}

// SuccessResult describes a freshly recorded completion.
type SuccessResult struct {
	ActivityTitle string
	Color         string
	Progress      tier.Progress
}

// ChooseColor validates the color against the pre-redemption tier and
// appends the completion, replacing the stored list in full. On a
// write failure the session stays at the color step and the call may
// be retried.
func (e *Engine) ChooseColor(ctx context.Context, token, hex string) (SuccessResult, error) {
	e.mu.Lock()
	state, ok := e.states[token]
	if !ok {
		e.mu.Unlock()
		return SuccessResult{}, ErrNoSession
	}
	if state.inFlight {
		e.mu.Unlock()
		return SuccessResult{}, ErrRedeemInFlight
	}
	if state.step != StepColor {
		e.mu.Unlock()
		return SuccessResult{}, ErrInvalidState
	}

	hex = strings.ToUpper(strings.TrimSpace(hex))
	level := tier.ForCount(len(state.passport.Completions))
	if !tier.ColorUnlocked(hex, level.Index) {
		e.mu.Unlock()
		return SuccessResult{}, ErrColorLocked
	}

	staged := state.passport.Clone()
	staged.Completions = append(staged.Completions, passport.Completion{
		ActivityTitle: state.pendingActivity,
		Color:         hex,
		CompletedAt:   e.now().UTC(),
	})

	state.inFlight = true
	e.mu.Unlock()

	err := e.directory.UpdateCompletions(ctx, staged.ID, staged.Completions)

	e.mu.Lock()
	state.inFlight = false

	if err != nil {
		e.mu.Unlock()
		return SuccessResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	state.passport = staged
	state.chosenColor = hex
	state.step = StepSuccess
	state.page = tier.PageForLatest(len(staged.Completions))

	result := SuccessResult{
		ActivityTitle: state.pendingActivity,
		Color:         hex,
		Progress:      tier.Compute(len(staged.Completions)),
	}
	e.mu.Unlock()

	e.celebrate(ctx, celebration.Event{
		Kind:          celebration.KindConfetti,
		PassportCode:  staged.Code,
		ActivityTitle: result.ActivityTitle,
		Color:         hex,
	})

	return result, nil
}

// Cancel resets all working state and returns the session to the input
// step. While a write is outstanding the call is a deferred no-op.
func (e *Engine) Cancel(token string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, ok := e.states[token]
	if !ok {
		return ErrNoSession
	}
	if state.inFlight {
		return nil
	}

	resetWorkingState(state)
	return nil
}

// AcknowledgeSuccess emits the completion toast and resets the session
// for the next redemption.
func (e *Engine) AcknowledgeSuccess(ctx context.Context, token string) error {
	e.mu.Lock()
	state, ok := e.states[token]
	if !ok {
		e.mu.Unlock()
		return ErrNoSession
	}
	if state.step != StepSuccess {
		e.mu.Unlock()
		return ErrInvalidState
	}

	event := celebration.Event{
		Kind:          celebration.KindToast,
		PassportCode:  state.passport.Code,
		ActivityTitle: state.pendingActivity,
		Color:         state.chosenColor,
		Body:          fmt.Sprintf("%s stamped", state.pendingActivity),
	}
	resetWorkingState(state)
	e.mu.Unlock()

	e.celebrate(ctx, event)
	return nil
}

func (e *Engine) hydrate(token string, p passport.Passport) View {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, ok := e.states[token]
	if !ok {
		state = &sessionState{}
		e.states[token] = state
	}
	state.passport = p
	state.page = tier.PageForLatest(len(p.Completions))
	if state.step == StepInput {
		resetWorkingState(state)
	}
	return e.viewLocked(token, state)
}

func (e *Engine) viewLocked(token string, state *sessionState) View {
	return View{
		Token:       token,
		Passport:    state.passport.Clone(),
		Progress:    tier.Compute(len(state.passport.Completions)),
		Page:        state.page,
		Step:        state.step,
		PendingCode: state.pendingCode,
		Activity:    state.pendingActivity,
	}
}

func (e *Engine) celebrate(ctx context.Context, event celebration.Event) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Send(ctx, event); err != nil {
		e.logger.Warn("celebration dropped", "kind", event.Kind, "error", err)
	}
}

func resetWorkingState(state *sessionState) {
	state.step = StepInput
	state.pendingCode = ""
	state.pendingActivity = ""
	state.chosenColor = ""
}
