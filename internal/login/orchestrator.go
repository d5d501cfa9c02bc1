// Package login drives one browser session through the portal's login form.
//
// Each attempt walks a fixed state machine: Idle → Navigated → FormFilled →
// AwaitingCaptcha → Submitted → Evaluated → Closed. The CAPTCHA step is a
// genuine suspension point: the machine blocks until the operator reads the
// rendered challenge from the live browser and supplies the text. Whatever
// happens in between, the session is torn down exactly once per attempt.
package login

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gst-tools/gstcli/internal/driver"
)

// State names the stations of one login attempt.
type State int

const (
	StateIdle State = iota
	StateNavigated
	StateFormFilled
	StateAwaitingCaptcha
	StateSubmitted
	StateEvaluated
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNavigated:
		return "navigated"
	case StateFormFilled:
		return "form-filled"
	case StateAwaitingCaptcha:
		return "awaiting-captcha"
	case StateSubmitted:
		return "submitted"
	case StateEvaluated:
		return "evaluated"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Element locators on the portal login page.
const (
	usernameSel = "#username"
	passwordSel = "#user_pass"
	captchaSel  = "#captcha"
	submitSel   = `button[type="submit"]`
	errorSel    = ".alert-danger"
)

// successMarkers classify the post-submit location. Landing on any of these
// means the portal accepted the login.
var successMarkers = []string{"dashboard", "home", "loggedin"}

// Credentials is one resolved account ready for an attempt.
type Credentials struct {
	TradeName string
	Username  string
	Password  string
}

// Prompter supplies the human inputs an attempt blocks on.
type Prompter interface {
	// ReadCaptcha returns the solved CAPTCHA text for the account. The
	// operator reads the challenge from the live browser window.
	ReadCaptcha(tradeName string) (string, error)
	// KeepOpen is called after a successful login, before teardown. It may
	// block on operator input so the session stays usable; teardown still
	// runs when it returns.
	KeepOpen(tradeName string)
}

// Outcome reports how an attempt ended. State is the last state the machine
// reached before teardown; the session is closed by the time Attempt
// returns, on every path.
type Outcome struct {
	State     State
	Success   bool
	Location  string
	PageError string
	Err       error
}

// Options tunes an orchestrator. Zero values get the portal defaults.
type Options struct {
	LoginURL       string
	FieldTimeout   time.Duration
	CaptchaTimeout time.Duration
	SubmitTimeout  time.Duration
	SettleDelay    time.Duration
}

func (o Options) withDefaults() Options {
	if o.FieldTimeout == 0 {
		o.FieldTimeout = 10 * time.Second
	}
	if o.CaptchaTimeout == 0 {
		o.CaptchaTimeout = 20 * time.Second
	}
	if o.SubmitTimeout == 0 {
		o.SubmitTimeout = 10 * time.Second
	}
	if o.SettleDelay == 0 {
		o.SettleDelay = 5 * time.Second
	}
	return o
}

// Orchestrator runs login attempts over a browser session. One orchestrator
// owns one session; build a fresh pair per attempt.
type Orchestrator struct {
	session  driver.Session
	prompter Prompter
	opts     Options
}

// New wires an orchestrator to a session and a prompter.
func New(session driver.Session, prompter Prompter, opts Options) *Orchestrator {
	return &Orchestrator{
		session:  session,
		prompter: prompter,
		opts:     opts.withDefaults(),
	}
}

// Attempt runs the full state machine for one account. The session is
// closed before Attempt returns, whether the attempt succeeded, failed, or
// faulted; on success the prompter's KeepOpen hook runs first so the
// operator can hold the window open.
func (o *Orchestrator) Attempt(ctx context.Context, creds Credentials) (out Outcome) {
	defer func() {
		if out.Success {
			o.prompter.KeepOpen(creds.TradeName)
		}
		o.session.Close()
	}()

	fail := func(state State, err error) Outcome {
		return Outcome{
			State: state,
			Err:   fmt.Errorf("login attempt for %q: %w", creds.TradeName, err),
		}
	}

	// Idle -> Navigated
	if err := o.session.Navigate(ctx, o.opts.LoginURL); err != nil {
		return fail(StateIdle, err)
	}

	// Navigated -> FormFilled
	if err := o.session.WaitVisible(ctx, usernameSel, o.opts.FieldTimeout); err != nil {
		return fail(StateNavigated, err)
	}
	if err := o.session.SendKeys(ctx, usernameSel, creds.Username); err != nil {
		return fail(StateNavigated, err)
	}
	if err := o.session.SendKeys(ctx, passwordSel, creds.Password); err != nil {
		return fail(StateNavigated, err)
	}

	// FormFilled -> AwaitingCaptcha
	if err := o.session.WaitVisible(ctx, captchaSel, o.opts.CaptchaTimeout); err != nil {
		return fail(StateFormFilled, err)
	}
	captcha, err := o.prompter.ReadCaptcha(creds.TradeName)
	if err != nil {
		return fail(StateAwaitingCaptcha, err)
	}
	if err := o.session.SendKeys(ctx, captchaSel, captcha); err != nil {
		return fail(StateAwaitingCaptcha, err)
	}

	// AwaitingCaptcha -> Submitted
	if err := o.session.WaitVisible(ctx, submitSel, o.opts.SubmitTimeout); err != nil {
		return fail(StateAwaitingCaptcha, err)
	}
	if err := o.session.Click(ctx, submitSel); err != nil {
		return fail(StateAwaitingCaptcha, err)
	}

	// Submitted -> Evaluated: let the redirect settle, then look where we
	// landed
	select {
	case <-time.After(o.opts.SettleDelay):
	case <-ctx.Done():
		return fail(StateSubmitted, ctx.Err())
	}

	location, err := o.session.Location(ctx)
	if err != nil {
		return fail(StateSubmitted, err)
	}

	out = Outcome{State: StateEvaluated, Location: location}
	if matchesSuccess(location) {
		out.Success = true
		return out
	}

	// Best-effort scrape of the on-page error; its absence is not an error
	if msg, err := o.session.Text(ctx, errorSel); err == nil {
		out.PageError = strings.TrimSpace(msg)
	}
	return out
}

func matchesSuccess(location string) bool {
	loc := strings.ToLower(location)
	for _, marker := range successMarkers {
		if strings.Contains(loc, marker) {
			return true
		}
	}
	return false
}
