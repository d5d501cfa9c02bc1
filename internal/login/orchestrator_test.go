package login

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession is a scripted browser session. Operations fail when an error
// is registered for them; WaitVisible succeeds only for selectors marked
// visible.
type fakeSession struct {
	visible    map[string]bool
	failOn     map[string]error
	location   string
	pageError  string
	typed      map[string]string
	clicked    []string
	closeCount int
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		visible: map[string]bool{
			usernameSel: true,
			captchaSel:  true,
			submitSel:   true,
		},
		failOn: map[string]error{},
		typed:  map[string]string{},
	}
}

func (f *fakeSession) Navigate(ctx context.Context, url string) error {
	return f.failOn["navigate"]
}

func (f *fakeSession) WaitVisible(ctx context.Context, sel string, timeout time.Duration) error {
	if err := f.failOn["wait:"+sel]; err != nil {
		return err
	}
	if !f.visible[sel] {
		return fmt.Errorf("element %s not visible within %s", sel, timeout)
	}
	return nil
}

func (f *fakeSession) SendKeys(ctx context.Context, sel, text string) error {
	if err := f.failOn["keys:"+sel]; err != nil {
		return err
	}
	f.typed[sel] += text
	return nil
}

func (f *fakeSession) Click(ctx context.Context, sel string) error {
	if err := f.failOn["click:"+sel]; err != nil {
		return err
	}
	f.clicked = append(f.clicked, sel)
	return nil
}

func (f *fakeSession) Text(ctx context.Context, sel string) (string, error) {
	if err := f.failOn["text"]; err != nil {
		return "", err
	}
	return f.pageError, nil
}

func (f *fakeSession) Location(ctx context.Context) (string, error) {
	if err := f.failOn["location"]; err != nil {
		return "", err
	}
	return f.location, nil
}

func (f *fakeSession) Close() error {
	f.closeCount++
	return nil
}

// scriptPrompter supplies canned operator input.
type scriptPrompter struct {
	captcha       string
	captchaErr    error
	keepOpenCalls int
}

func (p *scriptPrompter) ReadCaptcha(tradeName string) (string, error) {
	return p.captcha, p.captchaErr
}

func (p *scriptPrompter) KeepOpen(tradeName string) {
	p.keepOpenCalls++
}

func fastOptions() Options {
	return Options{
		LoginURL:       "https://portal.test/login",
		FieldTimeout:   10 * time.Millisecond,
		CaptchaTimeout: 10 * time.Millisecond,
		SubmitTimeout:  10 * time.Millisecond,
		SettleDelay:    time.Millisecond,
	}
}

var testCreds = Credentials{TradeName: "Acme Co", Username: "u1", Password: "p1"}

func TestAttemptSuccess(t *testing.T) {
	session := newFakeSession()
	session.location = "https://portal.test/auth/dashboard"
	prompter := &scriptPrompter{captcha: "X7K2F"}

	out := New(session, prompter, fastOptions()).Attempt(context.Background(), testCreds)

	assert.True(t, out.Success)
	assert.Equal(t, StateEvaluated, out.State)
	assert.NoError(t, out.Err)

	assert.Equal(t, "u1", session.typed[usernameSel])
	assert.Equal(t, "p1", session.typed[passwordSel])
	assert.Equal(t, "X7K2F", session.typed[captchaSel])
	assert.Equal(t, []string{submitSel}, session.clicked)

	assert.Equal(t, 1, session.closeCount)
	assert.Equal(t, 1, prompter.keepOpenCalls)
}

func TestAttemptSuccessMarkers(t *testing.T) {
	tests := []struct {
		location string
		success  bool
	}{
		{"https://portal.test/dashboard", true},
		{"https://portal.test/account/home", true},
		{"https://portal.test/loggedin", true},
		{"https://portal.test/DASHBOARD", true},
		{"https://portal.test/services/login?err=1", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			session := newFakeSession()
			session.location = tt.location
			prompter := &scriptPrompter{captcha: "X"}

			out := New(session, prompter, fastOptions()).Attempt(context.Background(), testCreds)

			assert.Equal(t, tt.success, out.Success)
			assert.Equal(t, StateEvaluated, out.State)
			assert.Equal(t, 1, session.closeCount)
		})
	}
}

func TestAttemptFailureScrapesPageError(t *testing.T) {
	session := newFakeSession()
	session.location = "https://portal.test/services/login"
	session.pageError = "  Invalid Captcha! Please try again.  "
	prompter := &scriptPrompter{captcha: "WRONG"}

	out := New(session, prompter, fastOptions()).Attempt(context.Background(), testCreds)

	assert.False(t, out.Success)
	assert.Equal(t, "Invalid Captcha! Please try again.", out.PageError)
	assert.Equal(t, 1, session.closeCount)
	assert.Zero(t, prompter.keepOpenCalls)
}

func TestAttemptPageErrorScrapeFailureSwallowed(t *testing.T) {
	session := newFakeSession()
	session.location = "https://portal.test/services/login"
	session.failOn["text"] = errors.New("no such element")
	prompter := &scriptPrompter{captcha: "X"}

	out := New(session, prompter, fastOptions()).Attempt(context.Background(), testCreds)

	assert.False(t, out.Success)
	assert.NoError(t, out.Err)
	assert.Empty(t, out.PageError)
	assert.Equal(t, 1, session.closeCount)
}

func TestAttemptCaptchaNeverAppears(t *testing.T) {
	session := newFakeSession()
	session.visible[captchaSel] = false
	prompter := &scriptPrompter{captcha: "X"}

	out := New(session, prompter, fastOptions()).Attempt(context.Background(), testCreds)

	assert.False(t, out.Success)
	assert.Equal(t, StateFormFilled, out.State)
	assert.Error(t, out.Err)
	assert.Equal(t, 1, session.closeCount, "session must close exactly once")
}

func TestAttemptTeardownOnEveryFault(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		rig     func(*fakeSession, *scriptPrompter)
		failsAt State
	}{
		{"navigate", func(s *fakeSession, p *scriptPrompter) { s.failOn["navigate"] = boom }, StateIdle},
		{"wait username", func(s *fakeSession, p *scriptPrompter) { s.visible[usernameSel] = false }, StateNavigated},
		{"type username", func(s *fakeSession, p *scriptPrompter) { s.failOn["keys:"+usernameSel] = boom }, StateNavigated},
		{"type password", func(s *fakeSession, p *scriptPrompter) { s.failOn["keys:"+passwordSel] = boom }, StateNavigated},
		{"wait captcha", func(s *fakeSession, p *scriptPrompter) { s.visible[captchaSel] = false }, StateFormFilled},
		{"read captcha", func(s *fakeSession, p *scriptPrompter) { p.captchaErr = boom }, StateAwaitingCaptcha},
		{"type captcha", func(s *fakeSession, p *scriptPrompter) { s.failOn["keys:"+captchaSel] = boom }, StateAwaitingCaptcha},
		{"wait submit", func(s *fakeSession, p *scriptPrompter) { s.visible[submitSel] = false }, StateAwaitingCaptcha},
		{"click submit", func(s *fakeSession, p *scriptPrompter) { s.failOn["click:"+submitSel] = boom }, StateAwaitingCaptcha},
		{"read location", func(s *fakeSession, p *scriptPrompter) { s.failOn["location"] = boom }, StateSubmitted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newFakeSession()
			prompter := &scriptPrompter{captcha: "X"}
			tt.rig(session, prompter)

			out := New(session, prompter, fastOptions()).Attempt(context.Background(), testCreds)

			assert.False(t, out.Success)
			assert.Equal(t, tt.failsAt, out.State)
			require.Error(t, out.Err)
			// Failures carry account attribution
			assert.Contains(t, out.Err.Error(), `"Acme Co"`)
			assert.Equal(t, 1, session.closeCount, "session must close exactly once")
			assert.Zero(t, prompter.keepOpenCalls)
		})
	}
}

func TestAttemptCanceledDuringSettle(t *testing.T) {
	session := newFakeSession()
	prompter := &scriptPrompter{captcha: "X"}

	opts := fastOptions()
	opts.SettleDelay = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := New(session, prompter, opts).Attempt(ctx, testCreds)

	assert.False(t, out.Success)
	assert.Equal(t, StateSubmitted, out.State)
	assert.ErrorIs(t, out.Err, context.Canceled)
	assert.Equal(t, 1, session.closeCount)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "awaiting-captcha", StateAwaitingCaptcha.String())
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "state(99)", State(99).String())
}
