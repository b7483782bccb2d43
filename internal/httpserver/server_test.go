package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/mathflash/assets"
	"github.com/robalobadob/mathflash/internal/game"
	"github.com/robalobadob/mathflash/internal/httpserver"
	"github.com/robalobadob/mathflash/internal/question"
	"github.com/robalobadob/mathflash/internal/sessionlog"
	"github.com/robalobadob/mathflash/internal/setup"
	"github.com/robalobadob/mathflash/internal/store"
)

// fixedGen always asks 2 + 3 = ?.
type fixedGen struct{}

func (fixedGen) Generate(setup.Config) question.Question {
	return question.Question{
		Operation:      setup.Addition,
		Operand1:       2,
		Operand2:       3,
		Result:         5,
		Hidden:         question.SlotResult,
		ExpectedAnswer: 5,
	}
}

// stillClock never fires timers; the tests drive state through actions only.
type stillClock struct{ now time.Time }

type noTimer struct{}

func (noTimer) Stop() bool { return false }

func (c stillClock) Now() time.Time                             { return c.now }
func (c stillClock) AfterFunc(time.Duration, func()) game.Timer { return noTimer{} }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	presets, err := setup.ParsePresets(assets.Presets())
	if err != nil {
		t.Fatalf("presets: %v", err)
	}
	srv := httpserver.New(httpserver.Deps{
		Sessions:  store.NewMemoryStore(),
		Handoffs:  store.NewHandoffs(time.Minute),
		Log:       sessionlog.New(sessionlog.NewMemoryBlobs()),
		Questions: fixedGen{},
		Presets:   presets,
		Clock:     stillClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		Logger:    zerolog.Nop(),
		Secret:    "test-secret",
	})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func do(t *testing.T, c *http.Client, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return res.StatusCode
}

type setupResponse struct {
	Error   string        `json:"error"`
	Preview setup.Preview `json:"preview"`
	Handoff string        `json:"handoff"`
	Mission string        `json:"mission"`
}

type gameResponse struct {
	Error    string    `json:"error"`
	Message  string    `json:"message"`
	Redirect string    `json:"redirect"`
	GameID   string    `json:"gameId"`
	View     game.View `json:"view"`
}

func launch(t *testing.T, ts *httptest.Server, c *http.Client) string {
	t.Helper()
	var sr setupResponse
	code := do(t, c, http.MethodPost, ts.URL+"/setup", map[string]any{
		"operations": []string{"addition"},
		"range":      "basic",
		"type":       "missing-result",
	}, &sr)
	if code != http.StatusOK || sr.Handoff == "" {
		t.Fatalf("setup: code=%d res=%+v", code, sr)
	}
	return sr.Handoff
}

func TestSetupOptions(t *testing.T) {
	ts := newTestServer(t)
	var res struct {
		Operations []struct{ ID, Title, Symbol string } `json:"operations"`
		Types      []struct{ ID, Title string }         `json:"types"`
		Ranges     []setup.Preset                       `json:"ranges"`
	}
	if code := do(t, newClient(t), http.MethodGet, ts.URL+"/setup/options", nil, &res); code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if len(res.Operations) != 4 || len(res.Types) != 3 {
		t.Fatalf("options = %+v", res)
	}
	if res.Operations[3].Symbol != "÷" {
		t.Fatalf("division symbol = %q", res.Operations[3].Symbol)
	}
	if len(res.Ranges) == 0 || res.Ranges[0].Range.String() != "1-5" {
		t.Fatalf("ranges = %+v", res.Ranges)
	}
}

func TestSetupIncompleteIsNotLaunched(t *testing.T) {
	ts := newTestServer(t)
	var sr setupResponse
	code := do(t, newClient(t), http.MethodPost, ts.URL+"/setup", map[string]any{
		"operations": []string{"addition"},
		"type":       "both",
	}, &sr)
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("code = %d", code)
	}
	if sr.Preview.Ready || sr.Preview.Range != "Select range" || sr.Handoff != "" {
		t.Fatalf("preview = %+v handoff=%q", sr.Preview, sr.Handoff)
	}
}

func TestSetupRejectsUnknownOperation(t *testing.T) {
	ts := newTestServer(t)
	code := do(t, newClient(t), http.MethodPost, ts.URL+"/setup", map[string]any{
		"operations": []string{"modulo"},
		"range":      "1-10",
		"type":       "both",
	}, nil)
	if code != http.StatusBadRequest {
		t.Fatalf("code = %d", code)
	}
}

func TestNewGameWithoutHandoffRedirects(t *testing.T) {
	ts := newTestServer(t)
	var gr gameResponse
	code := do(t, newClient(t), http.MethodPost, ts.URL+"/game/new", map[string]string{}, &gr)
	if code != http.StatusConflict {
		t.Fatalf("code = %d", code)
	}
	if gr.Error != "no_config" || gr.Redirect != "/" || gr.Message != "No configuration found. Redirecting to main menu." {
		t.Fatalf("res = %+v", gr)
	}
}

func TestHandoffIsReadOnce(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t)
	token := launch(t, ts, c)

	if code := do(t, c, http.MethodPost, ts.URL+"/game/new", map[string]string{"handoff": token}, nil); code != http.StatusCreated {
		t.Fatalf("first start = %d", code)
	}
	if code := do(t, c, http.MethodPost, ts.URL+"/game/new", map[string]string{"handoff": token}, nil); code != http.StatusConflict {
		t.Fatalf("second start = %d, want 409", code)
	}
}

func TestHandoffBelongsToPlayer(t *testing.T) {
	ts := newTestServer(t)
	token := launch(t, ts, newClient(t))

	if code := do(t, newClient(t), http.MethodPost, ts.URL+"/game/new", map[string]string{"handoff": token}, nil); code != http.StatusConflict {
		t.Fatalf("foreign start = %d, want 409", code)
	}
}

func TestPlayRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t)

	var started gameResponse
	code := do(t, c, http.MethodPost, ts.URL+"/game/new", map[string]string{"handoff": launch(t, ts, c)}, &started)
	if code != http.StatusCreated {
		t.Fatalf("start = %d", code)
	}
	if started.View.Equation != "2 + 3 = ?" || started.View.Mission != "ADDITION | Range: 1-10 | Mode: MISSING RESULT" {
		t.Fatalf("view = %+v", started.View)
	}
	actions := ts.URL + "/game/" + started.GameID + "/actions"

	var gr gameResponse
	do(t, c, http.MethodPost, actions, game.Action{Kind: game.ActSubmitAnswer, Input: "abc"}, &gr)
	if gr.View.Feedback.Kind != game.FeedbackValidation || gr.View.Stats.Total != 0 {
		t.Fatalf("validation view = %+v", gr.View)
	}

	do(t, c, http.MethodPost, actions, game.Action{Kind: game.ActSubmitAnswer, Input: "4"}, &gr)
	if gr.View.Feedback.Message != "INCORRECT. Answer: 5" || gr.View.Stats.Total != 1 {
		t.Fatalf("incorrect view = %+v", gr.View)
	}

	do(t, c, http.MethodPost, actions, game.Action{Kind: game.ActSubmitAnswer, Input: "5"}, &gr)
	if gr.View.Phase != game.PhaseCorrect || gr.View.Stats.Correct != 1 || gr.View.Accuracy != 50 {
		t.Fatalf("correct view = %+v", gr.View)
	}

	if code := do(t, c, http.MethodPost, actions, game.Action{Kind: game.ActSubmitAnswer, Input: "5"}, &gr); code != http.StatusConflict {
		t.Fatalf("submit while pending = %d, want 409", code)
	}
	if gr.View.Stats.Total != 2 {
		t.Fatalf("pending submit changed stats: %+v", gr.View.Stats)
	}

	if code := do(t, c, http.MethodPost, actions, game.Action{Kind: "dance"}, nil); code != http.StatusBadRequest {
		t.Fatalf("unknown action = %d", code)
	}

	if code := do(t, c, http.MethodPost, actions, game.Action{Kind: game.ActEnd}, &gr); code != http.StatusOK {
		t.Fatalf("end = %d", code)
	}
	if gr.View.Phase != game.PhaseEnded {
		t.Fatalf("phase = %q", gr.View.Phase)
	}
	if code := do(t, c, http.MethodGet, ts.URL+"/game/"+started.GameID, nil, nil); code != http.StatusNotFound {
		t.Fatalf("ended game lookup = %d, want 404", code)
	}

	var recent struct {
		Sessions []game.Snapshot `json:"sessions"`
	}
	do(t, c, http.MethodGet, ts.URL+"/sessions/recent", nil, &recent)
	if len(recent.Sessions) != 1 {
		t.Fatalf("recent = %+v", recent.Sessions)
	}
	if s := recent.Sessions[0].Stats; s.Correct != 1 || s.Total != 2 || s.MaxStreak != 1 {
		t.Fatalf("logged stats = %+v", s)
	}
}

func TestEndWithoutAnswersLogsNothing(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t)

	var started gameResponse
	do(t, c, http.MethodPost, ts.URL+"/game/new", map[string]string{"handoff": launch(t, ts, c)}, &started)
	do(t, c, http.MethodPost, ts.URL+"/game/"+started.GameID+"/actions", game.Action{Kind: game.ActEnd}, nil)

	var recent struct {
		Sessions []game.Snapshot `json:"sessions"`
	}
	do(t, c, http.MethodGet, ts.URL+"/sessions/recent", nil, &recent)
	if len(recent.Sessions) != 0 {
		t.Fatalf("recent = %+v", recent.Sessions)
	}
}

func TestGameIsScopedToPlayer(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t)

	var started gameResponse
	do(t, c, http.MethodPost, ts.URL+"/game/new", map[string]string{"handoff": launch(t, ts, c)}, &started)

	if code := do(t, newClient(t), http.MethodGet, ts.URL+"/game/"+started.GameID, nil, nil); code != http.StatusNotFound {
		t.Fatalf("foreign lookup = %d, want 404", code)
	}
	if code := do(t, c, http.MethodGet, ts.URL+"/game/"+started.GameID, nil, nil); code != http.StatusOK {
		t.Fatalf("own lookup = %d", code)
	}
}
