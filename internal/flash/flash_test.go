package flash

import (
	"net/http/httptest"
	"testing"
)

func TestSetThenPop(t *testing.T) {
	// Set writes the cookie on one response...
	rec := httptest.NewRecorder()
	Set(rec, "error", "Invalid credentials")

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("len(cookies) = %d, want 1", len(cookies))
	}

	// ...and Pop reads it back on the next request.
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookies[0])
	rec2 := httptest.NewRecorder()

	msg := Pop(rec2, req)
	if msg == nil {
		t.Fatal("expected flash message")
	}
	if msg.Category != "error" {
		t.Errorf("category = %q, want %q", msg.Category, "error")
	}
	if msg.Text != "Invalid credentials" {
		t.Errorf("text = %q, want %q", msg.Text, "Invalid credentials")
	}
}

func TestPopClearsCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	Set(rec, "success", "Logged in")

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	rec2 := httptest.NewRecorder()
	Pop(rec2, req)

	var cleared bool
	for _, c := range rec2.Result().Cookies() {
		if c.Name == cookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected flash cookie to be expired after Pop")
	}
}

func TestPopNoCookie(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	if msg := Pop(rec, req); msg != nil {
		t.Errorf("msg = %+v, want nil without a flash cookie", msg)
	}
}

func TestMessageTextWithColon(t *testing.T) {
	rec := httptest.NewRecorder()
	Set(rec, "success", "Note: dough needs 24h")

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])

	msg := Pop(httptest.NewRecorder(), req)
	if msg == nil {
		t.Fatal("expected flash message")
	}
	if msg.Text != "Note: dough needs 24h" {
		t.Errorf("text = %q, want colon preserved", msg.Text)
	}
}
