package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"timetable/models"

	"github.com/gin-gonic/gin"
)

type stubAssistant struct {
	reply string
	err   error
	got   models.WebhookRequest
}

func (s *stubAssistant) Fulfill(_ context.Context, req models.WebhookRequest) (string, error) {
	s.got = req
	return s.reply, s.err
}

func (s *stubAssistant) TodayClasses(context.Context, string) (string, error) { return s.reply, s.err }
func (s *stubAssistant) NextClass(context.Context) (string, error)            { return s.reply, s.err }
func (s *stubAssistant) ClassLocation(context.Context, string) (string, error) {
	return s.reply, s.err
}

func serve(h *WebhookHandler, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhook", h.FulfillmentHandler)
	r.GET("/", h.LiveHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func fulfillmentText(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp models.WebhookResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
	}
	return resp.FulfillmentText
}

func Test_FulfillmentHandler(t *testing.T) {
	stub := &stubAssistant{reply: "📘 DBMS"}
	w := serve(NewWebhookHandler(stub), `{
		"queryResult": {
			"intent": {"displayName": "GetClassLocation"},
			"parameters": {"course_name": "DBMS"}
		}
	}`)

	if got := fulfillmentText(t, w); got != "📘 DBMS" {
		t.Errorf("fulfillmentText = %q", got)
	}
	if stub.got.QueryResult.Intent.DisplayName != "GetClassLocation" {
		t.Errorf("intent not passed through: %+v", stub.got)
	}
	if stub.got.QueryResult.Parameters["course_name"] != "DBMS" {
		t.Errorf("parameters not passed through: %+v", stub.got.QueryResult.Parameters)
	}
}

func Test_FulfillmentHandler_Failures(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
	}{
		{name: "Service error", body: `{"queryResult": {"intent": {"displayName": "GetNextClass"}}}`, err: errors.New("boom")},
		{name: "Malformed body", body: `{"queryResult":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(NewWebhookHandler(&stubAssistant{err: tt.err}), tt.body)
			if got := fulfillmentText(t, w); got != msgWebhookFailure {
				t.Errorf("fulfillmentText = %q, want %q", got, msgWebhookFailure)
			}
		})
	}
}
