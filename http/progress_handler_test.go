package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medication-bot/domain"
	"medication-bot/message"
	"medication-bot/repository"
	"medication-bot/service"
)

var testQuickReplies = []domain.QuickReply{
	{Label: "메인", Action: "message", MessageText: "메인메뉴"},
	{Label: "다시계산", Action: "message", MessageText: "복약 진행 확인"},
}

func newTestHandler(now time.Time) *ProgressHandler {
	svc := service.NewProgressService(
		repository.NewMemoryCache(),
		service.WithClock(func() time.Time { return now }),
		service.WithLocation(time.UTC),
	)
	return NewProgressHandler(svc, testQuickReplies)
}

func postMedication(t *testing.T, h http.Handler, body string) domain.SkillResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/medication", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var resp domain.SkillResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2.0", resp.Version)
	require.Len(t, resp.Template.Outputs, 1)
	return resp
}

func TestCheckProgress_OK(t *testing.T) {
	h := http.HandlerFunc(newTestHandler(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)).CheckProgress)

	resp := postMedication(t, h, `{"action":{"params":{"startDate":"20250101","months":"2"}}}`)

	text := resp.Template.Outputs[0].SimpleText.Text
	assert.Contains(t, text, "2025-01-01")
	assert.Contains(t, text, "2025-03-02")
	assert.Contains(t, text, "1.6%")
	assert.Contains(t, text, "1일째 / 총 61일")
	assert.Contains(t, text, "D-60")
	assert.Equal(t, testQuickReplies, resp.Template.QuickReplies)
}

func TestCheckProgress_NumericParams(t *testing.T) {
	h := http.HandlerFunc(newTestHandler(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)).CheckProgress)

	resp := postMedication(t, h, `{"action":{"params":{"startDate":"2025-01-01","months":1}}}`)

	text := resp.Template.Outputs[0].SimpleText.Text
	assert.Contains(t, text, "2025-01-31")
	assert.Contains(t, text, "100.0%")
	assert.Contains(t, text, "D-0")
}

func TestCheckProgress_SystemDateEntity(t *testing.T) {
	h := http.HandlerFunc(newTestHandler(time.Date(2025, 9, 7, 9, 0, 0, 0, time.UTC)).CheckProgress)

	resp := postMedication(t, h, `{"action":{"params":{"startDate":"{\"value\":\"2025-09-07\"}","months":"1"}}}`)

	assert.Contains(t, resp.Template.Outputs[0].SimpleText.Text, "2025-10-07")
}

func TestCheckProgress_ValidationFailures(t *testing.T) {
	h := http.HandlerFunc(newTestHandler(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)).CheckProgress)

	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "missing both",
			body: `{"action":{"params":{}}}`,
			want: []string{"입력값이 없습니다", "복약 시작일, 복약 기간(개월)"},
		},
		{
			name: "missing months",
			body: `{"action":{"params":{"startDate":"20250101","months":""}}}`,
			want: []string{"입력값이 없습니다: 복약 기간(개월)\n"},
		},
		{
			name: "months not a number",
			body: `{"action":{"params":{"startDate":"20250101","months":"abc"}}}`,
			want: []string{"복약 기간(개월)이 올바르지 않습니다"},
		},
		{
			name: "negative months",
			body: `{"action":{"params":{"startDate":"20250101","months":-2}}}`,
			want: []string{"복약 기간(개월)이 올바르지 않습니다"},
		},
		{
			name: "slashed date",
			body: `{"action":{"params":{"startDate":"2025/09/07","months":"3"}}}`,
			want: []string{"형식이 올바르지 않습니다", message.DateExample},
		},
		{
			name: "placeholder leaked",
			body: `{"action":{"params":{"startDate":"sys.date","months":"3"}}}`,
			want: []string{"인식하지 못했습니다", message.DateExample},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postMedication(t, h, tt.body)

			text := resp.Template.Outputs[0].SimpleText.Text
			for _, w := range tt.want {
				assert.Contains(t, text, w)
			}
			assert.Empty(t, resp.Template.QuickReplies)
		})
	}
}

func TestCheckProgress_MalformedBody(t *testing.T) {
	h := http.HandlerFunc(newTestHandler(time.Now()).CheckProgress)

	resp := postMedication(t, h, `{invalid-json}`)

	assert.Equal(t, message.ServerError, resp.Template.Outputs[0].SimpleText.Text)
}

func TestCheckProgress_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(time.Now())

	req := httptest.NewRequest(http.MethodGet, "/medication", nil)
	w := httptest.NewRecorder()

	h.CheckProgress(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
