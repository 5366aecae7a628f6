package http

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"medication-bot/domain"
	"medication-bot/message"
	"medication-bot/service"
)

const maxRequestBytes = 1 << 20

type ProgressHandler struct {
	service      *service.ProgressService
	quickReplies []domain.QuickReply
}

func NewProgressHandler(service *service.ProgressService, quickReplies []domain.QuickReply) *ProgressHandler {
	return &ProgressHandler{service: service, quickReplies: quickReplies}
}

// CheckProgress answers the medication skill. Every outcome, including
// malformed bodies, is a chat-renderable 200 response.
func (h *ProgressHandler) CheckProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reqID := RequestIDFrom(r.Context())

	var req domain.SkillRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		log.Printf("[%s] Error decoding request body: %v", reqID, err)
		writeSkillText(w, message.ServerError)
		return
	}
	log.Printf("[%s] medication params: %v", reqID, req.Action.Params)

	input := domain.ProgressInput{
		StartDateRaw: req.ParamString(service.FieldStartDate),
		MonthsRaw:    req.Param(service.FieldMonths),
	}

	result, err := h.service.Evaluate(r.Context(), input)
	if err != nil {
		if kind := service.KindOf(err); kind == service.KindInternal {
			log.Printf("[%s] Error calculating progress: %v", reqID, err)
		} else {
			log.Printf("[%s] Rejected input (%s): %v", reqID, kind, err)
		}
		writeSkillText(w, message.Error(err))
		return
	}

	writeSkillText(w, message.Success(result), h.quickReplies...)
}
