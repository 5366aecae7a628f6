package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

const SkillResponseVersion = "2.0"

type SkillRequest struct {
	UserRequest UserRequest `json:"userRequest"`
	Action      SkillAction `json:"action"`
}

type UserRequest struct {
	User SkillUser `json:"user"`
}

// SkillUser identifies the chat user. Requests from every user arrive
// through the platform's relay servers, so the id is the only per-user key.
type SkillUser struct {
	ID string `json:"id"`
}

// UserID returns the platform user id, or "" when absent.
func (r SkillRequest) UserID() string {
	return strings.TrimSpace(r.UserRequest.User.ID)
}

type SkillAction struct {
	Name   string         `json:"name,omitempty"`
	Params map[string]any `json:"params"`
}

// Param returns the named action parameter, or nil when absent.
func (r SkillRequest) Param(name string) any {
	return r.Action.Params[name]
}

// ParamString returns the named parameter as trimmed text. Numbers are
// formatted without exponent and system entity objects such as
// {"value":"2025-09-07"} yield their value. Any other type yields "".
func (r SkillRequest) ParamString(name string) string {
	switch v := r.Param(name).(type) {
	case string:
		s := strings.TrimSpace(v)
		if strings.HasPrefix(s, "{") {
			var entity struct {
				Value string `json:"value"`
			}
			if err := json.Unmarshal([]byte(s), &entity); err == nil && entity.Value != "" {
				return strings.TrimSpace(entity.Value)
			}
		}
		return s
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

type SkillResponse struct {
	Version  string        `json:"version"`
	Template SkillTemplate `json:"template"`
}

type SkillTemplate struct {
	Outputs      []SkillOutput `json:"outputs"`
	QuickReplies []QuickReply  `json:"quickReplies,omitempty"`
}

type SkillOutput struct {
	SimpleText SimpleText `json:"simpleText"`
}

type SimpleText struct {
	Text string `json:"text"`
}

type QuickReply struct {
	Label       string `json:"label" yaml:"label" toml:"label"`
	Action      string `json:"action" yaml:"action,omitempty" toml:"action,omitempty"`
	MessageText string `json:"messageText" yaml:"message_text" toml:"message_text"`
}

// NewTextResponse builds a single simpleText response with optional quick
// replies.
func NewTextResponse(text string, quickReplies ...QuickReply) SkillResponse {
	return SkillResponse{
		Version: SkillResponseVersion,
		Template: SkillTemplate{
			Outputs:      []SkillOutput{{SimpleText: SimpleText{Text: text}}},
			QuickReplies: quickReplies,
		},
	}
}
