// Package message renders progress results and failures as chat text.
package message

import (
	"fmt"
	"strings"

	"medication-bot/domain"
	"medication-bot/service"
)

const (
	ServerError = "⚠️ 서버 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."
	RateLimited = "⚠️ 요청이 너무 많습니다. 잠시 후 다시 시도해 주세요."
	DateExample = "예) 2025-09-07 또는 20250907"
)

var fieldLabels = map[string]string{
	service.FieldStartDate: "복약 시작일",
	service.FieldMonths:    "복약 기간(개월)",
}

func Success(p domain.ProgressResult) string {
	return fmt.Sprintf(
		"📅 복약 시작일: %s\n"+
			"📌 복약 종료일: %s\n"+
			"📈 복약 진행률: %.1f%% (%d일째 / 총 %d일)\n"+
			"⏳ 남은 일수: D-%d",
		p.StartDate, p.EndDate, p.ProgressPercent, p.ElapsedDays, p.TotalDays, p.RemainingDays,
	)
}

// Error maps a failed evaluation to the text shown to the user. Internal
// errors never expose their detail.
func Error(err error) string {
	switch service.KindOf(err) {
	case service.KindMissingInput:
		return fmt.Sprintf("⚠️ 입력값이 없습니다: %s\n복약 시작일과 복약 기간(개월)을 모두 입력해 주세요.", labelsFor(service.FieldOf(err)))
	case service.KindInvalidMonths:
		return fmt.Sprintf("⚠️ 복약 기간(개월)이 올바르지 않습니다.\n1에서 %d 사이의 숫자로 입력해 주세요.", service.MaxMonths)
	case service.KindInvalidDate:
		return "⚠️ 복약 시작일 형식이 올바르지 않습니다.\n" + DateExample
	case service.KindUnresolvedPlaceholder:
		return "⚠️ 복약 시작일을 인식하지 못했습니다. 날짜를 다시 입력해 주세요.\n" + DateExample
	default:
		return ServerError
	}
}

func labelsFor(fields string) string {
	var labels []string
	for _, f := range strings.Split(fields, ",") {
		if label, ok := fieldLabels[f]; ok {
			labels = append(labels, label)
		}
	}
	return strings.Join(labels, ", ")
}
