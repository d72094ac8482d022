package services

import (
	"context"
	"fmt"

	"github.com/soaringjerry/Mindtrack/internal/logging"
	"github.com/soaringjerry/Mindtrack/internal/utils"
)

// LogNotifier writes due reminders to the log. Delivery to the OS or a
// push channel is handled outside this service.
type LogNotifier struct {
	log    logging.Logger
	locale string
}

func NewLogNotifier(log logging.Logger, locale string) *LogNotifier {
	return &LogNotifier{log: log, locale: locale}
}

func (n *LogNotifier) Notify(_ context.Context, reminders []DueReminder) error {
	for _, r := range reminders {
		n.log.Infow(fmt.Sprintf(utils.T(n.locale, "reminder.due"), r.AssessmentTypeCode),
			"schedule_id", r.ScheduleID,
			"assessment", r.AssessmentTypeCode,
			"date", r.TriggeredOn,
		)
	}
	return nil
}
