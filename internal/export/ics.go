package export

import (
	"fmt"

	ics "github.com/arran4/golang-ical"

	"github.com/vmartins/studysync/internal/models"
	"github.com/vmartins/studysync/internal/utils"
)

// renderICS writes the sessions as an iCalendar feed so the schedule can be
// subscribed to from any calendar client.
func renderICS(period Period, parts []models.ScheduledPart, _ []models.Task) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//studysync//schedule//EN")

	for i, part := range parts {
		uid := fmt.Sprintf("%s-%s-%d@studysync", period.Name, part.TaskID, i)
		event := cal.AddEvent(uid)
		event.SetDtStampTime(part.Start)
		event.SetStartAt(part.Start)
		event.SetEndAt(part.End)
		event.SetSummary(part.Name)
		event.SetDescription(fmt.Sprintf("Due %s", utils.DateKey(part.DueDate)))
	}

	return []byte(cal.Serialize()), nil
}
