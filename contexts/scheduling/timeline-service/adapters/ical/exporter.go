package icaladapter

import (
	"time"

	ics "github.com/arran4/golang-ical"

	"atelier/contexts/scheduling/timeline-service/domain/entities"
)

const defaultProdID = "-//Atelier//Scheduling Core//EN"

// Exporter renders a queried timeline window as an iCalendar feed. Export
// only: the scheduling core never ingests third-party calendars.
type Exporter struct {
	ProdID string
}

func (e Exporter) Feed(events []entities.TimelineEvent, generatedAt time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	prodID := e.ProdID
	if prodID == "" {
		prodID = defaultProdID
	}
	cal.SetProductId(prodID)

	for _, event := range events {
		ve := cal.AddEvent(string(event.SourceKind) + "-" + event.SourceID + "@atelier")
		ve.SetDtStampTime(generatedAt.UTC())
		ve.SetSummary(event.Title)
		if event.Description != "" {
			ve.SetDescription(event.Description)
		}
		if event.StartsAt != nil {
			ve.SetStartAt(*event.StartsAt)
			if event.EndsAt != nil {
				ve.SetEndAt(*event.EndsAt)
			} else {
				ve.SetEndAt(event.StartsAt.Add(time.Hour))
			}
		} else {
			ve.SetAllDayStartAt(event.OccursOn)
			ve.SetAllDayEndAt(event.OccursOn.AddDate(0, 0, 1))
		}
		ve.SetStatus(objectStatus(event.LifecycleStatus))
	}
	return cal.Serialize()
}

func objectStatus(status entities.LifecycleStatus) ics.ObjectStatus {
	switch status.Normalized() {
	case entities.StatusPending:
		return ics.ObjectStatusTentative
	case entities.StatusCancelled:
		return ics.ObjectStatusCancelled
	default:
		return ics.ObjectStatusConfirmed
	}
}
