package service

import (
	"strings"
	"time"

	calendarEntity "mentor-scheduler/modules/calendar/entity"
	"mentor-scheduler/modules/visibility"

	ical "github.com/arran4/golang-ical"
)

const productID = "-//mentor-scheduler//calendar feed//EN"

// RenderICS writes views as an iCalendar document. Masked views keep only
// their time range and a busy summary.
func RenderICS(cal *calendarEntity.Calendar, views []visibility.EventView, stamp time.Time) []byte {
	doc := ical.NewCalendar()
	doc.SetMethod(ical.MethodPublish)
	doc.SetProductId(productID)
	doc.SetXWRCalName(cal.Name)
	doc.SetXWRTimezone(cal.Timezone)
	if cal.Description != nil && *cal.Description != "" {
		doc.SetXWRCalDesc(*cal.Description)
	}

	for _, v := range views {
		ev := doc.AddEvent(v.ID.String() + "@" + cal.Slug)
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(v.Start)
		ev.SetEndAt(v.End)
		ev.SetSummary(v.Title)

		if v.Masked || v.Details == nil {
			ev.SetProperty(ical.ComponentPropertyClass, "PRIVATE")
			ev.SetProperty(ical.ComponentPropertyTransp, "OPAQUE")
			continue
		}

		d := v.Details
		if d.Description != "" {
			ev.SetDescription(d.Description)
		}
		if d.Location != "" {
			ev.SetLocation(d.Location)
		} else if d.MeetingLink != "" {
			ev.SetLocation(d.MeetingLink)
		}
		if d.MeetingLink != "" {
			ev.SetURL(d.MeetingLink)
		}
		ev.SetStatus(objectStatus(string(d.Status)))
		ev.SetProperty(ical.ComponentPropertyClass, "PUBLIC")
		if len(d.Tags) > 0 {
			ev.SetProperty(ical.ComponentPropertyCategories, strings.Join(d.Tags, ","))
		}
	}

	return []byte(doc.Serialize())
}

func objectStatus(status string) ical.ObjectStatus {
	switch status {
	case "confirmed", "completed":
		return ical.ObjectStatusConfirmed
	case "cancelled":
		return ical.ObjectStatusCancelled
	default:
		return ical.ObjectStatusTentative
	}
}
