package mapper

import (
	"mentor-scheduler/modules/calendar/dto"
	"mentor-scheduler/modules/calendar/entity"
	"mentor-scheduler/modules/visibility"
)

func ToCalendarResponse(cal *entity.Calendar, ownerName string, isOwner bool) *dto.CalendarResponse {
	if cal == nil {
		return nil
	}

	name := cal.Name
	if name == "" && ownerName != "" {
		name = entity.DefaultName(ownerName)
	}

	return &dto.CalendarResponse{
		ID:                   cal.ID,
		OwnerType:            string(cal.OwnerType),
		OwnerID:              cal.OwnerID,
		OwnerName:            ownerName,
		CalendarType:         string(cal.CalendarType),
		Name:                 name,
		Slug:                 cal.Slug,
		Description:          cal.Description,
		Timezone:             cal.Timezone,
		Color:                cal.Color,
		DefaultEventDuration: cal.DefaultEventDuration,
		BufferTime:           cal.BufferTime,
		AdvanceBookingDays:   cal.AdvanceBookingDays,
		MinimumNoticeHours:   cal.MinimumNoticeHours,
		IsPublic:             cal.IsPublic,
		IsOwner:              isOwner,
		Settings:             orEmpty(cal.Settings),
		WorkHours:            orEmpty(cal.WorkHours),
		BookingRules:         orEmpty(cal.BookingRules),
		Events:               []visibility.EventView{},
	}
}

// ApplyUpdate copies the present fields of req onto cal.
func ApplyUpdate(cal *entity.Calendar, req *dto.UpdateCalendarRequest) {
	if req.Name != nil {
		cal.Name = *req.Name
	}
	if req.Description != nil {
		cal.Description = req.Description
	}
	if req.Timezone != nil {
		cal.Timezone = *req.Timezone
	}
	if req.Color != nil {
		cal.Color = *req.Color
	}
	if req.DefaultEventDuration != nil {
		cal.DefaultEventDuration = *req.DefaultEventDuration
	}
	if req.BufferTime != nil {
		cal.BufferTime = *req.BufferTime
	}
	if req.AdvanceBookingDays != nil {
		cal.AdvanceBookingDays = *req.AdvanceBookingDays
	}
	if req.MinimumNoticeHours != nil {
		cal.MinimumNoticeHours = *req.MinimumNoticeHours
	}
	if req.IsPublic != nil {
		cal.IsPublic = *req.IsPublic
	}
	if req.Settings != nil {
		cal.Settings = req.Settings
	}
	if req.WorkHours != nil {
		cal.WorkHours = req.WorkHours
	}
	if req.BookingRules != nil {
		cal.BookingRules = req.BookingRules
	}
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
