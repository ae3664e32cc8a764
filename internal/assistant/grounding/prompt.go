package grounding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"medassist/pkg/model"
)

// Source is the part of the availability service the prompt is built from.
type Source interface {
	Departments(ctx context.Context) ([]string, error)
	OpenSchedule(ctx context.Context, now time.Time) (string, error)
	BookedSlotsByDepartment(ctx context.Context) (model.BookedSlots, error)
}

// Grounding is the schedule snapshot taken when a conversation starts.
type Grounding struct {
	Departments  []string          `json:"departments"`
	OpenSchedule string            `json:"open_schedule"`
	BookedSlots  model.BookedSlots `json:"booked_slots"`
	SystemPrompt string            `json:"system_prompt"`
}

type Builder struct {
	source Source
}

func NewBuilder(source Source) *Builder {
	return &Builder{source: source}
}

func (b *Builder) Build(ctx context.Context, now time.Time) (*Grounding, error) {
	departments, err := b.source.Departments(ctx)
	if err != nil {
		return nil, err
	}
	openSchedule, err := b.source.OpenSchedule(ctx, now)
	if err != nil {
		return nil, err
	}
	booked, err := b.source.BookedSlotsByDepartment(ctx)
	if err != nil {
		return nil, err
	}

	g := &Grounding{
		Departments:  departments,
		OpenSchedule: openSchedule,
		BookedSlots:  booked,
	}
	g.SystemPrompt = SystemPrompt(g)
	return g, nil
}

var instructions = []string{
	"You are MedAssist, a helpful and professional virtual assistant for a medical center.",
	"Your role is to guide patients in booking medical appointments clearly and efficiently.",
	"Confirm each step along the way, and always ensure final confirmation before booking.",
	"Only use the information provided. If something falls outside the scope of available departments or schedules, respond with 'I do not know' and refocus the conversation.",
	"Gather appointment details incrementally: department name, preferred day, and preferred time.",
	"Keep communication simple, friendly, and conversational.",
	"Do not read or interpret special characters or symbols.",
}

var closing = []string{
	"When offering times, describe the available slots as ranges from the first to the last time and keep it short.",
	"If a requested time slot is already booked for the chosen department, tell the user.",
	"Make sure to confirm with the user before going ahead and booking the appointment.",
}

func SystemPrompt(g *Grounding) string {
	var sb strings.Builder
	for _, line := range instructions {
		sb.WriteString(line)
		sb.WriteString(" ")
	}

	fmt.Fprintf(&sb, "Available departments: %s. ", strings.Join(g.Departments, ", "))
	fmt.Fprintf(&sb, "%s is the open schedule for the departments, make sure to choose from these. ", g.OpenSchedule)
	fmt.Fprintf(&sb, "These time slots are already booked per department: %s. Exclude them from the available slots. ", FormatBookedSlots(g.BookedSlots))

	sb.WriteString(strings.Join(closing, " "))
	return sb.String()
}

// FormatBookedSlots renders "Cardiology: 2024-06-10 09:30:00, ...; Radiology: none".
func FormatBookedSlots(booked model.BookedSlots) string {
	if len(booked) == 0 {
		return "none"
	}

	parts := make([]string, 0, len(booked))
	for _, d := range booked {
		slots := "none"
		if len(d.Slots) > 0 {
			slots = strings.Join(d.Slots, ", ")
		}
		parts = append(parts, d.Department+": "+slots)
	}
	return strings.Join(parts, "; ")
}
