package digest

import (
	"testing"

	"medassist/pkg/model"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		digest model.AvailabilityDigest
		want   string
	}{
		{
			name:   "empty digest",
			digest: nil,
			want:   "Here are the available appointment slots:",
		},
		{
			name: "department without open days",
			digest: model.AvailabilityDigest{
				{Department: "Cardiology"},
			},
			want: "Here are the available appointment slots: Cardiology:.",
		},
		{
			name: "single day",
			digest: model.AvailabilityDigest{
				{Department: "Cardiology", Days: []model.DayAvailability{
					{Day: "Monday", Slots: []string{"09:00", "09:30"}},
				}},
			},
			want: "Here are the available appointment slots: Cardiology: Monday (09:00, 09:30).",
		},
		{
			name: "several departments and days",
			digest: model.AvailabilityDigest{
				{Department: "Cardiology", Days: []model.DayAvailability{
					{Day: "Monday", Slots: []string{"09:00", "09:30"}},
					{Day: "Wednesday", Slots: []string{"14:00"}},
				}},
				{Department: "Radiology", Days: []model.DayAvailability{
					{Day: "Friday", Slots: []string{"10:00"}},
				}},
			},
			want: "Here are the available appointment slots: Cardiology: Monday (09:00, 09:30), Wednesday (14:00). Radiology: Friday (10:00).",
		},
		{
			name: "days without slots are skipped",
			digest: model.AvailabilityDigest{
				{Department: "Cardiology", Days: []model.DayAvailability{
					{Day: "Monday", Slots: []string{}},
					{Day: "Tuesday", Slots: []string{"11:30"}},
				}},
				{Department: "Radiology", Days: []model.DayAvailability{
					{Day: "Friday", Slots: nil},
				}},
			},
			want: "Here are the available appointment slots: Cardiology: Tuesday (11:30). Radiology:.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.digest); got != tt.want {
				t.Errorf("Format() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestFormat_Deterministic(t *testing.T) {
	d := model.AvailabilityDigest{
		{Department: "Cardiology", Days: []model.DayAvailability{{Day: "Monday", Slots: []string{"09:00"}}}},
		{Department: "Neurology", Days: []model.DayAvailability{{Day: "Sunday", Slots: []string{"08:00"}}}},
	}

	first := Format(d)
	for i := 0; i < 5; i++ {
		if got := Format(d); got != first {
			t.Fatalf("Format() not stable: %q vs %q", got, first)
		}
	}
}
