package model

// Department is a clinical department with weekly operating hours. The core
// never writes departments; they are seeded and maintained out of band.
type Department struct {
	ID             string           `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name           string           `json:"name" bson:"name" validate:"required,min=2,max=100"`
	OperatingHours []OperatingHours `json:"operating_hours" bson:"operating_hours" validate:"omitempty,dive"`
}

// OperatingHours is one opening window on a weekday. Several windows may share a day.
type OperatingHours struct {
	DayOfWeek string `json:"day_of_week" bson:"day_of_week" validate:"required,weekday"`
	StartTime string `json:"start_time" bson:"start_time" validate:"required,time_of_day"`
	EndTime   string `json:"end_time" bson:"end_time" validate:"required,time_of_day,time_after=StartTime"`
}
