package model

// AvailabilityDigest lists open slots per department and weekday, in store order.
type AvailabilityDigest []DepartmentAvailability

type DepartmentAvailability struct {
	Department string            `json:"department"`
	Days       []DayAvailability `json:"days"`
}

type DayAvailability struct {
	Day   string   `json:"day"`
	Slots []string `json:"slots"`
}

// BookedSlots lists occupied booking times per department.
type BookedSlots []DepartmentBookings

type DepartmentBookings struct {
	Department string   `json:"department"`
	Slots      []string `json:"slots"`
}
