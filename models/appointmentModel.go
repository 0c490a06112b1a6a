package models

import "time"

// UserSnapshot is the patient's public fields as they were at booking time.
type UserSnapshot struct {
	Name  string `gorm:"column:name" json:"name"`
	Email string `gorm:"column:email" json:"email"`
	Phone string `gorm:"column:phone" json:"phone"`
}

// DoctorSnapshot is the doctor's public fields as they were at booking time.
type DoctorSnapshot struct {
	Name       string  `gorm:"column:name" json:"name"`
	Speciality string  `gorm:"column:speciality" json:"speciality"`
	Image      string  `gorm:"column:image" json:"image"`
	Fees       float64 `gorm:"column:fees" json:"fees"`
}

// Appointment records one booking. The embedded snapshots are immutable:
// they are written once on creation and never follow later profile edits,
// so a listing always shows what was actually booked. Rows are never
// deleted; cancellation only sets the flag.
type Appointment struct {
	ID        string    `gorm:"primaryKey;column:id" json:"_id"`
	UserID    string    `gorm:"column:user_id;not null;index" json:"userId"`
	DoctorID  string    `gorm:"column:doctor_id;not null;index" json:"docId"`
	SlotDate  string    `gorm:"column:slot_date;not null" json:"slotDate"`
	SlotTime  string    `gorm:"column:slot_time;not null" json:"slotTime"`
	Amount    float64   `gorm:"column:amount;not null" json:"amount"`
	Cancelled bool      `gorm:"column:cancelled;not null" json:"cancelled"`
	Completed bool      `gorm:"column:completed;not null" json:"isCompleted"`
	Payment   bool      `gorm:"column:payment;not null" json:"payment"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"date"`

	UserData   UserSnapshot   `gorm:"embedded;embeddedPrefix:user_" json:"userData"`
	DoctorData DoctorSnapshot `gorm:"embedded;embeddedPrefix:doc_" json:"docData"`
}

func (Appointment) TableName() string {
	return "appointment"
}
