package models

import "time"

// Doctor model. BookedSlots is derived state: it is reassembled from the
// slot ledger on read and never written through this struct.
type Doctor struct {
	ID         string    `gorm:"primaryKey;column:id" json:"_id"`
	Name       string    `gorm:"column:name;not null;index" json:"name"`
	Email      string    `gorm:"column:email;size:255;not null;unique;index" json:"email"`
	Password   string    `gorm:"column:password;size:255;not null" json:"-"`
	Image      string    `gorm:"column:image" json:"image"`
	Speciality string    `gorm:"column:speciality;not null;index" json:"speciality"`
	Degree     string    `gorm:"column:degree" json:"degree"`
	Experience string    `gorm:"column:experience" json:"experience"`
	About      string    `gorm:"column:about;type:text" json:"about"`
	Available  bool      `gorm:"column:available;not null" json:"available"`
	Fees       float64   `gorm:"column:fees;not null" json:"fees"`
	Address    string    `gorm:"column:address" json:"address"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	BookedSlots map[string][]string `gorm:"-" json:"slots_booked"`
}

func (Doctor) TableName() string {
	return "doctor"
}

// SlotReservation is one row of the slot ledger: a reserved
// (doctor, date, time) triple. The composite unique index makes the
// reservation an atomic conditional insert, so two concurrent bookings of
// the same triple cannot both commit.
type SlotReservation struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	DoctorID  string    `gorm:"column:doctor_id;not null;uniqueIndex:idx_doctor_date_time" json:"doctor_id"`
	SlotDate  string    `gorm:"column:slot_date;not null;uniqueIndex:idx_doctor_date_time" json:"slot_date"`
	SlotTime  string    `gorm:"column:slot_time;not null;uniqueIndex:idx_doctor_date_time" json:"slot_time"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (SlotReservation) TableName() string {
	return "slot_reservation"
}
