package models

import "time"

// Room records the seating capacity of a teaching room.
type Room struct {
	Name      string    `db:"name" json:"name" csv:"name"`
	Capacity  int       `db:"capacity" json:"capacity" csv:"capacity"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at" csv:"-"`
}
