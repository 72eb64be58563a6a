package model

import "time"

type Client struct {
	ClientID           string    `bson:"_id,omitempty" json:"id"`
	Name               string    `bson:"name" json:"name" binding:"required"`
	RegistrationNumber string    `bson:"registration_number,omitempty" json:"registration_number,omitempty"`
	ContactEmail       string    `bson:"contact_email,omitempty" json:"contact_email,omitempty"`
	Phone              string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Active             bool      `bson:"active" json:"active"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updated_at"`
}
