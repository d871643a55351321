package model

// Subject is a study area (math, physics, ...). ID is a short code chosen by the user.
type Subject struct {
	ID          string `gorm:"primaryKey" json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Status      string `json:"status" yaml:"status"` // green, yellow or red
	Description string `json:"description" yaml:"description"`
}
