package models

// Course is the single entity of the tour.
type Course struct {
	ID   int64  `json:"id" example:"15"`
	Name string `json:"name" example:"Magneta"`
}
