package dto

// CreateCourseRequest is the body of POST /courses
type CreateCourseRequest struct {
	Name string `json:"name" example:"Alice"`
}

// UpdateCourseRequest is the body of PUT /courses/{id}. ID is optional on the
// path form and required on the body-only form.
type UpdateCourseRequest struct {
	ID   int64  `json:"id" example:"15"`
	Name string `json:"name" example:"MagnetaX"`
}
