package seed

import (
	"github.com/rs/zerolog"

	appModels "github.com/yigit/tourofcourses/internal/app/models"
)

// Courses returns the default course catalogue in source order.
// The e2e scenario depends on these exact names and ids.
func Courses() []appModels.Course {
	return []appModels.Course{
		{ID: 11, Name: "Mr. Nice"},
		{ID: 12, Name: "Narco"},
		{ID: 13, Name: "Bombasto"},
		{ID: 14, Name: "Celeritas"},
		{ID: 15, Name: "Magneta"},
		{ID: 16, Name: "RubberMan"},
		{ID: 17, Name: "Dynama"},
		{ID: 18, Name: "Dr IQ"},
		{ID: 19, Name: "Magma"},
		{ID: 20, Name: "Tornado"},
	}
}

// DefaultData returns the initial store contents, or nothing when seeding is disabled.
func DefaultData(enabled bool, lgr zerolog.Logger) []appModels.Course {
	if !enabled {
		lgr.Info().Msg("Seeding disabled, starting with an empty course store")
		return nil
	}

	courses := Courses()
	lgr.Info().Int("count", len(courses)).Msg("Seeding course store with default data")
	return courses
}
