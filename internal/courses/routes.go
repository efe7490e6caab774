package courses

import (
	"net/http"

	"github.com/eduplus/eduplus-backend/internal/middleware"
	"github.com/eduplus/eduplus-backend/internal/session"
	"github.com/eduplus/eduplus-backend/internal/token"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(resolver *session.Resolver) http.Handler {
	r := chi.NewRouter()

	r.Get("/catalog", BrowseCoursesHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(resolver))

		r.Get("/", ListCoursesHandler)
		r.Get("/{id}", GetCourseHandler)
		r.Get("/assignments/{id}", GetAssignmentHandler)
		r.Get("/submissions", ListOwnSubmissionsHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(token.RoleCodeAdmin))
			r.Post("/", CreateCourseHandler)
			r.Patch("/{id}", UpdateCourseHandler)
			r.Delete("/{id}", DeleteCourseHandler)
			r.Post("/{id}/instructor", AssignInstructorHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(token.RoleCodeInstructor, token.RoleCodeAdmin))
			r.Post("/{id}/assignments", CreateAssignmentHandler)
			r.Patch("/assignments/{id}", UpdateAssignmentHandler)
			r.Delete("/assignments/{id}", DeleteAssignmentHandler)
			r.Get("/assignments/{id}/submissions", ListSubmissionsHandler)
			r.Post("/submissions/{id}/grade", GradeSubmissionHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(token.RoleCodeStudent))
			r.Post("/{id}/enroll", EnrollHandler)
			r.Post("/assignments/{id}/submit", SubmitAssignmentHandler)
		})
	})

	return r
}
