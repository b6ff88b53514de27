package router

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/handler"
	"github.com/noah-isme/school-portal-api/internal/middleware"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/repository"
	"github.com/noah-isme/school-portal-api/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Teacher      *handler.TeacherHandler
	Student      *handler.StudentHandler
	Class        *handler.ClassHandler
	Subject      *handler.SubjectHandler
	Homework     *handler.HomeworkHandler
	Syllabus     *handler.SyllabusHandler
	Timetable    *handler.TimetableHandler
	Attendance   *handler.AttendanceHandler
	Diary        *handler.DiaryHandler
	Transport    *handler.TransportHandler
	Tracking     *handler.TrackingHandler
	Notification *handler.NotificationHandler
	Content      *handler.ContentHandler
	Report       *handler.ReportHandler
	Metrics      *handler.MetricsHandler
}

// Register mounts every route group on the engine under apiPrefix.
func Register(r *gin.Engine, apiPrefix string, auth *service.AuthService, users *repository.UserRepository, h *Handlers) {
	requireAuth := middleware.JWT(auth)
	adminOnly := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)
	staffOnly := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleTeacher)
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(users, action, resource)
	}

	api := r.Group(apiPrefix)

	// Public surfaces: the marketing site and the GPS tracker devices.
	api.GET("/content/home", h.Content.Home)
	api.POST("/content/newsletter", h.Content.SubscribeNewsletter)
	api.POST("/content/appointments", h.Content.CreateAppointment)
	api.POST("/transport/locations", h.Tracking.Ping)

	// Report downloads authenticate via the signed token in the path.
	api.GET("/export/:token", h.Report.Download)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", requireAuth, h.Auth.Logout)
		authGroup.POST("/change-password", requireAuth, h.Auth.ChangePassword)
		authGroup.GET("/me", requireAuth, h.Auth.Me)
	}

	usersGroup := api.Group("/users", requireAuth, adminOnly)
	{
		usersGroup.GET("", h.User.List)
		usersGroup.GET("/:id", h.User.Get)
		usersGroup.POST("", audit(models.AuditActionUserCreate, "users"), h.User.Create)
		usersGroup.PUT("/:id", audit(models.AuditActionUserUpdate, "users"), h.User.Update)
		usersGroup.DELETE("/:id", audit(models.AuditActionUserDelete, "users"), h.User.Delete)
	}

	teachers := api.Group("/teachers", requireAuth)
	{
		teachers.GET("", h.Teacher.List)
		teachers.GET("/:id", h.Teacher.Get)
		teachers.POST("", adminOnly, h.Teacher.Create)
		teachers.PUT("/:id", adminOnly, h.Teacher.Update)
		teachers.DELETE("/:id", adminOnly, h.Teacher.Delete)
	}

	students := api.Group("/students", requireAuth)
	{
		students.GET("", staffOnly, h.Student.List)
		students.GET("/:id", h.Student.Get)
		students.POST("", adminOnly, h.Student.Create)
		students.PUT("/:id", adminOnly, h.Student.Update)
		students.DELETE("/:id", adminOnly, h.Student.Delete)
	}

	classes := api.Group("/classes", requireAuth)
	{
		classes.GET("", h.Class.List)
		classes.GET("/:id", h.Class.Get)
		classes.POST("", adminOnly, h.Class.Create)
		classes.PUT("/:id", adminOnly, h.Class.Update)
		classes.DELETE("/:id", adminOnly, h.Class.Delete)
	}

	subjects := api.Group("/subjects", requireAuth)
	{
		subjects.GET("", h.Subject.List)
		subjects.GET("/:id", h.Subject.Get)
		subjects.GET("/:id/experts", h.Subject.Experts)
		subjects.POST("", adminOnly, h.Subject.Create)
		subjects.PUT("/:id", adminOnly, h.Subject.Update)
		subjects.DELETE("/:id", adminOnly, h.Subject.Delete)
	}

	homework := api.Group("/homework", requireAuth)
	{
		homework.GET("", h.Homework.List)
		homework.GET("/:id", h.Homework.Get)
		homework.POST("", middleware.RequireRoles(models.RoleTeacher), h.Homework.Create)
		homework.PUT("/:id", staffOnly, h.Homework.Update)
		homework.DELETE("/:id", staffOnly, h.Homework.Delete)
	}

	syllabus := api.Group("/syllabus", requireAuth)
	{
		syllabus.GET("", h.Syllabus.List)
		syllabus.GET("/:id", h.Syllabus.Get)
		syllabus.POST("", middleware.RequireRoles(models.RoleTeacher), h.Syllabus.Create)
		syllabus.PUT("/:id", staffOnly, h.Syllabus.Update)
		syllabus.DELETE("/:id", staffOnly, h.Syllabus.Delete)
	}

	timetable := api.Group("/timetable", requireAuth)
	{
		timetable.GET("", h.Timetable.List)
		timetable.POST("", adminOnly, h.Timetable.Create)
		timetable.DELETE("/:id", adminOnly, h.Timetable.Delete)
		timetable.POST("/generate", adminOnly, audit(models.AuditActionTimetableGenerate, "timetable"), h.Timetable.Generate)
	}

	attendance := api.Group("/attendance", requireAuth)
	{
		attendance.POST("", staffOnly, audit(models.AuditActionAttendanceMark, "attendance"), h.Attendance.Mark)
		attendance.GET("", staffOnly, h.Attendance.List)
		attendance.GET("/register", staffOnly, h.Attendance.Register)
		attendance.GET("/students/:id/summary", h.Attendance.Summary)
	}

	diary := api.Group("/diary", requireAuth)
	{
		diary.GET("", h.Diary.List)
		diary.POST("", staffOnly, h.Diary.Create)
		diary.PUT("/:id", staffOnly, h.Diary.Update)
		diary.DELETE("/:id", staffOnly, h.Diary.Delete)
	}

	transport := api.Group("/transport", requireAuth)
	{
		transport.GET("/vehicles", h.Transport.ListVehicles)
		transport.POST("/vehicles", adminOnly, h.Transport.CreateVehicle)
		transport.PUT("/vehicles/:id", adminOnly, h.Transport.UpdateVehicle)
		transport.DELETE("/vehicles/:id", adminOnly, h.Transport.DeleteVehicle)
		transport.GET("/vehicles/:id/meter-readings", adminOnly, h.Transport.ListMeterReadings)

		transport.GET("/drivers", adminOnly, h.Transport.ListDrivers)
		transport.POST("/drivers", adminOnly, h.Transport.CreateDriver)
		transport.PUT("/drivers/:id", adminOnly, h.Transport.UpdateDriver)
		transport.DELETE("/drivers/:id", adminOnly, h.Transport.DeleteDriver)

		transport.GET("/routes", h.Transport.ListRoutes)
		transport.POST("/routes", adminOnly, h.Transport.CreateRoute)
		transport.PUT("/routes/:id", adminOnly, h.Transport.UpdateRoute)
		transport.DELETE("/routes/:id", adminOnly, h.Transport.DeleteRoute)

		transport.GET("/assignments", h.Transport.ListAssignments)
		transport.POST("/assignments", adminOnly, h.Transport.CreateAssignment)
		transport.DELETE("/assignments/:id", adminOnly, h.Transport.DeleteAssignment)

		transport.POST("/meter-readings", middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleDriver), h.Transport.RecordMeterReading)

		transport.GET("/vehicles/number/:number/location", h.Tracking.Latest)
		transport.GET("/vehicles/number/:number/location/stream", h.Tracking.Stream)
	}

	notifications := api.Group("/notifications", requireAuth)
	{
		notifications.GET("", h.Notification.List)
		notifications.POST("", adminOnly, audit(models.AuditActionNotificationSend, "notifications"), h.Notification.Create)
		notifications.POST("/:id/read", h.Notification.MarkRead)
		notifications.DELETE("/:id", adminOnly, h.Notification.Delete)
		notifications.POST("/tokens", h.Notification.RegisterToken)
		notifications.DELETE("/tokens", h.Notification.UnregisterToken)
	}

	content := api.Group("/content", requireAuth, adminOnly, audit(models.AuditActionContentChange, "content"))
	{
		content.PUT("/branding", h.Content.UpsertBranding)
		content.POST("/carousel", h.Content.CreateCarouselItem)
		content.PUT("/carousel/:id", h.Content.UpdateCarouselItem)
		content.DELETE("/carousel/:id", h.Content.DeleteCarouselItem)
		content.POST("/facilities", h.Content.CreateFacility)
		content.PUT("/facilities/:id", h.Content.UpdateFacility)
		content.DELETE("/facilities/:id", h.Content.DeleteFacility)
		content.PUT("/about", h.Content.UpsertAbout)
		content.PUT("/call-to-action", h.Content.UpsertCallToAction)
		content.POST("/team", h.Content.CreateTeamMember)
		content.PUT("/team/:id", h.Content.UpdateTeamMember)
		content.DELETE("/team/:id", h.Content.DeleteTeamMember)
		content.POST("/testimonials", h.Content.CreateTestimonial)
		content.PUT("/testimonials/:id", h.Content.UpdateTestimonial)
		content.DELETE("/testimonials/:id", h.Content.DeleteTestimonial)
		content.PUT("/footer-links", h.Content.UpsertFooterLink)
		content.DELETE("/footer-links/:id", h.Content.DeleteFooterLink)
		content.GET("/newsletter", h.Content.ListNewsletterSubscriptions)
		content.GET("/appointments", h.Content.ListAppointments)
	}

	reports := api.Group("/reports", requireAuth)
	{
		reports.POST("", staffOnly, h.Report.Generate)
		reports.GET("/:id", h.Report.Status)
	}

	ops := api.Group("/ops", requireAuth, adminOnly)
	{
		ops.GET("/stats", h.Metrics.Stats)
	}

	r.GET("/metrics", h.Metrics.Prometheus)
}
