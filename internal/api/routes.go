package api

import (
	"net/http"

	"sebino/rowing-app/internal/domain"
	"sebino/rowing-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every handler onto the router. Staff-only routes
// stack RoleMiddleware on top of the shared AuthMiddleware.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	rosterService service.RosterService,
	scheduleService service.ScheduleService,
	attendanceService service.AttendanceService,
	activityService service.ActivityService,
	availabilityService service.AvailabilityService,
	calendarService service.CalendarService,
) {
	authHandler := NewAuthHandler(authService)
	trainingHandler := NewTrainingHandler(scheduleService, rosterService)
	attendanceHandler := NewAttendanceHandler(attendanceService)
	activityHandler := NewActivityHandler(activityService, availabilityService)
	calendarHandler := NewCalendarHandler(calendarService)

	authMiddleware := AuthMiddleware(jwtSecret)
	staffOnly := RoleMiddleware(domain.RoleCoach, domain.RoleAdmin)
	adminOnly := RoleMiddleware(domain.RoleAdmin)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// The ICS feed authenticates by token, not JWT.
	router.GET("/calendar/:token", calendarHandler.Feed)

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			roles, _ := getUserRolesFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex(), "roles": roles})
		})

		// --- Categories ---
		categoryGroup := protected.Group("/categories")
		{
			categoryGroup.GET("", trainingHandler.ListCategories)
			categoryGroup.GET("/:name", trainingHandler.GetCategoryByName)
			categoryGroup.POST("", adminOnly, trainingHandler.CreateCategory)
		}

		// --- Trainings ---
		trainingGroup := protected.Group("/trainings")
		{
			trainingGroup.POST("", staffOnly, trainingHandler.CreateTraining)
			trainingGroup.GET("/:id", trainingHandler.GetTraining)
			trainingGroup.PUT("/:id", staffOnly, trainingHandler.UpdateTraining)
			trainingGroup.PUT("/:id/memberships", staffOnly, trainingHandler.ReplaceMemberships)
			trainingGroup.DELETE("/:id", staffOnly, trainingHandler.DeleteTraining)
			trainingGroup.GET("/:id/roster", trainingHandler.GetRoster)
			trainingGroup.POST("/:id/categories/:category", staffOnly, attendanceHandler.ToggleCategory)

			// Attendance operations on a training
			trainingGroup.POST("/:id/attendance/toggle", attendanceHandler.Toggle)
			trainingGroup.POST("/:id/attendance", staffOnly, attendanceHandler.Set)
			trainingGroup.POST("/:id/attendance/bulk", staffOnly, attendanceHandler.Bulk)
			trainingGroup.GET("/:id/attendance", attendanceHandler.List)
			trainingGroup.GET("/:id/attendance/:athleteId/changes", staffOnly, attendanceHandler.Changes)
		}

		protected.GET("/athletes/:athleteId/attendance/stats", attendanceHandler.Stats)

		// --- Agenda / Shifts ---
		protected.GET("/agenda", trainingHandler.WeekAgenda)
		shiftGroup := protected.Group("/shifts")
		{
			shiftGroup.GET("", trainingHandler.ShiftsForWeek)
			shiftGroup.POST("", staffOnly, trainingHandler.EnsureShift)
			shiftGroup.PUT("/:id/assign", staffOnly, trainingHandler.AssignShift)
		}

		// --- Boats ---
		boatGroup := protected.Group("/boats")
		{
			boatGroup.GET("", trainingHandler.ListBoats)
			boatGroup.POST("", staffOnly, trainingHandler.CreateBoat)
			boatGroup.PUT("/:id", staffOnly, trainingHandler.UpdateBoat)
		}

		// --- Activities ---
		activityGroup := protected.Group("/activities")
		{
			activityGroup.GET("", activityHandler.List)
			activityGroup.POST("", staffOnly, activityHandler.Create)
			activityGroup.GET("/:id", activityHandler.Get)
			activityGroup.PUT("/:id", staffOnly, activityHandler.Update)
			activityGroup.DELETE("/:id", staffOnly, activityHandler.Delete)
			activityGroup.GET("/:id/coverage", activityHandler.Coverage)

			activityGroup.POST("/:id/requirements", staffOnly, activityHandler.AddRequirement)
			activityGroup.GET("/:id/requirements", activityHandler.ListRequirements)
			activityGroup.PUT("/:id/requirements/:reqId", staffOnly, activityHandler.UpdateRequirement)
			activityGroup.DELETE("/:id/requirements/:reqId", staffOnly, activityHandler.DeleteRequirement)
			activityGroup.GET("/:id/requirements/:reqId/candidates", staffOnly, activityHandler.AvailableUsers)

			activityGroup.POST("/:id/assignments", staffOnly, activityHandler.CreateAssignment)
			activityGroup.POST("/:id/self-assign", activityHandler.SelfAssign)
			activityGroup.GET("/:id/assignments", activityHandler.ListAssignments)
			activityGroup.DELETE("/:id/assignments/:assignmentId", staffOnly, activityHandler.DeleteAssignment)
		}

		// --- Reference directories ---
		protected.GET("/activity-types", activityHandler.ListActivityTypes)
		protected.POST("/activity-types", adminOnly, activityHandler.CreateActivityType)
		protected.GET("/qualification-types", activityHandler.ListQualificationTypes)
		protected.POST("/qualification-types", adminOnly, activityHandler.CreateQualificationType)

		// --- User qualifications ---
		protected.POST("/users/:userId/qualifications", adminOnly, activityHandler.GrantQualification)
		protected.DELETE("/users/:userId/qualifications/:qualTypeId", adminOnly, activityHandler.RevokeQualification)

		// --- Personal calendar ---
		protected.GET("/calendar/commitments", calendarHandler.MyCommitments)
		protected.GET("/calendar/token", calendarHandler.MyToken)
		protected.POST("/calendar/token/rotate", calendarHandler.RotateToken)
	}
}
