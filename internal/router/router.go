package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/habit-tracker/internal/handler"
)

// Handlers bundles the resource handlers mounted under /v1.
type Handlers struct {
	Users          *handler.UserHandler
	Habits         *handler.HabitHandler
	Assignments    *handler.AssignmentHandler
	CompletedDates *handler.CompletedDateHandler
}

// RegisterRoutes registers routes that sit outside the versioned API.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAPI mounts the resource routes under /v1.  mw applies to the
// whole group, e.g. the rate limiter.
func RegisterAPI(e *echo.Echo, h Handlers, mw ...echo.MiddlewareFunc) {
	v1 := e.Group("/v1", mw...)

	users := v1.Group("/users")
	users.POST("", h.Users.Create)
	users.GET("", h.Users.List)
	users.GET("/:id", h.Users.Get)
	users.PUT("/:id", h.Users.Update)
	users.PATCH("/:id", h.Users.Update)
	users.DELETE("/:id", h.Users.Delete)
	users.GET("/:id/assignments", h.Assignments.ListByUser)

	habits := v1.Group("/habits")
	habits.POST("", h.Habits.Create)
	habits.GET("", h.Habits.List)
	habits.GET("/:id", h.Habits.Get)
	habits.PUT("/:id", h.Habits.Update)
	habits.PATCH("/:id", h.Habits.Update)
	habits.DELETE("/:id", h.Habits.Delete)

	assignments := v1.Group("/assignments")
	assignments.POST("", h.Assignments.Create)
	assignments.GET("", h.Assignments.List)
	assignments.GET("/:id", h.Assignments.Get)
	assignments.DELETE("/:id", h.Assignments.Delete)
	assignments.GET("/:id/completed-dates", h.CompletedDates.ListByAssignment)

	completed := v1.Group("/completed-dates")
	completed.POST("", h.CompletedDates.Create)
	completed.GET("", h.CompletedDates.List)
	completed.GET("/:id", h.CompletedDates.Get)
	completed.DELETE("/:id", h.CompletedDates.Delete)
}
