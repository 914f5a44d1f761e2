// Package gateway assembles the public /api surface: every route the
// frontend calls, with cookie authentication applied to everything
// that forwards a per-user request upstream.
package gateway

import (
	"github.com/julienschmidt/httprouter"

	audithandler "laundromat/internal/audit/handler"
	authhandler "laundromat/internal/auth/handler"
	reservationhandler "laundromat/internal/reservations/handler"
	timeslothandler "laundromat/internal/timeslots/handler"
	wizardhandler "laundromat/internal/wizard/handler"
	"laundromat/pkg/config"
	"laundromat/pkg/middleware"
)

type Router struct {
	auth         *authhandler.AuthHandler
	timeslots    *timeslothandler.TimeSlotHandler
	reservations *reservationhandler.ReservationHandler
	wizard       *wizardhandler.WizardHandler
	audit        *audithandler.AuditHandler
	cfg          *config.Config
}

func NewRouter(
	auth *authhandler.AuthHandler,
	timeslots *timeslothandler.TimeSlotHandler,
	reservations *reservationhandler.ReservationHandler,
	wizard *wizardhandler.WizardHandler,
	audit *audithandler.AuditHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		auth:         auth,
		timeslots:    timeslots,
		reservations: reservations,
		wizard:       wizard,
		audit:        audit,
		cfg:          cfg,
	}
}

func (rt *Router) RegisterRoutes(router *httprouter.Router) {
	authed := middleware.AuthCookie(rt.cfg.CookieName)

	// Pre-session routes; no cookie exists yet.
	router.POST("/api/auth/send-code", rt.auth.SendCode)
	router.POST("/api/auth/check-code", rt.auth.CheckCode)
	router.POST("/api/auth/login", rt.auth.Login)
	router.POST("/api/auth/register", rt.auth.Register)
	router.POST("/api/auth/logout", rt.auth.Logout)

	router.GET("/api/auth/verify-token", authed(rt.auth.VerifyToken))
	router.POST("/api/profile/edit", authed(rt.auth.EditProfile))

	router.GET("/api/timeslots/get", authed(rt.timeslots.Get))
	router.POST("/api/timeslots/new", authed(rt.timeslots.Create))
	router.POST("/api/timeslots/edit", authed(rt.timeslots.Edit))
	router.POST("/api/timeslots/delete", authed(rt.timeslots.Delete))

	router.GET("/api/reservations/recent", authed(rt.reservations.Recent))
	router.POST("/api/reservations/new", authed(rt.reservations.Create))
	router.POST("/api/reservations/manage", authed(rt.reservations.Manage))
	router.POST("/api/reservations/cancel", authed(rt.reservations.Cancel))

	router.POST("/api/wizard/start", authed(rt.wizard.Start))
	router.POST("/api/wizard/dates", authed(rt.wizard.SelectDates))
	router.POST("/api/wizard/window", authed(rt.wizard.SetWindow))
	router.POST("/api/wizard/slots", authed(rt.wizard.EditSlots))
	router.POST("/api/wizard/confirm", authed(rt.wizard.Confirm))
	router.GET("/api/wizard/summary", authed(rt.wizard.Summary))
	router.POST("/api/wizard/back", authed(rt.wizard.Back))
	router.POST("/api/wizard/reset", authed(rt.wizard.Reset))
	router.POST("/api/wizard/submit", authed(rt.wizard.Submit))

	router.GET("/api/admin/audit", authed(rt.audit.List))
}
