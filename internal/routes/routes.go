package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/clipperdesk/clipperdesk-api/internal/audit"
	"github.com/clipperdesk/clipperdesk-api/internal/config"
	"github.com/clipperdesk/clipperdesk-api/internal/handlers"
	infraRepo "github.com/clipperdesk/clipperdesk-api/internal/infra/repository"
	"github.com/clipperdesk/clipperdesk-api/internal/middleware"
	"github.com/clipperdesk/clipperdesk-api/internal/notify"
	"github.com/clipperdesk/clipperdesk-api/internal/payments"
	ucBooking "github.com/clipperdesk/clipperdesk-api/internal/usecase/booking"
	ucWaitlist "github.com/clipperdesk/clipperdesk-api/internal/usecase/waitlist"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) *audit.Dispatcher {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)
	waitlistRepo := infraRepo.NewWaitlistGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	gateway := payments.NewStripeGateway(cfg.StripeSecretKey)

	var notifier notify.Notifier = notify.Noop{}
	if rdb != nil {
		notifier = notify.NewRedisNotifier(rdb)
	}

	// ======================================================
	// USE CASES — BOOKINGS
	// ======================================================
	availabilityUC := ucBooking.NewGetAvailability(bookingRepo)

	createBookingUC := ucBooking.NewCreateBooking(
		bookingRepo,
		gateway,
		notifier,
		auditDispatcher,
		cfg.Currency,
	)

	reconcileUC := ucBooking.NewReconcilePayment(bookingRepo, auditDispatcher)

	// ======================================================
	// USE CASES — WAITLIST
	// ======================================================
	fulfillEngine := ucWaitlist.NewEngine(waitlistRepo, notifier, auditDispatcher)

	cancelBookingUC := ucBooking.NewCancelBooking(
		bookingRepo,
		gateway,
		notifier,
		fulfillEngine,
		auditDispatcher,
	)

	joinUC := ucWaitlist.NewJoin(waitlistRepo, auditDispatcher)
	leaveUC := ucWaitlist.NewLeave(waitlistRepo, auditDispatcher)
	statusUC := ucWaitlist.NewGetStatus(waitlistRepo)
	seenUC := ucWaitlist.NewMarkSeen(waitlistRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	barbershopHandler := handlers.NewBarbershopHandler(db)

	serviceHandler := handlers.NewServiceHandler(db)
	barberHandler := handlers.NewBarberHandler(db, bookingRepo, waitlistRepo)
	openingHoursHandler := handlers.NewOpeningHoursHandler(db)

	bookingHandler := handlers.NewBookingHandler(bookingRepo, createBookingUC, cancelBookingUC)
	waitlistHandler := handlers.NewWaitlistHandler(waitlistRepo, joinUC, leaveUC, statusUC, seenUC)

	publicHandler := handlers.NewPublicHandler(db, bookingRepo, availabilityUC, statusUC)
	paymentsHandler := handlers.NewPaymentsHandler(reconcileUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(auditLogger)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug", publicHandler.GetBarbershop)
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/barbers", publicHandler.ListBarbers)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.GET("/:slug/waitlist/status", publicHandler.WaitlistStatus)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/register-customer", authHandler.RegisterCustomer)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PAYMENT PROVIDER CALLBACK
		// ------------------------------
		api.POST("/payments/reconcile", paymentsHandler.Reconcile)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			// customer surface
			secured.POST("/bookings", bookingHandler.Create)
			secured.GET("/bookings", bookingHandler.ListMine)
			secured.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)

			secured.POST("/waitlist", waitlistHandler.Join)
			secured.GET("/waitlist", waitlistHandler.ListMine)
			secured.GET("/waitlist/status", waitlistHandler.Status)
			secured.DELETE("/waitlist/:id", waitlistHandler.Leave)
			secured.PATCH("/waitlist/:id/seen", waitlistHandler.Seen)

			// owner surface
			owner := secured.Group("/me")
			owner.Use(middleware.RequireOwner())
			{
				owner.GET("/barbershop", barbershopHandler.Get)
				owner.PATCH("/barbershop", barbershopHandler.Update)

				owner.GET("/services", serviceHandler.List)
				owner.POST("/services", serviceHandler.Create)
				owner.PATCH("/services/:id", serviceHandler.Update)
				owner.DELETE("/services/:id", serviceHandler.Delete)

				owner.GET("/barbers", barberHandler.List)
				owner.POST("/barbers", barberHandler.Create)
				owner.DELETE("/barbers/:id", barberHandler.Delete)

				owner.GET("/opening-hours", openingHoursHandler.Get)
				owner.PUT("/opening-hours", openingHoursHandler.Update)

				owner.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}

	return auditDispatcher
}
