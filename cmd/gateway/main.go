package main

import (
	"github.com/joho/godotenv"

	audithandler "laundromat/internal/audit/handler"
	auditrepository "laundromat/internal/audit/repository"
	auditservice "laundromat/internal/audit/service"
	authhandler "laundromat/internal/auth/handler"
	authservice "laundromat/internal/auth/service"
	authvalidator "laundromat/internal/auth/validator"
	"laundromat/internal/gateway"
	reservationhandler "laundromat/internal/reservations/handler"
	reservationservice "laundromat/internal/reservations/service"
	timeslothandler "laundromat/internal/timeslots/handler"
	timeslotservice "laundromat/internal/timeslots/service"
	timeslotvalidator "laundromat/internal/timeslots/validator"
	wizardhandler "laundromat/internal/wizard/handler"
	wizardrepository "laundromat/internal/wizard/repository"
	wizardservice "laundromat/internal/wizard/service"
	wizardvalidator "laundromat/internal/wizard/validator"
	"laundromat/pkg/app"
	"laundromat/pkg/config"
	"laundromat/pkg/events"
)

const ServiceName = "gateway"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetBackend()
	cfg.SetRedis()
	cfg.SetMongo()

	cfg.Log.Info("Starting laundromat gateway")

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.Log)
	router := initRouter(cfg, producer)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(router, producer)
	serverApp.Run()
}

func initRouter(cfg *config.Config, producer *events.Producer) *gateway.Router {
	authSvc := authservice.NewAuthService(authvalidator.NewAuthValidator(cfg.Log), cfg)

	auditRepo := auditrepository.NewMongoAuditRepository(cfg)
	auditSvc := auditservice.NewAuditService(auditRepo, cfg)

	timeslotSvc := timeslotservice.NewTimeSlotService(
		timeslotvalidator.NewTimeSlotValidator(cfg.Log, cfg.SlotDurationMin),
		authSvc,
		auditSvc,
		producer,
		cfg,
	)

	reservationSvc := reservationservice.NewReservationService(authSvc, auditSvc, producer, cfg)

	wizardSvc := wizardservice.NewWizardService(
		wizardrepository.NewDraftRepository(cfg.Client.Redis, cfg.WizardDraftTTL),
		wizardvalidator.NewWizardValidator(cfg.Log),
		timeslotSvc,
		cfg,
	)

	cfg.Log.Info("Gateway services initialized")

	return gateway.NewRouter(
		authhandler.NewAuthHandler(authSvc, cfg),
		timeslothandler.NewTimeSlotHandler(timeslotSvc, cfg.Log),
		reservationhandler.NewReservationHandler(reservationSvc, cfg.Log),
		wizardhandler.NewWizardHandler(wizardSvc, cfg.Log),
		audithandler.NewAuditHandler(auditSvc, authSvc, cfg.Log),
		cfg,
	)
}
