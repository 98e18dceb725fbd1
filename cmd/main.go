package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"

	"github.com/TrivoAr/TrivoProfes-sub000/configs"
	"github.com/TrivoAr/TrivoProfes-sub000/internal/daemon"
	"github.com/TrivoAr/TrivoProfes-sub000/internal/db"
	"github.com/TrivoAr/TrivoProfes-sub000/internal/handlers"
	"github.com/TrivoAr/TrivoProfes-sub000/internal/middleware"
	"github.com/TrivoAr/TrivoProfes-sub000/internal/services"
	"github.com/TrivoAr/TrivoProfes-sub000/internal/utils"
)

func main() {
	cfg := configs.LoadConfig()
	db.Connect(cfg.MongoURI)
	utils.InitJwtSecret(cfg.JWTSecret)

	trialCfg := services.TrialConfig{
		Enabled:    cfg.TrialEnabled,
		Policy:     services.TrialPolicy(cfg.TrialPolicy),
		MaxDays:    cfg.TrialMaxDays,
		MaxClasses: cfg.TrialMaxClasses,
	}
	billingCfg := services.BillingConfig{
		Currency:      cfg.BillingCurrency,
		Frequency:     cfg.BillingFrequency,
		FrequencyUnit: cfg.BillingFrequencyUnit,
	}

	r := mux.NewRouter()
	r.Use(middleware.JSONMiddleware)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "OK")
	})

	authHandler := &handlers.AuthHandler{
		ConfigCreds: struct {
			UserId       string
			Username     string
			UserPassword string
		}{UserId: cfg.UserId, Username: cfg.UserName, UserPassword: cfg.UserPassword},
	}
	r.HandleFunc("/login", authHandler.Login).Methods("POST")

	auditCol := db.GetCollection(cfg.DBName, "audit_logs")
	auditLogger := utils.Logger{Collection: auditCol}

	memberCol := db.GetCollection(cfg.DBName, "members")
	academyCol := db.GetCollection(cfg.DBName, "academies")
	groupCol := db.GetCollection(cfg.DBName, "groups")
	subscriptionCol := db.GetCollection(cfg.DBName, "subscriptions")
	attendanceCol := db.GetCollection(cfg.DBName, "attendances")

	resolver := &services.PolicyResolver{Config: trialCfg}
	subscriptionService := &services.SubscriptionService{
		MemberCol:       memberCol,
		SubscriptionCol: subscriptionCol,
		Resolver:        resolver,
		Billing:         billingCfg,
	}
	attendanceService := &services.AttendanceService{
		SubscriptionCol: subscriptionCol,
		AttendanceCol:   attendanceCol,
		Trial:           trialCfg,
	}
	activationService := &services.ActivationService{
		SubscriptionCol: subscriptionCol,
		MemberCol:       memberCol,
		Trial:           trialCfg,
		Billing:         billingCfg,
	}
	queryService := services.NewQueryService(subscriptionCol, trialCfg)

	admin := r.PathPrefix("/").Subrouter()
	admin.Use(middleware.JWTAuthMiddleware)

	memberHandler := handlers.NewMemberHandler(memberCol, auditLogger)
	admin.HandleFunc("/members", memberHandler.RegisterMember).Methods("POST")
	admin.HandleFunc("/members/{id}", memberHandler.UpdateMember).Methods("PUT")
	admin.HandleFunc("/members/{id}/deactivate", memberHandler.DeactivateMember).Methods("PATCH")

	academyHandler := handlers.NewAcademyHandler(academyCol, auditLogger)
	admin.HandleFunc("/academies", academyHandler.AddAcademy).Methods("POST")
	admin.HandleFunc("/academies", academyHandler.GetAcademies).Methods("GET")
	admin.HandleFunc("/academies/{id}", academyHandler.GetAcademy).Methods("GET")
	admin.HandleFunc("/academies/{id}", academyHandler.UpdateAcademy).Methods("PUT")
	admin.HandleFunc("/academies/{id}", academyHandler.DeleteAcademy).Methods("DELETE")

	groupHandler := &handlers.GroupHandler{Collection: groupCol, AcademyCol: academyCol, AuditLogger: auditLogger}
	admin.HandleFunc("/groups", groupHandler.AddGroup).Methods("POST")
	admin.HandleFunc("/groups", groupHandler.GetGroups).Methods("GET")
	admin.HandleFunc("/groups/{id}", groupHandler.UpdateGroup).Methods("PUT")
	admin.HandleFunc("/groups/{id}", groupHandler.DeleteGroup).Methods("DELETE")

	subscriptionHandler := &handlers.SubscriptionHandler{
		Service:     subscriptionService,
		Activation:  activationService,
		Query:       queryService,
		Resolver:    resolver,
		MemberCol:   memberCol,
		AuditLogger: auditLogger,
	}
	admin.HandleFunc("/subscriptions", subscriptionHandler.CreateSubscription).Methods("POST")
	admin.HandleFunc("/subscriptions", subscriptionHandler.GetRoster).Methods("GET")
	admin.HandleFunc("/subscriptions/{id}", subscriptionHandler.GetSubscription).Methods("GET")
	admin.HandleFunc("/subscriptions/{id}/activate", subscriptionHandler.Activate).Methods("POST")
	admin.HandleFunc("/members/{id}/eligibility", subscriptionHandler.GetEligibility).Methods("GET")

	attendanceHandler := &handlers.AttendanceHandler{Service: attendanceService, AuditLogger: auditLogger}
	admin.HandleFunc("/attendance", attendanceHandler.RecordAttendance).Methods("POST")
	admin.HandleFunc("/attendance", attendanceHandler.GetHistory).Methods("GET")

	metricsHandler := handlers.MetricsHandler{
		Query:         queryService,
		MemberCol:     memberCol,
		AttendanceCol: attendanceCol,
	}
	admin.HandleFunc("/admin/metrics", metricsHandler.GetMetrics).Methods("GET")

	logExporter := daemon.LogExporter{Coll: auditCol}
	logExporter.InitLogExporter()

	var server = http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Println("Server starting on port", cfg.Port)
		log.Fatal(server.ListenAndServe())
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	log.Println("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}
	log.Println("Server shut down.")
}
