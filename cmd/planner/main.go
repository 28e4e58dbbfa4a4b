package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yangzhijiany/plan-project/internal/config"
	"github.com/yangzhijiany/plan-project/internal/llm"
	"github.com/yangzhijiany/plan-project/internal/repository"
	"github.com/yangzhijiany/plan-project/internal/service"
	"github.com/yangzhijiany/plan-project/internal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	subtaskRepo := repository.NewSubtaskRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	userSvc := service.NewUserService(userRepo)
	taskSvc := service.NewTaskService(userRepo, taskRepo, subtaskRepo)
	planSvc := service.NewPlanService(userRepo, taskRepo, subtaskRepo, scheduleRepo, llm.NewOpenAIClient(cfg.OpenAIKey))
	scheduleSvc := service.NewScheduleService(userRepo, taskRepo, subtaskRepo, scheduleRepo)
	calendarSvc := service.NewCalendarService(userRepo, taskRepo, scheduleRepo)
	digestSvc := service.NewDigestService(userRepo, calendarSvc)

	server := web.NewServer(userSvc, taskSvc, planSvc, scheduleSvc, calendarSvc, cfg.AllowedOrigins)

	scheduler := service.NewSchedulerService(time.Local)
	if cfg.DigestInterval > 0 {
		if _, err := scheduler.ScheduleInterval(cfg.DigestInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			summaries, err := digestSvc.AllSummaries(jobCtx, time.Now())
			if err != nil {
				log.Printf("digest: %v", err)
				return
			}
			for _, summary := range summaries {
				log.Println(summary)
			}
		}); err != nil {
			log.Fatalf("schedule digest: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	httpSrv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Handler(),
	}

	go func() {
		log.Printf("Planner backend listening on %s", cfg.ListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped with error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("Shutdown complete.")
}
