package router

import (
	"time"

	"github.com/learnai/learnai-api/internal/application"
	"github.com/learnai/learnai-api/internal/container"
	pginfra "github.com/learnai/learnai-api/internal/infrastructure/postgres"
	handlers "github.com/learnai/learnai-api/internal/interface/http"
	"github.com/learnai/learnai-api/internal/interface/middleware"
	"github.com/learnai/learnai-api/internal/router/modules"
	"github.com/learnai/learnai-api/pkg/helpers"
)

// InitModules builds every feature module from the container singletons and
// registers it. Call once during startup, after the container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()
	sessions := container.GetSessions()

	users := pginfra.NewUserRepository(pool)
	accounts := pginfra.NewAccountRepository(pool)
	profiles := pginfra.NewProfileRepository(pool)
	lessons := pginfra.NewLessonRepository(pool)

	authSvc := application.NewAuthService(users, container.GetRabbitPub(), logger, cfg.AppName, cfg.BaseURL, cfg.MailSendEnabled)
	fedSvc := application.NewFederationService(users, accounts, logger)
	profileSvc := application.NewProfileService(profiles, users, logger, container.GetGCS(), cfg.GCSBucket)
	lessonSvc := application.NewLessonService(lessons, container.GetES(), cfg.ESLessonsIndex, logger)

	google := application.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL())
	states := helpers.NewOAuthStateStore(container.GetRedis(), 10*time.Minute)

	authHandler := handlers.NewAuthHandler(authSvc, sessions, logger, cfg.CookieDomain, cfg.CookieSecure)
	oauthHandler := handlers.NewOAuthHandler(google, fedSvc, profileSvc, sessions, states, logger, cfg.CookieDomain, cfg.CookieSecure)
	profileHandler := handlers.NewProfileHandler(profileSvc, logger)
	lessonHandler := handlers.NewLessonHandler(lessonSvc, logger)
	pagesHandler := handlers.NewPagesHandler(cfg.AppName, profileSvc, lessonSvc, logger)

	r.Add(modules.NewAuthModule(authHandler, oauthHandler, sessions))
	r.Add(modules.NewProfileModule(profileHandler, sessions))
	r.Add(modules.NewLessonModule(lessonHandler, sessions))

	r.UsePages(middleware.ResolveSession(sessions), middleware.AccessControl(profileSvc, logger))
	r.AddPages(modules.NewPagesModule(pagesHandler))
}
