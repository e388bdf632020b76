package router

import (
	"github.com/reelist/reelist-api/internal/application"
	"github.com/reelist/reelist-api/internal/container"
	pginfra "github.com/reelist/reelist-api/internal/infrastructure/postgres"
	handlers "github.com/reelist/reelist-api/internal/interface/http"
	"github.com/reelist/reelist-api/internal/router/modules"
)

// InitModules builds every feature module from the container singletons
// and registers it. Called once during startup.
func InitModules(r *Registry) {
	users := pginfra.NewUserRepository(container.GetPGPool())
	movies := pginfra.NewMovieRepository(container.GetPGPool())

	var pub application.EmailEnqueuer
	if rp := container.GetRabbitPub(); rp != nil {
		pub = rp
	}
	authSvc := application.NewAuthService(
		users,
		container.GetJWT(),
		pub,
		container.GetLogger(),
	)
	movieSvc := application.NewMovieService(
		movies,
		users,
		container.GetPosterUploader(),
		container.GetLogger(),
		container.GetES(),
		container.GetConfig().ESMoviesIndex,
	)

	authHandler := handlers.NewAuthHandler(authSvc, container.GetLogger())
	movieHandler := handlers.NewMovieHandler(movieSvc, container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewMovieModule(movieHandler, container.GetJWT()))
}
