package router

import (
	"database/sql"
	"net/http"
	"time"

	_ "dairy-farm-management/docs"
	"dairy-farm-management/internal/adapters/capabilities/rolematrix"
	mem "dairy-farm-management/internal/adapters/storage/memory"
	pg "dairy-farm-management/internal/adapters/storage/postgres"
	"dairy-farm-management/internal/domain/cows"
	"dairy-farm-management/internal/domain/health"
	"dairy-farm-management/internal/domain/inventory"
	"dairy-farm-management/internal/domain/production"
	"dairy-farm-management/internal/domain/reproduction"
	"dairy-farm-management/internal/domain/users"
	"dairy-farm-management/internal/middleware"
	"dairy-farm-management/internal/platform/logger"
	"dairy-farm-management/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger     logger.Logger
	SessionTTL time.Duration

	// nil => sin /metrics ni gauges.
	Metrics *metrics.Metrics
}

// App agrupa los services ya cableados; el CLI los usa sin pasar por HTTP.
type App struct {
	Users        *users.Service
	Cows         *cows.Service
	Production   *production.Service
	Health       *health.Service
	Reproduction *reproduction.Service
	Inventory    *inventory.Service

	Handler http.Handler
}

func NewRouter(opts Options) http.Handler {
	return New(opts).Handler
}

func New(opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	var (
		userRepo   users.Repository
		breedRepo  cows.BreedRepository
		cowRepo    cows.Repository
		prodRepo   production.Repository
		healthRepo health.Repository
		reproRepo  reproduction.Repository
		invRepo    inventory.Repository
	)

	if db := opts.DB; db != nil {
		userRepo = pg.NewUsersRepo(db)
		breedRepo = pg.NewBreedsRepo(db)
		cowRepo = pg.NewCowsRepo(db)
		prodRepo = pg.NewProductionRepo(db)
		healthRepo = pg.NewHealthRepo(db)
		reproRepo = pg.NewReproductionRepo(db)
		invRepo = pg.NewInventoryRepo(db)
	} else {
		userRepo = mem.NewUserRepo()
		breedRepo = mem.NewBreedRepo()
		cowRepo = mem.NewCowRepo()
		prodRepo = mem.NewProductionRepo()
		healthRepo = mem.NewHealthRepo()
		reproRepo = mem.NewReproductionRepo()
		invRepo = mem.NewInventoryRepo()
	}

	// Services por módulo
	usersSvc := users.NewService(userRepo, opts.SessionTTL)
	cowsSvc := cows.NewService(cowRepo, breedRepo)
	prodSvc := production.NewService(prodRepo, cowsSvc)
	healthSvc := health.NewService(healthRepo, cowsSvc)
	reproSvc := reproduction.NewService(reproRepo, cowsSvc, prodSvc)
	invSvc := inventory.NewService(invRepo, cowsSvc, prodSvc)

	cowsSvc.AddObserver(invSvc)
	prodSvc.AddObserver(invSvc)
	cowsSvc.AddDependencyChecker(prodSvc)
	cowsSvc.AddDependencyChecker(healthSvc)
	cowsSvc.AddDependencyChecker(reproSvc)
	if opts.Metrics != nil {
		invSvc.SetGauges(opts.Metrics)
	}

	caps := rolematrix.NewResolver(nil)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.Recover(log))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(middleware.AuthContext(usersSvc))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc, caps)
	cows.RegisterRoutes(r, cowsSvc, caps)
	production.RegisterRoutes(r, prodSvc, caps)
	health.RegisterRoutes(r, healthSvc, caps)
	reproduction.RegisterRoutes(r, reproSvc, caps)
	inventory.RegisterRoutes(r, invSvc, caps)

	return &App{
		Users:        usersSvc,
		Cows:         cowsSvc,
		Production:   prodSvc,
		Health:       healthSvc,
		Reproduction: reproSvc,
		Inventory:    invSvc,
		Handler:      r,
	}
}
