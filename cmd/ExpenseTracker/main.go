package main

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	database "github.com/jkowalski/ExpenseTracker/db"
	"github.com/jkowalski/ExpenseTracker/internal/auth"
	"github.com/jkowalski/ExpenseTracker/internal/category"
	"github.com/jkowalski/ExpenseTracker/internal/expense"
	"github.com/jkowalski/ExpenseTracker/internal/logger"
	"github.com/jkowalski/ExpenseTracker/internal/profile"
	"github.com/jkowalski/ExpenseTracker/internal/role"
	"github.com/jkowalski/ExpenseTracker/internal/user"
)

type Server struct {
	router          chi.Router
	authService     auth.Service
	authHandler     *auth.Handler
	userHandler     *user.Handler
	roleHandler     *role.Handler
	profileHandler  *profile.Handler
	categoryHandler *category.Handler
	expenseHandler  *expense.Handler
}

func NewServer(
	authService auth.Service,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	roleHandler *role.Handler,
	profileHandler *profile.Handler,
	categoryHandler *category.Handler,
	expenseHandler *expense.Handler,
) *Server {
	return &Server{
		router:          chi.NewRouter(),
		authService:     authService,
		authHandler:     authHandler,
		userHandler:     userHandler,
		roleHandler:     roleHandler,
		profileHandler:  profileHandler,
		categoryHandler: categoryHandler,
		expenseHandler:  expenseHandler,
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("handled request")
	})
}

func (s *Server) RegisterRoutes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(loggingMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Authentication resolves the principal, the access policy decides who
	// may pass. Every route below runs behind both.
	s.router.Use(s.authService.JWTAuthenticationMiddleware())
	s.router.Use(auth.RequireAccess)

	s.router.Post("/register", s.userHandler.HandleRegister)
	s.router.Post("/login", s.authHandler.HandleLogin)

	s.router.Route("/categories", func(r chi.Router) {
		r.Get("/", s.categoryHandler.HandleGetAllCategories)
		r.Post("/", s.categoryHandler.HandleSaveCategory)
		r.Delete("/", s.categoryHandler.HandleDeleteAllCategories)
		r.Put("/{id}", s.categoryHandler.HandleUpdateCategory)
		r.Delete("/{id}", s.categoryHandler.HandleDeleteCategoryByID)
	})

	s.router.Route("/expenses", func(r chi.Router) {
		r.Get("/", s.expenseHandler.HandleGetAllExpenses)
		r.Post("/", s.expenseHandler.HandleSaveExpense)
		r.Delete("/", s.expenseHandler.HandleDeleteAllExpenses)
		r.Get("/name", s.expenseHandler.HandleGetExpensesByName)
		r.Get("/date", s.expenseHandler.HandleGetExpensesByDate)
		r.Get("/category/{name}", s.expenseHandler.HandleGetExpensesByCategoryName)
		r.Get("/user/category/{name}", s.expenseHandler.HandleGetExpensesByCategoryName)
		r.Get("/{id}", s.expenseHandler.HandleGetExpenseByID)
		r.Put("/{id}", s.expenseHandler.HandleUpdateExpense)
		r.Delete("/{id}", s.expenseHandler.HandleDeleteExpenseByID)
	})

	s.router.Route("/roles", func(r chi.Router) {
		r.Get("/", s.roleHandler.HandleReadAllRoles)
		r.Post("/", s.roleHandler.HandleCreateRole)
		r.Get("/{id}", s.roleHandler.HandleReadRole)
		r.Put("/{id}", s.roleHandler.HandleUpdateRole)
	})

	s.router.Get("/user", s.userHandler.HandleGetUser)
	s.router.Put("/user", s.userHandler.HandleUpdateUser)
	s.router.Put("/user/{id}", s.userHandler.HandleUpdateUserByID)
	s.router.Delete("/delete", s.userHandler.HandleDeleteUser)
	s.router.Get("/profile", s.profileHandler.HandleGetProfile)
}

func main() {
	logger.Init()

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, continuing with system environment variables")
	}

	dbService, err := database.NewDBService()
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize database")
	}
	defer dbService.Close()

	userRepo := user.NewUserRepository(dbService.DB)
	roleRepo := role.NewRoleRepository(dbService.DB)
	profileRepo := profile.NewProfileRepository(dbService.DB)
	categoryRepo := category.NewCategoryRepository(dbService.DB)
	expenseRepo := expense.NewExpenseRepository(dbService.DB)

	jwtManager := auth.NewJWTManager()

	userService := user.NewUserService(userRepo)
	authService := auth.NewAuthService(userService, jwtManager)
	roleService := role.NewRoleService(roleRepo)
	profileService := profile.NewProfileService(profileRepo)
	categoryService := category.NewCategoryService(categoryRepo)
	expenseService := expense.NewExpenseService(expenseRepo, categoryService)

	server := NewServer(
		authService,
		auth.NewHandler(authService),
		user.NewHandler(userService),
		role.NewHandler(roleService),
		profile.NewHandler(profileService),
		category.NewHandler(categoryService),
		expense.NewHandler(expenseService),
	)
	server.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("server starting")
	if err := http.ListenAndServe(":"+port, server.router); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
