package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"agrihub/internal/auth"
	"agrihub/internal/checkout"
	"agrihub/internal/models"
	"agrihub/internal/notify"
	"agrihub/internal/reviews"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	store    *models.Store
	tokens   *auth.TokenManager
	hub      *notify.Hub
	notifier *notify.Dispatcher
	checkout *checkout.Service
	reviews  *reviews.Service
}

func main() {
	addr := flag.String("addr", ":4000", "HTTP network address")
	flag.Parse()

	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		infoLog.Println("no .env file found, using environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		errorLog.Fatal("MONGO_URI environment variable not found")
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "agrihub"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		errorLog.Fatal("JWT_SECRET environment variable not found")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := models.OpenDB(ctx, uri, dbName)
	cancel()
	if err != nil {
		errorLog.Fatal(err)
	}
	infoLog.Println("Connected to database!")

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	err = store.EnsureIndexes(ctx)
	cancel()
	if err != nil {
		errorLog.Fatal(err)
	}
	infoLog.Println("Database indexes created")

	hub := notify.NewHub()
	dispatcher := notify.NewDispatcher(store, hub)

	app := &application{
		errorLog: errorLog,
		infoLog:  infoLog,
		store:    store,
		tokens:   auth.NewTokenManager([]byte(secret)),
		hub:      hub,
		notifier: dispatcher,
		checkout: checkout.NewService(store, dispatcher, errorLog),
		reviews:  reviews.NewService(store, dispatcher, errorLog),
	}

	srv := &http.Server{
		Addr:         *addr,
		ErrorLog:     errorLog,
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	shutdownErr := make(chan error)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		infoLog.Println("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		shutdownErr <- srv.Shutdown(ctx)
	}()

	infoLog.Printf("Starting AgriHub API on %s", *addr)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		errorLog.Fatal(err)
	}

	if err := <-shutdownErr; err != nil {
		errorLog.Println("shutdown:", err)
	}

	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Close(ctx); err != nil {
		errorLog.Println("closing store:", err)
	}
}
