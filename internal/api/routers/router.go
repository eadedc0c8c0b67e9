package routers

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Ajith-te/Bank-Statement-upload-DB/docs"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/api/handlers"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/api/handlers/statements"
)

func MainRouter(sh *statements.Handler, db handlers.Pinger) *http.ServeMux {

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", handlers.Index)
	mux.HandleFunc("GET /healthz", handlers.Health(db))
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	sRouter := statementsRouter(sh)
	mux.Handle("/statement/", sRouter)

	return mux
}
