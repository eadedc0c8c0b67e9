package routers

import (
	"net/http"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/api/handlers/statements"
)

func statementsRouter(h *statements.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /statement/{bank}", h.UploadStatement)

	mux.HandleFunc("GET /statement/{bank}", h.ListStatements)

	return mux
}
