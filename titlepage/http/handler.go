package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/ritlepage/backend/titlepage"
)

// maxBodyBytes bounds a submission body; real ones are well under 4KiB.
const maxBodyBytes = 64 << 10

type TitlePageHttpHandler struct {
	srvc *titlepage.Service
}

func NewTitlePageHttpHandler(srvc *titlepage.Service) *TitlePageHttpHandler {
	return &TitlePageHttpHandler{srvc: srvc}
}

func (h *TitlePageHttpHandler) RegisterRoutes(r chi.Router) {
	r.Post("/v2/generate", h.PostGenerate)
}
