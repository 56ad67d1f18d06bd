package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ritlepage/backend/faculty"
	"github.com/ritlepage/backend/httpjson"
)

type FacultyHttpHandler struct {
	directory *faculty.Directory
}

func NewFacultyHttpHandler(directory *faculty.Directory) *FacultyHttpHandler {
	return &FacultyHttpHandler{directory: directory}
}

func (h *FacultyHttpHandler) RegisterRoutes(r chi.Router) {
	r.Get("/faculty", h.SearchFaculty)
}

type Member struct {
	Name          string `json:"name"`
	Prefix        string `json:"prefix"`
	Designation   string `json:"designation"`
	NameWithTitle string `json:"name_with_title"`
}

func (h *FacultyHttpHandler) SearchFaculty(w http.ResponseWriter, r *http.Request) {
	found := h.directory.Search(r.URL.Query().Get("q"))

	response := make([]Member, 0, len(found))
	for _, m := range found {
		response = append(response, Member{
			Name:          m.Name,
			Prefix:        m.Prefix,
			Designation:   m.Designation,
			NameWithTitle: m.NameWithTitle(),
		})
	}
	httpjson.WriteSuccessJson(w, response)
}
