package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/portfolio-backend/internal/chat"
	"github.com/DoyleJ11/portfolio-backend/internal/contact"
	"github.com/DoyleJ11/portfolio-backend/internal/projects"
	"github.com/DoyleJ11/portfolio-backend/internal/resume"
	"github.com/DoyleJ11/portfolio-backend/internal/types"
)

func (a *API) ResumeRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := a.d.Store.ResumeRoles(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roles)
}

type resumeResponse struct {
	Role     string         `json:"role"`
	Fallback bool           `json:"fallback"`
	Content  resume.Content `json:"content"`
}

func (a *API) ResumeContent(w http.ResponseWriter, r *http.Request) {
	role := chi.URLParam(r, "role")
	c, ok := resume.Lookup(role)
	resp := resumeResponse{Role: role, Fallback: !ok, Content: c}
	if !ok {
		resp.Role = resume.DefaultRole
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) Projects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, projects.All())
}

func (a *API) Project(w http.ResponseWriter, r *http.Request) {
	p, err := projects.Lookup(chi.URLParam(r, "slug"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) Contact(w http.ResponseWriter, r *http.Request) {
	var f contact.Form
	if err := decode(w, r, &f); err != nil {
		a.fail(w, r, err)
		return
	}
	m, err := a.d.Contact.Submit(r.Context(), f)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	}{m.ID, "Message sent successfully! I'll get back to you soon."})
}

func (a *API) Chat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	body, err := a.d.Chat.Open(r.Context(), req)
	if err != nil {
		status := chat.Status(err)
		if status >= http.StatusInternalServerError {
			a.log.Error("chat failed", zap.Error(err))
		}
		writeJSON(w, status, types.ErrorResponse{Error: chat.PublicMessage(err)})
		return
	}
	defer body.Close()
	if err := chat.Stream(w, body); err != nil {
		a.log.Debug("chat stream interrupted", zap.Error(err))
	}
}

func (a *API) Messages(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	msgs, err := a.d.Store.ListMessages(r.Context(), limit)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []contact.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}
