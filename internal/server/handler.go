// Package server exposes the correction queue over HTTP with JSON bodies.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/at-ishikawa/dialogfix/internal/dialogue"
	"github.com/at-ishikawa/dialogfix/internal/queue"
	"github.com/at-ishikawa/dialogfix/internal/relay"
	"github.com/at-ishikawa/dialogfix/internal/ruletable"
)

//go:generate mockgen -source=handler.go -destination=../mocks/server/mock_relay.go -package=mock_server

// Relay is what the handler needs from relay.Service.
type Relay interface {
	Enqueue(line dialogue.Line, profile dialogue.Profile) (string, error)
	Reload(targetLanguage string) *ruletable.RuleSet
	Learn(category ruletable.Category, from, to string) error
	Lookup(name string) (string, bool)
	Stats() []relay.TableStat
	Pending() int
	TargetLanguage() string
}

// Handler serves the dialogue API.
type Handler struct {
	relay      Relay
	defaults   dialogue.Profile
	validate   *validator.Validate
	translator ut.Translator
}

// NewHandler creates a handler. defaults fills in the profile fields a
// request leaves out.
func NewHandler(relay Relay, defaults dialogue.Profile) (*Handler, error) {
	validate := validator.New()
	enLocale := en.New()
	trans, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		relay:      relay,
		defaults:   defaults,
		validate:   validate,
		translator: trans,
	}, nil
}

// Routes returns the API routes. metrics is mounted on /metrics when set.
func (h *Handler) Routes(metrics http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/dialogues", h.enqueue)
	mux.HandleFunc("POST /v1/reload", h.reload)
	mux.HandleFunc("POST /v1/learn", h.learn)
	mux.HandleFunc("GET /v1/names/{name}", h.lookup)
	mux.HandleFunc("GET /v1/stats", h.stats)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
	return mux
}

type profileRequest struct {
	To     string `json:"to" validate:"omitempty,bcp47_language_tag"`
	Engine string `json:"engine"`
	Fix    *bool  `json:"fix"`
	Skip   *bool  `json:"skip"`
}

type dialogueRequest struct {
	ID         string          `json:"id" validate:"omitempty,max=64"`
	Code       string          `json:"code" validate:"required,len=4,hexadecimal"`
	Name       string          `json:"name"`
	PlayerName string          `json:"playerName"`
	Text       string          `json:"text"`
	AudioText  string          `json:"audioText"`
	Profile    *profileRequest `json:"profile" validate:"omitempty"`
}

type dialogueResponse struct {
	ID      string `json:"id"`
	Pending int    `json:"pending"`
}

func (h *Handler) enqueue(w http.ResponseWriter, r *http.Request) {
	var req dialogueRequest
	if !h.decode(w, r, &req) {
		return
	}

	line := dialogue.Line{
		ID:          req.ID,
		ChannelCode: strings.ToUpper(req.Code),
		SpeakerName: req.Name,
		PlayerName:  req.PlayerName,
		Text:        req.Text,
		AudioText:   req.AudioText,
	}
	id, err := h.relay.Enqueue(line, h.profile(req.Profile))
	if errors.Is(err, queue.ErrStopped) {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	if err != nil {
		slog.Default().Error("failed to enqueue a dialogue line", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusAccepted, dialogueResponse{ID: id, Pending: h.relay.Pending()})
}

func (h *Handler) profile(req *profileRequest) dialogue.Profile {
	profile := h.defaults
	if req == nil {
		return profile
	}
	if req.To != "" {
		profile.TargetLanguage = req.To
	}
	if req.Engine != "" {
		profile.Engine = req.Engine
	}
	if req.Fix != nil {
		profile.Fix = *req.Fix
	}
	if req.Skip != nil {
		profile.Skip = *req.Skip
	}
	return profile
}

type reloadRequest struct {
	To string `json:"to" validate:"required,bcp47_language_tag"`
}

type reloadResponse struct {
	TargetLanguage string `json:"targetLanguage"`
	Variant        string `json:"variant"`
	Combine        int    `json:"combine"`
}

func (h *Handler) reload(w http.ResponseWriter, r *http.Request) {
	var req reloadRequest
	if !h.decode(w, r, &req) {
		return
	}
	rs := h.relay.Reload(req.To)
	writeJSON(w, http.StatusOK, reloadResponse{
		TargetLanguage: rs.TargetLanguage,
		Variant:        rs.Variant,
		Combine:        rs.Combine.Len(),
	})
}

var learnCategories = map[string]ruletable.Category{
	"name":      ruletable.CategoryName,
	"overwrite": ruletable.CategoryOverwrite,
	"subtitle":  ruletable.CategorySubtitle,
}

type learnRequest struct {
	Category string `json:"category" validate:"required,oneof=name overwrite subtitle"`
	From     string `json:"from" validate:"required"`
	To       string `json:"to"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.relay.Learn(learnCategories[req.Category], req.From, req.To); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type lookupResponse struct {
	Name        string `json:"name"`
	Translation string `json:"translation"`
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	translation, ok := h.relay.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("%s is not in the dictionary", name))
		return
	}
	writeJSON(w, http.StatusOK, lookupResponse{Name: name, Translation: translation})
}

type statsResponse struct {
	TargetLanguage string         `json:"targetLanguage"`
	Pending        int            `json:"pending"`
	Tables         map[string]int `json:"tables"`
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	tables := make(map[string]int)
	for _, s := range h.relay.Stats() {
		tables[s.Name] = s.Len
	}
	writeJSON(w, http.StatusOK, statsResponse{
		TargetLanguage: h.relay.TargetLanguage(),
		Pending:        h.relay.Pending(),
		Tables:         tables,
	})
}

// decode reads and validates a JSON body. It writes the error response
// itself and reports whether the handler should continue.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			writeError(w, http.StatusBadRequest, err)
			return false
		}
		messages := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			messages = append(messages, e.Translate(h.translator))
		}
		writeError(w, http.StatusBadRequest, errors.New(strings.Join(messages, ", ")))
		return false
	}
	return true
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("failed to write a response", slog.Any("error", err))
	}
}
