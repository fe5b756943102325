// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/hanzideck/hanzideck-api/internal/api/shared"
	"github.com/hanzideck/hanzideck-api/internal/domain"
	"github.com/hanzideck/hanzideck-api/internal/platform/logger"
	"github.com/hanzideck/hanzideck-api/internal/service/study"
	"github.com/hanzideck/hanzideck-api/internal/store"
)

// CardResponse represents the response data for a card
type CardResponse struct {
	ID              string    `json:"id"`
	Hanzi           string    `json:"hanzi"`
	Pinyin          string    `json:"pinyin"`
	PinyinDisplay   string    `json:"pinyin_display"`
	English         string    `json:"english"`
	EnglishAlt      []string  `json:"english_alt,omitempty"`
	ExampleSentence string    `json:"example_sentence,omitempty"`
	ExamplePinyin   string    `json:"example_pinyin,omitempty"`
	ExampleEnglish  string    `json:"example_english,omitempty"`
	HSKLevel        int       `json:"hsk_level,omitempty"`
	TextbookPart    int       `json:"textbook_part,omitempty"`
	LessonNumber    int       `json:"lesson_number,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ProgressResponse represents the scheduling state of one (card, mode) pair
type ProgressResponse struct {
	EaseFactor     float64    `json:"ease_factor"`
	IntervalDays   int        `json:"interval_days"`
	Repetitions    int        `json:"repetitions"`
	NextReviewDate time.Time  `json:"next_review_date"`
	TotalReviews   int        `json:"total_reviews"`
	CorrectCount   int        `json:"correct_count"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
}

// DueCardResponse pairs a due card with its scheduling state
type DueCardResponse struct {
	Card     CardResponse     `json:"card"`
	Progress ProgressResponse `json:"progress"`
}

// SessionResponse represents a planned SRS session
type SessionResponse struct {
	Cards    []CardResponse `json:"cards"`
	DueCount int            `json:"due_count"`
	NewCount int            `json:"new_count"`
}

// SubmitReviewRequest represents the request body for submitting a review
type SubmitReviewRequest struct {
	CardID         string `json:"card_id"          validate:"required,uuid"`
	Mode           string `json:"mode"             validate:"required"`
	Quality        int    `json:"quality"          validate:"gte=0,lte=5"`
	ResponseTimeMs int    `json:"response_time_ms" validate:"gte=0"`
}

// StudyHandler handles study-related HTTP requests
type StudyHandler struct {
	studyService study.StudyService
	dueLimit     int
	newLimit     int
	logger       *slog.Logger
}

// NewStudyHandler creates a new StudyHandler. The limits cap the due and new
// sets of an SRS session when the request does not override them.
func NewStudyHandler(
	studyService study.StudyService,
	dueLimit, newLimit int,
	logger *slog.Logger,
) *StudyHandler {
	if studyService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("studyService cannot be nil for StudyHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StudyHandler")
	}

	return &StudyHandler{
		studyService: studyService,
		dueLimit:     dueLimit,
		newLimit:     newLimit,
		logger:       logger.With(slog.String("component", "study_handler")),
	}
}

// GetDueCards handles GET /study/due requests
// It retrieves the cards due for review in the requested mode.
func (h *StudyHandler) GetDueCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromContext(w, r, log)
	if !ok {
		return
	}

	mode, ok := modeFromQuery(w, r, log)
	if !ok {
		return
	}

	filter, ok := filterFromQuery(w, r, log)
	if !ok {
		return
	}

	limit, ok := intFromQuery(w, r, log, "limit", h.dueLimit)
	if !ok {
		return
	}

	due, err := h.studyService.GetDueCards(r.Context(), userID, mode, filter, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]DueCardResponse, 0, len(due))
	for _, pair := range due {
		response = append(response, DueCardResponse{
			Card:     cardToResponse(pair.Card),
			Progress: progressToResponse(pair.Progress),
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GetNewCards handles GET /study/new requests
// It retrieves cards never studied in the requested mode.
func (h *StudyHandler) GetNewCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromContext(w, r, log)
	if !ok {
		return
	}

	mode, ok := modeFromQuery(w, r, log)
	if !ok {
		return
	}

	filter, ok := filterFromQuery(w, r, log)
	if !ok {
		return
	}

	limit, ok := intFromQuery(w, r, log, "limit", h.newLimit)
	if !ok {
		return
	}

	cards, err := h.studyService.GetNewCards(r.Context(), userID, mode, filter, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]CardResponse, 0, len(cards))
	for _, card := range cards {
		response = append(response, cardToResponse(card))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GetSession handles GET /study/session requests
// It plans one SRS sitting: due cards first, then new cards.
func (h *StudyHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromContext(w, r, log)
	if !ok {
		return
	}

	mode, ok := modeFromQuery(w, r, log)
	if !ok {
		return
	}

	filter, ok := filterFromQuery(w, r, log)
	if !ok {
		return
	}

	dueLimit, ok := intFromQuery(w, r, log, "due_limit", h.dueLimit)
	if !ok {
		return
	}

	newLimit, ok := intFromQuery(w, r, log, "new_limit", h.newLimit)
	if !ok {
		return
	}

	session, err := h.studyService.BuildSession(r.Context(), userID, mode, filter, dueLimit, newLimit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := SessionResponse{
		Cards:    make([]CardResponse, 0, len(session.Cards)),
		DueCount: session.DueCount,
		NewCount: session.NewCount,
	}
	for _, card := range session.Cards {
		response.Cards = append(response.Cards, cardToResponse(card))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// SubmitReview handles POST /study/review requests
// It applies one review outcome to the spaced repetition schedule.
func (h *StudyHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromContext(w, r, log)
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("failed to decode review request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("invalid review request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid review submission")
		return
	}

	cardID, err := uuid.Parse(req.CardID)
	if err != nil {
		log.Warn("invalid card ID format", slog.String("card_id", req.CardID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID format")
		return
	}

	progress, err := h.studyService.SubmitReview(r.Context(), userID, study.ReviewSubmission{
		CardID:         cardID,
		Mode:           domain.StudyMode(req.Mode),
		Quality:        domain.Quality(req.Quality),
		ResponseTimeMs: req.ResponseTimeMs,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("review submitted",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("quality", req.Quality))
	shared.RespondWithJSON(w, r, http.StatusOK, progressToResponse(progress))
}

// GetStats handles GET /study/stats requests
func (h *StudyHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromContext(w, r, log)
	if !ok {
		return
	}

	stats, err := h.studyService.GetStats(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// GetHeatmap handles GET /study/heatmap requests
// The days query parameter sets the trailing window; default 365.
func (h *StudyHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromContext(w, r, log)
	if !ok {
		return
	}

	days, ok := intFromQuery(w, r, log, "days", 365)
	if !ok {
		return
	}

	heatmap, err := h.studyService.GetHeatmap(r.Context(), userID, days)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, heatmap)
}

// userIDFromContext extracts the authenticated user ID placed in the context
// by the identity middleware, writing a 401 on failure.
func userIDFromContext(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}
	return userID, true
}

// modeFromQuery reads and validates the mode query parameter, writing a 400
// on failure.
func modeFromQuery(w http.ResponseWriter, r *http.Request, log *slog.Logger) (domain.StudyMode, bool) {
	mode := domain.StudyMode(r.URL.Query().Get("mode"))
	if !mode.Valid() {
		log.Warn("invalid study mode", slog.String("mode", string(mode)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid or missing study mode")
		return "", false
	}
	return mode, true
}

// filterFromQuery builds a catalog filter from the optional query parameters,
// writing a 400 on malformed values.
func filterFromQuery(w http.ResponseWriter, r *http.Request, log *slog.Logger) (store.CardFilter, bool) {
	var filter store.CardFilter
	query := r.URL.Query()

	if raw := query.Get("textbook_part"); raw != "" {
		part, err := strconv.Atoi(raw)
		if err != nil {
			log.Warn("invalid textbook_part", slog.String("value", raw))
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid textbook_part")
			return store.CardFilter{}, false
		}
		filter.TextbookPart = &part
	}

	if raw := query.Get("lesson_number"); raw != "" {
		lesson, err := strconv.Atoi(raw)
		if err != nil {
			log.Warn("invalid lesson_number", slog.String("value", raw))
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid lesson_number")
			return store.CardFilter{}, false
		}
		filter.LessonNumber = &lesson
	}

	if raw := query.Get("folder_id"); raw != "" {
		folderID, err := uuid.Parse(raw)
		if err != nil {
			log.Warn("invalid folder_id", slog.String("value", raw))
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid folder_id")
			return store.CardFilter{}, false
		}
		filter.FolderID = &folderID
	}

	return filter, true
}

// intFromQuery reads a positive integer query parameter, falling back to the
// default when absent and writing a 400 on malformed or non-positive values.
func intFromQuery(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
	name string,
	fallback int,
) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		log.Warn("invalid "+name, slog.String("value", raw))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return value, true
}

// cardToResponse transforms a domain card to its response shape.
func cardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:              card.ID.String(),
		Hanzi:           card.Hanzi,
		Pinyin:          card.Pinyin,
		PinyinDisplay:   card.PinyinDisplay,
		English:         card.English,
		EnglishAlt:      card.EnglishAlt,
		ExampleSentence: card.ExampleSentence,
		ExamplePinyin:   card.ExamplePinyin,
		ExampleEnglish:  card.ExampleEnglish,
		HSKLevel:        card.HSKLevel,
		TextbookPart:    card.TextbookPart,
		LessonNumber:    card.LessonNumber,
		Tags:            card.Tags,
		CreatedAt:       card.CreatedAt,
	}
}

// progressToResponse transforms a progress record to its response shape.
func progressToResponse(progress *domain.CardProgress) ProgressResponse {
	response := ProgressResponse{
		EaseFactor:     progress.EaseFactor,
		IntervalDays:   progress.IntervalDays,
		Repetitions:    progress.Repetitions,
		NextReviewDate: progress.NextReviewDate,
		TotalReviews:   progress.TotalReviews,
		CorrectCount:   progress.CorrectCount,
	}
	if !progress.LastReviewedAt.IsZero() {
		reviewed := progress.LastReviewedAt
		response.LastReviewedAt = &reviewed
	}
	return response
}
