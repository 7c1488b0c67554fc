package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/jonathan/job-copilot/internal/ingestion"
	"github.com/jonathan/job-copilot/internal/types"
)

// maxResumeBytes caps resume uploads at 10 MB.
const maxResumeBytes = 10 << 20

// handleGetProfile returns the user's profile, or 404 if none is saved yet.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := authedUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		log.Printf("[profile] get failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, "No profile saved")
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handlePutProfile replaces the user's profile wholesale.
func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := authedUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var profile types.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if profile.IsEmpty() {
		s.errorResponse(w, http.StatusBadRequest, "profile must not be empty")
		return
	}

	if err := s.store.UpsertProfile(r.Context(), userID, &profile); err != nil {
		log.Printf("[profile] upsert failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save profile")
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handleUploadResume accepts a resume file (pdf, docx, txt or md), extracts
// its text, has the analyzer turn it into a structured profile and saves the
// result. The parsed profile is returned so the client can show it for
// review.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	userID, err := authedUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxResumeBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "resume file is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxResumeBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	text, err := ingestion.ExtractText(header.Header.Get("Content-Type"), data)
	if err != nil {
		var unsupported *ingestion.UnsupportedTypeError
		if errors.As(err, &unsupported) {
			s.errorResponse(w, http.StatusUnsupportedMediaType, unsupported.Error())
			return
		}
		log.Printf("[profile] resume text extraction failed: %v", err)
		s.errorResponse(w, http.StatusUnprocessableEntity, "Could not read text from the uploaded file")
		return
	}
	if strings.TrimSpace(text) == "" {
		s.errorResponse(w, http.StatusUnprocessableEntity, "The uploaded file contained no readable text")
		return
	}

	profile, err := s.analyzer.ParseResume(r.Context(), text)
	if err != nil {
		log.Printf("[profile] resume parsing failed: %v", err)
		s.errorResponse(w, http.StatusBadGateway, "Resume parsing failed, try again later")
		return
	}

	if err := s.store.UpsertProfile(r.Context(), userID, profile); err != nil {
		log.Printf("[profile] upsert failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save profile")
		return
	}
	s.jsonResponse(w, http.StatusCreated, profile)
}
