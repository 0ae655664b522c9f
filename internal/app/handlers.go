package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github-profile-analyzer/internal/errors"
	"github-profile-analyzer/internal/queue"
	"github-profile-analyzer/internal/response"
	"github-profile-analyzer/internal/validator"
)

const (
	defaultJobsLimit = 50
	maxJobsLimit     = 500
)

type analyzeRequest struct {
	Username string `json:"username"`
}

// healthCheck handles the health check endpoint
func (a *App) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Success("Service is healthy", map[string]interface{}{
		"status":  "UP",
		"service": ServiceName,
		"version": Version,
		"history": a.service.HistoryEnabled(),
	}))
}

// analyze runs a synchronous analysis and returns the full report
func (a *App) analyze(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}

	a.log.Debug().
		Str("input", req.Username).
		Msg("Analyzing profile")

	report, err := a.service.Analyze(r.Context(), req.Username)
	if err != nil {
		a.log.Error().
			Err(err).
			Str("input", req.Username).
			Msg("Failed to analyze profile")
		a.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Success("Analysis completed", report))
}

// analyzeAsync schedules an analysis job and returns its id
func (a *App) analyzeAsync(w http.ResponseWriter, r *http.Request) {
	if a.queue == nil {
		a.respondError(w, errors.ErrHistoryDisabled)
		return
	}

	req, ok := a.decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}

	username, err := validator.ExtractUsername(req.Username)
	if err != nil {
		a.respondError(w, err)
		return
	}

	job, err := queue.NewAnalyzeJob(username)
	if err != nil {
		a.log.Error().
			Err(err).
			Msg("Failed to build analyze job")
		response.JSON(w, http.StatusInternalServerError, response.ServerError("internal", "Internal server error"))
		return
	}

	if err := a.queue.Enqueue(r.Context(), job); err != nil {
		a.log.Error().
			Err(err).
			Str("username", username).
			Msg("Failed to enqueue analyze job")
		a.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusAccepted, response.Success(
		fmt.Sprintf("Analysis of %s scheduled", username),
		map[string]interface{}{
			"job_id":   job.ID,
			"status":   "scheduled",
			"username": username,
		},
	))
}

func (a *App) decodeAnalyzeRequest(w http.ResponseWriter, r *http.Request) (analyzeRequest, bool) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusBadRequest, response.ErrorWithCode("invalid_input", "Invalid request body"))
		return req, false
	}
	return req, true
}

// listAnalyses returns the recorded analyses of one profile, newest first
func (a *App) listAnalyses(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := a.service.History(r.Context(), username, limit)
	if err != nil {
		a.log.Error().
			Err(err).
			Str("username", username).
			Int("limit", limit).
			Msg("Failed to list analyses")
		a.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Success("Analyses retrieved successfully", map[string]interface{}{
		"username": username,
		"count":    len(records),
		"analyses": records,
	}))
}

// getAnalysis returns one recorded analysis by id
func (a *App) getAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.JSON(w, http.StatusBadRequest, response.ErrorWithCode("invalid_input", "Invalid analysis id"))
		return
	}

	rec, err := a.service.GetAnalysis(r.Context(), id)
	if err != nil {
		a.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Success("Analysis retrieved successfully", rec))
}

func (a *App) getJobStatus(w http.ResponseWriter, r *http.Request) {
	if a.queue == nil {
		a.respondError(w, errors.ErrHistoryDisabled)
		return
	}

	jobID := mux.Vars(r)["job_id"]

	a.log.Debug().
		Str("job_id", jobID).
		Msg("Getting job status")

	job, err := a.queue.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			response.JSON(w, http.StatusNotFound, response.ErrorWithCode("not_found", fmt.Sprintf("Job %s not found", jobID)))
			return
		}
		a.log.Error().
			Err(err).
			Str("job_id", jobID).
			Msg("Failed to get job status")
		a.respondError(w, err)
		return
	}

	data := map[string]interface{}{
		"job_id": job.ID,
		"status": job.Status,
		"job":    job,
	}

	if job.Status == queue.JobStatusComplete {
		rec, err := a.service.GetAnalysisByJob(r.Context(), job.ID)
		switch {
		case err == nil:
			data["analysis"] = rec
		case errors.Is(err, errors.ErrNotFound):
		default:
			a.log.Warn().
				Err(err).
				Str("job_id", jobID).
				Msg("Failed to load analysis for completed job")
		}
	}

	response.JSON(w, http.StatusOK, response.Success("Job status retrieved successfully", data))
}

// listJobs handles retrieving recent jobs
func (a *App) listJobs(w http.ResponseWriter, r *http.Request) {
	if a.queue == nil {
		a.respondError(w, errors.ErrHistoryDisabled)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultJobsLimit
	}
	limit = min(limit, maxJobsLimit)

	jobs, err := a.queue.GetJobs(r.Context(), limit)
	if err != nil {
		a.log.Error().
			Err(err).
			Msg("Failed to get jobs")
		a.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Success("Jobs retrieved successfully", map[string]interface{}{
		"jobs":  jobs,
		"count": len(jobs),
	}))
}

// getRateLimit returns the last GitHub rate limit snapshot
func (a *App) getRateLimit(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Success("Rate limit retrieved successfully", a.service.RateLimit()))
}

// respondError maps domain errors onto HTTP status codes
func (a *App) respondError(w http.ResponseWriter, err error) {
	code, body := errorResponse(err)
	response.JSON(w, code, body)
}

func errorResponse(err error) (int, response.Response) {
	var validation *errors.ValidationError

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, response.ErrorWithCode("invalid_input", validation.Reason)
	case errors.Is(err, errors.ErrInvalidInput):
		return http.StatusBadRequest, response.ErrorWithCode("invalid_input", err.Error())
	case errors.Is(err, errors.ErrMissingData):
		return http.StatusUnprocessableEntity, response.ErrorWithCode("missing_data", err.Error())
	case errors.Is(err, errors.ErrNotFound):
		var ghErr *errors.GitHubError
		if errors.As(err, &ghErr) {
			return http.StatusNotFound, response.ErrorWithCode("not_found", fmt.Sprintf("GitHub user %s not found", ghErr.Request))
		}
		return http.StatusNotFound, response.ErrorWithCode("not_found", "Resource not found")
	case errors.Is(err, errors.ErrRateLimit):
		return http.StatusTooManyRequests, response.ErrorWithCode("rate_limited", "GitHub rate limit exceeded, please try again later")
	case errors.Is(err, errors.ErrUnauthorized), errors.Is(err, errors.ErrGitHubAPI):
		return http.StatusBadGateway, response.ServerError("upstream", "GitHub API request failed")
	case errors.Is(err, errors.ErrHistoryDisabled):
		return http.StatusServiceUnavailable, response.ServerError("history_disabled", "Analysis history is disabled on this server")
	default:
		return http.StatusInternalServerError, response.ServerError("internal", "Internal server error")
	}
}
