package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/stacklok/tourguide/internal/api/common"
	"github.com/stacklok/tourguide/internal/service"
	"github.com/stacklok/tourguide/internal/tracker"
	"github.com/stacklok/tourguide/internal/tracking"
	"github.com/stacklok/tourguide/internal/user"
	"github.com/stacklok/tourguide/pkg/versions"
)

// maxReportedErrors caps the per-user errors listed in a batch summary
const maxReportedErrors = 10

type handlers struct {
	svc     service.Service
	tracker TrackerStatus
}

func (*handlers) health(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, HealthResponse{Status: "healthy"}, http.StatusOK)
}

func (h *handlers) readiness(w http.ResponseWriter, _ *http.Request) {
	if h.tracker == nil {
		common.WriteJSONResponse(w, ReadinessResponse{Status: "ready"}, http.StatusOK)
		return
	}

	state := h.tracker.State()
	if state != tracker.StateRunning {
		common.WriteJSONResponse(w, ReadinessResponse{
			Status:       "not ready",
			TrackerState: state.String(),
		}, http.StatusServiceUnavailable)
		return
	}
	common.WriteJSONResponse(w, ReadinessResponse{Status: "ready", TrackerState: state.String()}, http.StatusOK)
}

func (*handlers) version(w http.ResponseWriter, _ *http.Request) {
	info := versions.GetVersionInfo()
	common.WriteJSONResponse(w, VersionResponse{
		Version:   info.Version,
		Commit:    info.Commit,
		BuildDate: info.BuildDate,
		GoVersion: info.GoVersion,
		Platform:  info.Platform,
	}, http.StatusOK)
}

// lookupUser resolves the {userName} parameter, writing the error response on failure
func (h *handlers) lookupUser(w http.ResponseWriter, r *http.Request) (*user.User, bool) {
	userName, err := common.GetAndValidateURLParam(r, "userName")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	u, err := h.svc.GetUser(userName)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			common.WriteErrorResponse(w, err.Error(), http.StatusNotFound)
			return nil, false
		}
		slog.Error("Failed to get user", "user_name", userName, "error", err)
		common.WriteErrorResponse(w, "failed to get user", http.StatusInternalServerError)
		return nil, false
	}
	return u, true
}

func (h *handlers) userLocation(w http.ResponseWriter, r *http.Request) {
	u, ok := h.lookupUser(w, r)
	if !ok {
		return
	}

	visited, err := h.svc.GetUserLocation(r.Context(), u)
	if err != nil {
		slog.Error("Failed to get user location", "user_name", u.UserName, "error", err)
		common.WriteErrorResponse(w, "failed to get user location", http.StatusBadGateway)
		return
	}
	common.WriteJSONResponse(w, LocationResponse{UserName: u.UserName, Visited: visited}, http.StatusOK)
}

func (h *handlers) userRewards(w http.ResponseWriter, r *http.Request) {
	u, ok := h.lookupUser(w, r)
	if !ok {
		return
	}

	rewards := h.svc.GetUserRewards(u)
	if rewards == nil {
		rewards = []user.Reward{}
	}
	total := 0
	for _, rw := range rewards {
		total += rw.RewardPoints
	}
	common.WriteJSONResponse(w, RewardsResponse{
		UserName:    u.UserName,
		TotalPoints: total,
		Rewards:     rewards,
	}, http.StatusOK)
}

func (h *handlers) nearbyAttractions(w http.ResponseWriter, r *http.Request) {
	u, ok := h.lookupUser(w, r)
	if !ok {
		return
	}

	visited, err := h.svc.GetUserLocation(r.Context(), u)
	if err != nil {
		slog.Error("Failed to get user location", "user_name", u.UserName, "error", err)
		common.WriteErrorResponse(w, "failed to get user location", http.StatusBadGateway)
		return
	}

	nearby, err := h.svc.GetNearByAttractions(r.Context(), u, visited)
	if err != nil {
		slog.Error("Failed to get nearby attractions", "user_name", u.UserName, "error", err)
		common.WriteErrorResponse(w, "failed to get nearby attractions", http.StatusBadGateway)
		return
	}
	common.WriteJSONResponse(w, nearby, http.StatusOK)
}

func (h *handlers) trackerStatus(w http.ResponseWriter, _ *http.Request) {
	resp := TrackerResponse{
		State:         h.tracker.State().String(),
		Interval:      h.tracker.Interval().String(),
		CycleCount:    h.tracker.CycleCount(),
		CycleComplete: h.tracker.IsCycleComplete(),
	}
	if last := h.tracker.LastResult(); last != nil {
		resp.LastBatch = summarize(last)
	}
	common.WriteJSONResponse(w, resp, http.StatusOK)
}

func summarize(result *tracking.BatchResult) *BatchSummary {
	failed := result.Failed()
	summary := &BatchSummary{
		Users:          result.Len(),
		Succeeded:      result.Succeeded(),
		Failed:         len(failed),
		RewardsGranted: result.RewardsGranted(),
		Duration:       durationString(result.Duration),
	}
	for _, o := range failed {
		if len(summary.Errors) == maxReportedErrors {
			break
		}
		summary.Errors = append(summary.Errors, o.Err.Error())
	}
	return summary
}
