package controllers

import (
	"net/http"

	"github.com/pentshop/pentshop/pkg/cache"
	"github.com/pentshop/pentshop/pkg/database"
	"github.com/pentshop/pentshop/pkg/queue"
	"github.com/pentshop/pentshop/pkg/response"
)

// HealthController reports liveness of the API and its backing stores.
type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

// Check handles GET /api/health.
func (c *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	mongoOK := database.Health(r.Context()) == nil

	redisOK := false
	if cache.RDB != nil {
		redisOK = cache.RDB.Ping(r.Context()).Err() == nil
	}

	body := map[string]interface{}{
		"status":     "ok",
		"mongo":      mongoOK,
		"redis":      redisOK,
		"failedJobs": len(queue.FailedJobs()),
	}
	if !mongoOK {
		body["status"] = "degraded"
		response.Error(w, http.StatusServiceUnavailable, "MongoDB unreachable")
		return
	}
	response.Success(w, body)
}
