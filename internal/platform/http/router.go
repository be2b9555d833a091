package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/valora-mx/estimator-api/internal/business/estimator"
	"github.com/valora-mx/estimator-api/internal/business/wizard"
	"github.com/valora-mx/estimator-api/pkg/model"
)

// Geocoder resolves addresses and produces completions. Failures degrade to
// empty results; the wizard never sees a geocoding error.
type Geocoder interface {
	Suggest(ctx context.Context, partial string) []string
	Resolve(ctx context.Context, address string) *model.GeoLocation
}

// LeadSink appends a completed estimation to the external spreadsheet.
type LeadSink interface {
	Append(ctx context.Context, lead model.Lead) error
}

// LeadStore persists and lists lead documents.
type LeadStore interface {
	Save(ctx context.Context, lead model.Lead) error
	List(ctx context.Context, limit int) ([]model.Lead, error)
	FetchAll(ctx context.Context) ([]model.Lead, error)
}

// StatsStore manages the aggregated dashboard document.
type StatsStore interface {
	SaveLeadStats(ctx context.Context, stats model.LeadStats) error
	GetLeadStats(ctx context.Context) (model.LeadStats, error)
}

// Router wires HTTP handlers.
type Router struct {
	sessions  *wizard.Store
	geocoder  Geocoder
	estimator *estimator.Service
	leads     LeadStore
	stats     StatsStore
	sheet     LeadSink
	origins   string
}

func NewRouter(sessions *wizard.Store, geocoder Geocoder, est *estimator.Service, leads LeadStore, stats StatsStore, sheet LeadSink, allowedOrigins string) *gin.Engine {
	r := &Router{
		sessions:  sessions,
		geocoder:  geocoder,
		estimator: est,
		leads:     leads,
		stats:     stats,
		sheet:     sheet,
		origins:   allowedOrigins,
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), r.corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/sessions", r.createSession)
		api.GET("/sessions/:id", r.getSession)
		api.PUT("/sessions/:id/property", r.updateProperty)
		api.GET("/sessions/:id/address/suggestions", r.addressSuggestions)
		api.POST("/sessions/:id/address", r.selectAddress)
		api.PUT("/sessions/:id/contact", r.updateContact)
		api.POST("/sessions/:id/next", r.nextStep)
		api.POST("/sessions/:id/back", r.backStep)
		api.POST("/sessions/:id/reset", r.resetSession)

		api.GET("/leads", r.listLeads)
		api.GET("/stats", r.getStats)
		api.POST("/stats/refresh", r.refreshStats)
	}

	return router
}

func (r *Router) corsMiddleware() gin.HandlerFunc {
	origins := strings.Split(r.origins, ",")
	trimmed := make([]string, 0, len(origins))
	for _, o := range origins {
		if t := strings.TrimSpace(o); t != "" {
			trimmed = append(trimmed, t)
		}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := "*"
		for _, o := range trimmed {
			if o == "*" || o == origin {
				allowed = origin
				break
			}
		}
		c.Header("Access-Control-Allow-Origin", allowed)
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (r *Router) session(c *gin.Context) (*wizard.Session, bool) {
	s, err := r.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return s, true
}

// sessionError maps wizard errors onto HTTP responses.
func sessionError(c *gin.Context, err error) {
	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Message, "field": verr.Field})
		return
	}
	if errors.Is(err, wizard.ErrWrongStep) {
		c.JSON(http.StatusConflict, gin.H{"error": "not allowed in the current step"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (r *Router) createSession(c *gin.Context) {
	s := r.sessions.Create()
	c.JSON(http.StatusCreated, s.View())
}

func (r *Router) getSession(c *gin.Context) {
	s, ok := r.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.View())
}

func (r *Router) updateProperty(c *gin.Context) {
	s, ok := r.session(c)
	if !ok {
		return
	}
	var update wizard.PropertyUpdate
	if err := c.BindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if err := s.UpdateProperty(update); err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.View())
}

func (r *Router) addressSuggestions(c *gin.Context) {
	s, ok := r.session(c)
	if !ok {
		return
	}
	query := strings.TrimSpace(c.Query("q"))
	var suggestions []string
	if len(query) >= 3 {
		suggestions = r.geocoder.Suggest(c.Request.Context(), query)
	}
	s.SetSuggestions(suggestions)
	if suggestions == nil {
		suggestions = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

type selectAddressReq struct {
	Address string `json:"address"`
}

func (r *Router) selectAddress(c *gin.Context) {
	s, ok := r.session(c)
	if !ok {
		return
	}
	var req selectAddressReq
	if err := c.BindJSON(&req); err != nil || strings.TrimSpace(req.Address) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	}

	geo := r.geocoder.Resolve(c.Request.Context(), req.Address)
	if err := s.SelectAddress(req.Address, geo); err != nil {
		sessionError(c, err)
		return
	}
	if geo == nil {
		// Unresolved is an error state for the user but not for the session.
		c.JSON(http.StatusOK, gin.H{"resolved": false, "error": "the selected address could not be located"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"resolved": true, "location": geo})
}

func (r *Router) updateContact(c *gin.Context) {
	s, ok := r.session(c)
	if !ok {
		return
	}
	var update wizard.ContactUpdate
	if err := c.BindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if err := s.UpdateContact(update); err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.View())
}

func (r *Router) nextStep(c *gin.Context) {
	s, ok := r.session(c)
	if !ok {
		return
	}
	step, err := s.Next()
	if err != nil {
		sessionError(c, err)
		return
	}
	if step != wizard.StepResults {
		c.JSON(http.StatusOK, s.View())
		return
	}

	// Entering the results step triggers the pipeline exactly once.
	view := s.View()
	est, err := r.estimator.Estimate(view.Geo, view.Property)
	if err != nil {
		_ = s.AbortResults()
		r.estimateError(c, err)
		return
	}
	if err := s.SetResult(est); err != nil {
		sessionError(c, err)
		return
	}

	r.persistLead(c.Request.Context(), s.View())
	c.JSON(http.StatusOK, s.View())
}

func (r *Router) estimateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, estimator.ErrArtifactMissing):
		log.Printf("estimation blocked, bundle incomplete: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "estimation models are unavailable, contact support"})
	case errors.Is(err, estimator.ErrPreprocessing):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process the data, verify the entered information"})
	case errors.Is(err, estimator.ErrPrediction):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not calculate the price, please try again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// persistLead records a completed estimation. Both sinks are best-effort:
// failures are logged, never surfaced, and never block the result.
func (r *Router) persistLead(ctx context.Context, snap wizard.Snapshot) {
	if snap.Result == nil {
		return
	}
	lead := model.Lead{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Property:  snap.Property,
		Location:  snap.Geo,
		Contact:   snap.Contact,
		Estimate:  *snap.Result,
	}
	if r.sheet != nil {
		if err := r.sheet.Append(ctx, lead); err != nil {
			log.Printf("sheet append for lead %s: %v", lead.ID, err)
		}
	}
	if r.leads != nil {
		if err := r.leads.Save(ctx, lead); err != nil {
			log.Printf("save lead %s: %v", lead.ID, err)
		}
	}
}

func (r *Router) backStep(c *gin.Context) {
	s, ok := r.session(c)
	if !ok {
		return
	}
	if err := s.Back(); err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.View())
}

func (r *Router) resetSession(c *gin.Context) {
	s, ok := r.session(c)
	if !ok {
		return
	}
	s.Reset()
	c.JSON(http.StatusOK, s.View())
}

func (r *Router) listLeads(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	leads, err := r.leads.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": leads, "count": len(leads)})
}

func (r *Router) getStats(c *gin.Context) {
	stats, err := r.stats.GetLeadStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (r *Router) refreshStats(c *gin.Context) {
	ctx := c.Request.Context()

	leads, err := r.leads.FetchAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch leads: " + err.Error()})
		return
	}

	stats := estimator.AggregateLeadStats(leads)
	if err := r.stats.SaveLeadStats(ctx, stats); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save stats: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
