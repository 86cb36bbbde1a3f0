package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/duynhne/franchise-service/internal/core/domain"
	logicv1 "github.com/duynhne/franchise-service/internal/logic/v1"
	"github.com/duynhne/franchise-service/middleware"
)

// IdentityResolver turns a bearer token into the caller's identity.
// *middleware.AuthClient implements it.
type IdentityResolver interface {
	GetMe(ctx context.Context, token string) (*middleware.AuthUser, error)
}

// Handler serves the session, preference, profile, pending-action and
// match-reasons endpoints.
type Handler struct {
	service                      *logicv1.Service
	identity                     IdentityResolver
	allowUnauthenticatedFallback bool
}

// NewHandler creates a new handler. identity may be nil when only demo
// sign-in is allowed.
func NewHandler(service *logicv1.Service, identity IdentityResolver, allowUnauthenticatedFallback bool) *Handler {
	return &Handler{
		service:                      service,
		identity:                     identity,
		allowUnauthenticatedFallback: allowUnauthenticatedFallback,
	}
}

// RegisterRoutes mounts the API on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/session", h.GetSession)
	r.POST("/session", h.SignIn)
	r.DELETE("/session", h.SignOut)

	r.GET("/preferences/:collection", h.ListPreferences)
	r.POST("/preferences/:collection", h.AddPreference)
	r.DELETE("/preferences/:collection/:franchiseId", h.RemovePreference)

	r.GET("/profile", h.GetProfile)
	r.PUT("/profile", h.UpdateProfile)

	r.GET("/pending-actions", h.ExportPending)
	r.DELETE("/pending-actions", h.ClearPending)
	r.DELETE("/pending-actions/:type/:franchiseId", h.RemovePending)
	r.POST("/pending-actions/replay", h.ReplayPending)

	r.POST("/match-reasons", h.MatchReasons)
}

func startSpan(c *gin.Context) (context.Context, trace.Span) {
	return middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
}

// open builds the state container of the calling tab. Callers must Close it.
func (h *Handler) open(ctx context.Context, c *gin.Context, logger *zap.Logger) *logicv1.Client {
	sessionID := c.GetString(middleware.SessionIDKey)
	nav := &redirectRecorder{
		store:  h.service.SessionStore(sessionID),
		key:    h.service.Keys().Redirect(),
		logger: logger,
	}
	return h.service.Open(ctx, c.GetString(middleware.ClientIDKey), sessionID, nav)
}

type sessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user"`
	PendingCount  int          `json:"pendingCount"`
	Redirect      string       `json:"redirect,omitempty"`
}

// GetSession handles GET /api/v1/session. A redirect scheduled by a previous
// replay is returned once and then forgotten.
func (h *Handler) GetSession(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	client := h.open(ctx, c, logger)
	defer client.Close()

	redirect, err := takeRedirect(ctx, h.service.SessionStore(c.GetString(middleware.SessionIDKey)), h.service.Keys().Redirect())
	if err != nil {
		span.RecordError(err)
		logger.Warn("Failed to read pending redirect", zap.Error(err))
	}

	user := client.CurrentUser(ctx)
	c.JSON(http.StatusOK, sessionResponse{
		Authenticated: user != nil,
		User:          user,
		PendingCount:  client.Pending().Len(ctx),
		Redirect:      redirect,
	})
}

// SignIn handles POST /api/v1/session. The identity comes from the auth
// service when a bearer token is presented, or from the body in demo mode.
func (h *Handler) SignIn(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	user, ok := h.resolveIdentity(ctx, c, logger, span)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	client := h.open(ctx, c, logger)
	defer client.Close()

	pending := client.Pending().Len(ctx)
	if err := client.SignIn(ctx, user); err != nil {
		span.RecordError(err)
		logger.Error("Failed to sign in", zap.Error(err))
		writeError(c, err)
		return
	}

	logger.Info("Session started", zap.String("user_id", user.ID), zap.Int("pending", pending))
	c.JSON(http.StatusOK, sessionResponse{
		Authenticated: true,
		User:          &user,
		PendingCount:  pending,
	})
}

func (h *Handler) resolveIdentity(ctx context.Context, c *gin.Context, logger *zap.Logger, span trace.Span) (domain.User, bool) {
	if token := middleware.BearerToken(c); token != "" && h.identity != nil {
		authUser, err := h.identity.GetMe(ctx, token)
		if err == nil {
			return domain.User{
				ID:        authUser.ID,
				Email:     authUser.Email,
				FirstName: authUser.FirstName,
				LastName:  authUser.LastName,
			}, true
		}
		span.RecordError(err)
		if !h.allowUnauthenticatedFallback || errors.Is(err, middleware.ErrInvalidToken) {
			logger.Warn("Token introspection failed", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return domain.User{}, false
		}
		logger.Warn("Auth service unavailable, using request body identity", zap.Error(err))
	}

	if !h.allowUnauthenticatedFallback {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return domain.User{}, false
	}

	var req domain.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		logger.Error("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": sanitizeValidationError(err)})
		return domain.User{}, false
	}
	span.SetAttributes(attribute.Bool("request.valid", true))
	return domain.User{
		ID:        req.ID,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, true
}

// SignOut handles DELETE /api/v1/session.
func (h *Handler) SignOut(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	client := h.open(ctx, c, logger)
	defer client.Close()

	if err := client.SignOut(ctx); err != nil {
		span.RecordError(err)
		logger.Error("Failed to sign out", zap.Error(err))
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func collectionParam(c *gin.Context) (domain.Collection, error) {
	return domain.ParseCollection(c.Param("collection"))
}

type preferencesResponse struct {
	Collection domain.Collection         `json:"collection"`
	Items      []domain.PreferenceRecord `json:"items"`
	Count      int                       `json:"count"`
}

// ListPreferences handles GET /api/v1/preferences/:collection. Anonymous
// visitors get an empty list.
func (h *Handler) ListPreferences(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	col, err := collectionParam(c)
	if err != nil {
		writeError(c, err)
		return
	}
	span.SetAttributes(attribute.String("preference.collection", string(col)))

	client := h.open(ctx, c, logger)
	defer client.Close()

	items := client.Preferences(ctx, col).List(ctx)
	if items == nil {
		items = []domain.PreferenceRecord{}
	}
	c.JSON(http.StatusOK, preferencesResponse{Collection: col, Items: items, Count: len(items)})
}

// AddPreference handles POST /api/v1/preferences/:collection. The action is
// queued (202) for anonymous visitors.
func (h *Handler) AddPreference(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	col, err := collectionParam(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var req domain.Franchise
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		logger.Error("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": sanitizeValidationError(err)})
		return
	}
	span.SetAttributes(
		attribute.Bool("request.valid", true),
		attribute.String("preference.collection", string(col)),
		attribute.String("franchise.id", req.ID),
	)

	client := h.open(ctx, c, logger)
	defer client.Close()

	outcome, err := client.Record(ctx, domain.ActionFor(col), req)
	if err != nil {
		span.RecordError(err)
		logger.Warn("Failed to add preference", zap.String("collection", string(col)), zap.Error(err))
		writeError(c, err)
		return
	}

	status := http.StatusOK
	if outcome.Pending {
		status = http.StatusAccepted
	}
	c.JSON(status, outcome)
}

// RemovePreference handles DELETE /api/v1/preferences/:collection/:franchiseId.
func (h *Handler) RemovePreference(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	col, err := collectionParam(c)
	if err != nil {
		writeError(c, err)
		return
	}
	franchiseID := c.Param("franchiseId")
	span.SetAttributes(
		attribute.String("preference.collection", string(col)),
		attribute.String("franchise.id", franchiseID),
	)

	client := h.open(ctx, c, logger)
	defer client.Close()

	outcome, err := client.Unrecord(ctx, domain.ActionFor(col), franchiseID)
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to remove preference", zap.String("collection", string(col)), zap.Error(err))
		writeError(c, err)
		return
	}

	status := http.StatusOK
	if outcome.Pending {
		status = http.StatusAccepted
	}
	c.JSON(status, outcome)
}

// GetProfile handles GET /api/v1/profile.
func (h *Handler) GetProfile(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	client := h.open(ctx, c, logger)
	defer client.Close()

	if client.CurrentUser(ctx) == nil {
		writeError(c, domain.ErrUnauthenticated)
		return
	}
	profile := client.Profile(ctx).Get(ctx)
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/v1/profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	var req domain.UserProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		logger.Error("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": sanitizeValidationError(err)})
		return
	}
	span.SetAttributes(attribute.Bool("request.valid", true))

	client := h.open(ctx, c, logger)
	defer client.Close()

	if err := client.UpdateProfile(ctx, req); err != nil {
		span.RecordError(err)
		logger.Warn("Failed to update profile", zap.Error(err))
		writeError(c, err)
		return
	}

	logger.Info("Profile updated")
	c.JSON(http.StatusOK, req)
}

// ExportPending handles GET /api/v1/pending-actions.
func (h *Handler) ExportPending(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	client := h.open(ctx, c, logger)
	defer client.Close()

	c.JSON(http.StatusOK, client.Pending().Export(ctx))
}

// ClearPending handles DELETE /api/v1/pending-actions.
func (h *Handler) ClearPending(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	client := h.open(ctx, c, logger)
	defer client.Close()

	if err := client.Pending().Clear(ctx); err != nil {
		span.RecordError(err)
		logger.Error("Failed to clear pending actions", zap.Error(err))
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemovePending handles DELETE /api/v1/pending-actions/:type/:franchiseId.
func (h *Handler) RemovePending(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	actionType, err := domain.ParseActionType(c.Param("type"))
	if err != nil {
		writeError(c, err)
		return
	}

	client := h.open(ctx, c, logger)
	defer client.Close()

	removed, err := client.Pending().Remove(ctx, actionType, c.Param("franchiseId"))
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to remove pending action", zap.Error(err))
		writeError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pending action not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ReplayPending handles POST /api/v1/pending-actions/replay.
func (h *Handler) ReplayPending(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	client := h.open(ctx, c, logger)
	defer client.Close()

	result, err := client.DrainPending(ctx)
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to replay pending actions", zap.Error(err))
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// MatchReasons handles POST /api/v1/match-reasons.
func (h *Handler) MatchReasons(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	var req domain.MatchReasonsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		logger.Error("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": sanitizeValidationError(err)})
		return
	}
	span.SetAttributes(
		attribute.Bool("request.valid", true),
		attribute.String("brand.id", req.Brand.ID),
	)

	client := h.open(ctx, c, logger)
	defer client.Close()

	c.JSON(http.StatusOK, client.MatchReasons(ctx, req.Profile, req.Brand, req.Fit))
}
