package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/menucloud/menucloud/models"
	"github.com/menucloud/menucloud/services"
	"github.com/menucloud/menucloud/utils"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// PublicController serves the anonymous, cache-backed menu surface. No
// auth, no envelope: responses are the assembled documents byte for byte,
// so cache hits skip marshalling entirely.
type PublicController struct {
	Resolver  *services.TenantResolver
	Assembler *services.MenuAssembler
}

func NewPublicController(resolver *services.TenantResolver, assembler *services.MenuAssembler) *PublicController {
	return &PublicController{Resolver: resolver, Assembler: assembler}
}

// GetMenuItems handles GET /public/:subdomain/menu-items?skip=&limit=&fields=&lang=
func (pc *PublicController) GetMenuItems(c *gin.Context) {
	tenant, ok := pc.resolve(c)
	if !ok {
		return
	}

	skip := clampInt(c.DefaultQuery("skip", "0"), 0, 0, 1<<30)
	limit := clampInt(c.DefaultQuery("limit", ""), defaultPageLimit, 1, maxPageLimit)
	fields := splitFields(c.Query("fields"))
	lang := c.Query("lang")

	doc, err := pc.Assembler.MenuItems(c.Request.Context(), tenant, skip, limit, fields, lang)
	if err != nil {
		utils.ErrorLogger.Printf("Failed to assemble menu for tenant %s: %v", tenant.Subdomain, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to load menu"))
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
}

// GetCategories handles GET /public/:subdomain/categories
func (pc *PublicController) GetCategories(c *gin.Context) {
	tenant, ok := pc.resolve(c)
	if !ok {
		return
	}

	doc, err := pc.Assembler.Categories(c.Request.Context(), tenant)
	if err != nil {
		utils.ErrorLogger.Printf("Failed to assemble categories for tenant %s: %v", tenant.Subdomain, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to load categories"))
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
}

// GetSettings handles GET /public/:subdomain/settings
func (pc *PublicController) GetSettings(c *gin.Context) {
	tenant, ok := pc.resolve(c)
	if !ok {
		return
	}

	doc, err := pc.Assembler.Settings(c.Request.Context(), tenant)
	if err != nil {
		utils.ErrorLogger.Printf("Failed to assemble settings for tenant %s: %v", tenant.Subdomain, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to load settings"))
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
}

func (pc *PublicController) resolve(c *gin.Context) (*models.Tenant, bool) {
	tenant, err := pc.Resolver.BySubdomain(c.Param("subdomain"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTenantNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		case errors.Is(err, services.ErrTenantInactive):
			utils.RespondError(c, http.StatusForbidden, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return nil, false
	}
	return tenant, true
}

func clampInt(raw string, fallback, min, max int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func splitFields(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
