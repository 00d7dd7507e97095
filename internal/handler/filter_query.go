package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/prizehub/competitions-api/internal/filter"
	"github.com/prizehub/competitions-api/internal/mapper"
	appErrors "github.com/prizehub/competitions-api/pkg/errors"
)

// specFromQuery builds a filter spec from listing query parameters. Unknown
// parameters are ignored; malformed numeric or date values are rejected.
func specFromQuery(c *gin.Context) (filter.Spec, error) {
	spec := filter.Spec{
		Status:     c.Query("status"),
		Category:   c.Query("category"),
		Difficulty: c.Query("difficulty"),
		Search:     c.Query("search"),
	}

	if raw := c.Query("prizeMin"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return filter.Spec{}, appErrors.Clone(appErrors.ErrValidation, "prizeMin must be an integer")
		}
		spec.PrizeMin = &v
	}
	if raw := c.Query("prizeMax"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return filter.Spec{}, appErrors.Clone(appErrors.ErrValidation, "prizeMax must be an integer")
		}
		spec.PrizeMax = &v
	}
	if raw := c.Query("endBefore"); raw != "" {
		t, ok := mapper.ParseTimestamp(raw)
		if !ok {
			return filter.Spec{}, appErrors.Clone(appErrors.ErrValidation, "endBefore must be an RFC3339 timestamp or YYYY-MM-DD date")
		}
		spec.EndBefore = &t
	}

	return spec, nil
}
