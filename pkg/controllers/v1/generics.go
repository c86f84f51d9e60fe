package v1

import (
	"github.com/ecole-gestion/backend/pkg/httperrors"
	"github.com/ecole-gestion/backend/pkg/httputil"
	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type resource interface {
	models.Budget | models.ExpenseCategory | models.Expense | models.FeeConfiguration | models.Tranche | models.Student | models.Payment
}

// getResource binds the ID from the URI and loads the resource with it.
//
// If either fails, the error response is written and ok is false.
func getResource[R resource](c *gin.Context, preload ...string) (r R, ok bool) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return r, false
	}

	q := models.DB
	for _, p := range preload {
		q = q.Preload(p)
	}

	err = q.First(&r, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httperrors.New(err))
		return r, false
	}

	return r, true
}

// resourceOptionsDetail returns the appropriate response for an HTTP OPTIONS request for a specific resource.
func resourceOptionsDetail[R resource](c *gin.Context) {
	if _, ok := getResource[R](c); !ok {
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// paginate applies offset and limit to the query. The limit defaults to 50.
func paginate(q *gorm.DB, setFields []string, offset uint, limit int) (*gorm.DB, int) {
	if !slices.Contains(setFields, "Limit") {
		limit = 50
	}

	return q.Offset(int(offset)).Limit(limit), limit
}
