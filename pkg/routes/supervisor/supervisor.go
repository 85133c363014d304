package supervisor

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/d-krupke/thesis-manager/internal/repositories/supervisor"
	"github.com/d-krupke/thesis-manager/internal/repositories/thesis"
	"github.com/d-krupke/thesis-manager/pkg/models"
)

var validate = validator.New()

// Register registers supervisor routes
func Register(g *echo.Group) {
	g.GET("", ListSupervisors)
	g.GET("/:id", GetSupervisor)
	g.POST("", CreateSupervisor)
	g.PUT("/:id", UpdateSupervisor)
	g.DELETE("/:id", DeleteSupervisor)
	g.GET("/:id/theses", ListSupervisorTheses)
}

// ListSupervisors lists supervisors with pagination
func ListSupervisors(c echo.Context) error {
	ctx := c.Request().Context()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	ctx, repo, err := ectoinject.GetContext[*supervisor.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	supervisors, total, err := repo.List(ctx, page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.SupervisorListResponse{
		Items:      supervisors,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// GetSupervisor gets a supervisor by ID
func GetSupervisor(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*supervisor.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	found, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, found)
}

// CreateSupervisor creates a new supervisor
func CreateSupervisor(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.CreateSupervisorRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*supervisor.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	created, err := repo.Create(ctx, req)
	if err != nil {
		return err
	}

	ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)
	if logger != nil {
		logger.WithContext(ctx).WithFields(map[string]any{"id": created.ID}).Info("Created supervisor")
	}

	return c.JSON(http.StatusCreated, created)
}

// UpdateSupervisor updates a supervisor
func UpdateSupervisor(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var req models.UpdateSupervisorRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*supervisor.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	updated, err := repo.Update(ctx, id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteSupervisor deletes a supervisor
func DeleteSupervisor(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*supervisor.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := repo.Delete(ctx, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// ListSupervisorTheses lists the theses a supervisor is assigned to
func ListSupervisorTheses(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, supervisorRepo, err := ectoinject.GetContext[*supervisor.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	if _, err := supervisorRepo.Get(ctx, id); err != nil {
		return err
	}

	ctx, thesisRepo, err := ectoinject.GetContext[*thesis.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	theses, err := thesisRepo.ListBySupervisor(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.ThesisListResponse{
		Items:      theses,
		TotalCount: len(theses),
	})
}
