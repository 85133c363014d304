package student

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/d-krupke/thesis-manager/internal/repositories/student"
	"github.com/d-krupke/thesis-manager/internal/repositories/thesis"
	"github.com/d-krupke/thesis-manager/pkg/models"
)

var validate = validator.New()

// Register registers student routes
func Register(g *echo.Group) {
	g.GET("", ListStudents)
	g.GET("/:id", GetStudent)
	g.POST("", CreateStudent)
	g.PUT("/:id", UpdateStudent)
	g.DELETE("/:id", DeleteStudent)
	g.GET("/:id/theses", ListStudentTheses)
}

// ListStudents lists students with pagination
func ListStudents(c echo.Context) error {
	ctx := c.Request().Context()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	ctx, repo, err := ectoinject.GetContext[*student.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	students, total, err := repo.List(ctx, page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.StudentListResponse{
		Items:      students,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// GetStudent gets a student by ID
func GetStudent(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*student.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	found, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, found)
}

// CreateStudent creates a new student
func CreateStudent(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.CreateStudentRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*student.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	created, err := repo.Create(ctx, req)
	if err != nil {
		return err
	}

	ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)
	if logger != nil {
		logger.WithContext(ctx).WithFields(map[string]any{"id": created.ID}).Info("Created student")
	}

	return c.JSON(http.StatusCreated, created)
}

// UpdateStudent updates a student
func UpdateStudent(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var req models.UpdateStudentRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*student.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	updated, err := repo.Update(ctx, id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteStudent deletes a student
func DeleteStudent(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*student.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := repo.Delete(ctx, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// ListStudentTheses lists the theses a student is assigned to
func ListStudentTheses(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, studentRepo, err := ectoinject.GetContext[*student.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	if _, err := studentRepo.Get(ctx, id); err != nil {
		return err
	}

	ctx, thesisRepo, err := ectoinject.GetContext[*thesis.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	theses, err := thesisRepo.ListByStudent(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.ThesisListResponse{
		Items:      theses,
		TotalCount: len(theses),
	})
}
