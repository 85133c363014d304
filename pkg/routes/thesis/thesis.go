package thesis

import (
	stdcontext "context"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/d-krupke/thesis-manager/internal/repositories/comment"
	"github.com/d-krupke/thesis-manager/internal/repositories/thesis"
	"github.com/d-krupke/thesis-manager/pkg/audit"
	pkgcontext "github.com/d-krupke/thesis-manager/pkg/context"
	"github.com/d-krupke/thesis-manager/pkg/models"
)

var validate = validator.New()

// Register registers thesis routes
func Register(g *echo.Group) {
	g.GET("", ListTheses)
	g.GET("/:id", GetThesis)
	g.POST("", CreateThesis)
	g.PUT("/:id", UpdateThesis)
	g.DELETE("/:id", DeleteThesis)
	g.POST("/:id/add_comment", AddComment)
	g.GET("/:id/comments", ListComments)
}

// ListTheses lists theses filtered by phase, type, student or supervisor
func ListTheses(c echo.Context) error {
	ctx := c.Request().Context()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	var filter models.ThesisFilter
	if v := c.QueryParam("phase"); v != "" {
		phase := models.Phase(v)
		if !phase.IsValid() {
			return httperror.NewHTTPError(http.StatusBadRequest, "invalid phase")
		}
		filter.Phase = &phase
	}
	if v := c.QueryParam("thesis_type"); v != "" {
		thesisType := models.ThesisType(v)
		if !thesisType.IsValid() {
			return httperror.NewHTTPError(http.StatusBadRequest, "invalid thesis_type")
		}
		filter.ThesisType = &thesisType
	}
	if v := c.QueryParam("student_id"); v != "" {
		filter.StudentID = &v
	}
	if v := c.QueryParam("supervisor_id"); v != "" {
		filter.SupervisorID = &v
	}

	ctx, repo, err := ectoinject.GetContext[*thesis.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	theses, total, err := repo.List(ctx, filter, page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.ThesisListResponse{
		Items:      theses,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// GetThesis gets a thesis with students, supervisors and comments
func GetThesis(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*thesis.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	found, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	ctx, commentRepo, err := ectoinject.GetContext[*comment.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	comments, err := commentRepo.ListByThesis(ctx, id)
	if err != nil {
		return err
	}
	found.Comments = comments

	return c.JSON(http.StatusOK, found)
}

// CreateThesis creates a new thesis with its assignments
func CreateThesis(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.CreateThesisRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*thesis.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	created, err := repo.Create(ctx, req)
	if err != nil {
		return err
	}

	ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)
	if logger != nil {
		logger.WithContext(ctx).WithFields(map[string]any{"id": created.ID}).Info("Created thesis")
	}

	return c.JSON(http.StatusCreated, created)
}

// UpdateThesis updates a thesis and records date and phase changes as
// auto-generated comments.
func UpdateThesis(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var req models.UpdateThesisRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*thesis.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	before, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	updated, err := repo.Update(ctx, id, req)
	if err != nil {
		return err
	}

	if messages := audit.ChangeMessages(before, updated); len(messages) > 0 {
		ctx, commentRepo, err := ectoinject.GetContext[*comment.Repository](ctx)
		if err != nil {
			return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
		}
		ctx, notifier, err := ectoinject.GetContext[*audit.Notifier](ctx)
		if err != nil {
			return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
		}

		username := usernameFromContext(ctx)
		for _, message := range messages {
			created, err := commentRepo.Create(ctx, id, username, message, true)
			if err != nil {
				return err
			}
			notifier.CommentAdded(ctx, updated, created)
		}
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteThesis deletes a thesis
func DeleteThesis(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*thesis.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := repo.Delete(ctx, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// AddComment adds a comment to a thesis
func AddComment(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*thesis.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	target, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	ctx, commentRepo, err := ectoinject.GetContext[*comment.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	created, err := commentRepo.Create(ctx, id, usernameFromContext(ctx), req.Text, false)
	if err != nil {
		return err
	}

	ctx, notifier, err := ectoinject.GetContext[*audit.Notifier](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	notifier.CommentAdded(ctx, target, created)

	return c.JSON(http.StatusCreated, created)
}

// ListComments lists the comments on a thesis
func ListComments(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*thesis.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	if _, err := repo.Get(ctx, id); err != nil {
		return err
	}

	ctx, commentRepo, err := ectoinject.GetContext[*comment.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	comments, err := commentRepo.ListByThesis(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.CommentListResponse{
		Items:      comments,
		TotalCount: len(comments),
	})
}

func usernameFromContext(ctx stdcontext.Context) *string {
	if user := pkgcontext.GetUser(ctx); user != "" {
		return &user
	}
	return nil
}
