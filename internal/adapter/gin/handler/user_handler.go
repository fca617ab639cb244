// Package handler orchestrates the user pages: it sequences parameter
// validation, Phoenix API calls and the mapping of results into rendering
// contexts. All parser and client failures are converted to a rendering
// decision here; none escape as server errors.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phoenix-web/internal/domain/user"
	"phoenix-web/internal/params"
	"phoenix-web/internal/upstream"
)

// UserHandler handles the server-rendered user pages
type UserHandler struct {
	api upstream.API
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(api upstream.API, log *zap.Logger) *UserHandler {
	return &UserHandler{
		api: api,
		log: log,
	}
}

// Home handles GET / and redirects to the user list
func (h *UserHandler) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, "/users")
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	spec, err := params.ParseFilterSortSpec(c.Request.URL.Query())
	if err != nil {
		h.log.Warn("invalid sorting parameter", zap.Error(err))
		h.renderList(c, nil, params.FilterSortSpec{}, "Invalid sorting parameter: "+err.Error())
		return
	}

	if !params.ValidDateRange(spec.BirthdateFrom, spec.BirthdateTo) {
		h.log.Warn("invalid birthdate range",
			zap.String("from", spec.BirthdateFrom), zap.String("to", spec.BirthdateTo))
		h.renderList(c, nil, spec, `Birthdate "from" cannot be greater than birthdate "to".`)
		return
	}

	users, err := h.api.ListUsers(c.Request.Context(), spec.UpstreamFilters())
	if err != nil {
		h.log.Error("list users failed", zap.Error(err))
		h.renderList(c, nil, params.FilterSortSpec{}, "Failed to fetch users list: "+err.Error())
		return
	}

	h.renderList(c, users, spec, "")
}

// Show handles GET /users/:id
func (h *UserHandler) Show(c *gin.Context) {
	id, err := params.ParseUserID(c.Param("id"))
	if err != nil {
		h.log.Warn("invalid user id", zap.String("id", c.Param("id")))
		h.redirectToList(c, "error", err.Error())
		return
	}

	u, err := h.api.GetUser(c.Request.Context(), id)
	if err != nil {
		h.log.Error("get user failed", zap.Int64("id", id), zap.Error(err))
		h.redirectToList(c, "error", "Failed to fetch user data: "+err.Error())
		return
	}

	c.HTML(http.StatusOK, "user_show.html", gin.H{
		"user":    u,
		"flashes": popFlashes(c),
	})
}

// New handles GET /users/create and renders the empty create form
func (h *UserHandler) New(c *gin.Context) {
	h.renderCreate(c, UserForm{}, nil, "")
}

// Create handles POST /users/create
func (h *UserHandler) Create(c *gin.Context) {
	var form UserForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Warn("create form validation failed", zap.Error(err))
		h.renderCreate(c, form, validationMessages(err), "Please correct the errors below.")
		return
	}

	record, err := form.toRecord(0) // sentinel id, assigned by the API
	if err != nil {
		h.renderCreate(c, form, map[string]string{"birthdate": "Birth date must be a valid date"}, "Please correct the errors below.")
		return
	}

	created, err := h.api.Create(c.Request.Context(), record)
	if err != nil {
		h.log.Error("create user failed", zap.Error(err))
		h.renderCreate(c, form, nil, "Failed to create user: "+err.Error())
		return
	}

	h.log.Info("user created", zap.Int64("id", created.ID))
	addFlash(c, "success", "User has been created successfully")
	c.Redirect(http.StatusFound, showPath(created.ID))
}

// Edit handles GET /users/:id/edit; the form is always pre-filled from a
// fresh fetch, never from submitted state.
func (h *UserHandler) Edit(c *gin.Context) {
	id, err := params.ParseUserID(c.Param("id"))
	if err != nil {
		h.log.Warn("invalid user id", zap.String("id", c.Param("id")))
		h.redirectToList(c, "error", err.Error())
		return
	}

	u, err := h.api.GetUser(c.Request.Context(), id)
	if err != nil {
		h.log.Error("get user failed", zap.Int64("id", id), zap.Error(err))
		h.redirectToList(c, "error", "Failed to fetch user data: "+err.Error())
		return
	}

	form := UserForm{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Gender:    u.Gender,
		Birthdate: u.BirthdateString(),
	}
	h.renderEdit(c, id, form, nil, "")
}

// Update handles POST /users/:id/edit. Submitted fields win over any
// previously fetched state; only the id comes from the URL.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := params.ParseUserID(c.Param("id"))
	if err != nil {
		h.log.Warn("invalid user id", zap.String("id", c.Param("id")))
		h.redirectToList(c, "error", err.Error())
		return
	}

	var form UserForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Warn("edit form validation failed", zap.Int64("id", id), zap.Error(err))
		h.renderEdit(c, id, form, validationMessages(err), "Please correct the errors below.")
		return
	}

	record, err := form.toRecord(id)
	if err != nil {
		h.renderEdit(c, id, form, map[string]string{"birthdate": "Birth date must be a valid date"}, "Please correct the errors below.")
		return
	}

	if _, err := h.api.Update(c.Request.Context(), record); err != nil {
		h.log.Error("update user failed", zap.Int64("id", id), zap.Error(err))
		h.renderEdit(c, id, form, nil, "Failed to update user: "+err.Error())
		return
	}

	h.log.Info("user updated", zap.Int64("id", id))
	addFlash(c, "success", "User has been updated successfully")
	c.Redirect(http.StatusFound, showPath(id))
}

// Delete handles POST /users/:id/delete and DELETE /users/:id. It always
// redirects to the list; the flash message reflects the upstream outcome.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := params.ParseUserID(c.Param("id"))
	if err != nil {
		h.log.Warn("invalid user id", zap.String("id", c.Param("id")))
		h.redirectToList(c, "error", err.Error())
		return
	}

	if err := h.api.Delete(c.Request.Context(), id); err != nil {
		h.log.Error("delete user failed", zap.Int64("id", id), zap.Error(err))
		h.redirectToList(c, "error", "Failed to delete user: "+err.Error())
		return
	}

	h.log.Info("user deleted", zap.Int64("id", id))
	h.redirectToList(c, "success", "User has been deleted successfully")
}

// renderList renders the user list with the current filter values echoed
// back so the controls can be re-populated.
func (h *UserHandler) renderList(c *gin.Context, users []user.User, spec params.FilterSortSpec, errMsg string) {
	c.HTML(http.StatusOK, "user_list.html", gin.H{
		"users":                      users,
		"currentSortField":           spec.SortField,
		"currentSort":                spec.SortOrder,
		"currentFirstNameFilter":     spec.FirstName,
		"currentLastNameFilter":      spec.LastName,
		"currentGenderFilter":        spec.Gender,
		"currentBirthdateFromFilter": spec.BirthdateFrom,
		"currentBirthdateToFilter":   spec.BirthdateTo,
		"error":                      errMsg,
		"flashes":                    popFlashes(c),
	})
}

func (h *UserHandler) renderCreate(c *gin.Context, form UserForm, fieldErrors map[string]string, errMsg string) {
	c.HTML(http.StatusOK, "user_create.html", gin.H{
		"form":        form,
		"fieldErrors": fieldErrors,
		"error":       errMsg,
		"flashes":     popFlashes(c),
	})
}

func (h *UserHandler) renderEdit(c *gin.Context, id int64, form UserForm, fieldErrors map[string]string, errMsg string) {
	c.HTML(http.StatusOK, "user_edit.html", gin.H{
		"id":          id,
		"form":        form,
		"fieldErrors": fieldErrors,
		"error":       errMsg,
		"flashes":     popFlashes(c),
	})
}

func (h *UserHandler) redirectToList(c *gin.Context, kind, message string) {
	addFlash(c, kind, message)
	c.Redirect(http.StatusFound, "/users")
}

func showPath(id int64) string {
	return "/users/" + strconv.FormatInt(id, 10)
}

// addFlash stores a one-shot message under the given kind ("success" or
// "error") for display after the next redirect.
func addFlash(c *gin.Context, kind, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, kind)
	if err := session.Save(); err != nil {
		_ = c.Error(err)
	}
}

// popFlashes drains pending flash messages for rendering.
func popFlashes(c *gin.Context) map[string][]any {
	session := sessions.Default(c)
	flashes := map[string][]any{
		"success": session.Flashes("success"),
		"error":   session.Flashes("error"),
	}
	if len(flashes["success"]) > 0 || len(flashes["error"]) > 0 {
		if err := session.Save(); err != nil {
			_ = c.Error(err)
		}
	}
	return flashes
}
