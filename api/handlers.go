package api

import (
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"kanban-api/domain"
	"kanban-api/usecase"
)

// requestBodyMaxSize bounds request payloads. The largest legitimate body is
// a task description plus a handful of subtasks, far below this.
const requestBodyMaxSize = 1 << 20

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, svc Service, auth Authenticator, issuer TokenIssuer, logger *log.Logger) {
	e.POST("/api/sign-up", signUp(svc, issuer))
	e.POST("/api/sign-in", signIn(svc, issuer))

	e.GET("/api/boards", getBoards(svc, auth, logger))
	e.POST("/api/boards", postBoard(svc, auth))
	e.GET("/api/boards/:boardId", getBoard(svc, auth))
	e.PUT("/api/boards/:boardId", putBoard(svc, auth))
	e.DELETE("/api/boards/:boardId", deleteBoard(svc, auth))

	e.GET("/api/boards/:boardId/columns", getColumns(svc, auth))
	e.POST("/api/boards/:boardId/columns", postColumn(svc, auth))

	e.GET("/api/columns/:columnId/tasks", getColumnTasks(svc, auth))
	e.POST("/api/columns/:columnId/tasks", postTask(svc, auth))

	e.GET("/api/tasks/:taskId", getTask(svc, auth))
	e.PATCH("/api/tasks/:taskId", patchTask(svc, auth))
	e.PATCH("/api/tasks/:taskId/move", patchTaskMove(svc, auth))
	e.DELETE("/api/tasks/:taskId", deleteTask(svc, auth))

	e.GET("/api/tasks/:taskId/subtasks", getSubtasks(svc, auth))
	e.POST("/api/tasks/:taskId/subtasks", postSubtask(svc, auth))
	e.PATCH("/api/subtasks/:subtaskId", patchSubtask(svc, auth))
	e.DELETE("/api/subtasks/:subtaskId", deleteSubtask(svc, auth))

	e.GET("/healthz", healthz())
}

// TokenIssuer mints tokens for the sign-up and sign-in responses. Nil when
// tokens come from an external identity provider instead.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

func decodeBody(c echo.Context, out any) error {
	lr := io.LimitReader(c.Request().Body, requestBodyMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, messageResponse{Error: "invalid body"})
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

type signUpRequest struct {
	Email    string  `json:"email"`
	Password *string `json:"password"`
}

type authResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token,omitempty"`
}

func signUp(svc Service, issuer TokenIssuer) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body signUpRequest
		if err := decodeBody(c, &body); err != nil {
			return invalidBody(c)
		}
		res, err := svc.CreateUser(c.Request().Context(), usecase.CreateUserRequest{
			Email:    body.Email,
			Password: body.Password,
		})
		if err != nil {
			return writeError(c, err)
		}
		resp := authResponse{User: res.User}
		if issuer != nil {
			token, err := issuer.Issue(res.User.ID)
			if err != nil {
				return writeError(c, err)
			}
			resp.Token = token
		}
		status := http.StatusCreated
		if res.AlreadyExisted {
			status = http.StatusOK
		}
		return c.JSON(status, resp)
	}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func signIn(svc Service, issuer TokenIssuer) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body signInRequest
		if err := decodeBody(c, &body); err != nil {
			return invalidBody(c)
		}
		user, err := svc.SignIn(c.Request().Context(), usecase.SignInRequest{
			Email:    body.Email,
			Password: body.Password,
		})
		if err != nil {
			return writeError(c, err)
		}
		resp := authResponse{User: *user}
		if issuer != nil {
			token, err := issuer.Issue(user.ID)
			if err != nil {
				return writeError(c, err)
			}
			resp.Token = token
		}
		return c.JSON(http.StatusOK, resp)
	}
}

type boardsResponse struct {
	Boards []domain.Board `json:"boards"`
}

// getBoards is the hottest read of the API and carries the full metrics
// instrumentation.
func getBoards(svc Service, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		metrics, spanCtx := newRequestMetrics(ctx, logger, "/api/boards")
		if spanCtx != nil {
			c.SetRequest(c.Request().WithContext(spanCtx))
			ctx = spanCtx
		}
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		authStart := time.Now()
		userID, authErr := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		metrics.ObserveAuth(time.Since(authStart))
		if authErr != nil {
			metrics.SetErrorStage("auth")
			err = c.JSON(http.StatusUnauthorized, messageResponse{Error: authErr.Error()})
			return err
		}

		workStart := time.Now()
		boards, listErr := svc.GetBoards(ctx, usecase.GetBoardsRequest{UserID: userID})
		metrics.ObserveWork(time.Since(workStart))
		if listErr != nil {
			metrics.SetErrorStage("usecase")
			err = writeError(c, listErr)
			return err
		}
		metrics.SetItemsReturned(len(boards))

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, boardsResponse{Boards: boards})
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

type createBoardRequest struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

type boardResponse struct {
	Board   domain.Board         `json:"board"`
	Columns []domain.BoardColumn `json:"columns"`
}

func postBoard(svc Service, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, messageResponse{Error: err.Error()})
		}
		var body createBoardRequest
		if err := decodeBody(c, &body); err != nil {
			return invalidBody(c)
		}
		res, err := svc.CreateBoard(c.Request().Context(), usecase.CreateBoardRequest{
			UserID:  userID,
			Name:    body.Name,
			Columns: body.Columns,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusCreated, boardResponse{Board: res.Board, Columns: res.Columns})
	}
}

func getBoard(svc Service, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, messageResponse{Error: err.Error()})
		}
		board, err := svc.GetBoard(c.Request().Context(), usecase.GetBoardRequest{
			UserID:  userID,
			BoardID: c.Param("boardId"),
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, board)
	}
}

type updateBoardColumnRequest struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

type updateBoardRequest struct {
	Name    string                     `json:"name"`
	Columns []updateBoardColumnRequest `json:"columns"`
}

func putBoard(svc Service, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, messageResponse{Error: err.Error()})
		}
		var body updateBoardRequest
		if err := decodeBody(c, &body); err != nil {
			return invalidBody(c)
		}
		columns := make([]usecase.UpdateBoardColumn, 0, len(body.Columns))
		for _, col := range body.Columns {
			columns = append(columns, usecase.UpdateBoardColumn{ID: col.ID, Name: col.Name})
		}
		res, err := svc.UpdateBoard(c.Request().Context(), usecase.UpdateBoardRequest{
			UserID:  userID,
			BoardID: c.Param("boardId"),
			Name:    body.Name,
			Columns: columns,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, boardResponse{Board: res.Board, Columns: res.Columns})
	}
}

func deleteBoard(svc Service, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, messageResponse{Error: err.Error()})
		}
		if err := svc.DeleteBoard(c.Request().Context(), usecase.DeleteBoardRequest{
			UserID:  userID,
			BoardID: c.Param("boardId"),
		}); err != nil {
			return writeError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

type columnsResponse struct {
	Columns []domain.BoardColumn `json:"columns"`
}

func getColumns(svc Service, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, messageResponse{Error: err.Error()})
		}
		columns, err := svc.GetColumns(c.Request().Context(), usecase.GetColumnsRequest{
			UserID:  userID,
			BoardID: c.Param("boardId"),
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, columnsResponse{Columns: columns})
	}
}

type createColumnRequest struct {
	Name string `json:"name"`
}

func postColumn(svc Service, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, messageResponse{Error: err.Error()})
		}
		var body createColumnRequest
		if err := decodeBody(c, &body); err != nil {
			return invalidBody(c)
		}
		column, err := svc.CreateColumn(c.Request().Context(), usecase.CreateColumnRequest{
			UserID:     userID,
			BoardID:    c.Param("boardId"),
			ColumnName: body.Name,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusCreated, column)
	}
}

type tasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

func getColumnTasks(svc Service, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, messageResponse{Error: err.Error()})
		}
		tasks, err := svc.GetColumnTasks(c.Request().Context(), usecase.GetColumnTasksRequest{
			UserID:   userID,
			ColumnID: c.Param("columnId"),
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
	}
}

type createTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Subtasks    []string `json:"subtasks"`
}

type taskResponse struct {
	Task     domain.Task      `json:"task"`
	Subtasks []domain.Subtask `json:"subtasks"`
}

func postTask(svc Service, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, messageResponse{Error: err.Error()})
		}
		var body createTaskRequest
		if err := decodeBody(c, &body); err != nil {
			return invalidBody(c)
		}
		res, err := svc.CreateTask(c.Request().Context(), usecase.CreateTaskRequest{
			UserID:      userID,
			ColumnID:    c.Param("columnId"),
			Title:       body.Title,
			Description: body.Description,
			Subtasks:    body.Subtasks,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusCreated, taskResponse{Task: res.Task, Subtasks: res.Subtasks})
	}
}

func getTask(svc Service, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, messageResponse{Error: err.Error()})
		}
		task, err := svc.GetTask(c.Request().Context(), usecase.GetTaskRequest{
			UserID: userID,
			TaskID: c.Param("taskId"),
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, task)
	}
}

type updateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func patchTask(svc Service, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, messageResponse{Error: err.Error()})
		}
		var body updateTaskRequest
		if err := decodeBody(c, &body); err != nil {
			return invalidBody(c)
		}
		task, err := svc.UpdateTask(c.Request().Context(), usecase.UpdateTaskRequest{
			UserID:      userID,
			TaskID:      c.Param("taskId"),
			Title:       body.Title,
			Description: body.Description,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, task)
	}
}

type moveTaskRequest struct {
	ColumnID string `json:"columnId"`
}

func patchTaskMove(svc Service, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, messageResponse{Error: err.Error()})
		}
		var body moveTaskRequest
		if err := decodeBody(c, &body); err != nil {
			return invalidBody(c)
		}
		task, err := svc.MoveTask(c.Request().Context(), usecase.MoveTaskRequest{
			UserID:     userID,
			TaskID:     c.Param("taskId"),
			ToColumnID: body.ColumnID,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, task)
	}
}

func deleteTask(svc Service, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, messageResponse{Error: err.Error()})
		}
		if err := svc.DeleteTask(c.Request().Context(), usecase.DeleteTaskRequest{
			UserID: userID,
			TaskID: c.Param("taskId"),
		}); err != nil {
			return writeError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

type subtasksResponse struct {
	Subtasks []domain.Subtask `json:"subtasks"`
}

func getSubtasks(svc Service, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, messageResponse{Error: err.Error()})
		}
		subtasks, err := svc.GetSubtasks(c.Request().Context(), usecase.GetSubtasksRequest{
			UserID: userID,
			TaskID: c.Param("taskId"),
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, subtasksResponse{Subtasks: subtasks})
	}
}

type createSubtaskRequest struct {
	Description string `json:"description"`
}

func postSubtask(svc Service, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, messageResponse{Error: err.Error()})
		}
		var body createSubtaskRequest
		if err := decodeBody(c, &body); err != nil {
			return invalidBody(c)
		}
		subtask, err := svc.CreateSubtask(c.Request().Context(), usecase.CreateSubtaskRequest{
			UserID:      userID,
			TaskID:      c.Param("taskId"),
			Description: body.Description,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusCreated, subtask)
	}
}

type updateSubtaskRequest struct {
	Status string `json:"status"`
}

func patchSubtask(svc Service, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, messageResponse{Error: err.Error()})
		}
		var body updateSubtaskRequest
		if err := decodeBody(c, &body); err != nil {
			return invalidBody(c)
		}
		subtask, err := svc.UpdateSubtaskStatus(c.Request().Context(), usecase.UpdateSubtaskStatusRequest{
			UserID:    userID,
			SubtaskID: c.Param("subtaskId"),
			Status:    domain.SubtaskStatus(body.Status),
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, subtask)
	}
}

func deleteSubtask(svc Service, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, messageResponse{Error: err.Error()})
		}
		if err := svc.DeleteSubtask(c.Request().Context(), usecase.DeleteSubtaskRequest{
			UserID:    userID,
			SubtaskID: c.Param("subtaskId"),
		}); err != nil {
			return writeError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
