package handler

import (
	"net/http"

	"github.com/oakmill/taskman/internal/ctxkeys"
	"github.com/oakmill/taskman/internal/repository"
	"github.com/oakmill/taskman/internal/service"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var body struct {
		Description string `json:"description"`
		Completed   bool   `json:"completed"`
	}
	err := decodeBody(r, &body)
	if err != nil {
		respondError(w, err)
		return
	}

	task, err := h.taskService.Create(user.ID, body.Description, body.Completed)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// List supports ?completed=bool, ?sortBy=field:direction, ?limit=n, ?skip=n.
// Results are always scoped to the acting user.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	q := r.URL.Query()
	params := repository.ParseTaskListParams(
		q.Get("completed"),
		q.Get("sortBy"),
		q.Get("limit"),
		q.Get("skip"),
	)

	tasks, err := h.taskService.Tasks(user.ID, params)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) ByID(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	task, err := h.taskService.ByID(user.ID, r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var updates map[string]any
	err := decodeBody(r, &updates)
	if err != nil {
		respondError(w, err)
		return
	}

	task, err := h.taskService.Update(user.ID, r.PathValue("id"), updates)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	task, err := h.taskService.Delete(user.ID, r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}
