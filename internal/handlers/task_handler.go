package handlers

import (
	"errors"
	"fmt"
	"log"

	"taskhub/internal/middleware"
	"taskhub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// TaskHandler handles the task list, creation, edit and delete pages.
type TaskHandler struct {
	taskService *services.TaskService
	validate    *validator.Validate
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the task routes. Every route requires a session.
func (h *TaskHandler) RegisterRoutes(router fiber.Router, requireUser fiber.Handler) {
	router.Get("/tasks", requireUser, h.HandleListTasks)
	router.Get("/task/new", requireUser, h.ShowNewTask)
	router.Post("/task/new", requireUser, h.HandleCreateTask)
	router.Get("/task/:id/edit", requireUser, h.ShowEditTask)
	router.Post("/task/:id/edit", requireUser, h.HandleUpdateTask)
	router.Post("/task/:id/delete", requireUser, h.HandleDeleteTask)
}

// HandleListTasks renders the caller's task list.
func (h *TaskHandler) HandleListTasks(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)
	tasks, err := h.taskService.ListTasks(user)
	if err != nil {
		return h.taskError(c, err)
	}
	return render(c, "tasks", fiber.Map{
		"Title": "My Tasks",
		"Tasks": tasks,
	})
}

// ShowNewTask renders the empty task form.
func (h *TaskHandler) ShowNewTask(c *fiber.Ctx) error {
	return render(c, "task_form", fiber.Map{
		"Title":  "New Task",
		"Action": "/task/new",
		"Form":   &TaskForm{},
	})
}

// HandleCreateTask creates a task owned by the caller.
func (h *TaskHandler) HandleCreateTask(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)

	var form TaskForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing task form: %v", err)
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form submission")
	}

	if ve := validateForm(h.validate, &form); ve != nil {
		return render(c, "task_form", fiber.Map{
			"Title":  "New Task",
			"Action": "/task/new",
			"Form":   &form,
			"Errors": ve.Fields,
		})
	}

	if _, err := h.taskService.CreateTask(user, form.Title, form.Description); err != nil {
		if ve, ok := services.AsValidationError(err); ok {
			return render(c, "task_form", fiber.Map{
				"Title":  "New Task",
				"Action": "/task/new",
				"Form":   &form,
				"Errors": ve.Fields,
			})
		}
		return h.taskError(c, err)
	}

	setFlash(c, "success", "Your task has been created!")
	return c.Redirect("/tasks", fiber.StatusSeeOther)
}

// ShowEditTask renders the task form prefilled with an existing task. Only
// the owner gets the form; everyone else sees 404 or 403.
func (h *TaskHandler) ShowEditTask(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)

	task, err := h.taskService.GetEditableTask(user, c.Params("id"))
	if err != nil {
		return h.taskError(c, err)
	}

	return render(c, "task_form", fiber.Map{
		"Title":  "Edit Task",
		"Action": fmt.Sprintf("/task/%s/edit", task.ID),
		"Form":   &TaskForm{Title: task.Title, Description: task.Description},
	})
}

// HandleUpdateTask overwrites the title and description of the caller's task.
func (h *TaskHandler) HandleUpdateTask(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)
	taskID := c.Params("id")

	var form TaskForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing task form: %v", err)
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form submission")
	}

	if ve := validateForm(h.validate, &form); ve != nil {
		return render(c, "task_form", fiber.Map{
			"Title":  "Edit Task",
			"Action": fmt.Sprintf("/task/%s/edit", taskID),
			"Form":   &form,
			"Errors": ve.Fields,
		})
	}

	if _, err := h.taskService.UpdateTask(user, taskID, form.Title, form.Description); err != nil {
		if ve, ok := services.AsValidationError(err); ok {
			return render(c, "task_form", fiber.Map{
				"Title":  "Edit Task",
				"Action": fmt.Sprintf("/task/%s/edit", taskID),
				"Form":   &form,
				"Errors": ve.Fields,
			})
		}
		return h.taskError(c, err)
	}

	setFlash(c, "success", "Your task has been updated!")
	return c.Redirect("/tasks", fiber.StatusSeeOther)
}

// HandleDeleteTask permanently removes the caller's task.
func (h *TaskHandler) HandleDeleteTask(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)

	if err := h.taskService.DeleteTask(user, c.Params("id")); err != nil {
		return h.taskError(c, err)
	}

	setFlash(c, "success", "Your task has been deleted!")
	return c.Redirect("/tasks", fiber.StatusSeeOther)
}

// taskError translates service failures into HTTP outcomes.
func (h *TaskHandler) taskError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Task not found")
	case errors.Is(err, services.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, "You do not have permission to modify this task")
	case errors.Is(err, services.ErrUnauthenticated):
		return c.Redirect("/login", fiber.StatusSeeOther)
	default:
		log.Printf("Task operation failed: %v", err)
		return fiber.ErrInternalServerError
	}
}
