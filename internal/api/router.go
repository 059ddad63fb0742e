package api

import (
	"database/sql"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskdesk/internal/api/handlers"
	"github.com/TWRT/taskdesk/internal/api/middleware"
	"github.com/TWRT/taskdesk/internal/config"
	"github.com/TWRT/taskdesk/internal/logger"
	"github.com/TWRT/taskdesk/internal/repository"
	"github.com/TWRT/taskdesk/internal/service"
)

func SetupRouter(db *sql.DB, cfg *config.Config, log logrus.FieldLogger) http.Handler {
	log = logger.OrDiscard(log)
	mux := http.NewServeMux()

	taskRepo := repository.NewTaskRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	tagRepo := repository.NewTagRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	progressService := service.NewProgressService(
		progressRepo,
		cfg.Gamification.XPByPriority,
		log,
	)
	badgeService := service.NewBadgeService(
		repository.NewBadgeRepository(db),
		statsRepo,
		progressService,
		log,
	)
	taskService := service.NewTaskService(
		taskRepo,
		progressService,
		badgeService,
		log,
	)
	projectService := service.NewProjectService(projectRepo, taskRepo)
	tagService := service.NewTagService(tagRepo, taskRepo)
	subtaskService := service.NewSubtaskService(repository.NewSubtaskRepository(db), taskRepo)
	templateService := service.NewTemplateService(repository.NewTemplateRepository(db), taskService)
	pomodoroService := service.NewPomodoroService(repository.NewPomodoroRepository(db), taskRepo, log)
	statsService := service.NewStatsService(statsRepo)

	taskHandler := handlers.NewTaskHandler(taskService)
	projectHandler := handlers.NewProjectHandler(projectService)
	tagHandler := handlers.NewTagHandler(tagService)
	progressHandler := handlers.NewProgressHandler(progressService)
	subtaskHandler := handlers.NewSubtaskHandler(subtaskService)
	templateHandler := handlers.NewTemplateHandler(templateService)
	pomodoroHandler := handlers.NewPomodoroHandler(pomodoroService)
	insightsHandler := handlers.NewInsightsHandler(statsService, badgeService)

	mux.HandleFunc("GET /tasks", taskHandler.ListTasks)
	mux.HandleFunc("POST /tasks", taskHandler.CreateTask)
	mux.HandleFunc("GET /tasks/{id}", taskHandler.GetTask)
	mux.HandleFunc("PATCH /tasks/{id}", taskHandler.UpdateTask)
	mux.HandleFunc("DELETE /tasks/{id}", taskHandler.DeleteTask)
	mux.HandleFunc("POST /tasks/{id}/toggle", taskHandler.ToggleComplete)

	mux.HandleFunc("GET /tasks/{id}/tags", tagHandler.ListTaskTags)
	mux.HandleFunc("POST /tasks/{id}/tags/{tagId}", tagHandler.AddTagToTask)
	mux.HandleFunc("DELETE /tasks/{id}/tags/{tagId}", tagHandler.RemoveTagFromTask)

	mux.HandleFunc("GET /tasks/{id}/subtasks", subtaskHandler.ListSubtasks)
	mux.HandleFunc("POST /tasks/{id}/subtasks", subtaskHandler.AddSubtask)
	mux.HandleFunc("PATCH /subtasks/{id}", subtaskHandler.UpdateSubtask)
	mux.HandleFunc("DELETE /subtasks/{id}", subtaskHandler.DeleteSubtask)

	mux.HandleFunc("GET /templates", templateHandler.ListTemplates)
	mux.HandleFunc("POST /templates", templateHandler.CreateTemplate)
	mux.HandleFunc("GET /templates/{id}", templateHandler.GetTemplate)
	mux.HandleFunc("PATCH /templates/{id}", templateHandler.UpdateTemplate)
	mux.HandleFunc("DELETE /templates/{id}", templateHandler.DeleteTemplate)
	mux.HandleFunc("POST /templates/{id}/tasks", templateHandler.CreateTaskFromTemplate)

	mux.HandleFunc("GET /projects", projectHandler.ListProjects)
	mux.HandleFunc("POST /projects", projectHandler.CreateProject)
	mux.HandleFunc("DELETE /projects/{id}", projectHandler.DeleteProject)

	mux.HandleFunc("GET /tags", tagHandler.ListTags)
	mux.HandleFunc("POST /tags", tagHandler.CreateTag)
	mux.HandleFunc("DELETE /tags/{id}", tagHandler.DeleteTag)

	mux.HandleFunc("GET /progress", progressHandler.GetProgress)

	mux.HandleFunc("POST /pomodoro/sessions", pomodoroHandler.LogSession)
	mux.HandleFunc("GET /pomodoro/stats", pomodoroHandler.Stats)
	mux.HandleFunc("GET /pomodoro/daily", pomodoroHandler.Daily)
	mux.HandleFunc("GET /pomodoro/streak", pomodoroHandler.Streak)
	mux.HandleFunc("GET /pomodoro/focus-times", pomodoroHandler.FocusTimes)
	mux.HandleFunc("GET /pomodoro/task-rates", pomodoroHandler.TaskRates)

	mux.HandleFunc("GET /stats", insightsHandler.Stats)
	mux.HandleFunc("GET /badges", insightsHandler.ListBadges)
	mux.HandleFunc("POST /badges/check", insightsHandler.CheckBadges)

	mux.Handle("GET /metrics", middleware.MetricsHandler())

	return middleware.Logging(log)(middleware.Metrics(mux))
}
