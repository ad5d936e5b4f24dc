package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"weather-reporter/internal/job"
)

var validate = validator.New()

// triggerTimeout bounds a manually triggered run.
const triggerTimeout = 10 * time.Minute

// Runner triggers a report run outside the daily schedule.
type Runner interface {
	Run(ctx context.Context) (job.RunResult, error)
}

// History exposes recorded run results.
type History interface {
	Latest() (job.RunResult, error)
	List(limit int) []job.RunResult
}

// RegisterRoutes wires the operational handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, history History, runner Runner) {
	v1 := app.Group("/api/v1")

	v1.Get("/runs/latest", func(c *fiber.Ctx) error {
		res, err := history.Latest()
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "no runs recorded yet")
		}
		return c.JSON(res)
	})

	v1.Get("/runs", func(c *fiber.Ctx) error {
		var q listQuery
		q.Limit = c.QueryInt("limit", 20)
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(fiber.Map{
			"runs": history.List(q.Limit),
		})
	})

	// Manual triggers run synchronously within the request. The job itself
	// rejects overlap, so a daily run in flight yields a conflict here.
	v1.Post("/runs/trigger", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(context.Background(), triggerTimeout)
		defer cancel()

		res, err := runner.Run(ctx)
		if err != nil {
			if errors.Is(err, job.ErrRunInProgress) {
				return fiber.NewError(fiber.StatusConflict, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(res)
	})
}

// listQuery holds query parameters for the run-history endpoint.
type listQuery struct {
	Limit int `validate:"min=1,max=100"`
}
