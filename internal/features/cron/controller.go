package cron_feature

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

type CronController struct {
	Service CronService
}

func NewCronController(service CronService) *CronController {
	return &CronController{
		Service: service,
	}
}

func (c *CronController) CreateCronJob(ctx *fiber.Ctx) error {
	var cronJob CronJob
	if err := ctx.BodyParser(&cronJob); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ctxt, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.Service.CreateCronJob(ctxt, &cronJob); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(cronJob)
}

func (c *CronController) ListCronJobs(ctx *fiber.Ctx) error {
	filter := make(map[string]interface{})

	if active := ctx.Query("active"); active != "" {
		filter["active"] = active == "true"
	}

	if task := ctx.Query("task"); task != "" {
		filter["task"] = task
	}

	ctxt, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cronJobs, err := c.Service.ListCronJobs(ctxt, filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(cronJobs)
}

func (c *CronController) GetCronJob(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	ctxt, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cronJob, err := c.Service.GetCronJob(ctxt, id)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if cronJob == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Cron job not found"})
	}

	return ctx.JSON(cronJob)
}

func (c *CronController) UpdateCronJob(ctx *fiber.Ctx) error {
	var cronJob CronJob
	if err := ctx.BodyParser(&cronJob); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ctxt, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.Service.UpdateCronJob(ctxt, &cronJob); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(cronJob)
}

func (c *CronController) DeleteCronJob(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	ctxt, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Service.DeleteCronJob(ctxt, id); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *CronController) ExecuteCronJob(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	ctxt, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := c.Service.ExecuteCronJob(ctxt, id); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"message": "Cron job executed successfully"})
}

func (c *CronController) GetCronJobLogs(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	limit := ctx.QueryInt("limit", 50)

	ctxt, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logs, err := c.Service.GetCronJobLogs(ctxt, id, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(logs)
}
