package controller

import (
	"cortex-analyst-be/internal/pkg/serverutils"
	"cortex-analyst-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFeedbackController interface {
	RegisterRoutes(r fiber.Router)
	Bookmarks(ctx *fiber.Ctx) error
	KeyQuestions(ctx *fiber.Ctx) error
	PopularQuestions(ctx *fiber.Ctx) error
}

type feedbackController struct {
	service service.IFeedbackService
}

func NewFeedbackController(service service.IFeedbackService) IFeedbackController {
	return &feedbackController{service: service}
}

func (c *feedbackController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/apps/:appId")
	h.Get("/bookmarks", c.Bookmarks)
	h.Get("/key-questions", c.KeyQuestions)
	h.Get("/popular-questions", c.PopularQuestions)
}

func (c *feedbackController) Bookmarks(ctx *fiber.Ctx) error {
	appId, err := intParam(ctx, "appId")
	if err != nil {
		return err
	}

	res, err := c.service.Bookmarks(ctx.UserContext(), serverutils.Username(ctx), appId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get bookmarks", res))
}

func (c *feedbackController) KeyQuestions(ctx *fiber.Ctx) error {
	appId, err := intParam(ctx, "appId")
	if err != nil {
		return err
	}

	res, err := c.service.KeyQuestions(ctx.UserContext(), appId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get key questions", res))
}

func (c *feedbackController) PopularQuestions(ctx *fiber.Ctx) error {
	appId, err := intParam(ctx, "appId")
	if err != nil {
		return err
	}

	res, err := c.service.PopularQuestions(ctx.UserContext(), appId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get popular questions", res))
}
