package controller

import (
	"cortex-analyst-be/internal/dto"
	"cortex-analyst-be/internal/pkg/serverutils"
	"cortex-analyst-be/internal/service"
	"cortex-analyst-be/pkg/warehouse"

	"github.com/gofiber/fiber/v2"
)

type IAnalystController interface {
	RegisterRoutes(r fiber.Router)
	ListApps(ctx *fiber.Ctx) error
	Run(ctx *fiber.Ctx) error
	DownloadCSV(ctx *fiber.Ctx) error
}

type analystController struct {
	service service.IAnalystService
}

func NewAnalystController(service service.IAnalystService) IAnalystController {
	return &analystController{service: service}
}

func (c *analystController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/apps")
	h.Get("", c.ListApps)
	h.Post("/:appId/run", c.Run)
	h.Get("/:appId/messages/:index/blocks/:block/csv", c.DownloadCSV)
}

func (c *analystController) ListApps(ctx *fiber.Ctx) error {
	res, err := c.service.ListApps(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get apps", res))
}

func (c *analystController) Run(ctx *fiber.Ctx) error {
	appId, err := intParam(ctx, "appId")
	if err != nil {
		return err
	}

	var req dto.RunRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	view, err := c.service.Run(ctx.UserContext(), serverutils.Username(ctx), appId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success run", view))
}

func (c *analystController) DownloadCSV(ctx *fiber.Ctx) error {
	appId, err := intParam(ctx, "appId")
	if err != nil {
		return err
	}
	messageIndex, err := intParam(ctx, "index")
	if err != nil {
		return err
	}
	blockIndex, err := intParam(ctx, "block")
	if err != nil {
		return err
	}

	cur, err := c.service.OpenResult(ctx.UserContext(), serverutils.Username(ctx), appId, messageIndex, blockIndex)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	ctx.Attachment(warehouse.DownloadFileName)
	return warehouse.WriteCSV(ctx.Response().BodyWriter(), cur)
}

func intParam(ctx *fiber.Ctx, name string) (int, error) {
	v, err := ctx.ParamsInt(name)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return v, nil
}
