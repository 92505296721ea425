package controller

import (
	"context"
	"encoding/json"

	"ai-recipechat-be/internal/dto"
	"ai-recipechat-be/internal/pkg/serverutils"
	"ai-recipechat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type IChefController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type chefController struct {
	chefService service.IChefService
}

func NewChefController(chefService service.IChefService) IChefController {
	return &chefController{
		chefService: chefService,
	}
}

func (c *chefController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chef/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("chat", c.Chat)
	h.Get("history/:session_id", c.History)

	// Streaming endpoint: same pipeline, chunked progress over a websocket.
	h.Use("stream", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	h.Get("stream", websocket.New(c.stream))
}

func (c *chefController) Chat(ctx *fiber.Ctx) error {
	userId, _ := ctx.Locals("user_id").(string)

	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chefService.Chat(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success chat", res))
}

func (c *chefController) History(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("session_id")
	limit := ctx.QueryInt("limit", 20)

	res, err := c.chefService.History(ctx.Context(), sessionId, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

// stream reads one chat request off the socket, relays every pipeline event,
// and closes after the terminal chunk.
func (c *chefController) stream(conn *websocket.Conn) {
	defer conn.Close()

	_, raw, err := conn.ReadMessage()
	if err != nil {
		return
	}

	var req dto.ChatRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		_ = conn.WriteJSON(serverutils.ErrorResponse("Invalid request payload"))
		return
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		_ = conn.WriteJSON(serverutils.ErrorResponse("Validation failed"))
		return
	}

	userId, _ := conn.Locals("user_id").(string)

	events := c.chefService.ChatStream(context.Background(), userId, &req)
	for ev := range events {
		if err := conn.WriteJSON(ev); err != nil {
			// Consumer gone; the emitter drops remaining chunks.
			return
		}
	}
}
