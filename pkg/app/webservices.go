package app

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// runWebServer starts the applications web server and listens for web requests.
//  It's designed to run in a separate go function to not block the main go function.
//  e.g.: go runWebServer()
//  See app.Run()
func (app *App) runWebServer() {
	err := app.web.Listen(app.urlParsed.Host)
	debug.ErrorLog.Print(err)
}

// HandleData returns the state of both ports after the last rendered frame.
func (app *App) HandleData() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request data")

		s := app.status.Load()
		if s == nil {
			return ctx.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"error": "no frame rendered yet"})
		}
		return ctx.JSON(s)
	}
}

// HandleScreen returns the text of the tile plane.
func (app *App) HandleScreen() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request screen")

		return ctx.SendString(app.plane.String())
	}
}
