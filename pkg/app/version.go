package app

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// VERSION holds the version information with the following logic in mind
//  0 ... major
//  1 ... minor
//  0 ... patch
//  the date after the + is the release date
//
// VERSION differs from semantic versioning as described in https://semver.org/
// but we keep the correct syntax.
const (
	VERSION = "0.1.0+20261001"
	MODULE  = "ctrltest"
)

// HandleVersion is the get application version web handler.
func (app *App) HandleVersion() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request version")

		return ctx.JSON(fiber.Map{
			"version":     VERSION,
			"description": MODULE,
			"about":       Version(),
		})
	}
}

// Version is the get application version as string.
func Version() string {
	return strings.TrimSpace(MODULE + " V" + strings.Split(VERSION, "+")[0])
}

// ScreenVersion is the version shown in the screen header, e.g. v0.1.
func ScreenVersion() string {
	v := strings.Split(strings.Split(VERSION, "+")[0], ".")
	if len(v) > 2 {
		v = v[:2]
	}
	return "v" + strings.Join(v, ".")
}
