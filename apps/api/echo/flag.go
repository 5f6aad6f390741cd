package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taabu/maoni/core/rating"
)

type flagApi struct {
	svc *rating.FlagService
}

func registerFlagAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *rating.FlagService) {
	api := flagApi{svc: svc}

	g.POST("/ratings/:id/flags", api.create, jwt, verifiedEmailMiddleware())

	// moderation surface: staff only
	staff := []echo.MiddlewareFunc{jwt, staffMiddleware()}
	g.GET("/flags", api.all, staff...)
	g.GET("/users/:username/flags", api.userFlags, staff...)
	g.GET("/learning-objects/:cuid/version/:version/flags", api.objectFlags, staff...)
	g.GET("/ratings/:id/flags", api.ratingFlags, staff...)
	g.DELETE("/flags/:id", api.delete, staff...)
}

func (api *flagApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data rating.NewFlag
	if err = ctx.Bind(&data); err != nil {
		return err
	}
	if err = data.Validate(); err != nil {
		return err
	}

	f, err := api.svc.Flag(ctx.Request().Context(), usr, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, f)
}

func (api *flagApi) all(ctx echo.Context) error {
	flags, err := api.svc.All(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, flags)
}

func (api *flagApi) userFlags(ctx echo.Context) error {
	flags, err := api.svc.UserFlags(ctx.Request().Context(), ctx.Param("username"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, flags)
}

func (api *flagApi) objectFlags(ctx echo.Context) error {
	ref, err := objectRefParam(ctx)
	if err != nil {
		return err
	}
	flags, err := api.svc.ObjectFlags(ctx.Request().Context(), ref)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, flags)
}

func (api *flagApi) ratingFlags(ctx echo.Context) error {
	flags, err := api.svc.RatingFlags(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, flags)
}

func (api *flagApi) delete(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
