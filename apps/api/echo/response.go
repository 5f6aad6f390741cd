package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taabu/maoni/core/rating"
)

type responseApi struct {
	svc *rating.ResponseService
}

func registerResponseAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *rating.ResponseService) {
	api := responseApi{svc: svc}

	g.GET("/ratings/:id/responses", api.ratingResponses)
	g.POST("/ratings/:id/responses", api.create, jwt, verifiedEmailMiddleware())

	rg := g.Group("/responses", jwt)
	rg.PATCH("/:id", api.update)
	rg.DELETE("/:id", api.delete)
}

func (api *responseApi) ratingResponses(ctx echo.Context) error {
	responses, err := api.svc.RatingResponses(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, responses)
}

func (api *responseApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data rating.NewResponse
	if err = ctx.Bind(&data); err != nil {
		return err
	}
	if err = data.Validate(); err != nil {
		return err
	}

	resp, err := api.svc.Create(ctx.Request().Context(), usr, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, resp)
}

func (api *responseApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data rating.UpdateResponse
	if err = ctx.Bind(&data); err != nil {
		return err
	}
	if err = data.Validate(); err != nil {
		return err
	}

	resp, err := api.svc.Update(ctx.Request().Context(), usr, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *responseApi) delete(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), usr, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
