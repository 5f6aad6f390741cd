package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taabu/maoni/core/rating"
)

type ratingApi struct {
	svc *rating.Service
}

func registerRatingAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *rating.Service) {
	api := ratingApi{svc: svc}

	og := g.Group("/learning-objects/:cuid/version/:version")
	og.GET("/ratings", api.objectRatings)
	og.POST("/ratings", api.create, jwt, verifiedEmailMiddleware())

	rg := g.Group("/ratings", jwt)
	rg.GET("/:id", api.get)
	rg.PATCH("/:id", api.update)
	rg.DELETE("/:id", api.delete)

	g.GET("/users/:username/ratings", api.userRatings, jwt, selfOrStaffMiddleware())
}

func objectRefParam(ctx echo.Context) (rating.ObjectRef, error) {
	version, err := strconv.Atoi(ctx.Param("version"))
	if err != nil {
		return rating.ObjectRef{}, echo.NewHTTPError(http.StatusBadRequest, "invalid version")
	}
	return rating.ObjectRef{CUID: ctx.Param("cuid"), Version: version}, nil
}

func (api *ratingApi) objectRatings(ctx echo.Context) error {
	ref, err := objectRefParam(ctx)
	if err != nil {
		return err
	}
	grouping, err := api.svc.ObjectRatings(ctx.Request().Context(), ref)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, grouping)
}

func (api *ratingApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	ref, err := objectRefParam(ctx)
	if err != nil {
		return err
	}

	var data rating.NewRating
	if err = ctx.Bind(&data); err != nil {
		return err
	}
	if err = data.Validate(); err != nil {
		return err
	}

	r, err := api.svc.Create(ctx.Request().Context(), usr, ref, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *ratingApi) get(ctx echo.Context) error {
	r, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *ratingApi) update(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data rating.UpdateRating
	if err = ctx.Bind(&data); err != nil {
		return err
	}
	if err = data.Validate(); err != nil {
		return err
	}

	r, err := api.svc.Update(ctx.Request().Context(), usr, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *ratingApi) delete(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), usr, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *ratingApi) userRatings(ctx echo.Context) error {
	ratings, err := api.svc.UserRatings(ctx.Request().Context(), ctx.Param("username"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ratings)
}
