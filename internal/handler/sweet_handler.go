package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/config"
	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/middleware"
	repo "github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/repository"
	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// usecaseのエラーをHTTPステータスに変換する。
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	var insufficient *repo.InsufficientStockError
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.As(err, &insufficient):
		//在庫不足は409。現在の在庫数をメッセージに含める。
		return c.JSON(http.StatusConflict, ErrorResponse{Error: insufficient.Error()})
	case errors.Is(err, repo.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	//500。内部事情は漏らさない。
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// /api/sweets のAPI
type SweetHandler struct {
	uc *usecase.SweetUsecase
}

// DI
func NewSweetHandler(uc *usecase.SweetUsecase) *SweetHandler {
	return &SweetHandler{uc: uc}
}

// ルートを登録。全部ログイン必須、削除と補充はADMINだけ。
func (h *SweetHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repo.UserRepository) {
	g := e.Group("/api/sweets")

	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))

	g.GET("", h.list)
	g.GET("/search", h.search)
	g.GET("/:id", h.detail)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.POST("/:id/purchase", h.purchase)

	g.DELETE("/:id", h.delete, middleware.AdminRoleGuard())
	g.POST("/:id/restock", h.restock, middleware.AdminRoleGuard())
}

// 作成・更新のリクエストボディ。
type SweetRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	Description string          `json:"description"`
}

// 購入・補充のリクエストボディ。
type QuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

func (h *SweetHandler) list(c echo.Context) error {
	in, err := parseListInput(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	out, err := h.uc.ListSweets(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// /search は一覧と同じ入力で、フィルタ前提のエイリアス。
func (h *SweetHandler) search(c echo.Context) error {
	return h.list(c)
}

func (h *SweetHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	s, err := h.uc.GetSweet(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, s)
}

func (h *SweetHandler) create(c echo.Context) error {
	var req SweetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	s, err := h.uc.CreateSweet(c.Request().Context(), usecase.SweetInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, s)
}

func (h *SweetHandler) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req SweetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	s, err := h.uc.UpdateSweet(c.Request().Context(), id, usecase.SweetInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, s)
}

func (h *SweetHandler) delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteSweet(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *SweetHandler) purchase(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req QuantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	s, err := h.uc.Purchase(c.Request().Context(), id, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, s)
}

func (h *SweetHandler) restock(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req QuantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	s, err := h.uc.Restock(c.Request().Context(), id, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, s)
}

// queryパラメータを読み取る
func parseListInput(c echo.Context) (usecase.ListSweetsInput, error) {
	in := usecase.ListSweetsInput{
		Page:     1,
		Limit:    20,
		Name:     c.QueryParam("name"),
		Category: c.QueryParam("category"),
		Sort:     c.QueryParam("sort"),
	}

	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return in, errors.New("invalid page")
		}
		in.Page = p
	}

	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return in, errors.New("invalid limit")
		}
		in.Limit = l
	}

	if v := c.QueryParam("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return in, errors.New("invalid min_price")
		}
		in.MinPrice = &d
	}

	if v := c.QueryParam("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return in, errors.New("invalid max_price")
		}
		in.MaxPrice = &d
	}

	return in, nil
}

//middleware.AuthJWTがc.Set("user_id", int64)した値を取り出す

func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	if v == nil {
		return 0, false
	}

	id, ok := v.(int64)
	if !ok {
		return 0, false
	}

	return id, true
}
