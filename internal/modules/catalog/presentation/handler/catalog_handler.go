package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"shop-recommend-app/internal/logging"
	"shop-recommend-app/internal/modules/catalog/domain"
	"shop-recommend-app/internal/modules/catalog/usecase"
	"shop-recommend-app/internal/presentation/http/response"
)

// CatalogHandler 商品カタログのハンドラー
type CatalogHandler struct {
	catalogUseCase *usecase.CatalogUseCase
}

// NewCatalogHandler 新しいCatalogHandlerを作成
func NewCatalogHandler(catalogUseCase *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{catalogUseCase: catalogUseCase}
}

// ProductListResponse 商品一覧レスポンス
type ProductListResponse struct {
	Productos []*domain.Product `json:"productos"`
	Status    string            `json:"status"`
}

// ProductResponse 商品レスポンス
type ProductResponse struct {
	Producto *domain.Product `json:"producto"`
	Status   string          `json:"status"`
}

// HandleList 商品一覧を返す
func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		response.Error(w, http.StatusBadRequest, response.MsgInvalidParameter)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		response.Error(w, http.StatusBadRequest, response.MsgInvalidParameter)
		return
	}

	products, err := h.catalogUseCase.List(r.Context(), limit, offset)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to list products")
		response.Error(w, http.StatusInternalServerError, response.MsgInternalError)
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}

	response.JSON(w, http.StatusOK, ProductListResponse{Productos: products, Status: response.StatusSuccess})
}

// HandleGet 商品詳細を返す
func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, response.MsgInvalidParameter)
		return
	}

	product, err := h.catalogUseCase.Get(r.Context(), id)
	if errors.Is(err, domain.ErrProductNotFound) {
		response.Error(w, http.StatusNotFound, response.MsgNotFound)
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Int64("product_id", id).Msg("Failed to get product")
		response.Error(w, http.StatusInternalServerError, response.MsgInternalError)
		return
	}

	response.JSON(w, http.StatusOK, ProductResponse{Producto: product, Status: response.StatusSuccess})
}

// queryInt クエリパラメータを整数として読む（未指定は0）
func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
