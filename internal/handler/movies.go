package handler

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/moviesearch/internal/model"
	"github.com/user/moviesearch/internal/utils"
)

// ListMovies 电影搜索列表
// GET /api/movies?search=&sort=&sort_order=&limit=&page=
func (h *Handler) ListMovies(c *gin.Context) {
	params, details := h.parseSearchParams(c)
	if len(details) > 0 {
		utils.ValidationError(c, details)
		return
	}

	movies, err := h.Registry.SearchMovies(c.Request.Context(), params)
	if err != nil {
		log.Printf("[ListMovies] 搜索失败: %v", err)
		utils.InternalServerError(c, "")
		return
	}
	if movies == nil {
		movies = []model.ShortMovie{}
	}

	utils.Success(c, movies)
}

// MovieDetail 电影详情
// GET /api/movies/:id
func (h *Handler) MovieDetail(c *gin.Context) {
	id := c.Param("id")

	movie, err := h.Registry.GetMovieByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[MovieDetail] 获取电影 %s 失败: %v", id, err)
		utils.InternalServerError(c, "")
		return
	}
	if movie == nil {
		utils.NotFound(c)
		return
	}

	utils.Success(c, movie)
}

// parseSearchParams 解析并校验查询参数，未传的参数使用默认值
func (h *Handler) parseSearchParams(c *gin.Context) (model.SearchParams, []utils.ErrorDetail) {
	params := model.DefaultSearchParams()
	var details []utils.ErrorDetail

	params.Search = c.Query("search")
	if v, ok := c.GetQuery("sort"); ok {
		params.Sort = v
	}
	if v, ok := c.GetQuery("sort_order"); ok {
		params.SortOrder = v
	}

	intParams := []struct {
		name string
		dst  *int
	}{
		{"limit", &params.Limit},
		{"page", &params.Page},
	}
	for _, p := range intParams {
		v, ok := c.GetQuery(p.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			details = append(details, utils.QueryError(p.name, "Not a valid integer value."))
			continue
		}
		*p.dst = n
	}

	validationDetails, err := h.Validator.ValidateQuery(params)
	if err != nil {
		log.Printf("[ListMovies] 参数校验异常: %v", err)
		details = append(details, utils.QueryError("", "Invalid value."))
	}
	details = append(details, validationDetails...)

	return params, details
}
