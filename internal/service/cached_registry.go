package service

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/user/moviesearch/internal/model"
	"github.com/user/moviesearch/internal/utils"
	"golang.org/x/sync/singleflight"
)

// CachedRegistry 为 MovieRegistry 增加缓存，并合并并发的相同请求
type CachedRegistry struct {
	next     MovieRegistry
	searches *utils.SearchCache[[]model.ShortMovie]
	details  *cache.Cache
	sf       singleflight.Group
}

// NewCachedRegistry 创建带缓存的查询服务；ttl <= 0 时直接返回 next
func NewCachedRegistry(next MovieRegistry, size int, ttl time.Duration) MovieRegistry {
	if ttl <= 0 {
		return next
	}
	return &CachedRegistry{
		next:     next,
		searches: utils.NewSearchCache[[]model.ShortMovie](size, ttl),
		details:  utils.NewDetailCache(ttl),
	}
}

// GetMovieByID 详情缓存；未找到的结果不缓存
func (r *CachedRegistry) GetMovieByID(ctx context.Context, id string) (*model.Movie, error) {
	if v, ok := r.details.Get(id); ok {
		return v.(*model.Movie), nil
	}

	val, err, _ := r.sf.Do("detail:"+id, func() (interface{}, error) {
		return r.next.GetMovieByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	movie, _ := val.(*model.Movie)
	if movie != nil {
		r.details.SetDefault(id, movie)
	}
	return movie, nil
}

// SearchMovies 搜索结果缓存
func (r *CachedRegistry) SearchMovies(ctx context.Context, params model.SearchParams) ([]model.ShortMovie, error) {
	key := searchKey(params)
	if movies, ok := r.searches.Get(key); ok {
		return movies, nil
	}

	val, err, _ := r.sf.Do(key, func() (interface{}, error) {
		return r.next.SearchMovies(ctx, params)
	})
	if err != nil {
		return nil, err
	}
	movies := val.([]model.ShortMovie)
	r.searches.Set(key, movies)
	return movies, nil
}

func searchKey(p model.SearchParams) string {
	return fmt.Sprintf("search:%q:%s:%s:%d:%d", p.Search, p.Sort, p.SortOrder, p.Limit, p.Page)
}
