package service

import (
	"context"
	"sync"
	"time"

	"github.com/kevinluo6191/XDNMB/internal/core/config"
	"github.com/kevinluo6191/XDNMB/internal/model"
	"github.com/kevinluo6191/XDNMB/internal/pkg/timefmt"
	"github.com/kevinluo6191/XDNMB/internal/repository"

	"golang.org/x/sync/singleflight"
)

// ForumAPI 远端论坛 API
// cookie is the raw userhash token, empty for anonymous requests.
type ForumAPI interface {
	GetForumList(ctx context.Context) ([]model.ForumGroup, error)
	GetTimeLine(ctx context.Context, page int64) ([]model.Thread, error)
	GetThreadList(ctx context.Context, cookie string, fid, page int64) ([]model.Thread, error)
	GetReply(ctx context.Context, cookie string, threadID, page int64) (*model.Thread, error)
}

// Cache resources guarded by XdSDK.locks
const (
	resForum    = "forum"
	resTimeline = "timeline"
	resHistory  = "history"
	resCookie   = "cookie"
)

// defaultFetchTimeout bounds a shared fetch when the API timeout is unset.
const defaultFetchTimeout = 30 * time.Second

// XdSDK 数据门面：读缓存 -> 请求 API -> 写缓存 -> 读缓存
type XdSDK struct {
	api       ForumAPI
	forums    repository.ForumRepository
	timeline  repository.TimelineRepository
	threads   repository.ThreadRepository
	history   repository.HistoryRepository
	cookies   repository.CookieRepository
	names     *ForumNameCache
	formatter *timefmt.Formatter
	imageCDN  string

	sf           singleflight.Group
	locks        *resourceLocks
	fetchTimeout time.Duration
	now          func() time.Time
}

// NewXdSDK 创建 XdSDK 实例
func NewXdSDK(api ForumAPI, repos *repository.Repositories, names *ForumNameCache, cfg *config.APIConfig) *XdSDK {
	attempts := cfg.Attempts
	if attempts < 1 {
		attempts = 1
	}
	// every attempt plus one more timeout for the cache legs
	fetchTimeout := cfg.GetTimeout() * time.Duration(attempts+1)
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}

	return &XdSDK{
		api:       api,
		forums:    repos.Forum,
		timeline:  repos.Timeline,
		threads:   repos.Thread,
		history:   repos.History,
		cookies:   repos.Cookie,
		names:     names,
		formatter: timefmt.New(),
		imageCDN:  cfg.CDNURL,
		locks:     newResourceLocks(),
		now:       time.Now,

		fetchTimeout: fetchTimeout,
	}
}

// shared runs fn once per key for every concurrent caller. fn gets a context
// detached from any single caller and bounded by fetchTimeout; each caller
// still returns as soon as its own ctx is done.
func (s *XdSDK) shared(ctx context.Context, key string, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	ch := s.sf.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		return fn(fetchCtx)
	})

	select {
	case r := <-ch:
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ImgToURL 图片地址，isThumb 时取缩略图
func (s *XdSDK) ImgToURL(img, ext string, isThumb bool) string {
	imageType := "image/"
	if isThumb {
		imageType = "thumb/"
	}
	return s.imageCDN + imageType + img + ext
}

// FormatTime 相对时间
func (s *XdSDK) FormatTime(originalTime string, inThread bool) (string, error) {
	return s.formatter.Format(originalTime, inThread)
}

// Names 版块名缓存
func (s *XdSDK) Names() *ForumNameCache {
	return s.names
}

// resourceLocks serializes fetch sequences per cache table.
type resourceLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newResourceLocks() *resourceLocks {
	return &resourceLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock blocks until key is free and returns its unlock func.
func (l *resourceLocks) Lock(key string) func() {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Results of a shared fetch go to several callers; each gets its own copy.

func cloneThreads(in []model.Thread) []model.Thread {
	if in == nil {
		return nil
	}
	out := make([]model.Thread, len(in))
	copy(out, in)
	for i := range out {
		out[i].Replies = cloneThreads(out[i].Replies)
	}
	return out
}

func cloneThread(in *model.Thread) *model.Thread {
	if in == nil {
		return nil
	}
	out := *in
	out.Replies = cloneThreads(in.Replies)
	return &out
}

func cloneGroups(in []model.ForumGroup) []model.ForumGroup {
	if in == nil {
		return nil
	}
	out := make([]model.ForumGroup, len(in))
	copy(out, in)
	for i := range out {
		out[i].Forums = append([]model.Forum(nil), in[i].Forums...)
	}
	return out
}
