package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mogud/snowdi/core/host"
	"github.com/mogud/snowdi/core/injection"
	"github.com/mogud/snowdi/core/logging"
	"github.com/mogud/snowdi/core/option"
	snowsync "github.com/mogud/snowdi/core/sync"
	"github.com/mogud/snowdi/core/task"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const requestScopeKey = "snow.scope"

type routeKey struct {
	method string
	path   string
}

type fastHttpSrvMux struct {
	mu sync.RWMutex

	handlers map[routeKey]fasthttp.RequestHandler
	fallback fasthttp.RequestHandler
}

func newFastHttpSrvMux() *fastHttpSrvMux {
	return &fastHttpSrvMux{
		handlers: make(map[routeKey]fasthttp.RequestHandler),
	}
}

func (ss *fastHttpSrvMux) Register(method, path string, handler fasthttp.RequestHandler) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.handlers[routeKey{method: method, path: path}] = handler
}

func (ss *fastHttpSrvMux) SetFallback(handler fasthttp.RequestHandler) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.fallback = handler
}

func (ss *fastHttpSrvMux) Match(method, path string) fasthttp.RequestHandler {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	if h, ok := ss.handlers[routeKey{method: method, path: path}]; ok {
		return h
	}
	return ss.fallback
}

type IHttpServer interface {
	HandleRequest(pattern string, handler fasthttp.RequestHandler)
	HandleRequestMethod(pattern string, method string, handler fasthttp.RequestHandler)
	Run(handler fasthttp.RequestHandler)
	GetPort() int
	OnReady(cb func())
}

type Option struct {
	Host             string   `snow:"Host"`
	MinPort          int      `snow:"MinPort"`
	MaxPort          int      `snow:"MaxPort"`
	KeepAliveSeconds int      `snow:"KeepAliveSeconds"`
	TimeoutSeconds   int      `snow:"TimeoutSeconds"`
	EnableWhiteList  bool     `snow:"EnableWhiteList"`
	WhiteList        []string `snow:"WhiteList"`
	UncheckedPath    []string `snow:"UncheckedPath"`
	Debug            bool     `snow:"Debug"`
}

// Startup 服务启动时调用 Configure 注册路由
type Startup struct {
	Configure func(server *Server)
}

var _ IHttpServer = (*Server)(nil)
var _ host.IHostedRoutine = (*Server)(nil)

// Server 基于 fasthttp 的 http 服务，每个请求在独立的 routine scope 中处理，请求结束时释放
type Server struct {
	opt      *Option
	logger   logging.ILogger
	provider injection.IRoutineProvider
	port     int
	started  atomic.Bool

	lock     sync.Mutex
	listener net.Listener
	srv      *fasthttp.Server
	ready    []func()

	srvMux *fastHttpSrvMux
}

func (ss *Server) Construct(opt *option.Option[*Option], logger *logging.Logger[Server], provider injection.IRoutineProvider) {
	ss.logger = logger.Get(func(data *logging.LogData) {
		data.Name = "HttpServer"
		data.ID = fmt.Sprintf("%p", ss)
	})
	ss.provider = provider.GetRootScope().GetProvider()

	ss.opt = opt.Get()
	if len(ss.opt.Host) == 0 {
		ss.opt.Host = "0.0.0.0"
	}
	if ss.opt.MinPort == 0 {
		ss.opt.MinPort = 10000
	}
	if ss.opt.MaxPort == 0 {
		ss.opt.MaxPort = 10099
	}
	if ss.opt.KeepAliveSeconds == 0 {
		ss.opt.KeepAliveSeconds = 60
	}
	if ss.opt.TimeoutSeconds == 0 {
		ss.opt.TimeoutSeconds = 5
	}

	ss.srvMux = newFastHttpSrvMux()
}

// UseListener 使用指定的 listener 代替端口监听，必须在 Start 之前调用
func (ss *Server) UseListener(listener net.Listener) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.listener = listener
}

func (ss *Server) Start(ctx context.Context, wg *snowsync.TimeoutWaitGroup) {
	wg.Add(1)
	defer wg.Done()

	if startup, err := injection.TryGetRoutine[*Startup](ss.provider); err == nil && startup.Configure != nil {
		startup.Configure(ss)
	}

	if ss.opt.Debug {
		ss.HandleRequestMethod("/debug/pprof/", http.MethodGet, fasthttpadaptor.NewFastHTTPHandlerFunc(pprof.Index))
		ss.HandleRequestMethod("/debug/pprof/profile", http.MethodGet, fasthttpadaptor.NewFastHTTPHandlerFunc(pprof.Profile))
		ss.HandleRequestMethod("/gc", http.MethodGet, ss.gc)
	}

	listener, err := ss.listen(ctx)
	if err != nil {
		ss.logger.Fatalf("http listen failed: %v", err)
		return
	}

	srv := &fasthttp.Server{
		IdleTimeout:  time.Duration(ss.opt.KeepAliveSeconds) * time.Second,
		ReadTimeout:  time.Duration(ss.opt.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(ss.opt.TimeoutSeconds) * time.Second,
		Handler:      ss.serve,
	}

	ss.lock.Lock()
	ss.srv = srv
	ready := ss.ready
	ss.ready = nil
	ss.started.Store(true)
	ss.lock.Unlock()

	task.Execute(func() {
		ss.logger.Infof("http server listen at %s", listener.Addr())
		if err := srv.Serve(listener); err != nil {
			ss.logger.Errorf("serve: %+v", err)
		}
	})

	for _, cb := range ready {
		cb()
	}
}

func (ss *Server) Stop(ctx context.Context, wg *snowsync.TimeoutWaitGroup) {
	wg.Add(1)
	defer wg.Done()

	ss.lock.Lock()
	srv := ss.srv
	ss.srv = nil
	ss.lock.Unlock()

	if srv == nil {
		return
	}
	if err := srv.ShutdownWithContext(ctx); err != nil {
		ss.logger.Warnf("http server shutdown: %v", err)
	}
}

func (ss *Server) listen(ctx context.Context) (net.Listener, error) {
	ss.lock.Lock()
	listener := ss.listener
	ss.lock.Unlock()
	if listener != nil {
		return listener, nil
	}

	var err error
	listenConfig := &net.ListenConfig{KeepAlive: time.Duration(ss.opt.KeepAliveSeconds) * time.Second}
	for ss.port = ss.opt.MinPort; ss.port <= ss.opt.MaxPort; ss.port++ {
		listener, err = listenConfig.Listen(ctx, "tcp", ss.opt.Host+":"+strconv.Itoa(ss.port))
		if err == nil {
			return listener, nil
		}
	}
	ss.port = 0
	return nil, err
}

// AddWhiteListIP 添加白名单 ip，不支持启动后调用
func (ss *Server) AddWhiteListIP(ip string) {
	ss.opt.WhiteList = append(ss.opt.WhiteList, ip)
}

func (ss *Server) GetPort() int {
	return ss.port
}

func (ss *Server) OnReady(callback func()) {
	ss.lock.Lock()
	if !ss.started.Load() {
		ss.ready = append(ss.ready, callback)
		ss.lock.Unlock()
		return
	}
	ss.lock.Unlock()

	callback()
}

func (ss *Server) HandleRequestMethod(pattern string, method string, handler fasthttp.RequestHandler) {
	ss.srvMux.Register(method, pattern, handler)
}

func (ss *Server) HandleRequest(pattern string, handler fasthttp.RequestHandler) {
	ss.HandleRequestMethod(pattern, http.MethodPost, handler)
}

// Run 设置终结处理器，未匹配任何路由的请求都交给它处理
func (ss *Server) Run(handler fasthttp.RequestHandler) {
	ss.srvMux.SetFallback(handler)
}

func (ss *Server) serve(ctx *fasthttp.RequestCtx) {
	scope := ss.provider.CreateScope()
	ctx.SetUserValue(requestScopeKey, scope)
	logger := ss.logger.With(func(data *logging.LogData) {
		data.ID = scope.GetID()
	})
	defer func() {
		if err := scope.Dispose(); err != nil {
			logger.Errorf("dispose request scope: %v", err)
		}
	}()

	path := string(ctx.Path())
	if ss.opt.EnableWhiteList && !ss.isUnchecked(path) && !ss.isInWhiteList(ctx.RemoteIP().String()) {
		if ss.opt.Debug {
			logger.Warnf("http request remote(%v) not in white list", ctx.RemoteAddr())
		}
		ctx.Error("forbidden", http.StatusForbidden)
		return
	}

	handler := ss.srvMux.Match(string(ctx.Method()), path)
	if handler == nil {
		if ss.opt.Debug {
			logger.Warnf("http request(%s) of url(%s) not found", ctx.RemoteAddr(), ctx.Path())
		}
		ctx.Error("not found", http.StatusNotFound)
		return
	}
	handler(ctx)
}

func (ss *Server) isUnchecked(path string) bool {
	for _, s := range ss.opt.UncheckedPath {
		if s == path {
			return true
		}
	}
	return false
}

func (ss *Server) isInWhiteList(ip string) bool {
	for _, s := range ss.opt.WhiteList {
		if s == ip {
			return true
		}
	}
	return false
}

// 手动GC
func (ss *Server) gc(ctx *fasthttp.RequestCtx) {
	debug.FreeOSMemory()
	_, _ = ctx.WriteString("force gc and free os memory executed")
}

// GetRequestScope 返回当前请求所在的 routine scope
func GetRequestScope(ctx *fasthttp.RequestCtx) injection.IRoutineScope {
	scope, _ := ctx.UserValue(requestScopeKey).(injection.IRoutineScope)
	return scope
}

// GetRequestRoutine 从当前请求的 scope 中获取 routine
func GetRequestRoutine[T any](ctx *fasthttp.RequestCtx) (T, error) {
	scope := GetRequestScope(ctx)
	if scope == nil {
		var zero T
		return zero, fmt.Errorf("no routine scope bound to request %v", string(ctx.Path()))
	}
	return injection.TryGetRoutine[T](scope.GetProvider())
}

// AddServer 注册 http 服务，configure 在服务启动时调用
func AddServer(builder host.IBuilder, configure func(server *Server)) {
	host.AddOption[*Option](builder, "Http")
	host.AddSingletonFactory[*Startup](builder, func(scope injection.IRoutineScope) *Startup {
		return &Startup{Configure: configure}
	})
	host.AddHostedRoutine[*Server](builder)
}
